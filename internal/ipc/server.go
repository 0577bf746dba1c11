package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/1broseidon/deskfocus/internal/platform"
	"github.com/1broseidon/deskfocus/internal/runtimepath"
	"github.com/1broseidon/deskfocus/internal/tracker"
)

// Tracker is the tracker surface the server exposes.
type Tracker interface {
	Snapshot() tracker.Snapshot
	SwitchDesktop(desktop platform.DesktopID) (platform.WindowID, bool)
	Title(window platform.WindowID) string
}

// DesktopRequester asks the window manager to change desktops.
type DesktopRequester interface {
	RequestDesktop(desktop platform.DesktopID) error
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	tracker      Tracker
	desktops     DesktopRequester
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server on the default socket path. desktops may
// be nil when the platform cannot switch desktops.
func NewServer(tr Tracker, desktops DesktopRequester) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerAt(socketPath, tr, desktops), nil
}

// NewServerAt creates a new IPC server listening on socketPath.
func NewServerAt(socketPath string, tr Tracker, desktops DesktopRequester) *Server {
	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		tracker:    tr,
		desktops:   desktops,
		startTime:  time.Now(),
	}
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(10 * time.Second))

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetHistory:
		return s.handleGetHistory(req.Payload)
	case CommandSwitchDesktop:
		return s.handleSwitchDesktop(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// handleGetStatus returns current daemon status
func (s *Server) handleGetStatus() *Response {
	snap := s.tracker.Snapshot()

	uptime := time.Since(s.startTime)
	if !snap.StartedAt.IsZero() {
		uptime = time.Since(snap.StartedAt)
	}

	status := StatusData{
		State:          snap.State.String(),
		CurrentDesktop: uint32(snap.CurrentDesktop),
		HistorySize:    snap.HistorySize,
		DesktopCount:   len(snap.Histories),
		UptimeSeconds:  int64(uptime.Seconds()),
		DaemonRunning:  true,
		Stats: StatsData{
			EventsRecorded:     snap.Stats.EventsRecorded,
			EventsDropped:      snap.Stats.EventsDropped,
			Switches:           snap.Stats.Switches,
			Activations:        snap.Stats.Activations,
			ActivationFailures: snap.Stats.ActivationFailures,
		},
	}

	resp, _ := NewOKResponse(status)
	return resp
}

// handleGetHistory returns the window history of one or all desktops
func (s *Server) handleGetHistory(payload json.RawMessage) *Response {
	var req HistoryPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid history payload: %v", err))
		}
	}

	snap := s.tracker.Snapshot()
	data := HistoryData{
		CurrentDesktop: uint32(snap.CurrentDesktop),
		Desktops:       []DesktopHistory{},
	}

	desktops := make([]platform.DesktopID, 0, len(snap.Histories))
	if req.Desktop != nil {
		desktops = append(desktops, platform.DesktopID(*req.Desktop))
	} else {
		for desktop := range snap.Histories {
			desktops = append(desktops, desktop)
		}
		slices.Sort(desktops)
	}

	for _, desktop := range desktops {
		windows := snap.Histories[desktop]
		entry := DesktopHistory{
			Desktop: uint32(desktop),
			Current: desktop == snap.CurrentDesktop,
			Windows: make([]WindowInfo, 0, len(windows)),
		}
		for _, window := range windows {
			entry.Windows = append(entry.Windows, WindowInfo{
				ID:    uint64(window),
				Title: s.tracker.Title(window),
			})
		}
		data.Desktops = append(data.Desktops, entry)
	}

	resp, _ := NewOKResponse(data)
	return resp
}

// handleSwitchDesktop tells the tracker about a desktop switch, optionally
// asking the window manager to perform it first
func (s *Server) handleSwitchDesktop(payload json.RawMessage) *Response {
	var req SwitchDesktopPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid switch payload: %v", err))
	}
	desktop := platform.DesktopID(req.Desktop)

	data := SwitchDesktopData{Desktop: req.Desktop}
	if req.RequestWM {
		var err error
		if s.desktops == nil {
			err = platform.ErrUnsupported
		} else {
			err = s.desktops.RequestDesktop(desktop)
		}
		if err != nil {
			log.Printf("IPC: desktop %d request failed: %v", req.Desktop, err)
			data.WMError = err.Error()
		}
	}

	window, activated := s.tracker.SwitchDesktop(desktop)
	data.Activated = activated
	if activated {
		data.Window = uint64(window)
		data.Title = s.tracker.Title(window)
	}

	resp, _ := NewOKResponse(data)
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop shuts down the IPC server and removes the socket.
func (s *Server) Stop() error {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	var err error
	if s.listener != nil {
		if cerr := s.listener.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
			err = fmt.Errorf("failed to close IPC listener: %w", cerr)
		}
	}
	if rerr := os.Remove(s.socketPath); rerr != nil && !os.IsNotExist(rerr) && err == nil {
		err = fmt.Errorf("failed to remove IPC socket: %w", rerr)
	}
	return err
}
