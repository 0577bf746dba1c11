package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/deskfocus/internal/ipc"
)

const (
	ServerName    = "deskfocus"
	ServerVersion = "0.1.0"
)

// Daemon is the subset of the IPC client the tools call.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	GetHistory(desktop *uint32) (*ipc.HistoryData, error)
	SwitchDesktop(desktop uint32, requestWM bool) (*ipc.SwitchDesktopData, error)
}

var _ Daemon = (*ipc.Client)(nil)

// Server exposes the running daemon to MCP clients over stdio.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
}

// NewServer creates an MCP server backed by the daemon's IPC socket. A nil
// daemon uses the default socket path.
func NewServer(daemon Daemon) *Server {
	if daemon == nil {
		daemon = ipc.NewClient()
	}

	s := &Server{
		mcpServer: mcpsdk.NewServer(&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		}, nil),
		daemon: daemon,
	}
	s.registerTools()
	return s
}

// Run serves MCP over stdin/stdout until the client disconnects or ctx ends.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

var (
	getStatusTool = &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report the deskfocus daemon state: lifecycle state, current virtual desktop, history size, tracked desktop count and event counters.",
	}
	getHistoryTool = &mcpsdk.Tool{
		Name:        "get_history",
		Description: "List remembered foreground windows per virtual desktop, most recent first. Pass desktop to limit the result to one desktop.",
	}
	switchDesktopTool = &mcpsdk.Tool{
		Name:        "switch_desktop",
		Description: "Tell deskfocus that the given virtual desktop is now current and re-activate the window last used there. Set request_wm to also ask the window manager to change desktops.",
	}
)

// Tools returns the tools the server registers, in registration order.
func Tools() []*mcpsdk.Tool {
	return []*mcpsdk.Tool{getStatusTool, getHistoryTool, switchDesktopTool}
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, getStatusTool, s.handleGetStatus)
	mcpsdk.AddTool(s.mcpServer, getHistoryTool, s.handleGetHistory)
	mcpsdk.AddTool(s.mcpServer, switchDesktopTool, s.handleSwitchDesktop)
}
