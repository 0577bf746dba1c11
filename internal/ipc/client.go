package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/deskfocus/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client for the default socket path
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for an explicit socket path.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// GetHistory retrieves window histories. A nil desktop returns every desktop.
func (c *Client) GetHistory(desktop *uint32) (*HistoryData, error) {
	payload, err := json.Marshal(HistoryPayload{Desktop: desktop})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history payload: %w", err)
	}

	resp, err := c.sendRequest(&Request{
		Command: CommandGetHistory,
		Payload: payload,
	})
	if err != nil {
		return nil, err
	}

	var data HistoryData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse history data: %w", err)
	}
	return &data, nil
}

// SwitchDesktop reports a desktop switch to the daemon. With requestWM the
// daemon also asks the window manager to switch.
func (c *Client) SwitchDesktop(desktop uint32, requestWM bool) (*SwitchDesktopData, error) {
	payload, err := json.Marshal(SwitchDesktopPayload{
		Desktop:   desktop,
		RequestWM: requestWM,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal switch payload: %w", err)
	}

	resp, err := c.sendRequest(&Request{
		Command: CommandSwitchDesktop,
		Payload: payload,
	})
	if err != nil {
		return nil, err
	}

	var data SwitchDesktopData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse switch data: %w", err)
	}
	return &data, nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
