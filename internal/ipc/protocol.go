package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus     CommandType = "GET_STATUS"
	CommandGetHistory    CommandType = "GET_HISTORY"
	CommandSwitchDesktop CommandType = "SWITCH_DESKTOP"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatsData mirrors the tracker counters.
type StatsData struct {
	EventsRecorded     uint64 `json:"events_recorded"`
	EventsDropped      uint64 `json:"events_dropped"`
	Switches           uint64 `json:"switches"`
	Activations        uint64 `json:"activations"`
	ActivationFailures uint64 `json:"activation_failures"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	State          string    `json:"state"`
	CurrentDesktop uint32    `json:"current_desktop"`
	HistorySize    int       `json:"history_size"`
	DesktopCount   int       `json:"desktop_count"`
	UptimeSeconds  int64     `json:"uptime_seconds"`
	DaemonRunning  bool      `json:"daemon_running"`
	Stats          StatsData `json:"stats"`
}

// HistoryPayload selects one desktop for GET_HISTORY. A nil Desktop returns
// every desktop.
type HistoryPayload struct {
	Desktop *uint32 `json:"desktop,omitempty"`
}

// WindowInfo describes one remembered window.
type WindowInfo struct {
	ID    uint64 `json:"id"`
	Title string `json:"title,omitempty"`
}

// DesktopHistory is the window history of one desktop, most recent first.
type DesktopHistory struct {
	Desktop uint32       `json:"desktop"`
	Current bool         `json:"current"`
	Windows []WindowInfo `json:"windows"`
}

// HistoryData represents the data returned by GET_HISTORY
type HistoryData struct {
	CurrentDesktop uint32           `json:"current_desktop"`
	Desktops       []DesktopHistory `json:"desktops"`
}

// SwitchDesktopPayload represents the payload for SWITCH_DESKTOP.
type SwitchDesktopPayload struct {
	Desktop uint32 `json:"desktop"`
	// RequestWM also asks the window manager to change desktops. Without it
	// only the tracker is told, e.g. when the switch already happened.
	RequestWM bool `json:"request_wm,omitempty"`
}

// SwitchDesktopData represents the result of SWITCH_DESKTOP.
type SwitchDesktopData struct {
	Desktop   uint32 `json:"desktop"`
	Activated bool   `json:"activated"`
	Window    uint64 `json:"window,omitempty"`
	Title     string `json:"title,omitempty"`
	// WMError is set when the window manager request failed; the tracker
	// switch still happened.
	WMError string `json:"wm_error,omitempty"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
