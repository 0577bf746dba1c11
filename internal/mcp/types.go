package mcp

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	State              string `json:"state"`
	CurrentDesktop     uint32 `json:"current_desktop"`
	HistorySize        int    `json:"history_size"`
	DesktopCount       int    `json:"desktop_count"`
	UptimeSeconds      int64  `json:"uptime_seconds"`
	EventsRecorded     uint64 `json:"events_recorded"`
	EventsDropped      uint64 `json:"events_dropped"`
	Switches           uint64 `json:"switches"`
	Activations        uint64 `json:"activations"`
	ActivationFailures uint64 `json:"activation_failures"`
}

// GetHistoryInput is the input for the get_history tool.
type GetHistoryInput struct {
	Desktop *uint32 `json:"desktop,omitempty" jsonschema:"Optional desktop index. When omitted every tracked desktop is returned."`
}

// WindowEntry is one remembered window.
type WindowEntry struct {
	ID    uint64 `json:"id"`
	Title string `json:"title,omitempty"`
}

// DesktopEntry is the history of one desktop, most recent window first.
type DesktopEntry struct {
	Desktop uint32        `json:"desktop"`
	Current bool          `json:"current"`
	Windows []WindowEntry `json:"windows"`
}

// GetHistoryOutput is the output for the get_history tool.
type GetHistoryOutput struct {
	CurrentDesktop uint32         `json:"current_desktop"`
	Desktops       []DesktopEntry `json:"desktops"`
}

// SwitchDesktopInput is the input for the switch_desktop tool.
type SwitchDesktopInput struct {
	Desktop   uint32 `json:"desktop" jsonschema:"required,Desktop index that is now current"`
	RequestWM bool   `json:"request_wm,omitempty" jsonschema:"When true, also ask the window manager to switch to the desktop (default: false)"`
}

// SwitchDesktopOutput is the output for the switch_desktop tool.
type SwitchDesktopOutput struct {
	Desktop   uint32 `json:"desktop"`
	Activated bool   `json:"activated"`
	Window    uint64 `json:"window,omitempty"`
	Title     string `json:"title,omitempty"`
	WMError   string `json:"wm_error,omitempty"`
}
