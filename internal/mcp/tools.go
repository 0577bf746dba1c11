package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, fmt.Errorf("get_status: %w", err)
	}

	return nil, GetStatusOutput{
		State:              status.State,
		CurrentDesktop:     status.CurrentDesktop,
		HistorySize:        status.HistorySize,
		DesktopCount:       status.DesktopCount,
		UptimeSeconds:      status.UptimeSeconds,
		EventsRecorded:     status.Stats.EventsRecorded,
		EventsDropped:      status.Stats.EventsDropped,
		Switches:           status.Stats.Switches,
		Activations:        status.Stats.Activations,
		ActivationFailures: status.Stats.ActivationFailures,
	}, nil
}

func (s *Server) handleGetHistory(_ context.Context, _ *mcpsdk.CallToolRequest, args GetHistoryInput) (*mcpsdk.CallToolResult, GetHistoryOutput, error) {
	data, err := s.daemon.GetHistory(args.Desktop)
	if err != nil {
		return nil, GetHistoryOutput{}, fmt.Errorf("get_history: %w", err)
	}

	out := GetHistoryOutput{
		CurrentDesktop: data.CurrentDesktop,
		Desktops:       make([]DesktopEntry, 0, len(data.Desktops)),
	}
	for _, d := range data.Desktops {
		entry := DesktopEntry{
			Desktop: d.Desktop,
			Current: d.Current,
			Windows: make([]WindowEntry, 0, len(d.Windows)),
		}
		for _, w := range d.Windows {
			entry.Windows = append(entry.Windows, WindowEntry{ID: w.ID, Title: w.Title})
		}
		out.Desktops = append(out.Desktops, entry)
	}
	return nil, out, nil
}

func (s *Server) handleSwitchDesktop(_ context.Context, _ *mcpsdk.CallToolRequest, args SwitchDesktopInput) (*mcpsdk.CallToolResult, SwitchDesktopOutput, error) {
	data, err := s.daemon.SwitchDesktop(args.Desktop, args.RequestWM)
	if err != nil {
		return nil, SwitchDesktopOutput{}, fmt.Errorf("switch_desktop to %d: %w", args.Desktop, err)
	}

	return nil, SwitchDesktopOutput{
		Desktop:   data.Desktop,
		Activated: data.Activated,
		Window:    data.Window,
		Title:     data.Title,
		WMError:   data.WMError,
	}, nil
}
