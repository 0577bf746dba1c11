package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/1broseidon/deskfocus/internal/config"
	"github.com/1broseidon/deskfocus/internal/ipc"
)

func TestParseDesktop(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"0", 0, false},
		{"7", 7, false},
		{"4294967295", 4294967295, false},
		{"-1", 0, true},
		{"4294967296", 0, true},
		{"two", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseDesktop(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseDesktop(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDesktop(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	printHistory(&buf, &ipc.HistoryData{
		CurrentDesktop: 1,
		Desktops: []ipc.DesktopHistory{
			{Desktop: 0, Windows: []ipc.WindowInfo{{ID: 0x1a}}},
			{Desktop: 1, Current: true, Windows: []ipc.WindowInfo{{ID: 0x2b, Title: "editor"}, {ID: 0x1c}}},
			{Desktop: 4},
		},
	})

	want := strings.Join([]string{
		"desktop 0:",
		"  1. 0x1a",
		"desktop 1 (current):",
		"  1. 0x2b  editor",
		"  2. 0x1c",
		"desktop 4:",
		"  (empty)",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("printHistory output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	printHistory(&buf, &ipc.HistoryData{})
	if got := buf.String(); got != "no windows recorded\n" {
		t.Fatalf("printHistory output = %q", got)
	}
}

func TestPrintSwitch(t *testing.T) {
	tests := []struct {
		name string
		data ipc.SwitchDesktopData
		want string
	}{
		{"no history", ipc.SwitchDesktopData{Desktop: 2}, "desktop 2: no window to restore\n"},
		{"untitled", ipc.SwitchDesktopData{Desktop: 1, Activated: true, Window: 0x40}, "desktop 1: activated 0x40\n"},
		{"titled", ipc.SwitchDesktopData{Desktop: 1, Activated: true, Window: 0x40, Title: "mail"}, "desktop 1: activated 0x40 (mail)\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printSwitch(&buf, &tt.data)
			if got := buf.String(); got != tt.want {
				t.Fatalf("printSwitch = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceFile, File: "/c.yaml", Line: 3, Column: 1}, "file:/c.yaml:3:1"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml"}, "file:/c.yaml"},
		{config.Source{Kind: config.SourceEnv, Name: "DESKFOCUS_HISTORY_SIZE"}, "env:DESKFOCUS_HISTORY_SIZE"},
		{config.Source{Kind: config.SourceDefault, Name: "defaults"}, "default:defaults"},
		{config.Source{Kind: config.SourceDefault}, "default"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Errorf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	printStatus(&buf, &ipc.StatusData{
		State:          "active",
		CurrentDesktop: 3,
		DaemonRunning:  true,
		Stats:          ipc.StatsData{EventsDropped: 2},
	})
	out := buf.String()
	for _, want := range []string{"state:               active\n", "current_desktop:     3\n", "events_dropped:      2\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintMCPTools(t *testing.T) {
	var buf bytes.Buffer
	printMCPTools(&buf)

	out := buf.String()
	for _, name := range []string{"get_status\n", "get_history\n", "switch_desktop\n"} {
		if !strings.Contains(out, name) {
			t.Errorf("tool list missing %q:\n%s", strings.TrimSpace(name), out)
		}
	}
	if strings.Index(out, "get_status") > strings.Index(out, "switch_desktop") {
		t.Errorf("tools not in registration order:\n%s", out)
	}
}
