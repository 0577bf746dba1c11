// Package tui is a live terminal view of the daemon: per-desktop window
// histories, refreshed over IPC, with desktop switching from the keyboard.
package tui

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/deskfocus/internal/ipc"
)

// DefaultRefresh is how often the view polls the daemon.
const DefaultRefresh = time.Second

// Client is the subset of the IPC client the view uses.
type Client interface {
	GetStatus() (*ipc.StatusData, error)
	GetHistory(desktop *uint32) (*ipc.HistoryData, error)
	SwitchDesktop(desktop uint32, requestWM bool) (*ipc.SwitchDesktopData, error)
}

// Run opens the full-screen view and blocks until the user quits.
func Run(client Client, refresh time.Duration) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	if client == nil {
		client = ipc.NewClient()
	}

	p := tea.NewProgram(newModel(client, refresh), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
