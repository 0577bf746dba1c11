package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/deskfocus/internal/ipc"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	windowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	topWindowStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))
)

// renderStatusBar renders the daemon connection and counter summary.
func renderStatusBar(status *ipc.StatusData, connected bool, width int) string {
	var text string
	if connected && status != nil {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		parts := []string{
			dot + " " + status.State,
			fmt.Sprintf("desktop:%d", status.CurrentDesktop),
			fmt.Sprintf("history:%d", status.HistorySize),
			fmt.Sprintf("events:%d", status.Stats.EventsRecorded),
		}
		if status.Stats.EventsDropped > 0 {
			parts = append(parts, fmt.Sprintf("dropped:%d", status.Stats.EventsDropped))
		}
		if status.Stats.ActivationFailures > 0 {
			parts = append(parts, fmt.Sprintf("failed:%d", status.Stats.ActivationFailures))
		}
		text = strings.Join(parts, "  ")
	} else {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		text = dot + " daemon not running"
	}

	return lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1).
		Render(text)
}

// renderHelpBar renders the bottom help/keybinding bar.
func renderHelpBar(width int) string {
	help := "↑/↓: select desktop  enter: switch  r: refresh  q/ctrl-c: quit"
	return lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1).
		Render(help)
}

// renderWindows renders one desktop's history, most recent first.
func renderWindows(d *ipc.DesktopHistory, width int) string {
	if d == nil {
		return dimStyle.Render(" no desktop selected")
	}

	header := fmt.Sprintf(" desktop %d", d.Desktop)
	if d.Current {
		header += " (current)"
	}
	lines := []string{titleStyle.Render(header), ""}
	if len(d.Windows) == 0 {
		lines = append(lines, dimStyle.Render(" no windows recorded"))
	}
	for i, w := range d.Windows {
		line := fmt.Sprintf(" %d. 0x%x", i+1, w.ID)
		if w.Title != "" {
			line += "  " + w.Title
		}
		if width > 0 && lipgloss.Width(line) > width {
			line = truncate(line, width)
		}
		if i == 0 {
			lines = append(lines, topWindowStyle.Render(line))
		} else {
			lines = append(lines, windowStyle.Render(line))
		}
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if width <= 1 || len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
