package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/deskfocus/internal/ipc"
)

// desktopItem implements list.Item for the desktop sidebar.
type desktopItem struct {
	history ipc.DesktopHistory
}

func (i desktopItem) Title() string {
	prefix := "  "
	if i.history.Current {
		prefix = "* "
	}
	return fmt.Sprintf("%sdesktop %d", prefix, i.history.Desktop)
}

func (i desktopItem) Description() string {
	n := len(i.history.Windows)
	switch {
	case n == 0:
		return "  empty"
	case i.history.Windows[0].Title != "":
		return fmt.Sprintf("  %d · %s", n, i.history.Windows[0].Title)
	default:
		return fmt.Sprintf("  %d · 0x%x", n, i.history.Windows[0].ID)
	}
}

func (i desktopItem) FilterValue() string { return fmt.Sprint(i.history.Desktop) }

// snapshotMsg carries one refresh from the daemon.
type snapshotMsg struct {
	status  *ipc.StatusData
	history *ipc.HistoryData
	err     error
}

// switchedMsg is sent after a SWITCH_DESKTOP request completes.
type switchedMsg struct {
	desktop uint32
	data    *ipc.SwitchDesktopData
	err     error
}

type tickMsg time.Time

// clearStatusMsg clears the status message after a delay.
type clearStatusMsg struct{}

// model is the root bubbletea model.
type model struct {
	client  Client
	refresh time.Duration

	list      list.Model
	status    *ipc.StatusData
	desktops  []ipc.DesktopHistory
	connected bool
	lastError string

	statusText string

	width  int
	height int
}

func newModel(client Client, refresh time.Duration) model {
	if refresh <= 0 {
		refresh = DefaultRefresh
	}

	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Desktops"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return model{
		client:  client,
		refresh: refresh,
		list:    l,
	}
}

func (m model) fetch() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		status, err := client.GetStatus()
		if err != nil {
			return snapshotMsg{err: err}
		}
		history, err := client.GetHistory(nil)
		if err != nil {
			return snapshotMsg{err: err}
		}
		return snapshotMsg{status: status, history: history}
	}
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) switchTo(desktop uint32) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		data, err := client.SwitchDesktop(desktop, true)
		return switchedMsg{desktop: desktop, data: data, err: err}
	}
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(m.fetch(), m.tick())
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			return m, m.fetch()
		case "enter":
			d := m.selected()
			if d == nil || !m.connected {
				return m, nil
			}
			return m, m.switchTo(d.Desktop)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.sidebarWidth(), m.contentHeight())
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.fetch(), m.tick())

	case snapshotMsg:
		if msg.err != nil {
			m.connected = false
			m.status = nil
			m.lastError = msg.err.Error()
			return m, nil
		}
		m.connected = true
		m.lastError = ""
		m.status = msg.status
		return m, m.setDesktops(msg.history.Desktops)

	case switchedMsg:
		switch {
		case msg.err != nil:
			m.statusText = fmt.Sprintf("switch to %d failed: %v", msg.desktop, msg.err)
		case msg.data.WMError != "":
			m.statusText = fmt.Sprintf("desktop %d: window manager error: %s", msg.desktop, msg.data.WMError)
		case msg.data.Activated:
			m.statusText = fmt.Sprintf("desktop %d: activated 0x%x", msg.desktop, msg.data.Window)
		default:
			m.statusText = fmt.Sprintf("desktop %d: no window to restore", msg.desktop)
		}
		return m, tea.Batch(m.fetch(), clearStatusAfter(3*time.Second))

	case clearStatusMsg:
		m.statusText = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// setDesktops replaces the sidebar items and keeps the selected desktop
// selected when it is still present.
func (m *model) setDesktops(desktops []ipc.DesktopHistory) tea.Cmd {
	var keep *uint32
	if d := m.selected(); d != nil {
		id := d.Desktop
		keep = &id
	}

	m.desktops = desktops
	items := make([]list.Item, 0, len(desktops))
	for _, d := range desktops {
		items = append(items, desktopItem{history: d})
	}
	cmd := m.list.SetItems(items)

	found := false
	for i, d := range desktops {
		if (keep != nil && d.Desktop == *keep) || (keep == nil && d.Current) {
			m.list.Select(i)
			found = true
			break
		}
	}
	if !found && len(items) > 0 && m.list.Index() >= len(items) {
		m.list.Select(0)
	}
	return cmd
}

func (m model) selected() *ipc.DesktopHistory {
	item, ok := m.list.SelectedItem().(desktopItem)
	if !ok {
		return nil
	}
	return &item.history
}

func (m model) sidebarWidth() int {
	// Sidebar takes ~35% of width, min 20, max 40
	sw := m.width * 35 / 100
	if sw < 20 {
		sw = 20
	}
	if sw > 40 {
		sw = 40
	}
	return sw
}

// contentHeight returns the height left between the status and help bars.
func (m model) contentHeight() int {
	h := m.height - 3
	if h < 1 {
		h = 1
	}
	return h
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.status, m.connected, m.width)
	helpBar := renderHelpBar(m.width)

	var body string
	if !m.connected {
		msg := "waiting for daemon..."
		if m.lastError != "" {
			msg = m.lastError
		}
		body = lipgloss.NewStyle().
			Width(m.width).
			Height(m.contentHeight()).
			Align(lipgloss.Center, lipgloss.Center).
			Render(errorStyle.Render(msg))
	} else {
		sidebarWidth := m.sidebarWidth()
		paneWidth := m.width - sidebarWidth - 3
		if paneWidth < 10 {
			paneWidth = 10
		}
		sidebar := lipgloss.NewStyle().
			Width(sidebarWidth).
			Height(m.contentHeight()).
			Render(m.list.View())
		sep := lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Render(strings.TrimSuffix(strings.Repeat("│\n", m.contentHeight()), "\n"))
		pane := renderWindows(m.selected(), paneWidth)
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " "+sep, pane)
	}

	status := lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Foreground(lipgloss.Color("42")).
		Render(m.statusText)

	return lipgloss.JoinVertical(lipgloss.Left, statusBar, body, status, helpBar)
}
