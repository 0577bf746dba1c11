//go:build linux

package platform

import (
	"fmt"
	"time"

	"github.com/1broseidon/deskfocus/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend wraps an X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var (
	_ Backend        = (*LinuxBackend)(nil)
	_ DesktopWatcher = (*LinuxBackend)(nil)
)

// NewBackend opens the platform backend for this OS.
func NewBackend(opts Options) (Backend, error) {
	return NewLinuxBackendFromDisplay(opts.Display)
}

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Close closes the underlying X11 connection and stops the event loop.
func (b *LinuxBackend) Close() error {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
	return nil
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// SubscribeForeground watches _NET_ACTIVE_WINDOW on the root window. Desktop,
// dock and similar non-application windows are not reported.
func (b *LinuxBackend) SubscribeForeground(queue *EventQueue) (Subscription, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	watch, err := conn.WatchRootProperty("_NET_ACTIVE_WINDOW", func() {
		win, err := conn.GetActiveWindow()
		if err != nil || win == 0 || !conn.IsNormalWindow(win) {
			return
		}
		queue.Offer(Event{Kind: ForegroundChanged, Window: WindowID(win), At: time.Now()})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to active window changes: %w", err)
	}
	return watch, nil
}

// SubscribeDesktop watches _NET_CURRENT_DESKTOP on the root window. Both
// root watches run on the X event loop, so desktop and foreground events
// reach queue in the order the window manager announced them.
func (b *LinuxBackend) SubscribeDesktop(queue *EventQueue) (Subscription, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	watch, err := conn.WatchRootProperty("_NET_CURRENT_DESKTOP", func() {
		desktop, err := conn.GetCurrentDesktop()
		if err != nil {
			return
		}
		queue.Push(Event{Kind: DesktopChanged, Desktop: DesktopID(desktop), At: time.Now()})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to desktop changes: %w", err)
	}
	return watch, nil
}

// Activate raises and focuses a window.
func (b *LinuxBackend) Activate(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.ActivateWindow(xproto.Window(windowID))
}

// WindowTitle returns the window title, or "" when unavailable.
func (b *LinuxBackend) WindowTitle(windowID WindowID) string {
	conn, err := b.connection()
	if err != nil {
		return ""
	}
	return conn.WindowTitle(xproto.Window(windowID))
}

// CurrentDesktop returns the active virtual desktop.
func (b *LinuxBackend) CurrentDesktop() (DesktopID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	desktop, err := conn.GetCurrentDesktop()
	if err != nil {
		return 0, err
	}
	return DesktopID(desktop), nil
}

// RequestDesktop asks the window manager to switch desktops.
func (b *LinuxBackend) RequestDesktop(desktop DesktopID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.RequestDesktop(int(desktop))
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}
