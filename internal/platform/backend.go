package platform

import (
	"errors"
	"time"
)

// WindowID is a platform-neutral top-level window identity. On X11 it holds
// the window XID, on Windows the HWND. Zero means "no window".
type WindowID uintptr

// DesktopID identifies a virtual desktop (0-indexed).
type DesktopID uint32

// ErrUnsupported is returned by backends for operations the platform cannot
// perform.
var ErrUnsupported = errors.New("operation not supported on this platform")

// EventKind tells the consumer how to apply an Event.
type EventKind uint8

const (
	// ForegroundChanged reports that Window became the foreground window.
	ForegroundChanged EventKind = iota
	// DesktopChanged reports that Desktop became the current desktop.
	DesktopChanged
)

// Event is a window-system notification queued for the tracker. Foreground
// and desktop changes share one queue so they are applied in the order the
// window system reported them.
type Event struct {
	Kind    EventKind
	Window  WindowID
	Desktop DesktopID
	// Version, when non-zero, is the tracker desktop version Desktop was
	// sampled against. The change is dropped if any switch happened since.
	Version uint64
	At      time.Time
}

// Subscription owns an installed OS notification. Release is idempotent:
// releasing an already released subscription is a no-op returning nil.
type Subscription interface {
	Release() error
}

// ForegroundHook installs a global foreground-change notification. Every
// qualifying event is offered to queue; the hook never blocks on it.
type ForegroundHook interface {
	SubscribeForeground(queue *EventQueue) (Subscription, error)
}

// DesktopWatcher reports virtual desktop switches made outside deskfocus,
// e.g. by the window manager's own key bindings. Changes are pushed to queue
// as DesktopChanged events with EventQueue.Push.
type DesktopWatcher interface {
	SubscribeDesktop(queue *EventQueue) (Subscription, error)
}

// Activator brings a window to the foreground. It is best effort and only
// returns an error when every mechanism failed.
type Activator interface {
	Activate(windowID WindowID) error
}

// Backend abstracts the window-system operations deskfocus needs.
type Backend interface {
	ForegroundHook
	Activator

	// WindowTitle returns a human readable title, or "" when unknown.
	WindowTitle(windowID WindowID) string
	// CurrentDesktop returns the active virtual desktop, or ErrUnsupported.
	CurrentDesktop() (DesktopID, error)
	// RequestDesktop asks the window manager to switch desktops, or
	// returns ErrUnsupported.
	RequestDesktop(desktop DesktopID) error
	// EventLoop dispatches OS events until Close is called.
	EventLoop()
	// Close releases the display connection.
	Close() error
}

// Options configure backend construction.
type Options struct {
	// Display overrides the X11 DISPLAY. Ignored on other platforms.
	Display string
}
