//go:build windows

package platform

import (
	"sync"
	"time"

	"github.com/1broseidon/deskfocus/internal/win32"
)

// WindowsBackend implements Backend with user32 WinEvent hooks.
type WindowsBackend struct {
	closed    chan struct{}
	closeOnce sync.Once
}

var _ Backend = (*WindowsBackend)(nil)

// NewBackend opens the platform backend for this OS.
func NewBackend(Options) (Backend, error) {
	return NewWindowsBackend(), nil
}

// NewWindowsBackend creates a Windows backend.
func NewWindowsBackend() *WindowsBackend {
	return &WindowsBackend{closed: make(chan struct{})}
}

// SubscribeForeground installs an EVENT_SYSTEM_FOREGROUND hook.
func (b *WindowsBackend) SubscribeForeground(queue *EventQueue) (Subscription, error) {
	hook, err := win32.HookForeground(func(hwnd uintptr, at time.Time) {
		queue.Offer(Event{Kind: ForegroundChanged, Window: WindowID(hwnd), At: at})
	})
	if err != nil {
		return nil, err
	}
	return hook, nil
}

// Activate restores and foregrounds a window.
func (b *WindowsBackend) Activate(windowID WindowID) error {
	return win32.ActivateWindow(uintptr(windowID))
}

// WindowTitle returns the window caption.
func (b *WindowsBackend) WindowTitle(windowID WindowID) string {
	return win32.WindowTitle(uintptr(windowID))
}

// CurrentDesktop is not exposed by a stable public API on Windows.
func (b *WindowsBackend) CurrentDesktop() (DesktopID, error) {
	return 0, ErrUnsupported
}

// RequestDesktop is not exposed by a stable public API on Windows.
func (b *WindowsBackend) RequestDesktop(DesktopID) error {
	return ErrUnsupported
}

// EventLoop blocks until Close. Hooks pump their own message loops.
func (b *WindowsBackend) EventLoop() {
	<-b.closed
}

// Close unblocks EventLoop.
func (b *WindowsBackend) Close() error {
	b.closeOnce.Do(func() { close(b.closed) })
	return nil
}
