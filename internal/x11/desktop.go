package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// sourceIndication marks client messages as coming from a pager/direct
// user action, which window managers honour over focus-stealing prevention.
const sourceIndication = 2

// GetCurrentDesktop returns the current virtual desktop number (0-indexed).
// Uses _NET_CURRENT_DESKTOP atom. Returns 0 with an error if detection fails.
func (c *Connection) GetCurrentDesktop() (int, error) {
	desktop, err := ewmh.CurrentDesktopGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get current desktop: %w", err)
	}
	return int(desktop), nil
}

// GetDesktopCount returns the number of virtual desktops.
func (c *Connection) GetDesktopCount() (int, error) {
	count, err := ewmh.NumberOfDesktopsGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get desktop count: %w", err)
	}
	return int(count), nil
}

// RequestDesktop asks the window manager to switch to desktop.
// Sends a _NET_CURRENT_DESKTOP client message to the root window.
func (c *Connection) RequestDesktop(desktop int) error {
	count, err := c.GetDesktopCount()
	if err == nil && desktop >= count {
		return fmt.Errorf("desktop %d out of range (have %d)", desktop, count)
	}
	return c.sendRootMessage(c.Root, "_NET_CURRENT_DESKTOP", []uint32{uint32(desktop), 0, 0, 0, 0})
}

// FocusWindow activates and raises a window using _NET_ACTIVE_WINDOW.
// Sends a client message to the root window per EWMH spec.
func (c *Connection) FocusWindow(windowID xproto.Window) error {
	return c.sendRootMessage(windowID, "_NET_ACTIVE_WINDOW", []uint32{sourceIndication, 0, 0, 0, 0})
}

// sendRootMessage builds the client message manually because the xgbutil
// ewmh request helpers panic on this library version (uint vs int type
// assertion).
func (c *Connection) sendRootMessage(window xproto.Window, atomName string, data []uint32) error {
	atomReply, err := xproto.InternAtom(c.XUtil.Conn(), false,
		uint16(len(atomName)), atomName).Reply()
	if err != nil {
		return fmt.Errorf("failed to intern %s: %w", atomName, err)
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: window,
		Type:   atomReply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New(data),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}
