//go:build windows

package win32

import (
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// ActivateWindow restores hwnd if it is minimized and brings it to the
// foreground. When SetForegroundWindow is refused it falls back to
// SetActiveWindow once.
func ActivateWindow(hwnd uintptr) error {
	if ok, _, _ := procIsWindow.Call(hwnd); ok == 0 {
		return errors.Errorf("hwnd 0x%x is not a window", hwnd)
	}

	if iconic, _, _ := procIsIconic.Call(hwnd); iconic != 0 {
		procShowWindow.Call(hwnd, swRestore)
	}

	if ok, _, _ := procSetForegroundWindow.Call(hwnd); ok != 0 {
		return nil
	}

	// If unable to set foreground, explicitly activate it.
	prev, _, callErr := procSetActiveWindow.Call(hwnd)
	if prev == 0 {
		if errno, ok := callErr.(windows.Errno); ok && errno != 0 {
			return errors.Wrapf(callErr, "activate hwnd 0x%x", hwnd)
		}
	}
	return nil
}

// WindowTitle returns the title of hwnd, or "" when it has none.
func WindowTitle(hwnd uintptr) string {
	length, _, _ := procGetWindowTextLength.Call(hwnd)
	if length == 0 {
		return ""
	}

	buf := make([]uint16, length+1)
	procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), length+1)
	return windows.UTF16ToString(buf)
}
