//go:build windows

// Package win32 wraps the user32 calls deskfocus needs: the foreground
// WinEvent hook, window activation and window titles.
package win32

import (
	"golang.org/x/sys/windows"
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procSetWinEventHook     = user32.NewProc("SetWinEventHook")
	procUnhookWinEvent      = user32.NewProc("UnhookWinEvent")
	procGetMessageW         = user32.NewProc("GetMessageW")
	procTranslateMessage    = user32.NewProc("TranslateMessage")
	procDispatchMessageW    = user32.NewProc("DispatchMessageW")
	procPostThreadMessageW  = user32.NewProc("PostThreadMessageW")
	procShowWindow          = user32.NewProc("ShowWindow")
	procIsIconic            = user32.NewProc("IsIconic")
	procIsWindow            = user32.NewProc("IsWindow")
	procSetForegroundWindow = user32.NewProc("SetForegroundWindow")
	procSetActiveWindow     = user32.NewProc("SetActiveWindow")
	procGetWindowTextW      = user32.NewProc("GetWindowTextW")
	procGetWindowTextLength = user32.NewProc("GetWindowTextLengthW")
)

const (
	eventSystemForeground  = 0x0003
	wineventOutOfContext   = 0x0000
	wineventSkipOwnProcess = 0x0002

	wmQuit    = 0x0012
	swRestore = 9
)

type point struct {
	x, y int32
}

// msg mirrors the Win32 MSG structure.
type msg struct {
	hwnd     uintptr
	message  uint32
	wParam   uintptr
	lParam   uintptr
	time     uint32
	pt       point
	lPrivate uint32
}
