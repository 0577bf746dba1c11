//go:build windows

package win32

import (
	"runtime"
	"sync"
	"time"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// ForegroundFunc receives the new foreground window. It runs on the hook's
// message loop thread and must not block.
type ForegroundFunc func(hwnd uintptr, at time.Time)

var (
	// Callbacks created by NewCallback are never freed, so the trampoline is
	// created once and shared by every hook.
	trampolineOnce sync.Once
	trampoline     uintptr

	// sinks maps a live hook handle to its ForegroundFunc. The trampoline
	// resolves its target here instead of through a pointer captured at
	// registration, so a late event for a released hook finds nothing.
	sinks sync.Map
)

func winEventProc(hook, event, hwnd, idObject, idChild, eventThread, eventTime uintptr) uintptr {
	if uint32(event) != eventSystemForeground || hwnd == 0 {
		return 0
	}
	fn, ok := sinks.Load(hook)
	if !ok {
		return 0
	}
	fn.(ForegroundFunc)(hwnd, time.Now())
	return 0
}

// ForegroundHook is an installed EVENT_SYSTEM_FOREGROUND hook together with
// the message loop thread that receives its out-of-context callbacks.
type ForegroundHook struct {
	handle    uintptr
	threadID  uint32
	done      chan struct{}
	unhookErr error

	releaseMu sync.Mutex
	released  bool
}

// postQuit asks the loop on threadID to exit.
var postQuit = func(threadID uint32) error {
	ok, _, callErr := procPostThreadMessageW.Call(uintptr(threadID), wmQuit, 0, 0)
	if ok == 0 {
		return errors.Wrap(errnoOrUnknown(callErr), "PostThreadMessageW(WM_QUIT)")
	}
	return nil
}

// HookForeground installs a system-wide foreground-change hook. fn is called
// for every foreground change in other processes.
func HookForeground(fn ForegroundFunc) (*ForegroundHook, error) {
	if fn == nil {
		return nil, errors.New("nil foreground callback")
	}
	trampolineOnce.Do(func() {
		trampoline = windows.NewCallback(winEventProc)
	})

	h := &ForegroundHook{done: make(chan struct{})}
	ready := make(chan error, 1)
	go h.loop(fn, ready)
	if err := <-ready; err != nil {
		return nil, err
	}
	return h, nil
}

// loop owns the hook for its whole life. SetWinEventHook, the message pump
// and UnhookWinEvent all have to run on the same OS thread.
func (h *ForegroundHook) loop(fn ForegroundFunc, ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(h.done)

	h.threadID = windows.GetCurrentThreadId()
	handle, _, callErr := procSetWinEventHook.Call(
		eventSystemForeground,
		eventSystemForeground,
		0,
		trampoline,
		0,
		0,
		wineventOutOfContext|wineventSkipOwnProcess,
	)
	if handle == 0 {
		ready <- errors.Wrap(errnoOrUnknown(callErr), "SetWinEventHook(EVENT_SYSTEM_FOREGROUND)")
		return
	}
	h.handle = handle
	sinks.Store(handle, fn)
	ready <- nil

	var m msg
	for {
		ret, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		// 0 is WM_QUIT, -1 is an error; both end the loop.
		if int32(ret) <= 0 {
			break
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		procDispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
	}

	sinks.Delete(handle)
	if ok, _, callErr := procUnhookWinEvent.Call(handle); ok == 0 {
		h.unhookErr = errors.Wrap(errnoOrUnknown(callErr), "UnhookWinEvent")
	}
}

// Release stops the message loop and removes the hook. It is idempotent once
// it has returned nil; after an error it can be called again.
func (h *ForegroundHook) Release() error {
	if h == nil {
		return nil
	}
	h.releaseMu.Lock()
	defer h.releaseMu.Unlock()
	if h.released {
		return nil
	}

	// Detach the sink first so nothing is delivered while the loop winds down.
	sinks.Delete(h.handle)

	select {
	case <-h.done:
	default:
		if err := postQuit(h.threadID); err != nil {
			return err
		}
		<-h.done
	}
	h.released = true
	return h.unhookErr
}

func errnoOrUnknown(err error) error {
	if errno, ok := err.(windows.Errno); ok && errno == 0 {
		return errors.New("unknown error")
	}
	return err
}
