package hotkeys

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/1broseidon/deskfocus/internal/config"
	"github.com/1broseidon/deskfocus/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/hashicorp/go-multierror"
)

// Switcher is told about every desktop switch a hotkey triggers.
type Switcher interface {
	SwitchDesktop(desktop platform.DesktopID) (platform.WindowID, bool)
}

// DesktopRequester asks the window manager to change desktops.
type DesktopRequester interface {
	RequestDesktop(desktop platform.DesktopID) error
}

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu       *xgbutil.XUtil
	root     xproto.Window
	switcher Switcher
	desktops DesktopRequester
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler. Hotkeys can only be registered
// when the backend exposes an X11 connection.
func NewHandler(backend platform.Backend, switcher Switcher) *Handler {
	var xu *xgbutil.XUtil
	var root xproto.Window
	if accessor, ok := backend.(x11Accessor); ok {
		xu = accessor.XUtil()
		root = accessor.RootWindow()
	}

	if xu != nil {
		ignoreModsOnce.Do(func() {
			configureIgnoreMods(xu)
		})
	}

	return &Handler{
		xu:       xu,
		root:     root,
		switcher: switcher,
		desktops: backend,
	}
}

// RegisterDesktops binds every configured desktop hotkey. Bindings that fail
// are reported together; the others stay registered.
func (h *Handler) RegisterDesktops(bindings []config.DesktopHotkey) error {
	var result *multierror.Error
	for _, binding := range bindings {
		desktop := platform.DesktopID(binding.Desktop)
		if err := h.RegisterFunc(binding.Keys, func() {
			h.SwitchTo(desktop)
		}); err != nil {
			result = multierror.Append(result, fmt.Errorf("hotkey %q for desktop %d: %w", binding.Keys, binding.Desktop, err))
			continue
		}
		log.Printf("Registered hotkey %s for desktop %d", binding.Keys, binding.Desktop)
	}
	return result.ErrorOrNil()
}

// SwitchTo asks the window manager to show desktop and tells the switcher,
// which restores that desktop's last active window.
func (h *Handler) SwitchTo(desktop platform.DesktopID) {
	if h.desktops != nil {
		if err := h.desktops.RequestDesktop(desktop); err != nil && !errors.Is(err, platform.ErrUnsupported) {
			log.Printf("Desktop %d request failed: %v", desktop, err)
		}
	}
	if window, ok := h.switcher.SwitchDesktop(desktop); ok {
		log.Printf("Desktop %d: restored window 0x%x", desktop, uintptr(window))
	}
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	if h.xu == nil {
		return platform.ErrUnsupported
	}
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
