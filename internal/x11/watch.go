package x11

import (
	"fmt"
	"sync/atomic"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// watchTable is a copy-on-write atom -> watch map. The xevent callback only
// loads it, so property dispatch never takes a lock.
type watchTable = atomic.Pointer[map[xproto.Atom]*PropertyWatch]

// PropertyWatch invokes a callback whenever a root window property changes.
// The callback runs on the xevent main loop goroutine.
type PropertyWatch struct {
	conn     *Connection
	atom     xproto.Atom
	name     string
	fn       func()
	released atomic.Bool
}

// WatchRootProperty calls fn every time the named root window property
// changes. Only one watch per property may be active at a time.
func (c *Connection) WatchRootProperty(name string, fn func()) (*PropertyWatch, error) {
	atom, err := xprop.Atm(c.XUtil, name)
	if err != nil {
		return nil, fmt.Errorf("failed to intern %s: %w", name, err)
	}

	c.watchMu.Lock()
	defer c.watchMu.Unlock()

	current := *c.watches.Load()
	if _, exists := current[atom]; exists {
		return nil, fmt.Errorf("root property %s is already watched", name)
	}

	if !c.attached {
		xevent.PropertyNotifyFun(c.dispatchProperty).Connect(c.XUtil, c.Root)
		c.attached = true
	}
	if len(current) == 0 {
		root := xwindow.New(c.XUtil, c.Root)
		if err := root.Listen(xproto.EventMaskPropertyChange); err != nil {
			return nil, fmt.Errorf("failed to listen for root property changes: %w", err)
		}
	}

	w := &PropertyWatch{conn: c, atom: atom, name: name, fn: fn}
	next := make(map[xproto.Atom]*PropertyWatch, len(current)+1)
	for k, v := range current {
		next[k] = v
	}
	next[atom] = w
	c.watches.Store(&next)
	return w, nil
}

// Release stops the watch. When no watch remains the root window stops
// reporting property changes to this client. Idempotent.
func (w *PropertyWatch) Release() error {
	if w == nil || !w.released.CompareAndSwap(false, true) {
		return nil
	}

	c := w.conn
	c.watchMu.Lock()
	defer c.watchMu.Unlock()

	current := *c.watches.Load()
	next := make(map[xproto.Atom]*PropertyWatch, len(current))
	for k, v := range current {
		if k != w.atom {
			next[k] = v
		}
	}
	c.watches.Store(&next)

	if len(next) == 0 {
		root := xwindow.New(c.XUtil, c.Root)
		if err := root.Listen(xproto.EventMaskNoEvent); err != nil {
			return fmt.Errorf("failed to stop listening on root for %s: %w", w.name, err)
		}
	}
	return nil
}

func (c *Connection) dispatchProperty(_ *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
	w, ok := (*c.watches.Load())[ev.Atom]
	if !ok || w.released.Load() {
		return
	}
	w.fn()
}
