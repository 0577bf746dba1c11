package x11

import (
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	// Root property watches, see watch.go.
	watchMu  sync.Mutex
	watches  watchTable
	attached bool

	closeOnce sync.Once
}

// NewConnection establishes a connection to the X11 server. An empty display
// uses $DISPLAY.
func NewConnection(display string) (*Connection, error) {
	var (
		xu  *xgbutil.XUtil
		err error
	)
	if display != "" {
		xu, err = xgbutil.NewConnDisplay(display)
	} else {
		xu, err = xgbutil.NewConn()
	}
	if err != nil {
		return nil, err
	}

	// Initialize keybind module (required for global hotkeys)
	keybind.Initialize(xu)

	c := &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}
	c.watches.Store(&map[xproto.Atom]*PropertyWatch{})
	return c, nil
}

// EventLoop starts the main X11 event loop (blocking). It returns after
// Close.
func (c *Connection) EventLoop() {
	xevent.Main(c.XUtil)
}

// Close stops the event loop and disconnects from the X11 server. Safe to
// call more than once.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		xevent.Quit(c.XUtil)
		c.XUtil.Conn().Close()
	})
}
