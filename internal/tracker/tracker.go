// Package tracker records which window was last active on each virtual
// desktop and restores it when the user switches back.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/1broseidon/deskfocus/internal/platform"
	"github.com/1broseidon/deskfocus/internal/recency"
)

// DefaultQueueSize is the number of foreground events buffered between the
// hook and the consumer.
const DefaultQueueSize = 64

// ErrShutDown is returned when starting a tracker that was already shut down.
var ErrShutDown = errors.New("tracker is shut down")

// State is the tracker lifecycle state.
type State int32

const (
	Uninitialized State = iota
	Active
	ShutDown
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Active:
		return "active"
	case ShutDown:
		return "shutdown"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Config holds tracker settings.
type Config struct {
	HistorySize    int
	QueueSize      int
	InitialDesktop platform.DesktopID
	Logger         *slog.Logger
}

// Describer resolves a window title for log output. Backends that implement
// it get titles in debug logs.
type Describer interface {
	WindowTitle(windowID platform.WindowID) string
}

// Stats are cumulative tracker counters.
type Stats struct {
	EventsRecorded     uint64 `json:"events_recorded"`
	EventsDropped      uint64 `json:"events_dropped"`
	Switches           uint64 `json:"switches"`
	Activations        uint64 `json:"activations"`
	ActivationFailures uint64 `json:"activation_failures"`
}

// Snapshot is a point-in-time copy of tracker state.
type Snapshot struct {
	State          State
	CurrentDesktop platform.DesktopID
	HistorySize    int
	StartedAt      time.Time
	Histories      map[platform.DesktopID][]platform.WindowID
	Stats          Stats
}

// Tracker composes the foreground hook, the per-desktop registry and the
// activator.
//
// Foreground events from the hook and desktop changes from watchers share one
// queue and are applied by one consumer goroutine, so a window is recorded on
// the desktop that was current when the window system reported it. The registry lock and
// the current-desktop lock are independent and neither is held while calling
// the activator or the hook.
type Tracker struct {
	registry  *Registry
	activator platform.Activator
	describer Describer
	logger    *slog.Logger
	queue     *platform.EventQueue

	desktopMu sync.Mutex
	desktop   platform.DesktopID
	version   uint64

	state     atomic.Int32
	sub       atomic.Pointer[platform.Subscription]
	startOnce sync.Once
	startErr  error
	stopOnce  sync.Once
	stopErr   error
	quit      chan struct{}
	done      chan struct{}
	startedAt atomic.Int64

	recorded           atomic.Uint64
	switches           atomic.Uint64
	activations        atomic.Uint64
	activationFailures atomic.Uint64
}

// New creates an uninitialized tracker. If activator also implements
// Describer it is used for window titles in logs.
func New(cfg Config, activator platform.Activator) *Tracker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	historySize := cfg.HistorySize
	if historySize <= 0 {
		historySize = recency.DefaultCapacity
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	t := &Tracker{
		registry:  NewRegistry(historySize),
		activator: activator,
		logger:    logger,
		queue:     platform.NewEventQueue(queueSize),
		desktop:   cfg.InitialDesktop,
		version:   1,
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	if d, ok := activator.(Describer); ok {
		t.describer = d
	}
	return t
}

// Start registers the foreground hook and begins consuming events. Only the
// first call does anything; later calls return the first call's result.
func (t *Tracker) Start(hook platform.ForegroundHook) error {
	t.startOnce.Do(func() {
		t.startErr = t.start(hook)
	})
	return t.startErr
}

func (t *Tracker) start(hook platform.ForegroundHook) error {
	if t.State() == ShutDown {
		return ErrShutDown
	}

	sub, err := hook.SubscribeForeground(t.queue)
	if err != nil {
		return fmt.Errorf("register foreground hook: %w", err)
	}
	t.sub.Store(&sub)

	if !t.state.CompareAndSwap(int32(Uninitialized), int32(Active)) {
		// Shutdown won the race; whoever swaps the subscription out releases it.
		if p := t.sub.Swap(nil); p != nil {
			(*p).Release()
		}
		return ErrShutDown
	}

	t.startedAt.Store(time.Now().UnixNano())
	go t.consume()
	t.logger.Info("tracker started",
		"history_size", t.registry.Capacity(),
		"desktop", t.CurrentDesktop())
	return nil
}

// Shutdown releases the hook and stops the consumer. It is safe to call more
// than once and before Start.
func (t *Tracker) Shutdown() error {
	t.stopOnce.Do(func() {
		prev := State(t.state.Swap(int32(ShutDown)))

		if p := t.sub.Swap(nil); p != nil {
			if err := (*p).Release(); err != nil {
				t.stopErr = fmt.Errorf("release foreground hook: %w", err)
			}
		}

		close(t.quit)
		if prev == Active {
			<-t.done
		}
		t.logger.Info("tracker stopped", "previous_state", prev.String())
	})
	return t.stopErr
}

func (t *Tracker) consume() {
	defer close(t.done)
	events := t.queue.Events()
	for {
		select {
		case <-t.quit:
			return
		case ev := <-events:
			t.handle(ev)
		}
	}
}

func (t *Tracker) handle(ev platform.Event) {
	defer func() {
		if err := recover(); err != nil {
			t.logger.Error("foreground event panic recovered",
				"window", formatWindow(ev.Window),
				"error", err)
		}
	}()
	switch ev.Kind {
	case platform.DesktopChanged:
		t.applyDesktop(ev)
	default:
		t.OnForegroundChanged(ev.Window)
	}
}

func (t *Tracker) applyDesktop(ev platform.Event) {
	window, activated, switched := t.switchDesktop(ev.Desktop, func(current platform.DesktopID, version uint64) bool {
		if ev.Version != 0 && ev.Version != version {
			return false
		}
		return current != ev.Desktop
	})
	if !switched {
		return
	}
	t.logger.Debug("desktop change observed",
		"desktop", ev.Desktop,
		"activated", activated,
		"window", formatWindow(window))
}

// WatchDesktops subscribes w so that its desktop changes are applied by the
// event consumer. The caller releases the returned subscription.
func (t *Tracker) WatchDesktops(w platform.DesktopWatcher) (platform.Subscription, error) {
	sub, err := w.SubscribeDesktop(t.queue)
	if err != nil {
		return nil, fmt.Errorf("watch desktops: %w", err)
	}
	return sub, nil
}

// ObserveDesktop queues a desktop reported by the window system. When the
// consumer reaches it, the tracker switches to desktop unless it is already
// current. A non-zero since is a DesktopVersion read before desktop was
// sampled; the change is dropped if any switch happened after that read.
func (t *Tracker) ObserveDesktop(desktop platform.DesktopID, since uint64) {
	t.queue.Push(platform.Event{
		Kind:    platform.DesktopChanged,
		Desktop: desktop,
		Version: since,
		At:      time.Now(),
	})
}

// DesktopVersion returns a counter bumped by every desktop switch.
func (t *Tracker) DesktopVersion() uint64 {
	t.desktopMu.Lock()
	defer t.desktopMu.Unlock()
	return t.version
}

// OnForegroundChanged records window on the current desktop. It is a no-op
// for the zero window and after Shutdown.
func (t *Tracker) OnForegroundChanged(window platform.WindowID) {
	if window == 0 || t.State() == ShutDown {
		return
	}

	desktop := t.CurrentDesktop()
	t.registry.Push(desktop, window)
	t.recorded.Add(1)

	if t.logger.Enabled(context.Background(), slog.LevelDebug) {
		t.logger.Debug("foreground changed",
			"desktop", desktop,
			"window", formatWindow(window),
			"title", t.title(window))
	}
}

// SwitchDesktop makes desktop current and activates its most recent window,
// if it has one. It returns the window it tried to activate. Activation
// failures are logged and counted, never returned.
func (t *Tracker) SwitchDesktop(desktop platform.DesktopID) (platform.WindowID, bool) {
	window, activated, _ := t.switchDesktop(desktop, func(platform.DesktopID, uint64) bool {
		return true
	})
	return window, activated
}

// SwitchDesktopIfChanged is SwitchDesktop for a change reported by someone
// else. It does nothing when desktop is already current; switched reports
// whether it switched. Concurrent reports of one change activate once.
func (t *Tracker) SwitchDesktopIfChanged(desktop platform.DesktopID) (window platform.WindowID, activated, switched bool) {
	return t.switchDesktop(desktop, func(current platform.DesktopID, _ uint64) bool {
		return current != desktop
	})
}

// switchDesktop checks allow and updates the current desktop under one lock,
// then activates outside it.
func (t *Tracker) switchDesktop(desktop platform.DesktopID, allow func(current platform.DesktopID, version uint64) bool) (platform.WindowID, bool, bool) {
	if t.State() == ShutDown {
		return 0, false, false
	}

	// The current desktop changes before activation so the foreground event
	// caused by the activation itself lands on the new desktop.
	t.desktopMu.Lock()
	prev := t.desktop
	if !allow(prev, t.version) {
		t.desktopMu.Unlock()
		return 0, false, false
	}
	t.desktop = desktop
	t.version++
	t.desktopMu.Unlock()
	t.switches.Add(1)

	window, ok := t.registry.Top(desktop)
	if !ok {
		t.logger.Debug("desktop switched, no history", "from", prev, "to", desktop)
		return 0, false, true
	}

	t.activations.Add(1)
	if err := t.activator.Activate(window); err != nil {
		t.activationFailures.Add(1)
		t.logger.Warn("failed to activate window",
			"desktop", desktop,
			"window", formatWindow(window),
			"error", err)
		return window, true, true
	}

	t.logger.Debug("desktop switched",
		"from", prev,
		"to", desktop,
		"window", formatWindow(window),
		"title", t.title(window))
	return window, true, true
}

// CurrentDesktop returns the desktop foreground events are attributed to.
func (t *Tracker) CurrentDesktop() platform.DesktopID {
	t.desktopMu.Lock()
	defer t.desktopMu.Unlock()
	return t.desktop
}

// State returns the lifecycle state.
func (t *Tracker) State() State {
	return State(t.state.Load())
}

// History returns the windows recorded for desktop, most recent first.
func (t *Tracker) History(desktop platform.DesktopID) []platform.WindowID {
	return t.registry.History(desktop)
}

// Stats returns the current counters.
func (t *Tracker) Stats() Stats {
	return Stats{
		EventsRecorded:     t.recorded.Load(),
		EventsDropped:      t.queue.Dropped(),
		Switches:           t.switches.Load(),
		Activations:        t.activations.Load(),
		ActivationFailures: t.activationFailures.Load(),
	}
}

// Snapshot copies the tracker state for reporting.
func (t *Tracker) Snapshot() Snapshot {
	var startedAt time.Time
	if ns := t.startedAt.Load(); ns != 0 {
		startedAt = time.Unix(0, ns)
	}
	return Snapshot{
		State:          t.State(),
		CurrentDesktop: t.CurrentDesktop(),
		HistorySize:    t.registry.Capacity(),
		StartedAt:      startedAt,
		Histories:      t.registry.Snapshot(),
		Stats:          t.Stats(),
	}
}

// Title returns the window title when the activator can describe windows.
func (t *Tracker) Title(window platform.WindowID) string {
	return t.title(window)
}

func (t *Tracker) title(window platform.WindowID) string {
	if t.describer == nil {
		return ""
	}
	return t.describer.WindowTitle(window)
}

func formatWindow(window platform.WindowID) string {
	return fmt.Sprintf("0x%x", uintptr(window))
}
