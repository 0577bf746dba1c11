package daemon

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/1broseidon/deskfocus/internal/platform"
)

type fakeSubscription struct {
	released *atomic.Int32
}

func (s fakeSubscription) Release() error {
	s.released.Add(1)
	return nil
}

// fakeBackend implements platform.Backend and platform.DesktopWatcher.
type fakeBackend struct {
	mu         sync.Mutex
	events     *platform.EventQueue
	desktops   *platform.EventQueue
	current    platform.DesktopID
	currentErr error
	activated  []platform.WindowID
	requested  []platform.DesktopID

	hookReleased  atomic.Int32
	watchReleased atomic.Int32
	closed        chan struct{}
	closeOnce     sync.Once
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{closed: make(chan struct{})}
}

func (b *fakeBackend) SubscribeForeground(queue *platform.EventQueue) (platform.Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = queue
	return fakeSubscription{released: &b.hookReleased}, nil
}

func (b *fakeBackend) SubscribeDesktop(desktops *platform.EventQueue) (platform.Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.desktops = desktops
	return fakeSubscription{released: &b.watchReleased}, nil
}

func (b *fakeBackend) Activate(window platform.WindowID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.activated = append(b.activated, window)
	return nil
}

func (b *fakeBackend) WindowTitle(platform.WindowID) string { return "" }

func (b *fakeBackend) CurrentDesktop() (platform.DesktopID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current, b.currentErr
}

func (b *fakeBackend) SetCurrent(desktop platform.DesktopID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = desktop
}

func (b *fakeBackend) RequestDesktop(desktop platform.DesktopID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requested = append(b.requested, desktop)
	return nil
}

func (b *fakeBackend) EventLoop() { <-b.closed }

func (b *fakeBackend) Close() error {
	b.closeOnce.Do(func() { close(b.closed) })
	return nil
}

func (b *fakeBackend) Emit(window platform.WindowID) {
	b.mu.Lock()
	q := b.events
	b.mu.Unlock()
	q.Offer(platform.Event{Kind: platform.ForegroundChanged, Window: window, At: time.Now()})
}

func (b *fakeBackend) AnnounceDesktop(desktop platform.DesktopID) {
	b.mu.Lock()
	q := b.desktops
	b.mu.Unlock()
	q.Push(platform.Event{Kind: platform.DesktopChanged, Desktop: desktop, At: time.Now()})
}

func (b *fakeBackend) Activated() []platform.WindowID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]platform.WindowID(nil), b.activated...)
}

func (b *fakeBackend) IsClosed() bool {
	select {
	case <-b.closed:
		return true
	default:
		return false
	}
}

type observed struct {
	desktop platform.DesktopID
	since   uint64
}

// fakeObserver records what the poller reports and bumps its version on
// every report, like a tracker that applied the switch.
type fakeObserver struct {
	mu       sync.Mutex
	version  uint64
	observed []observed
}

func (o *fakeObserver) DesktopVersion() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.version
}

func (o *fakeObserver) ObserveDesktop(desktop platform.DesktopID, since uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.observed = append(o.observed, observed{desktop: desktop, since: since})
	o.version++
}

func (o *fakeObserver) Observed() []observed {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]observed(nil), o.observed...)
}
