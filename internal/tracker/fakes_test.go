package tracker

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/1broseidon/deskfocus/internal/platform"
)

type fakeActivator struct {
	mu    sync.Mutex
	calls []platform.WindowID
	err   error
}

func (f *fakeActivator) Activate(window platform.WindowID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, window)
	return f.err
}

func (f *fakeActivator) Calls() []platform.WindowID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]platform.WindowID(nil), f.calls...)
}

type fakeHook struct {
	mu       sync.Mutex
	queue    *platform.EventQueue
	desktops *platform.EventQueue
	err      error
	subs     int
	releases atomic.Int32
}

func (h *fakeHook) SubscribeForeground(queue *platform.EventQueue) (platform.Subscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return nil, h.err
	}
	h.queue = queue
	h.subs++
	return &fakeSubscription{hook: h}, nil
}

func (h *fakeHook) SubscribeDesktop(queue *platform.EventQueue) (platform.Subscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.desktops = queue
	return &fakeSubscription{hook: h}, nil
}

func (h *fakeHook) EmitDesktop(desktop platform.DesktopID) {
	h.mu.Lock()
	q := h.desktops
	h.mu.Unlock()
	q.Push(platform.Event{Kind: platform.DesktopChanged, Desktop: desktop, At: time.Now()})
}

func (h *fakeHook) Subscriptions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.subs
}

func (h *fakeHook) Emit(window platform.WindowID) bool {
	h.mu.Lock()
	q := h.queue
	h.mu.Unlock()
	return q.Offer(platform.Event{Kind: platform.ForegroundChanged, Window: window, At: time.Now()})
}

// fakeSubscription counts every Release call so tests can prove the tracker
// releases exactly once.
type fakeSubscription struct {
	hook *fakeHook
}

func (s *fakeSubscription) Release() error {
	s.hook.releases.Add(1)
	return nil
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func equalWindows(a, b []platform.WindowID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
