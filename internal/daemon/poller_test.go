package daemon

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/deskfocus/internal/platform"
	"github.com/1broseidon/deskfocus/internal/tracker"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPollerReportsSampleWithVersion(t *testing.T) {
	obs := &fakeObserver{version: 7}
	p := NewPoller(PollerConfig{Interval: time.Hour, Logger: discardLogger()}, func() (platform.DesktopID, error) {
		return 4, nil
	}, obs)

	p.PollNow()
	p.PollNow()

	want := []observed{{desktop: 4, since: 7}, {desktop: 4, since: 8}}
	got := obs.Observed()
	if len(got) != len(want) {
		t.Fatalf("observed = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("observed[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPollerSurvivesErrorsAndPanics(t *testing.T) {
	obs := &fakeObserver{}
	calls := 0
	p := NewPoller(PollerConfig{Logger: discardLogger()}, func() (platform.DesktopID, error) {
		calls++
		switch calls {
		case 1:
			return 0, errors.New("property missing")
		case 2:
			panic("bad reply")
		default:
			return 5, nil
		}
	}, obs)

	p.PollNow()
	p.PollNow()
	p.PollNow()
	if got := obs.Observed(); len(got) != 1 || got[0].desktop != 5 {
		t.Fatalf("observed = %v, want desktop 5 once", got)
	}
}

func TestPollerDefaultInterval(t *testing.T) {
	p := NewPoller(PollerConfig{Logger: discardLogger()}, nil, nil)
	if p.interval != time.Second {
		t.Fatalf("interval = %s, want 1s", p.interval)
	}
}

// seededTracker returns a started tracker on desktop 0 whose desktop 0
// history holds window 5 and desktop 1 history holds window 6.
func seededTracker(t *testing.T, backend *fakeBackend) *tracker.Tracker {
	t.Helper()
	tr := tracker.New(tracker.Config{Logger: discardLogger()}, backend)
	tr.OnForegroundChanged(5)
	tr.SwitchDesktop(1)
	tr.OnForegroundChanged(6)
	tr.SwitchDesktop(0)
	if err := tr.Start(backend); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	t.Cleanup(func() { tr.Shutdown() })
	return tr
}

func TestPollerSampleOvertakenBySwitchIsIgnored(t *testing.T) {
	backend := newFakeBackend()
	tr := seededTracker(t, backend)
	before := len(backend.Activated())

	// The window manager still reports desktop 0 while a hotkey switch to 1
	// lands between the poller's version read and its sample.
	p := NewPoller(PollerConfig{Logger: discardLogger()}, func() (platform.DesktopID, error) {
		tr.SwitchDesktopIfChanged(1)
		return 0, nil
	}, tr)
	p.PollNow()
	tr.ObserveDesktop(3, tr.DesktopVersion())

	waitFor(t, "marker desktop applied", func() bool { return tr.CurrentDesktop() == 3 })
	if got := backend.Activated()[before:]; len(got) != 1 || got[0] != 6 {
		t.Fatalf("activations = %v, want [6]", got)
	}
}

func TestConcurrentReportsOfOneChangeActivateOnce(t *testing.T) {
	backend := newFakeBackend()
	tr := seededTracker(t, backend)
	if _, err := tr.WatchDesktops(backend); err != nil {
		t.Fatalf("WatchDesktops() error: %v", err)
	}
	before := len(backend.Activated())
	backend.SetCurrent(1)

	p := NewPoller(PollerConfig{Logger: discardLogger()}, backend.CurrentDesktop, tr)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			p.PollNow()
		}()
		go func() {
			defer wg.Done()
			backend.AnnounceDesktop(1)
		}()
	}
	wg.Wait()

	// Every report queued before the marker has been applied once it is current.
	tr.ObserveDesktop(3, 0)
	waitFor(t, "marker desktop applied", func() bool { return tr.CurrentDesktop() == 3 })
	if got := backend.Activated()[before:]; len(got) != 1 || got[0] != 6 {
		t.Fatalf("activations = %v, want [6]", got)
	}
}
