package metrics

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/deskfocus/internal/platform"
	"github.com/1broseidon/deskfocus/internal/tracker"
	dto "github.com/prometheus/client_model/go"
)

type stubActivator struct{}

func (stubActivator) Activate(platform.WindowID) error { return nil }

func newSource() *tracker.Tracker {
	tr := tracker.New(tracker.Config{InitialDesktop: 2}, stubActivator{})
	tr.OnForegroundChanged(10)
	tr.OnForegroundChanged(11)
	tr.SwitchDesktop(3)
	tr.OnForegroundChanged(12)
	tr.SwitchDesktop(2)
	return tr
}

func gather(t *testing.T, src Source) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := NewRegistry(src).Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	out := make(map[string]*dto.MetricFamily, len(families))
	for _, mf := range families {
		out[mf.GetName()] = mf
	}
	return out
}

func TestRegistryValues(t *testing.T) {
	families := gather(t, newSource())

	counters := map[string]float64{
		"deskfocus_foreground_events_total":         3,
		"deskfocus_foreground_events_dropped_total": 0,
		"deskfocus_desktop_switches_total":          2,
		"deskfocus_activations_total":               1,
		"deskfocus_activation_failures_total":       0,
	}
	for name, want := range counters {
		mf, ok := families[name]
		if !ok {
			t.Fatalf("metric %s not registered", name)
		}
		if got := mf.GetMetric()[0].GetCounter().GetValue(); got != want {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}

	gauges := map[string]float64{
		"deskfocus_current_desktop":  2,
		"deskfocus_tracked_desktops": 2,
		"deskfocus_tracked_windows":  3,
		"deskfocus_tracker_active":   0,
	}
	for name, want := range gauges {
		mf, ok := families[name]
		if !ok {
			t.Fatalf("metric %s not registered", name)
		}
		if got := mf.GetMetric()[0].GetGauge().GetValue(); got != want {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}
}

func TestServerServesMetrics(t *testing.T) {
	srv := NewServer("127.0.0.1:0", NewRegistry(newSource()))
	if err := srv.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			t.Errorf("Shutdown() error: %v", err)
		}
	}()

	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(string(body), "deskfocus_desktop_switches_total 2") {
		t.Fatalf("metrics output missing switch counter:\n%s", body)
	}
}

func TestShutdownWithoutStart(t *testing.T) {
	srv := NewServer("127.0.0.1:0", NewRegistry(newSource()))
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error: %v", err)
	}
}
