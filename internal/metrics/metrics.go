// Package metrics exposes tracker counters to Prometheus.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/1broseidon/deskfocus/internal/tracker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "deskfocus"

// Source provides the values behind every metric. Values are read at scrape
// time so nothing on the event path touches Prometheus.
type Source interface {
	Stats() tracker.Stats
	Snapshot() tracker.Snapshot
}

// NewRegistry builds a registry with the tracker collectors plus the Go
// runtime and process collectors.
func NewRegistry(src Source) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	counter := func(name, help string, value func(tracker.Stats) uint64) prometheus.Collector {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, func() float64 {
			return float64(value(src.Stats()))
		})
	}
	gauge := func(name, help string, value func(tracker.Snapshot) float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, func() float64 {
			return value(src.Snapshot())
		})
	}

	reg.MustRegister(
		counter("foreground_events_total", "Foreground changes recorded into a desktop history.",
			func(s tracker.Stats) uint64 { return s.EventsRecorded }),
		counter("foreground_events_dropped_total", "Foreground changes dropped because the event queue was full.",
			func(s tracker.Stats) uint64 { return s.EventsDropped }),
		counter("desktop_switches_total", "Desktop switches reported to the tracker.",
			func(s tracker.Stats) uint64 { return s.Switches }),
		counter("activations_total", "Window activations attempted on desktop switch.",
			func(s tracker.Stats) uint64 { return s.Activations }),
		counter("activation_failures_total", "Window activations where every mechanism failed.",
			func(s tracker.Stats) uint64 { return s.ActivationFailures }),
		gauge("current_desktop", "Desktop foreground changes are currently attributed to.",
			func(s tracker.Snapshot) float64 { return float64(s.CurrentDesktop) }),
		gauge("tracked_desktops", "Desktops with a window history.",
			func(s tracker.Snapshot) float64 { return float64(len(s.Histories)) }),
		gauge("tracked_windows", "Windows remembered across all desktop histories.",
			func(s tracker.Snapshot) float64 {
				n := 0
				for _, windows := range s.Histories {
					n += len(windows)
				}
				return float64(n)
			}),
		gauge("tracker_active", "1 while the foreground hook is registered.",
			func(s tracker.Snapshot) float64 {
				if s.State == tracker.Active {
					return 1
				}
				return 0
			}),
	)
	return reg
}

// Server serves /metrics for one registry.
type Server struct {
	addr     string
	srv      *http.Server
	listener net.Listener
}

// NewServer prepares a metrics endpoint on addr.
func NewServer(addr string, reg *prometheus.Registry) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return &Server{
		addr: addr,
		srv: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = ln

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Metrics server error: %v", err)
		}
	}()
	return nil
}

// Addr returns the bound address, useful when listening on port 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Shutdown stops the server, waiting for in-flight scrapes until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.listener == nil {
		return nil
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop metrics server: %w", err)
	}
	return nil
}
