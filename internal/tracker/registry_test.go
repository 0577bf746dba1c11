package tracker

import (
	"sync"
	"testing"

	"github.com/1broseidon/deskfocus/internal/platform"
)

func TestRegistryLazyCreation(t *testing.T) {
	r := NewRegistry(3)

	if _, ok := r.Top(5); ok {
		t.Fatal("Top on unseen desktop should report false")
	}
	if got := r.History(5); got != nil {
		t.Fatalf("History on unseen desktop = %v, want nil", got)
	}

	r.Push(5, 10)
	r.Push(2, 20)

	if top, ok := r.Top(5); !ok || top != 10 {
		t.Fatalf("Top(5) = %v, %v; want 10, true", top, ok)
	}
	if got := r.Desktops(); !equalDesktops(got, []platform.DesktopID{2, 5}) {
		t.Fatalf("Desktops() = %v, want [2 5]", got)
	}
}

func TestRegistryCapacityDefault(t *testing.T) {
	if got := NewRegistry(0).Capacity(); got != 4 {
		t.Fatalf("Capacity() = %d, want 4", got)
	}
}

func TestRegistrySnapshotIsCopy(t *testing.T) {
	r := NewRegistry(2)
	r.Push(1, 100)

	snap := r.Snapshot()
	snap[1][0] = 999
	snap[7] = []platform.WindowID{1}

	if top, _ := r.Top(1); top != 100 {
		t.Fatalf("registry changed through snapshot: top = %v", top)
	}
	if _, ok := r.Top(7); ok {
		t.Fatal("registry gained desktop through snapshot")
	}
}

func TestRegistryConcurrentDesktopsStayIsolated(t *testing.T) {
	const (
		desktops   = 8
		writers    = 4
		perWriter  = 200
		capacity   = 4
		windowBase = 100000
	)
	r := NewRegistry(capacity)

	var wg sync.WaitGroup
	for d := 0; d < desktops; d++ {
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func(desktop, writer int) {
				defer wg.Done()
				for i := 0; i < perWriter; i++ {
					window := platform.WindowID(desktop*windowBase + writer*perWriter + i + 1)
					r.Push(platform.DesktopID(desktop), window)
				}
			}(d, w)
		}
	}
	wg.Wait()

	for d := 0; d < desktops; d++ {
		history := r.History(platform.DesktopID(d))
		if len(history) != capacity {
			t.Fatalf("desktop %d holds %d windows, want %d", d, len(history), capacity)
		}
		seen := make(map[platform.WindowID]bool)
		for _, window := range history {
			if int(window)/windowBase != d {
				t.Fatalf("desktop %d holds window %d pushed to another desktop", d, window)
			}
			if seen[window] {
				t.Fatalf("desktop %d holds window %d twice", d, window)
			}
			seen[window] = true
		}
	}
}

func equalDesktops(a, b []platform.DesktopID) bool {
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
