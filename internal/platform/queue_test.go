package platform

import (
	"sync"
	"testing"
	"time"
)

func TestEventQueueDropsWhenFull(t *testing.T) {
	q := NewEventQueue(2)
	now := time.Now()

	for i, want := range []bool{true, true, false, false} {
		if got := q.Offer(Event{Window: WindowID(i + 1), At: now}); got != want {
			t.Fatalf("Offer #%d = %v, want %v", i, got, want)
		}
	}
	if got := q.Dropped(); got != 2 {
		t.Fatalf("Dropped() = %d, want 2", got)
	}

	first := <-q.Events()
	second := <-q.Events()
	if first.Window != 1 || second.Window != 2 {
		t.Fatalf("events out of order: %v, %v", first.Window, second.Window)
	}

	if !q.Offer(Event{Window: 9}) {
		t.Fatalf("Offer after drain should succeed")
	}
}

func TestNewEventQueueMinimumSize(t *testing.T) {
	for _, size := range []int{0, -5} {
		q := NewEventQueue(size)
		if cap(q.ch) != 1 {
			t.Errorf("NewEventQueue(%d) capacity = %d, want 1", size, cap(q.ch))
		}
	}
}

func TestEventQueueConcurrentOffers(t *testing.T) {
	const producers, perProducer = 8, 50
	q := NewEventQueue(16)

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Offer(Event{Window: WindowID(i + 1)})
			}
		}()
	}
	wg.Wait()

	queued := uint64(len(q.Events()))
	if queued+q.Dropped() != producers*perProducer {
		t.Fatalf("queued %d + dropped %d != offered %d", queued, q.Dropped(), producers*perProducer)
	}
}

func TestEventQueuePushEvictsOldest(t *testing.T) {
	q := NewEventQueue(2)
	q.Offer(Event{Kind: ForegroundChanged, Window: 1})
	q.Offer(Event{Kind: ForegroundChanged, Window: 2})

	q.Push(Event{Kind: DesktopChanged, Desktop: 3})
	q.Push(Event{Kind: DesktopChanged, Desktop: 4})

	if got := q.Dropped(); got != 2 {
		t.Fatalf("Dropped() = %d, want 2", got)
	}
	first := <-q.Events()
	second := <-q.Events()
	if first.Desktop != 3 || second.Desktop != 4 {
		t.Fatalf("queued desktops = %d, %d; want 3, 4", first.Desktop, second.Desktop)
	}
}

func TestEventQueuePushIntoEmptyQueue(t *testing.T) {
	q := NewEventQueue(4)
	q.Push(Event{Kind: DesktopChanged, Desktop: 2})

	if got := q.Dropped(); got != 0 {
		t.Fatalf("Dropped() = %d, want 0", got)
	}
	if ev := <-q.Events(); ev.Kind != DesktopChanged || ev.Desktop != 2 {
		t.Fatalf("event = %+v", ev)
	}
}
