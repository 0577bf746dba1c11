package recency

import (
	"slices"
	"testing"
)

func TestStack_PushDedupesAndPeeksMostRecent(t *testing.T) {
	s := New[string](4)
	s.Push("A")
	s.Push("B")
	s.Push("A")

	if got := s.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	top, ok := s.Peek()
	if !ok || top != "A" {
		t.Fatalf("Peek() = %q, %v; want A, true", top, ok)
	}
	if got, want := s.Items(), []string{"A", "B"}; !slices.Equal(got, want) {
		t.Fatalf("Items() = %v, want %v", got, want)
	}
}

func TestStack_EvictsLeastRecentlyUsed(t *testing.T) {
	const n = 3
	s := New[int](n)
	for i := 1; i <= n+1; i++ {
		s.Push(i)
		if s.Len() > n {
			t.Fatalf("Len() = %d after push %d, exceeds capacity %d", s.Len(), i, n)
		}
	}

	if got, want := s.Items(), []int{4, 3, 2}; !slices.Equal(got, want) {
		t.Fatalf("Items() = %v, want %v", got, want)
	}
}

func TestStack_ReinsertRefreshesRecency(t *testing.T) {
	s := New[int](3)
	s.Push(1)
	s.Push(2)
	s.Push(3)
	// 1 becomes most recent, so 2 is now the eviction candidate.
	s.Push(1)
	s.Push(4)

	if got, want := s.Items(), []int{4, 1, 3}; !slices.Equal(got, want) {
		t.Fatalf("Items() = %v, want %v", got, want)
	}
}

func TestStack_CapacityOne(t *testing.T) {
	s := New[int](1)
	pushes := []int{5, 5, 7, 9, 9, 2, 7}
	for _, v := range pushes {
		s.Push(v)
		if s.Len() != 1 {
			t.Fatalf("Len() = %d after pushing %d, want 1", s.Len(), v)
		}
		top, ok := s.Peek()
		if !ok || top != v {
			t.Fatalf("Peek() = %d, %v after pushing %d", top, ok, v)
		}
	}
}

func TestStack_EmptyPeek(t *testing.T) {
	s := New[int](2)
	if v, ok := s.Peek(); ok {
		t.Fatalf("Peek() on empty stack = %d, true", v)
	}
	if s.Items() == nil || len(s.Items()) != 0 {
		t.Fatalf("Items() on empty stack = %v, want empty slice", s.Items())
	}
}

func TestNew_NonPositiveCapacityUsesDefault(t *testing.T) {
	for _, c := range []int{0, -3} {
		if got := New[int](c).Cap(); got != DefaultCapacity {
			t.Errorf("New(%d).Cap() = %d, want %d", c, got, DefaultCapacity)
		}
	}
}

func TestStack_ItemsIsACopy(t *testing.T) {
	s := New[int](2)
	s.Push(1)
	items := s.Items()
	items[0] = 42

	if top, _ := s.Peek(); top != 1 {
		t.Fatalf("mutating Items() result changed stack top to %d", top)
	}
}

func TestStack_EvictionKeepsBackingArray(t *testing.T) {
	s := New[int](3)
	want := cap(s.items)
	for i := 0; i < 50; i++ {
		s.Push(i)
	}
	if got := cap(s.items); got != want {
		t.Fatalf("cap(items) = %d after evictions, want %d", got, want)
	}
	if got := s.Items(); !slices.Equal(got, []int{49, 48, 47}) {
		t.Fatalf("Items() = %v, want [49 48 47]", got)
	}
}
