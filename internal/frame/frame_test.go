package frame

import "testing"

func TestPoolAllocFreeLowestIndex(t *testing.T) {
	p := NewPool(3)
	f, ok := p.Alloc()
	if !ok || f != 0 {
		t.Fatalf("expected frame 0, got %d ok=%v", f, ok)
	}
	p.SetOwner(f, 10, 1)
	f2, ok := p.Alloc()
	if !ok || f2 != 1 {
		t.Fatalf("expected frame 1, got %d", f2)
	}
	p.Free(0)
	f3, ok := p.Alloc()
	if !ok || f3 != 0 {
		t.Fatalf("expected freed frame 0 to be reused, got %d", f3)
	}
}

func TestPoolReserveExcludesFromAlloc(t *testing.T) {
	p := NewPool(2)
	p.Reserve(0)
	f, ok := p.Alloc()
	if !ok || f != 1 {
		t.Fatalf("expected frame 1 after reserving 0, got %d ok=%v", f, ok)
	}
	if _, _, ok := p.Owner(0); ok {
		t.Fatal("reserved frame should have no process owner")
	}
}

func TestFIFOOrder(t *testing.T) {
	q := &FIFOQueue{}
	q.Enroll(3)
	q.Enroll(1)
	q.Enroll(2)
	for _, want := range []int{3, 1, 2} {
		got, ok := q.Evict()
		if !ok || got != want {
			t.Fatalf("expected %d, got %d", want, got)
		}
	}
	if _, ok := q.Evict(); ok {
		t.Fatal("expected empty queue")
	}
}

func TestAgingChoosesSmallestCounterTieEarliest(t *testing.T) {
	s := &AgingSet{}
	s.Enroll(0)
	s.Enroll(1)
	s.Enroll(2)
	// frame 1 referenced every tick -> counter stays high.
	for i := 0; i < 3; i++ {
		s.Observe(0, false)
		s.Observe(1, true)
		s.Observe(2, false)
	}
	victim, ok := s.Evict()
	if !ok || victim != 0 {
		t.Fatalf("expected frame 0 (never referenced, earliest) to be victim, got %d", victim)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 remaining entries, got %d", s.Len())
	}
}
