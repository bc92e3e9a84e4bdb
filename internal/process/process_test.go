package process

import "testing"

func TestAllocAssignsMonotonicPids(t *testing.T) {
	tbl := NewTable(2)
	a := tbl.Alloc()
	b := tbl.Alloc()
	if a == nil || b == nil {
		t.Fatal("expected two allocations to succeed")
	}
	if a.Pid == b.Pid {
		t.Fatal("pids must be distinct")
	}
	if tbl.Alloc() != nil {
		t.Fatal("table is full, Alloc should return nil")
	}
}

func TestKillFreesSlotForReuse(t *testing.T) {
	tbl := NewTable(1)
	a := tbl.Alloc()
	a.State = Ready
	pid := a.Pid
	tbl.Kill(pid)
	if tbl.Find(pid) != nil {
		t.Fatal("killed process should no longer be findable")
	}
	b := tbl.Alloc()
	if b == nil {
		t.Fatal("slot should be reusable after Kill")
	}
	if b.Pid == pid {
		t.Fatal("pids must not be reused")
	}
}

func TestAllIsStableAscendingOrder(t *testing.T) {
	tbl := NewTable(3)
	tbl.Alloc()
	tbl.Alloc()
	all := tbl.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(all))
	}
}
