package terminal

import "testing"

func TestAcquireReleaseBusy(t *testing.T) {
	tbl := New(4)
	if tbl.Busy(0) {
		t.Fatal("fresh table should have no busy terminals")
	}
	tbl.Acquire(0)
	if !tbl.Busy(0) {
		t.Fatal("terminal 0 should be busy after Acquire")
	}
	if tbl.Busy(1) {
		t.Fatal("acquiring terminal 0 must not affect terminal 1")
	}
	tbl.Release(0)
	if tbl.Busy(0) {
		t.Fatal("terminal 0 should be free after Release")
	}
}
