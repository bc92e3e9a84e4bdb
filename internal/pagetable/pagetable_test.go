package pagetable

import "testing"

func TestSetFrameAndInvalidate(t *testing.T) {
	pt := New(4)
	if pt.Valid(0) {
		t.Fatal("fresh table should have no valid pages")
	}
	pt.SetFrame(2, 7)
	if !pt.Valid(2) || pt.Frame(2) != 7 {
		t.Fatalf("page 2 should map to frame 7, got valid=%v frame=%d", pt.Valid(2), pt.Frame(2))
	}
	pt.SetReferenced(2, true)
	pt.SetModified(2, true)
	pt.Invalidate(2)
	if pt.Valid(2) || pt.Referenced(2) || pt.Modified(2) {
		t.Fatal("invalidate should clear valid, referenced and modified bits")
	}
}

func TestFindByFrame(t *testing.T) {
	pt := New(3)
	pt.SetFrame(0, 5)
	pt.SetFrame(1, 9)
	if pt.FindByFrame(9) != 1 {
		t.Fatalf("expected page 1 to own frame 9, got %d", pt.FindByFrame(9))
	}
	if pt.FindByFrame(42) != -1 {
		t.Fatal("expected -1 for an unowned frame")
	}
}

func TestOutOfRangeIsSafe(t *testing.T) {
	pt := New(2)
	pt.SetFrame(-1, 1)
	pt.SetFrame(5, 1)
	if pt.Valid(-1) || pt.Valid(5) {
		t.Fatal("out-of-range pages must never report valid")
	}
}
