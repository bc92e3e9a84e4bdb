package loader

import (
	"testing"

	"github.com/dcvieira/ttyos/internal/machine"
	"github.com/dcvieira/ttyos/internal/process"
)

func TestLoadBumpsSecondaryAndSizesPageTable(t *testing.T) {
	mem := machine.NewByteMemory(256)
	sec := machine.NewByteMemory(256)
	l := New(mem, sec, 16)

	img := &machine.MemImage{Entry: 0, Data: make([]byte, 20)}
	tbl := process.NewTable(2)
	p := tbl.Alloc()

	entry, err := l.Load(p, img)
	if err != nil {
		t.Fatal(err)
	}
	if entry != 0 {
		t.Fatalf("expected entry 0, got %d", entry)
	}
	if p.PageCount != 2 {
		t.Fatalf("expected 2 pages for a 20-byte image at page size 16, got %d", p.PageCount)
	}
	if l.NextFreeSecondary() != 32 {
		t.Fatalf("expected bump allocator at 32, got %d", l.NextFreeSecondary())
	}

	img2 := &machine.MemImage{Entry: 0, Data: []byte{1, 2, 3}}
	p2 := tbl.Alloc()
	if p2 != nil {
		if _, err := l.Load(p2, img2); err != nil {
			t.Fatal(err)
		}
		if p2.SecondaryBase != 32 {
			t.Fatalf("expected second image based at 32, got %d", p2.SecondaryBase)
		}
	}
}

func TestLoadRejectsUnalignedEntry(t *testing.T) {
	mem := machine.NewByteMemory(64)
	sec := machine.NewByteMemory(64)
	l := New(mem, sec, 16)
	img := &machine.MemImage{Entry: 3, Data: []byte{1}}
	tbl := process.NewTable(1)
	p := tbl.Alloc()
	if _, err := l.Load(p, img); err != ErrBadAlign {
		t.Fatalf("expected ErrBadAlign, got %v", err)
	}
}

func TestLoadPhysicalWritesFixedAddress(t *testing.T) {
	mem := machine.NewByteMemory(64)
	sec := machine.NewByteMemory(64)
	l := New(mem, sec, 16)
	img := &machine.MemImage{Entry: 0, Data: []byte{0xDE, 0xAD}}
	entry, err := l.LoadPhysical(img, 32)
	if err != nil || entry != 32 {
		t.Fatalf("expected entry 32, got %d err=%v", entry, err)
	}
	b, _ := mem.ReadByte(32)
	if b != 0xDE {
		t.Fatalf("expected 0xDE at address 32, got %x", b)
	}
}
