// Package loader implements the program-image loader glue (§4.6),
// translated from so_carrega_programa / so_carrega_programa_na_memoria_virtual:
// copy an image into secondary memory at the next free bump-allocated
// offset, size the new process's page table, and point PC at the
// image's (page-aligned) entry address. LoadPhysical covers the
// reset-time special case of loading the trap handler directly into
// physical memory, bypassing paging entirely.
package loader

import (
	"errors"

	"github.com/dcvieira/ttyos/internal/machine"
	"github.com/dcvieira/ttyos/internal/pagetable"
	"github.com/dcvieira/ttyos/internal/process"
)

var (
	ErrBadAlign = errors.New("loader: entry address is not page-aligned")
	ErrBadImage = errors.New("loader: image reported a byte it could not produce")
)

// Loader owns the monotonic secondary-memory bump allocator
// (nextFreeSecondary) shared by every virtual load.
type Loader struct {
	mem, sec machine.Memory
	pageSize int
	nextFree int
}

// New returns a loader writing process images into sec and the
// reset-time trap handler into mem, at the given page size.
func New(mem, sec machine.Memory, pageSize int) *Loader {
	return &Loader{mem: mem, sec: sec, pageSize: pageSize}
}

// NextFreeSecondary reports the current bump-allocator offset.
func (l *Loader) NextFreeSecondary() int {
	return l.nextFree
}

// Load copies img into secondary memory for proc, sizing its page
// table and binding PC to the image's entry address. Returns the
// entry address, or an error if the entry isn't page-aligned or the
// image is inconsistent.
func (l *Loader) Load(proc *process.Descriptor, img machine.Image) (int, error) {
	entry := img.EntryAddr()
	if entry%l.pageSize != 0 {
		return -1, ErrBadAlign
	}
	size := img.Size()
	pageCount := (size + l.pageSize - 1) / l.pageSize
	if pageCount == 0 {
		pageCount = 1
	}

	secBase := l.nextFree
	for i := 0; i < size; i++ {
		b, ok := img.ByteAt(i)
		if !ok {
			return -1, ErrBadImage
		}
		if err := l.sec.WriteByte(secBase+i, b); err != nil {
			return -1, err
		}
	}
	l.nextFree += pageCount * l.pageSize

	proc.SecondaryBase = secBase
	proc.PageCount = pageCount
	proc.VirtBase = entry
	proc.VirtSize = size
	proc.PC = entry
	proc.PageTable = pagetable.New(pageCount)
	return entry, nil
}

// LoadPhysical copies img directly into physical memory at a fixed
// address, used only for the reset-time trap handler load which has
// no owning process and no paging.
func (l *Loader) LoadPhysical(img machine.Image, fixedAddr int) (int, error) {
	size := img.Size()
	for i := 0; i < size; i++ {
		b, ok := img.ByteAt(i)
		if !ok {
			return -1, ErrBadImage
		}
		if err := l.mem.WriteByte(fixedAddr+i, b); err != nil {
			return -1, err
		}
	}
	return fixedAddr, nil
}
