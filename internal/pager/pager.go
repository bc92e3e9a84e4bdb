// Package pager implements demand paging: fault resolution, page-in
// from secondary memory, victim selection via FIFO or aging
// replacement, and the aging tick — translated from subs_pagina.c and
// trata_falha_pagina in so.c.
package pager

import (
	"errors"

	"github.com/dcvieira/ttyos/internal/frame"
	"github.com/dcvieira/ttyos/internal/machine"
	"github.com/dcvieira/ttyos/internal/process"
)

// Replacement policy names.
const (
	FIFO  = "fifo"
	Aging = "aging"
)

var ErrNoFrames = errors.New("pager: no frame available and no victim could be chosen")

// Outcome reports what OnFault decided.
type Outcome struct {
	Kill bool // true: the faulting process must be killed
}

// Pager resolves page faults against a shared frame pool and the
// main/secondary memory pair.
type Pager struct {
	frames      *frame.Pool
	fifo        *frame.FIFOQueue
	aging       *frame.AgingSet
	replacement string
	pageSize    int
	mem, sec    machine.Memory
	procs       *process.Table

	diskFreeAt int
	diskLat    int
}

// Config bundles the pager's construction parameters.
type Config struct {
	Frames      *frame.Pool
	Procs       *process.Table
	Mem, Sec    machine.Memory
	PageSize    int
	Replacement string // FIFO or Aging
	DiskLatency int
}

// New returns a pager using the given replacement policy.
func New(cfg Config) *Pager {
	return &Pager{
		frames:      cfg.Frames,
		fifo:        &frame.FIFOQueue{},
		aging:       &frame.AgingSet{},
		replacement: cfg.Replacement,
		pageSize:    cfg.PageSize,
		mem:         cfg.Mem,
		sec:         cfg.Sec,
		procs:       cfg.Procs,
		diskLat:     cfg.DiskLatency,
	}
}

// DiskFreeAt reports the simulated time at which the disk becomes
// free for the next transfer.
func (p *Pager) DiskFreeAt() int {
	return p.diskFreeAt
}

// advanceDisk applies the literal two-branch update from
// atualiza_tempo_acesso_disco: if the disk is already idle by `now`,
// the next busy window starts at now+latency; otherwise the existing
// busy window just gets extended by one more latency unit.
func (p *Pager) advanceDisk(now int) {
	if now >= p.diskFreeAt {
		p.diskFreeAt = now + p.diskLat
	} else {
		p.diskFreeAt += p.diskLat
	}
}

// IsDiskFree reports whether the disk is idle at time now, consulted
// by the pendency sweep to unblock wait=Disk descriptors (§4.4).
func (p *Pager) IsDiskFree(now int) bool {
	return now >= p.diskFreeAt
}

// evict writes a victim frame's contents back to secondary memory if
// dirty, invalidates the owner's page table entry, and frees the
// frame.
func (p *Pager) evict(victim int) error {
	pid, page, ok := p.frames.Owner(victim)
	if !ok {
		p.frames.Free(victim)
		return nil
	}
	owner := p.procs.Find(pid)
	if owner != nil {
		if owner.PageTable.Modified(page) {
			base := victim * p.pageSize
			secBase := owner.SecondaryBase + page*p.pageSize
			for i := 0; i < p.pageSize; i++ {
				b, err := p.mem.ReadByte(base + i)
				if err != nil {
					return err
				}
				if err := p.sec.WriteByte(secBase+i, b); err != nil {
					return err
				}
			}
		}
		owner.PageTable.Invalidate(page)
	}
	p.frames.Free(victim)
	return nil
}

// chooseVictim asks the configured replacement policy for a frame to
// evict.
func (p *Pager) chooseVictim() (int, bool) {
	switch p.replacement {
	case Aging:
		return p.aging.Evict()
	default:
		return p.fifo.Evict()
	}
}

// enroll registers a freshly loaded frame with the active
// replacement structure.
func (p *Pager) enroll(f int) {
	switch p.replacement {
	case Aging:
		p.aging.Enroll(f)
	default:
		p.fifo.Enroll(f)
	}
}

// LoadPage brings page into a frame for proc, evicting a victim if
// the pool is full.
func (p *Pager) LoadPage(proc *process.Descriptor, page int) error {
	f, ok := p.frames.Alloc()
	if !ok {
		victim, ok := p.chooseVictim()
		if !ok {
			return ErrNoFrames
		}
		if err := p.evict(victim); err != nil {
			return err
		}
		f = victim
	}

	base := f * p.pageSize
	secBase := proc.SecondaryBase + page*p.pageSize
	for i := 0; i < p.pageSize; i++ {
		b, err := p.sec.ReadByte(secBase + i)
		if err != nil {
			return err
		}
		if err := p.mem.WriteByte(base+i, b); err != nil {
			return err
		}
	}

	proc.PageTable.SetFrame(page, f)
	proc.PageTable.SetReferenced(page, false)
	proc.PageTable.SetModified(page, false)
	p.frames.SetOwner(f, proc.Pid, page)
	p.enroll(f)
	return nil
}

// OnFault resolves a page fault at virtAddr for proc. Faults always
// resolve synchronously: nothing in this contract blocks the
// faulting process on the disk-busy clock — the clock is advanced
// purely for bookkeeping, as §4.3's boundary scenario shows.
func (p *Pager) OnFault(proc *process.Descriptor, virtAddr, now int) Outcome {
	if virtAddr < 0 || proc.PageCount == 0 || virtAddr >= proc.PageCount*p.pageSize {
		return Outcome{Kill: true}
	}
	page := virtAddr / p.pageSize
	if err := p.LoadPage(proc, page); err != nil {
		return Outcome{Kill: true}
	}
	proc.Faults++
	p.advanceDisk(now)
	return Outcome{Kill: false}
}

// ReleaseAll frees every frame owned by pid without writing back
// (used by KILL, which discards dirty pages rather than flushing
// them).
func (p *Pager) ReleaseAll(pid int) {
	for f := 0; f < p.frames.NumFrames(); f++ {
		owner, _, ok := p.frames.Owner(f)
		if ok && owner == pid {
			p.frames.Free(f)
			p.fifo.Remove(f)
			p.aging.Remove(f)
		}
	}
}

// TickAging right-shifts the aging counter of every frame owned by
// proc, setting the top bit on frames referenced since the last
// tick, then clears the reference bit (§4.4 timer step). Scoped to
// the current process only, matching atualiza_envelhecimento's
// literal behavior — see DESIGN.md for the alternative (global) choice.
func (p *Pager) TickAging(proc *process.Descriptor) {
	if p.replacement != Aging {
		return
	}
	for _, f := range p.aging.Frames() {
		pid, page, ok := p.frames.Owner(f)
		if !ok || pid != proc.Pid {
			continue
		}
		ref := proc.PageTable.Referenced(page)
		p.aging.Observe(f, ref)
		if ref {
			proc.PageTable.SetReferenced(page, false)
		}
	}
}
