// Package frame manages the physical frame pool and the two
// replacement-candidate structures the pager chooses a victim from:
// a FIFO enrollment queue and an aging (approximate-LRU) set. The
// shapes are carried over from subs_pagina.c's fila_t and
// Lista_quadros, translated from C linked lists into Go slices.
package frame

// owner records which process/page currently occupies a frame.
type owner struct {
	pid  int
	page int
	used bool
}

// Pool tracks which physical frames are free versus occupied, and by
// whom.
type Pool struct {
	owners []owner
}

// NewPool returns a pool of n frames, all free.
func NewPool(n int) *Pool {
	return &Pool{owners: make([]owner, n)}
}

// NumFrames returns the total frame count.
func (p *Pool) NumFrames() int {
	return len(p.owners)
}

// Reserve marks a frame permanently occupied with no owning process,
// used at boot to carve out protected low memory.
func (p *Pool) Reserve(frame int) {
	if frame < 0 || frame >= len(p.owners) {
		return
	}
	p.owners[frame] = owner{pid: -1, page: -1, used: true}
}

// Alloc returns the lowest-indexed free frame, or ok=false if none.
func (p *Pool) Alloc() (frame int, ok bool) {
	for i, o := range p.owners {
		if !o.used {
			return i, true
		}
	}
	return -1, false
}

// Free releases a frame back to the pool.
func (p *Pool) Free(frame int) {
	if frame < 0 || frame >= len(p.owners) {
		return
	}
	p.owners[frame] = owner{}
}

// IsFree reports whether a frame is currently unused.
func (p *Pool) IsFree(frame int) bool {
	if frame < 0 || frame >= len(p.owners) {
		return false
	}
	return !p.owners[frame].used
}

// SetOwner records which process/page a frame now backs.
func (p *Pool) SetOwner(frame, pid, page int) {
	if frame < 0 || frame >= len(p.owners) {
		return
	}
	p.owners[frame] = owner{pid: pid, page: page, used: true}
}

// Owner returns the pid/page occupying a frame, if any.
func (p *Pool) Owner(frame int) (pid, page int, ok bool) {
	if frame < 0 || frame >= len(p.owners) {
		return 0, 0, false
	}
	o := p.owners[frame]
	if !o.used || o.pid < 0 {
		return 0, 0, false
	}
	return o.pid, o.page, true
}

// Occupied counts frames currently in use (including reserved ones).
func (p *Pool) Occupied() int {
	n := 0
	for _, o := range p.owners {
		if o.used {
			n++
		}
	}
	return n
}

// FIFOQueue enrolls frames in the order they were loaded and hands
// back the oldest as the eviction victim, mirroring fila_insere /
// FIFO_quadro_a_substituir.
type FIFOQueue struct {
	order []int
}

// Enroll appends frame to the tail of the queue.
func (q *FIFOQueue) Enroll(frame int) {
	q.order = append(q.order, frame)
}

// Evict pops and returns the oldest enrolled frame.
func (q *FIFOQueue) Evict() (frame int, ok bool) {
	if len(q.order) == 0 {
		return -1, false
	}
	frame = q.order[0]
	q.order = q.order[1:]
	return frame, true
}

// Len reports how many frames are currently enrolled.
func (q *FIFOQueue) Len() int {
	return len(q.order)
}

// Remove drops frame from the queue outside the normal eviction
// order, used when a process is killed and its frames are freed
// directly rather than replaced.
func (q *FIFOQueue) Remove(frame int) {
	for i, f := range q.order {
		if f == frame {
			q.order = append(q.order[:i], q.order[i+1:]...)
			return
		}
	}
}

// agingEntry pairs a frame with its aging counter.
type agingEntry struct {
	frame   int
	counter uint32
}

// AgingSet approximates LRU: every tick, each enrolled frame's
// counter is shifted right one bit, and frames referenced since the
// last tick get their top bit set, mirroring
// soma_bit_mais_significativo / atualiza_envelhecimento. The frame
// with the smallest counter is the eviction victim; ties favor the
// frame enrolled earliest.
type AgingSet struct {
	entries []agingEntry
}

// Enroll adds frame to the set with a zero counter.
func (s *AgingSet) Enroll(frame int) {
	s.entries = append(s.entries, agingEntry{frame: frame})
}

// Remove drops frame from the set, if present.
func (s *AgingSet) Remove(frame int) {
	for i, e := range s.entries {
		if e.frame == frame {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

// Observe shifts frame's counter right one bit and, if referenced,
// sets the top bit before the shift takes effect next round.
func (s *AgingSet) Observe(frame int, referenced bool) {
	for i := range s.entries {
		if s.entries[i].frame != frame {
			continue
		}
		s.entries[i].counter >>= 1
		if referenced {
			s.entries[i].counter |= 0x80000000
		}
		return
	}
}

// Frames returns the currently enrolled frames, in enrollment order.
func (s *AgingSet) Frames() []int {
	out := make([]int, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.frame
	}
	return out
}

// Choose returns the frame with the smallest counter without
// removing it, breaking ties by earliest enrollment.
func (s *AgingSet) Choose() (frame int, ok bool) {
	if len(s.entries) == 0 {
		return -1, false
	}
	best := s.entries[0]
	for _, e := range s.entries[1:] {
		if e.counter < best.counter {
			best = e
		}
	}
	return best.frame, true
}

// Evict chooses a victim and removes it from the set.
func (s *AgingSet) Evict() (frame int, ok bool) {
	frame, ok = s.Choose()
	if ok {
		s.Remove(frame)
	}
	return frame, ok
}

// Len reports how many frames are currently enrolled.
func (s *AgingSet) Len() int {
	return len(s.entries)
}
