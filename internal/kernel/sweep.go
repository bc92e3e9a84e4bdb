package kernel

import "github.com/dcvieira/ttyos/internal/process"

// sweep resolves pendencies after handling a trap (§4.4): release the
// current process's terminal if it's no longer mid-round, probe every
// Blocked descriptor's wait reason in ascending table order, unblock
// disk waiters whose transfer has completed, and — for quantum
// schedulers — requeue the current process if its quantum expired.
func (k *Kernel) sweep() {
	k.flushPendingRequeues()

	if k.current != nil && k.current.State != process.Blocked {
		k.term.Release(k.terminalIndex(k.current))
	}

	now := k.cpu.Now()
	for _, d := range k.procs.All() {
		if d.State != process.Blocked {
			continue
		}
		switch d.Wait {
		case process.WaitRead:
			k.resolveRead(d)
		case process.WaitWrite:
			k.resolveWrite(d)
		case process.WaitDisk:
			if k.pg.IsDiskFree(now) {
				d.Wait = process.WaitNone
				k.markReady(d)
			}
		case process.WaitJoin:
			// resolved directly by kill(), not polled here.
		}
	}

	k.expireQuantum()
}

func (k *Kernel) resolveRead(d *process.Descriptor) {
	idx := k.terminalIndex(d)
	if k.term.Busy(idx) {
		return
	}
	ready, _ := k.io.KeyboardReady(idx)
	if !ready {
		return
	}
	val, err := k.io.ReadKeyboard(idx)
	if err != nil {
		return
	}
	d.A = val
	k.markReady(d)
}

func (k *Kernel) resolveWrite(d *process.Descriptor) {
	idx := k.terminalIndex(d)
	if k.term.Busy(idx) {
		return
	}
	ready, _ := k.io.ScreenReady(idx)
	if !ready {
		return
	}
	if err := k.io.WriteScreen(idx, d.X); err != nil {
		return
	}
	d.A = 0
	k.markReady(d)
}

// expireQuantum takes the current process out of the scheduling race
// once its quantum hits zero (§4.4 step 3's "Blocked-for-quantum"):
// it stays Ready but isn't re-enqueued this trap, so schedule() must
// hand the CPU to a sibling that's already waiting. The recomputed
// priority is folded in and the pid rejoins the ready queue on the
// next sweep via flushPendingRequeues — see the worked example in
// DESIGN.md for why the reinsertion can't happen in the same cycle.
func (k *Kernel) expireQuantum() {
	if !k.ready.UsesQuantum() || k.current == nil {
		return
	}
	if k.current.State != process.Ready || k.current.Quantum > 0 {
		return
	}
	if k.ready.Len() == 0 {
		k.current.Quantum = k.cfg.QuantumInit
		return
	}
	used := k.cfg.QuantumInit - k.current.Quantum
	k.pendingRequeue = append(k.pendingRequeue, pendingRequeue{
		pid:          k.current.Pid,
		priorityPrev: k.current.Priority,
		quantumUsed:  used,
	})
	k.current.Quantum = k.cfg.QuantumInit
	k.yield = true
}

// flushPendingRequeues re-enqueues processes whose quantum expired on
// the previous trap, now that a sibling has had its turn.
func (k *Kernel) flushPendingRequeues() {
	if len(k.pendingRequeue) == 0 {
		return
	}
	pending := k.pendingRequeue
	k.pendingRequeue = nil
	for _, pr := range pending {
		delete(k.crossoverEligible, pr.pid)
		d := k.procs.Find(pr.pid)
		if d == nil {
			continue
		}
		d.Priority = k.ready.Requeue(pr.pid, pr.priorityPrev, pr.quantumUsed, k.cfg.QuantumInit)
	}
}
