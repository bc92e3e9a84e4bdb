package kernel

import "github.com/dcvieira/ttyos/internal/process"

// schedule implements §4.2's scheduling decision: for the
// priority-aged policy, preempt the current process on a priority
// crossover before deciding who runs next; then, unless the current
// process is still Ready and wasn't forced to yield this cycle, pull
// the next process off the ready queue.
func (k *Kernel) schedule() {
	k.priorityCrossoverCheck()

	if k.current != nil && k.current.State == process.Ready && !k.yield {
		return
	}

	pid, ok := k.ready.Dequeue()
	if !ok {
		k.current = nil
		return
	}
	delete(k.crossoverEligible, pid)
	next := k.procs.Find(pid)
	if next == nil {
		k.current = nil
		return
	}
	// A pid reaches here with Wait still set to WaitRead/WaitWrite only
	// when resolveRead/resolveWrite unblocked it this trap (markReady
	// deliberately leaves terminal waits uncleared for exactly this
	// check); every other markReady call site clears Wait itself before
	// enqueueing. This is the "mark its terminal busy" half of §4.2's
	// rescheduling decision.
	if next.Wait != process.WaitNone {
		next.Wait = process.WaitNone
		k.term.Acquire(k.terminalIndex(next))
	}
	next.RunCount++
	k.current = next
}

// priorityCrossoverCheck implements the priority-aged preemption
// rule: if the current Ready process's priority is strictly greater
// (worse) than the ready queue's head, it's removed and reinserted
// with a freshly computed priority, exactly as quantum expiry would,
// then this trap cycle is marked a forced yield. Only a head pid that
// arrived through a genuine new event is considered — see
// crossoverEligible and DESIGN.md.
func (k *Kernel) priorityCrossoverCheck() {
	if k.ready.Name() != "priority" || k.yield {
		return
	}
	if k.current == nil || k.current.State != process.Ready {
		return
	}
	headPid, headPrio, ok := k.ready.PeekPriority()
	if !ok || headPid == k.current.Pid {
		return
	}
	if !k.crossoverEligible[headPid] {
		return
	}
	if k.current.Priority <= headPrio {
		return
	}
	used := k.cfg.QuantumInit - k.current.Quantum
	newPrio := k.ready.Requeue(k.current.Pid, k.current.Priority, used, k.cfg.QuantumInit)
	delete(k.crossoverEligible, k.current.Pid)
	k.current.Priority = newPrio
	k.current.Quantum = k.cfg.QuantumInit
	k.yield = true
}
