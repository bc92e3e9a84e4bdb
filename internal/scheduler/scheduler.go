// Package scheduler implements the three interchangeable ready-queue
// policies (§4.2): first-come-first-served, round-robin, and
// priority-aged. Each is registered under a name by an init()
// function the way the teacher's config/debugconfig package
// self-registers device debug options, so a new policy only needs to
// import this package and call Register in its own init().
package scheduler

import "fmt"

// Policy is the contract every scheduling discipline implements.
type Policy interface {
	Name() string

	// UsesQuantum reports whether this policy preempts on quantum
	// expiry. FCFS never decrements or checks quantum.
	UsesQuantum() bool

	// Enqueue adds pid to the ready queue with the given priority,
	// idempotently: re-enqueuing an already-queued pid is a no-op.
	Enqueue(pid int, priority float64)

	// Requeue is used specifically for quantum-driven re-entry (both
	// expiry and priority-crossover preemption): it recomputes the
	// stored priority from the previous value and the quantum used
	// this round, per the priority-aged formula, and returns the new
	// priority. FCFS/round-robin ignore the formula and just append
	// to the tail, returning priorityPrev unchanged.
	Requeue(pid int, priorityPrev float64, quantumUsed, quantumInitial int) (newPriority float64)

	// Dequeue removes and returns the head of the ready queue.
	Dequeue() (pid int, ok bool)

	// PeekPriority returns the head's pid/priority without removing it.
	PeekPriority() (pid int, priority float64, ok bool)

	// Remove drops pid from the queue if present.
	Remove(pid int) (priority float64, ok bool)

	// Contains reports whether pid is currently queued.
	Contains(pid int) bool

	Len() int
}

type factory func() Policy

var registry = map[string]factory{}

// Register makes a policy constructor available under name. Intended
// to be called from each policy file's init().
func Register(name string, f factory) {
	registry[name] = f
}

// New constructs a fresh policy instance by name.
func New(name string) (Policy, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("scheduler: unknown policy %q", name)
	}
	return f(), nil
}

// Names returns the registered policy names, for config validation
// and help text.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	return out
}
