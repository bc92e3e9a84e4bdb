// Package process implements the process descriptor and the
// fixed-size process table, translated from processo.h / processo.c:
// the same fields (id, PC, A, X, err, memory extent, cpu accounting,
// priority, terminal, quantum, page table) on a flat slot array
// instead of a linked list, since the dispatcher always walks every
// slot in index order (§4.4) rather than splicing a list.
package process

import "github.com/dcvieira/ttyos/internal/pagetable"

// State is a process's scheduling state.
type State int

const (
	// Dead marks a free table slot.
	Dead State = iota
	Ready
	Blocked
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Blocked:
		return "blocked"
	default:
		return "dead"
	}
}

// WaitReason records why a Blocked process is waiting.
type WaitReason int

const (
	WaitNone WaitReason = iota
	WaitRead
	WaitWrite
	WaitDisk
	WaitJoin
)

// Descriptor is one process's complete kernel-visible state.
type Descriptor struct {
	Pid   int
	State State

	// CPU-visible registers, saved/restored across traps.
	A, X, PC, ErrReg int

	// Accounting.
	CPUTicks int
	RunCount int
	Faults   int

	// Scheduling.
	Priority float64
	Quantum  int

	// Terminal ownership and pending I/O.
	TerminalID int
	Wait       WaitReason
	JoinTarget int

	// Address space.
	VirtBase      int
	VirtSize      int
	SecondaryBase int
	PageCount     int
	PageTable     *pagetable.Table
}

// Table is the fixed-size process descriptor store.
type Table struct {
	slots  []Descriptor
	nextID int
}

// NewTable returns a table with room for n processes.
func NewTable(n int) *Table {
	return &Table{slots: make([]Descriptor, n), nextID: 1}
}

// Len returns the table's slot capacity.
func (t *Table) Len() int {
	return len(t.slots)
}

// Alloc finds a Dead slot, assigns it a fresh pid, marks it Ready so
// the slot is no longer free, and returns it. Returns nil if the table
// is full.
func (t *Table) Alloc() *Descriptor {
	for i := range t.slots {
		if t.slots[i].State == Dead {
			t.slots[i] = Descriptor{
				Pid:        t.nextID,
				State:      Ready,
				Priority:   0.5,
				TerminalID: (t.nextID % 4) * 4,
			}
			t.nextID++
			return &t.slots[i]
		}
	}
	return nil
}

// Find returns the descriptor for pid, or nil.
func (t *Table) Find(pid int) *Descriptor {
	for i := range t.slots {
		if t.slots[i].State != Dead && t.slots[i].Pid == pid {
			return &t.slots[i]
		}
	}
	return nil
}

// All returns every slot in ascending index order, live or dead, so
// callers get the stable traversal order the pendency sweep relies
// on (§4.4: "Ordering is stable: descriptors are visited in
// ascending index").
func (t *Table) All() []*Descriptor {
	out := make([]*Descriptor, len(t.slots))
	for i := range t.slots {
		out[i] = &t.slots[i]
	}
	return out
}

// Kill frees a slot back to Dead, clearing all state. Unlike Find, it
// matches on pid alone: callers (kernel.kill) mark a descriptor Dead
// before calling this to run the joiner sweep against a consistent
// table, so by the time Kill runs Find would no longer see the slot.
func (t *Table) Kill(pid int) {
	for i := range t.slots {
		if t.slots[i].Pid == pid && t.slots[i].Pid != 0 {
			t.slots[i] = Descriptor{}
			return
		}
	}
}
