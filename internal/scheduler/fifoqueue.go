package scheduler

// entry pairs a queued pid with the priority it was last enqueued
// with; fcfs and round-robin never act on the priority field but
// carry it so Requeue/PeekPriority have a uniform return shape.
type entry struct {
	pid      int
	priority float64
}

// simpleQueue is the shared append-tail/pop-head behavior backing
// both FCFS and round-robin: the only difference between the two
// disciplines is whether quantum expiry preempts at all.
type simpleQueue struct {
	items []entry
}

func (q *simpleQueue) indexOf(pid int) int {
	for i, e := range q.items {
		if e.pid == pid {
			return i
		}
	}
	return -1
}

func (q *simpleQueue) enqueue(pid int, priority float64) {
	if q.indexOf(pid) >= 0 {
		return
	}
	q.items = append(q.items, entry{pid: pid, priority: priority})
}

func (q *simpleQueue) dequeue() (int, bool) {
	if len(q.items) == 0 {
		return -1, false
	}
	e := q.items[0]
	q.items = q.items[1:]
	return e.pid, true
}

func (q *simpleQueue) peek() (int, float64, bool) {
	if len(q.items) == 0 {
		return -1, 0, false
	}
	return q.items[0].pid, q.items[0].priority, true
}

func (q *simpleQueue) remove(pid int) (float64, bool) {
	i := q.indexOf(pid)
	if i < 0 {
		return 0, false
	}
	p := q.items[i].priority
	q.items = append(q.items[:i], q.items[i+1:]...)
	return p, true
}

func (q *simpleQueue) contains(pid int) bool {
	return q.indexOf(pid) >= 0
}

func (q *simpleQueue) len() int {
	return len(q.items)
}

// fcfs never preempts on quantum: once dispatched, a process runs
// until it blocks or is killed.
type fcfs struct {
	simpleQueue
}

func init() {
	Register("fcfs", func() Policy { return &fcfs{} })
}

func (*fcfs) Name() string       { return "fcfs" }
func (*fcfs) UsesQuantum() bool  { return false }
func (f *fcfs) Enqueue(pid int, priority float64) { f.enqueue(pid, priority) }
func (f *fcfs) Requeue(pid int, priorityPrev float64, _, _ int) float64 {
	f.remove(pid)
	f.enqueue(pid, priorityPrev)
	return priorityPrev
}
func (f *fcfs) Dequeue() (int, bool)                { return f.dequeue() }
func (f *fcfs) PeekPriority() (int, float64, bool)  { return f.peek() }
func (f *fcfs) Remove(pid int) (float64, bool)      { return f.remove(pid) }
func (f *fcfs) Contains(pid int) bool               { return f.contains(pid) }
func (f *fcfs) Len() int                            { return f.len() }

// roundRobin appends to the tail on every requeue (quantum expiry),
// giving every ready process an equal-sized turn.
type roundRobin struct {
	simpleQueue
}

func init() {
	Register("rr", func() Policy { return &roundRobin{} })
}

func (*roundRobin) Name() string      { return "rr" }
func (*roundRobin) UsesQuantum() bool { return true }
func (r *roundRobin) Enqueue(pid int, priority float64) { r.enqueue(pid, priority) }
func (r *roundRobin) Requeue(pid int, priorityPrev float64, _, _ int) float64 {
	r.remove(pid)
	r.enqueue(pid, priorityPrev)
	return priorityPrev
}
func (r *roundRobin) Dequeue() (int, bool)               { return r.dequeue() }
func (r *roundRobin) PeekPriority() (int, float64, bool) { return r.peek() }
func (r *roundRobin) Remove(pid int) (float64, bool)     { return r.remove(pid) }
func (r *roundRobin) Contains(pid int) bool              { return r.contains(pid) }
func (r *roundRobin) Len() int                           { return r.len() }
