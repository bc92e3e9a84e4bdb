package scheduler

// priorityAged keeps the ready queue sorted ascending by priority
// (lower value scheduled first, ties broken by insertion order),
// mirroring processo.c's lst_insere_ordenado walking forward while
// p->prio <= prio and splicing in just before the first strictly
// greater entry. Priority is recomputed on every quantum-driven
// requeue per so_calcula_prioridade: (prioPrev + used/quantumInitial)/2.
type priorityAged struct {
	items []entry
}

func init() {
	Register("priority", func() Policy { return &priorityAged{} })
}

func (*priorityAged) Name() string      { return "priority" }
func (*priorityAged) UsesQuantum() bool { return true }

func (p *priorityAged) indexOf(pid int) int {
	for i, e := range p.items {
		if e.pid == pid {
			return i
		}
	}
	return -1
}

// insertSorted splices e in just before the first entry whose
// priority is strictly greater, so equal priorities keep arrival
// order (stable).
func (p *priorityAged) insertSorted(e entry) {
	for i, cur := range p.items {
		if cur.priority > e.priority {
			p.items = append(p.items, entry{})
			copy(p.items[i+1:], p.items[i:])
			p.items[i] = e
			return
		}
	}
	p.items = append(p.items, e)
}

func (p *priorityAged) Enqueue(pid int, priority float64) {
	if p.indexOf(pid) >= 0 {
		return
	}
	p.insertSorted(entry{pid: pid, priority: priority})
}

func (p *priorityAged) Requeue(pid int, priorityPrev float64, quantumUsed, quantumInitial int) float64 {
	if i := p.indexOf(pid); i >= 0 {
		p.items = append(p.items[:i], p.items[i+1:]...)
	}
	newPriority := priorityPrev
	if quantumInitial > 0 {
		newPriority = (priorityPrev + float64(quantumUsed)/float64(quantumInitial)) / 2
	}
	p.insertSorted(entry{pid: pid, priority: newPriority})
	return newPriority
}

func (p *priorityAged) Dequeue() (int, bool) {
	if len(p.items) == 0 {
		return -1, false
	}
	e := p.items[0]
	p.items = p.items[1:]
	return e.pid, true
}

func (p *priorityAged) PeekPriority() (int, float64, bool) {
	if len(p.items) == 0 {
		return -1, 0, false
	}
	return p.items[0].pid, p.items[0].priority, true
}

func (p *priorityAged) Remove(pid int) (float64, bool) {
	i := p.indexOf(pid)
	if i < 0 {
		return 0, false
	}
	pr := p.items[i].priority
	p.items = append(p.items[:i], p.items[i+1:]...)
	return pr, true
}

func (p *priorityAged) Contains(pid int) bool {
	return p.indexOf(pid) >= 0
}

func (p *priorityAged) Len() int {
	return len(p.items)
}
