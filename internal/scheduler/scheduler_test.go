package scheduler

import "testing"

func TestFCFSOrderIsArrival(t *testing.T) {
	p, err := New("fcfs")
	if err != nil {
		t.Fatal(err)
	}
	p.Enqueue(1, 0)
	p.Enqueue(2, 0)
	if pid, _ := p.Dequeue(); pid != 1 {
		t.Fatalf("expected pid 1 first, got %d", pid)
	}
	if p.UsesQuantum() {
		t.Fatal("fcfs must not use quantum preemption")
	}
}

func TestRoundRobinRequeueGoesToTail(t *testing.T) {
	p, _ := New("rr")
	p.Enqueue(1, 0)
	p.Enqueue(2, 0)
	p.Requeue(1, 0, 5, 5) // pid 1's quantum expired
	order := []int{}
	for {
		pid, ok := p.Dequeue()
		if !ok {
			break
		}
		order = append(order, pid)
	}
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Fatalf("expected [2 1], got %v", order)
	}
}

func TestPriorityAgedOrdersAscendingAndRecomputes(t *testing.T) {
	p, _ := New("priority")
	p.Enqueue(1, 0.3)
	p.Enqueue(2, 0.9)
	headPid, headPrio, ok := p.PeekPriority()
	if !ok || headPid != 1 || headPrio != 0.3 {
		t.Fatalf("expected pid 1 at head with prio 0.3, got pid=%d prio=%v", headPid, headPrio)
	}
	// Quantum fully used (5/5): new priority = (0.3 + 1)/2 = 0.65.
	newPrio := p.Requeue(1, 0.3, 5, 5)
	if newPrio != 0.65 {
		t.Fatalf("expected recomputed priority 0.65, got %v", newPrio)
	}
	// 0.65 < 0.9 so pid 1 is still scheduled ahead of pid 2.
	headPid, _, _ = p.PeekPriority()
	if headPid != 1 {
		t.Fatalf("expected pid 1 still at head (0.65 < 0.9), got %d", headPid)
	}
}

func TestPriorityAgedTieBreaksByArrival(t *testing.T) {
	p, _ := New("priority")
	p.Enqueue(1, 0.5)
	p.Enqueue(2, 0.5)
	pid, _, _ := p.PeekPriority()
	if pid != 1 {
		t.Fatalf("expected earlier arrival (pid 1) to win tie, got %d", pid)
	}
}
