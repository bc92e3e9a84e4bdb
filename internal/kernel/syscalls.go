package kernel

import (
	"github.com/dcvieira/ttyos/internal/machine"
	"github.com/dcvieira/ttyos/internal/process"
)

func (k *Kernel) handleSyscall() {
	if k.current == nil {
		return
	}
	switch k.current.A {
	case machine.SysRead:
		k.doRead()
	case machine.SysWrite:
		k.doWrite()
	case machine.SysSpawn:
		k.doSpawn()
	case machine.SysKill:
		k.kill(k.current.Pid)
	case machine.SysWait:
		k.doWait()
	default:
		k.log.Warn("kernel: unknown syscall, killing process", "pid", k.current.Pid, "syscall", k.current.A)
		k.kill(k.current.Pid)
	}
}

func (k *Kernel) terminalIndex(d *process.Descriptor) int {
	return d.TerminalID / 4
}

func (k *Kernel) doRead() {
	idx := k.terminalIndex(k.current)
	ready, _ := k.io.KeyboardReady(idx)
	if !ready {
		k.current.Wait = process.WaitRead
		k.current.State = process.Blocked
		return
	}
	val, err := k.io.ReadKeyboard(idx)
	if err != nil {
		k.current.A = -1
		return
	}
	k.current.A = val
}

func (k *Kernel) doWrite() {
	idx := k.terminalIndex(k.current)
	ready, _ := k.io.ScreenReady(idx)
	if !ready {
		k.current.Wait = process.WaitWrite
		k.current.State = process.Blocked
		return
	}
	if err := k.io.WriteScreen(idx, k.current.X); err != nil {
		k.current.A = -1
		return
	}
	k.current.A = 0
}

// doSpawn creates a new process from the program named at the
// address in X (a NUL-terminated string in the caller's address
// space), per so_chamada_cria_proc.
func (k *Kernel) doSpawn() {
	name, ok := k.copyCString(k.current, k.current.X, 64)
	if !ok {
		k.current.A = -1
		return
	}
	if k.images == nil {
		k.current.A = -1
		return
	}
	img, ok := k.images.Resolve(name)
	if !ok {
		k.current.A = -1
		return
	}
	proc := k.spawn(img)
	if proc == nil {
		k.current.A = -1
		return
	}
	k.current.A = proc.Pid
}

// spawn allocates a descriptor, loads img into it, enqueues it
// Ready, and eagerly pre-touches every page of the new process's own
// address space (not the caller's). Used both by SPAWN and by Reset
// to create the init process.
func (k *Kernel) spawn(img machine.Image) *process.Descriptor {
	proc := k.procs.Alloc()
	if proc == nil {
		return nil
	}
	if _, err := k.loader.Load(proc, img); err != nil {
		k.procs.Kill(proc.Pid)
		return nil
	}
	proc.Priority = 0.5
	proc.Quantum = k.cfg.QuantumInit
	proc.State = process.Ready
	k.ready.Enqueue(proc.Pid, proc.Priority)
	k.crossoverEligible[proc.Pid] = true

	for page := 0; page < proc.PageCount; page++ {
		if outcome := k.pg.OnFault(proc, page*k.cfg.PageSize, k.cpu.Now()); outcome.Kill {
			k.pg.ReleaseAll(proc.Pid)
			k.ready.Remove(proc.Pid)
			k.procs.Kill(proc.Pid)
			return nil
		}
	}
	return proc
}

// doWait blocks the current process until pid X terminates, per
// so_chamada_espera_proc / so_libera_espera_proc. A target that's
// already dead (or doesn't exist) returns immediately.
func (k *Kernel) doWait() {
	target := k.procs.Find(k.current.X)
	if target == nil {
		k.current.A = 0
		return
	}
	k.current.Wait = process.WaitJoin
	k.current.JoinTarget = k.current.X
	k.current.State = process.Blocked
}

// kill tears down pid: frees its frames without writeback, removes it
// from the ready queue and its terminal, releases any joiners
// blocked waiting on it, and frees its table slot.
func (k *Kernel) kill(pid int) {
	d := k.procs.Find(pid)
	if d == nil {
		return
	}
	k.pg.ReleaseAll(pid)
	k.ready.Remove(pid)
	delete(k.crossoverEligible, pid)
	k.term.Release(k.terminalIndex(d))
	d.State = process.Dead

	for _, o := range k.procs.All() {
		if o.State == process.Blocked && o.Wait == process.WaitJoin && o.JoinTarget == pid {
			o.A = 0
			o.Wait = process.WaitNone
			k.markReady(o)
		}
	}

	k.procs.Kill(pid)
	if k.current != nil && k.current.Pid == pid {
		k.current = nil
		k.yield = true
	}
}

// copyCString reads a NUL-terminated string out of proc's address
// space via the MMU, falling back to secondary memory on a miss —
// so_copia_str_do_processo's literal behavior.
func (k *Kernel) copyCString(proc *process.Descriptor, addr, maxLen int) (string, bool) {
	buf := make([]byte, 0, maxLen)
	for i := 0; i < maxLen; i++ {
		var ch byte
		if phys, ok := k.mmu.Translate(addr+i, machine.AccessRead); ok {
			b, err := k.mem.ReadByte(phys)
			if err != nil {
				return "", false
			}
			ch = b
		} else {
			secAddr := proc.SecondaryBase + addr + i
			if secAddr-proc.SecondaryBase >= proc.PageCount*k.cfg.PageSize {
				return "", false
			}
			b, err := k.sec.ReadByte(secAddr)
			if err != nil {
				return "", false
			}
			ch = b
		}
		if ch == 0 {
			return string(buf), true
		}
		buf = append(buf, ch)
	}
	return "", false
}
