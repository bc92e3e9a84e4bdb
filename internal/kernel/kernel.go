// Package kernel implements the interrupt dispatcher pipeline (§4.1):
// snapshot the trapped process's CPU state, handle the trap cause,
// sweep pendencies, run the scheduler, and dispatch whatever process
// is chosen next. Translated from so_trata_interrupcao in so.c, with
// every external dependency (CPU, MMU, memory, I/O, loader) reached
// only through the internal/machine contracts.
package kernel

import (
	"log/slog"

	"github.com/dcvieira/ttyos/internal/frame"
	"github.com/dcvieira/ttyos/internal/loader"
	"github.com/dcvieira/ttyos/internal/machine"
	"github.com/dcvieira/ttyos/internal/pager"
	"github.com/dcvieira/ttyos/internal/process"
	"github.com/dcvieira/ttyos/internal/scheduler"
	"github.com/dcvieira/ttyos/internal/terminal"
)

// Config bundles the knobs the dispatcher needs that aren't supplied
// by a collaborator.
type Config struct {
	Scheduler    string
	Replacement  string
	NumProcesses int
	NumFrames    int
	NumTerminals int
	PageSize     int
	QuantumInit  int
	TimerTicks   int
	DiskLatency  int
	ProtectedMem int
}

// Kernel is the dispatcher and every subsystem it owns.
type Kernel struct {
	cfg Config
	log *slog.Logger

	cpu    machine.CPU
	mmu    machine.MMU
	mem    machine.Memory
	sec    machine.Memory
	io     machine.IOController
	loader *loader.Loader

	procs  *process.Table
	ready  scheduler.Policy
	frames *frame.Pool
	pg     *pager.Pager
	term   *terminal.Table

	current       *process.Descriptor
	trapHandler   machine.Image
	initImage     machine.Image
	images        ImageResolver
	internalError bool
	yield         bool

	// crossoverEligible marks ready-queue pids that arrived through a
	// genuine new event (spawn, I/O unblock, join wake) rather than
	// cycling back from their own quantum expiry. Priority-crossover
	// preemption (§4.2) only ever considers these — see DESIGN.md for
	// why a quantum-expiry rotation must not re-trigger crossover
	// against the very sibling it just yielded to.
	crossoverEligible map[int]bool

	// pendingRequeue holds processes whose quantum just expired: per
	// §4.4 step 3 they leave the scheduling race for this trap (so a
	// sibling that's already ready gets picked) and only rejoin the
	// ready queue on the *next* sweep, once their new priority has
	// been folded in.
	pendingRequeue []pendingRequeue
}

type pendingRequeue struct {
	pid          int
	priorityPrev float64
	quantumUsed  int
}

// ImageResolver looks up a named program image for SPAWN, the Go
// equivalent of the original loader's lookup-by-name glue.
type ImageResolver interface {
	Resolve(name string) (machine.Image, bool)
}

// New constructs a kernel. trapHandler is loaded into physical memory
// at address 0 on Reset; initImage is spawned as the first process;
// images resolves the name argument of a SPAWN syscall to a loadable
// image.
func New(cfg Config, cpu machine.CPU, mmu machine.MMU, mem, sec machine.Memory, io machine.IOController, trapHandler, initImage machine.Image, images ImageResolver, log *slog.Logger) (*Kernel, error) {
	frames := frame.NewPool(cfg.NumFrames)
	procs := process.NewTable(cfg.NumProcesses)
	ready, err := scheduler.New(cfg.Scheduler)
	if err != nil {
		return nil, err
	}
	ld := loader.New(mem, sec, cfg.PageSize)
	pg := pager.New(pager.Config{
		Frames:      frames,
		Procs:       procs,
		Mem:         mem,
		Sec:         sec,
		PageSize:    cfg.PageSize,
		Replacement: cfg.Replacement,
		DiskLatency: cfg.DiskLatency,
	})

	return &Kernel{
		cfg:         cfg,
		log:         log,
		cpu:         cpu,
		mmu:         mmu,
		mem:         mem,
		sec:         sec,
		io:          io,
		loader:      ld,
		procs:       procs,
		ready:       ready,
		frames:      frames,
		pg:          pg,
		term:        terminal.New(cfg.NumTerminals),
		trapHandler:       trapHandler,
		initImage:         initImage,
		images:            images,
		crossoverEligible: map[int]bool{},
	}, nil
}

// Current returns the currently dispatched process, or nil if the
// system is idle.
func (k *Kernel) Current() *process.Descriptor {
	return k.current
}

// Processes exposes the process table for inspection (console "ps").
func (k *Kernel) Processes() *process.Table {
	return k.procs
}

// HandleTrap is the dispatcher's single entry point, run once per
// trap: save, handle, sweep, schedule, dispatch. Returns 0 if a
// process was dispatched to run next, 1 if the system is idle.
func (k *Kernel) HandleTrap(cause machine.Cause) int {
	k.yield = false
	k.snapshot()
	k.handle(cause)
	k.sweep()
	k.schedule()
	return k.dispatch()
}

// snapshot copies the CPU's save-area into the current descriptor,
// per so_salva_estado_da_cpu. A process that was marked Dead this
// same trap (e.g. it killed itself) has nothing worth preserving.
func (k *Kernel) snapshot() {
	if k.current == nil || k.current.State == process.Dead {
		return
	}
	a, pc, errReg, err := k.cpu.SaveState()
	x, errX := k.cpu.ReadX()
	if err != nil || errX != nil {
		k.internalError = true
		k.log.Error("kernel: failed to snapshot CPU state", "pid", k.current.Pid)
		return
	}
	k.current.A = a
	k.current.PC = pc
	k.current.ErrReg = errReg
	k.current.X = x
}

func (k *Kernel) handle(cause machine.Cause) {
	k.log.Debug("kernel: trap received", "cause", cause.String())
	switch cause {
	case machine.Reset:
		k.handleReset()
	case machine.Syscall:
		k.handleSyscall()
	case machine.CPUError:
		k.handleCPUError()
	case machine.Timer:
		k.handleTimer()
	default:
		k.log.Warn("kernel: unknown trap cause", "cause", int(cause))
	}
}

// handleReset loads the trap handler into physical memory, arms the
// interval timer, reserves the protected low frames, and spawns the
// init process.
func (k *Kernel) handleReset() {
	if k.trapHandler != nil {
		if _, err := k.loader.LoadPhysical(k.trapHandler, 0); err != nil {
			k.log.Error("kernel: failed to load trap handler", "err", err)
		}
	}
	if err := k.cpu.ArmTimer(k.cfg.TimerTicks); err != nil {
		k.log.Error("kernel: failed to arm timer", "err", err)
	}
	for f := 0; f < k.cfg.ProtectedMem && f < k.frames.NumFrames(); f++ {
		k.frames.Reserve(f)
	}
	if k.initImage != nil {
		k.spawn(k.initImage)
	}
	k.current = nil
}

func (k *Kernel) handleTimer() {
	if err := k.cpu.AckTimerIRQ(); err != nil {
		k.log.Error("kernel: failed to ack timer IRQ", "err", err)
	}
	if err := k.cpu.ArmTimer(k.cfg.TimerTicks); err != nil {
		k.log.Error("kernel: failed to re-arm timer", "err", err)
	}
	if k.current == nil {
		return
	}
	k.current.CPUTicks++
	if k.ready.UsesQuantum() {
		k.current.Quantum--
	}
	if k.cfg.Replacement == pager.Aging {
		k.pg.TickAging(k.current)
	}
}

func (k *Kernel) handleCPUError() {
	if k.current == nil {
		return
	}
	switch k.current.ErrReg {
	case machine.ErrOK:
		return
	case machine.ErrPageFault:
		outcome := k.pg.OnFault(k.current, k.cpu.FaultAddress(), k.cpu.Now())
		if outcome.Kill {
			k.kill(k.current.Pid)
			return
		}
		if k.current.State == process.Blocked {
			k.current.Wait = process.WaitNone
			k.markReady(k.current)
		}
	default:
		k.log.Warn("kernel: fatal CPU error, killing process", "pid", k.current.Pid, "err", k.current.ErrReg)
		k.kill(k.current.Pid)
	}
}

// markReady transitions d to Ready and enqueues it as a fresh arrival
// (spawn, I/O completion, join wake) — eligible for priority-crossover
// preemption, unlike a quantum-expiry rotation (flushPendingRequeues).
// Callers are responsible for clearing d.Wait themselves *unless* the
// wait-reason is a terminal one (WaitRead/WaitWrite): that case is left
// set so schedule()'s dequeue step can see it and mark the terminal
// busy per spec.md §4.2's "If the chosen next process's wait-reason
// was a terminal... mark its terminal busy."
func (k *Kernel) markReady(d *process.Descriptor) {
	d.State = process.Ready
	k.ready.Enqueue(d.Pid, d.Priority)
	k.crossoverEligible[d.Pid] = true
}

// dispatch binds the chosen process (if any) to the CPU/MMU.
func (k *Kernel) dispatch() int {
	if k.current == nil {
		k.mmu.Unbind()
		return 1
	}
	if err := k.cpu.RestoreState(k.current.A, k.current.PC, k.current.ErrReg); err != nil {
		k.log.Error("kernel: failed to restore CPU state", "pid", k.current.Pid, "err", err)
	}
	if err := k.cpu.WriteX(k.current.X); err != nil {
		k.log.Error("kernel: failed to restore X register", "pid", k.current.Pid, "err", err)
	}
	k.mmu.BindPageTable(k.current.PageTable)
	return 0
}
