package machine

// RefCPU is a reference CPU stand-in. It carries the small
// save-area the dispatcher snapshots/restores (A, PC, err), the
// auxiliary fault-address register, an interval timer counter, and a
// simulated clock — enough surface for the console and test suite to
// drive trap-by-trap scenarios without decoding real instructions,
// since the instruction set itself is explicitly out of scope (§6).
type RefCPU struct {
	a, pc, errReg int
	x             int
	faultAddr     int
	timerTicks    int
	clock         int
}

// NewCPU returns a CPU with all registers zeroed.
func NewCPU() *RefCPU {
	return &RefCPU{}
}

func (c *RefCPU) SaveState() (a, pc, errReg int, err error) {
	return c.a, c.pc, c.errReg, nil
}

func (c *RefCPU) RestoreState(a, pc, errReg int) error {
	c.a, c.pc, c.errReg = a, pc, errReg
	return nil
}

func (c *RefCPU) ReadX() (int, error) { return c.x, nil }
func (c *RefCPU) WriteX(v int) error  { c.x = v; return nil }

func (c *RefCPU) FaultAddress() int { return c.faultAddr }

func (c *RefCPU) ArmTimer(ticks int) error {
	c.timerTicks = ticks
	return nil
}

func (c *RefCPU) AckTimerIRQ() error {
	c.timerTicks = 0
	return nil
}

func (c *RefCPU) Now() int { return c.clock }

// --- Harness/injection surface, used by the console and tests to
// drive a trap scenario without a real instruction decoder.

// SetA sets the A register (syscall number or result).
func (c *RefCPU) SetA(v int) { c.a = v }

// SetX sets the X register (syscall argument, e.g. an address).
func (c *RefCPU) SetX(v int) { c.x = v }

// SetPC sets the program counter.
func (c *RefCPU) SetPC(v int) { c.pc = v }

// SetErrReg sets the CPU error-register code (machine.ErrOK, ...).
func (c *RefCPU) SetErrReg(v int) { c.errReg = v }

// SetFaultAddress sets the auxiliary fault-address register.
func (c *RefCPU) SetFaultAddress(v int) { c.faultAddr = v }

// Tick advances the simulated clock by n units.
func (c *RefCPU) Tick(n int) { c.clock += n }

// A, PC, ErrReg, X expose the current register values for inspection.
func (c *RefCPU) A() int       { return c.a }
func (c *RefCPU) PC() int      { return c.pc }
func (c *RefCPU) ErrReg() int  { return c.errReg }
func (c *RefCPU) X() int       { return c.x }
func (c *RefCPU) TimerTicks() int { return c.timerTicks }
