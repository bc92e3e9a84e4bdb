package parser

import (
	"errors"
	"fmt"

	"github.com/dcvieira/ttyos/internal/kernel"
	"github.com/dcvieira/ttyos/internal/machine"
)

var causeNames = map[string]machine.Cause{
	"reset":   machine.Reset,
	"syscall": machine.Syscall,
	"error":   machine.CPUError,
	"timer":   machine.Timer,
}

// ps lists every live process in the table.
func ps(_ *cmdLine, k *kernel.Kernel) (bool, error) {
	cur := k.Current()
	curPid := -1
	if cur != nil {
		curPid = cur.Pid
	}
	fmt.Printf("%-4s %-8s %-5s %-6s %8s %8s\n", "PID", "STATE", "PRIO", "QUANT", "FAULTS", "TICKS")
	for _, d := range k.Processes().All() {
		if d.Pid == 0 {
			continue
		}
		mark := " "
		if d.Pid == curPid {
			mark = "*"
		}
		fmt.Printf("%s%-4d %-8s %-5.2f %-6d %8d %8d\n", mark, d.Pid, d.State.String(), d.Priority, d.Quantum, d.Faults, d.CPUTicks)
	}
	return false, nil
}

// step advances the dispatcher by injecting n (default 1) timer
// traps, the console equivalent of letting the simulated clock tick.
func step(line *cmdLine, k *kernel.Kernel) (bool, error) {
	n := 1
	if !line.isEOL() {
		var err error
		n, err = line.getInt()
		if err != nil {
			return false, err
		}
	}
	for i := 0; i < n; i++ {
		k.HandleTrap(machine.Timer)
	}
	return false, nil
}

// irq injects a single named trap cause, for driving the dispatcher
// by hand outside the normal timer/syscall/error path.
func irq(line *cmdLine, k *kernel.Kernel) (bool, error) {
	name := line.getWord()
	cause, ok := causeNames[name]
	if !ok {
		return false, errors.New("unknown trap cause: " + name)
	}
	k.HandleTrap(cause)
	return false, nil
}

func irqComplete(_ *cmdLine) []string {
	names := make([]string, 0, len(causeNames))
	for n := range causeNames {
		names = append(names, n)
	}
	return names
}

// dump prints one process's full descriptor.
func dump(line *cmdLine, k *kernel.Kernel) (bool, error) {
	pid, err := line.getInt()
	if err != nil {
		return false, err
	}
	d := k.Processes().Find(pid)
	if d == nil {
		return false, fmt.Errorf("no such process: %d", pid)
	}
	fmt.Printf("pid=%d state=%s wait=%d pc=%d a=%d x=%d err=%d\n", d.Pid, d.State.String(), d.Wait, d.PC, d.A, d.X, d.ErrReg)
	fmt.Printf("  priority=%.3f quantum=%d faults=%d ticks=%d runs=%d terminal=%d\n", d.Priority, d.Quantum, d.Faults, d.CPUTicks, d.RunCount, d.TerminalID)
	fmt.Printf("  pages=%d secondaryBase=%d\n", d.PageCount, d.SecondaryBase)
	return false, nil
}

// quit ends the console session.
func quit(_ *cmdLine, _ *kernel.Kernel) (bool, error) {
	return true, nil
}
