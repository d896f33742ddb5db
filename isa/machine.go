package isa

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spencerwhite/instrs/codec"
	"github.com/spencerwhite/instrs/errors"
)

// DefaultStepLimit bounds the instructions one Run executes, counting each
// repetition of a DoFiveTimes body.
const DefaultStepLimit = 1 << 20

// repeatCount is how often DoFiveTimes runs its body.
const repeatCount = 5

// MachineOptionFunc configures a Machine.
type MachineOptionFunc func(*Machine)

// WithStepLimit sets the step limit. Zero or less disables it.
func WithStepLimit(n int) MachineOptionFunc {
	return func(m *Machine) {
		m.stepLimit = n
	}
}

// WithMachineLogger overrides the package logger for one machine.
func WithMachineLogger(l *zap.Logger) MachineOptionFunc {
	return func(m *Machine) {
		m.log = l
	}
}

// Machine executes programs over 256 registers, a value stack and an
// output log. A Machine is not safe for concurrent use.
type Machine struct {
	u         *codec.Union[Instruction]
	log       *zap.Logger
	Stack     []uint64
	Output    []string
	stepLimit int
	steps     int
	pc        int
	halted    bool
	Regs      [256]uint64
}

// NewMachine returns a machine that logs instructions with u's text form.
func NewMachine(u *codec.Union[Instruction], opts ...MachineOptionFunc) *Machine {
	m := &Machine{
		u:         u,
		log:       Logger(),
		stepLimit: DefaultStepLimit,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Steps returns the instructions executed since the last Reset.
func (m *Machine) Steps() int { return m.steps }

// Halted reports whether the last Run stopped on Halt.
func (m *Machine) Halted() bool { return m.halted }

// Reset clears registers, stack, output and counters.
func (m *Machine) Reset() {
	m.Regs = [256]uint64{}
	m.Stack = nil
	m.Output = nil
	m.steps = 0
	m.pc = 0
	m.halted = false
}

// Run executes prog from the first instruction until Halt, the end of the
// program, or an error. Machine state persists across runs until Reset.
func (m *Machine) Run(ctx context.Context, prog []Instruction) error {
	m.pc = 0
	m.halted = false
	for m.pc < len(prog) && !m.halted {
		if err := ctx.Err(); err != nil {
			return err
		}
		pc := m.pc
		m.pc++
		if err := m.exec(prog[pc], len(prog), 0); err != nil {
			if e, ok := err.(*errors.Error); ok {
				return e.WithPrefix(strconv.Itoa(pc))
			}
			return err
		}
	}
	m.log.Debug("program finished",
		zap.Int("steps", m.steps),
		zap.Bool("halted", m.halted),
		zap.Int("stack", len(m.Stack)))
	return nil
}

func (m *Machine) exec(in Instruction, n, depth int) error {
	if depth >= codec.DefaultMaxDepth {
		return errors.New(errors.PhaseRuntime, errors.KindTooLarge).
			Value(errors.Sizes{Needed: depth + 1, Max: codec.DefaultMaxDepth}).
			Detail("DoFiveTimes nests deeper than %d", codec.DefaultMaxDepth).
			Build()
	}
	if m.stepLimit > 0 && m.steps >= m.stepLimit {
		return errors.New(errors.PhaseRuntime, errors.KindTooLarge).
			Value(m.steps).
			Detail("step limit %d exceeded", m.stepLimit).
			Build()
	}
	m.steps++
	if ce := m.log.Check(zap.DebugLevel, "exec"); ce != nil {
		ce.Write(zap.Int("pc", m.pc-1), m.u.Field("instr", in))
	}

	switch in := in.(type) {
	case Nop:
	case Jmp:
		if uint64(in) > uint64(n) {
			return errors.New(errors.PhaseRuntime, errors.KindOutOfBounds).
				Value(uint64(in)).
				Detail("jump target %d past program end %d", uint64(in), n).
				Build()
		}
		m.pc = int(in)
	case Add:
		m.Regs[in.StoreIn] = m.Regs[in.A] + m.Regs[in.B]
	case Etc:
		m.Regs[in.Reg] = uint64(in.N)
		if in.Ch != nil && in.Echo {
			m.Output = append(m.Output, string(*in.Ch))
		}
	case PushString:
		m.Output = append(m.Output, string(in))
	case PushMany:
		for _, v := range in {
			m.Stack = append(m.Stack, uint64(v))
		}
	case Foo:
		for i, r := range in.Regs {
			m.Regs[r] = uint64(in.Words[i])
		}
		m.Stack = append(m.Stack, uint64(in.Words[3]))
	case DoFiveTimes:
		if in.Body == nil || *in.Body == nil {
			return errors.NilPointer(errors.PhaseRuntime, []string{"DoFiveTimes", "Body"}, "*isa.Instruction")
		}
		for range repeatCount {
			if err := m.exec(*in.Body, n, depth+1); err != nil {
				return err
			}
			if m.halted {
				break
			}
		}
	case Halt:
		m.halted = true
	default:
		return errors.New(errors.PhaseRuntime, errors.KindUnsupported).
			GoType(fmt.Sprintf("%T", in)).
			Detail("unknown instruction").
			Build()
	}
	return nil
}
