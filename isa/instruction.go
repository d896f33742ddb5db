package isa

import (
	"github.com/spencerwhite/instrs/codec"
	"github.com/spencerwhite/instrs/wire"
)

// Instruction is one operation of the sample machine.
type Instruction interface{ isInstruction() }

// Nop does nothing.
type Nop struct{}

// Jmp moves the program counter to an absolute instruction index.
type Jmp uint

// Add stores Regs[A] + Regs[B] into Regs[StoreIn].
type Add struct{ A, B, StoreIn uint8 }

// Etc loads N into Regs[Reg] and, when Ch is set and Echo is true, writes Ch
// to the output. Wide and Scale only exercise the wire format.
type Etc struct {
	Reg   uint8
	Wide  int16
	Scale float32
	N     uint
	Ch    *rune `instrs:"char"`
	Echo  bool
}

// PushString appends a line to the output.
type PushString string

// PushMany pushes each value onto the stack, first value first.
type PushMany []uint32

// Foo loads Words[i] into register Regs[i] for i < 3 and pushes Words[3].
type Foo struct {
	Regs  [3]uint8
	Words [4]uint32
}

// DoFiveTimes runs Body five times.
type DoFiveTimes struct {
	Body *Instruction `instrs:"box"`
}

// Halt stops the machine.
type Halt struct{}

func (Nop) isInstruction()         {}
func (Jmp) isInstruction()         {}
func (Add) isInstruction()         {}
func (Etc) isInstruction()         {}
func (PushString) isInstruction()  {}
func (PushMany) isInstruction()    {}
func (Foo) isInstruction()         {}
func (DoFiveTimes) isInstruction() {}
func (Halt) isInstruction()        {}

// Repeat returns DoFiveTimes around in.
func Repeat(in Instruction) DoFiveTimes {
	return DoFiveTimes{Body: &in}
}

// Union compiles the instruction set with the given size witness. Tags follow
// the declaration order above and are part of the wire format.
func Union(size wire.Size, opts ...codec.Option) (*codec.Union[Instruction], error) {
	opts = append(opts[:len(opts):len(opts)], codec.WithSize(size))
	return codec.NewUnion[Instruction](codec.NewCompiler(opts...),
		Nop{},
		Jmp(0),
		Add{},
		Etc{},
		PushString(""),
		PushMany(nil),
		Foo{},
		DoFiveTimes{},
		Halt{},
	)
}

// EncodeProgram returns the concatenated encoding of prog.
func EncodeProgram(u *codec.Union[Instruction], prog []Instruction) ([]byte, error) {
	return u.AppendAll(nil, prog)
}

// DecodeProgram decodes a whole program; trailing partial instructions fail.
func DecodeProgram(u *codec.Union[Instruction], b []byte) ([]Instruction, error) {
	return u.DecodeAll(b)
}
