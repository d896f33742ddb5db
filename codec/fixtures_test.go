package codec

import (
	"testing"

	"github.com/spencerwhite/instrs/wire"
)

// Instruction is the three-variant set used by the byte and text vectors.
type Instruction interface{ isInstruction() }

type Add struct{ A, B, StoreIn uint8 }
type Jump uint32
type Halt struct{}

// Stray implements Instruction but is never registered.
type Stray struct{}

func (Add) isInstruction()   {}
func (Jump) isInstruction()  {}
func (Halt) isInstruction()  {}
func (Stray) isInstruction() {}

func newInstructions(t *testing.T, opts ...Option) *Union[Instruction] {
	t.Helper()
	u, err := NewUnion[Instruction](NewCompiler(opts...), Add{}, Jump(0), Halt{})
	if err != nil {
		t.Fatalf("NewUnion failed: %v", err)
	}
	return u
}

// Op exercises every field kind.
type Op interface{ isOp() }

type Nop struct{}
type Load struct {
	Reg   uint8
	Value int64
}
type Text string
type Blob []byte
type Many []uint32
type Pair [2]int16
type Wide struct {
	U wire.Uint128
	I wire.Int128
}
type Mixed struct {
	F32  float32
	F64  float64
	Ch   rune  `instrs:"char"`
	Opt  *rune `instrs:"char"`
	Flag bool
	N    int
	U    uint
	Skip string `instrs:"-"`
}
type Repeat struct {
	Count uint8
	Body  Op
}
type Boxed struct {
	Inner *Load `instrs:"box"`
}
type Names []string
type Custom struct {
	Port beU16
}

func (Nop) isOp()    {}
func (Load) isOp()   {}
func (Text) isOp()   {}
func (Blob) isOp()   {}
func (Many) isOp()   {}
func (Pair) isOp()   {}
func (Wide) isOp()   {}
func (Mixed) isOp()  {}
func (Repeat) isOp() {}
func (Boxed) isOp()  {}
func (Names) isOp()  {}
func (Custom) isOp() {}

func newOps(t *testing.T, opts ...Option) *Union[Op] {
	t.Helper()
	u, err := NewUnion[Op](NewCompiler(opts...),
		Nop{}, Load{}, Text(""), Blob(nil), Many(nil), Pair{}, Wide{},
		Mixed{}, Repeat{}, Boxed{}, Names(nil), Custom{})
	if err != nil {
		t.Fatalf("NewUnion failed: %v", err)
	}
	return u
}

// beU16 writes itself big-endian, bypassing the codec.
type beU16 uint16

func (v beU16) MarshalInstrs(b []byte, _ wire.Size) ([]byte, error) {
	return append(b, byte(v>>8), byte(v)), nil
}

func (v *beU16) UnmarshalInstrs(c *wire.Cursor, _ wire.Size) error {
	raw, err := c.Take(2)
	if err != nil {
		return err
	}
	*v = beU16(raw[0])<<8 | beU16(raw[1])
	return nil
}

// Node is registered through pointer variants.
type Node interface{ isNode() }

type Leaf struct{ V uint8 }
type Branch struct{ L, R Node }

func (*Leaf) isNode()   {}
func (*Branch) isNode() {}

func sampleOps() []Op {
	r := 'λ'
	return []Op{
		Nop{},
		Load{Reg: 3, Value: -42},
		Text("héllo"),
		Blob{0, 1, 255},
		Many{1, 2, 0xffffffff},
		Pair{-1, 300},
		Wide{U: wire.Uint128{Lo: 1, Hi: 2}, I: wire.I128(-9)},
		Mixed{F32: 1.5, F64: 0.1, Ch: 'x', Opt: &r, Flag: true, N: -7, U: 7},
		Mixed{Ch: 0x10FFFF},
		Repeat{Count: 5, Body: Repeat{Count: 2, Body: Load{Reg: 1, Value: 9}}},
		Boxed{Inner: &Load{Reg: 7, Value: 1 << 40}},
		Names{"a", "", "ccc"},
		Custom{Port: 0x0102},
	}
}
