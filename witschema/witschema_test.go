package witschema

import (
	"testing"

	"go.bytecodealliance.org/wit"

	"github.com/spencerwhite/instrs/codec"
	"github.com/spencerwhite/instrs/errors"
	"github.com/spencerwhite/instrs/wire"
)

type Instruction interface{ isInstruction() }

type Nop struct{}
type Jmp uint
type Add struct{ A, B, StoreIn uint8 }
type Etc struct {
	Ch   *rune `instrs:"char"`
	Flag bool
}
type PushMany []uint32
type Point struct{ X, Y int16 }
type Draw struct{ At Point }

func (Nop) isInstruction()      {}
func (Jmp) isInstruction()      {}
func (Add) isInstruction()      {}
func (Etc) isInstruction()      {}
func (PushMany) isInstruction() {}
func (Draw) isInstruction()     {}

func newInstructions(t *testing.T) *codec.Union[Instruction] {
	t.Helper()
	u, err := codec.NewUnion[Instruction](codec.NewCompiler(),
		Nop{}, Jmp(0), Add{}, Etc{}, PushMany(nil), Draw{})
	if err != nil {
		t.Fatalf("NewUnion failed: %v", err)
	}
	return u
}

func TestDescribe(t *testing.T) {
	td, err := Describe(newInstructions(t))
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if td.Name == nil || *td.Name != "instruction" {
		t.Fatalf("name = %v, want instruction", td.Name)
	}
	v, ok := td.Kind.(*wit.Variant)
	if !ok {
		t.Fatalf("kind = %T, want *wit.Variant", td.Kind)
	}

	wantCases := []string{"nop", "jmp", "add", "etc", "push-many", "draw"}
	if len(v.Cases) != len(wantCases) {
		t.Fatalf("got %d cases, want %d", len(v.Cases), len(wantCases))
	}
	for i, c := range v.Cases {
		if c.Name != wantCases[i] {
			t.Errorf("case %d = %q, want %q", i, c.Name, wantCases[i])
		}
	}

	if v.Cases[0].Type != nil {
		t.Errorf("unit case has payload %T", v.Cases[0].Type)
	}
	if _, ok := v.Cases[1].Type.(wit.U64); !ok {
		t.Errorf("jmp payload = %T, want wit.U64", v.Cases[1].Type)
	}

	add, ok := v.Cases[2].Type.(*wit.TypeDef)
	if !ok {
		t.Fatalf("add payload = %T, want *wit.TypeDef", v.Cases[2].Type)
	}
	rec, ok := add.Kind.(*wit.Record)
	if !ok || len(rec.Fields) != 3 || rec.Fields[2].Name != "store-in" {
		t.Errorf("add payload = %#v, want record with store-in", add.Kind)
	}
}

func TestRender(t *testing.T) {
	td, err := Describe(newInstructions(t))
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}

	want := `record instruction-add {
  a: u8,
  b: u8,
  store-in: u8,
}

record instruction-etc {
  ch: option<char>,
  flag: bool,
}

record point {
  x: s16,
  y: s16,
}

record instruction-draw {
  at: point,
}

variant instruction {
  nop,
  jmp(u64),
  add(instruction-add),
  etc(instruction-etc),
  push-many(list<u32>),
  draw(instruction-draw),
}
`
	if got := Render(td); got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

type Shape interface{ isShape() }

type Dot struct{}
type Line struct{ From, To Point }
type Boxed struct {
	Inner *Point `instrs:"box"`
}
type Bytes []byte
type Grid [3]int8
type Big struct{ N wire.Int128 }

func (Dot) isShape()   {}
func (Line) isShape()  {}
func (Boxed) isShape() {}
func (Bytes) isShape() {}
func (Grid) isShape()  {}
func (Big) isShape()   {}

func TestDescribe_SharedAndBoxed(t *testing.T) {
	u, err := codec.NewUnion[Shape](codec.NewCompiler(), Dot{}, Line{}, Boxed{}, Bytes(nil), Grid{}, Big{})
	if err != nil {
		t.Fatalf("NewUnion failed: %v", err)
	}
	td, err := Describe(u)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	cases := td.Kind.(*wit.Variant).Cases

	line := cases[1].Type.(*wit.TypeDef).Kind.(*wit.Record)
	if line.Fields[0].Type != line.Fields[1].Type {
		t.Error("repeated record type should be declared once")
	}
	boxed := cases[2].Type.(*wit.TypeDef).Kind.(*wit.Record)
	if boxed.Fields[0].Type != line.Fields[0].Type {
		t.Error("box should describe its inner type")
	}

	tests := []struct {
		name string
		typ  wit.Type
		want string
	}{
		{"bytes", cases[3].Type, "list<u8>"},
		{"array", cases[4].Type, "tuple<s8, s8, s8>"},
		{"named", line.Fields[0].Type, "point"},
		{"s128", cases[5].Type.(*wit.TypeDef).Kind.(*wit.Record).Fields[0].Type, "tuple<u64, u64>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TypeString(tt.typ); got != tt.want {
				t.Errorf("TypeString() = %q, want %q", got, tt.want)
			}
		})
	}
}

type Node interface{ isNode() }

type Leaf struct{ V uint8 }
type Branch struct{ L, R Node }

func (*Leaf) isNode()   {}
func (*Branch) isNode() {}

type Port uint16

func (p Port) MarshalInstrs(b []byte, _ wire.Size) ([]byte, error) {
	return append(b, byte(p>>8), byte(p)), nil
}

func (p *Port) UnmarshalInstrs(c *wire.Cursor, _ wire.Size) error {
	raw, err := c.Take(2)
	if err != nil {
		return err
	}
	*p = Port(raw[0])<<8 | Port(raw[1])
	return nil
}

type Listen struct{ On Port }

func (Listen) isShape() {}

func TestDescribe_Unsupported(t *testing.T) {
	nodes, err := codec.NewUnion[Node](codec.NewCompiler(), &Leaf{}, &Branch{})
	if err != nil {
		t.Fatalf("NewUnion failed: %v", err)
	}
	if _, err := Describe(nodes); !errors.IsKind(err, errors.KindUnsupported) {
		t.Errorf("recursive: got %v, want unsupported", err)
	}

	shapes, err := codec.NewUnion[Shape](codec.NewCompiler(), Dot{}, Listen{})
	if err != nil {
		t.Fatalf("NewUnion failed: %v", err)
	}
	if _, err := Describe(shapes); !errors.IsKind(err, errors.KindUnsupported) {
		t.Errorf("custom: got %v, want unsupported", err)
	}
}

func TestKebab(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Nop", "nop"},
		{"StoreIn", "store-in"},
		{"PushString", "push-string"},
		{"DoFiveTimes", "do-five-times"},
		{"HTTPServer", "http-server"},
		{"UserID", "user-id"},
		{"Case0", "case0"},
		{"store_in", "store-in"},
		{"0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Kebab(tt.in); got != tt.want {
				t.Errorf("Kebab(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDescribe_AllowRecursion(t *testing.T) {
	nodes, err := codec.NewUnion[Node](codec.NewCompiler(), &Leaf{}, &Branch{})
	if err != nil {
		t.Fatalf("NewUnion failed: %v", err)
	}
	td, err := Describe(nodes, AllowRecursion())
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}

	branch := td.Kind.(*wit.Variant).Cases[1].Type.(*wit.TypeDef).Kind.(*wit.Record)
	if branch.Fields[0].Type != td {
		t.Error("recursive field should point back at the variant")
	}

	want := `record node-leaf {
  v: u8,
}

record node-branch {
  l: node,
  r: node,
}

variant node {
  leaf(node-leaf),
  branch(node-branch),
}
`
	if got := Render(td); got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}
