// Package codec encodes Go sum types (tagged unions) with the wire protocol.
//
// A sum type is an interface; its variants are concrete types implementing
// it, registered in order:
//
//	type Instruction interface{ isInstruction() }
//
//	type Add struct{ A, B, StoreIn uint8 } // named fields
//	type Jump uint32                       // one positional field
//	type Halt struct{}                     // unit
//
//	u, err := codec.NewUnion[Instruction](codec.NewCompiler(),
//	    Add{}, Jump(0), Halt{})
//
// # Wire Layout
//
// A union value is its tag followed by its fields in declaration order:
//
//	┌────────────────┬──────────────────────────────┐
//	│ tag (1/2/4/8)  │ field 0 │ field 1 │ ...      │
//	└────────────────┴──────────────────────────────┘
//
// Tags are 0-based in registration order. The tag width is the smallest of
// 1, 2, 4 or 8 bytes that holds V-1 for V variants, so Add{1, 2, 3} encodes
// as [0 1 2 3] and Halt{} as [2].
//
// # Field Kinds
//
//	Go type               Wire kind
//	──────────────────────────────────────────────
//	bool, (u)int8..64     fixed width primitive
//	int, uint             64-bit primitive
//	wire.Uint128/Int128   128-bit primitive
//	float32, float64      IEEE-754 bits
//	rune `instrs:"char"`  Unicode scalar value
//	string                length + UTF-8 bytes
//	[]T                   length + elements
//	[N]T                  elements
//	struct                fields in order
//	*T                    option (presence flag)
//	*T `instrs:"box"`     the pointed-to value
//	registered interface  nested union
//	Marshaler             opaque, type-defined
//
// Lengths use the compiler's size witness (WithSize, default 32 bits).
// Fields tagged `instrs:"-"` and unexported fields are skipped.
//
// rune is an alias of int32, so only a struct field can be tagged char. A
// positional variant such as `type Key rune` encodes as a plain s32 with no
// scalar value check; use struct{ R rune `instrs:"char"` } for char semantics.
//
// # Text Form
//
// Every union also has a debug text rendering (Format, Parse) that walks the
// same plan: "Halt ", "Jump 64, ", "Add 1,2,3, ".
//
// # Errors
//
// Failures are *errors.Error values. Decode errors carry the path of the
// failing field, for example Jump.0 or Repeat.Body.Add.B. A failed decode
// does not rewind the cursor; use wire.Cursor Mark and Reset for that.
//
// Records and variants nest at most WithMaxDepth levels (DefaultMaxDepth).
// Deeper values fail with too_large in every direction, so hostile input
// cannot exhaust the stack.
package codec
