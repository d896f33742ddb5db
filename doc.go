// Package instrs is a compact, deterministic binary encoding for tagged-union
// values, meant as the wire format for virtual-machine bytecode.
//
// # Architecture Overview
//
//	instrs/          Root package with the Memory and Allocator interfaces
//	├── wire/        Serialization protocol: primitives, size witness, framing
//	├── codec/       Tagged-union compiler, binary and debug text codecs
//	├── errors/      Structured error types for debugging
//	├── memio/       Instruction streams in WebAssembly linear memory (wazero)
//	├── witschema/   WIT variant declarations for compiled unions
//	├── isa/         Sample instruction set and interpreter
//	└── cmd/instrs/  Encode, decode, inspect and run from the command line
//
// # Quick Start
//
// Declare the instruction set as an interface with one type per variant:
//
//	type Instruction interface{ isInstruction() }
//
//	type Add struct{ A, B, StoreIn uint8 }
//	type Jump uint32
//	type Halt struct{}
//
// Register the variants, in tag order, with a compiler:
//
//	u, err := codec.NewUnion[Instruction](codec.NewCompiler(),
//	    Add{}, Jump(0), Halt{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	b, _ := u.Marshal(Add{A: 1, B: 2, StoreIn: 3}) // [0 1 2 3]
//	v, _ := u.Unmarshal(b)                         // Add{1, 2, 3}
//	fmt.Println(u.Format(v))                       // "Add 1,2,3, "
//
// # Wire Format
//
// Primitives are little-endian with no padding. Variable-length values are
// prefixed with their length in the size witness (codec.WithSize). A union
// value is a minimal-width tag followed by its variant's fields. There is no
// magic number, version or checksum: producer and consumer must share the
// variant order and the size witness.
package instrs
