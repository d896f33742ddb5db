// Package isa is a small instruction set built on the codec package, with a
// machine that executes it.
//
// Programs travel as the concatenated encoding of their instructions:
//
//	u, _ := isa.Union(wire.Size32)
//	b, _ := isa.EncodeProgram(u, []isa.Instruction{isa.Add{A: 1, B: 2, StoreIn: 3}, isa.Halt{}})
//	// b == [2 1 2 3 8]
//
//	prog, _ := isa.DecodeProgram(u, b)
//	m := isa.NewMachine(u)
//	err := m.Run(ctx, prog)
//
// Tags, in order: Nop 0, Jmp 1, Add 2, Etc 3, PushString 4, PushMany 5,
// Foo 6, DoFiveTimes 7, Halt 8.
package isa
