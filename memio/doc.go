// Package memio moves encoded instruction streams in and out of WebAssembly
// linear memory.
//
// A host that runs a guest compiled to WebAssembly with wazero can hand the
// guest bytecode, or read bytecode the guest produced, without an extra copy
// on the read side:
//
//	mem := memio.WrapMemory(mod.ExportedMemory("memory"))
//	prog, err := memio.Decode(u, mem, ptr, length)
//
// Streams are plain concatenations of encoded values with no outer framing;
// the caller tracks offset and length.
package memio
