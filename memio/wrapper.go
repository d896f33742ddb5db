package memio

import (
	"context"

	"github.com/spencerwhite/instrs"
	"github.com/spencerwhite/instrs/errors"
	"github.com/tetratelabs/wazero/api"
)

// WrapMemory wraps a wazero api.Memory to implement instrs.Memory.
func WrapMemory(mem api.Memory) *Wrapper {
	if mem == nil {
		return nil
	}
	return &Wrapper{Mem: mem}
}

// WrapAllocator wraps a guest allocation function with the
// cabi_realloc(old_ptr, old_size, align, new_size) signature.
func WrapAllocator(ctx context.Context, fn api.Function) *AllocatorWrapper {
	if fn == nil {
		return nil
	}
	return &AllocatorWrapper{Ctx: ctx, Fn: fn}
}

// Wrapper adapts wazero api.Memory to the instrs.Memory interface.
type Wrapper struct {
	Mem api.Memory
}

var (
	_ instrs.Memory      = (*Wrapper)(nil)
	_ instrs.MemorySizer = (*Wrapper)(nil)
	_ instrs.Allocator   = (*AllocatorWrapper)(nil)
)

// Read returns a view of guest memory. The view aliases the guest and is
// invalidated when memory grows.
func (m *Wrapper) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.Mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseRuntime, nil, int(offset)+int(length), int(m.Mem.Size()))
	}
	return data, nil
}

// Write copies data into guest memory.
func (m *Wrapper) Write(offset uint32, data []byte) error {
	if !m.Mem.Write(offset, data) {
		return errors.OutOfBounds(errors.PhaseRuntime, nil, int(offset)+len(data), int(m.Mem.Size()))
	}
	return nil
}

// Size returns the current memory size in bytes.
func (m *Wrapper) Size() uint32 {
	return m.Mem.Size()
}

// AllocatorWrapper adapts a guest cabi_realloc export to instrs.Allocator.
type AllocatorWrapper struct {
	Ctx context.Context
	Fn  api.Function
}

// Alloc allocates memory using cabi_realloc.
func (a *AllocatorWrapper) Alloc(size, align uint32) (uint32, error) {
	results, err := a.Fn.Call(a.Ctx, 0, 0, uint64(align), uint64(size))
	if err != nil {
		return 0, errors.New(errors.PhaseRuntime, errors.KindInvalidInput).
			Value(size).
			Cause(err).
			Detail("allocation of %d byte(s) failed", size).
			Build()
	}
	if len(results) == 0 {
		return 0, errors.InvalidInput(errors.PhaseRuntime, "allocation returned no result")
	}
	return uint32(results[0]), nil
}

// Free deallocates memory using cabi_realloc.
func (a *AllocatorWrapper) Free(ptr, size, align uint32) {
	_, _ = a.Fn.Call(a.Ctx, uint64(ptr), uint64(size), uint64(align), 0)
}
