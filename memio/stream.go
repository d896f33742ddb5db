package memio

import (
	"math"

	"github.com/spencerwhite/instrs"
	"github.com/spencerwhite/instrs/codec"
	"github.com/spencerwhite/instrs/errors"
)

// Decode decodes the instruction stream stored in mem[offset:offset+length].
// The bytes are decoded in place; decoded values never alias guest memory.
func Decode[T any](u *codec.Union[T], mem instrs.Memory, offset, length uint32) ([]T, error) {
	data, err := mem.Read(offset, length)
	if err != nil {
		return nil, err
	}
	return u.DecodeAll(data)
}

// Encode writes the encoding of values at offset and returns the number of
// bytes written. Nothing is written if encoding fails.
func Encode[T any](u *codec.Union[T], mem instrs.Memory, offset uint32, values []T) (uint32, error) {
	b, err := encodeStream(u, values)
	if err != nil {
		return 0, err
	}
	if err := mem.Write(offset, b); err != nil {
		return 0, err
	}
	return uint32(len(b)), nil
}

// EncodeAlloc allocates guest memory for the encoding of values, writes it
// and returns its location. The allocation is released if the write fails.
func EncodeAlloc[T any](u *codec.Union[T], mem instrs.Memory, alloc instrs.Allocator, values []T) (ptr, length uint32, err error) {
	b, err := encodeStream(u, values)
	if err != nil {
		return 0, 0, err
	}
	length = uint32(len(b))
	ptr, err = alloc.Alloc(length, 1)
	if err != nil {
		return 0, 0, err
	}
	if err := mem.Write(ptr, b); err != nil {
		alloc.Free(ptr, length, 1)
		return 0, 0, err
	}
	return ptr, length, nil
}

func encodeStream[T any](u *codec.Union[T], values []T) ([]byte, error) {
	b, err := u.AppendAll(nil, values)
	if err != nil {
		return nil, err
	}
	if uint64(len(b)) > math.MaxUint32 {
		return nil, errors.TooLarge(errors.PhaseRuntime, 8, 4)
	}
	return b, nil
}
