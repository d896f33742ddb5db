package codec

import (
	"github.com/spencerwhite/instrs/codec/internal/types"
	"github.com/spencerwhite/instrs/wire"
)

type TypeKind = types.Kind

const (
	KindBool   = types.KindBool
	KindU8     = types.KindU8
	KindS8     = types.KindS8
	KindU16    = types.KindU16
	KindS16    = types.KindS16
	KindU32    = types.KindU32
	KindS32    = types.KindS32
	KindU64    = types.KindU64
	KindS64    = types.KindS64
	KindU128   = types.KindU128
	KindS128   = types.KindS128
	KindF32    = types.KindF32
	KindF64    = types.KindF64
	KindChar   = types.KindChar
	KindString = types.KindString
	KindBytes  = types.KindBytes
	KindList   = types.KindList
	KindArray  = types.KindArray
	KindRecord = types.KindRecord
	KindOption = types.KindOption
	KindBox    = types.KindBox
	KindUnion  = types.KindUnion
	KindCustom = types.KindCustom
)

type CompiledType = types.CompiledType
type CompiledField = types.Field
type CompiledCase = types.Case

// Marshaler is implemented by types that write their own wire form.
// A Marshaler is encoded opaquely: the codec neither frames nor inspects
// the bytes it appends.
type Marshaler interface {
	MarshalInstrs(b []byte, size wire.Size) ([]byte, error)
}

// Unmarshaler is the decoding counterpart of Marshaler, implemented on the
// pointer receiver.
type Unmarshaler interface {
	UnmarshalInstrs(c *wire.Cursor, size wire.Size) error
}
