package wire

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/spencerwhite/instrs/errors"
)

// Fixed-width primitives, little-endian. Append functions never fail;
// reads consume exactly the width of the kind or fail with expected_bytes.

// AppendU8 writes one byte.
func AppendU8(b []byte, v uint8) []byte { return append(b, v) }

// AppendU16 writes v in 2 bytes.
func AppendU16(b []byte, v uint16) []byte { return binary.LittleEndian.AppendUint16(b, v) }

// AppendU32 writes v in 4 bytes.
func AppendU32(b []byte, v uint32) []byte { return binary.LittleEndian.AppendUint32(b, v) }

// AppendU64 writes v in 8 bytes.
func AppendU64(b []byte, v uint64) []byte { return binary.LittleEndian.AppendUint64(b, v) }

// AppendU128 writes the low word, then the high word.
func AppendU128(b []byte, v Uint128) []byte {
	b = binary.LittleEndian.AppendUint64(b, v.Lo)
	return binary.LittleEndian.AppendUint64(b, v.Hi)
}

// AppendI8 writes the two's complement byte of v.
func AppendI8(b []byte, v int8) []byte { return append(b, uint8(v)) }

// AppendI16 writes v as two's complement in 2 bytes.
func AppendI16(b []byte, v int16) []byte { return AppendU16(b, uint16(v)) }

// AppendI32 writes v as two's complement in 4 bytes.
func AppendI32(b []byte, v int32) []byte { return AppendU32(b, uint32(v)) }

// AppendI64 writes v as two's complement in 8 bytes.
func AppendI64(b []byte, v int64) []byte { return AppendU64(b, uint64(v)) }

// AppendI128 writes v as two's complement in 16 bytes.
func AppendI128(b []byte, v Int128) []byte {
	return AppendU128(b, Uint128{Lo: v.Lo, Hi: uint64(v.Hi)})
}

// AppendF32 writes the IEEE-754 bits of v.
func AppendF32(b []byte, v float32) []byte { return AppendU32(b, math.Float32bits(v)) }

// AppendF64 writes the IEEE-754 bits of v.
func AppendF64(b []byte, v float64) []byte { return AppendU64(b, math.Float64bits(v)) }

// AppendInt writes a native int as 64 bits so the wire does not depend on the platform.
func AppendInt(b []byte, v int) []byte { return AppendI64(b, int64(v)) }

// AppendUint writes a native uint as 64 bits.
func AppendUint(b []byte, v uint) []byte { return AppendU64(b, uint64(v)) }

// AppendBool writes 0 for false and 1 for true.
func AppendBool(b []byte, v bool) []byte {
	if v {
		return append(b, 1)
	}
	return append(b, 0)
}

// AppendChar writes the 32-bit code point of r.
func AppendChar(b []byte, r rune) []byte { return AppendU32(b, uint32(r)) }

// AppendUnsigned writes the low w bytes of v. Callers check w.Fits(v) first.
func AppendUnsigned(b []byte, w Size, v Uint128) []byte {
	switch w {
	case Size8:
		return AppendU8(b, uint8(v.Lo))
	case Size16:
		return AppendU16(b, uint16(v.Lo))
	case Size32:
		return AppendU32(b, uint32(v.Lo))
	case Size64:
		return AppendU64(b, v.Lo)
	case Size128:
		return AppendU128(b, v)
	}
	panic("wire: invalid width " + strconv.Itoa(int(w)))
}

// U8 reads one byte.
func (c *Cursor) U8() (uint8, error) {
	b, err := c.Take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// U16 reads a 2-byte unsigned value.
func (c *Cursor) U16() (uint16, error) {
	b, err := c.Take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// U32 reads a 4-byte unsigned value.
func (c *Cursor) U32() (uint32, error) {
	b, err := c.Take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// U64 reads an 8-byte unsigned value.
func (c *Cursor) U64() (uint64, error) {
	b, err := c.Take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// U128 reads a 16-byte unsigned value, low word first.
func (c *Cursor) U128() (Uint128, error) {
	b, err := c.Take(16)
	if err != nil {
		return Uint128{}, err
	}
	return Uint128{
		Lo: binary.LittleEndian.Uint64(b[:8]),
		Hi: binary.LittleEndian.Uint64(b[8:]),
	}, nil
}

// I8 reads a one-byte signed value.
func (c *Cursor) I8() (int8, error) {
	v, err := c.U8()
	return int8(v), err
}

// I16 reads a 2-byte signed value.
func (c *Cursor) I16() (int16, error) {
	v, err := c.U16()
	return int16(v), err
}

// I32 reads a 4-byte signed value.
func (c *Cursor) I32() (int32, error) {
	v, err := c.U32()
	return int32(v), err
}

// I64 reads an 8-byte signed value.
func (c *Cursor) I64() (int64, error) {
	v, err := c.U64()
	return int64(v), err
}

// I128 reads a 16-byte signed value, low word first.
func (c *Cursor) I128() (Int128, error) {
	v, err := c.U128()
	return Int128{Lo: v.Lo, Hi: int64(v.Hi)}, err
}

// F32 reads a 4-byte IEEE-754 value.
func (c *Cursor) F32() (float32, error) {
	v, err := c.U32()
	return math.Float32frombits(v), err
}

// F64 reads an 8-byte IEEE-754 value.
func (c *Cursor) F64() (float64, error) {
	v, err := c.U64()
	return math.Float64frombits(v), err
}

// Int reads a 64-bit signed value and narrows it to the native int.
func (c *Cursor) Int() (int, error) {
	v, err := c.I64()
	if err != nil {
		return 0, err
	}
	if int64(int(v)) != v {
		return 0, errors.TooLarge(errors.PhaseDecode, 8, strconv.IntSize/8)
	}
	return int(v), nil
}

// Uint reads a 64-bit unsigned value and narrows it to the native uint.
func (c *Cursor) Uint() (uint, error) {
	v, err := c.U64()
	if err != nil {
		return 0, err
	}
	if uint64(uint(v)) != v {
		return 0, errors.TooLarge(errors.PhaseDecode, 8, strconv.IntSize/8)
	}
	return uint(v), nil
}

// Bool reads one byte; anything other than 0 or 1 fails with expected_range 0..=1.
func (c *Cursor) Bool() (bool, error) {
	v, err := c.U8()
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, errors.ExpectedRange(uint64(v), 0, 1)
}

// Char reads a 32-bit code point and rejects surrogates and values past U+10FFFF.
func (c *Cursor) Char() (rune, error) {
	v, err := c.U32()
	if err != nil {
		return 0, err
	}
	if !ValidChar(v) {
		return 0, errors.InvalidChar(v)
	}
	return rune(v), nil
}

// Unsigned reads a w-byte unsigned value.
func (c *Cursor) Unsigned(w Size) (Uint128, error) {
	switch w {
	case Size8:
		v, err := c.U8()
		return U128(uint64(v)), err
	case Size16:
		v, err := c.U16()
		return U128(uint64(v)), err
	case Size32:
		v, err := c.U32()
		return U128(uint64(v)), err
	case Size64:
		v, err := c.U64()
		return U128(v), err
	case Size128:
		return c.U128()
	}
	panic("wire: invalid width " + strconv.Itoa(int(w)))
}

// ValidChar rejects surrogates (0xD800-0xDFFF) and values >= 0x110000.
func ValidChar(v uint32) bool {
	if v >= 0xD800 && v <= 0xDFFF {
		return false
	}
	return v < 0x110000
}
