package wire

import (
	"math"
	"strconv"
	"strings"

	"github.com/spencerwhite/instrs/errors"
)

// Size is the width in bytes of the unsigned integer that prefixes
// variable-length containers with their element count (the size witness).
//
// The width is fixed for one encode/decode session and must match between
// producer and consumer. A mismatch is not detectable when decoding except
// through incidental malformed-length failures.
type Size uint8

const (
	Size8   Size = 1
	Size16  Size = 2
	Size32  Size = 4
	Size64  Size = 8
	Size128 Size = 16
)

// Valid reports whether s is one of the supported widths.
func (s Size) Valid() bool {
	switch s {
	case Size8, Size16, Size32, Size64, Size128:
		return true
	}
	return false
}

// Width returns the number of bytes a value of this size occupies.
func (s Size) Width() int { return int(s) }

// Bits returns the width in bits.
func (s Size) Bits() int { return int(s) * 8 }

// Max returns the largest value representable in s.
func (s Size) Max() Uint128 {
	switch {
	case s >= Size128:
		return Uint128{Lo: math.MaxUint64, Hi: math.MaxUint64}
	case s == Size64:
		return U128(math.MaxUint64)
	default:
		return U128(1<<uint(s.Bits()) - 1)
	}
}

// Fits reports whether v is representable in s.
func (s Size) Fits(v Uint128) bool {
	return v.BitLen() <= s.Bits()
}

func (s Size) String() string {
	if !s.Valid() {
		return "size(" + strconv.Itoa(int(s)) + ")"
	}
	return "u" + strconv.Itoa(s.Bits())
}

// AppendLength narrows n into the witness and writes it. When n does not
// fit, nothing is written and a too_large error is returned.
func (s Size) AppendLength(b []byte, n int) ([]byte, error) {
	v := U128(uint64(n))
	if n < 0 || !s.Fits(v) {
		return b, errors.TooLarge(errors.PhaseEncode, bytesFor(v), s.Width())
	}
	return AppendUnsigned(b, s, v), nil
}

// ReadLength reads a witness-width value and widens it to int.
func (s Size) ReadLength(c *Cursor) (int, error) {
	v, err := c.Unsigned(s)
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() || v.Lo > math.MaxInt {
		return 0, errors.TooLarge(errors.PhaseDecode, bytesFor(v), strconv.IntSize/8)
	}
	return int(v.Lo), nil
}

// ParseSize accepts a width in bits ("8", "32") or an unsigned type name ("u16").
func ParseSize(str string) (Size, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(str)), "u"))
	if err == nil && n > 0 && n <= 128 && n%8 == 0 {
		if s := Size(n / 8); s.Valid() {
			return s, nil
		}
	}
	return 0, errors.InvalidInput(errors.PhaseConfig, "unknown size witness "+strconv.Quote(str))
}

func bytesFor(v Uint128) int {
	n := (v.BitLen() + 7) / 8
	if n == 0 {
		return 1
	}
	return n
}
