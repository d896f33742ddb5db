package wire

import (
	"math/big"
	"math/bits"
	"strconv"

	"github.com/spencerwhite/instrs/errors"
)

// Uint128 is an unsigned 128-bit integer split into two 64-bit words.
type Uint128 struct {
	Lo uint64
	Hi uint64
}

// Int128 is a signed two's complement 128-bit integer.
type Int128 struct {
	Lo uint64
	Hi int64
}

var (
	two128    = new(big.Int).Lsh(big.NewInt(1), 128)
	maxUint64 = new(big.Int).SetUint64(^uint64(0))
	maxInt128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minInt128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// U128 widens v.
func U128(v uint64) Uint128 {
	return Uint128{Lo: v}
}

// I128 sign-extends v.
func I128(v int64) Int128 {
	hi := int64(0)
	if v < 0 {
		hi = -1
	}
	return Int128{Lo: uint64(v), Hi: hi}
}

// BitLen returns the minimum number of bits needed to represent u.
func (u Uint128) BitLen() int {
	if u.Hi != 0 {
		return 64 + bits.Len64(u.Hi)
	}
	return bits.Len64(u.Lo)
}

// IsUint64 reports whether u fits in 64 bits.
func (u Uint128) IsUint64() bool {
	return u.Hi == 0
}

// Big returns u as a big.Int.
func (u Uint128) Big() *big.Int {
	x := new(big.Int).SetUint64(u.Hi)
	x.Lsh(x, 64)
	return x.Or(x, new(big.Int).SetUint64(u.Lo))
}

func (u Uint128) String() string {
	if u.Hi == 0 {
		return strconv.FormatUint(u.Lo, 10)
	}
	return u.Big().String()
}

// Big returns i as a big.Int.
func (i Int128) Big() *big.Int {
	x := Uint128{Lo: i.Lo, Hi: uint64(i.Hi)}.Big()
	if i.Hi < 0 {
		x.Sub(x, two128)
	}
	return x
}

func (i Int128) String() string {
	return i.Big().String()
}

// ParseUint128 parses a decimal unsigned 128-bit integer.
func ParseUint128(s string) (Uint128, error) {
	x, ok := new(big.Int).SetString(s, 10)
	if !ok || x.Sign() < 0 || x.Cmp(two128) >= 0 {
		return Uint128{}, errors.Expected("u128")
	}
	return fromBig(x), nil
}

// ParseInt128 parses a decimal signed 128-bit integer.
func ParseInt128(s string) (Int128, error) {
	x, ok := new(big.Int).SetString(s, 10)
	if !ok || x.Cmp(minInt128) < 0 || x.Cmp(maxInt128) > 0 {
		return Int128{}, errors.Expected("i128")
	}
	if x.Sign() < 0 {
		x.Add(x, two128)
	}
	u := fromBig(x)
	return Int128{Lo: u.Lo, Hi: int64(u.Hi)}, nil
}

func fromBig(x *big.Int) Uint128 {
	lo := new(big.Int).And(x, maxUint64).Uint64()
	hi := new(big.Int).Rsh(x, 64).Uint64()
	return Uint128{Lo: lo, Hi: hi}
}
