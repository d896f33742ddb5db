package codec

import (
	"math"

	"github.com/spencerwhite/instrs/wire"
)

// TagWidth returns the smallest width that can hold every discriminant of a
// union with the given number of variants (tags 0..variants-1).
func TagWidth(variants int) wire.Size {
	m := uint64(max(variants-1, 0))
	switch {
	case m <= math.MaxUint8:
		return wire.Size8
	case m <= math.MaxUint16:
		return wire.Size16
	case m <= math.MaxUint32:
		return wire.Size32
	default:
		return wire.Size64
	}
}
