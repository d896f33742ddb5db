package codec

import (
	"github.com/spencerwhite/instrs/wire"
	"go.uber.org/zap"
)

// DefaultMaxLength bounds the element count of a decoded sequence.
const DefaultMaxLength = 1 << 27

// DefaultMaxDepth bounds how deeply records and variants may nest.
const DefaultMaxDepth = 1 << 10

// Option configures a Compiler.
type Option func(*Compiler)

// WithSize sets the size witness used for every length prefix.
// Producer and consumer must agree on it.
func WithSize(size wire.Size) Option {
	return func(c *Compiler) {
		c.size = size
	}
}

// WithLogger overrides the package logger for one compiler.
func WithLogger(l *zap.Logger) Option {
	return func(c *Compiler) {
		c.log = l
	}
}

// WithMaxLength caps the element count accepted when decoding a sequence or
// string. Longer lengths fail with too_large before anything is allocated.
func WithMaxLength(n int) Option {
	return func(c *Compiler) {
		c.maxLength = n
	}
}

// WithMaxDepth caps how deeply records and variants may nest, counting the
// outermost value as one level. Deeper values fail with too_large instead of
// exhausting the stack. The cap applies to encoding, decoding and both text
// directions.
func WithMaxDepth(n int) Option {
	return func(c *Compiler) {
		c.maxDepth = n
	}
}
