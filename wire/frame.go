package wire

import (
	"unicode/utf8"

	"github.com/spencerwhite/instrs/errors"
)

// AppendFunc appends the encoding of one value.
type AppendFunc[T any] func(b []byte, v T) ([]byte, error)

// DecodeFunc decodes one value from the front of a cursor.
type DecodeFunc[T any] func(c *Cursor) (T, error)

// Total adapts an encoder that cannot fail.
func Total[T any](f func([]byte, T) []byte) AppendFunc[T] {
	return func(b []byte, v T) ([]byte, error) {
		return f(b, v), nil
	}
}

// AppendSeq writes len(items) as a witness-width prefix followed by each item.
func AppendSeq[T any](b []byte, s Size, items []T, f AppendFunc[T]) ([]byte, error) {
	b, err := s.AppendLength(b, len(items))
	if err != nil {
		return b, err
	}
	for _, item := range items {
		if b, err = f(b, item); err != nil {
			return b, err
		}
	}
	return b, nil
}

// DecodeSeq reads a witness-width count followed by that many items,
// stopping at the first item that fails.
func DecodeSeq[T any](c *Cursor, s Size, f DecodeFunc[T]) ([]T, error) {
	n, err := s.ReadLength(c)
	if err != nil {
		return nil, err
	}
	// Elements may be zero-width, so the remaining byte count only bounds
	// the preallocation, not the length.
	out := make([]T, 0, min(n, c.Len()))
	for i := 0; i < n; i++ {
		v, err := f(c)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// AppendBytes writes a length-prefixed raw byte sequence.
func AppendBytes(b []byte, s Size, data []byte) ([]byte, error) {
	b, err := s.AppendLength(b, len(data))
	if err != nil {
		return b, err
	}
	return append(b, data...), nil
}

// Bytes reads a length-prefixed byte sequence into a new slice.
func Bytes(c *Cursor, s Size) ([]byte, error) {
	raw, err := rawFrame(c, s)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), raw...), nil
}

// AppendText writes the UTF-8 byte length followed by the raw bytes.
func AppendText(b []byte, s Size, str string) ([]byte, error) {
	b, err := s.AppendLength(b, len(str))
	if err != nil {
		return b, err
	}
	return append(b, str...), nil
}

// Text reads length-prefixed UTF-8 text. The result is always an owned copy:
// a string never aliases the source buffer, which may not outlive it.
func Text(c *Cursor, s Size) (string, error) {
	raw, err := rawFrame(c, s)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", errors.InvalidUTF8(raw)
	}
	return string(raw), nil
}

func rawFrame(c *Cursor, s Size) ([]byte, error) {
	n, err := s.ReadLength(c)
	if err != nil {
		return nil, err
	}
	return c.Take(n)
}
