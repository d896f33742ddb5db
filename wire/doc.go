// Package wire implements the byte-level serialization protocol.
//
// Every value is written in a single fixed byte order (little-endian) with no
// padding and no self-description:
//
//	Kind            Bytes   Encoding
//	──────────────────────────────────────────────────────
//	bool            1       0 or 1
//	u8/i8           1
//	u16/i16         2
//	u32/i32/f32     4       floats as IEEE-754 bits
//	u64/i64/f64     8
//	int/uint        8       widened, platform independent
//	u128/i128       16      low word first
//	char            4       Unicode scalar value
//	option<T>       1+T     presence flag, then T if present
//	[N]T            N*T     elements in index order
//	list<T>         S+...   length in the size witness, then elements
//	string          S+n     byte length in the size witness, then UTF-8
//
// # Size witness
//
// Variable-length containers are prefixed with their element count encoded
// as an unsigned integer of a caller-chosen width, the Size. A narrow witness
// saves bytes per container but caps its length: with Size8 a list holds at
// most 255 elements, and encoding a longer one fails with a too_large error
// without writing a truncated length.
//
// # Cursor
//
// Decoding reads from a Cursor, a shrinking view over the remaining bytes.
// Reads consume only what the value needs; trailing bytes are left for the
// next read. A failed read is not rolled back:
//
//	m := c.Mark()
//	if _, err := c.U32(); err != nil {
//	    c.Reset(m)
//	}
//
// Cursors hold no shared state. Independent cursors may be used from
// different goroutines; a single cursor must not.
package wire
