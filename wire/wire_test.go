package wire

import (
	"bytes"
	"math"
	"testing"

	"github.com/spencerwhite/instrs/errors"
)

func TestAppendPrimitives(t *testing.T) {
	tests := []struct {
		name string
		got  []byte
		want []byte
	}{
		{"u8", AppendU8(nil, 7), []byte{7}},
		{"u16", AppendU16(nil, 0x0102), []byte{0x02, 0x01}},
		{"u32 one", AppendU32(nil, 1), []byte{1, 0, 0, 0}},
		{"u32 max", AppendU32(nil, math.MaxUint32), []byte{255, 255, 255, 255}},
		{"u64", AppendU64(nil, 0x0807060504030201), []byte{1, 2, 3, 4, 5, 6, 7, 8}},
		{"i8", AppendI8(nil, -1), []byte{0xff}},
		{"i16", AppendI16(nil, -2), []byte{0xfe, 0xff}},
		{"i32", AppendI32(nil, -1), []byte{0xff, 0xff, 0xff, 0xff}},
		{"int widened", AppendInt(nil, 64), []byte{64, 0, 0, 0, 0, 0, 0, 0}},
		{"uint widened", AppendUint(nil, 1), []byte{1, 0, 0, 0, 0, 0, 0, 0}},
		{"f32", AppendF32(nil, 1), []byte{0, 0, 0x80, 0x3f}},
		{"bool true", AppendBool(nil, true), []byte{1}},
		{"bool false", AppendBool(nil, false), []byte{0}},
		{"char", AppendChar(nil, 'A'), []byte{0x41, 0, 0, 0}},
		{"u128", AppendU128(nil, Uint128{Lo: 1, Hi: 2}), []byte{1, 0, 0, 0, 0, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0}},
		{"i128 negative", AppendI128(nil, I128(-1)), bytes.Repeat([]byte{0xff}, 16)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !bytes.Equal(tt.got, tt.want) {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestAppendPreservesPrefix(t *testing.T) {
	b := AppendU32([]byte{9, 9}, 1)
	if want := []byte{9, 9, 1, 0, 0, 0}; !bytes.Equal(b, want) {
		t.Errorf("got %v, want %v", b, want)
	}
}

func TestCursor_U32(t *testing.T) {
	c := NewCursor([]byte{255, 255, 255, 255})
	v, err := c.U32()
	if err != nil {
		t.Fatalf("U32: %v", err)
	}
	if v != math.MaxUint32 {
		t.Errorf("got %d, want %d", v, uint32(math.MaxUint32))
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
}

func TestCursor_ShortRead(t *testing.T) {
	c := NewCursor([]byte{1, 2})
	_, err := c.U32()
	n, ok := errors.ExpectedBytesOf(err)
	if !ok {
		t.Fatalf("expected expected_bytes, got %v", err)
	}
	if n != 2 {
		t.Errorf("shortfall = %d, want 2", n)
	}
	if c.Position() != 0 {
		t.Errorf("Position = %d, want 0", c.Position())
	}
}

func TestCursor_EmptyRead(t *testing.T) {
	_, err := NewCursor(nil).U8()
	if n, ok := errors.ExpectedBytesOf(err); !ok || n != 1 {
		t.Errorf("got %v, want expected_bytes(1)", err)
	}
}

func TestCursor_LeavesTrailingBytes(t *testing.T) {
	c := NewCursor([]byte{1, 0, 7, 8})
	v, err := c.U16()
	if err != nil {
		t.Fatalf("U16: %v", err)
	}
	if v != 1 {
		t.Errorf("got %d, want 1", v)
	}
	if !bytes.Equal(c.Remaining(), []byte{7, 8}) {
		t.Errorf("Remaining = %v, want [7 8]", c.Remaining())
	}
}

func TestCursor_MarkReset(t *testing.T) {
	c := NewCursor([]byte{1, 2, 3})
	m := c.Mark()
	if _, err := c.U16(); err != nil {
		t.Fatalf("U16: %v", err)
	}
	if _, err := c.U32(); err == nil {
		t.Fatal("expected short read")
	}
	c.Reset(m)
	if c.Position() != 0 || c.Len() != 3 {
		t.Errorf("after Reset: pos=%d len=%d", c.Position(), c.Len())
	}
}

func TestCursor_TakeClipsCapacity(t *testing.T) {
	src := []byte{1, 2, 3, 4}
	c := NewCursor(src)
	b, err := c.Take(2)
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	_ = append(b, 99)
	if src[2] != 3 {
		t.Errorf("append through view clobbered source: %v", src)
	}
}

func TestCursor_Bool(t *testing.T) {
	tests := []struct {
		in      []byte
		want    bool
		wantErr bool
	}{
		{[]byte{0}, false, false},
		{[]byte{1}, true, false},
		{[]byte{2}, false, true},
	}

	for _, tt := range tests {
		got, err := NewCursor(tt.in).Bool()
		if tt.wantErr {
			r, ok := errors.RangeOf(err)
			if !ok {
				t.Errorf("%v: expected expected_range, got %v", tt.in, err)
				continue
			}
			if r != (errors.Range{Lo: 0, Hi: 1}) {
				t.Errorf("%v: range = %v, want 0..=1", tt.in, r)
			}
			continue
		}
		if err != nil {
			t.Errorf("%v: unexpected error %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("%v: got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCursor_Char(t *testing.T) {
	tests := []struct {
		v     uint32
		valid bool
	}{
		{0x41, true},
		{0x10FFFF, true},
		{0xD800, false},
		{0xDFFF, false},
		{0x110000, false},
	}

	for _, tt := range tests {
		_, err := NewCursor(AppendU32(nil, tt.v)).Char()
		if tt.valid && err != nil {
			t.Errorf("0x%x: unexpected error %v", tt.v, err)
		}
		if !tt.valid && !errors.IsKind(err, errors.KindInvalidChar) {
			t.Errorf("0x%x: got %v, want invalid_char", tt.v, err)
		}
	}
}

func TestCursor_Signed(t *testing.T) {
	c := NewCursor(AppendI128(AppendI64(AppendI16(nil, -300), -5), I128(-7)))
	i16, err := c.I16()
	if err != nil || i16 != -300 {
		t.Errorf("I16 = %d, %v", i16, err)
	}
	i64, err := c.I64()
	if err != nil || i64 != -5 {
		t.Errorf("I64 = %d, %v", i64, err)
	}
	i128, err := c.I128()
	if err != nil || i128 != I128(-7) {
		t.Errorf("I128 = %v, %v", i128, err)
	}
}

func TestSize_Max(t *testing.T) {
	tests := []struct {
		size Size
		want Uint128
	}{
		{Size8, U128(255)},
		{Size16, U128(65535)},
		{Size32, U128(math.MaxUint32)},
		{Size64, U128(math.MaxUint64)},
		{Size128, Uint128{Lo: math.MaxUint64, Hi: math.MaxUint64}},
	}

	for _, tt := range tests {
		t.Run(tt.size.String(), func(t *testing.T) {
			if got := tt.size.Max(); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSize_AppendLengthOverflow(t *testing.T) {
	prefix := []byte{42}
	b, err := Size8.AppendLength(prefix, 256)
	sizes, ok := errors.SizesOf(err)
	if !ok {
		t.Fatalf("expected too_large, got %v", err)
	}
	if sizes.Needed != 2 || sizes.Max != 1 {
		t.Errorf("sizes = %+v, want {2 1}", sizes)
	}
	if !bytes.Equal(b, prefix) {
		t.Errorf("overflow wrote bytes: %v", b)
	}
}

func TestSize_ReadLength(t *testing.T) {
	c := NewCursor([]byte{3, 0, 9})
	n, err := Size16.ReadLength(c)
	if err != nil {
		t.Fatalf("ReadLength: %v", err)
	}
	if n != 3 {
		t.Errorf("got %d, want 3", n)
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    Size
		wantErr bool
	}{
		{"8", Size8, false},
		{"u16", Size16, false},
		{"U32", Size32, false},
		{" 64 ", Size64, false},
		{"128", Size128, false},
		{"24", 0, true},
		{"2176", 0, true},
		{"", 0, true},
		{"big", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSize(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSeq(t *testing.T) {
	b, err := AppendSeq(nil, Size8, []uint8{1, 2}, Total(AppendU8))
	if err != nil {
		t.Fatalf("AppendSeq: %v", err)
	}
	if want := []byte{2, 1, 2}; !bytes.Equal(b, want) {
		t.Errorf("got %v, want %v", b, want)
	}

	got, err := DecodeSeq(NewCursor([]byte{3, 1, 2, 3}), Size8, (*Cursor).U8)
	if err != nil {
		t.Fatalf("DecodeSeq: %v", err)
	}
	if !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Errorf("got %v, want [1 2 3]", got)
	}
}

func TestSeq_Empty(t *testing.T) {
	b, err := AppendSeq(nil, Size32, []uint32(nil), Total(AppendU32))
	if err != nil {
		t.Fatalf("AppendSeq: %v", err)
	}
	if want := []byte{0, 0, 0, 0}; !bytes.Equal(b, want) {
		t.Errorf("got %v, want %v", b, want)
	}
}

func TestSeq_TooLong(t *testing.T) {
	items := make([]uint8, 256)
	b, err := AppendSeq(nil, Size8, items, Total(AppendU8))
	if !errors.IsKind(err, errors.KindTooLarge) {
		t.Fatalf("got %v, want too_large", err)
	}
	if len(b) != 0 {
		t.Errorf("wrote %d bytes on overflow", len(b))
	}
}

func TestSeq_ElementShortfall(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  int
	}{
		{"second element missing", []byte{2, 1, 0}, 2},
		{"second element short", []byte{2, 1, 0, 5}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSeq(NewCursor(tt.input), Size8, (*Cursor).U16)
			if n, ok := errors.ExpectedBytesOf(err); !ok || n != tt.want {
				t.Errorf("got %v, want expected_bytes(%d)", err, tt.want)
			}
		})
	}
}

func TestSeq_ZeroWidthElements(t *testing.T) {
	unit := func(*Cursor) (struct{}, error) { return struct{}{}, nil }
	got, err := DecodeSeq(NewCursor([]byte{5}), Size8, unit)
	if err != nil {
		t.Fatalf("DecodeSeq: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("len = %d, want 5", len(got))
	}
}

func TestText(t *testing.T) {
	b, err := AppendText(nil, Size8, "hé")
	if err != nil {
		t.Fatalf("AppendText: %v", err)
	}
	if want := []byte{3, 'h', 0xc3, 0xa9}; !bytes.Equal(b, want) {
		t.Errorf("got %v, want %v", b, want)
	}

	s, err := Text(NewCursor(b), Size8)
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if s != "hé" {
		t.Errorf("got %q, want %q", s, "hé")
	}
}

func TestText_InvalidUTF8(t *testing.T) {
	_, err := Text(NewCursor([]byte{2, 0xff, 0xfe}), Size8)
	if !errors.IsKind(err, errors.KindInvalidUTF8) {
		t.Errorf("got %v, want invalid_utf8", err)
	}
}

func TestText_Owned(t *testing.T) {
	src := []byte{2, 'o', 'k'}
	s, err := Text(NewCursor(src), Size8)
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	src[1] = 'X'
	if s != "ok" {
		t.Errorf("decoded string aliases the source buffer: %q", s)
	}
}

func TestBytes(t *testing.T) {
	b, err := AppendBytes(nil, Size16, []byte{7, 8})
	if err != nil {
		t.Fatalf("AppendBytes: %v", err)
	}
	if want := []byte{2, 0, 7, 8}; !bytes.Equal(b, want) {
		t.Errorf("got %v, want %v", b, want)
	}
	got, err := Bytes(NewCursor(b), Size16)
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	b[2] = 0
	if !bytes.Equal(got, []byte{7, 8}) {
		t.Errorf("got %v, want [7 8]", got)
	}
}

func TestArray(t *testing.T) {
	b, err := AppendArray(nil, []uint8{1, 2, 3}, Total(AppendU8))
	if err != nil {
		t.Fatalf("AppendArray: %v", err)
	}
	if want := []byte{1, 2, 3}; !bytes.Equal(b, want) {
		t.Errorf("got %v, want %v", b, want)
	}

	var dst [2]uint16
	if err := DecodeArray(NewCursor([]byte{1, 0, 2, 0}), dst[:], (*Cursor).U16); err != nil {
		t.Fatalf("DecodeArray: %v", err)
	}
	if dst != [2]uint16{1, 2} {
		t.Errorf("got %v, want [1 2]", dst)
	}
}

func TestOption(t *testing.T) {
	v := uint16(5)
	b, err := AppendOption(nil, &v, Total(AppendU16))
	if err != nil {
		t.Fatalf("AppendOption: %v", err)
	}
	if want := []byte{1, 5, 0}; !bytes.Equal(b, want) {
		t.Errorf("got %v, want %v", b, want)
	}
	b, _ = AppendOption[uint16](b, nil, Total(AppendU16))

	c := NewCursor(b)
	got, err := DecodeOption(c, (*Cursor).U16)
	if err != nil || got == nil || *got != 5 {
		t.Errorf("present: got %v, %v", got, err)
	}
	got, err = DecodeOption(c, (*Cursor).U16)
	if err != nil || got != nil {
		t.Errorf("absent: got %v, %v", got, err)
	}

	_, err = DecodeOption(NewCursor([]byte{2}), (*Cursor).U16)
	if !errors.IsKind(err, errors.KindExpectedRange) {
		t.Errorf("bad flag: got %v, want expected_range", err)
	}
}

func TestInt128Text(t *testing.T) {
	u, err := ParseUint128("340282366920938463463374607431768211455")
	if err != nil {
		t.Fatalf("ParseUint128: %v", err)
	}
	if u != (Uint128{Lo: math.MaxUint64, Hi: math.MaxUint64}) {
		t.Errorf("got %+v", u)
	}
	if _, err := ParseUint128("340282366920938463463374607431768211456"); err == nil {
		t.Error("expected overflow error")
	}

	i, err := ParseInt128("-170141183460469231731687303715884105728")
	if err != nil {
		t.Fatalf("ParseInt128: %v", err)
	}
	if i != (Int128{Lo: 0, Hi: math.MinInt64}) {
		t.Errorf("got %+v", i)
	}
	if i.String() != "-170141183460469231731687303715884105728" {
		t.Errorf("String = %s", i.String())
	}
	if got := I128(-3).String(); got != "-3" {
		t.Errorf("I128(-3) = %s", got)
	}
}
