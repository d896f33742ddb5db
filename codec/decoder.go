package codec

import (
	"bytes"
	"math"
	"reflect"
	"strconv"

	"github.com/spencerwhite/instrs/errors"
	"github.com/spencerwhite/instrs/wire"
)

// Decode decodes one value into the value ptr points to, consuming only the
// bytes it needs. Empty sequences decode as nil slices.
func (c *Compiler) Decode(cur *wire.Cursor, ptr any) error {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New(errors.PhaseDecode, errors.KindInvalidInput).
			GoType(reflect.TypeOf(ptr).String()).
			Detail("decode target must be a non-nil pointer").
			Build()
	}
	ct, err := c.Compile(rv.Type().Elem())
	if err != nil {
		return err
	}
	return c.decode(cur, ct, rv.Elem(), 0)
}

func (c *Compiler) decode(cur *wire.Cursor, ct *CompiledType, v reflect.Value, depth int) error {
	switch ct.Kind {
	case KindBool:
		x, err := cur.Bool()
		if err != nil {
			return err
		}
		v.SetBool(x)
	case KindU8:
		x, err := cur.U8()
		if err != nil {
			return err
		}
		v.SetUint(uint64(x))
	case KindS8:
		x, err := cur.I8()
		if err != nil {
			return err
		}
		v.SetInt(int64(x))
	case KindU16:
		x, err := cur.U16()
		if err != nil {
			return err
		}
		v.SetUint(uint64(x))
	case KindS16:
		x, err := cur.I16()
		if err != nil {
			return err
		}
		v.SetInt(int64(x))
	case KindU32:
		x, err := cur.U32()
		if err != nil {
			return err
		}
		v.SetUint(uint64(x))
	case KindS32:
		x, err := cur.I32()
		if err != nil {
			return err
		}
		v.SetInt(int64(x))
	case KindU64:
		if ct.Native {
			x, err := cur.Uint()
			if err != nil {
				return err
			}
			v.SetUint(uint64(x))
			return nil
		}
		x, err := cur.U64()
		if err != nil {
			return err
		}
		v.SetUint(x)
	case KindS64:
		if ct.Native {
			x, err := cur.Int()
			if err != nil {
				return err
			}
			v.SetInt(int64(x))
			return nil
		}
		x, err := cur.I64()
		if err != nil {
			return err
		}
		v.SetInt(x)
	case KindU128:
		x, err := cur.U128()
		if err != nil {
			return err
		}
		v.Field(0).SetUint(x.Lo)
		v.Field(1).SetUint(x.Hi)
	case KindS128:
		x, err := cur.I128()
		if err != nil {
			return err
		}
		v.Field(0).SetUint(x.Lo)
		v.Field(1).SetInt(x.Hi)
	case KindF32:
		x, err := cur.F32()
		if err != nil {
			return err
		}
		v.SetFloat(float64(x))
	case KindF64:
		x, err := cur.F64()
		if err != nil {
			return err
		}
		v.SetFloat(x)
	case KindChar:
		r, err := cur.Char()
		if err != nil {
			return err
		}
		if v.Kind() == reflect.Int32 {
			v.SetInt(int64(r))
		} else {
			v.SetUint(uint64(r))
		}
	case KindString:
		if _, err := c.peekLength(cur); err != nil {
			return err
		}
		s, err := wire.Text(cur, c.size)
		if err != nil {
			return err
		}
		v.SetString(s)
	case KindBytes:
		n, err := c.readLength(cur)
		if err != nil {
			return err
		}
		raw, err := cur.Take(n)
		if err != nil {
			return err
		}
		if n == 0 {
			v.SetZero()
			return nil
		}
		v.SetBytes(bytes.Clone(raw))
	case KindList:
		return c.decodeList(cur, ct, v, depth)
	case KindArray:
		for i := 0; i < ct.Len; i++ {
			if err := c.decode(cur, ct.Elem, v.Index(i), depth); err != nil {
				return at(err, strconv.Itoa(i))
			}
		}
	case KindRecord:
		return c.decodeFields(cur, ct.Fields, v, depth)
	case KindOption:
		present, err := cur.Bool()
		if err != nil {
			return err
		}
		if !present {
			v.SetZero()
			return nil
		}
		p := reflect.New(ct.GoType.Elem())
		if err := c.decode(cur, ct.Elem, p.Elem(), depth); err != nil {
			return err
		}
		v.Set(p)
	case KindBox:
		p := reflect.New(ct.GoType.Elem())
		if err := c.decode(cur, ct.Elem, p.Elem(), depth); err != nil {
			return err
		}
		v.Set(p)
	case KindUnion:
		x, err := c.decodeUnion(cur, ct, depth)
		if err != nil {
			return err
		}
		v.Set(x)
	case KindCustom:
		p := reflect.New(ct.GoType)
		if err := p.Interface().(Unmarshaler).UnmarshalInstrs(cur, c.size); err != nil {
			return err
		}
		v.Set(p.Elem())
	default:
		return errors.Unsupported(errors.PhaseDecode, "kind "+ct.Kind.String())
	}
	return nil
}

func (c *Compiler) decodeList(cur *wire.Cursor, ct *CompiledType, v reflect.Value, depth int) error {
	n, err := c.readLength(cur)
	if err != nil {
		return err
	}
	if n == 0 {
		v.SetZero()
		return nil
	}

	// The length is untrusted; grow as elements actually decode.
	s := reflect.MakeSlice(ct.GoType, 0, min(n, cur.Len()))
	zero := reflect.Zero(ct.GoType.Elem())
	for i := 0; i < n; i++ {
		s = reflect.Append(s, zero)
		if err := c.decode(cur, ct.Elem, s.Index(i), depth); err != nil {
			return at(err, strconv.Itoa(i))
		}
	}
	v.Set(s)
	return nil
}

func (c *Compiler) decodeFields(cur *wire.Cursor, fields []CompiledField, v reflect.Value, depth int) error {
	if depth >= c.maxDepth {
		return c.tooDeep(errors.PhaseDecode)
	}
	for _, f := range fields {
		if err := c.decode(cur, f.Type, fieldOf(v, f), depth+1); err != nil {
			return at(err, f.Name)
		}
	}
	return nil
}

// decodeUnion reads a tag and the fields of the case it selects, returning
// the variant value (a pointer for pointer-registered variants).
func (c *Compiler) decodeUnion(cur *wire.Cursor, ct *CompiledType, depth int) (reflect.Value, error) {
	tag, err := cur.Unsigned(wire.Size(ct.TagWidth))
	if err != nil {
		return reflect.Value{}, err
	}
	last := uint64(len(ct.Cases) - 1)
	if !tag.IsUint64() || tag.Lo > last {
		got := tag.Lo
		if !tag.IsUint64() {
			got = math.MaxUint64
		}
		return reflect.Value{}, errors.ExpectedRange(got, 0, last)
	}

	cs := &ct.Cases[tag.Lo]
	payload := cs.GoType
	if cs.Ptr {
		payload = payload.Elem()
	}
	p := reflect.New(payload)
	if err := c.decodeFields(cur, cs.Fields, p.Elem(), depth); err != nil {
		return reflect.Value{}, at(err, cs.Name)
	}
	if cs.Ptr {
		return p, nil
	}
	return p.Elem(), nil
}

// tooDeep reports a value whose records and variants nest past the
// session's depth cap.
func (c *Compiler) tooDeep(phase errors.Phase) error {
	return errors.New(phase, errors.KindTooLarge).
		Value(errors.Sizes{Needed: c.maxDepth + 1, Max: c.maxDepth}).
		Detail("nesting exceeds depth limit %d", c.maxDepth).
		Build()
}

// readLength reads a length prefix and enforces the session's length cap.
func (c *Compiler) readLength(cur *wire.Cursor) (int, error) {
	n, err := c.size.ReadLength(cur)
	if err != nil {
		return 0, err
	}
	if n > c.maxLength {
		return 0, errors.New(errors.PhaseDecode, errors.KindTooLarge).
			Value(errors.Sizes{Needed: n, Max: c.maxLength}).
			Detail("length %d exceeds limit %d", n, c.maxLength).
			Build()
	}
	return n, nil
}

// peekLength checks a length prefix against the cap without consuming it.
func (c *Compiler) peekLength(cur *wire.Cursor) (int, error) {
	m := cur.Mark()
	n, err := c.readLength(cur)
	cur.Reset(m)
	return n, err
}
