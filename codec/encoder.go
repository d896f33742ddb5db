package codec

import (
	"reflect"
	"strconv"

	"github.com/spencerwhite/instrs/errors"
	"github.com/spencerwhite/instrs/wire"
)

// Append encodes v with its compiled plan and appends the bytes to b.
// Pointers encode as options; pass the pointed-to value to encode it directly.
// On failure b is returned unchanged.
func (c *Compiler) Append(b []byte, v any) ([]byte, error) {
	if v == nil {
		return b, errors.NilPointer(errors.PhaseEncode, nil, "<nil>")
	}
	rv := reflect.ValueOf(v)
	ct, err := c.Compile(rv.Type())
	if err != nil {
		return b, err
	}
	out, err := c.encode(b, ct, rv, 0)
	if err != nil {
		return b, err
	}
	return out, nil
}

func (c *Compiler) encode(b []byte, ct *CompiledType, v reflect.Value, depth int) ([]byte, error) {
	switch ct.Kind {
	case KindBool:
		return wire.AppendBool(b, v.Bool()), nil
	case KindU8:
		return wire.AppendU8(b, uint8(v.Uint())), nil
	case KindS8:
		return wire.AppendI8(b, int8(v.Int())), nil
	case KindU16:
		return wire.AppendU16(b, uint16(v.Uint())), nil
	case KindS16:
		return wire.AppendI16(b, int16(v.Int())), nil
	case KindU32:
		return wire.AppendU32(b, uint32(v.Uint())), nil
	case KindS32:
		return wire.AppendI32(b, int32(v.Int())), nil
	case KindU64:
		return wire.AppendU64(b, v.Uint()), nil
	case KindS64:
		return wire.AppendI64(b, v.Int()), nil
	case KindU128:
		return wire.AppendU128(b, uint128Of(v)), nil
	case KindS128:
		return wire.AppendI128(b, int128Of(v)), nil
	case KindF32:
		return wire.AppendF32(b, float32(v.Float())), nil
	case KindF64:
		return wire.AppendF64(b, v.Float()), nil
	case KindChar:
		r := charOf(v)
		if !wire.ValidChar(r) {
			return b, errors.New(errors.PhaseEncode, errors.KindInvalidChar).
				Value(r).
				Detail("0x%x is not a unicode scalar value", r).
				Build()
		}
		return wire.AppendU32(b, r), nil
	case KindString:
		return wire.AppendText(b, c.size, v.String())
	case KindBytes:
		return wire.AppendBytes(b, c.size, v.Bytes())
	case KindList:
		b, err := c.size.AppendLength(b, v.Len())
		if err != nil {
			return b, err
		}
		return c.encodeElems(b, ct.Elem, v, depth)
	case KindArray:
		return c.encodeElems(b, ct.Elem, v, depth)
	case KindRecord:
		return c.encodeFields(b, ct.Fields, v, depth)
	case KindOption:
		if v.IsNil() {
			return wire.AppendBool(b, false), nil
		}
		return c.encode(wire.AppendBool(b, true), ct.Elem, v.Elem(), depth)
	case KindBox:
		if v.IsNil() {
			return b, errors.NilPointer(errors.PhaseEncode, nil, ct.GoType.String())
		}
		return c.encode(b, ct.Elem, v.Elem(), depth)
	case KindUnion:
		return c.encodeUnion(b, ct, v, depth)
	case KindCustom:
		return c.encodeCustom(b, v)
	}
	return b, errors.Unsupported(errors.PhaseEncode, "kind "+ct.Kind.String())
}

func (c *Compiler) encodeElems(b []byte, elem *CompiledType, v reflect.Value, depth int) ([]byte, error) {
	var err error
	for i := 0; i < v.Len(); i++ {
		if b, err = c.encode(b, elem, v.Index(i), depth); err != nil {
			return b, at(err, strconv.Itoa(i))
		}
	}
	return b, nil
}

func (c *Compiler) encodeFields(b []byte, fields []CompiledField, v reflect.Value, depth int) ([]byte, error) {
	if depth >= c.maxDepth {
		return b, c.tooDeep(errors.PhaseEncode)
	}
	var err error
	for _, f := range fields {
		if b, err = c.encode(b, f.Type, fieldOf(v, f), depth+1); err != nil {
			return b, at(err, f.Name)
		}
	}
	return b, nil
}

// encodeUnion writes the tag of v's dynamic type followed by its fields.
func (c *Compiler) encodeUnion(b []byte, ct *CompiledType, v reflect.Value, depth int) ([]byte, error) {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return b, errors.NilPointer(errors.PhaseEncode, nil, ct.GoType.String())
		}
		v = v.Elem()
	}

	tag, ok := ct.CaseFor(v.Type())
	if !ok {
		return b, errors.TypeMismatch(errors.PhaseEncode, nil, v.Type().String(), ct.Name)
	}
	cs := &ct.Cases[tag]
	if cs.Ptr {
		if v.IsNil() {
			return b, errors.NilPointer(errors.PhaseEncode, []string{cs.Name}, cs.GoType.String())
		}
		v = v.Elem()
	}

	b = wire.AppendUnsigned(b, wire.Size(ct.TagWidth), wire.U128(uint64(tag)))
	b, err := c.encodeFields(b, cs.Fields, v, depth)
	if err != nil {
		return b, at(err, cs.Name)
	}
	return b, nil
}

func (c *Compiler) encodeCustom(b []byte, v reflect.Value) ([]byte, error) {
	m, ok := v.Interface().(Marshaler)
	if !ok {
		p := reflect.New(v.Type())
		p.Elem().Set(v)
		m = p.Interface().(Marshaler)
	}
	return m.MarshalInstrs(b, c.size)
}

func fieldOf(v reflect.Value, f CompiledField) reflect.Value {
	if f.Index < 0 {
		return v
	}
	return v.Field(f.Index)
}

func uint128Of(v reflect.Value) wire.Uint128 {
	return wire.Uint128{Lo: v.Field(0).Uint(), Hi: v.Field(1).Uint()}
}

func int128Of(v reflect.Value) wire.Int128 {
	return wire.Int128{Lo: v.Field(0).Uint(), Hi: v.Field(1).Int()}
}

func charOf(v reflect.Value) uint32 {
	if v.Kind() == reflect.Int32 {
		return uint32(v.Int())
	}
	return uint32(v.Uint())
}

// at prefixes the path of a structured error. Errors from custom
// marshalers pass through untouched.
func at(err error, segments ...string) error {
	if e, ok := err.(*errors.Error); ok {
		return e.WithPrefix(segments...)
	}
	return err
}
