package codec

import (
	"reflect"
	"strconv"

	"github.com/spencerwhite/instrs/errors"
	"go.uber.org/zap"
)

// The debug text form walks the same plan as the binary codec. Every scalar
// is written as decimal text followed by a comma; sequences and strings are
// prefixed with their length; a variant is its name, a space, its fields and
// one more space when it has fields:
//
//	Halt
//	Jump 64,
//	Add 1,2,3,
//
// (each line above ends in a space). The format has no escaping and is meant
// for logs and tests, not interchange.

// Format renders v as debug text. Values the codec cannot encode render as
// "%!(error)" in the manner of fmt.
func (u *Union[T]) Format(v T) string {
	b, err := u.AppendText(nil, v)
	if err != nil {
		return "%!(" + err.Error() + ")"
	}
	return string(b)
}

// AppendText appends the debug text of v to b. On failure b is returned unchanged.
func (u *Union[T]) AppendText(b []byte, v T) ([]byte, error) {
	out, err := u.c.appendText(b, u.ct, reflect.ValueOf(&v).Elem(), 0)
	if err != nil {
		return b, err
	}
	return out, nil
}

// Field returns a zap field that renders v as debug text only when the
// entry is actually written.
func (u *Union[T]) Field(key string, v T) zap.Field {
	return zap.Stringer(key, textValue[T]{u: u, v: v})
}

type textValue[T any] struct {
	u *Union[T]
	v T
}

func (t textValue[T]) String() string {
	return t.u.Format(t.v)
}

func (c *Compiler) appendText(b []byte, ct *CompiledType, v reflect.Value, depth int) ([]byte, error) {
	switch ct.Kind {
	case KindBool:
		if v.Bool() {
			return append(b, '1', ','), nil
		}
		return append(b, '0', ','), nil
	case KindU8, KindU16, KindU32, KindU64:
		return append(strconv.AppendUint(b, v.Uint(), 10), ','), nil
	case KindS8, KindS16, KindS32, KindS64:
		return append(strconv.AppendInt(b, v.Int(), 10), ','), nil
	case KindU128:
		return append(append(b, uint128Of(v).String()...), ','), nil
	case KindS128:
		return append(append(b, int128Of(v).String()...), ','), nil
	case KindF32:
		return append(strconv.AppendFloat(b, v.Float(), 'g', -1, 32), ','), nil
	case KindF64:
		return append(strconv.AppendFloat(b, v.Float(), 'g', -1, 64), ','), nil
	case KindChar:
		return append(strconv.AppendUint(b, uint64(charOf(v)), 10), ','), nil
	case KindString:
		s := v.String()
		b = append(strconv.AppendInt(b, int64(len(s)), 10), ',')
		return append(append(b, s...), ','), nil
	case KindBytes:
		raw := v.Bytes()
		b = append(strconv.AppendInt(b, int64(len(raw)), 10), ',')
		for _, x := range raw {
			b = append(strconv.AppendUint(b, uint64(x), 10), ',')
		}
		return b, nil
	case KindList:
		b = append(strconv.AppendInt(b, int64(v.Len()), 10), ',')
		return c.appendElemsText(b, ct.Elem, v, depth)
	case KindArray:
		return c.appendElemsText(b, ct.Elem, v, depth)
	case KindRecord:
		return c.appendFieldsText(b, ct.Fields, v, depth)
	case KindOption:
		if v.IsNil() {
			return append(b, '0', ','), nil
		}
		return c.appendText(append(b, '1', ','), ct.Elem, v.Elem(), depth)
	case KindBox:
		if v.IsNil() {
			return b, errors.NilPointer(errors.PhaseFormat, nil, ct.GoType.String())
		}
		return c.appendText(b, ct.Elem, v.Elem(), depth)
	case KindUnion:
		return c.appendUnionText(b, ct, v, depth)
	}
	return b, errors.Unsupported(errors.PhaseFormat, "no debug text for kind "+ct.Kind.String())
}

func (c *Compiler) appendElemsText(b []byte, elem *CompiledType, v reflect.Value, depth int) ([]byte, error) {
	var err error
	for i := 0; i < v.Len(); i++ {
		if b, err = c.appendText(b, elem, v.Index(i), depth); err != nil {
			return b, at(err, strconv.Itoa(i))
		}
	}
	return b, nil
}

func (c *Compiler) appendFieldsText(b []byte, fields []CompiledField, v reflect.Value, depth int) ([]byte, error) {
	if depth >= c.maxDepth {
		return b, c.tooDeep(errors.PhaseFormat)
	}
	var err error
	for _, f := range fields {
		if b, err = c.appendText(b, f.Type, fieldOf(v, f), depth+1); err != nil {
			return b, at(err, f.Name)
		}
	}
	return b, nil
}

func (c *Compiler) appendUnionText(b []byte, ct *CompiledType, v reflect.Value, depth int) ([]byte, error) {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return b, errors.NilPointer(errors.PhaseFormat, nil, ct.GoType.String())
		}
		v = v.Elem()
	}
	tag, ok := ct.CaseFor(v.Type())
	if !ok {
		return b, errors.TypeMismatch(errors.PhaseFormat, nil, v.Type().String(), ct.Name)
	}
	cs := &ct.Cases[tag]
	if cs.Ptr {
		if v.IsNil() {
			return b, errors.NilPointer(errors.PhaseFormat, []string{cs.Name}, cs.GoType.String())
		}
		v = v.Elem()
	}

	b = append(append(b, cs.Name...), ' ')
	b, err := c.appendFieldsText(b, cs.Fields, v, depth)
	if err != nil {
		return b, at(err, cs.Name)
	}
	if !cs.IsUnit() {
		b = append(b, ' ')
	}
	return b, nil
}
