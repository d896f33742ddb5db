package codec

import (
	"reflect"
	"strconv"

	"github.com/spencerwhite/instrs/errors"
	"github.com/spencerwhite/instrs/wire"
	"go.uber.org/zap"
)

// Union encodes the values of a sum type T. T is an interface; each variant
// is a distinct concrete type implementing it.
//
// On the wire a value is its variant's tag (0-based, in registration order,
// TagWidth bytes) followed by the variant's fields in declaration order.
type Union[T any] struct {
	c  *Compiler
	ct *CompiledType
}

// NewUnion registers the variants of T with c. Discriminants follow argument
// order, so the order is part of the wire format.
//
// A variant is unit when it is an empty struct, named when it is a struct
// with fields, and positional when it is any other named type (its value is
// the single field). Fields of type T, or of any other registered union,
// nest; this is how recursive instruction sets are built.
func NewUnion[T any](c *Compiler, variants ...T) (*Union[T], error) {
	iface := reflect.TypeFor[T]()
	if iface.Kind() != reflect.Interface {
		return nil, errors.New(errors.PhaseCompile, errors.KindUnsupported).
			GoType(iface.String()).
			Detail("union type must be an interface").
			Build()
	}
	if len(variants) == 0 {
		return nil, errors.New(errors.PhaseCompile, errors.KindInvalidInput).
			GoType(iface.String()).
			Detail("union has no variants").
			Build()
	}

	vts := make([]reflect.Type, len(variants))
	for i, v := range variants {
		vt := reflect.TypeOf(any(v))
		if vt == nil {
			return nil, errors.NilPointer(errors.PhaseCompile, []string{iface.Name(), strconv.Itoa(i)}, iface.String())
		}
		vts[i] = vt
	}

	ct, err := c.registerUnion(iface, vts)
	if err != nil {
		return nil, err
	}

	c.log.Debug("compiled union",
		zap.String("union", ct.Name),
		zap.Int("variants", len(ct.Cases)),
		zap.Stringer("tag_width", wire.Size(ct.TagWidth)),
		zap.Stringer("size", c.size),
		zap.Bool("recursive", ct.IsRecursive()))

	return &Union[T]{c: c, ct: ct}, nil
}

// Compiler returns the compiler the union was registered with.
func (u *Union[T]) Compiler() *Compiler { return u.c }

// Plan returns the compiled plan of the union.
func (u *Union[T]) Plan() *CompiledType { return u.ct }

// Name returns the interface type's name.
func (u *Union[T]) Name() string { return u.ct.Name }

// TagWidth returns the discriminant width.
func (u *Union[T]) TagWidth() wire.Size { return wire.Size(u.ct.TagWidth) }

// Variants returns the variant names in tag order.
func (u *Union[T]) Variants() []string {
	names := make([]string, len(u.ct.Cases))
	for i, cs := range u.ct.Cases {
		names[i] = cs.Name
	}
	return names
}

// Tag returns the discriminant of v's variant.
func (u *Union[T]) Tag(v T) (int, bool) {
	vt := reflect.TypeOf(any(v))
	if vt == nil {
		return 0, false
	}
	return u.ct.CaseFor(vt)
}

// Append appends the encoding of v to b. On failure b is returned unchanged.
func (u *Union[T]) Append(b []byte, v T) ([]byte, error) {
	out, err := u.c.encodeUnion(b, u.ct, reflect.ValueOf(&v).Elem(), 0)
	if err != nil {
		return b, err
	}
	return out, nil
}

// Decode decodes one value from the front of c. Trailing bytes stay in c.
// An empty cursor fails with expected_bytes of the full tag width and an
// unknown tag with expected_range 0..=V-1.
func (u *Union[T]) Decode(c *wire.Cursor) (T, error) {
	var zero T
	rv, err := u.c.decodeUnion(c, u.ct, 0)
	if err != nil {
		return zero, err
	}
	return rv.Interface().(T), nil
}

// Marshal returns the encoding of v.
func (u *Union[T]) Marshal(v T) ([]byte, error) {
	return u.Append(nil, v)
}

// Unmarshal decodes the value at the front of b, ignoring trailing bytes.
func (u *Union[T]) Unmarshal(b []byte) (T, error) {
	return u.Decode(wire.NewCursor(b))
}

// AppendAll appends each value in order with no framing between them.
func (u *Union[T]) AppendAll(b []byte, vs []T) ([]byte, error) {
	out := b
	for i := range vs {
		var err error
		out, err = u.c.encodeUnion(out, u.ct, reflect.ValueOf(&vs[i]).Elem(), 0)
		if err != nil {
			return b, at(err, strconv.Itoa(i))
		}
	}
	return out, nil
}

// DecodeAll decodes values until b is exhausted.
func (u *Union[T]) DecodeAll(b []byte) ([]T, error) {
	c := wire.NewCursor(b)
	var out []T
	for c.Len() > 0 {
		v, err := u.Decode(c)
		if err != nil {
			return nil, at(err, strconv.Itoa(len(out)))
		}
		out = append(out, v)
	}
	return out, nil
}
