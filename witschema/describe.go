package witschema

import (
	"strings"
	"unicode"

	"go.bytecodealliance.org/wit"

	"github.com/spencerwhite/instrs/codec"
	"github.com/spencerwhite/instrs/errors"
)

// Option configures Describe.
type Option func(*describer)

// AllowRecursion makes Describe return cyclic type graphs for recursive
// unions instead of failing. The rendered text is readable but WIT tooling
// rejects it.
func AllowRecursion() Option {
	return func(d *describer) {
		d.recursive = true
	}
}

// Describe returns the WIT variant equivalent to the union's wire plan.
//
// Case and field names are kebab-cased. Named record types keep their Go
// name; payload records of variants with named fields are named
// "<union>-<case>". Recursive unions and custom kinds have no WIT form and
// fail with unsupported.
func Describe[T any](u *codec.Union[T], opts ...Option) (*wit.TypeDef, error) {
	d := &describer{
		done:   make(map[*codec.CompiledType]*wit.TypeDef),
		active: make(map[*codec.CompiledType]bool),
	}
	for _, opt := range opts {
		opt(d)
	}
	t, err := d.describe(u.Plan(), Kebab(u.Name()), nil)
	if err != nil {
		return nil, err
	}
	return t.(*wit.TypeDef), nil
}

type describer struct {
	done      map[*codec.CompiledType]*wit.TypeDef
	active    map[*codec.CompiledType]bool
	recursive bool
}

func (d *describer) describe(ct *codec.CompiledType, name string, path []string) (wit.Type, error) {
	switch ct.Kind {
	case codec.KindBool:
		return wit.Bool{}, nil
	case codec.KindU8:
		return wit.U8{}, nil
	case codec.KindS8:
		return wit.S8{}, nil
	case codec.KindU16:
		return wit.U16{}, nil
	case codec.KindS16:
		return wit.S16{}, nil
	case codec.KindU32:
		return wit.U32{}, nil
	case codec.KindS32:
		return wit.S32{}, nil
	case codec.KindU64:
		return wit.U64{}, nil
	case codec.KindS64:
		return wit.S64{}, nil
	case codec.KindU128, codec.KindS128:
		// Low word first, matching the wire order.
		return &wit.TypeDef{Kind: &wit.Tuple{Types: []wit.Type{wit.U64{}, wit.U64{}}}}, nil
	case codec.KindF32:
		return wit.F32{}, nil
	case codec.KindF64:
		return wit.F64{}, nil
	case codec.KindChar:
		return wit.Char{}, nil
	case codec.KindString:
		return wit.String{}, nil
	case codec.KindBytes:
		return &wit.TypeDef{Kind: &wit.List{Type: wit.U8{}}}, nil
	case codec.KindList:
		elem, err := d.describe(ct.Elem, name, path)
		if err != nil {
			return nil, err
		}
		return &wit.TypeDef{Kind: &wit.List{Type: elem}}, nil
	case codec.KindArray:
		elem, err := d.describe(ct.Elem, name, path)
		if err != nil {
			return nil, err
		}
		types := make([]wit.Type, ct.Len)
		for i := range types {
			types[i] = elem
		}
		return &wit.TypeDef{Kind: &wit.Tuple{Types: types}}, nil
	case codec.KindOption:
		elem, err := d.describe(ct.Elem, name, path)
		if err != nil {
			return nil, err
		}
		return &wit.TypeDef{Kind: &wit.Option{Type: elem}}, nil
	case codec.KindBox:
		return d.describe(ct.Elem, name, path)
	case codec.KindRecord:
		if ct.Name != "" {
			name = Kebab(ct.Name)
		}
		return d.named(ct, name, path, func(td *wit.TypeDef) error {
			fields, err := d.fields(ct.Fields, name, path)
			if err != nil {
				return err
			}
			td.Kind = &wit.Record{Fields: fields}
			return nil
		})
	case codec.KindUnion:
		name = Kebab(ct.Name)
		return d.named(ct, name, path, func(td *wit.TypeDef) error {
			v, err := d.variant(ct, name, path)
			if err != nil {
				return err
			}
			td.Kind = v
			return nil
		})
	}

	return nil, errors.New(errors.PhaseCompile, errors.KindUnsupported).
		Path(path...).
		WireType(ct.Kind.String()).
		Detail("no WIT equivalent").
		Build()
}

// named memoizes declared types. A type reached again while its own fields
// are being described is a cycle.
func (d *describer) named(ct *codec.CompiledType, name string, path []string, fill func(*wit.TypeDef) error) (wit.Type, error) {
	if td, ok := d.done[ct]; ok {
		if d.active[ct] && !d.recursive {
			return nil, errors.New(errors.PhaseCompile, errors.KindUnsupported).
				Path(path...).
				GoType(ct.GoType.String()).
				Detail("recursive types cannot be expressed in WIT").
				Build()
		}
		return td, nil
	}
	td := &wit.TypeDef{Name: &name}
	d.done[ct] = td
	d.active[ct] = true
	err := fill(td)
	delete(d.active, ct)
	if err != nil {
		delete(d.done, ct)
		return nil, err
	}
	return td, nil
}

func (d *describer) variant(ct *codec.CompiledType, name string, path []string) (*wit.Variant, error) {
	cases := make([]wit.Case, len(ct.Cases))
	for i := range ct.Cases {
		cs := &ct.Cases[i]
		cases[i].Name = Kebab(cs.Name)
		casePath := append(path[:len(path):len(path)], cs.Name)

		switch {
		case cs.IsUnit():
		case len(cs.Fields) == 1 && cs.Fields[0].Index < 0:
			t, err := d.describe(cs.Fields[0].Type, name+"-"+cases[i].Name, casePath)
			if err != nil {
				return nil, err
			}
			cases[i].Type = t
		default:
			recName := name + "-" + cases[i].Name
			fields, err := d.fields(cs.Fields, recName, casePath)
			if err != nil {
				return nil, err
			}
			cases[i].Type = &wit.TypeDef{Name: &recName, Kind: &wit.Record{Fields: fields}}
		}
	}
	return &wit.Variant{Cases: cases}, nil
}

func (d *describer) fields(fs []codec.CompiledField, name string, path []string) ([]wit.Field, error) {
	out := make([]wit.Field, len(fs))
	for i, f := range fs {
		fname := Kebab(f.Name)
		t, err := d.describe(f.Type, name+"-"+fname, append(path[:len(path):len(path)], f.Name))
		if err != nil {
			return nil, err
		}
		out[i] = wit.Field{Name: fname, Type: t}
	}
	return out, nil
}

// Kebab converts a Go identifier to a WIT identifier: StoreIn becomes
// store-in and HTTPServer becomes http-server.
func Kebab(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range runes {
		if r == '_' {
			if b.Len() > 0 && i+1 < len(runes) {
				b.WriteByte('-')
			}
			continue
		}
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('-')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
