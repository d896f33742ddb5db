package witschema

import (
	"fmt"
	"strings"

	"go.bytecodealliance.org/wit"
)

// Render prints td and every named type it references as WIT declarations,
// dependencies first.
func Render(td *wit.TypeDef) string {
	r := &renderer{seen: make(map[*wit.TypeDef]bool)}
	r.declare(td)
	return strings.Join(r.decls, "\n")
}

type renderer struct {
	seen  map[*wit.TypeDef]bool
	decls []string
}

func (r *renderer) declare(t wit.Type) {
	td, ok := t.(*wit.TypeDef)
	if !ok {
		return
	}
	switch kind := td.Kind.(type) {
	case *wit.List:
		r.declare(kind.Type)
	case *wit.Option:
		r.declare(kind.Type)
	case *wit.Tuple:
		for _, t := range kind.Types {
			r.declare(t)
		}
	}
	if td.Name == nil || r.seen[td] {
		return
	}
	r.seen[td] = true

	var b strings.Builder
	switch kind := td.Kind.(type) {
	case *wit.Record:
		for _, f := range kind.Fields {
			r.declare(f.Type)
		}
		fmt.Fprintf(&b, "record %s {\n", *td.Name)
		for _, f := range kind.Fields {
			fmt.Fprintf(&b, "  %s: %s,\n", f.Name, TypeString(f.Type))
		}
	case *wit.Variant:
		for _, c := range kind.Cases {
			r.declare(c.Type)
		}
		fmt.Fprintf(&b, "variant %s {\n", *td.Name)
		for _, c := range kind.Cases {
			if c.Type == nil {
				fmt.Fprintf(&b, "  %s,\n", c.Name)
				continue
			}
			fmt.Fprintf(&b, "  %s(%s),\n", c.Name, TypeString(c.Type))
		}
	default:
		fmt.Fprintf(&b, "type %s = %s;\n", *td.Name, anonymous(td))
		r.decls = append(r.decls, b.String())
		return
	}
	b.WriteString("}\n")
	r.decls = append(r.decls, b.String())
}

// TypeString returns the WIT spelling of a type reference.
func TypeString(t wit.Type) string {
	switch v := t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if v.Name != nil {
			return *v.Name
		}
		return anonymous(v)
	default:
		return fmt.Sprintf("%T", t)
	}
}

func anonymous(td *wit.TypeDef) string {
	switch kind := td.Kind.(type) {
	case *wit.List:
		return "list<" + TypeString(kind.Type) + ">"
	case *wit.Option:
		return "option<" + TypeString(kind.Type) + ">"
	case *wit.Tuple:
		parts := make([]string, len(kind.Types))
		for i, t := range kind.Types {
			parts[i] = TypeString(t)
		}
		return "tuple<" + strings.Join(parts, ", ") + ">"
	default:
		return "typedef"
	}
}
