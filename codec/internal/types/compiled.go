package types

import (
	"reflect"
)

// CompiledType is the encode/decode plan for one Go type.
type CompiledType struct {
	GoType reflect.Type
	Elem   *CompiledType
	Name   string
	Fields []Field
	Cases  []Case
	Len    int
	// TagWidth is the discriminant width in bytes for unions.
	TagWidth uint8
	Kind     Kind
	// Native marks int/uint, which travel as 64 bits.
	Native bool
}

// Field is one member of a record or variant payload.
type Field struct {
	Type *CompiledType
	Name string
	// Index is the struct field index, or -1 when the field is the value itself.
	Index int
}

// Case is one variant of a union. Tags are slice indices.
type Case struct {
	GoType reflect.Type
	Name   string
	Fields []Field
	// Ptr is set when the registered variant is a pointer to its payload type.
	Ptr bool
}

func (ct *CompiledType) IsPrimitive() bool {
	return ct.Kind.IsPrimitive()
}

// IsUnit reports whether the case carries no payload.
func (c *Case) IsUnit() bool {
	return len(c.Fields) == 0
}

// CaseFor returns the tag of the case registered for t.
func (ct *CompiledType) CaseFor(t reflect.Type) (int, bool) {
	for i := range ct.Cases {
		if ct.Cases[i].GoType == t {
			return i, true
		}
	}
	return 0, false
}

// IsRecursive reports whether ct reaches itself through its fields.
func (ct *CompiledType) IsRecursive() bool {
	return ct.reaches(ct, map[*CompiledType]bool{})
}

func (ct *CompiledType) reaches(target *CompiledType, seen map[*CompiledType]bool) bool {
	if seen[ct] {
		return false
	}
	seen[ct] = true
	var next []*CompiledType
	if ct.Elem != nil {
		next = append(next, ct.Elem)
	}
	for _, f := range ct.Fields {
		next = append(next, f.Type)
	}
	for _, c := range ct.Cases {
		for _, f := range c.Fields {
			next = append(next, f.Type)
		}
	}
	for _, n := range next {
		if n == target || n.reaches(target, seen) {
			return true
		}
	}
	return false
}
