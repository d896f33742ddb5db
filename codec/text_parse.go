package codec

import (
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spencerwhite/instrs/errors"
	"github.com/spencerwhite/instrs/wire"
)

// Parse reads one value from its debug text. The whole input must be consumed.
func (u *Union[T]) Parse(s string) (T, error) {
	v, rest, err := u.ParsePrefix(s)
	if err != nil {
		return v, err
	}
	if rest != "" {
		var zero T
		return zero, errors.Expected("end of input")
	}
	return v, nil
}

// ParsePrefix reads one value from the front of s and returns the rest.
// Variant names are matched literally, in registration order, against
// "Name ". There is no whitespace tolerance.
func (u *Union[T]) ParsePrefix(s string) (T, string, error) {
	var zero T
	rv, rest, err := u.c.parseUnion(s, u.ct, 0)
	if err != nil {
		return zero, s, err
	}
	return rv.Interface().(T), rest, nil
}

// ParseAll reads values until s is exhausted.
func (u *Union[T]) ParseAll(s string) ([]T, error) {
	var out []T
	for s != "" {
		v, rest, err := u.ParsePrefix(s)
		if err != nil {
			return nil, at(err, strconv.Itoa(len(out)))
		}
		out = append(out, v)
		s = rest
	}
	return out, nil
}

// token splits s at the first comma.
func token(s, what string) (string, string, error) {
	i := strings.IndexByte(s, ',')
	if i < 0 {
		return "", s, errors.Expected(what)
	}
	return s[:i], s[i+1:], nil
}

func parseCount(s string) (int, string, error) {
	tok, rest, err := token(s, "length")
	if err != nil {
		return 0, s, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n < 0 {
		return 0, s, errors.Expected("length")
	}
	return n, rest, nil
}

func (c *Compiler) parseText(s string, ct *CompiledType, v reflect.Value, depth int) (string, error) {
	switch ct.Kind {
	case KindBool:
		tok, rest, err := token(s, "bool")
		if err != nil {
			return s, err
		}
		switch tok {
		case "0":
			v.SetBool(false)
		case "1":
			v.SetBool(true)
		default:
			return s, errors.Expected("bool")
		}
		return rest, nil
	case KindU8, KindU16, KindU32, KindU64:
		tok, rest, err := token(s, ct.Kind.String())
		if err != nil {
			return s, err
		}
		x, perr := strconv.ParseUint(tok, 10, ct.Kind.Width()*8)
		if perr != nil {
			return s, errors.Expected(ct.Kind.String())
		}
		if ct.Native && uint64(uint(x)) != x {
			return s, errors.Expected("uint")
		}
		v.SetUint(x)
		return rest, nil
	case KindS8, KindS16, KindS32, KindS64:
		tok, rest, err := token(s, ct.Kind.String())
		if err != nil {
			return s, err
		}
		x, perr := strconv.ParseInt(tok, 10, ct.Kind.Width()*8)
		if perr != nil {
			return s, errors.Expected(ct.Kind.String())
		}
		if ct.Native && int64(int(x)) != x {
			return s, errors.Expected("int")
		}
		v.SetInt(x)
		return rest, nil
	case KindU128:
		tok, rest, err := token(s, "u128")
		if err != nil {
			return s, err
		}
		x, err := wire.ParseUint128(tok)
		if err != nil {
			return s, err
		}
		v.Field(0).SetUint(x.Lo)
		v.Field(1).SetUint(x.Hi)
		return rest, nil
	case KindS128:
		tok, rest, err := token(s, "s128")
		if err != nil {
			return s, err
		}
		x, err := wire.ParseInt128(tok)
		if err != nil {
			return s, err
		}
		v.Field(0).SetUint(x.Lo)
		v.Field(1).SetInt(x.Hi)
		return rest, nil
	case KindF32, KindF64:
		tok, rest, err := token(s, ct.Kind.String())
		if err != nil {
			return s, err
		}
		x, perr := strconv.ParseFloat(tok, ct.Kind.Width()*8)
		if perr != nil {
			return s, errors.Expected(ct.Kind.String())
		}
		v.SetFloat(x)
		return rest, nil
	case KindChar:
		tok, rest, err := token(s, "char")
		if err != nil {
			return s, err
		}
		x, perr := strconv.ParseUint(tok, 10, 32)
		if perr != nil || !wire.ValidChar(uint32(x)) {
			return s, errors.Expected("char")
		}
		if v.Kind() == reflect.Int32 {
			v.SetInt(int64(x))
		} else {
			v.SetUint(x)
		}
		return rest, nil
	case KindString:
		n, rest, err := parseCount(s)
		if err != nil {
			return s, err
		}
		if len(rest) <= n || rest[n] != ',' || !utf8.ValidString(rest[:n]) {
			return s, errors.Expected("string")
		}
		v.SetString(rest[:n])
		return rest[n+1:], nil
	case KindBytes:
		n, rest, err := parseCount(s)
		if err != nil {
			return s, err
		}
		if n == 0 {
			v.SetZero()
			return rest, nil
		}
		raw := make([]byte, n)
		for i := range raw {
			tok, next, err := token(rest, "u8")
			if err != nil {
				return s, at(err, strconv.Itoa(i))
			}
			x, perr := strconv.ParseUint(tok, 10, 8)
			if perr != nil {
				return s, at(errors.Expected("u8"), strconv.Itoa(i))
			}
			raw[i] = byte(x)
			rest = next
		}
		v.SetBytes(raw)
		return rest, nil
	case KindList:
		n, rest, err := parseCount(s)
		if err != nil {
			return s, err
		}
		if n == 0 {
			v.SetZero()
			return rest, nil
		}
		list := reflect.MakeSlice(ct.GoType, 0, min(n, len(rest)))
		zero := reflect.Zero(ct.GoType.Elem())
		for i := 0; i < n; i++ {
			list = reflect.Append(list, zero)
			if rest, err = c.parseText(rest, ct.Elem, list.Index(i), depth); err != nil {
				return s, at(err, strconv.Itoa(i))
			}
		}
		v.Set(list)
		return rest, nil
	case KindArray:
		rest := s
		var err error
		for i := 0; i < ct.Len; i++ {
			if rest, err = c.parseText(rest, ct.Elem, v.Index(i), depth); err != nil {
				return s, at(err, strconv.Itoa(i))
			}
		}
		return rest, nil
	case KindRecord:
		return c.parseFields(s, ct.Fields, v, depth)
	case KindOption:
		tok, rest, err := token(s, "option flag")
		if err != nil {
			return s, err
		}
		switch tok {
		case "0":
			v.SetZero()
			return rest, nil
		case "1":
		default:
			return s, errors.Expected("option flag")
		}
		p := reflect.New(ct.GoType.Elem())
		if rest, err = c.parseText(rest, ct.Elem, p.Elem(), depth); err != nil {
			return s, err
		}
		v.Set(p)
		return rest, nil
	case KindBox:
		p := reflect.New(ct.GoType.Elem())
		rest, err := c.parseText(s, ct.Elem, p.Elem(), depth)
		if err != nil {
			return s, err
		}
		v.Set(p)
		return rest, nil
	case KindUnion:
		x, rest, err := c.parseUnion(s, ct, depth)
		if err != nil {
			return s, err
		}
		v.Set(x)
		return rest, nil
	}
	return s, errors.Unsupported(errors.PhaseParse, "no debug text for kind "+ct.Kind.String())
}

func (c *Compiler) parseFields(s string, fields []CompiledField, v reflect.Value, depth int) (string, error) {
	if depth >= c.maxDepth {
		return s, c.tooDeep(errors.PhaseParse)
	}
	rest := s
	var err error
	for _, f := range fields {
		if rest, err = c.parseText(rest, f.Type, fieldOf(v, f), depth+1); err != nil {
			return s, at(err, f.Name)
		}
	}
	return rest, nil
}

// parseUnion selects the first case whose "Name " prefixes s. A field
// failure after the name matched is final; later cases are not tried.
func (c *Compiler) parseUnion(s string, ct *CompiledType, depth int) (reflect.Value, string, error) {
	for i := range ct.Cases {
		cs := &ct.Cases[i]
		rest, ok := strings.CutPrefix(s, cs.Name+" ")
		if !ok {
			continue
		}

		payload := cs.GoType
		if cs.Ptr {
			payload = payload.Elem()
		}
		p := reflect.New(payload)
		rest, err := c.parseFields(rest, cs.Fields, p.Elem(), depth)
		if err != nil {
			return reflect.Value{}, s, at(err, cs.Name)
		}
		if !cs.IsUnit() {
			if rest, ok = strings.CutPrefix(rest, " "); !ok {
				return reflect.Value{}, s, at(errors.Expected("space after fields"), cs.Name)
			}
		}
		if cs.Ptr {
			return p, rest, nil
		}
		return p.Elem(), rest, nil
	}
	return reflect.Value{}, s, errors.Expected(ct.Name + " variant name")
}
