package codec

import (
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/spencerwhite/instrs/codec/internal/types"
	"github.com/spencerwhite/instrs/errors"
	"github.com/spencerwhite/instrs/wire"
	"go.uber.org/zap"
)

// Compiler turns Go types into cached encode/decode plans. One compiler is
// one encoding session: every plan it produces uses the same size witness.
//
// A Compiler is safe for concurrent use.
type Compiler struct {
	log       *zap.Logger
	cache     sync.Map // cacheKey -> *CompiledType
	unions    sync.Map // reflect.Type (interface) -> *CompiledType
	mu        sync.Mutex
	maxLength int
	maxDepth  int
	size      wire.Size
}

type cacheKey struct {
	goType reflect.Type
	hints  hint
}

// hint carries struct tag options that change how a type is compiled.
type hint uint8

const (
	hintChar hint = 1 << iota
	hintBox
)

var (
	uint128Type     = reflect.TypeFor[wire.Uint128]()
	int128Type      = reflect.TypeFor[wire.Int128]()
	marshalerType   = reflect.TypeFor[Marshaler]()
	unmarshalerType = reflect.TypeFor[Unmarshaler]()
)

func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{
		size:      wire.Size32,
		maxLength: DefaultMaxLength,
		maxDepth:  DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(c)
	}
	if !c.size.Valid() {
		panic("codec: invalid size witness " + c.size.String())
	}
	if c.log == nil {
		c.log = Logger()
	}
	return c
}

// Size returns the size witness of the session.
func (c *Compiler) Size() wire.Size {
	return c.size
}

// Compile returns the plan for goType, compiling and caching it on first use.
// Interface types compile only once they are registered with NewUnion.
func (c *Compiler) Compile(goType reflect.Type) (*CompiledType, error) {
	if goType == nil {
		return nil, errors.New(errors.PhaseCompile, errors.KindNilPointer).
			Detail("Go type cannot be nil").
			Build()
	}
	return c.compileHinted(goType, 0)
}

func (c *Compiler) compileHinted(goType reflect.Type, h hint) (*CompiledType, error) {
	key := cacheKey{goType: goType, hints: h}
	if cached, ok := c.cache.Load(key); ok {
		return cached.(*CompiledType), nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.newSession()
	ct, err := s.compile(goType, h, nil)
	if err != nil {
		return nil, err
	}
	s.commit()
	return ct, nil
}

// session holds plans that are still being built. Records and unions are
// published here before their fields compile so self-references resolve to
// the same plan. Nothing reaches the shared cache until the whole graph
// compiled without error.
type session struct {
	c       *Compiler
	pending map[cacheKey]*CompiledType
	unions  map[reflect.Type]*CompiledType
}

func (c *Compiler) newSession() *session {
	return &session{
		c:       c,
		pending: make(map[cacheKey]*CompiledType),
		unions:  make(map[reflect.Type]*CompiledType),
	}
}

func (s *session) commit() {
	for k, ct := range s.pending {
		s.c.cache.Store(k, ct)
	}
	for t, ct := range s.unions {
		s.c.unions.Store(t, ct)
		s.c.cache.Store(cacheKey{goType: t}, ct)
	}
}

func (s *session) lookup(key cacheKey) (*CompiledType, bool) {
	if ct, ok := s.pending[key]; ok {
		return ct, true
	}
	if cached, ok := s.c.cache.Load(key); ok {
		return cached.(*CompiledType), true
	}
	return nil, false
}

func (s *session) compile(goType reflect.Type, h hint, path []string) (*CompiledType, error) {
	if goType.Kind() == reflect.Struct {
		h = 0
	}
	key := cacheKey{goType: goType, hints: h}
	if ct, ok := s.lookup(key); ok {
		return ct, nil
	}

	ct, err := s.build(goType, h, path)
	if err != nil {
		return nil, err
	}
	s.pending[key] = ct
	return ct, nil
}

func (s *session) build(goType reflect.Type, h hint, path []string) (*CompiledType, error) {
	if isCustom(goType) {
		return &CompiledType{GoType: goType, Kind: types.KindCustom}, nil
	}

	switch goType {
	case uint128Type:
		return &CompiledType{GoType: goType, Kind: types.KindU128}, nil
	case int128Type:
		return &CompiledType{GoType: goType, Kind: types.KindS128}, nil
	}

	prim := func(k types.Kind) (*CompiledType, error) {
		return &CompiledType{GoType: goType, Kind: k}, nil
	}

	switch goType.Kind() {
	case reflect.Bool:
		return prim(types.KindBool)
	case reflect.Uint8:
		return prim(types.KindU8)
	case reflect.Int8:
		return prim(types.KindS8)
	case reflect.Uint16:
		return prim(types.KindU16)
	case reflect.Int16:
		return prim(types.KindS16)
	case reflect.Uint32:
		if h&hintChar != 0 {
			return prim(types.KindChar)
		}
		return prim(types.KindU32)
	case reflect.Int32:
		if h&hintChar != 0 {
			return prim(types.KindChar)
		}
		return prim(types.KindS32)
	case reflect.Uint64:
		return prim(types.KindU64)
	case reflect.Int64:
		return prim(types.KindS64)
	case reflect.Uint:
		return &CompiledType{GoType: goType, Kind: types.KindU64, Native: true}, nil
	case reflect.Int:
		return &CompiledType{GoType: goType, Kind: types.KindS64, Native: true}, nil
	case reflect.Float32:
		return prim(types.KindF32)
	case reflect.Float64:
		return prim(types.KindF64)
	case reflect.String:
		return prim(types.KindString)
	case reflect.Slice:
		return s.compileSlice(goType, h, path)
	case reflect.Array:
		elem, err := s.compile(goType.Elem(), h&hintChar, path)
		if err != nil {
			return nil, err
		}
		return &CompiledType{GoType: goType, Kind: types.KindArray, Elem: elem, Len: goType.Len()}, nil
	case reflect.Pointer:
		kind := types.KindOption
		if h&hintBox != 0 {
			kind = types.KindBox
		}
		elem, err := s.compile(goType.Elem(), h&hintChar, path)
		if err != nil {
			return nil, err
		}
		return &CompiledType{GoType: goType, Kind: kind, Elem: elem}, nil
	case reflect.Struct:
		return s.compileRecord(goType, path)
	case reflect.Interface:
		if ct, ok := s.unions[goType]; ok {
			return ct, nil
		}
		if registered, ok := s.c.unions.Load(goType); ok {
			return registered.(*CompiledType), nil
		}
		return nil, errors.New(errors.PhaseCompile, errors.KindUnsupported).
			Path(path...).
			GoType(goType.String()).
			Detail("interface is not a registered union").
			Build()
	}

	return nil, errors.New(errors.PhaseCompile, errors.KindUnsupported).
		Path(path...).
		GoType(goType.String()).
		Detail("no wire encoding for %s", goType.Kind()).
		Build()
}

func (s *session) compileSlice(goType reflect.Type, h hint, path []string) (*CompiledType, error) {
	if goType.Elem().Kind() == reflect.Uint8 && !isCustom(goType.Elem()) {
		return &CompiledType{GoType: goType, Kind: types.KindBytes}, nil
	}
	elem, err := s.compile(goType.Elem(), h&hintChar, path)
	if err != nil {
		return nil, err
	}
	return &CompiledType{GoType: goType, Kind: types.KindList, Elem: elem}, nil
}

func (s *session) compileRecord(goType reflect.Type, path []string) (*CompiledType, error) {
	ct := &CompiledType{GoType: goType, Kind: types.KindRecord, Name: goType.Name()}
	s.pending[cacheKey{goType: goType}] = ct

	fields, err := s.structFields(goType, path)
	if err != nil {
		delete(s.pending, cacheKey{goType: goType})
		return nil, err
	}
	ct.Fields = fields
	return ct, nil
}

// structFields compiles the exported fields of a struct in declaration order.
func (s *session) structFields(goType reflect.Type, path []string) ([]CompiledField, error) {
	var fields []CompiledField
	for i := 0; i < goType.NumField(); i++ {
		sf := goType.Field(i)
		if !sf.IsExported() {
			continue
		}
		h, skip := parseTag(sf.Tag.Get("instrs"))
		if skip {
			continue
		}
		fieldPath := append(path[:len(path):len(path)], sf.Name)
		if h&hintBox != 0 && sf.Type.Kind() != reflect.Pointer {
			return nil, errors.New(errors.PhaseCompile, errors.KindUnsupported).
				Path(fieldPath...).
				GoType(sf.Type.String()).
				Detail("box requires a pointer field").
				Build()
		}
		ft, err := s.compile(sf.Type, h, fieldPath)
		if err != nil {
			return nil, err
		}
		fields = append(fields, CompiledField{Type: ft, Name: sf.Name, Index: i})
	}
	return fields, nil
}

// parseTag reads `instrs:"-"`, `instrs:"box"`, `instrs:"char"` and
// comma-separated combinations.
func parseTag(tag string) (hint, bool) {
	if tag == "-" {
		return 0, true
	}
	var h hint
	for _, opt := range strings.Split(tag, ",") {
		switch strings.TrimSpace(opt) {
		case "box":
			h |= hintBox
		case "char":
			h |= hintChar
		}
	}
	return h, false
}

func isCustom(t reflect.Type) bool {
	if t.Kind() == reflect.Interface {
		return false
	}
	marshals := t.Implements(marshalerType) || reflect.PointerTo(t).Implements(marshalerType)
	return marshals && reflect.PointerTo(t).Implements(unmarshalerType)
}

// registerUnion compiles a union over the given variant types and publishes
// it under the interface type.
func (c *Compiler) registerUnion(iface reflect.Type, variants []reflect.Type) (*CompiledType, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.unions.Load(iface); ok {
		ct := existing.(*CompiledType)
		if sameVariants(ct, variants) {
			return ct, nil
		}
		return nil, errors.New(errors.PhaseCompile, errors.KindInvalidInput).
			GoType(iface.String()).
			Detail("union already registered with different variants").
			Build()
	}

	ct := &CompiledType{
		GoType:   iface,
		Kind:     types.KindUnion,
		Name:     unionName(iface),
		TagWidth: uint8(TagWidth(len(variants))),
		Cases:    make([]CompiledCase, 0, len(variants)),
	}

	s := c.newSession()
	s.unions[iface] = ct

	names := make(map[string]bool, len(variants))
	for i, vt := range variants {
		cs, err := s.compileCase(ct, i, vt)
		if err != nil {
			return nil, err
		}
		if _, dup := ct.CaseFor(vt); dup {
			return nil, errors.New(errors.PhaseCompile, errors.KindInvalidInput).
				Path(ct.Name).
				GoType(vt.String()).
				Detail("variant type registered twice").
				Build()
		}
		if names[cs.Name] {
			return nil, errors.New(errors.PhaseCompile, errors.KindInvalidInput).
				Path(ct.Name).
				GoType(vt.String()).
				Detail("duplicate variant name %q", cs.Name).
				Build()
		}
		names[cs.Name] = true
		ct.Cases = append(ct.Cases, cs)
	}

	s.commit()
	return ct, nil
}

func (s *session) compileCase(union *CompiledType, index int, vt reflect.Type) (CompiledCase, error) {
	cs := CompiledCase{GoType: vt}
	payload := vt
	if vt.Kind() == reflect.Pointer {
		payload = vt.Elem()
		cs.Ptr = true
	}
	cs.Name = payload.Name()
	if cs.Name == "" {
		// Anonymous variant types are named by position.
		cs.Name = "Case" + strconv.Itoa(index)
	}

	path := []string{union.Name, cs.Name}
	if payload.Kind() == reflect.Struct && !isCustom(payload) {
		fields, err := s.structFields(payload, path)
		if err != nil {
			return cs, err
		}
		cs.Fields = fields
		return cs, nil
	}

	ft, err := s.compile(payload, 0, path)
	if err != nil {
		return cs, err
	}
	cs.Fields = []CompiledField{{Type: ft, Name: "0", Index: -1}}
	return cs, nil
}

func sameVariants(ct *CompiledType, variants []reflect.Type) bool {
	if len(ct.Cases) != len(variants) {
		return false
	}
	for i, vt := range variants {
		if ct.Cases[i].GoType != vt {
			return false
		}
	}
	return true
}

func unionName(iface reflect.Type) string {
	if name := iface.Name(); name != "" {
		return name
	}
	return iface.String()
}
