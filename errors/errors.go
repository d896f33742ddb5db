package errors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseCompile Phase = "compile" // union/type registration
	PhaseEncode  Phase = "encode"  // Go value to bytes
	PhaseDecode  Phase = "decode"  // bytes to Go value
	PhaseFormat  Phase = "format"  // Go value to debug text
	PhaseParse   Phase = "parse"   // debug text to Go value
	PhaseRuntime Phase = "runtime" // memory bridge and VM
	PhaseConfig  Phase = "config"  // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindExpectedBytes Kind = "expected_bytes"
	KindExpectedRange Kind = "expected_range"
	KindInvalidUTF8   Kind = "invalid_utf8"
	KindInvalidChar   Kind = "invalid_char"
	KindTooLarge      Kind = "too_large"
	KindExpected      Kind = "expected"
	KindTypeMismatch  Kind = "type_mismatch"
	KindUnsupported   Kind = "unsupported"
	KindNilPointer    Kind = "nil_pointer"
	KindOutOfBounds   Kind = "out_of_bounds"
	KindInvalidInput  Kind = "invalid_input"
)

// Range is the inclusive numeric range carried by expected_range errors.
type Range struct {
	Lo uint64
	Hi uint64
}

func (r Range) String() string {
	return strconv.FormatUint(r.Lo, 10) + "..=" + strconv.FormatUint(r.Hi, 10)
}

// Sizes is the byte-width pair carried by too_large errors.
type Sizes struct {
	Needed int
	Max    int
}

// Error is the structured error type used throughout the module
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	GoType   string
	WireType string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.WireType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.WireType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", wire type ")
			b.WriteString(e.WireType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("wire type ")
			b.WriteString(e.WireType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.WireType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// WithPrefix returns a copy of e whose path is prefixed by segments.
// Decoders use it to report where in a nested value a failure happened.
func (e *Error) WithPrefix(segments ...string) *Error {
	cp := *e
	cp.Path = make([]string, 0, len(segments)+len(e.Path))
	cp.Path = append(cp.Path, segments...)
	cp.Path = append(cp.Path, e.Path...)
	return &cp
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// WireType sets the wire type name
func (b *Builder) WireType(t string) *Builder {
	b.err.WireType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Protocol errors

// ExpectedBytes reports that n more bytes were needed to finish a fixed-width read.
func ExpectedBytes(n int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindExpectedBytes,
		Detail: fmt.Sprintf("expected %d more byte(s)", n),
		Value:  n,
	}
}

// ExpectedRange reports a discriminant or flag outside lo..=hi.
func ExpectedRange(got, lo, hi uint64) *Error {
	r := Range{Lo: lo, Hi: hi}
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindExpectedRange,
		Detail: fmt.Sprintf("value %d outside %s", got, r),
		Value:  r,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidUTF8,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// InvalidChar reports a 32-bit value that is not a Unicode scalar value.
func InvalidChar(v uint32) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidChar,
		Detail: fmt.Sprintf("0x%x is not a unicode scalar value", v),
		Value:  v,
	}
}

// TooLarge reports a length that needs more bytes than the configured width allows.
func TooLarge(phase Phase, needed, max int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTooLarge,
		Detail: fmt.Sprintf("length needs %d byte(s), at most %d available", needed, max),
		Value:  Sizes{Needed: needed, Max: max},
	}
}

// Expected creates the generic text parse failure.
func Expected(what string) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindExpected,
		Detail: "expected " + what,
	}
}

// Convenience constructors for common error patterns

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, wireType string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTypeMismatch,
		Path:     path,
		GoType:   goType,
		WireType: wireType,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, path []string, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Path:   path,
		GoType: goType,
		Detail: "nil pointer",
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Inspection helpers

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsKind reports whether err's chain holds an *Error of the given kind, in any phase.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// ExpectedBytesOf returns the shortfall carried by an expected_bytes error.
func ExpectedBytesOf(err error) (int, bool) {
	var e *Error
	if !errors.As(err, &e) || e.Kind != KindExpectedBytes {
		return 0, false
	}
	n, ok := e.Value.(int)
	return n, ok
}

// RangeOf returns the range carried by an expected_range error.
func RangeOf(err error) (Range, bool) {
	var e *Error
	if !errors.As(err, &e) || e.Kind != KindExpectedRange {
		return Range{}, false
	}
	r, ok := e.Value.(Range)
	return r, ok
}

// SizesOf returns the byte widths carried by a too_large error.
func SizesOf(err error) (Sizes, bool) {
	var e *Error
	if !errors.As(err, &e) || e.Kind != KindTooLarge {
		return Sizes{}, false
	}
	s, ok := e.Value.(Sizes)
	return s, ok
}
