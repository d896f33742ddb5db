// Package errors provides structured error types for the instrs module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, Go/wire type names, and cause chain.
//
// The protocol failure modes each have a dedicated kind and constructor:
//
//	errors.ExpectedBytes(n)            // fewer than n further bytes were available
//	errors.ExpectedRange(v, lo, hi)    // tag or flag byte outside lo..=hi
//	errors.InvalidUTF8(data)           // text payload is not UTF-8
//	errors.InvalidChar(v)              // 32-bit value is not a Unicode scalar value
//	errors.TooLarge(phase, need, max)  // length does not fit the size witness
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseCompile, errors.KindTypeMismatch).
//		Path("Add", "a").
//		GoType("map[string]int").
//		Detail("maps have no wire representation").
//		Build()
//
// All errors implement the standard error interface and support errors.Is/As.
// Is matches on Phase and Kind; IsKind ignores the phase.
package errors
