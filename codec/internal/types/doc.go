// Package types defines the compiled plans the codec walks when encoding,
// decoding and rendering values.
//
// A CompiledType is built once per Go type by the codec compiler and is
// immutable afterwards, so plans can be shared between goroutines.
//
// # Key Types
//
//   - CompiledType: cached per-type plan (kind, fields, union cases)
//   - Kind: wire kind discriminator (primitive, record, list, union, ...)
//
// This package is internal to the codec.
package types
