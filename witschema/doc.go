// Package witschema exports compiled unions as WIT type declarations.
//
// The export documents a wire format for tooling that speaks the component
// model; the WIT canonical ABI lays values out differently, so the schema
// describes shape, not bytes:
//
//	Wire kind       WIT
//	─────────────────────────────────
//	union           variant
//	record          record
//	array [N]T      tuple<T, ..., T>
//	list, bytes     list<T>, list<u8>
//	option          option<T>
//	box             the boxed type
//	u128, s128      tuple<u64, u64>
//	int, uint       s64, u64
//
// WIT has no recursive types, so unions that reach themselves are rejected.
package witschema
