// Package ir is the typed program tree kdart consumes.
//
// The tree is produced by an external front end after parsing, name
// resolution and type inference. Every identifier use is already resolved:
// calls, property accesses and constructor invocations carry a Symbol that
// summarizes the referenced declaration (owner, erased parameter types,
// overload position, visibility and marker annotations), so the lowering
// stage never looks anything up by name.
//
// Expressions and statements follow the Kind + Data layout: the Kind selects
// the variant and Data holds the kind-specific payload. Declarations use the
// same layout. All node types round-trip through msgpack (see codec.go); unit
// files on disk are msgpack-encoded Unit values.
package ir
