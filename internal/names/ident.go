// Package names computes Dart identifiers for declarations.
//
// Every function here is pure: a name depends only on the declaration's
// own summary (name, erased signature, owner, annotations), never on what
// else happens to be in the unit. Two units referring to the same
// declaration therefore agree on its name without talking to each other.
package names

import "strings"

// Ident is a Dart identifier rendered as [_][$]Value.
type Ident struct {
	Value string
	// Private marks a Dart library-private name.
	Private bool
	// Generated marks a name that does not exist in the source program.
	Generated bool
}

// String renders the identifier.
func (id Ident) String() string {
	var b strings.Builder
	b.Grow(len(id.Value) + 2)
	if id.Private {
		b.WriteByte('_')
	}
	if id.Generated {
		b.WriteByte('$')
	}
	b.WriteString(id.Value)
	return b.String()
}

// Plain returns an identifier kept verbatim.
func Plain(value string) Ident {
	return Ident{Value: value}
}

// Gen returns a generated identifier.
func Gen(value string) Ident {
	return Ident{Value: value, Generated: true}
}

// PrivateGen returns a generated library-private identifier.
func PrivateGen(value string) Ident {
	return Ident{Value: value, Private: true, Generated: true}
}

// WithPrivate returns a copy with the private flag set to p.
func (id Ident) WithPrivate(p bool) Ident {
	id.Private = p
	return id
}

var reserved = map[string]struct{}{
	"assert": {}, "break": {}, "case": {}, "catch": {}, "class": {},
	"const": {}, "continue": {}, "default": {}, "do": {}, "else": {},
	"enum": {}, "extends": {}, "false": {}, "final": {}, "finally": {},
	"for": {}, "if": {}, "in": {}, "is": {}, "new": {}, "null": {},
	"rethrow": {}, "return": {}, "super": {}, "switch": {}, "this": {},
	"throw": {}, "true": {}, "try": {}, "var": {}, "void": {},
	"while": {}, "with": {},
	// Built-in identifiers that break member declarations.
	"dynamic": {}, "late": {}, "required": {}, "covariant": {},
	"factory": {}, "operator": {}, "Function": {},
}

// IsReserved reports whether name cannot be used as a Dart identifier as is.
func IsReserved(name string) bool {
	_, ok := reserved[name]
	return ok
}

// Escape returns name as an identifier, prefixed with $ when it is a Dart
// reserved word.
func Escape(name string) Ident {
	return Ident{Value: name, Generated: IsReserved(name)}
}
