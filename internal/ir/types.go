package ir

import (
	"strconv"
	"strings"
)

// Well-known fully qualified names of the source language's builtins.
const (
	FQAny         = "kotlin.Any"
	FQUnit        = "kotlin.Unit"
	FQNothing     = "kotlin.Nothing"
	FQInt         = "kotlin.Int"
	FQLong        = "kotlin.Long"
	FQShort       = "kotlin.Short"
	FQByte        = "kotlin.Byte"
	FQDouble      = "kotlin.Double"
	FQFloat       = "kotlin.Float"
	FQNumber      = "kotlin.Number"
	FQBoolean     = "kotlin.Boolean"
	FQChar        = "kotlin.Char"
	FQString      = "kotlin.String"
	FQThrowable   = "kotlin.Throwable"
	FQException   = "kotlin.Exception"
	FQComparable  = "kotlin.Comparable"
	FQEnum        = "kotlin.Enum"
	FQFunction    = "kotlin.Function"
	FQIterable    = "kotlin.collections.Iterable"
	FQList        = "kotlin.collections.List"
	FQMutableList = "kotlin.collections.MutableList"
	FQSet         = "kotlin.collections.Set"
	FQMutableSet  = "kotlin.collections.MutableSet"
	FQMap         = "kotlin.collections.Map"
	FQMutableMap  = "kotlin.collections.MutableMap"
	FQIterator    = "kotlin.collections.Iterator"
	FQMapEntry    = "kotlin.collections.Map.Entry"
	FQPair        = "kotlin.Pair"
	FQIntRange    = "kotlin.ranges.IntRange"
)

// TypeKind enumerates type shapes.
type TypeKind uint8

const (
	// TypeClass is a nominal type (class, interface, enum, object).
	TypeClass TypeKind = iota
	// TypeParamRef references a type parameter by name.
	TypeParamRef
	// TypeFunction is a function type (Params -> Return).
	TypeFunction
	// TypeDynamic is an unconstrained type.
	TypeDynamic
)

// Type is a resolved type reference.
type Type struct {
	Kind   TypeKind
	FQName string // class FQ name; type parameter name for TypeParamRef
	// RelName is the dotted class name within its package for nested
	// classes ("Outer.Inner"); empty means the last FQ segment.
	RelName  string
	Library  string // import URI of the declaring library; "" for builtins
	Args     []Type
	Nullable bool
	Params   []Type // TypeFunction only
	Return   *Type  // TypeFunction only
}

// ClassType builds a non-null nominal type.
func ClassType(fq string, args ...Type) Type {
	return Type{Kind: TypeClass, FQName: fq, Args: args}
}

// SimpleName returns the last segment of the FQ name.
func (t Type) SimpleName() string {
	if i := strings.LastIndexByte(t.FQName, '.'); i >= 0 {
		return t.FQName[i+1:]
	}
	return t.FQName
}

// ClassName returns the class name relative to its package.
func (t Type) ClassName() string {
	if t.RelName != "" {
		return t.RelName
	}
	return t.SimpleName()
}

// WithNullable returns a copy with the nullability flag set to n.
func (t Type) WithNullable(n bool) Type {
	t.Nullable = n
	return t
}

// Is reports whether t is the nominal type fq (ignoring nullability).
func (t Type) Is(fq string) bool {
	return t.Kind == TypeClass && t.FQName == fq
}

// IsUnit reports whether t is Unit or Nothing-returning void.
func (t Type) IsUnit() bool {
	return t.Is(FQUnit)
}

// IsInteger reports whether t is one of the integral builtins.
func (t Type) IsInteger() bool {
	if t.Kind != TypeClass {
		return false
	}
	switch t.FQName {
	case FQInt, FQLong, FQShort, FQByte:
		return true
	}
	return false
}

// IsPrimitive reports whether t maps onto a Dart core value type
// (int, double, num, bool, String) that user classes cannot implement.
func (t Type) IsPrimitive() bool {
	if t.Kind != TypeClass {
		return false
	}
	switch t.FQName {
	case FQInt, FQLong, FQShort, FQByte, FQDouble, FQFloat, FQNumber, FQBoolean, FQChar, FQString:
		return true
	}
	return false
}

// Erased renders the erased form used in overload signatures:
// type arguments are dropped, nullability is kept.
func (t Type) Erased() string {
	var s string
	switch t.Kind {
	case TypeClass:
		s = t.FQName
	case TypeParamRef:
		s = t.FQName
	case TypeFunction:
		s = FQFunction + strconv.Itoa(len(t.Params))
	case TypeDynamic:
		return "dynamic"
	}
	if t.Nullable {
		s += "?"
	}
	return s
}

// String renders the type with its arguments, for messages and dumps.
func (t Type) String() string {
	var b strings.Builder
	switch t.Kind {
	case TypeFunction:
		b.WriteByte('(')
		for i, p := range t.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.String())
		}
		b.WriteString(") -> ")
		if t.Return != nil {
			b.WriteString(t.Return.String())
		} else {
			b.WriteString("Unit")
		}
	case TypeDynamic:
		b.WriteString("dynamic")
	default:
		b.WriteString(t.FQName)
		if len(t.Args) > 0 {
			b.WriteByte('<')
			for i, a := range t.Args {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(a.String())
			}
			b.WriteByte('>')
		}
	}
	if t.Nullable && t.Kind != TypeDynamic {
		b.WriteByte('?')
	}
	return b.String()
}
