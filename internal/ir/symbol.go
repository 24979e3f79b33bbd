package ir

import "strings"

// Visibility of a declaration in the source language.
type Visibility uint8

const (
	VisPublic Visibility = iota
	VisInternal
	VisProtected
	VisPrivate
)

// Modality of a class or member.
type Modality uint8

const (
	ModFinal Modality = iota
	ModOpen
	ModAbstract
	ModSealed
)

// DeclFlags is a bitmask of declaration modifiers.
type DeclFlags uint16

const (
	FlagOperator DeclFlags = 1 << iota
	FlagOverride
	FlagExternal
	FlagInline
	FlagInfix
	FlagMutable
	FlagConst
	FlagLateinit
	FlagVararg
	FlagData
)

// Has reports whether all bits of x are set.
func (f DeclFlags) Has(x DeclFlags) bool {
	return f&x == x
}

// SymbolKind tells what a Symbol refers to.
type SymbolKind uint8

const (
	SymFunc SymbolKind = iota
	SymGetter
	SymSetter
	SymClass
	SymCtor
	// SymEnumValueOf is the synthetic name lookup of an enum class.
	SymEnumValueOf
	// SymEnumValues is the synthetic values()/entries accessor of an enum class.
	SymEnumValues
)

func (k SymbolKind) String() string {
	switch k {
	case SymFunc:
		return "func"
	case SymGetter:
		return "getter"
	case SymSetter:
		return "setter"
	case SymClass:
		return "class"
	case SymCtor:
		return "ctor"
	case SymEnumValueOf:
		return "enum-valueOf"
	case SymEnumValues:
		return "enum-values"
	default:
		return "unknown"
	}
}

// ParamSig is the part of a parameter visible to call sites. Default is
// carried so a call site can fill a skipped optional positional slot.
type ParamSig struct {
	Name        string
	Type        Type
	Default     *Expr
	Vararg      bool
	Annotations []Annotation
}

// HasDefault reports whether the parameter may be omitted.
func (p ParamSig) HasDefault() bool {
	return p.Default != nil
}

// Symbol is a fully resolved reference to a declaration. Declarations build
// the same summary for themselves, so a declaration and every call site
// agree on the emitted name without seeing each other.
type Symbol struct {
	Kind       SymbolKind
	Name       string
	Owner      string // FQ name of the owning class; "" for top-level
	OwnerKind  ClassKind
	Library    string // import URI of the declaring library; "" for builtins
	File       string // declaring source file, part of extension container identity
	Params     []ParamSig
	Receiver   *Type // extension receiver
	Visibility Visibility
	Flags      DeclFlags
	// OverloadIndex is the position among same-named siblings of the root
	// declaration (overrides inherit it from the member they override).
	OverloadIndex int
	// PropertyClash is set on accessors whose name is also used by a method
	// in the same scope.
	PropertyClash bool
	CtorIndex     int
	Primary       bool
	Annotations   []Annotation
}

// IsExtension reports whether the symbol is an extension member.
func (s *Symbol) IsExtension() bool {
	return s.Receiver != nil
}

// IsBuiltin reports whether the symbol belongs to the source language runtime.
func (s *Symbol) IsBuiltin() bool {
	return s.Library == "" && (s.Owner == "" || strings.HasPrefix(s.Owner, "kotlin."))
}

// ParamTypes returns the parameter types in declaration order.
func (s *Symbol) ParamTypes() []Type {
	out := make([]Type, len(s.Params))
	for i, p := range s.Params {
		out[i] = p.Type
	}
	return out
}
