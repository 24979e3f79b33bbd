package names

import (
	"strconv"
	"strings"

	"kdart/internal/ir"
)

// PropertySuffix disambiguates a property from a method of the same name.
const PropertySuffix = "$property"

// Member names a function, method or property accessor.
func Member(sym *ir.Symbol) Ident {
	if a, ok := ir.FindAnnotation(sym.Annotations, ir.AnnDartName); ok {
		return Plain(a.Str)
	}
	name := sym.Name
	if sym.Flags.Has(ir.FlagOperator) && name == "invoke" {
		name = "call"
	}
	id := Escape(name)
	switch sym.Kind {
	case ir.SymGetter, ir.SymSetter:
		if sym.PropertyClash {
			id.Value += PropertySuffix
		}
	case ir.SymFunc:
		if sym.OverloadIndex > 0 {
			id.Value += OverloadSuffix(sym.Name, sym.Receiver, sym.ParamTypes())
		}
	}
	id.Private = sym.Visibility == ir.VisPrivate
	return id
}

// Local names a local variable or parameter.
func Local(name string) Ident {
	return Escape(name)
}

// ClassName joins a package-relative dotted class name with $.
func ClassName(rel string) string {
	return strings.ReplaceAll(rel, ".", "$")
}

// Class names a class declaration.
func Class(c *ir.Class) Ident {
	if a, ok := ir.FindAnnotation(c.Annotations, ir.AnnDartName); ok {
		return Plain(a.Str)
	}
	rel := c.RelName
	if rel == "" {
		rel = c.Name
	}
	id := Escape(ClassName(rel))
	id.Private = c.Visibility == ir.VisPrivate
	return id
}

// TypeRef names a reference to class type t. decl is the class declaration
// when it is part of the program, nil for external classes.
func TypeRef(t ir.Type, decl *ir.Class) Ident {
	if decl != nil {
		return Class(decl)
	}
	return Escape(ClassName(t.ClassName()))
}

// Ctor returns the constructor name for a constructor symbol: "" for the
// public primary constructor, "_" for a private one, $constructor$N for
// secondary constructors.
func Ctor(sym *ir.Symbol) string {
	if a, ok := ir.FindAnnotation(sym.Annotations, ir.AnnDartName); ok {
		return a.Str
	}
	if sym.Primary {
		if sym.Visibility == ir.VisPrivate {
			return "_"
		}
		return ""
	}
	id := Gen("constructor$" + strconv.Itoa(sym.CtorIndex))
	id.Private = sym.Visibility == ir.VisPrivate
	return id.String()
}

// ExtensionContainer names the extension grouping the members declared in
// file for receiver type recv.
func ExtensionContainer(recv ir.Type, file string) Ident {
	base := recv.ClassName()
	if recv.Kind != ir.TypeClass {
		base = "Dynamic"
	}
	return Gen(ClassName(base) + "Ext" + "$" + Hash(recv.Erased()+"@"+file))
}

// EnumBase names the abstract base of an enum's per-entry delegates.
func EnumBase(enum string) Ident {
	return PrivateGen(enum + "Base")
}

// EnumDelegate names the delegate class of one enum entry.
func EnumDelegate(enum, entry string) Ident {
	return PrivateGen(enum + "$" + entry)
}

// EnumValueOf names the by-name lookup helper of an enum.
func EnumValueOf(enum string) Ident {
	return Gen(enum + "$valueOf")
}

// BackingField names the storage of a property with custom accessors.
func BackingField(property string) Ident {
	return Gen(property + "BackingField")
}

// DefaultMarker names the sentinel class standing in for an omitted
// argument of nominal type typeName; empty typeName names the shared
// marker used for core value types.
func DefaultMarker(typeName string) Ident {
	return PrivateGen("Default" + ClassName(typeName) + "Value")
}

// SuperDelegate names the private method holding interface iface's
// default body of member.
func SuperDelegate(iface, member string) Ident {
	return Ident{Value: ClassName(iface) + "$" + member, Private: true}
}

// Subject names the temporary holding a when subject.
func Subject(n int) Ident {
	return Gen("subject" + strconv.Itoa(n))
}

// Temp names a hoisted temporary (range bounds, steps).
func Temp(kind string, n int) Ident {
	return Gen(kind + strconv.Itoa(n))
}

// ObjectInstance is the static field holding an object declaration's singleton.
var ObjectInstance = Gen("instance")

// EnumDelegateField is the enum field referencing an entry's delegate.
var EnumDelegateField = PrivateGen("delegate")

// EnumThis is the explicit receiver parameter of enum delegate members.
var EnumThis = Gen("this")
