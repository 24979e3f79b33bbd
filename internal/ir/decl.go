package ir

import (
	"strconv"

	"kdart/internal/source"
)

// DeclKind enumerates declaration kinds.
type DeclKind uint8

const (
	DeclClass DeclKind = iota
	DeclFunc
	DeclProperty
	DeclCtor
)

func (k DeclKind) String() string {
	switch k {
	case DeclClass:
		return "Class"
	case DeclFunc:
		return "Func"
	case DeclProperty:
		return "Property"
	case DeclCtor:
		return "Ctor"
	default:
		return "Unknown"
	}
}

// Decl is a top-level or member declaration.
type Decl struct {
	Kind DeclKind
	Data DeclData
}

// DeclData is implemented by *Class, *Func, *Property and *Constructor.
type DeclData interface {
	declData()
	DeclSpan() source.Span
}

// ClassKind enumerates class-like declaration kinds.
type ClassKind uint8

const (
	ClassPlain ClassKind = iota
	ClassInterface
	ClassEnum
	ClassObject
)

func (k ClassKind) String() string {
	switch k {
	case ClassPlain:
		return "class"
	case ClassInterface:
		return "interface"
	case ClassEnum:
		return "enum"
	case ClassObject:
		return "object"
	default:
		return "unknown"
	}
}

// SuperKind distinguishes an extended class from an implemented interface.
type SuperKind uint8

const (
	SuperClass SuperKind = iota
	SuperInterface
)

// SuperType is one entry of a class's supertype list.
type SuperType struct {
	Type Type
	Kind SuperKind
}

// TypeParam declares a type parameter.
type TypeParam struct {
	Name   string
	Bounds []Type
}

// Class is a class, interface, enum or object declaration.
type Class struct {
	Name        string
	FQName      string
	Outer       string // FQ name of the enclosing class for nested classes
	RelName     string // dotted name within the package, set for nested classes
	Kind        ClassKind
	Modality    Modality
	Visibility  Visibility
	TypeParams  []TypeParam
	Supers      []SuperType
	Members     []Decl
	Entries     []*EnumEntry
	Annotations []Annotation
	Span        source.Span
}

// Func is a function, method, accessor or lambda body.
type Func struct {
	// ID labels the function as a return target; unique within the unit.
	ID            string
	Name          string
	FQName        string
	Owner         string
	OwnerKind     ClassKind
	Visibility    Visibility
	Modality      Modality
	Flags         DeclFlags
	TypeParams    []TypeParam
	Receiver      *Type
	Params        []*Param
	Return        Type
	Body          *Block
	OverloadIndex int
	Annotations   []Annotation
	Span          source.Span
}

// Param is a value parameter.
type Param struct {
	Name        string
	Type        Type
	Default     *Expr
	Flags       DeclFlags
	Annotations []Annotation
	Span        source.Span
}

// Property is a member, top-level or extension property.
type Property struct {
	Name       string
	FQName     string
	Owner      string
	OwnerKind  ClassKind
	Visibility Visibility
	Modality   Modality
	Flags      DeclFlags
	Type       Type
	Receiver   *Type
	Init       *Expr
	// FromParam names the primary constructor parameter the property is declared by.
	FromParam string
	// Getter and Setter are custom accessors; nil means the default accessor.
	Getter *Func
	Setter *Func
	// BackingField is set when custom accessors read or write the backing field.
	BackingField  bool
	PropertyClash bool
	Annotations   []Annotation
	Span          source.Span
}

// Delegation is a constructor's call to a super or sibling constructor.
type Delegation struct {
	Super bool
	Ctor  Symbol
	Args  []*Expr
}

// Constructor is a primary or secondary constructor.
type Constructor struct {
	Primary     bool
	Index       int
	Visibility  Visibility
	Params      []*Param
	Delegation  *Delegation
	Body        *Block
	Annotations []Annotation
	Span        source.Span
}

// ID labels the constructor as a return target within owner.
func (c *Constructor) ID(owner *Class) string {
	return owner.FQName + ".<init>" + strconv.Itoa(c.Index)
}

// EnumEntry is one case of an enum class.
type EnumEntry struct {
	Name    string
	Args    []*Expr
	Members []Decl
	Span    source.Span
}

func (*Class) declData()       {}
func (*Func) declData()        {}
func (*Property) declData()    {}
func (*Constructor) declData() {}

func (c *Class) DeclSpan() source.Span       { return c.Span }
func (f *Func) DeclSpan() source.Span        { return f.Span }
func (p *Property) DeclSpan() source.Span    { return p.Span }
func (c *Constructor) DeclSpan() source.Span { return c.Span }

// ClassDecl wraps c as a Decl.
func ClassDecl(c *Class) Decl { return Decl{Kind: DeclClass, Data: c} }

// FuncDecl wraps f as a Decl.
func FuncDecl(f *Func) Decl { return Decl{Kind: DeclFunc, Data: f} }

// PropertyDecl wraps p as a Decl.
func PropertyDecl(p *Property) Decl { return Decl{Kind: DeclProperty, Data: p} }

// CtorDecl wraps c as a Decl.
func CtorDecl(c *Constructor) Decl { return Decl{Kind: DeclCtor, Data: c} }

// Type returns the class's own type with its type parameters as arguments.
func (c *Class) Type() Type {
	t := Type{Kind: TypeClass, FQName: c.FQName, RelName: c.RelName}
	for _, tp := range c.TypeParams {
		t.Args = append(t.Args, Type{Kind: TypeParamRef, FQName: tp.Name})
	}
	return t
}

// Funcs returns the member functions in declaration order.
func (c *Class) Funcs() []*Func {
	var out []*Func
	for _, m := range c.Members {
		if f, ok := m.Data.(*Func); ok {
			out = append(out, f)
		}
	}
	return out
}

// Properties returns the member properties in declaration order.
func (c *Class) Properties() []*Property {
	var out []*Property
	for _, m := range c.Members {
		if p, ok := m.Data.(*Property); ok {
			out = append(out, p)
		}
	}
	return out
}

// Ctors returns the constructors in declaration order.
func (c *Class) Ctors() []*Constructor {
	var out []*Constructor
	for _, m := range c.Members {
		if ctor, ok := m.Data.(*Constructor); ok {
			out = append(out, ctor)
		}
	}
	return out
}

// PrimaryCtor returns the primary constructor, if any.
func (c *Class) PrimaryCtor() *Constructor {
	for _, ctor := range c.Ctors() {
		if ctor.Primary {
			return ctor
		}
	}
	return nil
}

// SuperClass returns the extended class type, if any.
func (c *Class) SuperClass() (Type, bool) {
	for _, s := range c.Supers {
		if s.Kind == SuperClass {
			return s.Type, true
		}
	}
	return Type{}, false
}

// IsAbstract reports whether the function has no body to emit.
func (f *Func) IsAbstract() bool {
	return f.Body == nil && f.Modality == ModAbstract
}

// Symbol summarizes f as a call site would see it.
func (f *Func) Symbol(library, file string) Symbol {
	sym := Symbol{
		Kind:          SymFunc,
		Name:          f.Name,
		Owner:         f.Owner,
		OwnerKind:     f.OwnerKind,
		Library:       library,
		File:          file,
		Receiver:      f.Receiver,
		Visibility:    f.Visibility,
		Flags:         f.Flags,
		OverloadIndex: f.OverloadIndex,
		Annotations:   f.Annotations,
	}
	for _, p := range f.Params {
		sym.Params = append(sym.Params, p.Sig())
	}
	return sym
}

// Sig returns the call-site view of the parameter.
func (p *Param) Sig() ParamSig {
	return ParamSig{
		Name:        p.Name,
		Type:        p.Type,
		Default:     p.Default,
		Vararg:      p.Flags.Has(FlagVararg),
		Annotations: p.Annotations,
	}
}

// Symbol summarizes the property's getter.
func (p *Property) Symbol(library, file string) Symbol {
	return Symbol{
		Kind:          SymGetter,
		Name:          p.Name,
		Owner:         p.Owner,
		OwnerKind:     p.OwnerKind,
		Library:       library,
		File:          file,
		Receiver:      p.Receiver,
		Visibility:    p.Visibility,
		Flags:         p.Flags,
		PropertyClash: p.PropertyClash,
		Annotations:   p.Annotations,
	}
}

// Symbol summarizes the constructor of class owner.
func (c *Constructor) Symbol(owner *Class, library, file string) Symbol {
	sym := Symbol{
		Kind:        SymCtor,
		Name:        owner.Name,
		Owner:       owner.FQName,
		OwnerKind:   owner.Kind,
		Library:     library,
		File:        file,
		Visibility:  c.Visibility,
		CtorIndex:   c.Index,
		Primary:     c.Primary,
		Annotations: c.Annotations,
	}
	for _, p := range c.Params {
		sym.Params = append(sym.Params, p.Sig())
	}
	return sym
}

// Symbol summarizes the class as a type reference.
func (c *Class) Symbol(library, file string) Symbol {
	return Symbol{
		Kind:        SymClass,
		Name:        c.Name,
		Owner:       c.Outer,
		OwnerKind:   c.Kind,
		Library:     library,
		File:        file,
		Visibility:  c.Visibility,
		Annotations: c.Annotations,
	}
}
