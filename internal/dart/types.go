package dart

// TypeKind enumerates Dart type shapes.
type TypeKind uint8

const (
	TypeNamed TypeKind = iota
	TypeFunction
	TypeDynamic
	TypeVoid
	TypeNever
)

// Type is a Dart type annotation.
type Type struct {
	Kind     TypeKind
	Name     string
	Args     []Type
	Nullable bool
	Params   []Type // TypeFunction only
	Return   *Type  // TypeFunction only
}

// Named builds a non-null named type.
func Named(name string, args ...Type) Type {
	return Type{Kind: TypeNamed, Name: name, Args: args}
}

// Dynamic is the `dynamic` type.
func Dynamic() Type { return Type{Kind: TypeDynamic} }

// Void is the `void` type.
func Void() Type { return Type{Kind: TypeVoid} }

// Never is the `Never` type.
func Never() Type { return Type{Kind: TypeNever} }

// FunctionType builds `R Function(P...)`.
func FunctionType(ret Type, params ...Type) Type {
	return Type{Kind: TypeFunction, Params: params, Return: &ret}
}

// WithNullable returns a copy with nullability n. dynamic and void stay as they are.
func (t Type) WithNullable(n bool) Type {
	if t.Kind == TypeDynamic || t.Kind == TypeVoid {
		return t
	}
	t.Nullable = n
	return t
}

// Ptr returns a pointer to a copy of t.
func (t Type) Ptr() *Type {
	return &t
}

// Equal reports structural equality.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind || t.Name != o.Name || t.Nullable != o.Nullable ||
		len(t.Args) != len(o.Args) || len(t.Params) != len(o.Params) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	for i := range t.Params {
		if !t.Params[i].Equal(o.Params[i]) {
			return false
		}
	}
	if (t.Return == nil) != (o.Return == nil) {
		return false
	}
	return t.Return == nil || t.Return.Equal(*o.Return)
}

// TypeParam is a type parameter declaration.
type TypeParam struct {
	Name  string
	Bound *Type
}
