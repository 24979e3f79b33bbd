package dart

// DeclKind enumerates Dart declaration kinds.
type DeclKind uint8

const (
	DeclClass DeclKind = iota
	DeclEnum
	DeclExtension
	DeclFunction
	DeclVariables
	DeclMethod
	DeclConstructor
	DeclField
)

func (k DeclKind) String() string {
	switch k {
	case DeclClass:
		return "Class"
	case DeclEnum:
		return "Enum"
	case DeclExtension:
		return "Extension"
	case DeclFunction:
		return "Function"
	case DeclVariables:
		return "Variables"
	case DeclMethod:
		return "Method"
	case DeclConstructor:
		return "Constructor"
	case DeclField:
		return "Field"
	default:
		return "Unknown"
	}
}

// Decl is a top-level or member declaration.
type Decl struct {
	Kind DeclKind
	// Annotations are rendered as `@name` lines before the declaration.
	Annotations []string
	Data        DeclData
}

// DeclData is the interface for declaration payloads.
type DeclData interface {
	declData()
}

// ClassData is a class declaration.
type ClassData struct {
	Name       string
	Abstract   bool
	TypeParams []TypeParam
	Extends    *Type
	Implements []Type
	Members    []*Decl
}

// EnumValue is one entry of an enum declaration.
type EnumValue struct {
	Name string
	Ctor string
	Args []Arg
}

// EnumData is an enhanced enum.
type EnumData struct {
	Name       string
	TypeParams []TypeParam
	Implements []Type
	Values     []EnumValue
	Members    []*Decl
}

// ExtensionData is `extension Name on T { ... }`.
type ExtensionData struct {
	Name       string
	TypeParams []TypeParam
	On         Type
	Members    []*Decl
}

// FunctionDeclData is a top-level or local function, getter or setter.
type FunctionDeclData struct {
	Name       string
	ReturnType *Type
	TypeParams []TypeParam
	Params     Params
	Body       Body
	Getter     bool
	Setter     bool
	External   bool
}

// VariablesData declares one variable: top-level (DeclVariables) or a field (DeclField).
type VariablesData struct {
	Name   string
	Type   *Type
	Init   *Expr
	Final  bool
	Const  bool
	Late   bool
	Static bool
}

// MethodKind distinguishes plain methods from accessors and operators.
type MethodKind uint8

const (
	MethodPlain MethodKind = iota
	MethodGetter
	MethodSetter
	MethodOperator
)

// MethodData is a class, enum or extension member function.
type MethodData struct {
	Name       string
	Kind       MethodKind
	Static     bool
	Abstract   bool
	External   bool
	ReturnType *Type
	TypeParams []TypeParam
	Params     Params
	Body       Body
}

// InitKind enumerates constructor initializer list entries.
type InitKind uint8

const (
	// InitField is `field = value`.
	InitField InitKind = iota
	// InitSuper is `super.ctor(args)`.
	InitSuper
	// InitThis redirects to `this.ctor(args)`.
	InitThis
	// InitAssert is `assert(value)`.
	InitAssert
)

// Initializer is one constructor initializer list entry.
type Initializer struct {
	Kind  InitKind
	Field string
	Value *Expr
	Ctor  string
	Args  []Arg
}

// ConstructorData is a generative or factory constructor of Class.
type ConstructorData struct {
	Class        string
	Name         string // "" for the unnamed constructor
	Const        bool
	Factory      bool
	External     bool
	Params       Params
	Initializers []Initializer
	Body         Body
}

func (ClassData) declData()        {}
func (EnumData) declData()         {}
func (ExtensionData) declData()    {}
func (FunctionDeclData) declData() {}
func (VariablesData) declData()    {}
func (MethodData) declData()       {}
func (ConstructorData) declData()  {}

// Param is one formal parameter.
type Param struct {
	Name      string
	Type      *Type
	Default   *Expr
	Field     bool // this.name
	Required  bool // `required` in a named block
	Covariant bool
}

// Params is a formal parameter list. At most one of Optional and Named is non-empty.
type Params struct {
	Positional []*Param
	Optional   []*Param
	Named      []*Param
}

// Len returns the total number of parameters.
func (p Params) Len() int {
	return len(p.Positional) + len(p.Optional) + len(p.Named)
}

// All returns the parameters in emission order.
func (p Params) All() []*Param {
	out := make([]*Param, 0, p.Len())
	out = append(out, p.Positional...)
	out = append(out, p.Optional...)
	return append(out, p.Named...)
}

// Directive is an `import 'uri' show A, B;` line.
type Directive struct {
	URI  string
	Show []string
}

// Library is one generated Dart file.
type Library struct {
	Directives []Directive
	Decls      []*Decl
}
