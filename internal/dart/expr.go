package dart

// ExprKind enumerates Dart expression kinds.
type ExprKind uint8

const (
	ExprLiteral ExprKind = iota
	ExprIdentifier
	ExprPropertyAccess
	ExprMethodInvocation
	ExprFunctionInvocation
	ExprInstanceCreation
	ExprBinary
	ExprPrefix
	ExprPostfix
	ExprAssignment
	ExprConditional
	ExprIs
	ExprAs
	ExprThrow
	ExprFunction
	ExprListLiteral
	ExprStringInterpolation
	ExprIndex
	ExprThis
	ExprSuper
	// ExprParenthesized is accepted by the printer but never built by lowering.
	ExprParenthesized
)

func (k ExprKind) String() string {
	switch k {
	case ExprLiteral:
		return "Literal"
	case ExprIdentifier:
		return "Identifier"
	case ExprPropertyAccess:
		return "PropertyAccess"
	case ExprMethodInvocation:
		return "MethodInvocation"
	case ExprFunctionInvocation:
		return "FunctionInvocation"
	case ExprInstanceCreation:
		return "InstanceCreation"
	case ExprBinary:
		return "Binary"
	case ExprPrefix:
		return "Prefix"
	case ExprPostfix:
		return "Postfix"
	case ExprAssignment:
		return "Assignment"
	case ExprConditional:
		return "Conditional"
	case ExprIs:
		return "Is"
	case ExprAs:
		return "As"
	case ExprThrow:
		return "Throw"
	case ExprFunction:
		return "Function"
	case ExprListLiteral:
		return "ListLiteral"
	case ExprStringInterpolation:
		return "StringInterpolation"
	case ExprIndex:
		return "Index"
	case ExprThis:
		return "This"
	case ExprSuper:
		return "Super"
	case ExprParenthesized:
		return "Parenthesized"
	default:
		return "Unknown"
	}
}

// Expr is a Dart expression.
type Expr struct {
	Kind ExprKind
	Data ExprData
}

// ExprData is the interface for expression payloads.
type ExprData interface {
	exprData()
}

// LitKind enumerates literal kinds.
type LitKind uint8

const (
	LitInt LitKind = iota
	LitDouble
	LitString
	LitBool
	LitNull
)

// LiteralData is a literal value.
type LiteralData struct {
	Kind   LitKind
	Int    int64
	Double float64
	Str    string
	Bool   bool
}

// IdentifierData is a bare identifier.
type IdentifierData struct {
	Name string
}

// PropertyAccessData is `target.name` or `target?.name`.
type PropertyAccessData struct {
	Target    *Expr
	Name      string
	NullAware bool
}

// Arg is an invocation argument; Name is empty for positional arguments.
type Arg struct {
	Name  string
	Value *Expr
}

// MethodInvocationData is `target.name<T>(args)`; a nil Target calls name directly.
type MethodInvocationData struct {
	Target    *Expr
	Name      string
	TypeArgs  []Type
	Args      []Arg
	NullAware bool
}

// FunctionInvocationData invokes an arbitrary callee expression.
type FunctionInvocationData struct {
	Func     *Expr
	TypeArgs []Type
	Args     []Arg
}

// InstanceCreationData is `[const] Type.ctor(args)`.
type InstanceCreationData struct {
	Type  Type
	Ctor  string
	Args  []Arg
	Const bool
}

// BinaryOp is a Dart binary operator token.
type BinaryOp string

const (
	OpIfNull    BinaryOp = "??"
	OpOr        BinaryOp = "||"
	OpAnd       BinaryOp = "&&"
	OpEq        BinaryOp = "=="
	OpNotEq     BinaryOp = "!="
	OpLess      BinaryOp = "<"
	OpLessEq    BinaryOp = "<="
	OpGreater   BinaryOp = ">"
	OpGreaterEq BinaryOp = ">="
	OpBitOr     BinaryOp = "|"
	OpBitXor    BinaryOp = "^"
	OpBitAnd    BinaryOp = "&"
	OpShl       BinaryOp = "<<"
	OpShr       BinaryOp = ">>"
	OpAdd       BinaryOp = "+"
	OpSub       BinaryOp = "-"
	OpMul       BinaryOp = "*"
	OpDiv       BinaryOp = "/"
	OpIntDiv    BinaryOp = "~/"
	OpRem       BinaryOp = "%"
)

// BinaryData is `left op right`.
type BinaryData struct {
	Op    BinaryOp
	Left  *Expr
	Right *Expr
}

// PrefixData is a prefix operator: `!`, `-`, `~`, `++`, `--`.
type PrefixData struct {
	Op      string
	Operand *Expr
}

// PostfixData is a postfix operator: `!`, `++`, `--`.
type PostfixData struct {
	Op      string
	Operand *Expr
}

// AssignmentData is `target op value` with op `=`, `??=`, `+=` ...
type AssignmentData struct {
	Target *Expr
	Op     string
	Value  *Expr
}

// ConditionalData is `cond ? then : else`.
type ConditionalData struct {
	Cond *Expr
	Then *Expr
	Else *Expr
}

// IsData is `value is Type` or `value is! Type`.
type IsData struct {
	Value *Expr
	Type  Type
	Not   bool
}

// AsData is `value as Type`.
type AsData struct {
	Value *Expr
	Type  Type
}

// ThrowData is `throw value`.
type ThrowData struct {
	Value *Expr
}

// FunctionData is a function literal.
type FunctionData struct {
	TypeParams []TypeParam
	Params     Params
	Body       Body
}

// ListLiteralData is `[const] <Elem>[elems]`.
type ListLiteralData struct {
	Elem  *Type
	Elems []*Expr
	Const bool
}

// StringInterpolationData is a string with embedded expressions. String
// literal parts are emitted as raw text, everything else is interpolated.
type StringInterpolationData struct {
	Parts []*Expr
}

// IndexData is `target[index]`.
type IndexData struct {
	Target    *Expr
	Index     *Expr
	NullAware bool
}

// ThisData is `this`.
type ThisData struct{}

// SuperData is `super`.
type SuperData struct{}

// ParenthesizedData is an explicit `(inner)`.
type ParenthesizedData struct {
	Inner *Expr
}

func (LiteralData) exprData()             {}
func (IdentifierData) exprData()          {}
func (PropertyAccessData) exprData()      {}
func (MethodInvocationData) exprData()    {}
func (FunctionInvocationData) exprData()  {}
func (InstanceCreationData) exprData()    {}
func (BinaryData) exprData()              {}
func (PrefixData) exprData()              {}
func (PostfixData) exprData()             {}
func (AssignmentData) exprData()          {}
func (ConditionalData) exprData()         {}
func (IsData) exprData()                  {}
func (AsData) exprData()                  {}
func (ThrowData) exprData()               {}
func (FunctionData) exprData()            {}
func (ListLiteralData) exprData()         {}
func (StringInterpolationData) exprData() {}
func (IndexData) exprData()               {}
func (ThisData) exprData()                {}
func (SuperData) exprData()               {}
func (ParenthesizedData) exprData()       {}

