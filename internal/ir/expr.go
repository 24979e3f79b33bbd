package ir

import (
	"kdart/internal/source"
)

// ExprKind enumerates expression kinds.
type ExprKind uint8

const (
	// ExprConst is a literal constant.
	ExprConst ExprKind = iota
	// ExprGetValue reads a local variable or parameter.
	ExprGetValue
	// ExprSetValue assigns a local variable or parameter.
	ExprSetValue
	// ExprGetProperty reads a property through its getter.
	ExprGetProperty
	// ExprSetProperty writes a property through its setter.
	ExprSetProperty
	// ExprGetField reads a backing field (inside accessors).
	ExprGetField
	// ExprSetField writes a backing field (inside accessors and constructors).
	ExprSetField
	// ExprCall calls a function or method.
	ExprCall
	// ExprNew invokes a constructor.
	ExprNew
	// ExprTypeOp is a type test or cast.
	ExprTypeOp
	// ExprWhen is a when/if expression or statement.
	ExprWhen
	// ExprSubject reads the subject of the innermost enclosing when.
	ExprSubject
	// ExprBlock is a statement block with an optional result value.
	ExprBlock
	// ExprReturn returns from the function labelled Target.
	ExprReturn
	// ExprBreak leaves the loop labelled Loop.
	ExprBreak
	// ExprContinue continues the loop labelled Loop.
	ExprContinue
	// ExprThrow throws a value.
	ExprThrow
	// ExprTry is try/catch/finally.
	ExprTry
	// ExprLambda is a function literal.
	ExprLambda
	// ExprStringConcat is a string template.
	ExprStringConcat
	// ExprListLit is a list literal or vararg array.
	ExprListLit
	// ExprBinary is an intrinsic binary operator on builtin types.
	ExprBinary
	// ExprUnary is an intrinsic unary operator on builtin types.
	ExprUnary
	// ExprElvis is `left ?: right`.
	ExprElvis
	// ExprNotNull is `value!!`.
	ExprNotNull
	// ExprThis is the dispatch receiver of the enclosing class.
	ExprThis
	// ExprGetObject reads an object declaration's singleton.
	ExprGetObject
	// ExprGetEnumEntry reads an enum entry.
	ExprGetEnumEntry
)

// String returns a human-readable name for the expression kind.
func (k ExprKind) String() string {
	switch k {
	case ExprConst:
		return "Const"
	case ExprGetValue:
		return "GetValue"
	case ExprSetValue:
		return "SetValue"
	case ExprGetProperty:
		return "GetProperty"
	case ExprSetProperty:
		return "SetProperty"
	case ExprGetField:
		return "GetField"
	case ExprSetField:
		return "SetField"
	case ExprCall:
		return "Call"
	case ExprNew:
		return "New"
	case ExprTypeOp:
		return "TypeOp"
	case ExprWhen:
		return "When"
	case ExprSubject:
		return "Subject"
	case ExprBlock:
		return "Block"
	case ExprReturn:
		return "Return"
	case ExprBreak:
		return "Break"
	case ExprContinue:
		return "Continue"
	case ExprThrow:
		return "Throw"
	case ExprTry:
		return "Try"
	case ExprLambda:
		return "Lambda"
	case ExprStringConcat:
		return "StringConcat"
	case ExprListLit:
		return "ListLit"
	case ExprBinary:
		return "Binary"
	case ExprUnary:
		return "Unary"
	case ExprElvis:
		return "Elvis"
	case ExprNotNull:
		return "NotNull"
	case ExprThis:
		return "This"
	case ExprGetObject:
		return "GetObject"
	case ExprGetEnumEntry:
		return "GetEnumEntry"
	default:
		return "Unknown"
	}
}

// Expr is a typed expression.
type Expr struct {
	Kind ExprKind
	Type Type
	Span source.Span
	Data ExprData
}

// ExprData is the interface for expression-specific data.
type ExprData interface {
	exprData()
}

// ConstKind enumerates literal kinds.
type ConstKind uint8

const (
	ConstInt ConstKind = iota
	ConstDouble
	ConstString
	ConstBool
	ConstNull
	ConstChar
)

// ConstData holds a literal value.
type ConstData struct {
	Kind  ConstKind
	Int   int64
	Float float64
	Str   string
	Bool  bool
}

// GetValueData reads a local or parameter.
type GetValueData struct {
	Name string
}

// SetValueData assigns a local or parameter.
type SetValueData struct {
	Name  string
	Value *Expr
}

// GetPropertyData reads a property. Receiver is nil for top-level properties.
// Super is set for `super<T>.prop`.
type GetPropertyData struct {
	Receiver    *Expr
	ExtReceiver *Expr
	Property    Symbol
	Super       *Type
	Safe        bool
}

// SetPropertyData writes a property.
type SetPropertyData struct {
	Receiver    *Expr
	ExtReceiver *Expr
	Property    Symbol
	Value       *Expr
}

// GetFieldData reads a property's backing field.
type GetFieldData struct {
	Receiver *Expr
	Property Symbol
}

// SetFieldData writes a property's backing field.
type SetFieldData struct {
	Receiver *Expr
	Property Symbol
	Value    *Expr
}

// CallData calls Callee. Args are in declaration order of the callee's
// parameters; a nil entry means the argument was omitted.
type CallData struct {
	Callee      Symbol
	Receiver    *Expr
	ExtReceiver *Expr
	Args        []*Expr
	TypeArgs    []Type
	// Super is set for `super.m()` (the superclass) and `super<I>.m()`.
	Super *Type
	// Safe marks `receiver?.m()`.
	Safe bool
	// SourceOrder lists indices into Args in the order the arguments were
	// written; nil means parameter order.
	SourceOrder []int
}

// NewData invokes a constructor of Type.
type NewData struct {
	Type        Type
	Ctor        Symbol
	Args        []*Expr
	SourceOrder []int
}

// TypeOp enumerates type operators.
type TypeOp uint8

const (
	OpIs TypeOp = iota
	OpNotIs
	OpCast
	OpSafeCast
	// OpImplicitCast is a smart cast inserted by the front end.
	OpImplicitCast
)

// TypeOpData applies a type operator.
type TypeOpData struct {
	Op    TypeOp
	Value *Expr
	Type  Type
}

// WhenBranch is one arm; a nil Cond is the else arm.
type WhenBranch struct {
	Cond   *Expr
	Result *Expr
}

// WhenData is a when (or if) chain. Conditions read the subject through ExprSubject.
type WhenData struct {
	Subject  *Expr
	Branches []WhenBranch
}

// SubjectData reads the enclosing when subject.
type SubjectData struct{}

// BlockData is a block whose value is Result (nil for Unit).
type BlockData struct {
	Stmts  []*Stmt
	Result *Expr
}

// ReturnData returns Value from the function whose ID is Target.
type ReturnData struct {
	Target string
	Value  *Expr
}

// BreakData leaves the loop labelled Loop.
type BreakData struct {
	Loop string
}

// ContinueData continues the loop labelled Loop.
type ContinueData struct {
	Loop string
}

// ThrowData throws Value.
type ThrowData struct {
	Value *Expr
}

// Catch is one catch clause.
type Catch struct {
	Name string
	Type Type
	Body *Expr
}

// TryData is try/catch/finally; Body and catch bodies may produce values.
type TryData struct {
	Body    *Expr
	Catches []Catch
	Finally *Block
}

// LambdaData is a function literal.
type LambdaData struct {
	Fn *Func
}

// StringConcatData is a string template.
type StringConcatData struct {
	Parts []*Expr
}

// ListLitData is a list literal.
type ListLitData struct {
	Elem  Type
	Elems []*Expr
}

// BinaryOp enumerates intrinsic binary operators.
type BinaryOp uint8

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinRem
	BinEq
	BinNotEq
	BinIdentity
	BinNotIdentity
	BinLess
	BinLessEq
	BinGreater
	BinGreaterEq
	BinAnd
	BinOr
)

func (op BinaryOp) String() string {
	switch op {
	case BinAdd:
		return "+"
	case BinSub:
		return "-"
	case BinMul:
		return "*"
	case BinDiv:
		return "/"
	case BinRem:
		return "%"
	case BinEq:
		return "=="
	case BinNotEq:
		return "!="
	case BinIdentity:
		return "==="
	case BinNotIdentity:
		return "!=="
	case BinLess:
		return "<"
	case BinLessEq:
		return "<="
	case BinGreater:
		return ">"
	case BinGreaterEq:
		return ">="
	case BinAnd:
		return "&&"
	case BinOr:
		return "||"
	default:
		return "?"
	}
}

// BinaryData applies an intrinsic binary operator.
type BinaryData struct {
	Op    BinaryOp
	Left  *Expr
	Right *Expr
}

// UnaryOp enumerates intrinsic unary operators.
type UnaryOp uint8

const (
	UnNot UnaryOp = iota
	UnNeg
)

// UnaryData applies an intrinsic unary operator.
type UnaryData struct {
	Op      UnaryOp
	Operand *Expr
}

// ElvisData is `Left ?: Right`.
type ElvisData struct {
	Left  *Expr
	Right *Expr
}

// NotNullData is `Value!!`.
type NotNullData struct {
	Value *Expr
}

// ThisData is the receiver of class Class; an empty Class is the
// extension receiver inside an extension body.
type ThisData struct {
	Class string
}

// GetObjectData reads an object singleton.
type GetObjectData struct {
	Object Type
}

// GetEnumEntryData reads entry Entry of Enum.
type GetEnumEntryData struct {
	Enum  Type
	Entry string
}

func (ConstData) exprData()        {}
func (GetValueData) exprData()     {}
func (SetValueData) exprData()     {}
func (GetPropertyData) exprData()  {}
func (SetPropertyData) exprData()  {}
func (GetFieldData) exprData()     {}
func (SetFieldData) exprData()     {}
func (CallData) exprData()         {}
func (NewData) exprData()          {}
func (TypeOpData) exprData()       {}
func (WhenData) exprData()         {}
func (SubjectData) exprData()      {}
func (BlockData) exprData()        {}
func (ReturnData) exprData()       {}
func (BreakData) exprData()        {}
func (ContinueData) exprData()     {}
func (ThrowData) exprData()        {}
func (TryData) exprData()          {}
func (LambdaData) exprData()       {}
func (StringConcatData) exprData() {}
func (ListLitData) exprData()      {}
func (BinaryData) exprData()       {}
func (UnaryData) exprData()        {}
func (ElvisData) exprData()        {}
func (NotNullData) exprData()      {}
func (ThisData) exprData()         {}
func (GetObjectData) exprData()    {}
func (GetEnumEntryData) exprData() {}

// IsConst reports whether e is a literal constant.
func (e *Expr) IsConst() bool {
	return e != nil && e.Kind == ExprConst
}
