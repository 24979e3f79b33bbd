package dart

// StmtKind enumerates Dart statement kinds.
type StmtKind uint8

const (
	StmtBlock StmtKind = iota
	StmtExpr
	StmtVarDecl
	StmtIf
	StmtWhile
	StmtDoWhile
	StmtFor
	StmtForIn
	StmtReturn
	StmtBreak
	StmtContinue
	StmtLabeled
	StmtTry
	StmtRethrow
	StmtLocalFunction
	StmtEmpty
)

func (k StmtKind) String() string {
	switch k {
	case StmtBlock:
		return "Block"
	case StmtExpr:
		return "Expr"
	case StmtVarDecl:
		return "VarDecl"
	case StmtIf:
		return "If"
	case StmtWhile:
		return "While"
	case StmtDoWhile:
		return "DoWhile"
	case StmtFor:
		return "For"
	case StmtForIn:
		return "ForIn"
	case StmtReturn:
		return "Return"
	case StmtBreak:
		return "Break"
	case StmtContinue:
		return "Continue"
	case StmtLabeled:
		return "Labeled"
	case StmtTry:
		return "Try"
	case StmtRethrow:
		return "Rethrow"
	case StmtLocalFunction:
		return "LocalFunction"
	case StmtEmpty:
		return "Empty"
	default:
		return "Unknown"
	}
}

// Stmt is a Dart statement.
type Stmt struct {
	Kind StmtKind
	Data StmtData
}

// StmtData is the interface for statement payloads.
type StmtData interface {
	stmtData()
}

// BlockData is `{ stmts }`.
type BlockData struct {
	Stmts []*Stmt
}

// ExprStmtData is `expr;`.
type ExprStmtData struct {
	Expr *Expr
}

// VarDeclData declares one local. A nil Type with Final renders `final x`,
// with neither Final nor Type it renders `var x`.
type VarDeclData struct {
	Name  string
	Type  *Type
	Init  *Expr
	Final bool
	Late  bool
	Const bool
}

// IfData is `if (cond) then else els`.
type IfData struct {
	Cond *Expr
	Then *Stmt
	Else *Stmt
}

// WhileData is `while (cond) body`.
type WhileData struct {
	Cond *Expr
	Body *Stmt
}

// DoWhileData is `do body while (cond);`.
type DoWhileData struct {
	Body *Stmt
	Cond *Expr
}

// ForData is `for (init; cond; updates) body`.
type ForData struct {
	Init    *Stmt // StmtVarDecl or nil
	Cond    *Expr
	Updates []*Expr
	Body    *Stmt
}

// ForInData is `for (final T name in iterable) body`.
type ForInData struct {
	Name     string
	Type     *Type
	Final    bool
	Iterable *Expr
	Body     *Stmt
}

// ReturnData is `return value;`.
type ReturnData struct {
	Value *Expr
}

// BreakData is `break label;`.
type BreakData struct {
	Label string
}

// ContinueData is `continue label;`.
type ContinueData struct {
	Label string
}

// LabeledData is `label: body`.
type LabeledData struct {
	Label string
	Body  *Stmt
}

// CatchClause is `on T catch (e, st) { ... }`; a nil On catches everything.
type CatchClause struct {
	On        *Type
	Exception string
	Stack     string
	Body      *Stmt
}

// TryData is try/on/catch/finally.
type TryData struct {
	Body    *Stmt
	Catches []CatchClause
	Finally *Stmt
}

// RethrowData is `rethrow;`.
type RethrowData struct{}

// LocalFunctionData declares a nested named function.
type LocalFunctionData struct {
	Fn *FunctionDeclData
}

// EmptyData is `;`.
type EmptyData struct{}

func (BlockData) stmtData()         {}
func (ExprStmtData) stmtData()      {}
func (VarDeclData) stmtData()       {}
func (IfData) stmtData()            {}
func (WhileData) stmtData()         {}
func (DoWhileData) stmtData()       {}
func (ForData) stmtData()           {}
func (ForInData) stmtData()         {}
func (ReturnData) stmtData()        {}
func (BreakData) stmtData()         {}
func (ContinueData) stmtData()      {}
func (LabeledData) stmtData()       {}
func (TryData) stmtData()           {}
func (RethrowData) stmtData()       {}
func (LocalFunctionData) stmtData() {}
func (EmptyData) stmtData()         {}

// BodyKind selects the shape of a function body.
type BodyKind uint8

const (
	// BodyEmpty renders `;` (abstract and external members).
	BodyEmpty BodyKind = iota
	// BodyBlock renders `{ ... }`.
	BodyBlock
	// BodyExpr renders `=> expr;`.
	BodyExpr
)

// Body is a function, method or constructor body.
type Body struct {
	Kind  BodyKind
	Block []*Stmt
	Expr  *Expr
}
