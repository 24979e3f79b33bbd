package dart

// Constructors for the nodes lowering builds most often.

// Ident builds an identifier expression.
func Ident(name string) *Expr {
	return &Expr{Kind: ExprIdentifier, Data: IdentifierData{Name: name}}
}

// Int builds an integer literal.
func Int(v int64) *Expr {
	return &Expr{Kind: ExprLiteral, Data: LiteralData{Kind: LitInt, Int: v}}
}

// Double builds a double literal.
func Double(v float64) *Expr {
	return &Expr{Kind: ExprLiteral, Data: LiteralData{Kind: LitDouble, Double: v}}
}

// Str builds a string literal.
func Str(s string) *Expr {
	return &Expr{Kind: ExprLiteral, Data: LiteralData{Kind: LitString, Str: s}}
}

// Bool builds a boolean literal.
func Bool(b bool) *Expr {
	return &Expr{Kind: ExprLiteral, Data: LiteralData{Kind: LitBool, Bool: b}}
}

// Null builds the null literal.
func Null() *Expr {
	return &Expr{Kind: ExprLiteral, Data: LiteralData{Kind: LitNull}}
}

// This builds `this`.
func This() *Expr {
	return &Expr{Kind: ExprThis, Data: ThisData{}}
}

// Super builds `super`.
func Super() *Expr {
	return &Expr{Kind: ExprSuper, Data: SuperData{}}
}

// Prop builds `target.name`.
func Prop(target *Expr, name string) *Expr {
	return &Expr{Kind: ExprPropertyAccess, Data: PropertyAccessData{Target: target, Name: name}}
}

// Pos wraps values as positional arguments.
func Pos(values ...*Expr) []Arg {
	out := make([]Arg, len(values))
	for i, v := range values {
		out[i] = Arg{Value: v}
	}
	return out
}

// Call builds `target.name(args)`, or `name(args)` when target is nil.
func Call(target *Expr, name string, args ...Arg) *Expr {
	return &Expr{Kind: ExprMethodInvocation, Data: MethodInvocationData{Target: target, Name: name, Args: args}}
}

// Invoke builds `fn(args)` for an arbitrary callee.
func Invoke(fn *Expr, args ...Arg) *Expr {
	return &Expr{Kind: ExprFunctionInvocation, Data: FunctionInvocationData{Func: fn, Args: args}}
}

// New builds `T.ctor(args)`.
func New(t Type, ctor string, args ...Arg) *Expr {
	return &Expr{Kind: ExprInstanceCreation, Data: InstanceCreationData{Type: t, Ctor: ctor, Args: args}}
}

// ConstNew builds `const T.ctor(args)`.
func ConstNew(t Type, ctor string, args ...Arg) *Expr {
	return &Expr{Kind: ExprInstanceCreation, Data: InstanceCreationData{Type: t, Ctor: ctor, Args: args, Const: true}}
}

// Bin builds `left op right`.
func Bin(op BinaryOp, left, right *Expr) *Expr {
	return &Expr{Kind: ExprBinary, Data: BinaryData{Op: op, Left: left, Right: right}}
}

// Not builds `!e`.
func Not(e *Expr) *Expr {
	return &Expr{Kind: ExprPrefix, Data: PrefixData{Op: "!", Operand: e}}
}

// Neg builds `-e`.
func Neg(e *Expr) *Expr {
	return &Expr{Kind: ExprPrefix, Data: PrefixData{Op: "-", Operand: e}}
}

// NotNull builds `e!`.
func NotNull(e *Expr) *Expr {
	return &Expr{Kind: ExprPostfix, Data: PostfixData{Op: "!", Operand: e}}
}

// Assign builds `target = value`.
func Assign(target, value *Expr) *Expr {
	return &Expr{Kind: ExprAssignment, Data: AssignmentData{Target: target, Op: "=", Value: value}}
}

// Cond builds `cond ? then : els`.
func Cond(cond, then, els *Expr) *Expr {
	return &Expr{Kind: ExprConditional, Data: ConditionalData{Cond: cond, Then: then, Else: els}}
}

// Is builds `value is T`.
func Is(value *Expr, t Type) *Expr {
	return &Expr{Kind: ExprIs, Data: IsData{Value: value, Type: t}}
}

// As builds `value as T`.
func As(value *Expr, t Type) *Expr {
	return &Expr{Kind: ExprAs, Data: AsData{Value: value, Type: t}}
}

// Throw builds `throw value`.
func Throw(value *Expr) *Expr {
	return &Expr{Kind: ExprThrow, Data: ThrowData{Value: value}}
}

// Lambda builds a function literal with a block body.
func Lambda(params Params, stmts ...*Stmt) *Expr {
	return &Expr{Kind: ExprFunction, Data: FunctionData{Params: params, Body: Body{Kind: BodyBlock, Block: stmts}}}
}

// Block builds a block statement.
func Block(stmts ...*Stmt) *Stmt {
	return &Stmt{Kind: StmtBlock, Data: BlockData{Stmts: stmts}}
}

// ExprStmt builds `e;`.
func ExprStmt(e *Expr) *Stmt {
	return &Stmt{Kind: StmtExpr, Data: ExprStmtData{Expr: e}}
}

// Return builds `return value;`; value may be nil.
func Return(value *Expr) *Stmt {
	return &Stmt{Kind: StmtReturn, Data: ReturnData{Value: value}}
}

// If builds an if statement; els may be nil.
func If(cond *Expr, then, els *Stmt) *Stmt {
	return &Stmt{Kind: StmtIf, Data: IfData{Cond: cond, Then: then, Else: els}}
}

// Final builds `final name = init;`.
func Final(name string, init *Expr) *Stmt {
	return &Stmt{Kind: StmtVarDecl, Data: VarDeclData{Name: name, Init: init, Final: true}}
}

// Rethrow builds `rethrow;`.
func Rethrow() *Stmt {
	return &Stmt{Kind: StmtRethrow, Data: RethrowData{}}
}

// BlockBody wraps statements as a block body.
func BlockBody(stmts ...*Stmt) Body {
	return Body{Kind: BodyBlock, Block: stmts}
}

// ExprBody builds `=> e;`.
func ExprBody(e *Expr) Body {
	return Body{Kind: BodyExpr, Expr: e}
}

// Stmts returns the statements of s, unwrapping one block level.
func Stmts(s *Stmt) []*Stmt {
	if s == nil {
		return nil
	}
	if b, ok := s.Data.(BlockData); ok {
		return b.Stmts
	}
	return []*Stmt{s}
}
