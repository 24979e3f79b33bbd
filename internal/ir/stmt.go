package ir

import (
	"kdart/internal/source"
)

// StmtKind enumerates statement kinds.
type StmtKind uint8

const (
	// StmtExpr evaluates an expression for its effect.
	StmtExpr StmtKind = iota
	// StmtVar declares a local variable.
	StmtVar
	// StmtWhile is a while loop.
	StmtWhile
	// StmtDoWhile is a do-while loop.
	StmtDoWhile
	// StmtForRange iterates an integer progression.
	StmtForRange
	// StmtForEach iterates an Iterable.
	StmtForEach
	// StmtBlock is a nested block.
	StmtBlock
	// StmtLocalFunc declares a local function.
	StmtLocalFunc
)

func (k StmtKind) String() string {
	switch k {
	case StmtExpr:
		return "Expr"
	case StmtVar:
		return "Var"
	case StmtWhile:
		return "While"
	case StmtDoWhile:
		return "DoWhile"
	case StmtForRange:
		return "ForRange"
	case StmtForEach:
		return "ForEach"
	case StmtBlock:
		return "Block"
	case StmtLocalFunc:
		return "LocalFunc"
	default:
		return "Unknown"
	}
}

// Stmt is a statement.
type Stmt struct {
	Kind StmtKind
	Span source.Span
	Data StmtData
}

// StmtData is the interface for statement-specific data.
type StmtData interface {
	stmtData()
}

// Block is a statement list.
type Block struct {
	Stmts []*Stmt
}

// ExprStmtData wraps an expression statement.
type ExprStmtData struct {
	Expr *Expr
}

// VarData declares a local.
type VarData struct {
	Name     string
	Type     Type
	Init     *Expr
	Mutable  bool
	Lateinit bool
}

// WhileData is a while loop labelled Label.
type WhileData struct {
	Label string
	Cond  *Expr
	Body  *Block
}

// DoWhileData is a do-while loop labelled Label.
type DoWhileData struct {
	Label string
	Body  *Block
	Cond  *Expr
}

// RangeKind enumerates integer progression shapes.
type RangeKind uint8

const (
	// RangeInclusive is `from..to`.
	RangeInclusive RangeKind = iota
	// RangeUntil is `from until to`.
	RangeUntil
	// RangeDownTo is `from downTo to`.
	RangeDownTo
)

// ForRangeData is `for (Var in From..To step Step)`.
type ForRangeData struct {
	Label   string
	Var     string
	VarType Type
	From    *Expr
	To      *Expr
	Step    *Expr
	Range   RangeKind
	Body    *Block
}

// ForEachData is `for (Var in Iterable)`.
type ForEachData struct {
	Label    string
	Var      string
	VarType  Type
	Iterable *Expr
	Body     *Block
}

// BlockStmtData is a nested block.
type BlockStmtData struct {
	Block *Block
}

// LocalFuncData declares a local function.
type LocalFuncData struct {
	Fn *Func
}

func (ExprStmtData) stmtData()  {}
func (VarData) stmtData()       {}
func (WhileData) stmtData()     {}
func (DoWhileData) stmtData()   {}
func (ForRangeData) stmtData()  {}
func (ForEachData) stmtData()   {}
func (BlockStmtData) stmtData() {}
func (LocalFuncData) stmtData() {}
