package lower

import (
	"kdart/internal/dart"
	"kdart/internal/ir"
	"kdart/internal/names"
)

// loop lowers one loop statement. build receives the lowered body wrapper
// and returns the bare Dart loop.
func (l *lowerer) loop(label string, build func(body func(*ir.Block) *dart.Stmt) *dart.Stmt) []*dart.Stmt {
	scope := &loopScope{label: label, depth: len(l.fns)}
	l.loops = append(l.loops, scope)
	body := func(b *ir.Block) *dart.Stmt {
		return dart.Block(l.continueTarget(scope, l.block(b))...)
	}
	st := build(body)
	l.loops = l.loops[:len(l.loops)-1]
	if scope.dartLabel != "" {
		st = &dart.Stmt{Kind: dart.StmtLabeled, Data: dart.LabeledData{Label: scope.dartLabel, Body: st}}
	}
	return []*dart.Stmt{l.breakTarget(scope, st)}
}

func (l *lowerer) whileLoop(d ir.WhileData) []*dart.Stmt {
	return l.loop(d.Label, func(body func(*ir.Block) *dart.Stmt) *dart.Stmt {
		cond := l.expr(d.Cond)
		return &dart.Stmt{Kind: dart.StmtWhile, Data: dart.WhileData{Cond: cond, Body: body(d.Body)}}
	})
}

func (l *lowerer) doWhileLoop(d ir.DoWhileData) []*dart.Stmt {
	return l.loop(d.Label, func(body func(*ir.Block) *dart.Stmt) *dart.Stmt {
		b := body(d.Body)
		return &dart.Stmt{Kind: dart.StmtDoWhile, Data: dart.DoWhileData{Body: b, Cond: l.expr(d.Cond)}}
	})
}

// rangeLoop lowers an integer progression to a counting for loop. The
// bound and step are evaluated once, before the loop. The start is hoisted
// with them whenever a later operand is, so the operands keep source order.
func (l *lowerer) rangeLoop(d ir.ForRangeData) []*dart.Stmt {
	var pre []*dart.Stmt
	hoist := func(e *ir.Expr, kind string) *dart.Expr {
		v := l.expr(e)
		if trivialExpr(e) {
			return v
		}
		name := names.Temp(kind, l.ctx.Next()).String()
		pre = append(pre, dart.Final(name, v))
		return dart.Ident(name)
	}
	var from *dart.Expr
	if trivialExpr(d.To) && (d.Step == nil || trivialExpr(d.Step)) {
		from = l.expr(d.From)
	} else {
		from = hoist(d.From, "start")
	}
	to := hoist(d.To, "end")
	var step *dart.Expr
	if d.Step != nil {
		step = hoist(d.Step, "step")
	}
	v := names.Local(d.Var).String()
	i := dart.Ident(v)

	var cond *dart.Expr
	switch d.Range {
	case ir.RangeUntil:
		cond = dart.Bin(dart.OpLess, i, to)
	case ir.RangeDownTo:
		cond = dart.Bin(dart.OpGreaterEq, i, to)
	default:
		cond = dart.Bin(dart.OpLessEq, i, to)
	}
	var update *dart.Expr
	switch {
	case step == nil && d.Range == ir.RangeDownTo:
		update = &dart.Expr{Kind: dart.ExprPostfix, Data: dart.PostfixData{Op: "--", Operand: dart.Ident(v)}}
	case step == nil:
		update = &dart.Expr{Kind: dart.ExprPostfix, Data: dart.PostfixData{Op: "++", Operand: dart.Ident(v)}}
	case d.Range == ir.RangeDownTo:
		update = &dart.Expr{Kind: dart.ExprAssignment, Data: dart.AssignmentData{Target: dart.Ident(v), Op: "-=", Value: step}}
	default:
		update = &dart.Expr{Kind: dart.ExprAssignment, Data: dart.AssignmentData{Target: dart.Ident(v), Op: "+=", Value: step}}
	}
	loop := l.loop(d.Label, func(body func(*ir.Block) *dart.Stmt) *dart.Stmt {
		return &dart.Stmt{Kind: dart.StmtFor, Data: dart.ForData{
			Init:    &dart.Stmt{Kind: dart.StmtVarDecl, Data: dart.VarDeclData{Name: v, Type: l.typ(d.VarType).Ptr(), Init: from}},
			Cond:    cond,
			Updates: []*dart.Expr{update},
			Body:    body(d.Body),
		}}
	})
	if len(pre) == 0 {
		return loop
	}
	return []*dart.Stmt{dart.Block(append(pre, loop...)...)}
}

// forEachLoop lowers iteration over an Iterable; maps iterate their entries.
func (l *lowerer) forEachLoop(d ir.ForEachData) []*dart.Stmt {
	iter := l.expr(d.Iterable)
	if d.Iterable.Type.Is(ir.FQMap) || d.Iterable.Type.Is(ir.FQMutableMap) {
		iter = dart.Prop(iter, "entries")
	}
	return l.loop(d.Label, func(body func(*ir.Block) *dart.Stmt) *dart.Stmt {
		return &dart.Stmt{Kind: dart.StmtForIn, Data: dart.ForInData{
			Name:     names.Local(d.Var).String(),
			Type:     l.typ(d.VarType).Ptr(),
			Final:    true,
			Iterable: iter,
			Body:     body(d.Body),
		}}
	})
}
