package lower

import (
	"kdart/internal/dart"
	"kdart/internal/ir"
	"kdart/internal/names"
)

func (l *lowerer) block(b *ir.Block) []*dart.Stmt {
	if b == nil {
		return nil
	}
	return l.stmts(b.Stmts)
}

func (l *lowerer) stmts(list []*ir.Stmt) []*dart.Stmt {
	var out []*dart.Stmt
	for _, s := range list {
		if l.failed() {
			return nil
		}
		out = append(out, l.stmt(s)...)
	}
	return out
}

func (l *lowerer) stmt(s *ir.Stmt) []*dart.Stmt {
	switch d := s.Data.(type) {
	case ir.ExprStmtData:
		return l.exprStmt(d.Expr)
	case ir.VarData:
		return l.varDecl(d)
	case ir.WhileData:
		return l.whileLoop(d)
	case ir.DoWhileData:
		return l.doWhileLoop(d)
	case ir.ForRangeData:
		return l.rangeLoop(d)
	case ir.ForEachData:
		return l.forEachLoop(d)
	case ir.BlockStmtData:
		return []*dart.Stmt{dart.Block(l.block(d.Block)...)}
	case ir.LocalFuncData:
		fn := l.lowerFunction(d.Fn, names.Local(d.Fn.Name).String())
		return []*dart.Stmt{{Kind: dart.StmtLocalFunction, Data: dart.LocalFunctionData{Fn: &fn}}}
	default:
		l.fail(unsupported(s.Span, "statement kind %s", s.Kind))
		return nil
	}
}

// exprStmt lowers e evaluated for its effects.
func (l *lowerer) exprStmt(e *ir.Expr) []*dart.Stmt {
	if e == nil {
		return nil
	}
	switch d := e.Data.(type) {
	case ir.ConstData, ir.GetValueData, ir.ThisData, ir.SubjectData, ir.LambdaData:
		return nil
	case ir.GetObjectData:
		if e.Type.IsUnit() {
			return nil
		}
	case ir.ReturnData:
		return l.returnStmt(d, e.Span)
	case ir.BreakData:
		return l.loopJump(JumpBreak, d.Loop, e.Span)
	case ir.ContinueData:
		return l.loopJump(JumpContinue, d.Loop, e.Span)
	case ir.WhenData:
		return l.whenStmt(d, nil)
	case ir.BlockData:
		inner := l.stmts(d.Stmts)
		inner = append(inner, l.exprStmt(d.Result)...)
		if len(inner) == 0 {
			return nil
		}
		return []*dart.Stmt{dart.Block(inner...)}
	case ir.TryData:
		return l.tryStmt(d, nil)
	}
	return []*dart.Stmt{dart.ExprStmt(l.expr(e))}
}

// sink lowers e so that on every path its value is passed to use. Jumps
// and throws end their path without a value.
func (l *lowerer) sink(e *ir.Expr, use func(*dart.Expr) *dart.Stmt) []*dart.Stmt {
	switch d := e.Data.(type) {
	case ir.WhenData:
		if needsStmts(e) {
			return l.whenStmt(d, use)
		}
	case ir.BlockData:
		if len(d.Stmts) > 0 {
			inner := l.stmts(d.Stmts)
			if d.Result != nil {
				inner = append(inner, l.sink(d.Result, use)...)
			}
			return []*dart.Stmt{dart.Block(inner...)}
		}
		if d.Result != nil {
			return l.sink(d.Result, use)
		}
	case ir.TryData:
		return l.tryStmt(d, use)
	case ir.ReturnData, ir.BreakData, ir.ContinueData, ir.ThrowData:
		return l.exprStmt(e)
	}
	return []*dart.Stmt{use(l.expr(e))}
}

// needsStmts reports whether e reads best as statements when its value is
// consumed: blocks with statements, try, and when chains containing them
// or jumps.
func needsStmts(e *ir.Expr) bool {
	if e == nil {
		return false
	}
	switch d := e.Data.(type) {
	case ir.BlockData:
		return len(d.Stmts) > 0 || needsStmts(d.Result)
	case ir.TryData:
		return true
	case ir.WhenData:
		if d.Subject != nil && !trivialExpr(d.Subject) {
			return true
		}
		for _, br := range d.Branches {
			if needsStmts(br.Result) || isJump(br.Result) || needsStmts(br.Cond) {
				return true
			}
		}
	}
	return false
}

func isJump(e *ir.Expr) bool {
	if e == nil {
		return false
	}
	switch e.Kind {
	case ir.ExprReturn, ir.ExprBreak, ir.ExprContinue:
		return true
	}
	return false
}

// trivialExpr reports whether e can be evaluated more than once.
func trivialExpr(e *ir.Expr) bool {
	switch e.Kind {
	case ir.ExprConst, ir.ExprGetValue, ir.ExprThis, ir.ExprGetObject, ir.ExprGetEnumEntry, ir.ExprSubject:
		return true
	}
	return false
}

func (l *lowerer) varDecl(d ir.VarData) []*dart.Stmt {
	decl := dart.VarDeclData{
		Name:  names.Local(d.Name).String(),
		Type:  l.typ(d.Type).Ptr(),
		Final: !d.Mutable,
		Late:  d.Lateinit,
	}
	if d.Init == nil || !needsStmts(d.Init) {
		if d.Init != nil {
			decl.Init = l.expr(d.Init)
		}
		return []*dart.Stmt{{Kind: dart.StmtVarDecl, Data: decl}}
	}
	out := []*dart.Stmt{{Kind: dart.StmtVarDecl, Data: decl}}
	return append(out, l.sink(d.Init, func(v *dart.Expr) *dart.Stmt {
		return dart.ExprStmt(dart.Assign(dart.Ident(decl.Name), v))
	})...)
}

// pushSubject binds the subject of a when. Non-trivial subjects get a
// final temporary, returned as a statement to emit first.
func (l *lowerer) pushSubject(subject *ir.Expr) *dart.Stmt {
	if trivialExpr(subject) {
		l.subjects = append(l.subjects, l.expr(subject))
		return nil
	}
	name := names.Subject(l.ctx.Next()).String()
	decl := dart.Final(name, l.expr(subject))
	l.subjects = append(l.subjects, dart.Ident(name))
	return decl
}

func (l *lowerer) popSubject() {
	l.subjects = l.subjects[:len(l.subjects)-1]
}

// whenStmt lowers a when chain to if/else if statements. A nil use
// discards branch values.
func (l *lowerer) whenStmt(d ir.WhenData, use func(*dart.Expr) *dart.Stmt) []*dart.Stmt {
	var out []*dart.Stmt
	if d.Subject != nil {
		if decl := l.pushSubject(d.Subject); decl != nil {
			out = append(out, decl)
		}
		defer l.popSubject()
	}
	branch := func(e *ir.Expr) *dart.Stmt {
		if use == nil {
			return dart.Block(l.exprStmt(e)...)
		}
		return dart.Block(l.sink(e, use)...)
	}
	var chain, tail *dart.Stmt
	link := func(s *dart.Stmt) {
		if chain == nil {
			chain = s
		} else {
			x := tail.Data.(dart.IfData)
			x.Else = s
			tail.Data = x
		}
		tail = s
	}
	for _, br := range d.Branches {
		if br.Cond == nil || isTrueConst(br.Cond) {
			body := branch(br.Result)
			if chain == nil {
				return append(out, body)
			}
			x := tail.Data.(dart.IfData)
			x.Else = body
			tail.Data = x
			return append(out, chain)
		}
		link(dart.If(l.expr(br.Cond), branch(br.Result), nil))
	}
	if chain != nil {
		out = append(out, chain)
	}
	return out
}

func isTrueConst(e *ir.Expr) bool {
	c, ok := e.Data.(ir.ConstData)
	return ok && c.Kind == ir.ConstBool && c.Bool
}

// tryStmt lowers try/catch/finally, passing produced values to use.
func (l *lowerer) tryStmt(d ir.TryData, use func(*dart.Expr) *dart.Stmt) []*dart.Stmt {
	lowerPart := func(e *ir.Expr) *dart.Stmt {
		if use == nil {
			return dart.Block(l.exprStmt(e)...)
		}
		return dart.Block(l.sink(e, use)...)
	}
	data := dart.TryData{Body: lowerPart(d.Body)}
	for _, c := range d.Catches {
		clause := dart.CatchClause{Exception: names.Local(c.Name).String(), Body: lowerPart(c.Body)}
		if !c.Type.Is(ir.FQThrowable) && !c.Type.Is(ir.FQAny) {
			clause.On = l.typ(c.Type.WithNullable(false)).Ptr()
		}
		data.Catches = append(data.Catches, clause)
	}
	if d.Finally != nil {
		data.Finally = dart.Block(l.block(d.Finally)...)
	}
	return []*dart.Stmt{{Kind: dart.StmtTry, Data: data}}
}

// closure lowers build inside a synthetic function boundary and invokes it
// in place. Jumps out of the closure become signals.
func (l *lowerer) closure(ret ir.Type, build func() []*dart.Stmt) *dart.Expr {
	l.pushFn("", ret)
	body := build()
	l.popFn()
	return dart.Invoke(dart.Lambda(dart.Params{}, body...))
}
