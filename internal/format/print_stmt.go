package format

import "kdart/internal/dart"

// printStmt renders s starting on the current line and ends the line.
func (p *printer) printStmt(s *dart.Stmt) {
	switch x := s.Data.(type) {
	case dart.BlockData:
		p.printBlock(x.Stmts)
	case dart.ExprStmtData:
		p.printExpr(x.Expr, precLowest)
		p.w.WriteString(";")
	case dart.VarDeclData:
		p.printVarDecl(x)
		p.w.WriteString(";")
	case dart.IfData:
		p.printIf(x)
	case dart.WhileData:
		p.w.WriteString("while (")
		p.printExpr(x.Cond, precLowest)
		p.w.WriteString(") ")
		p.printBlock(blockOf(x.Body))
	case dart.DoWhileData:
		p.w.WriteString("do ")
		p.printBlock(blockOf(x.Body))
		p.w.WriteString(" while (")
		p.printExpr(x.Cond, precLowest)
		p.w.WriteString(");")
	case dart.ForData:
		p.w.WriteString("for (")
		if x.Init != nil {
			if v, ok := x.Init.Data.(dart.VarDeclData); ok {
				p.printVarDecl(v)
			} else if es, ok := x.Init.Data.(dart.ExprStmtData); ok {
				p.printExpr(es.Expr, precLowest)
			}
		}
		p.w.WriteString("; ")
		if x.Cond != nil {
			p.printExpr(x.Cond, precLowest)
		}
		p.w.WriteString(";")
		if len(x.Updates) > 0 {
			p.w.WriteString(" ")
			p.commaList(len(x.Updates), func(i int) { p.printExpr(x.Updates[i], precLowest) })
		}
		p.w.WriteString(") ")
		p.printBlock(blockOf(x.Body))
	case dart.ForInData:
		p.w.WriteString("for (")
		p.printVarDecl(dart.VarDeclData{Name: x.Name, Type: x.Type, Final: x.Final})
		p.w.WriteString(" in ")
		p.printExpr(x.Iterable, precLowest)
		p.w.WriteString(") ")
		p.printBlock(blockOf(x.Body))
	case dart.ReturnData:
		p.w.WriteString("return")
		if x.Value != nil {
			p.w.WriteString(" ")
			p.printExpr(x.Value, precLowest)
		}
		p.w.WriteString(";")
	case dart.BreakData:
		p.jump("break", x.Label)
	case dart.ContinueData:
		p.jump("continue", x.Label)
	case dart.LabeledData:
		p.w.WriteString(x.Label + ": ")
		p.printStmt(x.Body)
		return
	case dart.TryData:
		p.printTry(x)
	case dart.RethrowData:
		p.w.WriteString("rethrow;")
	case dart.LocalFunctionData:
		p.printFunction(*x.Fn)
	case dart.EmptyData:
		p.w.WriteString(";")
	}
	p.w.Newline()
}

func (p *printer) jump(keyword, label string) {
	p.w.WriteString(keyword)
	if label != "" {
		p.w.WriteString(" " + label)
	}
	p.w.WriteString(";")
}

// blockOf returns the statements of s as a block body.
func blockOf(s *dart.Stmt) []*dart.Stmt {
	if s == nil {
		return nil
	}
	if b, ok := s.Data.(dart.BlockData); ok {
		return b.Stmts
	}
	return []*dart.Stmt{s}
}

// printBlock renders `{ ... }` without ending the line.
func (p *printer) printBlock(stmts []*dart.Stmt) {
	if len(stmts) == 0 {
		p.w.WriteString("{}")
		return
	}
	p.w.WriteString("{")
	p.w.Newline()
	p.w.IndentPush()
	for _, s := range stmts {
		p.printStmt(s)
	}
	p.w.IndentPop()
	p.w.WriteString("}")
}

func (p *printer) printIf(x dart.IfData) {
	p.w.WriteString("if (")
	p.printExpr(x.Cond, precLowest)
	p.w.WriteString(") ")
	p.printBlock(blockOf(x.Then))
	if x.Else == nil {
		return
	}
	p.w.WriteString(" else ")
	if elif, ok := x.Else.Data.(dart.IfData); ok {
		p.printIf(elif)
		return
	}
	p.printBlock(blockOf(x.Else))
}

func (p *printer) printTry(x dart.TryData) {
	p.w.WriteString("try ")
	p.printBlock(blockOf(x.Body))
	for _, c := range x.Catches {
		p.w.WriteString(" ")
		if c.On != nil {
			p.w.WriteString("on ")
			p.printType(*c.On)
			if c.Exception != "" {
				p.w.WriteString(" ")
			}
		}
		exc := c.Exception
		if exc == "" && c.On == nil {
			exc = "_"
		}
		if exc != "" {
			p.w.WriteString("catch (" + exc)
			if c.Stack != "" {
				p.w.WriteString(", " + c.Stack)
			}
			p.w.WriteString(")")
		}
		p.w.WriteString(" ")
		p.printBlock(blockOf(c.Body))
	}
	if x.Finally != nil {
		p.w.WriteString(" finally ")
		p.printBlock(blockOf(x.Finally))
	}
}

func (p *printer) printVarDecl(x dart.VarDeclData) {
	p.printStorage(x.Late, x.Final, x.Const, x.Type)
	p.w.WriteString(x.Name)
	if x.Init != nil {
		p.w.WriteString(" = ")
		p.printExpr(x.Init, precAssign)
	}
}

// printStorage renders the modifiers and type of a variable, with a
// trailing space.
func (p *printer) printStorage(late, final, isConst bool, t *dart.Type) {
	if late {
		p.w.WriteString("late ")
	}
	switch {
	case isConst:
		p.w.WriteString("const ")
	case final:
		p.w.WriteString("final ")
	case t == nil:
		p.w.WriteString("var ")
	}
	if t != nil {
		p.printType(*t)
		p.w.WriteString(" ")
	}
}
