package lower

import (
	"kdart/internal/dart"
	"kdart/internal/ir"
	"kdart/internal/names"
	"kdart/internal/source"
)

// JumpKind enumerates jump signals.
type JumpKind uint8

const (
	JumpReturn JumpKind = iota
	JumpBreak
	JumpContinue
	jumpKinds
)

// signalClass is the private class thrown for a non-local jump of kind k.
func signalClass(k JumpKind) string {
	switch k {
	case JumpReturn:
		return names.PrivateGen("Return").String()
	case JumpBreak:
		return names.PrivateGen("Break").String()
	default:
		return names.PrivateGen("Continue").String()
	}
}

// Jump describes one lowered non-local jump site.
type Jump struct {
	Kind   JumpKind
	Target string
	Tag    int
	Value  *ir.Expr
	Const  bool
}

// loopScope is an enclosing loop.
type loopScope struct {
	label string
	// depth is the number of function boundaries enclosing the loop.
	depth int
	// dartLabel is set once a direct labelled jump needs it.
	dartLabel string
	// tags holds the signal tag per jump kind; 0 means no signal targets
	// this loop.
	tags [jumpKinds]int
}

// tag returns the signal tag of kind for this loop, allocating it on first use.
func (s *loopScope) tag(kind JumpKind, ctx *Context) int {
	if s.tags[kind] == 0 {
		s.tags[kind] = ctx.newJumpTag(kind)
	}
	return s.tags[kind]
}

// signal builds `throw [const] _$Kind(...)` for j.
func (l *lowerer) signal(j Jump) *dart.Expr {
	cls := dart.Named(signalClass(j.Kind))
	tag := dart.Int(int64(j.Tag))
	var args []dart.Arg
	if j.Kind == JumpReturn {
		value := dart.Null()
		if j.Value != nil {
			value = l.expr(j.Value)
		}
		args = dart.Pos(value, tag)
	} else {
		args = dart.Pos(tag)
	}
	if j.Const {
		return dart.Throw(dart.ConstNew(cls, "", args...))
	}
	return dart.Throw(dart.New(cls, "", args...))
}

// returnJump lowers `return@target value` as an expression. Direct returns
// are only possible in statement position, see returnStmt.
func (l *lowerer) returnJump(d ir.ReturnData, span source.Span) *dart.Expr {
	if !l.hasFn(d.Target) {
		l.fail(malformed(span, "return targets %q outside of the enclosing functions", d.Target))
		return dart.Null()
	}
	if d.Value != nil && isUnitValue(d.Value) {
		d.Value = nil
	}
	j := Jump{
		Kind:   JumpReturn,
		Target: d.Target,
		Tag:    l.ctx.jumpTag(JumpReturn, d.Target),
		Value:  d.Value,
		Const:  d.Value == nil || isConstValue(d.Value),
	}
	return l.signal(j)
}

// returnStmt lowers a return in statement position.
func (l *lowerer) returnStmt(d ir.ReturnData, span source.Span) []*dart.Stmt {
	fn := l.currentFn()
	if fn == nil || fn.id != d.Target {
		return []*dart.Stmt{dart.ExprStmt(l.returnJump(d, span))}
	}
	if d.Value == nil || isUnitValue(d.Value) {
		return []*dart.Stmt{dart.Return(fn.result)}
	}
	if fn.ret.IsUnit() {
		// The value is evaluated for its effects only.
		if d.Value.IsConst() {
			return []*dart.Stmt{dart.Return(nil)}
		}
		return append(l.exprStmt(d.Value), dart.Return(nil))
	}
	return l.sink(d.Value, func(v *dart.Expr) *dart.Stmt { return dart.Return(v) })
}

// loopJump lowers break/continue of the loop labelled label.
func (l *lowerer) loopJump(kind JumpKind, label string, span source.Span) []*dart.Stmt {
	loop, inner := l.findLoop(label)
	if loop == nil {
		l.fail(malformed(span, "jump targets unknown loop %q", label))
		return nil
	}
	if loop.depth == len(l.fns) {
		target := ""
		if !inner {
			if loop.dartLabel == "" {
				loop.dartLabel = loopLabel(loop.label, l.ctx)
			}
			target = loop.dartLabel
		}
		if kind == JumpBreak {
			return []*dart.Stmt{{Kind: dart.StmtBreak, Data: dart.BreakData{Label: target}}}
		}
		return []*dart.Stmt{{Kind: dart.StmtContinue, Data: dart.ContinueData{Label: target}}}
	}
	j := Jump{Kind: kind, Target: label, Tag: loop.tag(kind, l.ctx), Const: true}
	return []*dart.Stmt{dart.ExprStmt(l.signal(j))}
}

// loopJumpExpr lowers break/continue in expression position, which is
// always a signal.
func (l *lowerer) loopJumpExpr(kind JumpKind, label string, span source.Span) *dart.Expr {
	loop, _ := l.findLoop(label)
	if loop == nil {
		l.fail(malformed(span, "jump targets unknown loop %q", label))
		return dart.Null()
	}
	return l.signal(Jump{Kind: kind, Target: label, Tag: loop.tag(kind, l.ctx), Const: true})
}

// findLoop returns the loop labelled label and whether it is the innermost loop
// of the current function.
func (l *lowerer) findLoop(label string) (*loopScope, bool) {
	for i := len(l.loops) - 1; i >= 0; i-- {
		if l.loops[i].label == label {
			return l.loops[i], i == len(l.loops)-1
		}
	}
	return nil, false
}

func (l *lowerer) hasFn(id string) bool {
	for _, fn := range l.fns {
		if fn.id == id {
			return true
		}
	}
	return false
}

func loopLabel(label string, ctx *Context) string {
	if isIdentifier(label) && !names.IsReserved(label) {
		return label
	}
	return names.Temp("label", ctx.Next()).String()
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// catchJump builds `on _$Kind catch (jump) { ...; }` for tag.
func catchJump(kind JumpKind, tag int, onMatch []*dart.Stmt) dart.CatchClause {
	on := dart.Named(signalClass(kind))
	matches := dart.Bin(dart.OpEq, dart.Prop(dart.Ident("jump"), "target"), dart.Int(int64(tag)))
	var body []*dart.Stmt
	if len(onMatch) == 0 {
		body = []*dart.Stmt{dart.If(dart.Not(matches), dart.Block(dart.Rethrow()), nil)}
	} else {
		body = []*dart.Stmt{dart.If(matches, dart.Block(onMatch...), nil), dart.Rethrow()}
	}
	return dart.CatchClause{On: on.Ptr(), Exception: "jump", Body: dart.Block(body...)}
}

func tryCatch(body []*dart.Stmt, clause dart.CatchClause) *dart.Stmt {
	return &dart.Stmt{Kind: dart.StmtTry, Data: dart.TryData{Body: dart.Block(body...), Catches: []dart.CatchClause{clause}}}
}

// wrapReturnTarget wraps the body of function id when some nested closure
// returns from it non-locally.
func (l *lowerer) wrapReturnTarget(id string, ret ir.Type, body []*dart.Stmt) []*dart.Stmt {
	tag, ok := l.ctx.lookupTag(JumpReturn, id)
	if !ok {
		return body
	}
	var onMatch *dart.Stmt
	if ret.IsUnit() {
		onMatch = dart.Return(nil)
	} else {
		onMatch = dart.Return(dart.As(dart.Prop(dart.Ident("jump"), "value"), l.typ(ret)))
	}
	return []*dart.Stmt{tryCatch(body, catchJump(JumpReturn, tag, []*dart.Stmt{onMatch}))}
}

// continueTarget wraps the body of loop when a nested closure continues it
// non-locally.
func (l *lowerer) continueTarget(loop *loopScope, body []*dart.Stmt) []*dart.Stmt {
	tag := loop.tags[JumpContinue]
	if tag == 0 {
		return body
	}
	return []*dart.Stmt{tryCatch(body, catchJump(JumpContinue, tag, nil))}
}

// breakTarget wraps the whole loop when a nested closure breaks out of it.
func (l *lowerer) breakTarget(scope *loopScope, loop *dart.Stmt) *dart.Stmt {
	tag := scope.tags[JumpBreak]
	if tag == 0 {
		return loop
	}
	return tryCatch([]*dart.Stmt{loop}, catchJump(JumpBreak, tag, nil))
}

// isUnitValue reports whether e is the Unit singleton.
func isUnitValue(e *ir.Expr) bool {
	return e.Kind == ir.ExprGetObject && e.Type.IsUnit()
}

// isConstValue reports whether e can travel inside a const signal.
func isConstValue(e *ir.Expr) bool {
	switch e.Kind {
	case ir.ExprConst:
		return true
	case ir.ExprGetEnumEntry:
		return true
	case ir.ExprUnary:
		d := e.Data.(ir.UnaryData)
		return d.Op == ir.UnNeg && d.Operand.IsConst()
	}
	return false
}

// emitSignals adds the jump signal classes the unit used.
func (l *lowerer) emitSignals() {
	for k := JumpKind(0); k < jumpKinds; k++ {
		if !l.ctx.signals[k] {
			continue
		}
		name := signalClass(k)
		target := &dart.Param{Name: "target", Field: true}
		ctor := dart.ConstructorData{Class: name, Const: true}
		members := []*dart.Decl{{Kind: dart.DeclConstructor, Data: ctor}}
		if k == JumpReturn {
			ctor.Params.Positional = []*dart.Param{{Name: "value", Field: true}, target}
			members = append(members, field("value", dart.Named("Object").WithNullable(true)))
		} else {
			ctor.Params.Positional = []*dart.Param{target}
		}
		members[0].Data = ctor
		members = append(members, field("target", dart.Named("int")))
		l.emit(&dart.Decl{Kind: dart.DeclClass, Data: dart.ClassData{Name: name, Members: members}})
	}
}

func field(name string, t dart.Type) *dart.Decl {
	return &dart.Decl{Kind: dart.DeclField, Data: dart.VariablesData{Name: name, Type: t.Ptr(), Final: true}}
}
