package lower

import (
	"kdart/internal/dart"
	"kdart/internal/ir"
	"kdart/internal/names"
)

// expr lowers an expression in value position.
func (l *lowerer) expr(e *ir.Expr) *dart.Expr {
	if e == nil {
		return dart.Null()
	}
	if l.failed() {
		return dart.Null()
	}
	switch d := e.Data.(type) {
	case ir.ConstData:
		return constant(d)
	case ir.GetValueData:
		return dart.Ident(names.Local(d.Name).String())
	case ir.SetValueData:
		return dart.Assign(dart.Ident(names.Local(d.Name).String()), l.expr(d.Value))
	case ir.GetPropertyData:
		return l.getProperty(e, d)
	case ir.SetPropertyData:
		return l.setProperty(e, d)
	case ir.GetFieldData:
		return l.fieldAccess(d.Receiver, d.Property)
	case ir.SetFieldData:
		return dart.Assign(l.fieldAccess(d.Receiver, d.Property), l.expr(d.Value))
	case ir.CallData:
		return l.call(e, d)
	case ir.NewData:
		return l.newExpr(e, d)
	case ir.TypeOpData:
		return l.typeOp(d)
	case ir.WhenData:
		return l.whenExpr(e, d)
	case ir.SubjectData:
		if len(l.subjects) == 0 {
			l.fail(malformed(e.Span, "when subject read outside of a when"))
			return dart.Null()
		}
		return l.subjects[len(l.subjects)-1]
	case ir.BlockData:
		if len(d.Stmts) == 0 {
			if d.Result == nil || isUnitValue(d.Result) {
				return dart.Null()
			}
			return l.expr(d.Result)
		}
		return l.closure(e.Type, func() []*dart.Stmt { return l.sink(e, dart.Return) })
	case ir.ReturnData:
		return l.returnJump(d, e.Span)
	case ir.BreakData:
		return l.loopJumpExpr(JumpBreak, d.Loop, e.Span)
	case ir.ContinueData:
		return l.loopJumpExpr(JumpContinue, d.Loop, e.Span)
	case ir.ThrowData:
		return dart.Throw(l.expr(d.Value))
	case ir.TryData:
		return l.closure(e.Type, func() []*dart.Stmt { return l.tryStmt(d, dart.Return) })
	case ir.LambdaData:
		return l.lambda(d.Fn)
	case ir.StringConcatData:
		parts := make([]*dart.Expr, len(d.Parts))
		for i, p := range d.Parts {
			parts[i] = l.expr(p)
		}
		return &dart.Expr{Kind: dart.ExprStringInterpolation, Data: dart.StringInterpolationData{Parts: parts}}
	case ir.ListLitData:
		elems := make([]*dart.Expr, len(d.Elems))
		for i, el := range d.Elems {
			elems[i] = l.expr(el)
		}
		return &dart.Expr{Kind: dart.ExprListLiteral, Data: dart.ListLiteralData{Elem: l.typ(d.Elem).Ptr(), Elems: elems}}
	case ir.BinaryData:
		return l.binary(d)
	case ir.UnaryData:
		if d.Op == ir.UnNot {
			return dart.Not(l.expr(d.Operand))
		}
		return dart.Neg(l.expr(d.Operand))
	case ir.ElvisData:
		return dart.Bin(dart.OpIfNull, l.expr(d.Left), l.expr(d.Right))
	case ir.NotNullData:
		return dart.NotNull(l.expr(d.Value))
	case ir.ThisData:
		return l.thisExpr()
	case ir.GetObjectData:
		if d.Object.IsUnit() {
			return dart.Null()
		}
		return dart.Prop(dart.Ident(l.classRef(d.Object)), names.ObjectInstance.String())
	case ir.GetEnumEntryData:
		return dart.Prop(dart.Ident(l.classRef(d.Enum)), names.Local(d.Entry).String())
	default:
		l.fail(unsupported(e.Span, "expression kind %s", e.Kind))
		return dart.Null()
	}
}

func constant(c ir.ConstData) *dart.Expr {
	switch c.Kind {
	case ir.ConstInt:
		return dart.Int(c.Int)
	case ir.ConstDouble:
		return dart.Double(c.Float)
	case ir.ConstString:
		return dart.Str(c.Str)
	case ir.ConstBool:
		return dart.Bool(c.Bool)
	case ir.ConstChar:
		return dart.Str(string(rune(c.Int)))
	default:
		return dart.Null()
	}
}

func (l *lowerer) typeOp(d ir.TypeOpData) *dart.Expr {
	v := l.expr(d.Value)
	t := l.typ(d.Type)
	switch d.Op {
	case ir.OpIs:
		return dart.Is(v, t)
	case ir.OpNotIs:
		return &dart.Expr{Kind: dart.ExprIs, Data: dart.IsData{Value: v, Type: t, Not: true}}
	case ir.OpCast:
		return dart.As(v, t)
	case ir.OpSafeCast:
		// (Object? $v) => $v is T ? $v : null, applied to the operand.
		x := names.Temp("v", l.ctx.Next()).String()
		fn := &dart.Expr{Kind: dart.ExprFunction, Data: dart.FunctionData{
			Params: dart.Params{Positional: []*dart.Param{{Name: x, Type: dart.Named("Object").WithNullable(true).Ptr()}}},
			Body:   dart.ExprBody(dart.Cond(dart.Is(dart.Ident(x), t.WithNullable(false)), dart.Ident(x), dart.Null())),
		}}
		return dart.Invoke(fn, dart.Pos(v)...)
	default:
		from := d.Value.Type
		switch {
		case from.IsInteger() && d.Type.IsInteger():
			return v
		case from.Nullable && !d.Type.Nullable && from.Kind == d.Type.Kind && from.FQName == d.Type.FQName:
			return dart.NotNull(v)
		}
		return dart.As(v, t)
	}
}

var binaryOps = map[ir.BinaryOp]dart.BinaryOp{
	ir.BinAdd:       dart.OpAdd,
	ir.BinSub:       dart.OpSub,
	ir.BinMul:       dart.OpMul,
	ir.BinDiv:       dart.OpDiv,
	ir.BinEq:        dart.OpEq,
	ir.BinNotEq:     dart.OpNotEq,
	ir.BinLess:      dart.OpLess,
	ir.BinLessEq:    dart.OpLessEq,
	ir.BinGreater:   dart.OpGreater,
	ir.BinGreaterEq: dart.OpGreaterEq,
	ir.BinAnd:       dart.OpAnd,
	ir.BinOr:        dart.OpOr,
}

func (l *lowerer) binary(d ir.BinaryData) *dart.Expr {
	left, right := l.expr(d.Left), l.expr(d.Right)
	switch d.Op {
	case ir.BinDiv:
		if d.Left.Type.IsInteger() && d.Right.Type.IsInteger() {
			return dart.Bin(dart.OpIntDiv, left, right)
		}
	case ir.BinRem:
		// Dart's % is Euclidean; remainder() keeps the dividend's sign.
		return dart.Call(left, "remainder", dart.Pos(right)...)
	case ir.BinIdentity:
		return dart.Call(nil, "identical", dart.Pos(left, right)...)
	case ir.BinNotIdentity:
		return dart.Not(dart.Call(nil, "identical", dart.Pos(left, right)...))
	case ir.BinAdd:
		if d.Left.Type.Is(ir.FQString) && !d.Left.Type.Nullable && !(d.Right.Type.Is(ir.FQString) && !d.Right.Type.Nullable) {
			right = dart.Call(right, "toString")
		}
	}
	op, ok := binaryOps[d.Op]
	if !ok {
		l.fail(unsupported(d.Left.Span, "binary operator %s", d.Op))
		return dart.Null()
	}
	return dart.Bin(op, left, right)
}

// whenExpr lowers a when in value position: a conditional chain when every
// branch is an expression, otherwise an invoked closure.
func (l *lowerer) whenExpr(e *ir.Expr, d ir.WhenData) *dart.Expr {
	if needsStmts(e) {
		return l.closure(e.Type, func() []*dart.Stmt { return l.whenStmt(d, dart.Return) })
	}
	if d.Subject != nil {
		l.pushSubject(d.Subject)
		defer l.popSubject()
	}
	type arm struct{ cond, value *dart.Expr }
	var arms []arm
	var otherwise *dart.Expr
	for _, br := range d.Branches {
		if br.Cond == nil || isTrueConst(br.Cond) {
			otherwise = l.expr(br.Result)
			break
		}
		arms = append(arms, arm{cond: l.expr(br.Cond), value: l.expr(br.Result)})
	}
	if otherwise == nil {
		if e.Type.IsUnit() {
			otherwise = dart.Null()
		} else {
			otherwise = dart.Throw(dart.New(dart.Named("StateError"), "", dart.Pos(dart.Str("unreachable"))...))
		}
	}
	out := otherwise
	for i := len(arms) - 1; i >= 0; i-- {
		out = dart.Cond(arms[i].cond, arms[i].value, out)
	}
	return out
}

// lambda lowers a function literal. A receiver becomes a leading $this
// parameter.
func (l *lowerer) lambda(fn *ir.Func) *dart.Expr {
	l.pushFn(fn.ID, fn.Return)
	defer l.popFn()
	ps := l.lowerParams(fn.Params, nil, nil)
	var body []*dart.Stmt
	lowerBody := func() {
		body = append(ps.prologue, l.block(fn.Body)...)
	}
	if fn.Receiver != nil {
		recv := &dart.Param{Name: names.EnumThis.String(), Type: l.typ(*fn.Receiver).Ptr()}
		ps.params.Positional = append([]*dart.Param{recv}, ps.params.Positional...)
		l.withThis(recv.Name, lowerBody)
	} else {
		lowerBody()
	}
	body = l.wrapReturnTarget(fn.ID, fn.Return, body)
	return &dart.Expr{Kind: dart.ExprFunction, Data: dart.FunctionData{
		TypeParams: l.typeParams(fn.TypeParams),
		Params:     ps.params,
		Body:       dart.BlockBody(body...),
	}}
}
