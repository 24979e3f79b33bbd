package lower

import (
	"kdart/internal/dart"
	"kdart/internal/ir"
	"kdart/internal/names"
	"kdart/internal/source"
)

// receiver lowers a dispatch receiver. A nil result is the implicit `this`
// of a method call.
func (l *lowerer) receiver(e *ir.Expr) *dart.Expr {
	if e == nil {
		return nil
	}
	if e.Kind == ir.ExprThis && l.thisName == "" {
		return nil
	}
	return l.expr(e)
}

// isDynamic reports whether e is statically dynamic in the output, which
// rules out implicit extension resolution.
func (l *lowerer) isDynamic(e *ir.Expr) bool {
	if e == nil {
		return false
	}
	if e.Type.Kind == ir.TypeDynamic {
		return true
	}
	if d, ok := e.Data.(ir.GetValueData); ok {
		for i := len(l.fns) - 1; i >= 0; i-- {
			if l.fns[i].dynamic[d.Name] {
				return true
			}
		}
	}
	return false
}

// extensionTarget renders the receiver of an extension member access.
// Dynamic receivers use the explicit `Container(x)` form.
func (l *lowerer) extensionTarget(sym *ir.Symbol, recv *ir.Expr) *dart.Expr {
	if l.isDynamic(recv) {
		container := names.ExtensionContainer(*sym.Receiver, sym.File).String()
		l.ctx.RequireImport(sym.Library, container)
		return dart.Invoke(dart.Ident(container), dart.Pos(l.expr(recv))...)
	}
	return l.receiver(recv)
}

// ownerType is the type of the class declaring sym.
func (l *lowerer) ownerType(sym *ir.Symbol) ir.Type {
	t := ir.ClassType(sym.Owner)
	t.Library = sym.Library
	if c := l.ctx.Index.Class(sym.Owner); c != nil {
		t.RelName = c.RelName
	}
	return t
}

// isStaticConst reports whether sym is a const property of a class or
// object, emitted as a static const member.
func isStaticConst(sym *ir.Symbol) bool {
	return sym.Flags.Has(ir.FlagConst) && sym.Owner != "" && sym.Receiver == nil
}

func (l *lowerer) getProperty(e *ir.Expr, d ir.GetPropertyData) *dart.Expr {
	sym := &d.Property
	if sym.Kind == ir.SymEnumValues {
		return dart.Prop(dart.Ident(l.classRef(l.ownerType(sym))), "values")
	}
	if sym.IsBuiltin() && !sym.IsExtension() {
		return l.builtinProperty(d)
	}
	name := l.ctx.MemberName(sym).String()
	switch {
	case d.Super != nil:
		if target := l.superTarget(*d.Super, sym, e.Span); target != nil {
			return dart.Prop(target, name)
		}
		return dart.Prop(dart.This(), l.class.superDelegate(l, *d.Super, sym, e.Span))
	case isStaticConst(sym):
		return dart.Prop(dart.Ident(l.classRef(l.ownerType(sym))), name)
	case sym.IsExtension():
		return l.access(l.extensionTarget(sym, d.ExtReceiver), name, d.Safe)
	case d.Receiver == nil:
		l.ctx.RequireImport(sym.Library, name)
		return dart.Ident(name)
	}
	return l.access(l.expr(d.Receiver), name, d.Safe)
}

func (l *lowerer) setProperty(e *ir.Expr, d ir.SetPropertyData) *dart.Expr {
	sym := &d.Property
	name := l.ctx.MemberName(sym).String()
	var target *dart.Expr
	switch {
	case sym.IsExtension():
		target = l.access(l.extensionTarget(sym, d.ExtReceiver), name, false)
	case d.Receiver == nil:
		l.ctx.RequireImport(sym.Library, name)
		target = dart.Ident(name)
	default:
		target = dart.Prop(l.expr(d.Receiver), name)
	}
	return dart.Assign(target, l.expr(d.Value))
}

// access builds `target.name`, or `name` for an implicit receiver.
func (l *lowerer) access(target *dart.Expr, name string, safe bool) *dart.Expr {
	if target == nil {
		return dart.Prop(l.thisExpr(), name)
	}
	return &dart.Expr{Kind: dart.ExprPropertyAccess, Data: dart.PropertyAccessData{Target: target, Name: name, NullAware: safe}}
}

// fieldAccess reads the storage of property sym: its backing field when it
// has custom accessors, the property itself otherwise.
func (l *lowerer) fieldAccess(recv *ir.Expr, sym ir.Symbol) *dart.Expr {
	name := l.fieldName(&sym)
	if recv == nil {
		if sym.Owner == "" {
			return dart.Ident(name)
		}
		return dart.Prop(l.thisExpr(), name)
	}
	return dart.Prop(l.expr(recv), name)
}

func (l *lowerer) fieldName(sym *ir.Symbol) string {
	if p := l.findProperty(sym); p != nil && (p.Getter != nil || p.Setter != nil) {
		return names.BackingField(p.Name).String()
	}
	return l.ctx.MemberName(sym).String()
}

// findProperty returns the declaration of property sym if it is part of
// the program.
func (l *lowerer) findProperty(sym *ir.Symbol) *ir.Property {
	var decls []ir.Decl
	if sym.Owner == "" {
		decls = l.ctx.Unit.Decls
	} else if c := l.ctx.Index.Class(sym.Owner); c != nil {
		decls = c.Members
	}
	for _, d := range decls {
		if p, ok := d.Data.(*ir.Property); ok && p.Name == sym.Name && (p.Receiver == nil) == (sym.Receiver == nil) {
			return p
		}
	}
	return nil
}

// superTarget renders the receiver of `super.m` or `super<I>.m`. Interface
// defaults are reached through a private delegate on the current class,
// which is why the result may be the implicit receiver.
func (l *lowerer) superTarget(super ir.Type, sym *ir.Symbol, span source.Span) *dart.Expr {
	if l.class == nil {
		l.fail(malformed(span, "super access outside of a class"))
		return dart.Super()
	}
	if l.class.isSuperclass(super) {
		return dart.Super()
	}
	return nil
}

func (l *lowerer) call(e *ir.Expr, d ir.CallData) *dart.Expr {
	sym := &d.Callee
	if a, ok := ir.FindAnnotation(sym.Annotations, ir.AnnDartConstructor); ok {
		args := l.callArgs(sym.Params, sym.Annotations, d.Args, d.SourceOrder, e.Span)
		return dart.New(l.typ(e.Type.WithNullable(false)), a.Str, args...)
	}
	switch sym.Kind {
	case ir.SymEnumValueOf:
		enum := l.classRef(l.ownerType(sym))
		helper := names.EnumValueOf(enum).String()
		l.ctx.RequireImport(sym.Library, helper)
		return dart.Call(nil, helper, l.callArgs(sym.Params, nil, d.Args, d.SourceOrder, e.Span)...)
	case ir.SymEnumValues:
		return dart.Prop(dart.Ident(l.classRef(l.ownerType(sym))), "values")
	}
	if sym.IsBuiltin() && !sym.IsExtension() {
		return l.builtinCall(e, d)
	}
	if d.Super != nil {
		return l.superCall(e, d)
	}

	var target *dart.Expr
	switch {
	case sym.IsExtension():
		target = l.extensionTarget(sym, d.ExtReceiver)
	case d.Receiver != nil:
		target = l.receiver(d.Receiver)
	}
	// Evaluate the receiver before the arguments.
	args := l.callArgs(sym.Params, sym.Annotations, d.Args, d.SourceOrder, e.Span)
	name := l.ctx.MemberName(sym).String()

	if !sym.IsExtension() && d.Receiver != nil && !d.Safe {
		switch {
		case sym.Name == "equals" && len(args) == 1:
			return dart.Bin(dart.OpEq, l.orThis(target), args[0].Value)
		case sym.Name == "hashCode" && len(args) == 0:
			return dart.Prop(l.orThis(target), "hashCode")
		}
	}
	if sym.Flags.Has(ir.FlagOperator) && (d.Receiver != nil || d.ExtReceiver != nil) {
		if op := l.operatorCall(sym, l.orThis(target), args, d.Safe); op != nil {
			return op
		}
		if d.Safe && sym.Name != "invoke" {
			if _, ok := names.Operator(sym.Name, len(sym.Params)); ok {
				l.fail(unsupported(e.Span, "null-safe call of operator %s", sym.Name))
				return dart.Null()
			}
		}
	}
	if sym.Owner == "" && !sym.IsExtension() {
		l.ctx.RequireImport(sym.Library, name)
	}
	return &dart.Expr{Kind: dart.ExprMethodInvocation, Data: dart.MethodInvocationData{
		Target:    target,
		Name:      name,
		TypeArgs:  l.typeArgs(d.TypeArgs),
		Args:      args,
		NullAware: d.Safe && target != nil,
	}}
}

func (l *lowerer) orThis(target *dart.Expr) *dart.Expr {
	if target == nil {
		return l.thisExpr()
	}
	return target
}

// operatorCall renders a call of an operator function with Dart operator
// syntax, or returns nil when the call keeps method syntax.
func (l *lowerer) operatorCall(sym *ir.Symbol, target *dart.Expr, args []dart.Arg, safe bool) *dart.Expr {
	if sym.Name == "invoke" {
		if safe {
			return nil
		}
		return dart.Invoke(target, args...)
	}
	tok, ok := names.Operator(sym.Name, len(sym.Params))
	if !ok || len(args) != len(sym.Params) {
		return nil
	}
	if safe {
		if tok != "[]" {
			return nil
		}
		return &dart.Expr{Kind: dart.ExprIndex, Data: dart.IndexData{Target: target, Index: args[0].Value, NullAware: true}}
	}
	switch tok {
	case "[]":
		return &dart.Expr{Kind: dart.ExprIndex, Data: dart.IndexData{Target: target, Index: args[0].Value}}
	case "[]=":
		idx := &dart.Expr{Kind: dart.ExprIndex, Data: dart.IndexData{Target: target, Index: args[0].Value}}
		return dart.Assign(idx, args[1].Value)
	}
	if len(args) == 0 {
		return dart.Neg(target)
	}
	return dart.Bin(dart.BinaryOp(tok), target, args[0].Value)
}

// superCall lowers `super.m()` and `super<I>.m()`.
func (l *lowerer) superCall(e *ir.Expr, d ir.CallData) *dart.Expr {
	sym := &d.Callee
	target := l.superTarget(*d.Super, sym, e.Span)
	args := l.callArgs(sym.Params, sym.Annotations, d.Args, d.SourceOrder, e.Span)
	if target != nil {
		return dart.Call(target, l.ctx.MemberName(sym).String(), args...)
	}
	delegate := l.class.superDelegate(l, *d.Super, sym, e.Span)
	return dart.Call(nil, delegate, args...)
}

func (l *lowerer) newExpr(e *ir.Expr, d ir.NewData) *dart.Expr {
	if c := l.ctx.Index.Class(d.Type.FQName); c != nil && (c.Kind == ir.ClassObject || c.Kind == ir.ClassEnum || c.Kind == ir.ClassInterface) {
		l.fail(malformed(e.Span, "cannot instantiate %s %s", c.Kind, c.FQName))
		return dart.Null()
	}
	t := l.typ(d.Type.WithNullable(false))
	args := l.callArgs(d.Ctor.Params, d.Ctor.Annotations, d.Args, d.SourceOrder, e.Span)
	return dart.New(t, names.Ctor(&d.Ctor), args...)
}
