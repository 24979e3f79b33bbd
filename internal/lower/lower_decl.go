package lower

import (
	"kdart/internal/dart"
	"kdart/internal/ir"
	"kdart/internal/names"
)

func (l *lowerer) funcSymbol(fn *ir.Func) ir.Symbol {
	return fn.Symbol(l.ctx.Unit.Library, l.ctx.Unit.Path)
}

func (l *lowerer) propSymbol(p *ir.Property) ir.Symbol {
	return p.Symbol(l.ctx.Unit.Library, l.ctx.Unit.Path)
}

// lowerBody lowers parameters and body of one function inside its own
// function scope. The result starts with the default prologue and is
// wrapped as a non-local return target when needed.
func (l *lowerer) lowerBody(id string, ret ir.Type, ps []*ir.Param, annots []ir.Annotation, body *ir.Block, fields map[string]names.Ident) (loweredParams, []*dart.Stmt) {
	l.pushFn(id, ret)
	defer l.popFn()
	lp := l.lowerParams(ps, annots, fields)
	stmts := append(lp.prologue, l.block(body)...)
	return lp, l.wrapReturnTarget(id, ret, stmts)
}

// initExpr lowers an initializer outside of any declared function.
func (l *lowerer) initExpr(e *ir.Expr, t ir.Type) *dart.Expr {
	if e == nil {
		return nil
	}
	l.pushFn("", t)
	defer l.popFn()
	return l.expr(e)
}

// lowerFunction lowers a top-level or local function named name.
func (l *lowerer) lowerFunction(fn *ir.Func, name string) dart.FunctionDeclData {
	data := dart.FunctionDeclData{
		Name:       name,
		ReturnType: l.retType(fn.Return),
		TypeParams: l.typeParams(fn.TypeParams),
	}
	lp, body := l.lowerBody(fn.ID, fn.Return, fn.Params, fn.Annotations, fn.Body, nil)
	data.Params = lp.params
	if fn.Flags.Has(ir.FlagExternal) || fn.Body == nil {
		data.External = true
		return data
	}
	data.Body = dart.BlockBody(body...)
	return data
}

func (l *lowerer) lowerTopFunc(fn *ir.Func) *dart.Decl {
	sym := l.funcSymbol(fn)
	name := l.ctx.MemberName(&sym).String()
	l.ctx.Claim("", name, "function "+names.Signature(fn.FQName, nil, sym.ParamTypes()), fn.Span)
	return &dart.Decl{Kind: dart.DeclFunction, Data: l.lowerFunction(fn, name)}
}

func isEquals(fn *ir.Func) bool {
	return fn.Name == "equals" && len(fn.Params) == 1 && fn.Receiver == nil && fn.Return.Is(ir.FQBoolean)
}

func isHashCode(fn *ir.Func) bool {
	return fn.Name == "hashCode" && len(fn.Params) == 0 && fn.Receiver == nil
}

// lowerMethod lowers a member or extension function.
func (l *lowerer) lowerMethod(fn *ir.Func) *dart.Decl {
	sym := l.funcSymbol(fn)
	m := dart.MethodData{
		Name:       l.ctx.MemberName(&sym).String(),
		ReturnType: l.retType(fn.Return),
		TypeParams: l.typeParams(fn.TypeParams),
		External:   fn.Flags.Has(ir.FlagExternal),
		Abstract:   fn.IsAbstract(),
	}
	switch {
	case isEquals(fn):
		m.Kind, m.Name = dart.MethodOperator, "=="
	case isHashCode(fn):
		m.Kind, m.Name = dart.MethodGetter, "hashCode"
	case fn.Flags.Has(ir.FlagOperator):
		if tok, ok := names.Operator(fn.Name, len(fn.Params)); ok {
			m.Kind, m.Name = dart.MethodOperator, tok
		}
	}
	lp, body := l.lowerBody(fn.ID, fn.Return, fn.Params, fn.Annotations, fn.Body, nil)
	m.Params = lp.params
	if m.Kind == dart.MethodOperator && m.Name == "==" && len(m.Params.Positional) == 1 {
		m.Params.Positional[0].Type = dart.Named("Object").Ptr()
	}
	if m.Kind == dart.MethodGetter {
		m.Params = dart.Params{}
	}
	if !m.Abstract && !m.External && fn.Body != nil {
		m.Body = dart.BlockBody(body...)
	}
	d := &dart.Decl{Kind: dart.DeclMethod, Data: m}
	if fn.Flags.Has(ir.FlagOverride) {
		d.Annotations = []string{"override"}
	}
	return d
}

// accessor lowers the getter (or setter) of p. A missing custom accessor
// reads or writes the backing field. member selects method declarations
// over top-level functions.
func (l *lowerer) accessor(p *ir.Property, setter, member bool) *dart.Decl {
	sym := l.propSymbol(p)
	name := l.ctx.MemberName(&sym).String()
	backing := names.BackingField(p.Name).String()
	var storage *dart.Expr
	if member {
		storage = dart.Prop(dart.This(), backing)
	} else {
		storage = dart.Ident(backing)
	}
	var params dart.Params
	var body []*dart.Stmt
	ret := l.retType(p.Type)
	switch {
	case !setter && p.Getter != nil:
		_, body = l.lowerBody(p.Getter.ID, p.Type, nil, nil, p.Getter.Body, nil)
	case !setter:
		body = []*dart.Stmt{dart.Return(storage)}
	case p.Setter != nil:
		var lp loweredParams
		lp, body = l.lowerBody(p.Setter.ID, ir.ClassType(ir.FQUnit), p.Setter.Params, nil, p.Setter.Body, nil)
		params = lp.params
		ret = nil
	default:
		v := &dart.Param{Name: "value", Type: l.typ(p.Type).Ptr()}
		params.Positional = []*dart.Param{v}
		body = []*dart.Stmt{dart.ExprStmt(dart.Assign(storage, dart.Ident("value")))}
		ret = nil
	}
	abstract := p.Modality == ir.ModAbstract && p.Getter == nil && p.Setter == nil
	var d *dart.Decl
	if member {
		m := dart.MethodData{Name: name, Kind: dart.MethodGetter, ReturnType: ret, Params: params, Abstract: abstract}
		if setter {
			m.Kind = dart.MethodSetter
		}
		if !abstract {
			m.Body = dart.BlockBody(body...)
		}
		d = &dart.Decl{Kind: dart.DeclMethod, Data: m}
	} else {
		d = &dart.Decl{Kind: dart.DeclFunction, Data: dart.FunctionDeclData{
			Name:       name,
			ReturnType: ret,
			Params:     params,
			Body:       dart.BlockBody(body...),
			Getter:     !setter,
			Setter:     setter,
		}}
	}
	if p.Flags.Has(ir.FlagOverride) {
		d.Annotations = []string{"override"}
	}
	return d
}

func (l *lowerer) lowerTopProperty(p *ir.Property) {
	mutable := p.Flags.Has(ir.FlagMutable)
	if p.Receiver != nil {
		l.extensionMember(*p.Receiver, l.accessor(p, false, true), p.Span)
		if mutable {
			l.extensionMember(*p.Receiver, l.accessor(p, true, true), p.Span)
		}
		return
	}
	sym := l.propSymbol(p)
	name := l.ctx.MemberName(&sym).String()
	l.ctx.Claim("", name, "property "+p.FQName, p.Span)
	if p.Getter == nil && p.Setter == nil {
		l.emit(&dart.Decl{Kind: dart.DeclVariables, Data: l.variable(p, name)})
		return
	}
	if p.BackingField {
		backing := l.variable(p, names.BackingField(p.Name).String())
		backing.Final = backing.Final && p.Setter == nil
		l.emit(&dart.Decl{Kind: dart.DeclVariables, Data: backing})
	}
	l.emit(l.accessor(p, false, false))
	if mutable {
		l.emit(l.accessor(p, true, false))
	}
}

// variable lowers the storage of p named name.
func (l *lowerer) variable(p *ir.Property, name string) dart.VariablesData {
	v := dart.VariablesData{
		Name:  name,
		Type:  l.typ(p.Type).Ptr(),
		Init:  l.initExpr(p.Init, p.Type),
		Final: !p.Flags.Has(ir.FlagMutable),
		Late:  p.Flags.Has(ir.FlagLateinit),
	}
	if p.Flags.Has(ir.FlagConst) {
		v.Const, v.Final = true, false
	}
	return v
}
