package lower

import (
	"kdart/internal/dart"
	"kdart/internal/ir"
	"kdart/internal/names"
)

// enumShape is what an enum needs beyond a plain Dart enum.
type enumShape struct {
	name string
	typ  dart.Type
	// overridable lists the members entries override, in declaration order.
	overridable []member
	base        string
	delegates   []string
}

func (s *enumShape) hasBodies() bool {
	return s.base != ""
}

func (s *enumShape) overrides(m member) bool {
	_, ok := findMember(s.overridable, m)
	return ok
}

func (l *lowerer) lowerEnum(c *ir.Class) {
	name := names.Class(c).String()
	l.ctx.Claim("", name, "enum "+c.FQName, c.Span)
	cs := l.newClassScope(c, name)
	saved := l.class
	l.class = cs
	defer func() { l.class = saved }()

	shape := l.enumShape(c, name)
	if l.failed() {
		return
	}
	data := dart.EnumData{Name: name}
	for _, s := range c.Supers {
		if s.Kind == ir.SuperInterface && !s.Type.Is(ir.FQAny) && !s.Type.Is(ir.FQComparable) {
			data.Implements = append(data.Implements, l.typ(s.Type.WithNullable(false)))
		}
	}
	primary := c.PrimaryCtor()
	for i, e := range c.Entries {
		v := dart.EnumValue{Name: names.Local(e.Name).String()}
		if primary != nil {
			l.pushFn("", ir.ClassType(ir.FQUnit))
			v.Args = l.callArgs(paramSigs(primary.Params), primary.Annotations, e.Args, nil, e.Span)
			l.popFn()
		} else if len(e.Args) > 0 {
			l.fail(malformed(e.Span, "enum entry %s passes arguments to no constructor", e.Name))
			return
		}
		if shape.hasBodies() {
			del := dart.Arg{Value: dart.New(dart.Named(shape.delegates[i]), "")}
			v.Args = append([]dart.Arg{del}, v.Args...)
		}
		data.Values = append(data.Values, v)
	}
	data.Members = l.enumMembers(c, cs, shape)
	if l.failed() {
		return
	}
	l.emit(&dart.Decl{Kind: dart.DeclEnum, Data: data})
	if shape.hasBodies() {
		l.emitEnumDelegates(c, shape)
	}
	l.emitValueOf(shape)
}

func paramSigs(ps []*ir.Param) []ir.ParamSig {
	out := make([]ir.ParamSig, len(ps))
	for i, p := range ps {
		out[i] = p.Sig()
	}
	return out
}

// enumShape validates the entry bodies of c and collects the members they
// override.
func (l *lowerer) enumShape(c *ir.Class, name string) *enumShape {
	shape := &enumShape{name: name, typ: dart.Named(name)}
	own := membersOf(c)
	bodies := false
	for _, e := range c.Entries {
		for _, m := range entryMembers(e) {
			bodies = true
			target, ok := findMember(own, m)
			if !ok {
				l.fail(unsupported(e.Span, "enum entry %s declares %s, which %s does not", e.Name, m.key, c.Name))
				return shape
			}
			if !shape.overrides(target) {
				shape.overridable = append(shape.overridable, target)
			}
		}
	}
	for _, m := range own {
		if m.abstract && !shape.overrides(m) {
			shape.overridable = append(shape.overridable, m)
		}
	}
	if !bodies && len(shape.overridable) == 0 {
		return shape
	}
	// Keep declaration order rather than first-override order.
	var ordered []member
	for _, m := range own {
		if shape.overrides(m) {
			ordered = append(ordered, m)
		}
	}
	shape.overridable = ordered
	for _, m := range ordered {
		if fn, ok := m.decl.Data.(*ir.Func); ok && (isEquals(fn) || isHashCode(fn)) {
			l.fail(unsupported(fn.Span, "enum %s overrides %s per entry", c.Name, fn.Name))
			return shape
		}
		if p, ok := m.decl.Data.(*ir.Property); ok && (p.Flags.Has(ir.FlagMutable) || p.FromParam != "") {
			l.fail(unsupported(p.Span, "enum %s overrides stored property %s per entry", c.Name, p.Name))
			return shape
		}
	}
	shape.base = names.EnumBase(name).String()
	l.ctx.Claim("", shape.base, "enum base "+c.FQName, c.Span)
	for _, e := range c.Entries {
		d := names.EnumDelegate(name, e.Name).String()
		l.ctx.Claim("", d, "enum delegate "+c.FQName+"."+e.Name, e.Span)
		shape.delegates = append(shape.delegates, d)
	}
	return shape
}

func entryMembers(e *ir.EnumEntry) []member {
	return membersOf(&ir.Class{Members: e.Members})
}

func (l *lowerer) enumMembers(c *ir.Class, cs *classScope, shape *enumShape) []*dart.Decl {
	for _, ctor := range c.Ctors() {
		if !ctor.Primary {
			l.fail(unsupported(ctor.Span, "secondary constructor of enum %s", c.Name))
			return nil
		}
		if len(complexParams(ctor)) > 0 {
			l.fail(unsupported(ctor.Span, "computed parameter default in enum %s", c.Name))
			return nil
		}
	}
	fp := l.planFields(c)
	for _, p := range c.Properties() {
		switch {
		case p.Flags.Has(ir.FlagMutable) && p.Setter == nil && (p.Getter == nil || p.BackingField):
			l.fail(unsupported(p.Span, "mutable enum property %s", p.Name))
		case fp.late[p.Name] || p.Flags.Has(ir.FlagLateinit):
			l.fail(unsupported(p.Span, "enum property %s is not initialized by the constructor", p.Name))
		case fp.inits[p.Name] != initNone && fp.inits[p.Name] != initList && !isSimpleDefault(p.Init):
			l.fail(unsupported(p.Span, "non-constant initializer of enum property %s", p.Name))
		}
		if l.failed() {
			return nil
		}
	}

	var ctors, members []*dart.Decl
	ctor := dart.ConstructorData{Class: cs.name, Const: true}
	if primary := c.PrimaryCtor(); primary != nil {
		d := l.generative(c, cs, primary, "", fp, false)
		ctor = d.Data.(dart.ConstructorData)
		if ctor.Body.Kind != dart.BodyEmpty {
			l.fail(unsupported(primary.Span, "initializer block in enum %s", c.Name))
			return nil
		}
	}
	if shape.hasBodies() || len(ctor.Params.All()) > 0 || len(ctor.Initializers) > 0 {
		if shape.hasBodies() {
			field := names.EnumDelegateField.String()
			ctor.Params.Positional = append([]*dart.Param{{Name: field, Field: true}}, ctor.Params.Positional...)
			members = append(members, &dart.Decl{Kind: dart.DeclField, Data: dart.VariablesData{
				Name:  field,
				Type:  dart.Named(shape.base).Ptr(),
				Final: true,
			}})
		}
		ctors = append(ctors, &dart.Decl{Kind: dart.DeclConstructor, Data: ctor})
	}

	for _, d := range c.Members {
		switch x := d.Data.(type) {
		case *ir.Property:
			if m, ok := findMember(shape.overridable, member{key: "prop:" + x.Name, name: x.Name, prop: true}); ok {
				members = append(members, l.enumForwarder(shape, m))
				continue
			}
			members = append(members, l.memberProperty(c, x, fp)...)
		case *ir.Func:
			if x.Receiver == nil {
				if m, ok := findMember(shape.overridable, membersOf(&ir.Class{Members: []ir.Decl{d}})[0]); ok {
					members = append(members, l.enumForwarder(shape, m))
					continue
				}
			}
			members = append(members, l.memberFunc(c, x)...)
		}
		if l.failed() {
			return nil
		}
	}
	members = append(members, l.copyIns(c)...)
	members = append(members, l.emitDelegates(c, cs)...)
	return append(ctors, members...)
}

// enumForwarder is the enum member passing a call on to the entry's
// delegate, with the entry as first argument.
func (l *lowerer) enumForwarder(shape *enumShape, m member) *dart.Decl {
	field := dart.Prop(dart.This(), names.EnumDelegateField.String())
	switch x := m.decl.Data.(type) {
	case *ir.Property:
		sym := l.propSymbol(x)
		name := l.ctx.MemberName(&sym).String()
		call := dart.Call(field, name, dart.Pos(dart.This())...)
		return &dart.Decl{Kind: dart.DeclMethod, Data: dart.MethodData{
			Name:       name,
			Kind:       dart.MethodGetter,
			ReturnType: l.retType(x.Type),
			Body:       dart.ExprBody(call),
		}}
	case *ir.Func:
		q := *x
		q.Body = nil
		q.Modality = ir.ModOpen
		q.Flags &^= ir.FlagOverride | ir.FlagExternal
		d := l.lowerMethod(&q)
		md := d.Data.(dart.MethodData)
		sym := l.funcSymbol(x)
		l.pushFn(x.ID, x.Return)
		lp := l.lowerParams(x.Params, x.Annotations, nil)
		l.popFn()
		args := []*dart.Expr{dart.This()}
		for _, p := range x.Params {
			args = append(args, dart.Ident(names.Local(p.Name).String()))
		}
		call := dart.Call(field, l.ctx.MemberName(&sym).String(), dart.Pos(args...)...)
		if len(lp.prologue) == 0 {
			md.Body = dart.ExprBody(call)
		} else if x.Return.IsUnit() {
			md.Body = dart.BlockBody(append(lp.prologue, dart.ExprStmt(call))...)
		} else {
			md.Body = dart.BlockBody(append(lp.prologue, dart.Return(call))...)
		}
		d.Data = md
		return d
	}
	return nil
}

// emitEnumDelegates adds the abstract base and one delegate class per
// entry.
func (l *lowerer) emitEnumDelegates(c *ir.Class, shape *enumShape) {
	var abstract []*dart.Decl
	for _, m := range shape.overridable {
		d := l.delegateMethod(shape, m, nil)
		if d == nil {
			return
		}
		md := d.Data.(dart.MethodData)
		md.Abstract = true
		md.Body = dart.Body{}
		d.Data = md
		abstract = append(abstract, d)
	}
	baseCtor := &dart.Decl{Kind: dart.DeclConstructor, Data: dart.ConstructorData{Class: shape.base, Const: true}}
	l.emit(&dart.Decl{Kind: dart.DeclClass, Data: dart.ClassData{
		Name:     shape.base,
		Abstract: true,
		Members:  append([]*dart.Decl{baseCtor}, abstract...),
	}})

	for i, e := range c.Entries {
		entry := entryMembers(e)
		name := shape.delegates[i]
		members := []*dart.Decl{{Kind: dart.DeclConstructor, Data: dart.ConstructorData{Class: name, Const: true}}}
		for _, m := range shape.overridable {
			impl := m
			if o, ok := findMember(entry, m); ok {
				impl = o
			} else if m.abstract {
				l.fail(malformed(e.Span, "enum entry %s does not implement %s", e.Name, m.key))
				return
			}
			d := l.delegateMethod(shape, m, &impl)
			if d == nil {
				return
			}
			d.Annotations = []string{"override"}
			members = append(members, d)
		}
		l.emit(&dart.Decl{Kind: dart.DeclClass, Data: dart.ClassData{
			Name:    name,
			Extends: dart.Named(shape.base).Ptr(),
			Members: members,
		}})
	}
}

// delegateMethod lowers the delegate form of m: a plain method taking the
// entry as $this plus m's parameters without defaults. impl supplies the
// body; nil leaves it empty.
func (l *lowerer) delegateMethod(shape *enumShape, m member, impl *member) *dart.Decl {
	self := &dart.Param{Name: names.EnumThis.String(), Type: shape.typ.Ptr()}
	md := dart.MethodData{}
	var id string
	var ret ir.Type
	var params []*ir.Param
	switch x := m.decl.Data.(type) {
	case *ir.Property:
		sym := l.propSymbol(x)
		md.Name = l.ctx.MemberName(&sym).String()
		ret = x.Type
	case *ir.Func:
		sym := l.funcSymbol(x)
		md.Name = l.ctx.MemberName(&sym).String()
		md.TypeParams = l.typeParams(x.TypeParams)
		ret = x.Return
		params = make([]*ir.Param, len(x.Params))
		for i, p := range x.Params {
			q := *p
			q.Default = nil
			q.Annotations = nil
			params[i] = &q
		}
	}
	md.ReturnType = l.retType(ret)
	if impl == nil {
		l.pushFn("", ret)
		lp := l.lowerParams(params, nil, nil)
		l.popFn()
		md.Params = lp.params
		md.Params.Positional = append([]*dart.Param{self}, md.Params.Positional...)
		return &dart.Decl{Kind: dart.DeclMethod, Data: md}
	}

	var body []*dart.Stmt
	switch x := impl.decl.Data.(type) {
	case *ir.Property:
		switch {
		case x.Getter != nil:
			id = x.Getter.ID
			l.pushFn(id, ret)
			l.withThis(self.Name, func() { body = l.block(x.Getter.Body) })
		case x.Init != nil && isSimpleDefault(x.Init):
			l.pushFn("", ret)
			body = []*dart.Stmt{dart.Return(l.expr(x.Init))}
		default:
			l.fail(unsupported(x.Span, "enum property %s needs a getter or a constant value to vary per entry", x.Name))
			return nil
		}
	case *ir.Func:
		id = x.ID
		l.pushFn(id, ret)
		l.withThis(self.Name, func() { body = l.block(x.Body) })
	}
	lp := l.lowerParams(params, nil, nil)
	l.popFn()
	md.Params = lp.params
	md.Params.Positional = append([]*dart.Param{self}, md.Params.Positional...)
	if id != "" {
		body = l.wrapReturnTarget(id, ret, body)
	}
	md.Body = dart.BlockBody(body...)
	return &dart.Decl{Kind: dart.DeclMethod, Data: md}
}

// emitValueOf adds `E $E$valueOf(String value)`.
func (l *lowerer) emitValueOf(shape *enumShape) {
	helper := names.EnumValueOf(shape.name).String()
	l.ctx.Claim("", helper, "enum valueOf "+shape.name, l.class.decl.Span)
	v := &dart.Param{Name: "v", Type: shape.typ.Ptr()}
	match := &dart.Expr{Kind: dart.ExprFunction, Data: dart.FunctionData{
		Params: dart.Params{Positional: []*dart.Param{v}},
		Body:   dart.ExprBody(dart.Bin(dart.OpEq, dart.Prop(dart.Ident("v"), "name"), dart.Ident("value"))),
	}}
	// Unknown names throw ArgumentError.
	orElse := &dart.Expr{Kind: dart.ExprFunction, Data: dart.FunctionData{
		Body: dart.ExprBody(dart.Throw(dart.New(dart.Named("ArgumentError"), "value", dart.Pos(dart.Ident("value"), dart.Str("value"))...))),
	}}
	values := dart.Prop(dart.Ident(shape.name), "values")
	l.emit(&dart.Decl{Kind: dart.DeclFunction, Data: dart.FunctionDeclData{
		Name:       helper,
		ReturnType: shape.typ.Ptr(),
		Params:     dart.Params{Positional: []*dart.Param{{Name: "value", Type: dart.Named("String").Ptr()}}},
		Body:       dart.ExprBody(dart.Call(values, "firstWhere", dart.Arg{Value: match}, dart.Arg{Name: "orElse", Value: orElse})),
	}})
}
