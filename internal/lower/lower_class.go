package lower

import (
	"kdart/internal/dart"
	"kdart/internal/ir"
	"kdart/internal/names"
	"kdart/internal/source"
)

// classScope is the class whose members are being lowered.
type classScope struct {
	decl  *ir.Class
	name  string
	typ   dart.Type
	super *ir.Type
	idx   *ir.Index

	delegates []*delegate
	byKey     map[string]*delegate
}

// delegate is a private copy of an interface default reached through
// `super<I>.m()`.
type delegate struct {
	name   string
	key    string
	member member
}

func (l *lowerer) newClassScope(c *ir.Class, name string) *classScope {
	cs := &classScope{decl: c, name: name, idx: l.ctx.Index, byKey: make(map[string]*delegate)}
	if st, ok := c.SuperClass(); ok && !st.Is(ir.FQAny) {
		cs.super = &st
	}
	cs.typ = dart.Named(name)
	for _, tp := range c.TypeParams {
		cs.typ.Args = append(cs.typ.Args, dart.Named(tp.Name))
	}
	return cs
}

// isSuperclass reports whether super<t> resolves through the extended
// class rather than an interface default.
func (cs *classScope) isSuperclass(t ir.Type) bool {
	if t.Is(ir.FQAny) {
		return true
	}
	if cs.super != nil && cs.super.FQName == t.FQName {
		return true
	}
	if c := cs.idx.Class(t.FQName); c != nil {
		return c.Kind != ir.ClassInterface
	}
	return false
}

func symbolMember(sym *ir.Symbol) member {
	if sym.Kind == ir.SymGetter || sym.Kind == ir.SymSetter {
		return member{key: "prop:" + sym.Name, name: sym.Name, prop: true}
	}
	params := sym.ParamTypes()
	return member{key: names.Signature(sym.Name, nil, params), name: sym.Name, params: params}
}

// superDelegate returns the delegate method standing for iface's default
// of sym, registering it on first use.
func (cs *classScope) superDelegate(l *lowerer, iface ir.Type, sym *ir.Symbol, span source.Span) string {
	want := symbolMember(sym)
	ic := l.ctx.Index.Class(iface.FQName)
	var m member
	found := false
	if ic != nil {
		if own, ok := findMember(membersOf(ic), want); ok && !own.abstract {
			m, found = own, true
		} else if !ok {
			for _, p := range l.defaults(ic) {
				if p.member.overrides(want) && len(p.providers) == 1 {
					m, found = p.member, true
				}
			}
		}
	}
	if !found {
		l.fail(malformed(span, "%s has no default body for %s", iface.FQName, want.key))
		return want.name
	}
	key := iface.FQName + "|" + m.key
	if d, ok := cs.byKey[key]; ok {
		return d.name
	}
	rel := ic.RelName
	if rel == "" {
		rel = ic.Name
	}
	name := names.SuperDelegate(rel, l.ctx.MemberName(sym).String()).String()
	l.ctx.Claim(cs.decl.FQName, name, "delegate "+key, span)
	d := &delegate{name: name, key: key, member: m}
	cs.delegates = append(cs.delegates, d)
	cs.byKey[key] = d
	return name
}

// emitDelegates lowers the registered delegates. Lowering one may register
// more, so the list is walked by index.
func (l *lowerer) emitDelegates(c *ir.Class, cs *classScope) []*dart.Decl {
	var out []*dart.Decl
	for i := 0; i < len(cs.delegates); i++ {
		d := cs.delegates[i]
		decls := l.inherited(c, d.member)
		if len(decls) == 0 {
			continue
		}
		decl := decls[0]
		m := decl.Data.(dart.MethodData)
		m.Name = d.name
		if m.Kind == dart.MethodOperator {
			m.Kind = dart.MethodPlain
		}
		decl.Data = m
		decl.Annotations = nil
		out = append(out, decl)
	}
	return out
}

func (l *lowerer) lowerClass(c *ir.Class) {
	if c.Kind == ir.ClassEnum {
		l.lowerEnum(c)
		l.lowerNested(c)
		return
	}
	name := names.Class(c).String()
	l.ctx.Claim("", name, "class "+c.FQName, c.Span)
	cs := l.newClassScope(c, name)
	saved := l.class
	l.class = cs
	data := dart.ClassData{
		Name:       name,
		Abstract:   c.Kind == ir.ClassInterface || c.Modality == ir.ModAbstract || c.Modality == ir.ModSealed,
		TypeParams: l.typeParams(c.TypeParams),
	}
	for _, s := range c.Supers {
		if s.Type.Is(ir.FQAny) {
			continue
		}
		if s.Kind == ir.SuperClass {
			data.Extends = l.typ(s.Type.WithNullable(false)).Ptr()
		} else {
			data.Implements = append(data.Implements, l.typ(s.Type.WithNullable(false)))
		}
	}
	data.Members = l.classMembers(c, cs)
	l.recordDiamonds(c, cs)
	l.class = saved
	l.emit(&dart.Decl{Kind: dart.DeclClass, Data: data})
	l.lowerNested(c)
}

func (l *lowerer) lowerNested(c *ir.Class) {
	for _, m := range c.Members {
		if nested, ok := m.Data.(*ir.Class); ok && !l.failed() {
			l.lowerClass(nested)
		}
	}
}

func (l *lowerer) recordDiamonds(c *ir.Class, cs *classScope) {
	for _, d := range l.plan(c).diamonds {
		for _, del := range cs.delegates {
			if del.member.key != d.Member {
				continue
			}
			if d.Delegates == nil {
				d.Delegates = make(map[string]string)
			}
			d.Delegates[del.member.owner.FQName] = del.name
		}
		l.ctx.recordDiamond(d)
	}
}

func (l *lowerer) classMembers(c *ir.Class, cs *classScope) []*dart.Decl {
	fp := l.planFields(c)
	var ctors, members []*dart.Decl
	if c.Kind == ir.ClassObject {
		inst := dart.VariablesData{
			Name:   names.ObjectInstance.String(),
			Type:   cs.typ.Ptr(),
			Init:   dart.New(cs.typ, "_"),
			Final:  true,
			Static: true,
		}
		ctors = append(ctors, &dart.Decl{Kind: dart.DeclField, Data: inst})
		if len(c.Ctors()) == 0 {
			ctors = append(ctors, &dart.Decl{Kind: dart.DeclConstructor, Data: dart.ConstructorData{Class: cs.name, Name: "_"}})
		}
	}
	for _, d := range c.Members {
		switch x := d.Data.(type) {
		case *ir.Constructor:
			ctors = append(ctors, l.constructor(c, cs, x, fp)...)
		case *ir.Property:
			members = append(members, l.memberProperty(c, x, fp)...)
		case *ir.Func:
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

func (l *lowerer) memberFunc(c *ir.Class, fn *ir.Func) []*dart.Decl {
	if fn.Receiver != nil {
		l.fail(unsupported(fn.Span, "member extension %s", fn.Name))
		return nil
	}
	sym := l.funcSymbol(fn)
	d := l.lowerMethod(fn)
	m := d.Data.(dart.MethodData)
	if fn.Body == nil && !m.External {
		m.Abstract = true
		d.Data = m
	}
	l.ctx.Claim(c.FQName, m.Name, "method "+names.Signature(fn.Name, nil, sym.ParamTypes()), fn.Span)
	out := []*dart.Decl{d}
	if fn.Name == "compareTo" && fn.Flags.Has(ir.FlagOperator) && len(fn.Params) == 1 && c.Kind != ir.ClassInterface {
		out = append(out, l.comparisons(fn, m.Name)...)
	}
	return out
}

// storageName is the field holding p's value.
func (l *lowerer) storageName(p *ir.Property) names.Ident {
	if p.Getter != nil || p.Setter != nil {
		return names.BackingField(p.Name)
	}
	sym := l.propSymbol(p)
	return l.ctx.MemberName(&sym)
}

func (l *lowerer) memberProperty(c *ir.Class, p *ir.Property, fp *fieldPlan) []*dart.Decl {
	if p.Receiver != nil {
		l.fail(unsupported(p.Span, "member extension property %s", p.Name))
		return nil
	}
	sym := l.propSymbol(p)
	name := l.ctx.MemberName(&sym).String()
	l.ctx.Claim(c.FQName, name, "property "+p.Name, p.Span)
	mutable := p.Flags.Has(ir.FlagMutable)
	custom := p.Getter != nil || p.Setter != nil

	if p.Flags.Has(ir.FlagConst) {
		v := dart.VariablesData{Name: name, Type: l.typ(p.Type).Ptr(), Init: l.initExpr(p.Init, p.Type), Const: true, Static: true}
		return []*dart.Decl{{Kind: dart.DeclField, Data: v}}
	}
	abstract := p.Modality == ir.ModAbstract || c.Kind == ir.ClassInterface
	if abstract && !custom {
		q := *p
		q.Modality = ir.ModAbstract
		out := []*dart.Decl{l.accessor(&q, false, true)}
		if mutable {
			out = append(out, l.accessor(&q, true, true))
		}
		return out
	}
	if custom {
		var out []*dart.Decl
		if p.BackingField {
			v := l.fieldDecl(p, names.BackingField(p.Name).String(), fp)
			v.Final = v.Final && p.Setter == nil
			out = append(out, &dart.Decl{Kind: dart.DeclField, Data: v})
		}
		out = append(out, l.accessor(p, false, true))
		if mutable {
			out = append(out, l.accessor(p, true, true))
		}
		return out
	}
	d := &dart.Decl{Kind: dart.DeclField, Data: l.fieldDecl(p, name, fp)}
	if p.Flags.Has(ir.FlagOverride) {
		d.Annotations = []string{"override"}
	}
	return []*dart.Decl{d}
}

func (l *lowerer) fieldDecl(p *ir.Property, name string, fp *fieldPlan) dart.VariablesData {
	v := dart.VariablesData{
		Name:  name,
		Type:  l.typ(p.Type).Ptr(),
		Final: !p.Flags.Has(ir.FlagMutable),
		Late:  p.Flags.Has(ir.FlagLateinit) || fp.late[p.Name],
	}
	switch fp.inits[p.Name] {
	case initField:
		v.Init = l.initExpr(p.Init, p.Type)
	case initLate:
		v.Late = true
		v.Init = l.initExpr(p.Init, p.Type)
	}
	return v
}

// initKind tells where a member property initializer runs.
type initKind uint8

const (
	initNone initKind = iota
	// initField keeps it as a field initializer.
	initField
	// initList moves it to the primary constructor's initializer list.
	initList
	// initLate makes the field late, for initializers reading this.
	initLate
)

// fieldPlan is the storage layout of a class, decided before any member
// is lowered.
type fieldPlan struct {
	// fields maps primary constructor parameters to the fields they set.
	fields map[string]names.Ident
	inits  map[string]initKind
	late   map[string]bool
	// relocate counts the leading primary body statements moved to the
	// initializer list.
	relocate int
	split    map[*ir.Constructor]bool
}

func (l *lowerer) planFields(c *ir.Class) *fieldPlan {
	fp := &fieldPlan{
		fields: make(map[string]names.Ident),
		inits:  make(map[string]initKind),
		late:   make(map[string]bool),
		split:  make(map[*ir.Constructor]bool),
	}
	primary := c.PrimaryCtor()
	params := make(map[string]bool)
	if primary != nil {
		for _, p := range primary.Params {
			params[p.Name] = true
		}
	}
	props := c.Properties()
	byName := make(map[string]*ir.Property, len(props))
	for _, p := range props {
		byName[p.Name] = p
		if p.FromParam != "" {
			fp.fields[p.FromParam] = l.storageName(p)
		}
		if p.Init == nil || p.FromParam != "" || p.Flags.Has(ir.FlagConst) {
			continue
		}
		switch {
		case refsThis(p.Init):
			fp.inits[p.Name] = initLate
		case primary != nil && refsNames(p.Init, params):
			fp.inits[p.Name] = initList
		default:
			fp.inits[p.Name] = initField
		}
	}
	for _, ctor := range c.Ctors() {
		fp.split[ctor] = l.needsSplit(c, ctor)
	}

	// Two-list rewrite: a prefix of plain field assignments moves to the
	// initializer list, the rest of the body stays.
	relocated := make(map[string]bool)
	if primary != nil && primary.Body != nil {
		unsafe := complexParams(primary)
		if fp.split[primary] {
			unsafe = nil
		}
		for _, s := range primary.Body.Stmts {
			p, v, ok := ownFieldStore(c, s, byName)
			if !ok || relocated[p.Name] || p.FromParam != "" || p.Init != nil || p.Flags.Has(ir.FlagLateinit) ||
				refsThis(v) || !onlyNames(v, params) || refsNames(v, unsafe) {
				break
			}
			relocated[p.Name] = true
			fp.relocate++
		}
	}
	for _, p := range props {
		stored := (p.Getter == nil && p.Setter == nil) || p.BackingField
		if !stored || p.FromParam != "" || p.Init != nil || relocated[p.Name] ||
			p.Flags.Has(ir.FlagConst) || p.Modality == ir.ModAbstract || c.Kind == ir.ClassInterface {
			continue
		}
		fp.late[p.Name] = true
	}
	return fp
}

// ownFieldStore matches `this.field = value` for a property of c.
func ownFieldStore(c *ir.Class, s *ir.Stmt, byName map[string]*ir.Property) (*ir.Property, *ir.Expr, bool) {
	es, ok := s.Data.(ir.ExprStmtData)
	if !ok || es.Expr == nil {
		return nil, nil, false
	}
	sf, ok := es.Expr.Data.(ir.SetFieldData)
	if !ok || sf.Property.Owner != c.FQName {
		return nil, nil, false
	}
	if sf.Receiver != nil && sf.Receiver.Kind != ir.ExprThis {
		return nil, nil, false
	}
	p := byName[sf.Property.Name]
	if p == nil {
		return nil, nil, false
	}
	return p, sf.Value, true
}

// refsThis reports whether e reads the dispatch receiver.
func refsThis(e *ir.Expr) bool {
	found := false
	ir.Inspect(e, func(x *ir.Expr) bool {
		switch d := x.Data.(type) {
		case ir.ThisData:
			found = true
		case ir.GetFieldData:
			found = found || d.Receiver == nil
		}
		return !found
	})
	return found
}

// refsNames reports whether e reads any local in set.
func refsNames(e *ir.Expr, set map[string]bool) bool {
	if len(set) == 0 {
		return false
	}
	found := false
	ir.Inspect(e, func(x *ir.Expr) bool {
		if d, ok := x.Data.(ir.GetValueData); ok && set[d.Name] {
			found = true
		}
		return !found
	})
	return found
}

// onlyNames reports whether every local e reads is in set.
func onlyNames(e *ir.Expr, set map[string]bool) bool {
	ok := true
	ir.Inspect(e, func(x *ir.Expr) bool {
		if d, isGet := x.Data.(ir.GetValueData); isGet && !set[d.Name] {
			ok = false
		}
		return ok
	})
	return ok
}

func complexParams(ctor *ir.Constructor) map[string]bool {
	out := make(map[string]bool)
	for _, p := range ctor.Params {
		if p.Default != nil && !isSimpleDefault(p.Default) {
			out[p.Name] = true
		}
	}
	return out
}

// needsSplit reports whether a generative constructor must become a
// factory resolving its defaults plus a raw constructor: some complex
// default is read before the body could resolve it.
func (l *lowerer) needsSplit(c *ir.Class, ctor *ir.Constructor) bool {
	if ctor.Delegation != nil && !ctor.Delegation.Super {
		return false
	}
	complex := complexParams(ctor)
	if len(complex) == 0 {
		return false
	}
	for _, p := range ctor.Params {
		if refsNames(p.Default, complex) {
			return true
		}
	}
	if ctor.Delegation != nil {
		for _, a := range ctor.Delegation.Args {
			if refsNames(a, complex) {
				return true
			}
		}
	}
	if !ctor.Primary {
		return false
	}
	fieldBacked := make(map[string]bool)
	for _, p := range c.Properties() {
		if p.FromParam != "" && complex[p.FromParam] {
			fieldBacked[p.FromParam] = true
		}
		if p.FromParam == "" && refsNames(p.Init, complex) {
			return true
		}
	}
	if ctor.Body != nil && len(fieldBacked) > 0 {
		found := false
		ir.InspectStmts(ctor.Body.Stmts, func(x *ir.Expr) bool {
			if d, ok := x.Data.(ir.GetValueData); ok && fieldBacked[d.Name] {
				found = true
			}
			return !found
		})
		return found
	}
	return false
}

// rawCtorName names the generative half of a split constructor.
func rawCtorName(name string) string {
	switch name {
	case "":
		return names.Gen("raw").String()
	case "_":
		return names.PrivateGen("raw").String()
	}
	return name + "$raw"
}

func (l *lowerer) constructor(c *ir.Class, cs *classScope, ctor *ir.Constructor, fp *fieldPlan) []*dart.Decl {
	sym := ctor.Symbol(c, l.ctx.Unit.Library, l.ctx.Unit.Path)
	name := names.Ctor(&sym)
	if c.Kind == ir.ClassObject && ctor.Primary {
		name = "_"
	}
	if name != "" {
		l.ctx.Claim(c.FQName, name, "constructor "+name, ctor.Span)
	}
	if ctor.Delegation != nil && !ctor.Delegation.Super {
		return []*dart.Decl{l.redirecting(c, cs, ctor, name)}
	}
	if fp.split[ctor] {
		raw := rawCtorName(name)
		return []*dart.Decl{l.generative(c, cs, ctor, raw, fp, true), l.splitFactory(c, cs, ctor, name, raw)}
	}
	return []*dart.Decl{l.generative(c, cs, ctor, name, fp, false)}
}

// generative lowers a constructor that initializes the object itself.
// raw drops defaults: every parameter becomes required positional.
func (l *lowerer) generative(c *ir.Class, cs *classScope, ctor *ir.Constructor, name string, fp *fieldPlan, raw bool) *dart.Decl {
	params, annots := ctor.Params, ctor.Annotations
	if raw {
		params = make([]*ir.Param, len(ctor.Params))
		for i, p := range ctor.Params {
			q := *p
			q.Default = nil
			q.Annotations = nil
			params[i] = &q
		}
		annots = nil
	}
	var fields map[string]names.Ident
	if ctor.Primary {
		fields = fp.fields
	}
	id := ctor.ID(c)
	l.pushFn(id, ir.ClassType(ir.FQUnit))
	defer l.popFn()
	lp := l.lowerParams(params, annots, fields)
	data := dart.ConstructorData{Class: cs.name, Name: name, Params: lp.params, Const: c.Kind == ir.ClassEnum}
	inits := lp.inits
	var body []*ir.Stmt
	if ctor.Body != nil {
		body = ctor.Body.Stmts
	}
	if ctor.Primary {
		for _, p := range c.Properties() {
			if fp.inits[p.Name] == initList {
				inits = append(inits, dart.Initializer{Kind: dart.InitField, Field: l.storageName(p).String(), Value: l.expr(p.Init)})
			}
		}
		byName := make(map[string]*ir.Property)
		for _, p := range c.Properties() {
			byName[p.Name] = p
		}
		for _, s := range body[:fp.relocate] {
			p, v, _ := ownFieldStore(c, s, byName)
			inits = append(inits, dart.Initializer{Kind: dart.InitField, Field: l.storageName(p).String(), Value: l.expr(v)})
		}
		body = body[fp.relocate:]
	}
	if init, ok := l.superInit(ctor); ok {
		inits = append(inits, init)
	}
	data.Initializers = inits
	stmts := append(lp.prologue, l.stmts(body)...)
	stmts = l.wrapReturnTarget(id, ir.ClassType(ir.FQUnit), stmts)
	if len(stmts) > 0 {
		data.Body = dart.BlockBody(stmts...)
	}
	return &dart.Decl{Kind: dart.DeclConstructor, Data: data}
}

// superInit lowers the superclass constructor call of ctor. A split super
// constructor is called through its raw half, which needs every argument.
func (l *lowerer) superInit(ctor *ir.Constructor) (dart.Initializer, bool) {
	dl := ctor.Delegation
	if dl == nil || !dl.Super || dl.Ctor.Owner == "" || dl.Ctor.Owner == ir.FQAny || dl.Ctor.Owner == ir.FQEnum {
		return dart.Initializer{}, false
	}
	name := names.Ctor(&dl.Ctor)
	if sc := l.ctx.Index.Class(dl.Ctor.Owner); sc != nil {
		if target := findCtor(sc, &dl.Ctor); target != nil && l.needsSplit(sc, target) {
			args := make([]dart.Arg, len(dl.Ctor.Params))
			for i := range dl.Ctor.Params {
				if i >= len(dl.Args) || dl.Args[i] == nil {
					l.fail(unsupported(ctor.Span, "omitted argument %q for a super constructor with computed defaults", dl.Ctor.Params[i].Name))
					return dart.Initializer{}, false
				}
				args[i] = dart.Arg{Value: l.expr(dl.Args[i])}
			}
			return dart.Initializer{Kind: dart.InitSuper, Ctor: rawCtorName(name), Args: args}, true
		}
	}
	args := l.callArgs(dl.Ctor.Params, dl.Ctor.Annotations, dl.Args, nil, ctor.Span)
	return dart.Initializer{Kind: dart.InitSuper, Ctor: name, Args: args}, true
}

func findCtor(c *ir.Class, sym *ir.Symbol) *ir.Constructor {
	for _, ctor := range c.Ctors() {
		if ctor.Primary == sym.Primary && ctor.Index == sym.CtorIndex {
			return ctor
		}
	}
	return nil
}

// splitFactory resolves defaults and forwards every parameter to raw.
func (l *lowerer) splitFactory(c *ir.Class, cs *classScope, ctor *ir.Constructor, name, raw string) *dart.Decl {
	l.pushFn(ctor.ID(c), ir.ClassType(ir.FQUnit))
	defer l.popFn()
	lp := l.lowerParams(ctor.Params, ctor.Annotations, nil)
	args := make([]*dart.Expr, len(ctor.Params))
	for i, p := range ctor.Params {
		args[i] = dart.Ident(names.Local(p.Name).String())
	}
	stmts := append(lp.prologue, dart.Return(dart.New(cs.typ, raw, dart.Pos(args...)...)))
	return &dart.Decl{Kind: dart.DeclConstructor, Data: dart.ConstructorData{
		Class:   cs.name,
		Name:    name,
		Factory: true,
		Params:  lp.params,
		Body:    dart.BlockBody(stmts...),
	}}
}

// redirecting lowers a constructor delegating to a sibling. With a body or
// defaults to resolve it becomes a factory whose body sees the new object
// as $this.
func (l *lowerer) redirecting(c *ir.Class, cs *classScope, ctor *ir.Constructor, name string) *dart.Decl {
	dl := ctor.Delegation
	id := ctor.ID(c)
	fn := l.pushFn(id, ir.ClassType(ir.FQUnit))
	defer l.popFn()
	lp := l.lowerParams(ctor.Params, ctor.Annotations, nil)
	target := names.Ctor(&dl.Ctor)
	args := l.callArgs(dl.Ctor.Params, dl.Ctor.Annotations, dl.Args, nil, ctor.Span)
	hasBody := ctor.Body != nil && len(ctor.Body.Stmts) > 0
	targetSplit := false
	if t := findCtor(c, &dl.Ctor); t != nil {
		targetSplit = l.needsSplit(c, t)
	}
	if !hasBody && len(lp.prologue) == 0 && !targetSplit {
		return &dart.Decl{Kind: dart.DeclConstructor, Data: dart.ConstructorData{
			Class:        cs.name,
			Name:         name,
			Params:       lp.params,
			Initializers: []dart.Initializer{{Kind: dart.InitThis, Ctor: target, Args: args}},
		}}
	}
	create := dart.New(cs.typ, target, args...)
	stmts := lp.prologue
	if hasBody {
		self := names.EnumThis.String()
		fn.result = dart.Ident(self)
		stmts = append(stmts, dart.Final(self, create))
		l.withThis(self, func() {
			stmts = append(stmts, l.block(ctor.Body)...)
		})
		stmts = append(stmts, dart.Return(dart.Ident(self)))
	} else {
		stmts = append(stmts, dart.Return(create))
	}
	return &dart.Decl{Kind: dart.DeclConstructor, Data: dart.ConstructorData{
		Class:   cs.name,
		Name:    name,
		Factory: true,
		Params:  lp.params,
		Body:    dart.BlockBody(stmts...),
	}}
}
