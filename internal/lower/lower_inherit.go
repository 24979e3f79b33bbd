package lower

import (
	"sort"

	"kdart/internal/dart"
	"kdart/internal/ir"
	"kdart/internal/names"
)

// Diamond records how a member inherited from several interface defaults
// was resolved for Class.
type Diamond struct {
	Class     string
	Member    string
	Providers []string
	// Chosen is the class whose body wins: Class itself when it overrides.
	Chosen string
	// Delegates maps qualified super targets to their delegate methods.
	Delegates map[string]string
}

// member is a function or property of a class, compared by name and
// erased signature.
type member struct {
	key      string
	name     string
	prop     bool
	params   []ir.Type
	decl     ir.Decl
	owner    *ir.Class
	abstract bool
}

func membersOf(c *ir.Class) []member {
	var out []member
	for _, d := range c.Members {
		switch x := d.Data.(type) {
		case *ir.Func:
			if x.Receiver != nil {
				continue
			}
			params := make([]ir.Type, len(x.Params))
			for i, p := range x.Params {
				params[i] = p.Type
			}
			out = append(out, member{
				key:      names.Signature(x.Name, nil, params),
				name:     x.Name,
				params:   params,
				decl:     d,
				owner:    c,
				abstract: x.Body == nil,
			})
		case *ir.Property:
			if x.Receiver != nil {
				continue
			}
			abstract := x.Modality == ir.ModAbstract
			if c.Kind == ir.ClassInterface {
				abstract = x.Getter == nil
			}
			out = append(out, member{key: "prop:" + x.Name, name: x.Name, prop: true, decl: d, owner: c, abstract: abstract})
		}
	}
	return out
}

// overrides reports whether m and o are the same member. Parameters typed
// by a type parameter match any type.
func (m member) overrides(o member) bool {
	if m.prop != o.prop || m.name != o.name || len(m.params) != len(o.params) {
		return false
	}
	for i := range m.params {
		a, b := m.params[i], o.params[i]
		if a.Kind == ir.TypeParamRef || b.Kind == ir.TypeParamRef {
			continue
		}
		if a.Erased() != b.Erased() {
			return false
		}
	}
	return true
}

func findMember(list []member, m member) (member, bool) {
	for _, o := range list {
		if o.overrides(m) {
			return o, true
		}
	}
	return member{}, false
}

// provided is an interface default reachable from a class, with the most
// specific interfaces providing it.
type provided struct {
	member    member
	providers []*ir.Class
}

// inheritance memoizes the supertype walk of one unit.
type inheritance struct {
	defaults map[string][]*provided
	concrete map[concreteKey]bool
	plans    map[string]*classPlan
}

type concreteKey struct {
	class  string
	member string
}

// classPlan lists what a class takes over from its interfaces.
type classPlan struct {
	copies    []*provided
	diamonds  []Diamond
	ambiguous []*provided
}

func newInheritance() *inheritance {
	return &inheritance{
		defaults: make(map[string][]*provided),
		concrete: make(map[concreteKey]bool),
		plans:    make(map[string]*classPlan),
	}
}

func (l *lowerer) supers(c *ir.Class, kind ir.SuperKind) []*ir.Class {
	var out []*ir.Class
	for _, s := range c.Supers {
		if s.Kind != kind {
			continue
		}
		if sc := l.ctx.Index.Class(s.Type.FQName); sc != nil {
			out = append(out, sc)
		}
	}
	return out
}

// isSubclass reports whether a inherits from b, directly or not.
func (l *lowerer) isSubclass(a, b *ir.Class) bool {
	if a == b {
		return false
	}
	for _, s := range a.Supers {
		if s.Type.FQName == b.FQName {
			return true
		}
		if sc := l.ctx.Index.Class(s.Type.FQName); sc != nil && l.isSubclass(sc, b) {
			return true
		}
	}
	return false
}

// merge adds p to list, keeping only the most specific providers.
func (l *lowerer) merge(list []*provided, p *provided) []*provided {
	for _, q := range list {
		if !q.member.overrides(p.member) {
			continue
		}
		for _, c := range p.providers {
			dup := false
			for _, have := range q.providers {
				if have == c {
					dup = true
					break
				}
			}
			if !dup {
				q.providers = append(q.providers, c)
			}
		}
		var kept []*ir.Class
		for _, a := range q.providers {
			shadowed := false
			for _, b := range q.providers {
				if l.isSubclass(b, a) {
					shadowed = true
					break
				}
			}
			if !shadowed {
				kept = append(kept, a)
			}
		}
		q.providers = kept
		// The member shown is the one of the first remaining provider.
		if m, ok := findMember(membersOf(kept[0]), q.member); ok {
			q.member = m
		}
		return list
	}
	cp := &provided{member: p.member, providers: append([]*ir.Class(nil), p.providers...)}
	return append(list, cp)
}

// defaults returns the default members an interface offers, its own and
// inherited ones it does not redeclare.
func (l *lowerer) defaults(iface *ir.Class) []*provided {
	memo := l.ctx.inherit.defaults
	if out, ok := memo[iface.FQName]; ok {
		return out
	}
	memo[iface.FQName] = nil
	own := membersOf(iface)
	var out []*provided
	for _, m := range own {
		if !m.abstract {
			out = append(out, &provided{member: m, providers: []*ir.Class{iface}})
		}
	}
	for _, s := range l.supers(iface, ir.SuperInterface) {
		for _, p := range l.defaults(s) {
			if _, ok := findMember(own, p.member); ok {
				continue
			}
			out = l.merge(out, p)
		}
	}
	memo[iface.FQName] = out
	return out
}

// concreteIn reports whether class c (or its superclass chain) supplies a
// body for m.
func (l *lowerer) concreteIn(c *ir.Class, m member) bool {
	if c == nil {
		return true
	}
	if c.Kind == ir.ClassInterface {
		return false
	}
	key := concreteKey{class: c.FQName, member: m.key}
	if v, ok := l.ctx.inherit.concrete[key]; ok {
		return v
	}
	v := l.computeConcrete(c, m)
	l.ctx.inherit.concrete[key] = v
	return v
}

func (l *lowerer) computeConcrete(c *ir.Class, m member) bool {
	if o, ok := findMember(membersOf(c), m); ok {
		return !o.abstract
	}
	for _, p := range l.plan(c).copies {
		if p.member.overrides(m) {
			return true
		}
	}
	st, ok := c.SuperClass()
	if !ok || st.Is(ir.FQAny) {
		return false
	}
	return l.concreteIn(l.ctx.Index.Class(st.FQName), m)
}

// plan computes the interface defaults class c must copy in.
func (l *lowerer) plan(c *ir.Class) *classPlan {
	if p, ok := l.ctx.inherit.plans[c.FQName]; ok {
		return p
	}
	plan := &classPlan{}
	l.ctx.inherit.plans[c.FQName] = plan
	if c.Kind == ir.ClassInterface {
		return plan
	}
	var all []*provided
	for _, iface := range l.supers(c, ir.SuperInterface) {
		for _, p := range l.defaults(iface) {
			all = l.merge(all, p)
		}
	}
	own := membersOf(c)
	var superclass *ir.Class
	hasSuper := false
	if st, ok := c.SuperClass(); ok && !st.Is(ir.FQAny) {
		hasSuper = true
		superclass = l.ctx.Index.Class(st.FQName)
	}
	for _, p := range all {
		diamond := len(p.providers) > 1
		if _, ok := findMember(own, p.member); ok {
			if diamond {
				plan.diamonds = append(plan.diamonds, l.diamond(c, p, c.FQName))
			}
			continue
		}
		if hasSuper && l.concreteIn(superclass, p.member) {
			continue
		}
		if diamond {
			plan.ambiguous = append(plan.ambiguous, p)
			continue
		}
		plan.copies = append(plan.copies, p)
	}
	return plan
}

func (l *lowerer) diamond(c *ir.Class, p *provided, chosen string) Diamond {
	d := Diamond{Class: c.FQName, Member: p.member.key, Chosen: chosen}
	for _, prov := range p.providers {
		d.Providers = append(d.Providers, prov.FQName)
	}
	sort.Strings(d.Providers)
	return d
}

// typeArgsOf binds the type parameters of ancestor as seen from c.
func (l *lowerer) typeArgsOf(c, ancestor *ir.Class) map[string]ir.Type {
	var walk func(cur *ir.Class, env map[string]ir.Type, seen map[string]bool) map[string]ir.Type
	walk = func(cur *ir.Class, env map[string]ir.Type, seen map[string]bool) map[string]ir.Type {
		if cur.FQName == ancestor.FQName {
			return env
		}
		if seen[cur.FQName] {
			return nil
		}
		seen[cur.FQName] = true
		for _, s := range cur.Supers {
			sc := l.ctx.Index.Class(s.Type.FQName)
			if sc == nil {
				continue
			}
			next := make(map[string]ir.Type, len(sc.TypeParams))
			for i, tp := range sc.TypeParams {
				if i < len(s.Type.Args) {
					next[tp.Name] = substitute(s.Type.Args[i], env)
				}
			}
			if out := walk(sc, next, seen); out != nil {
				return out
			}
		}
		return nil
	}
	return walk(c, nil, make(map[string]bool))
}

func substitute(t ir.Type, env map[string]ir.Type) ir.Type {
	if t.Kind == ir.TypeParamRef {
		if s, ok := env[t.FQName]; ok {
			return s.WithNullable(s.Nullable || t.Nullable)
		}
		return t
	}
	if len(t.Args) > 0 {
		args := make([]ir.Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = substitute(a, env)
		}
		t.Args = args
	}
	return t
}

// inherited lowers m, declared by an interface of c, as a member of c.
func (l *lowerer) inherited(c *ir.Class, m member) []*dart.Decl {
	saved := l.subst
	l.subst = l.typeArgsOf(c, m.owner)
	defer func() { l.subst = saved }()
	switch x := m.decl.Data.(type) {
	case *ir.Func:
		return []*dart.Decl{l.lowerMethod(x)}
	case *ir.Property:
		out := []*dart.Decl{l.accessor(x, false, true)}
		if x.Flags.Has(ir.FlagMutable) && x.Setter != nil {
			out = append(out, l.accessor(x, true, true))
		}
		return out
	}
	return nil
}

// copyIns lowers the interface defaults class c takes over. An inherited
// diamond the class leaves alone fails the unit.
func (l *lowerer) copyIns(c *ir.Class) []*dart.Decl {
	plan := l.plan(c)
	if len(plan.ambiguous) > 0 {
		p := plan.ambiguous[0]
		var provs []string
		for _, prov := range p.providers {
			provs = append(provs, prov.FQName)
		}
		sort.Strings(provs)
		l.fail(ambiguous(c.Span, "%s inherits %s from %v and must override it", c.FQName, p.member.key, provs))
		return nil
	}
	var out []*dart.Decl
	for _, p := range plan.copies {
		for _, d := range l.inherited(c, p.member) {
			d.Annotations = []string{"override"}
			out = append(out, d)
		}
	}
	return out
}
