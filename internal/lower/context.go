package lower

import (
	"fmt"
	"sort"

	"kdart/internal/dart"
	"kdart/internal/diag"
	"kdart/internal/ir"
	"kdart/internal/names"
	"kdart/internal/source"
)

// coreLibrary is implicitly imported by every Dart library.
const coreLibrary = "dart:core"

// Context is the per-unit ledger of the lowering pass. It is created for
// one unit, only grows while that unit is lowered, and is dropped after the
// unit's library is final. It is never shared between units.
type Context struct {
	Unit  *ir.Unit
	Index *ir.Index

	overloads map[string]names.Ident
	markers   map[string]*marker
	imports   map[string]map[string]struct{}
	counter   int
	claims    map[string]map[string]string
	signals   [jumpKinds]bool
	tags      map[jumpKey]int
	diamonds  []Diamond
	inherit   *inheritance

	err *Error
}

type marker struct {
	ident names.Ident
	impl  *dart.Type // nil for the shared marker
}

type jumpKey struct {
	kind   JumpKind
	target string
}

// NewContext prepares the ledger for lowering unit. index resolves
// supertypes declared in other units and may be nil.
func NewContext(unit *ir.Unit, index *ir.Index) *Context {
	if index == nil {
		index = ir.NewIndex(&ir.Program{Units: []*ir.Unit{unit}})
	}
	return &Context{
		Unit:      unit,
		Index:     index,
		overloads: make(map[string]names.Ident),
		markers:   make(map[string]*marker),
		imports:   make(map[string]map[string]struct{}),
		claims:    make(map[string]map[string]string),
		tags:      make(map[jumpKey]int),
		inherit:   newInheritance(),
	}
}

// Next returns a fresh number for a synthetic local or jump tag.
func (c *Context) Next() int {
	c.counter++
	return c.counter
}

// Fail records err unless an earlier failure is already recorded.
func (c *Context) Fail(err *Error) {
	if c.err == nil && err != nil {
		c.err = err
	}
}

// Err returns the first recorded failure.
func (c *Context) Err() *Error {
	return c.err
}

// Failed reports whether lowering of the unit already failed.
func (c *Context) Failed() bool {
	return c.err != nil
}

// MemberName resolves the Dart name of a function or accessor symbol,
// caching the result by its signature.
func (c *Context) MemberName(sym *ir.Symbol) names.Ident {
	key := memberKey(sym)
	if id, ok := c.overloads[key]; ok {
		return id
	}
	id := names.Member(sym)
	c.overloads[key] = id
	return id
}

func memberKey(sym *ir.Symbol) string {
	return fmt.Sprintf("%s|%s|%d|%t|%d|%s", sym.Kind, sym.Owner, sym.OverloadIndex,
		sym.PropertyClash, sym.Visibility, names.Signature(sym.Name, sym.Receiver, sym.ParamTypes()))
}

// RequireImport records that the unit references symbol from library.
func (c *Context) RequireImport(library, symbol string) {
	if library == "" || library == coreLibrary || library == c.Unit.Library {
		return
	}
	set := c.imports[library]
	if set == nil {
		set = make(map[string]struct{})
		c.imports[library] = set
	}
	set[symbol] = struct{}{}
}

// Imports returns the import directives sorted by URI with sorted show lists.
func (c *Context) Imports() []dart.Directive {
	uris := make([]string, 0, len(c.imports))
	for uri := range c.imports {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	out := make([]dart.Directive, 0, len(uris))
	for _, uri := range uris {
		show := make([]string, 0, len(c.imports[uri]))
		for s := range c.imports[uri] {
			show = append(show, s)
		}
		sort.Strings(show)
		out = append(out, dart.Directive{URI: uri, Show: show})
	}
	return out
}

// Claim reserves name in scope for entity. Claiming a name already held by
// a different entity records a NameCollision failure.
func (c *Context) Claim(scope, name, entity string, span source.Span) bool {
	held := c.claims[scope]
	if held == nil {
		held = make(map[string]string)
		c.claims[scope] = held
	}
	if prev, ok := held[name]; ok && prev != entity {
		where := scope
		if where == "" {
			where = c.Unit.Path
		}
		c.Fail(&Error{
			Code: diag.LowNameCollision,
			Span: span,
			Msg:  fmt.Sprintf("%s and %s both map to %q in %s", prev, entity, name, where),
		})
		return false
	}
	held[name] = entity
	return true
}

// Marker returns the sentinel class for an omitted argument of type impl,
// registering it on first use. A nil impl selects the shared marker.
func (c *Context) Marker(key string, impl *dart.Type) names.Ident {
	if m, ok := c.markers[key]; ok {
		return m.ident
	}
	m := &marker{ident: names.DefaultMarker(key), impl: impl}
	c.markers[key] = m
	return m.ident
}

// Diamonds returns the diamond resolutions recorded so far.
func (c *Context) Diamonds() []Diamond {
	return c.diamonds
}

func (c *Context) recordDiamond(d Diamond) {
	c.diamonds = append(c.diamonds, d)
}

// jumpTag returns the return tag of function target, allocating it on
// first use.
func (c *Context) jumpTag(kind JumpKind, target string) int {
	k := jumpKey{kind: kind, target: target}
	if tag, ok := c.tags[k]; ok {
		return tag
	}
	tag := c.newJumpTag(kind)
	c.tags[k] = tag
	return tag
}

// newJumpTag allocates a tag for one jump target and marks the signal
// class of kind as used.
func (c *Context) newJumpTag(kind JumpKind) int {
	c.signals[kind] = true
	return c.Next()
}

// lookupTag returns the tag of target if some jump to it was lowered.
func (c *Context) lookupTag(kind JumpKind, target string) (int, bool) {
	tag, ok := c.tags[jumpKey{kind: kind, target: target}]
	return tag, ok
}

// sortedMarkers returns the registered markers in name order.
func (c *Context) sortedMarkers() []*marker {
	out := make([]*marker, 0, len(c.markers))
	for _, m := range c.markers {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ident.String() < out[j].ident.String() })
	return out
}
