// Package lower turns typed units into Dart syntax trees.
//
// One lowerer walks one unit top-down, threading the unit's Context through
// every step. Declarations are mapped in lower_decl.go and its siblings,
// executable code in lower_stmt.go and lower_expr.go. The first failure is
// recorded in the Context and aborts the unit; nothing is returned for a
// unit that failed.
package lower

import (
	"kdart/internal/dart"
	"kdart/internal/ir"
	"kdart/internal/names"
	"kdart/internal/source"
)

// Result is the lowered form of one unit.
type Result struct {
	Library  *dart.Library
	Diamonds []Diamond
}

// Lower lowers unit into a Dart library. index covers every unit of the
// program and is only read.
func Lower(unit *ir.Unit, index *ir.Index) (*Result, error) {
	if unit == nil {
		return nil, malformed(source.NoSpan, "no unit to lower")
	}
	ctx := NewContext(unit, index)
	l := &lowerer{
		ctx:  ctx,
		exts: make(map[string]*extGroup),
	}
	l.lowerUnit(unit)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lib := &dart.Library{
		Directives: ctx.Imports(),
		Decls:      l.out,
	}
	return &Result{Library: lib, Diamonds: ctx.Diamonds()}, nil
}

// lowerer holds the walk state for one unit.
type lowerer struct {
	ctx *Context
	out []*dart.Decl

	exts     map[string]*extGroup
	extOrder []*extGroup

	fns      []*fnScope
	loops    []*loopScope
	subjects []*dart.Expr

	// thisName renders the dispatch receiver; empty renders `this`.
	thisName string
	// class is the class whose members are being lowered.
	class *classScope
	// subst binds the type parameters of an interface whose default
	// members are being copied into class.
	subst map[string]ir.Type
}

// fnScope is one function boundary: a declared function, a lambda or a
// closure introduced by lowering (id == "").
type fnScope struct {
	id      string
	ret     ir.Type
	dynamic map[string]bool
	// result is returned by a bare return; set in factory constructors.
	result *dart.Expr
}

type extGroup struct {
	decl    *dart.Decl
	name    names.Ident
	on      dart.Type
	members []*dart.Decl
}

func (l *lowerer) fail(err *Error) {
	l.ctx.Fail(err)
}

func (l *lowerer) failed() bool {
	return l.ctx.Failed()
}

func (l *lowerer) emit(d *dart.Decl) {
	if d != nil {
		l.out = append(l.out, d)
	}
}

func (l *lowerer) lowerUnit(unit *ir.Unit) {
	for _, d := range unit.Decls {
		if l.failed() {
			return
		}
		l.lowerTopLevel(d)
	}
	for _, g := range l.extOrder {
		x := g.decl.Data.(dart.ExtensionData)
		x.Members = g.members
		g.decl.Data = x
	}
	l.emitMarkers()
	l.emitSignals()
}

func (l *lowerer) lowerTopLevel(d ir.Decl) {
	switch x := d.Data.(type) {
	case *ir.Class:
		l.lowerClass(x)
	case *ir.Func:
		if x.Receiver != nil {
			l.extensionMember(*x.Receiver, l.lowerMethod(x), x.Span)
			return
		}
		l.emit(l.lowerTopFunc(x))
	case *ir.Property:
		l.lowerTopProperty(x)
	case *ir.Constructor:
		l.fail(malformed(x.Span, "constructor outside of a class"))
	default:
		l.fail(malformed(d.Data.DeclSpan(), "unknown declaration kind %s", d.Kind))
	}
}

// extensionMember adds m to the extension container of recv, creating the
// container at the position of its first member.
func (l *lowerer) extensionMember(recv ir.Type, m *dart.Decl, span source.Span) {
	if m == nil {
		return
	}
	name := names.ExtensionContainer(recv, l.ctx.Unit.Path)
	key := name.String()
	g := l.exts[key]
	if g == nil {
		on := l.typ(eraseTypeParams(recv))
		g = &extGroup{name: name, on: on}
		g.decl = &dart.Decl{Kind: dart.DeclExtension, Data: dart.ExtensionData{Name: key, On: on}}
		l.ctx.Claim("", key, "extension on "+recv.String(), span)
		l.exts[key] = g
		l.extOrder = append(l.extOrder, g)
		l.emit(g.decl)
	}
	g.members = append(g.members, m)
}

// pushFn enters a function boundary.
func (l *lowerer) pushFn(id string, ret ir.Type) *fnScope {
	fs := &fnScope{id: id, ret: ret, dynamic: make(map[string]bool)}
	l.fns = append(l.fns, fs)
	return fs
}

func (l *lowerer) popFn() {
	l.fns = l.fns[:len(l.fns)-1]
}

func (l *lowerer) currentFn() *fnScope {
	if len(l.fns) == 0 {
		return nil
	}
	return l.fns[len(l.fns)-1]
}

// withThis lowers fn with the dispatch receiver rendered as name.
func (l *lowerer) withThis(name string, fn func()) {
	saved := l.thisName
	l.thisName = name
	fn()
	l.thisName = saved
}

func (l *lowerer) thisExpr() *dart.Expr {
	if l.thisName != "" {
		return dart.Ident(l.thisName)
	}
	return dart.This()
}
