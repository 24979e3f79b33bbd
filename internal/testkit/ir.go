// Package testkit builds typed units for tests and checks their structural
// invariants.
package testkit

import (
	"kdart/internal/ir"
)

// Frequently used builtin types.
var (
	TInt    = ir.ClassType(ir.FQInt)
	TDouble = ir.ClassType(ir.FQDouble)
	TString = ir.ClassType(ir.FQString)
	TBool   = ir.ClassType(ir.FQBoolean)
	TUnit   = ir.ClassType(ir.FQUnit)
	TAny    = ir.ClassType(ir.FQAny)
)

// Library is the import URI given to units built by NewUnit.
func Library(path string) string {
	return "package:app/" + path + ".dt.g.dart"
}

// NewUnit wraps decls into a unit of package pkg stored at path.
func NewUnit(pkg, path string, decls ...ir.Decl) *ir.Unit {
	return &ir.Unit{
		Schema:  ir.SchemaVersion,
		Path:    path,
		Package: pkg,
		Library: Library(path),
		Decls:   decls,
	}
}

// Class returns a plain final class pkg.name.
func Class(pkg, name string, members ...ir.Decl) *ir.Class {
	return &ir.Class{Name: name, FQName: pkg + "." + name, Kind: ir.ClassPlain, Members: members}
}

// Interface returns an interface pkg.name.
func Interface(pkg, name string, members ...ir.Decl) *ir.Class {
	c := Class(pkg, name, members...)
	c.Kind = ir.ClassInterface
	c.Modality = ir.ModAbstract
	return c
}

// Implements adds interface types to c.
func Implements(c *ir.Class, ifaces ...*ir.Class) *ir.Class {
	for _, i := range ifaces {
		c.Supers = append(c.Supers, ir.SuperType{Type: i.Type(), Kind: ir.SuperInterface})
	}
	return c
}

// Extends sets the superclass of c.
func Extends(c, super *ir.Class) *ir.Class {
	c.Supers = append(c.Supers, ir.SuperType{Type: super.Type(), Kind: ir.SuperClass})
	return c
}

// Own sets the owner of every member function and property of c. Call it
// once all members are added.
func Own(c *ir.Class) *ir.Class {
	for _, m := range c.Members {
		switch x := m.Data.(type) {
		case *ir.Func:
			x.Owner, x.OwnerKind = c.FQName, c.Kind
			x.FQName = c.FQName + "." + x.Name
			if c.Kind == ir.ClassInterface && x.Body == nil {
				x.Modality = ir.ModAbstract
			}
		case *ir.Property:
			x.Owner, x.OwnerKind = c.FQName, c.Kind
			x.FQName = c.FQName + "." + x.Name
		}
	}
	return c
}

// Func returns a top-level function whose return target ID is its name.
func Func(name string, ret ir.Type, params []*ir.Param, stmts ...*ir.Stmt) *ir.Func {
	fn := &ir.Func{ID: name, Name: name, FQName: name, Return: ret, Params: params}
	if stmts != nil {
		fn.Body = Block(stmts...)
	}
	return fn
}

// Abstract returns a bodiless member function.
func Abstract(name string, ret ir.Type, params ...*ir.Param) *ir.Func {
	return &ir.Func{ID: name, Name: name, Return: ret, Params: params, Modality: ir.ModAbstract}
}

// Params collects parameters.
func Params(ps ...*ir.Param) []*ir.Param {
	return ps
}

// Param returns a parameter without default.
func Param(name string, t ir.Type) *ir.Param {
	return &ir.Param{Name: name, Type: t}
}

// Defaulted returns a parameter defaulting to def.
func Defaulted(name string, t ir.Type, def *ir.Expr) *ir.Param {
	return &ir.Param{Name: name, Type: t, Default: def}
}

// Property returns a final member property.
func Property(name string, t ir.Type, init *ir.Expr) *ir.Property {
	return &ir.Property{Name: name, Type: t, Init: init}
}

// Primary returns a primary constructor. Each param named in fields gets a
// property declared by it, appended to c.
func Primary(c *ir.Class, params []*ir.Param, fields ...string) *ir.Constructor {
	ctor := &ir.Constructor{Primary: true, Params: params}
	for _, f := range fields {
		for _, p := range params {
			if p.Name == f {
				c.Members = append(c.Members, ir.PropertyDecl(&ir.Property{Name: f, Type: p.Type, FromParam: f}))
			}
		}
	}
	c.Members = append([]ir.Decl{ir.CtorDecl(ctor)}, c.Members...)
	return ctor
}

// Block collects statements.
func Block(stmts ...*ir.Stmt) *ir.Block {
	return &ir.Block{Stmts: stmts}
}

// Do wraps e as a statement.
func Do(e *ir.Expr) *ir.Stmt {
	return &ir.Stmt{Kind: ir.StmtExpr, Data: ir.ExprStmtData{Expr: e}}
}

// Val declares a final local.
func Val(name string, t ir.Type, init *ir.Expr) *ir.Stmt {
	return &ir.Stmt{Kind: ir.StmtVar, Data: ir.VarData{Name: name, Type: t, Init: init}}
}

// While returns a labelled while loop.
func While(label string, cond *ir.Expr, body ...*ir.Stmt) *ir.Stmt {
	return &ir.Stmt{Kind: ir.StmtWhile, Data: ir.WhileData{Label: label, Cond: cond, Body: Block(body...)}}
}

// ForEach returns a labelled for-in loop.
func ForEach(label, v string, vt ir.Type, iterable *ir.Expr, body ...*ir.Stmt) *ir.Stmt {
	return &ir.Stmt{Kind: ir.StmtForEach, Data: ir.ForEachData{Label: label, Var: v, VarType: vt, Iterable: iterable, Body: Block(body...)}}
}

// Int returns an Int literal.
func Int(v int64) *ir.Expr {
	return &ir.Expr{Kind: ir.ExprConst, Type: TInt, Data: ir.ConstData{Kind: ir.ConstInt, Int: v}}
}

// Str returns a String literal.
func Str(s string) *ir.Expr {
	return &ir.Expr{Kind: ir.ExprConst, Type: TString, Data: ir.ConstData{Kind: ir.ConstString, Str: s}}
}

// Bool returns a Boolean literal.
func Bool(b bool) *ir.Expr {
	return &ir.Expr{Kind: ir.ExprConst, Type: TBool, Data: ir.ConstData{Kind: ir.ConstBool, Bool: b}}
}

// Get reads a local or parameter.
func Get(name string, t ir.Type) *ir.Expr {
	return &ir.Expr{Kind: ir.ExprGetValue, Type: t, Data: ir.GetValueData{Name: name}}
}

// This reads the receiver of class fq.
func This(fq string) *ir.Expr {
	return &ir.Expr{Kind: ir.ExprThis, Type: ir.ClassType(fq), Data: ir.ThisData{Class: fq}}
}

// Bin applies an intrinsic binary operator.
func Bin(op ir.BinaryOp, left, right *ir.Expr, t ir.Type) *ir.Expr {
	return &ir.Expr{Kind: ir.ExprBinary, Type: t, Data: ir.BinaryData{Op: op, Left: left, Right: right}}
}

// Call calls sym on recv (nil for top-level functions).
func Call(sym ir.Symbol, recv *ir.Expr, ret ir.Type, args ...*ir.Expr) *ir.Expr {
	return &ir.Expr{Kind: ir.ExprCall, Type: ret, Data: ir.CallData{Callee: sym, Receiver: recv, Args: args}}
}

// SuperCall calls sym through `super<T>`.
func SuperCall(sym ir.Symbol, super ir.Type, ret ir.Type, args ...*ir.Expr) *ir.Expr {
	return &ir.Expr{Kind: ir.ExprCall, Type: ret, Data: ir.CallData{Callee: sym, Super: &super, Args: args}}
}

// Builtin returns the symbol of a top-level runtime function.
func Builtin(name string, params ...ir.Type) ir.Symbol {
	sym := ir.Symbol{Kind: ir.SymFunc, Name: name}
	for i, p := range params {
		sym.Params = append(sym.Params, ir.ParamSig{Name: "p" + string(rune('0'+i)), Type: p})
	}
	return sym
}

// Println calls the runtime println with v.
func Println(v *ir.Expr) *ir.Expr {
	return Call(Builtin("println", TAny.WithNullable(true)), nil, TUnit, v)
}

// Return returns v (nil for Unit) from the function with ID target.
func Return(target string, v *ir.Expr) *ir.Expr {
	return &ir.Expr{Kind: ir.ExprReturn, Type: ir.ClassType(ir.FQNothing), Data: ir.ReturnData{Target: target, Value: v}}
}

// Break leaves the loop labelled loop.
func Break(loop string) *ir.Expr {
	return &ir.Expr{Kind: ir.ExprBreak, Type: ir.ClassType(ir.FQNothing), Data: ir.BreakData{Loop: loop}}
}

// Continue continues the loop labelled loop.
func Continue(loop string) *ir.Expr {
	return &ir.Expr{Kind: ir.ExprContinue, Type: ir.ClassType(ir.FQNothing), Data: ir.ContinueData{Loop: loop}}
}

// Lambda returns a function literal with ID id and the given body.
func Lambda(id string, ret ir.Type, params []*ir.Param, stmts ...*ir.Stmt) *ir.Expr {
	fn := &ir.Func{ID: id, Return: ret, Params: params, Body: Block(stmts...)}
	ft := ir.Type{Kind: ir.TypeFunction, Return: &ret}
	for _, p := range params {
		ft.Params = append(ft.Params, p.Type)
	}
	return &ir.Expr{Kind: ir.ExprLambda, Type: ft, Data: ir.LambdaData{Fn: fn}}
}

// If returns a when without subject; els may be nil.
func If(cond, then, els *ir.Expr, t ir.Type) *ir.Expr {
	branches := []ir.WhenBranch{{Cond: cond, Result: then}}
	if els != nil {
		branches = append(branches, ir.WhenBranch{Result: els})
	}
	return &ir.Expr{Kind: ir.ExprWhen, Type: t, Data: ir.WhenData{Branches: branches}}
}

// List returns a list literal of elem.
func List(elem ir.Type, elems ...*ir.Expr) *ir.Expr {
	return &ir.Expr{Kind: ir.ExprListLit, Type: ir.ClassType(ir.FQList, elem), Data: ir.ListLitData{Elem: elem, Elems: elems}}
}

// ForEachCall calls `iterable.forEach(fn)` from the runtime library.
func ForEachCall(iterable, fn *ir.Expr) *ir.Expr {
	sym := ir.Symbol{
		Kind:     ir.SymFunc,
		Name:     "forEach",
		Receiver: &iterable.Type,
		Params:   []ir.ParamSig{{Name: "action", Type: fn.Type}},
	}
	return &ir.Expr{Kind: ir.ExprCall, Type: TUnit, Data: ir.CallData{Callee: sym, ExtReceiver: iterable, Args: []*ir.Expr{fn}}}
}
