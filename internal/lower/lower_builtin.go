package lower

import (
	"kdart/internal/dart"
	"kdart/internal/ir"
)

// Builtin members whose Dart counterpart has another name or shape. Members
// missing from these tables keep their name.
var (
	builtinGetters = map[string]string{
		"size":    "length",
		"ordinal": "index",
	}
	builtinRenames = map[string]string{
		"uppercase":     "toUpperCase",
		"lowercase":     "toLowerCase",
		"joinToString":  "join",
		"toMutableList": "toList",
		"toMutableSet":  "toSet",
		"all":           "every",
		"filter":        "where",
	}
	// Zero-argument functions that are getters in Dart.
	builtinAsGetter = map[string]string{
		"isEmpty":    "isEmpty",
		"isNotEmpty": "isNotEmpty",
		"first":      "first",
		"last":       "last",
		"single":     "single",
		"hashCode":   "hashCode",
		"count":      "length",
		"iterator":   "iterator",
		"reversed":   "reversed",
	}
	// Functions returning a lazy Iterable in Dart but a List in the source.
	builtinEager = map[string]bool{
		"map":   true,
		"where": true,
	}
)

func (l *lowerer) builtinProperty(d ir.GetPropertyData) *dart.Expr {
	name := d.Property.Name
	if d.Receiver == nil {
		return dart.Ident(name)
	}
	recv := l.expr(d.Receiver)
	if d.Receiver.Type.Is(ir.FQPair) {
		switch name {
		case "first":
			name = "key"
		case "second":
			name = "value"
		}
	}
	if name == "lastIndex" {
		return dart.Bin(dart.OpSub, l.access(recv, "length", d.Safe), dart.Int(1))
	}
	if n, ok := builtinGetters[name]; ok {
		name = n
	}
	return l.access(recv, name, d.Safe)
}

// builtinArgs lowers the written arguments of a builtin call in parameter
// order. A vararg list literal is passed through as one argument.
func (l *lowerer) builtinArgs(d ir.CallData) []*dart.Expr {
	var out []*dart.Expr
	for _, a := range d.Args {
		if a != nil {
			out = append(out, l.expr(a))
		}
	}
	return out
}

func (l *lowerer) builtinCall(e *ir.Expr, d ir.CallData) *dart.Expr {
	name := d.Callee.Name
	if d.Receiver == nil && d.ExtReceiver == nil {
		return l.builtinFunction(e, d)
	}
	recv := d.Receiver
	if recv == nil {
		recv = d.ExtReceiver
	}
	target := l.expr(recv)
	args := l.builtinArgs(d)
	switch name {
	case "equals":
		if len(args) == 1 {
			return dart.Bin(dart.OpEq, target, args[0])
		}
	case "get":
		if len(args) == 1 {
			return &dart.Expr{Kind: dart.ExprIndex, Data: dart.IndexData{Target: target, Index: args[0], NullAware: d.Safe}}
		}
	case "set":
		if len(args) == 2 && !d.Safe {
			return dart.Assign(&dart.Expr{Kind: dart.ExprIndex, Data: dart.IndexData{Target: target, Index: args[0]}}, args[1])
		}
	case "to":
		if len(args) == 1 {
			return dart.New(dart.Named("MapEntry"), "", dart.Pos(target, args[0])...)
		}
	case "isBlank":
		trimmed := l.method(target, "trim", nil, d.Safe)
		return dart.Prop(trimmed, "isEmpty")
	}
	if getter, ok := builtinAsGetter[name]; ok && len(args) == 0 {
		return l.access(target, getter, d.Safe)
	}
	if n, ok := builtinRenames[name]; ok {
		name = n
	}
	call := l.method(target, name, dart.Pos(args...), d.Safe)
	if builtinEager[name] {
		return l.method(call, "toList", nil, false)
	}
	return call
}

func (l *lowerer) method(target *dart.Expr, name string, args []dart.Arg, safe bool) *dart.Expr {
	return &dart.Expr{Kind: dart.ExprMethodInvocation, Data: dart.MethodInvocationData{Target: target, Name: name, Args: args, NullAware: safe}}
}

// builtinFunction lowers calls of top-level builtins.
func (l *lowerer) builtinFunction(e *ir.Expr, d ir.CallData) *dart.Expr {
	args := l.builtinArgs(d)
	elem := func(i int) dart.Type {
		if i < len(e.Type.Args) {
			return l.typ(e.Type.Args[i])
		}
		return dart.Dynamic()
	}
	list := func() *dart.Expr {
		lit := dart.ListLiteralData{Elem: elem(0).Ptr()}
		if len(args) == 1 && args[0].Kind == dart.ExprListLiteral {
			lit.Elems = args[0].Data.(dart.ListLiteralData).Elems
		} else {
			lit.Elems = args
		}
		return &dart.Expr{Kind: dart.ExprListLiteral, Data: lit}
	}
	switch d.Callee.Name {
	case "println":
		if len(args) == 0 {
			return dart.Call(nil, "print", dart.Pos(dart.Str(""))...)
		}
		return dart.Call(nil, "print", dart.Pos(args[0])...)
	case "print":
		l.ctx.RequireImport("dart:io", "stdout")
		return dart.Call(dart.Ident("stdout"), "write", dart.Pos(args...)...)
	case "listOf", "mutableListOf", "arrayListOf", "arrayOf", "emptyList", "emptyArray":
		return list()
	case "setOf", "mutableSetOf", "hashSetOf", "emptySet":
		return dart.New(dart.Named("Set", elem(0)), "of", dart.Pos(list())...)
	case "mapOf", "mutableMapOf", "hashMapOf", "emptyMap":
		entries := list()
		x := entries.Data.(dart.ListLiteralData)
		x.Elem = dart.Named("MapEntry", elem(0), elem(1)).Ptr()
		entries.Data = x
		return dart.New(dart.Named("Map", elem(0), elem(1)), "fromEntries", dart.Pos(entries)...)
	case "error":
		return dart.Throw(dart.New(dart.Named("StateError"), "", dart.Pos(args...)...))
	case "TODO":
		return dart.Throw(dart.New(dart.Named("UnimplementedError"), "", dart.Pos(args...)...))
	case "require", "check":
		if len(args) == 0 {
			break
		}
		errType, msg := "ArgumentError", "Failed requirement."
		if d.Callee.Name == "check" {
			errType, msg = "StateError", "Check failed."
		}
		return dart.Cond(args[0], dart.Null(), dart.Throw(dart.New(dart.Named(errType), "", dart.Pos(dart.Str(msg))...)))
	case "maxOf", "minOf":
		fn := "max"
		if d.Callee.Name == "minOf" {
			fn = "min"
		}
		l.ctx.RequireImport("dart:math", fn)
		return dart.Call(nil, fn, dart.Pos(args...)...)
	}
	return dart.Call(nil, d.Callee.Name, dart.Pos(args...)...)
}
