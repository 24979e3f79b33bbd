package format_test

import (
	"strings"
	"testing"

	"kdart/internal/dart"
	"kdart/internal/format"
)

func TestParenthesesFollowPrecedence(t *testing.T) {
	a, b, c := dart.Ident("a"), dart.Ident("b"), dart.Ident("c")
	cases := []struct {
		name string
		expr *dart.Expr
		want string
	}{
		{"left assoc", dart.Bin(dart.OpSub, dart.Bin(dart.OpSub, a, b), c), "a - b - c"},
		{"right operand", dart.Bin(dart.OpSub, a, dart.Bin(dart.OpSub, b, c)), "a - (b - c)"},
		{"looser operand", dart.Bin(dart.OpMul, dart.Bin(dart.OpAdd, a, b), c), "(a + b) * c"},
		{"tighter operand", dart.Bin(dart.OpAdd, a, dart.Bin(dart.OpMul, b, c)), "a + b * c"},
		{"equality left", dart.Bin(dart.OpEq, dart.Bin(dart.OpEq, a, b), c), "(a == b) == c"},
		{"receiver", dart.Call(dart.Bin(dart.OpAdd, a, b), "abs"), "(a + b).abs()"},
		{"cast receiver", dart.Prop(dart.As(a, dart.Named("String")), "length"), "(a as String).length"},
		{"not null", dart.NotNull(dart.Bin(dart.OpIfNull, a, b)), "(a ?? b)!"},
		{"negated literal", dart.Neg(dart.Int(-1)), "-(-1)"},
		{"negative receiver", dart.Call(dart.Int(-4), "abs"), "(-4).abs()"},
		{"conditional cond", dart.Cond(dart.Cond(a, b, c), a, b), "(a ? b : c) ? a : b"},
		{"conditional branch", dart.Cond(a, dart.Cond(b, a, c), dart.Throw(c)), "a ? b ? a : c : throw c"},
		{"not", dart.Not(dart.Is(a, dart.Named("int"))), "!(a is int)"},
		{"invoked lambda", dart.Invoke(dart.Lambda(dart.Params{}, dart.Return(a))), "(() {\n  return a;\n})()"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := format.Expr(tc.expr); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLiterals(t *testing.T) {
	cases := []struct {
		expr *dart.Expr
		want string
	}{
		{dart.Str("it's $5\n"), `'it\'s \$5\n'`},
		{dart.Str("tab\there"), `'tab\there'`},
		{dart.Str("\x01"), `'\x01'`},
		{dart.Double(2), "2.0"},
		{dart.Double(0.5), "0.5"},
		{dart.Bool(true), "true"},
		{dart.Null(), "null"},
	}
	for _, tc := range cases {
		if got := format.Expr(tc.expr); got != tc.want {
			t.Errorf("got %s, want %s", got, tc.want)
		}
	}
}

func TestInterpolation(t *testing.T) {
	parts := []*dart.Expr{
		dart.Str("x="), dart.Ident("x"),
		dart.Str(", y="), dart.Ident("y"), dart.Str("s"),
		dart.Str(" sum="), dart.Bin(dart.OpAdd, dart.Ident("x"), dart.Ident("y")),
	}
	e := &dart.Expr{Kind: dart.ExprStringInterpolation, Data: dart.StringInterpolationData{Parts: parts}}
	want := `'x=$x, y=${y}s sum=${x + y}'`
	if got := format.Expr(e); got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestStatements(t *testing.T) {
	loop := &dart.Stmt{Kind: dart.StmtFor, Data: dart.ForData{
		Init:    &dart.Stmt{Kind: dart.StmtVarDecl, Data: dart.VarDeclData{Name: "i", Type: dart.Named("int").Ptr(), Init: dart.Int(0)}},
		Cond:    dart.Bin(dart.OpLess, dart.Ident("i"), dart.Int(3)),
		Updates: []*dart.Expr{{Kind: dart.ExprPostfix, Data: dart.PostfixData{Op: "++", Operand: dart.Ident("i")}}},
		Body:    dart.ExprStmt(dart.Call(nil, "print", dart.Pos(dart.Ident("i"))...)),
	}}
	labeled := &dart.Stmt{Kind: dart.StmtLabeled, Data: dart.LabeledData{Label: "outer", Body: loop}}
	got := format.Stmt(labeled)
	want := "outer: for (int i = 0; i < 3; i++) {\n  print(i);\n}\n"
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}

	chain := dart.If(dart.Ident("a"), dart.Return(dart.Int(1)), dart.If(dart.Ident("b"), dart.Return(dart.Int(2)), dart.Return(dart.Int(3))))
	got = format.Stmt(chain)
	for _, frag := range []string{"if (a) {", "} else if (b) {", "} else {", "return 3;"} {
		if !strings.Contains(got, frag) {
			t.Fatalf("missing %q in:\n%s", frag, got)
		}
	}

	try := &dart.Stmt{Kind: dart.StmtTry, Data: dart.TryData{
		Body:    dart.Block(dart.ExprStmt(dart.Call(nil, "run"))),
		Catches: []dart.CatchClause{{On: dart.Named("_$Break").Ptr(), Exception: "jump", Body: dart.Block(dart.Rethrow())}},
	}}
	got = format.Stmt(try)
	if !strings.Contains(got, "} on _$Break catch (jump) {\n  rethrow;\n}") {
		t.Fatalf("unexpected try:\n%s", got)
	}
}

func TestLibraryLayout(t *testing.T) {
	ctor := &dart.Decl{Kind: dart.DeclConstructor, Data: dart.ConstructorData{
		Class:  "Point",
		Params: dart.Params{Positional: []*dart.Param{{Name: "x", Field: true}}, Named: []*dart.Param{{Name: "y", Type: dart.Named("int").Ptr(), Default: dart.Int(0)}}},
		Initializers: []dart.Initializer{
			{Kind: dart.InitField, Field: "y", Value: dart.Ident("y")},
		},
	}}
	x := &dart.Decl{Kind: dart.DeclField, Data: dart.VariablesData{Name: "x", Type: dart.Named("int").Ptr(), Final: true}}
	y := &dart.Decl{Kind: dart.DeclField, Data: dart.VariablesData{Name: "y", Type: dart.Named("int").Ptr(), Final: true}}
	str := &dart.Decl{Kind: dart.DeclMethod, Annotations: []string{"override"}, Data: dart.MethodData{
		Name:       "toString",
		ReturnType: dart.Named("String").Ptr(),
		Body:       dart.ExprBody(dart.Str("Point")),
	}}
	lib := &dart.Library{
		Directives: []dart.Directive{{URI: "dart:math", Show: []string{"max", "min"}}},
		Decls: []*dart.Decl{
			{Kind: dart.DeclClass, Data: dart.ClassData{Name: "Point", Members: []*dart.Decl{ctor, x, y, str}}},
			{Kind: dart.DeclEnum, Data: dart.EnumData{Name: "Dir", Values: []dart.EnumValue{{Name: "up"}, {Name: "down"}}}},
		},
	}
	out, err := format.Library(lib, format.Options{Header: []string{"Generated code. Do not edit."}})
	if err != nil {
		t.Fatalf("Library: %v", err)
	}
	want := `// Generated code. Do not edit.

import 'dart:math' show max, min;

class Point {
  Point(this.x, {int y = 0}) : y = y;

  final int x;
  final int y;

  @override
  String toString() => 'Point';
}

enum Dir { up, down }
`
	if string(out) != want {
		t.Fatalf("got:\n%s\nwant:\n%s", out, want)
	}
}

func TestEnumWithMembers(t *testing.T) {
	enum := &dart.Decl{Kind: dart.DeclEnum, Data: dart.EnumData{
		Name: "Color",
		Values: []dart.EnumValue{
			{Name: "red", Args: dart.Pos(dart.Int(1))},
			{Name: "green", Args: dart.Pos(dart.Int(2))},
		},
		Members: []*dart.Decl{
			{Kind: dart.DeclConstructor, Data: dart.ConstructorData{Class: "Color", Const: true, Params: dart.Params{Positional: []*dart.Param{{Name: "rgb", Field: true}}}}},
			{Kind: dart.DeclField, Data: dart.VariablesData{Name: "rgb", Type: dart.Named("int").Ptr(), Final: true}},
		},
	}}
	got := format.Decl(enum)
	want := "enum Color {\n  red(1),\n  green(2);\n\n  const Color(this.rgb);\n\n  final int rgb;\n}\n"
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestAccessorsDropParameterList(t *testing.T) {
	getter := &dart.Decl{Kind: dart.DeclFunction, Data: dart.FunctionDeclData{
		Name:       "answer",
		ReturnType: dart.Named("int").Ptr(),
		Getter:     true,
		Body:       dart.BlockBody(dart.Return(dart.Int(42))),
	}}
	if got := format.Decl(getter); got != "int get answer {\n  return 42;\n}\n" {
		t.Fatalf("got %q", got)
	}
	op := &dart.Decl{Kind: dart.DeclMethod, Data: dart.MethodData{
		Name:       "+",
		Kind:       dart.MethodOperator,
		ReturnType: dart.Named("V").Ptr(),
		Params:     dart.Params{Positional: []*dart.Param{{Name: "other", Type: dart.Named("V").Ptr()}}},
		Abstract:   true,
	}}
	if got := format.Decl(op); got != "V operator +(V other);\n" {
		t.Fatalf("got %q", got)
	}
}
