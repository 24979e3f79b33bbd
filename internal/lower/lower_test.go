package lower_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"kdart/internal/diag"
	"kdart/internal/format"
	"kdart/internal/ir"
	"kdart/internal/lower"
	"kdart/internal/names"
	"kdart/internal/testkit"
)

// lowerText lowers unit against an index of unit plus others and prints it.
func lowerText(t *testing.T, unit *ir.Unit, others ...*ir.Unit) string {
	t.Helper()
	res, err := lowerUnit(unit, others...)
	if err != nil {
		t.Fatalf("lower %s: %v", unit.Path, err)
	}
	out, err := format.Library(res.Library, format.Options{})
	if err != nil {
		t.Fatalf("format %s: %v", unit.Path, err)
	}
	return string(out)
}

func lowerUnit(unit *ir.Unit, others ...*ir.Unit) (*lower.Result, error) {
	units := append([]*ir.Unit{unit}, others...)
	return lower.Lower(unit, ir.NewIndex(&ir.Program{Units: units}))
}

func lowerError(t *testing.T, unit *ir.Unit) *lower.Error {
	t.Helper()
	_, err := lowerUnit(unit)
	if err == nil {
		t.Fatalf("expected %s to fail", unit.Path)
	}
	var lerr *lower.Error
	if !errors.As(err, &lerr) {
		t.Fatalf("expected *lower.Error, got %T: %v", err, err)
	}
	return lerr
}

func mustContain(t *testing.T, text string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(text, p) {
			t.Fatalf("output lacks %q:\n%s", p, text)
		}
	}
}

func sizeFunc() *ir.Func {
	return testkit.Func("size", testkit.TInt, nil, testkit.Do(testkit.Return("size", testkit.Int(4))))
}

func symbolOf(unit *ir.Unit, fn *ir.Func) ir.Symbol {
	return fn.Symbol(unit.Library, unit.Path)
}

func TestNilUnitIsMalformed(t *testing.T) {
	res, err := lower.Lower(nil, nil)
	if res != nil {
		t.Fatalf("expected no result, got %v", res)
	}
	var lerr *lower.Error
	if !errors.As(err, &lerr) {
		t.Fatalf("expected *lower.Error, got %T: %v", err, err)
	}
	if lerr.Code != diag.LowMalformedInput {
		t.Fatalf("code = %v, want %v", lerr.Code, diag.LowMalformedInput)
	}
}

func TestTopLevelFunction(t *testing.T) {
	fn := testkit.Func("twice", testkit.TInt, testkit.Params(testkit.Param("x", testkit.TInt)),
		testkit.Do(testkit.Return("twice", testkit.Bin(ir.BinMul, testkit.Get("x", testkit.TInt), testkit.Int(2), testkit.TInt))))
	got := lowerText(t, testkit.NewUnit("app", "math", ir.FuncDecl(fn)))
	want := "int twice(int x) {\n  return x * 2;\n}\n"
	if got != want {
		t.Fatalf("got\n%s\nwant\n%s", got, want)
	}
}

func TestGenericFunctionKeepsTypeParameter(t *testing.T) {
	tv := ir.Type{Kind: ir.TypeParamRef, FQName: "T"}
	fn := testkit.Func("identity", tv, testkit.Params(testkit.Param("x", tv)),
		testkit.Do(testkit.Return("identity", testkit.Get("x", tv))))
	fn.TypeParams = []ir.TypeParam{{Name: "T"}}
	got := lowerText(t, testkit.NewUnit("app", "generic", ir.FuncDecl(fn)))
	want := "T identity<T>(T x) {\n  return x;\n}\n"
	if got != want {
		t.Fatalf("got\n%s\nwant\n%s", got, want)
	}
}

func TestDefaultsRoundTrip(t *testing.T) {
	params := func() []*ir.Param {
		return testkit.Params(
			testkit.Param("a", testkit.TInt),
			testkit.Defaulted("b", testkit.TInt, testkit.Int(1)),
			testkit.Defaulted("c", testkit.TInt, testkit.Int(2)),
		)
	}
	body := testkit.Do(testkit.Println(testkit.Get("a", testkit.TInt)))
	positional := testkit.Func("f", testkit.TUnit, params(), body)
	positional.Annotations = []ir.Annotation{{Name: ir.AnnDartPositional}}
	named := testkit.Func("g", testkit.TUnit, params(), body)

	unit := testkit.NewUnit("app", "defaults", ir.FuncDecl(positional), ir.FuncDecl(named))
	main := testkit.Func("main", testkit.TUnit, nil,
		testkit.Do(testkit.Call(symbolOf(unit, positional), nil, testkit.TUnit, testkit.Int(0), nil, testkit.Int(5))),
		testkit.Do(testkit.Call(symbolOf(unit, named), nil, testkit.TUnit, testkit.Int(0), nil, testkit.Int(5))),
		testkit.Do(testkit.Call(symbolOf(unit, named), nil, testkit.TUnit, testkit.Int(0))),
	)
	unit.Decls = append(unit.Decls, ir.FuncDecl(main))

	got := lowerText(t, unit)
	mustContain(t, got,
		"void f(int a, [int b = 1, int c = 2]) {\n  print(a);\n}",
		"void g(int a, {int b = 1, int c = 2}) {\n  print(a);\n}",
		"  f(0, 1, 5);\n",
		"  g(0, c: 5);\n",
		"  g(0);\n",
	)
}

func TestComplexDefaultsUseSentinels(t *testing.T) {
	unit := testkit.NewUnit("app", "sentinel")
	size := sizeFunc()
	callSize := testkit.Call(symbolOf(unit, size), nil, testkit.TInt)
	nullableString := testkit.TString.WithNullable(true)
	fn := testkit.Func("greet", testkit.TUnit, testkit.Params(
		testkit.Defaulted("n", testkit.TInt, callSize),
		testkit.Defaulted("label", nullableString, testkit.Str("x")),
		testkit.Defaulted("tag", nullableString, testkit.Call(testkit.Builtin("readLine"), nil, nullableString)),
	), testkit.Do(testkit.Println(testkit.Get("n", testkit.TInt))))
	unit.Decls = []ir.Decl{ir.FuncDecl(size), ir.FuncDecl(fn)}

	got := lowerText(t, unit)
	mustContain(t, got,
		"void greet({int? n, String? label = 'x', dynamic tag = const _$DefaultValue()}) {",
		"  n = n == null ? size() : n;\n",
		"  tag = identical(tag, const _$DefaultValue()) ? readLine() : tag as String?;\n",
		"class _$DefaultValue {\n  const _$DefaultValue();\n\n  dynamic noSuchMethod(Invocation invocation) {}\n}\n",
	)
	if strings.Count(got, "class _$DefaultValue") != 1 {
		t.Fatalf("marker emitted more than once:\n%s", got)
	}
}

func TestNominalMarkerImplementsType(t *testing.T) {
	box := testkit.Class("app", "Box")
	boxType := box.Type().WithNullable(true)
	unit := testkit.NewUnit("app", "marker", ir.ClassDecl(box))
	mk := testkit.Func("make", boxType, nil, testkit.Do(testkit.Return("make", &ir.Expr{
		Kind: ir.ExprConst, Type: boxType, Data: ir.ConstData{Kind: ir.ConstNull},
	})))
	fn := testkit.Func("use", testkit.TUnit, testkit.Params(
		testkit.Defaulted("b", boxType, testkit.Call(symbolOf(unit, mk), nil, boxType)),
	), testkit.Do(testkit.Println(testkit.Get("b", boxType))))
	unit.Decls = append(unit.Decls, ir.FuncDecl(mk), ir.FuncDecl(fn))

	got := lowerText(t, unit)
	mustContain(t, got,
		"void use({Box? b = const _$DefaultBoxValue()}) {",
		"b = identical(b, const _$DefaultBoxValue()) ? make() : b as Box?;",
		"class _$DefaultBoxValue implements Box {",
	)
}

func TestOverloadNamesAreStable(t *testing.T) {
	first := testkit.Func("f", testkit.TUnit, testkit.Params(testkit.Param("x", testkit.TInt)),
		testkit.Do(testkit.Println(testkit.Get("x", testkit.TInt))))
	second := testkit.Func("f", testkit.TUnit, testkit.Params(testkit.Param("x", testkit.TString)),
		testkit.Do(testkit.Println(testkit.Get("x", testkit.TString))))
	second.ID = "f#1"
	second.OverloadIndex = 1
	lib := testkit.NewUnit("app", "a", ir.FuncDecl(first), ir.FuncDecl(second))

	suffixed := "f" + names.OverloadSuffix("f", nil, []ir.Type{testkit.TString})
	if len(suffixed) != len("f$")+8 {
		t.Fatalf("unexpected overload name %q", suffixed)
	}
	user := testkit.NewUnit("app", "b", ir.FuncDecl(testkit.Func("main", testkit.TUnit, nil,
		testkit.Do(testkit.Call(symbolOf(lib, first), nil, testkit.TUnit, testkit.Int(1))),
		testkit.Do(testkit.Call(symbolOf(lib, second), nil, testkit.TUnit, testkit.Str("s"))),
	)))

	decl := lowerText(t, lib, user)
	mustContain(t, decl, "void f(int x) {", "void "+suffixed+"(String x) {")
	calls := lowerText(t, user, lib)
	mustContain(t, calls,
		"import 'package:app/a.dt.g.dart' show f, "+suffixed+";\n",
		"  f(1);\n",
		"  "+suffixed+"('s');\n",
	)
}

func TestLoweringIsDeterministic(t *testing.T) {
	build := func() *ir.Unit {
		unit := testkit.NewUnit("app", "det")
		size := sizeFunc()
		fn := testkit.Func("area", testkit.TInt, testkit.Params(
			testkit.Defaulted("w", testkit.TInt, testkit.Call(symbolOf(unit, size), nil, testkit.TInt)),
			testkit.Defaulted("h", testkit.TInt.WithNullable(true), testkit.Call(symbolOf(unit, size), nil, testkit.TInt)),
		), testkit.Do(testkit.Return("area", testkit.Get("w", testkit.TInt))))
		unit.Decls = []ir.Decl{ir.FuncDecl(size), ir.FuncDecl(fn)}
		return unit
	}
	var prev []byte
	for i := range 3 {
		res, err := lowerUnit(build())
		if err != nil {
			t.Fatalf("lower: %v", err)
		}
		out, err := format.Library(res.Library, format.Options{})
		if err != nil {
			t.Fatalf("format: %v", err)
		}
		if i > 0 && !bytes.Equal(prev, out) {
			t.Fatalf("run %d differs:\n%s\n---\n%s", i, prev, out)
		}
		prev = out
	}
}

func TestExtensionOnDynamicReceiver(t *testing.T) {
	unit := testkit.NewUnit("app", "ext")
	recv := testkit.TString
	shout := testkit.Func("shout", testkit.TString, nil, testkit.Do(testkit.Return("shout", &ir.Expr{
		Kind: ir.ExprThis, Type: testkit.TString, Data: ir.ThisData{},
	})))
	shout.Receiver = &recv
	sym := symbolOf(unit, shout)
	call := func(e *ir.Expr) *ir.Expr {
		return &ir.Expr{Kind: ir.ExprCall, Type: testkit.TString, Data: ir.CallData{Callee: sym, ExtReceiver: e}}
	}
	dyn := ir.Type{Kind: ir.TypeDynamic}
	main := testkit.Func("main", testkit.TUnit, testkit.Params(testkit.Param("d", dyn), testkit.Param("s", testkit.TString)),
		testkit.Do(testkit.Println(call(testkit.Get("d", dyn)))),
		testkit.Do(testkit.Println(call(testkit.Get("s", testkit.TString)))),
	)
	unit.Decls = []ir.Decl{ir.FuncDecl(shout), ir.FuncDecl(main)}

	container := names.ExtensionContainer(recv, unit.Path).String()
	got := lowerText(t, unit)
	mustContain(t, got,
		"extension "+container+" on String {\n  String shout() {\n    return this;\n  }\n}",
		"print("+container+"(d).shout());",
		"print(s.shout());",
	)
}

func TestNameCollisionFails(t *testing.T) {
	a := testkit.Func("f", testkit.TUnit, nil, testkit.Do(testkit.Println(testkit.Int(1))))
	b := testkit.Func("f", testkit.TUnit, nil, testkit.Do(testkit.Println(testkit.Int(2))))
	a.Annotations = []ir.Annotation{{Name: ir.AnnDartName, Str: "run"}}
	b.Annotations = []ir.Annotation{{Name: ir.AnnDartName, Str: "run"}}
	b.FQName = "g"
	lerr := lowerError(t, testkit.NewUnit("app", "clash", ir.FuncDecl(a), ir.FuncDecl(b)))
	if lerr.Code != diag.LowNameCollision {
		t.Fatalf("code = %v, want LowNameCollision", lerr.Code)
	}
	if !strings.Contains(lerr.Msg, `"run"`) {
		t.Fatalf("message should name the identifier: %s", lerr.Msg)
	}
}
