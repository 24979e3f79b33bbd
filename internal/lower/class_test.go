package lower_test

import (
	"testing"

	"kdart/internal/diag"
	"kdart/internal/ir"
	"kdart/internal/testkit"
)

func greeter(name, value string) *ir.Class {
	fn := testkit.Func("greet", testkit.TString, nil, testkit.Do(testkit.Return(name+".greet", testkit.Str(value))))
	fn.ID = name + ".greet"
	return testkit.Own(testkit.Interface("app", name, ir.FuncDecl(fn)))
}

func TestAmbiguousDefaultMustBeOverridden(t *testing.T) {
	a, b := greeter("A", "a"), greeter("B", "b")
	c := testkit.Own(testkit.Implements(testkit.Class("app", "C"), a, b))
	unit := testkit.NewUnit("app", "diamond", ir.ClassDecl(a), ir.ClassDecl(b), ir.ClassDecl(c))

	lerr := lowerError(t, unit)
	if lerr.Code != diag.LowAmbiguousMemberKind {
		t.Fatalf("code = %v, want LowAmbiguousMemberKind (%s)", lerr.Code, lerr.Msg)
	}
	mustContain(t, lerr.Msg, "app.C", "greet()", "app.A", "app.B")
}

func TestDiamondOverrideUsesDelegates(t *testing.T) {
	a, b := greeter("A", "a"), greeter("B", "b")
	unit := testkit.NewUnit("app", "diamond")
	symA := symbolOf(unit, a.Funcs()[0])
	symB := symbolOf(unit, b.Funcs()[0])
	both := testkit.Bin(ir.BinAdd,
		testkit.SuperCall(symA, a.Type(), testkit.TString),
		testkit.SuperCall(symB, b.Type(), testkit.TString),
		testkit.TString)
	override := testkit.Func("greet", testkit.TString, nil, testkit.Do(testkit.Return("C.greet", both)))
	override.ID = "C.greet"
	override.Flags = ir.FlagOverride
	c := testkit.Own(testkit.Implements(testkit.Class("app", "C", ir.FuncDecl(override)), a, b))
	unit.Decls = []ir.Decl{ir.ClassDecl(a), ir.ClassDecl(b), ir.ClassDecl(c)}

	res, err := lowerUnit(unit)
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	got := lowerText(t, unit)
	mustContain(t, got,
		"abstract class A {\n  String greet() {\n    return 'a';\n  }\n}",
		"class C implements A, B {\n  @override\n  String greet() {\n    return _A$greet() + _B$greet();\n  }\n",
		"  String _A$greet() {\n    return 'a';\n  }\n",
		"  String _B$greet() {\n    return 'b';\n  }\n",
	)

	if len(res.Diamonds) != 1 {
		t.Fatalf("diamonds = %+v", res.Diamonds)
	}
	d := res.Diamonds[0]
	if d.Class != "app.C" || d.Member != "greet()" || d.Chosen != "app.C" {
		t.Fatalf("diamond = %+v", d)
	}
	if len(d.Providers) != 2 || d.Providers[0] != "app.A" || d.Providers[1] != "app.B" {
		t.Fatalf("providers = %v", d.Providers)
	}
	if d.Delegates["app.A"] != "_A$greet" || d.Delegates["app.B"] != "_B$greet" {
		t.Fatalf("delegates = %v", d.Delegates)
	}
}

func TestSingleDefaultIsCopiedIn(t *testing.T) {
	a := greeter("A", "a")
	c := testkit.Own(testkit.Implements(testkit.Class("app", "C"), a))
	got := lowerText(t, testkit.NewUnit("app", "copy", ir.ClassDecl(a), ir.ClassDecl(c)))
	mustContain(t, got, "class C implements A {\n  @override\n  String greet() {\n    return 'a';\n  }\n}")
}

func TestConstructorDefaultReferencingParameter(t *testing.T) {
	rect := testkit.Class("app", "Rect")
	testkit.Primary(rect, testkit.Params(
		testkit.Param("w", testkit.TInt),
		testkit.Defaulted("h", testkit.TInt, testkit.Get("w", testkit.TInt)),
	), "w", "h")
	testkit.Own(rect)
	got := lowerText(t, testkit.NewUnit("app", "rect", ir.ClassDecl(rect)))
	mustContain(t, got,
		"  Rect(this.w, {int? h}) : h = h == null ? w : h;\n",
		"  final int w;\n  final int h;\n",
	)
}

func TestConstructorSplitsWhenDefaultsChain(t *testing.T) {
	unit := testkit.NewUnit("app", "box")
	size := sizeFunc()
	box := testkit.Class("app", "Box")
	testkit.Primary(box, testkit.Params(
		testkit.Defaulted("w", testkit.TInt, testkit.Call(symbolOf(unit, size), nil, testkit.TInt)),
		testkit.Defaulted("h", testkit.TInt, testkit.Get("w", testkit.TInt)),
	), "w", "h")
	testkit.Own(box)
	unit.Decls = []ir.Decl{ir.FuncDecl(size), ir.ClassDecl(box)}

	got := lowerText(t, unit)
	mustContain(t, got,
		"  Box.$raw(this.w, this.h);\n",
		"  factory Box({int? w, int? h}) {\n"+
			"    w = w == null ? size() : w;\n"+
			"    h = h == null ? w : h;\n"+
			"    return Box.$raw(w, h);\n"+
			"  }\n",
	)
}

func TestPrimaryBodyMovesPlainStoresToInitializerList(t *testing.T) {
	p := testkit.Class("app", "P")
	a := testkit.Property("a", testkit.TInt, nil)
	b := testkit.Property("b", testkit.TInt, nil)
	p.Members = append(p.Members, ir.PropertyDecl(a), ir.PropertyDecl(b))
	ctor := testkit.Primary(p, testkit.Params(testkit.Param("x", testkit.TInt)))
	testkit.Own(p)

	unit := testkit.NewUnit("app", "p")
	symA, symB := a.Symbol(unit.Library, unit.Path), b.Symbol(unit.Library, unit.Path)
	readA := &ir.Expr{Kind: ir.ExprGetField, Type: testkit.TInt, Data: ir.GetFieldData{Property: symA}}
	store := func(sym ir.Symbol, v *ir.Expr) *ir.Stmt {
		return testkit.Do(&ir.Expr{Kind: ir.ExprSetField, Type: testkit.TUnit, Data: ir.SetFieldData{Property: sym, Value: v}})
	}
	ctor.Body = testkit.Block(
		store(symA, testkit.Get("x", testkit.TInt)),
		store(symB, testkit.Bin(ir.BinAdd, readA, testkit.Int(1), testkit.TInt)),
		testkit.Do(testkit.Println(readA)),
	)
	unit.Decls = []ir.Decl{ir.ClassDecl(p)}

	got := lowerText(t, unit)
	mustContain(t, got,
		"  P(int x) : a = x {\n    this.b = this.a + 1;\n    print(this.a);\n  }\n",
		"  final int a;\n  late final int b;\n",
	)
}

func TestObjectSingleton(t *testing.T) {
	reg := testkit.Class("app", "Registry", ir.PropertyDecl(testkit.Property("count", testkit.TInt, testkit.Int(0))))
	reg.Kind = ir.ClassObject
	testkit.Own(reg)
	unit := testkit.NewUnit("app", "registry", ir.ClassDecl(reg))
	count := reg.Properties()[0].Symbol(unit.Library, unit.Path)
	read := &ir.Expr{Kind: ir.ExprGetProperty, Type: testkit.TInt, Data: ir.GetPropertyData{
		Receiver: &ir.Expr{Kind: ir.ExprGetObject, Type: reg.Type(), Data: ir.GetObjectData{Object: reg.Type()}},
		Property: count,
	}}
	unit.Decls = append(unit.Decls, ir.FuncDecl(testkit.Func("main", testkit.TUnit, nil, testkit.Do(testkit.Println(read)))))

	got := lowerText(t, unit)
	mustContain(t, got,
		"class Registry {\n  static final Registry $instance = Registry._();\n\n  Registry._();\n\n  final int count = 0;\n}\n",
		"print(Registry.$instance.count);",
	)
}

func TestCompareToAddsRelationalOperators(t *testing.T) {
	v := testkit.Class("app", "Version")
	vt := v.Type()
	cmp := testkit.Func("compareTo", testkit.TInt, testkit.Params(testkit.Param("other", vt)),
		testkit.Do(testkit.Return("compareTo", testkit.Int(0))))
	cmp.Flags = ir.FlagOperator
	v.Members = append(v.Members, ir.FuncDecl(cmp))
	testkit.Own(v)

	got := lowerText(t, testkit.NewUnit("app", "version", ir.ClassDecl(v)))
	mustContain(t, got,
		"  int compareTo(Version other) {\n    return 0;\n  }\n",
		"  bool operator <(Version other) => compareTo(other) < 0;\n",
		"  bool operator >=(Version other) => compareTo(other) >= 0;\n",
	)
}

func TestSecondaryConstructorWithBodyBecomesFactory(t *testing.T) {
	pt := testkit.Class("app", "Point")
	testkit.Primary(pt, testkit.Params(testkit.Param("x", testkit.TInt)), "x")
	testkit.Own(pt)
	unit := testkit.NewUnit("app", "point")
	primary := pt.PrimaryCtor()
	x := pt.Properties()[0].Symbol(unit.Library, unit.Path)
	readX := &ir.Expr{Kind: ir.ExprGetProperty, Type: testkit.TInt, Data: ir.GetPropertyData{
		Receiver: testkit.This(pt.FQName),
		Property: x,
	}}
	second := &ir.Constructor{
		Index:  1,
		Params: testkit.Params(testkit.Param("s", testkit.TString)),
		Delegation: &ir.Delegation{
			Ctor: primary.Symbol(pt, unit.Library, unit.Path),
			Args: []*ir.Expr{testkit.Int(0)},
		},
		Body: testkit.Block(testkit.Do(testkit.Println(readX))),
	}
	plain := &ir.Constructor{
		Index:      2,
		Delegation: &ir.Delegation{Ctor: primary.Symbol(pt, unit.Library, unit.Path), Args: []*ir.Expr{testkit.Int(1)}},
	}
	pt.Members = append(pt.Members, ir.CtorDecl(second), ir.CtorDecl(plain))
	unit.Decls = []ir.Decl{ir.ClassDecl(pt)}

	got := lowerText(t, unit)
	mustContain(t, got,
		"  factory Point.$constructor$1(String s) {\n"+
			"    final $this = Point(0);\n"+
			"    print($this.x);\n"+
			"    return $this;\n"+
			"  }\n",
		"  Point.$constructor$2() : this(1);\n",
	)
}
