package lower_test

import (
	"testing"

	"kdart/internal/diag"
	"kdart/internal/ir"
	"kdart/internal/testkit"
)

func enumClass(name string, entries ...string) *ir.Class {
	c := testkit.Class("app", name)
	c.Kind = ir.ClassEnum
	for _, e := range entries {
		c.Entries = append(c.Entries, &ir.EnumEntry{Name: e})
	}
	return c
}

func TestPlainEnum(t *testing.T) {
	got := lowerText(t, testkit.NewUnit("app", "color", ir.ClassDecl(enumClass("Color", "red", "green"))))
	want := "enum Color { red, green }\n\n" +
		"Color $Color$valueOf(String value) => Color.values.firstWhere((Color v) => v.name == value, orElse: () => throw ArgumentError.value(value, 'value'));\n"
	if got != want {
		t.Fatalf("got\n%s\nwant\n%s", got, want)
	}
}

func applyOverride(entry string, op ir.BinaryOp) *ir.Func {
	id := "Op." + entry + ".apply"
	fn := testkit.Func("apply", testkit.TInt, testkit.Params(testkit.Param("a", testkit.TInt), testkit.Param("b", testkit.TInt)),
		testkit.Do(testkit.Return(id, testkit.Bin(op, testkit.Get("a", testkit.TInt), testkit.Get("b", testkit.TInt), testkit.TInt))))
	fn.ID = id
	fn.Flags = ir.FlagOverride
	return fn
}

func TestEnumEntriesWithBodies(t *testing.T) {
	op := enumClass("Op", "PLUS", "TIMES")
	testkit.Primary(op, testkit.Params(testkit.Param("sym", testkit.TString)), "sym")
	apply := testkit.Abstract("apply", testkit.TInt, testkit.Param("a", testkit.TInt), testkit.Param("b", testkit.TInt))
	op.Members = append(op.Members, ir.FuncDecl(apply))
	op.Entries[0].Args = []*ir.Expr{testkit.Str("+")}
	op.Entries[0].Members = []ir.Decl{ir.FuncDecl(applyOverride("PLUS", ir.BinAdd))}
	op.Entries[1].Args = []*ir.Expr{testkit.Str("*")}
	op.Entries[1].Members = []ir.Decl{ir.FuncDecl(applyOverride("TIMES", ir.BinMul))}
	testkit.Own(op)

	got := lowerText(t, testkit.NewUnit("app", "op", ir.ClassDecl(op)))
	mustContain(t, got,
		"enum Op {\n"+
			"  PLUS(_$Op$PLUS(), '+'),\n"+
			"  TIMES(_$Op$TIMES(), '*');\n"+
			"\n"+
			"  const Op(this._$delegate, this.sym);\n"+
			"\n"+
			"  final _$OpBase _$delegate;\n"+
			"\n"+
			"  final String sym;\n"+
			"\n"+
			"  int apply(int a, int b) => this._$delegate.apply(this, a, b);\n"+
			"}\n",
		"abstract class _$OpBase {\n  const _$OpBase();\n\n  int apply(Op $this, int a, int b);\n}\n",
		"class _$Op$PLUS extends _$OpBase {\n"+
			"  const _$Op$PLUS();\n"+
			"\n"+
			"  @override\n"+
			"  int apply(Op $this, int a, int b) {\n"+
			"    return a + b;\n"+
			"  }\n"+
			"}\n",
		"    return a * b;\n",
		"Op $Op$valueOf(String value) =>",
	)
}

func TestEnumDefaultBodyIsSharedByEntries(t *testing.T) {
	level := enumClass("Level", "LOW", "HIGH")
	label := testkit.Func("label", testkit.TString, nil, testkit.Do(testkit.Return("Level.label", testkit.Str("level"))))
	label.ID = "Level.label"
	label.Modality = ir.ModOpen
	level.Members = append(level.Members, ir.FuncDecl(label))
	loud := testkit.Func("label", testkit.TString, nil, testkit.Do(testkit.Return("Level.HIGH.label", testkit.Str("HIGH!"))))
	loud.ID = "Level.HIGH.label"
	loud.Flags = ir.FlagOverride
	level.Entries[1].Members = []ir.Decl{ir.FuncDecl(loud)}
	testkit.Own(level)

	got := lowerText(t, testkit.NewUnit("app", "level", ir.ClassDecl(level)))
	mustContain(t, got,
		"  LOW(_$Level$LOW()),\n  HIGH(_$Level$HIGH());\n",
		"  const Level(this._$delegate);\n",
		"  String label() => this._$delegate.label(this);\n",
		"class _$Level$LOW extends _$LevelBase {\n  const _$Level$LOW();\n\n  @override\n  String label(Level $this) {\n    return 'level';\n  }\n}\n",
		"    return 'HIGH!';\n",
	)
}

func TestEnumRejectsEntryOnlyMembers(t *testing.T) {
	e := enumClass("Mode", "A")
	extra := testkit.Func("extra", testkit.TUnit, nil, testkit.Do(testkit.Println(testkit.Int(1))))
	e.Entries[0].Members = []ir.Decl{ir.FuncDecl(extra)}
	lerr := lowerError(t, testkit.NewUnit("app", "mode", ir.ClassDecl(testkit.Own(e))))
	if lerr.Code != diag.LowUnsupportedConstruct {
		t.Fatalf("code = %v (%s)", lerr.Code, lerr.Msg)
	}
	mustContain(t, lerr.Msg, "extra()")
}

func TestEnumRejectsSecondaryConstructor(t *testing.T) {
	e := enumClass("Mode", "A")
	e.Members = append(e.Members, ir.CtorDecl(&ir.Constructor{Index: 1}))
	lerr := lowerError(t, testkit.NewUnit("app", "mode", ir.ClassDecl(testkit.Own(e))))
	if lerr.Code != diag.LowUnsupportedConstruct {
		t.Fatalf("code = %v (%s)", lerr.Code, lerr.Msg)
	}
}

func TestEnumValueOfCall(t *testing.T) {
	color := enumClass("Color", "red")
	user := testkit.NewUnit("app", "use")
	lib := testkit.NewUnit("app", "color", ir.ClassDecl(color))
	sym := ir.Symbol{
		Kind:    ir.SymEnumValueOf,
		Name:    "valueOf",
		Owner:   color.FQName,
		Library: lib.Library,
		Params:  []ir.ParamSig{{Name: "value", Type: testkit.TString}},
	}
	entry := &ir.Expr{Kind: ir.ExprGetEnumEntry, Type: color.Type(), Data: ir.GetEnumEntryData{
		Enum:  ir.Type{Kind: ir.TypeClass, FQName: color.FQName, Library: lib.Library},
		Entry: "red",
	}}
	user.Decls = []ir.Decl{ir.FuncDecl(testkit.Func("main", testkit.TUnit, nil,
		testkit.Do(testkit.Println(testkit.Call(sym, nil, color.Type(), testkit.Str("red")))),
		testkit.Do(testkit.Println(entry)),
	))}
	got := lowerText(t, user, lib)
	mustContain(t, got,
		"import 'package:app/color.dt.g.dart' show $Color$valueOf, Color;\n",
		"print($Color$valueOf('red'));",
		"print(Color.red);",
	)
}
