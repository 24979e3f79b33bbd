package ir_test

import (
	"testing"

	"kdart/internal/ir"
	"kdart/internal/source"
)

func sampleUnit() *ir.Unit {
	intT := ir.ClassType(ir.FQInt)
	param := &ir.Param{
		Name: "x",
		Type: intT,
		Default: &ir.Expr{
			Kind: ir.ExprConst,
			Type: intT,
			Data: ir.ConstData{Kind: ir.ConstInt, Int: 42},
		},
	}
	ret := &ir.Expr{
		Kind: ir.ExprReturn,
		Type: ir.ClassType(ir.FQNothing),
		Data: ir.ReturnData{
			Target: "f#1",
			Value: &ir.Expr{
				Kind: ir.ExprBinary,
				Type: intT,
				Data: ir.BinaryData{
					Op:    ir.BinAdd,
					Left:  &ir.Expr{Kind: ir.ExprGetValue, Type: intT, Data: ir.GetValueData{Name: "x"}},
					Right: &ir.Expr{Kind: ir.ExprConst, Type: intT, Data: ir.ConstData{Kind: ir.ConstInt, Int: 1}},
				},
			},
		},
	}
	fn := &ir.Func{
		ID:     "f#1",
		Name:   "inc",
		FQName: "demo.Counter.inc",
		Owner:  "demo.Counter",
		Params: []*ir.Param{param},
		Return: intT,
		Body: &ir.Block{Stmts: []*ir.Stmt{
			{Kind: ir.StmtExpr, Data: ir.ExprStmtData{Expr: ret}},
		}},
		Span: source.Span{File: 0, Start: 10, End: 40},
	}
	class := &ir.Class{
		Name:    "Counter",
		FQName:  "demo.Counter",
		Members: []ir.Decl{ir.FuncDecl(fn)},
	}
	return &ir.Unit{
		Schema:  ir.SchemaVersion,
		Path:    "src/counter.kt",
		Package: "demo",
		Library: "package:demo/counter.dt.g.dart",
		Decls:   []ir.Decl{ir.ClassDecl(class)},
	}
}

func TestUnitRoundTrip(t *testing.T) {
	data, err := ir.EncodeUnit(sampleUnit())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	u, err := ir.DecodeUnit(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(u.Decls) != 1 || u.Decls[0].Kind != ir.DeclClass {
		t.Fatalf("unexpected decls: %+v", u.Decls)
	}
	class, ok := u.Decls[0].Data.(*ir.Class)
	if !ok {
		t.Fatalf("decl data is %T, want *ir.Class", u.Decls[0].Data)
	}
	funcs := class.Funcs()
	if len(funcs) != 1 {
		t.Fatalf("expected one method, got %d", len(funcs))
	}
	fn := funcs[0]
	if fn.Span.Start != 10 || fn.Span.End != 40 {
		t.Fatalf("span lost: %v", fn.Span)
	}
	if fn.Params[0].Default == nil || fn.Params[0].Default.Data.(ir.ConstData).Int != 42 {
		t.Fatalf("default lost: %+v", fn.Params[0].Default)
	}
	stmt := fn.Body.Stmts[0].Data.(ir.ExprStmtData)
	ret, ok := stmt.Expr.Data.(ir.ReturnData)
	if !ok {
		t.Fatalf("stmt expr is %T", stmt.Expr.Data)
	}
	bin := ret.Value.Data.(ir.BinaryData)
	if bin.Op != ir.BinAdd || bin.Left.Data.(ir.GetValueData).Name != "x" {
		t.Fatalf("binary lost: %+v", bin)
	}
}

func TestDecodeRejectsSchemaMismatch(t *testing.T) {
	u := sampleUnit()
	u.Schema = ir.SchemaVersion + 1
	data, err := ir.EncodeUnit(u)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := ir.DecodeUnit(data); err == nil {
		t.Fatalf("expected schema error")
	}
}

func TestIndexNestedClasses(t *testing.T) {
	inner := &ir.Class{Name: "Inner", FQName: "demo.Outer.Inner", Outer: "demo.Outer"}
	outer := &ir.Class{Name: "Outer", FQName: "demo.Outer", Members: []ir.Decl{ir.ClassDecl(inner)}}
	u := &ir.Unit{Path: "a.kt", Decls: []ir.Decl{ir.ClassDecl(outer)}}
	idx := ir.NewIndex(&ir.Program{Units: []*ir.Unit{u}})
	if idx.Class("demo.Outer.Inner") != inner {
		t.Fatalf("nested class not indexed")
	}
	if idx.UnitOf("demo.Outer.Inner") != u {
		t.Fatalf("unit of nested class not recorded")
	}
	if idx.Class("kotlin.Any") != nil {
		t.Fatalf("external class must be absent")
	}
	if got := idx.Names(); len(got) != 2 || got[0] != "demo.Outer" {
		t.Fatalf("names = %v", got)
	}
}

func TestInspectVisitsNestedExpressions(t *testing.T) {
	u := sampleUnit()
	fn := u.Decls[0].Data.(*ir.Class).Funcs()[0]
	var kinds []ir.ExprKind
	ir.InspectFunc(fn, func(e *ir.Expr) bool {
		kinds = append(kinds, e.Kind)
		return true
	})
	want := []ir.ExprKind{ir.ExprConst, ir.ExprReturn, ir.ExprBinary, ir.ExprGetValue, ir.ExprConst}
	if len(kinds) != len(want) {
		t.Fatalf("visited %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("visited %v, want %v", kinds, want)
		}
	}
}
