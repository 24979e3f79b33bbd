package lower_test

import (
	"regexp"
	"strings"
	"testing"

	"kdart/internal/ir"
	"kdart/internal/testkit"
)

var listOfInt = ir.ClassType(ir.FQList, testkit.TInt)

func TestReturnFromLambdaThrowsSignal(t *testing.T) {
	xs := testkit.Get("xs", listOfInt)
	x := testkit.Get("x", testkit.TInt)
	visit := testkit.Lambda("find$1", testkit.TUnit, testkit.Params(testkit.Param("x", testkit.TInt)),
		testkit.Do(testkit.If(testkit.Bin(ir.BinGreater, x, testkit.Int(2), testkit.TBool), testkit.Return("find", x), nil, testkit.TUnit)))
	find := testkit.Func("find", testkit.TInt, testkit.Params(testkit.Param("xs", listOfInt)),
		testkit.Do(testkit.ForEachCall(xs, visit)),
		testkit.Do(testkit.Return("find", testkit.Int(0))),
	)

	got := lowerText(t, testkit.NewUnit("app", "find", ir.FuncDecl(find)))
	mustContain(t, got,
		"int find(List<int> xs) {\n  try {\n    xs.forEach((int x) {\n",
		"throw _$Return(x, 1);",
		"    return 0;\n  } on _$Return catch (jump) {\n    if (jump.target == 1) {\n      return jump.value as int;\n    }\n    rethrow;\n  }\n}\n",
		"class _$Return {\n  const _$Return(this.value, this.target);\n\n  final Object? value;\n  final int target;\n}\n",
	)
	if strings.Contains(got, "_$Break") || strings.Contains(got, "_$Continue") {
		t.Fatalf("unused signal classes emitted:\n%s", got)
	}
}

func TestBreakAcrossTwoLambdas(t *testing.T) {
	xs := testkit.Get("xs", listOfInt)
	inner := testkit.Lambda("main$2", testkit.TUnit, testkit.Params(testkit.Param("y", testkit.TInt)),
		testkit.Do(testkit.Break("outer")))
	outer := testkit.Lambda("main$1", testkit.TUnit, testkit.Params(testkit.Param("x", testkit.TInt)),
		testkit.Do(testkit.ForEachCall(xs, inner)))
	main := testkit.Func("main", testkit.TUnit, testkit.Params(testkit.Param("xs", listOfInt)),
		testkit.While("outer", testkit.Bool(true), testkit.Do(testkit.ForEachCall(xs, outer))),
	)

	got := lowerText(t, testkit.NewUnit("app", "brk", ir.FuncDecl(main)))
	mustContain(t, got,
		"throw const _$Break(1);",
		"  try {\n    while (true) {\n",
		"  } on _$Break catch (jump) {\n    if (!(jump.target == 1)) {\n      rethrow;\n    }\n  }\n",
		"class _$Break {\n  const _$Break(this.target);\n\n  final int target;\n}\n",
	)
	if strings.Contains(got, "outer:") {
		t.Fatalf("signalled loop should not be labelled:\n%s", got)
	}
}

func TestSameLabelLoopsGetDistinctTags(t *testing.T) {
	xs := testkit.Get("xs", listOfInt)
	breakingLoop := func(fn string) *ir.Func {
		leave := testkit.Lambda(fn+"$1", testkit.TUnit, testkit.Params(testkit.Param("x", testkit.TInt)),
			testkit.Do(testkit.Break("outer")))
		return testkit.Func(fn, testkit.TUnit, testkit.Params(testkit.Param("xs", listOfInt)),
			testkit.While("outer", testkit.Bool(true), testkit.Do(testkit.ForEachCall(xs, leave))),
		)
	}

	got := lowerText(t, testkit.NewUnit("app", "tags", ir.FuncDecl(breakingLoop("f")), ir.FuncDecl(breakingLoop("g"))))
	mustContain(t, got,
		"throw const _$Break(1);",
		"if (!(jump.target == 1)) {",
		"throw const _$Break(2);",
		"if (!(jump.target == 2)) {",
	)
	if strings.Index(got, "void g(") > strings.Index(got, "_$Break(2)") {
		t.Fatalf("second loop should use the second tag:\n%s", got)
	}
	if strings.Count(got, "class _$Break") != 1 {
		t.Fatalf("signal class emitted more than once:\n%s", got)
	}
}

func TestReturnPassesInnerCatchBeforeOuter(t *testing.T) {
	xs := testkit.Get("xs", listOfInt)
	x := testkit.Get("x", testkit.TInt)
	y := testkit.Get("y", testkit.TInt)
	inner := testkit.Lambda("outer$2", testkit.TUnit, testkit.Params(testkit.Param("y", testkit.TInt)),
		testkit.Do(testkit.If(testkit.Bin(ir.BinGreater, y, x, testkit.TBool), testkit.Return("outer$1", nil), nil, testkit.TUnit)),
		testkit.Do(testkit.Return("outer", y)),
	)
	middle := testkit.Lambda("outer$1", testkit.TUnit, testkit.Params(testkit.Param("x", testkit.TInt)),
		testkit.Do(testkit.ForEachCall(xs, inner)))
	outer := testkit.Func("outer", testkit.TInt, testkit.Params(testkit.Param("xs", listOfInt)),
		testkit.Do(testkit.ForEachCall(xs, middle)),
		testkit.Do(testkit.Return("outer", testkit.Int(0))),
	)

	got := lowerText(t, testkit.NewUnit("app", "nested", ir.FuncDecl(outer)))
	mustContain(t, got,
		"throw const _$Return(null, 1);",
		"throw _$Return(y, 2);",
	)
	innerCatch := regexp.MustCompile(`on _\$Return catch \(jump\) \{\s+if \(jump\.target == 1\) \{\s+return;\s+\}\s+rethrow;`)
	outerCatch := regexp.MustCompile(`on _\$Return catch \(jump\) \{\s+if \(jump\.target == 2\) \{\s+return jump\.value as int;\s+\}\s+rethrow;`)
	innerAt := innerCatch.FindStringIndex(got)
	outerAt := outerCatch.FindStringIndex(got)
	if innerAt == nil || outerAt == nil {
		t.Fatalf("missing catch sites:\n%s", got)
	}
	if innerAt[0] > outerAt[0] {
		t.Fatalf("inner catch must come before the outer one:\n%s", got)
	}
}

func TestDirectBreakUsesDartLabel(t *testing.T) {
	done := testkit.Get("done", testkit.TBool)
	main := testkit.Func("main", testkit.TUnit, testkit.Params(testkit.Param("done", testkit.TBool)),
		testkit.While("outer", testkit.Bool(true),
			testkit.While("inner", testkit.Bool(true),
				testkit.Do(testkit.If(done, testkit.Break("outer"), nil, testkit.TUnit)),
				testkit.Do(testkit.Break("inner")),
			),
		),
	)

	got := lowerText(t, testkit.NewUnit("app", "label", ir.FuncDecl(main)))
	mustContain(t, got,
		"  outer: while (true) {\n    while (true) {\n",
		"break outer;",
		"      break;\n",
	)
	if strings.Contains(got, "_$Break") || strings.Contains(got, "try {") {
		t.Fatalf("direct jumps should not throw:\n%s", got)
	}
}

func TestContinueFromLambda(t *testing.T) {
	xs := testkit.Get("xs", listOfInt)
	skip := testkit.Lambda("main$1", testkit.TUnit, testkit.Params(testkit.Param("x", testkit.TInt)),
		testkit.Do(testkit.Continue("loop")))
	main := testkit.Func("main", testkit.TUnit, testkit.Params(testkit.Param("xs", listOfInt)),
		testkit.While("loop", testkit.Bool(true), testkit.Do(testkit.ForEachCall(xs, skip))),
	)

	got := lowerText(t, testkit.NewUnit("app", "cont", ir.FuncDecl(main)))
	mustContain(t, got,
		"  while (true) {\n    try {\n      xs.forEach((int x) {\n",
		"throw const _$Continue(1);",
		"    } on _$Continue catch (jump) {\n      if (!(jump.target == 1)) {\n        rethrow;\n      }\n    }\n  }\n",
		"class _$Continue {\n  const _$Continue(this.target);\n\n  final int target;\n}\n",
	)
}

func TestReturnToUnknownFunctionIsMalformed(t *testing.T) {
	main := testkit.Func("main", testkit.TUnit, nil, testkit.Do(testkit.Return("elsewhere", nil)))
	lerr := lowerError(t, testkit.NewUnit("app", "bad", ir.FuncDecl(main)))
	mustContain(t, lerr.Msg, `"elsewhere"`)
}
