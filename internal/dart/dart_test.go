package dart_test

import (
	"strings"
	"testing"

	"kdart/internal/dart"
)

func TestTypeString(t *testing.T) {
	cases := []struct {
		typ  dart.Type
		want string
	}{
		{dart.Named("int"), "int"},
		{dart.Named("List", dart.Named("String").WithNullable(true)), "List<String?>"},
		{dart.Dynamic().WithNullable(true), "dynamic"},
		{dart.FunctionType(dart.Void(), dart.Named("int")).WithNullable(true), "void Function(int)?"},
		{dart.Named("Map", dart.Named("String"), dart.Named("Object").WithNullable(true)), "Map<String, Object?>"},
	}
	for _, tc := range cases {
		if got := dart.TypeString(tc.typ); got != tc.want {
			t.Errorf("TypeString = %q, want %q", got, tc.want)
		}
	}
}

func TestTypeEqual(t *testing.T) {
	a := dart.Named("List", dart.Named("int"))
	b := dart.Named("List", dart.Named("int"))
	if !a.Equal(b) {
		t.Fatalf("equal types reported different")
	}
	if a.Equal(b.WithNullable(true)) {
		t.Fatalf("nullability ignored")
	}
	if a.Equal(dart.Named("List", dart.Named("num"))) {
		t.Fatalf("type arguments ignored")
	}
}

func TestParamsOrder(t *testing.T) {
	p := dart.Params{
		Positional: []*dart.Param{{Name: "a"}},
		Named:      []*dart.Param{{Name: "c"}, {Name: "d"}},
	}
	all := p.All()
	if p.Len() != 3 || all[0].Name != "a" || all[2].Name != "d" {
		t.Fatalf("unexpected order: %v", all)
	}
}

func TestDumpShowsStructure(t *testing.T) {
	lib := &dart.Library{
		Directives: []dart.Directive{{URI: "package:a/a.dart", Show: []string{"A"}}},
		Decls: []*dart.Decl{{
			Kind: dart.DeclClass,
			Data: dart.ClassData{
				Name: "Foo",
				Members: []*dart.Decl{{
					Kind:        dart.DeclMethod,
					Annotations: []string{"override"},
					Data: dart.MethodData{
						Name: "bar",
						Body: dart.BlockBody(dart.Return(dart.Bin(dart.OpAdd, dart.Int(1), dart.Ident("x")))),
					},
				}},
			},
		}},
	}
	var sb strings.Builder
	if err := dart.Dump(&sb, lib); err != nil {
		t.Fatalf("dump: %v", err)
	}
	out := sb.String()
	for _, want := range []string{
		`import "package:a/a.dart" show A`,
		"Class Foo",
		"  Method bar kind=0 static=false abstract=false @override",
		"      Binary +",
		"        Identifier x",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("dump missing %q:\n%s", want, out)
		}
	}
}
