package lower

import (
	"kdart/internal/dart"
	"kdart/internal/ir"
	"kdart/internal/names"
)

// comparisons derives the relational operators of a class from its
// compareTo operator, which keeps its own name.
func (l *lowerer) comparisons(fn *ir.Func, compareTo string) []*dart.Decl {
	other := names.Local(fn.Params[0].Name).String()
	pt := l.typ(fn.Params[0].Type)
	out := make([]*dart.Decl, 0, len(names.ComparisonOperators))
	for _, op := range names.ComparisonOperators {
		cmp := dart.Call(nil, compareTo, dart.Pos(dart.Ident(other))...)
		out = append(out, &dart.Decl{Kind: dart.DeclMethod, Data: dart.MethodData{
			Name:       op,
			Kind:       dart.MethodOperator,
			ReturnType: dart.Named("bool").Ptr(),
			Params:     dart.Params{Positional: []*dart.Param{{Name: other, Type: pt.Ptr()}}},
			Body:       dart.ExprBody(dart.Bin(dart.BinaryOp(op), cmp, dart.Int(0))),
		}})
	}
	return out
}

// emitMarkers adds the sentinel classes registered for omitted arguments.
// A marker implementing T passes as T?; noSuchMethod keeps it concrete.
func (l *lowerer) emitMarkers() {
	for _, m := range l.ctx.sortedMarkers() {
		name := m.ident.String()
		data := dart.ClassData{Name: name}
		if m.impl != nil {
			data.Implements = []dart.Type{*m.impl}
		}
		inv := &dart.Param{Name: "invocation", Type: dart.Named("Invocation").Ptr()}
		data.Members = []*dart.Decl{
			{Kind: dart.DeclConstructor, Data: dart.ConstructorData{Class: name, Const: true}},
			{Kind: dart.DeclMethod, Data: dart.MethodData{
				Name:       "noSuchMethod",
				ReturnType: dart.Dynamic().Ptr(),
				Params:     dart.Params{Positional: []*dart.Param{inv}},
				Body:       dart.BlockBody(),
			}},
		}
		l.emit(&dart.Decl{Kind: dart.DeclClass, Data: data})
	}
}
