package lower

import (
	"kdart/internal/dart"
	"kdart/internal/ir"
	"kdart/internal/names"
)

// builtinTypes maps source builtins onto Dart core types.
var builtinTypes = map[string]string{
	ir.FQAny:         "Object",
	ir.FQInt:         "int",
	ir.FQLong:        "int",
	ir.FQShort:       "int",
	ir.FQByte:        "int",
	ir.FQDouble:      "double",
	ir.FQFloat:       "double",
	ir.FQNumber:      "num",
	ir.FQBoolean:     "bool",
	ir.FQChar:        "String",
	ir.FQString:      "String",
	ir.FQThrowable:   "Object",
	ir.FQException:   "Exception",
	ir.FQComparable:  "Comparable",
	ir.FQEnum:        "Enum",
	ir.FQIterable:    "Iterable",
	ir.FQList:        "List",
	ir.FQMutableList: "List",
	ir.FQSet:         "Set",
	ir.FQMutableSet:  "Set",
	ir.FQMap:         "Map",
	ir.FQMutableMap:  "Map",
	ir.FQIterator:    "Iterator",
	ir.FQMapEntry:    "MapEntry",
	ir.FQPair:        "MapEntry",
}

// typ lowers a type reference, recording the import it needs.
func (l *lowerer) typ(t ir.Type) dart.Type {
	switch t.Kind {
	case ir.TypeDynamic:
		return dart.Dynamic()
	case ir.TypeParamRef:
		if s, ok := l.subst[t.FQName]; ok {
			saved := l.subst
			l.subst = nil
			out := l.typ(s)
			l.subst = saved
			return out.WithNullable(out.Nullable || t.Nullable)
		}
		return dart.Named(t.FQName).WithNullable(t.Nullable)
	case ir.TypeFunction:
		ret := dart.Void()
		if t.Return != nil && !t.Return.IsUnit() {
			ret = l.typ(*t.Return)
		}
		params := make([]dart.Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = l.typ(p)
		}
		return dart.FunctionType(ret, params...).WithNullable(t.Nullable)
	}
	switch t.FQName {
	case ir.FQUnit:
		return dart.Void()
	case ir.FQNothing:
		if t.Nullable {
			return dart.Named("Null")
		}
		return dart.Never()
	case ir.FQIntRange:
		return dart.Named("Iterable", dart.Named("int")).WithNullable(t.Nullable)
	}
	args := make([]dart.Type, 0, len(t.Args))
	for _, a := range t.Args {
		args = append(args, l.typ(a))
	}
	if name, ok := builtinTypes[t.FQName]; ok {
		return dart.Named(name, args...).WithNullable(t.Nullable)
	}
	id := l.classRef(t)
	return dart.Named(id, args...).WithNullable(t.Nullable)
}

// classRef names class t and records its import.
func (l *lowerer) classRef(t ir.Type) string {
	decl := l.ctx.Index.Class(t.FQName)
	name := names.TypeRef(t, decl).String()
	l.ctx.RequireImport(t.Library, name)
	return name
}

// retType lowers a declared return type; Unit becomes void.
func (l *lowerer) retType(t ir.Type) *dart.Type {
	if t.IsUnit() {
		return dart.Void().Ptr()
	}
	return l.typ(t).Ptr()
}

func (l *lowerer) typeParams(tps []ir.TypeParam) []dart.TypeParam {
	if len(tps) == 0 {
		return nil
	}
	out := make([]dart.TypeParam, len(tps))
	for i, tp := range tps {
		out[i] = dart.TypeParam{Name: tp.Name}
		if len(tp.Bounds) > 0 && !tp.Bounds[0].Is(ir.FQAny) {
			out[i].Bound = l.typ(tp.Bounds[0]).Ptr()
		}
	}
	return out
}

func (l *lowerer) typeArgs(ts []ir.Type) []dart.Type {
	if len(ts) == 0 {
		return nil
	}
	out := make([]dart.Type, len(ts))
	for i, t := range ts {
		out[i] = l.typ(t)
	}
	return out
}

// eraseTypeParams replaces type parameter arguments with nullable Any, for
// positions that cannot bind them (extension receivers).
func eraseTypeParams(t ir.Type) ir.Type {
	if len(t.Args) == 0 {
		return t
	}
	args := make([]ir.Type, len(t.Args))
	for i, a := range t.Args {
		if a.Kind == ir.TypeParamRef {
			args[i] = ir.ClassType(ir.FQAny).WithNullable(true)
			continue
		}
		args[i] = eraseTypeParams(a)
	}
	t.Args = args
	return t
}

// implementable reports whether a marker class may implement t.
func (l *lowerer) implementable(t ir.Type) bool {
	if t.Kind != ir.TypeClass || len(t.Args) > 0 {
		return false
	}
	decl := l.ctx.Index.Class(t.FQName)
	return decl != nil && decl.Kind != ir.ClassEnum && len(decl.TypeParams) == 0
}
