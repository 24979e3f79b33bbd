package lower

import (
	"sort"

	"kdart/internal/dart"
	"kdart/internal/ir"
	"kdart/internal/names"
	"kdart/internal/source"
)

// SentinelKind tells how an omitted argument with a complex default is detected.
type SentinelKind uint8

const (
	// SentinelNone keeps the default as a Dart default value.
	SentinelNone SentinelKind = iota
	// SentinelNull widens T to T? and treats null as "omitted".
	SentinelNull
	// SentinelMarker uses a private const marker instance, for parameters
	// whose type already admits null.
	SentinelMarker
)

// DefaultParam describes the lowering of one defaulted parameter.
type DefaultParam struct {
	Name string
	// Type is the emitted parameter type, Declared the source type.
	Type        dart.Type
	Declared    dart.Type
	Default     *ir.Expr
	Complex     bool
	Sentinel    SentinelKind
	Marker      names.Ident
	FieldBacked bool
}

// describeDefault classifies the default of sig. The decision is made per
// parameter: siblings never influence it.
func (l *lowerer) describeDefault(sig ir.ParamSig, fieldBacked bool) DefaultParam {
	dp := DefaultParam{
		Name:        names.Local(sig.Name).String(),
		Type:        l.paramType(sig),
		Default:     sig.Default,
		FieldBacked: fieldBacked,
	}
	dp.Declared = dp.Type
	if sig.Default == nil || isSimpleDefault(sig.Default) {
		return dp
	}
	dp.Complex = true
	if !sig.Type.Nullable || sig.Vararg {
		dp.Sentinel = SentinelNull
		dp.Type = dp.Type.WithNullable(true)
		return dp
	}
	dp.Sentinel = SentinelMarker
	if l.implementable(sig.Type) {
		impl := l.typ(sig.Type.WithNullable(false))
		dp.Marker = l.ctx.Marker(impl.Name, &impl)
		return dp
	}
	dp.Marker = l.ctx.Marker("", nil)
	dp.Type = dart.Dynamic()
	return dp
}

func (l *lowerer) paramType(sig ir.ParamSig) dart.Type {
	t := l.typ(sig.Type)
	if sig.Vararg {
		return dart.Named("List", t)
	}
	return t
}

// isSimpleDefault reports whether e can stay a Dart default value.
func isSimpleDefault(e *ir.Expr) bool {
	if e == nil {
		return false
	}
	switch d := e.Data.(type) {
	case ir.ConstData:
		return true
	case ir.UnaryData:
		return d.Op == ir.UnNeg && d.Operand.IsConst()
	case ir.StringConcatData:
		for _, p := range d.Parts {
			if !p.IsConst() {
				return false
			}
		}
		return true
	case ir.BinaryData:
		return d.Op == ir.BinAdd && e.Type.Is(ir.FQString) && isSimpleDefault(d.Left) && isSimpleDefault(d.Right)
	case ir.GetEnumEntryData:
		return true
	case ir.GetPropertyData:
		return d.Property.Flags.Has(ir.FlagConst) && d.ExtReceiver == nil &&
			(d.Receiver == nil || d.Receiver.Kind == ir.ExprGetObject)
	default:
		return false
	}
}

// paramLayout assigns every parameter to a Dart parameter block. Declaration
// and call sites compute it from the same signature.
type paramLayout struct {
	positional []int
	optional   []int
	named      []int
}

func layoutParams(sigs []ir.ParamSig, annots []ir.Annotation) paramLayout {
	var lay paramLayout
	optionalPositional := ir.HasAnnotation(annots, ir.AnnDartPositional)
	for i, s := range sigs {
		switch {
		case !s.HasDefault():
			lay.positional = append(lay.positional, i)
		case optionalPositional:
			lay.optional = append(lay.optional, i)
		default:
			lay.named = append(lay.named, i)
		}
	}
	lay.positional = renumber(lay.positional, sigs)
	lay.optional = renumber(lay.optional, sigs)
	lay.named = renumber(lay.named, sigs)
	return lay
}

// renumber moves parameters annotated with DartIndex(n) to position n of
// their block; the others keep their relative order.
func renumber(block []int, sigs []ir.ParamSig) []int {
	type moved struct{ param, at int }
	var pinned []moved
	rest := make([]int, 0, len(block))
	for _, i := range block {
		if a, ok := ir.FindAnnotation(sigs[i].Annotations, ir.AnnDartIndex); ok {
			pinned = append(pinned, moved{param: i, at: a.Int})
			continue
		}
		rest = append(rest, i)
	}
	if len(pinned) == 0 {
		return block
	}
	sort.SliceStable(pinned, func(a, b int) bool { return pinned[a].at < pinned[b].at })
	out := rest
	for _, p := range pinned {
		at := p.at
		if at < 0 {
			at = 0
		}
		if at > len(out) {
			at = len(out)
		}
		out = append(out[:at], append([]int{p.param}, out[at:]...)...)
	}
	return out
}

// loweredParams is a lowered parameter list plus the code it requires.
type loweredParams struct {
	params dart.Params
	// prologue holds the default assignments the body starts with.
	prologue []*dart.Stmt
	// inits holds constructor initializers for field-backed parameters.
	inits []dart.Initializer
}

// lowerParams lowers a declaration's parameters. fields maps constructor
// parameter names to the fields they initialize; it is nil for functions.
// The enclosing function scope must already be pushed.
func (l *lowerer) lowerParams(ps []*ir.Param, annots []ir.Annotation, fields map[string]names.Ident) loweredParams {
	var out loweredParams
	sigs := make([]ir.ParamSig, len(ps))
	for i, p := range ps {
		sigs[i] = p.Sig()
	}
	lay := layoutParams(sigs, annots)
	build := func(i int, named bool) *dart.Param {
		p := ps[i]
		field, fieldBacked := fields[p.Name]
		dp := l.describeDefault(sigs[i], fieldBacked)
		if dp.Sentinel == SentinelMarker && dp.Type.Kind == dart.TypeDynamic {
			l.currentFn().dynamic[p.Name] = true
		}
		param := &dart.Param{Name: dp.Name, Type: dp.Type.Ptr()}
		switch dp.Sentinel {
		case SentinelNone:
			if dp.Default != nil {
				param.Default = l.expr(dp.Default)
			}
		case SentinelMarker:
			param.Default = dart.ConstNew(dart.Named(dp.Marker.String()), "")
		}
		if dp.Complex {
			value := l.defaultValue(dp, p.Span)
			if fieldBacked {
				out.inits = append(out.inits, dart.Initializer{Kind: dart.InitField, Field: field.String(), Value: value})
			} else {
				out.prologue = append(out.prologue, dart.ExprStmt(dart.Assign(dart.Ident(dp.Name), value)))
			}
			return param
		}
		if fieldBacked {
			if field.String() == dp.Name && !(named && field.Private) {
				param.Field = true
				param.Type = nil
			} else {
				out.inits = append(out.inits, dart.Initializer{Kind: dart.InitField, Field: field.String(), Value: dart.Ident(dp.Name)})
			}
		}
		return param
	}
	for _, i := range lay.positional {
		out.params.Positional = append(out.params.Positional, build(i, false))
	}
	for _, i := range lay.optional {
		out.params.Optional = append(out.params.Optional, build(i, false))
	}
	for _, i := range lay.named {
		out.params.Named = append(out.params.Named, build(i, true))
	}
	return out
}

// defaultValue builds `x == null ? E : x` or `identical(x, const M()) ? E : x as T?`.
func (l *lowerer) defaultValue(dp DefaultParam, span source.Span) *dart.Expr {
	x := dart.Ident(dp.Name)
	e := l.expr(dp.Default)
	if dp.Sentinel == SentinelNull {
		return dart.Cond(dart.Bin(dart.OpEq, x, dart.Null()), e, dart.Ident(dp.Name))
	}
	orig := dp.Declared.WithNullable(true)
	test := dart.Call(nil, "identical", dart.Pos(x, dart.ConstNew(dart.Named(dp.Marker.String()), ""))...)
	return dart.Cond(test, e, dart.As(dart.Ident(dp.Name), orig))
}

// sentinelArg is what a call site passes for a skipped optional positional
// parameter so that later ones can be supplied.
func (l *lowerer) sentinelArg(sig ir.ParamSig) *dart.Expr {
	dp := l.describeDefault(sig, false)
	switch dp.Sentinel {
	case SentinelNull:
		return dart.Null()
	case SentinelMarker:
		return dart.ConstNew(dart.Named(dp.Marker.String()), "")
	default:
		return l.expr(sig.Default)
	}
}

// callArgs lowers call arguments for a callee with parameters sigs. args is
// in parameter order with nil for omitted arguments; order is the source
// order of the written arguments (nil means parameter order).
func (l *lowerer) callArgs(sigs []ir.ParamSig, annots []ir.Annotation, args []*ir.Expr, order []int, span source.Span) []dart.Arg {
	if len(args) > len(sigs) {
		l.fail(malformed(span, "call passes %d arguments to %d parameters", len(args), len(sigs)))
		return nil
	}
	arg := func(i int) *ir.Expr {
		if i < len(args) {
			return args[i]
		}
		return nil
	}
	pos := sourcePositions(len(sigs), order)

	// Lower in source order so evaluation-dependent numbering stays stable.
	lowered := make([]*dart.Expr, len(sigs))
	for _, i := range sourceOrder(len(args), order) {
		if a := arg(i); a != nil {
			lowered[i] = l.expr(a)
		}
	}

	lay := layoutParams(sigs, annots)
	var positional []int
	var out []dart.Arg
	for _, i := range lay.positional {
		if arg(i) == nil {
			l.fail(malformed(span, "missing argument for required parameter %q", sigs[i].Name))
			return nil
		}
		positional = append(positional, i)
	}
	last := -1
	for k, i := range lay.optional {
		if arg(i) != nil {
			last = k
		}
	}
	for k := 0; k <= last; k++ {
		i := lay.optional[k]
		if arg(i) == nil {
			lowered[i] = l.sentinelArg(sigs[i])
		}
		positional = append(positional, i)
	}
	var named []int
	for _, i := range lay.named {
		if arg(i) != nil {
			named = append(named, i)
		}
	}
	sort.SliceStable(named, func(a, b int) bool { return pos[named[a]] < pos[named[b]] })

	interleave := false
	for _, n := range named {
		if !hasSideEffects(arg(n)) {
			continue
		}
		for _, p := range positional {
			if arg(p) != nil && pos[n] < pos[p] {
				interleave = true
			}
		}
	}
	emitNamed := func(i int) {
		out = append(out, dart.Arg{Name: names.Local(sigs[i].Name).String(), Value: lowered[i]})
	}
	next := 0
	for _, p := range positional {
		if interleave {
			for next < len(named) && pos[named[next]] < pos[p] {
				emitNamed(named[next])
				next++
			}
		}
		out = append(out, dart.Arg{Value: lowered[p]})
	}
	for ; next < len(named); next++ {
		emitNamed(named[next])
	}
	return out
}

// sourcePositions maps parameter index to source position.
func sourcePositions(n int, order []int) []int {
	pos := make([]int, n)
	for i := range pos {
		pos[i] = len(order) + i
	}
	for at, i := range order {
		if i >= 0 && i < n {
			pos[i] = at
		}
	}
	return pos
}

func sourceOrder(n int, order []int) []int {
	if len(order) == 0 {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	seen := make(map[int]bool, len(order))
	out := make([]int, 0, n)
	for _, i := range order {
		if i >= 0 && i < n && !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	for i := 0; i < n; i++ {
		if !seen[i] {
			out = append(out, i)
		}
	}
	return out
}

// hasSideEffects is a conservative purity check for argument reordering.
func hasSideEffects(e *ir.Expr) bool {
	if e == nil {
		return false
	}
	switch d := e.Data.(type) {
	case ir.ConstData, ir.GetValueData, ir.ThisData, ir.GetObjectData, ir.GetEnumEntryData, ir.LambdaData, ir.SubjectData:
		return false
	case ir.StringConcatData:
		for _, p := range d.Parts {
			if hasSideEffects(p) {
				return true
			}
		}
		return false
	case ir.TypeOpData:
		return d.Op == ir.OpCast || hasSideEffects(d.Value)
	default:
		return true
	}
}
