package ir

// Inspect traverses the expression tree rooted at e in depth-first order,
// calling f for every expression. If f returns false the children of that
// expression are skipped. Nested lambdas and local functions are entered.
func Inspect(e *Expr, f func(*Expr) bool) {
	if e == nil || !f(e) {
		return
	}
	switch d := e.Data.(type) {
	case SetValueData:
		Inspect(d.Value, f)
	case GetPropertyData:
		Inspect(d.Receiver, f)
		Inspect(d.ExtReceiver, f)
	case SetPropertyData:
		Inspect(d.Receiver, f)
		Inspect(d.ExtReceiver, f)
		Inspect(d.Value, f)
	case GetFieldData:
		Inspect(d.Receiver, f)
	case SetFieldData:
		Inspect(d.Receiver, f)
		Inspect(d.Value, f)
	case CallData:
		Inspect(d.Receiver, f)
		Inspect(d.ExtReceiver, f)
		for _, a := range d.Args {
			Inspect(a, f)
		}
	case NewData:
		for _, a := range d.Args {
			Inspect(a, f)
		}
	case TypeOpData:
		Inspect(d.Value, f)
	case WhenData:
		Inspect(d.Subject, f)
		for _, br := range d.Branches {
			Inspect(br.Cond, f)
			Inspect(br.Result, f)
		}
	case BlockData:
		InspectStmts(d.Stmts, f)
		Inspect(d.Result, f)
	case ReturnData:
		Inspect(d.Value, f)
	case ThrowData:
		Inspect(d.Value, f)
	case TryData:
		Inspect(d.Body, f)
		for _, c := range d.Catches {
			Inspect(c.Body, f)
		}
		if d.Finally != nil {
			InspectStmts(d.Finally.Stmts, f)
		}
	case LambdaData:
		InspectFunc(d.Fn, f)
	case StringConcatData:
		for _, p := range d.Parts {
			Inspect(p, f)
		}
	case ListLitData:
		for _, el := range d.Elems {
			Inspect(el, f)
		}
	case BinaryData:
		Inspect(d.Left, f)
		Inspect(d.Right, f)
	case UnaryData:
		Inspect(d.Operand, f)
	case ElvisData:
		Inspect(d.Left, f)
		Inspect(d.Right, f)
	case NotNullData:
		Inspect(d.Value, f)
	}
}

// InspectStmts applies Inspect to every expression reachable from stmts.
func InspectStmts(stmts []*Stmt, f func(*Expr) bool) {
	for _, s := range stmts {
		if s == nil {
			continue
		}
		switch d := s.Data.(type) {
		case ExprStmtData:
			Inspect(d.Expr, f)
		case VarData:
			Inspect(d.Init, f)
		case WhileData:
			Inspect(d.Cond, f)
			inspectBlock(d.Body, f)
		case DoWhileData:
			inspectBlock(d.Body, f)
			Inspect(d.Cond, f)
		case ForRangeData:
			Inspect(d.From, f)
			Inspect(d.To, f)
			Inspect(d.Step, f)
			inspectBlock(d.Body, f)
		case ForEachData:
			Inspect(d.Iterable, f)
			inspectBlock(d.Body, f)
		case BlockStmtData:
			inspectBlock(d.Block, f)
		case LocalFuncData:
			InspectFunc(d.Fn, f)
		}
	}
}

// InspectFunc applies Inspect to the defaults and body of fn.
func InspectFunc(fn *Func, f func(*Expr) bool) {
	if fn == nil {
		return
	}
	for _, p := range fn.Params {
		Inspect(p.Default, f)
	}
	inspectBlock(fn.Body, f)
}

func inspectBlock(b *Block, f func(*Expr) bool) {
	if b != nil {
		InspectStmts(b.Stmts, f)
	}
}
