package format

import "kdart/internal/dart"

func (p *printer) printType(t dart.Type) {
	switch t.Kind {
	case dart.TypeDynamic:
		p.w.WriteString("dynamic")
		return
	case dart.TypeVoid:
		p.w.WriteString("void")
		return
	case dart.TypeNever:
		p.w.WriteString("Never")
	case dart.TypeFunction:
		if t.Return != nil {
			p.printType(*t.Return)
		} else {
			p.w.WriteString("void")
		}
		p.w.WriteString(" Function(")
		p.commaList(len(t.Params), func(i int) { p.printType(t.Params[i]) })
		p.w.WriteString(")")
	default:
		p.w.WriteString(t.Name)
		p.printTypeArgs(t.Args)
	}
	if t.Nullable {
		p.w.WriteString("?")
	}
}

func (p *printer) printTypeArgs(args []dart.Type) {
	if len(args) == 0 {
		return
	}
	p.w.WriteString("<")
	p.commaList(len(args), func(i int) { p.printType(args[i]) })
	p.w.WriteString(">")
}

func (p *printer) printTypeParams(tps []dart.TypeParam) {
	if len(tps) == 0 {
		return
	}
	p.w.WriteString("<")
	p.commaList(len(tps), func(i int) {
		p.w.WriteString(tps[i].Name)
		if tps[i].Bound != nil {
			p.w.WriteString(" extends ")
			p.printType(*tps[i].Bound)
		}
	})
	p.w.WriteString(">")
}
