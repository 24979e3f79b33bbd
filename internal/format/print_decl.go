package format

import "kdart/internal/dart"

// printDecl renders d and ends the line. member selects class member
// syntax for fields.
func (p *printer) printDecl(d *dart.Decl, member bool) {
	for _, a := range d.Annotations {
		p.w.WriteString("@" + a)
		p.w.Newline()
	}
	switch x := d.Data.(type) {
	case dart.ClassData:
		p.printClass(x)
	case dart.EnumData:
		p.printEnum(x)
	case dart.ExtensionData:
		p.w.WriteString("extension " + x.Name)
		p.printTypeParams(x.TypeParams)
		p.w.WriteString(" on ")
		p.printType(x.On)
		p.w.WriteString(" ")
		p.printMembers(x.Members)
	case dart.FunctionDeclData:
		p.printFunction(x)
	case dart.VariablesData:
		if x.Static && member {
			p.w.WriteString("static ")
		}
		p.printStorage(x.Late, x.Final, x.Const, x.Type)
		p.w.WriteString(x.Name)
		if x.Init != nil {
			p.w.WriteString(" = ")
			p.printExpr(x.Init, precAssign)
		}
		p.w.WriteString(";")
	case dart.MethodData:
		p.printMethod(x)
	case dart.ConstructorData:
		p.printConstructor(x)
	}
	p.w.Newline()
}

func (p *printer) printClass(x dart.ClassData) {
	if x.Abstract {
		p.w.WriteString("abstract ")
	}
	p.w.WriteString("class " + x.Name)
	p.printTypeParams(x.TypeParams)
	if x.Extends != nil {
		p.w.WriteString(" extends ")
		p.printType(*x.Extends)
	}
	p.printImplements(x.Implements)
	p.w.WriteString(" ")
	p.printMembers(x.Members)
}

func (p *printer) printImplements(ts []dart.Type) {
	if len(ts) == 0 {
		return
	}
	p.w.WriteString(" implements ")
	p.commaList(len(ts), func(i int) { p.printType(ts[i]) })
}

// printMembers renders a class body. Consecutive fields stay together,
// other members are separated by a blank line.
func (p *printer) printMembers(members []*dart.Decl) {
	if len(members) == 0 {
		p.w.WriteString("{}")
		return
	}
	p.w.WriteString("{")
	p.w.Newline()
	p.w.IndentPush()
	for i, m := range members {
		if i > 0 && !(m.Kind == dart.DeclField && members[i-1].Kind == dart.DeclField) {
			p.w.BlankLine()
		}
		p.printDecl(m, true)
	}
	p.w.IndentPop()
	p.w.WriteString("}")
}

func (p *printer) printEnum(x dart.EnumData) {
	p.w.WriteString("enum " + x.Name)
	p.printTypeParams(x.TypeParams)
	p.printImplements(x.Implements)
	if len(x.Members) == 0 && !enumHasArgs(x.Values) {
		p.w.WriteString(" { ")
		p.commaList(len(x.Values), func(i int) { p.w.WriteString(x.Values[i].Name) })
		p.w.WriteString(" }")
		return
	}
	p.w.WriteString(" {")
	p.w.Newline()
	p.w.IndentPush()
	for i, v := range x.Values {
		p.w.WriteString(v.Name)
		if v.Ctor != "" {
			p.w.WriteString("." + v.Ctor)
		}
		if len(v.Args) > 0 || v.Ctor != "" {
			p.printArgs(v.Args)
		}
		if i < len(x.Values)-1 {
			p.w.WriteString(",")
		} else if len(x.Members) > 0 {
			p.w.WriteString(";")
		}
		p.w.Newline()
	}
	for _, m := range x.Members {
		p.w.BlankLine()
		p.printDecl(m, true)
	}
	p.w.IndentPop()
	p.w.WriteString("}")
}

func enumHasArgs(vs []dart.EnumValue) bool {
	for _, v := range vs {
		if len(v.Args) > 0 || v.Ctor != "" {
			return true
		}
	}
	return false
}

// printFunction renders a top-level or local function without ending the
// line.
func (p *printer) printFunction(x dart.FunctionDeclData) {
	if x.External {
		p.w.WriteString("external ")
	}
	p.printSignature(signature{
		name:       x.Name,
		ret:        x.ReturnType,
		typeParams: x.TypeParams,
		params:     x.Params,
		getter:     x.Getter,
		setter:     x.Setter,
	})
	if x.External {
		p.w.WriteString(";")
		return
	}
	p.printBody(x.Body)
}

func (p *printer) printMethod(x dart.MethodData) {
	if x.Static {
		p.w.WriteString("static ")
	}
	if x.External {
		p.w.WriteString("external ")
	}
	p.printSignature(signature{
		name:       x.Name,
		ret:        x.ReturnType,
		typeParams: x.TypeParams,
		params:     x.Params,
		getter:     x.Kind == dart.MethodGetter,
		setter:     x.Kind == dart.MethodSetter,
		operator:   x.Kind == dart.MethodOperator,
	})
	if x.Abstract || x.External {
		p.w.WriteString(";")
		return
	}
	p.printBody(x.Body)
}

// signature carries the rendering flags of a function head: accessors
// drop their parameter list.
type signature struct {
	name       string
	ret        *dart.Type
	typeParams []dart.TypeParam
	params     dart.Params
	getter     bool
	setter     bool
	operator   bool
}

func (p *printer) printSignature(s signature) {
	if s.ret != nil {
		p.printType(*s.ret)
		p.w.WriteString(" ")
	}
	switch {
	case s.getter:
		p.w.WriteString("get " + s.name)
		return
	case s.setter:
		p.w.WriteString("set ")
	case s.operator:
		p.w.WriteString("operator ")
	}
	p.w.WriteString(s.name)
	p.printTypeParams(s.typeParams)
	p.printParams(s.params)
}

func (p *printer) printConstructor(x dart.ConstructorData) {
	if x.External {
		p.w.WriteString("external ")
	}
	if x.Const {
		p.w.WriteString("const ")
	}
	if x.Factory {
		p.w.WriteString("factory ")
	}
	p.w.WriteString(x.Class)
	if x.Name != "" {
		p.w.WriteString("." + x.Name)
	}
	p.printParams(x.Params)
	if len(x.Initializers) > 0 {
		p.w.WriteString(" : ")
		p.commaList(len(x.Initializers), func(i int) { p.printInitializer(x.Initializers[i]) })
	}
	if x.External {
		p.w.WriteString(";")
		return
	}
	p.printBody(x.Body)
}

func (p *printer) printInitializer(in dart.Initializer) {
	switch in.Kind {
	case dart.InitField:
		p.w.WriteString(in.Field + " = ")
		p.printExpr(in.Value, precConditional)
	case dart.InitSuper, dart.InitThis:
		if in.Kind == dart.InitSuper {
			p.w.WriteString("super")
		} else {
			p.w.WriteString("this")
		}
		if in.Ctor != "" {
			p.w.WriteString("." + in.Ctor)
		}
		p.printArgs(in.Args)
	case dart.InitAssert:
		p.w.WriteString("assert(")
		p.printExpr(in.Value, precAssign)
		p.w.WriteString(")")
	}
}

func (p *printer) printParams(ps dart.Params) {
	p.w.WriteString("(")
	n := 0
	sep := func() {
		if n > 0 {
			p.w.WriteString(", ")
		}
		n++
	}
	for _, prm := range ps.Positional {
		sep()
		p.printParam(prm)
	}
	if len(ps.Optional) > 0 {
		sep()
		p.w.WriteString("[")
		p.commaList(len(ps.Optional), func(i int) { p.printParam(ps.Optional[i]) })
		p.w.WriteString("]")
	}
	if len(ps.Named) > 0 {
		sep()
		p.w.WriteString("{")
		p.commaList(len(ps.Named), func(i int) { p.printParam(ps.Named[i]) })
		p.w.WriteString("}")
	}
	p.w.WriteString(")")
}

func (p *printer) printParam(prm *dart.Param) {
	if prm.Required {
		p.w.WriteString("required ")
	}
	if prm.Covariant {
		p.w.WriteString("covariant ")
	}
	if prm.Field {
		p.w.WriteString("this." + prm.Name)
	} else {
		if prm.Type != nil {
			p.printType(*prm.Type)
			p.w.WriteString(" ")
		}
		p.w.WriteString(prm.Name)
	}
	if prm.Default != nil {
		p.w.WriteString(" = ")
		p.printExpr(prm.Default, precAssign)
	}
}

// printBody renders a function body, preceded by a space unless empty.
func (p *printer) printBody(b dart.Body) {
	switch b.Kind {
	case dart.BodyEmpty:
		p.w.WriteString(";")
	case dart.BodyExpr:
		p.w.WriteString(" => ")
		p.printExpr(b.Expr, precAssign)
		p.w.WriteString(";")
	case dart.BodyBlock:
		p.w.WriteString(" ")
		p.printBlock(b.Block)
	}
}
