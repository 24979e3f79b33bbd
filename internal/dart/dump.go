package dart

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented debug tree of lib to w.
func Dump(w io.Writer, lib *Library) error {
	d := &dumper{w: w}
	for _, dir := range lib.Directives {
		d.line("import %q show %s", dir.URI, strings.Join(dir.Show, ", "))
	}
	for _, decl := range lib.Decls {
		d.decl(decl)
	}
	return d.err
}

type dumper struct {
	w      io.Writer
	indent int
	err    error
}

func (d *dumper) line(format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, "%s%s\n", strings.Repeat("  ", d.indent), fmt.Sprintf(format, args...))
}

func (d *dumper) nested(fn func()) {
	d.indent++
	fn()
	d.indent--
}

func (d *dumper) decl(decl *Decl) {
	ann := ""
	if len(decl.Annotations) > 0 {
		ann = " @" + strings.Join(decl.Annotations, " @")
	}
	switch x := decl.Data.(type) {
	case ClassData:
		d.line("Class %s abstract=%t%s", x.Name, x.Abstract, ann)
		d.nested(func() {
			if x.Extends != nil {
				d.line("extends %s", TypeString(*x.Extends))
			}
			for _, t := range x.Implements {
				d.line("implements %s", TypeString(t))
			}
			for _, m := range x.Members {
				d.decl(m)
			}
		})
	case EnumData:
		d.line("Enum %s%s", x.Name, ann)
		d.nested(func() {
			for _, v := range x.Values {
				d.line("Value %s", v.Name)
				d.nested(func() { d.args(v.Args) })
			}
			for _, m := range x.Members {
				d.decl(m)
			}
		})
	case ExtensionData:
		d.line("Extension %s on %s", x.Name, TypeString(x.On))
		d.nested(func() {
			for _, m := range x.Members {
				d.decl(m)
			}
		})
	case FunctionDeclData:
		d.line("Function %s%s", x.Name, ann)
		d.nested(func() {
			d.params(x.Params)
			d.body(x.Body)
		})
	case VariablesData:
		d.line("%s %s final=%t const=%t late=%t static=%t%s", decl.Kind, x.Name, x.Final, x.Const, x.Late, x.Static, ann)
		d.nested(func() { d.expr(x.Init) })
	case MethodData:
		d.line("Method %s kind=%d static=%t abstract=%t%s", x.Name, x.Kind, x.Static, x.Abstract, ann)
		d.nested(func() {
			d.params(x.Params)
			d.body(x.Body)
		})
	case ConstructorData:
		d.line("Constructor %s.%s const=%t factory=%t", x.Class, x.Name, x.Const, x.Factory)
		d.nested(func() {
			d.params(x.Params)
			for _, in := range x.Initializers {
				d.line("Init kind=%d field=%s ctor=%s", in.Kind, in.Field, in.Ctor)
				d.nested(func() {
					d.expr(in.Value)
					d.args(in.Args)
				})
			}
			d.body(x.Body)
		})
	}
}

func (d *dumper) params(p Params) {
	dump := func(block string, list []*Param) {
		for _, prm := range list {
			typ := "-"
			if prm.Type != nil {
				typ = TypeString(*prm.Type)
			}
			d.line("Param[%s] %s: %s field=%t", block, prm.Name, typ, prm.Field)
			d.nested(func() { d.expr(prm.Default) })
		}
	}
	dump("pos", p.Positional)
	dump("opt", p.Optional)
	dump("named", p.Named)
}

func (d *dumper) body(b Body) {
	switch b.Kind {
	case BodyBlock:
		for _, s := range b.Block {
			d.stmt(s)
		}
	case BodyExpr:
		d.line("=>")
		d.nested(func() { d.expr(b.Expr) })
	}
}

func (d *dumper) args(args []Arg) {
	for _, a := range args {
		if a.Name != "" {
			d.line("%s:", a.Name)
			d.nested(func() { d.expr(a.Value) })
			continue
		}
		d.expr(a.Value)
	}
}

func (d *dumper) stmt(s *Stmt) {
	if s == nil {
		return
	}
	switch x := s.Data.(type) {
	case BlockData:
		d.line("Block")
		d.nested(func() {
			for _, st := range x.Stmts {
				d.stmt(st)
			}
		})
	case VarDeclData:
		d.line("VarDecl %s final=%t", x.Name, x.Final)
		d.nested(func() { d.expr(x.Init) })
	case ForInData:
		d.line("ForIn %s", x.Name)
		d.nested(func() {
			d.expr(x.Iterable)
			d.stmt(x.Body)
		})
	case BreakData:
		d.line("Break %s", x.Label)
	case ContinueData:
		d.line("Continue %s", x.Label)
	case LabeledData:
		d.line("Labeled %s", x.Label)
		d.nested(func() { d.stmt(x.Body) })
	case LocalFunctionData:
		d.line("LocalFunction %s", x.Fn.Name)
		d.nested(func() {
			d.params(x.Fn.Params)
			d.body(x.Fn.Body)
		})
	default:
		d.line("%s", s.Kind)
		d.nested(func() {
			switch x := s.Data.(type) {
			case ExprStmtData:
				d.expr(x.Expr)
			case IfData:
				d.expr(x.Cond)
				d.stmt(x.Then)
				d.stmt(x.Else)
			case WhileData:
				d.expr(x.Cond)
				d.stmt(x.Body)
			case DoWhileData:
				d.stmt(x.Body)
				d.expr(x.Cond)
			case ForData:
				d.stmt(x.Init)
				d.expr(x.Cond)
				for _, u := range x.Updates {
					d.expr(u)
				}
				d.stmt(x.Body)
			case ReturnData:
				d.expr(x.Value)
			case TryData:
				d.stmt(x.Body)
				for _, c := range x.Catches {
					on := "*"
					if c.On != nil {
						on = TypeString(*c.On)
					}
					d.line("on %s catch %s", on, c.Exception)
					d.nested(func() { d.stmt(c.Body) })
				}
				d.stmt(x.Finally)
			}
		})
	}
}

func (d *dumper) expr(e *Expr) {
	if e == nil {
		return
	}
	switch x := e.Data.(type) {
	case LiteralData:
		d.line("Literal %s", literalText(x))
	case IdentifierData:
		d.line("Identifier %s", x.Name)
	case PropertyAccessData:
		d.line("PropertyAccess .%s nullAware=%t", x.Name, x.NullAware)
		d.nested(func() { d.expr(x.Target) })
	case MethodInvocationData:
		d.line("MethodInvocation %s nullAware=%t", x.Name, x.NullAware)
		d.nested(func() {
			d.expr(x.Target)
			d.args(x.Args)
		})
	case FunctionInvocationData:
		d.line("FunctionInvocation")
		d.nested(func() {
			d.expr(x.Func)
			d.args(x.Args)
		})
	case InstanceCreationData:
		d.line("InstanceCreation %s.%s const=%t", TypeString(x.Type), x.Ctor, x.Const)
		d.nested(func() { d.args(x.Args) })
	case BinaryData:
		d.line("Binary %s", x.Op)
		d.nested(func() {
			d.expr(x.Left)
			d.expr(x.Right)
		})
	case PrefixData:
		d.line("Prefix %s", x.Op)
		d.nested(func() { d.expr(x.Operand) })
	case PostfixData:
		d.line("Postfix %s", x.Op)
		d.nested(func() { d.expr(x.Operand) })
	case AssignmentData:
		d.line("Assignment %s", x.Op)
		d.nested(func() {
			d.expr(x.Target)
			d.expr(x.Value)
		})
	case ConditionalData:
		d.line("Conditional")
		d.nested(func() {
			d.expr(x.Cond)
			d.expr(x.Then)
			d.expr(x.Else)
		})
	case IsData:
		d.line("Is %s not=%t", TypeString(x.Type), x.Not)
		d.nested(func() { d.expr(x.Value) })
	case AsData:
		d.line("As %s", TypeString(x.Type))
		d.nested(func() { d.expr(x.Value) })
	case ThrowData:
		d.line("Throw")
		d.nested(func() { d.expr(x.Value) })
	case FunctionData:
		d.line("Function")
		d.nested(func() {
			d.params(x.Params)
			d.body(x.Body)
		})
	case ListLiteralData:
		d.line("ListLiteral const=%t", x.Const)
		d.nested(func() {
			for _, el := range x.Elems {
				d.expr(el)
			}
		})
	case StringInterpolationData:
		d.line("StringInterpolation")
		d.nested(func() {
			for _, p := range x.Parts {
				d.expr(p)
			}
		})
	case IndexData:
		d.line("Index nullAware=%t", x.NullAware)
		d.nested(func() {
			d.expr(x.Target)
			d.expr(x.Index)
		})
	case ParenthesizedData:
		d.line("Parenthesized")
		d.nested(func() { d.expr(x.Inner) })
	default:
		d.line("%s", e.Kind)
	}
}

func literalText(l LiteralData) string {
	switch l.Kind {
	case LitInt:
		return fmt.Sprintf("%d", l.Int)
	case LitDouble:
		return fmt.Sprintf("%g", l.Double)
	case LitString:
		return fmt.Sprintf("%q", l.Str)
	case LitBool:
		return fmt.Sprintf("%t", l.Bool)
	default:
		return "null"
	}
}

// TypeString renders t in Dart syntax.
func TypeString(t Type) string {
	var b strings.Builder
	writeType(&b, t)
	return b.String()
}

func writeType(b *strings.Builder, t Type) {
	switch t.Kind {
	case TypeDynamic:
		b.WriteString("dynamic")
		return
	case TypeVoid:
		b.WriteString("void")
		return
	case TypeNever:
		b.WriteString("Never")
	case TypeFunction:
		if t.Return != nil {
			writeType(b, *t.Return)
		} else {
			b.WriteString("void")
		}
		b.WriteString(" Function(")
		for i, p := range t.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			writeType(b, p)
		}
		b.WriteByte(')')
	default:
		b.WriteString(t.Name)
		if len(t.Args) > 0 {
			b.WriteByte('<')
			for i, a := range t.Args {
				if i > 0 {
					b.WriteString(", ")
				}
				writeType(b, a)
			}
			b.WriteByte('>')
		}
	}
	if t.Nullable {
		b.WriteByte('?')
	}
}
