package format

import (
	"errors"

	"kdart/internal/dart"
)

// Options tune the rendering.
type Options struct {
	IndentWidth int
	// Header is emitted as `//` comment lines at the top of a library.
	Header []string
}

func (o Options) withDefaults() Options {
	if o.IndentWidth == 0 {
		o.IndentWidth = 2
	}
	return o
}

type printer struct {
	w   *Writer
	opt Options
}

func newPrinter(opt Options) *printer {
	opt = opt.withDefaults()
	return &printer{w: NewWriter(opt), opt: opt}
}

// Library renders one generated Dart file.
func Library(lib *dart.Library, opt Options) ([]byte, error) {
	if lib == nil {
		return nil, errors.New("format: nil library")
	}
	p := newPrinter(opt)
	for _, line := range p.opt.Header {
		p.w.WriteString("// " + line)
		p.w.Newline()
	}
	if len(p.opt.Header) > 0 {
		p.w.BlankLine()
	}
	p.printDirectives(lib.Directives)
	for _, d := range lib.Decls {
		p.w.BlankLine()
		p.printDecl(d, false)
	}
	if !p.w.atLineStart {
		p.w.Newline()
	}
	return p.w.Bytes(), nil
}

// Expr renders a single expression.
func Expr(e *dart.Expr) string {
	p := newPrinter(Options{})
	p.printExpr(e, precLowest)
	return string(p.w.Bytes())
}

// Stmt renders a single statement, newline terminated.
func Stmt(s *dart.Stmt) string {
	p := newPrinter(Options{})
	p.printStmt(s)
	return string(p.w.Bytes())
}

// Decl renders a single declaration as if it were top-level.
func Decl(d *dart.Decl) string {
	p := newPrinter(Options{})
	p.printDecl(d, false)
	return string(p.w.Bytes())
}

func (p *printer) printDirectives(ds []dart.Directive) {
	for _, d := range ds {
		p.w.WriteString("import ")
		p.w.WriteString(quote(d.URI))
		if len(d.Show) > 0 {
			p.w.WriteString(" show ")
			p.commaList(len(d.Show), func(i int) { p.w.WriteString(d.Show[i]) })
		}
		p.w.WriteString(";")
		p.w.Newline()
	}
}

func (p *printer) commaList(n int, item func(i int)) {
	for i := range n {
		if i > 0 {
			p.w.WriteString(", ")
		}
		item(i)
	}
}
