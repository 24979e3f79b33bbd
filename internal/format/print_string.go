package format

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"kdart/internal/dart"
)

// quote renders s as a single-quoted Dart string literal.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	escapeInto(&b, s)
	b.WriteByte('\'')
	return b.String()
}

func escapeInto(b *strings.Builder, s string) {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '$':
			b.WriteString(`\$`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\v':
			b.WriteString(`\v`)
		default:
			switch {
			case r == utf8.RuneError && size == 1:
				b.WriteString(`\u{fffd}`)
			case r < 0x20 || r == 0x7f:
				fmt.Fprintf(b, `\x%02x`, r)
			case !unicode.IsPrint(r) && r != ' ':
				fmt.Fprintf(b, `\u{%x}`, r)
			default:
				b.WriteRune(r)
			}
		}
	}
}

// printInterpolation renders a string template. Literal string parts are
// copied, other parts are embedded as $name or ${expr}.
func (p *printer) printInterpolation(parts []*dart.Expr) {
	var b strings.Builder
	b.WriteByte('\'')
	for i, part := range parts {
		if lit, ok := part.Data.(dart.LiteralData); ok && lit.Kind == dart.LitString {
			escapeInto(&b, lit.Str)
			continue
		}
		if id, ok := part.Data.(dart.IdentifierData); ok && simpleInterpolation(id.Name, parts, i) {
			b.WriteByte('$')
			b.WriteString(id.Name)
			continue
		}
		if _, ok := part.Data.(dart.ThisData); ok && simpleInterpolation("this", parts, i) {
			b.WriteString("$this")
			continue
		}
		b.WriteString("${")
		b.WriteString(Expr(part))
		b.WriteByte('}')
	}
	b.WriteByte('\'')
	p.w.WriteString(b.String())
}

// simpleInterpolation reports whether name can be embedded without braces
// at position i.
func simpleInterpolation(name string, parts []*dart.Expr, i int) bool {
	if strings.ContainsRune(name, '$') {
		return false
	}
	if i+1 >= len(parts) {
		return true
	}
	next, ok := parts[i+1].Data.(dart.LiteralData)
	if !ok || next.Kind != dart.LitString {
		return true
	}
	if next.Str == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(next.Str)
	return !(r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r))
}
