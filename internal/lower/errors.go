package lower

import (
	"fmt"

	"kdart/internal/diag"
	"kdart/internal/source"
)

// Error is a lowering failure. The first one aborts the unit.
type Error struct {
	Code diag.Code
	Span source.Span
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code.ID(), e.Msg)
}

// Diagnostic converts the failure into a reportable diagnostic.
func (e *Error) Diagnostic() diag.Diagnostic {
	return diag.NewError(e.Code, e.Span, e.Msg)
}

func unsupported(span source.Span, format string, args ...any) *Error {
	return &Error{Code: diag.LowUnsupportedConstruct, Span: span, Msg: fmt.Sprintf(format, args...)}
}

func malformed(span source.Span, format string, args ...any) *Error {
	return &Error{Code: diag.LowMalformedInput, Span: span, Msg: fmt.Sprintf(format, args...)}
}

func ambiguous(span source.Span, format string, args ...any) *Error {
	return &Error{Code: diag.LowAmbiguousMemberKind, Span: span, Msg: fmt.Sprintf(format, args...)}
}
