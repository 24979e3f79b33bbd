package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"kdart/internal/ir"
	"kdart/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a decoded unit
// whose source file has size bytes:
// 1) no span is inverted or ends beyond the file
// 2) member spans lie inside the span of their class
// Empty spans mark synthesized declarations and are skipped.
func CheckSpanInvariants(unit *ir.Unit, size int) error {
	if unit == nil {
		return fmt.Errorf("nil unit")
	}
	limit, err := safecast.Conv[uint32](size)
	if err != nil {
		return fmt.Errorf("file size overflow: %w", err)
	}
	for _, d := range unit.Decls {
		if err := checkDecl(d, source.Span{End: limit}, limit); err != nil {
			return err
		}
	}
	return nil
}

func checkDecl(d ir.Decl, outer source.Span, limit uint32) error {
	if d.Data == nil {
		return fmt.Errorf("%s declaration without data", d.Kind)
	}
	sp := d.Data.DeclSpan()
	if sp.End < sp.Start {
		return fmt.Errorf("inverted %s span: %v", d.Kind, sp)
	}
	if sp.End > limit {
		return fmt.Errorf("%s span end beyond content: %d > %d", d.Kind, sp.End, limit)
	}
	if !sp.Empty() && !outer.Empty() && (sp.Start < outer.Start || sp.End > outer.End) {
		return fmt.Errorf("%s span %v is outside enclosing span %v", d.Kind, sp, outer)
	}
	c, ok := d.Data.(*ir.Class)
	if !ok {
		return nil
	}
	inner := outer
	if !sp.Empty() {
		inner = sp
	}
	for _, m := range c.Members {
		if err := checkDecl(m, inner, limit); err != nil {
			return fmt.Errorf("%s: %w", c.FQName, err)
		}
	}
	for _, e := range c.Entries {
		if e.Span.End < e.Span.Start || e.Span.End > limit {
			return fmt.Errorf("%s: bad entry span %v", c.FQName, e.Span)
		}
		for _, m := range e.Members {
			if err := checkDecl(m, inner, limit); err != nil {
				return fmt.Errorf("%s.%s: %w", c.FQName, e.Name, err)
			}
		}
	}
	return nil
}
