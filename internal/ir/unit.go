package ir

import "sort"

// SchemaVersion is bumped whenever the encoded layout of Unit changes.
const SchemaVersion uint16 = 1

// Unit is one compilation unit: the declarations of a single source file.
type Unit struct {
	Schema uint16
	// Path is the source file path relative to the project root.
	Path    string
	Package string
	// Library is the import URI of the unit's generated output.
	Library string
	Decls   []Decl
}

// Program is a set of units lowered together.
type Program struct {
	Units []*Unit
}

// Index maps fully qualified class names to their declarations across all
// units of a program. It is built once and only read afterwards, so it may
// be shared by units lowered in parallel.
type Index struct {
	classes map[string]*Class
	units   map[string]*Unit
}

// NewIndex indexes every class of the program, nested classes included.
func NewIndex(p *Program) *Index {
	idx := &Index{
		classes: make(map[string]*Class),
		units:   make(map[string]*Unit),
	}
	if p == nil {
		return idx
	}
	for _, u := range p.Units {
		idx.AddUnit(u)
	}
	return idx
}

// AddUnit indexes the classes of u. It must not be called once lowering started.
func (idx *Index) AddUnit(u *Unit) {
	for _, d := range u.Decls {
		if c, ok := d.Data.(*Class); ok {
			idx.addClass(c, u)
		}
	}
}

func (idx *Index) addClass(c *Class, u *Unit) {
	idx.classes[c.FQName] = c
	idx.units[c.FQName] = u
	for _, m := range c.Members {
		if nested, ok := m.Data.(*Class); ok {
			idx.addClass(nested, u)
		}
	}
}

// Class returns the declaration of fq, or nil for external classes.
func (idx *Index) Class(fq string) *Class {
	if idx == nil {
		return nil
	}
	return idx.classes[fq]
}

// UnitOf returns the unit declaring class fq.
func (idx *Index) UnitOf(fq string) *Unit {
	if idx == nil {
		return nil
	}
	return idx.units[fq]
}

// Len reports the number of indexed classes.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.classes)
}

// Names returns the indexed FQ names in sorted order.
func (idx *Index) Names() []string {
	out := make([]string, 0, idx.Len())
	if idx == nil {
		return out
	}
	for fq := range idx.classes {
		out = append(out, fq)
	}
	sort.Strings(out)
	return out
}
