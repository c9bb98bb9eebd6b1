package forge

import (
	"strings"

	"aspforge/internal/solver"
)

// Template is a stable model used as a row pattern: the set of atoms it makes
// true. Everything else in the vocabulary is false.
type Template struct {
	atoms []string
	set   map[string]struct{}
}

// NewTemplate builds a template from a solver model.
func NewTemplate(m solver.Model) Template {
	t := Template{
		atoms: make([]string, len(m)),
		set:   make(map[string]struct{}, len(m)),
	}
	copy(t.atoms, m)
	for _, a := range m {
		t.set[a] = struct{}{}
	}
	return t
}

// Has reports whether atom is true in the template.
func (t Template) Has(atom string) bool {
	_, ok := t.set[atom]
	return ok
}

// Atoms returns the true atoms in model order.
func (t Template) Atoms() []string {
	out := make([]string, len(t.atoms))
	copy(out, t.atoms)
	return out
}

func (t Template) String() string {
	return "{" + strings.Join(t.atoms, ", ") + "}"
}
