// Package asp implements the ground logic-program surface syntax used by
// aspforge: facts, normal rules, integrity constraints and choice rules, with
// default negation (`not`) and classical negation (`-`).
package asp

import (
	"sort"
	"strconv"
	"strings"
)

// Position is a 1-based line/column location in program text.
type Position struct {
	Line int
	Col  int
}

// Atom is a ground atom: a predicate name with rendered argument terms.
type Atom struct {
	Name string
	Args []string
}

func (a Atom) String() string {
	if len(a.Args) == 0 {
		return a.Name
	}
	return a.Name + "(" + strings.Join(a.Args, ",") + ")"
}

// Literal is an atom, possibly classically negated (`-p`).
type Literal struct {
	Atom      Atom
	Classical bool
	Pos       Position
}

// Key identifies the literal as a solver atom: `p`, `-p`, `p(1)`, `-p(1)`.
func (l Literal) Key() string {
	if l.Classical {
		return "-" + l.Atom.String()
	}
	return l.Atom.String()
}

func (l Literal) String() string { return l.Key() }

// BodyLiteral is a body element; Default marks default negation (`not`).
type BodyLiteral struct {
	Literal
	Default bool
}

func (b BodyLiteral) String() string {
	if b.Default {
		return "not " + b.Key()
	}
	return b.Key()
}

// Unbounded marks a missing cardinality bound on a choice rule.
const Unbounded = -1

// Rule is a single statement. A rule with no head and Choice unset is an
// integrity constraint.
type Rule struct {
	Head   []Literal
	Choice bool
	Lower  int
	Upper  int
	Body   []BodyLiteral
	Pos    Position
}

// IsConstraint reports whether the rule is an integrity constraint.
func (r Rule) IsConstraint() bool {
	return !r.Choice && len(r.Head) == 0
}

// IsFact reports whether the rule is a plain fact.
func (r Rule) IsFact() bool {
	return !r.Choice && len(r.Head) == 1 && len(r.Body) == 0
}

func (r Rule) String() string {
	var sb strings.Builder
	if r.Choice {
		if r.Lower != Unbounded {
			sb.WriteString(strconv.Itoa(r.Lower))
		}
		sb.WriteByte('{')
		for i, h := range r.Head {
			if i > 0 {
				sb.WriteByte(';')
			}
			sb.WriteString(h.Key())
		}
		sb.WriteByte('}')
		if r.Upper != Unbounded {
			sb.WriteString(strconv.Itoa(r.Upper))
		}
	} else if len(r.Head) == 1 {
		sb.WriteString(r.Head[0].Key())
	}
	if len(r.Body) > 0 {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(":- ")
		for i, b := range r.Body {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(b.String())
		}
	} else if r.IsConstraint() {
		sb.WriteString(":-")
	}
	sb.WriteByte('.')
	return sb.String()
}

// Program is a parsed ground program.
type Program struct {
	Rules []Rule
}

func (p *Program) String() string {
	var sb strings.Builder
	for _, r := range p.Rules {
		sb.WriteString(r.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Signature identifies a predicate: name, arity and sign. Classically
// negated occurrences have Positive == false.
type Signature struct {
	Name     string
	Arity    int
	Positive bool
}

func (s Signature) String() string {
	prefix := ""
	if !s.Positive {
		prefix = "-"
	}
	return prefix + s.Name + "/" + strconv.Itoa(s.Arity)
}

// Signatures returns every predicate signature occurring in the program,
// heads and bodies alike, sorted by name, arity, then sign.
func (p *Program) Signatures() []Signature {
	seen := make(map[Signature]struct{})
	add := func(l Literal) {
		seen[Signature{Name: l.Atom.Name, Arity: len(l.Atom.Args), Positive: !l.Classical}] = struct{}{}
	}
	for _, r := range p.Rules {
		for _, h := range r.Head {
			add(h)
		}
		for _, b := range r.Body {
			add(b.Literal)
		}
	}
	return sortSignatures(seen)
}

func sortSignatures(seen map[Signature]struct{}) []Signature {
	out := make([]Signature, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		if out[i].Arity != out[j].Arity {
			return out[i].Arity < out[j].Arity
		}
		return out[i].Positive && !out[j].Positive
	})
	return out
}
