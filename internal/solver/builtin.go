package solver

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"aspforge/internal/asp"
	"aspforge/internal/logging"
)

// Builtin enumerates stable models of ground programs in-process.
//
// A candidate model is fixed by the truth of its guess atoms: the atoms that
// occur under default negation or in a choice head, since only those shape
// the reduct. The search assigns guess atoms one at a time and, at every node,
// brackets all completions between a pessimistic and an optimistic least
// model. A branch is cut as soon as the bracket contradicts the assignment or
// an integrity constraint, cardinality bound or complementary pair is
// certainly violated. At a leaf both bounds coincide with the least model of
// the reduct, which is then a stable model.
type Builtin struct{}

// NewBuiltin returns the in-process solver.
func NewBuiltin() *Builtin {
	return &Builtin{}
}

// Ground parses source and reports its signatures. Body atoms that no rule
// can derive are reported to diag as info lines.
func (b *Builtin) Ground(ctx context.Context, source string, diag io.Writer) (*Grounding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prog, err := asp.Parse(source)
	if err != nil {
		fmt.Fprintln(diag, err.Error())
		return nil, &SyntaxError{Diagnostics: err.Error()}
	}
	reportUnderivable(prog, diag)

	sigs := prog.Signatures()
	logging.SolverDebug("builtin: grounded %d rules, %d signatures", len(prog.Rules), len(sigs))
	return &Grounding{Source: source, Signatures: sigs, Program: prog}, nil
}

// Solve enumerates every stable model of g.
func (b *Builtin) Solve(ctx context.Context, g *Grounding, onModel func(Model) error, diag io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	prog := g.Program
	if prog == nil {
		gg, err := b.Ground(ctx, g.Source, diag)
		if err != nil {
			return err
		}
		prog = gg.Program
	}

	c := compile(prog)
	logging.SolverDebug("builtin: %d atoms, %d guess atoms, %d rules", len(c.names), len(c.guess), len(c.rules))

	s := &search{c: c, ctx: ctx, onModel: onModel, assign: make([]int8, len(c.guess))}
	if err := s.run(0); err != nil {
		return err
	}
	logging.SolverDebug("builtin: %d models, %d nodes visited", s.models, s.nodes)
	return nil
}

func reportUnderivable(prog *asp.Program, diag io.Writer) {
	heads := make(map[string]struct{})
	for _, r := range prog.Rules {
		for _, h := range r.Head {
			heads[h.Key()] = struct{}{}
		}
	}
	reported := make(map[string]struct{})
	for _, r := range prog.Rules {
		for _, b := range r.Body {
			key := b.Key()
			if _, ok := heads[key]; ok {
				continue
			}
			if _, ok := reported[key]; ok {
				continue
			}
			reported[key] = struct{}{}
			fmt.Fprintf(diag, "<string>:%d:%d: info: atom does not occur in any rule head:\n  %s\n",
				b.Pos.Line, b.Pos.Col, key)
		}
	}
}

// crule is a rule over interned atom ids.
type crule struct {
	heads        []int
	choice       bool
	lower, upper int
	pos, neg     []int
}

func (r *crule) constraint() bool { return !r.choice && len(r.heads) == 0 }

type compiled struct {
	names    []string
	rules    []crule
	guess    []int // guess atom ids in decision order
	guessIdx []int // atom id -> position in guess, or -1
	pairs    [][2]int
}

func compile(prog *asp.Program) *compiled {
	keys := make(map[string]struct{})
	for _, r := range prog.Rules {
		for _, h := range r.Head {
			keys[h.Key()] = struct{}{}
		}
		for _, b := range r.Body {
			keys[b.Key()] = struct{}{}
		}
	}
	c := &compiled{names: make([]string, 0, len(keys))}
	for k := range keys {
		c.names = append(c.names, k)
	}
	sort.Strings(c.names)
	ids := make(map[string]int, len(c.names))
	for i, n := range c.names {
		ids[n] = i
	}

	isGuess := make([]bool, len(c.names))
	for _, r := range prog.Rules {
		cr := crule{choice: r.Choice, lower: r.Lower, upper: r.Upper}
		for _, h := range r.Head {
			id := ids[h.Key()]
			cr.heads = append(cr.heads, id)
			if r.Choice {
				isGuess[id] = true
			}
		}
		for _, b := range r.Body {
			id := ids[b.Key()]
			if b.Default {
				cr.neg = append(cr.neg, id)
				isGuess[id] = true
			} else {
				cr.pos = append(cr.pos, id)
			}
		}
		c.rules = append(c.rules, cr)
	}

	for id, name := range c.names {
		if strings.HasPrefix(name, "-") {
			if pid, ok := ids[name[1:]]; ok {
				c.pairs = append(c.pairs, [2]int{pid, id})
			}
		}
		if isGuess[id] {
			c.guess = append(c.guess, id)
		}
	}
	// Decide p and -p next to each other so complementary conflicts surface early.
	sort.SliceStable(c.guess, func(i, j int) bool {
		a, b := c.names[c.guess[i]], c.names[c.guess[j]]
		ba, bb := strings.TrimPrefix(a, "-"), strings.TrimPrefix(b, "-")
		if ba != bb {
			return ba < bb
		}
		return !strings.HasPrefix(a, "-") && strings.HasPrefix(b, "-")
	})
	c.guessIdx = make([]int, len(c.names))
	for i := range c.guessIdx {
		c.guessIdx[i] = -1
	}
	for i, id := range c.guess {
		c.guessIdx[id] = i
	}
	return c
}

// leastModel computes the least model of the reduct under a partial
// assignment. The pessimistic variant keeps only rules whose negative body is
// certainly false and fires choice heads assigned true; the optimistic one
// keeps every rule not yet blocked and fires every choice head not assigned
// false.
func (c *compiled) leastModel(assign []int8, optimistic bool) []bool {
	val := func(id int) int8 { return assign[c.guessIdx[id]] }

	active := make([]bool, len(c.rules))
	for i := range c.rules {
		r := &c.rules[i]
		if r.constraint() {
			continue
		}
		ok := true
		for _, a := range r.neg {
			v := val(a)
			if v == 1 || (!optimistic && v == 0) {
				ok = false
				break
			}
		}
		active[i] = ok
	}

	model := make([]bool, len(c.names))
	for changed := true; changed; {
		changed = false
		for i := range c.rules {
			if !active[i] {
				continue
			}
			r := &c.rules[i]
			fires := true
			for _, a := range r.pos {
				if !model[a] {
					fires = false
					break
				}
			}
			if !fires {
				continue
			}
			for _, h := range r.heads {
				if model[h] {
					continue
				}
				if r.choice {
					v := val(h)
					if v != 1 && !(optimistic && v == 0) {
						continue
					}
				}
				model[h] = true
				changed = true
			}
		}
	}
	return model
}

type search struct {
	c       *compiled
	ctx     context.Context
	onModel func(Model) error
	assign  []int8
	models  int
	nodes   int
}

func (s *search) run(i int) error {
	s.nodes++
	if s.nodes%1024 == 0 {
		if err := s.ctx.Err(); err != nil {
			return err
		}
	}

	low := s.c.leastModel(s.assign, false)
	up := s.c.leastModel(s.assign, true)
	if s.conflict(low, up) {
		return nil
	}
	if i == len(s.c.guess) {
		s.models++
		return s.onModel(s.model(low))
	}

	for _, v := range [...]int8{1, -1} {
		s.assign[i] = v
		if err := s.run(i + 1); err != nil {
			s.assign[i] = 0
			return err
		}
	}
	s.assign[i] = 0
	return nil
}

// conflict reports whether no completion of the current assignment can be a
// stable model. low and up bracket the least model of every completion.
func (s *search) conflict(low, up []bool) bool {
	c := s.c
	for i, id := range c.guess {
		switch s.assign[i] {
		case 1:
			if !up[id] {
				return true
			}
		case -1:
			if low[id] {
				return true
			}
		}
	}

	for _, p := range c.pairs {
		if low[p[0]] && low[p[1]] {
			return true
		}
	}

	for i := range c.rules {
		r := &c.rules[i]
		if !r.constraint() && !r.choice {
			continue
		}
		if !bodyCertain(r, low, up) {
			continue
		}
		if r.constraint() {
			return true
		}
		if r.upper != asp.Unbounded && count(r.heads, low) > r.upper {
			return true
		}
		if r.lower != asp.Unbounded && count(r.heads, up) < r.lower {
			return true
		}
	}
	return false
}

func bodyCertain(r *crule, low, up []bool) bool {
	for _, a := range r.pos {
		if !low[a] {
			return false
		}
	}
	for _, a := range r.neg {
		if up[a] {
			return false
		}
	}
	return true
}

func count(ids []int, model []bool) int {
	n := 0
	for _, id := range ids {
		if model[id] {
			n++
		}
	}
	return n
}

func (s *search) model(truth []bool) Model {
	var atoms []string
	for id, t := range truth {
		if t {
			atoms = append(atoms, s.c.names[id])
		}
	}
	return NewModel(atoms)
}
