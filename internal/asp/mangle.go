package asp

import (
	"fmt"
	"strings"

	"github.com/google/mangle/ast"
	"github.com/google/mangle/parse"
)

// FromMangle translates a ground Google Mangle (Datalog) program into the
// surface syntax. Mangle's negation `!p()` becomes default negation; clauses
// with variables, transforms or built-in premises are rejected because the
// result has to be ground.
func FromMangle(src string) (*Program, error) {
	unit, err := parse.Unit(strings.NewReader(src))
	if err != nil {
		return nil, &SyntaxError{Msg: fmt.Sprintf("mangle parse error: %v", err)}
	}

	prog := &Program{}
	for i, clause := range unit.Clauses {
		if clause.Transform != nil {
			return nil, &SyntaxError{Msg: fmt.Sprintf("clause %d: transforms are not supported", i+1)}
		}
		head, err := fromMangleAtom(clause.Head)
		if err != nil {
			return nil, fmt.Errorf("clause %d: %w", i+1, err)
		}
		rule := Rule{Head: []Literal{{Atom: head}}, Lower: Unbounded, Upper: Unbounded}

		for _, premise := range clause.Premises {
			var bl BodyLiteral
			switch t := premise.(type) {
			case ast.Atom:
				a, err := fromMangleAtom(t)
				if err != nil {
					return nil, fmt.Errorf("clause %d: %w", i+1, err)
				}
				bl.Atom = a
			case ast.NegAtom:
				a, err := fromMangleAtom(t.Atom)
				if err != nil {
					return nil, fmt.Errorf("clause %d: %w", i+1, err)
				}
				bl.Atom = a
				bl.Default = true
			default:
				return nil, &SyntaxError{Msg: fmt.Sprintf("clause %d: unsupported premise %v", i+1, premise)}
			}
			rule.Body = append(rule.Body, bl)
		}
		prog.Rules = append(prog.Rules, rule)
	}
	return prog, nil
}

func fromMangleAtom(a ast.Atom) (Atom, error) {
	out := Atom{Name: a.Predicate.Symbol}
	for _, arg := range a.Args {
		switch t := arg.(type) {
		case ast.Variable:
			return Atom{}, &SyntaxError{Msg: "unsafe variables in: " + t.Symbol}
		case ast.Constant:
			out.Args = append(out.Args, mangleConstant(t))
		default:
			return Atom{}, &SyntaxError{Msg: fmt.Sprintf("unsupported term %v", arg)}
		}
	}
	return out, nil
}

// mangleConstant renders a Mangle constant as a surface-syntax term. Name
// constants such as /red/dark become identifiers (red_dark).
func mangleConstant(c ast.Constant) string {
	if c.Type == ast.NameType {
		return strings.ReplaceAll(strings.TrimPrefix(c.Symbol, "/"), "/", "_")
	}
	return c.String()
}
