package asp

import (
	"fmt"
	"strconv"
)

// SyntaxError is a parse failure at a position in the program text. Its
// message follows the `<string>:line:col: error: ...` convention of
// answer-set solvers so diagnostics read the same regardless of backend.
type SyntaxError struct {
	Pos Position
	Msg string
}

func (e *SyntaxError) Error() string {
	if e.Pos.Line == 0 {
		return "<string>: error: " + e.Msg
	}
	return fmt.Sprintf("<string>:%d:%d: error: %s", e.Pos.Line, e.Pos.Col, e.Msg)
}

// Parse parses a ground program.
func Parse(src string) (*Program, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	prog := &Program{}
	for p.peek().kind != tokEOF {
		rule, ok, err := p.statement()
		if err != nil {
			return nil, err
		}
		if ok {
			prog.Rules = append(prog.Rules, rule)
		}
	}
	return prog, nil
}

type parser struct {
	toks []token
	i    int
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) unexpected(t token) error {
	return &SyntaxError{Pos: t.pos, Msg: "syntax error, unexpected " + t.describe()}
}

func (p *parser) expect(kind tokenKind) (token, error) {
	t := p.next()
	if t.kind != kind {
		return t, &SyntaxError{
			Pos: t.pos,
			Msg: fmt.Sprintf("syntax error, unexpected %s, expecting %s", t.describe(), tokenNames[kind]),
		}
	}
	return t, nil
}

// statement parses one rule or directive. ok is false for directives that
// carry no rule.
func (p *parser) statement() (Rule, bool, error) {
	start := p.peek()
	if start.kind == tokHash {
		return Rule{}, false, p.directive()
	}

	rule := Rule{Pos: start.pos, Lower: Unbounded, Upper: Unbounded}
	switch start.kind {
	case tokIf:
		// integrity constraint, handled by the body below
	case tokNumber, tokLBrace:
		if err := p.choiceHead(&rule); err != nil {
			return Rule{}, false, err
		}
	case tokMinus, tokIdent:
		if start.kind == tokIdent && start.text == "not" {
			return Rule{}, false, p.unexpected(start)
		}
		lit, err := p.literal()
		if err != nil {
			return Rule{}, false, err
		}
		rule.Head = []Literal{lit}
	default:
		return Rule{}, false, p.unexpected(p.next())
	}

	if p.peek().kind == tokIf {
		p.next()
		body, err := p.body()
		if err != nil {
			return Rule{}, false, err
		}
		rule.Body = body
	}

	if _, err := p.expect(tokDot); err != nil {
		return Rule{}, false, err
	}
	return rule, true, nil
}

func (p *parser) directive() error {
	hash := p.next()
	name, err := p.expect(tokIdent)
	if err != nil {
		return err
	}
	if name.text != "show" {
		return &SyntaxError{Pos: hash.pos, Msg: "unsupported directive #" + name.text}
	}
	// Every atom is shown; the projection itself is not needed.
	for {
		t := p.next()
		switch t.kind {
		case tokDot:
			return nil
		case tokEOF:
			return p.unexpected(t)
		}
	}
}

func (p *parser) choiceHead(rule *Rule) error {
	rule.Choice = true
	if p.peek().kind == tokNumber {
		n, err := p.number()
		if err != nil {
			return err
		}
		rule.Lower = n
	}
	if _, err := p.expect(tokLBrace); err != nil {
		return err
	}
	if p.peek().kind != tokRBrace {
		for {
			lit, err := p.literal()
			if err != nil {
				return err
			}
			rule.Head = append(rule.Head, lit)
			if p.peek().kind != tokSemi {
				break
			}
			p.next()
		}
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return err
	}
	if p.peek().kind == tokNumber {
		n, err := p.number()
		if err != nil {
			return err
		}
		rule.Upper = n
	}
	return nil
}

func (p *parser) number() (int, error) {
	t := p.next()
	n, err := strconv.Atoi(t.text)
	if err != nil {
		return 0, &SyntaxError{Pos: t.pos, Msg: "invalid number " + t.text}
	}
	return n, nil
}

func (p *parser) body() ([]BodyLiteral, error) {
	var body []BodyLiteral
	for {
		var bl BodyLiteral
		if t := p.peek(); t.kind == tokIdent && t.text == "not" {
			p.next()
			bl.Default = true
			if n := p.peek(); n.kind == tokIdent && n.text == "not" {
				return nil, &SyntaxError{Pos: n.pos, Msg: "double default negation is not supported"}
			}
		}
		lit, err := p.literal()
		if err != nil {
			return nil, err
		}
		bl.Literal = lit
		body = append(body, bl)

		if k := p.peek().kind; k != tokComma && k != tokSemi {
			return body, nil
		}
		p.next()
	}
}

func (p *parser) literal() (Literal, error) {
	lit := Literal{Pos: p.peek().pos}
	if p.peek().kind == tokMinus {
		p.next()
		lit.Classical = true
	}
	atom, err := p.atom()
	if err != nil {
		return Literal{}, err
	}
	lit.Atom = atom
	return lit, nil
}

func (p *parser) atom() (Atom, error) {
	t := p.next()
	switch t.kind {
	case tokIdent:
	case tokVariable:
		return Atom{}, &SyntaxError{Pos: t.pos, Msg: "unsafe variables in: " + t.text}
	default:
		return Atom{}, &SyntaxError{
			Pos: t.pos,
			Msg: fmt.Sprintf("syntax error, unexpected %s, expecting %s", t.describe(), tokenNames[tokIdent]),
		}
	}
	a := Atom{Name: t.text}
	if p.peek().kind == tokLParen {
		args, err := p.arguments()
		if err != nil {
			return Atom{}, err
		}
		a.Args = args
	}
	return a, nil
}

func (p *parser) arguments() ([]string, error) {
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	var args []string
	if p.peek().kind == tokRParen {
		p.next()
		return args, nil
	}
	for {
		term, err := p.term()
		if err != nil {
			return nil, err
		}
		args = append(args, term)
		t := p.next()
		switch t.kind {
		case tokComma:
			continue
		case tokRParen:
			return args, nil
		default:
			return nil, p.unexpected(t)
		}
	}
}

func (p *parser) term() (string, error) {
	t := p.next()
	switch t.kind {
	case tokNumber, tokString:
		return t.text, nil
	case tokMinus:
		n, err := p.expect(tokNumber)
		if err != nil {
			return "", err
		}
		return "-" + n.text, nil
	case tokIdent:
		if p.peek().kind != tokLParen {
			return t.text, nil
		}
		args, err := p.arguments()
		if err != nil {
			return "", err
		}
		return Atom{Name: t.text, Args: args}.String(), nil
	case tokVariable:
		return "", &SyntaxError{Pos: t.pos, Msg: "unsafe variables in: " + t.text}
	}
	return "", p.unexpected(t)
}
