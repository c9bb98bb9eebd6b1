package asp

import (
	"fmt"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokVariable
	tokNumber
	tokString
	tokIf     // :-
	tokDot    // .
	tokComma  // ,
	tokSemi   // ;
	tokLParen // (
	tokRParen // )
	tokLBrace // {
	tokRBrace // }
	tokMinus  // -
	tokHash   // #
	tokOther  // anything the grammar does not know about
)

var tokenNames = map[tokenKind]string{
	tokEOF:      "<EOF>",
	tokIdent:    "<IDENTIFIER>",
	tokVariable: "<VARIABLE>",
	tokNumber:   "<NUMBER>",
	tokString:   "<STRING>",
	tokIf:       ":-",
	tokDot:      ".",
	tokComma:    ",",
	tokSemi:     ";",
	tokLParen:   "(",
	tokRParen:   ")",
	tokLBrace:   "{",
	tokRBrace:   "}",
	tokMinus:    "-",
	tokHash:     "#",
}

type token struct {
	kind tokenKind
	text string
	pos  Position
}

func (t token) describe() string {
	switch t.kind {
	case tokEOF:
		return "<EOF>"
	case tokOther:
		return fmt.Sprintf("%q", t.text)
	}
	return t.text
}

type lexer struct {
	src  []rune
	off  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	return &lexer{src: []rune(src), line: 1, col: 1}
}

func (l *lexer) peekRune(ahead int) rune {
	if l.off+ahead >= len(l.src) {
		return 0
	}
	return l.src[l.off+ahead]
}

func (l *lexer) advance() rune {
	r := l.src[l.off]
	l.off++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

// skipSpace consumes whitespace, `%` line comments and `%* *%` block comments.
func (l *lexer) skipSpace() error {
	for l.off < len(l.src) {
		r := l.peekRune(0)
		switch {
		case unicode.IsSpace(r):
			l.advance()
		case r == '%' && l.peekRune(1) == '*':
			start := Position{Line: l.line, Col: l.col}
			l.advance()
			l.advance()
			closed := false
			for l.off < len(l.src) {
				if l.peekRune(0) == '*' && l.peekRune(1) == '%' {
					l.advance()
					l.advance()
					closed = true
					break
				}
				l.advance()
			}
			if !closed {
				return &SyntaxError{Pos: start, Msg: "unterminated block comment"}
			}
		case r == '%':
			for l.off < len(l.src) && l.peekRune(0) != '\n' {
				l.advance()
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *lexer) next() (token, error) {
	if err := l.skipSpace(); err != nil {
		return token{}, err
	}
	pos := Position{Line: l.line, Col: l.col}
	if l.off >= len(l.src) {
		return token{kind: tokEOF, pos: pos}, nil
	}

	r := l.peekRune(0)
	switch {
	case r == '_' || unicode.IsLetter(r):
		start := l.off
		for l.off < len(l.src) {
			c := l.peekRune(0)
			if c != '_' && c != '\'' && !unicode.IsLetter(c) && !unicode.IsDigit(c) {
				break
			}
			l.advance()
		}
		text := string(l.src[start:l.off])
		kind := tokIdent
		if r == '_' || unicode.IsUpper(r) {
			kind = tokVariable
		}
		return token{kind: kind, text: text, pos: pos}, nil

	case unicode.IsDigit(r):
		start := l.off
		for l.off < len(l.src) && unicode.IsDigit(l.peekRune(0)) {
			l.advance()
		}
		return token{kind: tokNumber, text: string(l.src[start:l.off]), pos: pos}, nil

	case r == '"':
		start := l.off
		l.advance()
		for {
			if l.off >= len(l.src) || l.peekRune(0) == '\n' {
				return token{}, &SyntaxError{Pos: pos, Msg: "unterminated string"}
			}
			c := l.advance()
			if c == '\\' && l.off < len(l.src) {
				l.advance()
				continue
			}
			if c == '"' {
				break
			}
		}
		return token{kind: tokString, text: string(l.src[start:l.off]), pos: pos}, nil

	case r == ':' && l.peekRune(1) == '-':
		l.advance()
		l.advance()
		return token{kind: tokIf, text: ":-", pos: pos}, nil
	}

	l.advance()
	kind := tokOther
	switch r {
	case '.':
		kind = tokDot
	case ',':
		kind = tokComma
	case ';':
		kind = tokSemi
	case '(':
		kind = tokLParen
	case ')':
		kind = tokRParen
	case '{':
		kind = tokLBrace
	case '}':
		kind = tokRBrace
	case '-':
		kind = tokMinus
	case '#':
		kind = tokHash
	}
	return token{kind: kind, text: string(r), pos: pos}, nil
}

// tokenize lexes the whole input.
func tokenize(src string) ([]token, error) {
	l := newLexer(src)
	var toks []token
	for {
		t, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, t)
		if t.kind == tokEOF {
			return toks, nil
		}
	}
}
