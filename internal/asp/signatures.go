package asp

// ScanSignatures collects predicate signatures from program text without
// requiring it to fit the parser's grammar. It is meant for ground output of
// external tools, which may contain aggregates and other constructs the
// parser rejects: anything it does not recognize is skipped.
func ScanSignatures(src string) ([]Signature, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}

	seen := make(map[Signature]struct{})
	stmtStart := true
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch t.kind {
		case tokDot:
			stmtStart = true
			continue
		case tokHash:
			if stmtStart {
				// directive: skip to the end of the statement
				for i < len(toks)-1 && toks[i].kind != tokDot {
					i++
				}
				continue
			}
			// aggregate keyword such as #count
			if i+1 < len(toks) && toks[i+1].kind == tokIdent {
				i++
			}
		case tokLParen:
			// tuple or pool term outside an atom; skip it whole
			i = skipParens(toks, i)
		case tokIdent:
			if t.text == "not" {
				break
			}
			sig := Signature{Name: t.text, Positive: true}
			if i > 0 && toks[i-1].kind == tokMinus && !isOperand(toks, i-2) {
				sig.Positive = false
			}
			if i+1 < len(toks) && toks[i+1].kind == tokLParen {
				sig.Arity = countArgs(toks, i+1)
				i = skipParens(toks, i+1)
			}
			seen[sig] = struct{}{}
		}
		stmtStart = false
	}
	return sortSignatures(seen), nil
}

// UnionSignatures merges signature lists, dropping duplicates, in the
// canonical order.
func UnionSignatures(lists ...[]Signature) []Signature {
	seen := make(map[Signature]struct{})
	for _, l := range lists {
		for _, s := range l {
			seen[s] = struct{}{}
		}
	}
	return sortSignatures(seen)
}

// isOperand reports whether toks[i] can end a term, which makes a following
// minus binary subtraction rather than classical negation.
func isOperand(toks []token, i int) bool {
	if i < 0 {
		return false
	}
	switch toks[i].kind {
	case tokNumber, tokString, tokIdent, tokVariable, tokRParen:
		return toks[i].text != "not"
	}
	return false
}

// skipParens returns the index of the parenthesis matching toks[open].
func skipParens(toks []token, open int) int {
	depth := 0
	for i := open; i < len(toks); i++ {
		switch toks[i].kind {
		case tokLParen:
			depth++
		case tokRParen:
			depth--
			if depth == 0 {
				return i
			}
		case tokEOF:
			return i - 1
		}
	}
	return len(toks) - 1
}

// countArgs counts top-level arguments between toks[open] and its match.
func countArgs(toks []token, open int) int {
	if open+1 < len(toks) && toks[open+1].kind == tokRParen {
		return 0
	}
	depth, n := 0, 1
	for i := open; i < len(toks); i++ {
		switch toks[i].kind {
		case tokLParen:
			depth++
		case tokRParen:
			depth--
			if depth == 0 {
				return n
			}
		case tokComma:
			if depth == 1 {
				n++
			}
		case tokEOF:
			return n
		}
	}
	return n
}
