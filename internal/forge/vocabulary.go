package forge

import (
	"sort"

	"aspforge/internal/solver"
)

// ExtractVocabulary returns the sorted, deduplicated predicate names of a
// grounded program. Classically negated signatures contribute their positive
// name and arities collapse, so p/0, p/1 and -p/0 all yield "p".
func ExtractVocabulary(sigs []solver.Signature) []string {
	seen := make(map[string]struct{}, len(sigs))
	vocab := make([]string, 0, len(sigs))
	for _, s := range sigs {
		if _, ok := seen[s.Name]; ok {
			continue
		}
		seen[s.Name] = struct{}{}
		vocab = append(vocab, s.Name)
	}
	sort.Strings(vocab)
	return vocab
}

// Observed returns the vocabulary without the hidden propositions, in
// vocabulary order.
func Observed(vocab, hidden []string) []string {
	skip := make(map[string]struct{}, len(hidden))
	for _, h := range hidden {
		skip[h] = struct{}{}
	}
	out := make([]string, 0, len(vocab))
	for _, p := range vocab {
		if _, ok := skip[p]; !ok {
			out = append(out, p)
		}
	}
	return out
}
