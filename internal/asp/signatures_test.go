package asp

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sigStrings(sigs []Signature) []string {
	out := make([]string, 0, len(sigs))
	for _, s := range sigs {
		out = append(out, s.String())
	}
	return out
}

func TestScanSignatures_MatchesParser(t *testing.T) {
	src := "a :- b, -c, d.\n-d :- e.\nf :- a.\n1{g;-g}1.\n"
	prog, err := Parse(src)
	require.NoError(t, err)

	scanned, err := ScanSignatures(src)
	require.NoError(t, err)

	if diff := cmp.Diff(sigStrings(prog.Signatures()), sigStrings(scanned)); diff != "" {
		t.Errorf("scan disagrees with parser (-parse +scan):\n%s", diff)
	}
}

func TestScanSignatures_GroundOutput(t *testing.T) {
	// Shapes an external grounder prints that the parser does not accept.
	src := `#show.
b.
1<=#count{0,a:a;0,-a:-a}<=1.
x(1,f(2,3)) :- b, not y(4).
n :- #sum{1:b} >= 1.
`
	sigs, err := ScanSignatures(src)
	require.NoError(t, err)

	want := []string{"a/0", "-a/0", "b/0", "n/0", "x/2", "y/1"}
	if diff := cmp.Diff(want, sigStrings(sigs)); diff != "" {
		t.Errorf("signatures mismatch (-want +got):\n%s", diff)
	}
}

func TestScanSignatures_BinaryMinusIsNotNegation(t *testing.T) {
	sigs, err := ScanSignatures("p(3) :- q(5 - 2).\nr :- 1 - s.")
	require.NoError(t, err)
	assert.Equal(t, []string{"p/1", "q/1", "r/0", "s/0"}, sigStrings(sigs))
}

func TestScanSignatures_Empty(t *testing.T) {
	sigs, err := ScanSignatures("")
	require.NoError(t, err)
	assert.Empty(t, sigs)
}

func TestUnionSignatures(t *testing.T) {
	a, err := ScanSignatures("p :- q. -q.")
	require.NoError(t, err)
	b, err := ScanSignatures("q. r(1).")
	require.NoError(t, err)

	assert.Equal(t, []string{"p/0", "q/0", "-q/0", "r/1"}, sigStrings(UnionSignatures(a, b)))
	assert.Empty(t, UnionSignatures())
}
