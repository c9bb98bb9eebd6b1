package solver

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeClingo mimics the parts of clingo's CLI the adapter relies on. The
// behavior is selected through FAKE_CLINGO_MODE.
const fakeClingo = `#!/bin/sh
input=$(cat)
case "$FAKE_CLINGO_MODE" in
syntax)
	echo '<string>:1:3-4: error: syntax error, unexpected <EOF>' >&2
	echo '*** ERROR: (clingo): parsing failed' >&2
	exit 65
	;;
crash)
	echo 'out of memory' >&2
	exit 33
	;;
esac
case "$*" in
*--text*)
	printf '%s\n' "$input" | grep -q 'b' || exit 0
	echo 'b.'
	echo 'a:-b.'
	echo '1<=#count{0,c:c;0,-c:-c}<=1.'
	exit 0
	;;
*--outf=2*)
	echo 'info: atom does not occur in any rule head' >&2
	if [ "$FAKE_CLINGO_MODE" = "unsat" ]; then
		echo '{"Result":"UNSATISFIABLE","Call":[{}]}'
		exit 20
	fi
	echo '{"Result":"SATISFIABLE","Call":[{"Witnesses":[{"Value":["b","a"]},{"Value":["-c","b"]}]}]}'
	exit 30
	;;
esac
exit 1
`

func newFakeClingo(t *testing.T) *Clingo {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake clingo is a shell script")
	}
	path := filepath.Join(t.TempDir(), "clingo")
	require.NoError(t, os.WriteFile(path, []byte(fakeClingo), 0o755))
	return NewClingo(path)
}

func TestClingo_Ground(t *testing.T) {
	c := newFakeClingo(t)
	g, err := c.Ground(context.Background(), "a :- b. b.", io.Discard)
	require.NoError(t, err)

	var got []string
	for _, s := range g.Signatures {
		got = append(got, s.String())
	}
	assert.Equal(t, []string{"a/0", "b/0", "c/0", "-c/0"}, got)
	assert.Equal(t, "a :- b. b.", g.Source)
	assert.Nil(t, g.Program)
}

func TestClingo_GroundKeepsSimplifiedAtoms(t *testing.T) {
	c := newFakeClingo(t)

	t.Run("body-only atom", func(t *testing.T) {
		// the ground output only holds a, b and c; d and e are simplified away
		g, err := c.Ground(context.Background(), "a :- b. b. d :- not e.", io.Discard)
		require.NoError(t, err)

		var got []string
		for _, s := range g.Signatures {
			got = append(got, s.String())
		}
		assert.Equal(t, []string{"a/0", "b/0", "c/0", "-c/0", "d/0", "e/0"}, got)
	})

	t.Run("empty ground program", func(t *testing.T) {
		src := "a :- not c, not d.\n-d :- e.\nf :- a, -d.\n"
		g, err := c.Ground(context.Background(), src, io.Discard)
		require.NoError(t, err)

		var got []string
		for _, s := range g.Signatures {
			got = append(got, s.String())
		}
		assert.Equal(t, []string{"a/0", "c/0", "d/0", "-d/0", "e/0", "f/0"}, got)
	})
}

func TestClingo_SolveAllWitnesses(t *testing.T) {
	c := newFakeClingo(t)
	ctx := context.Background()

	diag, err := Capture(func(diag io.Writer) error {
		models, err := Enumerate(ctx, c, &Grounding{Source: "a :- b. b."}, diag)
		require.NoError(t, err)
		assert.Equal(t, []Model{{"a", "b"}, {"-c", "b"}}, models)
		return nil
	})
	require.NoError(t, err)
	assert.Contains(t, diag, "info: atom does not occur")
}

func TestClingo_Unsatisfiable(t *testing.T) {
	t.Setenv("FAKE_CLINGO_MODE", "unsat")
	c := newFakeClingo(t)

	models, err := Enumerate(context.Background(), c, &Grounding{Source: "a. :- a."}, io.Discard)
	require.NoError(t, err)
	assert.Empty(t, models)
}

func TestClingo_SyntaxError(t *testing.T) {
	t.Setenv("FAKE_CLINGO_MODE", "syntax")
	c := newFakeClingo(t)

	diag, err := Capture(func(diag io.Writer) error {
		_, err := c.Ground(context.Background(), "a :- ", diag)
		return err
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSyntax))
	assert.Contains(t, diag, "parsing failed")

	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Contains(t, se.Error(), "<string>:1:3-4: error: syntax error")
}

func TestClingo_OtherFailures(t *testing.T) {
	t.Setenv("FAKE_CLINGO_MODE", "crash")
	c := newFakeClingo(t)

	err := c.Solve(context.Background(), &Grounding{Source: "a."}, func(Model) error { return nil }, io.Discard)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrSyntax))
	assert.Contains(t, err.Error(), "status 33")
	assert.Contains(t, err.Error(), "out of memory")
}

func TestClingo_MissingBinary(t *testing.T) {
	c := NewClingo(filepath.Join(t.TempDir(), "does-not-exist"))
	_, err := c.Ground(context.Background(), "a.", io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start")
}

func TestNewClingo_DefaultPath(t *testing.T) {
	c := NewClingo("", "--warn=none")
	assert.Equal(t, "clingo", c.Path)
	assert.Equal(t, []string{"--warn=none"}, c.Args)
}
