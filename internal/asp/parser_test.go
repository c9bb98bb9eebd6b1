package asp

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Statements(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"fact", "b.", []string{"b."}},
		{"rule", "a :- b.", []string{"a :- b."}},
		{"classical negation", "-d :- e.", []string{"-d :- e."}},
		{"default negation", "a :- b, not c.", []string{"a :- b, not c."}},
		{"semicolon body", "a :- b; c.", []string{"a :- b, c."}},
		{"constraint", ":- a, not b.", []string{":- a, not b."}},
		{"bounded choice", "1{p;-p}1.", []string{"1{p;-p}1."}},
		{"open choice", "{a;b} :- c.", []string{"{a;b} :- c."}},
		{"arguments", "p(1,x) :- q(\"s\", f(2), -3).", []string{"p(1,x) :- q(\"s\",f(2),-3)."}},
		{"empty arguments", "p() :- q().", []string{"p :- q."}},
		{"comments", "% line\na. %* block\nstill *% b.", []string{"a.", "b."}},
		{"show directive", "#show a/0.\n1{a}1.", []string{"1{a}1."}},
		{"empty program", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := Parse(tt.src)
			require.NoError(t, err)
			var got []string
			for _, r := range prog.Rules {
				got = append(got, r.String())
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("rules mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_RuleShapes(t *testing.T) {
	prog, err := Parse("b.\na :- b.\n:- c.\n2{x;y;z}.")
	require.NoError(t, err)
	require.Len(t, prog.Rules, 4)

	assert.True(t, prog.Rules[0].IsFact())
	assert.False(t, prog.Rules[1].IsFact())
	assert.True(t, prog.Rules[2].IsConstraint())

	choice := prog.Rules[3]
	assert.True(t, choice.Choice)
	assert.Equal(t, 2, choice.Lower)
	assert.Equal(t, Unbounded, choice.Upper)
	assert.Len(t, choice.Head, 3)
	assert.Equal(t, Position{Line: 4, Col: 1}, choice.Pos)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantPos Position
		wantMsg string
	}{
		{"missing dot", "a :- b", Position{1, 7}, "syntax error, unexpected <EOF>, expecting ."},
		{"variable", "p(X) :- q(X).", Position{1, 3}, "unsafe variables in: X"},
		{"bad token", "a :- b & c.", Position{1, 8}, `syntax error, unexpected "&", expecting .`},
		{"unsupported directive", "#const n=3.", Position{1, 1}, "unsupported directive #const"},
		{"not in head", "not a.", Position{1, 1}, "syntax error, unexpected not"},
		{"unterminated string", "p(\"x).", Position{1, 3}, "unterminated string"},
		{"dangling arrow", "a :- .", Position{1, 6}, "syntax error, unexpected ., expecting <IDENTIFIER>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			require.Error(t, err)
			var se *SyntaxError
			require.True(t, errors.As(err, &se), "want *SyntaxError, got %T", err)
			assert.Equal(t, tt.wantPos, se.Pos)
			assert.Equal(t, tt.wantMsg, se.Msg)
		})
	}
}

func TestSyntaxError_Format(t *testing.T) {
	err := &SyntaxError{Pos: Position{Line: 3, Col: 5}, Msg: "syntax error"}
	assert.Equal(t, "<string>:3:5: error: syntax error", err.Error())

	err = &SyntaxError{Msg: "mangle parse error"}
	assert.Equal(t, "<string>: error: mangle parse error", err.Error())
}

func TestProgram_Signatures(t *testing.T) {
	prog, err := Parse("a :- b, -c, d.\n-d :- e.\np(1) :- not p(2,3).\nc :- g.")
	require.NoError(t, err)

	var got []string
	for _, s := range prog.Signatures() {
		got = append(got, s.String())
	}
	want := []string{"a/0", "b/0", "c/0", "-c/0", "d/0", "-d/0", "e/0", "g/0", "p/1", "p/2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("signatures mismatch (-want +got):\n%s", diff)
	}
}

func TestProgram_StringRoundTrip(t *testing.T) {
	src := "1{a;-a}1.\nb.\na :- b, not c.\n:- c.\n"
	prog, err := Parse(src)
	require.NoError(t, err)
	assert.Equal(t, "1{a;-a}1.\nb.\na :- b, not c.\n:- c.\n", prog.String())

	again, err := Parse(prog.String())
	require.NoError(t, err)
	assert.Equal(t, prog.String(), again.String())
}
