// Package solver defines the model-enumeration contract aspforge relies on and
// ships two implementations: an in-process enumerator for ground programs and
// an adapter for an external clingo binary.
package solver

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"

	"aspforge/internal/asp"
)

// ErrSyntax marks programs the solver could not parse or ground.
var ErrSyntax = errors.New("syntax error")

// SyntaxError carries the solver's diagnostic text for a rejected program.
type SyntaxError struct {
	Diagnostics string
}

func (e *SyntaxError) Error() string {
	first := strings.TrimSpace(e.Diagnostics)
	if i := strings.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	if first == "" {
		return ErrSyntax.Error()
	}
	return ErrSyntax.Error() + ": " + first
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// Signature is a predicate signature of a grounded program.
type Signature = asp.Signature

// Model is one stable model: the sorted names of its true atoms. Classically
// negated atoms appear as "-p".
type Model []string

// NewModel copies and sorts atoms.
func NewModel(atoms []string) Model {
	m := make(Model, len(atoms))
	copy(m, atoms)
	sort.Strings(m)
	return m
}

// Grounding is a program accepted by a solver.
type Grounding struct {
	Source     string
	Signatures []Signature

	// Program is the parsed form when the solver parses in-process.
	Program *asp.Program
}

// Solver grounds and solves logic programs.
//
// Ground parses and grounds source, failing with an error that wraps
// ErrSyntax when the program is rejected. Solve enumerates every stable model
// of a grounding and hands each one to onModel, synchronously, on the calling
// goroutine; an error from onModel stops enumeration and is returned. A
// program without stable models is not an error.
//
// Both methods write solver diagnostics to diag rather than to the process's
// standard streams.
type Solver interface {
	Ground(ctx context.Context, source string, diag io.Writer) (*Grounding, error)
	Solve(ctx context.Context, g *Grounding, onModel func(Model) error, diag io.Writer) error
}

// Capture runs fn with a fresh diagnostics sink and returns what was written
// to it, on success and on failure alike.
func Capture(fn func(diag io.Writer) error) (string, error) {
	var buf bytes.Buffer
	err := fn(&buf)
	return buf.String(), err
}

// Enumerate collects every model of a grounding into a slice.
func Enumerate(ctx context.Context, s Solver, g *Grounding, diag io.Writer) ([]Model, error) {
	var models []Model
	err := s.Solve(ctx, g, func(m Model) error {
		models = append(models, m)
		return nil
	}, diag)
	if err != nil {
		return nil, err
	}
	return models, nil
}
