package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"aspforge/internal/asp"
	"aspforge/internal/logging"

	"golang.org/x/sync/errgroup"
)

// clasp exit codes. Success codes are bit combinations of sat and exhausted.
const (
	exitUnknown   = 0
	exitSat       = 10
	exitExhausted = 20
	exitError     = 65
)

// Clingo solves programs with an external clingo binary. The program is fed
// on stdin; stderr is streamed into the diagnostics sink.
type Clingo struct {
	Path string
	Args []string
}

// NewClingo returns an adapter for the binary at path ("clingo" on PATH when
// empty).
func NewClingo(path string, extraArgs ...string) *Clingo {
	if path == "" {
		path = "clingo"
	}
	return &Clingo{Path: path, Args: extraArgs}
}

// Ground runs clingo in text mode and scans both the input and the ground
// program for signatures. The ground program alone misses predicates clingo
// simplified away, such as body atoms no rule can derive.
func (c *Clingo) Ground(ctx context.Context, source string, diag io.Writer) (*Grounding, error) {
	out, err := c.run(ctx, source, diag, "--text")
	if err != nil {
		return nil, err
	}
	ground, err := asp.ScanSignatures(string(out))
	if err != nil {
		return nil, fmt.Errorf("failed to read ground program: %w", err)
	}
	input, err := asp.ScanSignatures(source)
	if err != nil {
		return nil, fmt.Errorf("failed to scan program: %w", err)
	}
	sigs := asp.UnionSignatures(input, ground)
	logging.SolverDebug("clingo: %d signatures (%d in input, %d in ground program)", len(sigs), len(input), len(ground))
	return &Grounding{Source: source, Signatures: sigs}, nil
}

type clingoOutput struct {
	Result string `json:"Result"`
	Call   []struct {
		Witnesses []struct {
			Value []string `json:"Value"`
		} `json:"Witnesses"`
	} `json:"Call"`
}

// Solve asks clingo for all models in JSON output mode.
func (c *Clingo) Solve(ctx context.Context, g *Grounding, onModel func(Model) error, diag io.Writer) error {
	out, err := c.run(ctx, g.Source, diag, "--outf=2", "-n", "0")
	if err != nil {
		return err
	}

	var res clingoOutput
	if err := json.Unmarshal(out, &res); err != nil {
		return fmt.Errorf("failed to decode clingo output: %w", err)
	}
	logging.SolverDebug("clingo: result %s", res.Result)

	for _, call := range res.Call {
		for _, w := range call.Witnesses {
			if err := onModel(NewModel(w.Value)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Clingo) run(ctx context.Context, source string, diag io.Writer, args ...string) ([]byte, error) {
	argv := append(append([]string{}, c.Args...), args...)
	cmd := exec.CommandContext(ctx, c.Path, argv...)
	cmd.Stdin = strings.NewReader(source)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}

	logging.SolverDebug("clingo: starting %s %v", c.Path, argv)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", c.Path, err)
	}

	var out, errText bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(&out, stdout)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(io.MultiWriter(diag, &errText), stderr)
		return err
	})
	copyErr := g.Wait()
	waitErr := cmd.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	code := 0
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return nil, fmt.Errorf("%s: %w", c.Path, waitErr)
		}
		code = exitErr.ExitCode()
	}
	if copyErr != nil {
		return nil, fmt.Errorf("failed to read %s output: %w", c.Path, copyErr)
	}

	switch code {
	case exitUnknown, exitSat, exitExhausted, exitSat | exitExhausted:
		return out.Bytes(), nil
	case exitError:
		return nil, &SyntaxError{Diagnostics: errText.String()}
	}
	return nil, fmt.Errorf("%s exited with status %d: %s", c.Path, code, strings.TrimSpace(errText.String()))
}
