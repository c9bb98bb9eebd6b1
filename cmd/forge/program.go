package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"aspforge/internal/asp"
	"aspforge/internal/config"
	"aspforge/internal/forge"
	"aspforge/internal/logging"
	"aspforge/internal/solver"
)

// currentConfig returns the loaded config, or the defaults when a command
// runs without the root pre-run.
func currentConfig() *config.Config {
	if cfg == nil {
		return config.DefaultConfig()
	}
	return cfg
}

// readProgram reads a program file and translates it to the solver syntax
// when the configured dialect needs it.
func readProgram(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read program: %w", err)
	}

	switch d := currentConfig().Program.Dialect; d {
	case "", "asp":
		return string(data), nil
	case "mangle":
		prog, err := asp.FromMangle(string(data))
		if err != nil {
			return "", fmt.Errorf("failed to translate %s: %w", path, err)
		}
		logging.Get(logging.CategoryBoot).Debug("Translated %s from Mangle: %d rules", path, len(prog.Rules))
		return prog.String(), nil
	default:
		return "", fmt.Errorf("unknown dialect %q", d)
	}
}

// newSolver builds the configured model enumerator.
func newSolver() (solver.Solver, error) {
	c := currentConfig()
	switch c.Solver.Backend {
	case "", "builtin":
		return solver.NewBuiltin(), nil
	case "clingo":
		return solver.NewClingo(c.Solver.ClingoPath, c.Solver.Args...), nil
	default:
		return nil, fmt.Errorf("unknown solver backend %q", c.Solver.Backend)
	}
}

// commandContext returns a context bounded by the solver timeout and
// cancelled on SIGINT/SIGTERM.
func commandContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, currentConfig().GetSolverTimeout())

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logging.Get(logging.CategoryBoot).Info("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

// loadForge reads, grounds and forges a program. Grounding diagnostics are
// printed to out as a CONSOLE section, including on syntax errors.
func loadForge(ctx context.Context, path string, out io.Writer, opts ...forge.Option) (*forge.Forge, error) {
	source, err := readProgram(path)
	if err != nil {
		return nil, err
	}
	s, err := newSolver()
	if err != nil {
		return nil, err
	}

	f, err := forge.New(ctx, source, s, opts...)
	if err != nil {
		var se *solver.SyntaxError
		if errors.As(err, &se) {
			forge.PrintConsole(out, se.Diagnostics)
		}
		return nil, err
	}
	return f, nil
}
