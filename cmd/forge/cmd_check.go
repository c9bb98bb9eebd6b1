package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [file...]",
	Short: "Check that program files parse and ground",
	Long: `Grounds each program with the configured solver and reports OK or ERROR per
file. Exits non-zero when any file fails, for use in CI.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	out := cmd.OutOrStdout()
	failed := 0
	for _, pattern := range args {
		// Handle glob expansion (if shell didn't already)
		matches, err := filepath.Glob(pattern)
		if err != nil {
			fmt.Fprintf(out, "Error processing pattern %s: %v\n", pattern, err)
			failed++
			continue
		}

		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				matches = []string{pattern}
			} else {
				fmt.Fprintf(out, "No files found matching: %s\n", pattern)
				failed++
				continue
			}
		}

		for _, file := range matches {
			if err := checkFile(ctx, file); err != nil {
				fmt.Fprintf(out, "ERROR in %s: %v\n", file, err)
				failed++
			} else {
				fmt.Fprintf(out, "OK: %s\n", file)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	return nil
}

func checkFile(ctx context.Context, path string) error {
	source, err := readProgram(path)
	if err != nil {
		return err
	}
	s, err := newSolver()
	if err != nil {
		return err
	}
	_, err = s.Ground(ctx, source, io.Discard)
	return err
}
