package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"aspforge/internal/diff"
	"aspforge/internal/forge"
	"aspforge/internal/logging"
	"aspforge/internal/watch"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [program]",
	Short: "Regenerate the datasets whenever the program file changes",
	Long: `Runs generate once, then again after every settled change to the program
file, until interrupted. After each rerun the templates that appeared or
disappeared are listed. Accepts the same flags as generate.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watchProgram(ctx, cmd, args[0], cmd.OutOrStdout())
}

// templateListing renders templates one per line, sorted, so listings of
// two runs can be diffed.
func templateListing(templates []forge.Template) string {
	lines := make([]string, len(templates))
	for i, t := range templates {
		lines[i] = t.String()
	}
	sort.Strings(lines)
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// templateTracker remembers the last successful listing and reports
// changes against it.
type templateTracker struct {
	previous string
	seen     bool
}

func (tt *templateTracker) update(out io.Writer, f *forge.Forge) {
	if f == nil {
		return
	}
	current := templateListing(f.Templates())
	if tt.seen {
		lines := diff.Lines(tt.previous, current)
		added, removed := diff.Count(lines)
		fmt.Fprintln(out, "============= CHANGES ==============")
		if added == 0 && removed == 0 {
			fmt.Fprintln(out, "templates unchanged")
		} else {
			diff.WriteChanges(out, lines)
		}
		logging.Watch("Templates changed: +%d -%d", added, removed)
	}
	tt.previous, tt.seen = current, true
}

// watchProgram blocks until ctx is done, regenerating on every change.
func watchProgram(ctx context.Context, cmd *cobra.Command, path string, out io.Writer) error {
	params, seed, dir := generationSettings(cmd)
	tracker := &templateTracker{}
	run := func(ctx context.Context, p string) error {
		runCtx, cancel := context.WithTimeout(ctx, currentConfig().GetSolverTimeout())
		defer cancel()
		f, err := generate(runCtx, p, params, seed, dir, out)
		tracker.update(out, f)
		if err != nil {
			fmt.Fprintf(out, "ERROR: %v\n", err)
			return err
		}
		return nil
	}

	// A broken program at startup is reported and then watched like any other.
	_ = run(ctx, path)

	pw, err := watch.New(path, run)
	if err != nil {
		return err
	}
	if err := pw.Start(ctx); err != nil {
		return err
	}
	defer pw.Stop()

	<-pw.Done()
	stats := pw.GetStats()
	logging.Watch("Watch ended after %d run(s), %d error(s)", stats.Runs, stats.Errors)
	return nil
}
