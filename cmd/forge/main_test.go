package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"aspforge/internal/config"
	"aspforge/internal/logging"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setup installs a default config writing into a temp dir and returns a
// command whose output is captured.
func setup(t *testing.T) (*cobra.Command, *bytes.Buffer, string) {
	t.Helper()
	dir := t.TempDir()
	cfg = config.DefaultConfig()
	cfg.Generation.OutputDir = dir
	cfg.Generation.Seed = 42
	t.Cleanup(func() { cfg = nil })

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	return cmd, &buf, dir
}

func writeProgram(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

func TestRunGenerate(t *testing.T) {
	cmd, out, dir := setup(t)
	prog := writeProgram(t, dir, "program.lp", "a :- b.\nb.\n")

	require.NoError(t, runGenerate(cmd, []string{prog}))

	report := out.String()
	assert.Contains(t, report, "============= CODE =================a :- b.\nb.\n")
	assert.Contains(t, report, "============= RELEVANT ATOMS =======\na, b\n")
	assert.Contains(t, report, "number of answer sets: 1\nanswer set 1: a b\n")
	assert.Contains(t, report, "n. objects: 100\n")
	assert.Contains(t, report, "dataset_complete.csv saved\n")
	assert.NotContains(t, report, "CONSOLE")

	data, err := os.ReadFile(filepath.Join(dir, "dataset_complete.csv"))
	require.NoError(t, err)
	assert.Equal(t, "a;b;\n"+strings.Repeat("1;1;\n", 100), string(data))
	_, err = os.Stat(filepath.Join(dir, "dataset_partial.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunGenerate_FlagsOverrideConfig(t *testing.T) {
	_, out, dir := setup(t)
	prog := writeProgram(t, dir, "program.lp", "{a;b}.\n")
	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(outDir, 0755))

	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.Flags().AddFlagSet(generateCmd.Flags())
	require.NoError(t, cmd.Flags().Parse([]string{"--rows", "5", "--hidden", "1", "--uniform=false", "--output", outDir}))

	require.NoError(t, runGenerate(cmd, []string{prog}))
	assert.Contains(t, out.String(), "number of answer sets: 4\n")
	assert.Contains(t, out.String(), "randomly generated distribution\n")

	data, err := os.ReadFile(filepath.Join(outDir, "dataset_partial.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	assert.Len(t, lines, 6)
	assert.Len(t, strings.Split(lines[0], ";"), 2, "one observed column")
}

func TestRunGenerate_SyntaxError(t *testing.T) {
	cmd, out, dir := setup(t)
	prog := writeProgram(t, dir, "broken.lp", "a :- \n")

	err := runGenerate(cmd, []string{prog})
	require.Error(t, err)
	assert.Contains(t, out.String(), "============= CONSOLE ==============\nLine ")
	assert.Contains(t, out.String(), "error: syntax error")
}

func TestRunGenerate_NoModels(t *testing.T) {
	cmd, out, dir := setup(t)
	prog := writeProgram(t, dir, "unsat.lp", "a. :- a.\n")

	err := runGenerate(cmd, []string{prog})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no templates available")
	assert.Contains(t, out.String(), "number of answer sets: 0")
}

func TestRunModels(t *testing.T) {
	cmd, out, dir := setup(t)
	prog := writeProgram(t, dir, "program.lp", "a :- b.\n")

	require.NoError(t, runModels(cmd, []string{prog}))
	assert.Contains(t, out.String(), "============= CONSOLE ==============\nLine 1:6: info: atom does not occur in any rule head:\n  b\n")
	assert.Contains(t, out.String(), "number of answer sets: 3\n")
}

func TestRunVocab(t *testing.T) {
	cmd, out, dir := setup(t)
	prog := writeProgram(t, dir, "program.lp", "c :- -b, not a.\n")

	require.NoError(t, runVocab(cmd, []string{prog}))
	assert.Equal(t, "a\nb\nc\n", out.String())
}

func TestRunVocab_MangleDialect(t *testing.T) {
	cmd, out, dir := setup(t)
	cfg.Program.Dialect = "mangle"
	prog := writeProgram(t, dir, "program.mg", "a() :- b(), !c().\nb().\n")

	require.NoError(t, runVocab(cmd, []string{prog}))
	assert.Equal(t, "a\nb\nc\n", out.String())
}

func TestRunCheck(t *testing.T) {
	cmd, out, dir := setup(t)
	good := writeProgram(t, dir, "good.lp", "a :- b. b.\n")
	writeProgram(t, dir, "bad.lp", "a :- X.\n")

	require.NoError(t, runCheck(cmd, []string{good}))
	assert.Contains(t, out.String(), "OK: "+good)

	out.Reset()
	err := runCheck(cmd, []string{filepath.Join(dir, "*.lp"), filepath.Join(dir, "nothing-*.lp")})
	require.Error(t, err)
	assert.Contains(t, out.String(), "OK: "+good)
	assert.Contains(t, out.String(), "ERROR in "+filepath.Join(dir, "bad.lp"))
	assert.Contains(t, out.String(), "No files found matching")
	assert.Equal(t, "2 check(s) failed", err.Error())
}

func TestNewSolver(t *testing.T) {
	setup(t)

	s, err := newSolver()
	require.NoError(t, err)
	assert.NotNil(t, s)

	cfg.Solver.Backend = "clingo"
	s, err = newSolver()
	require.NoError(t, err)
	assert.NotNil(t, s)

	cfg.Solver.Backend = "dlv"
	_, err = newSolver()
	assert.Error(t, err)
}

func TestRootCommand_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	prog := writeProgram(t, dir, "program.lp", "a :- b. b.\n")
	cfgPath := filepath.Join(dir, "forge.yaml")
	conf := config.DefaultConfig()
	conf.Logging.Level = "error"
	require.NoError(t, conf.Save(cfgPath))
	t.Cleanup(func() {
		cfg = nil
		logging.Reset()
	})

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"--config", cfgPath, "--solver", "builtin", "vocab", prog})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "a\nb\n", buf.String())
	assert.Equal(t, "builtin", cfg.Solver.Backend)
}

func TestTemplateTracker(t *testing.T) {
	_, out, dir := setup(t)
	prog := writeProgram(t, dir, "program.lp", "a :- b. b.\n")
	params, seed, outDir := generationSettings(&cobra.Command{})

	tracker := &templateTracker{}
	f, err := generate(context.Background(), prog, params, seed, outDir, out)
	require.NoError(t, err)
	tracker.update(out, f)
	assert.NotContains(t, out.String(), "CHANGES")

	out.Reset()
	writeProgram(t, dir, "program.lp", "a :- b. {b}.\n")
	f, err = generate(context.Background(), prog, params, seed, outDir, out)
	require.NoError(t, err)
	tracker.update(out, f)
	assert.Contains(t, out.String(), "============= CHANGES ==============\n+ {-a, -b}\n")

	out.Reset()
	tracker.update(out, f)
	assert.Contains(t, out.String(), "templates unchanged\n")
}

func TestWatchProgram_StopsWithContext(t *testing.T) {
	_, out, dir := setup(t)
	prog := writeProgram(t, dir, "program.lp", "a.\n")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watchProgram(ctx, &cobra.Command{}, prog, out) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, "dataset_complete.csv"))
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
