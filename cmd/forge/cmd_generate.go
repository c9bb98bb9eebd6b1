package main

import (
	"context"
	"fmt"
	"io"

	"aspforge/internal/forge"
	"aspforge/internal/logging"

	"github.com/spf13/cobra"
)

var (
	genRows    int
	genUniform bool
	genHidden  int
	genSeed    uint64
	genOutput  string
)

var generateCmd = &cobra.Command{
	Use:   "generate [program]",
	Short: "Sample CSV datasets from a program's stable models",
	Long: `Grounds the program, enumerates the stable models of its forged form and
samples rows from them. Writes dataset_complete.csv and, when --hidden is
greater than zero, dataset_partial.csv without the hidden columns.

Example:
  forge generate --rows 1000 --uniform=false --hidden 3 program.lp`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

// generationSettings merges generate flags over the config defaults.
func generationSettings(cmd *cobra.Command) (forge.GenerationParams, uint64, string) {
	g := currentConfig().Generation
	params := forge.GenerationParams{NRows: g.Rows, Uniform: g.Uniform, NHidden: g.Hidden}
	seed, dir := g.Seed, g.OutputDir

	flags := cmd.Flags()
	if flags.Changed("rows") {
		params.NRows = genRows
	}
	if flags.Changed("uniform") {
		params.Uniform = genUniform
	}
	if flags.Changed("hidden") {
		params.NHidden = genHidden
	}
	if flags.Changed("seed") {
		seed = genSeed
	}
	if flags.Changed("output") {
		dir = genOutput
	}
	if dir == "" {
		dir = "."
	}
	return params, seed, dir
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	params, seed, dir := generationSettings(cmd)
	_, err := generate(ctx, args[0], params, seed, dir, cmd.OutOrStdout())
	return err
}

// generate runs the whole pipeline for one program file and prints the
// report sections to out. The forge is returned once inference succeeded,
// even if the dataset could not be produced.
func generate(ctx context.Context, path string, params forge.GenerationParams, seed uint64, dir string, out io.Writer) (*forge.Forge, error) {
	f, err := loadForge(ctx, path, out, forge.WithRand(forge.NewRand(seed)), forge.WithReport(out))
	if err != nil {
		return nil, err
	}

	forge.PrintCode(out, f.Source())
	forge.PrintVocabulary(out, f.Vocabulary())
	if err := f.RunInference(ctx); err != nil {
		return nil, err
	}
	forge.PrintConsole(out, f.Diagnostics())
	forge.PrintOutcome(out, f.Templates())

	res, paths, err := f.ForgeDataset(params, dir)
	if err != nil {
		return f, fmt.Errorf("failed to forge dataset: %w", err)
	}
	logging.Forge("Request %s wrote %d file(s) to %s", res.RequestID, len(paths), dir)
	return f, nil
}
