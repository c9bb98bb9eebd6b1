package main

import (
	"fmt"

	"aspforge/internal/forge"

	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models [program]",
	Short: "Print the program, its vocabulary and every forged stable model",
	Args:  cobra.ExactArgs(1),
	RunE:  runModels,
}

func runModels(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	out := cmd.OutOrStdout()
	f, err := loadForge(ctx, args[0], out)
	if err != nil {
		return err
	}

	forge.PrintCode(out, f.Source())
	forge.PrintVocabulary(out, f.Vocabulary())
	if err := f.RunInference(ctx); err != nil {
		return fmt.Errorf("inference failed: %w", err)
	}
	forge.PrintConsole(out, f.Diagnostics())
	forge.PrintOutcome(out, f.Templates())
	return nil
}
