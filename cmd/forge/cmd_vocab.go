package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var vocabCmd = &cobra.Command{
	Use:   "vocab [program]",
	Short: "Print the propositions of a program, one per line",
	Args:  cobra.ExactArgs(1),
	RunE:  runVocab,
}

func runVocab(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	out := cmd.OutOrStdout()
	f, err := loadForge(ctx, args[0], out)
	if err != nil {
		return err
	}
	for _, p := range f.Vocabulary() {
		fmt.Fprintln(out, p)
	}
	return nil
}
