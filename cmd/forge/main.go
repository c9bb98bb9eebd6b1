package main

import (
	"fmt"
	"os"
	"time"

	"aspforge/internal/config"
	"aspforge/internal/logging"

	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	solverName string
	clingoPath string
	dialect    string
	timeout    time.Duration

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "forge",
	Short: "forge - synthesize datasets from the stable models of a logic program",
	Long: `forge grounds a logic program, forces every proposition to be decided,
enumerates the resulting stable models and uses them as templates for
sampling binary CSV datasets.

Programs are written in the usual answer set programming syntax (facts,
rules, constraints, choice rules, "not" and classical "-"), or in Mangle
when --dialect mangle is given.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		applyFlagOverrides(cmd, loaded)
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded

		logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.Initialize(logger, cfg.Logging.Categories)
		logging.Boot("Config loaded from %s (solver=%s, dialect=%s)", configPath, cfg.Solver.Backend, cfg.Program.Dialect)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Base().Sync()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "forge.yaml", "Config file")
	rootCmd.PersistentFlags().StringVar(&solverName, "solver", "", "Model enumerator: builtin or clingo (or set FORGE_SOLVER env)")
	rootCmd.PersistentFlags().StringVar(&clingoPath, "clingo", "", "Path to the clingo binary (or set FORGE_CLINGO_PATH env)")
	rootCmd.PersistentFlags().StringVar(&dialect, "dialect", "", "Program dialect: asp or mangle")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Solver timeout (default from config)")

	// Generate flags
	generateCmd.Flags().IntVarP(&genRows, "rows", "n", 100, "Number of rows to sample")
	generateCmd.Flags().BoolVar(&genUniform, "uniform", true, "Use a uniform distribution over templates")
	generateCmd.Flags().IntVar(&genHidden, "hidden", 0, "Number of propositions to hide in the partial dataset")
	generateCmd.Flags().Uint64Var(&genSeed, "seed", 0, "Random seed (0 seeds from the clock)")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "", "Output directory (default from config)")
	watchCmd.Flags().AddFlagSet(generateCmd.Flags())

	// Add commands to root
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(vocabCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
}

// applyFlagOverrides copies explicitly set global flags into the config.
func applyFlagOverrides(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("solver") {
		c.Solver.Backend = solverName
	}
	if flags.Changed("clingo") {
		c.Solver.ClingoPath = clingoPath
	}
	if flags.Changed("dialect") {
		c.Program.Dialect = dialect
	}
	if flags.Changed("timeout") {
		c.Solver.Timeout = timeout.String()
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
