// Command xlranker prioritizes protein-protein interaction candidates from
// cross-linking mass spectrometry peptide pairs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/xlranker/config"
	"github.com/katalvlaran/xlranker/logging"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	// Global flags
	configPath string
	verbose    bool
	seed       int64
	fragile    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "xlranker",
	Short: "Parsimony and ML prioritization of cross-linked protein pairs",
	Long: `xlranker resolves which protein pairs explain a set of cross-linked
peptide pairs.

Parsimony picks the smallest set of protein pairs that covers every peptide
pair; pairs it cannot tell apart are scored by a classifier ensemble trained
on the parsimonious pairs and settled by a selection policy.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("seed") {
			cfg.Seed = seed
		}
		if flags.Changed("fragile") {
			cfg.Fragile = fragile
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}

		logger, err = logging.New(cfg.Logging.Level, cfg.Logging.Format)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "xlranker.yaml", "Configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Top-level random seed (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&fragile, "fragile", false, "Treat data warnings as errors")

	parsimonyCmd.Flags().BoolVar(&parsimonyFull, "full", false, "Settle ambiguous pairs with a seeded random pick")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
	testFastaCmd.Flags().StringVar(&fastaPath, "fasta", "", "FASTA file (defaults to inputs.mapping.path)")
	testFastaCmd.Flags().IntVarP(&fastaLimit, "number", "n", 10, "Number of headers to parse")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(parsimonyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(testFastaCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
