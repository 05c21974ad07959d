package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/xlranker/core"
	"github.com/katalvlaran/xlranker/httpapi"
	"github.com/katalvlaran/xlranker/pipeline"
	"github.com/katalvlaran/xlranker/readers"
	"github.com/katalvlaran/xlranker/store"
)

var (
	parsimonyFull bool
	serveAddr     string
	fastaPath     string
	fastaLimit    int
	initForce     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run parsimony, the classifier ensemble and selection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, func(ctx context.Context, p *pipeline.Pipeline) (*pipeline.Outcome, error) {
			return p.Run(ctx)
		})
	},
}

var parsimonyCmd = &cobra.Command{
	Use:   "parsimony",
	Short: "Run parsimony only",
	Long: `Run parsimony only. Ambiguous pairs are reported as such unless --full
is given, in which case one pair per ambiguous subgroup is picked at random
(seeded) as the primary.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, func(ctx context.Context, p *pipeline.Pipeline) (*pipeline.Outcome, error) {
			return p.ParsimonyOnly(ctx, parsimonyFull)
		})
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve stored runs over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Store.Path == "" {
			return errors.New("serve: store.path (or XLRANKER_DB) is required")
		}
		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()

		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		router := httpapi.NewRouter(httpapi.NewHandler(st, logger), cfg.Server.AllowedOrigins)
		return httpapi.Serve(ctx, addr, router, logger)
	},
}

var testFastaCmd = &cobra.Command{
	Use:   "test-fasta",
	Short: "Print the gene symbols parsed from the first FASTA headers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := fastaPath
		if path == "" {
			path = cfg.Inputs.Mapping.Path
		}
		if path == "" {
			return errors.New("test-fasta: no FASTA file given")
		}
		fo, err := cfg.FastaOptions()
		if err != nil {
			return err
		}
		headers, err := readers.ReadFastaHeaders(path, fastaLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, h := range headers {
			fmt.Fprintf(out, "%s\t%s\n", readers.GeneSymbol(h, fo), h)
		}
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to --config",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil && !initForce {
			return fmt.Errorf("init: %s exists (use --force)", configPath)
		}
		if err := cfg.Save(configPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", configPath)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "xlranker %s\n", version)
	},
}

// runPipeline opens the optional store, builds the pipeline and runs exec.
func runPipeline(cmd *cobra.Command, exec func(context.Context, *pipeline.Pipeline) (*pipeline.Outcome, error)) error {
	opts := []pipeline.Option{pipeline.WithLogger(logger)}
	if cfg.Store.Path != "" {
		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()
		opts = append(opts, pipeline.WithSaver(st))
	}
	p, err := pipeline.New(cfg, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	out, err := exec(ctx, p)
	if err != nil {
		return err
	}

	counts := out.DataSet.StatusCounts()
	fields := []zap.Field{zap.Int("groups", out.Groups), zap.String("output", cfg.Output.Dir)}
	for _, s := range core.AllStatuses() {
		if counts[s] > 0 {
			fields = append(fields, zap.Int(s.String(), counts[s]))
		}
	}
	if out.Run.ID != "" {
		fields = append(fields, zap.String("run_id", out.Run.ID))
	}
	logger.Info("xlranker finished", fields...)
	return nil
}
