// Package cli implements the hygiene-analyzer command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hygiene-analyzer/app"
	"hygiene-analyzer/config"
	"hygiene-analyzer/metrics"
	"hygiene-analyzer/models"
	"hygiene-analyzer/storage"
	"hygiene-analyzer/utils"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hygiene-analyzer",
		Short: "Analyse UK Food Hygiene Rating Scheme open data",
		Long: `hygiene-analyzer downloads FHRS establishment data for one or more local
authorities and reports rating distributions, top business types, the most
recent five-star businesses and per-authority insights.

Configuration is read from .env and the environment; flags override it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringSlice("env-file", nil, "Load configuration from these .env files (default ./.env)")
	cmd.PersistentFlags().String("input", "", "Read the dataset from a local JSON file instead of downloading it")
	cmd.PersistentFlags().Uint64("seed", 0, "Seed for the simulated prior snapshot (default: derived from the clock)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewMenuCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewHistoryCmd())

	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// runtime is what every subcommand needs: configuration with flag
// overrides applied, a logger and the metrics registry.
type runtime struct {
	cfg     *config.Config
	logger  *utils.Logger
	metrics *metrics.Metrics
}

func newRuntime(cmd *cobra.Command) (*runtime, error) {
	envFiles, _ := cmd.Flags().GetStringSlice("env-file")
	cfg, err := config.Read(envFiles...)
	if err != nil {
		return nil, err
	}

	if input, _ := cmd.Flags().GetString("input"); input != "" {
		cfg.FetchMode = "file"
		cfg.InputFile = input
	}
	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetUint64("seed")
		cfg.PriorSeed = &seed
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &runtime{
		cfg:     cfg,
		logger:  utils.NewLoggerWithLevel(cmd.ErrOrStderr(), cfg.LogLevel),
		metrics: metrics.New(),
	}, nil
}

// pipeline builds the analysis pipeline. The returned close func releases
// the run store, if any.
func (rt *runtime) pipeline(ctx context.Context) (*app.Pipeline, func(), error) {
	source, err := app.NewSource(rt.cfg, rt.metrics, rt.logger)
	if err != nil {
		return nil, nil, err
	}
	p := &app.Pipeline{
		Source:    source,
		Options:   app.InsightOptionsFrom(rt.cfg),
		PriorSeed: rt.cfg.PriorSeed,
		Logger:    rt.logger,
		Observer:  rt.metrics,
	}

	closeStore := func() {}
	store, err := rt.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	if store != nil {
		p.Store = store
		closeStore = func() { _ = store.Close() }
	}
	return p, closeStore, nil
}

// openStore connects to the configured run store. It returns nil when
// STORE_DRIVER is none.
func (rt *runtime) openStore(ctx context.Context) (*storage.SQLStore, error) {
	dsn := rt.cfg.DSN()
	switch rt.cfg.StoreDriver {
	case storage.DriverPostgres:
	case storage.DriverSQLite:
		dsn = rt.cfg.SQLitePath
	default:
		return nil, nil
	}
	store, err := storage.OpenSQLStore(ctx, rt.cfg.StoreDriver, dsn)
	if err != nil {
		return nil, err
	}
	rt.logger.Info("[cli] Using %s run store", rt.cfg.StoreDriver)
	return store, nil
}

// analyse performs one pipeline run and writes the metrics textfile when
// configured. A non-nil run may come with an error from the run store.
func (rt *runtime) analyse(cmd *cobra.Command) (*models.Run, error) {
	p, closeStore, err := rt.pipeline(cmd.Context())
	if err != nil {
		return nil, err
	}
	defer closeStore()

	run, err := p.Run(cmd.Context())
	if path := rt.cfg.MetricsTextfile; path != "" {
		if werr := rt.metrics.WriteTextfile(path); werr != nil {
			rt.logger.Warn("[cli] %v", werr)
		}
	}
	return run, err
}
