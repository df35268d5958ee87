package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hopdb/internal/aroma"
	"hopdb/internal/config"
	"hopdb/internal/merge"
	"hopdb/internal/names"
	"hopdb/internal/scraper"
	"hopdb/pkg/logger"
)

var configPath *string

var rootCmd = &cobra.Command{
	Use:           "hopdb",
	Short:         "hopdb collects hop varieties from supplier catalogs and merges them into one database.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	configPath = rootCmd.PersistentFlags().StringP("config", "c", "hopdb.yaml", "Path to the configuration file.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is what every command needs: the configuration, a logger and the
// aroma and name tables built from it.
type env struct {
	cfg      *config.Config
	log      *logger.Logger
	norm     *aroma.Normalizer
	engine   *merge.Engine
	rescaler *aroma.Rescaler
}

func loadEnv() (*env, error) {
	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Logging.Mode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	tax, err := cfg.Taxonomy.Build()
	if err != nil {
		return nil, err
	}
	nn, err := names.Default().WithAliases(cfg.Taxonomy.Aliases)
	if err != nil {
		return nil, fmt.Errorf("name aliases: %w", err)
	}

	return &env{
		cfg:      cfg,
		log:      log,
		norm:     aroma.NewNormalizer(tax),
		engine:   merge.NewEngine(nn, tax),
		rescaler: aroma.NewRescaler(tax),
	}, nil
}

func (e *env) aggregator(sources ...scraper.Source) *scraper.Aggregator {
	return scraper.NewAggregator(e.rescaler, e.engine, e.log, sources...)
}
