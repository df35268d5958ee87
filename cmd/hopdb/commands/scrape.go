package commands

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"hopdb/internal/catalog"
	"hopdb/internal/scraper"
	"hopdb/pkg/database"
)

var (
	scrapeSkipDB *bool
	scrapeOnly   *[]string
)

func init() {
	scrapeSkipDB = scrapeCmd.Flags().Bool("skip-db", false, "Only write the JSON files.")
	scrapeOnly = scrapeCmd.Flags().StringSlice("only", nil, "Run only the sources with these ids.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--only id,...] [--skip-db]",
	Short: "Fetches every enabled source, merges the records and stores the result.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.log.Sync()

		if len(*scrapeOnly) > 0 {
			keep := make(map[string]bool, len(*scrapeOnly))
			for _, id := range *scrapeOnly {
				if _, ok := e.cfg.Source(id); !ok {
					return fmt.Errorf("unknown source %q", id)
				}
				keep[id] = true
			}
			for i := range e.cfg.Sources {
				e.cfg.Sources[i].Disabled = !keep[e.cfg.Sources[i].ID]
			}
		}

		client := scraper.NewHTTPClient(e.cfg.HTTP)
		sources, err := scraper.BuildSources(e.cfg, client, e.norm, e.log)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		run := scraper.NewRun(time.Now())
		res, err := e.aggregator(sources...).FetchAndMerge(ctx)
		if err != nil {
			return fmt.Errorf("scrape: %w", err)
		}
		run.FinishedAt = time.Now().UTC()

		if err := catalog.WriteFile(e.cfg.Output.JSONPath, res.Merged, e.cfg.Output.Indent); err != nil {
			return err
		}
		if e.cfg.Output.RawPath != "" {
			if err := catalog.WriteFile(e.cfg.Output.RawPath, res.Raw, e.cfg.Output.Indent); err != nil {
				return err
			}
		}

		if !*scrapeSkipDB {
			db, err := database.OpenAndMigrate(database.Config{Path: e.cfg.Output.DBPath})
			if err != nil {
				return err
			}
			defer db.Close()

			if err := scraper.SaveRun(ctx, db, run, res.Raw, res.Merged); err != nil {
				return fmt.Errorf("save run: %w", err)
			}
		}

		names := make([]string, 0, len(res.Counts))
		for name := range res.Counts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			e.log.Info("source records", "source", name, "records", res.Counts[name])
		}
		e.log.Info("run complete",
			"run", run.ID,
			"raw", len(res.Raw),
			"merged", len(res.Merged),
			"failed", res.Failed,
			"output", e.cfg.Output.JSONPath,
		)
		return nil
	},
}
