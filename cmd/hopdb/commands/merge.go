package commands

import (
	"github.com/spf13/cobra"

	"hopdb/internal/catalog"
	"hopdb/pkg/models"
)

var mergeOut *string

func init() {
	mergeOut = mergeCmd.Flags().StringP("out", "o", "", "Output path (defaults to output.json_path).")
	rootCmd.AddCommand(mergeCmd)
}

var mergeCmd = &cobra.Command{
	Use:   "merge <raw.json>... [-o <out.json>]",
	Short: "Merges previously captured raw record files without fetching anything.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.log.Sync()

		var raw []models.Hop
		for _, path := range args {
			hops, err := catalog.ReadFile(path)
			if err != nil {
				return err
			}
			e.log.Debug("read raw records", "file", path, "records", len(hops))
			raw = append(raw, hops...)
		}

		merged := e.aggregator().Process(raw)

		out := *mergeOut
		if out == "" {
			out = e.cfg.Output.JSONPath
		}
		if err := catalog.WriteFile(out, merged, e.cfg.Output.Indent); err != nil {
			return err
		}
		e.log.Info("merge complete", "raw", len(raw), "merged", len(merged), "output", out)
		return nil
	},
}
