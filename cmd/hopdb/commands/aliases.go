package commands

import (
	"github.com/spf13/cobra"

	"hopdb/internal/catalog"
	"hopdb/internal/merge"
)

var (
	aliasesThresh *float64
	aliasesRaw    *bool
)

func init() {
	aliasesThresh = aliasesCmd.Flags().Float64("threshold", merge.DefaultAliasThreshold, "Minimum Jaro-Winkler similarity.")
	aliasesRaw = aliasesCmd.Flags().Bool("raw", true, "Read output.raw_path instead of the merged catalog.")
	rootCmd.AddCommand(aliasesCmd)
}

var aliasesCmd = &cobra.Command{
	Use:   "aliases [records.json] [--threshold 0.92]",
	Short: "Lists merge keys that look like spellings of the same variety.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.log.Sync()

		path := e.cfg.Output.JSONPath
		if *aliasesRaw && e.cfg.Output.RawPath != "" {
			path = e.cfg.Output.RawPath
		}
		if len(args) == 1 {
			path = args[0]
		}
		records, err := catalog.ReadFile(path)
		if err != nil {
			return err
		}

		suggestions := merge.SuggestAliases(e.engine.Keys(records), *aliasesThresh)
		catalog.RenderAliases(cmd.OutOrStdout(), suggestions)
		e.log.Debug("alias suggestions", "file", path, "pairs", len(suggestions))
		return nil
	},
}
