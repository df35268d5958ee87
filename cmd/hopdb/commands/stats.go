package commands

import (
	"github.com/spf13/cobra"

	"hopdb/internal/catalog"
)

var statsPerHop *bool

func init() {
	statsPerHop = statsCmd.Flags().Bool("hops", false, "Also print one row per hop.")
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats [catalog.json]",
	Short: "Prints purpose, alpha and oil statistics for a merged catalog.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.log.Sync()

		path := e.cfg.Output.JSONPath
		if len(args) == 1 {
			path = args[0]
		}
		hops, err := catalog.ReadFile(path)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if *statsPerHop {
			catalog.RenderHops(out, hops)
		}
		catalog.RenderAnalysis(out, catalog.Analyze(hops))
		return nil
	},
}
