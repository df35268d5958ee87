package commands

import (
	"github.com/spf13/cobra"

	"hopdb/internal/catalog"
)

var compareFile *string

func init() {
	compareFile = compareCmd.Flags().String("file", "", "Merged catalog to read (defaults to output.json_path).")
	rootCmd.AddCommand(compareCmd)
}

var compareCmd = &cobra.Command{
	Use:   "compare <name>... [--file catalog.json]",
	Short: "Compares the brewing parameters of selected hops.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.log.Sync()

		path := e.cfg.Output.JSONPath
		if *compareFile != "" {
			path = *compareFile
		}
		hops, err := catalog.ReadFile(path)
		if err != nil {
			return err
		}

		selected, err := e.engine.Select(hops, args)
		if err != nil {
			return err
		}
		catalog.RenderComparison(cmd.OutOrStdout(), catalog.Compare(selected))
		return nil
	},
}
