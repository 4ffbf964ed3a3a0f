package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset [owner/repo]",
	Short: "Dumps the raw fetched dataset as JSON for offline use with --input",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		with, _ := cmd.Flags().GetString("with")
		ds, _, err := loadDataset(cmd, args, with)
		if err != nil {
			return err
		}

		file, _ := cmd.Flags().GetString("file")
		if file == "" {
			return printJSON(cmd.OutOrStdout(), ds)
		}
		data, err := json.MarshalIndent(ds, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal dataset: %w", err)
		}
		if err := os.WriteFile(file, data, 0o644); err != nil {
			return fmt.Errorf("failed to write dataset: %w", err)
		}
		newLogger(cmd).Printf("Dataset written to %s", file)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(datasetCmd)
	datasetCmd.Flags().StringP("file", "f", "", "Write to this file instead of standard output")
	datasetCmd.Flags().StringP("with", "w", "", "Also fetch this user's profile for later comparison")
}
