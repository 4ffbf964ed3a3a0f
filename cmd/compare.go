package cmd

import (
	"errors"

	"github.com/naka-gawa/repo-insights/internal/chart"
	"github.com/naka-gawa/repo-insights/internal/domain"
	"github.com/naka-gawa/repo-insights/internal/report"
	"github.com/naka-gawa/repo-insights/internal/usecase"
	"github.com/spf13/cobra"
)

type compareOutput struct {
	Comparison usecase.Comparison `json:"comparison"`
	Figure     chart.Figure       `json:"figure"`
}

var compareCmd = &cobra.Command{
	Use:   "compare [owner/repo]",
	Short: "Compares the repository owner's profile with another GitHub user",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		if err := checkOutputFormat(output); err != nil {
			return err
		}
		with, _ := cmd.Flags().GetString("with")
		input, _ := cmd.Flags().GetString("input")

		var ds *domain.Dataset
		var err error
		if input != "" {
			// A snapshot already carries both profiles.
			ds, _, err = loadDataset(cmd, args, with)
		} else {
			if with == "" {
				return errors.New("--with is required unless --input is given")
			}
			ds, err = loadProfiles(cmd, args, with)
		}
		if err != nil {
			return err
		}
		c := usecase.CompareProfiles(ds.OwnerProfile, ds.SecondOwnerProfile)

		out := cmd.OutOrStdout()
		if output == outputJSON {
			return printJSON(out, compareOutput{
				Comparison: c,
				Figure:     chart.NewRenderer(chart.BluePalette).ProfileComparison(c),
			})
		}
		return report.Comparison(out, c)
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringP("output", "o", outputTable, "Output format: json or table")
	compareCmd.Flags().StringP("with", "w", "", "GitHub login to compare against (required without --input)")
	compareCmd.Flags().StringP("input", "i", "", "Read a dataset snapshot that includes both profiles")
}
