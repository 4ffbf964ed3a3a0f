package cmd

import (
	"errors"
	"fmt"

	"github.com/naka-gawa/repo-insights/internal/chart"
	"github.com/naka-gawa/repo-insights/internal/query"
	"github.com/naka-gawa/repo-insights/internal/usecase"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query <question> [owner/repo]",
	Short: "Answers a plain-English question about a repository with a chart",
	Long: `Matches the question against the known metric phrases, such as
"commit frequency" or "pr review time", and prints the matching description.
With --output json the chart figure is printed as well.`,
	Example: `  repo-insights query "show me the commit frequency" golang/go`,
	Args:    cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		if err := checkOutputFormat(output); err != nil {
			return err
		}
		question := args[0]
		out := cmd.OutOrStdout()

		// Unrecognized questions need no data.
		if _, ok := query.Match(question); !ok {
			if output == outputJSON {
				return printJSON(out, query.Result{Description: query.UnrecognizedDescription})
			}
			_, err := fmt.Fprintln(out, query.UnrecognizedDescription)
			return err
		}

		ds, _, err := loadDataset(cmd, args[1:], "")
		if err != nil {
			return err
		}
		router := query.NewRouter(chart.NewRenderer(chart.BluePalette))
		res, err := router.Route(question, usecase.Aggregate(*ds))
		if err != nil && !errors.Is(err, query.ErrUnrecognizedQuery) {
			return err
		}

		if output == outputJSON {
			return printJSON(out, res)
		}
		_, err = fmt.Fprintln(out, res.Description)
		return err
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringP("output", "o", outputTable, "Output format: json (description and figure) or table (description only)")
	queryCmd.Flags().StringP("input", "i", "", "Read a dataset snapshot instead of fetching from GitHub")
}
