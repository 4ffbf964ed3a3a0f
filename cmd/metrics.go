package cmd

import (
	"fmt"
	"time"

	"github.com/naka-gawa/repo-insights/internal/domain"
	"github.com/naka-gawa/repo-insights/internal/report"
	"github.com/naka-gawa/repo-insights/internal/usecase"
	"github.com/spf13/cobra"
)

type metricsOutput struct {
	Repo      domain.RepoInfo      `json:"repo"`
	Metrics   domain.MetricsBundle `json:"metrics"`
	Insights  []usecase.Insight    `json:"insights"`
	FetchedAt time.Time            `json:"fetched_at"`
}

var metricsCmd = &cobra.Command{
	Use:   "metrics [owner/repo]",
	Short: "Computes repository metrics and outputs them as JSON or tables",
	Long: `Fetches commits, pull requests, issues, languages and contributors of a
repository, computes every metric and prints the result. With --input, a
snapshot written by "dataset" is used instead of calling GitHub.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		if err := checkOutputFormat(output); err != nil {
			return err
		}
		sinceStr, _ := cmd.Flags().GetString("since")
		untilStr, _ := cmd.Flags().GetString("until")
		since, until, err := domain.ParseDayWindow(sinceStr, untilStr)
		if err != nil {
			return err
		}

		ds, _, err := loadDataset(cmd, args, "")
		if err != nil {
			return err
		}

		bundle := usecase.Aggregate(*ds)
		bundle.CommitFrequency = bundle.CommitFrequencyBetween(since, until)
		insights := usecase.Insights(bundle)

		out := cmd.OutOrStdout()
		if output == outputTable {
			return report.Summary(out, ds.Repo, bundle, insights)
		}
		if err := printJSON(out, metricsOutput{
			Repo:      ds.Repo,
			Metrics:   bundle,
			Insights:  insights,
			FetchedAt: ds.FetchedAt,
		}); err != nil {
			return fmt.Errorf("failed to print metrics: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(metricsCmd)
	metricsCmd.Flags().StringP("output", "o", outputJSON, "Output format: json or table")
	metricsCmd.Flags().StringP("input", "i", "", "Read a dataset snapshot instead of fetching from GitHub")
	metricsCmd.Flags().String("since", "", "Only count commit days on or after this date (YYYY-MM-DD)")
	metricsCmd.Flags().String("until", "", "Only count commit days on or before this date (YYYY-MM-DD)")
}
