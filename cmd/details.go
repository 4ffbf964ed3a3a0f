package cmd

import (
	"fmt"

	"github.com/naka-gawa/repo-insights/internal/domain"
	"github.com/naka-gawa/repo-insights/internal/report"
	"github.com/naka-gawa/repo-insights/internal/usecase"
	"github.com/spf13/cobra"
)

type detailsOutput struct {
	PullRequests []domain.PullRequest `json:"pull_requests"`
	Issues       []domain.Issue       `json:"issues"`
}

var detailsCmd = &cobra.Command{
	Use:   "details [owner/repo]",
	Short: "Lists pull requests and issues, filtered by state and label",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		if err := checkOutputFormat(output); err != nil {
			return err
		}
		states, _ := cmd.Flags().GetStringSlice("pr-state")
		for _, s := range states {
			if s != domain.StateOpen && s != domain.StateClosed && s != usecase.StateAll {
				return fmt.Errorf("invalid --pr-state %q: must be open, closed or all", s)
			}
		}
		labels, _ := cmd.Flags().GetStringSlice("label")

		ds, _, err := loadDataset(cmd, args, "")
		if err != nil {
			return err
		}
		prs := usecase.FilterPullRequests(ds.PullRequests, states)
		issues := usecase.FilterIssues(ds.Issues, labels)

		out := cmd.OutOrStdout()
		if output == outputJSON {
			return printJSON(out, detailsOutput{PullRequests: prs, Issues: issues})
		}
		if err := report.PullRequests(out, prs); err != nil {
			return err
		}
		return report.Issues(out, issues)
	},
}

func init() {
	rootCmd.AddCommand(detailsCmd)
	detailsCmd.Flags().StringP("output", "o", outputTable, "Output format: json or table")
	detailsCmd.Flags().StringSlice("pr-state", []string{usecase.StateAll}, "Pull request states to list: open, closed, all")
	detailsCmd.Flags().StringSlice("label", nil, "Only list issues carrying one of these labels")
	detailsCmd.Flags().StringP("input", "i", "", "Read a dataset snapshot instead of fetching from GitHub")
}
