// Package report renders metrics, details and comparisons as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/naka-gawa/repo-insights/internal/domain"
	"github.com/naka-gawa/repo-insights/internal/usecase"
	"github.com/pterm/pterm"
)

// maxListedContributors caps the contributor table in the summary.
const maxListedContributors = 10

// Summary writes the repository header, every statistic and the insights.
func Summary(w io.Writer, repo domain.RepoInfo, b domain.MetricsBundle, insights []usecase.Insight) error {
	repoTable := pterm.TableData{
		{"Name", "Stars", "Forks", "Watchers", "Primary Language"},
		{repo.Name, strconv.Itoa(repo.Stars), strconv.Itoa(repo.Forks), strconv.Itoa(repo.Watchers), repo.Language},
	}
	if err := section(w, "Repository Information", repoTable); err != nil {
		return err
	}
	if repo.Description != "" || repo.URL != "" {
		fmt.Fprintf(w, "%s\n%s\n", repo.Description, repo.URL)
	}

	for _, in := range insights {
		fmt.Fprint(w, pterm.Warning.Sprintln(in.Message))
	}

	metrics := pterm.TableData{
		{"Metric", "Value"},
		{"Total PRs", strconv.Itoa(b.PRMergeRate.TotalPRs)},
		{"Merged PRs", strconv.Itoa(b.PRMergeRate.MergedPRs)},
		{"Closed PRs", strconv.Itoa(b.PRMergeRate.ClosedPRs)},
		{"PR Merge Rate", fmt.Sprintf("%.2f", b.PRMergeRate.MergeRate)},
		{"Avg. PR Review Time (days)", fmt.Sprintf("%.2f", b.PRReviewTime)},
		{"Avg. Issue Resolution Time (days)", fmt.Sprintf("%.2f", b.IssueResolutionTime)},
		{"Avg. Issue Age (days)", fmt.Sprintf("%.2f", b.IssueAge)},
		{"Active Commit Days", strconv.Itoa(len(b.CommitFrequency))},
	}
	if err := section(w, "Metrics", metrics); err != nil {
		return err
	}

	if ranked := b.RankedContributors(); len(ranked) > 0 {
		if len(ranked) > maxListedContributors {
			ranked = ranked[:maxListedContributors]
		}
		data := pterm.TableData{{"Contributor", "Commits"}}
		for _, c := range ranked {
			data = append(data, []string{c.Author, strconv.Itoa(c.Commits)})
		}
		if err := section(w, "Contributor Activity", data); err != nil {
			return err
		}
	}

	if len(b.TopIssues) > 0 {
		data := pterm.TableData{{"Issue", "Comments"}}
		for _, is := range b.TopIssues {
			data = append(data, []string{is.Title, strconv.Itoa(is.Comments)})
		}
		if err := section(w, "Top Issues by Comments", data); err != nil {
			return err
		}
	}
	return nil
}

// PullRequests writes the pull request details table.
func PullRequests(w io.Writer, prs []domain.PullRequest) error {
	if len(prs) == 0 {
		fmt.Fprintln(w, "No pull requests found.")
		return nil
	}
	data := pterm.TableData{{"#", "Title", "State", "Created At", "Reviews Count"}}
	for _, pr := range prs {
		data = append(data, []string{
			strconv.Itoa(pr.Number), pr.Title, pr.State, formatDate(pr.CreatedAt), strconv.Itoa(pr.ReviewCount),
		})
	}
	return section(w, "Pull Request Details", data)
}

// Issues writes the issue details table.
func Issues(w io.Writer, issues []domain.Issue) error {
	if len(issues) == 0 {
		fmt.Fprintln(w, "No issues found.")
		return nil
	}
	data := pterm.TableData{{"#", "Title", "State", "Created At", "Comments"}}
	for _, is := range issues {
		comments := "-"
		if is.Comments != nil {
			comments = strconv.Itoa(*is.Comments)
		}
		data = append(data, []string{
			strconv.Itoa(is.Number), is.Title, is.State, formatDate(is.CreatedAt), comments,
		})
	}
	return section(w, "Issue Details", data)
}

// Comparison writes a profile comparison and its narrative.
func Comparison(w io.Writer, c usecase.Comparison) error {
	data := pterm.TableData{{"Metric", "Primary Owner", "Secondary Owner"}}
	for _, row := range c.Rows {
		data = append(data, []string{row.Metric, row.Primary, row.Secondary})
	}
	if err := section(w, "Profile Comparison", data); err != nil {
		return err
	}
	fmt.Fprintln(w, c.Description)
	return nil
}

func section(w io.Writer, title string, data pterm.TableData) error {
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("failed to render %s table: %w", title, err)
	}
	fmt.Fprint(w, pterm.DefaultSection.Sprint(title))
	fmt.Fprintln(w, table)
	return nil
}

func formatDate(ts domain.Timestamp) string {
	if !ts.Valid() {
		return "N/A"
	}
	return ts.UTC().Format("2006-01-02 15:04")
}
