// Package export writes metrics and chart figures to files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/naka-gawa/repo-insights/internal/chart"
	"github.com/naka-gawa/repo-insights/internal/domain"
)

// File names of the CSV export, one per metric.
const (
	CommitFrequencyFile     = "commit_frequency.csv"
	PRMergeRateFile         = "pr_merge_rate.csv"
	IssueResolutionTimeFile = "issue_resolution_time.csv"
	ContributorActivityFile = "contributor_activity.csv"
	TopIssuesFile           = "top_issues.csv"
	PRReviewTimeFile        = "pr_review_time.csv"
	IssueAgeFile            = "issue_age.csv"
)

// WriteCSV writes every metric of b as a CSV file in dir, creating dir if
// needed, and returns the written paths in write order.
func WriteCSV(dir string, b domain.MetricsBundle) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	tables := []struct {
		file string
		rows [][]string
	}{
		{CommitFrequencyFile, commitFrequencyRows(b.CommitFrequency)},
		{PRMergeRateFile, [][]string{
			{"Total PRs", "Merged PRs", "Merge Rate"},
			{strconv.Itoa(b.PRMergeRate.TotalPRs), strconv.Itoa(b.PRMergeRate.MergedPRs), formatFloat(b.PRMergeRate.MergeRate)},
		}},
		{IssueResolutionTimeFile, [][]string{{"Average Resolution Time"}, {formatFloat(b.IssueResolutionTime)}}},
		{ContributorActivityFile, contributorRows(b.RankedContributors())},
		{TopIssuesFile, topIssueRows(b.TopIssues)},
		{PRReviewTimeFile, [][]string{{"Average Review Time"}, {formatFloat(b.PRReviewTime)}}},
		{IssueAgeFile, [][]string{{"Average Issue Age"}, {formatFloat(b.IssueAge)}}},
	}

	paths := make([]string, 0, len(tables))
	for _, t := range tables {
		path := filepath.Join(dir, t.file)
		if err := writeCSVFile(path, t.rows); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteFigures writes each figure as <name>.json in dir, in name order.
func WriteFigures(dir string, figs map[string]chart.Figure) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	names := make([]string, 0, len(figs))
	for name := range figs {
		names = append(names, name)
	}
	sort.Strings(names)

	paths := make([]string, 0, len(names))
	for _, name := range names {
		data, err := json.MarshalIndent(figs[name], "", "  ")
		if err != nil {
			return paths, fmt.Errorf("failed to marshal figure %s: %w", name, err)
		}
		path := filepath.Join(dir, name+".json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// commitFrequencyRows is indexed by date.
func commitFrequencyRows(series []domain.DayCount) [][]string {
	rows := [][]string{{"date", "Commit Frequency"}}
	for _, d := range series {
		rows = append(rows, []string{d.Day(), strconv.Itoa(d.Count)})
	}
	return rows
}

// contributorRows is indexed by author.
func contributorRows(ranked []domain.ContributorCount) [][]string {
	rows := [][]string{{"author", "count"}}
	for _, c := range ranked {
		rows = append(rows, []string{c.Author, strconv.Itoa(c.Commits)})
	}
	return rows
}

func topIssueRows(issues []domain.TopIssue) [][]string {
	rows := [][]string{{"title", "comments"}}
	for _, is := range issues {
		rows = append(rows, []string{is.Title, strconv.Itoa(is.Comments)})
	}
	return rows
}

func writeCSVFile(path string, rows [][]string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
