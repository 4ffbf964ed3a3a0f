package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/naka-gawa/repo-insights/internal/chart"
	"github.com/naka-gawa/repo-insights/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "csv")
	b := domain.MetricsBundle{
		CommitFrequency: []domain.DayCount{
			{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Count: 2},
			{Date: time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), Count: 1},
		},
		PRMergeRate:         domain.MergeRate{TotalPRs: 5, MergedPRs: 3, MergeRate: 0.6},
		IssueResolutionTime: 10,
		ContributorActivity: map[string]int{"bob": 1, "alice": 2},
		TopIssues:           []domain.TopIssue{{Title: "crash, on start", Comments: 12}},
		PRReviewTime:        2.5,
		IssueAge:            7,
	}

	paths, err := WriteCSV(dir, b)
	require.NoError(t, err)
	require.Len(t, paths, 7)

	assert.Equal(t, [][]string{{"date", "Commit Frequency"}, {"2024-01-01", "2"}, {"2024-01-04", "1"}},
		readCSV(t, filepath.Join(dir, CommitFrequencyFile)))
	assert.Equal(t, [][]string{{"Total PRs", "Merged PRs", "Merge Rate"}, {"5", "3", "0.6"}},
		readCSV(t, filepath.Join(dir, PRMergeRateFile)))
	assert.Equal(t, [][]string{{"Average Resolution Time"}, {"10"}},
		readCSV(t, filepath.Join(dir, IssueResolutionTimeFile)))
	assert.Equal(t, [][]string{{"author", "count"}, {"alice", "2"}, {"bob", "1"}},
		readCSV(t, filepath.Join(dir, ContributorActivityFile)))
	assert.Equal(t, [][]string{{"title", "comments"}, {"crash, on start", "12"}},
		readCSV(t, filepath.Join(dir, TopIssuesFile)))
	assert.Equal(t, [][]string{{"Average Review Time"}, {"2.5"}},
		readCSV(t, filepath.Join(dir, PRReviewTimeFile)))
	assert.Equal(t, [][]string{{"Average Issue Age"}, {"7"}},
		readCSV(t, filepath.Join(dir, IssueAgeFile)))
}

func TestWriteCSV_EmptyBundle(t *testing.T) {
	dir := t.TempDir()
	paths, err := WriteCSV(dir, domain.MetricsBundle{})
	require.NoError(t, err)
	assert.Len(t, paths, 7)
	assert.Equal(t, [][]string{{"date", "Commit Frequency"}}, readCSV(t, filepath.Join(dir, CommitFrequencyFile)))
	assert.Equal(t, [][]string{{"Total PRs", "Merged PRs", "Merge Rate"}, {"0", "0", "0"}}, readCSV(t, filepath.Join(dir, PRMergeRateFile)))
}

func TestWriteCSV_DirectoryIsAFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err := WriteCSV(file, domain.MetricsBundle{})
	assert.Error(t, err)
}

func TestWriteFigures(t *testing.T) {
	dir := t.TempDir()
	r := chart.NewRenderer(chart.BluePalette)
	figs := map[string]chart.Figure{
		domain.MetricPRReviewTime: r.Gauge(chart.TitlePRReviewTime, 4),
		domain.MetricLanguages:    r.LanguageDistribution(domain.LanguageBytes{"Go": 1}),
	}

	paths, err := WriteFigures(dir, figs)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "languages.json"),
		filepath.Join(dir, "pr_review_time.json"),
	}, paths)

	data, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	var fig chart.Figure
	require.NoError(t, json.Unmarshal(data, &fig))
	require.Len(t, fig.Data, 1)
	assert.Equal(t, "indicator", fig.Data[0].Type)
}
