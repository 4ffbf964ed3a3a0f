package report

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/naka-gawa/repo-insights/internal/domain"
	"github.com/naka-gawa/repo-insights/internal/usecase"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	os.Exit(m.Run())
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	b := domain.MetricsBundle{
		PRMergeRate:         domain.MergeRate{TotalPRs: 5, MergedPRs: 3, ClosedPRs: 4, MergeRate: 0.6},
		PRReviewTime:        25,
		ContributorActivity: map[string]int{"alice": 4, "bob": 2},
		TopIssues:           []domain.TopIssue{{Title: "flaky test", Comments: 8}},
	}
	repo := domain.RepoInfo{Name: "hello", Stars: 12, Language: "Go", URL: "https://github.com/octo/hello"}

	require.NoError(t, Summary(&buf, repo, b, usecase.Insights(b)))
	out := buf.String()

	assert.Contains(t, out, "Repository Information")
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "https://github.com/octo/hello")
	assert.Contains(t, out, "0.60")
	assert.Contains(t, out, "25.00")
	assert.Contains(t, out, "higher than the recommended threshold")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "flaky test")
}

func TestSummary_EmptyBundleSkipsListTables(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Summary(&buf, domain.RepoInfo{Name: "empty"}, domain.MetricsBundle{}, nil))
	assert.NotContains(t, buf.String(), "Contributor Activity")
	assert.NotContains(t, buf.String(), "Top Issues by Comments")
}

func TestPullRequestsAndIssues(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PullRequests(&buf, nil))
	assert.Contains(t, buf.String(), "No pull requests found.")

	buf.Reset()
	created := domain.At(time.Date(2024, 2, 3, 4, 5, 0, 0, time.UTC))
	require.NoError(t, PullRequests(&buf, []domain.PullRequest{{Number: 7, Title: "add cache", State: "open", CreatedAt: created, ReviewCount: 2}}))
	assert.Contains(t, buf.String(), "add cache")
	assert.Contains(t, buf.String(), "2024-02-03 04:05")

	buf.Reset()
	require.NoError(t, Issues(&buf, nil))
	assert.Contains(t, buf.String(), "No issues found.")

	buf.Reset()
	require.NoError(t, Issues(&buf, []domain.Issue{{Number: 1, Title: "no count"}}))
	assert.Contains(t, buf.String(), "no count")
	assert.Contains(t, buf.String(), "N/A")
}

func TestComparison(t *testing.T) {
	var buf bytes.Buffer
	c := usecase.CompareProfiles(&domain.Profile{Followers: 5, PublicRepos: 5}, nil)
	require.NoError(t, Comparison(&buf, c))
	assert.Contains(t, buf.String(), "Public Repos")
	assert.Contains(t, buf.String(), usecase.PrimaryMoreEngaging)
}
