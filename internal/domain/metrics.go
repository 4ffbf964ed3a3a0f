package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// DayLayout is the calendar-day format used for commit frequency buckets.
const DayLayout = "2006-01-02"

// Metric names, shared by the chart renderer, the query router and the HTTP API.
const (
	MetricLanguages           = "languages"
	MetricCommitFrequency     = "commit_frequency"
	MetricPRMergeRate         = "pr_merge_rate"
	MetricIssueResolutionTime = "issue_resolution_time"
	MetricContributorActivity = "contributor_activity"
	MetricTopIssues           = "top_issues"
	MetricPRReviewTime        = "pr_review_time"
	MetricIssueAge            = "issue_age"
)

// MetricNames lists every metric in display order.
var MetricNames = []string{
	MetricLanguages,
	MetricCommitFrequency,
	MetricPRMergeRate,
	MetricIssueResolutionTime,
	MetricContributorActivity,
	MetricTopIssues,
	MetricPRReviewTime,
	MetricIssueAge,
}

// DayCount is the number of commits authored on one UTC calendar day.
type DayCount struct {
	Date  time.Time
	Count int
}

// Day returns the bucket date as YYYY-MM-DD.
func (d DayCount) Day() string {
	return d.Date.Format(DayLayout)
}

// MarshalJSON encodes the bucket as {"date":"YYYY-MM-DD","count":n}.
func (d DayCount) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date  string `json:"date"`
		Count int    `json:"count"`
	}{d.Day(), d.Count})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (d *DayCount) UnmarshalJSON(data []byte) error {
	var raw struct {
		Date  string `json:"date"`
		Count int    `json:"count"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date, err := time.Parse(DayLayout, raw.Date)
	if err != nil {
		return err
	}
	d.Date, d.Count = date, raw.Count
	return nil
}

// MergeRate summarizes how many pull requests ended up merged.
type MergeRate struct {
	TotalPRs  int     `json:"total_prs"`
	MergedPRs int     `json:"merged_prs"`
	ClosedPRs int     `json:"closed_prs"`
	MergeRate float64 `json:"merge_rate"`
}

// TopIssue is an entry of the most-commented issues list.
type TopIssue struct {
	Title    string `json:"title"`
	Comments int    `json:"comments"`
}

// ContributorCount is one row of contributor activity.
type ContributorCount struct {
	Author  string `json:"author"`
	Commits int    `json:"commits"`
}

// MetricsBundle holds every statistic derived from a Dataset.
// Durations are averages in whole days.
type MetricsBundle struct {
	CommitFrequency     []DayCount     `json:"commit_frequency"`
	PRMergeRate         MergeRate      `json:"pr_merge_rate"`
	IssueResolutionTime float64        `json:"issue_resolution_time"`
	ContributorActivity map[string]int `json:"contributor_activity"`
	TopIssues           []TopIssue     `json:"top_issues"`
	PRReviewTime        float64        `json:"pr_review_time"`
	IssueAge            float64        `json:"issue_age"`
	Languages           LanguageBytes  `json:"languages"`
}

// RankedContributors returns contributor activity sorted by commit count,
// highest first, ties broken by author name.
func (b MetricsBundle) RankedContributors() []ContributorCount {
	ranked := make([]ContributorCount, 0, len(b.ContributorActivity))
	for author, n := range b.ContributorActivity {
		ranked = append(ranked, ContributorCount{Author: author, Commits: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Commits != ranked[j].Commits {
			return ranked[i].Commits > ranked[j].Commits
		}
		return ranked[i].Author < ranked[j].Author
	})
	return ranked
}

// CommitFrequencyBetween returns the buckets within [since, until]. A zero bound is open.
func (b MetricsBundle) CommitFrequencyBetween(since, until time.Time) []DayCount {
	out := make([]DayCount, 0, len(b.CommitFrequency))
	for _, d := range b.CommitFrequency {
		if !since.IsZero() && d.Date.Before(since) {
			continue
		}
		if !until.IsZero() && d.Date.After(until) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// ParseDayWindow parses optional YYYY-MM-DD bounds as UTC days. An empty
// string leaves that side open.
func ParseDayWindow(since, until string) (from, to time.Time, err error) {
	parse := func(s string) (time.Time, error) {
		if s == "" {
			return time.Time{}, nil
		}
		t, err := time.ParseInLocation(DayLayout, s, time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q (expected %s)", ErrInvalidDate, s, DayLayout)
		}
		return t, nil
	}
	if from, err = parse(since); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to, err = parse(until); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s is before %s", ErrInvalidDate, until, since)
	}
	return from, to, nil
}
