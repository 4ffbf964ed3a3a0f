// Package usecase contains the business logic of the application.
package usecase

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/naka-gawa/repo-insights/internal/domain"
)

// maxTopIssues caps the most-commented issues list.
const maxTopIssues = 10

const day = 24 * time.Hour

// Aggregate derives every statistic of the MetricsBundle from a dataset.
// It is a pure function: no I/O, no hidden state, and records missing the
// fields a statistic needs are left out of that statistic only.
func Aggregate(ds domain.Dataset) domain.MetricsBundle {
	languages := make(domain.LanguageBytes, len(ds.Languages))
	for lang, n := range ds.Languages {
		languages[lang] = n
	}
	return domain.MetricsBundle{
		CommitFrequency:     CommitFrequency(ds.Commits),
		PRMergeRate:         PRMergeRate(ds.PullRequests),
		IssueResolutionTime: IssueResolutionTime(ds.Issues),
		ContributorActivity: ContributorActivity(ds.Commits),
		TopIssues:           TopIssues(ds.Issues),
		PRReviewTime:        PRReviewTime(ds.PullRequests),
		IssueAge:            IssueAge(ds.Issues, ds.FetchedAt),
		Languages:           languages,
	}
}

// CommitFrequency counts commits per UTC calendar day, oldest day first.
// Days without commits are not part of the series.
func CommitFrequency(commits []domain.Commit) []domain.DayCount {
	counts := make(map[time.Time]int)
	for _, c := range commits {
		if !c.AuthoredAt.Valid() {
			continue
		}
		counts[c.AuthoredAt.UTC().Truncate(day)]++
	}

	series := make([]domain.DayCount, 0, len(counts))
	for date, n := range counts {
		series = append(series, domain.DayCount{Date: date, Count: n})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	return series
}

// PRMergeRate counts pull requests that carry both a title and a state, and
// how many of those were merged. A PR counts as merged when it has a merge
// timestamp; closed-without-merge PRs are reported separately.
func PRMergeRate(prs []domain.PullRequest) domain.MergeRate {
	var rate domain.MergeRate
	for _, pr := range prs {
		if pr.Title == "" || pr.State == "" {
			continue
		}
		rate.TotalPRs++
		if pr.MergedAt.Valid() {
			rate.MergedPRs++
		}
		if pr.State == domain.StateClosed {
			rate.ClosedPRs++
		}
	}
	if rate.TotalPRs > 0 {
		rate.MergeRate = float64(rate.MergedPRs) / float64(rate.TotalPRs)
	}
	return rate
}

// IssueResolutionTime is the mean number of whole days between the creation
// and the closing of closed issues, or 0 when no issue qualifies.
func IssueResolutionTime(issues []domain.Issue) float64 {
	var durations stats.Float64Data
	for _, is := range issues {
		if !is.CreatedAt.Valid() || !is.ClosedAt.Valid() {
			continue
		}
		durations = append(durations, wholeDays(is.CreatedAt.Time, is.ClosedAt.Time))
	}
	return mean(durations)
}

// ContributorActivity counts commits per author name.
func ContributorActivity(commits []domain.Commit) map[string]int {
	activity := make(map[string]int)
	for _, c := range commits {
		if c.AuthorName == "" {
			continue
		}
		activity[c.AuthorName]++
	}
	return activity
}

// TopIssues returns up to ten issues with the most comments, most commented
// first. Issues with equal counts keep their input order.
func TopIssues(issues []domain.Issue) []domain.TopIssue {
	top := make([]domain.TopIssue, 0, len(issues))
	for _, is := range issues {
		if is.Comments == nil {
			continue
		}
		top = append(top, domain.TopIssue{Title: is.Title, Comments: *is.Comments})
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Comments > top[j].Comments
	})
	if len(top) > maxTopIssues {
		top = top[:maxTopIssues]
	}
	return top
}

// PRReviewTime is the mean number of whole days between the creation and the
// merge of merged pull requests, or 0 when none was merged.
func PRReviewTime(prs []domain.PullRequest) float64 {
	var durations stats.Float64Data
	for _, pr := range prs {
		if !pr.CreatedAt.Valid() || !pr.MergedAt.Valid() {
			continue
		}
		durations = append(durations, wholeDays(pr.CreatedAt.Time, pr.MergedAt.Time))
	}
	return mean(durations)
}

// IssueAge is the mean age in whole days of every issue with a creation time.
// Closed issues age until they were closed, open issues until asOf. Open issues
// are skipped when asOf is zero.
func IssueAge(issues []domain.Issue, asOf time.Time) float64 {
	var ages stats.Float64Data
	for _, is := range issues {
		if !is.CreatedAt.Valid() {
			continue
		}
		end := is.ClosedAt.Time
		if !is.ClosedAt.Valid() {
			if asOf.IsZero() {
				continue
			}
			end = asOf
		}
		ages = append(ages, wholeDays(is.CreatedAt.Time, end))
	}
	return mean(ages)
}

// wholeDays floors the elapsed time between from and to to whole days.
func wholeDays(from, to time.Time) float64 {
	d := to.Sub(from)
	days := d / day
	if d%day < 0 {
		days--
	}
	return float64(days)
}

func mean(data stats.Float64Data) float64 {
	if len(data) == 0 {
		return 0
	}
	m, err := stats.Mean(data)
	if err != nil {
		return 0
	}
	return m
}
