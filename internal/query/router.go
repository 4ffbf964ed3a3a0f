// Package query answers fixed keyword queries with one metric chart.
//
// There is no language understanding here: a query selects the first entry of
// a static table whose trigger phrase it contains, case-insensitively.
package query

import (
	"errors"
	"strings"

	"github.com/naka-gawa/repo-insights/internal/chart"
	"github.com/naka-gawa/repo-insights/internal/domain"
)

// ErrUnrecognizedQuery is returned when no trigger phrase matches.
var ErrUnrecognizedQuery = errors.New("query not recognized")

// UnrecognizedDescription is the description returned with ErrUnrecognizedQuery.
const UnrecognizedDescription = "Query not recognized. Please ask about available metrics."

// Route is one entry of the routing table.
type Route struct {
	Trigger     string
	Metric      string
	Description string
	NoData      string
	// hasData reports whether the bundle has something to show for the metric.
	hasData func(b domain.MetricsBundle) bool
}

// Routes is the routing table in match order.
var Routes = []Route{
	{
		Trigger: "language distribution", Metric: domain.MetricLanguages,
		Description: "Language Distribution", NoData: "No language data available.",
		hasData: func(b domain.MetricsBundle) bool { return len(b.Languages) > 0 },
	},
	{
		Trigger: "commit frequency", Metric: domain.MetricCommitFrequency,
		Description: "Commit Frequency Over Time", NoData: "No commit frequency data available.",
		hasData: func(b domain.MetricsBundle) bool { return len(b.CommitFrequency) > 0 },
	},
	{
		Trigger: "pr merge rate", Metric: domain.MetricPRMergeRate,
		Description: "Pull Request Merge Rate", NoData: "No pull request merge rate data available.",
		hasData: func(b domain.MetricsBundle) bool { return b.PRMergeRate.TotalPRs > 0 },
	},
	{
		Trigger: "issue resolution time", Metric: domain.MetricIssueResolutionTime,
		Description: "Average Issue Resolution Time", NoData: "No issue resolution time data available.",
		hasData: func(b domain.MetricsBundle) bool { return b.IssueResolutionTime != 0 },
	},
	{
		Trigger: "contributor activity", Metric: domain.MetricContributorActivity,
		Description: "Contributor Activity", NoData: "No contributor activity data available.",
		hasData: func(b domain.MetricsBundle) bool { return len(b.ContributorActivity) > 0 },
	},
	{
		Trigger: "top issues by comments", Metric: domain.MetricTopIssues,
		Description: "Top Issues by Comments", NoData: "No top issues data available.",
		hasData: func(b domain.MetricsBundle) bool { return len(b.TopIssues) > 0 },
	},
	{
		Trigger: "pr review time", Metric: domain.MetricPRReviewTime,
		Description: "Average Pull Request Review Time", NoData: "No pull request review time data available.",
		hasData: func(b domain.MetricsBundle) bool { return b.PRReviewTime != 0 },
	},
	{
		Trigger: "issue age", Metric: domain.MetricIssueAge,
		Description: "Average Issue Age", NoData: "No issue age data available.",
		hasData: func(b domain.MetricsBundle) bool { return b.IssueAge != 0 },
	},
}

// Result is the answer to a query. Figure is nil when the matched metric has no data.
type Result struct {
	Metric      string        `json:"metric,omitempty"`
	Description string        `json:"description"`
	Figure      *chart.Figure `json:"figure"`
}

// Router maps queries to rendered metrics.
type Router struct {
	renderer *chart.Renderer
}

// NewRouter returns a Router drawing with renderer.
func NewRouter(renderer *chart.Renderer) *Router {
	return &Router{renderer: renderer}
}

// Match returns the first route whose trigger appears in q.
func Match(q string) (Route, bool) {
	q = strings.ToLower(q)
	for _, r := range Routes {
		if strings.Contains(q, r.Trigger) {
			return r, true
		}
	}
	return Route{}, false
}

// Route answers q from b. An unmatched query returns ErrUnrecognizedQuery
// together with a Result carrying UnrecognizedDescription.
func (rt *Router) Route(q string, b domain.MetricsBundle) (Result, error) {
	route, ok := Match(q)
	if !ok {
		return Result{Description: UnrecognizedDescription}, ErrUnrecognizedQuery
	}
	if !route.hasData(b) {
		return Result{Metric: route.Metric, Description: route.NoData}, nil
	}
	fig, err := rt.renderer.Render(route.Metric, b)
	if err != nil {
		return Result{}, err
	}
	return Result{Metric: route.Metric, Description: route.Description, Figure: &fig}, nil
}
