package usecase

import (
	"fmt"

	"github.com/naka-gawa/repo-insights/internal/domain"
)

// Thresholds above which an average duration is flagged, in days.
const (
	ReviewTimeThreshold     = 20.0
	ResolutionTimeThreshold = 30.0
)

// Insight is a warning derived from the metrics.
type Insight struct {
	Metric  string  `json:"metric"`
	Value   float64 `json:"value"`
	Message string  `json:"message"`
}

// Insights flags averages that exceed the recommended thresholds.
func Insights(b domain.MetricsBundle) []Insight {
	insights := []Insight{}
	if b.PRReviewTime > ReviewTimeThreshold {
		insights = append(insights, Insight{
			Metric:  domain.MetricPRReviewTime,
			Value:   b.PRReviewTime,
			Message: fmt.Sprintf("The average PR review time is %.2f days, which is higher than the recommended threshold!", b.PRReviewTime),
		})
	}
	if b.IssueResolutionTime > ResolutionTimeThreshold {
		insights = append(insights, Insight{
			Metric:  domain.MetricIssueResolutionTime,
			Value:   b.IssueResolutionTime,
			Message: fmt.Sprintf("The average issue resolution time is %.2f days, which is higher than the recommended threshold!", b.IssueResolutionTime),
		})
	}
	return insights
}
