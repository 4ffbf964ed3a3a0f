package usecase

import (
	"slices"

	"github.com/naka-gawa/repo-insights/internal/domain"
)

// StateAll selects pull requests in every state.
const StateAll = "all"

// FilterPullRequests keeps the pull requests whose state is one of states.
// An empty list or one containing "all" keeps everything.
func FilterPullRequests(prs []domain.PullRequest, states []string) []domain.PullRequest {
	if len(states) == 0 || slices.Contains(states, StateAll) {
		return prs
	}
	out := make([]domain.PullRequest, 0, len(prs))
	for _, pr := range prs {
		if slices.Contains(states, pr.State) {
			out = append(out, pr)
		}
	}
	return out
}

// FilterIssues keeps the issues carrying at least one of labels.
// An empty label list keeps everything.
func FilterIssues(issues []domain.Issue, labels []string) []domain.Issue {
	if len(labels) == 0 {
		return issues
	}
	out := make([]domain.Issue, 0, len(issues))
	for _, is := range issues {
		for _, l := range is.Labels {
			if slices.Contains(labels, l) {
				out = append(out, is)
				break
			}
		}
	}
	return out
}
