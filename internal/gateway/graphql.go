package gateway

import (
	"context"
	"fmt"

	"github.com/shurcooL/githubv4"
)

// maxReviewQueryPRs is the GraphQL connection page size limit.
const maxReviewQueryPRs = 100

// reviewCountQuery fetches the review totals of the most recent pull requests.
type reviewCountQuery struct {
	Repository struct {
		PullRequests struct {
			Nodes []struct {
				Number  int
				Reviews struct {
					TotalCount int
				}
			}
		} `graphql:"pullRequests(first: $first, orderBy: {field: CREATED_AT, direction: DESC})"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// FetchReviewCounts returns how many reviews each of the `first` most recently
// created pull requests received, keyed by PR number.
func (g *GitHubGateway) FetchReviewCounts(ctx context.Context, owner, name string, first int) (map[int]int, error) {
	counts := make(map[int]int)
	if first <= 0 {
		return counts, nil
	}
	if first > maxReviewQueryPRs {
		first = maxReviewQueryPRs
	}
	g.logger.Printf("Fetching review counts for the latest %d pull requests...", first)
	variables := map[string]interface{}{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(name),
		"first": githubv4.Int(first),
	}
	var q reviewCountQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to execute GraphQL query for review counts: %w", err)
	}
	for _, node := range q.Repository.PullRequests.Nodes {
		counts[node.Number] = node.Reviews.TotalCount
	}
	g.logger.Println("Completed fetching review counts.")
	return counts, nil
}
