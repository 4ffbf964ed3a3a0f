// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/naka-gawa/repo-insights/internal/domain"
)

const (
	// DefaultMaxPages keeps list fetches to a single page per collection.
	DefaultMaxPages = 1
	perPage         = 100
	// rateLimitPause is how long a primary rate-limit error is waited out before the one retry.
	rateLimitPause = 60 * time.Second
)

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	FetchRepository(ctx context.Context, owner, name string) (*domain.RepoInfo, error)
	FetchCommits(ctx context.Context, owner, name string) ([]domain.Commit, error)
	FetchPullRequests(ctx context.Context, owner, name string) ([]domain.PullRequest, error)
	FetchIssues(ctx context.Context, owner, name string) ([]domain.Issue, error)
	FetchLanguages(ctx context.Context, owner, name string) (domain.LanguageBytes, error)
	FetchContributors(ctx context.Context, owner, name string) ([]domain.Contributor, error)
	// FetchReviewCounts returns review totals keyed by PR number for the
	// `first` most recently created pull requests.
	FetchReviewCounts(ctx context.Context, owner, name string, first int) (map[int]int, error)
	FetchProfile(ctx context.Context, login string) (*domain.Profile, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *log.Logger
	maxPages      int
	// sleep waits out a rate limit; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a GitHubGateway.
type Option func(*GitHubGateway)

// WithMaxPages sets how many pages of 100 items list fetches may read.
func WithMaxPages(n int) Option {
	return func(g *GitHubGateway) {
		if n > 0 {
			g.maxPages = n
		}
	}
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, logger *log.Logger, opts ...Option) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
		Timeout: 30 * time.Second,
	}
	return newGateway(github.NewClient(httpClient), githubv4.NewClient(httpClient), logger, opts...), nil
}

func newGateway(rest *github.Client, gql *githubv4.Client, logger *log.Logger, opts ...Option) *GitHubGateway {
	g := &GitHubGateway{
		restClient:    rest,
		graphqlClient: gql,
		logger:        logger,
		maxPages:      DefaultMaxPages,
		sleep:         sleepContext,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// FetchRepository fetches the repository metadata.
func (g *GitHubGateway) FetchRepository(ctx context.Context, owner, name string) (*domain.RepoInfo, error) {
	g.logger.Printf("Fetching repository %s/%s...", owner, name)
	var repo *github.Repository
	err := g.withRateLimitRetry(ctx, func() error {
		var err error
		repo, _, err = g.restClient.Repositories.Get(ctx, owner, name)
		return err
	})
	if err != nil {
		return nil, wrapAPIError("failed to get repository", err)
	}
	return &domain.RepoInfo{
		Owner:       repo.GetOwner().GetLogin(),
		Name:        repo.GetName(),
		Description: repo.GetDescription(),
		URL:         repo.GetHTMLURL(),
		Stars:       repo.GetStargazersCount(),
		Forks:       repo.GetForksCount(),
		Watchers:    repo.GetWatchersCount(),
		Language:    repo.GetLanguage(),
	}, nil
}

// FetchCommits lists the repository commits, newest first.
func (g *GitHubGateway) FetchCommits(ctx context.Context, owner, name string) ([]domain.Commit, error) {
	g.logger.Println("Fetching commits...")
	opts := &github.CommitsListOptions{ListOptions: github.ListOptions{PerPage: perPage}}
	var commits []domain.Commit
	err := g.paginate(ctx, &opts.ListOptions, func() (*github.Response, error) {
		page, resp, err := g.restClient.Repositories.ListCommits(ctx, owner, name, opts)
		if err != nil {
			return resp, err
		}
		for _, c := range page {
			author := c.GetCommit().GetAuthor()
			commits = append(commits, domain.Commit{
				SHA:        c.GetSHA(),
				AuthorName: author.GetName(),
				AuthoredAt: domain.At(author.GetDate().Time),
			})
		}
		return resp, nil
	})
	if err != nil {
		return nil, wrapAPIError("failed to list commits", err)
	}
	g.logger.Printf("Completed fetching %d commits.", len(commits))
	return commits, nil
}

// FetchPullRequests lists pull requests in every state, newest first.
func (g *GitHubGateway) FetchPullRequests(ctx context.Context, owner, name string) ([]domain.PullRequest, error) {
	g.logger.Println("Fetching pull requests...")
	opts := &github.PullRequestListOptions{
		State:       "all",
		Sort:        "created",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	var prs []domain.PullRequest
	err := g.paginate(ctx, &opts.ListOptions, func() (*github.Response, error) {
		page, resp, err := g.restClient.PullRequests.List(ctx, owner, name, opts)
		if err != nil {
			return resp, err
		}
		for _, pr := range page {
			prs = append(prs, domain.PullRequest{
				Number:    pr.GetNumber(),
				Title:     pr.GetTitle(),
				State:     pr.GetState(),
				CreatedAt: domain.At(pr.GetCreatedAt().Time),
				MergedAt:  domain.At(pr.GetMergedAt().Time),
			})
		}
		return resp, nil
	})
	if err != nil {
		return nil, wrapAPIError("failed to list pull requests", err)
	}
	g.logger.Printf("Completed fetching %d pull requests.", len(prs))
	return prs, nil
}

// FetchIssues lists issues in every state, newest first. The issues endpoint
// also returns pull requests; those are dropped.
func (g *GitHubGateway) FetchIssues(ctx context.Context, owner, name string) ([]domain.Issue, error) {
	g.logger.Println("Fetching issues...")
	opts := &github.IssueListByRepoOptions{
		State:       "all",
		Sort:        "created",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	var issues []domain.Issue
	err := g.paginate(ctx, &opts.ListOptions, func() (*github.Response, error) {
		page, resp, err := g.restClient.Issues.ListByRepo(ctx, owner, name, opts)
		if err != nil {
			return resp, err
		}
		for _, is := range page {
			if is.IsPullRequest() {
				continue
			}
			labels := make([]string, 0, len(is.Labels))
			for _, l := range is.Labels {
				labels = append(labels, l.GetName())
			}
			issues = append(issues, domain.Issue{
				Number:    is.GetNumber(),
				Title:     is.GetTitle(),
				State:     is.GetState(),
				CreatedAt: domain.At(is.GetCreatedAt().Time),
				ClosedAt:  domain.At(is.GetClosedAt().Time),
				Comments:  is.Comments,
				Labels:    labels,
			})
		}
		return resp, nil
	})
	if err != nil {
		return nil, wrapAPIError("failed to list issues", err)
	}
	g.logger.Printf("Completed fetching %d issues.", len(issues))
	return issues, nil
}

// FetchLanguages returns the byte count of each language in the repository.
func (g *GitHubGateway) FetchLanguages(ctx context.Context, owner, name string) (domain.LanguageBytes, error) {
	g.logger.Println("Fetching languages...")
	var langs map[string]int
	err := g.withRateLimitRetry(ctx, func() error {
		var err error
		langs, _, err = g.restClient.Repositories.ListLanguages(ctx, owner, name)
		return err
	})
	if err != nil {
		return nil, wrapAPIError("failed to list languages", err)
	}
	return domain.LanguageBytes(langs), nil
}

// FetchContributors lists the repository contributors.
func (g *GitHubGateway) FetchContributors(ctx context.Context, owner, name string) ([]domain.Contributor, error) {
	g.logger.Println("Fetching contributors...")
	opts := &github.ListContributorsOptions{ListOptions: github.ListOptions{PerPage: perPage}}
	var contributors []domain.Contributor
	err := g.paginate(ctx, &opts.ListOptions, func() (*github.Response, error) {
		page, resp, err := g.restClient.Repositories.ListContributors(ctx, owner, name, opts)
		if err != nil {
			return resp, err
		}
		for _, c := range page {
			contributors = append(contributors, domain.Contributor{
				Login:         c.GetLogin(),
				Contributions: c.GetContributions(),
			})
		}
		return resp, nil
	})
	if err != nil {
		return nil, wrapAPIError("failed to list contributors", err)
	}
	return contributors, nil
}

// FetchProfile fetches the public profile of a user.
func (g *GitHubGateway) FetchProfile(ctx context.Context, login string) (*domain.Profile, error) {
	g.logger.Printf("Fetching profile of %s...", login)
	var user *github.User
	err := g.withRateLimitRetry(ctx, func() error {
		var err error
		user, _, err = g.restClient.Users.Get(ctx, login)
		return err
	})
	if err != nil {
		return nil, wrapAPIError("failed to get user "+login, err)
	}
	return &domain.Profile{
		Login:       user.GetLogin(),
		Name:        user.GetName(),
		Bio:         user.GetBio(),
		Company:     user.GetCompany(),
		Location:    user.GetLocation(),
		Email:       user.GetEmail(),
		PublicRepos: user.GetPublicRepos(),
		Followers:   user.GetFollowers(),
		Following:   user.GetFollowing(),
		CreatedAt:   domain.At(user.GetCreatedAt().Time),
		UpdatedAt:   domain.At(user.GetUpdatedAt().Time),
	}, nil
}

// paginate calls fetch for each page up to the configured page limit.
// fetch must read opts.Page and return the page response.
func (g *GitHubGateway) paginate(ctx context.Context, opts *github.ListOptions, fetch func() (*github.Response, error)) error {
	for page := 1; page <= g.maxPages; page++ {
		var resp *github.Response
		err := g.withRateLimitRetry(ctx, func() error {
			var err error
			resp, err = fetch()
			return err
		})
		if err != nil {
			return err
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Println("  Fetching next page...")
	}
	return nil
}

// withRateLimitRetry runs call and, if GitHub reports a rate limit, waits
// rateLimitPause and runs it exactly once more.
func (g *GitHubGateway) withRateLimitRetry(ctx context.Context, call func() error) error {
	err := call()
	if !isRateLimited(err) {
		return err
	}
	g.logger.Printf("Rate limit exceeded: %v. Sleeping for %s.", err, rateLimitPause)
	if serr := g.sleep(ctx, rateLimitPause); serr != nil {
		return serr
	}
	return call()
}

func isRateLimited(err error) bool {
	if err == nil {
		return false
	}
	var rle *github.RateLimitError
	var abuse *github.AbuseRateLimitError
	return errors.As(err, &rle) || errors.As(err, &abuse)
}

// wrapAPIError adds context to err and maps 404 responses to domain.ErrNotFound.
func wrapAPIError(msg string, err error) error {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil && errResp.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", msg, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
