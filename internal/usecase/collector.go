package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/naka-gawa/repo-insights/internal/domain"
	"github.com/naka-gawa/repo-insights/internal/gateway"
	"golang.org/x/sync/errgroup"
)

// profileWorkers bounds concurrent profile fetches.
const profileWorkers = 2

// Collector is the use case for collecting a repository dataset.
// It orchestrates the fetching of every data source from the gateway.
type Collector struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
	now     func() time.Time
}

// NewCollector creates a new Collector instance.
func NewCollector(fetcher gateway.Fetcher, logger *log.Logger) *Collector {
	return &Collector{
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
}

// Collect fetches everything needed to compute the metrics of owner/name.
// secondOwner, when set, is a user whose profile is fetched next to the
// repository owner's for comparison.
func (c *Collector) Collect(ctx context.Context, owner, name, secondOwner string) (*domain.Dataset, error) {
	c.logger.Printf("Usecase: Collecting data for %s/%s...", owner, name)

	ds := &domain.Dataset{}
	var repo *domain.RepoInfo

	// Use an errgroup to fetch all data concurrently.
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var err error
		repo, err = c.fetcher.FetchRepository(egCtx, owner, name)
		return err
	})

	eg.Go(func() error {
		var err error
		ds.Commits, err = c.fetcher.FetchCommits(egCtx, owner, name)
		return err
	})

	eg.Go(func() error {
		var err error
		ds.PullRequests, err = c.fetcher.FetchPullRequests(egCtx, owner, name)
		return err
	})

	eg.Go(func() error {
		var err error
		ds.Issues, err = c.fetcher.FetchIssues(egCtx, owner, name)
		return err
	})

	eg.Go(func() error {
		var err error
		ds.Languages, err = c.fetcher.FetchLanguages(egCtx, owner, name)
		return err
	})

	eg.Go(func() error {
		var err error
		ds.Contributors, err = c.fetcher.FetchContributors(egCtx, owner, name)
		return err
	})

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("collecting %s/%s: %w", owner, name, err)
	}
	ds.Repo = *repo
	c.logger.Println("Usecase: Repository data fetched successfully.")

	c.attachReviewCounts(ctx, owner, name, ds.PullRequests)

	profileOwner := repo.Owner
	if profileOwner == "" {
		profileOwner = owner
	}
	if err := c.collectProfiles(ctx, ds, profileOwner, secondOwner); err != nil {
		return nil, err
	}

	ds.FetchedAt = c.now().UTC()
	c.logger.Println("Usecase: Collection complete.")
	return ds, nil
}

// CollectProfiles fetches only the owner profile and, optionally, a second
// one. Repository data is left empty, so comparisons skip the list endpoints.
func (c *Collector) CollectProfiles(ctx context.Context, owner, secondOwner string) (*domain.Dataset, error) {
	c.logger.Printf("Usecase: Collecting profiles of %s and %q...", owner, secondOwner)
	ds := &domain.Dataset{}
	if err := c.collectProfiles(ctx, ds, owner, secondOwner); err != nil {
		return nil, err
	}
	ds.FetchedAt = c.now().UTC()
	return ds, nil
}

// attachReviewCounts fills PullRequest.ReviewCount. Missing counts stay zero.
func (c *Collector) attachReviewCounts(ctx context.Context, owner, name string, prs []domain.PullRequest) {
	if len(prs) == 0 {
		return
	}
	counts, err := c.fetcher.FetchReviewCounts(ctx, owner, name, len(prs))
	if err != nil {
		c.logger.Printf("Error fetching review counts, continuing without them: %v", err)
		return
	}
	for i := range prs {
		prs[i].ReviewCount = counts[prs[i].Number]
	}
}

// collectProfiles fetches the owner profile and, optionally, a second one, at
// most profileWorkers at a time. The owner profile is required; a failure on
// the second profile is logged and leaves it nil.
func (c *Collector) collectProfiles(ctx context.Context, ds *domain.Dataset, owner, secondOwner string) error {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(profileWorkers)

	eg.Go(func() error {
		p, err := c.fetcher.FetchProfile(egCtx, owner)
		if err != nil {
			return fmt.Errorf("fetching owner profile: %w", err)
		}
		ds.OwnerProfile = p
		return nil
	})

	if secondOwner != "" {
		eg.Go(func() error {
			p, err := c.fetcher.FetchProfile(egCtx, secondOwner)
			if err != nil {
				c.logger.Printf("Error fetching second owner profile %s: %v", secondOwner, err)
				return nil
			}
			ds.SecondOwnerProfile = p
			return nil
		})
	}

	return eg.Wait()
}
