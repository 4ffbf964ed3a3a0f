package web

import (
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/naka-gawa/repo-insights/internal/chart"
	"github.com/naka-gawa/repo-insights/internal/domain"
	"github.com/naka-gawa/repo-insights/internal/query"
	"github.com/naka-gawa/repo-insights/internal/usecase"
)

type repoParams struct {
	Slug string `validate:"required,repo-slug"`
}

type compareParams struct {
	With string `validate:"required,github-login"`
}

type metricsResponse struct {
	Repo      domain.RepoInfo      `json:"repo"`
	Metrics   domain.MetricsBundle `json:"metrics"`
	Insights  []usecase.Insight    `json:"insights"`
	FetchedAt time.Time            `json:"fetched_at"`
}

type compareResponse struct {
	Comparison usecase.Comparison `json:"comparison"`
	Figure     chart.Figure       `json:"figure"`
}

// repoFromPath validates the {owner}/{repo} path parameters.
func (s *Server) repoFromPath(r *http.Request) (owner, name string, err error) {
	owner, name = chi.URLParam(r, "owner"), chi.URLParam(r, "repo")
	if err := s.validate.Struct(repoParams{Slug: owner + "/" + name}); err != nil {
		return "", "", fmt.Errorf("%w: %s/%s", domain.ErrInvalidRepository, owner, name)
	}
	return owner, name, nil
}

// collectBundle fetches a fresh dataset and aggregates it, narrowing commit
// frequency to the optional since/until query window.
func (s *Server) collectBundle(r *http.Request, secondOwner string) (*domain.Dataset, domain.MetricsBundle, error) {
	owner, name, err := s.repoFromPath(r)
	if err != nil {
		return nil, domain.MetricsBundle{}, err
	}
	since, until, err := domain.ParseDayWindow(r.URL.Query().Get("since"), r.URL.Query().Get("until"))
	if err != nil {
		return nil, domain.MetricsBundle{}, err
	}

	ds, err := s.collector.Collect(r.Context(), owner, name, secondOwner)
	if err != nil {
		s.logger.Printf("collect %s/%s failed: %v", owner, name, err)
		return nil, domain.MetricsBundle{}, err
	}
	bundle := usecase.Aggregate(*ds)
	bundle.CommitFrequency = bundle.CommitFrequencyBetween(since, until)
	return ds, bundle, nil
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	ds, bundle, err := s.collectBundle(r, "")
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, metricsResponse{
		Repo:      ds.Repo,
		Metrics:   bundle,
		Insights:  usecase.Insights(bundle),
		FetchedAt: ds.FetchedAt,
	})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	metric := chi.URLParam(r, "metric")
	if !slices.Contains(domain.MetricNames, metric) {
		writeDomainError(w, fmt.Errorf("%w: %s", domain.ErrUnknownMetric, metric))
		return
	}

	_, bundle, err := s.collectBundle(r, "")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	fig, err := s.renderer.Render(metric, bundle)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, fig)
}

// handleQuery answers a free-text question. Unrecognized questions are not
// an error: the result carries the fallback description and no figure.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "query parameter q is required")
		return
	}
	if _, ok := query.Match(q); !ok {
		if _, _, err := s.repoFromPath(r); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, query.Result{Description: query.UnrecognizedDescription})
		return
	}

	_, bundle, err := s.collectBundle(r, "")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	res, err := s.queries.Route(q, bundle)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleCompare compares the repository owner with another user. Only the two
// profiles are fetched.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	with := r.URL.Query().Get("with")
	if err := s.validate.Struct(compareParams{With: with}); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, fmt.Sprintf("invalid comparison login %q", with))
		return
	}

	owner, _, err := s.repoFromPath(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	ds, err := s.collector.CollectProfiles(r.Context(), owner, with)
	if err != nil {
		s.logger.Printf("collect profiles of %s and %s failed: %v", owner, with, err)
		writeDomainError(w, err)
		return
	}
	c := usecase.CompareProfiles(ds.OwnerProfile, ds.SecondOwnerProfile)
	writeJSON(w, http.StatusOK, compareResponse{
		Comparison: c,
		Figure:     s.renderer.ProfileComparison(c),
	})
}
