package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/naka-gawa/repo-insights/internal/chart"
	"github.com/naka-gawa/repo-insights/internal/config"
	"github.com/naka-gawa/repo-insights/internal/domain"
	"github.com/naka-gawa/repo-insights/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCollector struct {
	ds  *domain.Dataset
	err error

	calls        int
	profileCalls int
	gotOwner     string
	gotName      string
	gotSecond    string
}

func (f *fakeCollector) Collect(_ context.Context, owner, name, secondOwner string) (*domain.Dataset, error) {
	f.calls++
	f.gotOwner, f.gotName, f.gotSecond = owner, name, secondOwner
	if f.err != nil {
		return nil, f.err
	}
	return f.ds, nil
}

func (f *fakeCollector) CollectProfiles(_ context.Context, owner, secondOwner string) (*domain.Dataset, error) {
	f.profileCalls++
	f.gotOwner, f.gotSecond = owner, secondOwner
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Dataset{OwnerProfile: f.ds.OwnerProfile, SecondOwnerProfile: f.ds.SecondOwnerProfile}, nil
}

func sampleDataset() *domain.Dataset {
	day := func(d int) domain.Timestamp { return domain.At(time.Date(2024, 3, d, 10, 0, 0, 0, time.UTC)) }
	return &domain.Dataset{
		Repo: domain.RepoInfo{Owner: "octo", Name: "hello", Stars: 3},
		Commits: []domain.Commit{
			{SHA: "a", AuthorName: "alice", AuthoredAt: day(1)},
			{SHA: "b", AuthorName: "alice", AuthoredAt: day(1)},
			{SHA: "c", AuthorName: "bob", AuthoredAt: day(9)},
		},
		PullRequests: []domain.PullRequest{
			{Number: 1, Title: "add cache", State: domain.StateClosed, CreatedAt: day(1), MergedAt: day(3)},
			{Number: 2, Title: "fix typo", State: domain.StateOpen, CreatedAt: day(2)},
			{Number: 3, State: domain.StateClosed, CreatedAt: day(2), MergedAt: day(4)},
		},
		Languages:          domain.LanguageBytes{"Go": 1000},
		OwnerProfile:       &domain.Profile{Login: "octo", PublicRepos: 10, Followers: 20},
		SecondOwnerProfile: &domain.Profile{Login: "cat", PublicRepos: 1, Followers: 2},
		FetchedAt:          time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}
}

func newTestServer(t *testing.T, collector *fakeCollector) *Server {
	t.Helper()
	cfg := &config.Config{Addr: "127.0.0.1:0"}
	return New(cfg, collector, chart.NewRenderer(chart.BluePalette), log.New(io.Discard, "", 0))
}

func do(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	srv.router.ServeHTTP(rr, req)
	return rr
}

func assertErrorResponse(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, rr.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, code, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.Message)
}

func TestNewServerRegistersRoutes(t *testing.T) {
	srv := newTestServer(t, &fakeCollector{})
	require.Equal(t, "127.0.0.1:0", srv.Address)
	require.Equal(t, srv.router, srv.server.Handler)

	rr := do(t, srv, "/health")
	require.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])

	rr = do(t, srv, "/")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), "plotly")
}

func TestHandleMetrics(t *testing.T) {
	collector := &fakeCollector{ds: sampleDataset()}
	srv := newTestServer(t, collector)

	rr := do(t, srv, "/api/repos/octo/hello/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "octo", collector.gotOwner)
	assert.Equal(t, "hello", collector.gotName)
	assert.Empty(t, collector.gotSecond)

	var resp struct {
		Repo    domain.RepoInfo      `json:"repo"`
		Metrics domain.MetricsBundle `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "hello", resp.Repo.Name)
	// The untitled PR is left out of the merge rate.
	assert.Equal(t, 2, resp.Metrics.PRMergeRate.TotalPRs)
	assert.Equal(t, 1, resp.Metrics.PRMergeRate.MergedPRs)
	assert.Equal(t, 0.5, resp.Metrics.PRMergeRate.MergeRate)
	assert.Equal(t, map[string]int{"alice": 2, "bob": 1}, resp.Metrics.ContributorActivity)
	assert.Len(t, resp.Metrics.CommitFrequency, 2)
}

func TestHandleMetrics_DateWindow(t *testing.T) {
	collector := &fakeCollector{ds: sampleDataset()}
	srv := newTestServer(t, collector)

	rr := do(t, srv, "/api/repos/octo/hello/metrics?since=2024-03-05")
	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Metrics domain.MetricsBundle `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Metrics.CommitFrequency, 1)
	assert.Equal(t, "2024-03-09", resp.Metrics.CommitFrequency[0].Day())

	rr = do(t, srv, "/api/repos/octo/hello/metrics?since=03/05/2024")
	assertErrorResponse(t, rr, http.StatusBadRequest, CodeBadRequest)
}

func TestHandleMetrics_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		target string
		err    error
		status int
		code   string
	}{
		{name: "invalid owner", target: "/api/repos/-bad/hello/metrics", status: http.StatusBadRequest, code: CodeInvalidRepository},
		{name: "not found", target: "/api/repos/octo/missing/metrics", err: fmt.Errorf("wrap: %w", domain.ErrNotFound), status: http.StatusNotFound, code: CodeNotFound},
		{name: "upstream", target: "/api/repos/octo/hello/metrics", err: errors.New("boom"), status: http.StatusBadGateway, code: CodeUpstream},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, &fakeCollector{err: tc.err, ds: sampleDataset()})
			assertErrorResponse(t, do(t, srv, tc.target), tc.status, tc.code)
		})
	}
}

func TestHandleChart(t *testing.T) {
	collector := &fakeCollector{ds: sampleDataset()}
	srv := newTestServer(t, collector)

	rr := do(t, srv, "/api/repos/octo/hello/charts/languages")
	require.Equal(t, http.StatusOK, rr.Code)
	var fig chart.Figure
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &fig))
	require.Len(t, fig.Data, 1)
	assert.Equal(t, "pie", fig.Data[0].Type)

	before := collector.calls
	assertErrorResponse(t, do(t, srv, "/api/repos/octo/hello/charts/stars"), http.StatusNotFound, CodeUnknownMetric)
	assert.Equal(t, before, collector.calls, "unknown metrics must not trigger a collection")
}

func TestHandleQuery(t *testing.T) {
	collector := &fakeCollector{ds: sampleDataset()}
	srv := newTestServer(t, collector)

	assertErrorResponse(t, do(t, srv, "/api/repos/octo/hello/query"), http.StatusBadRequest, CodeBadRequest)

	rr := do(t, srv, "/api/repos/octo/hello/query?q=how+many+stars")
	require.Equal(t, http.StatusOK, rr.Code)
	var res query.Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, query.UnrecognizedDescription, res.Description)
	assert.Nil(t, res.Figure)
	assert.Zero(t, collector.calls)

	rr = do(t, srv, "/api/repos/octo/hello/query?q=show+the+pr+merge+rate")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, domain.MetricPRMergeRate, res.Metric)
	require.NotNil(t, res.Figure)
	assert.True(t, res.Figure.HasData())
}

func TestHandleCompare(t *testing.T) {
	collector := &fakeCollector{ds: sampleDataset()}
	srv := newTestServer(t, collector)

	assertErrorResponse(t, do(t, srv, "/api/repos/octo/hello/compare"), http.StatusBadRequest, CodeBadRequest)

	rr := do(t, srv, "/api/repos/octo/hello/compare?with=cat")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "octo", collector.gotOwner)
	assert.Equal(t, "cat", collector.gotSecond)
	assert.Equal(t, 1, collector.profileCalls)
	assert.Zero(t, collector.calls, "comparisons must not fetch repository data")

	var resp struct {
		Comparison struct {
			Rows        []map[string]any `json:"rows"`
			Description string           `json:"description"`
		} `json:"comparison"`
		Figure chart.Figure `json:"figure"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Comparison.Rows)
	assert.NotEmpty(t, resp.Comparison.Description)
	assert.True(t, resp.Figure.HasData())
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	payload := map[string]string{"status": "ok", "message": "<tag>"}

	writeJSON(rr, http.StatusAccepted, payload)

	require.Equal(t, http.StatusAccepted, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "<tag>")
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "nil", err: nil, status: http.StatusOK, code: ""},
		{name: "invalid repository", err: domain.ErrInvalidRepository, status: http.StatusBadRequest, code: CodeInvalidRepository},
		{name: "invalid date", err: domain.ErrInvalidDate, status: http.StatusBadRequest, code: CodeBadRequest},
		{name: "unknown metric", err: domain.ErrUnknownMetric, status: http.StatusNotFound, code: CodeUnknownMetric},
		{name: "not found", err: domain.ErrNotFound, status: http.StatusNotFound, code: CodeNotFound},
		{name: "timeout", err: context.DeadlineExceeded, status: http.StatusGatewayTimeout, code: CodeTimeout},
		{name: "default", err: errors.New("boom"), status: http.StatusBadGateway, code: CodeUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, _ := mapDomainError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}
