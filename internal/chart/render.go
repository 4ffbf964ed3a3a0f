package chart

import (
	"fmt"
	"sort"

	"github.com/naka-gawa/repo-insights/internal/domain"
	"github.com/naka-gawa/repo-insights/internal/usecase"
)

// NoDataText is shown on figures that have nothing to plot.
const NoDataText = "No data available"

// gaugeMax is the upper end of the duration gauges, in days.
const gaugeMax = 30

// Titles of the metric figures.
const (
	TitleLanguages           = "Language Distribution"
	TitleCommitFrequency     = "Commit Frequency Over Time"
	TitlePRMergeRate         = "Pull Request Merge Rate"
	TitleIssueResolutionTime = "Avg. Issue Resolution Time (Days)"
	TitleContributorActivity = "Contributor Activity"
	TitleTopIssues           = "Top Issues by Comments"
	TitlePRReviewTime        = "Avg. PR Review Time (Days)"
	TitleIssueAge            = "Avg. Issue Age (Days)"
	TitleProfileComparison   = "Profile Comparison"
)

// Renderer draws metrics as themed figures. It holds no state besides its palette.
type Renderer struct {
	palette Palette
}

// NewRenderer returns a Renderer drawing with p.
func NewRenderer(p Palette) *Renderer {
	return &Renderer{palette: p}
}

// Render draws the named metric of b.
func (r *Renderer) Render(metric string, b domain.MetricsBundle) (Figure, error) {
	switch metric {
	case domain.MetricLanguages:
		return r.LanguageDistribution(b.Languages), nil
	case domain.MetricCommitFrequency:
		return r.CommitFrequency(b.CommitFrequency), nil
	case domain.MetricPRMergeRate:
		return r.PRMergeRate(b.PRMergeRate), nil
	case domain.MetricIssueResolutionTime:
		return r.Gauge(TitleIssueResolutionTime, b.IssueResolutionTime), nil
	case domain.MetricContributorActivity:
		return r.ContributorActivity(b.RankedContributors()), nil
	case domain.MetricTopIssues:
		return r.TopIssues(b.TopIssues), nil
	case domain.MetricPRReviewTime:
		return r.Gauge(TitlePRReviewTime, b.PRReviewTime), nil
	case domain.MetricIssueAge:
		return r.Gauge(TitleIssueAge, b.IssueAge), nil
	default:
		return Figure{}, fmt.Errorf("%w: %q", domain.ErrUnknownMetric, metric)
	}
}

// RenderAll draws every metric, keyed by metric name.
func (r *Renderer) RenderAll(b domain.MetricsBundle) map[string]Figure {
	figs := make(map[string]Figure, len(domain.MetricNames))
	for _, name := range domain.MetricNames {
		fig, err := r.Render(name, b)
		if err != nil {
			continue
		}
		figs[name] = fig
	}
	return figs
}

// LanguageDistribution is a pie of bytes per language, largest first.
func (r *Renderer) LanguageDistribution(langs domain.LanguageBytes) Figure {
	if len(langs) == 0 {
		return r.noData(TitleLanguages)
	}
	names := make([]string, 0, len(langs))
	for name := range langs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if langs[names[i]] != langs[names[j]] {
			return langs[names[i]] > langs[names[j]]
		}
		return names[i] < names[j]
	})
	values := make([]float64, len(names))
	for i, name := range names {
		values[i] = float64(langs[name])
	}
	fig := Figure{
		Data: []Trace{{
			Type:   "pie",
			Labels: names,
			Values: values,
			Marker: &Marker{Colors: r.palette.Colorway()},
		}},
		Layout: Layout{
			Title:  &Text{Text: TitleLanguages},
			Margin: &Margin{},
		},
	}
	return ApplyTheme(fig, r.palette)
}

// CommitFrequency is a line of commits per day.
func (r *Renderer) CommitFrequency(series []domain.DayCount) Figure {
	if len(series) == 0 {
		return r.noData(TitleCommitFrequency)
	}
	x := make([]string, len(series))
	y := make([]float64, len(series))
	for i, d := range series {
		x[i] = d.Day()
		y[i] = float64(d.Count)
	}
	fig := Figure{
		Data: []Trace{{
			Type: "scatter",
			Mode: "lines+markers",
			Name: "commit_frequency",
			X:    x,
			Y:    y,
			Line: &Line{Color: r.palette.Primary, Shape: "linear"},
		}},
		Layout: Layout{
			Title: &Text{Text: TitleCommitFrequency},
			XAxis: &Axis{Title: &Text{Text: "Date"}},
			YAxis: &Axis{Title: &Text{Text: "Commit Count"}},
		},
	}
	return ApplyTheme(fig, r.palette)
}

// PRMergeRate compares total and merged pull requests.
func (r *Renderer) PRMergeRate(rate domain.MergeRate) Figure {
	labels := []string{"Total PRs", "Merged PRs"}
	fig := Figure{
		Data: []Trace{{
			Type:   "bar",
			X:      labels,
			Y:      []float64{float64(rate.TotalPRs), float64(rate.MergedPRs)},
			Marker: &Marker{Color: []string{r.palette.Secondary, r.palette.Tertiary}},
		}},
		Layout: Layout{
			Title: &Text{Text: TitlePRMergeRate},
			XAxis: &Axis{Title: &Text{Text: "PRs"}, TickVals: labels, TickText: labels},
			YAxis: &Axis{Title: &Text{Text: "Count"}},
		},
	}
	return ApplyTheme(fig, r.palette)
}

// Gauge shows an average duration in days on a 0–30 scale.
func (r *Renderer) Gauge(title string, days float64) Figure {
	value := days
	fig := Figure{
		Data: []Trace{{
			Type:  "indicator",
			Mode:  "gauge+number",
			Value: &value,
			Title: &Text{Text: title},
			Gauge: &Gauge{
				Axis: GaugeAxis{Range: [2]float64{0, gaugeMax}},
				Bar:  GaugeBar{Color: r.palette.Highlight},
				Steps: []GaugeStep{
					{Range: [2]float64{0, 10}, Color: r.palette.Tertiary},
					{Range: [2]float64{10, 20}, Color: r.palette.Quaternary},
					{Range: [2]float64{20, 30}, Color: r.palette.Secondary},
				},
			},
		}},
		Layout: Layout{Title: &Text{Text: title}},
	}
	return ApplyTheme(fig, r.palette)
}

// ContributorActivity is a bar of commits per author in the given order.
func (r *Renderer) ContributorActivity(ranked []domain.ContributorCount) Figure {
	if len(ranked) == 0 {
		return r.noData(TitleContributorActivity)
	}
	x := make([]string, len(ranked))
	y := make([]float64, len(ranked))
	for i, c := range ranked {
		x[i] = c.Author
		y[i] = float64(c.Commits)
	}
	fig := Figure{
		Data: []Trace{{
			Type:   "bar",
			X:      x,
			Y:      y,
			Marker: r.scaleMarker(y),
		}},
		Layout: Layout{
			Title: &Text{Text: TitleContributorActivity},
			XAxis: &Axis{Title: &Text{Text: "Contributor"}, TickAngle: -45},
			YAxis: &Axis{Title: &Text{Text: "Activity Count"}},
		},
	}
	return ApplyTheme(fig, r.palette)
}

// TopIssues is a bar of comments per issue title.
func (r *Renderer) TopIssues(issues []domain.TopIssue) Figure {
	if len(issues) == 0 {
		return r.noData(TitleTopIssues)
	}
	x := make([]string, len(issues))
	y := make([]float64, len(issues))
	for i, is := range issues {
		x[i] = is.Title
		y[i] = float64(is.Comments)
	}
	fig := Figure{
		Data: []Trace{{
			Type:   "bar",
			X:      x,
			Y:      y,
			Marker: r.scaleMarker(y),
		}},
		Layout: Layout{
			Title: &Text{Text: TitleTopIssues},
			XAxis: &Axis{Title: &Text{Text: "Issue Title"}, TickAngle: -45},
			YAxis: &Axis{Title: &Text{Text: "Number of Comments"}},
		},
	}
	return ApplyTheme(fig, r.palette)
}

// ProfileComparison is a grouped bar of the numeric rows of a comparison.
func (r *Renderer) ProfileComparison(c usecase.Comparison) Figure {
	var metrics []string
	var primary, secondary []float64
	for _, row := range c.Rows {
		if !row.Numeric {
			continue
		}
		metrics = append(metrics, row.Metric)
		primary = append(primary, row.PrimaryValue)
		secondary = append(secondary, row.SecondaryValue)
	}
	if len(metrics) == 0 {
		return r.noData(TitleProfileComparison)
	}
	bar := func(name string, values []float64, color string) Trace {
		text := make([]string, len(values))
		for i, v := range values {
			text[i] = fmt.Sprintf("%g", v)
		}
		return Trace{
			Type:         "bar",
			Name:         name,
			X:            metrics,
			Y:            values,
			Text:         text,
			TextPosition: "auto",
			Width:        0.4,
			Opacity:      0.8,
			Marker:       &Marker{Color: color},
		}
	}
	fig := Figure{
		Data: []Trace{
			bar("Primary Owner", primary, r.palette.Primary),
			bar("Secondary Owner", secondary, r.palette.Tertiary),
		},
		Layout: Layout{
			Title:   &Text{Text: TitleProfileComparison},
			XAxis:   &Axis{Title: &Text{Text: "Metric"}, TickAngle: -45, TickVals: metrics, TickText: metrics},
			YAxis:   &Axis{Title: &Text{Text: "Value"}},
			BarMode: "group",
			BarGap:  0.3,
			Margin:  &Margin{L: 40, R: 40, T: 40, B: 80},
		},
	}
	return ApplyTheme(fig, r.palette)
}

// scaleMarker colors bars along a primary→tertiary scale by value.
func (r *Renderer) scaleMarker(values []float64) *Marker {
	return &Marker{
		Color:      values,
		ColorScale: [][2]any{{0, r.palette.Primary}, {1, r.palette.Tertiary}},
	}
}

// noData is an empty, themed figure carrying a "no data" annotation.
func (r *Renderer) noData(title string) Figure {
	hidden := false
	fig := Figure{
		Data: []Trace{},
		Layout: Layout{
			Title: &Text{Text: title},
			XAxis: &Axis{Visible: &hidden},
			YAxis: &Axis{Visible: &hidden},
			Annotations: []Annotation{{
				Text: NoDataText,
				XRef: "paper",
				YRef: "paper",
				X:    0.5,
				Y:    0.5,
			}},
		},
	}
	return ApplyTheme(fig, r.palette)
}
