package usecase

import (
	"strconv"

	"github.com/naka-gawa/repo-insights/internal/domain"
)

const notAvailable = "N/A"

// ComparisonRow is one metric of two compared profiles. Numeric rows carry
// their values in PrimaryValue/SecondaryValue for charting.
type ComparisonRow struct {
	Metric         string  `json:"metric"`
	Primary        string  `json:"primary"`
	Secondary      string  `json:"secondary"`
	Numeric        bool    `json:"numeric"`
	PrimaryValue   float64 `json:"-"`
	SecondaryValue float64 `json:"-"`
}

// Comparison is the side-by-side view of two owner profiles.
type Comparison struct {
	Rows        []ComparisonRow `json:"rows"`
	Description string          `json:"description"`
}

// Narrative outcomes of a comparison.
const (
	PrimaryMoreEngaging   = "The Primary Owner has more followers and repositories than the Secondary Owner. This suggests that the Primary Owner is likely a more engaging user on GitHub compared to the Secondary Owner."
	SecondaryMoreEngaging = "The Secondary Owner has more followers and repositories than the Primary Owner. This suggests that the Secondary Owner is likely a more engaging user on GitHub compared to the Primary Owner."
	ComparableEngagement  = "The engagement levels of the Primary and Secondary Owners are comparable based on the available metrics."
)

// CompareProfiles compares public repos, followers, following and account
// creation of two profiles. Either profile may be nil.
func CompareProfiles(primary, secondary *domain.Profile) Comparison {
	p := profileOrEmpty(primary)
	s := profileOrEmpty(secondary)

	numeric := func(metric string, pv, sv int) ComparisonRow {
		row := ComparisonRow{
			Metric:       metric,
			Primary:      strconv.Itoa(pv),
			Secondary:    notAvailable,
			Numeric:      true,
			PrimaryValue: float64(pv),
		}
		if secondary != nil {
			row.Secondary = strconv.Itoa(sv)
			row.SecondaryValue = float64(sv)
		}
		return row
	}

	rows := []ComparisonRow{
		numeric("Public Repos", p.PublicRepos, s.PublicRepos),
		numeric("Followers", p.Followers, s.Followers),
		numeric("Following", p.Following, s.Following),
		{Metric: "Created At", Primary: formatCreated(primary), Secondary: formatCreated(secondary)},
	}

	description := ComparableEngagement
	switch {
	case p.Followers > s.Followers && p.PublicRepos > s.PublicRepos:
		description = PrimaryMoreEngaging
	case s.Followers > p.Followers && s.PublicRepos > p.PublicRepos:
		description = SecondaryMoreEngaging
	}

	return Comparison{Rows: rows, Description: description}
}

func profileOrEmpty(p *domain.Profile) domain.Profile {
	if p == nil {
		return domain.Profile{}
	}
	return *p
}

func formatCreated(p *domain.Profile) string {
	if p == nil || !p.CreatedAt.Valid() {
		return notAvailable
	}
	return p.CreatedAt.UTC().Format(domain.DayLayout)
}
