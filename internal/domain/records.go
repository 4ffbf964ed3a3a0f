// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// Pull request and issue states as reported by the GitHub REST API.
const (
	StateOpen   = "open"
	StateClosed = "closed"
)

// Commit is a single repository commit.
type Commit struct {
	SHA        string    `json:"sha"`
	AuthorName string    `json:"author_name,omitempty"`
	AuthoredAt Timestamp `json:"authored_at"`
}

// PullRequest is a repository pull request. MergedAt is only present for merged PRs.
type PullRequest struct {
	Number      int       `json:"number"`
	Title       string    `json:"title"`
	State       string    `json:"state"`
	CreatedAt   Timestamp `json:"created_at"`
	MergedAt    Timestamp `json:"merged_at"`
	ReviewCount int       `json:"review_count"`
}

// Issue is a repository issue (pull requests excluded).
type Issue struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	State     string    `json:"state"`
	CreatedAt Timestamp `json:"created_at"`
	ClosedAt  Timestamp `json:"closed_at"`
	// Comments is nil when the count is unknown.
	Comments *int     `json:"comments"`
	Labels   []string `json:"labels,omitempty"`
}

// LanguageBytes maps a language name to the number of bytes written in it.
type LanguageBytes map[string]int

// Contributor is an entry of the repository contributor list.
type Contributor struct {
	Login         string `json:"login"`
	Contributions int    `json:"contributions"`
}

// RepoInfo is the repository metadata shown alongside the metrics.
type RepoInfo struct {
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Stars       int    `json:"stars"`
	Forks       int    `json:"forks"`
	Watchers    int    `json:"watchers"`
	Language    string `json:"language"`
}

// Profile is the public profile of a GitHub user.
type Profile struct {
	Login       string    `json:"login"`
	Name        string    `json:"name"`
	Bio         string    `json:"bio"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Email       string    `json:"email"`
	PublicRepos int       `json:"public_repos"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	CreatedAt   Timestamp `json:"created_at"`
	UpdatedAt   Timestamp `json:"updated_at"`
}

// Dataset is everything fetched for one repository in a single collection run.
type Dataset struct {
	Repo               RepoInfo      `json:"repo"`
	Commits            []Commit      `json:"commits"`
	PullRequests       []PullRequest `json:"pull_requests"`
	Issues             []Issue       `json:"issues"`
	Languages          LanguageBytes `json:"languages"`
	Contributors       []Contributor `json:"contributors"`
	OwnerProfile       *Profile      `json:"owner_profile,omitempty"`
	SecondOwnerProfile *Profile      `json:"second_owner_profile,omitempty"`
	// FetchedAt bounds the age of issues that are still open.
	FetchedAt time.Time `json:"fetched_at"`
}
