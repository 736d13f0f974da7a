package domain

import "time"

// PullRequestState filters pull requests and issues.
type PullRequestState string

// Known states.
const (
	StateOpen   PullRequestState = "open"
	StateClosed PullRequestState = "closed"
	StateAll    PullRequestState = "all"
)

// PullRequestLink is one side (head or base) of a pull request.
type PullRequestLink struct {
	Label string
	Ref   string
	SHA   string
	Repo  *Repo
	User  *User
}

// PullRequest is a merge request between two branches.
type PullRequest struct {
	Number   int64
	State    string
	Title    string
	BodyHTML string

	HTMLURL  string
	DiffURL  string
	PatchURL string
	IssueURL string

	CreatedAt time.Time
	UpdatedAt time.Time
	ClosedAt  *time.Time
	MergedAt  *time.Time

	User User
	Head PullRequestLink
	Base PullRequestLink
}

// IsMerged reports whether the pull request was merged.
func (p PullRequest) IsMerged() bool {
	return p.MergedAt != nil
}

// PullRequestFile is one changed file of a pull request.
type PullRequestFile struct {
	Filename  string
	Status    string
	Additions int
	Deletions int
	Changes   int
	Patch     string
}
