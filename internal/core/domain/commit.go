package domain

import "time"

// GitUser is the author or committer recorded in a commit object.
type GitUser struct {
	Name  string
	Email string
	Date  time.Time
}

// Commit is a repository commit.
type Commit struct {
	SHA       string
	URL       string
	Message   string
	Author    GitUser
	Committer GitUser
	Parents   []string

	// AuthorAccount is the platform account matched to the author, if any.
	AuthorAccount *User
}

// CommitComment is a review comment on a commit line.
type CommitComment struct {
	ID        int64
	HTMLURL   string
	SHA       string
	Path      string
	Position  int64
	BodyHTML  string
	User      User
	CreatedAt time.Time
	UpdatedAt time.Time
}
