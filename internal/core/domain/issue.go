package domain

import "time"

// Issue is a tracker entry of a repository.
type Issue struct {
	Number   int64
	State    string
	Title    string
	Body     string
	HTMLURL  string
	User     User
	Assignee *User

	CreatedAt time.Time
	UpdatedAt time.Time
	ClosedAt  *time.Time
}

// IsOpen reports whether the issue is still open.
func (i Issue) IsOpen() bool {
	return i.State == string(StateOpen)
}

// IssueComment is a comment on an issue or pull request.
type IssueComment struct {
	ID        int64
	HTMLURL   string
	BodyHTML  string
	User      User
	CreatedAt time.Time
	UpdatedAt time.Time
}
