package domain

import "strings"

// Repo is a repository (a Coding.net project) as seen in listings.
type Repo struct {
	Name          string
	Description   string
	Private       bool
	Fork          bool
	HTMLURL       string
	CloneURL      string
	SSHURL        string
	DefaultBranch string
	Owner         User
}

// FullName returns "owner/name".
func (r Repo) FullName() string {
	if r.Owner.Login == "" {
		return r.Name
	}
	return r.Owner.Login + "/" + r.Name
}

// RepoPath identifies a repository by owner and name.
type RepoPath struct {
	Owner string
	Name  string
}

// ParseRepoPath parses "owner/name". It returns ErrInvalidInput for anything else.
func ParseRepoPath(s string) (RepoPath, error) {
	owner, name, ok := strings.Cut(strings.Trim(s, "/"), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return RepoPath{}, ErrInvalidInput
	}
	return RepoPath{Owner: owner, Name: strings.TrimSuffix(name, ".git")}, nil
}

// String returns "owner/name".
func (p RepoPath) String() string {
	return p.Owner + "/" + p.Name
}

// RepoDetailed is a single repository with its fork relationships.
type RepoDetailed struct {
	Repo

	Parent *Repo
	Source *Repo
}

// RepoPermissions are the caller's rights on a repository.
type RepoPermissions struct {
	Admin bool
	Push  bool
	Pull  bool
}

// RepoOrg is a repository reached through organisation membership.
type RepoOrg struct {
	Repo

	Permissions RepoPermissions
}

// Branch is a named ref of a repository.
type Branch struct {
	Name string
	SHA  string
}
