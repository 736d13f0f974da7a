package codingnet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/coding/coding-cli/internal/core/domain"
)

// WireTimeLayout is the timestamp format of API payloads.
const WireTimeLayout = "2006-01-02T15:04:05Z"

// wireTime decodes either a WireTimeLayout string or epoch milliseconds.
type wireTime struct {
	time.Time
}

func (t *wireTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] != '"' {
		ms, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid timestamp %s", data)
		}
		t.Time = time.UnixMilli(ms).UTC()
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.Parse(WireTimeLayout, s)
	if err != nil {
		if parsed, err = time.Parse(time.RFC3339, s); err != nil {
			return fmt.Errorf("invalid timestamp %q", s)
		}
	}
	t.Time = parsed.UTC()
	return nil
}

func (t *wireTime) ptr() *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

func (t *wireTime) value() time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.Time
}

func missingField(what, field string) error {
	return fmt.Errorf("%w: %s without %s", domain.ErrMalformedResponse, what, field)
}

// Users

type userRaw struct {
	Login             string       `json:"login"`
	ID                int64        `json:"id"`
	URL               string       `json:"url"`
	HTMLURL           string       `json:"html_url"`
	AvatarURL         string       `json:"avatar_url"`
	Name              string       `json:"name"`
	Email             string       `json:"email"`
	Type              string       `json:"type"`
	OwnedPrivateRepos int          `json:"owned_private_repos"`
	Plan              *userPlanRaw `json:"plan"`
	Data              *userDataRaw `json:"data"`
}

type userPlanRaw struct {
	Name         string `json:"name"`
	PrivateRepos int64  `json:"private_repos"`
}

// userDataRaw is the account envelope returned by the login endpoints.
type userDataRaw struct {
	Name      string `json:"name"`
	GlobalKey string `json:"global_key"`
	Avatar    string `json:"avatar"`
	Path      string `json:"path"`
	Email     string `json:"email"`
}

func (u userRaw) login() string {
	if u.Login != "" {
		return u.Login
	}
	if u.Data != nil {
		return u.Data.GlobalKey
	}
	return ""
}

func convertUser(raw userRaw) (domain.User, error) {
	login := raw.login()
	if login == "" {
		return domain.User{}, missingField("user", "login")
	}
	avatar := raw.AvatarURL
	if avatar == "" && raw.Data != nil {
		avatar = raw.Data.Avatar
	}
	return domain.User{Login: login, HTMLURL: raw.HTMLURL, AvatarURL: avatar}, nil
}

func convertUserDetailed(raw userRaw) (domain.UserDetailed, error) {
	out := domain.UserDetailed{
		User: domain.User{
			Login:     raw.login(),
			HTMLURL:   raw.HTMLURL,
			AvatarURL: raw.AvatarURL,
		},
		Name:              raw.Name,
		Email:             raw.Email,
		Type:              raw.Type,
		OwnedPrivateRepos: raw.OwnedPrivateRepos,
	}
	if d := raw.Data; d != nil {
		if out.Name == "" {
			out.Name = d.Name
		}
		if out.Email == "" {
			out.Email = d.Email
		}
		if out.AvatarURL == "" {
			out.AvatarURL = d.Avatar
		}
	}
	if raw.Plan != nil {
		out.Plan = &domain.UserPlan{Name: raw.Plan.Name, PrivateRepos: raw.Plan.PrivateRepos}
	}
	return out, nil
}

func convertUserPtr(raw *userRaw) *domain.User {
	if raw == nil {
		return nil
	}
	u, err := convertUser(*raw)
	if err != nil {
		return nil
	}
	return &u
}

type orgRaw struct {
	Login string `json:"login"`
}

func convertOrg(raw orgRaw) (string, error) {
	if raw.Login == "" {
		return "", missingField("organization", "login")
	}
	return raw.Login, nil
}

// Repositories

type repoRaw struct {
	Name          string              `json:"name"`
	FullName      string              `json:"full_name"`
	Description   string              `json:"description"`
	Private       bool                `json:"private"`
	Fork          bool                `json:"fork"`
	HTMLURL       string              `json:"html_url"`
	CloneURL      string              `json:"clone_url"`
	HTTPSURL      string              `json:"https_url"`
	SSHURL        string              `json:"ssh_url"`
	DefaultBranch string              `json:"default_branch"`
	Owner         *userRaw            `json:"owner"`
	OwnerName     string              `json:"owner_user_name"`
	Parent        *repoRaw            `json:"parent"`
	Source        *repoRaw            `json:"source"`
	Permissions   *repoPermissionsRaw `json:"permissions"`
}

type repoPermissionsRaw struct {
	Admin bool `json:"admin"`
	Push  bool `json:"push"`
	Pull  bool `json:"pull"`
}

func convertRepo(raw repoRaw) (domain.Repo, error) {
	out := domain.Repo{
		Name:          raw.Name,
		Description:   raw.Description,
		Private:       raw.Private,
		Fork:          raw.Fork,
		HTMLURL:       raw.HTMLURL,
		CloneURL:      raw.CloneURL,
		SSHURL:        raw.SSHURL,
		DefaultBranch: raw.DefaultBranch,
	}
	if out.CloneURL == "" {
		out.CloneURL = raw.HTTPSURL
	}
	if raw.Owner != nil {
		out.Owner.Login = raw.Owner.login()
		out.Owner.HTMLURL = raw.Owner.HTMLURL
		out.Owner.AvatarURL = raw.Owner.AvatarURL
	}
	if out.Owner.Login == "" {
		out.Owner.Login = raw.OwnerName
	}

	// Project listings only carry the clone URL.
	if out.Name == "" || out.Owner.Login == "" {
		if path, ok := UserAndRepoFromRemoteURL(out.CloneURL); ok {
			if out.Name == "" {
				out.Name = path.Name
			}
			if out.Owner.Login == "" {
				out.Owner.Login = path.Owner
			}
		}
	}
	if out.Name == "" {
		return domain.Repo{}, missingField("repository", "name")
	}
	if out.HTMLURL == "" && strings.HasPrefix(out.CloneURL, "http") {
		out.HTMLURL = removeEndingDotGit(out.CloneURL)
	}
	return out, nil
}

func convertRepoPtr(raw *repoRaw) (*domain.Repo, error) {
	if raw == nil {
		return nil, nil
	}
	r, err := convertRepo(*raw)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func convertRepoDetailed(raw repoRaw) (domain.RepoDetailed, error) {
	repo, err := convertRepo(raw)
	if err != nil {
		return domain.RepoDetailed{}, err
	}
	parent, err := convertRepoPtr(raw.Parent)
	if err != nil {
		return domain.RepoDetailed{}, err
	}
	source, err := convertRepoPtr(raw.Source)
	if err != nil {
		return domain.RepoDetailed{}, err
	}
	return domain.RepoDetailed{Repo: repo, Parent: parent, Source: source}, nil
}

func convertRepoOrg(raw repoRaw) (domain.RepoOrg, error) {
	repo, err := convertRepo(raw)
	if err != nil {
		return domain.RepoOrg{}, err
	}
	if raw.Permissions == nil {
		return domain.RepoOrg{}, missingField("repository", "permissions")
	}
	return domain.RepoOrg{
		Repo: repo,
		Permissions: domain.RepoPermissions{
			Admin: raw.Permissions.Admin,
			Push:  raw.Permissions.Push,
			Pull:  raw.Permissions.Pull,
		},
	}, nil
}

type branchRaw struct {
	Name   string `json:"name"`
	Commit *struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

func convertBranch(raw branchRaw) (domain.Branch, error) {
	if raw.Name == "" {
		return domain.Branch{}, missingField("branch", "name")
	}
	b := domain.Branch{Name: raw.Name}
	if raw.Commit != nil {
		b.SHA = raw.Commit.SHA
	}
	return b, nil
}

// Pull requests

type pullRequestLinkRaw struct {
	Label string   `json:"label"`
	Ref   string   `json:"ref"`
	SHA   string   `json:"sha"`
	Repo  *repoRaw `json:"repo"`
	User  *userRaw `json:"user"`
}

type pullRequestRaw struct {
	Number    int64               `json:"number"`
	State     string              `json:"state"`
	Title     string              `json:"title"`
	Body      string              `json:"body"`
	BodyHTML  string              `json:"body_html"`
	HTMLURL   string              `json:"html_url"`
	DiffURL   string              `json:"diff_url"`
	PatchURL  string              `json:"patch_url"`
	IssueURL  string              `json:"issue_url"`
	CreatedAt *wireTime           `json:"created_at"`
	UpdatedAt *wireTime           `json:"updated_at"`
	ClosedAt  *wireTime           `json:"closed_at"`
	MergedAt  *wireTime           `json:"merged_at"`
	User      *userRaw            `json:"user"`
	Head      *pullRequestLinkRaw `json:"head"`
	Base      *pullRequestLinkRaw `json:"base"`
}

func convertPullRequestLink(raw *pullRequestLinkRaw, which string) (domain.PullRequestLink, error) {
	if raw == nil {
		return domain.PullRequestLink{}, missingField("pull request", which)
	}
	repo, err := convertRepoPtr(raw.Repo)
	if err != nil {
		return domain.PullRequestLink{}, err
	}
	return domain.PullRequestLink{
		Label: raw.Label,
		Ref:   raw.Ref,
		SHA:   raw.SHA,
		Repo:  repo,
		User:  convertUserPtr(raw.User),
	}, nil
}

func convertPullRequest(raw pullRequestRaw) (domain.PullRequest, error) {
	if raw.Number == 0 {
		return domain.PullRequest{}, missingField("pull request", "number")
	}
	if raw.User == nil {
		return domain.PullRequest{}, missingField("pull request", "user")
	}
	user, err := convertUser(*raw.User)
	if err != nil {
		return domain.PullRequest{}, err
	}
	head, err := convertPullRequestLink(raw.Head, "head")
	if err != nil {
		return domain.PullRequest{}, err
	}
	base, err := convertPullRequestLink(raw.Base, "base")
	if err != nil {
		return domain.PullRequest{}, err
	}

	body := raw.BodyHTML
	if body == "" {
		body = raw.Body
	}
	return domain.PullRequest{
		Number:    raw.Number,
		State:     raw.State,
		Title:     raw.Title,
		BodyHTML:  body,
		HTMLURL:   raw.HTMLURL,
		DiffURL:   raw.DiffURL,
		PatchURL:  raw.PatchURL,
		IssueURL:  raw.IssueURL,
		CreatedAt: raw.CreatedAt.value(),
		UpdatedAt: raw.UpdatedAt.value(),
		ClosedAt:  raw.ClosedAt.ptr(),
		MergedAt:  raw.MergedAt.ptr(),
		User:      user,
		Head:      head,
		Base:      base,
	}, nil
}

type fileRaw struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Changes   int    `json:"changes"`
	Patch     string `json:"patch"`
}

func convertFile(raw fileRaw) (domain.PullRequestFile, error) {
	if raw.Filename == "" {
		return domain.PullRequestFile{}, missingField("file", "filename")
	}
	return domain.PullRequestFile(raw), nil
}

// Issues

type issueRaw struct {
	Number    int64     `json:"number"`
	State     string    `json:"state"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	HTMLURL   string    `json:"html_url"`
	User      *userRaw  `json:"user"`
	Assignee  *userRaw  `json:"assignee"`
	CreatedAt *wireTime `json:"created_at"`
	UpdatedAt *wireTime `json:"updated_at"`
	ClosedAt  *wireTime `json:"closed_at"`
}

func convertIssue(raw issueRaw) (domain.Issue, error) {
	if raw.Number == 0 {
		return domain.Issue{}, missingField("issue", "number")
	}
	if raw.User == nil {
		return domain.Issue{}, missingField("issue", "user")
	}
	user, err := convertUser(*raw.User)
	if err != nil {
		return domain.Issue{}, err
	}
	return domain.Issue{
		Number:    raw.Number,
		State:     raw.State,
		Title:     raw.Title,
		Body:      raw.Body,
		HTMLURL:   raw.HTMLURL,
		User:      user,
		Assignee:  convertUserPtr(raw.Assignee),
		CreatedAt: raw.CreatedAt.value(),
		UpdatedAt: raw.UpdatedAt.value(),
		ClosedAt:  raw.ClosedAt.ptr(),
	}, nil
}

type issuesSearchRaw struct {
	Items []issueRaw `json:"items"`
}

type issueCommentRaw struct {
	ID        int64     `json:"id"`
	HTMLURL   string    `json:"html_url"`
	Body      string    `json:"body"`
	BodyHTML  string    `json:"body_html"`
	User      *userRaw  `json:"user"`
	CreatedAt *wireTime `json:"created_at"`
	UpdatedAt *wireTime `json:"updated_at"`
}

func convertIssueComment(raw issueCommentRaw) (domain.IssueComment, error) {
	if raw.User == nil {
		return domain.IssueComment{}, missingField("comment", "user")
	}
	user, err := convertUser(*raw.User)
	if err != nil {
		return domain.IssueComment{}, err
	}
	body := raw.BodyHTML
	if body == "" {
		body = raw.Body
	}
	return domain.IssueComment{
		ID:        raw.ID,
		HTMLURL:   raw.HTMLURL,
		BodyHTML:  body,
		User:      user,
		CreatedAt: raw.CreatedAt.value(),
		UpdatedAt: raw.UpdatedAt.value(),
	}, nil
}

// Gists

type gistFileRaw struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
	RawURL   string `json:"raw_url"`
}

type gistRaw struct {
	ID          string                 `json:"id"`
	Description string                 `json:"description"`
	Public      bool                   `json:"public"`
	HTMLURL     string                 `json:"html_url"`
	Files       map[string]gistFileRaw `json:"files"`
	Owner       *userRaw               `json:"owner"`
}

func convertGist(raw gistRaw) (domain.Gist, error) {
	if raw.ID == "" {
		return domain.Gist{}, missingField("gist", "id")
	}
	files := make([]domain.GistFile, 0, len(raw.Files))
	for name, f := range raw.Files {
		if f.Filename == "" {
			f.Filename = name
		}
		files = append(files, domain.GistFile(f))
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Filename < files[j].Filename })
	return domain.Gist{
		ID:          raw.ID,
		Description: raw.Description,
		Public:      raw.Public,
		HTMLURL:     raw.HTMLURL,
		Files:       files,
		Owner:       convertUserPtr(raw.Owner),
	}, nil
}

// Commits

type gitUserRaw struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Date  *wireTime `json:"date"`
}

type commitRaw struct {
	SHA    string `json:"sha"`
	URL    string `json:"url"`
	Commit *struct {
		Message   string      `json:"message"`
		Author    *gitUserRaw `json:"author"`
		Committer *gitUserRaw `json:"committer"`
	} `json:"commit"`
	Author  *userRaw `json:"author"`
	Parents []struct {
		SHA string `json:"sha"`
	} `json:"parents"`
}

func convertGitUser(raw *gitUserRaw) domain.GitUser {
	if raw == nil {
		return domain.GitUser{}
	}
	return domain.GitUser{Name: raw.Name, Email: raw.Email, Date: raw.Date.value()}
}

func convertCommit(raw commitRaw) (domain.Commit, error) {
	if raw.SHA == "" {
		return domain.Commit{}, missingField("commit", "sha")
	}
	out := domain.Commit{
		SHA:           raw.SHA,
		URL:           raw.URL,
		AuthorAccount: convertUserPtr(raw.Author),
	}
	if raw.Commit != nil {
		out.Message = raw.Commit.Message
		out.Author = convertGitUser(raw.Commit.Author)
		out.Committer = convertGitUser(raw.Commit.Committer)
	}
	for _, p := range raw.Parents {
		out.Parents = append(out.Parents, p.SHA)
	}
	return out, nil
}

type commitCommentRaw struct {
	ID        int64     `json:"id"`
	HTMLURL   string    `json:"html_url"`
	CommitID  string    `json:"commit_id"`
	Path      string    `json:"path"`
	Position  int64     `json:"position"`
	Body      string    `json:"body"`
	BodyHTML  string    `json:"body_html"`
	User      *userRaw  `json:"user"`
	CreatedAt *wireTime `json:"created_at"`
	UpdatedAt *wireTime `json:"updated_at"`
}

func convertCommitComment(raw commitCommentRaw) (domain.CommitComment, error) {
	if raw.User == nil {
		return domain.CommitComment{}, missingField("commit comment", "user")
	}
	user, err := convertUser(*raw.User)
	if err != nil {
		return domain.CommitComment{}, err
	}
	body := raw.BodyHTML
	if body == "" {
		body = raw.Body
	}
	return domain.CommitComment{
		ID:        raw.ID,
		HTMLURL:   raw.HTMLURL,
		SHA:       raw.CommitID,
		Path:      raw.Path,
		Position:  raw.Position,
		BodyHTML:  body,
		User:      user,
		CreatedAt: raw.CreatedAt.value(),
		UpdatedAt: raw.UpdatedAt.value(),
	}, nil
}

// Authorizations

type authorizationRaw struct {
	ID      int64    `json:"id"`
	URL     string   `json:"url"`
	Token   string   `json:"token"`
	Note    string   `json:"note"`
	NoteURL string   `json:"note_url"`
	Scopes  []string `json:"scopes"`
}

func convertAuthorization(raw authorizationRaw) (domain.Authorization, error) {
	if raw.ID == 0 {
		return domain.Authorization{}, missingField("authorization", "id")
	}
	return domain.Authorization(raw), nil
}

// Request bodies

type repoRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Private     bool   `json:"private"`
}

type gistFileRequest struct {
	Content string `json:"content"`
}

type gistRequest struct {
	Description string                     `json:"description"`
	Public      bool                       `json:"public"`
	Files       map[string]gistFileRequest `json:"files"`
}

type pullRequestRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Head  string `json:"head"`
	Base  string `json:"base"`
}

type issueStateRequest struct {
	State string `json:"state"`
}

type authorizationCreateRequest struct {
	Scopes  []string `json:"scopes"`
	Note    string   `json:"note"`
	NoteURL string   `json:"note_url,omitempty"`
}

type authorizationUpdateRequest struct {
	Scopes []string `json:"scopes"`
}

// decodeInto decodes a response body into R and converts it.
func decodeInto[R, T any](resp *Response, convert func(R) (T, error)) (T, error) {
	var raw R
	if err := resp.Decode(&raw); err != nil {
		var zero T
		return zero, err
	}
	return convert(raw)
}
