package codingnet

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/coding/coding-cli/internal/core/domain"
)

// GetIssue fetches one issue.
func GetIssue(ctx context.Context, exec Executor, repo domain.RepoPath, number int64) (domain.Issue, error) {
	path := repoAPIPath(repo, "issues", strconv.FormatInt(number, 10))
	issue, err := get(ctx, exec, path, convertIssue, AcceptJSON)
	if err != nil {
		return domain.Issue{}, fmt.Errorf("get issue info: %s - %d: %w", repo, number, err)
	}
	return issue, nil
}

// GetIssuesAssigned lists issues, optionally only those assigned to
// assignee. Pages are fetched until at least limit issues are collected.
func GetIssuesAssigned(ctx context.Context, exec Executor, repo domain.RepoPath, assignee string, limit int, withClosed bool) ([]domain.Issue, error) {
	state := domain.StateOpen
	if withClosed {
		state = domain.StateAll
	}
	query := url.Values{}
	if strings.TrimSpace(assignee) != "" {
		query.Set("assignee", assignee)
	}
	query.Set("state", string(state))
	path := repoAPIPath(repo, "issues") + "?" + PerPage + "&" + query.Encode()

	issues := []domain.Issue{}
	request := NewPagedRequest(path, convertIssue, AcceptJSON)
	for request.HasNext() && len(issues) < limit {
		page, err := request.Next(ctx, exec)
		if err != nil {
			return nil, fmt.Errorf("get assigned issues: %s - %s: %w", repo, assignee, err)
		}
		issues = append(issues, page...)
	}
	return issues, nil
}

// GetIssuesQueried searches the issues of a repository.
func GetIssuesQueried(ctx context.Context, exec Executor, repo domain.RepoPath, assignee, query string, withClosed bool) ([]domain.Issue, error) {
	q := "repo:" + repo.String()
	if !withClosed {
		q += " state:open"
	}
	if strings.TrimSpace(assignee) != "" {
		q += " assignee:" + assignee
	}
	q += " " + query

	path := "/search/issues?" + url.Values{"q": {q}}.Encode()
	issues, err := get(ctx, exec, path, func(raw issuesSearchRaw) ([]domain.Issue, error) {
		out := make([]domain.Issue, 0, len(raw.Items))
		for _, item := range raw.Items {
			issue, err := convertIssue(item)
			if err != nil {
				return nil, err
			}
			out = append(out, issue)
		}
		return out, nil
	}, AcceptJSON)
	if err != nil {
		return nil, fmt.Errorf("get queried issues: %s - %s: %w", repo, query, err)
	}
	return issues, nil
}

// GetIssueComments lists the comments of an issue.
func GetIssueComments(ctx context.Context, exec Executor, repo domain.RepoPath, number int64) ([]domain.IssueComment, error) {
	path := repoAPIPath(repo, "issues", strconv.FormatInt(number, 10), "comments") + "?" + PerPage
	comments, err := NewPagedRequest(path, convertIssueComment, AcceptHTMLBody).GetAll(ctx, exec)
	if err != nil {
		return nil, fmt.Errorf("get issue comments: %s - %d: %w", repo, number, err)
	}
	return comments, nil
}

// SetIssueState opens or closes an issue.
func SetIssueState(ctx context.Context, exec Executor, repo domain.RepoPath, number int64, open bool) error {
	state := domain.StateClosed
	if open {
		state = domain.StateOpen
	}
	path := repoAPIPath(repo, "issues", strconv.FormatInt(number, 10))
	if _, err := exec.Execute(ctx, Request{
		Verb:    VerbPatch,
		Path:    path,
		Body:    issueStateRequest{State: string(state)},
		Headers: []Header{AcceptJSON},
	}); err != nil {
		return fmt.Errorf("set issue state: %s - %d@%s: %w", repo, number, state, err)
	}
	return nil
}
