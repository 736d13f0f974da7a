package codingnet

import (
	"context"
	"fmt"
	"strconv"

	"github.com/coding/coding-cli/internal/core/domain"
)

// CreatePullRequest opens a pull request from head into base.
func CreatePullRequest(ctx context.Context, exec Executor, repo domain.RepoPath, title, description, head, base string) (domain.PullRequest, error) {
	body := pullRequestRequest{Title: title, Body: description, Head: head, Base: base}
	pr, err := send(ctx, exec, VerbPost, repoAPIPath(repo, "pulls"), body, convertPullRequest, AcceptJSON)
	if err != nil {
		return domain.PullRequest{}, fmt.Errorf("create pull request: %w", err)
	}
	return pr, nil
}

// GetPullRequest fetches one pull request with its rendered body.
func GetPullRequest(ctx context.Context, exec Executor, repo domain.RepoPath, number int64) (domain.PullRequest, error) {
	path := repoAPIPath(repo, "pulls", strconv.FormatInt(number, 10))
	pr, err := get(ctx, exec, path, convertPullRequest, AcceptHTMLBody)
	if err != nil {
		return domain.PullRequest{}, fmt.Errorf("get pull request info: %s - %d: %w", repo, number, err)
	}
	return pr, nil
}

// PullRequestsPaged returns a request walking the pull requests of repo
// one page at a time.
func PullRequestsPaged(repo domain.RepoPath) *PagedRequest[domain.PullRequest] {
	return NewPagedRequest(repoAPIPath(repo, "pulls")+"?"+PerPage, convertPullRequest, AcceptHTMLBody)
}

// GetPullRequests lists the pull requests of a repository.
func GetPullRequests(ctx context.Context, exec Executor, repo domain.RepoPath) ([]domain.PullRequest, error) {
	prs, err := PullRequestsPaged(repo).GetAll(ctx, exec)
	if err != nil {
		return nil, fmt.Errorf("get pull requests: %s: %w", repo, err)
	}
	return prs, nil
}

// GetPullRequestCommits lists the commits of a pull request.
func GetPullRequestCommits(ctx context.Context, exec Executor, repo domain.RepoPath, number int64) ([]domain.Commit, error) {
	path := repoAPIPath(repo, "pulls", strconv.FormatInt(number, 10), "commits") + "?" + PerPage
	commits, err := NewPagedRequest(path, convertCommit, AcceptJSON).GetAll(ctx, exec)
	if err != nil {
		return nil, fmt.Errorf("get pull request commits: %s - %d: %w", repo, number, err)
	}
	return commits, nil
}

// GetPullRequestFiles lists the files a pull request changes.
func GetPullRequestFiles(ctx context.Context, exec Executor, repo domain.RepoPath, number int64) ([]domain.PullRequestFile, error) {
	path := repoAPIPath(repo, "pulls", strconv.FormatInt(number, 10), "files") + "?" + PerPage
	files, err := NewPagedRequest(path, convertFile, AcceptJSON).GetAll(ctx, exec)
	if err != nil {
		return nil, fmt.Errorf("get pull request files: %s - %d: %w", repo, number, err)
	}
	return files, nil
}

// GetPullRequestComments lists review comments of a pull request.
func GetPullRequestComments(ctx context.Context, exec Executor, repo domain.RepoPath, number int64) ([]domain.CommitComment, error) {
	path := repoAPIPath(repo, "pulls", strconv.FormatInt(number, 10), "comments")
	comments, err := NewPagedRequest(path, convertCommitComment, AcceptHTMLBody).GetAll(ctx, exec)
	if err != nil {
		return nil, fmt.Errorf("get pull request comments: %s - %d: %w", repo, number, err)
	}
	return comments, nil
}
