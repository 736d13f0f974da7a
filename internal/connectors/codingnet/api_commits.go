package codingnet

import (
	"context"
	"fmt"

	"github.com/coding/coding-cli/internal/core/domain"
)

// GetCommit fetches one commit.
func GetCommit(ctx context.Context, exec Executor, repo domain.RepoPath, sha string) (domain.Commit, error) {
	c, err := get(ctx, exec, repoAPIPath(repo, "commits", sha), convertCommit, AcceptJSON)
	if err != nil {
		return domain.Commit{}, fmt.Errorf("get commit info: %s - %s: %w", repo, sha, err)
	}
	return c, nil
}

// GetCommitComments lists the comments on a commit.
func GetCommitComments(ctx context.Context, exec Executor, repo domain.RepoPath, sha string) ([]domain.CommitComment, error) {
	path := repoAPIPath(repo, "commits", sha, "comments")
	comments, err := NewPagedRequest(path, convertCommitComment, AcceptHTMLBody).GetAll(ctx, exec)
	if err != nil {
		return nil, fmt.Errorf("get commit comments: %s - %s: %w", repo, sha, err)
	}
	return comments, nil
}
