package codingnet

import (
	"context"
	"fmt"
	"strings"

	"github.com/coding/coding-cli/internal/core/domain"
)

func reposRequest(path string) *PagedRequest[domain.Repo] {
	return NewPagedRequest(path, convertRepo, AcceptJSON)
}

// GetUserRepos lists the projects of the authenticated user.
func GetUserRepos(ctx context.Context, exec Executor) ([]domain.Repo, error) {
	repos, err := reposRequest("/api/user/projects?" + PerPage).GetAll(ctx, exec)
	if err != nil {
		return nil, fmt.Errorf("get user repositories: %w", err)
	}
	return repos, nil
}

// GetUserReposOf lists the public repositories of another user.
func GetUserReposOf(ctx context.Context, exec Executor, user string) ([]domain.Repo, error) {
	repos, err := reposRequest(joinPath("users", user, "repos") + "?" + PerPage).GetAll(ctx, exec)
	if err != nil {
		return nil, fmt.Errorf("get user repositories: %s: %w", user, err)
	}
	return repos, nil
}

// GetMembershipRepos lists repositories of every organization the user
// belongs to.
func GetMembershipRepos(ctx context.Context, exec Executor) ([]domain.RepoOrg, error) {
	orgs, err := NewPagedRequest("/user/orgs?"+PerPage, convertOrg, AcceptJSON).GetAll(ctx, exec)
	if err != nil {
		return nil, fmt.Errorf("get organizations: %w", err)
	}

	repos := []domain.RepoOrg{}
	for _, org := range orgs {
		path := joinPath("orgs", org, "repos") + "?type=member&" + PerPage
		page, err := NewPagedRequest(path, convertRepoOrg, AcceptJSON).GetAll(ctx, exec)
		if err != nil {
			return nil, fmt.Errorf("get organization repositories: %s: %w", org, err)
		}
		repos = append(repos, page...)
	}
	return repos, nil
}

// GetWatchedRepos lists repositories the user watches.
func GetWatchedRepos(ctx context.Context, exec Executor) ([]domain.Repo, error) {
	repos, err := reposRequest("/user/subscriptions?" + PerPage).GetAll(ctx, exec)
	if err != nil {
		return nil, fmt.Errorf("get watched repositories: %w", err)
	}
	return repos, nil
}

// GetAvailableRepos lists own repositories followed by organization
// repositories, without duplicates. Organization listing failures with an
// HTTP status are skipped.
func GetAvailableRepos(ctx context.Context, exec Executor) ([]domain.Repo, error) {
	own, err := GetUserRepos(ctx, exec)
	if err != nil {
		return nil, fmt.Errorf("get available repositories: %w", err)
	}

	seen := make(map[string]bool, len(own))
	repos := make([]domain.Repo, 0, len(own))
	add := func(r domain.Repo) {
		key := strings.ToLower(r.FullName())
		if seen[key] {
			return
		}
		seen[key] = true
		repos = append(repos, r)
	}
	for _, r := range own {
		add(r)
	}

	member, err := GetMembershipRepos(ctx, exec)
	switch {
	case err == nil:
		for _, r := range member {
			add(r.Repo)
		}
	case IsStatusCode(err):
	default:
		return nil, fmt.Errorf("get available repositories: %w", err)
	}
	return repos, nil
}

// GetDetailedRepoInfo fetches a repository with its fork parent and source.
func GetDetailedRepoInfo(ctx context.Context, exec Executor, repo domain.RepoPath) (domain.RepoDetailed, error) {
	r, err := get(ctx, exec, repoAPIPath(repo), convertRepoDetailed, AcceptJSON)
	if err != nil {
		return domain.RepoDetailed{}, fmt.Errorf("get repository info: %s: %w", repo, err)
	}
	return r, nil
}

// CreateRepo creates a repository owned by the user.
func CreateRepo(ctx context.Context, exec Executor, name, description string, private bool) (domain.Repo, error) {
	body := repoRequest{Name: name, Description: description, Private: private}
	r, err := send(ctx, exec, VerbPost, "/user/repos", body, convertRepo, AcceptJSON)
	if err != nil {
		return domain.Repo{}, fmt.Errorf("create repository: %s: %w", name, err)
	}
	return r, nil
}

// DeleteRepo deletes a repository.
func DeleteRepo(ctx context.Context, exec Executor, repo domain.RepoPath) error {
	if _, err := exec.Execute(ctx, Request{Verb: VerbDelete, Path: repoAPIPath(repo)}); err != nil {
		return fmt.Errorf("delete repository: %s: %w", repo, err)
	}
	return nil
}

// GetForks lists the forks of a repository.
func GetForks(ctx context.Context, exec Executor, repo domain.RepoPath) ([]domain.Repo, error) {
	forks, err := reposRequest(repoAPIPath(repo, "forks") + "?" + PerPage).GetAll(ctx, exec)
	if err != nil {
		return nil, fmt.Errorf("get forks: %s: %w", repo, err)
	}
	return forks, nil
}

// FindForkByUser returns the fork owned by user, or nil. Paging stops at
// the first match.
func FindForkByUser(ctx context.Context, exec Executor, repo domain.RepoPath, user string) (*domain.Repo, error) {
	var found *domain.Repo
	err := reposRequest(repoAPIPath(repo, "forks")+"?"+PerPage).ForEach(ctx, exec, func(page []domain.Repo) bool {
		for i := range page {
			if strings.EqualFold(page[i].Owner.Login, user) {
				found = &page[i]
				return false
			}
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("find fork by user: %s - %s: %w", repo, user, err)
	}
	return found, nil
}

// GetRepoBranches lists the branches of a repository.
func GetRepoBranches(ctx context.Context, exec Executor, repo domain.RepoPath) ([]domain.Branch, error) {
	path := repoAPIPath(repo, "branches") + "?" + PerPage
	branches, err := NewPagedRequest(path, convertBranch, AcceptJSON).GetAll(ctx, exec)
	if err != nil {
		return nil, fmt.Errorf("get repository branches: %s: %w", repo, err)
	}
	return branches, nil
}
