package codingnet

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/coding/coding-cli/internal/core/domain"
)

// maxNoteSuffix bounds the note_N names tried when a note is taken.
const maxNoteSuffix = 99

// GetScopedToken creates a token with scopes and returns its value. If a
// token with note exists already, the first free note_N is used instead.
func GetScopedToken(ctx context.Context, exec Executor, scopes []string, note string) (string, error) {
	auth, err := GetNewScopedToken(ctx, exec, scopes, note)
	if err == nil {
		return auth.Token, nil
	}

	var statusErr *StatusCodeError
	if !errors.As(err, &statusErr) || !statusErr.Body.ContainsErrorCode("already_exists") {
		return "", err
	}

	tokens, listErr := GetAllTokens(ctx, exec)
	if listErr != nil {
		return "", listErr
	}
	taken := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		taken[t.Note] = true
	}

	for i := 1; i <= maxNoteSuffix; i++ {
		candidate := note + "_" + strconv.Itoa(i)
		if taken[candidate] {
			continue
		}
		auth, err := GetNewScopedToken(ctx, exec, scopes, candidate)
		if err != nil {
			return "", err
		}
		return auth.Token, nil
	}
	return "", err
}

// GetNewScopedToken creates a token with scopes and note.
func GetNewScopedToken(ctx context.Context, exec Executor, scopes []string, note string) (domain.Authorization, error) {
	body := authorizationCreateRequest{Scopes: scopes, Note: note}
	a, err := send(ctx, exec, VerbPost, "/authorizations", body, convertAuthorization, AcceptJSON)
	if err != nil {
		return domain.Authorization{}, fmt.Errorf("create token: scopes %v - note %s: %w", scopes, note, err)
	}
	return a, nil
}

// UpdateTokenScopes replaces the scopes of an existing token.
func UpdateTokenScopes(ctx context.Context, exec Executor, token domain.Authorization, scopes []string) (domain.Authorization, error) {
	path := "/authorizations/" + strconv.FormatInt(token.ID, 10)
	a, err := send(ctx, exec, VerbPatch, path, authorizationUpdateRequest{Scopes: scopes}, convertAuthorization, AcceptJSON)
	if err != nil {
		return domain.Authorization{}, fmt.Errorf("update token: scopes %v: %w", scopes, err)
	}
	return a, nil
}

// GetAllTokens lists the tokens of the user.
func GetAllTokens(ctx context.Context, exec Executor) ([]domain.Authorization, error) {
	tokens, err := NewPagedRequest("/authorizations", convertAuthorization, AcceptJSON).GetAll(ctx, exec)
	if err != nil {
		return nil, fmt.Errorf("get available tokens: %w", err)
	}
	return tokens, nil
}

// GetMasterToken creates a token able to manage repositories and gists.
func GetMasterToken(ctx context.Context, exec Executor, note string) (string, error) {
	return GetScopedToken(ctx, exec, []string{"repo", "gist"}, note)
}

// GetTasksToken creates a token to read the issues of one repository.
func GetTasksToken(ctx context.Context, exec Executor, repo domain.RepoPath, note string) (string, error) {
	info, err := GetDetailedRepoInfo(ctx, exec, repo)
	if err != nil {
		return "", err
	}
	scopes := []string{"public_repo"}
	if info.Private {
		scopes = []string{"repo"}
	}
	return GetScopedToken(ctx, exec, scopes, note)
}
