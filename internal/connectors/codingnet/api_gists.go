package codingnet

import (
	"context"
	"fmt"

	"github.com/coding/coding-cli/internal/core/domain"
)

// GetGist fetches a gist by id.
func GetGist(ctx context.Context, exec Executor, id string) (domain.Gist, error) {
	g, err := get(ctx, exec, joinPath("gists", id), convertGist, AcceptJSON)
	if err != nil {
		return domain.Gist{}, fmt.Errorf("get gist info: %s: %w", id, err)
	}
	return g, nil
}

// CreateGist publishes files as a new gist.
func CreateGist(ctx context.Context, exec Executor, files []domain.FileContent, description string, public bool) (domain.Gist, error) {
	if len(files) == 0 {
		return domain.Gist{}, fmt.Errorf("%w: gist without files", domain.ErrInvalidInput)
	}
	body := gistRequest{
		Description: description,
		Public:      public,
		Files:       make(map[string]gistFileRequest, len(files)),
	}
	for _, f := range files {
		body.Files[f.Name] = gistFileRequest{Content: f.Content}
	}

	g, err := send(ctx, exec, VerbPost, "/gists", body, convertGist, AcceptJSON)
	if err != nil {
		return domain.Gist{}, fmt.Errorf("create gist: %w", err)
	}
	return g, nil
}

// DeleteGist deletes a gist.
func DeleteGist(ctx context.Context, exec Executor, id string) error {
	if _, err := exec.Execute(ctx, Request{Verb: VerbDelete, Path: joinPath("gists", id)}); err != nil {
		return fmt.Errorf("delete gist: %s: %w", id, err)
	}
	return nil
}
