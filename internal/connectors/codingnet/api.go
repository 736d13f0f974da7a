package codingnet

import (
	"context"
	"net/url"
	"strings"

	"github.com/coding/coding-cli/internal/core/domain"
)

// get fetches path and converts the body.
func get[R, T any](ctx context.Context, exec Executor, path string, convert func(R) (T, error), headers ...Header) (T, error) {
	resp, err := exec.Execute(ctx, Request{Verb: VerbGet, Path: path, Headers: headers})
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeInto(resp, convert)
}

// send issues a request with a JSON body and converts the reply.
func send[R, T any](ctx context.Context, exec Executor, verb Verb, path string, body any, convert func(R) (T, error), headers ...Header) (T, error) {
	resp, err := exec.Execute(ctx, Request{Verb: verb, Path: path, Body: body, Headers: headers})
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeInto(resp, convert)
}

// joinPath escapes each segment and joins them with '/'.
func joinPath(segments ...string) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

func repoAPIPath(repo domain.RepoPath, rest ...string) string {
	return joinPath(append([]string{"repos", repo.Owner, repo.Name}, rest...)...)
}
