package driven

import (
	"context"

	"github.com/coding/coding-cli/internal/core/domain"
)

// Prompter asks the user for replacement credentials.
// Implementations return domain.ErrCanceled when the user gives up.
type Prompter interface {
	// PromptCredentials asks for new credentials. current is the value that
	// was rejected and may be used to prefill the host and login.
	PromptCredentials(ctx context.Context, current *domain.AuthData) (*domain.AuthData, error)

	// PromptStepUpCode asks for a two-factor code for the given credentials.
	PromptStepUpCode(ctx context.Context, current *domain.AuthData) (string, error)
}

// ProgressIndicator reports whether the user asked to stop the running task.
type ProgressIndicator interface {
	IsCanceled() bool
}
