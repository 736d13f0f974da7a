package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coding/coding-cli/internal/connectors/codingnet"
	"github.com/coding/coding-cli/internal/core/domain"
	"github.com/coding/coding-cli/internal/logger"
)

// session is the runner and settings a command works with.
type session struct {
	settings domain.Settings
	runner   *codingnet.Runner
}

// saverFunc adapts a function to codingnet.AuthSaver.
type saverFunc func(ctx context.Context, auth *domain.AuthData) error

func (f saverFunc) SaveAuth(ctx context.Context, auth *domain.AuthData) error { return f(ctx, auth) }

// currentHost returns the --host flag or the configured host.
func currentHost(settings domain.Settings) string {
	if hostFlag != "" {
		return hostFlag
	}
	return settings.HostOrDefault()
}

// openSession loads settings and stored credentials and builds a runner.
// A non-nil auth replaces the stored credentials.
func openSession(ctx context.Context, auth *domain.AuthData) (*session, error) {
	if settingsService == nil {
		return nil, errors.New("settings service not configured")
	}
	if credentialsService == nil {
		return nil, errors.New("credentials service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	if auth == nil {
		auth, err = credentialsService.Load(ctx, currentHost(settings))
		if err != nil {
			return nil, fmt.Errorf("failed to load credentials: %w", err)
		}
	}
	logger.Debug("using %s", auth.Masked())

	log := logger.New("coding")
	runner := codingnet.NewRunner(codingnet.NewAuthHolder(auth), codingnet.RunnerConfig{
		Connection:  connectionConfig(settings),
		MaxAttempts: settings.MaxAttempts,
		Prompter:    prompter,
		Saver: saverFunc(func(ctx context.Context, auth *domain.AuthData) error {
			return credentialsService.Save(ctx, auth, settings.SavePassword)
		}),
		Validate: credentialsService.Validate,
		Logger:   log,
	})
	return &session{settings: settings, runner: runner}, nil
}

func connectionConfig(settings domain.Settings) codingnet.ConnectionConfig {
	return codingnet.ConnectionConfig{
		Timeout:           settings.Timeout(),
		RequestsPerSecond: settings.RequestsPerSecond,
		Logger:            logger.New("coding"),
		Transport:         transport,
	}
}

// runTask opens a session with the stored credentials and runs task.
func runTask[T any](cmd *cobra.Command, task codingnet.Task[T]) (T, error) {
	ctx := commandContext(cmd)
	s, err := openSession(ctx, nil)
	if err != nil {
		var zero T
		return zero, err
	}
	return codingnet.RunTask(ctx, s.runner, indicator, task)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// repoArg parses an "owner/name" argument.
func repoArg(arg string) (domain.RepoPath, error) {
	repo, err := domain.ParseRepoPath(arg)
	if err != nil {
		return domain.RepoPath{}, fmt.Errorf("invalid repository %q, expected owner/name", arg)
	}
	return repo, nil
}

// runBasicTask is runTask for operations that need login and password.
func runBasicTask[T any](cmd *cobra.Command, task codingnet.Task[T]) (T, *session, error) {
	ctx := commandContext(cmd)
	s, err := openSession(ctx, nil)
	if err != nil {
		var zero T
		return zero, nil, err
	}
	result, err := codingnet.RunTaskWithBasicAuth(ctx, s.runner, indicator, task)
	return result, s, err
}
