package codingnet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/coding/coding-cli/internal/core/domain"
	"github.com/coding/coding-cli/internal/core/ports/driven"
)

const (
	// DefaultPollDelay is the wait before the first cancellation check.
	DefaultPollDelay = time.Second

	// DefaultPollInterval is the wait between later cancellation checks.
	DefaultPollInterval = 300 * time.Millisecond
)

// Task is work run against an authenticated connection.
type Task[T any] func(ctx context.Context, conn *Connection) (T, error)

// AuthSaver persists credentials the user entered at a prompt.
type AuthSaver interface {
	SaveAuth(ctx context.Context, auth *domain.AuthData) error
}

// RunnerConfig configures a Runner.
type RunnerConfig struct {
	// Connection is the template for per-attempt connections.
	Connection ConnectionConfig

	MaxAttempts int
	Prompter    driven.Prompter
	Saver       AuthSaver

	// Validate checks credentials locally before CheckAuth contacts the server.
	Validate func(*domain.AuthData) error

	Logger       hclog.Logger
	PollDelay    time.Duration
	PollInterval time.Duration
}

// Runner runs tasks and recovers from refused credentials by prompting
// for new ones and retrying.
type Runner struct {
	holder *AuthHolder
	cfg    RunnerConfig
	logger hclog.Logger
}

// NewRunner creates a runner around holder.
func NewRunner(holder *AuthHolder, cfg RunnerConfig) *Runner {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = domain.DefaultMaxAttempts
	}
	if cfg.PollDelay <= 0 {
		cfg.PollDelay = DefaultPollDelay
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}
	if cfg.Connection.Logger == nil {
		cfg.Connection.Logger = cfg.Logger
	}
	cfg.Connection.Reusable = true

	return &Runner{
		holder: holder,
		cfg:    cfg,
		logger: cfg.Logger.Named("runner"),
	}
}

// Holder returns the shared credentials.
func (r *Runner) Holder() *AuthHolder { return r.holder }

// RunTask runs task with the held credentials. Every attempt first logs
// in so that refused credentials surface before the task has side
// effects. Step-up requests prompt for a two-factor code, other refusals
// prompt for new credentials; both retry up to the attempt budget.
func RunTask[T any](ctx context.Context, r *Runner, indicator driven.ProgressIndicator, task Task[T]) (T, error) {
	return run(ctx, r, indicator, true, task)
}

// RunTaskWithBasicAuth runs task without the login pre-flight. The held
// credentials must be login and password.
func RunTaskWithBasicAuth[T any](ctx context.Context, r *Runner, indicator driven.ProgressIndicator, task Task[T]) (T, error) {
	return run[T](ctx, r, indicator, false, func(ctx context.Context, conn *Connection) (T, error) {
		if conn.Auth().Type() != domain.AuthTypeBasic {
			var zero T
			return zero, &AuthError{Kind: KindNotAuthenticated, Message: "expected basic authentication"}
		}
		return task(ctx, conn)
	})
}

// CheckAuth validates the held credentials and logs in with them. A
// pending two-factor request is not an error: it yields an empty user.
func (r *Runner) CheckAuth(ctx context.Context, indicator driven.ProgressIndicator) (domain.UserDetailed, error) {
	auth := r.holder.Get()
	if r.cfg.Validate != nil {
		if err := r.cfg.Validate(auth); err != nil {
			return domain.UserDetailed{}, &AuthError{Kind: KindNotAuthenticated, Message: err.Error()}
		}
	}

	user, _, err := attempt[domain.UserDetailed](ctx, r, indicator, auth, false, func(ctx context.Context, conn *Connection) (domain.UserDetailed, error) {
		u, _, err := GetCurrentUserDetailed(ctx, conn, auth)
		return u, err
	})
	if IsStepUp(err) {
		return domain.UserDetailed{}, nil
	}
	return user, err
}

// Login logs in with the held credentials, prompting and retrying like
// RunTask, and keeps the session the server issues.
func (r *Runner) Login(ctx context.Context, indicator driven.ProgressIndicator) (domain.UserDetailed, error) {
	return run[domain.UserDetailed](ctx, r, indicator, false, func(ctx context.Context, conn *Connection) (domain.UserDetailed, error) {
		auth := conn.Auth()
		user, sid, err := GetCurrentUserDetailed(ctx, conn, auth)
		if err != nil {
			return domain.UserDetailed{}, err
		}
		r.keepSession(auth, sid)
		return user, nil
	})
}

func run[T any](ctx context.Context, r *Runner, indicator driven.ProgressIndicator, preflight bool, task Task[T]) (T, error) {
	var zero T
	var lastErr error

	for n := 1; n <= r.cfg.MaxAttempts; n++ {
		if err := ctx.Err(); err != nil {
			return zero, &CanceledError{Reason: "task canceled", Err: err}
		}

		result, auth, err := attempt(ctx, r, indicator, r.holder.Get(), preflight, task)
		if err == nil {
			return result, nil
		}
		lastErr = err

		switch {
		case IsCanceled(err):
			return zero, err
		case IsStepUp(err):
			r.logger.Debug("two factor code required", "attempt", n)
			if err := r.refreshStepUp(ctx, auth, err); err != nil {
				return zero, err
			}
		case IsAuthentication(err):
			r.logger.Debug("credentials refused", "attempt", n, "error", err)
			if err := r.refreshCredentials(ctx, auth); err != nil {
				return zero, err
			}
		default:
			return zero, err
		}
	}

	return zero, fmt.Errorf("%w after %d attempts: %w", domain.ErrRetriesExhausted, r.cfg.MaxAttempts, lastErr)
}

// attempt runs task on a fresh connection while watching for cancellation.
// It also returns the credentials the attempt ended up holding, which is
// the value a failed attempt must be refreshed from.
func attempt[T any](ctx context.Context, r *Runner, indicator driven.ProgressIndicator, auth *domain.AuthData, preflight bool, task Task[T]) (T, *domain.AuthData, error) {
	var zero T

	conn, err := NewConnection(auth, r.cfg.Connection)
	if err != nil {
		return zero, auth, err
	}
	defer func() { _ = conn.Close() }()

	stop := r.watch(ctx, indicator, conn)
	defer stop()

	if preflight {
		_, sid, err := GetCurrentUserDetailed(ctx, conn, auth)
		if err != nil {
			return zero, auth, err
		}
		auth = r.keepSession(auth, sid)
	}

	result, err := task(ctx, conn)
	return result, auth, err
}

// keepSession stores a new session id in the holder and returns the value
// now held for this attempt. If another task replaced the credentials
// first, auth is returned unchanged. The running task keeps its connection.
func (r *Runner) keepSession(auth *domain.AuthData, sid string) *domain.AuthData {
	if sid == "" || sid == auth.SessionID() || auth.Type() != domain.AuthTypeBasic {
		return auth
	}
	next := auth.WithSessionID(sid)
	installed := false
	_ = r.holder.Transaction(auth, func() (*domain.AuthData, error) {
		installed = true
		return next, nil
	})
	if !installed {
		return auth
	}
	return next
}

// watch aborts conn once the indicator reports cancellation or ctx ends.
// The returned func stops watching and must be called.
func (r *Runner) watch(ctx context.Context, indicator driven.ProgressIndicator, conn *Connection) func() {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		timer := time.NewTimer(r.cfg.PollDelay)
		defer timer.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				conn.Abort()
				return
			case <-timer.C:
				if indicator != nil && indicator.IsCanceled() {
					r.logger.Debug("task canceled by user")
					conn.Abort()
					return
				}
				timer.Reset(r.cfg.PollInterval)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
		})
	}
}

func (r *Runner) refreshStepUp(ctx context.Context, failed *domain.AuthData, cause error) error {
	var authErr *AuthError
	_ = errors.As(cause, &authErr)

	return r.holder.Transaction(failed, func() (*domain.AuthData, error) {
		if failed.Type() != domain.AuthTypeBasic {
			return nil, &CanceledError{
				Reason: "two factor authentication can be used only with login and password",
				Err:    domain.ErrStepUpUnsupported,
			}
		}

		code, err := r.promptStepUpCode(ctx, failed)
		if err != nil {
			return nil, err
		}

		base := failed
		if authErr != nil && authErr.SessionID != "" {
			base = base.WithSessionID(authErr.SessionID)
		}
		return base.CopyWithStepUpCode(code)
	})
}

func (r *Runner) promptStepUpCode(ctx context.Context, current *domain.AuthData) (string, error) {
	const reason = "can't get two factor authentication code"
	if r.cfg.Prompter == nil {
		return "", &CanceledError{Reason: reason}
	}
	code, err := r.cfg.Prompter.PromptStepUpCode(ctx, current)
	if err != nil {
		if errors.Is(err, domain.ErrCanceled) {
			return "", &CanceledError{Reason: reason, Err: err}
		}
		return "", err
	}
	if code = strings.TrimSpace(code); code == "" {
		return "", &CanceledError{Reason: reason}
	}
	return code, nil
}

func (r *Runner) refreshCredentials(ctx context.Context, failed *domain.AuthData) error {
	const reason = "can't get valid credentials"

	return r.holder.Transaction(failed, func() (*domain.AuthData, error) {
		if r.cfg.Prompter == nil {
			return nil, &CanceledError{Reason: reason}
		}
		next, err := r.cfg.Prompter.PromptCredentials(ctx, failed)
		if err != nil {
			if errors.Is(err, domain.ErrCanceled) {
				return nil, &CanceledError{Reason: reason, Err: err}
			}
			return nil, err
		}
		if next == nil {
			return nil, &CanceledError{Reason: reason}
		}

		if r.cfg.Saver != nil {
			if err := r.cfg.Saver.SaveAuth(ctx, next); err != nil {
				r.logger.Warn("could not save credentials", "host", next.Host(), "error", err)
			}
		}
		return next, nil
	})
}
