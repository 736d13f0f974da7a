// Package prompt asks the user for credentials and two-factor codes on a
// terminal.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/coding/coding-cli/internal/core/domain"
	"github.com/coding/coding-cli/internal/core/ports/driven"
)

// Ensure Terminal implements the interface.
var _ driven.Prompter = (*Terminal)(nil)

// Terminal prompts on an input/output pair. Secrets are read without
// echo when the input is a terminal.
type Terminal struct {
	mu     sync.Mutex
	reader *bufio.Reader
	out    io.Writer
	fd     int
	isTTY  bool
}

// NewTerminal creates a prompter on stdin and stderr.
func NewTerminal() *Terminal {
	return New(os.Stdin, os.Stderr)
}

// New creates a prompter reading from in and writing prompts to out.
func New(in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{reader: bufio.NewReader(in), out: out, fd: -1}
	if f, ok := in.(*os.File); ok {
		t.fd = int(f.Fd())
		t.isTTY = term.IsTerminal(t.fd)
	}
	return t
}

// PromptCredentials asks for a login and password, or a token when the
// rejected credentials were a token. An empty answer cancels.
func (t *Terminal) PromptCredentials(ctx context.Context, current *domain.AuthData) (*domain.AuthData, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, domain.ErrCanceled
	}

	host := domain.DefaultHost
	useProxy := true
	if current != nil {
		if current.Host() != "" {
			host = current.Host()
		}
		useProxy = current.UseProxy()
	}
	fmt.Fprintf(t.out, "Login to %s\n", host)

	if current != nil && current.Type() == domain.AuthTypeToken {
		token, err := t.readSecret("Token: ")
		if err != nil {
			return nil, err
		}
		if token == "" {
			return nil, domain.ErrCanceled
		}
		return domain.NewTokenAuth(host, token, useProxy), nil
	}

	login := ""
	if current != nil {
		login = current.Login()
	}
	if login != "" {
		fmt.Fprintf(t.out, "Login [%s]: ", login)
	} else {
		fmt.Fprint(t.out, "Login: ")
	}
	entered, err := t.readLine()
	if err != nil {
		return nil, err
	}
	if entered != "" {
		login = entered
	}
	if login == "" {
		return nil, domain.ErrCanceled
	}

	password, err := t.readSecret("Password: ")
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, domain.ErrCanceled
	}
	return domain.NewBasicAuth(host, login, password, useProxy), nil
}

// PromptStepUpCode asks for a two-factor authentication code.
func (t *Terminal) PromptStepUpCode(ctx context.Context, current *domain.AuthData) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", domain.ErrCanceled
	}
	if current != nil && current.Login() != "" {
		fmt.Fprintf(t.out, "Two-factor authentication is enabled for %s\n", current.Login())
	}
	fmt.Fprint(t.out, "Authentication code: ")
	code, err := t.readLine()
	if err != nil {
		return "", err
	}
	if code == "" {
		return "", domain.ErrCanceled
	}
	return code, nil
}

// readLine returns the next trimmed line. End of input counts as a
// cancellation.
func (t *Terminal) readLine() (string, error) {
	line, err := t.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", domain.ErrCanceled
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (t *Terminal) readSecret(label string) (string, error) {
	fmt.Fprint(t.out, label)
	if t.isTTY {
		secret, err := term.ReadPassword(t.fd)
		fmt.Fprintln(t.out)
		if err != nil {
			return "", fmt.Errorf("read secret: %w", err)
		}
		return strings.TrimSpace(string(secret)), nil
	}
	return t.readLine()
}
