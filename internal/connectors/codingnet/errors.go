package codingnet

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/coding/coding-cli/internal/core/domain"
)

// Kind classifies why the server refused a request.
type Kind int

// Known kinds.
const (
	KindGeneric Kind = iota
	KindNotAuthenticated
	KindUnknownUser
	KindRateLimited
	KindLocked
	KindBadPassword
	KindStepUpRequired
	KindSessionExpired
)

var kindNames = map[Kind]string{
	KindGeneric:          "generic",
	KindNotAuthenticated: "not authenticated",
	KindUnknownUser:      "unknown user",
	KindRateLimited:      "rate limited",
	KindLocked:           "account locked",
	KindBadPassword:      "bad password",
	KindStepUpRequired:   "two factor code required",
	KindSessionExpired:   "session expired",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsStepUp reports whether the kind is answered with a two-factor code
// rather than new credentials.
func (k Kind) IsStepUp() bool {
	return k == KindStepUpRequired || k == KindSessionExpired
}

// AuthError reports credentials the server refused, either through an
// HTTP status (401/402/403) or an application status code.
type AuthError struct {
	Kind    Kind
	Code    int // application status code, 0 for HTTP failures
	Status  int // HTTP status, 0 for application codes
	Message string

	// SessionID is the session captured with a step-up response. It must
	// accompany the two-factor code on the next attempt.
	SessionID string
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return "coding: " + e.Message
	}
	if e.Code != 0 {
		return fmt.Sprintf("coding: %s (code %d)", e.Kind, e.Code)
	}
	return fmt.Sprintf("coding: %s", e.Kind)
}

func (e *AuthError) Unwrap() error {
	if e.Kind.IsStepUp() {
		return domain.ErrStepUpRequired
	}
	return domain.ErrNotAuthenticated
}

// RateLimitError represents a rate limit exceeded error with reset time.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int

	Code    int
	Message string
}

func (e *RateLimitError) Error() string {
	if e.Message != "" {
		return "coding: rate limited: " + e.Message
	}
	if e.ResetAt.IsZero() {
		return "coding: rate limit exceeded"
	}
	return fmt.Sprintf("coding: rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

func (e *RateLimitError) Unwrap() error {
	return domain.ErrRateLimited
}

// ErrorDetail is one entry of the "errors" array of an error body.
type ErrorDetail struct {
	Resource string `json:"resource"`
	Field    string `json:"field"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// ErrorMessage is the parsed body of a failed request.
type ErrorMessage struct {
	Message string        `json:"message"`
	Errors  []ErrorDetail `json:"errors"`
}

// ContainsErrorCode reports whether any detail carries code.
func (m *ErrorMessage) ContainsErrorCode(code string) bool {
	if m == nil {
		return false
	}
	for _, d := range m.Errors {
		if d.Code == code {
			return true
		}
	}
	return false
}

// Presentable joins the message and its details for display.
func (m *ErrorMessage) Presentable() string {
	if m == nil {
		return ""
	}
	s := m.Message
	for _, d := range m.Errors {
		switch {
		case d.Message != "":
			s += "\n" + d.Message
		case d.Field != "":
			s += fmt.Sprintf("\n%s %s: %s", d.Resource, d.Field, d.Code)
		case d.Code != "":
			s += "\n" + d.Code
		}
	}
	return s
}

// StatusCodeError represents a request that failed with an unexpected HTTP status.
type StatusCodeError struct {
	StatusCode int
	Reason     string
	Body       *ErrorMessage
	URL        string
}

func (e *StatusCodeError) Error() string {
	msg := e.Reason
	if e.Body != nil && e.Body.Message != "" {
		msg += " - " + e.Body.Message
	}
	return fmt.Sprintf("coding: request failed with %d %s (URL: %s)", e.StatusCode, msg, e.URL)
}

// Is lets errors.Is(err, domain.ErrNotFound) match 404 responses.
func (e *StatusCodeError) Is(target error) bool {
	return target == domain.ErrNotFound && e.StatusCode == http.StatusNotFound
}

// CanceledError reports a request abandoned by an abort or an untrusted host.
type CanceledError struct {
	Reason string
	Err    error
}

func (e *CanceledError) Error() string {
	return "coding: canceled: " + e.Reason
}

func (e *CanceledError) Unwrap() []error {
	if e.Err == nil {
		return []error{domain.ErrCanceled}
	}
	return []error{domain.ErrCanceled, e.Err}
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		return true
	}
	var statusErr *StatusCodeError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusTooManyRequests
}

// IsAuthentication checks if the error means the credentials were refused.
func IsAuthentication(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// IsStepUp checks if the error asks for a two-factor code.
func IsStepUp(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr) && authErr.Kind.IsStepUp()
}

// IsForbidden checks if the error is an HTTP 403.
func IsForbidden(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr) && authErr.Status == http.StatusForbidden
}

// IsStatusCode checks if the error is an unexpected HTTP status.
func IsStatusCode(err error) bool {
	var statusErr *StatusCodeError
	return errors.As(err, &statusErr)
}

// IsCanceled checks if the operation was canceled.
func IsCanceled(err error) bool {
	return errors.Is(err, domain.ErrCanceled)
}

// UserMessage turns an error into text suitable for showing to a user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "Unknown host: " + dnsErr.Name
	}
	var statusErr *StatusCodeError
	if errors.As(err, &statusErr) && statusErr.Body != nil && statusErr.Body.Message != "" {
		return statusErr.Body.Presentable()
	}
	var authErr *AuthError
	if errors.As(err, &authErr) && authErr.Message != "" {
		return authErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Unknown error"
}
