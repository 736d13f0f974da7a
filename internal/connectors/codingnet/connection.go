package codingnet

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/tidwall/gjson"

	"github.com/coding/coding-cli/internal/core/domain"
)

// Verb is an HTTP method supported by Connection.
type Verb string

// Supported verbs.
const (
	VerbGet    Verb = http.MethodGet
	VerbHead   Verb = http.MethodHead
	VerbPost   Verb = http.MethodPost
	VerbPatch  Verb = http.MethodPatch
	VerbDelete Verb = http.MethodDelete
)

// Header is a single request header.
type Header struct {
	Name  string
	Value string
}

// Common headers.
var (
	AcceptJSON         = Header{Name: "Accept", Value: "application/json"}
	AcceptHTMLBody     = Header{Name: "Accept", Value: "application/vnd.github.html+json"}
	AcceptRawDiff      = Header{Name: "Accept", Value: "application/vnd.github.v3.diff"}
	AcceptRawPatch     = Header{Name: "Accept", Value: "application/vnd.github.v3.patch"}
	AcceptMergePreview = Header{Name: "Accept", Value: "application/vnd.github.polaris-preview+json"}
)

// DefaultUserAgent identifies the client to the server.
const DefaultUserAgent = "coding-cli"

// Request describes one API call.
type Request struct {
	Verb Verb
	// Path is relative to the API URL; an absolute URL is used as is.
	Path    string
	Body    any
	Headers []Header

	// AllowStepUp returns step-up status codes in the response instead of
	// failing. Only the login flow sets it.
	AllowStepUp bool
}

// Response is a completed call.
type Response struct {
	StatusCode int
	// Body is nil when the server sent nothing or a JSON null.
	Body   []byte
	Next   string
	Header http.Header
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	if r == nil || r.Body == nil {
		return fmt.Errorf("%w: empty response", domain.ErrMalformedResponse)
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return nil
}

// Code returns the application status code of the body, if any.
func (r *Response) Code() (int, bool) {
	if r == nil || r.Body == nil {
		return 0, false
	}
	return BodyCode(r.Body)
}

// SessionCookie returns the session id the server set on this response.
func (r *Response) SessionCookie() (string, bool) {
	if r == nil {
		return "", false
	}
	for _, c := range (&http.Response{Header: r.Header}).Cookies() {
		if c.Name == SessionCookie && c.Value != "" {
			return c.Value, true
		}
	}
	return "", false
}

// ConnectionConfig holds Connection options.
type ConnectionConfig struct {
	// Reusable connections serve many calls; others close after one.
	Reusable bool

	// Timeout bounds connecting and waiting for a response.
	Timeout time.Duration

	UserAgent         string
	RequestsPerSecond float64
	Taxonomy          *Taxonomy
	Logger            hclog.Logger

	// Transport replaces the network transport, mainly for tests.
	Transport http.RoundTripper
}

// Connection executes API calls with one set of credentials.
type Connection struct {
	auth     *domain.AuthData
	apiURL   string
	client   *http.Client
	reusable bool
	taxonomy *Taxonomy
	limiter  *RateLimiter
	logger   hclog.Logger

	mu       sync.Mutex
	inflight context.CancelFunc
	used     bool
	closed   bool
	aborted  bool
}

// NewConnection creates a connection for auth.
func NewConnection(auth *domain.AuthData, cfg ConnectionConfig) (*Connection, error) {
	if auth == nil {
		return nil, fmt.Errorf("%w: nil auth", domain.ErrInvalidInput)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = domain.DefaultTimeoutMillis * time.Millisecond
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Taxonomy == nil {
		cfg.Taxonomy = DefaultTaxonomy()
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}

	apiURL := APIURL(auth.Host())
	parsed, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("%w: host %q: %v", domain.ErrInvalidInput, auth.Host(), err)
	}

	base := cfg.Transport
	if base == nil {
		base = newBaseTransport(cfg.Timeout, auth.UseProxy())
	}
	rt := &headerTransport{
		headers: http.Header{"User-Agent": []string{cfg.UserAgent}},
		base:    authTransport(auth, base),
	}

	jar, err := newSessionJar(parsed, auth.SessionID())
	if err != nil {
		return nil, err
	}

	return &Connection{
		auth:     auth,
		apiURL:   apiURL,
		client:   &http.Client{Transport: rt, Jar: jar},
		reusable: cfg.Reusable,
		taxonomy: cfg.Taxonomy,
		limiter:  NewRateLimiter(cfg.RequestsPerSecond),
		logger:   cfg.Logger.Named("connection"),
	}, nil
}

// Auth returns the credentials the connection was built with.
func (c *Connection) Auth() *domain.AuthData { return c.auth }

// APIURL returns the base URL requests are resolved against.
func (c *Connection) APIURL() string { return c.apiURL }

// Taxonomy returns the status codes the connection classifies bodies with.
func (c *Connection) Taxonomy() *Taxonomy { return c.taxonomy }

// RateLimiter exposes the quota reported by the server.
func (c *Connection) RateLimiter() *RateLimiter { return c.limiter }

// GetRequest performs a GET.
func (c *Connection) GetRequest(ctx context.Context, path string, headers ...Header) (*Response, error) {
	return c.Execute(ctx, Request{Verb: VerbGet, Path: path, Headers: headers})
}

// HeadRequest performs a HEAD and returns the response headers.
func (c *Connection) HeadRequest(ctx context.Context, path string, headers ...Header) (http.Header, error) {
	resp, err := c.Execute(ctx, Request{Verb: VerbHead, Path: path, Headers: headers})
	if err != nil {
		return nil, err
	}
	return resp.Header, nil
}

// PostRequest performs a POST with a JSON body.
func (c *Connection) PostRequest(ctx context.Context, path string, body any, headers ...Header) (*Response, error) {
	return c.Execute(ctx, Request{Verb: VerbPost, Path: path, Body: body, Headers: headers})
}

// PatchRequest performs a PATCH with a JSON body.
func (c *Connection) PatchRequest(ctx context.Context, path string, body any, headers ...Header) (*Response, error) {
	return c.Execute(ctx, Request{Verb: VerbPatch, Path: path, Body: body, Headers: headers})
}

// DeleteRequest performs a DELETE.
func (c *Connection) DeleteRequest(ctx context.Context, path string, headers ...Header) error {
	_, err := c.Execute(ctx, Request{Verb: VerbDelete, Path: path, Headers: headers})
	return err
}

// Execute performs a request and classifies the outcome.
func (c *Connection) Execute(ctx context.Context, r Request) (*Response, error) {
	ctx, done, err := c.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, c.translate(err)
	}

	target := c.resolve(r.Path)
	req, err := c.newRequest(ctx, r, target)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("request", "verb", r.Verb, "url", target)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, c.translate(err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.translate(err)
	}
	c.logger.Trace("response", "status", resp.StatusCode, "bytes", len(data))

	if err := c.checkStatus(resp, data, target); err != nil {
		return nil, err
	}

	out := &Response{StatusCode: resp.StatusCode, Header: resp.Header}
	if r.Verb != VerbHead {
		body := bytes.TrimSpace(data)
		if len(body) > 0 && !bytes.Equal(body, []byte("null")) {
			if !gjson.ValidBytes(body) {
				return nil, fmt.Errorf("%w: invalid JSON from %s", domain.ErrMalformedResponse, target)
			}
			out.Body = body
		}
	}

	if out.Body != nil {
		if err := c.taxonomy.Classify(out.Body, r.AllowStepUp); err != nil {
			var authErr *AuthError
			if errors.As(err, &authErr) && authErr.Kind.IsStepUp() {
				authErr.SessionID, _ = out.SessionCookie()
			}
			return nil, err
		}
	}

	next, err := NextLinkFromHeader(resp.Header)
	if err != nil {
		c.logger.Error("ignoring pagination header", "url", target, "error", err)
		next = ""
	}
	out.Next = next
	return out, nil
}

// Abort cancels the call in flight and fails every later one.
// Safe to call more than once and from any goroutine.
func (c *Connection) Abort() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.aborted {
		return
	}
	c.aborted = true
	if c.inflight != nil {
		c.inflight()
	}
}

// Aborted reports whether Abort was called.
func (c *Connection) Aborted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aborted
}

// Close releases idle network connections. Later calls fail with
// domain.ErrConnectionClosed.
func (c *Connection) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.client.CloseIdleConnections()
	return nil
}

func (c *Connection) begin(ctx context.Context) (context.Context, func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.aborted:
		return nil, nil, &CanceledError{Reason: "connection aborted"}
	case c.closed:
		return nil, nil, domain.ErrConnectionClosed
	case c.used && !c.reusable:
		return nil, nil, domain.ErrConnectionClosed
	}
	c.used = true

	ctx, cancel := context.WithCancel(ctx)
	c.inflight = cancel
	return ctx, func() {
		cancel()
		c.mu.Lock()
		c.inflight = nil
		c.mu.Unlock()
		if !c.reusable {
			_ = c.Close()
		}
	}, nil
}

func (c *Connection) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.apiURL + path
}

func (c *Connection) newRequest(ctx context.Context, r Request, target string) (*http.Request, error) {
	var body io.Reader
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("coding: encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, string(r.Verb), target, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	req.Header.Set(AcceptJSON.Name, AcceptJSON.Value)
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	for _, h := range r.Headers {
		req.Header.Set(h.Name, h.Value)
	}
	return req, nil
}

func (c *Connection) checkStatus(resp *http.Response, data []byte, target string) error {
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted, http.StatusNoContent:
		c.limiter.Observe(resp)
		return nil
	}

	if err := c.limiter.Check(resp); err != nil {
		return err
	}

	reason := statusReason(resp)
	errBody := parseErrorMessage(data)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusPaymentRequired, http.StatusForbidden:
		msg := "Request response: " + reason
		if errBody != nil && errBody.Message != "" {
			msg += " - " + errBody.Message
		}
		return &AuthError{Kind: KindNotAuthenticated, Status: resp.StatusCode, Message: msg}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		c.logger.Debug("request rejected", "status", resp.StatusCode, "body", string(data))
	}
	return &StatusCodeError{StatusCode: resp.StatusCode, Reason: reason, Body: errBody, URL: target}
}

// translate maps transport failures to the errors callers act on.
func (c *Connection) translate(err error) error {
	if c.Aborted() {
		return &CanceledError{Reason: "request aborted", Err: err}
	}

	var verifyErr *tls.CertificateVerificationError
	var authorityErr x509.UnknownAuthorityError
	var hostErr x509.HostnameError
	var invalidErr x509.CertificateInvalidError
	if errors.As(err, &verifyErr) || errors.As(err, &authorityErr) ||
		errors.As(err, &hostErr) || errors.As(err, &invalidErr) {
		return &CanceledError{Reason: "host SSL certificate is not trusted", Err: err}
	}

	if errors.Is(err, context.Canceled) {
		return &CanceledError{Reason: "request canceled", Err: err}
	}
	return fmt.Errorf("coding: request failed: %w", err)
}

func statusReason(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}

// parseErrorMessage reads an error body in either the REST shape
// ({"message", "errors"}) or the Coding.net shape ({"code", "msg"}).
func parseErrorMessage(data []byte) *ErrorMessage {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || !gjson.ValidBytes(data) {
		return nil
	}
	var msg ErrorMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		msg = ErrorMessage{}
	}
	if msg.Message == "" {
		msg.Message = firstMessage(data)
	}
	if msg.Message == "" && len(msg.Errors) == 0 {
		return nil
	}
	return &msg
}
