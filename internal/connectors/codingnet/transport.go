package codingnet

import (
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"github.com/coding/coding-cli/internal/core/domain"
)

const (
	// SessionCookie is the name of the Coding.net session cookie.
	SessionCookie = "sid"

	// HeaderOTP replays the session id on every request of a basic-auth
	// connection, as the web login flow expects.
	HeaderOTP = "X-GitHub-OTP"

	// TokenType is the Authorization scheme used for personal access tokens.
	TokenType = "token"
)

// basicAuthTransport sends preemptive basic credentials.
type basicAuthTransport struct {
	login    string
	password string
	base     http.RoundTripper
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.SetBasicAuth(t.login, t.password)
	return t.base.RoundTrip(r)
}

// headerTransport adds default headers the request does not set itself.
type headerTransport struct {
	headers http.Header
	base    http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	for k, vs := range t.headers {
		if r.Header.Get(k) == "" {
			r.Header[k] = vs
		}
	}
	return t.base.RoundTrip(r)
}

// newBaseTransport builds the network transport. One timeout bounds
// dialing, the TLS handshake and waiting for response headers.
func newBaseTransport(timeout time.Duration, useProxy bool) *http.Transport {
	t := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          10,
		ForceAttemptHTTP2:     true,
	}
	if useProxy {
		t.Proxy = http.ProxyFromEnvironment
	}
	return t
}

// authTransport wraps base with the credentials of auth.
func authTransport(auth *domain.AuthData, base http.RoundTripper) http.RoundTripper {
	if basic, ok := auth.Basic(); ok {
		var rt http.RoundTripper = &basicAuthTransport{
			login:    basic.Login,
			password: basic.Password,
			base:     base,
		}
		if basic.SessionID != "" {
			rt = &headerTransport{
				headers: http.Header{HeaderOTP: []string{basic.SessionID}},
				base:    rt,
			}
		}
		return rt
	}
	if tok, ok := auth.Token(); ok && tok.Token != "" {
		return &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: tok.Token,
				TokenType:   TokenType,
			}),
			Base: base,
		}
	}
	return base
}

// newSessionJar returns a cookie jar seeded with the session id, if any.
func newSessionJar(apiURL *url.URL, sessionID string) (http.CookieJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if sessionID != "" {
		jar.SetCookies(apiURL, []*http.Cookie{{
			Name:  SessionCookie,
			Value: sessionID,
			Path:  "/",
		}})
	}
	return jar, nil
}
