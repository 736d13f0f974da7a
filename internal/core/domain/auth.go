package domain

import (
	"fmt"
	"strings"
)

// DefaultHost is the Coding.net host used when none is configured.
const DefaultHost = "coding.net"

// AuthType identifies how requests are authenticated.
type AuthType string

// Supported authentication types.
const (
	// AuthTypeAnonymous sends no credentials.
	AuthTypeAnonymous AuthType = "anonymous"

	// AuthTypeBasic uses a login and password, optionally with a session
	// id and a two-factor code.
	AuthTypeBasic AuthType = "basic"

	// AuthTypeToken uses a personal access token.
	AuthTypeToken AuthType = "token"
)

// IsValid returns true if the auth type is recognised.
func (t AuthType) IsValid() bool {
	switch t {
	case AuthTypeAnonymous, AuthTypeBasic, AuthTypeToken:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t AuthType) String() string {
	return string(t)
}

// BasicAuth holds login/password credentials.
type BasicAuth struct {
	Login      string
	Password   string
	SessionID  string
	StepUpCode string
}

// TokenAuth holds a personal access token.
type TokenAuth struct {
	Token string
}

// AuthData is an immutable credential bundle for one host.
// Values are compared by pointer identity; every change produces a new value.
type AuthData struct {
	authType AuthType
	host     string
	basic    *BasicAuth
	token    *TokenAuth
	useProxy bool
}

// NewAnonymousAuth creates credentials that send nothing.
func NewAnonymousAuth(host string) *AuthData {
	return &AuthData{authType: AuthTypeAnonymous, host: host, useProxy: true}
}

// NewBasicAuth creates login/password credentials.
func NewBasicAuth(host, login, password string, useProxy bool) *AuthData {
	return &AuthData{
		authType: AuthTypeBasic,
		host:     host,
		basic:    &BasicAuth{Login: login, Password: password},
		useProxy: useProxy,
	}
}

// NewTokenAuth creates token credentials. Surrounding whitespace is trimmed.
func NewTokenAuth(host, token string, useProxy bool) *AuthData {
	return &AuthData{
		authType: AuthTypeToken,
		host:     host,
		token:    &TokenAuth{Token: strings.TrimSpace(token)},
		useProxy: useProxy,
	}
}

// Type returns the authentication type.
func (a *AuthData) Type() AuthType {
	return a.authType
}

// Host returns the configured host as entered by the user.
func (a *AuthData) Host() string {
	return a.host
}

// UseProxy reports whether the environment proxy should be honoured.
func (a *AuthData) UseProxy() bool {
	return a.useProxy
}

// Basic returns a copy of the login/password part.
// The second value is false for non-basic credentials.
func (a *AuthData) Basic() (BasicAuth, bool) {
	if a.basic == nil {
		return BasicAuth{}, false
	}
	return *a.basic, true
}

// Token returns a copy of the token part.
// The second value is false for non-token credentials.
func (a *AuthData) Token() (TokenAuth, bool) {
	if a.token == nil {
		return TokenAuth{}, false
	}
	return *a.token, true
}

// Login returns the login for basic credentials, or empty.
func (a *AuthData) Login() string {
	if a.basic == nil {
		return ""
	}
	return a.basic.Login
}

// SessionID returns the server session id attached to basic credentials.
func (a *AuthData) SessionID() string {
	if a.basic == nil {
		return ""
	}
	return a.basic.SessionID
}

// StepUpCode returns the two-factor code attached to basic credentials.
func (a *AuthData) StepUpCode() string {
	if a.basic == nil {
		return ""
	}
	return a.basic.StepUpCode
}

// WithHost returns a copy bound to another host.
func (a *AuthData) WithHost(host string) *AuthData {
	c := a.clone()
	c.host = host
	return c
}

// WithSessionID returns a copy carrying the given session id.
// Non-basic credentials are returned unchanged.
func (a *AuthData) WithSessionID(sessionID string) *AuthData {
	if a.basic == nil || a.basic.SessionID == sessionID {
		return a
	}
	c := a.clone()
	c.basic.SessionID = sessionID
	return c
}

// CopyWithStepUpCode returns a copy carrying the two-factor code.
func (a *AuthData) CopyWithStepUpCode(code string) (*AuthData, error) {
	if a.basic == nil {
		return nil, ErrStepUpUnsupported
	}
	c := a.clone()
	c.basic.StepUpCode = code
	return c, nil
}

// Masked returns a loggable description with secrets hidden.
func (a *AuthData) Masked() string {
	switch a.authType {
	case AuthTypeBasic:
		return fmt.Sprintf("basic(%s@%s, password=%s, session=%t, code=%t)",
			a.basic.Login, a.host, MaskSecret(a.basic.Password),
			a.basic.SessionID != "", a.basic.StepUpCode != "")
	case AuthTypeToken:
		return fmt.Sprintf("token(%s, %s)", a.host, MaskSecret(a.token.Token))
	default:
		return fmt.Sprintf("anonymous(%s)", a.host)
	}
}

func (a *AuthData) clone() *AuthData {
	c := *a
	if a.basic != nil {
		b := *a.basic
		c.basic = &b
	}
	if a.token != nil {
		t := *a.token
		c.token = &t
	}
	return &c
}

// MaskSecret hides all but the last four characters of a secret.
func MaskSecret(secret string) string {
	if secret == "" {
		return "(empty)"
	}
	if len(secret) <= 8 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}
