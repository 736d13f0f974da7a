package domain

import "time"

// Credentials is the persisted form of AuthData for one host.
// There is at most one Credentials record per host.
//
// Session ids and two-factor codes are never persisted; they only live
// for the duration of a process.
type Credentials struct {
	// ID is the unique identifier (UUID).
	ID string `json:"id"`
	// Host is the Coding.net host the credentials belong to.
	Host string `json:"host"`
	// AuthType selects which of the fields below are meaningful.
	AuthType AuthType `json:"auth_type"`

	// Login is the account name for basic authentication.
	Login string `json:"login,omitempty"`
	// Password is only stored when the user opted in.
	Password string `json:"password,omitempty"`
	// Token is the personal access token for token authentication.
	Token string `json:"token,omitempty"`

	// UseProxy routes requests through the environment proxy.
	UseProxy bool `json:"use_proxy"`

	// CreatedAt is when the credentials were created.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is when the credentials were last updated.
	UpdatedAt time.Time `json:"updated_at"`
}

// CredentialsFromAuth converts AuthData into its persisted form.
// The password is dropped unless savePassword is set.
func CredentialsFromAuth(auth *AuthData, savePassword bool) Credentials {
	c := Credentials{
		Host:     auth.Host(),
		AuthType: auth.Type(),
		UseProxy: auth.UseProxy(),
	}
	if basic, ok := auth.Basic(); ok {
		c.Login = basic.Login
		if savePassword {
			c.Password = basic.Password
		}
	}
	if tok, ok := auth.Token(); ok {
		c.Token = tok.Token
	}
	return c
}

// ToAuthData rebuilds AuthData from the persisted form.
func (c *Credentials) ToAuthData() *AuthData {
	switch c.AuthType {
	case AuthTypeBasic:
		return NewBasicAuth(c.Host, c.Login, c.Password, c.UseProxy)
	case AuthTypeToken:
		return NewTokenAuth(c.Host, c.Token, c.UseProxy)
	default:
		return NewAnonymousAuth(c.Host)
	}
}

// IsAuthenticated returns true if the credentials can be sent without prompting.
func (c *Credentials) IsAuthenticated() bool {
	switch c.AuthType {
	case AuthTypeBasic:
		return c.Login != "" && c.Password != ""
	case AuthTypeToken:
		return c.Token != ""
	default:
		return false
	}
}
