package domain

import "time"

// DefaultTimeoutMillis is the connect/read timeout used when none is configured.
const DefaultTimeoutMillis = 5000

// DefaultMaxAttempts bounds how often a task is retried after re-prompting.
const DefaultMaxAttempts = 5

// Settings holds user preferences persisted in the config file.
type Settings struct {
	// Host is the Coding.net host, e.g. "coding.net" or "http://git.local".
	Host string

	// Login is the last login used for basic authentication.
	Login string

	// AuthType is the preferred authentication type.
	AuthType AuthType

	// TimeoutMillis is the connect/read timeout in milliseconds.
	TimeoutMillis int

	// SavePassword controls whether passwords are written to the credentials store.
	SavePassword bool

	// UseProxy routes requests through the environment proxy.
	UseProxy bool

	// CloneUsingSSH prefers git@ URLs when printing clone addresses.
	CloneUsingSSH bool

	// PrivateGist, AnonymousGist and OpenInBrowserGist are gist defaults.
	PrivateGist       bool
	AnonymousGist     bool
	OpenInBrowserGist bool

	// MaxAttempts bounds credential re-prompting per task.
	MaxAttempts int

	// RequestsPerSecond enables proactive throttling when positive.
	RequestsPerSecond float64
}

// DefaultSettings returns settings with sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		Host:          DefaultHost,
		AuthType:      AuthTypeAnonymous,
		TimeoutMillis: DefaultTimeoutMillis,
		UseProxy:      true,
		MaxAttempts:   DefaultMaxAttempts,
	}
}

// Timeout returns the configured timeout as a duration.
func (s Settings) Timeout() time.Duration {
	if s.TimeoutMillis <= 0 {
		return DefaultTimeoutMillis * time.Millisecond
	}
	return time.Duration(s.TimeoutMillis) * time.Millisecond
}

// HostOrDefault returns the configured host, falling back to DefaultHost.
func (s Settings) HostOrDefault() string {
	if s.Host == "" {
		return DefaultHost
	}
	return s.Host
}
