package domain

import "slices"

// Authorization is a personal access token issued for the account.
type Authorization struct {
	ID      int64
	URL     string
	Token   string
	Note    string
	NoteURL string
	Scopes  []string
}

// HasScopes reports whether every required scope was granted.
func (a Authorization) HasScopes(required ...string) bool {
	for _, s := range required {
		if !slices.Contains(a.Scopes, s) {
			return false
		}
	}
	return true
}
