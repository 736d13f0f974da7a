package codingnet

import (
	"sync"

	"github.com/tidwall/gjson"
)

// Application status codes carried in the "code" field of response bodies.
const (
	CodeSuccess              = 0
	CodeBadPassword          = 1
	CodeNeedVerificationCode = 903
	CodeNotLoggedIn          = 1000
	CodeUnknownUser          = 1001
	CodeUserLocked           = 1009
	CodeRequestTooFrequent   = 1018
	CodeNeedTwoFactorCode    = 3204
	CodeTwoFactorRequired    = 3205
	CodeAuthError            = 3207
	CodeLoginExpired         = 3209
)

// StatusCode describes one application status code and where its
// human-readable message lives in the body.
type StatusCode struct {
	Code         int
	Name         string
	Kind         Kind
	MessageField string // gjson path, e.g. "msg.j_captcha"
}

// Message extracts the status message from a response body.
// Falls back to the code name when the field is absent.
func (sc StatusCode) Message(body []byte) string {
	if sc.MessageField != "" {
		if res := gjson.GetBytes(body, sc.MessageField); res.Exists() {
			if res.Type == gjson.String {
				return res.String()
			}
			return res.Raw
		}
	}
	return sc.Name
}

// Taxonomy maps application status codes to kinds.
type Taxonomy struct {
	mu      sync.RWMutex
	entries map[int]StatusCode
}

// NewTaxonomy creates a taxonomy holding the given entries.
func NewTaxonomy(entries ...StatusCode) *Taxonomy {
	t := &Taxonomy{entries: make(map[int]StatusCode, len(entries))}
	for _, e := range entries {
		t.entries[e.Code] = e
	}
	return t
}

// DefaultTaxonomy returns a taxonomy with the known Coding.net codes.
func DefaultTaxonomy() *Taxonomy {
	return NewTaxonomy(
		StatusCode{CodeBadPassword, "USER_PASSWORD_NO_CORRECT", KindBadPassword, "msg.password"},
		StatusCode{CodeNeedVerificationCode, "NEED_VERIFICATION_CODE", KindNotAuthenticated, "msg.j_captcha"},
		StatusCode{CodeNotLoggedIn, "NO_LOGIN", KindNotAuthenticated, "msg.user_not_login"},
		StatusCode{CodeUnknownUser, "NO_EXIST_USER", KindUnknownUser, "msg.account"},
		StatusCode{CodeUserLocked, "USER_LOCKED", KindLocked, "msg.account"},
		StatusCode{CodeRequestTooFrequent, "REQUEST_TOO_FREQUENT", KindRateLimited, "msg.request_too_frequent"},
		StatusCode{CodeNeedTwoFactorCode, "NEED_TWO_FACTOR_AUTH_CODE", KindStepUpRequired, "msg.two_factor_auth_code"},
		StatusCode{CodeTwoFactorRequired, "TWO_FACTOR_AUTH_CODE_REQUIRED", KindStepUpRequired, "msg.two_factor_auth_code"},
		StatusCode{CodeAuthError, "AUTH_ERROR", KindSessionExpired, "msg.auth_error"},
		StatusCode{CodeLoginExpired, "LOGIN_EXPIRED", KindSessionExpired, "msg.login_expired"},
	)
}

// Register adds or replaces an entry.
func (t *Taxonomy) Register(sc StatusCode) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[sc.Code] = sc
}

// Lookup returns the entry for code. Unknown codes are Generic.
func (t *Taxonomy) Lookup(code int) StatusCode {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if sc, ok := t.entries[code]; ok {
		return sc
	}
	return StatusCode{Code: code, Name: "UNKNOWN", Kind: KindGeneric}
}

// Classify inspects the "code" field of a JSON object body.
// It returns nil for success, a missing code, or a step-up code when
// allowStepUp is set; otherwise a typed error.
func (t *Taxonomy) Classify(body []byte, allowStepUp bool) error {
	res := gjson.GetBytes(body, "code")
	if !res.Exists() || res.Type != gjson.Number {
		return nil
	}
	code := int(res.Int())
	if code == CodeSuccess {
		return nil
	}

	sc := t.Lookup(code)
	msg := sc.Message(body)
	switch sc.Kind {
	case KindStepUpRequired:
		if allowStepUp {
			return nil
		}
		return &AuthError{Kind: sc.Kind, Code: code, Message: msg}
	case KindRateLimited:
		return &RateLimitError{Code: code, Message: msg}
	case KindGeneric:
		// Unmapped codes carry no message; callers show the code instead.
		return &AuthError{Kind: sc.Kind, Code: code}
	default:
		return &AuthError{Kind: sc.Kind, Code: code, Message: msg}
	}
}

// BodyCode returns the application status code of a body, if any.
func BodyCode(body []byte) (int, bool) {
	res := gjson.GetBytes(body, "code")
	if !res.Exists() || res.Type != gjson.Number {
		return 0, false
	}
	return int(res.Int()), true
}

// firstMessage returns the first entry of a "msg" object, or "msg" itself
// when it is a plain string.
func firstMessage(body []byte) string {
	m := gjson.GetBytes(body, "msg")
	switch {
	case m.IsObject():
		var out string
		m.ForEach(func(_, v gjson.Result) bool {
			out = v.String()
			return false
		})
		return out
	case m.Type == gjson.String:
		return m.String()
	default:
		return ""
	}
}
