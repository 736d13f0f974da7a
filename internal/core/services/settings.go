package services

import (
	"fmt"
	"sort"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-multierror"

	"github.com/coding/coding-cli/internal/core/domain"
	"github.com/coding/coding-cli/internal/core/ports/driven"
	"github.com/coding/coding-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyHost              = "api.host"
	keyTimeout           = "api.timeout_ms"
	keyUseProxy          = "api.use_proxy"
	keyMaxAttempts       = "api.max_attempts"
	keyRequestsPerSecond = "api.requests_per_second"
	keyLogin             = "auth.login"
	keyAuthType          = "auth.type"
	keySavePassword      = "auth.save_password"
	keyCloneUsingSSH     = "git.clone_using_ssh"
	keyPrivateGist       = "gist.private"
	keyAnonymousGist     = "gist.anonymous"
	keyOpenInBrowserGist = "gist.open_in_browser"
)

type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindFloat
	kindBool
)

var settingKinds = map[string]settingKind{
	keyHost:              kindString,
	keyTimeout:           kindInt,
	keyUseProxy:          kindBool,
	keyMaxAttempts:       kindInt,
	keyRequestsPerSecond: kindFloat,
	keyLogin:             kindString,
	keyAuthType:          kindString,
	keySavePassword:      kindBool,
	keyCloneUsingSSH:     kindBool,
	keyPrivateGist:       kindBool,
	keyAnonymousGist:     kindBool,
	keyOpenInBrowserGist: kindBool,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (domain.Settings, error) {
	defaults := domain.DefaultSettings()
	if s.configStore == nil {
		return defaults, nil
	}

	return domain.Settings{
		Host:              s.getString(keyHost, defaults.Host),
		Login:             s.configStore.GetString(keyLogin),
		AuthType:          domain.AuthType(s.getString(keyAuthType, string(defaults.AuthType))),
		TimeoutMillis:     s.getInt(keyTimeout, defaults.TimeoutMillis),
		SavePassword:      s.getBool(keySavePassword, defaults.SavePassword),
		UseProxy:          s.getBool(keyUseProxy, defaults.UseProxy),
		CloneUsingSSH:     s.getBool(keyCloneUsingSSH, defaults.CloneUsingSSH),
		PrivateGist:       s.getBool(keyPrivateGist, defaults.PrivateGist),
		AnonymousGist:     s.getBool(keyAnonymousGist, defaults.AnonymousGist),
		OpenInBrowserGist: s.getBool(keyOpenInBrowserGist, defaults.OpenInBrowserGist),
		MaxAttempts:       s.getInt(keyMaxAttempts, defaults.MaxAttempts),
		RequestsPerSecond: s.configStore.GetFloat(keyRequestsPerSecond),
	}, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings domain.Settings) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	if err := validateSettings(settings); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{keyHost, settings.Host},
		{keyLogin, settings.Login},
		{keyAuthType, settings.AuthType.String()},
		{keyTimeout, settings.TimeoutMillis},
		{keySavePassword, settings.SavePassword},
		{keyUseProxy, settings.UseProxy},
		{keyCloneUsingSSH, settings.CloneUsingSSH},
		{keyPrivateGist, settings.PrivateGist},
		{keyAnonymousGist, settings.AnonymousGist},
		{keyOpenInBrowserGist, settings.OpenInBrowserGist},
		{keyMaxAttempts, settings.MaxAttempts},
		{keyRequestsPerSecond, settings.RequestsPerSecond},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set parses and stores a single setting by key.
func (s *SettingsService) Set(key, value string) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}

	parsed, err := parseSetting(key, value)
	if err != nil {
		return err
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	applySetting(&settings, key, parsed)
	if err := validateSettings(settings); err != nil {
		return err
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// SetMany applies several settings. Valid values are stored even when
// others fail; every failure is reported.
func (s *SettingsService) SetMany(values map[string]string) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var result *multierror.Error
	for _, k := range keys {
		if err := s.Set(k, values[k]); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", k, err))
		}
	}
	return result.ErrorOrNil()
}

// Keys returns the settable keys in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Values returns the current value of every settable key, formatted as
// Set accepts it.
func (s *SettingsService) Values() (map[string]string, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}
	values := map[string]any{
		keyHost:              settings.Host,
		keyLogin:             settings.Login,
		keyAuthType:          settings.AuthType.String(),
		keyTimeout:           settings.TimeoutMillis,
		keySavePassword:      settings.SavePassword,
		keyUseProxy:          settings.UseProxy,
		keyCloneUsingSSH:     settings.CloneUsingSSH,
		keyPrivateGist:       settings.PrivateGist,
		keyAnonymousGist:     settings.AnonymousGist,
		keyOpenInBrowserGist: settings.OpenInBrowserGist,
		keyMaxAttempts:       settings.MaxAttempts,
		keyRequestsPerSecond: settings.RequestsPerSecond,
	}
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = fmt.Sprint(v)
	}
	return out, nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

func parseSetting(key, value string) (any, error) {
	kind, ok := settingKinds[key]
	if !ok {
		return nil, fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidInput, value)
		}
		return n, nil
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidInput, value)
		}
		return f, nil
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not true or false", domain.ErrInvalidInput, value)
		}
		return b, nil
	default:
		return value, nil
	}
}

func applySetting(s *domain.Settings, key string, v any) {
	switch key {
	case keyHost:
		s.Host = v.(string)
	case keyLogin:
		s.Login = v.(string)
	case keyAuthType:
		s.AuthType = domain.AuthType(v.(string))
	case keyTimeout:
		s.TimeoutMillis = v.(int)
	case keyMaxAttempts:
		s.MaxAttempts = v.(int)
	case keyRequestsPerSecond:
		s.RequestsPerSecond = v.(float64)
	case keySavePassword:
		s.SavePassword = v.(bool)
	case keyUseProxy:
		s.UseProxy = v.(bool)
	case keyCloneUsingSSH:
		s.CloneUsingSSH = v.(bool)
	case keyPrivateGist:
		s.PrivateGist = v.(bool)
	case keyAnonymousGist:
		s.AnonymousGist = v.(bool)
	case keyOpenInBrowserGist:
		s.OpenInBrowserGist = v.(bool)
	}
}

func validateSettings(s domain.Settings) error {
	err := validation.ValidateStruct(&s,
		validation.Field(&s.Host, validation.Required, validation.By(validHost)),
		validation.Field(&s.AuthType, validation.Required,
			validation.In(domain.AuthTypeAnonymous, domain.AuthTypeBasic, domain.AuthTypeToken)),
		validation.Field(&s.TimeoutMillis, validation.Min(1)),
		validation.Field(&s.MaxAttempts, validation.Min(1), validation.Max(20)),
		validation.Field(&s.RequestsPerSecond, validation.Min(0.0)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}
