// Package prefs persists client-side preferences: the global language and
// currency selection, and a per-account NSFW visibility choice.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"

	"go.uber.org/zap"

	"github.com/pluqqy/profilectl/pkg/files"
	"github.com/pluqqy/profilectl/pkg/models"
)

var (
	ErrNoStorage         = errors.New("no persistent preference storage")
	ErrInvalidPreference = errors.New("invalid nsfw preference")
	ErrInvalidLanguage   = errors.New("invalid language code")
	ErrInvalidCurrency   = errors.New("currency is not allowed")
	ErrUnknownBackend    = errors.New("unknown preference backend")
	errAccountRequired   = errors.New("account is required")
	languageCodePattern  = regexp.MustCompile(`^[a-z]{2,3}$`)
)

const (
	languageKey   = "language"
	currencyKey   = "currency"
	nsfwKeyPrefix = "nsfwPref-"
)

// DefaultNsfwPreference is returned for accounts that never chose one
const DefaultNsfwPreference = models.NsfwWarn

// Store reads and writes preferences through a Backend. A Store without a
// backend answers every read with defaults and refuses writes.
type Store struct {
	backend Backend
	locale  models.LocaleSettings
	logger  *zap.Logger
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger used for backend read failures
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New wraps backend. Pass a nil backend for contexts without persistent storage.
func New(backend Backend, locale models.LocaleSettings, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		locale:  locale,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open builds a Store from settings, resolving relative paths inside the project directory
func Open(ctx context.Context, settings *models.Settings, opts ...Option) (*Store, error) {
	var (
		backend Backend
		err     error
	)

	switch settings.Preferences.Backend {
	case models.PreferenceBackendYAML, "":
		path := settings.Preferences.Path
		if path == "" {
			path = files.PreferencesFile
		}
		backend, err = OpenYAMLBackend(files.Path(path))
	case models.PreferenceBackendSQLite:
		path := settings.Preferences.Path
		if path == "" {
			path = "preferences.db"
		}
		backend, err = OpenSQLiteBackend(ctx, files.Path(path))
	case models.PreferenceBackendMemory:
		backend = NewMemoryBackend()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, settings.Preferences.Backend)
	}
	if err != nil {
		return nil, err
	}

	return New(backend, settings.Locale, opts...), nil
}

// Persistent reports whether writes survive the process
func (s *Store) Persistent() bool {
	return s.backend != nil
}

// Close releases the backend
func (s *Store) Close() error {
	if s.backend == nil {
		return nil
	}
	return s.backend.Close()
}

// NsfwKey returns the storage key for an account's NSFW preference
func NsfwKey(account string) string {
	return nsfwKeyPrefix + account
}

// NsfwPreference returns the account's choice, defaulting to warn
func (s *Store) NsfwPreference(ctx context.Context, account string) models.NsfwPreference {
	if account == "" {
		return DefaultNsfwPreference
	}
	raw, ok := s.get(ctx, NsfwKey(account))
	if !ok {
		return DefaultNsfwPreference
	}
	pref := models.NsfwPreference(raw)
	if !pref.Valid() {
		s.logger.Warn("ignoring invalid stored nsfw preference",
			zap.String("account", account), zap.String("value", raw))
		return DefaultNsfwPreference
	}
	return pref
}

// SetNsfwPreference persists the account's choice. It does not notify anyone.
func (s *Store) SetNsfwPreference(ctx context.Context, account string, pref models.NsfwPreference) error {
	if account == "" {
		return errAccountRequired
	}
	if !pref.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPreference, pref)
	}
	return s.set(ctx, NsfwKey(account), string(pref))
}

// Language returns the stored language, or the configured default
func (s *Store) Language(ctx context.Context) string {
	if v, ok := s.get(ctx, languageKey); ok && languageCodePattern.MatchString(v) {
		return v
	}
	return s.locale.DefaultLanguage
}

func (s *Store) SetLanguage(ctx context.Context, code string) error {
	if !languageCodePattern.MatchString(code) {
		return fmt.Errorf("%w: %q", ErrInvalidLanguage, code)
	}
	return s.set(ctx, languageKey, code)
}

// Currency returns the stored currency, or the configured default
func (s *Store) Currency(ctx context.Context) string {
	if v, ok := s.get(ctx, currencyKey); ok && s.currencyAllowed(v) {
		return v
	}
	if s.locale.DefaultCurrency != "" {
		return s.locale.DefaultCurrency
	}
	if len(s.locale.Currencies) > 0 {
		return s.locale.Currencies[0]
	}
	return ""
}

func (s *Store) SetCurrency(ctx context.Context, code string) error {
	if !s.currencyAllowed(code) {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
	}
	return s.set(ctx, currencyKey, code)
}

func (s *Store) currencyAllowed(code string) bool {
	return slices.Contains(s.locale.Currencies, code)
}

func (s *Store) get(ctx context.Context, key string) (string, bool) {
	if s.backend == nil {
		return "", false
	}
	v, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.logger.Error("failed to read preference", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return v, ok
}

func (s *Store) set(ctx context.Context, key, value string) error {
	if s.backend == nil {
		return ErrNoStorage
	}
	return s.backend.Set(ctx, key, value)
}
