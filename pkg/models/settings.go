package models

import "time"

// Settings represents the application configuration
type Settings struct {
	Session     SessionSettings    `yaml:"session"`
	Locale      LocaleSettings     `yaml:"locale"`
	Preferences PreferenceSettings `yaml:"preferences"`
	Ledger      LedgerSettings     `yaml:"ledger"`
	Log         LogSettings        `yaml:"log"`
}

// SessionSettings identifies the viewer
type SessionSettings struct {
	Username string `yaml:"username"`
}

// LocaleSettings controls language and currency selection
type LocaleSettings struct {
	DefaultLanguage string           `yaml:"default_language"`
	Languages       []LanguageOption `yaml:"languages"`
	DefaultCurrency string           `yaml:"default_currency"`
	Currencies      []string         `yaml:"currencies"`
}

// LanguageOption is one entry of the language selector
type LanguageOption struct {
	Code  string `yaml:"code"`
	Label string `yaml:"label"`
}

// PreferenceSettings selects where local preferences are persisted
type PreferenceSettings struct {
	Backend string `yaml:"backend"` // "yaml", "sqlite" or "memory"
	Path    string `yaml:"path"`
}

// LedgerSettings controls the local account ledger
type LedgerSettings struct {
	Latency time.Duration `yaml:"latency"`
}

// LogSettings controls diagnostic logging
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

const (
	PreferenceBackendYAML   = "yaml"
	PreferenceBackendSQLite = "sqlite"
	PreferenceBackendMemory = "memory"
)

// DefaultSettings returns the default configuration
func DefaultSettings() *Settings {
	return &Settings{
		Locale: LocaleSettings{
			DefaultLanguage: "ru",
			Languages: []LanguageOption{
				{Code: "ru", Label: "русский"},
				{Code: "en", Label: "english"},
				{Code: "uk", Label: "українська"},
			},
			DefaultCurrency: "GBG",
			Currencies:      []string{"GBG", "GOLOS", "USD", "EUR", "RUB", "UAH"},
		},
		Preferences: PreferenceSettings{
			Backend: PreferenceBackendYAML,
			Path:    "preferences.yaml",
		},
		Ledger: LedgerSettings{
			Latency: 300 * time.Millisecond,
		},
		Log: LogSettings{
			Path:  "profilectl.log",
			Level: "info",
		},
	}
}

// LanguageCodes returns the configured language codes in selector order
func (l LocaleSettings) LanguageCodes() []string {
	codes := make([]string, 0, len(l.Languages))
	for _, lang := range l.Languages {
		codes = append(codes, lang.Code)
	}
	return codes
}

// LanguageLabel returns the display label for a language code, or the code itself
func (l LocaleSettings) LanguageLabel(code string) string {
	for _, lang := range l.Languages {
		if lang.Code == code {
			return lang.Label
		}
	}
	return code
}
