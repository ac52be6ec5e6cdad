// Package i18n provides the string lookup used for labels and messages.
package i18n

// Translator looks up a display string by key
type Translator interface {
	Translate(key string) string
}

// TranslatorFunc adapts a function to Translator
type TranslatorFunc func(key string) string

func (f TranslatorFunc) Translate(key string) string {
	return f(key)
}

const fallbackLanguage = "en"

// Catalog holds per-language string tables and a current language
type Catalog struct {
	language string
	tables   map[string]map[string]string
}

// NewCatalog returns the built-in catalog set to the given language
func NewCatalog(language string) *Catalog {
	c := &Catalog{tables: builtinTables()}
	c.SetLanguage(language)
	return c
}

// SetLanguage switches the active table. Unknown languages fall back to English.
func (c *Catalog) SetLanguage(language string) {
	if _, ok := c.tables[language]; !ok {
		language = fallbackLanguage
	}
	c.language = language
}

// Language returns the active language code
func (c *Catalog) Language() string {
	return c.language
}

// Translate returns the string for key in the active language, then English, then the key itself
func (c *Catalog) Translate(key string) string {
	if s, ok := c.tables[c.language][key]; ok {
		return s
	}
	if s, ok := c.tables[fallbackLanguage][key]; ok {
		return s
	}
	return key
}

// English is a translator fixed to the English table
var English Translator = NewCatalog(fallbackLanguage)
