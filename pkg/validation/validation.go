// Package validation checks profile form values.
package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/pluqqy/profilectl/pkg/models"
)

// Issue is a user-facing validation message. The zero value means no error.
type Issue string

const (
	InvalidURL        Issue = "invalid url"
	NameTooLong       Issue = "name is too long"
	NameBeginsWithAt  Issue = "name must not begin with @"
	AboutTooLong      Issue = "about is too long"
	LocationTooLong   Issue = "location is too long"
	WebsiteURLTooLong Issue = "website url is too long"
)

// Field length limits, in UTF-16 code units as browsers count them, so
// characters outside the BMP such as emoji count twice
const (
	MaxNameLength     = 20
	MaxAboutLength    = 160
	MaxLocationLength = 30
	MaxWebsiteLength  = 100
)

var urlPattern = regexp.MustCompile(`^https?://`)

var issueKeys = map[Issue]string{
	InvalidURL:        "invalid_url",
	NameTooLong:       "name_is_too_long",
	NameBeginsWithAt:  "name_must_not_begin_with_at",
	AboutTooLong:      "about_is_too_long",
	LocationTooLong:   "location_is_too_long",
	WebsiteURLTooLong: "website_url_is_too_long",
}

// Key returns the translation key for the issue
func (i Issue) Key() string {
	return issueKeys[i]
}

// Errors maps each field to its issue; fields without an issue are absent
type Errors map[models.ProfileField]Issue

// Valid reports whether no field has an issue
func (e Errors) Valid() bool {
	for _, issue := range e {
		if issue != "" {
			return false
		}
	}
	return true
}

// Validate checks every field independently. Empty values are always valid.
func Validate(values models.Profile) Errors {
	errs := make(Errors)
	for _, field := range models.ProfileFields {
		if issue := Field(field, values[field]); issue != "" {
			errs[field] = issue
		}
	}
	return errs
}

// Field checks a single field value
func Field(field models.ProfileField, value string) Issue {
	if value == "" {
		return ""
	}
	length := textLength(value)

	switch field {
	case models.FieldProfileImage:
		if !urlPattern.MatchString(value) {
			return InvalidURL
		}
	case models.FieldName:
		if length > MaxNameLength {
			return NameTooLong
		}
		if beginsWithAt(value) {
			return NameBeginsWithAt
		}
	case models.FieldAbout:
		if length > MaxAboutLength {
			return AboutTooLong
		}
	case models.FieldLocation:
		if length > MaxLocationLength {
			return LocationTooLong
		}
	case models.FieldWebsite:
		if length > MaxWebsiteLength {
			return WebsiteURLTooLong
		}
		if !urlPattern.MatchString(value) {
			return InvalidURL
		}
	}
	return ""
}

// textLength counts UTF-16 code units
func textLength(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// beginsWithAt reports whether s starts with @ after any leading whitespace,
// including Unicode spaces and the byte order mark
func beginsWithAt(s string) bool {
	trimmed := strings.TrimLeftFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
	return strings.HasPrefix(trimmed, "@")
}
