package cli

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/pluqqy/profilectl/pkg/models"
)

var accountNamePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*(\.[a-z][a-z0-9-]*)*$`)

// ValidateOutputFormat validates the output format flag
func ValidateOutputFormat(format string) error {
	if slices.Contains([]string{"text", "json", "yaml"}, format) {
		return nil
	}
	return fmt.Errorf("invalid output format: %s (must be: text, json, or yaml)", format)
}

// ValidateAccountName checks the ledger naming rules: 3 to 16 characters,
// lowercase segments separated by dots, each starting with a letter
func ValidateAccountName(name string) error {
	if name == "" {
		return fmt.Errorf("account name cannot be empty")
	}
	if len(name) < 3 || len(name) > 16 {
		return fmt.Errorf("account name must be 3 to 16 characters: %s", name)
	}
	if !accountNamePattern.MatchString(name) {
		return fmt.Errorf("invalid account name: %s", name)
	}
	for _, segment := range strings.Split(name, ".") {
		if strings.HasSuffix(segment, "-") || strings.Contains(segment, "--") {
			return fmt.Errorf("invalid account name: %s", name)
		}
	}
	return nil
}

// ValidateNsfwPreference validates the nsfw value for prefs set
func ValidateNsfwPreference(value string) (models.NsfwPreference, error) {
	pref := models.NsfwPreference(strings.ToLower(value))
	if !pref.Valid() {
		return "", fmt.Errorf("invalid nsfw preference: %s (must be: hide, warn, or show)", value)
	}
	return pref, nil
}
