// Package metadata reads and rewrites the json_metadata document stored on an account.
package metadata

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pluqqy/profilectl/pkg/models"
)

const (
	profileKey = "profile"

	// legacyUserImageKey predates profile.profile_image
	legacyUserImageKey = "user_image"
)

// Document is a decoded json_metadata object. Keys other than profile are preserved verbatim.
type Document map[string]any

// Parse decodes raw account metadata. Blank input yields an empty document.
func Parse(raw string) (Document, error) {
	if strings.TrimSpace(raw) == "" {
		return Document{}, nil
	}

	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse account metadata: %w", err)
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

// Encode serializes the document back into json_metadata form
func (d Document) Encode() (string, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("failed to encode account metadata: %w", err)
	}
	return string(data), nil
}

// DropLegacyUserImage removes the deprecated top-level user_image key.
// It reports whether the key was present.
func DropLegacyUserImage(d Document) bool {
	if _, ok := d[legacyUserImageKey]; !ok {
		return false
	}
	delete(d, legacyUserImageKey)
	return true
}

// MergeProfile writes the patch under d["profile"]. Editable fields missing from the
// patch are removed; any other keys inside profile are kept.
func MergeProfile(d Document, patch models.ProfilePatch) {
	profile, ok := d[profileKey].(map[string]any)
	if !ok {
		profile = make(map[string]any)
	}

	for _, field := range models.ProfileFields {
		if value, ok := patch[field]; ok {
			profile[string(field)] = value
		} else {
			delete(profile, string(field))
		}
	}

	d[profileKey] = profile
}

// Profile extracts the editable fields from the document. Non-string values are ignored.
func (d Document) Profile() models.Profile {
	out := make(models.Profile, len(models.ProfileFields))
	profile, ok := d[profileKey].(map[string]any)
	if !ok {
		return out
	}

	for _, field := range models.ProfileFields {
		if s, ok := profile[string(field)].(string); ok {
			out[field] = s
		}
	}
	return out
}

// ProfileFromJSON is a convenience for reading a profile straight from raw metadata
func ProfileFromJSON(raw string) (models.Profile, error) {
	doc, err := Parse(raw)
	if err != nil {
		return models.Profile{}, err
	}
	return doc.Profile(), nil
}
