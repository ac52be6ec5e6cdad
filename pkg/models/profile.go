package models

import "strings"

// ProfileField names one editable profile attribute
type ProfileField string

const (
	FieldProfileImage ProfileField = "profile_image"
	FieldName         ProfileField = "name"
	FieldAbout        ProfileField = "about"
	FieldLocation     ProfileField = "location"
	FieldWebsite      ProfileField = "website"
)

// ProfileFields lists the editable fields in form order
var ProfileFields = []ProfileField{
	FieldProfileImage,
	FieldName,
	FieldAbout,
	FieldLocation,
	FieldWebsite,
}

// IsURL reports whether the field holds a URL
func (f ProfileField) IsURL() bool {
	return f == FieldProfileImage || f == FieldWebsite
}

// Profile holds field values; missing keys read as empty strings
type Profile map[ProfileField]string

// ProfilePatch is the subset of a profile that gets written to account metadata.
// A key is present only when its value is non-blank.
type ProfilePatch map[ProfileField]string

// NewProfilePatch builds a patch from form values, omitting blank fields
func NewProfilePatch(values Profile) ProfilePatch {
	patch := make(ProfilePatch, len(ProfileFields))
	for _, field := range ProfileFields {
		value := values[field]
		if strings.TrimSpace(value) == "" {
			continue
		}
		patch[field] = value
	}
	return patch
}
