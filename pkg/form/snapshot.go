package form

import (
	"github.com/pluqqy/profilectl/pkg/models"
	"github.com/pluqqy/profilectl/pkg/validation"
)

// FieldState is the state of one editable field
type FieldState struct {
	Value   string
	Touched bool
	Blurred bool
	Error   validation.Issue
}

// Snapshot is an immutable copy of the form state handed to subscribers
type Snapshot struct {
	Fields         map[models.ProfileField]FieldState
	Submitting     bool
	Valid          bool
	Touched        bool
	Dirty          bool
	ErrorMessage   string
	SuccessMessage string
}

// Field returns the state of one field
func (s Snapshot) Field(field models.ProfileField) FieldState {
	return s.Fields[field]
}

// VisibleError returns the error to display next to a field: errors show once the
// field is touched, and for URL fields only after the first blur.
func (s Snapshot) VisibleError(field models.ProfileField) validation.Issue {
	state := s.Fields[field]
	if !state.Touched {
		return ""
	}
	if field.IsURL() && !state.Blurred {
		return ""
	}
	return state.Error
}
