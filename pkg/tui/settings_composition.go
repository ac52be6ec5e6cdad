package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"go.uber.org/zap"

	"github.com/pluqqy/profilectl/pkg/form"
	"github.com/pluqqy/profilectl/pkg/i18n"
	"github.com/pluqqy/profilectl/pkg/models"
	"github.com/pluqqy/profilectl/pkg/prefs"
)

// SettingsDataStore holds the collaborators and the last form snapshot
type SettingsDataStore struct {
	ctx         context.Context
	controller  *form.Controller
	prefs       *prefs.Store
	catalog     *i18n.Catalog
	locale      models.LocaleSettings
	logger      *zap.Logger
	snapshot    form.Snapshot
	unsubscribe func()
}

// SettingsUIComponents manages UI-specific components
type SettingsUIComponents struct {
	viewport    viewport.Model
	spinner     spinner.Model
	exitConfirm *ConfirmationModel
	title       *ViewTitle
	previewing  bool
	copy        func(string) error
}

// SettingsViewportManager manages viewport and layout
type SettingsViewportManager struct {
	width  int
	height int
}

// SettingsFormInputs holds one text input per profile field, in form order
type SettingsFormInputs struct {
	inputs     []textinput.Model
	focusIndex int
}

// SettingsSidePanel holds the locally persisted selections
type SettingsSidePanel struct {
	language string
	currency string
	nsfw     models.NsfwPreference
}
