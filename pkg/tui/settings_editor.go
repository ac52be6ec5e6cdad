package tui

import (
	"context"
	"encoding/json"
	"slices"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"go.uber.org/zap"

	"github.com/pluqqy/profilectl/pkg/form"
	"github.com/pluqqy/profilectl/pkg/i18n"
	"github.com/pluqqy/profilectl/pkg/models"
	"github.com/pluqqy/profilectl/pkg/prefs"
)

type SettingsEditorModel struct {
	SettingsDataStore
	SettingsUIComponents
	SettingsViewportManager
	SettingsFormInputs
	SettingsSidePanel
}

// Focus positions after the five text inputs
const (
	focusLanguage = iota + 5
	focusCurrency
	focusNsfw
)

var fieldLabelKeys = map[models.ProfileField]string{
	models.FieldProfileImage: "profile_image_url",
	models.FieldName:         "profile_name",
	models.FieldAbout:        "profile_about",
	models.FieldLocation:     "profile_location",
	models.FieldWebsite:      "profile_website",
}

var nsfwLabelKeys = map[models.NsfwPreference]string{
	models.NsfwHide: "always_hide",
	models.NsfwWarn: "always_warn",
	models.NsfwShow: "always_show",
}

// SettingsEditorConfig wires the editor to its collaborators
type SettingsEditorConfig struct {
	Controller *form.Controller
	Prefs      *prefs.Store
	Catalog    *i18n.Catalog
	Locale     models.LocaleSettings
	Logger     *zap.Logger
}

func NewSettingsEditorModel(ctx context.Context, cfg SettingsEditorConfig) *SettingsEditorModel {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &SettingsEditorModel{
		SettingsDataStore: SettingsDataStore{
			ctx:        ctx,
			controller: cfg.Controller,
			prefs:      cfg.Prefs,
			catalog:    cfg.Catalog,
			locale:     cfg.Locale,
			logger:     logger,
			snapshot:   cfg.Controller.Snapshot(),
		},
		SettingsUIComponents: SettingsUIComponents{
			viewport:    viewport.New(80, 20),
			spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
			exitConfirm: NewConfirmation(),
			title:       NewViewTitle(""),
			copy:        clipboard.WriteAll,
		},
	}

	account := cfg.Controller.Account().Name
	m.language = m.catalog.Language()
	m.currency = m.prefs.Currency(ctx)
	m.nsfw = m.prefs.NsfwPreference(ctx, account)

	for _, field := range models.ProfileFields {
		// No CharLimit: stored values may exceed the limits and the
		// validator reports them instead
		input := textinput.New()
		input.Width = 48
		if field.IsURL() {
			input.Placeholder = "https://"
		}
		m.inputs = append(m.inputs, input)
	}

	m.unsubscribe = cfg.Controller.Subscribe(func(s form.Snapshot) {
		m.snapshot = s
	})
	m.syncInputs()
	m.updateFocus()

	return m
}

func (m *SettingsEditorModel) Init() tea.Cmd {
	return textinput.Blink
}

// Close detaches the editor from the controller
func (m *SettingsEditorModel) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// totalFields counts focus stops; the NSFW selector is only offered to the owner
func (m *SettingsEditorModel) totalFields() int {
	if m.controller.Owner() {
		return focusNsfw + 1
	}
	return focusCurrency + 1
}

func (m *SettingsEditorModel) focusedField() (models.ProfileField, bool) {
	if m.focusIndex < len(models.ProfileFields) {
		return models.ProfileFields[m.focusIndex], true
	}
	return "", false
}

func (m *SettingsEditorModel) updateFocus() {
	for i := range m.inputs {
		if i == m.focusIndex {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

// moveFocus marks the field being left as blurred before moving
func (m *SettingsEditorModel) moveFocus(delta int) {
	if field, ok := m.focusedField(); ok {
		m.controller.SetFieldBlurred(field)
	}

	total := m.totalFields()
	m.focusIndex = (m.focusIndex + delta + total) % total
	m.updateFocus()
}

// syncInputs copies field values from the controller into the text inputs
func (m *SettingsEditorModel) syncInputs() {
	for i, field := range models.ProfileFields {
		m.inputs[i].SetValue(encodeInputText(m.snapshot.Field(field).Value))
	}
}

func (m *SettingsEditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if !m.snapshot.Submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.exitConfirm.Active() {
			return m, m.exitConfirm.Update(msg)
		}

		key := msg.String()
		if m.previewing {
			switch {
			case Shortcuts.Cancel.Matches(key), Shortcuts.Preview.Matches(key):
				m.previewing = false
				return m, nil
			case Shortcuts.Copy.Matches(key):
				return m, m.copyPreview()
			}
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		switch {
		case Shortcuts.Cancel.Matches(key):
			return m, m.exit()

		case Shortcuts.Save.Matches(key):
			return m, m.submit()

		case Shortcuts.Reset.Matches(key):
			m.controller.Reset()
			m.syncInputs()
			return m, nil

		case Shortcuts.Preview.Matches(key):
			m.previewing = true
			m.viewport.GotoTop()
			return m, nil

		case Shortcuts.Copy.Matches(key):
			return m, m.copyPreview()
		}

		switch key {
		case "enter":
			if _, ok := m.focusedField(); ok {
				return m, m.submit()
			}
			return m, m.cycleSelection(1)

		case "tab", "down":
			m.moveFocus(1)
			return m, nil

		case "shift+tab", "up":
			m.moveFocus(-1)
			return m, nil

		case "left", "right", " ":
			if _, ok := m.focusedField(); !ok {
				delta := 1
				if key == "left" {
					delta = -1
				}
				return m, m.cycleSelection(delta)
			}

		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	if field, ok := m.focusedField(); ok {
		input := &m.inputs[m.focusIndex]
		prev := input.Value()
		var cmd tea.Cmd
		*input, cmd = input.Update(msg)
		if input.Value() != prev {
			m.controller.SetFieldValue(field, decodeInputText(input.Value()))
		}
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *SettingsEditorModel) submit() tea.Cmd {
	if !m.controller.Submit(m.ctx) {
		return nil
	}
	return m.spinner.Tick
}

func (m *SettingsEditorModel) exit() tea.Cmd {
	if !m.snapshot.Dirty {
		return tea.Quit
	}

	m.exitConfirm.ShowDialog(
		strings.ToUpper(m.catalog.Translate("profile")),
		m.catalog.Translate("unsaved_changes"),
		m.catalog.Translate("discard_changes"),
		true,
		m.width-4,
		10,
		func() tea.Cmd {
			m.controller.Reset()
			m.syncInputs()
			return tea.Quit
		},
		nil,
	)
	return nil
}

// cycleSelection steps the focused selector and persists the new value
func (m *SettingsEditorModel) cycleSelection(delta int) tea.Cmd {
	var err error
	switch m.focusIndex {
	case focusLanguage:
		m.language = cycle(m.locale.LanguageCodes(), m.language, delta)
		m.catalog.SetLanguage(m.language)
		err = m.prefs.SetLanguage(m.ctx, m.language)
	case focusCurrency:
		m.currency = cycle(m.locale.Currencies, m.currency, delta)
		err = m.prefs.SetCurrency(m.ctx, m.currency)
	case focusNsfw:
		m.nsfw = cycle(models.NsfwPreferences, m.nsfw, delta)
		err = m.prefs.SetNsfwPreference(m.ctx, m.controller.Account().Name, m.nsfw)
	default:
		return nil
	}

	if err != nil {
		m.logger.Warn("failed to save preference", zap.Error(err))
		return showStatus(StatusTypeError, "Preference not saved: %v", err)
	}
	return nil
}

func cycle[T comparable](options []T, current T, delta int) T {
	if len(options) == 0 {
		return current
	}
	i := slices.Index(options, current)
	if i < 0 {
		return options[0]
	}
	return options[(i+delta+len(options))%len(options)]
}

func (m *SettingsEditorModel) previewJSON() (string, error) {
	raw, err := m.controller.PreviewMetadata()
	if err != nil {
		return "", err
	}

	var pretty strings.Builder
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return raw, nil
	}
	enc := json.NewEncoder(&pretty)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return raw, nil
	}
	return strings.TrimRight(pretty.String(), "\n"), nil
}

func (m *SettingsEditorModel) copyPreview() tea.Cmd {
	raw, err := m.controller.PreviewMetadata()
	if err == nil {
		err = m.copy(raw)
	}
	if err != nil {
		m.logger.Warn("failed to copy metadata", zap.Error(err))
		return showStatus(StatusTypeError, "Failed to copy: %v", err)
	}
	return showStatus(StatusTypeSuccess, "Copied json_metadata (%d bytes)", len(raw))
}

func (m *SettingsEditorModel) View() string {
	if m.exitConfirm.Active() {
		return ContentPaddingStyle.Render(m.exitConfirm.View())
	}

	m.updateViewportContent()

	heading := m.catalog.Translate("profile")
	if m.previewing {
		heading = "json_metadata"
	}

	var content strings.Builder
	content.WriteString(renderPaneHeading(m.width-4, heading, true))
	content.WriteString("\n\n")
	content.WriteString(ContentPaddingStyle.Render(m.viewport.View()))

	var s strings.Builder
	m.title.SetText(strings.ToUpper(m.catalog.Translate("website_settings")))
	s.WriteString(renderHeader(m.width, m.title.View(), m.controller.Account().Name))
	s.WriteString("\n")
	s.WriteString(ContentPaddingStyle.Render(
		ActiveBorderStyle.
			Width(m.width - 4).
			Height(m.paneHeight()).
			Render(content.String()),
	))

	copyKey := FormatShortcutForHelp(Shortcuts.Copy)
	help := []string{
		"tab/shift+tab navigate",
		"←→ change",
		FormatShortcutForHelp(Shortcuts.Save) + " save",
		FormatShortcutForHelp(Shortcuts.Reset) + " reset",
		FormatShortcutForHelp(Shortcuts.Preview) + " preview",
		copyKey + " copy",
		FormatShortcutForHelp(Shortcuts.Cancel) + " exit",
		FormatShortcutForHelp(Shortcuts.Quit) + " quit",
	}
	if m.previewing {
		help = []string{"↑↓ scroll", copyKey + " copy", FormatShortcutForHelp(Shortcuts.Cancel) + " back"}
	}
	helpContent := lipgloss.NewStyle().
		Width(m.width - 8).
		Align(lipgloss.Right).
		Render(formatHelpText(help))

	s.WriteString("\n")
	s.WriteString(ContentPaddingStyle.Render(HelpBorderStyle.Width(m.width-4).Padding(0, 1).Render(helpContent)))

	return s.String()
}

func (m *SettingsEditorModel) updateViewportContent() {
	if m.previewing {
		preview, err := m.previewJSON()
		if err != nil {
			preview = ErrorStyle.Render(err.Error())
		}
		m.viewport.SetContent(preview)
		return
	}

	var content strings.Builder
	t := m.catalog.Translate
	snap := m.snapshot

	for i, field := range models.ProfileFields {
		label := LabelStyle.Render(capitalize(t(fieldLabelKeys[field])) + ":")
		line := label + " " + m.inputs[i].View()
		if m.focusIndex == i {
			content.WriteString(FocusedStyle.Render("▸ " + line))
		} else {
			content.WriteString(NormalStyle.Render("  " + line))
		}
		content.WriteString("\n")
		if issue := snap.VisibleError(field); issue != "" {
			content.WriteString(ErrorStyle.Render("  " + strings.Repeat(" ", 25) + t(issue.Key())))
			content.WriteString("\n")
		}
		content.WriteString("\n")
	}

	content.WriteString(m.renderSubmitRow())
	content.WriteString("\n\n")

	content.WriteString(SectionStyle.Render(strings.ToUpper(t("website_settings"))))
	content.WriteString("\n\n")
	content.WriteString(m.selectorLine(focusLanguage, t("choose_language"), m.locale.LanguageLabel(m.language)))
	content.WriteString(m.selectorLine(focusCurrency, t("choose_currency"), m.currency))

	if m.controller.Owner() {
		content.WriteString("\n")
		content.WriteString(SectionStyle.Render(strings.ToUpper(t("content_preferences"))))
		content.WriteString("\n\n")
		content.WriteString(m.selectorLine(focusNsfw, t("adult_content_NSFW"), t(nsfwLabelKeys[m.nsfw])))

		if muted := m.controller.Account().Muted; len(muted) > 0 {
			content.WriteString("\n")
			content.WriteString(SectionStyle.Render(strings.ToUpper(t("muted_users"))))
			content.WriteString("\n\n")
			content.WriteString(NormalStyle.Render(wordwrap.String(formatMuted(muted), m.wrapWidth())))
			content.WriteString("\n")
		}
	}

	m.viewport.SetContent(content.String())
}

func (m *SettingsEditorModel) renderSubmitRow() string {
	label := strings.ToUpper(m.catalog.Translate("update"))
	snap := m.snapshot

	var row string
	switch {
	case snap.Submitting:
		row = m.spinner.View() + " " + DisabledButtonStyle.Render(label)
	case m.controller.CanSubmit():
		row = "  " + ButtonStyle.Render(label)
	default:
		row = "  " + DisabledButtonStyle.Render(label)
	}

	if snap.ErrorMessage != "" {
		row += "  " + ErrorStyle.Render(snap.ErrorMessage)
	}
	if snap.SuccessMessage != "" {
		row += "  " + SuccessStyle.Render(snap.SuccessMessage)
	}
	return row
}

func (m *SettingsEditorModel) selectorLine(index int, label, value string) string {
	line := LabelStyle.Render(capitalize(label)+":") + " ‹ " + value + " ›"
	if m.focusIndex == index {
		return SelectedStyle.Render("▸ "+line) + "\n\n"
	}
	return NormalStyle.Render("  "+line) + "\n\n"
}

func formatMuted(names []string) string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = "@" + name
	}
	return strings.Join(out, ", ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

func (m *SettingsEditorModel) wrapWidth() int {
	if m.viewport.Width > 4 {
		return m.viewport.Width - 4
	}
	return 40
}

func (m *SettingsEditorModel) paneHeight() int {
	h := m.height - ViewTitleHeight() - 6
	if h < 5 {
		return 5
	}
	return h
}

func (m *SettingsEditorModel) updateViewportSize() {
	if m.width == 0 || m.height == 0 {
		return
	}

	m.viewport.Width = m.width - 10
	m.viewport.Height = m.paneHeight() - 3
}

func (m *SettingsEditorModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.updateViewportSize()
}

// Snapshot exposes the last form state seen by the editor
func (m *SettingsEditorModel) Snapshot() form.Snapshot {
	return m.snapshot
}
