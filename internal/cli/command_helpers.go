package cli

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pluqqy/profilectl/pkg/files"
	"github.com/pluqqy/profilectl/pkg/logging"
	"github.com/pluqqy/profilectl/pkg/models"
	"github.com/pluqqy/profilectl/pkg/prefs"
)

// ErrNoProject is returned by commands run outside an initialized directory
var ErrNoProject = errors.New("no .profilectl directory found. Run 'profilectl init' first")

// CommandContext manages project validation and common command context
type CommandContext struct {
	ProjectPath string
	Settings    *models.Settings
	logger      *zap.Logger
	validated   bool
}

func NewCommandContext() (*CommandContext, error) {
	return &CommandContext{
		ProjectPath: files.ProjectDir,
	}, nil
}

// ValidateProject ensures the project is initialized
func (c *CommandContext) ValidateProject() error {
	if c.validated {
		return nil
	}
	if !files.ProjectExists() {
		return ErrNoProject
	}
	c.validated = true
	return nil
}

// LoadSettingsWithDefault loads settings or returns default if error
func (c *CommandContext) LoadSettingsWithDefault() *models.Settings {
	if c.Settings != nil {
		return c.Settings
	}

	settings, err := files.ReadSettings()
	if err != nil {
		PrintWarning("Using default settings: %v", err)
		settings = models.DefaultSettings()
	}

	c.Settings = settings
	return settings
}

// Logger returns the diagnostics logger configured in settings. When the log
// file cannot be opened, logging is disabled with a warning.
func (c *CommandContext) Logger() *zap.Logger {
	if c.logger != nil {
		return c.logger
	}

	cfg := c.LoadSettingsWithDefault().Log
	if cfg.Path != "" {
		cfg.Path = files.Path(cfg.Path)
	}

	logger, err := logging.New(cfg)
	if err != nil {
		PrintWarning("Logging disabled: %v", err)
		logger = zap.NewNop()
	}

	c.logger = logger
	return logger
}

// Viewer resolves who is operating the tool: the --as override, else the session user
func (c *CommandContext) Viewer(as string) string {
	if as != "" {
		return as
	}
	return c.LoadSettingsWithDefault().Session.Username
}

// OpenPreferences opens the configured preference backend
func (c *CommandContext) OpenPreferences(ctx context.Context) (*prefs.Store, error) {
	store, err := prefs.Open(ctx, c.LoadSettingsWithDefault(), prefs.WithLogger(c.Logger()))
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences: %w", err)
	}
	return store, nil
}

// Close flushes the logger
func (c *CommandContext) Close() {
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}
