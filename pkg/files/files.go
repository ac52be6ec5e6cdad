package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pluqqy/profilectl/pkg/models"
)

const (
	ProjectDir      = ".profilectl"
	SettingsFile    = "settings.yaml"
	AccountsFile    = "accounts.yaml"
	PreferencesFile = "preferences.yaml"
)

// ErrAccountNotFound is returned when the account book has no entry for a name
var ErrAccountNotFound = errors.New("account not found")

func InitProjectStructure() error {
	if err := os.MkdirAll(ProjectDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ProjectDir, err)
	}

	if _, err := os.Stat(Path(SettingsFile)); os.IsNotExist(err) {
		if err := WriteSettings(models.DefaultSettings()); err != nil {
			return err
		}
	}

	if _, err := os.Stat(Path(AccountsFile)); os.IsNotExist(err) {
		if err := WriteAccounts(&models.AccountBook{Accounts: []models.Account{}}); err != nil {
			return err
		}
	}

	return nil
}

// ProjectExists reports whether the project directory is present in the working directory
func ProjectExists() bool {
	info, err := os.Stat(ProjectDir)
	return err == nil && info.IsDir()
}

// Path resolves a project-relative path. Absolute paths are returned unchanged.
func Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(ProjectDir, name)
}

func ReadSettings() (*models.Settings, error) {
	content, err := os.ReadFile(Path(SettingsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	settings := models.DefaultSettings()
	if err := yaml.Unmarshal(content, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings YAML: %w", err)
	}

	return settings, nil
}

func WriteSettings(settings *models.Settings) error {
	content, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings to YAML: %w", err)
	}

	if err := WriteFileAtomic(Path(SettingsFile), content); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	return nil
}

// WriteFileAtomic writes content to a sibling temp file and renames it over path,
// so readers never observe a partially written file
func WriteFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}
