package tui

import (
	"runtime"
	"slices"
	"strings"
)

// OSType represents the operating system type
type OSType int

const (
	OSMac OSType = iota
	OSLinux
	OSWindows
	OSUnknown
)

// GetOS returns the current operating system type
func GetOS() OSType {
	return osFromGOOS(runtime.GOOS)
}

func osFromGOOS(goos string) OSType {
	switch goos {
	case "darwin":
		return OSMac
	case "linux":
		return OSLinux
	case "windows":
		return OSWindows
	default:
		return OSUnknown
	}
}

// ShortcutKey represents a keyboard shortcut with OS-specific variations
type ShortcutKey struct {
	Mac     string
	Linux   string
	Windows string
	Default string // Fallback if OS-specific not defined
}

// For returns the shortcut shown on the given OS
func (s ShortcutKey) For(os OSType) string {
	switch os {
	case OSMac:
		if s.Mac != "" {
			return s.Mac
		}
	case OSLinux:
		if s.Linux != "" {
			return s.Linux
		}
	case OSWindows:
		if s.Windows != "" {
			return s.Windows
		}
	}
	return s.Default
}

// Get returns the appropriate shortcut for the current OS
func (s ShortcutKey) Get() string {
	return s.For(GetOS())
}

// Matches reports whether key triggers the shortcut. The default binding
// stays active next to the OS variant, for terminals that pass it through.
func (s ShortcutKey) Matches(key string) bool {
	return key == s.Default || key == s.Get()
}

// Shortcuts are the editor's command keys. Ctrl+S is XOFF in many Linux and
// Windows terminals, so save gets an alt variant there.
var Shortcuts = struct {
	Save    ShortcutKey
	Reset   ShortcutKey
	Preview ShortcutKey
	Copy    ShortcutKey
	Cancel  ShortcutKey
	Quit    ShortcutKey
}{
	Save: ShortcutKey{
		Mac:     "ctrl+s",
		Linux:   "alt+s",
		Windows: "alt+s",
		Default: "ctrl+s",
	},
	Reset: ShortcutKey{
		Default: "ctrl+r",
	},
	Preview: ShortcutKey{
		Default: "ctrl+p",
	},
	Copy: ShortcutKey{
		Default: "ctrl+y",
	},
	Cancel: ShortcutKey{
		Default: "esc",
	},
	Quit: ShortcutKey{
		Default: "ctrl+c",
	},
}

// FormatShortcutForHelp formats a shortcut key for display in help text
func FormatShortcutForHelp(key ShortcutKey) string {
	return formatShortcut(key.Get(), GetOS())
}

func formatShortcut(shortcut string, os OSType) string {
	// M- is the usual terminal spelling of Alt outside macOS
	if slices.Contains([]OSType{OSLinux, OSWindows}, os) {
		shortcut = strings.ReplaceAll(shortcut, "alt+", "M-")
	} else {
		shortcut = strings.ReplaceAll(shortcut, "alt+", "⌥")
	}
	shortcut = strings.ReplaceAll(shortcut, "ctrl+", "^")
	shortcut = strings.ReplaceAll(shortcut, "shift+", "⇧")
	return shortcut
}

// GetTerminalSetupMessage returns OS-specific terminal setup instructions
func GetTerminalSetupMessage() string {
	switch GetOS() {
	case OSLinux:
		return "TIP: Run 'stty -ixon' to enable Ctrl+S in your terminal"
	case OSWindows:
		return "TIP: For best experience, use Windows Terminal or PowerShell"
	default:
		return ""
	}
}
