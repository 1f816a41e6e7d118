// Package config handles heartline configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/henri123lemoine/heartline/internal/lock"
	"github.com/henri123lemoine/heartline/internal/theme"
)

// Config represents heartline configuration.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Lock    LockConfig    `toml:"lock"`
	UI      UIConfig      `toml:"ui"`
	Script  ScriptConfig  `toml:"script"`
	Export  ExportConfig  `toml:"export"`
	Editor  EditorConfig  `toml:"editor"`
	Keys    KeysConfig    `toml:"keys"`
}

// StorageConfig contains persistence settings.
type StorageConfig struct {
	// Backend: "file" (one JSON file per list) or "sqlite"
	Backend string `toml:"backend"`

	// Directory holding the data (empty = user data dir)
	DataDir string `toml:"data_dir"`

	// Reload when another process changes the data
	Watch bool `toml:"watch"`
}

// LockConfig contains settings for the edit/delete gate.
type LockConfig struct {
	// Phrase that reveals edit and delete controls.
	// This is not a security boundary.
	Passphrase string `toml:"passphrase"`
}

// UIConfig contains UI settings.
type UIConfig struct {
	// Theme used when none has been picked yet
	Theme string `toml:"theme"`

	// Characters of a chapter shown in the list
	PreviewLength int `toml:"preview_length"`

	// Render chapters as markdown in the viewer
	Markdown bool `toml:"markdown"`
}

// ScriptConfig contains theme script settings.
type ScriptConfig struct {
	// Allow running theme scripts
	Enabled bool `toml:"enabled"`

	// Maximum run time, e.g. "2s"
	Timeout string `toml:"timeout"`
}

// ExportConfig contains export/import settings.
type ExportConfig struct {
	// Default file for export and import
	Path string `toml:"path"`
}

// EditorConfig contains external editor settings.
type EditorConfig struct {
	// Command used to write chapters (empty = $VISUAL, $EDITOR, then vi)
	// Template variables: {path}
	Command string `toml:"command"`
}

// KeysConfig contains keybinding settings.
type KeysConfig struct {
	Up       string `toml:"up"`
	Down     string `toml:"down"`
	Home     string `toml:"home"`
	End      string `toml:"end"`
	NextPane string `toml:"next_pane"`
	PrevPane string `toml:"prev_pane"`
	New      string `toml:"new"`
	Toggle   string `toml:"toggle"`
	Delete   string `toml:"delete"`
	Edit     string `toml:"edit"`
	View     string `toml:"view"`
	Unlock   string `toml:"unlock"`
	Themes   string `toml:"themes"`
	Script   string `toml:"script"`
	Export   string `toml:"export"`
	Import   string `toml:"import"`
	Filter   string `toml:"filter"`
	Help     string `toml:"help"`
	Quit     string `toml:"quit"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: "file",
			DataDir: "",
			Watch:   true,
		},
		Lock: LockConfig{
			Passphrase: lock.DefaultPassphrase,
		},
		UI: UIConfig{
			Theme:         theme.Default,
			PreviewLength: 50,
			Markdown:      true,
		},
		Script: ScriptConfig{
			Enabled: true,
			Timeout: "2s",
		},
		Export: ExportConfig{
			Path: "heartline-export.json",
		},
		Editor: EditorConfig{
			Command: "",
		},
		Keys: KeysConfig{
			Up:       "up,k",
			Down:     "down,j",
			Home:     "home,g",
			End:      "end,G",
			NextPane: "tab",
			PrevPane: "shift+tab",
			New:      "n",
			Toggle:   "x,space",
			Delete:   "d",
			Edit:     "e",
			View:     "enter",
			Unlock:   "u",
			Themes:   "t",
			Script:   "s",
			Export:   "E",
			Import:   "I",
			Filter:   "/",
			Help:     "?",
			Quit:     "q,ctrl+c",
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses ~/.config/heartline/config.toml (XDG style) on all Unix systems.
func ConfigPath() string {
	// Respect XDG_CONFIG_HOME if set
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "heartline", "config.toml")
	}
	// Default to ~/.config on Unix (including macOS)
	home := os.Getenv("HOME")
	if home != "" {
		return filepath.Join(home, ".config", "heartline", "config.toml")
	}
	// Fallback to os.UserConfigDir() for Windows
	configDir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "heartline", "config.toml")
	}
	return filepath.Join(configDir, "heartline", "config.toml")
}

// DataDir returns the configured data directory, or the XDG data dir.
func (c *Config) DataDir() string {
	if c.Storage.DataDir != "" {
		return expandHome(c.Storage.DataDir)
	}
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "heartline")
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".local", "share", "heartline")
	}
	return filepath.Join(".", "heartline-data")
}

// ExportPath returns the default export file with ~ expanded.
func (c *Config) ExportPath() string {
	return expandHome(c.Export.Path)
}

// ScriptTimeout parses Script.Timeout, falling back to two seconds.
func (c *Config) ScriptTimeout() time.Duration {
	d, err := time.ParseDuration(c.Script.Timeout)
	if err != nil || d <= 0 {
		return 2 * time.Second
	}
	return d
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// IsFirstRun returns true if no config file exists.
func IsFirstRun() bool {
	_, err := os.Stat(ConfigPath())
	return os.IsNotExist(err)
}

// Load loads configuration from the config file.
func Load() (*Config, error) {
	return LoadFromPath(ConfigPath())
}

// LoadFromPath loads configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file, use defaults
			return cfg, nil
		}
		return nil, err
	}

	// go-toml/v2 only overwrites fields present in the TOML file,
	// preserving defaults for unspecified fields (including booleans).
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// CreateDefaultConfigFile creates a default config file with comments.
func CreateDefaultConfigFile() error {
	return WriteDefaultConfigFile(ConfigPath())
}

// WriteDefaultConfigFile writes the commented default config to path.
func WriteDefaultConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(generateDefaultConfigContent()), 0644)
}

// generateDefaultConfigContent generates a commented config file.
func generateDefaultConfigContent() string {
	var b strings.Builder
	cfg := DefaultConfig()

	b.WriteString("# heartline configuration\n\n")

	b.WriteString("[storage]\n")
	b.WriteString("# \"file\" keeps one JSON file per list, \"sqlite\" a single database\n")
	fmt.Fprintf(&b, "backend = %q\n", cfg.Storage.Backend)
	b.WriteString("# Where data lives (default: $XDG_DATA_HOME/heartline)\n")
	b.WriteString("# data_dir = \"~/journal\"\n")
	b.WriteString("# Reload when another heartline changes the data\n")
	fmt.Fprintf(&b, "watch = %v\n\n", cfg.Storage.Watch)

	b.WriteString("[lock]\n")
	b.WriteString("# Reveals edit and delete controls. This hides buttons, it protects nothing.\n")
	fmt.Fprintf(&b, "passphrase = %q\n\n", cfg.Lock.Passphrase)

	b.WriteString("[ui]\n")
	b.WriteString("# Theme used until one is picked: " + strings.Join(theme.IDs(), ", ") + "\n")
	fmt.Fprintf(&b, "theme = %q\n", cfg.UI.Theme)
	b.WriteString("# Characters of a chapter shown in the list\n")
	fmt.Fprintf(&b, "preview_length = %d\n", cfg.UI.PreviewLength)
	b.WriteString("# Render chapters as markdown when viewing\n")
	fmt.Fprintf(&b, "markdown = %v\n\n", cfg.UI.Markdown)

	b.WriteString("[script]\n")
	b.WriteString("# Theme scripts run Go code in an interpreter with access to a small\n")
	b.WriteString("# stdlib subset and the heartline package. Disable if unwanted.\n")
	fmt.Fprintf(&b, "enabled = %v\n", cfg.Script.Enabled)
	fmt.Fprintf(&b, "timeout = %q\n\n", cfg.Script.Timeout)

	b.WriteString("[export]\n")
	b.WriteString("# Default file for export/import\n")
	fmt.Fprintf(&b, "path = %q\n\n", cfg.Export.Path)

	b.WriteString("[editor]\n")
	b.WriteString("# Command used to write chapters (default: $VISUAL, $EDITOR, vi)\n")
	b.WriteString("# Template variables: {path}\n")
	b.WriteString("# command = \"nvim {path}\"\n\n")

	b.WriteString("[keys]\n")
	b.WriteString("# Keybindings (comma-separated for multiple keys)\n")
	fmt.Fprintf(&b, "# up = %q\n", cfg.Keys.Up)
	fmt.Fprintf(&b, "# down = %q\n", cfg.Keys.Down)
	fmt.Fprintf(&b, "# next_pane = %q\n", cfg.Keys.NextPane)
	fmt.Fprintf(&b, "# new = %q\n", cfg.Keys.New)
	fmt.Fprintf(&b, "# toggle = %q\n", cfg.Keys.Toggle)
	fmt.Fprintf(&b, "# delete = %q\n", cfg.Keys.Delete)
	fmt.Fprintf(&b, "# edit = %q\n", cfg.Keys.Edit)
	fmt.Fprintf(&b, "# unlock = %q\n", cfg.Keys.Unlock)
	fmt.Fprintf(&b, "# themes = %q\n", cfg.Keys.Themes)
	fmt.Fprintf(&b, "# filter = %q\n", cfg.Keys.Filter)
	fmt.Fprintf(&b, "# help = %q\n", cfg.Keys.Help)
	fmt.Fprintf(&b, "# quit = %q\n", cfg.Keys.Quit)

	return b.String()
}

// Validate validates the configuration and returns warnings.
func (c *Config) Validate() []string {
	var warnings []string

	if c.Storage.Backend != "" &&
		c.Storage.Backend != "file" &&
		c.Storage.Backend != "sqlite" {
		warnings = append(warnings, fmt.Sprintf("Invalid value for storage.backend: %s (expected file or sqlite)", c.Storage.Backend))
	}

	if c.Lock.Passphrase == "" {
		warnings = append(warnings, "lock.passphrase is empty: an empty input will unlock")
	}

	if c.UI.Theme != "" && !theme.Valid(c.UI.Theme) {
		warnings = append(warnings, fmt.Sprintf("Unknown ui.theme: %s (expected one of %s)", c.UI.Theme, strings.Join(theme.IDs(), ", ")))
	}

	if c.UI.PreviewLength < 0 {
		warnings = append(warnings, fmt.Sprintf("ui.preview_length must not be negative, got %d", c.UI.PreviewLength))
	}

	if c.Script.Timeout != "" {
		if d, err := time.ParseDuration(c.Script.Timeout); err != nil || d <= 0 {
			warnings = append(warnings, fmt.Sprintf("Invalid value for script.timeout: %s (expected a duration like 2s)", c.Script.Timeout))
		}
	}

	// Check template variables in the editor command
	for _, v := range extractTemplateVars(c.Editor.Command) {
		if v != "{path}" {
			warnings = append(warnings, fmt.Sprintf("Unknown template variable in editor.command: %s", v))
		}
	}

	return warnings
}

// extractTemplateVars extracts template variables from a string.
func extractTemplateVars(s string) []string {
	re := regexp.MustCompile(`\{[^}]+\}`)
	return re.FindAllString(s, -1)
}
