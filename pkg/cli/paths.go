package cli

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultConfigFile is the config file name inside the config directory.
const DefaultConfigFile = "config.yaml"

// Paths resolves the directories an app keeps its files in.
//
// Config lives under os.UserConfigDir()/<app>. Data such as sound files
// lives under $XDG_DATA_HOME/<app>, or ~/.local/share/<app> when unset.
// Setting <APP>_CONFIG_DIR overrides the config directory.
type Paths struct {
	// AppName is the application name
	AppName string

	// HomeDir is the user's home directory
	HomeDir string

	// ConfigBase is the per-user config root, os.UserConfigDir()
	ConfigBase string
}

// NewPaths creates a new Paths instance for the given app
func NewPaths(appName string) (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return &Paths{
		AppName:    appName,
		HomeDir:    home,
		ConfigBase: base,
	}, nil
}

// EnvConfigDir is the environment variable overriding ConfigDir, e.g.
// CLACKER_CONFIG_DIR.
func (p *Paths) EnvConfigDir() string {
	return strings.ToUpper(p.AppName) + "_CONFIG_DIR"
}

// ConfigDir returns the app config directory
func (p *Paths) ConfigDir() string {
	if dir := os.Getenv(p.EnvConfigDir()); dir != "" {
		return dir
	}
	return filepath.Join(p.ConfigBase, p.AppName)
}

// ConfigFile returns the config file path
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.ConfigDir(), DefaultConfigFile)
}

// DataDir returns the app data directory
func (p *Paths) DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" && filepath.IsAbs(xdg) {
		return filepath.Join(xdg, p.AppName)
	}
	return filepath.Join(p.HomeDir, ".local", "share", p.AppName)
}

// EnsureConfigDir creates the config directory if it doesn't exist
func (p *Paths) EnsureConfigDir() error {
	return os.MkdirAll(p.ConfigDir(), 0755)
}

// ExpandHome replaces a leading ~ in path with the home directory.
func (p *Paths) ExpandHome(path string) string {
	if path == "~" {
		return p.HomeDir
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		return filepath.Join(p.HomeDir, rest)
	}
	return path
}
