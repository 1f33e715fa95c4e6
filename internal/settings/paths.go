package settings

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "vpinfe"

// ConfigDirEnv overrides the per-user configuration directory.
const ConfigDirEnv = "VPINFE_CONFIG_DIR"

// ConfigDir returns the per-user vpinfe configuration directory. Priority:
// 1) $VPINFE_CONFIG_DIR (if set)
// 2) os.UserConfigDir()/vpinfe
func ConfigDir() (string, error) {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	return filepath.Join(base, appName), nil
}

// EnsureConfigDir returns ConfigDir after creating it.
func EnsureConfigDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config dir: %w", err)
	}
	return dir, nil
}

// Paths locates the files vpinfe keeps in its configuration directory.
type Paths struct {
	Dir         string
	Settings    string
	Collections string
	Themes      string
}

// PathsIn returns the standard layout under dir.
func PathsIn(dir string) Paths {
	return Paths{
		Dir:         dir,
		Settings:    filepath.Join(dir, "vpinfe.ini"),
		Collections: filepath.Join(dir, "collections.ini"),
		Themes:      filepath.Join(dir, "themes"),
	}
}

// DefaultPaths returns PathsIn(ConfigDir()).
func DefaultPaths() (Paths, error) {
	dir, err := ConfigDir()
	if err != nil {
		return Paths{}, err
	}
	return PathsIn(dir), nil
}
