// pkg/xdg/xdg.go

package xdg

import (
	"os"
	"path/filepath"
)

const (
	DirPermPrivate  = 0o700
	FilePermPrivate = 0o600
)

func GetEnvOrDefault(envVar, fallback string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return fallback
}

func XDGConfigPath(app, file string) string {
	base := GetEnvOrDefault("XDG_CONFIG_HOME", filepath.Join(os.Getenv("HOME"), ".config"))
	return filepath.Join(base, app, file)
}

func XDGStatePath(app, file string) string {
	base := GetEnvOrDefault("XDG_STATE_HOME", filepath.Join(os.Getenv("HOME"), ".local", "state"))
	return filepath.Join(base, app, file)
}

// EnsureDir creates the parent directory of path with private permissions.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), DirPermPrivate)
}
