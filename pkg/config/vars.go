package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "gnexpr"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/gnexpr by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/gnexpr by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// DataDir returns the directory path for local data, such as the
// annotation database.
// Returns ~/.local/share/gnexpr by default.
func DataDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/gnexpr/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(DataDir(homeDir), "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/gnexpr/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// AnnotationDBPath returns the path to the SQLite annotation database.
// Returns ~/.local/share/gnexpr/annotation.sqlite by default.
func AnnotationDBPath(homeDir string) string {
	return filepath.Join(DataDir(homeDir), "annotation.sqlite")
}
