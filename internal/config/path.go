package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// DefaultDataPath is where the store lives when storage.path is unset.
func DefaultDataPath(backend string) string {
	name := "bolso.db"
	if backend == "file" {
		name = "bolso.json"
	}
	return filepath.Join("~", ".local", "share", "bolso", name)
}
