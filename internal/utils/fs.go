package utils

import (
	"os"
	"path/filepath"

	"github.com/oszuidwest/zwfm-sessionguard/internal/constants"
)

// EnsureDir creates a directory and all parent directories if they don't exist
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, constants.DirPermissions)
}

// SessionDir constructs the directory path for a named capture session
func SessionDir(recordingsDir, sessionName string) string {
	return filepath.Join(recordingsDir, sessionName)
}
