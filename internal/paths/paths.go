// Package paths resolves user-supplied file paths.
package paths

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// Expand resolves a leading ~ and environment variables in path. Paths that
// cannot be expanded are returned unchanged.
func Expand(path string) string {
	if path == "" {
		return ""
	}
	path = os.ExpandEnv(path)
	expanded, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return expanded
}

// Binary expands path when it names a file rather than a bare command
// looked up in PATH.
func Binary(path string) string {
	expanded := Expand(path)
	if expanded == path && filepath.Base(path) == path {
		return path
	}
	return filepath.Clean(expanded)
}
