// Package filex has small filesystem helpers shared by the client.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureSubDir creates (if needed) the named subdirectory of the current
// working directory and returns its absolute path.
func EnsureSubDir(dirName string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// ResolveDataFile places a bare file name inside the given data subdirectory
// of the working directory, creating the directory if needed. Absolute paths,
// paths already containing a separator, and DSN-style names with a scheme
// pass through untouched.
func ResolveDataFile(dirName, name string) (string, error) {
	if filepath.IsAbs(name) || filepath.Dir(name) != "." || strings.Contains(name, ":") {
		return name, nil
	}
	dir, err := EnsureSubDir(dirName)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
