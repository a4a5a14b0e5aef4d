// Package filex has small filesystem helpers for local, short-lived files
// such as image previews.
package filex

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// EnsureSubdDir creates parent/dirName (parent defaults to the working
// directory) with owner/group permissions and returns its path.
func EnsureSubdDir(parent, dirName string) (string, error) {
	if parent == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		parent = cwd
	}

	dir := filepath.Join(parent, dirName)

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// CopyToTemp streams r into a new file in dir whose name ends with suffix
// and returns the file path. The partial file is removed on error.
func CopyToTemp(dir, suffix string, r io.Reader) (string, error) {
	f, err := os.CreateTemp(dir, "*"+suffix)
	if err != nil {
		return "", fmt.Errorf("create temp: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("copy to %s: %w", f.Name(), err)
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close %s: %w", f.Name(), err)
	}

	return f.Name(), nil
}
