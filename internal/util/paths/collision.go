// Package paths provides utilities for file path handling in downloads.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/csvdesk/csvdesk/internal/constants"
)

// ErrNoFreeName is returned when every suffixed candidate already exists.
var ErrNoFreeName = errors.New("no free file name available")

// UniquePath returns path unchanged if nothing exists there, otherwise the first
// "name (N).ext" variant that is free, the way browsers name repeated downloads.
//
// Example: report.csv, report (1).csv, report (2).csv, ...
func UniquePath(path string) (string, error) {
	return uniquePath(path, exists)
}

func uniquePath(path string, exists func(string) bool) (string, error) {
	if !exists(path) {
		return path, nil
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for i := 1; i <= constants.MaxCollisionSuffix; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
		if !exists(candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w for %s", ErrNoFreeName, path)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
