// Package localfs lists local files for the upload path input.
package localfs

import (
	"path/filepath"
	"strings"
)

// IsHidden reports whether the file at path is hidden (dot-prefixed base name).
func IsHidden(path string) bool {
	return IsHiddenName(filepath.Base(path))
}

// IsHiddenName reports whether name is a hidden entry. "." and ".." are not.
func IsHiddenName(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".")
}
