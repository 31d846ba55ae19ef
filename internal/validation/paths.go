// Package validation checks names and paths that come from the server or the
// user before they touch the local filesystem.
package validation

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidateFilename validates a single file name (not a path).
// It rejects empty names, null bytes, path separators and "..".
func ValidateFilename(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	if strings.ContainsRune(filename, 0) {
		return fmt.Errorf("filename contains null byte: %q", filename)
	}

	if strings.ContainsAny(filename, `/\`) {
		return fmt.Errorf("filename cannot contain path separators: %s", filename)
	}

	// Separators are already rejected, so only the bare ".." remains dangerous.
	// Names like "data..v2.csv" are fine.
	if filename == ".." || filename == "." {
		return fmt.Errorf("filename cannot be %q", filename)
	}

	return nil
}

// ValidatePathInDirectory validates that path, once resolved against baseDir,
// stays inside baseDir.
//
// Example:
//
//	ValidatePathInDirectory("../../etc/passwd", "/tmp/downloads") // error
//	ValidatePathInDirectory("report.csv", "/tmp/downloads")      // ok
func ValidatePathInDirectory(path string, baseDir string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if baseDir == "" {
		return fmt.Errorf("base directory cannot be empty")
	}

	cleanBase, err := filepath.Abs(filepath.Clean(baseDir))
	if err != nil {
		return fmt.Errorf("failed to resolve base directory: %w", err)
	}

	resolvedPath := filepath.Clean(path)
	if !filepath.IsAbs(resolvedPath) {
		resolvedPath = filepath.Join(cleanBase, resolvedPath)
	}

	relPath, err := filepath.Rel(cleanBase, resolvedPath)
	if err != nil {
		return fmt.Errorf("failed to compute relative path: %w", err)
	}

	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path escapes base directory: %s (base: %s)", path, baseDir)
	}

	return nil
}

// JoinInDirectory validates filename and returns it joined onto baseDir.
func JoinInDirectory(baseDir, filename string) (string, error) {
	if err := ValidateFilename(filename); err != nil {
		return "", err
	}
	if baseDir == "" {
		baseDir = "."
	}
	joined := filepath.Join(baseDir, filename)
	if err := ValidatePathInDirectory(joined, baseDir); err != nil {
		return "", err
	}
	return joined, nil
}
