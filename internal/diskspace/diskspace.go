// Package diskspace checks free space on the filesystem a download will be
// written to.
package diskspace

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
)

// InsufficientSpaceError indicates that there is not enough disk space available.
type InsufficientSpaceError struct {
	Path           string
	RequiredBytes  int64
	AvailableBytes int64
}

func (e *InsufficientSpaceError) Error() string {
	return fmt.Sprintf("insufficient disk space for %s: need %s, have %s available",
		e.Path, humanize.IBytes(uint64(e.RequiredBytes)), humanize.IBytes(uint64(e.AvailableBytes)))
}

// CheckAvailableSpace checks if there is sufficient disk space available for a file operation.
// It checks the filesystem where targetPath will be created; targetPath itself need not exist.
//
// safetyMargin is a multiplier (1.1 for a 10% buffer). If free space cannot be
// determined the check passes and the write is left to fail on its own.
func CheckAvailableSpace(targetPath string, requiredBytes int64, safetyMargin float64) error {
	return checkSpace(targetPath, requiredBytes, safetyMargin, availableBytes)
}

func checkSpace(targetPath string, requiredBytes int64, safetyMargin float64, available func(dir string) (int64, error)) error {
	if requiredBytes <= 0 {
		return nil
	}

	availableBytes, err := available(filepath.Dir(targetPath))
	if err != nil {
		return nil
	}

	requiredWithMargin := int64(float64(requiredBytes) * safetyMargin)
	if availableBytes < requiredWithMargin {
		return &InsufficientSpaceError{
			Path:           targetPath,
			RequiredBytes:  requiredWithMargin,
			AvailableBytes: availableBytes,
		}
	}

	return nil
}

// IsInsufficientSpaceError checks if an error is an InsufficientSpaceError
func IsInsufficientSpaceError(err error) bool {
	var target *InsufficientSpaceError
	return errors.As(err, &target)
}
