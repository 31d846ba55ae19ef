// Package api is the REST client for the CSV file service.
package api

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound matches any StatusError with status 404.
var ErrNotFound = errors.New("not found")

// StatusError is returned when the server answers with an unexpected status.
// Body keeps the raw response text for user-facing messages.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed: status %d: %s", e.Op, e.StatusCode, strings.TrimRight(e.Body, "\r\n"))
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == 404
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StatusCode extracts the HTTP status from err, or 0 if err is not a StatusError.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// ResponseBody extracts the raw response text from err, or "" if err is not a StatusError.
func ResponseBody(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Body
	}
	return ""
}
