package models

import (
	"strings"
)

// FileRecord is one uploaded file as reported by GET /api/v1/files/.
// ID is opaque and is the only thing used to address download/delete calls.
// Filename is display-only and may repeat across records.
type FileRecord struct {
	ID           string   `json:"id"`
	Filename     string   `json:"filename"`
	Status       string   `json:"status"`
	RecordsCount int      `json:"records_count"`
	Fields       []string `json:"fields,omitempty"`
}

// MatchesQuery reports whether the filename contains q, ignoring case.
// An empty query matches every record.
func (f FileRecord) MatchesQuery(q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(f.Filename), strings.ToLower(q))
}

// UploadResult is the body returned by POST /api/v1/files/upload on success.
type UploadResult struct {
	FileRecord
}

// HealthStatus is the body returned by GET /api/v1/health/.
type HealthStatus struct {
	Status string `json:"status"`
}
