// Package testutil provides an in-process fake of the CSV file service and
// other helpers shared by package tests.
package testutil

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/csvdesk/csvdesk/internal/models"
)

// Operation names used for failure injection.
const (
	OpList     = "list"
	OpUpload   = "upload"
	OpDownload = "download"
	OpDelete   = "delete"
	OpHealth   = "health"
)

// RecordedRequest is one request seen by the fake server.
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
}

// ReceivedUpload describes a multipart upload the server accepted or rejected.
type ReceivedUpload struct {
	FieldNames  []string
	FileName    string
	ContentType string
	Content     []byte
}

type failure struct {
	status int
	body   string
}

type storedFile struct {
	record  models.FileRecord
	content []byte
}

// FakeServer mimics the file service's REST API.
type FakeServer struct {
	*httptest.Server
	echo *echo.Echo

	mu       sync.Mutex
	files    []*storedFile // newest first, like the real listing
	requests []RecordedRequest
	uploads  []ReceivedUpload
	failures map[string]failure

	uploadStatus int
}

// NewFakeServer starts a fake service that is shut down when the test ends.
func NewFakeServer(t testing.TB) *FakeServer {
	t.Helper()

	fs := &FakeServer{
		failures:     make(map[string]failure),
		uploadStatus: http.StatusOK,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(fs.record)

	api := e.Group("/api/v1")
	api.GET("/health/", fs.handleHealth)
	api.GET("/files/", fs.handleList)
	api.POST("/files/upload", fs.handleUpload)
	api.GET("/files/:id/download", fs.handleDownload)
	api.DELETE("/files/:id", fs.handleDelete)

	fs.echo = e
	fs.Server = httptest.NewServer(e)
	t.Cleanup(fs.Close)

	return fs
}

// AddFile stores a file and returns its record.
func (fs *FakeServer) AddFile(name string, content []byte) models.FileRecord {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.addLocked(name, content, "")
}

// Seed adds n files named file01.csv, file02.csv, ... in listing order.
func (fs *FakeServer) Seed(n int) []models.FileRecord {
	for i := n; i >= 1; i-- {
		fs.AddFile(fmt.Sprintf("file%02d.csv", i), []byte("name,value\n"))
	}
	return fs.Files()
}

func (fs *FakeServer) addLocked(name string, content []byte, idField string) models.FileRecord {
	fields, count := summarize(content, idField)
	sf := &storedFile{
		record: models.FileRecord{
			ID:           uuid.NewString(),
			Filename:     name,
			Status:       "processed",
			RecordsCount: count,
			Fields:       fields,
		},
		content: content,
	}
	fs.files = append([]*storedFile{sf}, fs.files...)
	return sf.record
}

// Files returns the current collection in listing order.
func (fs *FakeServer) Files() []models.FileRecord {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make([]models.FileRecord, len(fs.files))
	for i, f := range fs.files {
		out[i] = f.record
	}
	return out
}

// Fail makes every request for op answer with status and body until Recover.
func (fs *FakeServer) Fail(op string, status int, body string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.failures[op] = failure{status: status, body: body}
}

// Recover clears an injected failure.
func (fs *FakeServer) Recover(op string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	delete(fs.failures, op)
}

// SetUploadStatus sets the status used for accepted uploads (200 by default).
func (fs *FakeServer) SetUploadStatus(status int) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.uploadStatus = status
}

// Requests returns every request seen so far.
func (fs *FakeServer) Requests() []RecordedRequest {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]RecordedRequest(nil), fs.requests...)
}

// CountRequests counts requests with the given method whose path starts with prefix.
func (fs *FakeServer) CountRequests(method, prefix string) int {
	n := 0
	for _, r := range fs.Requests() {
		if r.Method == method && strings.HasPrefix(r.Path, prefix) {
			n++
		}
	}
	return n
}

// Uploads returns the multipart uploads received so far.
func (fs *FakeServer) Uploads() []ReceivedUpload {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]ReceivedUpload(nil), fs.uploads...)
}

func (fs *FakeServer) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		fs.mu.Lock()
		fs.requests = append(fs.requests, RecordedRequest{
			Method: c.Request().Method,
			Path:   c.Request().URL.Path,
			Query:  c.Request().URL.RawQuery,
		})
		fs.mu.Unlock()
		return next(c)
	}
}

// injected answers with an injected failure, if any.
func (fs *FakeServer) injected(c echo.Context, op string) (bool, error) {
	fs.mu.Lock()
	f, ok := fs.failures[op]
	fs.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, c.String(f.status, f.body)
}

func detail(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"detail": msg})
}

func (fs *FakeServer) handleHealth(c echo.Context) error {
	if done, err := fs.injected(c, OpHealth); done {
		return err
	}
	return c.JSON(http.StatusOK, models.HealthStatus{Status: "ok"})
}

func (fs *FakeServer) handleList(c echo.Context) error {
	if done, err := fs.injected(c, OpList); done {
		return err
	}
	return c.JSON(http.StatusOK, fs.Files())
}

func (fs *FakeServer) handleUpload(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return detail(c, http.StatusBadRequest, "Invalid multipart body")
	}

	received := ReceivedUpload{}
	for name := range form.File {
		received.FieldNames = append(received.FieldNames, name)
	}

	headers := form.File["file"]
	if len(headers) == 1 {
		fh := headers[0]
		received.FileName = fh.Filename
		received.ContentType = fh.Header.Get("Content-Type")
		if src, err := fh.Open(); err == nil {
			received.Content, _ = io.ReadAll(src)
			src.Close()
		}
	}

	fs.mu.Lock()
	fs.uploads = append(fs.uploads, received)
	fs.mu.Unlock()

	if done, err := fs.injected(c, OpUpload); done {
		return err
	}

	if len(headers) != 1 {
		return detail(c, http.StatusUnprocessableEntity, "field required: file")
	}
	if !strings.HasSuffix(strings.ToLower(received.FileName), ".csv") {
		return detail(c, http.StatusBadRequest, "Invalid file type. Only CSV allowed.")
	}
	if received.ContentType != "text/csv" && received.ContentType != "application/vnd.ms-excel" {
		return detail(c, http.StatusBadRequest, "Invalid CSV content type.")
	}

	fs.mu.Lock()
	rec := fs.addLocked(received.FileName, received.Content, c.QueryParam("id_field"))
	status := fs.uploadStatus
	fs.mu.Unlock()

	return c.JSON(status, models.UploadResult{FileRecord: rec})
}

func (fs *FakeServer) handleDownload(c echo.Context) error {
	if done, err := fs.injected(c, OpDownload); done {
		return err
	}

	f := fs.find(c.Param("id"))
	if f == nil {
		return detail(c, http.StatusNotFound, "File not found")
	}

	c.Response().Header().Set("Content-Disposition", "attachment; filename="+f.record.Filename)
	return c.Stream(http.StatusOK, "text/csv", bytes.NewReader(f.content))
}

func (fs *FakeServer) handleDelete(c echo.Context) error {
	if done, err := fs.injected(c, OpDelete); done {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	id := c.Param("id")
	for i, f := range fs.files {
		if f.record.ID == id {
			fs.files = append(fs.files[:i], fs.files[i+1:]...)
			return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
		}
	}
	return detail(c, http.StatusNotFound, "File not found")
}

func (fs *FakeServer) find(id string) *storedFile {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for _, f := range fs.files {
		if f.record.ID == id {
			return f
		}
	}
	return nil
}

// summarize reads key,value rows the way the service does: a record ends when
// idField starts a new one or, without idField, when a field repeats.
func summarize(content []byte, idField string) ([]string, int) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))))
	r.FieldsPerRecord = -1

	seen := map[string]bool{}
	var fields []string
	current := map[string]bool{}
	records := 0

	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			break
		}
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}
		field := strings.TrimSpace(row[0])
		if !seen[field] {
			seen[field] = true
			fields = append(fields, field)
		}

		startsNew := (idField != "" && field == idField && len(current) > 0) ||
			(idField == "" && current[field])
		if startsNew {
			records++
			current = map[string]bool{}
		}
		current[field] = true
	}
	if len(current) > 0 {
		records++
	}

	return fields, records
}
