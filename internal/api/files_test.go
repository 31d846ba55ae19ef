package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csvdesk/csvdesk/internal/testutil"
)

func newFakeClient(t *testing.T) (*Client, *testutil.FakeServer) {
	t.Helper()
	srv := testutil.NewFakeServer(t)
	return NewClientWithHTTPClient(srv.URL, srv.Client(), nil), srv
}

func TestListFiles(t *testing.T) {
	client, srv := newFakeClient(t)
	srv.AddFile("b.csv", []byte("name,Ann\nage,3\nname,Bob\n"))
	srv.AddFile("a.csv", []byte("x,1\n"))

	files, err := client.ListFiles(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "a.csv", files[0].Filename)
	assert.Equal(t, "b.csv", files[1].Filename)
	assert.Equal(t, 2, files[1].RecordsCount)
	assert.Equal(t, []string{"name", "age"}, files[1].Fields)
	assert.Equal(t, "processed", files[1].Status)
	assert.NotEmpty(t, files[0].ID)
}

func TestListFiles_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("null"))
	}))
	defer srv.Close()

	files, err := NewClientWithHTTPClient(srv.URL, srv.Client(), nil).ListFiles(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, files)
	assert.Empty(t, files)
}

func TestListFiles_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	_, err := NewClientWithHTTPClient(srv.URL, srv.Client(), nil).ListFiles(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode file list")
}

func TestUploadFile(t *testing.T) {
	client, srv := newFakeClient(t)
	content := []byte("0123456789")

	var progress []int64
	result, err := client.UploadFile(context.Background(), UploadRequest{
		Name:        "a.csv",
		Body:        bytes.NewReader(content),
		ContentType: "text/csv",
		OnProgress:  func(sent int64) { progress = append(progress, sent) },
	})
	require.NoError(t, err)
	assert.Equal(t, "a.csv", result.Filename)
	assert.NotEmpty(t, result.ID)

	uploads := srv.Uploads()
	require.Len(t, uploads, 1)
	assert.Equal(t, []string{"file"}, uploads[0].FieldNames)
	assert.Equal(t, "a.csv", uploads[0].FileName)
	assert.Equal(t, "text/csv", uploads[0].ContentType)
	assert.Equal(t, content, uploads[0].Content)

	require.NotEmpty(t, progress)
	assert.Equal(t, int64(10), progress[len(progress)-1])
	assert.Equal(t, 1, srv.CountRequests(http.MethodPost, "/api/v1/files/upload"))
}

func TestUploadFile_Created(t *testing.T) {
	client, srv := newFakeClient(t)
	srv.SetUploadStatus(http.StatusCreated)

	_, err := client.UploadFile(context.Background(), UploadRequest{Name: "a.csv", Body: strings.NewReader("x,1\n")})
	assert.NoError(t, err)
}

func TestUploadFile_ServerRejects(t *testing.T) {
	client, srv := newFakeClient(t)
	srv.Fail(testutil.OpUpload, http.StatusBadRequest, "Invalid CSV content type.")

	_, err := client.UploadFile(context.Background(), UploadRequest{Name: "a.csv", Body: strings.NewReader("x,1\n")})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
	assert.Equal(t, "Invalid CSV content type.", ResponseBody(err))
}

func TestUploadFile_DefaultsContentType(t *testing.T) {
	client, srv := newFakeClient(t)

	_, err := client.UploadFile(context.Background(), UploadRequest{Name: "a.csv", Body: strings.NewReader("x,1\n")})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", srv.Uploads()[0].ContentType)
}

func TestUploadFile_IDField(t *testing.T) {
	client, srv := newFakeClient(t)
	content := "id,1\nname,a\nname,b\nid,2\nname,c\n"

	result, err := client.UploadFile(context.Background(), UploadRequest{
		Name:    "a.csv",
		Body:    strings.NewReader(content),
		IDField: "id",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.RecordsCount)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/api/v1/files/upload", reqs[0].Path)
	assert.Equal(t, "id_field=id", reqs[0].Query)
}

func TestUploadFile_NoIDFieldSendsNoQuery(t *testing.T) {
	client, srv := newFakeClient(t)

	result, err := client.UploadFile(context.Background(), UploadRequest{
		Name: "a.csv",
		Body: strings.NewReader("id,1\nname,a\nname,b\nid,2\nname,c\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.RecordsCount)
	assert.Empty(t, srv.Requests()[0].Query)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestUploadFile_ReadError(t *testing.T) {
	client, srv := newFakeClient(t)

	_, err := client.UploadFile(context.Background(), UploadRequest{Name: "a.csv", Body: failingReader{}})
	require.Error(t, err)
	assert.Empty(t, srv.Files(), "a truncated body must not create a file")
}

func TestDownloadFile(t *testing.T) {
	client, srv := newFakeClient(t)
	rec := srv.AddFile("report.csv", []byte("a,1\nb,2\n"))

	dl, err := client.DownloadFile(context.Background(), rec.ID)
	require.NoError(t, err)
	defer dl.Body.Close()

	data, err := io.ReadAll(dl.Body)
	require.NoError(t, err)
	assert.Equal(t, "a,1\nb,2\n", string(data))
	assert.Equal(t, "report.csv", dl.Filename)
	assert.Contains(t, dl.ContentType, "text/csv")
}

func TestDownloadFile_NotFound(t *testing.T) {
	client, _ := newFakeClient(t)

	_, err := client.DownloadFile(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, ResponseBody(err), "File not found")
}

func TestDeleteFile(t *testing.T) {
	client, srv := newFakeClient(t)
	rec := srv.AddFile("a.csv", []byte("x,1\n"))

	require.NoError(t, client.DeleteFile(context.Background(), rec.ID))
	assert.Empty(t, srv.Files())

	err := client.DeleteFile(context.Background(), rec.ID)
	assert.True(t, IsNotFound(err))
}

func TestDeleteFile_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := NewClientWithHTTPClient(srv.URL, srv.Client(), nil).DeleteFile(context.Background(), "id")
	assert.NoError(t, err)
}

func TestDeleteFile_EscapesID(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := NewClientWithHTTPClient(srv.URL, srv.Client(), nil).DeleteFile(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/files/a%2Fb", gotPath)
}

func TestHealth(t *testing.T) {
	client, srv := newFakeClient(t)

	status, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", status.Status)

	srv.Fail(testutil.OpHealth, http.StatusInternalServerError, "db down")
	_, err = client.Health(context.Background())
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
}

func TestDispositionFilename(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{`attachment; filename="report.csv"`, "report.csv"},
		{"attachment; filename=report.csv", "report.csv"},
		{"attachment; filename=my report.csv", "my report.csv"},
		{"inline", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, dispositionFilename(tt.header), tt.header)
	}
}
