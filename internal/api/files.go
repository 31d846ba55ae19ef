package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	nethttp "net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/csvdesk/csvdesk/internal/constants"
	"github.com/csvdesk/csvdesk/internal/models"
	"github.com/csvdesk/csvdesk/internal/progress"
	"github.com/csvdesk/csvdesk/internal/util/buffers"
)

// ListFiles fetches the full file collection.
func (c *Client) ListFiles(ctx context.Context) ([]models.FileRecord, error) {
	resp, err := c.doRequest(ctx, nethttp.MethodGet, constants.FilesPath)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK {
		return nil, statusError("list files", resp)
	}

	var files []models.FileRecord
	if err := json.NewDecoder(resp.Body).Decode(&files); err != nil {
		return nil, fmt.Errorf("failed to decode file list: %w", err)
	}
	if files == nil {
		files = []models.FileRecord{}
	}

	return files, nil
}

// UploadRequest describes one file to upload.
type UploadRequest struct {
	// Name is sent as the multipart filename.
	Name string
	// Body is streamed; it is read exactly once.
	Body io.Reader
	// ContentType of the file part.
	ContentType string
	// OnProgress, if set, receives the number of file bytes sent so far.
	OnProgress func(sent int64)
	// IDField is sent as the id_field query parameter when not empty.
	IDField string
}

// UploadFile posts the file as multipart/form-data under the "file" field.
// The body is produced through an io.Pipe, so the file is never held in memory.
// 200 and 201 are success; any other status returns a *StatusError carrying
// the raw response text.
func (c *Client) UploadFile(ctx context.Context, ur UploadRequest) (*models.UploadResult, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeMultipart(mw, ur))
	}()

	req, err := c.newRequest(ctx, nethttp.MethodPost, uploadPath(ur.IDField), pr)
	if err != nil {
		pr.CloseWithError(err)
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.transferClient.Do(req)
	if err != nil {
		pr.CloseWithError(err)
		c.logger.Debug().Err(err).Str("file", ur.Name).Msg("Upload request failed")
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()
	// Unblock the writer goroutine if the server answered before reading everything.
	defer pr.Close()

	if resp.StatusCode != nethttp.StatusOK && resp.StatusCode != nethttp.StatusCreated {
		return nil, statusError("upload", resp)
	}

	var result models.UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil && err != io.EOF {
		// The status already says the upload worked; an odd body is only logged.
		c.logger.Warn().Err(err).Str("file", ur.Name).Msg("Could not decode upload response")
	}

	return &result, nil
}

// uploadPath adds the id_field parameter when the caller names a record key.
func uploadPath(idField string) string {
	if idField == "" {
		return constants.UploadPath
	}
	return constants.UploadPath + "?" + url.Values{"id_field": {idField}}.Encode()
}

func writeMultipart(mw *multipart.Writer, ur UploadRequest) error {
	contentType := ur.ContentType
	if contentType == "" {
		contentType = constants.UploadContentType
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
		"name":     constants.UploadFieldName,
		"filename": ur.Name,
	}))
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create multipart part: %w", err)
	}

	src := ur.Body
	if ur.OnProgress != nil {
		src = progress.NewReader(src, ur.OnProgress)
	}

	buf := buffers.GetCopyBuffer()
	defer buffers.PutCopyBuffer(buf)
	if _, err := io.CopyBuffer(part, src, *buf); err != nil {
		return fmt.Errorf("failed to stream file: %w", err)
	}

	return mw.Close()
}

// Download is an open file download. The caller must close Body.
type Download struct {
	Body io.ReadCloser
	// Size is the Content-Length, or -1 when unknown.
	Size int64
	// Filename proposed by the server's Content-Disposition, if any.
	Filename    string
	ContentType string
}

// DownloadFile opens the binary content of a file.
func (c *Client) DownloadFile(ctx context.Context, id string) (*Download, error) {
	resp, err := c.doRequest(ctx, nethttp.MethodGet, fmt.Sprintf(constants.DownloadPathFmt, url.PathEscape(id)))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != nethttp.StatusOK {
		defer resp.Body.Close()
		return nil, statusError("download", resp)
	}

	return &Download{
		Body:        resp.Body,
		Size:        resp.ContentLength,
		Filename:    dispositionFilename(resp.Header.Get("Content-Disposition")),
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// dispositionFilename extracts the filename parameter, tolerating the
// unquoted form some servers emit.
func dispositionFilename(header string) string {
	if header == "" {
		return ""
	}
	if _, params, err := mime.ParseMediaType(header); err == nil {
		return params["filename"]
	}
	if i := strings.Index(header, "filename="); i >= 0 {
		return strings.Trim(strings.TrimSpace(header[i+len("filename="):]), `"`)
	}
	return ""
}

// DeleteFile removes a file. Any 2xx status is success.
func (c *Client) DeleteFile(ctx context.Context, id string) error {
	resp, err := c.doRequest(ctx, nethttp.MethodDelete, fmt.Sprintf(constants.DeletePathFmt, url.PathEscape(id)))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError("delete", resp)
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Health queries the service health endpoint.
func (c *Client) Health(ctx context.Context) (*models.HealthStatus, error) {
	resp, err := c.doRequest(ctx, nethttp.MethodGet, constants.HealthPath)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK {
		return nil, statusError("health check", resp)
	}

	var status models.HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode health status: %w", err)
	}

	return &status, nil
}
