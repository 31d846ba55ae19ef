package upload

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/csvdesk/csvdesk/internal/pathutil"
)

// Selection is the file chosen for upload.
type Selection struct {
	// Name is sent to the server as the multipart filename.
	Name string
	// Size in bytes; checked against the upload limit before anything is sent.
	Size int64
	// Open returns a fresh reader over the content. It may be called more than once.
	Open func() (io.ReadCloser, error)
	// IDField, if set, tells the server which field starts a new record.
	IDField string
}

// SelectionFromPath builds a Selection for a local file. A leading "~" is expanded.
func SelectionFromPath(path string) (*Selection, error) {
	path = pathutil.ExpandHome(path)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	return &Selection{
		Name: filepath.Base(path),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// SelectionFromBytes builds an in-memory Selection.
func SelectionFromBytes(name string, data []byte) *Selection {
	return &Selection{
		Name: name,
		Size: int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}
