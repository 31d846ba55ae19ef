package buffers

import (
	"testing"

	"github.com/csvdesk/csvdesk/internal/constants"
)

func TestCopyBuffer(t *testing.T) {
	buf := GetCopyBuffer()
	if buf == nil {
		t.Fatal("GetCopyBuffer returned nil")
	}
	if len(*buf) != constants.DownloadBufferSize {
		t.Errorf("expected buffer of %d bytes, got %d", constants.DownloadBufferSize, len(*buf))
	}
	PutCopyBuffer(buf)

	// Wrong-size and nil buffers are ignored without panicking.
	small := make([]byte, 10)
	PutCopyBuffer(&small)
	PutCopyBuffer(nil)
}
