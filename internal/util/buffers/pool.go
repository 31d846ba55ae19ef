// Package buffers provides reusable copy buffers for downloads.
package buffers

import (
	"sync"

	"github.com/csvdesk/csvdesk/internal/constants"
)

var copyPool = &sync.Pool{
	New: func() interface{} {
		buf := make([]byte, constants.DownloadBufferSize)
		return &buf
	},
}

// GetCopyBuffer retrieves a buffer from the pool.
// Return it with PutCopyBuffer when done.
//
// Usage:
//
//	buf := buffers.GetCopyBuffer()
//	defer buffers.PutCopyBuffer(buf)
//	n, err := io.CopyBuffer(dst, src, *buf)
func GetCopyBuffer() *[]byte {
	return copyPool.Get().(*[]byte)
}

// PutCopyBuffer returns a buffer to the pool.
// Only buffers of the pool's size are kept.
func PutCopyBuffer(buf *[]byte) {
	if buf != nil && len(*buf) == constants.DownloadBufferSize {
		copyPool.Put(buf)
	}
}
