package constants

import (
	"time"
)

// Listing view
const (
	// PageSize - number of file rows shown per page in every listing view.
	// Fixed; not configurable.
	PageSize = 5
)

// Upload policy
const (
	// MaxUploadSize - largest file accepted for upload (50 MiB).
	// Must match the server's own limit; the client rejects earlier so no bytes are sent.
	MaxUploadSize = 50 * 1024 * 1024

	// RequiredExtension - uploads must end with this exact, case-sensitive suffix.
	RequiredExtension = ".csv"

	// UploadFieldName - multipart form field carrying the file content.
	UploadFieldName = "file"

	// UploadContentType - part content type sent for CSV uploads.
	// The server accepts text/csv and application/vnd.ms-excel.
	UploadContentType = "text/csv"
)

// REST endpoints (relative to the configured base URL)
const (
	FilesPath        = "/api/v1/files/"
	UploadPath       = "/api/v1/files/upload"
	DownloadPathFmt  = "/api/v1/files/%s/download"
	DeletePathFmt    = "/api/v1/files/%s"
	HealthPath       = "/api/v1/health/"
	DefaultServerURL = "http://localhost:8000"
)

// Event bus
const (
	// EventBusDefaultBuffer - default buffer size for event channels
	// Progress events fire on every read, so the buffer is sized for bursts.
	EventBusDefaultBuffer = 1000

	// EventBusMaxBuffer - maximum buffer size for high-throughput scenarios
	EventBusMaxBuffer = 5000
)

// Downloads
const (
	// DiskSpaceSafetyMargin - multiplier applied to Content-Length before checking free space.
	DiskSpaceSafetyMargin = 1.1

	// DownloadBufferSize - copy buffer used when writing downloads to disk (256 KiB).
	DownloadBufferSize = 256 * 1024

	// MaxCollisionSuffix - highest " (N)" suffix tried before giving up on a free filename.
	MaxCollisionSuffix = 999
)

// HTTP Client Timeouts
// There is deliberately no overall request timeout: uploads of up to 50 MiB
// on slow links must not be cut off.
const (
	// HTTPIdleConnTimeout - how long to keep idle connections open (90 seconds)
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPTLSHandshakeTimeout - timeout for TLS handshake (60 seconds)
	HTTPTLSHandshakeTimeout = 60 * time.Second

	// HTTPExpectContinueTimeout - timeout for 100-continue response (1 second)
	HTTPExpectContinueTimeout = 1 * time.Second

	// HTTPDialTimeout - timeout for establishing connection (30 seconds)
	HTTPDialTimeout = 30 * time.Second

	// HTTPDialKeepAlive - keep-alive period for dialer (30 seconds)
	HTTPDialKeepAlive = 30 * time.Second

	// ProxyWarmupTimeout - timeout for the optional proxy warmup request
	ProxyWarmupTimeout = 15 * time.Second
)

// UI
const (
	// NotificationTTL - how long a toast stays in the TUI status line.
	NotificationTTL = 4 * time.Second

	// ProgressRefreshRate - redraw interval for terminal progress bars.
	ProgressRefreshRate = 150 * time.Millisecond
)
