package api

import (
	"context"
	"fmt"
	"io"
	nethttp "net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/csvdesk/csvdesk/internal/config"
	"github.com/csvdesk/csvdesk/internal/http"
	"github.com/csvdesk/csvdesk/internal/logging"
	"github.com/csvdesk/csvdesk/internal/version"
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 64 * 1024

// retryLogger implements the retryablehttp.LeveledLogger interface
type retryLogger struct {
	logger *logging.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error().Fields(keysAndValues).Msg(msg)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn().Fields(keysAndValues).Msg(msg)
}

// Client talks to the file service.
//
// Small requests (list, delete, health) and downloads go through a
// retryablehttp client configured for a single attempt, which gives
// request/response logging hooks. Uploads stream through the plain transfer
// client because retryablehttp buffers request bodies in memory.
type Client struct {
	httpClient     *nethttp.Client
	transferClient *nethttp.Client
	baseURL        string
	logger         *logging.Logger
}

// NewClient creates a new API client from configuration.
func NewClient(cfg *config.Config, logger *logging.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		return nil, fmt.Errorf("API base URL is empty: set base_url in the [server] section or CSVDESK_API_URL")
	}

	transferClient, err := http.CreateOptimizedClient(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to configure HTTP client: %w", err)
	}

	return NewClientWithHTTPClient(cfg.APIBaseURL, transferClient, logger), nil
}

// NewClientWithHTTPClient creates a client around an existing *http.Client.
func NewClientWithHTTPClient(baseURL string, httpClient *nethttp.Client, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if httpClient == nil {
		httpClient = &nethttp.Client{}
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = httpClient
	retryClient.RetryMax = 0
	retryClient.CheckRetry = noRetry
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = &retryLogger{logger: logger}
	retryClient.ResponseLogHook = func(_ retryablehttp.Logger, resp *nethttp.Response) {
		logger.Debug().
			Str("method", resp.Request.Method).
			Str("path", resp.Request.URL.Path).
			Int("status", resp.StatusCode).
			Str("request_id", resp.Request.Header.Get("X-Request-ID")).
			Msg("API response")
	}

	return &Client{
		httpClient:     retryClient.StandardClient(),
		transferClient: httpClient,
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		logger:         logger,
	}
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// noRetry never retries; it only stops early when the context is done.
func noRetry(ctx context.Context, _ *nethttp.Response, _ error) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return false, nil
}

// newRequest builds a request with the standard headers.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*nethttp.Request, error) {
	req, err := nethttp.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "csvdesk/"+version.Version)
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// doRequest performs a request through the API client.
func (c *Client) doRequest(ctx context.Context, method, path string) (*nethttp.Response, error) {
	req, err := c.newRequest(ctx, method, path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("method", method).Str("path", path).Msg("API call failed")
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// statusError drains resp into a StatusError. The body text is kept as sent,
// up to maxErrorBody bytes.
func statusError(op string, resp *nethttp.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}
}
