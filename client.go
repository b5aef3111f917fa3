package tickdb

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HTTPClient is the interface for HTTP client.
type HTTPClient interface {
	// Get sends a GET request to the TickDB server.
	Get(context.Context, *url.URL) (*http.Response, error)
	// Post sends a POST request to the TickDB server. A non-empty
	// contentEncoding names the compression applied to body.
	Post(ctx context.Context, u *url.URL, contentType, contentEncoding string, body []byte) (*http.Response, error)
	// Close releases idle connections held by the client.
	Close()
}

type httpClient struct {
	client    *http.Client
	username  string
	password  string
	userAgent string
	logger    *zap.Logger
}

// request attempts are bounded: transient transport failures are retried
// twice before the error is surfaced to the caller.
const maxRequestAttempts = 3

// NewHTTPClient creates the internal HTTP client used by Client.
func NewHTTPClient(config *Config) HTTPClient {
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = "tickdb-sdk-go"
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &httpClient{
		client:    &http.Client{Timeout: config.Timeout},
		username:  config.Username,
		password:  config.Password,
		userAgent: userAgent,
		logger:    logger,
	}
}

// Ensure httpClient implements HTTPClient.
var _ HTTPClient = (*httpClient)(nil)

func (c *httpClient) Get(ctx context.Context, u *url.URL) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, u, "", "", nil)
}

func (c *httpClient) Post(ctx context.Context, u *url.URL, contentType, contentEncoding string, body []byte) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, u, contentType, contentEncoding, body)
}

func (c *httpClient) Close() {
	c.client.CloseIdleConnections()
}

func (c *httpClient) do(ctx context.Context, method string, u *url.URL, contentType, contentEncoding string, body []byte) (*http.Response, error) {
	requestId := uuid.NewString()

	var lastErr error
	for attempt := 0; attempt < maxRequestAttempts; attempt++ {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
		if err != nil {
			return nil, err
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		if contentEncoding != "" {
			req.Header.Set("Content-Encoding", contentEncoding)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("X-Request-Id", requestId)
		if c.username != "" {
			req.SetBasicAuth(c.username, c.password)
		}

		resp, err := c.client.Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if ctx.Err() != nil || !isRetryable(err) {
			break
		}
		c.logger.Warn("retrying request",
			zap.String("request_id", requestId),
			zap.String("method", method),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}
	return nil, lastErr
}

func isRetryable(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr)
}

// Client is the entrance struct for interacting with TickDB.
type Client struct {
	config *Config
	http   HTTPClient
}

// NewClient creates a new client with the given config.
func NewClient(config *Config) *Client {
	return &Client{
		config: config,
		http:   NewHTTPClient(config),
	}
}

// Close closes the client.
//
// You don't typically need to call this as the garbage collector will release
// the resources when the client is no longer referenced. However, it can be
// useful to call this if you want to release the resources immediately.
func (c *Client) Close() {
	c.http.Close()
}

func (c *Client) logger() *zap.Logger {
	if c.config.Logger == nil {
		return zap.NewNop()
	}
	return c.config.Logger
}

// Ping checks the connectivity to the server. It returns the round-trip
// time and the server version.
func (c *Client) Ping(ctx context.Context) (time.Duration, string, error) {
	u, err := url.Parse(c.config.Endpoint + "/ping")
	if err != nil {
		return 0, "", err
	}

	started := time.Now()
	resp, err := c.http.Get(ctx, u)
	if err != nil {
		return 0, "", err
	}
	defer sneakyBodyClose(resp.Body)
	elapsed := time.Since(started)

	if err := checkStatusCode(resp, http.StatusNoContent); err != nil {
		return elapsed, "", err
	}
	return elapsed, resp.Header.Get("X-Tickdb-Version"), nil
}
