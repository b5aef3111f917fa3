package tickdb

import (
	"time"

	"go.uber.org/zap"
)

// Config defines the configuration for a Client.
type Config struct {
	// Endpoint is the URL of the TickDB server, e.g. "http://localhost:8086".
	Endpoint string `json:"endpoint"`
	// Database is the default database for writes and queries.
	//
	// This is optional and may be empty. Batches and queries can always
	// name a database explicitly.
	Database string `json:"database"`
	// RetentionPolicy is the default retention policy for writes.
	//
	// This is optional and may be empty, in which case the database's
	// default policy applies.
	RetentionPolicy string `json:"retention_policy"`
	// Username and Password are the credentials for basic authentication.
	// Both are optional.
	Username string `json:"username"`
	Password string `json:"-"`
	// UserAgent is the HTTP user agent, defaults to "tickdb-sdk-go".
	UserAgent string `json:"user_agent"`
	// Timeout bounds a single HTTP request. Zero means no timeout.
	Timeout time.Duration `json:"timeout"`
	// GzipWrites compresses write bodies with gzip.
	GzipWrites bool `json:"gzip_writes"`
	// Logger receives transport diagnostics such as retried requests and
	// background flush failures. Defaults to a no-op logger.
	Logger *zap.Logger `json:"-"`
}
