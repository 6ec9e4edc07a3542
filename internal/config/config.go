// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Document DocumentConfig
	Upload   UploadConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 30s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`

	// WriteTimeout is the maximum duration for writing a response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// TrustedProxies is a comma-separated list of proxy CIDRs or IPs whose
	// X-Real-IP / X-Forwarded-For headers are believed
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

// StorageConfig selects and configures the blob store behind the document proxy.
type StorageConfig struct {
	// Backend is one of: fs, postgres, redis, memory (default: fs)
	Backend string `env:"STORAGE_BACKEND" default:"fs"`

	// Dir is the directory of the fs backend (default: ./data)
	Dir string `env:"STORAGE_DIR" default:"./data"`

	// DatabaseURL is the PostgreSQL connection string for the postgres backend
	DatabaseURL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the pool size of the postgres backend (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// RedisURL is the connection URL for the redis backend
	RedisURL string `env:"REDIS_URL"`

	// RedisPrefix is prepended to redis keys (default: merceria:)
	RedisPrefix string `env:"REDIS_KEY_PREFIX" default:"merceria:"`

	// DocumentKey is the key the spreadsheet is stored under (default: merceria.xlsx)
	DocumentKey string `env:"DOCUMENT_KEY" default:"merceria.xlsx"`

	// Token guards the document proxy when set. Clients send it as a bearer token.
	Token string `env:"BLOB_READ_WRITE_TOKEN"`
}

// DocumentConfig controls how the repository reaches the document.
type DocumentConfig struct {
	// Mode is local (talk to the blob store directly) or remote (go through
	// a document proxy at URL) (default: local)
	Mode string `env:"DOCUMENT_MODE" default:"local"`

	// URL is the proxy endpoint used in remote mode
	URL string `env:"DOCUMENT_URL"`

	// Timeout bounds each remote fetch or persist (default: 20s)
	Timeout time.Duration `env:"DOCUMENT_TIMEOUT" default:"20s"`

	// FallbackDir receives a local copy when an upload fails; empty disables it
	FallbackDir string `env:"DOCUMENT_FALLBACK_DIR"`

	// CollationLanguage is the BCP 47 tag used to sort names (default: es)
	CollationLanguage string `env:"COLLATION_LANGUAGE" default:"es"`

	// BootstrapOnStart repairs the document structure at startup (default: true)
	BootstrapOnStart bool `env:"DOCUMENT_BOOTSTRAP" default:"true"`
}

// UploadConfig holds document upload settings of the proxy.
type UploadConfig struct {
	// MaxFileSize is the maximum accepted document size in bytes (default: 25MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"26214400"`

	// MaxConcurrent is the maximum number of parallel uploads (default: 4)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long to wait for an upload slot (default: 10s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"10s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
