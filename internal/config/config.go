// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults,
// optionally overlays a YAML file for the document labels, and validates all
// settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Phonebook PhonebookConfig
	Server    ServerConfig
	Database  DatabaseConfig
	Upload    UploadConfig
	Logging   LoggingConfig
}

// PhonebookConfig holds the document labels and number formatting settings.
type PhonebookConfig struct {
	// Title is printed on the title page (default: LUCK'S TELEFOONBOEK)
	Title string `env:"PHONEBOOK_TITLE" default:"LUCK'S TELEFOONBOEK" yaml:"title"`

	// FrontPageHeader heads the front-page section (default: MOBIELE NUMMERS)
	FrontPageHeader string `env:"PHONEBOOK_FRONTPAGE_HEADER" default:"MOBIELE NUMMERS" yaml:"frontpage_header"`

	// CellularCaption labels a mobile number listed under a landline (default: Mobiel:)
	CellularCaption string `env:"PHONEBOOK_CELLULAR_CAPTION" default:"Mobiel:" yaml:"cellular_caption"`

	// Region is the home region; its numbers print in national format (default: NL)
	Region string `env:"PHONEBOOK_REGION" default:"NL" yaml:"region"`

	// OutputName is the file written next to the input (default: generated_phone_book.tex)
	OutputName string `env:"PHONEBOOK_OUTPUT_NAME" default:"generated_phone_book.tex" yaml:"output_name"`

	// DateLayout is the Go time layout for the title page date (default: dd-mm-yyyy)
	DateLayout string `env:"PHONEBOOK_DATE_LAYOUT" default:"02-01-2006" yaml:"date_layout"`
}

// ServerConfig holds HTTP server settings for serve mode.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// TrustedProxies is a comma-separated list of proxy CIDRs or IPs whose
	// X-Real-IP / X-Forwarded-For headers are believed (default: none)
	TrustedProxies string `env:"SERVER_TRUSTED_PROXIES"`
}

// DatabaseConfig holds database connection settings.
// The database is optional; it is only used by import and --from-db.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// UploadConfig holds CSV upload settings for serve mode.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed file size in bytes (default: 10MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"10485760"`

	// MaxConcurrent is the number of documents rendered at once (default: 4)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"4"`

	// MaxWait is how long a request waits for a free slot (default: 10s)
	MaxWait time.Duration `env:"UPLOAD_MAX_WAIT" default:"10s"`
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
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// TrustedProxyList splits TrustedProxies into its entries.
func (c *ServerConfig) TrustedProxyList() []string {
	var out []string
	for _, p := range strings.Split(c.TrustedProxies, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// HasDatabase reports whether a database is configured.
func (c *DatabaseConfig) HasDatabase() bool {
	return c.URL != ""
}
