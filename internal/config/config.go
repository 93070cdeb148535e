// Package config provides centralized configuration management for the
// application. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import "time"

// Source driver names accepted by SOURCE_DRIVER.
const (
	SourceDriverFile     = "file"
	SourceDriverCSV      = "csv"
	SourceDriverPostgres = "postgres"
)

// Cache driver names accepted by CACHE_DRIVER.
const (
	CacheDriverMemory = "memory"
	CacheDriverSQLite = "sqlite"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Source   SourceConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Pipeline PipelineConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
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
}

// SourceConfig selects where sheet data comes from.
type SourceConfig struct {
	// Driver selects the data source: file, csv, or postgres (default: file)
	Driver string `env:"SOURCE_DRIVER" default:"file"`

	// Path is the sheet file for the file and csv drivers (default: data/sheet.json)
	Path string `env:"SOURCE_PATH" default:"data/sheet.json"`

	// Table is the database table for the postgres driver (default: submissions)
	Table string `env:"SOURCE_TABLE" default:"submissions"`
}

// DatabaseConfig holds PostgreSQL connection settings, used when the source
// driver is postgres.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 20)
	MaxConns int `env:"DB_MAX_CONNS" default:"20"`

	// MinConns is the minimum number of connections to keep open (default: 4)
	MinConns int `env:"DB_MIN_CONNS" default:"4"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// CacheConfig holds the two-tier cache settings.
type CacheConfig struct {
	// Driver selects the cache store: memory or sqlite (default: memory)
	Driver string `env:"CACHE_DRIVER" default:"memory"`

	// Path is the SQLite database file for the sqlite driver (default: data/cache.db)
	Path string `env:"CACHE_PATH" default:"data/cache.db"`

	// PrimaryKey is the cache key of the short-lived tier (default: table:v1)
	PrimaryKey string `env:"CACHE_PRIMARY_KEY" default:"table:v1"`

	// BackupKey is the cache key of the long-lived tier (default: table:v1:backup)
	BackupKey string `env:"CACHE_BACKUP_KEY" default:"table:v1:backup"`

	// PrimaryTTL is how long the primary tier stays fresh (default: 10m)
	PrimaryTTL time.Duration `env:"CACHE_PRIMARY_TTL" default:"10m"`

	// BackupTTL is how long the backup tier stays fresh (default: 6h)
	BackupTTL time.Duration `env:"CACHE_BACKUP_TTL" default:"6h"`

	// SweepInterval is how often the memory store evicts expired entries (default: 1m)
	SweepInterval time.Duration `env:"CACHE_SWEEP_INTERVAL" default:"1m"`
}

// PipelineConfig holds table assembly settings, including the configurable
// header aliases for each logical column. An empty alias list keeps the
// built-in spellings.
type PipelineConfig struct {
	// ComputedColumn names the appended HTML column (default: Content HTML)
	ComputedColumn string `env:"PIPELINE_COMPUTED_COLUMN" default:"Content HTML"`

	// BatchSize is rows converted between context checks (default: 100)
	BatchSize int `env:"PIPELINE_BATCH_SIZE" default:"100"`

	// PreloadOnStart computes and caches the table at boot (default: false)
	PreloadOnStart bool `env:"PIPELINE_PRELOAD_ON_START" default:"false"`

	// RefreshInterval recomputes the table in the background at this cadence;
	// 0 disables the scheduler (default: 0)
	RefreshInterval time.Duration `env:"PIPELINE_REFRESH_INTERVAL" default:"0"`

	// Per-field header aliases, comma-separated, matched case-insensitively.
	DateSubmittedAliases []string `env:"COLUMN_ALIASES_DATE_SUBMITTED"`
	TitleAliases         []string `env:"COLUMN_ALIASES_TITLE"`
	ContentAliases       []string `env:"COLUMN_ALIASES_CONTENT"`
	CategoriesAliases    []string `env:"COLUMN_ALIASES_CATEGORIES"`
	PostByAliases        []string `env:"COLUMN_ALIASES_POST_BY"`
	PublishedAliases     []string `env:"COLUMN_ALIASES_PUBLISHED"`
	NotesAliases         []string `env:"COLUMN_ALIASES_NOTES"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// RequireAPIKey protects the mutating API endpoints (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted X-API-Key values
	APIKeys []string `env:"API_KEYS"`

	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
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
	if c.Host == "" {
		return ":" + itoa(c.Port)
	}
	return c.Host + ":" + itoa(c.Port)
}

// itoa converts an int to string without importing strconv in this file.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b [20]byte
	n := len(b)
	neg := i < 0
	if neg {
		i = -i
	}
	for i > 0 {
		n--
		b[n] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		n--
		b[n] = '-'
	}
	return string(b[n:])
}
