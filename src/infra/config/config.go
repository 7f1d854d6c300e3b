// Package config handles application configuration via environment variables.
// It uses kelseyhightower/envconfig for parsing and joho/godotenv to read a
// local .env file first.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
// Values are loaded from environment variables with the prefix "APP"; every
// variable can also be given without the prefix, e.g. APP_DB_USER or DB_USER.
type Config struct {
	// Server configuration (embedded to flatten env vars)
	Server ServerConfig

	// Database configuration (embedded to flatten env vars)
	Database DatabaseConfig

	// Logging configuration (embedded to flatten env vars)
	Log LogConfig

	// Auth configuration for the HTTP surface
	Auth AuthConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Port is the HTTP server port (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// Host is the HTTP server host (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// ReadTimeout is the maximum duration for reading the entire request (default: 10s)
	ReadTimeout time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`

	// WriteTimeout is the maximum duration before timing out writes of the response (default: 30s)
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`

	// ShutdownTimeout is the maximum duration to wait for active connections to finish (default: 30s)
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`

	// CORSOrigin is the allowed CORS origin; empty disables CORS headers
	CORSOrigin string `envconfig:"CORS_ORIGIN"`
}

// DatabaseConfig holds PostgreSQL pool settings.
//
// The same type carries explicit overrides: a zero field means "not set" and
// leaves the lower-precedence value in place.
type DatabaseConfig struct {
	// User, Password and Database are required after merging.
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	Database string `envconfig:"DB_DATABASE"`

	// Host is the database host (default: localhost)
	Host string `envconfig:"DB_HOST" default:"localhost"`

	// Port is the database port (default: 5432)
	Port int `envconfig:"DB_PORT" default:"5432"`

	// MaxPool is the maximum number of pooled connections (default: 20)
	MaxPool int `envconfig:"MAX_POOL" default:"20"`

	// IdleTimeoutMillis closes connections idle for longer (default: 60000)
	IdleTimeoutMillis int `envconfig:"IDLE_TIMEOUT_MS" default:"60000"`

	// SSLMode is passed to the driver (default: prefer)
	SSLMode string `envconfig:"DB_SSLMODE" default:"prefer"`

	// URL, when set, replaces host, port, user, password and database.
	// Its sslmode wins over SSLMode; other query parameters go to Params.
	URL string `envconfig:"DATABASE_URL"`

	// Params are extra connection parameters, e.g. connect_timeout or
	// target_session_attrs. They are only taken from URL.
	Params map[string]string `ignored:"true"`

	// Env is the runtime environment; "test" enables TestDatabase.
	Env string `envconfig:"ENV"`

	// TestDatabase replaces Database when Env is "test".
	TestDatabase string `envconfig:"DB_DATABASE_TEST"`

	// Extend layers an override on top of the previously active
	// configuration instead of the environment alone.
	Extend bool `ignored:"true"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	// Level is the log level: debug, info, warn, error (default: info)
	Level string `envconfig:"LOG_LEVEL" default:"info"`

	// Format is the log format: json, text, plain (default: json)
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// AuthConfig guards the /v1 routes.
type AuthConfig struct {
	// APIToken is the bearer token required on /v1; empty disables the check.
	APIToken string `envconfig:"API_TOKEN"`
}

// DSN returns the PostgreSQL connection string.
//
// Host may be a comma-separated host list taken from URL; it is then used
// as is and Port is ignored.
func (c *DatabaseConfig) DSN() string {
	host := c.Host
	if c.Port != 0 && !strings.Contains(host, ",") {
		host = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   host,
		Path:   "/" + c.Database,
	}

	q := url.Values{}
	for k, v := range c.Params {
		q.Set(k, v)
	}
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// IdleTimeout returns IdleTimeoutMillis as a duration.
func (c *DatabaseConfig) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutMillis) * time.Millisecond
}

// Missing lists the required fields that are empty.
func (c *DatabaseConfig) Missing() []string {
	var missing []string
	if c.User == "" {
		missing = append(missing, "user")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if c.Database == "" {
		missing = append(missing, "database")
	}
	return missing
}

// Merge returns c with every non-zero field of o applied on top.
func (c DatabaseConfig) Merge(o DatabaseConfig) DatabaseConfig {
	if o.User != "" {
		c.User = o.User
	}
	if o.Password != "" {
		c.Password = o.Password
	}
	if o.Database != "" {
		c.Database = o.Database
	}
	if o.Host != "" {
		c.Host = o.Host
	}
	if o.Port != 0 {
		c.Port = o.Port
	}
	if o.MaxPool != 0 {
		c.MaxPool = o.MaxPool
	}
	if o.IdleTimeoutMillis != 0 {
		c.IdleTimeoutMillis = o.IdleTimeoutMillis
	}
	if o.SSLMode != "" {
		c.SSLMode = o.SSLMode
	}
	if o.URL != "" {
		c.URL = o.URL
	}
	if len(o.Params) > 0 {
		c.Params = make(map[string]string, len(o.Params))
		for k, v := range o.Params {
			c.Params[k] = v
		}
	}
	if o.Env != "" {
		c.Env = o.Env
	}
	if o.TestDatabase != "" {
		c.TestDatabase = o.TestDatabase
	}
	c.Extend = false
	return c
}

// ExpandURL copies host, port, user, password, database and the query
// parameters out of URL. Parts the URL leaves out keep their current value.
func (c DatabaseConfig) ExpandURL() (DatabaseConfig, error) {
	if c.URL == "" {
		return c, nil
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return c, fmt.Errorf("failed to parse database url: %w", err)
	}
	// pgconn validates the URL the same way the pool will later.
	if _, err := pgconn.ParseConfig(c.URL); err != nil {
		return c, fmt.Errorf("failed to parse database url: %w", err)
	}

	if u.User != nil {
		if name := u.User.Username(); name != "" {
			c.User = name
		}
		if pw, ok := u.User.Password(); ok && pw != "" {
			c.Password = pw
		}
	}

	switch {
	case strings.Contains(u.Host, ","):
		c.Host = u.Host
		c.Port = 0
	case u.Hostname() != "":
		c.Host = u.Hostname()
		if p := u.Port(); p != "" {
			port, err := strconv.Atoi(p)
			if err != nil {
				return c, fmt.Errorf("invalid database url port %q: %w", p, err)
			}
			c.Port = port
		}
	}
	if db := strings.TrimLeft(u.Path, "/"); db != "" {
		c.Database = db
	}

	query := u.Query()
	if mode := query.Get("sslmode"); mode != "" {
		c.SSLMode = mode
	}
	query.Del("sslmode")
	if len(query) > 0 {
		params := make(map[string]string, len(query))
		for k := range query {
			params[k] = query.Get(k)
		}
		c.Params = params
	}
	return c, nil
}

// ApplyTestMode swaps in TestDatabase when running in the test environment.
func (c DatabaseConfig) ApplyTestMode() DatabaseConfig {
	if c.Env == "test" && c.TestDatabase != "" {
		c.Database = c.TestDatabase
	}
	return c
}

// LoadDatabase reads the database section from the environment: defaults,
// then DB_* variables, then DATABASE_URL, then the test database swap.
func LoadDatabase() (DatabaseConfig, error) {
	if err := LoadDotenv(); err != nil {
		return DatabaseConfig{}, err
	}

	var cfg DatabaseConfig
	if err := envconfig.Process("APP", &cfg); err != nil {
		return DatabaseConfig{}, fmt.Errorf("failed to load database config: %w", err)
	}
	cfg, err := cfg.ExpandURL()
	if err != nil {
		return DatabaseConfig{}, err
	}
	return cfg.ApplyTestMode(), nil
}

// LoadDotenv loads variables from the given .env files (default ".env")
// without overriding ones already set. A missing file is not an error.
func LoadDotenv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", name, err)
		}
	}
	return nil
}

// Addr returns the server address in host:port format.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads configuration from environment variables.
// It returns an error if variables are invalid. Missing database
// credentials are reported later, when the pool is configured.
func Load() (*Config, error) {
	var cfg Config

	if err := LoadDotenv(); err != nil {
		return nil, err
	}

	// Load each config section separately to flatten env var names
	if err := envconfig.Process("APP", &cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}
	db, err := LoadDatabase()
	if err != nil {
		return nil, err
	}
	cfg.Database = db
	if err := envconfig.Process("APP", &cfg.Log); err != nil {
		return nil, fmt.Errorf("failed to load log config: %w", err)
	}
	if err := envconfig.Process("APP", &cfg.Auth); err != nil {
		return nil, fmt.Errorf("failed to load auth config: %w", err)
	}

	return &cfg, nil
}
