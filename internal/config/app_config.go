package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreDriverSQLite = "sqlite"
	StoreDriverMongo  = "mongo"
)

// AppConfig holds all application-level configuration loaded from environment variables.
type AppConfig struct {
	// Port is the HTTP server port. Defaults to 8080.
	Port int `envconfig:"PORT" default:"8080"`

	// AllowedOrigin is the single origin allowed to call the form endpoint cross-origin.
	AllowedOrigin string `envconfig:"ALLOWED_ORIGIN" default:"https://ikigai.com.ua"`

	// DataDir is the root data directory. Defaults to ~/.formrelay.
	DataDir string `envconfig:"FORMRELAY_DATA_DIR"`

	// LogLevel sets the minimum log level (debug, info, warn, error). Defaults to info.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// LogFile also writes logs to a rotating file under LogDir when true.
	LogFile bool `envconfig:"LOG_FILE" default:"false"`

	// Timezone is the IANA zone used to print the processing time in notifications.
	Timezone string `envconfig:"TIMEZONE" default:"Europe/Kyiv"`

	// OTLPEndpoint enables span export to an OTLP/gRPC collector when set.
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	// StoreDriver selects the submission store backend: "sqlite" or "mongo".
	StoreDriver string `envconfig:"STORE_DRIVER" default:"sqlite"`

	Mongo MongoConfig
	Mail  MailConfig
}

// MongoConfig holds the MongoDB settings used when StoreDriver is "mongo".
type MongoConfig struct {
	URL            string        `envconfig:"MONGODB_URL"`
	Database       string        `envconfig:"MONGODB_DATABASE" default:"formrelay"`
	Collection     string        `envconfig:"SUBMISSIONS_COLLECTION" default:"contactRequests"`
	ConnectTimeout time.Duration `envconfig:"MONGODB_CONNECT_TIMEOUT" default:"10s"`
	RetryAttempts  int           `envconfig:"MONGODB_RETRY_ATTEMPTS" default:"3"`
	RetryInterval  time.Duration `envconfig:"MONGODB_RETRY_INTERVAL" default:"2s"`
}

// Load reads AppConfig from environment variables using envconfig.
// A .env file in the working directory is applied first when present;
// variables already set in the environment take precedence over it.
// DataDir defaults to ~/.formrelay if not set.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env file: %w", err)
	}

	var c AppConfig
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		c.DataDir = filepath.Join(home, ".formrelay")
	}

	switch c.StoreDriver {
	case StoreDriverSQLite:
	case StoreDriverMongo:
		if c.Mongo.URL == "" {
			return nil, fmt.Errorf("loading config: MONGODB_URL is required when STORE_DRIVER=%s", StoreDriverMongo)
		}
	default:
		return nil, fmt.Errorf("loading config: unknown STORE_DRIVER %q", c.StoreDriver)
	}

	return &c, nil
}

// SlogLevel converts the LogLevel string to a slog.Level.
// Unknown values default to slog.LevelInfo.
func (c *AppConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Location resolves Timezone. An unknown zone falls back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LogDir returns the path to the log directory (<data>/logs).
func (c *AppConfig) LogDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// DBPath returns the path to the SQLite database file.
func (c *AppConfig) DBPath() string {
	return filepath.Join(c.DataDir, "formrelay.db")
}
