// Package config loads layered configuration: built-in defaults, then an
// optional YAML file, then environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/coooow/VibeMatcher/internal/logging"
)

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "VIBE_CONFIG"

// DefaultConfigPaths are searched in order when no path is given.
var DefaultConfigPaths = []string{
	"vibematcher.yaml",
	"vibematcher.yml",
}

// Config is the full application configuration.
type Config struct {
	Catalog CatalogConfig `koanf:"catalog"`
	Matcher MatcherConfig `koanf:"matcher"`
	Server  ServerConfig  `koanf:"server"`
	Worker  WorkerConfig  `koanf:"worker"`
	Logging LoggingConfig `koanf:"logging"`
}

// CatalogConfig selects the catalog source.
type CatalogConfig struct {
	Driver    string `koanf:"driver" validate:"oneof=csv sqlite"`
	Path      string `koanf:"path" validate:"required"`
	Table     string `koanf:"table"`
	Delimiter string `koanf:"delimiter"`
}

// MatcherConfig tunes queries.
type MatcherConfig struct {
	TopK        int `koanf:"top_k" validate:"min=1,max=100"`
	SearchLimit int `koanf:"search_limit" validate:"min=1,max=1000"`
	Suggestions int `koanf:"suggestions" validate:"min=0,max=20"`
}

// ServerConfig configures the HTTP driver.
type ServerConfig struct {
	Addr              string        `koanf:"addr" validate:"required"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout" validate:"gt=0"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// WorkerConfig sizes the batch worker pool.
type WorkerConfig struct {
	Workers   int `koanf:"workers" validate:"min=1,max=256"`
	QueueSize int `koanf:"queue_size" validate:"min=1"`
}

// LoggingConfig mirrors logging.Config without the writer.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

func defaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Driver:    "csv",
			Path:      "songs.csv",
			Table:     "tracks",
			Delimiter: ",",
		},
		Matcher: MatcherConfig{
			TopK:        5,
			SearchLimit: 20,
			Suggestions: 3,
		},
		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: 15 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Worker: WorkerConfig{
			Workers:   2,
			QueueSize: 100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// envMappings maps environment variables to koanf paths. Unlisted
// variables are ignored.
var envMappings = map[string]string{
	"VIBE_CATALOG_DRIVER":          "catalog.driver",
	"VIBE_CATALOG_PATH":            "catalog.path",
	"VIBE_CATALOG_TABLE":           "catalog.table",
	"VIBE_CATALOG_DELIMITER":       "catalog.delimiter",
	"VIBE_TOP_K":                   "matcher.top_k",
	"VIBE_SEARCH_LIMIT":            "matcher.search_limit",
	"VIBE_SUGGESTIONS":             "matcher.suggestions",
	"VIBE_SERVER_ADDR":             "server.addr",
	"VIBE_SERVER_READ_TIMEOUT":     "server.read_header_timeout",
	"VIBE_SERVER_SHUTDOWN_TIMEOUT": "server.shutdown_timeout",
	"VIBE_WORKERS":                 "worker.workers",
	"VIBE_QUEUE_SIZE":              "worker.queue_size",
	"LOG_LEVEL":                    "logging.level",
	"LOG_FORMAT":                   "logging.format",
	"LOG_CALLER":                   "logging.caller",
}

func envTransformFunc(key string) string {
	return envMappings[key]
}

// Load builds the configuration. An explicit path must exist; otherwise
// ConfigPathEnvVar and DefaultConfigPaths are tried and may all be absent.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file
	if path == "" {
		path = findConfigFile()
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// Layer 3: environment
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	if c.Catalog.Driver == "csv" && utf8.RuneCountInString(c.Catalog.Delimiter) != 1 {
		return fmt.Errorf("catalog.delimiter must be a single character, got %q", c.Catalog.Delimiter)
	}
	return nil
}

// Comma returns the CSV delimiter rune.
func (c CatalogConfig) Comma() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	if r == utf8.RuneError {
		return ','
	}
	return r
}

// LogConfig converts the logging section for logging.Init.
func (c *Config) LogConfig() logging.Config {
	out := logging.DefaultConfig()
	out.Level = c.Logging.Level
	out.Format = c.Logging.Format
	out.Caller = c.Logging.Caller
	return out
}
