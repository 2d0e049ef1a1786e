// Package config loads LeakGuard configuration from defaults, an optional
// YAML file and environment variable overrides, in that priority order.
//
// Usage:
//
//	cfg, err := config.NewLoader().
//	    WithConfigPath("config.yaml").
//	    WithEnvPrefix("LEAKGUARD").
//	    Load()
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete service configuration.
type Config struct {
	// Server configures the HTTP API and metrics listeners.
	Server ServerConfig `yaml:"server" env:"SERVER"`
	// Records configures where confidential records come from.
	Records RecordsConfig `yaml:"records" env:"RECORDS"`
	// Redis configures the optional record cache.
	Redis RedisConfig `yaml:"redis" env:"REDIS"`
	// Guard configures the input/output safety layer.
	Guard GuardConfig `yaml:"guard" env:"GUARD"`
	// Log configures structured logging.
	Log LogConfig `yaml:"log" env:"LOG"`
}

// ServerConfig configures the HTTP listeners.
type ServerConfig struct {
	// HTTPPort is the API port.
	HTTPPort int `yaml:"http_port" env:"HTTP_PORT"`
	// MetricsPort serves /metrics on its own listener.
	MetricsPort int `yaml:"metrics_port" env:"METRICS_PORT"`
	// ReadTimeout bounds request reads.
	ReadTimeout time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	// WriteTimeout bounds response writes.
	WriteTimeout time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
	// RateLimitRPS is the per-client request rate; 0 disables limiting.
	RateLimitRPS float64 `yaml:"rate_limit_rps" env:"RATE_LIMIT_RPS"`
	// RateLimitBurst is the per-client burst allowance.
	RateLimitBurst int `yaml:"rate_limit_burst" env:"RATE_LIMIT_BURST"`
	// APIKey, when set, is required in the X-API-Key header.
	APIKey string `yaml:"api_key" env:"API_KEY"`
}

// RecordsConfig selects the confidential record backend.
type RecordsConfig struct {
	// Backend is one of "file", "sqlite", "postgres".
	Backend string `yaml:"backend" env:"BACKEND"`
	// Path is the JSON database path for the file backend.
	Path string `yaml:"path" env:"PATH"`
	// DSN is the connection string for database backends.
	DSN string `yaml:"dsn" env:"DSN"`
}

// RedisConfig configures the record cache.
type RedisConfig struct {
	// Enabled turns the read-through cache on.
	Enabled bool `yaml:"enabled" env:"ENABLED"`
	// Addr is the redis address.
	Addr string `yaml:"addr" env:"ADDR"`
	// Password is the redis password.
	Password string `yaml:"password" env:"PASSWORD"`
	// DB is the redis database number.
	DB int `yaml:"db" env:"DB"`
	// TTL is the cached record lifetime.
	TTL time.Duration `yaml:"ttl" env:"TTL"`
}

// GuardConfig configures the input/output safety layer.
type GuardConfig struct {
	// MaxInputLength is the sanitizer cap in characters.
	MaxInputLength int `yaml:"max_input_length" env:"MAX_INPUT_LENGTH"`
	// MaxOutputLength is the output ceiling in characters.
	MaxOutputLength int `yaml:"max_output_length" env:"MAX_OUTPUT_LENGTH"`
	// CustomPatterns are extra injection regexes for the exact pass.
	CustomPatterns []string `yaml:"custom_patterns" env:"CUSTOM_PATTERNS"`
	// ScanConcurrency bounds parallel document scans.
	ScanConcurrency int `yaml:"scan_concurrency" env:"SCAN_CONCURRENCY"`
}

// LogConfig configures zap.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" env:"LEVEL"`
	// Format is json or console.
	Format string `yaml:"format" env:"FORMAT"`
	// OutputPaths are zap sink paths.
	OutputPaths []string `yaml:"output_paths" env:"OUTPUT_PATHS"`
}

// Loader loads configuration with builder-style options.
type Loader struct {
	configPath string
	envPrefix  string
	validators []func(*Config) error
}

// NewLoader creates a loader with the default LEAKGUARD env prefix.
func NewLoader() *Loader {
	return &Loader{envPrefix: "LEAKGUARD"}
}

// WithConfigPath sets the YAML file path. A missing file is not an error;
// defaults and environment apply.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvPrefix overrides the environment variable prefix.
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// WithValidator appends a validation hook run after loading.
func (l *Loader) WithValidator(v func(*Config) error) *Loader {
	l.validators = append(l.validators, v)
	return l
}

// Load resolves the configuration: defaults, then file, then environment.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if l.configPath != "" {
		if err := l.loadFromFile(cfg); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := l.setFieldsFromEnv(reflect.ValueOf(cfg).Elem(), l.envPrefix); err != nil {
		return nil, fmt.Errorf("load config env: %w", err)
	}

	for _, v := range l.validators {
		if err := v(cfg); err != nil {
			return nil, fmt.Errorf("config validation: %w", err)
		}
	}
	return cfg, nil
}

func (l *Loader) loadFromFile(cfg *Config) error {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func (l *Loader) setFieldsFromEnv(v reflect.Value, prefix string) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		envTag := t.Field(i).Tag.Get("env")
		if envTag == "" || envTag == "-" {
			continue
		}

		envKey := prefix + "_" + envTag
		if field.Kind() == reflect.Struct && field.Type() != reflect.TypeOf(time.Duration(0)) {
			if err := l.setFieldsFromEnv(field, envKey); err != nil {
				return err
			}
			continue
		}

		envValue := os.Getenv(envKey)
		if envValue == "" {
			continue
		}
		if err := setFieldValue(field, envValue); err != nil {
			return fmt.Errorf("set %s: %w", envKey, err)
		}
	}
	return nil
}

func setFieldValue(field reflect.Value, value string) error {
	if !field.CanSet() {
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))
			return nil
		}
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(i)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.String {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			field.Set(reflect.ValueOf(parts))
		}
	}
	return nil
}
