package config

import "time"

// DefaultConfig returns sensible defaults for every section.
func DefaultConfig() *Config {
	return &Config{
		Server:  DefaultServerConfig(),
		Records: DefaultRecordsConfig(),
		Redis:   DefaultRedisConfig(),
		Guard:   DefaultGuardConfig(),
		Log:     DefaultLogConfig(),
	}
}

// DefaultServerConfig returns the default listener configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		HTTPPort:        8080,
		MetricsPort:     9091,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 15 * time.Second,
		RateLimitRPS:    100,
		RateLimitBurst:  200,
	}
}

// DefaultRecordsConfig defaults to the JSON file backend.
func DefaultRecordsConfig() RecordsConfig {
	return RecordsConfig{
		Backend: "file",
		Path:    "data/company_database.json",
	}
}

// DefaultRedisConfig returns the default cache configuration, disabled.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Enabled: false,
		Addr:    "localhost:6379",
		TTL:     5 * time.Minute,
	}
}

// DefaultGuardConfig returns the calibrated guard limits.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		MaxInputLength:  10000,
		MaxOutputLength: 5000,
		ScanConcurrency: 8,
	}
}

// DefaultLogConfig returns production JSON logging at info level.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:       "info",
		Format:      "json",
		OutputPaths: []string{"stdout"},
	}
}
