package config

import "time"

// DatabaseConfig holds resolved Postgres connection settings, loaded from
// environment variables rather than YAML since it carries credentials
// (see loadDatabaseConfig in loader.go; database.NewClient takes these
// values).
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// SystemConfig holds resolved process-wide HTTP surface settings.
type SystemConfig struct {
	APIListenAddr      string   // e.g. ":8080"
	AllowedCORSOrigins []string // origins the API's CORS middleware accepts
	RequestTimeout     time.Duration
}

// DefaultSystemConfig returns the built-in system defaults.
func DefaultSystemConfig() SystemConfig {
	return SystemConfig{
		APIListenAddr:      ":8080",
		AllowedCORSOrigins: []string{"http://localhost:5173"},
		RequestTimeout:     30 * time.Second,
	}
}

// GeneratorConfig holds the outbound sentence-generation service's
// connection settings. APIKey is always resolved from the environment,
// the same way DatabaseConfig.Password is, since it never belongs in a
// checked-in YAML file.
type GeneratorConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// DefaultGeneratorConfig returns non-secret generator defaults.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		BaseURL: "http://localhost:9090",
		Timeout: 30 * time.Second,
	}
}
