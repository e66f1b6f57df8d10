package config

import (
	"time"

	"github.com/houshuang/alif/pkg/grammar"
	"github.com/houshuang/alif/pkg/pool"
	"github.com/houshuang/alif/pkg/review"
	"github.com/houshuang/alif/pkg/session"
)

// DefaultConfig returns every subsystem's own built-in defaults, wired
// together. Initialize starts from this and overrides with whatever the
// YAML file and environment actually set.
func DefaultConfig() Config {
	return Config{
		Database:  DefaultDatabaseConfig(),
		System:    DefaultSystemConfig(),
		Worker:    DefaultWorkerConfig(),
		Retention: DefaultRetentionConfig(),
		Generator: DefaultGeneratorConfig(),

		Session: session.DefaultConfig(),
		Review:  review.DefaultConfig(),
		Recency: pool.DefaultRecencyConfig(),
		Grammar: grammar.DefaultConfig(),
	}
}

// DefaultDatabaseConfig returns non-secret connection defaults; Host, Port,
// User, Database, SSL mode and pool settings are overridden by their
// environment variables when set, and Password is always resolved from the
// environment (see loadDatabaseConfig in loader.go).
func DefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:            "localhost",
		Port:            5432,
		User:            "alif",
		Database:        "alif",
		SSLMode:         "disable",
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: 1 * time.Hour,
		ConnMaxIdleTime: 15 * time.Minute,
	}
}
