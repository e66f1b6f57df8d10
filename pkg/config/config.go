package config

import (
	"github.com/houshuang/alif/pkg/grammar"
	"github.com/houshuang/alif/pkg/pool"
	"github.com/houshuang/alif/pkg/review"
	"github.com/houshuang/alif/pkg/session"
)

// Config is the umbrella configuration object returned by Initialize() and
// threaded through cmd/alif's wiring. It aggregates every subsystem's own
// Config/Parameters type rather than re-declaring their fields, so a
// subsystem package stays the single source of truth for its own defaults.
type Config struct {
	configDir string // Configuration directory path (for reference)

	Database  DatabaseConfig
	System    SystemConfig
	Worker    WorkerConfig
	Retention RetentionConfig
	Generator GeneratorConfig

	Session session.Config
	Review  review.Config
	Recency pool.RecencyConfig
	Grammar grammar.Config
}

// Initialize is defined in loader.go

// ConfigStats contains statistics about loaded configuration.
type ConfigStats struct {
	AccuracyBands  int
	LeechCooldowns int
	DatabaseHost   string
	APIListenAddr  string
}

// Stats returns configuration statistics for logging/monitoring.
func (c *Config) Stats() ConfigStats {
	return ConfigStats{
		AccuracyBands:  len(c.Session.AccuracyBands),
		LeechCooldowns: len(c.Review.Leech.Cooldowns),
		DatabaseHost:   c.Database.Host,
		APIListenAddr:  c.System.APIListenAddr,
	}
}

// ConfigDir returns the configuration directory path.
func (c *Config) ConfigDir() string {
	return c.configDir
}
