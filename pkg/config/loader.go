package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/houshuang/alif/pkg/acquisition"
	"github.com/houshuang/alif/pkg/fsrs"
	"github.com/houshuang/alif/pkg/grammar"
	"github.com/houshuang/alif/pkg/leech"
	"github.com/houshuang/alif/pkg/pool"
	"github.com/houshuang/alif/pkg/session"
)

// AlifYAMLConfig represents the complete alif.yaml file structure. Every
// section is optional; anything left unset falls back to the matching
// subsystem's own DefaultConfig()/DefaultParameters().
type AlifYAMLConfig struct {
	System      *SystemConfig        `yaml:"system"`
	Worker      *WorkerConfig        `yaml:"worker"`
	Retention   *RetentionConfig     `yaml:"retention"`
	Acquisition *acquisition.Config  `yaml:"acquisition"`
	FSRS        *fsrs.Parameters     `yaml:"fsrs"`
	Leech       *leech.Config        `yaml:"leech"`
	Grammar     *grammar.Config      `yaml:"grammar"`
	Recency     *pool.RecencyConfig  `yaml:"recency"`
	Session     *session.Config      `yaml:"session"`
}

// Initialize loads, validates, and returns ready-to-use configuration.
// This is the primary entry point for configuration loading.
//
// Steps performed:
//  1. Load alif.yaml from configDir (if present)
//  2. Expand environment variables
//  3. Parse YAML into AlifYAMLConfig
//  4. Merge every section onto the subsystem's own built-in defaults
//  5. Load database connection settings from the environment
//  6. Validate all configuration
//  7. Return Config ready for use
func Initialize(ctx context.Context, configDir string) (*Config, error) {
	log := slog.With("config_dir", configDir)
	log.Info("Initializing configuration")

	cfg, err := load(ctx, configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	stats := cfg.Stats()
	log.Info("Configuration initialized successfully",
		"accuracy_bands", stats.AccuracyBands,
		"leech_cooldowns", stats.LeechCooldowns,
		"database_host", stats.DatabaseHost,
		"api_listen_addr", stats.APIListenAddr)

	return cfg, nil
}

// load is the internal loader (not exported).
func load(_ context.Context, configDir string) (*Config, error) {
	loader := &configLoader{configDir: configDir}

	yamlCfg, err := loader.loadAlifYAML()
	if err != nil {
		return nil, NewLoadError("alif.yaml", err)
	}

	base := DefaultConfig()

	sessionCfg, err := mergeSession(base.Session, yamlCfg.Session)
	if err != nil {
		return nil, fmt.Errorf("failed to merge session config: %w", err)
	}
	reviewCfg := base.Review
	recency, err := mergeRecency(base.Recency, yamlCfg.Recency)
	if err != nil {
		return nil, fmt.Errorf("failed to merge recency config: %w", err)
	}
	grammarCfg, err := mergeGrammar(base.Grammar, yamlCfg.Grammar)
	if err != nil {
		return nil, fmt.Errorf("failed to merge grammar config: %w", err)
	}
	worker, err := mergeWorker(base.Worker, yamlCfg.Worker)
	if err != nil {
		return nil, fmt.Errorf("failed to merge worker config: %w", err)
	}
	retention, err := mergeRetention(base.Retention, yamlCfg.Retention)
	if err != nil {
		return nil, fmt.Errorf("failed to merge retention config: %w", err)
	}
	system, err := mergeSystem(base.System, yamlCfg.System)
	if err != nil {
		return nil, fmt.Errorf("failed to merge system config: %w", err)
	}

	// Acquisition is shared between Session and Review; resolve it once
	// here so both sides of the acquiring/long-term split stay in sync.
	acquisitionCfg, err := mergeAcquisition(base.Session.Acquisition, yamlCfg.Acquisition)
	if err != nil {
		return nil, fmt.Errorf("failed to merge acquisition config: %w", err)
	}
	sessionCfg.Acquisition = acquisitionCfg
	reviewCfg.Acquisition = acquisitionCfg

	reviewCfg.FSRS, err = mergeFSRS(reviewCfg.FSRS, yamlCfg.FSRS)
	if err != nil {
		return nil, fmt.Errorf("failed to merge fsrs config: %w", err)
	}
	reviewCfg.Leech, err = mergeLeech(reviewCfg.Leech, yamlCfg.Leech)
	if err != nil {
		return nil, fmt.Errorf("failed to merge leech config: %w", err)
	}

	database, err := loadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	generatorCfg := loadGeneratorConfig()

	return &Config{
		configDir: configDir,
		Database:  database,
		System:    system,
		Worker:    worker,
		Retention: retention,
		Generator: generatorCfg,
		Session:   sessionCfg,
		Review:    reviewCfg,
		Recency:   recency,
		Grammar:   grammarCfg,
	}, nil
}

// loadGeneratorConfig overlays GENERATOR_BASE_URL/GENERATOR_API_KEY onto
// the built-in defaults. APIKey carries credentials so it is
// environment-only, matching loadDatabaseConfig's Password handling.
func loadGeneratorConfig() GeneratorConfig {
	cfg := DefaultGeneratorConfig()
	if baseURL := os.Getenv("GENERATOR_BASE_URL"); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.APIKey = os.Getenv("GENERATOR_API_KEY")
	return cfg
}

// validate performs comprehensive validation on loaded configuration.
func validate(cfg *Config) error {
	validator := NewValidator(cfg)
	return validator.ValidateAll()
}

type configLoader struct {
	configDir string
}

func (l *configLoader) loadAlifYAML() (*AlifYAMLConfig, error) {
	path := filepath.Join(l.configDir, "alif.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file is a valid state — every section falls
			// back to its subsystem default.
			return &AlifYAMLConfig{}, nil
		}
		return nil, err
	}

	data = ExpandEnv(data)

	var cfg AlifYAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return &cfg, nil
}

// loadDatabaseConfig loads Postgres connection settings from the
// environment, since they carry credentials that don't belong in a
// checked-in YAML file.
func loadDatabaseConfig() (DatabaseConfig, error) {
	cfg := DefaultDatabaseConfig()

	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Host = host
	}
	if portStr := os.Getenv("DB_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return DatabaseConfig{}, fmt.Errorf("invalid DB_PORT: %w", err)
		}
		cfg.Port = port
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.User = user
	}
	cfg.Password = os.Getenv("DB_PASSWORD")
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database = name
	}
	if sslMode := os.Getenv("DB_SSLMODE"); sslMode != "" {
		cfg.SSLMode = sslMode
	}
	if v := os.Getenv("DB_MAX_OPEN_CONNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return DatabaseConfig{}, fmt.Errorf("invalid DB_MAX_OPEN_CONNS: %w", err)
		}
		cfg.MaxOpenConns = n
	}
	if v := os.Getenv("DB_MAX_IDLE_CONNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return DatabaseConfig{}, fmt.Errorf("invalid DB_MAX_IDLE_CONNS: %w", err)
		}
		cfg.MaxIdleConns = n
	}
	if v := os.Getenv("DB_CONN_MAX_LIFETIME"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return DatabaseConfig{}, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME: %w", err)
		}
		cfg.ConnMaxLifetime = d
	}
	if v := os.Getenv("DB_CONN_MAX_IDLE_TIME"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return DatabaseConfig{}, fmt.Errorf("invalid DB_CONN_MAX_IDLE_TIME: %w", err)
		}
		cfg.ConnMaxIdleTime = d
	}

	if cfg.Password == "" {
		return DatabaseConfig{}, fmt.Errorf("DB_PASSWORD is required")
	}

	return cfg, nil
}
