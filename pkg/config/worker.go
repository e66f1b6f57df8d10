package config

import "time"

// WorkerConfig controls the background warm-cache generation loop: the
// asynchronous half of the sentence generator interface, which tops up
// the pool for lemmas that are due or about to become due without
// blocking any particular session build.
type WorkerConfig struct {
	// Concurrency is the number of warm-cache generation goroutines.
	Concurrency int `yaml:"concurrency"`

	// PollInterval is how often the warmer scans the memory store for
	// lemmas whose coverage is thin.
	PollInterval time.Duration `yaml:"poll_interval"`

	// PollIntervalJitter is random jitter added to PollInterval so
	// multiple replicas don't scan in lockstep.
	PollIntervalJitter time.Duration `yaml:"poll_interval_jitter"`

	// BatchSize is the maximum number of lemmas warmed per poll.
	BatchSize int `yaml:"batch_size"`

	// GracefulShutdownTimeout bounds how long in-flight generator calls
	// are given to finish during shutdown.
	GracefulShutdownTimeout time.Duration `yaml:"graceful_shutdown_timeout"`
}

// DefaultWorkerConfig returns the built-in worker defaults.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		Concurrency:             4,
		PollInterval:            5 * time.Minute,
		PollIntervalJitter:      30 * time.Second,
		BatchSize:               20,
		GracefulShutdownTimeout: 30 * time.Second,
	}
}
