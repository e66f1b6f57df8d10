package config

import (
	"fmt"

	"dario.cat/mergo"

	"github.com/houshuang/alif/pkg/acquisition"
	"github.com/houshuang/alif/pkg/fsrs"
	"github.com/houshuang/alif/pkg/grammar"
	"github.com/houshuang/alif/pkg/leech"
	"github.com/houshuang/alif/pkg/pool"
	"github.com/houshuang/alif/pkg/session"
)

// mergeInto overwrites base's fields with every non-zero field override
// sets, leaving base untouched for fields override leaves at zero. Every subsystem
// tunable is a scalar, slice, or map — no field ever legitimately needs
// to be merged down to zero, so plain value-level override is enough.
func mergeInto[T any](base T, override *T) (T, error) {
	if override == nil {
		return base, nil
	}
	if err := mergo.Merge(&base, *override, mergo.WithOverride); err != nil {
		return base, fmt.Errorf("merge failed: %w", err)
	}
	return base, nil
}

func mergeAcquisition(base acquisition.Config, override *acquisition.Config) (acquisition.Config, error) {
	return mergeInto(base, override)
}

func mergeFSRS(base fsrs.Parameters, override *fsrs.Parameters) (fsrs.Parameters, error) {
	return mergeInto(base, override)
}

// mergeLeech overrides base's leech tunables. mergo merges maps
// key-by-key, so a partial Cooldowns override (e.g. just leech_count 1)
// augments rather than replaces the built-in table.
func mergeLeech(base leech.Config, override *leech.Config) (leech.Config, error) {
	return mergeInto(base, override)
}

func mergeGrammar(base grammar.Config, override *grammar.Config) (grammar.Config, error) {
	return mergeInto(base, override)
}

func mergeRecency(base pool.RecencyConfig, override *pool.RecencyConfig) (pool.RecencyConfig, error) {
	return mergeInto(base, override)
}

// mergeSession overrides base's session tunables. Acquisition is resolved
// once at the top level (see loader.go) and deliberately not
// YAML-addressable under session:, so it is restored afterward in case
// the merge's zero-value struct copy touched it.
func mergeSession(base session.Config, override *session.Config) (session.Config, error) {
	acq := base.Acquisition
	merged, err := mergeInto(base, override)
	if err != nil {
		return merged, err
	}
	merged.Acquisition = acq
	return merged, nil
}

func mergeWorker(base WorkerConfig, override *WorkerConfig) (WorkerConfig, error) {
	return mergeInto(base, override)
}

func mergeRetention(base RetentionConfig, override *RetentionConfig) (RetentionConfig, error) {
	return mergeInto(base, override)
}

func mergeSystem(base SystemConfig, override *SystemConfig) (SystemConfig, error) {
	return mergeInto(base, override)
}
