// Package leech implements the Leech Manager: suspension of
// chronically-missed lemmas and their graduated reintroduction back into
// acquisition.
package leech

import (
	"time"

	"github.com/houshuang/alif/pkg/memory"
)

// Config carries the leech threshold and per-offense cooldowns.
type Config struct {
	MinTimesSeen  int                   `yaml:"min_times_seen"`
	MaxAccuracy   float64               `yaml:"max_accuracy"`
	Cooldowns     map[int]time.Duration `yaml:"cooldowns"`      // keyed by leech_count; missing key falls through to CooldownFloor
	CooldownFloor time.Duration         `yaml:"cooldown_floor"` // used for leech_count beyond the highest configured key (3rd+)
	ScanInterval  time.Duration         `yaml:"scan_interval"`  // how often ReintroductionScanner sweeps for cooled-down leeches
}

// DefaultConfig returns the leech thresholds and cooldown ladder used in
// production.
func DefaultConfig() Config {
	return Config{
		MinTimesSeen: 5,
		MaxAccuracy:  0.50,
		Cooldowns: map[int]time.Duration{
			1: 3 * 24 * time.Hour,
			2: 7 * 24 * time.Hour,
		},
		CooldownFloor: 14 * 24 * time.Hour,
		ScanInterval:  15 * time.Minute,
	}
}

func (c Config) cooldownFor(leechCount int) time.Duration {
	if d, ok := c.Cooldowns[leechCount]; ok {
		return d
	}
	return c.CooldownFloor
}

// IsLeech reports whether a word rated <=2 with the given post-review
// counters (already including this review) qualifies for suspension.
func IsLeech(cfg Config, timesSeen, timesCorrect int) bool {
	if timesSeen < cfg.MinTimesSeen {
		return false
	}
	acc := float64(timesCorrect) / float64(timesSeen)
	return acc < cfg.MaxAccuracy
}

// Suspend applies the suspension transition in place: knowledge_state,
// leech_suspended_at, leech_count. Callers persist the mutated state
// themselves inside the review transaction.
func Suspend(s *memory.State, now time.Time) {
	s.KnowledgeState = memory.StateSuspended
	s.LeechSuspendedAt = now
	s.LeechCount++
}

// ReintroduceAt returns when a suspended state becomes eligible for
// reintroduction, given its leech_count at the time it was suspended.
func ReintroduceAt(cfg Config, s *memory.State) time.Time {
	return s.LeechSuspendedAt.Add(cfg.cooldownFor(s.LeechCount))
}

// PastCooldown reports whether a suspended state is eligible for
// reintroduction at now.
func PastCooldown(cfg Config, s *memory.State, now time.Time) bool {
	if s.LeechSuspendedAt.IsZero() {
		return false
	}
	return !ReintroduceAt(cfg, s).After(now)
}

// Reintroduce transitions a suspended state back into acquisition box 1,
// preserving times_seen/times_correct so cumulative accuracy must
// genuinely improve to graduate again.
func Reintroduce(s *memory.State, now time.Time) {
	s.KnowledgeState = memory.StateAcquiring
	s.Box = 1
	s.NextDueAt = now
	s.EnteredAcquiringAt = now
	s.Card = nil
}
