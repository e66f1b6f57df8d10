package config

import "time"

// RetentionConfig controls cleanup of retired sentences and closed review
// logs — there is no session/event concept in this system, unlike the
// multi-tenant investigation store this pattern is adapted from.
type RetentionConfig struct {
	// ReviewLogRetentionDays is how long undo-capable review log entries
	// are kept before being purged. Undo is only meaningful for a short
	// window after submission.
	ReviewLogRetentionDays int `yaml:"review_log_retention_days"`

	// RetiredSentenceTTL is how long a retired (is_active=false) sentence
	// stays in the pool before hard deletion.
	RetiredSentenceTTL time.Duration `yaml:"retired_sentence_ttl"`

	// CleanupInterval is how often the cleanup loop runs.
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// DefaultRetentionConfig returns the built-in retention defaults.
func DefaultRetentionConfig() RetentionConfig {
	return RetentionConfig{
		ReviewLogRetentionDays: 30,
		RetiredSentenceTTL:     90 * 24 * time.Hour,
		CleanupInterval:        12 * time.Hour,
	}
}
