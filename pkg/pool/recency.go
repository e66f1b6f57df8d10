package pool

import "time"

// RecencyConfig is the comprehension-aware cooldown table. pkg/config
// loads and validates it, and MemStore takes it at construction;
// PostgresStore takes no RecencyConfig and always applies
// DefaultRecencyConfig.
type RecencyConfig struct {
	Understood      time.Duration `yaml:"understood"`
	Partial         time.Duration `yaml:"partial"`
	GrammarConfused time.Duration `yaml:"grammar_confused"`
	NoIdea          time.Duration `yaml:"no_idea"`
	Unknown         time.Duration `yaml:"unknown"` // null comprehension
}

// DefaultRecencyConfig matches exactly.
func DefaultRecencyConfig() RecencyConfig {
	return RecencyConfig{
		Understood:      7 * 24 * time.Hour,
		Partial:         2 * 24 * time.Hour,
		GrammarConfused: 24 * time.Hour,
		NoIdea:          4 * time.Hour,
		Unknown:         7 * 24 * time.Hour,
	}
}

func (c RecencyConfig) cooldown(signal Comprehension) time.Duration {
	switch signal {
	case ComprehensionUnderstood:
		return c.Understood
	case ComprehensionPartial:
		return c.Partial
	case ComprehensionGrammarConfused:
		return c.GrammarConfused
	case ComprehensionNoIdea:
		return c.NoIdea
	default:
		return c.Unknown
	}
}

// Eligible reports whether a sentence's shown-history for mode permits
// showing it again at now.
func (c RecencyConfig) Eligible(stat ShownStat, now time.Time) bool {
	if stat.TimesShown == 0 {
		return true
	}
	cooldown := c.cooldown(stat.LastComprehension)
	return now.Sub(stat.LastShownAt) >= cooldown
}
