package config

import "fmt"

// Validator validates configuration comprehensively with clear error messages.
type Validator struct {
	cfg *Config
}

// NewValidator creates a validator for the given configuration.
func NewValidator(cfg *Config) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateAll performs comprehensive validation (fail-fast — stops at the
// first error).
func (v *Validator) ValidateAll() error {
	if err := v.validateDatabase(); err != nil {
		return fmt.Errorf("database validation failed: %w", err)
	}
	if err := v.validateSystem(); err != nil {
		return fmt.Errorf("system validation failed: %w", err)
	}
	if err := v.validateWorker(); err != nil {
		return fmt.Errorf("worker validation failed: %w", err)
	}
	if err := v.validateRetention(); err != nil {
		return fmt.Errorf("retention validation failed: %w", err)
	}
	if err := v.validateAcquisition(); err != nil {
		return fmt.Errorf("acquisition validation failed: %w", err)
	}
	if err := v.validateFSRS(); err != nil {
		return fmt.Errorf("fsrs validation failed: %w", err)
	}
	if err := v.validateLeech(); err != nil {
		return fmt.Errorf("leech validation failed: %w", err)
	}
	if err := v.validateGrammar(); err != nil {
		return fmt.Errorf("grammar validation failed: %w", err)
	}
	if err := v.validateRecency(); err != nil {
		return fmt.Errorf("recency validation failed: %w", err)
	}
	if err := v.validateSession(); err != nil {
		return fmt.Errorf("session validation failed: %w", err)
	}
	return nil
}

func (v *Validator) validateDatabase() error {
	d := v.cfg.Database
	if d.Host == "" {
		return NewValidationError("database", "", "host", fmt.Errorf("required"))
	}
	if d.Port < 1 || d.Port > 65535 {
		return NewValidationError("database", "", "port", fmt.Errorf("must be between 1 and 65535, got %d", d.Port))
	}
	if d.Database == "" {
		return NewValidationError("database", "", "database", fmt.Errorf("required"))
	}
	if d.MaxIdleConns > d.MaxOpenConns {
		return NewValidationError("database", "", "max_idle_conns", fmt.Errorf("cannot exceed max_open_conns (%d)", d.MaxOpenConns))
	}
	if d.MaxOpenConns < 1 {
		return NewValidationError("database", "", "max_open_conns", fmt.Errorf("must be at least 1"))
	}
	return nil
}

func (v *Validator) validateSystem() error {
	s := v.cfg.System
	if s.APIListenAddr == "" {
		return NewValidationError("system", "", "api_listen_addr", fmt.Errorf("required"))
	}
	if s.RequestTimeout <= 0 {
		return NewValidationError("system", "", "request_timeout", fmt.Errorf("must be positive"))
	}
	return nil
}

func (v *Validator) validateWorker() error {
	w := v.cfg.Worker
	if w.Concurrency < 1 {
		return NewValidationError("worker", "", "concurrency", fmt.Errorf("must be at least 1"))
	}
	if w.PollInterval <= 0 {
		return NewValidationError("worker", "", "poll_interval", fmt.Errorf("must be positive"))
	}
	if w.PollIntervalJitter < 0 || w.PollIntervalJitter >= w.PollInterval {
		return NewValidationError("worker", "", "poll_interval_jitter", fmt.Errorf("must be non-negative and less than poll_interval"))
	}
	if w.BatchSize < 1 {
		return NewValidationError("worker", "", "batch_size", fmt.Errorf("must be at least 1"))
	}
	if w.GracefulShutdownTimeout <= 0 {
		return NewValidationError("worker", "", "graceful_shutdown_timeout", fmt.Errorf("must be positive"))
	}
	return nil
}

func (v *Validator) validateRetention() error {
	r := v.cfg.Retention
	if r.ReviewLogRetentionDays < 1 {
		return NewValidationError("retention", "", "review_log_retention_days", fmt.Errorf("must be at least 1"))
	}
	if r.CleanupInterval <= 0 {
		return NewValidationError("retention", "", "cleanup_interval", fmt.Errorf("must be positive"))
	}
	return nil
}

func (v *Validator) validateAcquisition() error {
	a := v.cfg.Session.Acquisition
	for box := 1; box <= 3; box++ {
		if a.BoxIntervals[box] <= 0 {
			return NewValidationError("acquisition", "", fmt.Sprintf("box_intervals[%d]", box), fmt.Errorf("must be positive"))
		}
	}
	if a.GraduationMinSeen < 1 {
		return NewValidationError("acquisition", "", "graduation_min_seen", fmt.Errorf("must be at least 1"))
	}
	if a.GraduationMinAcc <= 0 || a.GraduationMinAcc > 1 {
		return NewValidationError("acquisition", "", "graduation_min_accuracy", fmt.Errorf("must be in (0, 1], got %v", a.GraduationMinAcc))
	}
	if a.GraduationMinSpan < 0 {
		return NewValidationError("acquisition", "", "graduation_min_span_days", fmt.Errorf("must be non-negative"))
	}
	if v.cfg.Review.Acquisition != a {
		return NewValidationError("acquisition", "", "", fmt.Errorf("session and review acquisition configs diverged — this is a loader bug, not a user config error"))
	}
	return nil
}

func (v *Validator) validateFSRS() error {
	f := v.cfg.Review.FSRS
	if f.TargetRetention <= 0 || f.TargetRetention >= 1 {
		return NewValidationError("fsrs", "", "target_retention", fmt.Errorf("must be in (0, 1), got %v", f.TargetRetention))
	}
	if f.StabilityFloor <= 0 {
		return NewValidationError("fsrs", "", "stability_floor", fmt.Errorf("must be positive"))
	}
	if f.GrowthRate <= 0 {
		return NewValidationError("fsrs", "", "growth_rate", fmt.Errorf("must be positive"))
	}
	if f.LapseDecay <= 0 || f.LapseDecay >= 1 {
		return NewValidationError("fsrs", "", "lapse_decay", fmt.Errorf("must be in (0, 1), got %v", f.LapseDecay))
	}
	if f.DifficultyStep <= 0 {
		return NewValidationError("fsrs", "", "difficulty_step", fmt.Errorf("must be positive"))
	}
	if f.MinStability <= 0 {
		return NewValidationError("fsrs", "", "min_stability", fmt.Errorf("must be positive"))
	}
	return nil
}

func (v *Validator) validateLeech() error {
	l := v.cfg.Review.Leech
	if l.MinTimesSeen < 1 {
		return NewValidationError("leech", "", "min_times_seen", fmt.Errorf("must be at least 1"))
	}
	if l.MaxAccuracy < 0 || l.MaxAccuracy > 1 {
		return NewValidationError("leech", "", "max_accuracy", fmt.Errorf("must be in [0, 1], got %v", l.MaxAccuracy))
	}
	for count, cooldown := range l.Cooldowns {
		if count < 1 {
			return NewValidationError("leech", "", fmt.Sprintf("cooldowns[%d]", count), fmt.Errorf("leech_count key must be at least 1"))
		}
		if cooldown <= 0 {
			return NewValidationError("leech", "", fmt.Sprintf("cooldowns[%d]", count), fmt.Errorf("must be positive"))
		}
	}
	if l.CooldownFloor <= 0 {
		return NewValidationError("leech", "", "cooldown_floor", fmt.Errorf("must be positive"))
	}
	return nil
}

func (v *Validator) validateGrammar() error {
	g := v.cfg.Grammar
	if g.HighComfortThreshold <= 0 || g.HighComfortThreshold > 1 {
		return NewValidationError("grammar", "", "high_comfort_threshold", fmt.Errorf("must be in (0, 1], got %v", g.HighComfortThreshold))
	}
	return nil
}

func (v *Validator) validateRecency() error {
	r := v.cfg.Recency
	for field, d := range map[string]int64{
		"understood":       int64(r.Understood),
		"partial":          int64(r.Partial),
		"grammar_confused": int64(r.GrammarConfused),
		"no_idea":          int64(r.NoIdea),
		"unknown":          int64(r.Unknown),
	} {
		if d <= 0 {
			return NewValidationError("recency", "", field, fmt.Errorf("must be positive"))
		}
	}
	return nil
}

func (v *Validator) validateSession() error {
	s := v.cfg.Session

	if s.DefaultLimit < 1 {
		return NewValidationError("session", "", "default_limit", fmt.Errorf("must be at least 1"))
	}
	if s.MaxCohortSize < s.DefaultLimit {
		return NewValidationError("session", "", "max_cohort_size", fmt.Errorf("must be at least default_limit (%d)", s.DefaultLimit))
	}
	if s.RecentRatingsWindow < 1 {
		return NewValidationError("session", "", "recent_ratings_window", fmt.Errorf("must be at least 1"))
	}
	if len(s.AccuracyBands) == 0 {
		return NewValidationError("session", "", "accuracy_bands", fmt.Errorf("at least one band required"))
	}
	prevMin := 2.0 // above any valid min_accuracy, so the first band always passes
	for i, band := range s.AccuracyBands {
		if band.MinAccuracy < 0 || band.MinAccuracy > 1 {
			return NewValidationError("session", "", fmt.Sprintf("accuracy_bands[%d].min_accuracy", i), fmt.Errorf("must be in [0, 1]"))
		}
		if band.MinAccuracy >= prevMin {
			return NewValidationError("session", "", fmt.Sprintf("accuracy_bands[%d]", i), fmt.Errorf("bands must be sorted by strictly descending min_accuracy"))
		}
		prevMin = band.MinAccuracy
		if band.Budget < 0 {
			return NewValidationError("session", "", fmt.Sprintf("accuracy_bands[%d].budget", i), fmt.Errorf("must be non-negative"))
		}
	}
	if s.AcquiringCap < 1 || s.Box1Cap < 1 {
		return NewValidationError("session", "", "acquiring_cap/box1_cap", fmt.Errorf("must be at least 1"))
	}
	if s.FillAcquiringCap < s.AcquiringCap || s.FillBox1Cap < s.Box1Cap {
		return NewValidationError("session", "", "fill_acquiring_cap/fill_box1_cap", fmt.Errorf("fill caps must be at least the base caps"))
	}
	if s.ComprehensibilityThreshold <= 0 || s.ComprehensibilityThreshold > 1 {
		return NewValidationError("session", "", "comprehensibility_threshold", fmt.Errorf("must be in (0, 1]"))
	}
	if s.OnDemandConcurrency < 1 {
		return NewValidationError("session", "", "on_demand_concurrency", fmt.Errorf("must be at least 1"))
	}
	if s.MaxOnDemandPerSession < 0 {
		return NewValidationError("session", "", "max_on_demand_per_session", fmt.Errorf("must be non-negative"))
	}
	if s.SessionGenerationBudget <= 0 {
		return NewValidationError("session", "", "session_generation_budget", fmt.Errorf("must be positive"))
	}

	return nil
}
