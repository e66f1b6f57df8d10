package session

import (
	"time"

	"github.com/houshuang/alif/pkg/acquisition"
)

// AccuracyBand maps a recent-accuracy threshold to an introduction budget.
type AccuracyBand struct {
	MinAccuracy float64 `yaml:"min_accuracy"`
	Budget      int     `yaml:"budget"`
}

// Config carries every Session Builder tunable.
type Config struct {
	// Acquisition is configured once, at the top level of the config file,
	// and shared with pkg/review so both sides of the acquiring/long-term
	// split agree on box thresholds; see pkg/config's loader.
	Acquisition acquisition.Config `yaml:"-"`

	DefaultLimit int `yaml:"default_limit"`

	MaxCohortSize int `yaml:"max_cohort_size"`

	RecentRatingsWindow      int            `yaml:"recent_ratings_window"`     // last N word-ratings feeding the accuracy calc
	MinRecentRatingsForBand  int            `yaml:"min_recent_ratings_for_band"` // below this, default to DefaultIntroBudget
	AccuracyBands            []AccuracyBand `yaml:"accuracy_bands"`
	DefaultIntroBudget       int            `yaml:"default_intro_budget"`
	AutoIntroCeiling         int            `yaml:"auto_intro_ceiling"`
	AcquiringCap             int            `yaml:"acquiring_cap"`
	Box1Cap                  int            `yaml:"box1_cap"`
	FillAcquiringCap         int            `yaml:"fill_acquiring_cap"`
	FillBox1Cap              int            `yaml:"fill_box1_cap"`
	AutoIntroListening bool `yaml:"auto_intro_listening"` // auto-intro is reading-only unless flipped
	RootInterferenceLookback time.Duration  `yaml:"root_interference_lookback"`

	ComprehensibilityThreshold float64       `yaml:"comprehensibility_threshold"`
	ScaffoldFreshnessBaseline  float64       `yaml:"scaffold_freshness_baseline"`
	DMQWeakestLowBand          time.Duration `yaml:"dmq_weakest_low_band"`  // "weakest < 0.5d"
	DMQWeakestHighBand         time.Duration `yaml:"dmq_weakest_high_band"` // "weakest > 3d"

	AcquisitionRepetitionTargets  []int `yaml:"acquisition_repetition_targets"` // 2, 3, 4
	AcquisitionRepetitionMaxExtra int   `yaml:"acquisition_repetition_max_extra"` // 15

	OnDemandConcurrency     int           `yaml:"on_demand_concurrency"`
	MaxOnDemandPerSession   int           `yaml:"max_on_demand_per_session"`
	SessionGenerationBudget time.Duration `yaml:"session_generation_budget"`
}

// DefaultConfig returns the tunables used in production.
func DefaultConfig() Config {
	return Config{
		Acquisition: acquisition.DefaultConfig(),

		DefaultLimit: 10,

		MaxCohortSize: 100,

		RecentRatingsWindow:     20,
		MinRecentRatingsForBand: 10,
		AccuracyBands: []AccuracyBand{
			{MinAccuracy: 0.92, Budget: 10},
			{MinAccuracy: 0.85, Budget: 7},
			{MinAccuracy: 0.70, Budget: 4},
			{MinAccuracy: 0, Budget: 0},
		},
		DefaultIntroBudget:       4,
		AutoIntroCeiling:         10,
		AcquiringCap:             30,
		Box1Cap:                  8,
		FillAcquiringCap:         50,
		FillBox1Cap:              15,
		AutoIntroListening:       false,
		RootInterferenceLookback: 7 * 24 * time.Hour,

		ComprehensibilityThreshold: 0.60,
		ScaffoldFreshnessBaseline:  8,
		DMQWeakestLowBand:          12 * time.Hour, // 0.5 d
		DMQWeakestHighBand:         3 * 24 * time.Hour,

		AcquisitionRepetitionTargets:  []int{2, 3, 4},
		AcquisitionRepetitionMaxExtra: 15,

		OnDemandConcurrency:     8,
		MaxOnDemandPerSession:   10,
		SessionGenerationBudget: 20 * time.Second,
	}
}

// introBudget maps a recent accuracy to an introduction budget:
// <70% → 0, 70-85% → 4, 85-92% → 7, >=92% → 10.
func (c Config) introBudget(accuracy float64, sampleSize int) int {
	if sampleSize < c.MinRecentRatingsForBand {
		return c.DefaultIntroBudget
	}
	for _, band := range c.AccuracyBands {
		if accuracy >= band.MinAccuracy {
			return band.Budget
		}
	}
	return 0
}
