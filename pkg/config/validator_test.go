package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Database = DefaultDatabaseConfig()
	cfg.Database.Password = "secret"
	return &cfg
}

func TestValidateAll_DefaultConfigIsValid(t *testing.T) {
	cfg := validConfig()
	err := NewValidator(cfg).ValidateAll()
	assert.NoError(t, err)
}

func TestValidateDatabase_MissingHostFails(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Host = ""
	err := NewValidator(cfg).ValidateAll()
	require.Error(t, err)
}

func TestValidateDatabase_IdleExceedsOpenFails(t *testing.T) {
	cfg := validConfig()
	cfg.Database.MaxOpenConns = 5
	cfg.Database.MaxIdleConns = 10
	err := NewValidator(cfg).ValidateAll()
	require.Error(t, err)
}

func TestValidateWorker_JitterMustBeLessThanInterval(t *testing.T) {
	cfg := validConfig()
	cfg.Worker.PollIntervalJitter = cfg.Worker.PollInterval
	err := NewValidator(cfg).ValidateAll()
	require.Error(t, err)
}

func TestValidateAcquisition_DivergedConfigsFail(t *testing.T) {
	cfg := validConfig()
	cfg.Review.Acquisition.GraduationMinSeen = cfg.Session.Acquisition.GraduationMinSeen + 1
	err := NewValidator(cfg).ValidateAll()
	require.Error(t, err)
}

func TestValidateAcquisition_NonPositiveBoxIntervalFails(t *testing.T) {
	cfg := validConfig()
	cfg.Session.Acquisition.BoxIntervals[1] = 0
	cfg.Review.Acquisition.BoxIntervals[1] = 0
	err := NewValidator(cfg).ValidateAll()
	require.Error(t, err)
}

func TestValidateFSRS_TargetRetentionOutOfRangeFails(t *testing.T) {
	cfg := validConfig()
	cfg.Review.FSRS.TargetRetention = 1.0
	err := NewValidator(cfg).ValidateAll()
	require.Error(t, err)
}

func TestValidateLeech_CooldownKeyBelowOneFails(t *testing.T) {
	cfg := validConfig()
	cfg.Review.Leech.Cooldowns[0] = cfg.Review.Leech.CooldownFloor
	err := NewValidator(cfg).ValidateAll()
	require.Error(t, err)
}

func TestValidateGrammar_ThresholdOutOfRangeFails(t *testing.T) {
	cfg := validConfig()
	cfg.Grammar.HighComfortThreshold = 0
	err := NewValidator(cfg).ValidateAll()
	require.Error(t, err)
}

func TestValidateRecency_NonPositiveDurationFails(t *testing.T) {
	cfg := validConfig()
	cfg.Recency.Understood = 0
	err := NewValidator(cfg).ValidateAll()
	require.Error(t, err)
}

func TestValidateSession_AccuracyBandsMustBeSortedDescending(t *testing.T) {
	cfg := validConfig()
	cfg.Session.AccuracyBands[0].MinAccuracy = 0.1
	cfg.Session.AccuracyBands[1].MinAccuracy = 0.5
	err := NewValidator(cfg).ValidateAll()
	require.Error(t, err)
}

func TestValidateSession_FillCapsMustBeAtLeastBaseCaps(t *testing.T) {
	cfg := validConfig()
	cfg.Session.FillAcquiringCap = cfg.Session.AcquiringCap - 1
	err := NewValidator(cfg).ValidateAll()
	require.Error(t, err)
}

func TestValidateSession_MaxCohortMustBeAtLeastDefaultLimit(t *testing.T) {
	cfg := validConfig()
	cfg.Session.MaxCohortSize = cfg.Session.DefaultLimit - 1
	err := NewValidator(cfg).ValidateAll()
	require.Error(t, err)
}
