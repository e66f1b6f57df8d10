package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredDBEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_PASSWORD", "test-password")
}

func TestInitialize_NoYAMLFileUsesDefaults(t *testing.T) {
	setRequiredDBEnv(t)
	dir := t.TempDir()

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig().Session.DefaultLimit, cfg.Session.DefaultLimit)
	assert.Equal(t, DefaultConfig().Review.FSRS.TargetRetention, cfg.Review.FSRS.TargetRetention)
	assert.Equal(t, "test-password", cfg.Database.Password)
}

func TestInitialize_MissingPasswordFails(t *testing.T) {
	os.Unsetenv("DB_PASSWORD")
	dir := t.TempDir()

	_, err := Initialize(context.Background(), dir)
	assert.Error(t, err)
}

func TestInitialize_PartialYAMLOverridesOnlyNamedFields(t *testing.T) {
	setRequiredDBEnv(t)
	dir := t.TempDir()
	yamlContent := `
session:
  default_limit: 25
worker:
  concurrency: 9
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alif.yaml"), []byte(yamlContent), 0o644))

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Session.DefaultLimit)
	assert.Equal(t, 9, cfg.Worker.Concurrency)
	// Untouched sections keep their built-in defaults.
	assert.Equal(t, DefaultConfig().Session.MaxCohortSize, cfg.Session.MaxCohortSize)
	assert.Equal(t, DefaultConfig().Worker.PollInterval, cfg.Worker.PollInterval)
}

func TestInitialize_AcquisitionOverrideAppliesToBothSessionAndReview(t *testing.T) {
	setRequiredDBEnv(t)
	dir := t.TempDir()
	yamlContent := `
acquisition:
  graduation_min_seen: 9
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alif.yaml"), []byte(yamlContent), 0o644))

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.Session.Acquisition.GraduationMinSeen)
	assert.Equal(t, 9, cfg.Review.Acquisition.GraduationMinSeen)
	assert.Equal(t, cfg.Session.Acquisition, cfg.Review.Acquisition)
}

func TestInitialize_InvalidYAMLFails(t *testing.T) {
	setRequiredDBEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alif.yaml"), []byte("session: [this is not a map"), 0o644))

	_, err := Initialize(context.Background(), dir)
	assert.Error(t, err)
}

func TestInitialize_FailsValidationOnBadOverride(t *testing.T) {
	setRequiredDBEnv(t)
	dir := t.TempDir()
	yamlContent := `
session:
  default_limit: -1
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alif.yaml"), []byte(yamlContent), 0o644))

	_, err := Initialize(context.Background(), dir)
	assert.Error(t, err)
}

func TestLoadDatabaseConfig_EnvOverrides(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_NAME", "alif_test")

	cfg, err := loadDatabaseConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, "alif_test", cfg.Database)
	assert.Equal(t, "secret", cfg.Password)
}

func TestLoadDatabaseConfig_InvalidPortFails(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_PORT", "not-a-number")

	_, err := loadDatabaseConfig()
	assert.Error(t, err)
}
