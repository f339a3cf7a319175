package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no config.yaml present

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 24, cfg.Store.RunTTLHours)
	assert.Equal(t, 0.85, cfg.Images.HighCorrelation)
	assert.Equal(t, 0.80, cfg.Images.HighSSIM)
	assert.Equal(t, 0.65, cfg.Images.ModerateCorrelation)
	assert.Equal(t, 0.60, cfg.Images.ModerateSSIM)
	assert.Equal(t, 0.85, cfg.Documents.HighThreshold)
	assert.Equal(t, 0.60, cfg.Documents.ModerateThreshold)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestValidateRejectsInvertedThresholds(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	cfg.Documents.ModerateThreshold = 0.9 // above High
	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "documents.moderate_threshold")
}

func TestValidateRejectsOutOfRangeCuts(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	cfg.Images.HighSSIM = 1.5
	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "images.high_ssim")
}

func TestInitLoggerBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	require.Error(t, err)
}
