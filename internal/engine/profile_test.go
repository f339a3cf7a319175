package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradewatch/ipscreen/internal/config"
)

func baseConfig() config.Config {
	return config.Config{
		Store: config.StoreConfig{Driver: "sqlite", RunTTLHours: 24},
		Images: config.ImagesConfig{
			HighCorrelation:     0.85,
			HighSSIM:            0.80,
			ModerateCorrelation: 0.65,
			ModerateSSIM:        0.60,
		},
		Documents: config.DocumentsConfig{
			HighThreshold:     0.85,
			ModerateThreshold: 0.60,
			TopN:              10,
		},
		Anomaly: config.AnomalyConfig{MinMarketRows: 10, MADThreshold: 3.5},
	}
}

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadProfileOverrides(t *testing.T) {
	path := writeProfile(t, `
profile:
  images:
    high_correlation: 0.95
    high_ssim: 0.90
  documents:
    top_n: 5
`)

	p, err := LoadProfile(path)
	require.NoError(t, err)

	cfg, err := p.Apply(baseConfig())
	require.NoError(t, err)

	assert.Equal(t, 0.95, cfg.Images.HighCorrelation)
	assert.Equal(t, 0.90, cfg.Images.HighSSIM)
	assert.Equal(t, 5, cfg.Documents.TopN)
	// Untouched fields keep their values.
	assert.Equal(t, 0.65, cfg.Images.ModerateCorrelation)
	assert.Equal(t, 0.85, cfg.Documents.HighThreshold)
}

func TestLoadProfileEmptyFileChangesNothing(t *testing.T) {
	path := writeProfile(t, "profile: {}\n")

	p, err := LoadProfile(path)
	require.NoError(t, err)

	cfg, err := p.Apply(baseConfig())
	require.NoError(t, err)
	assert.Equal(t, baseConfig(), *cfg)
}

func TestApplyRejectsInvertedThresholds(t *testing.T) {
	path := writeProfile(t, `
profile:
  documents:
    high_threshold: 0.50
`)

	p, err := LoadProfile(path)
	require.NoError(t, err)

	_, err = p.Apply(baseConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "documents.moderate_threshold")
}

func TestLoadProfileMissingFile(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadProfileMalformedYAML(t *testing.T) {
	path := writeProfile(t, "profile: [not a map\n")
	_, err := LoadProfile(path)
	require.Error(t, err)
}
