package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope", "config.json"))

	require.NoError(t, err)
	assert.Equal(t, "coderabbitai", cfg.BotSettings.BotLogin)
	assert.Equal(t, "🔒 CODERABBIT_RESOLVED 🔒", cfg.BotSettings.ResolutionMarker)
	assert.Equal(t, "rule_based", cfg.AnalysisSettings.ClassifierStrategy)
	assert.Equal(t, 5, cfg.AnalysisSettings.MinDescriptionLength)
	assert.False(t, cfg.AnalysisSettings.StreamingEnabled)
	assert.Equal(t, 100, cfg.AnalysisSettings.BatchSize)
	assert.Equal(t, 4, cfg.AnalysisSettings.WorkerCount)
	assert.Equal(t, "markdown", cfg.OutputSettings.Format)
	assert.Contains(t, cfg.PriorityRules.Critical, "security")
}

func TestLoadFromPartialFileMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	partial := `{
  "bot_settings": {"bot_login": "reviewdog"},
  "analysis_settings": {"streaming_enabled": true, "batch_size": 50}
}`
	require.NoError(t, os.WriteFile(path, []byte(partial), 0644))

	cfg, err := LoadFrom(path)

	require.NoError(t, err)
	assert.Equal(t, "reviewdog", cfg.BotSettings.BotLogin)
	assert.True(t, cfg.AnalysisSettings.StreamingEnabled)
	assert.Equal(t, 50, cfg.AnalysisSettings.BatchSize)

	// Everything the file did not set keeps its default.
	assert.Equal(t, "🔒 CODERABBIT_RESOLVED 🔒", cfg.BotSettings.ResolutionMarker)
	assert.Equal(t, 4, cfg.AnalysisSettings.WorkerCount)
	assert.Equal(t, 512, cfg.AnalysisSettings.MemoryThresholdMB)
	assert.Equal(t, "auto", cfg.OutputSettings.Color)
}

func TestLoadFromInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	cfg, err := LoadFrom(path)

	assert.Nil(t, cfg)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestSaveToLoadFromRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".reviewlens", "config.json")

	cfg := defaultConfig()
	cfg.BotSettings.ResolutionMarker = "CUSTOM_TAG"
	cfg.AnalysisSettings.ClassifierStrategy = "statistical"
	cfg.PriorityRules.Critical = []string{"outage"}
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "CUSTOM_TAG", loaded.BotSettings.ResolutionMarker)
	assert.Equal(t, "statistical", loaded.AnalysisSettings.ClassifierStrategy)
	assert.Equal(t, []string{"outage"}, loaded.PriorityRules.Critical)
	assert.Equal(t, cfg.BotSettings.BotLogin, loaded.BotSettings.BotLogin)
}
