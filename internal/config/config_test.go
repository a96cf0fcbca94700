package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Run from a directory without a config file so only defaults apply.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/unicef_indicator_1.csv", cfg.Data.IndicatorPath)
	assert.Equal(t, "data/unicef_metadata.csv", cfg.Data.MetadataPath)
	assert.Equal(t, "Proportion of schools with basic sanitation services", cfg.Data.Indicator)
	assert.Equal(t, "alias", cfg.Data.Normalizer)
	assert.Equal(t, "out", cfg.Report.OutputDir)
	assert.Equal(t, 10, cfg.Report.TopN)
	assert.Equal(t, "sanireport.db", cfg.Store.Path)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverride(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("SANIREPORT_DATA_INDICATOR", "Custom indicator")
	t.Setenv("SANIREPORT_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Custom indicator", cfg.Data.Indicator)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.Error(t, InitLogger(LogConfig{Level: "nope", Format: "json"}))
}
