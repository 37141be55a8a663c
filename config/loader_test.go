package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
training:
  ngram_order: 3
  num_workers: 2
predictor:
  dynamic_model_mixture: 0.6
logging:
  level: debug
  format: json
`

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	for k, v := range vars {
		os.Setenv(k, v)
	}
	t.Cleanup(func() {
		for k := range vars {
			os.Unsetenv(k)
		}
	})
}

func TestLoadFromFileAppliesExplicitValues(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Training.NGramOrder)
	assert.Equal(t, 2, cfg.Training.NumWorkers)
	assert.Equal(t, 0.6, cfg.Predictor.DynamicModelMixture)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFillsDefaultsForUnsetFields(t *testing.T) {
	path := createTempConfigFile(t, "training:\n  num_workers: 1\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultNGramOrder, cfg.Training.NGramOrder)
	assert.Equal(t, DefaultPruningMethod, cfg.Training.PruningMethod)
	assert.Equal(t, DefaultDynamicModelMixture, cfg.Predictor.DynamicModelMixture)
	assert.True(t, cfg.Predictor.EnableWordCorrection)
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidPruningMethod(t *testing.T) {
	path := createTempConfigFile(t, "training:\n  num_workers: 1\n  pruning_method: NOT_A_METHOD\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	setEnvVars(t, map[string]string{
		"PREDICT4ALL_TRAINING_NGRAM_ORDER": "6",
	})
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Training.NGramOrder)
}

func TestLoadFromEnvWithNoFile(t *testing.T) {
	setEnvVars(t, map[string]string{
		"PREDICT4ALL_TRAINING_NUM_WORKERS": "4",
	})
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Training.NumWorkers)
}

func TestMustLoadPanicsOnMissingFile(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad(filepath.Join(t.TempDir(), "missing.yaml"))
	})
}
