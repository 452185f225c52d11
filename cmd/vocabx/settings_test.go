package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/oukeidos/vocabx/internal/catalog"
	"github.com/oukeidos/vocabx/internal/enhancer"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSettingsCmd(opts *runOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	addProviderFlags(cmd, opts)
	addBatchFlags(cmd, opts)
	return cmd
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "vocabx.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("provider: gemini\nbatch-size: 7\nworkers: 9\npause: 1s\ntarget: fr\n"), 0600))
	t.Setenv("VOCABX_PROVIDER", "openai")
	t.Setenv("VOCABX_WORKERS", "5")

	opts := runOptions{}
	cmd := newSettingsCmd(&opts)
	require.NoError(t, cmd.ParseFlags([]string{"--config", cfgPath, "--workers", "3"}))
	require.NoError(t, opts.load(cmd))

	assert.Equal(t, "openai", opts.provider, "env beats config")
	assert.Equal(t, 3, opts.workers, "flag beats env")
	assert.Equal(t, 7, opts.batchSize, "config beats default")
	assert.Equal(t, time.Second, opts.pause)
	assert.Equal(t, "fr", opts.target)
	assert.Equal(t, "it", opts.source)
	assert.Equal(t, enhancer.DefaultCallTimeout, opts.timeout)
	assert.Equal(t, 3, opts.retries)
}

func TestLoad_EnvFile(t *testing.T) {
	require.Empty(t, os.Getenv("VOCABX_VIA"))
	t.Cleanup(func() { os.Unsetenv("VOCABX_VIA") })

	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("VOCABX_VIA=de\n"), 0600))

	opts := runOptions{}
	cmd := newSettingsCmd(&opts)
	require.NoError(t, cmd.ParseFlags([]string{"--env-file", envPath}))
	require.NoError(t, opts.load(cmd))
	assert.Equal(t, "de", opts.via)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	opts := runOptions{}
	cmd := newSettingsCmd(&opts)
	require.NoError(t, cmd.ParseFlags([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}))
	assert.Error(t, opts.load(cmd))
}

func TestLoad_Schema(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "vocabx.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("schema:\n  source: german\n  secondary: french\n"), 0600))
	t.Setenv("VOCABX_SCHEMA_INPUT_GLOSS", "meaning")

	opts := runOptions{}
	cmd := newSettingsCmd(&opts)
	require.NoError(t, cmd.ParseFlags([]string{"--config", cfgPath}))
	require.NoError(t, opts.load(cmd))

	want := catalog.DefaultSchema()
	want.Source = "german"
	want.Secondary = "french"
	want.InputGloss = "meaning"
	assert.Equal(t, want, opts.schema)
	assert.Equal(t, want, opts.pipelineConfig("wortschatz.json").Schema)
}

func TestLoadSchema_RejectsCollidingKeys(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "vocabx.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("schema:\n  secondary: english\n"), 0600))
	_, err := loadSchema(&cobra.Command{Use: "test"}, cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "used twice")
}

func TestPipelineConfig(t *testing.T) {
	opts := runOptions{source: "it", via: "en", target: "zh", batchSize: 50, workers: 2, timeout: time.Minute, checkpoint: "cp.json"}
	cfg := opts.pipelineConfig("vocabulary.json")
	assert.Equal(t, "vocabulary.json", cfg.CatalogPath)
	assert.Equal(t, "cp.json", cfg.CheckpointPath)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, time.Minute, cfg.CallTimeout)
}
