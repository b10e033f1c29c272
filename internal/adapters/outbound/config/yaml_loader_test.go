package config_test

import (
	"os"
	"path/filepath"
	"testing"

	appconfig "github.com/dockcheck/dockcheck/internal/adapters/outbound/config"
	"github.com/dockcheck/dockcheck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".dockcheck.yaml"), []byte(content), 0644))
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(appconfig.EnvUniProtURL, "")
	t.Setenv(appconfig.EnvCacheDir, "")
}

func TestYAMLLoader_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := appconfig.New().Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), cfg)
}

func TestYAMLLoader_EmptyFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "")

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), cfg)
}

func TestYAMLLoader_ValidYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, `
validation:
  contact_threshold: 5.0
  find_min_clash: false
  workers: 4
  alignment_region: ECL2
uniprot:
  base_url: http://localhost:9999/uniprotkb
  no_cache: true
`)

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, cfg.Validation.ContactThreshold, 0.001)
	assert.InDelta(t, 2.0, cfg.Validation.ClashThreshold, 0.001, "unset values keep defaults")
	assert.False(t, cfg.Validation.FindMinClash)
	assert.Equal(t, 4, cfg.Validation.Workers)
	assert.Equal(t, "ECL2", cfg.Validation.AlignmentRegion)
	assert.Equal(t, "http://localhost:9999/uniprotkb", cfg.UniProt.BaseURL)
	assert.True(t, cfg.UniProt.NoCache)
}

func TestYAMLLoader_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{{{invalid yaml`)

	_, err := appconfig.New().Load(dir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing .dockcheck.yaml")
}

func TestYAMLLoader_UnknownKeyRejected(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "validation:\n  contact_treshold: 5.0\n")

	_, err := appconfig.New().Load(dir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "contact_treshold")
}

func TestYAMLLoader_InvalidValues(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "validation:\n  clash_threshold: -1\n")

	_, err := appconfig.New().Load(dir)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "invalid .dockcheck.yaml")
}

func TestYAMLLoader_EnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "uniprot:\n  base_url: http://file/uniprotkb\n")
	t.Setenv(appconfig.EnvUniProtURL, "http://env/uniprotkb")
	t.Setenv(appconfig.EnvCacheDir, "/tmp/dockcheck-env")

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://env/uniprotkb", cfg.UniProt.BaseURL)
	assert.Equal(t, "/tmp/dockcheck-env", cfg.UniProt.CacheDir)
}

func TestYAMLLoader_DotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.Unsetenv(appconfig.EnvCacheDir))
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(appconfig.EnvCacheDir+"=/tmp/from-dotenv\n"), 0644))

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-dotenv", cfg.UniProt.CacheDir)
}

func TestYAMLLoader_LoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("validation:\n  top: 5\n"), 0644))

	cfg, err := appconfig.New().LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Validation.Top)

	_, err = appconfig.New().LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRender_RoundTrips(t *testing.T) {
	clearEnv(t)
	data, err := appconfig.Render(domain.DefaultSettings())
	require.NoError(t, err)
	assert.Contains(t, string(data), "contact_threshold: 4.5")

	dir := t.TempDir()
	writeConfig(t, dir, string(data))
	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), cfg)
}
