package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telephony-insights-go/internal/masking"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SALT_PII", "")
	os.Unsetenv("SALT_PII")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, masking.PlaceholderSalt, cfg.Salt)
	assert.Equal(t, int64(42), cfg.Generate.Seed)
	assert.Equal(t, 200, cfg.Generate.NumCalls)
	assert.Equal(t, 18, cfg.Generate.NumTranscripts)
	assert.Equal(t, "huggingface", cfg.Summarizer.Backend)
	assert.Equal(t, filepath.Join("data/raw", "cdr_synthetic.csv"), cfg.RecordsCSVPath())
	assert.ErrorIs(t, cfg.CheckSalt(), masking.ErrPlaceholderSalt)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment: staging
generate:
  num_calls: 50
  seed: 7
annotation:
  call_timeout: 5s
server:
  port: "9000"
`), 0o644))
	t.Setenv("SALT_PII", "real-salt")
	t.Setenv("NUM_CALLS", "75")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, 75, cfg.Generate.NumCalls)
	assert.Equal(t, int64(7), cfg.Generate.Seed)
	assert.Equal(t, 5*time.Second, cfg.Annotation.CallTimeout)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.NoError(t, cfg.CheckSalt())
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SALT_PII=from-dotenv\n"), 0o644))
	t.Setenv("SALT_PII", "")
	os.Unsetenv("SALT_PII")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Salt)
	os.Unsetenv("SALT_PII")
}

func TestLoadExplicitZeroSeed(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv("SEED", "0")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(0), cfg.Generate.Seed)

	os.Unsetenv("SEED")
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("generate:\n  seed: 0\n"), 0o644))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(0), cfg.Generate.Seed)
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SEED", "forty-two")
	_, err := Load("")
	assert.ErrorContains(t, err, "SEED")
}

func TestPlaceholderSaltAllowedInTests(t *testing.T) {
	chdirTemp(t)
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("SALT_PII", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.NoError(t, cfg.CheckSalt())
}
