package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("API_ID", "12345")
	t.Setenv("API_HASH", "abcdef")
	t.Setenv("PHONE_NUMBER", "+10000000000")
	t.Setenv("THROTTLE_RPS", "0")
	t.Setenv("LOG_LEVEL", "verbose")
	t.Setenv("TEST_DC", "true")
	t.Setenv("WARMUP_DIALOGS", "false")

	cfg, err := loadConfig("")
	require.NoError(t, err)

	env := cfg.Env
	assert.Equal(t, 12345, env.APIID)
	assert.Equal(t, "abcdef", env.APIHash)
	assert.Equal(t, defaultThrottleRPS, env.ThrottleRPS)
	assert.Equal(t, defaultLogLevel, env.LogLevel)
	assert.Equal(t, defaultSessionFile, env.SessionFile)
	assert.Equal(t, defaultStateFile, env.StateFile)
	assert.True(t, env.TestDC)
	assert.False(t, env.WarmupDialogs)
	assert.Empty(t, env.LogFile)

	assert.Contains(t, cfg.warnings, "env THROTTLE_RPS value 0 does not satisfy constraints; using default 1")
	assert.Contains(t, cfg.warnings, `env LOG_LEVEL value "verbose" is invalid; using default "info"`)
}

func TestLoadConfigFromDotEnv(t *testing.T) {
	// godotenv.Load не перезаписывает уже заданные переменные, поэтому чистим их.
	for _, name := range []string{"API_ID", "API_HASH", "PHONE_NUMBER", "SESSION_FILE"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}

	path := filepath.Join(t.TempDir(), ".env")
	content := "API_ID=7\nAPI_HASH=hash\nPHONE_NUMBER=+1\nSESSION_FILE=tmp/s.json\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Env.APIID)
	assert.Equal(t, "tmp/s.json", cfg.Env.SessionFile)
}

func TestLoadConfigRequired(t *testing.T) {
	t.Setenv("API_ID", "not-a-number")
	t.Setenv("API_HASH", "x")
	t.Setenv("PHONE_NUMBER", "y")

	_, err := loadConfig("")
	require.Error(t, err)

	t.Setenv("API_ID", "1")
	t.Setenv("API_HASH", " ")
	_, err = loadConfig("")
	require.EqualError(t, err, "env API_HASH must be set")
}
