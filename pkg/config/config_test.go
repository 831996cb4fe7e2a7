package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pwfactory/pkg/options"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pwfactory.yaml")
	content := `
runtime:
  browser: firefox
  headless: false
  slow_mo: 0s
trace_stop:
  path: out/trace.zip
retry:
  max_attempts: 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "firefox", cfg.Launch.Browser)
	assert.False(t, cfg.Launch.Headless)
	assert.Equal(t, time.Duration(0), cfg.Launch.SlowMo)
	assert.Equal(t, options.DefaultStartTimeout, cfg.Launch.StartTimeout, "untouched fields keep defaults")
	assert.Equal(t, "out/trace.zip", cfg.TraceStop.Path)
	assert.Equal(t, options.DefaultSessionOptions(), cfg.Session)
	assert.Equal(t, 2, cfg.Retry.MaxAttempts)
	assert.Equal(t, DefaultBootstrapDelay, cfg.Retry.Delay)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"bad yaml", "runtime: [", "failed to decode"},
		{"zero attempts", "retry:\n  max_attempts: 0\n", "max_attempts"},
		{"bad viewport", "session:\n  viewport:\n    width: 0\n", "viewport"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(t.TempDir(), "env.yaml")
	require.NoError(t, os.WriteFile(path, []byte("environment:\n  debug: true\n"), 0600))
	t.Setenv(EnvConfigPath, path)

	cfg, err = LoadFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.Environment.Debug)
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pwfactory.yaml")

	cfg := Default()
	cfg.Screenshot.FullPage = false
	cfg.Launch.Browser = "webkit"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
