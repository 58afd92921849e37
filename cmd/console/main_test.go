package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Missing file falls back to the environment", func(t *testing.T) {
		// Given: no config file and a log level in the environment
		t.Setenv("LOG_LEVEL", "debug")

		// When: loading the console config
		conf, err := loadConfig(filepath.Join(t.TempDir(), "config.yml"))

		// Then: the environment and the defaults are used
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.False(t, conf.Engine.Parallel)
	})

	t.Run("Existing file is read", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("engine:\n  parallel: true\n"), 0o600))

		conf, err := loadConfig(path)

		require.NoError(t, err)
		assert.True(t, conf.Engine.Parallel)
	})

	t.Run("Broken file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("engine: [\n"), 0o600))

		_, err := loadConfig(path)

		assert.Error(t, err)
	})
}
