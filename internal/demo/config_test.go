package demo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoobzio/batchz"
)

func TestLoadConfig_Defaults(t *testing.T) {
	c, err := LoadConfig(viper.New())

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batchz.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max-count: 4\nmax-duration: 2s\nwindow: 10s\n"), 0o600))

	v := viper.New()
	v.SetConfigFile(path)
	c, err := LoadConfig(v)

	require.NoError(t, err)
	assert.Equal(t, 4, c.MaxCount)
	assert.Equal(t, 2*time.Second, c.MaxDuration)
	assert.Equal(t, 10*time.Second, c.Window)
	assert.Equal(t, 200*time.Millisecond, c.Interval)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("BATCHZ_MAX_COUNT", "7")

	c, err := LoadConfig(viper.New())

	require.NoError(t, err)
	assert.Equal(t, 7, c.MaxCount)
}

func TestLoadConfig_Invalid(t *testing.T) {
	v := viper.New()
	v.Set("max-count", 0)
	v.Set("window", "0s")

	_, err := LoadConfig(v)

	require.Error(t, err)
	assert.ErrorIs(t, err, batchz.ErrInvalidConfig)
	assert.ErrorContains(t, err, "MaxCount")
	assert.ErrorContains(t, err, "Window")
}

func TestLoadConfig_WindowPeriod(t *testing.T) {
	v := viper.New()
	v.Set("window-period", "0s")

	_, err := LoadConfig(v)

	assert.ErrorIs(t, err, batchz.ErrInvalidConfig)
	assert.ErrorContains(t, err, "window-period")

	t.Setenv("BATCHZ_WINDOW_PERIOD", "750ms")
	c, err := LoadConfig(viper.New())
	require.NoError(t, err)
	assert.Equal(t, 750*time.Millisecond, c.WindowPeriod)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	v := viper.New()
	v.SetConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := LoadConfig(v)

	assert.ErrorContains(t, err, "failed to load configuration file")
}
