package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/carconsole/internal/config"
	"codeberg.org/mutker/carconsole/internal/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "carconsole.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"
tick_interval = "250ms"
persist_every = 4

[plugins]
dir = "/opt/carconsole/plugins"
load_timeout = "2s"

[storage]
main_file = "/var/lib/carconsole/data.json"
backup_dir = "/var/lib/carconsole/backups"

[backup]
keep = 3

[history]
enabled = true
db_path = "/var/lib/carconsole/history.db"

[compression]
rpm = 250.0
`)
	t.Setenv("CARCONSOLE_CONFIG", path)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 4, cfg.PersistEvery)
	assert.Equal(t, "/opt/carconsole/plugins", cfg.Plugins.Dir)
	assert.Equal(t, 2*time.Second, cfg.Plugins.LoadTimeout)
	assert.Equal(t, "/var/lib/carconsole/data.json", cfg.Storage.MainFile)
	assert.Equal(t, "/var/lib/carconsole/backups", cfg.Storage.BackupDir)
	assert.Equal(t, 3, cfg.Backup.Keep)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "/var/lib/carconsole/history.db", cfg.History.DBPath)
	assert.InDelta(t, 250.0, cfg.Compression.RPM, 1e-9)
	assert.InDelta(t, 1.0, cfg.Compression.Speed, 1e-9, "unset thresholds keep their defaults")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CARCONSOLE_CONFIG", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, 100*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, "plugins", cfg.Plugins.Dir)
	assert.Equal(t, 5*time.Second, cfg.Plugins.LoadTimeout)
	assert.Equal(t, "plugin_configs.json", cfg.Plugins.ConfigFile)
	assert.Equal(t, "data.json", cfg.Storage.MainFile)
	assert.Equal(t, "backups", cfg.Storage.BackupDir)
	assert.Equal(t, 5, cfg.Backup.Keep)
	assert.True(t, cfg.Session.Enabled)
	assert.False(t, cfg.History.Enabled)
	assert.InDelta(t, 5.0, cfg.Compression.EngineTemp, 1e-9)
	assert.InDelta(t, 2.0, cfg.Compression.Fuel, 1e-9)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CARCONSOLE_CONFIG", "")
	t.Setenv("CARCONSOLE_STORAGE_MAIN_FILE", "/tmp/override.json")
	t.Setenv("CARCONSOLE_BACKUP_KEEP", "9")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.json", cfg.Storage.MainFile)
	assert.Equal(t, 9, cfg.Backup.Keep)
}

func TestLoadFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, `
[plugins]
dir = "from-file"
`)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("plugins-dir", "plugins", "")
	fs.String("log-level", config.DefaultLogLevel, "")
	require.NoError(t, fs.Parse([]string{"--plugins-dir", "from-flag"}))

	cfg, err := config.Load(config.WithConfigFile(path), config.WithFlags(fs))
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.Plugins.Dir)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	path := writeConfig(t, `
This is not a valid TOML file
`)
	t.Setenv("CARCONSOLE_CONFIG", path)

	_, err := config.Load()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
	assert.Contains(t, err.Error(), "Failed to read config file")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := config.Load(config.WithConfigFile(filepath.Join(t.TempDir(), "absent.toml")))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
}

func TestInvalidLogLevel(t *testing.T) {
	path := writeConfig(t, `
log_level = "invalid"
`)
	t.Setenv("CARCONSOLE_CONFIG", path)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid log level")
	assert.True(t, errors.HasCode(err, errors.ErrInvalidLogLevel))
}

func TestValidate(t *testing.T) {
	base := func() config.Config {
		return config.Config{
			LogLevel:     "info",
			TickInterval: time.Second,
			PersistEvery: 1,
			Plugins:      config.PluginsConfig{LoadTimeout: time.Second},
			Storage:      config.StorageConfig{MainFile: "data.json"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*config.Config)
		code   errors.ErrorCode
	}{
		{"zero tick", func(c *config.Config) { c.TickInterval = 0 }, errors.ErrInvalidInterval},
		{"zero persist", func(c *config.Config) { c.PersistEvery = 0 }, errors.ErrInvalidConfig},
		{"zero load timeout", func(c *config.Config) { c.Plugins.LoadTimeout = 0 }, errors.ErrInvalidInterval},
		{"empty main file", func(c *config.Config) { c.Storage.MainFile = "" }, errors.ErrInvalidConfig},
		{"negative keep", func(c *config.Config) { c.Backup.Keep = -1 }, errors.ErrInvalidConfig},
		{"history without db", func(c *config.Config) { c.History.Enabled = true }, errors.ErrInvalidConfig},
	}

	cfg := base()
	require.NoError(t, cfg.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.code))
		})
	}
}
