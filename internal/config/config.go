package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/mutker/carconsole/internal/errors"
	"github.com/spf13/viper"
)

const (
	DefaultLogLevel     = "info"
	defaultEnvPrefix    = "CARCONSOLE"
	defaultConfigName   = "carconsole"
	defaultConfigType   = "toml"
	configPathEnvSuffix = "_CONFIG"
)

type Config struct {
	LogLevel     string            `mapstructure:"log_level"`
	TickInterval time.Duration     `mapstructure:"tick_interval"`
	PersistEvery int               `mapstructure:"persist_every"`
	PIDFile      string            `mapstructure:"pid_file"`
	Plugins      PluginsConfig     `mapstructure:"plugins"`
	Storage      StorageConfig     `mapstructure:"storage"`
	Backup       BackupConfig      `mapstructure:"backup"`
	Session      SessionConfig     `mapstructure:"session"`
	History      HistoryConfig     `mapstructure:"history"`
	Layout       LayoutConfig      `mapstructure:"layout"`
	Compression  CompressionConfig `mapstructure:"compression"`
}

type PluginsConfig struct {
	Dir         string        `mapstructure:"dir"`
	LoadTimeout time.Duration `mapstructure:"load_timeout"`
	ConfigFile  string        `mapstructure:"config_file"`
}

type StorageConfig struct {
	MainFile  string `mapstructure:"main_file"`
	BackupDir string `mapstructure:"backup_dir"`
}

// BackupConfig controls periodic backups; Every is in ticks, 0 disables.
type BackupConfig struct {
	Keep  int `mapstructure:"keep"`
	Every int `mapstructure:"every"`
}

type SessionConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	Compress bool `mapstructure:"compress"`
}

type HistoryConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	DBPath       string        `mapstructure:"db_path"`
	BatchSize    int           `mapstructure:"batch_size"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
}

type LayoutConfig struct {
	File string `mapstructure:"file"`
}

// CompressionConfig holds the per-channel session thinning thresholds
type CompressionConfig struct {
	Speed      float64 `mapstructure:"speed"`
	RPM        float64 `mapstructure:"rpm"`
	EngineTemp float64 `mapstructure:"engine_temp"`
	Fuel       float64 `mapstructure:"fuel"`
}

// FlagKeys maps command-line flag names onto configuration keys
var FlagKeys = map[string]string{
	"log-level":      "log_level",
	"tick":           "tick_interval",
	"persist-every":  "persist_every",
	"pid-file":       "pid_file",
	"plugins-dir":    "plugins.dir",
	"load-timeout":   "plugins.load_timeout",
	"plugin-configs": "plugins.config_file",
	"main-file":      "storage.main_file",
	"backup-dir":     "storage.backup_dir",
	"keep":           "backup.keep",
	"backup-every":   "backup.every",
	"history":        "history.enabled",
	"history-db":     "history.db_path",
	"layout":         "layout.file",
}

// Load reads configuration from defaults, the config file, environment
// variables and bound flags, in increasing order of precedence.
func Load(opts ...Option) (*Config, error) {
	o := &options{envPrefix: defaultEnvPrefix}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, errors.Wrap(errors.ErrInvalidConfig, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if o.flags != nil {
		for name, key := range FlagKeys {
			f := o.flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, errors.Wrap(errors.ErrBindFlags, err)
			}
		}
	}

	configPath := o.configPath
	if configPath == "" {
		configPath = os.Getenv(o.envPrefix + configPathEnvSuffix)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType(defaultConfigType)
	} else {
		v.SetConfigName(defaultConfigName)
		v.SetConfigType(defaultConfigType)
		v.AddConfigPath("/etc/carconsole")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "carconsole"))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(errors.ErrReadConfig, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("tick_interval", 100*time.Millisecond)
	v.SetDefault("persist_every", 10)
	v.SetDefault("pid_file", filepath.Join(os.TempDir(), "carconsole.pid"))

	v.SetDefault("plugins.dir", "plugins")
	v.SetDefault("plugins.load_timeout", 5*time.Second)
	v.SetDefault("plugins.config_file", "plugin_configs.json")

	v.SetDefault("storage.main_file", "data.json")
	v.SetDefault("storage.backup_dir", "backups")

	v.SetDefault("backup.keep", 5)
	v.SetDefault("backup.every", 600)

	v.SetDefault("session.enabled", true)
	v.SetDefault("session.compress", true)

	v.SetDefault("history.enabled", false)
	v.SetDefault("history.db_path", "history.db")
	v.SetDefault("history.batch_size", 50)
	v.SetDefault("history.batch_timeout", 5*time.Second)

	v.SetDefault("layout.file", "")

	v.SetDefault("compression.speed", 1.0)
	v.SetDefault("compression.rpm", 100.0)
	v.SetDefault("compression.engine_temp", 5.0)
	v.SetDefault("compression.fuel", 2.0)
}

// Validate checks the loaded values
func (c *Config) Validate() error {
	if !LogLevel(strings.ToLower(c.LogLevel)).IsValid() {
		return errors.New(errors.ErrInvalidLogLevel).WithData(c.LogLevel)
	}
	if c.TickInterval <= 0 {
		return errors.New(errors.ErrInvalidInterval).WithData(c.TickInterval.String())
	}
	if c.PersistEvery < 1 {
		return errors.Newf(errors.ErrInvalidConfig, "persist_every must be at least 1, got %d", c.PersistEvery)
	}
	if c.Plugins.LoadTimeout <= 0 {
		return errors.New(errors.ErrInvalidInterval).WithData("plugins.load_timeout " + c.Plugins.LoadTimeout.String())
	}
	if c.Storage.MainFile == "" {
		return errors.Newf(errors.ErrInvalidConfig, "storage.main_file must be set")
	}
	if c.Backup.Keep < 0 || c.Backup.Every < 0 {
		return errors.Newf(errors.ErrInvalidConfig, "backup.keep and backup.every must not be negative")
	}
	if c.History.Enabled && c.History.DBPath == "" {
		return errors.Newf(errors.ErrInvalidConfig, "history.db_path must be set when history is enabled")
	}
	return nil
}
