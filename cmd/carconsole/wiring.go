package main

import (
	"context"

	"codeberg.org/mutker/carconsole/internal/clock"
	"codeberg.org/mutker/carconsole/internal/config"
	"codeberg.org/mutker/carconsole/internal/errors"
	"codeberg.org/mutker/carconsole/internal/history"
	"codeberg.org/mutker/carconsole/internal/integrity"
	"codeberg.org/mutker/carconsole/internal/logger"
	"codeberg.org/mutker/carconsole/internal/pluginhost"
	"codeberg.org/mutker/carconsole/internal/storage"
)

func storageConfig(c *config.Config) storage.Config {
	return storage.Config{
		MainPath:  c.Storage.MainFile,
		BackupDir: c.Storage.BackupDir,
	}
}

func historyConfig(c *config.Config) history.Config {
	return history.Config{
		DBPath:       c.History.DBPath,
		Enabled:      c.History.Enabled,
		BatchSize:    c.History.BatchSize,
		BatchTimeout: c.History.BatchTimeout,
	}
}

func pluginConfig(c *config.Config) pluginhost.Config {
	return pluginhost.Config{
		Dir:         c.Plugins.Dir,
		LoadTimeout: c.Plugins.LoadTimeout,
		ConfigFile:  c.Plugins.ConfigFile,
	}
}

func thresholds(c *config.Config) integrity.Thresholds {
	return integrity.Thresholds{
		Speed:      c.Compression.Speed,
		RPM:        c.Compression.RPM,
		EngineTemp: c.Compression.EngineTemp,
		Fuel:       c.Compression.Fuel,
	}
}

func openStorage(c *config.Config) (*storage.Engine, error) {
	return storage.New(storageConfig(c), clock.NewReal(), logger.New("storage"))
}

func openHistory(ctx context.Context, c *config.Config) (history.Repository, error) {
	return history.New(ctx, historyConfig(c), logger.New("history"))
}

// requireHistory rejects commands that read the index when it is disabled
// and would otherwise see the empty no-op repository.
func requireHistory(c *config.Config, command string) error {
	if !c.History.Enabled {
		return errors.Newf(errors.ErrInvalidConfig, "%s needs the history index (--history)", command)
	}
	return nil
}
