package main

import (
	"context"
	"io"
	"slices"
	"time"

	"codeberg.org/mutker/carconsole/internal/config"
	"codeberg.org/mutker/carconsole/internal/errors"
	"codeberg.org/mutker/carconsole/internal/history"
	"codeberg.org/mutker/carconsole/internal/integrity"
	"codeberg.org/mutker/carconsole/internal/layout"
	"codeberg.org/mutker/carconsole/internal/logger"
	"codeberg.org/mutker/carconsole/internal/pluginhost"
	"codeberg.org/mutker/carconsole/internal/storage"
	"codeberg.org/mutker/carconsole/internal/surface"
	"codeberg.org/mutker/carconsole/internal/telemetry"
)

// console is one running dashboard: source -> plugins -> storage.
type console struct {
	cfg     *config.Config
	log     logger.Logger
	store   *storage.Engine
	hist    history.Repository
	host    *pluginhost.Host
	source  telemetry.Source
	dash    *layout.Dashboard
	surface *surface.Text
	out     io.Writer
	render  bool

	tick    int
	session []telemetry.Record
	alerts  []string
}

// run ticks until ctx is done, the source is exhausted, or maxTicks
// ticks have run (0 means no limit). It always finishes the session.
func (c *console) run(ctx context.Context, maxTicks int) error {
	ticker := time.NewTicker(c.cfg.TickInterval)
	defer ticker.Stop()

	var runErr error
loop:
	for maxTicks == 0 || c.tick < maxTicks {
		if err := c.step(ctx); err != nil {
			if !errors.HasCode(err, telemetry.ErrExhausted) {
				runErr = err
			}
			break
		}

		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			if ctx.Err() != nil {
				break loop
			}
		}
	}

	if err := c.finish(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func (c *console) step(ctx context.Context) error {
	rec, err := c.source.Next()
	if err != nil {
		return err
	}
	c.tick++

	c.checkRecord(rec)
	c.host.BroadcastUpdate(rec)

	if c.render {
		layout.Route(c.dash, c.surface)
		c.host.BroadcastRender(c.surface)
		if err := c.surface.Flush(c.out); err != nil {
			c.log.Warn().Err(err).Msg("Failed to draw frame")
		}
	}

	if c.tick%c.cfg.PersistEvery == 0 {
		c.persist(ctx, rec)
	}
	if c.cfg.Backup.Every > 0 && c.tick%c.cfg.Backup.Every == 0 {
		c.backup()
	}
	return nil
}

// checkRecord logs range violations, and alerts as they appear and clear.
// Out-of-range data is still displayed and stored.
func (c *console) checkRecord(rec telemetry.Record) {
	if v := rec.Violations(); len(v) > 0 {
		c.log.Warn().Strs("channels", v).Int64("timestamp", rec.Timestamp).Msg("Telemetry out of range")
	}

	var current []string
	for _, a := range rec.Alerts() {
		current = append(current, a.Message)
		if !slices.Contains(c.alerts, a.Message) {
			c.log.Warn().Str("channel", a.Channel).Msg(a.Message)
		}
	}
	for _, prev := range c.alerts {
		if !slices.Contains(current, prev) {
			c.log.Info().Str("alert", prev).Msg("Alert cleared")
		}
	}
	c.alerts = current
}

func (c *console) persist(ctx context.Context, rec telemetry.Record) {
	if err := c.store.Save(rec); err != nil {
		c.log.Error().Err(err).Msg("Failed to save telemetry")
	}
	if err := c.hist.Record(ctx, rec); err != nil {
		c.log.Warn().Err(err).Msg("Failed to index telemetry")
	}
	if c.cfg.Session.Enabled {
		c.session = append(c.session, rec)
	}
}

func (c *console) backup() {
	name, err := c.store.CreateBackup()
	if err != nil {
		c.log.Warn().Err(err).Msg("Periodic backup failed")
		return
	}
	deleted, err := c.store.CleanOldBackups(c.cfg.Backup.Keep)
	if err != nil {
		c.log.Warn().Err(err).Msg("Backup rotation failed")
		return
	}
	c.log.Debug().Str("backup", name).Int("rotated", deleted).Send()
}

func (c *console) finish() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if len(c.session) > 0 {
		records := c.session
		if c.cfg.Session.Compress {
			records = integrity.CompressWith(records, thresholds(c.cfg))
		}
		id, err := c.store.SaveSession(records)
		if err != nil {
			c.log.Error().Err(err).Msg("Failed to save session")
			keep(err)
		} else {
			c.log.Info().
				Int64("session", id).
				Int("captured", len(c.session)).
				Int("stored", len(records)).
				Msg("Session recorded")
		}
		c.session = nil
	}

	if err := c.host.SaveConfigs(c.cfg.Plugins.ConfigFile); err != nil {
		c.log.Warn().Err(err).Msg("Failed to save plugin configurations")
		keep(err)
	}
	c.host.Shutdown()

	if err := c.hist.Close(); err != nil {
		keep(err)
	}
	return firstErr
}
