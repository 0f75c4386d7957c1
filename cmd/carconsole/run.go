package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"codeberg.org/mutker/carconsole/internal/clock"
	"codeberg.org/mutker/carconsole/internal/errors"
	"codeberg.org/mutker/carconsole/internal/layout"
	"codeberg.org/mutker/carconsole/internal/logger"
	"codeberg.org/mutker/carconsole/internal/pid"
	"codeberg.org/mutker/carconsole/internal/pluginhost"
	"codeberg.org/mutker/carconsole/internal/storage"
	"codeberg.org/mutker/carconsole/internal/surface"
	"codeberg.org/mutker/carconsole/internal/telemetry"
)

var (
	runRender bool
	runReplay int64
	runLoop   bool
	runTicks  int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the dashboard",
	Long:  "run loads plugins and feeds them telemetry every tick, persisting snapshots, sessions and backups.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := pid.Write(cfg.PIDFile); err != nil {
			return err
		}
		defer func() {
			if err := pid.Remove(cfg.PIDFile); err != nil {
				logger.Warn().Err(err).Msg("Failed to remove PID file")
			}
		}()

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		c, err := newConsole(ctx)
		if err != nil {
			return err
		}

		logger.Info().
			Dur("tick", cfg.TickInterval).
			Strs("plugins", c.host.EnabledNames()).
			Msg("Dashboard running")

		err = c.run(ctx, runTicks)
		logger.Info().Int("ticks", c.tick).Msg("Exiting...")
		return err
	},
}

func init() {
	f := runCmd.Flags()
	f.Duration("tick", 100*time.Millisecond, "Tick interval")
	f.Int("persist-every", 10, "Persist every N ticks")
	f.String("pid-file", pid.DefaultPath(), "PID file")
	f.String("plugins-dir", "plugins", "Plugin directory")
	f.Duration("load-timeout", 5*time.Second, "Per-plugin load timeout")
	f.String("plugin-configs", "plugin_configs.json", "Plugin configuration file")
	f.Int("keep", 5, "Backups to keep")
	f.Int("backup-every", 600, "Back up every N ticks (0 disables)")
	f.String("layout", "", "Dashboard layout file (YAML)")
	f.BoolVar(&runRender, "render", false, "Draw frames to stdout")
	f.Int64Var(&runReplay, "replay", 0, "Replay a recorded session instead of simulating")
	f.BoolVar(&runLoop, "loop", false, "Loop the replayed session")
	f.IntVar(&runTicks, "ticks", 0, "Stop after N ticks (0 runs until interrupted)")
}

func newConsole(ctx context.Context) (*console, error) {
	store, err := openStorage(cfg)
	if err != nil {
		return nil, err
	}

	source, err := newSource(store)
	if err != nil {
		return nil, err
	}

	hist, err := openHistory(ctx, cfg)
	if err != nil {
		return nil, err
	}

	host := pluginhost.New(pluginConfig(cfg), logger.New("pluginhost"))
	if _, err := host.DiscoverAndLoad(ctx, cfg.Plugins.Dir); err != nil {
		hist.Close()
		return nil, err
	}
	if _, err := host.LoadConfigs(cfg.Plugins.ConfigFile); err != nil && !errors.HasCode(err, errors.ErrNotFound) {
		logger.Warn().Err(err).Msg("Ignoring plugin configuration file")
	}

	return &console{
		cfg:     cfg,
		log:     logger.New("console"),
		store:   store,
		hist:    hist,
		host:    host,
		source:  source,
		dash:    loadLayout(cfg.Layout.File),
		surface: surface.NewText(),
		out:     os.Stdout,
		render:  runRender,
	}, nil
}

func newSource(store *storage.Engine) (telemetry.Source, error) {
	if runReplay == 0 {
		return telemetry.NewSimulator(clock.NewReal()), nil
	}

	records, err := store.LoadSession(runReplay)
	if err != nil {
		return nil, err
	}
	// Replayed records are not recorded again.
	cfg.Session.Enabled = false
	return telemetry.NewReplaySource(records, runLoop), nil
}

func loadLayout(path string) *layout.Dashboard {
	if path == "" {
		return layout.Default()
	}
	d, err := layout.LoadOrError(path)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("Layout unavailable, showing error state")
	}
	return d
}
