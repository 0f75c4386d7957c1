package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"codeberg.org/mutker/carconsole/internal/config"
	"codeberg.org/mutker/carconsole/internal/logger"
)

var (
	configFile string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "carconsole",
	Short:         "Vehicle dashboard host",
	Long:          "carconsole renders live telemetry through display plugins and keeps it on disk with sessions and backups.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load(
			config.WithConfigFile(configFile),
			config.WithFlags(cmd.Flags()),
		)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := logger.Init(cfg.LogLevel, logger.IsService()); err != nil {
			return err
		}
		logger.Debug().Str("main_file", cfg.Storage.MainFile).Msg("Config loaded")
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "Path to configuration file (TOML)")
	pf.String("log-level", config.DefaultLogLevel, "Log level (debug, info, warning, error)")
	pf.String("main-file", "data.json", "Main telemetry file")
	pf.String("backup-dir", "backups", "Backup directory")
	pf.Bool("history", false, "Enable the SQLite history index")
	pf.String("history-db", "history.db", "History database path")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(historyCmd)
}
