package main

import (
	"github.com/spf13/cobra"

	"codeberg.org/mutker/carconsole/internal/logger"
)

var exportSession int64

var exportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Export telemetry as CSV",
	Long:  "export writes the current snapshot, or a whole session with --session, as CSV.",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		store, err := openStorage(cfg)
		if err != nil {
			return err
		}
		if exportSession != 0 {
			err = store.ExportSessionCSV(exportSession, args[0])
		} else {
			err = store.ExportCSV(args[0])
		}
		if err != nil {
			return err
		}
		logger.Info().Str("path", args[0]).Msg("Export written")
		return nil
	},
}

func init() {
	exportCmd.Flags().Int64Var(&exportSession, "session", 0, "Session id to export")
}
