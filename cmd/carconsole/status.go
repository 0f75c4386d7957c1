package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"codeberg.org/mutker/carconsole/internal/history"
	"codeberg.org/mutker/carconsole/internal/storage"
)

var historyLimit int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show storage statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStorage(cfg)
		if err != nil {
			return err
		}
		st, err := store.Stats()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if st.MainExists {
			fmt.Fprintf(out, "main file:  %s (%s, modified %s)\n",
				store.MainPath(), storage.FormatSize(st.MainSize), st.MainModTime.Format(time.RFC3339))
		} else {
			fmt.Fprintf(out, "main file:  %s (absent)\n", store.MainPath())
		}
		fmt.Fprintf(out, "backups:    %d in %s\n", st.BackupCount, store.BackupDir())
		fmt.Fprintf(out, "sessions:   %d\n", st.SessionCount)
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that stored data is readable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStorage(cfg)
		if err != nil {
			return err
		}
		if err := store.Health(); err != nil {
			return fmt.Errorf("unhealthy: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "healthy")
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the main file against its recorded hash",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireHistory(cfg, "verify"); err != nil {
			return err
		}
		store, err := openStorage(cfg)
		if err != nil {
			return err
		}
		rec, err := store.Load()
		if err != nil {
			return err
		}

		repo, err := openHistory(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer repo.Close()

		if err := history.Verify(cmd.Context(), repo, rec); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "snapshot %d verified\n", rec.Timestamp)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the most recent indexed snapshots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireHistory(cfg, "history"); err != nil {
			return err
		}
		repo, err := openHistory(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer repo.Close()

		entries, err := repo.Recent(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, e := range entries {
			fmt.Fprintf(out, "%s\tspeed=%.1f\trpm=%.0f\tgear=%d\t%s\n",
				time.Unix(e.Timestamp, 0).Format(time.RFC3339), e.Speed, e.RPM, e.Gear, e.Hash)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of entries")
}
