package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"codeberg.org/mutker/carconsole/internal/errors"
	"codeberg.org/mutker/carconsole/internal/integrity"
	"codeberg.org/mutker/carconsole/internal/storage"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect recorded sessions",
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStorage(cfg)
		if err != nil {
			return err
		}
		ids, err := store.ListSessions()
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", id, time.Unix(id, 0).Format(time.RFC3339))
		}
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a session's records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, id, err := sessionArgs(args)
		if err != nil {
			return err
		}
		records, err := store.LoadSession(id)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, r := range records {
			fmt.Fprintf(out, "%d\tspeed=%.1f\trpm=%.0f\tgear=%s\ttemp=%.1f\tfuel=%.1f\n",
				r.Timestamp, r.Speed, r.RPM, r.GearString(), r.EngineTemp, r.FuelLevel)
		}
		return nil
	},
}

var sessionCompressCmd = &cobra.Command{
	Use:   "compress <id>",
	Short: "Store a thinned copy of a session as a new session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, id, err := sessionArgs(args)
		if err != nil {
			return err
		}
		records, err := store.LoadSession(id)
		if err != nil {
			return err
		}
		thinned := integrity.CompressWith(records, thresholds(cfg))
		newID, err := store.SaveSession(thinned)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "session %d: %d -> %d records\n", newID, len(records), len(thinned))
		return nil
	},
}

func sessionArgs(args []string) (*storage.Engine, int64, error) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrInvalidArgument, err)
	}
	store, err := openStorage(cfg)
	if err != nil {
		return nil, 0, err
	}
	return store, id, nil
}

func init() {
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionCompressCmd)
}
