package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var backupSafe bool

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage backups of the main telemetry file",
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Back up the main telemetry file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStorage(cfg)
		if err != nil {
			return err
		}
		name, err := store.CreateBackup()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), name)
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups, oldest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStorage(cfg)
		if err != nil {
			return err
		}
		names, err := store.ListBackups()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <name>",
	Short: "Replace the main telemetry file with a backup",
	Long:  "restore replaces the main file. Without --safe the current contents are lost.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStorage(cfg)
		if err != nil {
			return err
		}
		if !backupSafe {
			return store.RestoreBackup(args[0])
		}
		safety, err := store.BackupThenRestore(args[0])
		if err != nil {
			return err
		}
		if safety != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "previous state saved as %s\n", safety)
		}
		return nil
	},
}

var backupCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete the oldest backups beyond --keep",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStorage(cfg)
		if err != nil {
			return err
		}
		deleted, err := store.CleanOldBackups(cfg.Backup.Keep)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d backup(s)\n", deleted)
		return nil
	},
}

func init() {
	backupRestoreCmd.Flags().BoolVar(&backupSafe, "safe", true, "Back up the current file before restoring")
	backupCleanCmd.Flags().Int("keep", 5, "Backups to keep")

	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	backupCmd.AddCommand(backupCleanCmd)
}
