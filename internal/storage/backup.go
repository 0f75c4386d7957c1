package storage

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"codeberg.org/mutker/carconsole/internal/errors"
)

// BackupName returns the file name used for a backup taken at unix.
func BackupName(unix int64) string {
	return backupPrefix + strconv.FormatInt(unix, 10) + backupSuffix
}

func isBackupName(name string) bool {
	if !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, backupSuffix) {
		return false
	}
	_, err := strconv.ParseInt(strings.TrimSuffix(strings.TrimPrefix(name, backupPrefix), backupSuffix), 10, 64)
	return err == nil
}

// CreateBackup copies the main file into the backup directory and returns
// the backup's name. A missing main file is ErrNotFound; no empty backup
// is created.
func (e *Engine) CreateBackup() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.createBackup()
}

func (e *Engine) createBackup() (string, error) {
	data, err := os.ReadFile(e.cfg.MainPath)
	if err != nil {
		return "", fileError(err, e.cfg.MainPath)
	}

	name := BackupName(e.clock.Now().Unix())
	path := filepath.Join(e.cfg.BackupDir, name)
	if err := writeExclusive(path, data); err != nil {
		return "", errors.Wrap(ErrIO, err).WithData(path)
	}

	e.log.Info().Str("backup", name).Int("bytes", len(data)).Msg("Backup created")
	return name, nil
}

// ListBackups returns backup names oldest first. A missing backup
// directory has no backups.
func (e *Engine) ListBackups() ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.listBackups()
}

func (e *Engine) listBackups() ([]string, error) {
	entries, err := os.ReadDir(e.cfg.BackupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(ErrIO, err).WithData(e.cfg.BackupDir)
	}

	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && isBackupName(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

// RestoreBackup replaces the main file with the named backup. The current
// main file is lost; use BackupThenRestore to keep it.
func (e *Engine) RestoreBackup(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.restoreBackup(name)
}

func (e *Engine) restoreBackup(name string) error {
	if !isBackupName(name) || filepath.Base(name) != name {
		return errors.New(ErrNotFound).WithData(name)
	}

	path := filepath.Join(e.cfg.BackupDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return fileError(err, name)
	}

	if err := writeAtomic(e.cfg.MainPath, data); err != nil {
		return errors.Wrap(ErrIO, err).WithData(e.cfg.MainPath)
	}

	e.log.Info().Str("backup", name).Msg("Backup restored")
	return nil
}

// BackupThenRestore backs up the current main file, if any, and restores
// name over it in one step. It returns the safety backup's name, empty
// when there was no main file to keep.
func (e *Engine) BackupThenRestore(name string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := os.Stat(filepath.Join(e.cfg.BackupDir, name)); err != nil || !isBackupName(name) {
		return "", errors.New(ErrNotFound).WithData(name)
	}

	safety, err := e.createBackup()
	if err != nil && !errors.HasCode(err, ErrNotFound) {
		return "", err
	}
	if err := e.restoreBackup(name); err != nil {
		return safety, err
	}
	return safety, nil
}

// CleanOldBackups deletes the oldest backups so that at most keep remain,
// and returns how many were deleted.
func (e *Engine) CleanOldBackups(keep int) (int, error) {
	if keep < 0 {
		return 0, errors.Newf(errors.ErrInvalidArgument, "keep count %d is negative", keep)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	names, err := e.listBackups()
	if err != nil {
		return 0, err
	}
	if len(names) <= keep {
		return 0, nil
	}

	deleted := 0
	for _, name := range names[:len(names)-keep] {
		if err := os.Remove(filepath.Join(e.cfg.BackupDir, name)); err != nil {
			return deleted, errors.Wrap(ErrIO, err).WithData(name)
		}
		deleted++
	}

	e.log.Info().Int("deleted", deleted).Int("kept", keep).Msg("Old backups removed")
	return deleted, nil
}
