package storage

import (
	"path/filepath"

	"codeberg.org/mutker/carconsole/internal/errors"
)

const (
	defaultMainPath  = "data.json"
	defaultBackupDir = "backups"
	dirPerm          = 0o755
	filePerm         = 0o644

	backupPrefix  = "backup_"
	backupSuffix  = ".json"
	sessionMarker = ".session_"
)

type Config struct {
	MainPath  string
	BackupDir string
}

func DefaultConfig() Config {
	return Config{
		MainPath:  defaultMainPath,
		BackupDir: defaultBackupDir,
	}
}

func (c Config) Validate() error {
	if c.MainPath == "" {
		return errors.New(errors.ErrInvalidConfig).WithData("storage main path is empty")
	}
	if c.BackupDir == "" {
		return errors.New(errors.ErrInvalidConfig).WithData("storage backup dir is empty")
	}
	if filepath.Clean(c.BackupDir) == filepath.Clean(filepath.Dir(c.MainPath)) {
		return errors.New(errors.ErrInvalidConfig).WithData("backup dir must differ from the main file's directory")
	}
	return nil
}
