package storage

import (
	"fmt"
	"math"
	"os"
	"time"
)

type Stats struct {
	MainExists   bool
	MainSize     int64
	MainModTime  time.Time
	BackupCount  int
	SessionCount int
}

func (e *Engine) Stats() (Stats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var st Stats
	info, err := os.Stat(e.cfg.MainPath)
	switch {
	case err == nil:
		st.MainExists = true
		st.MainSize = info.Size()
		st.MainModTime = info.ModTime()
	case !os.IsNotExist(err):
		return st, fileError(err, e.cfg.MainPath)
	}

	backups, err := e.listBackups()
	if err != nil {
		return st, err
	}
	st.BackupCount = len(backups)

	sessions, err := e.listSessions()
	if err != nil {
		return st, err
	}
	st.SessionCount = len(sessions)
	return st, nil
}

// Health reports the first problem found: a main file that does not
// decode, or a backup directory that cannot be listed. Missing files are
// healthy.
func (e *Engine) Health() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := os.Stat(e.cfg.MainPath); err == nil {
		if _, err := e.load(); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return fileError(err, e.cfg.MainPath)
	}

	if _, err := os.Stat(e.cfg.BackupDir); err == nil {
		if _, err := os.ReadDir(e.cfg.BackupDir); err != nil {
			return fileError(err, e.cfg.BackupDir)
		}
	} else if !os.IsNotExist(err) {
		return fileError(err, e.cfg.BackupDir)
	}
	return nil
}

func (e *Engine) IsHealthy() bool {
	return e.Health() == nil
}

// FileSizeHuman formats the main file's size, or "0.0 B" if it is absent.
func (e *Engine) FileSizeHuman() string {
	st, err := e.Stats()
	if err != nil {
		return FormatSize(0)
	}
	return FormatSize(st.MainSize)
}

// FormatSize renders n in binary units with one decimal place, using the
// largest unit the rounded value reaches.
func FormatSize(n int64) string {
	units := []string{"B", "KB", "MB", "GB"}
	size := float64(n)
	i := 0
	for math.Round(size*10) >= 1024*10 && i < len(units)-1 {
		size /= 1024
		i++
	}
	return fmt.Sprintf("%.1f %s", size, units[i])
}
