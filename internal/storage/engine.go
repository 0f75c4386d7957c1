// Package storage persists the current telemetry snapshot, recorded
// sessions and rotating backups as plain files.
//
// Every operation runs under one mutex, so a backup can never observe a
// half-written main file and restore-after-backup is a single step.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"codeberg.org/mutker/carconsole/internal/clock"
	"codeberg.org/mutker/carconsole/internal/errors"
	"codeberg.org/mutker/carconsole/internal/logger"
	"codeberg.org/mutker/carconsole/internal/telemetry"
)

type Engine struct {
	cfg   Config
	clock clock.Clock
	log   logger.Logger

	mu sync.Mutex
}

func New(cfg Config, clk clock.Clock, log logger.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.NewReal()
	}
	return &Engine{cfg: cfg, clock: clk, log: log}, nil
}

func (e *Engine) MainPath() string  { return e.cfg.MainPath }
func (e *Engine) BackupDir() string { return e.cfg.BackupDir }

// Save replaces the main file with rec. Readers see either the previous
// or the new file, never a partial write.
func (e *Engine) Save(rec telemetry.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(ErrSerialization, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := writeAtomic(e.cfg.MainPath, data); err != nil {
		return errors.Wrap(ErrIO, err)
	}
	return nil
}

// Load reads the main file.
func (e *Engine) Load() (telemetry.Record, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.load()
}

func (e *Engine) load() (telemetry.Record, error) {
	var rec telemetry.Record
	data, err := os.ReadFile(e.cfg.MainPath)
	if err != nil {
		return rec, fileError(err, e.cfg.MainPath)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, errors.Wrap(ErrCorruptData, err).WithData(e.cfg.MainPath)
	}
	return rec, nil
}

func fileError(err error, path string) error {
	if os.IsNotExist(err) {
		return errors.Wrap(ErrNotFound, err).WithData(path)
	}
	return errors.Wrap(ErrIO, err).WithData(path)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), filePerm); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// writeExclusive creates path and fails if it already exists.
func writeExclusive(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
