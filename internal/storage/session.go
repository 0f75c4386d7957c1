package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"codeberg.org/mutker/carconsole/internal/errors"
	"codeberg.org/mutker/carconsole/internal/telemetry"
)

// SessionPath returns the file a session with the given id lives in.
func (e *Engine) SessionPath(id int64) string {
	return e.cfg.MainPath + sessionMarker + strconv.FormatInt(id, 10)
}

// SaveSession writes records to a new session file named after the
// current time and returns its id. Records must be in timestamp order.
// An existing session with the same id is never overwritten.
func (e *Engine) SaveSession(records []telemetry.Record) (int64, error) {
	if err := telemetry.CheckOrdered(records); err != nil {
		return 0, errors.Wrap(ErrValidation, err)
	}
	if records == nil {
		records = []telemetry.Record{}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return 0, errors.Wrap(ErrSerialization, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.clock.Now().Unix()
	path := e.SessionPath(id)
	if err := writeExclusive(path, data); err != nil {
		return 0, errors.Wrap(ErrIO, err).WithData(path)
	}

	e.log.Info().Int64("session", id).Int("records", len(records)).Msg("Session saved")
	return id, nil
}

func (e *Engine) LoadSession(id int64) ([]telemetry.Record, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadSession(id)
}

func (e *Engine) loadSession(id int64) ([]telemetry.Record, error) {
	path := e.SessionPath(id)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fileError(err, path)
	}

	var records []telemetry.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(ErrCorruptData, err).WithData(path)
	}
	return records, nil
}

// ListSessions returns the ids of recorded sessions, oldest first.
func (e *Engine) ListSessions() ([]int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.listSessions()
}

func (e *Engine) listSessions() ([]int64, error) {
	dir := filepath.Dir(e.cfg.MainPath)
	prefix := filepath.Base(e.cfg.MainPath) + sessionMarker

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(ErrIO, err).WithData(dir)
	}

	var ids []int64
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || !strings.HasPrefix(name, prefix) {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimPrefix(name, prefix), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}
