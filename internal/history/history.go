package history

import (
	"context"

	"codeberg.org/mutker/carconsole/internal/errors"
	"codeberg.org/mutker/carconsole/internal/integrity"
	"codeberg.org/mutker/carconsole/internal/logger"
	"codeberg.org/mutker/carconsole/internal/telemetry"
)

// No-op implementation
type noopRepository struct{}

// New opens the history database, or returns a no-op repository when
// history is disabled.
func New(ctx context.Context, cfg Config, log logger.Logger) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(ErrInvalidConfig, err)
	}

	if !cfg.Enabled {
		log.Debug().Msg("History disabled, using no-op repository")
		return noopRepository{}, nil
	}

	return newRepository(ctx, cfg, log)
}

// Verify checks rec against the hash recorded for its timestamp. A
// mismatch is ErrCorruptData; a timestamp never recorded is ErrNotFound.
func Verify(ctx context.Context, repo Repository, rec telemetry.Record) error {
	want, err := repo.HashAt(ctx, rec.Timestamp)
	if err != nil {
		return err
	}
	if !integrity.Validate(rec, want) {
		return errors.New(ErrCorruptData).WithData(struct {
			Timestamp int64
			Recorded  string
			Actual    string
		}{
			Timestamp: rec.Timestamp,
			Recorded:  want,
			Actual:    integrity.Hash(rec),
		})
	}
	return nil
}

func (noopRepository) Record(_ context.Context, _ telemetry.Record) error { return nil }
func (noopRepository) Recent(_ context.Context, _ int) ([]Entry, error)   { return nil, nil }
func (noopRepository) Close() error                                       { return nil }

func (noopRepository) HashAt(_ context.Context, ts int64) (string, error) {
	return "", errors.New(ErrNotFound).WithData(ts)
}
