// Package history keeps a queryable SQLite index of persisted telemetry
// snapshots together with their integrity hashes.
package history

import (
	"context"

	"codeberg.org/mutker/carconsole/internal/telemetry"
)

// Repository stores snapshots and answers lookups. Record may buffer;
// Recent and HashAt see buffered entries.
type Repository interface {
	Record(ctx context.Context, rec telemetry.Record) error
	Recent(ctx context.Context, n int) ([]Entry, error)
	HashAt(ctx context.Context, timestamp int64) (string, error)
	Close() error
}

// Entry is one indexed snapshot.
type Entry struct {
	Timestamp  int64
	Speed      float64
	RPM        float64
	EngineTemp float64
	FuelLevel  float64
	Gear       int
	Hash       string
}
