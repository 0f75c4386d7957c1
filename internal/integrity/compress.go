// Package integrity thins recorded sessions and computes corruption digests.
package integrity

import (
	"math"

	"codeberg.org/mutker/carconsole/internal/telemetry"
)

// Thresholds are the per-channel deltas above which a sample is kept.
type Thresholds struct {
	Speed      float64
	RPM        float64
	EngineTemp float64
	Fuel       float64
}

// DefaultThresholds are used unless a deployment overrides them.
var DefaultThresholds = Thresholds{
	Speed:      1.0,
	RPM:        100.0,
	EngineTemp: 5.0,
	Fuel:       2.0,
}

// Compress thins records with DefaultThresholds.
func Compress(records []telemetry.Record) []telemetry.Record {
	return CompressWith(records, DefaultThresholds)
}

// CompressWith keeps the first and last record, and each interior record
// that differs significantly from its predecessor or its successor in the
// input. Order is preserved; spacing of retained samples is uneven.
func CompressWith(records []telemetry.Record, th Thresholds) []telemetry.Record {
	if len(records) <= 2 {
		out := make([]telemetry.Record, len(records))
		for i, r := range records {
			out[i] = r.Clone()
		}
		return out
	}

	out := make([]telemetry.Record, 0, len(records))
	out = append(out, records[0].Clone())
	for i := 1; i < len(records)-1; i++ {
		if th.Significant(records[i-1], records[i]) || th.Significant(records[i], records[i+1]) {
			out = append(out, records[i].Clone())
		}
	}
	out = append(out, records[len(records)-1].Clone())
	return out
}

// Significant reports whether a and b differ beyond any threshold or by gear.
func (th Thresholds) Significant(a, b telemetry.Record) bool {
	return math.Abs(a.Speed-b.Speed) > th.Speed ||
		math.Abs(a.RPM-b.RPM) > th.RPM ||
		math.Abs(a.EngineTemp-b.EngineTemp) > th.EngineTemp ||
		math.Abs(a.FuelLevel-b.FuelLevel) > th.Fuel ||
		a.Gear != b.Gear
}
