package integrity_test

import (
	"testing"

	"codeberg.org/mutker/carconsole/internal/integrity"
	"codeberg.org/mutker/carconsole/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(ts int64, speed, rpm float64, gear int) telemetry.Record {
	r := telemetry.Default()
	r.Timestamp = ts
	r.Speed = speed
	r.RPM = rpm
	r.EngineTemp = 185
	r.FuelLevel = 60
	r.Gear = gear
	return r
}

func TestCompressKeepsEndpoints(t *testing.T) {
	in := []telemetry.Record{
		sample(1, 50, 3000, 3),
		sample(2, 50.1, 3010, 3),
		sample(3, 50.2, 3020, 3),
		sample(4, 50.3, 3030, 3),
		sample(5, 50.4, 3040, 3),
	}

	out := integrity.Compress(in)
	require.Len(t, out, 2)
	assert.Equal(t, int64(1), out[0].Timestamp)
	assert.Equal(t, int64(5), out[1].Timestamp)
}

func TestCompressKeepsSignificantNeighbours(t *testing.T) {
	in := []telemetry.Record{
		sample(1, 50, 3000, 3),
		sample(2, 50, 3000, 3),
		sample(3, 50, 3000, 3),
		sample(4, 50, 3000, 4), // gear change
		sample(5, 50, 3000, 4),
		sample(6, 50, 3000, 4),
	}

	out := integrity.Compress(in)
	var ts []int64
	for _, r := range out {
		ts = append(ts, r.Timestamp)
	}
	// 3 differs from its successor, 4 from its predecessor.
	assert.Equal(t, []int64{1, 3, 4, 6}, ts)
}

func TestCompressThresholdsAreStrict(t *testing.T) {
	in := []telemetry.Record{
		sample(1, 50, 3000, 3),
		sample(2, 51, 3100, 3), // exactly at thresholds
		sample(3, 52, 3200, 3),
	}
	out := integrity.Compress(in)
	assert.Len(t, out, 2)

	in[1].FuelLevel = 57.9
	out = integrity.Compress(in)
	assert.Len(t, out, 3)
}

func TestCompressProperties(t *testing.T) {
	for n := 0; n < 12; n++ {
		in := make([]telemetry.Record, n)
		for i := range in {
			in[i] = sample(int64(i), float64(i%3)*2, 3000, 2)
		}
		out := integrity.Compress(in)
		assert.LessOrEqual(t, len(out), len(in))
		if n > 0 {
			assert.Equal(t, in[0].Timestamp, out[0].Timestamp)
			assert.Equal(t, in[n-1].Timestamp, out[len(out)-1].Timestamp)
		}
		for i := 1; i < len(out); i++ {
			assert.Less(t, out[i-1].Timestamp, out[i].Timestamp, "order preserved")
		}
	}
}

func TestCompressWithCustomThresholds(t *testing.T) {
	in := []telemetry.Record{
		sample(1, 50, 3000, 3),
		sample(2, 50.5, 3000, 3),
		sample(3, 50.5, 3000, 3),
	}
	out := integrity.CompressWith(in, integrity.Thresholds{Speed: 0.1, RPM: 100, EngineTemp: 5, Fuel: 2})
	assert.Len(t, out, 3)
}

func TestHashValidate(t *testing.T) {
	r := sample(1700000000, 75, 4000, 3)
	h := integrity.Hash(r)

	assert.Len(t, h, 16)
	assert.True(t, integrity.Validate(r, h))
	assert.Equal(t, h, integrity.Hash(r.Clone()), "deterministic")

	mutations := map[string]func(*telemetry.Record){
		"timestamp":   func(r *telemetry.Record) { r.Timestamp++ },
		"speed":       func(r *telemetry.Record) { r.Speed += 0.01 },
		"rpm":         func(r *telemetry.Record) { r.RPM += 0.1 },
		"engine_temp": func(r *telemetry.Record) { r.EngineTemp += 0.01 },
		"gear":        func(r *telemetry.Record) { r.Gear = 4 },
	}
	for name, mutate := range mutations {
		m := r
		mutate(&m)
		assert.False(t, integrity.Validate(m, h), name)
	}
}

func TestHashIgnoresSubPrecisionNoise(t *testing.T) {
	r := sample(1700000000, 75, 4000, 3)
	noisy := r
	noisy.Speed += 0.0001
	noisy.RPM += 0.001
	noisy.FuelLevel = 12 // not a hashed channel

	assert.Equal(t, integrity.Hash(r), integrity.Hash(noisy))
}
