package telemetry_test

import (
	"encoding/json"
	"testing"
	"time"

	"codeberg.org/mutker/carconsole/internal/clock"
	"codeberg.org/mutker/carconsole/internal/errors"
	"codeberg.org/mutker/carconsole/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cruising() telemetry.Record {
	r := telemetry.Default()
	r.Speed = 75.0
	r.RPM = 4000.0
	r.EngineTemp = 185.0
	r.FuelLevel = 60.0
	r.Gear = 3
	r.BatteryVoltage = 12.5
	r.Timestamp = 1700000000
	return r
}

func TestCruisingRecord(t *testing.T) {
	r := cruising()

	assert.True(t, r.IsValid())
	assert.Empty(t, r.Alerts())
	assert.Equal(t, "3", r.GearString())
	assert.NoError(t, r.Validate())
}

func TestAlertsIndependentOfValidity(t *testing.T) {
	r := cruising()
	r.EngineTemp = 250.0

	assert.True(t, r.IsValid(), "250 is inside the 0-300 physical range")

	alerts := r.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, "engine_temp", alerts[0].Channel)
	assert.Contains(t, alerts[0].Message, "temperature")
}

func TestInvalidRecordIsReported(t *testing.T) {
	r := cruising()
	r.Speed = 250
	r.Gear = 7

	assert.False(t, r.IsValid())
	err := r.Validate()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrValidation))
	assert.Contains(t, err.Error(), "speed=250")
	assert.Contains(t, err.Error(), "gear=7")
	assert.Equal(t, 250.0, r.Speed, "validation never clamps")
}

func TestRangeBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*telemetry.Record)
		valid bool
	}{
		{"speed max", func(r *telemetry.Record) { r.Speed = 200 }, true},
		{"speed negative", func(r *telemetry.Record) { r.Speed = -0.1 }, false},
		{"rpm max", func(r *telemetry.Record) { r.RPM = 10000 }, true},
		{"rpm over", func(r *telemetry.Record) { r.RPM = 10000.5 }, false},
		{"battery low", func(r *telemetry.Record) { r.BatteryVoltage = 7.9 }, false},
		{"battery min", func(r *telemetry.Record) { r.BatteryVoltage = 8 }, true},
		{"brake pressure max", func(r *telemetry.Record) { r.BrakePressure = 2000 }, true},
		{"throttle over", func(r *telemetry.Record) { r.ThrottlePosition = 101 }, false},
		{"reverse", func(r *telemetry.Record) { r.Gear = -1 }, true},
		{"below reverse", func(r *telemetry.Record) { r.Gear = -2 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := cruising()
			tt.apply(&r)
			assert.Equal(t, tt.valid, r.IsValid())
		})
	}
}

func TestGearString(t *testing.T) {
	for gear, want := range map[int]string{-1: "R", 0: "N", 1: "1", 6: "6", 7: "?", -3: "?"} {
		r := telemetry.Record{Gear: gear}
		assert.Equal(t, want, r.GearString(), "gear %d", gear)
	}
}

func TestTireAlertNamesWheel(t *testing.T) {
	r := cruising()
	r.TirePressureRL = 20

	alerts := r.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, "tire_pressure_rl", alerts[0].Channel)
	assert.Contains(t, alerts[0].Message, "RL")
}

func TestJSONShape(t *testing.T) {
	r := cruising()
	r.Latitude = telemetry.Float(52.37)

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	for _, key := range []string{
		"speed", "rpm", "engine_temp", "fuel_level", "battery_voltage", "oil_pressure",
		"throttle_position", "brake_pressure", "gear", "timestamp", "latitude", "longitude",
		"altitude", "acceleration", "brake_temperature", "tire_pressure_fl", "tire_pressure_fr",
		"tire_pressure_rl", "tire_pressure_rr",
	} {
		assert.Contains(t, fields, key)
	}
	assert.Nil(t, fields["longitude"])
	assert.Equal(t, 52.37, fields["latitude"])
}

func TestCloneDoesNotAlias(t *testing.T) {
	r := cruising()
	r.Altitude = telemetry.Float(10)

	c := r.Clone()
	*c.Altitude = 99

	assert.Equal(t, 10.0, *r.Altitude)
	assert.False(t, r.Equal(c))
	assert.True(t, r.Equal(r.Clone()))
}

func TestInterpolate(t *testing.T) {
	a := cruising()
	b := cruising()
	b.Speed = 85
	b.RPM = 5000
	b.Gear = 4
	b.Timestamp = a.Timestamp + 10

	mid := telemetry.Interpolate(a, b, 0.25)
	assert.InDelta(t, 77.5, mid.Speed, 1e-9)
	assert.InDelta(t, 4250, mid.RPM, 1e-9)
	assert.Equal(t, 3, mid.Gear)
	assert.Equal(t, a.Timestamp, mid.Timestamp)

	late := telemetry.Interpolate(a, b, 2)
	assert.InDelta(t, 85, late.Speed, 1e-9)
	assert.Equal(t, 4, late.Gear)
	assert.Equal(t, 75.0, a.Speed, "inputs untouched")
}

func TestCheckOrdered(t *testing.T) {
	a, b := cruising(), cruising()
	b.Timestamp = a.Timestamp - 1

	assert.NoError(t, telemetry.CheckOrdered([]telemetry.Record{a, a}))
	err := telemetry.CheckOrdered([]telemetry.Record{a, b})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, telemetry.ErrOutOfOrder))
}

func TestSimulatorMonotonic(t *testing.T) {
	fc := clock.NewFake(time.Unix(1700000000, 0))
	sim := telemetry.NewSimulator(fc)

	first, err := sim.Next()
	require.NoError(t, err)
	fc.CurrentTime = time.Unix(1600000000, 0)
	second, err := sim.Next()
	require.NoError(t, err)

	assert.GreaterOrEqual(t, second.Timestamp, first.Timestamp)
	assert.Greater(t, second.Speed, first.Speed)
	assert.True(t, second.IsValid())
}

func TestReplaySource(t *testing.T) {
	a, b := cruising(), cruising()
	b.Timestamp++

	src := telemetry.NewReplaySource([]telemetry.Record{a, b}, false)
	got, err := src.Next()
	require.NoError(t, err)
	assert.True(t, a.Equal(got))
	_, err = src.Next()
	require.NoError(t, err)
	_, err = src.Next()
	assert.True(t, errors.HasCode(err, telemetry.ErrExhausted))

	looping := telemetry.NewReplaySource([]telemetry.Record{a}, true)
	for i := 0; i < 3; i++ {
		got, err := looping.Next()
		require.NoError(t, err)
		assert.Equal(t, a.Timestamp, got.Timestamp)
	}
}
