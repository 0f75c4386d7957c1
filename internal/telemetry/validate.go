package telemetry

import (
	"fmt"
	"strings"

	"codeberg.org/mutker/carconsole/internal/errors"
)

// Range is an inclusive physical range for a scalar channel.
type Range struct {
	Min, Max float64
}

func (rg Range) Contains(v float64) bool {
	return v >= rg.Min && v <= rg.Max
}

type channel struct {
	name  string
	rng   Range
	value func(Record) float64
}

var channels = []channel{
	{"speed", Range{0, 200}, func(r Record) float64 { return r.Speed }},
	{"rpm", Range{0, 10000}, func(r Record) float64 { return r.RPM }},
	{"engine_temp", Range{0, 300}, func(r Record) float64 { return r.EngineTemp }},
	{"fuel_level", Range{0, 100}, func(r Record) float64 { return r.FuelLevel }},
	{"battery_voltage", Range{8, 16}, func(r Record) float64 { return r.BatteryVoltage }},
	{"oil_pressure", Range{0, 100}, func(r Record) float64 { return r.OilPressure }},
	{"throttle_position", Range{0, 100}, func(r Record) float64 { return r.ThrottlePosition }},
	{"brake_pressure", Range{0, 2000}, func(r Record) float64 { return r.BrakePressure }},
}

// RangeOf returns the physical range of a named channel.
func RangeOf(name string) (Range, bool) {
	for _, c := range channels {
		if c.name == name {
			return c.rng, true
		}
	}
	return Range{}, false
}

// Violations lists every channel outside its physical range.
func (r Record) Violations() []string {
	var out []string
	for _, c := range channels {
		if v := c.value(r); !c.rng.Contains(v) {
			out = append(out, fmt.Sprintf("%s=%g outside [%g, %g]", c.name, v, c.rng.Min, c.rng.Max))
		}
	}
	if r.Gear < GearReverse || r.Gear > GearMax {
		out = append(out, fmt.Sprintf("gear=%d outside [%d, %d]", r.Gear, GearReverse, GearMax))
	}
	return out
}

// IsValid reports whether every channel lies in its physical range.
func (r Record) IsValid() bool {
	return len(r.Violations()) == 0
}

// Validate returns a validation error naming each out-of-range channel.
// Invalid records are still stored and displayed; callers only flag them.
func (r Record) Validate() error {
	v := r.Violations()
	if len(v) == 0 {
		return nil
	}
	return errors.New(ErrOutOfRange).WithData(strings.Join(v, "; "))
}

// Alert is an advisory condition, independent of validity.
type Alert struct {
	Channel string
	Message string
}

const (
	engineTempHigh   = 220.0
	fuelLow          = 10.0
	batteryLow       = 11.5
	batteryHigh      = 15.0
	oilPressureLow   = 10.0
	oilCheckMinRPM   = 500.0
	tirePressureLow  = 26.0
	tirePressureHigh = 42.0
	brakeTempHigh    = 500.0
	redlineRPM       = 7000.0
)

// Alerts returns the advisory warnings for this snapshot.
func (r Record) Alerts() []Alert {
	var alerts []Alert
	add := func(ch, format string, args ...any) {
		alerts = append(alerts, Alert{Channel: ch, Message: fmt.Sprintf(format, args...)})
	}

	if r.EngineTemp > engineTempHigh {
		add("engine_temp", "engine temperature high: %.1f", r.EngineTemp)
	}
	if r.FuelLevel < fuelLow {
		add("fuel_level", "fuel level low: %.1f%%", r.FuelLevel)
	}
	if r.BatteryVoltage < batteryLow {
		add("battery_voltage", "battery voltage low: %.1fV", r.BatteryVoltage)
	} else if r.BatteryVoltage > batteryHigh {
		add("battery_voltage", "battery voltage high: %.1fV", r.BatteryVoltage)
	}
	if r.OilPressure < oilPressureLow && r.RPM > oilCheckMinRPM {
		add("oil_pressure", "oil pressure low: %.1f", r.OilPressure)
	}

	tires := []struct {
		name string
		psi  float64
	}{
		{"tire_pressure_fl", r.TirePressureFL},
		{"tire_pressure_fr", r.TirePressureFR},
		{"tire_pressure_rl", r.TirePressureRL},
		{"tire_pressure_rr", r.TirePressureRR},
	}
	for _, t := range tires {
		if t.psi < tirePressureLow || t.psi > tirePressureHigh {
			add(t.name, "%s out of band: %.1f PSI", strings.ToUpper(strings.TrimPrefix(t.name, "tire_pressure_")), t.psi)
		}
	}

	if r.BrakeTemperature > brakeTempHigh {
		add("brake_temperature", "brake temperature high: %.1f", r.BrakeTemperature)
	}
	if r.RPM > redlineRPM {
		add("rpm", "rpm near redline: %.0f", r.RPM)
	}
	return alerts
}

// CheckOrdered verifies timestamps are non-decreasing.
func CheckOrdered(records []Record) error {
	for i := 1; i < len(records); i++ {
		if records[i].Timestamp < records[i-1].Timestamp {
			return errors.New(ErrOutOfOrder).WithData(fmt.Sprintf(
				"record %d timestamp %d precedes %d", i, records[i].Timestamp, records[i-1].Timestamp))
		}
	}
	return nil
}
