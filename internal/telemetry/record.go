// Package telemetry defines the per-tick vehicle snapshot shared by the
// plugin runtime and the storage engine.
package telemetry

import (
	"math"
	"strconv"
)

// Record is one timestamped snapshot of every vehicle channel. A Record is
// never mutated after creation; consumers receive copies (see Clone).
type Record struct {
	Speed            float64  `json:"speed"`
	RPM              float64  `json:"rpm"`
	EngineTemp       float64  `json:"engine_temp"`
	FuelLevel        float64  `json:"fuel_level"`
	BatteryVoltage   float64  `json:"battery_voltage"`
	OilPressure      float64  `json:"oil_pressure"`
	ThrottlePosition float64  `json:"throttle_position"`
	BrakePressure    float64  `json:"brake_pressure"`
	Gear             int      `json:"gear"`
	Timestamp        int64    `json:"timestamp"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	Altitude         *float64 `json:"altitude"`
	Acceleration     float64  `json:"acceleration"`
	BrakeTemperature float64  `json:"brake_temperature"`
	TirePressureFL   float64  `json:"tire_pressure_fl"`
	TirePressureFR   float64  `json:"tire_pressure_fr"`
	TirePressureRL   float64  `json:"tire_pressure_rl"`
	TirePressureRR   float64  `json:"tire_pressure_rr"`
}

const (
	GearReverse = -1
	GearNeutral = 0
	GearMax     = 6
)

// Default returns a parked vehicle at physical defaults with no position fix.
func Default() Record {
	return Record{
		EngineTemp:       70,
		FuelLevel:        100,
		BatteryVoltage:   12.6,
		OilPressure:      40,
		BrakeTemperature: 70,
		TirePressureFL:   32,
		TirePressureFR:   32,
		TirePressureRL:   32,
		TirePressureRR:   32,
	}
}

// Float returns a pointer to v, for populating optional channels.
func Float(v float64) *float64 {
	return &v
}

// HasFix reports whether all positioning channels are present.
func (r Record) HasFix() bool {
	return r.Latitude != nil && r.Longitude != nil && r.Altitude != nil
}

// Clone returns a deep copy; optional channels do not alias the original.
func (r Record) Clone() Record {
	c := r
	c.Latitude = cloneFloat(r.Latitude)
	c.Longitude = cloneFloat(r.Longitude)
	c.Altitude = cloneFloat(r.Altitude)
	return c
}

// Equal compares every channel, including presence of optional ones.
func (r Record) Equal(o Record) bool {
	a, b := r, o
	a.Latitude, a.Longitude, a.Altitude = nil, nil, nil
	b.Latitude, b.Longitude, b.Altitude = nil, nil, nil
	return a == b &&
		floatPtrEqual(r.Latitude, o.Latitude) &&
		floatPtrEqual(r.Longitude, o.Longitude) &&
		floatPtrEqual(r.Altitude, o.Altitude)
}

// GearString renders the gear the way the dashboard shows it.
func (r Record) GearString() string {
	switch {
	case r.Gear == GearReverse:
		return "R"
	case r.Gear == GearNeutral:
		return "N"
	case r.Gear > 0 && r.Gear <= GearMax:
		return strconv.Itoa(r.Gear)
	default:
		return "?"
	}
}

// Interpolate returns a new record between a and b. t is clamped to [0,1].
// Gear, timestamp and position come from whichever endpoint is nearer.
func Interpolate(a, b Record, t float64) Record {
	t = math.Max(0, math.Min(1, t))
	lerp := func(x, y float64) float64 { return x + (y-x)*t }

	near := a
	if t >= 0.5 {
		near = b
	}
	out := near.Clone()
	out.Speed = lerp(a.Speed, b.Speed)
	out.RPM = lerp(a.RPM, b.RPM)
	out.EngineTemp = lerp(a.EngineTemp, b.EngineTemp)
	out.FuelLevel = lerp(a.FuelLevel, b.FuelLevel)
	out.BatteryVoltage = lerp(a.BatteryVoltage, b.BatteryVoltage)
	out.OilPressure = lerp(a.OilPressure, b.OilPressure)
	out.ThrottlePosition = lerp(a.ThrottlePosition, b.ThrottlePosition)
	out.BrakePressure = lerp(a.BrakePressure, b.BrakePressure)
	out.Acceleration = lerp(a.Acceleration, b.Acceleration)
	out.BrakeTemperature = lerp(a.BrakeTemperature, b.BrakeTemperature)
	out.TirePressureFL = lerp(a.TirePressureFL, b.TirePressureFL)
	out.TirePressureFR = lerp(a.TirePressureFR, b.TirePressureFR)
	out.TirePressureRL = lerp(a.TirePressureRL, b.TirePressureRL)
	out.TirePressureRR = lerp(a.TirePressureRR, b.TirePressureRR)
	return out
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
