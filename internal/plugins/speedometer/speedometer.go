// Package speedometer is the reference display plugin: road speed, engine
// speed and gear.
package speedometer

import (
	"fmt"

	"codeberg.org/mutker/carconsole/internal/errors"
	"codeberg.org/mutker/carconsole/internal/plugin"
	"codeberg.org/mutker/carconsole/internal/telemetry"
)

const (
	Name = "Speedometer"

	unitKMH   = "km/h"
	unitMPH   = "mph"
	kmPerMile = 1.60934
)

var settings = []plugin.Setting{
	{Name: "max_speed", Kind: plugin.KindInteger, Default: "240", Description: "Gauge full scale"},
	{Name: "unit", Kind: plugin.KindString, Default: unitKMH, Description: "km/h or mph"},
	{Name: "show_rpm", Kind: plugin.KindBoolean, Default: "true", Description: "Show engine speed"},
	{Name: "color", Kind: plugin.KindColor, Default: "#00FF00", Description: "Gauge color"},
}

type Speedometer struct {
	plugin.Base

	maxSpeed float64
	unit     string
	showRPM  bool

	speed float64
	rpm   float64
	gear  string
}

func New() *Speedometer {
	return &Speedometer{
		Base: plugin.Base{Descriptor: plugin.Descriptor{
			Name:        Name,
			Version:     "1.0.0",
			Author:      "carconsole",
			Description: "Vehicle speed, RPM and gear",
			Category:    plugin.CategorySpeedometer,
			Settings:    settings,
		}},
		gear: telemetry.Default().GearString(),
	}
}

func (s *Speedometer) Init() error {
	return s.SetConfig(s.Config())
}

// SetConfig fills unset keys with defaults and rejects values that do not
// parse or are out of range.
func (s *Speedometer) SetConfig(cfg map[string]string) error {
	cfg = plugin.ApplyDefaults(settings, cfg)
	values, err := plugin.ParseConfig(settings, cfg)
	if err != nil {
		return err
	}

	maxSpeed := values["max_speed"].(int64)
	if maxSpeed <= 0 {
		return errors.New(plugin.ErrInvalidValue).WithData(fmt.Sprintf("max_speed %d", maxSpeed))
	}
	unit := values["unit"].(string)
	if unit != unitKMH && unit != unitMPH {
		return errors.New(plugin.ErrInvalidValue).WithData("unit " + unit)
	}

	if err := s.Base.SetConfig(cfg); err != nil {
		return err
	}
	s.maxSpeed = float64(maxSpeed)
	s.unit = unit
	s.showRPM = values["show_rpm"].(bool)
	return nil
}

func (s *Speedometer) Update(rec telemetry.Record) {
	s.speed = rec.Speed
	if s.unit == unitMPH {
		s.speed = rec.Speed / kmPerMile
	}
	s.rpm = rec.RPM
	s.gear = rec.GearString()
}

func (s *Speedometer) Render(surface plugin.Surface) {
	surface.Heading(Name)
	surface.Gauge("Speed", s.speed, 0, s.maxSpeed)
	surface.Label(fmt.Sprintf("Speed: %.1f %s", s.speed, s.unit))
	if s.showRPM {
		surface.Label(fmt.Sprintf("RPM: %.0f", s.rpm))
	}
	surface.Label("Gear: " + s.gear)
}
