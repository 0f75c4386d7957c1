package telemetry

import (
	"sync"

	"codeberg.org/mutker/carconsole/internal/clock"
	"codeberg.org/mutker/carconsole/internal/errors"
)

// Source produces one record per tick.
type Source interface {
	Next() (Record, error)
}

const (
	simSpeedStep  = 0.1
	simRPMStep    = 10.0
	simRPMCeiling = 8000.0
	simRPMFloor   = 1000.0
	simSpeedWrap  = 120.0
	simFuelDrain  = 0.001
)

// Simulator is a minimal stand-in for a vehicle bus: speed and rpm ramp up
// and wrap, fuel drains slowly.
type Simulator struct {
	mu    sync.Mutex
	clock clock.Clock
	last  Record
}

func NewSimulator(c clock.Clock) *Simulator {
	r := Default()
	r.RPM = simRPMFloor
	r.EngineTemp = 185
	return &Simulator{clock: c, last: r}
}

func (s *Simulator) Next() (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.last.Clone()
	r.Speed += simSpeedStep
	if r.Speed > simSpeedWrap {
		r.Speed = 0
	}
	r.RPM += simRPMStep
	if r.RPM > simRPMCeiling {
		r.RPM = simRPMFloor
	}
	r.FuelLevel = max(0, r.FuelLevel-simFuelDrain)
	r.Gear = gearForSpeed(r.Speed)
	r.ThrottlePosition = r.RPM / simRPMCeiling * 100

	// Timestamps never run backwards within a session.
	r.Timestamp = max(s.last.Timestamp, s.clock.Now().Unix())

	s.last = r
	return r.Clone(), nil
}

func gearForSpeed(speed float64) int {
	switch {
	case speed <= 0:
		return GearNeutral
	case speed < 15:
		return 1
	case speed < 30:
		return 2
	case speed < 45:
		return 3
	case speed < 60:
		return 4
	case speed < 80:
		return 5
	default:
		return GearMax
	}
}

// ReplaySource plays back a recorded session.
type ReplaySource struct {
	mu      sync.Mutex
	records []Record
	pos     int
	loop    bool
}

func NewReplaySource(records []Record, loop bool) *ReplaySource {
	cp := make([]Record, len(records))
	for i, r := range records {
		cp[i] = r.Clone()
	}
	return &ReplaySource{records: cp, loop: loop}
}

// Next returns the next recorded record, or ErrExhausted at the end of a
// non-looping replay.
func (s *ReplaySource) Next() (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pos >= len(s.records) {
		if !s.loop || len(s.records) == 0 {
			return Record{}, errors.New(ErrExhausted)
		}
		s.pos = 0
	}
	r := s.records[s.pos]
	s.pos++
	return r.Clone(), nil
}
