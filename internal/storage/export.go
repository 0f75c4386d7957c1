package storage

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"codeberg.org/mutker/carconsole/internal/errors"
	"codeberg.org/mutker/carconsole/internal/telemetry"
)

// CSVHeader is the fixed export column order.
var CSVHeader = []string{
	"timestamp",
	"speed",
	"rpm",
	"engine_temp",
	"fuel_level",
	"battery_voltage",
	"oil_pressure",
	"throttle_position",
	"brake_pressure",
	"gear",
	"acceleration",
	"brake_temperature",
	"tire_pressure_fl",
	"tire_pressure_fr",
	"tire_pressure_rl",
	"tire_pressure_rr",
}

func csvRow(r telemetry.Record) []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return []string{
		strconv.FormatInt(r.Timestamp, 10),
		f(r.Speed),
		f(r.RPM),
		f(r.EngineTemp),
		f(r.FuelLevel),
		f(r.BatteryVoltage),
		f(r.OilPressure),
		f(r.ThrottlePosition),
		f(r.BrakePressure),
		strconv.Itoa(r.Gear),
		f(r.Acceleration),
		f(r.BrakeTemperature),
		f(r.TirePressureFL),
		f(r.TirePressureFR),
		f(r.TirePressureRL),
		f(r.TirePressureRR),
	}
}

// EncodeCSV renders records under CSVHeader, one row each.
func EncodeCSV(records []telemetry.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(CSVHeader); err != nil {
		return nil, errors.Wrap(ErrSerialization, err)
	}
	for _, r := range records {
		if err := w.Write(csvRow(r)); err != nil {
			return nil, errors.Wrap(ErrSerialization, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(ErrSerialization, err)
	}
	return buf.Bytes(), nil
}

// ExportCSV writes the current record to path.
func (e *Engine) ExportCSV(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec, err := e.load()
	if err != nil {
		return err
	}
	return exportTo(path, []telemetry.Record{rec})
}

// ExportSessionCSV writes every record of a session to path.
func (e *Engine) ExportSessionCSV(id int64, path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	records, err := e.loadSession(id)
	if err != nil {
		return err
	}
	return exportTo(path, records)
}

func exportTo(path string, records []telemetry.Record) error {
	data, err := EncodeCSV(records)
	if err != nil {
		return err
	}
	if err := writeAtomic(path, data); err != nil {
		return errors.Wrap(ErrIO, err).WithData(path)
	}
	return nil
}
