package integrity

import (
	"fmt"
	"math"
	"strconv"

	"codeberg.org/mutker/carconsole/internal/telemetry"
	"github.com/cespare/xxhash/v2"
)

// Hash digests timestamp, speed, rpm, engine temperature and gear at fixed
// precision (speed and temperature to 0.01, rpm to 0.1) so float noise does
// not cause mismatches. It detects corruption; it is not a cryptographic MAC.
func Hash(r telemetry.Record) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(canonical(r)))
}

// Validate recomputes the digest of r and compares it with hash.
func Validate(r telemetry.Record, hash string) bool {
	return Hash(r) == hash
}

func canonical(r telemetry.Record) string {
	b := make([]byte, 0, 64)
	b = strconv.AppendInt(b, r.Timestamp, 10)
	b = append(b, '|')
	b = strconv.AppendFloat(b, quantize(r.Speed, 100), 'f', 2, 64)
	b = append(b, '|')
	b = strconv.AppendFloat(b, quantize(r.RPM, 10), 'f', 1, 64)
	b = append(b, '|')
	b = strconv.AppendFloat(b, quantize(r.EngineTemp, 100), 'f', 2, 64)
	b = append(b, '|')
	b = strconv.AppendInt(b, int64(r.Gear), 10)
	return string(b)
}

func quantize(v, scale float64) float64 {
	q := math.Round(v*scale) / scale
	if q == 0 {
		// fold -0 into 0
		return 0
	}
	return q
}
