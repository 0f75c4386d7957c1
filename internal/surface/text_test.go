package surface

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/mutker/carconsole/internal/layout"
	"codeberg.org/mutker/carconsole/internal/plugin"
)

var _ plugin.Surface = (*Text)(nil)
var _ layout.Renderer = (*Text)(nil)

func TestFraction(t *testing.T) {
	assert.Equal(t, 0.5, Fraction(50, 0, 100))
	assert.Equal(t, 0.0, Fraction(-10, 0, 100))
	assert.Equal(t, 1.0, Fraction(500, 0, 100))
	assert.Equal(t, 0.0, Fraction(5, 10, 10))
}

func TestRouteLayout(t *testing.T) {
	d, err := layout.Parse([]byte(`
sections:
  - id: speed
    items:
      - speed: {value: 88, unit: km/h}
      - warning: Slow down
`))
	require.NoError(t, err)

	s := NewText()
	layout.Route(d, s)
	out := s.String()
	assert.Contains(t, out, "SPEED")
	assert.Contains(t, out, "speed 88.0 km/h")
	assert.Contains(t, out, "Slow down")
}

func TestFlushResetsFrame(t *testing.T) {
	s := NewText()
	s.Heading("Speedometer")
	s.Gauge("speed", 120, 0, 240)

	var buf bytes.Buffer
	require.NoError(t, s.Flush(&buf))
	assert.Contains(t, buf.String(), "Speedometer")
	assert.Contains(t, buf.String(), "120.0")
	assert.Empty(t, s.String())
}
