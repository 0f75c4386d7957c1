// Package surface draws plugin output and layout sections as styled
// terminal text.
package surface

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"codeberg.org/mutker/carconsole/internal/layout"
)

const gaugeWidth = 20

// Text accumulates one frame. It implements plugin.Surface and
// layout.Renderer.
type Text struct {
	mu     sync.Mutex
	buf    strings.Builder
	accent lipgloss.Color
	width  int
}

func NewText() *Text {
	return &Text{accent: layout.ColorFor(layout.SectionUnknown), width: gaugeWidth}
}

func (t *Text) style() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.accent)
}

func (t *Text) Heading(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf.WriteString(t.style().Bold(true).Render(text))
	t.buf.WriteByte('\n')
}

func (t *Text) Label(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf.WriteString("  ")
	t.buf.WriteString(text)
	t.buf.WriteByte('\n')
}

// Gauge draws a horizontal bar for value within [minValue, maxValue].
// Values outside the range are clamped to the bar's ends.
func (t *Text) Gauge(label string, value, minValue, maxValue float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	filled := int(math.Round(Fraction(value, minValue, maxValue) * float64(t.width)))
	bar := t.style().Render(strings.Repeat("█", filled)) + strings.Repeat("░", t.width-filled)
	fmt.Fprintf(&t.buf, "  %-12s %s %.1f\n", label, bar, value)
}

// Fraction maps value into [0, 1] over the given range.
func Fraction(value, minValue, maxValue float64) float64 {
	if maxValue <= minValue || math.IsNaN(value) {
		return 0
	}
	f := (value - minValue) / (maxValue - minValue)
	return math.Max(0, math.Min(1, f))
}

func (t *Text) BeginSection(id string, kind layout.SectionKind) {
	t.mu.Lock()
	t.accent = layout.ColorFor(kind)
	t.mu.Unlock()
	t.Heading(strings.ToUpper(id))
}

func (t *Text) Item(_ layout.SectionKind, item layout.Item) {
	switch item.Kind {
	case layout.ItemWarning:
		t.Label(lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("! " + item.Text))
	case layout.ItemTire:
		t.Label(fmt.Sprintf("%s %.0f psi", item.Location, item.Value))
	case layout.ItemSpeed, layout.ItemTotalDistance:
		t.Label(fmt.Sprintf("%s %.1f %s", item.Kind, item.Value, item.Unit))
	case layout.ItemRPM:
		t.Label(fmt.Sprintf("rpm %.0f", item.Value))
	case layout.ItemLap:
		t.Label(fmt.Sprintf("lap %d %.1f %s", item.Number, item.Value, item.Unit))
	default:
		t.Label(fmt.Sprintf("%s %s", item.Kind, item.Text))
	}
}

func (t *Text) EndSection(string, layout.SectionKind) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.accent = layout.ColorFor(layout.SectionUnknown)
	t.buf.WriteByte('\n')
}

// Flush writes the frame to w and starts a new one.
func (t *Text) Flush(w io.Writer) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := io.WriteString(w, t.buf.String())
	t.buf.Reset()
	return err
}

// String returns the frame so far without resetting it.
func (t *Text) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.String()
}
