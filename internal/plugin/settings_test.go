package plugin_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/carconsole/internal/errors"
	"codeberg.org/mutker/carconsole/internal/plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var settings = []plugin.Setting{
	{Name: "units", Kind: plugin.KindString, Default: "mph", Required: true},
	{Name: "max_speed", Kind: plugin.KindInteger, Default: "160"},
	{Name: "needle", Kind: plugin.KindColor, Default: "#FF0000"},
	{Name: "font", Kind: plugin.KindFile},
}

func TestValidateConfigPresenceOnly(t *testing.T) {
	assert.NoError(t, plugin.ValidateConfig(settings, map[string]string{"units": ""}),
		"an empty value still counts as present")

	err := plugin.ValidateConfig(settings, map[string]string{"max_speed": "oops"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrValidation))
	assert.Contains(t, err.Error(), "units")

	assert.NoError(t, plugin.ValidateConfig(nil, nil))
}

func TestParseValue(t *testing.T) {
	dir := t.TempDir()
	font := filepath.Join(dir, "font.ttf")
	require.NoError(t, os.WriteFile(font, []byte("x"), 0o600))

	tests := []struct {
		kind plugin.ValueKind
		raw  string
		want any
	}{
		{plugin.KindString, "km/h", "km/h"},
		{plugin.KindInteger, "42", int64(42)},
		{plugin.KindFloat, "3.5", 3.5},
		{plugin.KindBoolean, "true", true},
		{plugin.KindColor, "#00ff7F", plugin.Color("#00ff7F")},
		{plugin.KindFile, font, font},
	}
	for _, tt := range tests {
		got, err := plugin.ParseValue(tt.kind, tt.raw)
		require.NoError(t, err, tt.kind.String())
		assert.Equal(t, tt.want, got, tt.kind.String())
	}
}

func TestParseValueRejects(t *testing.T) {
	tests := []struct {
		kind plugin.ValueKind
		raw  string
	}{
		{plugin.KindInteger, "4.2"},
		{plugin.KindFloat, "fast"},
		{plugin.KindBoolean, "maybe"},
		{plugin.KindColor, "red"},
		{plugin.KindColor, "#FFF"},
		{plugin.KindColor, "#GGGGGG"},
		{plugin.KindFile, filepath.Join(t.TempDir(), "missing.ttf")},
	}
	for _, tt := range tests {
		_, err := plugin.ParseValue(tt.kind, tt.raw)
		require.Error(t, err, "%s %q", tt.kind, tt.raw)
		assert.True(t, errors.HasCode(err, errors.ErrValidation))
	}
}

func TestParseValueKeepsParseError(t *testing.T) {
	_, err := plugin.ParseValue(plugin.KindInteger, "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `parsing "abc"`)
}

func TestApplyDefaultsAndParseConfig(t *testing.T) {
	cfg := map[string]string{"units": "km/h"}
	full := plugin.ApplyDefaults(settings, cfg)

	assert.Equal(t, map[string]string{"units": "km/h", "max_speed": "160", "needle": "#FF0000"}, full)
	assert.Len(t, cfg, 1, "input untouched")

	parsed, err := plugin.ParseConfig(settings, full)
	require.NoError(t, err)
	assert.Equal(t, int64(160), parsed["max_speed"])
	assert.Equal(t, plugin.Color("#FF0000"), parsed["needle"])

	_, err = plugin.ParseConfig(settings, map[string]string{"max_speed": "fast"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_speed")
}

func TestCategory(t *testing.T) {
	c, err := plugin.ParseCategory("speedometer")
	require.NoError(t, err)
	assert.Equal(t, plugin.CategorySpeedometer, c)
	assert.Equal(t, "Speedometer", c.String())

	_, err = plugin.ParseCategory("Weather")
	assert.True(t, errors.HasCode(err, plugin.ErrUnknownCategory))
	assert.Equal(t, "Other", plugin.Category(99).String())
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "Ready", plugin.Ready().String())
	assert.Equal(t, "Error(boom)", plugin.Failed("boom").String())
	assert.True(t, plugin.Failed("x").IsError())
	assert.False(t, plugin.Disabled().IsError())
}

func TestBaseDefaults(t *testing.T) {
	b := &plugin.Base{Descriptor: plugin.Descriptor{Name: "Gauge", Settings: settings}}

	assert.NoError(t, b.Init())
	assert.Equal(t, "Gauge", b.Metadata().Name)
	assert.Empty(t, b.Config())
	assert.Equal(t, "mph", b.Setting("units"))

	require.NoError(t, b.SetConfig(map[string]string{"units": "km/h"}))
	assert.Equal(t, "km/h", b.Setting("units"))

	cfg := b.Config()
	cfg["units"] = "changed"
	assert.Equal(t, "km/h", b.Setting("units"), "Config returns a copy")
}
