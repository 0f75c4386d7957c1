package plugin

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"codeberg.org/mutker/carconsole/internal/errors"
)

// Color is a validated #RRGGBB value.
type Color string

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidateConfig checks that every required setting is present as a key.
// Values are not type-checked here; see ParseValue.
func ValidateConfig(settings []Setting, cfg map[string]string) error {
	var missing []string
	for _, s := range settings {
		if !s.Required {
			continue
		}
		if _, ok := cfg[s.Name]; !ok {
			missing = append(missing, s.Name)
		}
	}
	if len(missing) > 0 {
		return errors.New(ErrMissingSetting).WithData("missing required settings: " + strings.Join(missing, ", "))
	}
	return nil
}

// ApplyDefaults returns cfg with declared defaults filled in for absent
// settings. cfg itself is not modified.
func ApplyDefaults(settings []Setting, cfg map[string]string) map[string]string {
	out := make(map[string]string, len(cfg)+len(settings))
	for _, s := range settings {
		if s.Default != "" {
			out[s.Name] = s.Default
		}
	}
	for k, v := range cfg {
		out[k] = v
	}
	return out
}

// ParseValue converts raw according to kind. The result is a string,
// int64, float64, bool, Color, or (for KindFile) the path as a string.
func ParseValue(kind ValueKind, raw string) (any, error) {
	switch kind {
	case KindString:
		return raw, nil
	case KindInteger:
		v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidValue, err)
		}
		return v, nil
	case KindFloat:
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidValue, err)
		}
		return v, nil
	case KindBoolean:
		v, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, errors.Wrap(ErrInvalidValue, err)
		}
		return v, nil
	case KindColor:
		if !colorPattern.MatchString(raw) {
			return nil, errors.Wrap(ErrInvalidValue, fmt.Errorf("color %q is not in #RRGGBB form", raw))
		}
		return Color(raw), nil
	case KindFile:
		if _, err := os.Stat(raw); err != nil {
			return nil, errors.Wrap(ErrInvalidValue, err)
		}
		return raw, nil
	default:
		return nil, errors.Wrap(ErrInvalidValue, fmt.Errorf("unknown value kind %d", kind))
	}
}

// ParseConfig parses every declared setting present in cfg.
func ParseConfig(settings []Setting, cfg map[string]string) (map[string]any, error) {
	out := make(map[string]any, len(settings))
	for _, s := range settings {
		raw, ok := cfg[s.Name]
		if !ok {
			continue
		}
		v, err := ParseValue(s.Kind, raw)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidValue, fmt.Errorf("setting %q: %w", s.Name, err))
		}
		out[s.Name] = v
	}
	return out, nil
}
