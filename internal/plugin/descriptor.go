package plugin

import (
	"strings"

	"codeberg.org/mutker/carconsole/internal/errors"
)

// Category is the closed set of plugin kinds.
type Category int

const (
	CategoryOther Category = iota
	CategorySpeedometer
	CategoryEngine
	CategoryFuel
	CategoryTemperature
	CategoryPressure
	CategoryNavigation
	CategoryEntertainment
	CategoryDiagnostics
)

var categoryNames = map[Category]string{
	CategorySpeedometer:   "Speedometer",
	CategoryEngine:        "Engine",
	CategoryFuel:          "Fuel",
	CategoryTemperature:   "Temperature",
	CategoryPressure:      "Pressure",
	CategoryNavigation:    "Navigation",
	CategoryEntertainment: "Entertainment",
	CategoryDiagnostics:   "Diagnostics",
	CategoryOther:         "Other",
}

func (c Category) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return categoryNames[CategoryOther]
}

// ParseCategory maps a name onto a Category, case-insensitively.
func ParseCategory(name string) (Category, error) {
	for c, n := range categoryNames {
		if strings.EqualFold(n, name) {
			return c, nil
		}
	}
	return CategoryOther, errors.New(ErrUnknownCategory).WithData(name)
}

// ValueKind is the declared type of a setting.
type ValueKind int

const (
	KindString ValueKind = iota
	KindInteger
	KindFloat
	KindBoolean
	KindColor
	KindFile
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindInteger:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindBoolean:
		return "Boolean"
	case KindColor:
		return "Color"
	case KindFile:
		return "File"
	default:
		return "Unknown"
	}
}

// Setting declares one configuration key a plugin understands.
type Setting struct {
	Name        string
	Kind        ValueKind
	Default     string
	Description string
	Required    bool
}

// Descriptor is a plugin's static identity. Name is the addressing key.
type Descriptor struct {
	Name         string
	Version      string
	Author       string
	Description  string
	Category     Category
	Dependencies []string
	Settings     []Setting
}
