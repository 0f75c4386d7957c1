package layout

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SectionKind classifies a section by its id. Unrecognised ids are
// SectionUnknown and still render, in a neutral color.
type SectionKind int

const (
	SectionUnknown SectionKind = iota
	SectionStatus
	SectionTires
	SectionNavigation
	SectionSpeed
	SectionMedia
	SectionTrip
)

var sectionNames = map[SectionKind]string{
	SectionUnknown:    "unknown",
	SectionStatus:     "status",
	SectionTires:      "tires",
	SectionNavigation: "navigation",
	SectionSpeed:      "speed",
	SectionMedia:      "media",
	SectionTrip:       "trip",
}

func (k SectionKind) String() string {
	if name, ok := sectionNames[k]; ok {
		return name
	}
	return sectionNames[SectionUnknown]
}

func ParseSectionKind(id string) SectionKind {
	id = strings.ToLower(strings.TrimSpace(id))
	for k, name := range sectionNames {
		if k != SectionUnknown && name == id {
			return k
		}
	}
	return SectionUnknown
}

// ColorFor maps a section kind to its accent color.
func ColorFor(k SectionKind) lipgloss.Color {
	switch k {
	case SectionStatus:
		return lipgloss.Color("12")
	case SectionTires:
		return lipgloss.Color("11")
	case SectionNavigation:
		return lipgloss.Color("14")
	case SectionSpeed:
		return lipgloss.Color("9")
	case SectionMedia:
		return lipgloss.Color("13")
	case SectionTrip:
		return lipgloss.Color("10")
	default:
		return lipgloss.Color("8")
	}
}
