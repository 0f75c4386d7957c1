// Package layout reads the dashboard layout description and routes its
// sections to a renderer.
package layout

import (
	"os"

	"gopkg.in/yaml.v3"

	"codeberg.org/mutker/carconsole/internal/errors"
)

const (
	ErrLayoutRead  = errors.ErrIO
	ErrLayoutParse = errors.ErrSerialization
)

type Dashboard struct {
	Sections []Section `yaml:"sections"`
	// Degraded is set on the placeholder returned when the layout could
	// not be loaded.
	Degraded bool `yaml:"-"`
}

// Renderer receives a dashboard section by section.
type Renderer interface {
	BeginSection(id string, kind SectionKind)
	Item(kind SectionKind, item Item)
	EndSection(id string, kind SectionKind)
}

func Parse(data []byte) (*Dashboard, error) {
	var d Dashboard
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(ErrLayoutParse, err)
	}
	return &d, nil
}

func Load(path string) (*Dashboard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrNotFound, err).WithData(path)
		}
		return nil, errors.Wrap(ErrLayoutRead, err).WithData(path)
	}
	return Parse(data)
}

// LoadOrError never fails to produce a dashboard: on error it returns a
// placeholder showing the failure, along with the error for logging.
func LoadOrError(path string) (*Dashboard, error) {
	d, err := Load(path)
	if err != nil {
		return ErrorDashboard(err), err
	}
	return d, nil
}

func ErrorDashboard(err error) *Dashboard {
	return &Dashboard{
		Degraded: true,
		Sections: []Section{{
			ID: SectionStatus.String(),
			Items: []Item{
				{Kind: ItemWarning, Text: "Layout unavailable: " + err.Error(), Tag: "warning"},
			},
		}},
	}
}

// Default is used when no layout file is configured.
func Default() *Dashboard {
	return &Dashboard{
		Sections: []Section{{
			ID:    SectionStatus.String(),
			Items: []Item{{Kind: ItemMessage, Text: "Ready", Tag: "message"}},
		}},
	}
}

// Route hands every section to r in document order and returns how many
// unknown items were skipped.
func Route(d *Dashboard, r Renderer) int {
	skipped := 0
	for _, s := range d.Sections {
		kind := s.Kind()
		r.BeginSection(s.ID, kind)
		for _, item := range s.Items {
			if item.Kind == ItemUnknown {
				skipped++
				continue
			}
			r.Item(kind, item)
		}
		r.EndSection(s.ID, kind)
	}
	return skipped
}
