package layout

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type ItemKind int

const (
	ItemUnknown ItemKind = iota
	ItemMessage
	ItemWarning
	ItemTire
	ItemArrival
	ItemMapRoute
	ItemSpeed
	ItemRPM
	ItemPlayerStatus
	ItemPlayerTrack
	ItemPlayerVolume
	ItemTime
	ItemTotalDistance
	ItemLap
)

func (k ItemKind) String() string {
	switch k {
	case ItemMessage:
		return "message"
	case ItemWarning:
		return "warning"
	case ItemTire:
		return "tire"
	case ItemArrival:
		return "arrival"
	case ItemMapRoute:
		return "route"
	case ItemSpeed:
		return "speed"
	case ItemRPM:
		return "rpm"
	case ItemPlayerStatus:
		return "status"
	case ItemPlayerTrack:
		return "track"
	case ItemPlayerVolume:
		return "volume"
	case ItemTime:
		return "time"
	case ItemTotalDistance:
		return "total_distance"
	case ItemLap:
		return "lap"
	default:
		return "unknown"
	}
}

// Item is one content element of a section. Which fields are meaningful
// depends on Kind.
type Item struct {
	Kind     ItemKind
	Text     string
	Value    float64
	Unit     string
	Location string
	Number   int
	// Tag is the element name as written, kept for unknown items.
	Tag string
}

type Section struct {
	ID    string
	Items []Item
}

func (s Section) Kind() SectionKind {
	return ParseSectionKind(s.ID)
}

type rawSection struct {
	ID    string      `yaml:"id"`
	Items []yaml.Node `yaml:"items"`
}

func (s *Section) UnmarshalYAML(node *yaml.Node) error {
	var raw rawSection
	if err := node.Decode(&raw); err != nil {
		return err
	}
	s.ID = raw.ID
	s.Items = nil
	for i := range raw.Items {
		items, err := decodeItem(&raw.Items[i])
		if err != nil {
			return fmt.Errorf("section %q item %d: %w", raw.ID, i, err)
		}
		s.Items = append(s.Items, items...)
	}
	return nil
}

type measure struct {
	Value    float64 `yaml:"value"`
	Unit     string  `yaml:"unit"`
	Pressure float64 `yaml:"pressure"`
	Location string  `yaml:"location"`
	Distance float64 `yaml:"distance"`
	Number   int     `yaml:"number"`
	Route    string  `yaml:"route"`
	Level    string  `yaml:"level"`
}

// decodeItem reads a single-key mapping such as `speed: {value: 88}`.
// Container elements (map, player) expand to one item per child.
func decodeItem(node *yaml.Node) ([]Item, error) {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return nil, fmt.Errorf("line %d: expected a single-key mapping", node.Line)
	}
	tag := node.Content[0].Value
	val := node.Content[1]

	text := func(kind ItemKind) ([]Item, error) {
		var s string
		if err := val.Decode(&s); err != nil {
			return nil, err
		}
		return []Item{{Kind: kind, Text: s, Tag: tag}}, nil
	}

	switch tag {
	case "message":
		return text(ItemMessage)
	case "warning":
		return text(ItemWarning)
	case "arrival":
		return text(ItemArrival)
	case "time":
		return text(ItemTime)
	case "map":
		return decodeChildren(val, tag)
	case "player":
		return decodeChildren(val, tag)
	}

	var m measure
	if err := val.Decode(&m); err != nil {
		return nil, err
	}
	switch tag {
	case "tire":
		return []Item{{Kind: ItemTire, Value: m.Pressure, Location: m.Location, Tag: tag}}, nil
	case "speed":
		return []Item{{Kind: ItemSpeed, Value: m.Value, Unit: m.Unit, Tag: tag}}, nil
	case "rpm":
		return []Item{{Kind: ItemRPM, Value: m.Value, Tag: tag}}, nil
	case "total_distance", "totalDistance":
		return []Item{{Kind: ItemTotalDistance, Value: m.Value, Unit: m.Unit, Tag: tag}}, nil
	case "lap":
		return []Item{{Kind: ItemLap, Value: m.Distance, Unit: m.Unit, Number: m.Number, Tag: tag}}, nil
	default:
		return []Item{{Kind: ItemUnknown, Tag: tag}}, nil
	}
}

func decodeChildren(val *yaml.Node, parent string) ([]Item, error) {
	if val.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: %s expects a list", val.Line, parent)
	}

	var items []Item
	for _, child := range val.Content {
		if child.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("line %d: %s entries must be mappings", child.Line, parent)
		}
		for i := 0; i+1 < len(child.Content); i += 2 {
			key, node := child.Content[i].Value, child.Content[i+1]

			var s string
			if node.Kind == yaml.MappingNode {
				var m measure
				if err := node.Decode(&m); err != nil {
					return nil, err
				}
				s = m.Level
			} else if err := node.Decode(&s); err != nil {
				return nil, err
			}

			kind := ItemUnknown
			switch parent + "." + key {
			case "map.route":
				kind = ItemMapRoute
			case "player.status":
				kind = ItemPlayerStatus
			case "player.track":
				kind = ItemPlayerTrack
			case "player.volume":
				kind = ItemPlayerVolume
			}
			items = append(items, Item{Kind: kind, Text: s, Tag: parent + "." + key})
		}
	}
	return items, nil
}
