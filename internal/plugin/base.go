package plugin

import (
	"maps"
	"sync"

	"codeberg.org/mutker/carconsole/internal/telemetry"
)

// Base supplies the optional capabilities with safe defaults. Plugin
// authors embed it and override what they need.
type Base struct {
	Descriptor Descriptor

	mu     sync.Mutex
	config map[string]string
}

func (b *Base) Init() error               { return nil }
func (b *Base) Update(_ telemetry.Record) {}
func (b *Base) Render(_ Surface)          {}
func (b *Base) Cleanup()                  {}
func (b *Base) Metadata() Descriptor      { return b.Descriptor }

func (b *Base) Config() map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return maps.Clone(b.config)
}

func (b *Base) SetConfig(cfg map[string]string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.config = maps.Clone(cfg)
	return nil
}

// Setting returns a config value or the declared default.
func (b *Base) Setting(name string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if v, ok := b.config[name]; ok {
		return v
	}
	for _, s := range b.Descriptor.Settings {
		if s.Name == name {
			return s.Default
		}
	}
	return ""
}
