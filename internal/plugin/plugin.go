// Package plugin defines the contract every display plugin implements.
//
// A plugin is a Go plugin (built with -buildmode=plugin) exporting a
// factory named by EntrySymbol:
//
//	func NewPlugin() plugin.Plugin
//
// It may also export `var ABIVersion = plugin.ABIVersion`; when present the
// host refuses to load a plugin built against a different contract.
package plugin

import "codeberg.org/mutker/carconsole/internal/telemetry"

const (
	ABIVersion    = 1
	EntrySymbol   = "NewPlugin"
	VersionSymbol = "ABIVersion"
)

// Plugin is the required capability.
type Plugin interface {
	// Init runs once after load. An error or panic puts the instance into
	// the Error state; it never reaches the host.
	Init() error
	// Update consumes one record. It must not block, and must not retain
	// rec beyond the call.
	Update(rec telemetry.Record)
	// Render draws onto s. It must not mutate telemetry state.
	Render(s Surface)
}

// Factory is the signature of the exported entry symbol.
type Factory func() Plugin

// MetadataProvider is implemented by plugins that describe themselves.
type MetadataProvider interface {
	Metadata() Descriptor
}

// Configurable is implemented by plugins that accept configuration.
type Configurable interface {
	Config() map[string]string
	SetConfig(cfg map[string]string) error
}

// Cleaner is implemented by plugins holding resources.
type Cleaner interface {
	Cleanup()
}

// Surface is the opaque drawing target handed to Render.
type Surface interface {
	Heading(text string)
	Label(text string)
	Gauge(label string, value, minValue, maxValue float64)
}
