package pluginhost

import (
	"maps"
	"sync"

	"github.com/google/uuid"

	"codeberg.org/mutker/carconsole/internal/errors"
	"codeberg.org/mutker/carconsole/internal/plugin"
	"codeberg.org/mutker/carconsole/internal/telemetry"
)

// Instance is the runtime-owned wrapper around one loaded plugin. The
// enabled flag and status live here, not in plugin code.
type Instance struct {
	id     uuid.UUID
	desc   plugin.Descriptor
	source string
	p      plugin.Plugin
	handle any

	// call serialises plugin entry points for this instance.
	call sync.Mutex

	mu      sync.RWMutex
	enabled bool
	status  plugin.Status
	config  map[string]string
}

func newInstance(p plugin.Plugin, desc plugin.Descriptor, source string) *Instance {
	return &Instance{
		id:     uuid.New(),
		desc:   desc,
		source: source,
		p:      p,
		status: plugin.Loading(),
		config: map[string]string{},
	}
}

func (i *Instance) ID() string                  { return i.id.String() }
func (i *Instance) Name() string                { return i.desc.Name }
func (i *Instance) Metadata() plugin.Descriptor { return i.desc }
func (i *Instance) Source() string              { return i.source }

func (i *Instance) Status() plugin.Status {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.status
}

// IsEnabled reports whether the instance receives broadcasts. An instance
// in the Error state never does.
func (i *Instance) IsEnabled() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.enabled && !i.status.IsError()
}

// SetEnabled toggles delivery. It is idempotent and fails for an
// instance in the Error state.
func (i *Instance) SetEnabled(enabled bool) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.status.IsError() {
		return errors.New(ErrInstanceFailed).WithData(i.desc.Name + ": " + i.status.Message)
	}

	i.enabled = enabled
	if enabled {
		i.status = plugin.Ready()
	} else {
		i.status = plugin.Disabled()
	}
	return nil
}

// Config returns the plugin's own view of its configuration when it is
// Configurable, so values it set during Init are included. Otherwise, or
// once the instance has failed, the last map passed to SetConfig is used.
func (i *Instance) Config() map[string]string {
	if c, ok := i.p.(plugin.Configurable); ok && !i.Status().IsError() {
		var cfg map[string]string
		err := i.invoke(func() error {
			cfg = c.Config()
			return nil
		})
		if err == nil {
			if cfg == nil {
				return map[string]string{}
			}
			return maps.Clone(cfg)
		}
	}
	return i.storedConfig()
}

func (i *Instance) storedConfig() map[string]string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return maps.Clone(i.config)
}

// SetConfig checks required settings are present, then hands the map to
// the plugin if it is Configurable. Values are not type-checked here;
// that belongs to the plugin.
func (i *Instance) SetConfig(cfg map[string]string) error {
	if err := plugin.ValidateConfig(i.desc.Settings, cfg); err != nil {
		return err
	}

	if c, ok := i.p.(plugin.Configurable); ok {
		err := i.invoke(func() error { return c.SetConfig(maps.Clone(cfg)) })
		if err != nil {
			return err
		}
	}

	i.mu.Lock()
	i.config = maps.Clone(cfg)
	i.mu.Unlock()
	return nil
}

func (i *Instance) fail(msg string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.status = plugin.Failed(msg)
	i.enabled = false
}

func (i *Instance) ready() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.status = plugin.Ready()
	i.enabled = true
}

// invoke calls into plugin code behind the fault barrier. A panic moves
// the instance to Error; a returned error is passed through unchanged.
func (i *Instance) invoke(fn func() error) error {
	i.call.Lock()
	defer i.call.Unlock()

	err := guard(fn)
	if _, ok := err.(*panicError); ok {
		i.fail(err.Error())
	}
	return err
}

func (i *Instance) init() error {
	err := i.invoke(i.p.Init)
	if err != nil {
		i.fail(err.Error())
		return err
	}
	i.ready()
	return nil
}

func (i *Instance) update(rec telemetry.Record) error {
	return i.invoke(func() error {
		i.p.Update(rec.Clone())
		return nil
	})
}

func (i *Instance) render(s plugin.Surface) error {
	return i.invoke(func() error {
		i.p.Render(s)
		return nil
	})
}

func (i *Instance) cleanup() error {
	c, ok := i.p.(plugin.Cleaner)
	if !ok {
		return nil
	}
	return i.invoke(func() error {
		c.Cleanup()
		return nil
	})
}
