// Package pluginhost loads display plugins and fans telemetry and render
// calls out to them. A misbehaving plugin is isolated: its panic or error
// moves it to the Error state and never reaches the host or its siblings.
package pluginhost

import (
	"fmt"
	"maps"
	"sync"

	"codeberg.org/mutker/carconsole/internal/errors"
	"codeberg.org/mutker/carconsole/internal/logger"
	"codeberg.org/mutker/carconsole/internal/plugin"
)

type Option func(*Host)

// WithOpener replaces the native plugin opener.
func WithOpener(o Opener) Option {
	return func(h *Host) { h.opener = o }
}

type Host struct {
	cfg    Config
	log    logger.Logger
	opener Opener

	mu        sync.RWMutex
	instances []*Instance
	index     map[string]*Instance
	// retained holds configs loaded for plugins that are not registered.
	retained map[string]map[string]string
}

func New(cfg Config, log logger.Logger, opts ...Option) *Host {
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = defaultLoadTimeout
	}
	h := &Host{
		cfg:      cfg,
		log:      log,
		opener:   nativeOpener{},
		index:    make(map[string]*Instance),
		retained: make(map[string]map[string]string),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Add registers p and initialises it. An Init failure is not returned;
// the instance is registered in the Error state. A name already in use
// is rejected with ErrDuplicateName.
func (h *Host) Add(p plugin.Plugin) (*Instance, error) {
	return h.add(p, "builtin")
}

func (h *Host) add(p plugin.Plugin, source string) (*Instance, error) {
	inst, err := h.wrap(p, source)
	if err != nil {
		return nil, err
	}
	if err := h.checkName(inst.Name()); err != nil {
		return nil, err
	}

	h.initInstance(inst)
	if err := h.register(inst); err != nil {
		_ = inst.cleanup()
		return nil, err
	}
	h.applyRetained(inst)
	return inst, nil
}

func (h *Host) wrap(p plugin.Plugin, source string) (*Instance, error) {
	if p == nil {
		return nil, errors.New(ErrInvalidPlugin).WithData(source)
	}

	var desc plugin.Descriptor
	if mp, ok := p.(plugin.MetadataProvider); ok {
		err := guard(func() error {
			desc = mp.Metadata()
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(ErrInvalidPlugin, err)
		}
	}
	if desc.Name == "" {
		desc.Name = fmt.Sprintf("%T", p)
	}
	return newInstance(p, desc, source), nil
}

func (h *Host) initInstance(inst *Instance) {
	if err := inst.init(); err != nil {
		h.log.Warn().
			Str("plugin", inst.Name()).
			Str("instance", inst.ID()).
			Err(err).
			Msg("Plugin failed to initialise")
		if stack := stackOf(err); stack != "" {
			h.log.Debug().Str("plugin", inst.Name()).Str("stack", stack).Send()
		}
		return
	}
	h.log.Info().
		Str("plugin", inst.Name()).
		Str("instance", inst.ID()).
		Str("version", inst.Metadata().Version).
		Msg("Plugin ready")
}

func (h *Host) checkName(name string) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.index[name]; ok {
		return errors.New(ErrDuplicateName).WithData(name)
	}
	return nil
}

func (h *Host) register(inst *Instance) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.index[inst.Name()]; ok {
		return errors.New(ErrDuplicateName).WithData(inst.Name())
	}
	h.instances = append(h.instances, inst)
	h.index[inst.Name()] = inst
	return nil
}

func (h *Host) applyRetained(inst *Instance) {
	h.mu.Lock()
	cfg, ok := h.retained[inst.Name()]
	if ok {
		delete(h.retained, inst.Name())
	}
	h.mu.Unlock()

	if !ok || inst.Status().IsError() {
		return
	}
	if err := inst.SetConfig(cfg); err != nil {
		h.log.Warn().Str("plugin", inst.Name()).Err(err).Msg("Stored plugin configuration rejected")
	}
}

// Remove unregisters name after running its cleanup.
func (h *Host) Remove(name string) error {
	h.mu.Lock()
	inst, ok := h.index[name]
	if !ok {
		h.mu.Unlock()
		return errors.New(ErrNotFound).WithData(name)
	}
	delete(h.index, name)
	for i, cur := range h.instances {
		if cur == inst {
			h.instances = append(h.instances[:i], h.instances[i+1:]...)
			break
		}
	}
	h.mu.Unlock()

	if err := inst.cleanup(); err != nil {
		h.log.Warn().Str("plugin", name).Err(err).Msg("Plugin cleanup failed")
	}
	h.log.Info().Str("plugin", name).Str("instance", inst.ID()).Msg("Plugin removed")
	return nil
}

func (h *Host) Enable(name string) error {
	return h.setEnabled(name, true)
}

func (h *Host) Disable(name string) error {
	return h.setEnabled(name, false)
}

func (h *Host) setEnabled(name string, enabled bool) error {
	inst, err := h.Get(name)
	if err != nil {
		return err
	}
	return inst.SetEnabled(enabled)
}

func (h *Host) Get(name string) (*Instance, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	inst, ok := h.index[name]
	if !ok {
		return nil, errors.New(ErrNotFound).WithData(name)
	}
	return inst, nil
}

// Instances returns a snapshot in registration order.
func (h *Host) Instances() []*Instance {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Instance, len(h.instances))
	copy(out, h.instances)
	return out
}

func (h *Host) Names() []string {
	insts := h.Instances()
	names := make([]string, 0, len(insts))
	for _, inst := range insts {
		names = append(names, inst.Name())
	}
	return names
}

// EnabledNames is derived from the instances on every call, so it always
// agrees with each instance's IsEnabled.
func (h *Host) EnabledNames() []string {
	var names []string
	for _, inst := range h.Instances() {
		if inst.IsEnabled() {
			names = append(names, inst.Name())
		}
	}
	return names
}

func (h *Host) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.instances)
}

// Shutdown cleans up every instance in reverse registration order and
// empties the registry.
func (h *Host) Shutdown() {
	h.mu.Lock()
	insts := h.instances
	h.instances = nil
	h.index = make(map[string]*Instance)
	h.mu.Unlock()

	for i := len(insts) - 1; i >= 0; i-- {
		if err := insts[i].cleanup(); err != nil {
			h.log.Warn().Str("plugin", insts[i].Name()).Err(err).Msg("Plugin cleanup failed")
		}
	}
	h.log.Debug().Int("count", len(insts)).Msg("Plugin host shut down")
}

func (h *Host) retainedConfigs() map[string]map[string]string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[string]map[string]string, len(h.retained))
	for k, v := range h.retained {
		out[k] = maps.Clone(v)
	}
	return out
}
