package pluginhost

import (
	"context"
	"os"
	"path/filepath"
	goplugin "plugin"
	"runtime"
	"slices"
	"strings"

	"codeberg.org/mutker/carconsole/internal/errors"
	"codeberg.org/mutker/carconsole/internal/plugin"
)

// Opener resolves a plugin file to its factory. The returned handle is
// kept by the instance for as long as it is registered.
type Opener interface {
	Open(path string) (plugin.Factory, any, error)
}

type nativeOpener struct{}

func (nativeOpener) Open(path string) (plugin.Factory, any, error) {
	lib, err := goplugin.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(ErrLoad, err)
	}

	if sym, err := lib.Lookup(plugin.VersionSymbol); err == nil {
		v, ok := sym.(*int)
		if !ok || *v != plugin.ABIVersion {
			return nil, nil, errors.Newf(ErrLoad, "plugin ABI mismatch, want %d", plugin.ABIVersion)
		}
	}

	sym, err := lib.Lookup(plugin.EntrySymbol)
	if err != nil {
		return nil, nil, errors.Wrap(ErrLoad, err)
	}

	switch f := sym.(type) {
	case func() plugin.Plugin:
		return f, lib, nil
	case *func() plugin.Plugin:
		return *f, lib, nil
	default:
		return nil, nil, errors.Newf(ErrLoad, "symbol %s has type %T", plugin.EntrySymbol, sym)
	}
}

// LoadReport summarises one discovery pass. A plugin whose Init failed is
// registered in the Error state but listed only under Failed.
type LoadReport struct {
	// Loaded names the plugins that reached Ready.
	Loaded []string
	// Failed maps a file path to the reason it was skipped or errored.
	Failed map[string]error
}

func (r *LoadReport) fail(path string, err error) {
	if r.Failed == nil {
		r.Failed = make(map[string]error)
	}
	r.Failed[path] = err
}

// IsCandidate reports whether name carries a recognised plugin suffix.
func IsCandidate(name string) bool {
	return slices.Contains(nativeExtensions, strings.ToLower(filepath.Ext(name)))
}

func supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".so":
		return runtime.GOOS == "linux" || runtime.GOOS == "darwin" || runtime.GOOS == "freebsd"
	case ".dylib":
		return runtime.GOOS == "darwin"
	default:
		return false
	}
}

// DiscoverAndLoad loads every plugin file in dir in lexical order. The
// directory is created if missing. A failing file is logged, recorded in
// the report, and skipped; it never stops the remaining loads.
func (h *Host) DiscoverAndLoad(ctx context.Context, dir string) (*LoadReport, error) {
	if err := os.MkdirAll(dir, defaultDirPerm); err != nil {
		return nil, errors.Wrap(ErrDirectory, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(ErrDirectory, err)
	}

	report := &LoadReport{}
	for _, entry := range entries {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		if !entry.Type().IsRegular() || !IsCandidate(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if !supported(entry.Name()) {
			err := errors.Newf(ErrLoad, "unsupported plugin format on %s", runtime.GOOS)
			h.log.Warn().Str("path", path).Err(err).Msg("Skipping plugin")
			report.fail(path, err)
			continue
		}

		inst, err := h.LoadFile(ctx, path)
		if err != nil {
			h.log.Warn().Str("path", path).Err(err).Msg("Skipping plugin")
			report.fail(path, err)
			continue
		}
		if st := inst.Status(); st.IsError() {
			report.fail(path, errors.New(ErrInstanceFailed).WithData(st.Message))
			continue
		}
		report.Loaded = append(report.Loaded, inst.Name())
	}

	h.log.Info().
		Str("dir", dir).
		Int("loaded", len(report.Loaded)).
		Int("failed", len(report.Failed)).
		Msg("Plugin discovery complete")

	return report, nil
}

type loadResult struct {
	inst *Instance
	err  error
}

// LoadFile opens one plugin and initialises it, bounded by the configured
// load timeout. On timeout or cancellation of parent the plugin is
// abandoned; its goroutine may still be running plugin code, so the
// instance is never registered. Cancellation returns parent's error
// unwrapped.
func (h *Host) LoadFile(parent context.Context, path string) (*Instance, error) {
	ctx, cancel := context.WithTimeout(parent, h.cfg.LoadTimeout)
	defer cancel()

	done := make(chan loadResult, 1)
	go func() {
		inst, err := h.open(path)
		done <- loadResult{inst: inst, err: err}
	}()

	var res loadResult
	select {
	case <-ctx.Done():
		if parent.Err() != nil {
			return nil, parent.Err()
		}
		return nil, errors.Wrap(ErrLoadTimeout, ctx.Err()).WithData(path)
	case res = <-done:
	}
	if res.err != nil {
		return nil, res.err
	}

	if err := h.register(res.inst); err != nil {
		_ = res.inst.cleanup()
		return nil, err
	}
	h.applyRetained(res.inst)
	return res.inst, nil
}

func (h *Host) open(path string) (*Instance, error) {
	var (
		factory plugin.Factory
		handle  any
	)
	err := guard(func() error {
		var err error
		factory, handle, err = h.opener.Open(path)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(ErrLoad, err).WithData(path)
	}

	var p plugin.Plugin
	if err := guard(func() error {
		p = factory()
		return nil
	}); err != nil {
		return nil, errors.Wrap(ErrLoad, err).WithData(path)
	}

	inst, err := h.wrap(p, path)
	if err != nil {
		return nil, err
	}
	if err := h.checkName(inst.Name()); err != nil {
		return nil, err
	}
	inst.handle = handle

	h.initInstance(inst)
	return inst, nil
}
