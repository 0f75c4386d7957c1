package pluginhost

import (
	"encoding/json"
	"os"
	"path/filepath"

	"codeberg.org/mutker/carconsole/internal/errors"
)

// SaveConfigs writes every plugin's configuration, including retained
// configs for plugins that are not loaded, as a name-keyed JSON object.
func (h *Host) SaveConfigs(path string) error {
	all := h.retainedConfigs()
	for _, inst := range h.Instances() {
		all[inst.Name()] = inst.Config()
	}

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return errors.Wrap(ErrConfigEncode, err)
	}

	if err := writeFileAtomic(path, data); err != nil {
		return errors.Wrap(ErrConfigIO, err)
	}
	h.log.Debug().Str("path", path).Int("plugins", len(all)).Msg("Plugin configurations saved")
	return nil
}

// LoadConfigs applies stored configs to registered plugins. Configs for
// plugins that are not registered are retained and applied if such a
// plugin is added later. A config a plugin rejects is logged and skipped.
func (h *Host) LoadConfigs(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, errors.Wrap(ErrNotFound, err)
		}
		return 0, errors.Wrap(ErrConfigIO, err)
	}

	var all map[string]map[string]string
	if err := json.Unmarshal(data, &all); err != nil {
		return 0, errors.Wrap(ErrConfigCorrupt, err)
	}

	applied := 0
	for name, cfg := range all {
		if cfg == nil {
			cfg = map[string]string{}
		}
		inst, err := h.Get(name)
		if err != nil {
			h.mu.Lock()
			h.retained[name] = cfg
			h.mu.Unlock()
			continue
		}
		if err := inst.SetConfig(cfg); err != nil {
			h.log.Warn().Str("plugin", name).Err(err).Msg("Stored plugin configuration rejected")
			continue
		}
		applied++
	}
	return applied, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, defaultDirPerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), defaultFilePerm); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
