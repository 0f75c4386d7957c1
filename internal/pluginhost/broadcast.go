package pluginhost

import (
	"codeberg.org/mutker/carconsole/internal/plugin"
	"codeberg.org/mutker/carconsole/internal/telemetry"
)

// BroadcastReport lists which instances took a call and which failed it.
type BroadcastReport struct {
	Delivered []string
	Failed    []string
}

// BroadcastUpdate hands each enabled instance its own copy of rec, in
// registration order.
func (h *Host) BroadcastUpdate(rec telemetry.Record) BroadcastReport {
	return h.broadcast("update", func(inst *Instance) error {
		return inst.update(rec)
	})
}

// BroadcastRender asks each enabled instance to draw onto s.
func (h *Host) BroadcastRender(s plugin.Surface) BroadcastReport {
	return h.broadcast("render", func(inst *Instance) error {
		return inst.render(s)
	})
}

func (h *Host) broadcast(op string, call func(*Instance) error) BroadcastReport {
	var report BroadcastReport
	for _, inst := range h.Instances() {
		if !inst.IsEnabled() {
			continue
		}
		if err := call(inst); err != nil {
			report.Failed = append(report.Failed, inst.Name())
			h.log.Error().
				Str("plugin", inst.Name()).
				Str("instance", inst.ID()).
				Str("operation", op).
				Err(err).
				Msg("Plugin faulted")
			if stack := stackOf(err); stack != "" {
				h.log.Debug().Str("plugin", inst.Name()).Str("stack", stack).Send()
			}
			continue
		}
		report.Delivered = append(report.Delivered, inst.Name())
	}
	return report
}
