package pluginhost

import "codeberg.org/mutker/carconsole/internal/errors"

const (
	ErrNotFound       = errors.ErrNotFound
	ErrDuplicateName  = errors.ErrDuplicateName
	ErrDirectory      = errors.ErrDirectory
	ErrLoad           = errors.ErrLoad
	ErrLoadTimeout    = errors.ErrTimeout
	ErrInvalidPlugin  = errors.ErrorCode("pluginhost_invalid_plugin")
	ErrInstanceFailed = errors.ErrorCode("pluginhost_instance_failed")
	ErrConfigIO       = errors.ErrIO
	ErrConfigEncode   = errors.ErrSerialization
	ErrConfigCorrupt  = errors.ErrCorruptData
)
