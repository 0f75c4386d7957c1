package plugin

import "codeberg.org/mutker/carconsole/internal/errors"

const (
	ErrMissingSetting  = errors.ErrValidation
	ErrInvalidValue    = errors.ErrValidation
	ErrUnknownCategory = errors.ErrorCode("plugin_unknown_category")
)
