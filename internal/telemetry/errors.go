package telemetry

import "codeberg.org/mutker/carconsole/internal/errors"

const (
	ErrOutOfRange = errors.ErrValidation
	ErrOutOfOrder = errors.ErrorCode("telemetry_out_of_order")
	ErrExhausted  = errors.ErrorCode("telemetry_source_exhausted")
)
