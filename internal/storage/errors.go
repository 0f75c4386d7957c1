package storage

import "codeberg.org/mutker/carconsole/internal/errors"

const (
	ErrIO            = errors.ErrIO
	ErrSerialization = errors.ErrSerialization
	ErrCorruptData   = errors.ErrCorruptData
	ErrNotFound      = errors.ErrNotFound
	ErrValidation    = errors.ErrValidation
)
