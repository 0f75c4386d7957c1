package errors_test

import (
	"fmt"
	"io/fs"
	"testing"

	"codeberg.org/mutker/carconsole/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := errors.New(errors.ErrNotFound)
	assert.Equal(t, "Resource not found", err.Error())

	wrapped := errors.Wrap(errors.ErrIO, fs.ErrPermission)
	assert.Equal(t, "Filesystem operation failed: permission denied", wrapped.Error())

	custom := errors.Newf(errors.ErrDuplicateName, "plugin %q already registered", "Speedometer")
	assert.Equal(t, `plugin "Speedometer" already registered`, custom.Error())
}

func TestHasCode(t *testing.T) {
	inner := errors.Wrap(errors.ErrCorruptData, fmt.Errorf("unexpected end of JSON input"))
	outer := errors.Wrap(errors.ErrValidation, inner)

	assert.True(t, errors.HasCode(outer, errors.ErrValidation))
	assert.True(t, errors.HasCode(outer, errors.ErrCorruptData))
	assert.False(t, errors.HasCode(outer, errors.ErrNotFound))
	assert.False(t, errors.HasCode(fmt.Errorf("plain"), errors.ErrNotFound))
	assert.False(t, errors.HasCode(nil, errors.ErrNotFound))
}

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("loading: %w", errors.Wrap(errors.ErrNotFound, fs.ErrNotExist))

	assert.True(t, errors.Is(err, errors.New(errors.ErrNotFound)))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.False(t, errors.Is(err, errors.New(errors.ErrIO)))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, errors.ErrLoad, errors.CodeOf(errors.New(errors.ErrLoad)))
	assert.Equal(t, errors.ErrInternal, errors.CodeOf(fmt.Errorf("plain")))
}

func TestWithData(t *testing.T) {
	err := errors.New(errors.ErrValidation).WithData("speed out of range")
	assert.Equal(t, "Validation failed: speed out of range", err.Error())
	assert.Equal(t, "speed out of range", err.GetData())
	assert.Equal(t, errors.ErrValidation, err.Code())
}

func TestWithDataAndCause(t *testing.T) {
	err := errors.Wrap(errors.ErrLoad, fmt.Errorf("no such file")).WithData("plugins/a.so")
	assert.Contains(t, err.Error(), "plugins/a.so: no such file")
	assert.True(t, errors.HasCode(err, errors.ErrLoad))
}
