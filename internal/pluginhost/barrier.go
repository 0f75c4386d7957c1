package pluginhost

import (
	"fmt"
	"runtime/debug"
)

// panicError carries a recovered plugin panic and its stack.
type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

// guard runs fn, converting a panic into an error. Every call from the
// host into plugin code goes through guard.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r, stack: debug.Stack()}
		}
	}()
	return fn()
}

func stackOf(err error) string {
	if pe, ok := err.(*panicError); ok {
		return string(pe.stack)
	}
	return ""
}
