package xlog

import (
	"runtime/debug"

	"github.com/pkg/errors"
)

// Recover runs cb, turning any panic into an error rather than crashing the
// process. Grounded on the teacher's gql/panic.go Recover, used by
// compiler.Compile to convert an internal Panicf into a returned error
// rather than surfacing a stack trace to the CLI driver.
func Recover(cb func()) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = errors.Errorf("panic %v: %v", e, string(debug.Stack()))
		}
	}()
	cb()
	return nil
}
