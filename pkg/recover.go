package pkg

import (
	"fmt"
	"runtime/debug"
)

func Recover() {
	if r := recover(); r != nil {
		DefaultLogger.Errorf("panic: %v\n%s", r, debug.Stack())
	}
}

func RecoverWithFunc(f func(r any)) {
	if r := recover(); r != nil {
		f(r)
	}
}

// PanicError turns a recovered value into an error.
func PanicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", r)
}
