package kernel

import (
	"errors"
	"fmt"
)

var (
	ErrModuleRegistered    = errors.New("kernel: module name already registered")
	ErrModuleNotRegistered = errors.New("kernel: module is not registered")
	ErrModuleNotAvailable  = errors.New("kernel: module is not available")
	ErrUnknownFunction     = errors.New("kernel: module has no such function")
	ErrEventRegistered     = errors.New("kernel: event name already registered for module")
)

// ModuleError wraps a failure inside a module call with the offending
// module and function names, so dispatch errors never propagate raw.
type ModuleError struct {
	Module   string
	Function string
	Err      error
}

func (e *ModuleError) Error() string {
	return fmt.Sprintf("kernel: module %q function %q: %v", e.Module, e.Function, e.Err)
}

func (e *ModuleError) Unwrap() error { return e.Err }
