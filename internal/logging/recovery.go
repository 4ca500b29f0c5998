package logging

import (
	"fmt"
	"os"
	"runtime/debug"
)

// RecoveryHandler turns panics into logged errors.
type RecoveryHandler struct {
	Component string
	OnPanic   func(err interface{}, stack string)
	log       *Logger
}

// NewRecoveryHandler creates a recovery handler for a component
func NewRecoveryHandler(component string) *RecoveryHandler {
	return &RecoveryHandler{
		Component: component,
		log:       New(component),
	}
}

// WrapError executes fn with panic recovery, returning error on panic
func (r *RecoveryHandler) WrapError(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = r.handlePanic(rec, string(debug.Stack()))
		}
	}()
	return fn()
}

func (r *RecoveryHandler) handlePanic(rec interface{}, stack string) error {
	err := fmt.Errorf("panic in %s: %v", r.Component, rec)

	r.log.Error("panic_recovered", map[string]any{
		"stack": stack,
	}, err)

	if r.OnPanic != nil {
		r.OnPanic(rec, stack)
	}
	return err
}

// Recover is a deferrable recovery for main: it logs the panic and exits 2.
func Recover(component string) {
	if rec := recover(); rec != nil {
		NewRecoveryHandler(component).handlePanic(rec, string(debug.Stack()))
		os.Exit(2)
	}
}
