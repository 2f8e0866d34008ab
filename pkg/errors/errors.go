// Package errors provides structured error handling for the Katana engine.
//
// The reconciler has no recoverable error path. Contract violations (a
// description of the wrong kind passed to Update, Draw called twice, a
// corrupt index sequence during redraw) are reported to the global
// [ErrorHandler] and then raised as a panic carrying a [*ContractError].
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindContract indicates a violated engine contract.
	KindContract
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindConfig indicates a configuration error.
	KindConfig
)

func (k ErrorKind) String() string {
	switch k {
	case KindContract:
		return "contract"
	case KindPanic:
		return "panic"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// ContractError represents a violated engine contract. It is always fatal.
type ContractError struct {
	// Op is the operation that detected the violation (e.g., "core.Node.Draw").
	Op string
	// Node is the kind name of the node involved, if any.
	Node string
	// Err is the underlying assertion failure.
	Err error
	// StackTrace contains the call stack at the time of the violation.
	StackTrace string
	// Timestamp is when the violation was detected.
	Timestamp time.Time
}

func (e *ContractError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("%s [%s] node=%s: %v", e.Op, KindContract, e.Node, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, KindContract, e.Err)
}

func (e *ContractError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "render.Renderer.Render").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by the engine.
type ErrorHandler interface {
	// HandleContractViolation is called right before a contract violation panics.
	HandleContractViolation(err *ContractError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
