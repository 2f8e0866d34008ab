package errors

import (
	"log/slog"
)

// LogHandler is an ErrorHandler that logs errors through slog.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
	// Logger receives the records. Nil means slog.Default().
	Logger *slog.Logger
}

func (h *LogHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// HandleContractViolation logs a ContractError at error level.
func (h *LogHandler) HandleContractViolation(err *ContractError) {
	if err == nil {
		return
	}
	attrs := []any{"op", err.Op, "kind", KindContract.String()}
	if err.Node != "" {
		attrs = append(attrs, "node", err.Node)
	}
	attrs = append(attrs, "err", err.Err)
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, "stack", err.StackTrace)
	}
	h.logger().Error("katana contract violation", attrs...)
}

// HandlePanic logs a PanicError at error level.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	attrs := []any{"kind", KindPanic.String(), "value", err.Value}
	if err.Op != "" {
		attrs = append(attrs, "op", err.Op)
	}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, "stack", err.StackTrace)
	}
	h.logger().Error("katana panic", attrs...)
}
