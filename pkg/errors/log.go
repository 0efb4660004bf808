package errors

import (
	"go.uber.org/zap"
)

// LogHandler is an ErrorHandler that writes reported errors to a zap logger.
type LogHandler struct {
	// Verbose attaches stack traces to log entries.
	Verbose bool

	logger *zap.Logger
}

// NewLogHandler returns a LogHandler writing to logger.
// A nil logger falls back to zap's global logger.
func NewLogHandler(logger *zap.Logger) *LogHandler {
	return &LogHandler{logger: logger}
}

func (h *LogHandler) log() *zap.Logger {
	if h.logger != nil {
		return h.logger
	}
	return zap.L()
}

// HandleError logs a NibelError.
func (h *LogHandler) HandleError(err *NibelError) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.String("op", err.Op),
		zap.Stringer("kind", err.Kind),
		zap.Error(err.Err),
	}
	if err.Destination != "" {
		fields = append(fields, zap.String("destination", err.Destination))
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.log().Error("nibel error", fields...)
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	fields := []zap.Field{zap.Any("value", err.Value)}
	if err.Op != "" {
		fields = append(fields, zap.String("op", err.Op))
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.log().Error("nibel panic", fields...)
}
