package wasm

import (
	"context"
	"errors"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Console imports a Diplomat guest links against. Each takes a (ptr, len)
// UTF-8 message.
const (
	ConsoleDebug = "diplomat_console_debug_js"
	ConsoleLog   = "diplomat_console_log_js"
	ConsoleInfo  = "diplomat_console_info_js"
	ConsoleWarn  = "diplomat_console_warn_js"
	ConsoleError = "diplomat_console_error_js"
	ThrowError   = "diplomat_throw_error_js"
)

// HostFunctionsImpl routes guest console output into zap.
type HostFunctionsImpl struct {
	logger *zap.Logger
}

// NewHostFunctions creates a new host functions implementation.
func NewHostFunctions(logger *zap.Logger) *HostFunctionsImpl {
	return &HostFunctionsImpl{
		logger: logger.With(zap.String("component", "wasm-host")),
	}
}

// Export adds the console imports to builder.
func (h *HostFunctionsImpl) Export(builder wazero.HostModuleBuilder) {
	levels := []struct {
		name  string
		level zapcore.Level
	}{
		{ConsoleDebug, zapcore.DebugLevel},
		{ConsoleLog, zapcore.InfoLevel},
		{ConsoleInfo, zapcore.InfoLevel},
		{ConsoleWarn, zapcore.WarnLevel},
		{ConsoleError, zapcore.ErrorLevel},
	}
	for _, l := range levels {
		level := l.level
		builder.NewFunctionBuilder().
			WithFunc(func(ctx context.Context, mod api.Module, ptr, length uint32) {
				h.logMessage(ctx, mod, level, ptr, length)
			}).
			WithParameterNames("ptr", "len").
			Export(l.name)
	}

	builder.NewFunctionBuilder().
		WithFunc(h.throwError).
		WithParameterNames("ptr", "len").
		Export(ThrowError)
}

// logMessage reads a guest message and logs it at level.
func (h *HostFunctionsImpl) logMessage(_ context.Context, mod api.Module, level zapcore.Level, ptr, length uint32) {
	msg, err := NewMemory(mod).ReadString(ptr, length)
	if err != nil {
		h.logger.Error("Failed to read log message from Wasm memory",
			zap.String("module", mod.Name()),
			zap.Error(err),
		)
		return
	}
	if ce := h.logger.Check(level, msg); ce != nil {
		ce.Write(zap.String("module", mod.Name()))
	}
}

// throwError aborts the current call. The guest uses it for panics, and
// wazero turns the host panic into an error returned from the call.
func (h *HostFunctionsImpl) throwError(_ context.Context, mod api.Module, ptr, length uint32) {
	msg, err := NewMemory(mod).ReadString(ptr, length)
	if err != nil {
		msg = "unreadable panic message"
	}
	h.logger.Error("Guest panicked",
		zap.String("module", mod.Name()),
		zap.String("message", msg),
	)
	panic(&HostFunctionError{FunctionName: ThrowError, Err: errors.New(msg)})
}
