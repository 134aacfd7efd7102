package wasm

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/woxQAQ/icu4x-go/pkg/protocol"
)

// MemoryExport is the linear memory every Diplomat guest exports.
const MemoryExport = "memory"

// ModuleLoader loads and compiles native library binaries.
type ModuleLoader struct {
	runtime *Runtime
	logger  *zap.Logger
}

// NewModuleLoader creates a new module loader.
func NewModuleLoader(runtime *Runtime, logger *zap.Logger) *ModuleLoader {
	return &ModuleLoader{
		runtime: runtime,
		logger:  logger.With(zap.String("component", "wasm-loader")),
	}
}

// Source is one library binary. It is read from Path unless Data is set.
// Name keys the compile cache and defaults to Path.
type Source struct {
	Name string
	Path string
	Data []byte
}

func (s Source) key() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Path
}

func (s Source) bytes() ([]byte, error) {
	if s.Data != nil {
		return s.Data, nil
	}
	return os.ReadFile(s.Path)
}

// LoadModule compiles src, or returns the cached module of the same name.
func (l *ModuleLoader) LoadModule(ctx context.Context, src Source) (*CompiledModule, error) {
	name := src.key()
	if cached, ok := l.runtime.GetCompiledModule(name); ok {
		l.logger.Debug("Module cache hit", zap.String("module", name))
		return cached, nil
	}

	if l.runtime.IsClosed() {
		return nil, &RuntimeClosedError{}
	}

	wasmBytes, err := src.bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to read module %s: %w", name, err)
	}

	l.logger.Info("Compiling Wasm module",
		zap.String("module", name),
		zap.Int("size_bytes", len(wasmBytes)),
	)

	startTime := time.Now()
	compiled, err := l.runtime.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, &CompilationError{ModuleName: name, Err: err}
	}

	module := &CompiledModule{
		Module:     compiled,
		Name:       name,
		Source:     src.Path,
		SizeBytes:  int64(len(wasmBytes)),
		CompiledAt: time.Now().Unix(),
	}
	l.runtime.StoreCompiledModule(module)

	l.logger.Info("Module compiled successfully",
		zap.String("module", name),
		zap.Duration("duration", time.Since(startTime)),
	)

	return module, nil
}

// LoadModuleFromFile compiles the binary at path, keyed by path.
func (l *ModuleLoader) LoadModuleFromFile(ctx context.Context, path string) (*CompiledModule, error) {
	return l.LoadModule(ctx, Source{Path: path})
}

// LoadModuleFromMemory compiles data, keyed by name.
func (l *ModuleLoader) LoadModuleFromMemory(ctx context.Context, name string, data []byte) (*CompiledModule, error) {
	return l.LoadModule(ctx, Source{Name: name, Data: data})
}

// LoadLibrary compiles src and checks that it is a Diplomat library.
func (l *ModuleLoader) LoadLibrary(ctx context.Context, src Source) (*CompiledModule, error) {
	module, err := l.LoadModule(ctx, src)
	if err != nil {
		return nil, err
	}
	if err := CheckDiplomatABI(module); err != nil {
		l.logger.Warn("Module is not a Diplomat library",
			zap.String("module", module.Name),
			zap.Strings("missing", err.(*ABIError).Missing),
		)
		return nil, err
	}
	return module, nil
}

// CheckDiplomatABI reports every Diplomat runtime export module lacks,
// including its linear memory.
func CheckDiplomatABI(module *CompiledModule) error {
	var missing []string
	if module.Module == nil {
		missing = append(missing, MemoryExport)
	} else if _, ok := module.Module.ExportedMemories()[MemoryExport]; !ok {
		missing = append(missing, MemoryExport)
	}
	for _, name := range protocol.RuntimeExports {
		if !module.HasExport(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &ABIError{ModuleName: module.Name, Missing: missing}
	}
	return nil
}
