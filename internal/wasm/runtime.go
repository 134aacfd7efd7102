package wasm

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"
)

// EnvModuleName is the import module Diplomat guests take their console
// hooks from.
const EnvModuleName = "env"

// Runtime owns the wazero runtime shared by every native library instance.
type Runtime struct {
	runtime wazero.Runtime
	cache   wazero.CompilationCache

	// Compiled module cache (key: module name/path -> value: compiled module).
	modules sync.Map // map[string]*CompiledModule

	// Active instances, closed on shutdown.
	instances sync.Map // map[string]*Instance
	live      atomic.Int64

	config *RuntimeConfig
	logger *zap.Logger

	closeOnce sync.Once
	closed    chan struct{}
}

// RuntimeConfig holds runtime configuration.
type RuntimeConfig struct {
	// Memory limit per instance (in pages, 64KB each).
	// Default: 256 pages = 16MB.
	MemoryPages uint32

	// Log every native call at debug level.
	DebugEnabled bool

	// Persistent compilation cache directory.
	// If empty, compiled code is kept in memory only.
	CacheDir string

	// Maximum number of live instances. Zero means unlimited.
	MaxInstances int
}

// CompiledModule wraps a wazero.CompiledModule with metadata.
type CompiledModule struct {
	Module wazero.CompiledModule

	Name      string
	Source    string // File path or identifier
	SizeBytes int64

	CompiledAt int64
}

// HasExport reports whether the module exports a function named name.
func (c *CompiledModule) HasExport(name string) bool {
	if c.Module == nil {
		return false
	}
	_, ok := c.Module.ExportedFunctions()[name]
	return ok
}

// NewRuntime creates the wazero runtime and instantiates the env host
// module Diplomat guests import.
func NewRuntime(ctx context.Context, logger *zap.Logger, config *RuntimeConfig) (*Runtime, error) {
	if config == nil {
		config = DefaultRuntimeConfig()
	}

	rc := wazero.NewRuntimeConfig()
	if config.MemoryPages > 0 {
		rc = rc.WithMemoryLimitPages(config.MemoryPages)
	}

	var cache wazero.CompilationCache
	if config.CacheDir != "" {
		var err error
		cache, err = wazero.NewCompilationCacheWithDir(config.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open compilation cache %s: %w", config.CacheDir, err)
		}
		rc = rc.WithCompilationCache(cache)
	}

	runtime := &Runtime{
		runtime: wazero.NewRuntimeWithConfig(ctx, rc),
		cache:   cache,
		config:  config,
		logger:  logger.With(zap.String("component", "wasm-runtime")),
		closed:  make(chan struct{}),
	}

	host := NewHostFunctions(logger)
	if err := runtime.RegisterHostModule(ctx, EnvModuleName, host.Export); err != nil {
		_ = runtime.runtime.Close(ctx)
		return nil, err
	}

	runtime.logger.Info("Wasm runtime initialized",
		zap.Uint32("memory_pages", config.MemoryPages),
		zap.Bool("debug_enabled", config.DebugEnabled),
		zap.String("cache_dir", config.CacheDir),
		zap.Int("max_instances", config.MaxInstances),
	)

	return runtime, nil
}

// DefaultRuntimeConfig returns sensible defaults.
func DefaultRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		MemoryPages:  256, // 16MB
		DebugEnabled: false,
		CacheDir:     "",
		MaxInstances: 100,
	}
}

// RegisterHostModule instantiates a host module whose functions define
// adds. Guests instantiated afterwards can import them by name.
func (r *Runtime) RegisterHostModule(ctx context.Context, name string, define func(wazero.HostModuleBuilder)) error {
	if r.IsClosed() {
		return &RuntimeClosedError{}
	}
	builder := r.runtime.NewHostModuleBuilder(name)
	define(builder)
	if _, err := builder.Instantiate(ctx); err != nil {
		return &InstantiationError{ModuleName: name, InstanceID: name, Err: err}
	}
	r.logger.Debug("Host module registered", zap.String("module", name))
	return nil
}

// Close gracefully shuts down the runtime.
// Safe to call multiple times (idempotent).
func (r *Runtime) Close(ctx context.Context) error {
	var err error
	r.closeOnce.Do(func() {
		r.logger.Info("Shutting down Wasm runtime")

		r.instances.Range(func(key, value any) bool {
			if inst, ok := value.(*Instance); ok {
				if closeErr := inst.Close(ctx); closeErr != nil {
					r.logger.Warn("Failed to close instance",
						zap.String("instance_id", key.(string)),
						zap.Error(closeErr),
					)
				}
			}
			return true
		})

		err = r.runtime.Close(ctx)
		if r.cache != nil {
			if cacheErr := r.cache.Close(ctx); cacheErr != nil && err == nil {
				err = cacheErr
			}
		}

		close(r.closed)
		r.logger.Info("Wasm runtime shutdown complete")
	})

	return err
}

// GetCompiledModule retrieves a compiled module from cache.
func (r *Runtime) GetCompiledModule(name string) (*CompiledModule, bool) {
	if val, ok := r.modules.Load(name); ok {
		if mod, ok := val.(*CompiledModule); ok {
			return mod, true
		}
	}
	return nil, false
}

// StoreCompiledModule stores a compiled module in cache.
func (r *Runtime) StoreCompiledModule(module *CompiledModule) {
	r.modules.Store(module.Name, module)
}

// GetInstance retrieves a live instance.
func (r *Runtime) GetInstance(instanceID string) (*Instance, bool) {
	if val, ok := r.instances.Load(instanceID); ok {
		inst, ok := val.(*Instance)
		return inst, ok
	}
	return nil, false
}

// StoreInstance tracks a live instance.
func (r *Runtime) StoreInstance(instance *Instance) {
	if _, loaded := r.instances.LoadOrStore(instance.ID, instance); !loaded {
		r.live.Add(1)
	}
}

// DeleteInstance stops tracking an instance.
func (r *Runtime) DeleteInstance(instanceID string) {
	if _, loaded := r.instances.LoadAndDelete(instanceID); loaded {
		r.live.Add(-1)
	}
}

// InstanceCount returns the number of live instances.
func (r *Runtime) InstanceCount() int {
	return int(r.live.Load())
}

// IsClosed returns whether the runtime has been closed.
func (r *Runtime) IsClosed() bool {
	select {
	case <-r.closed:
		return true
	default:
		return false
	}
}
