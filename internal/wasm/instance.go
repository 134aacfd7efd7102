package wasm

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/woxQAQ/icu4x-go/pkg/diplomat"
)

// InstanceManager creates and manages module instances.
type InstanceManager struct {
	runtime *Runtime
	logger  *zap.Logger
	mu      sync.Mutex
}

// NewInstanceManager creates a new instance manager.
func NewInstanceManager(runtime *Runtime, logger *zap.Logger) *InstanceManager {
	return &InstanceManager{
		runtime: runtime,
		logger:  logger.With(zap.String("component", "wasm-instance")),
	}
}

// InstanceConfig holds configuration for creating instances.
type InstanceConfig struct {
	// Module name to instantiate.
	ModuleName string

	// Instance ID (if empty, one is generated).
	InstanceID string
}

// Instance is one instantiated native library. It implements
// diplomat.Library.
//
// A wasm32 guest has a single heap and no threads, so calls are
// serialized.
type Instance struct {
	module api.Module

	ID        string
	Name      string
	CreatedAt int64

	runtime *Runtime
	logger  *zap.Logger
	debug   bool

	mu      sync.Mutex
	exports map[string]api.Function

	closeOnce sync.Once
	closeErr  error
}

var _ diplomat.Library = (*Instance)(nil)

// Instantiate creates a new instance from a compiled module.
func (m *InstanceManager) Instantiate(ctx context.Context, config *InstanceConfig) (*Instance, error) {
	if m.runtime.IsClosed() {
		return nil, &RuntimeClosedError{}
	}

	compiled, ok := m.runtime.GetCompiledModule(config.ModuleName)
	if !ok {
		return nil, &ModuleNotFoundError{ModuleName: config.ModuleName}
	}

	// Serialize the limit check with the registration that follows it.
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit := m.runtime.config.MaxInstances; limit > 0 && m.runtime.InstanceCount() >= limit {
		return nil, &InstanceLimitError{Limit: limit}
	}

	instanceID := config.InstanceID
	if instanceID == "" {
		instanceID = generateInstanceID()
	}

	m.logger.Info("Instantiating Wasm module",
		zap.String("module", config.ModuleName),
		zap.String("instance_id", instanceID),
	)

	moduleConfig := wazero.NewModuleConfig().
		WithName(instanceID).
		WithStartFunctions()

	module, err := m.runtime.runtime.InstantiateModule(ctx, compiled.Module, moduleConfig)
	if err != nil {
		return nil, &InstantiationError{
			ModuleName: config.ModuleName,
			InstanceID: instanceID,
			Err:        err,
		}
	}

	instance := &Instance{
		module:    module,
		ID:        instanceID,
		Name:      config.ModuleName,
		CreatedAt: time.Now().Unix(),
		runtime:   m.runtime,
		logger:    m.logger.With(zap.String("instance_id", instanceID)),
		debug:     m.runtime.config.DebugEnabled,
		exports:   make(map[string]api.Function),
	}

	m.runtime.StoreInstance(instance)

	m.logger.Info("Module instantiated successfully",
		zap.String("instance_id", instanceID),
		zap.Int("exported_functions", len(compiled.Module.ExportedFunctions())),
	)

	return instance, nil
}

// Call invokes an exported function.
func (i *Instance) Call(ctx context.Context, symbol string, params ...uint64) ([]uint64, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	fn, err := i.lookup(symbol)
	if err != nil {
		return nil, err
	}

	if i.debug {
		i.logger.Debug("Native call",
			zap.String("symbol", symbol),
			zap.Uint64s("params", params),
		)
	}

	results, err := fn.Call(ctx, params...)
	if err != nil {
		return nil, &CallError{InstanceID: i.ID, Symbol: symbol, Err: err}
	}
	return results, nil
}

// Memory returns the instance's linear memory.
func (i *Instance) Memory() diplomat.Memory {
	return NewMemory(i.module)
}

// Module returns the underlying wazero module.
func (i *Instance) Module() api.Module {
	return i.module
}

// Close closes the instance and releases resources.
func (i *Instance) Close(ctx context.Context) error {
	i.closeOnce.Do(func() {
		i.mu.Lock()
		defer i.mu.Unlock()
		i.closeErr = i.module.Close(ctx)
		i.runtime.DeleteInstance(i.ID)
	})
	return i.closeErr
}

// lookup resolves and caches an exported function. Callers hold i.mu.
func (i *Instance) lookup(symbol string) (api.Function, error) {
	if fn, ok := i.exports[symbol]; ok {
		return fn, nil
	}
	fn := i.module.ExportedFunction(symbol)
	if fn == nil {
		return nil, &FunctionNotFoundError{ModuleName: i.Name, FunctionName: symbol}
	}
	i.exports[symbol] = fn
	return fn, nil
}

var instanceSeq atomic.Uint64

// generateInstanceID generates a unique instance ID.
func generateInstanceID() string {
	return fmt.Sprintf("inst-%d-%d", time.Now().UnixNano(), instanceSeq.Add(1))
}
