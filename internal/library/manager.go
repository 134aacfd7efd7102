package library

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/woxQAQ/icu4x-go/internal/config"
	"github.com/woxQAQ/icu4x-go/internal/wasm"
)

// Manager manages library lifecycle.
type Manager struct {
	cfg         *config.Config
	runtime     *wasm.Runtime
	loader      *Loader
	registry    *Registry
	instanceMgr *wasm.InstanceManager
	logger      *zap.Logger

	mu     sync.RWMutex
	loaded bool
}

// NewManager creates a new library manager.
func NewManager(cfg *config.Config, runtime *wasm.Runtime, logger *zap.Logger) *Manager {
	return &Manager{
		cfg:         cfg,
		runtime:     runtime,
		loader:      NewLoader(runtime, logger),
		registry:    NewRegistry(logger),
		instanceMgr: wasm.NewInstanceManager(runtime, logger),
		logger:      logger.With(zap.String("component", "library-manager")),
	}
}

// LoadAll discovers and loads all libraries from configured paths.
func (m *Manager) LoadAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loaded {
		return fmt.Errorf("libraries already loaded")
	}

	m.logger.Info("Loading libraries",
		zap.Strings("paths", m.cfg.LibraryPaths),
	)

	// Discover libraries
	libs, err := m.loader.DiscoverLibraries(ctx, m.cfg.LibraryPaths)
	if err != nil {
		// No bundles is not fatal; Get reports it per name.
		var none *NoLibrariesFoundError
		if errors.As(err, &none) {
			m.logger.Warn("No libraries found in configured paths",
				zap.Strings("paths", m.cfg.LibraryPaths),
			)
			m.loaded = true
			return nil
		}
		return err
	}

	// Register all libraries
	for _, lib := range libs {
		if err := m.registry.Register(lib); err != nil {
			m.logger.Error("Failed to register library",
				zap.String("name", lib.Manifest.Name),
				zap.Error(err),
			)
			continue
		}
	}

	m.loaded = true

	m.logger.Info("Libraries loaded successfully",
		zap.Int("count", m.registry.Count()),
	)

	return nil
}

// Get retrieves a library by name.
func (m *Manager) Get(name string) (*Library, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lib, ok := m.registry.Get(name)
	if !ok {
		return nil, &LibraryNotFoundError{LibraryName: name}
	}

	return lib, nil
}

// FindForComponent finds a library providing component. The first
// registered match wins.
func (m *Manager) FindForComponent(component string) (*Library, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	libs := m.registry.LookupByComponent(component)
	if len(libs) == 0 {
		return nil, &ComponentNotFoundError{Component: component}
	}

	return libs[0], nil
}

// Instantiate creates a new instance of a library.
func (m *Manager) Instantiate(ctx context.Context, name string) (*wasm.Instance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lib, ok := m.registry.Get(name)
	if !ok {
		return nil, &LibraryNotFoundError{LibraryName: name}
	}

	// InstanceID is auto-generated
	instance, err := m.instanceMgr.Instantiate(ctx, &wasm.InstanceConfig{
		ModuleName: lib.Compiled.Name,
	})
	if err != nil {
		return nil, err
	}

	return instance, nil
}

// Shutdown gracefully shuts down all libraries.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.logger.Info("Shutting down library manager")

	// Runtime close handles instance cleanup
	if err := m.runtime.Close(ctx); err != nil {
		m.logger.Error("Failed to shutdown runtime", zap.Error(err))
		return err
	}

	m.logger.Info("Library manager shutdown complete")
	return nil
}

// Registry returns the library registry (for testing/inspection).
func (m *Manager) Registry() *Registry {
	return m.registry
}

// IsLoaded returns whether libraries have been loaded.
func (m *Manager) IsLoaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded
}
