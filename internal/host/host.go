// Package host wires configuration, the Wasm runtime and the library
// manager into ICU4X bindings.
package host

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/woxQAQ/icu4x-go/internal/config"
	"github.com/woxQAQ/icu4x-go/internal/library"
	"github.com/woxQAQ/icu4x-go/internal/wasm"
	"github.com/woxQAQ/icu4x-go/pkg/icu4x"
)

type Host struct {
	cfg         *config.Config
	logger      *zap.Logger
	wasmRuntime *wasm.Runtime
	libraries   *library.Manager
}

// NewLogger builds a development logger for "debug" and a production
// logger at level otherwise.
func NewLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, err
		}
		cfg.Level = lvl
	}
	return cfg.Build()
}

func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Host, error) {
	// Initialize Wasm runtime.
	wasmConfig := &wasm.RuntimeConfig{
		MemoryPages:  cfg.Wasm.MemoryPages,
		DebugEnabled: cfg.Wasm.Debug,
		CacheDir:     cfg.Wasm.CacheDir,
		MaxInstances: cfg.Wasm.MaxInstances,
	}

	wasmRuntime, err := wasm.NewRuntime(ctx, logger, wasmConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Wasm runtime: %w", err)
	}

	libraries := library.NewManager(cfg, wasmRuntime, logger)
	if err := libraries.LoadAll(ctx); err != nil {
		_ = wasmRuntime.Close(ctx)
		return nil, fmt.Errorf("failed to load libraries: %w", err)
	}

	logger.Info("Host initialized",
		zap.Uint32("wasm_memory_pages", cfg.Wasm.MemoryPages),
		zap.String("wasm_cache_dir", cfg.Wasm.CacheDir),
		zap.Int("libraries", libraries.Registry().Count()),
	)

	return &Host{
		cfg:         cfg,
		logger:      logger,
		wasmRuntime: wasmRuntime,
		libraries:   libraries,
	}, nil
}

// Open instantiates the named library and binds it. An empty name opens
// the configured default. The caller closes the returned library.
func (h *Host) Open(ctx context.Context, name string) (*icu4x.Library, error) {
	if name == "" {
		name = h.cfg.Library
	}

	lib, err := h.libraries.Get(name)
	if err != nil {
		return nil, err
	}

	instance, err := h.libraries.Instantiate(ctx, name)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("Library opened",
		zap.String("name", name),
		zap.String("instance_id", instance.ID),
	)
	return icu4x.New(instance, lib.ABIRename()), nil
}

// OpenComponent opens the first library providing component.
func (h *Host) OpenComponent(ctx context.Context, component string) (*icu4x.Library, error) {
	lib, err := h.libraries.FindForComponent(component)
	if err != nil {
		return nil, err
	}
	return h.Open(ctx, lib.Name())
}

// Runtime exposes the Wasm runtime, e.g. to register extra host modules
// before opening a library.
func (h *Host) Runtime() *wasm.Runtime {
	return h.wasmRuntime
}

// Libraries returns the library manager.
func (h *Host) Libraries() *library.Manager {
	return h.libraries
}

// Close gracefully shuts down the host. Open libraries are closed with
// the runtime.
func (h *Host) Close(ctx context.Context) error {
	h.logger.Info("Shutting down host")

	if err := h.libraries.Shutdown(ctx); err != nil {
		h.logger.Error("Failed to shutdown libraries", zap.Error(err))
		return err
	}

	h.logger.Info("Host shutdown complete")
	return nil
}
