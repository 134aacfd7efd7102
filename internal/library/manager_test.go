package library

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/woxQAQ/icu4x-go/internal/config"
	"github.com/woxQAQ/icu4x-go/internal/nativetest"
	"github.com/woxQAQ/icu4x-go/internal/wasm"
	"github.com/woxQAQ/icu4x-go/pkg/protocol"
)

func TestManager_NewManager(t *testing.T) {
	cfg := &config.Config{
		LibraryPaths: []string{"/tmp/libraries"},
	}

	manager := NewManager(cfg, newTestRuntime(t), zap.NewNop())

	if manager == nil {
		t.Fatal("NewManager() returned nil")
	}

	if manager.IsLoaded() {
		t.Error("Manager should not be loaded initially")
	}
}

func TestManager_Get_NotFound(t *testing.T) {
	manager := NewManager(&config.Config{}, newTestRuntime(t), zap.NewNop())

	_, err := manager.Get("nonexistent")
	if err == nil {
		t.Fatal("Get() should fail for non-existent library")
	}

	_, ok := err.(*LibraryNotFoundError)
	if !ok {
		t.Errorf("expected LibraryNotFoundError, got %T", err)
	}

	_, err = manager.Instantiate(context.Background(), "nonexistent")
	if _, ok := err.(*LibraryNotFoundError); !ok {
		t.Errorf("expected LibraryNotFoundError from Instantiate(), got %T", err)
	}
}

func TestManager_FindForComponent_NotFound(t *testing.T) {
	manager := NewManager(&config.Config{}, newTestRuntime(t), zap.NewNop())

	_, err := manager.FindForComponent("locale")
	if err == nil {
		t.Fatal("FindForComponent() should fail when no libraries loaded")
	}

	_, ok := err.(*ComponentNotFoundError)
	if !ok {
		t.Errorf("expected ComponentNotFoundError, got %T", err)
	}
}

func TestManager_LoadAll_NoLibraries(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{LibraryPaths: []string{t.TempDir()}}
	manager := NewManager(cfg, newTestRuntime(t), zap.NewNop())

	if err := manager.LoadAll(ctx); err != nil {
		t.Fatalf("LoadAll() failed: %v", err)
	}

	if !manager.IsLoaded() {
		t.Error("Manager should be loaded even without libraries")
	}

	if err := manager.LoadAll(ctx); err == nil {
		t.Error("second LoadAll() should fail")
	}
}

func TestManager_LoadAndInstantiate(t *testing.T) {
	ctx := context.Background()
	runtime := newTestRuntime(t)

	native := nativetest.New()
	if err := runtime.RegisterHostModule(ctx, nativetest.HostModule, native.Export); err != nil {
		t.Fatal(err)
	}

	root := t.TempDir()
	nativetest.WriteBundle(t, root, "icu4x", native)

	manager := NewManager(&config.Config{LibraryPaths: []string{root}}, runtime, zap.NewNop())
	if err := manager.LoadAll(ctx); err != nil {
		t.Fatalf("LoadAll() failed: %v", err)
	}

	lib, err := manager.FindForComponent("casemap")
	if err != nil {
		t.Fatalf("FindForComponent() failed: %v", err)
	}
	if lib.Name() != "icu4x" {
		t.Errorf("expected 'icu4x', got '%s'", lib.Name())
	}

	instance, err := manager.Instantiate(ctx, "icu4x")
	if err != nil {
		t.Fatalf("Instantiate() failed: %v", err)
	}

	if _, err := instance.Call(ctx, protocol.SymbolAlloc, 8, 4); err != nil {
		t.Errorf("Call(%s) failed: %v", protocol.SymbolAlloc, err)
	}

	if n := runtime.InstanceCount(); n != 1 {
		t.Errorf("InstanceCount() = %d, want 1", n)
	}
}

func TestManager_Shutdown(t *testing.T) {
	ctx := context.Background()

	runtime, err := wasm.NewRuntime(ctx, zap.NewNop(), wasm.DefaultRuntimeConfig())
	if err != nil {
		t.Fatalf("Failed to create runtime: %v", err)
	}

	manager := NewManager(&config.Config{}, runtime, zap.NewNop())

	// Shutdown should work even without loaded libraries
	err = manager.Shutdown(ctx)
	if err != nil {
		t.Errorf("Shutdown() failed: %v", err)
	}

	// Runtime should be closed
	if !runtime.IsClosed() {
		t.Error("Runtime should be closed after shutdown")
	}
}
