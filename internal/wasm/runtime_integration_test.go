package wasm_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/woxQAQ/icu4x-go/internal/nativetest"
	"github.com/woxQAQ/icu4x-go/internal/wasm"
	"github.com/woxQAQ/icu4x-go/pkg/protocol"
)

// emptyModule is a valid Wasm 1.0 module with no sections.
var emptyModule = []byte{
	0x00, 0x61, 0x73, 0x6d, // Magic number: \0asm
	0x01, 0x00, 0x00, 0x00, // Version: 1
}

// newFixtureRuntime creates a runtime with the native fixture registered
// and its shim compiled as "icu4x".
func newFixtureRuntime(t *testing.T, logger *zap.Logger, config *wasm.RuntimeConfig) (*wasm.Runtime, *wasm.CompiledModule) {
	t.Helper()
	ctx := context.Background()

	runtime, err := wasm.NewRuntime(ctx, logger, config)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = runtime.Close(ctx) })

	native := nativetest.New()
	if err := runtime.RegisterHostModule(ctx, nativetest.HostModule, native.Export); err != nil {
		t.Fatalf("Failed to register host module: %v", err)
	}

	module, err := wasm.NewModuleLoader(runtime, logger).LoadModuleFromMemory(ctx, "icu4x", native.Shim())
	if err != nil {
		t.Fatalf("Failed to load shim: %v", err)
	}
	return runtime, module
}

func TestLoadModuleFromMemory(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	runtime, err := wasm.NewRuntime(ctx, logger, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer runtime.Close(ctx)

	loader := wasm.NewModuleLoader(runtime, logger)

	module, err := loader.LoadModuleFromMemory(ctx, "test-module", emptyModule)
	if err != nil {
		t.Fatalf("Failed to load module: %v", err)
	}

	if module.Name != "test-module" {
		t.Errorf("Module name = %s, want 'test-module'", module.Name)
	}

	// Test caching - load again should hit cache.
	module2, err := loader.LoadModuleFromMemory(ctx, "test-module", emptyModule)
	if err != nil {
		t.Fatalf("Failed to load module from cache: %v", err)
	}

	if module2 != module {
		t.Error("Cache should return the same module instance")
	}
}

func TestLoadModuleFromMemory_Invalid(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	runtime, err := wasm.NewRuntime(ctx, logger, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer runtime.Close(ctx)

	_, err = wasm.NewModuleLoader(runtime, logger).LoadModuleFromMemory(ctx, "junk", []byte("not wasm"))
	var compileErr *wasm.CompilationError
	if !errors.As(err, &compileErr) {
		t.Fatalf("LoadModuleFromMemory() = %v, want CompilationError", err)
	}
}

func TestModuleLoaderFileSource(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	runtime, err := wasm.NewRuntime(ctx, logger, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer runtime.Close(ctx)

	loader := wasm.NewModuleLoader(runtime, logger)

	wasmFile := filepath.Join(t.TempDir(), "test.wasm")
	if err := os.WriteFile(wasmFile, emptyModule, 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	module, err := loader.LoadModuleFromFile(ctx, wasmFile)
	if err != nil {
		t.Fatalf("Failed to load module from file: %v", err)
	}
	if module.SizeBytes != int64(len(emptyModule)) {
		t.Errorf("SizeBytes = %d, want %d", module.SizeBytes, len(emptyModule))
	}
}

func TestCheckDiplomatABI(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	runtime, module := newFixtureRuntime(t, logger, nil)
	if err := wasm.CheckDiplomatABI(module); err != nil {
		t.Errorf("CheckDiplomatABI(shim) = %v, want nil", err)
	}

	empty, err := wasm.NewModuleLoader(runtime, logger).LoadModuleFromMemory(ctx, "empty", emptyModule)
	if err != nil {
		t.Fatal(err)
	}
	err = wasm.CheckDiplomatABI(empty)
	abiErr, ok := err.(*wasm.ABIError)
	if !ok {
		t.Fatalf("CheckDiplomatABI(empty) = %v, want ABIError", err)
	}
	want := append([]string{wasm.MemoryExport}, protocol.RuntimeExports...)
	if diff := cmp.Diff(want, abiErr.Missing); diff != "" {
		t.Errorf("Missing mismatch (-want +got):\n%s", diff)
	}

	var notFound *wasm.FunctionNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("ABIError should unwrap to FunctionNotFoundError")
	}
	if notFound.FunctionName != protocol.SymbolAlloc {
		t.Errorf("FunctionName = %s, want %s", notFound.FunctionName, protocol.SymbolAlloc)
	}
}

func TestLoadLibrary(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	runtime, err := wasm.NewRuntime(ctx, logger, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer runtime.Close(ctx)

	loader := wasm.NewModuleLoader(runtime, logger)

	module, err := loader.LoadLibrary(ctx, wasm.Source{Name: "icu4x", Data: nativetest.New().Shim()})
	if err != nil {
		t.Fatalf("LoadLibrary(shim) failed: %v", err)
	}
	if module.Name != "icu4x" {
		t.Errorf("Name = %s, want icu4x", module.Name)
	}

	wasmFile := filepath.Join(t.TempDir(), "empty.wasm")
	if err := os.WriteFile(wasmFile, emptyModule, 0644); err != nil {
		t.Fatal(err)
	}
	_, err = loader.LoadLibrary(ctx, wasm.Source{Path: wasmFile})
	if _, ok := err.(*wasm.ABIError); !ok {
		t.Fatalf("LoadLibrary(empty) = %v, want ABIError", err)
	}

	// The compiled module stays cached under its path.
	if _, ok := runtime.GetCompiledModule(wasmFile); !ok {
		t.Error("empty module should be cached by path")
	}

	_, err = loader.LoadLibrary(ctx, wasm.Source{Path: filepath.Join(t.TempDir(), "missing.wasm")})
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadLibrary(missing) = %v, want not-exist error", err)
	}
}

func TestLoadModule_ClosedRuntime(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	runtime, err := wasm.NewRuntime(ctx, logger, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := runtime.Close(ctx); err != nil {
		t.Fatal(err)
	}

	_, err = wasm.NewModuleLoader(runtime, logger).LoadModuleFromMemory(ctx, "late", emptyModule)
	if _, ok := err.(*wasm.RuntimeClosedError); !ok {
		t.Errorf("LoadModuleFromMemory() after Close = %v, want RuntimeClosedError", err)
	}
}

func TestMemoryLimit(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	runtime, err := wasm.NewRuntime(ctx, logger, &wasm.RuntimeConfig{MemoryPages: 1})
	if err != nil {
		t.Fatal(err)
	}
	defer runtime.Close(ctx)

	// The shim declares two pages of memory.
	_, err = wasm.NewModuleLoader(runtime, logger).LoadModuleFromMemory(ctx, "icu4x", nativetest.New().Shim())
	var compileErr *wasm.CompilationError
	if !errors.As(err, &compileErr) {
		t.Fatalf("LoadModuleFromMemory() = %v, want CompilationError", err)
	}
}

func TestInstanceCall(t *testing.T) {
	ctx := context.Background()
	inst, native := nativetest.Start(t)

	res, err := inst.Call(ctx, protocol.SymbolAlloc, 16, 8)
	if err != nil {
		t.Fatalf("Call(%s) failed: %v", protocol.SymbolAlloc, err)
	}
	if len(res) != 1 || res[0] == 0 || res[0]%8 != 0 {
		t.Errorf("Call(%s) = %v, want one aligned pointer", protocol.SymbolAlloc, res)
	}
	if native.Calls(protocol.SymbolAlloc) != 1 {
		t.Errorf("Calls(%s) = %d, want 1", protocol.SymbolAlloc, native.Calls(protocol.SymbolAlloc))
	}

	_, err = inst.Call(ctx, "icu4x_Missing_method_mv1")
	var notFound *wasm.FunctionNotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("Call(missing) = %v, want FunctionNotFoundError", err)
	}
}

func TestInstanceCall_GuestPanic(t *testing.T) {
	ctx := context.Background()
	inst, _ := nativetest.Start(t)

	_, err := inst.Call(ctx, nativetest.SymbolPanic)
	var callErr *wasm.CallError
	if !errors.As(err, &callErr) {
		t.Fatalf("Call(%s) = %v, want CallError", nativetest.SymbolPanic, err)
	}
	if callErr.Symbol != nativetest.SymbolPanic || callErr.InstanceID != inst.ID {
		t.Errorf("CallError = %+v", callErr)
	}
	if !strings.Contains(err.Error(), nativetest.PanicMessage) {
		t.Errorf("error %q does not carry the guest message", err)
	}

	// The instance stays usable.
	if _, err := inst.Call(ctx, protocol.SymbolAlloc, 4, 4); err != nil {
		t.Errorf("Call after panic failed: %v", err)
	}
}

func TestConsoleLog(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	ctx := context.Background()

	runtime, _ := newFixtureRuntime(t, logger, nil)
	inst, err := wasm.NewInstanceManager(runtime, logger).Instantiate(ctx, &wasm.InstanceConfig{ModuleName: "icu4x"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := inst.Call(ctx, nativetest.SymbolConsoleGreeting); err != nil {
		t.Fatalf("Call(%s) failed: %v", nativetest.SymbolConsoleGreeting, err)
	}

	entries := logs.FilterMessage(nativetest.Greeting).All()
	if len(entries) != 1 {
		t.Fatalf("got %d greeting entries, want 1", len(entries))
	}
	if entries[0].Level != zap.InfoLevel {
		t.Errorf("greeting level = %s, want info", entries[0].Level)
	}
}

func TestDebugCallLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	ctx := context.Background()

	config := wasm.DefaultRuntimeConfig()
	config.DebugEnabled = true
	runtime, _ := newFixtureRuntime(t, logger, config)
	inst, err := wasm.NewInstanceManager(runtime, logger).Instantiate(ctx, &wasm.InstanceConfig{ModuleName: "icu4x"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := inst.Call(ctx, protocol.SymbolAlloc, 1, 1); err != nil {
		t.Fatal(err)
	}
	if n := logs.FilterMessage("Native call").FilterField(zap.String("symbol", protocol.SymbolAlloc)).Len(); n != 1 {
		t.Errorf("got %d native call entries, want 1", n)
	}
}

func TestInstanceLimit(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	config := wasm.DefaultRuntimeConfig()
	config.MaxInstances = 1
	runtime, _ := newFixtureRuntime(t, logger, config)
	manager := wasm.NewInstanceManager(runtime, logger)

	first, err := manager.Instantiate(ctx, &wasm.InstanceConfig{ModuleName: "icu4x"})
	if err != nil {
		t.Fatal(err)
	}

	_, err = manager.Instantiate(ctx, &wasm.InstanceConfig{ModuleName: "icu4x"})
	var limitErr *wasm.InstanceLimitError
	if !errors.As(err, &limitErr) {
		t.Fatalf("Instantiate() = %v, want InstanceLimitError", err)
	}

	if err := first.Close(ctx); err != nil {
		t.Fatal(err)
	}
	if err := first.Close(ctx); err != nil {
		t.Errorf("second Close() = %v, want nil", err)
	}
	if n := runtime.InstanceCount(); n != 0 {
		t.Errorf("InstanceCount() = %d, want 0", n)
	}

	if _, err := manager.Instantiate(ctx, &wasm.InstanceConfig{ModuleName: "icu4x", InstanceID: "second"}); err != nil {
		t.Errorf("Instantiate() after Close failed: %v", err)
	}
	if _, ok := runtime.GetInstance("second"); !ok {
		t.Error("instance with explicit id is not tracked")
	}
}

func TestMemoryHelpers(t *testing.T) {
	inst, _ := nativetest.Start(t)

	if !inst.Memory().Write(2048, []byte("wörld")) {
		t.Fatal("Failed to write to memory")
	}

	mem := wasm.NewMemory(inst.Module())
	s, err := mem.ReadString(2048, uint32(len("wörld")))
	if err != nil {
		t.Fatalf("ReadString() failed: %v", err)
	}
	if s != "wörld" {
		t.Errorf("ReadString() = %q, want %q", s, "wörld")
	}

	_, err = mem.ReadBytes(mem.Size()-2, 4)
	var accessErr *wasm.MemoryAccessError
	if !errors.As(err, &accessErr) {
		t.Errorf("ReadBytes() past the end = %v, want MemoryAccessError", err)
	}
}
