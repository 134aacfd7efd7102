package nativetest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/woxQAQ/icu4x-go/internal/wasm"
)

// Components lists every component the fixture implements.
var Components = []string{"provider", "locale", "decimal", "timezone", "calendar", "casemap", "properties"}

// Start instantiates a fresh fixture in its own runtime. Everything is
// closed when the test ends.
func Start(t testing.TB) (*wasm.Instance, *Native) {
	t.Helper()
	return StartWithConfig(t, wasm.DefaultRuntimeConfig())
}

// StartWithConfig is Start with an explicit runtime configuration.
func StartWithConfig(t testing.TB, cfg *wasm.RuntimeConfig) (*wasm.Instance, *Native) {
	t.Helper()
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	runtime, err := wasm.NewRuntime(ctx, logger, cfg)
	if err != nil {
		t.Fatalf("NewRuntime() failed: %v", err)
	}
	t.Cleanup(func() { _ = runtime.Close(ctx) })

	native := New()
	if err := runtime.RegisterHostModule(ctx, HostModule, native.Export); err != nil {
		t.Fatalf("RegisterHostModule() failed: %v", err)
	}

	loader := wasm.NewModuleLoader(runtime, logger)
	if _, err := loader.LoadModuleFromMemory(ctx, "icu4x", native.Shim()); err != nil {
		t.Fatalf("LoadModuleFromMemory() failed: %v", err)
	}

	instance, err := wasm.NewInstanceManager(runtime, logger).Instantiate(ctx, &wasm.InstanceConfig{ModuleName: "icu4x"})
	if err != nil {
		t.Fatalf("Instantiate() failed: %v", err)
	}
	return instance, native
}

// WriteBundle writes a library bundle for native under dir/name: the shim
// binary and a manifest.yaml naming it. It returns the bundle directory.
func WriteBundle(t testing.TB, dir, name string, native *Native) string {
	t.Helper()
	bundle := filepath.Join(dir, name)
	if err := os.MkdirAll(bundle, 0o755); err != nil {
		t.Fatalf("MkdirAll() failed: %v", err)
	}

	wasmFile := name + ".wasm"
	if err := os.WriteFile(filepath.Join(bundle, wasmFile), native.Shim(), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	manifest := fmt.Sprintf(`name: %s
version: 1.5.0
abi_rename: %q
wasm:
  file: %s
  size: 64
components: [%s]
author: ICU4X project
license: Unicode-3.0
`, name, native.rename, wasmFile, strings.Join(Components, ", "))
	if err := os.WriteFile(filepath.Join(bundle, "manifest.yaml"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	return bundle
}
