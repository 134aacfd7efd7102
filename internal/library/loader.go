package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/woxQAQ/icu4x-go/internal/wasm"
)

// Loader handles loading library bundles from disk.
type Loader struct {
	runtime      *wasm.Runtime
	moduleLoader *wasm.ModuleLoader
	logger       *zap.Logger
}

// NewLoader creates a new library loader.
func NewLoader(runtime *wasm.Runtime, logger *zap.Logger) *Loader {
	return &Loader{
		runtime:      runtime,
		moduleLoader: wasm.NewModuleLoader(runtime, logger),
		logger:       logger.With(zap.String("component", "library-loader")),
	}
}

// LoadLibrary loads a single bundle from a directory. The module must
// export the Diplomat runtime functions.
func (l *Loader) LoadLibrary(ctx context.Context, dir string) (*Library, error) {
	l.logger.Debug("Loading library", zap.String("dir", dir))

	// Parse manifest
	manifest, err := ParseManifest(dir)
	if err != nil {
		return nil, err
	}

	l.logger.Info("Loading library",
		zap.String("name", manifest.Name),
		zap.String("version", manifest.Version),
		zap.String("abi_rename", manifest.ABIRename),
	)

	// Compile and check the Diplomat ABI (uses internal caching)
	compiled, err := l.moduleLoader.LoadLibrary(ctx, wasm.Source{Path: manifest.WasmPath()})
	if err != nil {
		return nil, &LibraryLoadError{
			LibraryName: manifest.Name,
			Err:         err,
		}
	}

	lib := &Library{
		Manifest: manifest,
		Compiled: compiled,
		LoadedAt: time.Now(),
	}

	l.logger.Info("Library loaded successfully",
		zap.String("name", manifest.Name),
		zap.Int64("size_bytes", compiled.SizeBytes),
	)

	return lib, nil
}

// DiscoverLibraries scans directories for library bundles. Each
// subdirectory holding a manifest.yaml is one bundle.
func (l *Loader) DiscoverLibraries(ctx context.Context, paths []string) ([]*Library, error) {
	var libs []*Library
	var errs []error

	for _, basePath := range paths {
		l.logger.Debug("Scanning library directory", zap.String("path", basePath))

		// Read subdirectories
		entries, err := os.ReadDir(basePath)
		if err != nil {
			if os.IsNotExist(err) {
				l.logger.Warn("Library path does not exist", zap.String("path", basePath))
				continue
			}
			return nil, fmt.Errorf("failed to read directory '%s': %w", basePath, err)
		}

		// Try to load each subdirectory as a bundle
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}

			bundleDir := filepath.Join(basePath, entry.Name())

			lib, err := l.LoadLibrary(ctx, bundleDir)
			if err != nil {
				l.logger.Error("Failed to load library",
					zap.String("dir", bundleDir),
					zap.Error(err),
				)
				errs = append(errs, err)
				continue
			}

			libs = append(libs, lib)
		}
	}

	// If we found some libraries but had errors, log warning but continue
	if len(libs) > 0 && len(errs) > 0 {
		l.logger.Warn("Some libraries failed to load",
			zap.Int("loaded", len(libs)),
			zap.Int("failed", len(errs)),
		)
	}

	// If no libraries loaded, return error
	if len(libs) == 0 {
		return nil, &NoLibrariesFoundError{Paths: paths}
	}

	return libs, nil
}
