package library

import (
	"fmt"
)

// ManifestNotFoundError occurs when manifest.yaml is not found in a directory.
type ManifestNotFoundError struct {
	Path string
	Err  error
}

func (e *ManifestNotFoundError) Error() string {
	return fmt.Sprintf("manifest not found at '%s': %v", e.Path, e.Err)
}

func (e *ManifestNotFoundError) Unwrap() error {
	return e.Err
}

// ManifestParseError occurs when manifest.yaml cannot be parsed as valid YAML.
type ManifestParseError struct {
	Path string
	Err  error
}

func (e *ManifestParseError) Error() string {
	return fmt.Sprintf("failed to parse manifest at '%s': %v", e.Path, e.Err)
}

func (e *ManifestParseError) Unwrap() error {
	return e.Err
}

// ManifestValidationError occurs when manifest.yaml fails validation.
type ManifestValidationError struct {
	Path    string
	Field   string
	Message string
}

func (e *ManifestValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("manifest validation failed at '%s': %s (field: %s)",
			e.Path, e.Message, e.Field)
	}
	return fmt.Sprintf("manifest validation failed at '%s': %s", e.Path, e.Message)
}

// WasmNotFoundError occurs when the Wasm file referenced in manifest doesn't exist.
type WasmNotFoundError struct {
	ManifestPath string
	WasmFile     string
}

func (e *WasmNotFoundError) Error() string {
	return fmt.Sprintf("Wasm file '%s' not found (referenced in manifest '%s')",
		e.WasmFile, e.ManifestPath)
}

// LibraryLoadError occurs when library loading fails.
type LibraryLoadError struct {
	LibraryName string
	Err         error
}

func (e *LibraryLoadError) Error() string {
	return fmt.Sprintf("failed to load library '%s': %v", e.LibraryName, e.Err)
}

func (e *LibraryLoadError) Unwrap() error {
	return e.Err
}

// LibraryNotFoundError occurs when a library is not found in the registry.
type LibraryNotFoundError struct {
	LibraryName string
}

func (e *LibraryNotFoundError) Error() string {
	return fmt.Sprintf("library '%s' not found", e.LibraryName)
}

// LibraryAlreadyRegisteredError occurs when attempting to register a duplicate library.
type LibraryAlreadyRegisteredError struct {
	LibraryName string
}

func (e *LibraryAlreadyRegisteredError) Error() string {
	return fmt.Sprintf("library '%s' is already registered", e.LibraryName)
}

// NoLibrariesFoundError occurs when no libraries are found in the configured paths.
type NoLibrariesFoundError struct {
	Paths []string
}

func (e *NoLibrariesFoundError) Error() string {
	return fmt.Sprintf("no libraries found in paths: %v", e.Paths)
}

// ComponentNotFoundError occurs when no loaded library provides a component.
type ComponentNotFoundError struct {
	Component string
}

func (e *ComponentNotFoundError) Error() string {
	return fmt.Sprintf("no library provides component '%s'", e.Component)
}
