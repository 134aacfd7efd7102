package library

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// KnownComponents lists the ICU4X components a build may declare.
var KnownComponents = []string{
	"provider",
	"locale",
	"decimal",
	"timezone",
	"calendar",
	"casemap",
	"properties",
}

// Manifest represents the library manifest.yaml structure.
type Manifest struct {
	Name       string     `yaml:"name"`
	Version    string     `yaml:"version"`
	ABIRename  string     `yaml:"abi_rename"`
	Wasm       WasmConfig `yaml:"wasm"`
	Components []string   `yaml:"components"`
	Author     string     `yaml:"author"`
	License    string     `yaml:"license"`

	// Internal fields
	dir string // Directory containing manifest
}

// WasmConfig holds Wasm module configuration.
type WasmConfig struct {
	File string `yaml:"file"`
	Size int    `yaml:"size"` // KB
}

// ParseManifest reads and parses manifest.yaml from a directory.
func ParseManifest(dir string) (*Manifest, error) {
	manifestPath := filepath.Join(dir, "manifest.yaml")

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, &ManifestNotFoundError{
			Path: manifestPath,
			Err:  err,
		}
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &ManifestParseError{
			Path: manifestPath,
			Err:  err,
		}
	}

	m.dir = dir

	// Validate manifest
	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// Validate checks manifest fields.
func (m *Manifest) Validate() error {
	// Check required fields
	if m.Name == "" {
		return &ManifestValidationError{
			Path:    m.Path(),
			Field:   "name",
			Message: "name is required",
		}
	}

	if m.Version == "" {
		return &ManifestValidationError{
			Path:    m.Path(),
			Field:   "version",
			Message: "version is required",
		}
	}

	if !strings.Contains(m.ABIRename, "{0}") {
		return &ManifestValidationError{
			Path:    m.Path(),
			Field:   "abi_rename",
			Message: fmt.Sprintf("abi_rename must contain {0}, got %q", m.ABIRename),
		}
	}

	if m.Wasm.File == "" {
		return &ManifestValidationError{
			Path:    m.Path(),
			Field:   "wasm.file",
			Message: "wasm.file is required",
		}
	}

	// Validate components
	if len(m.Components) == 0 {
		return &ManifestValidationError{
			Path:    m.Path(),
			Field:   "components",
			Message: "at least one component is required",
		}
	}

	for _, c := range m.Components {
		if !slices.Contains(KnownComponents, c) {
			return &ManifestValidationError{
				Path:    m.Path(),
				Field:   "components",
				Message: fmt.Sprintf("unknown component: %s (must be one of: %s)", c, strings.Join(KnownComponents, ", ")),
			}
		}
	}

	// Validate Wasm file exists
	wasmPath := m.WasmPath()
	if _, err := os.Stat(wasmPath); os.IsNotExist(err) {
		return &WasmNotFoundError{
			ManifestPath: m.Path(),
			WasmFile:     m.Wasm.File,
		}
	}

	return nil
}

// Path returns the manifest file path.
func (m *Manifest) Path() string {
	return filepath.Join(m.dir, "manifest.yaml")
}

// WasmPath returns the path to the Wasm file.
func (m *Manifest) WasmPath() string {
	return filepath.Join(m.dir, m.Wasm.File)
}

// Dir returns the directory containing the manifest.
func (m *Manifest) Dir() string {
	return m.dir
}
