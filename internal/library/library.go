package library

import (
	"slices"
	"time"

	"github.com/woxQAQ/icu4x-go/internal/wasm"
)

// Library represents a loaded ICU4X build with its manifest and compiled Wasm module.
type Library struct {
	// Manifest is the parsed bundle metadata
	Manifest *Manifest

	// Compiled is the compiled Wasm module
	Compiled *wasm.CompiledModule

	// LoadedAt is the timestamp when the library was loaded
	LoadedAt time.Time
}

// Name returns the library name.
func (l *Library) Name() string {
	return l.Manifest.Name
}

// Version returns the ICU4X version of the build.
func (l *Library) Version() string {
	return l.Manifest.Version
}

// ABIRename returns the symbol pattern of the build.
func (l *Library) ABIRename() string {
	return l.Manifest.ABIRename
}

// Components returns the ICU4X components compiled into this build.
func (l *Library) Components() []string {
	return l.Manifest.Components
}

// Provides reports whether the build includes component.
func (l *Library) Provides(component string) bool {
	return slices.Contains(l.Manifest.Components, component)
}
