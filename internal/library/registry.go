package library

import (
	"sync"

	"go.uber.org/zap"
)

// Registry manages loaded libraries.
type Registry struct {
	sync.RWMutex
	libraries   map[string]*Library   // name -> library
	byComponent map[string][]*Library // component -> libraries
	logger      *zap.Logger
}

// NewRegistry creates a new library registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		libraries:   make(map[string]*Library),
		byComponent: make(map[string][]*Library),
		logger:      logger.With(zap.String("component", "library-registry")),
	}
}

// Register adds a library to the registry.
func (r *Registry) Register(lib *Library) error {
	r.Lock()
	defer r.Unlock()

	name := lib.Manifest.Name

	// Check for duplicates
	if _, exists := r.libraries[name]; exists {
		return &LibraryAlreadyRegisteredError{LibraryName: name}
	}

	r.libraries[name] = lib

	// Index by component
	for _, c := range lib.Manifest.Components {
		r.byComponent[c] = append(r.byComponent[c], lib)
	}

	r.logger.Info("Library registered",
		zap.String("name", name),
		zap.String("version", lib.Manifest.Version),
		zap.Strings("components", lib.Manifest.Components),
	)

	return nil
}

// Get retrieves a library by name.
func (r *Registry) Get(name string) (*Library, bool) {
	r.RLock()
	defer r.RUnlock()

	lib, ok := r.libraries[name]
	return lib, ok
}

// LookupByComponent finds libraries providing a component, in
// registration order.
func (r *Registry) LookupByComponent(component string) []*Library {
	r.RLock()
	defer r.RUnlock()

	libs, ok := r.byComponent[component]
	if !ok || len(libs) == 0 {
		return []*Library{}
	}
	// Return copy to avoid race conditions
	result := make([]*Library, len(libs))
	copy(result, libs)
	return result
}

// List returns all registered libraries.
func (r *Registry) List() []*Library {
	r.RLock()
	defer r.RUnlock()

	result := make([]*Library, 0, len(r.libraries))
	for _, lib := range r.libraries {
		result = append(result, lib)
	}
	return result
}

// Unregister removes a library from the registry.
func (r *Registry) Unregister(name string) {
	r.Lock()
	defer r.Unlock()

	lib, ok := r.libraries[name]
	if !ok {
		return
	}

	// Remove from component index
	for _, c := range lib.Manifest.Components {
		libs := r.byComponent[c]
		for i, l := range libs {
			if l.Manifest.Name == name {
				r.byComponent[c] = append(libs[:i], libs[i+1:]...)
				break
			}
		}
	}

	// Remove from main map
	delete(r.libraries, name)

	r.logger.Info("Library unregistered", zap.String("name", name))
}

// Count returns the number of registered libraries.
func (r *Registry) Count() int {
	r.RLock()
	defer r.RUnlock()

	return len(r.libraries)
}
