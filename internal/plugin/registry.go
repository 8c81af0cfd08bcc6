package plugin

import (
	"sync"

	"github.com/davrd/autorel/internal/errors"
)

// Sentinel errors for registry operations.
var (
	// ErrPluginAlreadyRegistered is returned when adding a plugin whose
	// name is already registered.
	ErrPluginAlreadyRegistered = errors.New("plugin already registered")
)

// Registry holds the plugin units resolved for one run, in selection order.
// It is safe for concurrent use, though the pipeline itself is sequential.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	byName map[string]*Plugin
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Plugin),
	}
}

// Add registers a resolved plugin. Selection order is preserved; the same
// name cannot be added twice.
func (r *Registry) Add(p *Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[p.Name]; exists {
		return errors.Wrapf(ErrPluginAlreadyRegistered, "%q", p.Name)
	}

	r.byName[p.Name] = p
	r.order = append(r.order, p.Name)
	return nil
}

// Get returns the registered plugin with the given name.
func (r *Registry) Get(name string) (*Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byName[name]
	return p, ok
}

// All returns the registered plugins in selection order.
func (r *Registry) All() []*Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Plugin, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.byName[name])
	}
	return result
}
