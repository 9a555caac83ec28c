package llm

import (
	"sort"
	"sync"
)

// Registry is a thread-safe registry for managing multiple LLM clients.
// It supports registering, retrieving, and listing clients, plus an
// availability map derived from credential state. The engine must never
// dispatch to a provider whose availability flag is false.
type Registry struct {
	clients   map[string]Client
	available map[string]bool
	mu        sync.RWMutex
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		clients:   make(map[string]Client),
		available: make(map[string]bool),
	}
}

// Register adds a client to the registry under the given provider name and
// marks it available. If a client with the same name already exists, it is
// replaced.
func (r *Registry) Register(name string, c Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = c
	r.available[name] = true
}

// Get retrieves a client by provider name.
// Returns (nil, false) for unknown or unavailable providers; callers must
// treat both identically, as a single-agent failure.
func (r *Registry) Get(name string) (Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.available[name] {
		return nil, false
	}
	c, ok := r.clients[name]
	return c, ok
}

// SetAvailability replaces the availability flags from an external
// credential subsystem. Providers absent from the map become unavailable.
func (r *Registry) SetAvailability(avail map[string]bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.available = make(map[string]bool, len(avail))
	for name, ok := range avail {
		r.available[name] = ok
	}
}

// Available reports whether the named provider has a usable credential and
// a registered client.
func (r *Registry) Available(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, registered := r.clients[name]
	return registered && r.available[name]
}

// FilterAvailable returns the subset of names that are currently available,
// preserving the requested order.
func (r *Registry) FilterAvailable(names []string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, registered := r.clients[name]; registered && r.available[name] {
			out = append(out, name)
		}
	}
	return out
}

// List returns the sorted names of all registered clients.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unregister removes a client from the registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, name)
	delete(r.available, name)
}
