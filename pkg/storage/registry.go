package storage

import (
	"errors"
	"sort"
	"sync"
)

// LocalName is the built-in local provider. It is registered at startup and
// can never be removed; it is the default fallback that requires no external
// reachability.
const LocalName = "local"

var (
	ErrProviderExists    = errors.New("storage provider name already registered")
	ErrProviderNotFound  = errors.New("storage provider not found")
	ErrProviderProtected = errors.New("the local storage provider cannot be removed")
)

// Registry is the process-wide table of configured providers, keyed by name.
// Reads dominate writes, so lookups take the read lock only.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider under its name. A duplicate name is rejected:
// silently overwriting credentials is a security-sensitive surprise.
func (r *Registry) Register(p Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[p.Name()]; ok {
		return ErrProviderExists
	}
	r.providers[p.Name()] = p
	return nil
}

// Get looks a provider up by name; absence is reported, never panicked.
func (r *Registry) Get(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	return p, ok
}

// Remove deletes a provider. The built-in local provider is protected.
func (r *Registry) Remove(name string) error {
	if name == LocalName {
		return ErrProviderProtected
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[name]; !ok {
		return ErrProviderNotFound
	}
	delete(r.providers, name)
	return nil
}

// Names returns the registered provider names, sorted for stable output.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns the registered providers, sorted by name.
func (r *Registry) All() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	providers := make([]Provider, 0, len(r.providers))
	for _, p := range r.providers {
		providers = append(providers, p)
	}
	sort.Slice(providers, func(i, j int) bool { return providers[i].Name() < providers[j].Name() })
	return providers
}

// Len returns the number of registered providers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers)
}
