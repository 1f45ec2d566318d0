package ai

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// ErrUnknownProvider is returned for a provider name nothing was registered under.
var ErrUnknownProvider = errors.New("unknown ai provider")

// ProviderFactory builds a provider for model. An empty model means the configured default.
type ProviderFactory func(ctx context.Context, model string) (Provider, error)

// Registry maps provider names to factories. Names are case-insensitive.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]ProviderFactory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]ProviderFactory)}
}

func providerKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds or replaces the factory for name.
func (r *Registry) Register(name string, f ProviderFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[providerKey(name)] = f
}

func (r *Registry) lookup(name string) (ProviderFactory, error) {
	key := providerKey(name)
	r.mu.RLock()
	f, ok := r.factories[key]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q (registered: %s)", ErrUnknownProvider, key, strings.Join(r.Names(), ", "))
	}
	return f, nil
}

// Get builds the named provider.
func (r *Registry) Get(ctx context.Context, name string, model string) (Provider, error) {
	f, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return f(ctx, model)
}

// Validate checks that name is registered. Binaries call it at startup so a misspelled
// provider in the config fails before any request is served.
func (r *Registry) Validate(name string) error {
	_, err := r.lookup(name)
	return err
}

// Names lists registered providers in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.factories))
	for n := range r.factories {
		out = append(out, n)
	}
	r.mu.RUnlock()
	slices.Sort(out)
	return out
}
