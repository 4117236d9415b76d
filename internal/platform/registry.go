package platform

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/maheshrc27/postflow/internal/models"
)

var ErrUnknownPlatform = errors.New("no adapter registered for platform")

type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

func (r *Registry) Register(platform string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[platform] = factory
}

func (r *Registry) Resolve(platform string, creds models.Credentials) (Adapter, error) {
	r.mu.RLock()
	factory, ok := r.factories[platform]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlatform, platform)
	}
	return factory(creds)
}

func (r *Registry) Has(platform string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[platform]
	return ok
}

func (r *Registry) Platforms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	platforms := make([]string, 0, len(r.factories))
	for p := range r.factories {
		platforms = append(platforms, p)
	}
	sort.Strings(platforms)
	return platforms
}
