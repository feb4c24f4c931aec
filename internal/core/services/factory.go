package services

import (
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/meetsync/internal/core/domain"
	"github.com/custodia-labs/meetsync/internal/core/ports/driven"
)

// AdapterFactory builds source adapters from registered builders.
// Adapter packages register themselves at wiring time; the engine only
// sees the driven.AdapterFactory interface.
type AdapterFactory struct {
	mu       sync.RWMutex
	builders map[string]driven.AdapterBuilder
}

// NewAdapterFactory creates an empty factory.
func NewAdapterFactory() *AdapterFactory {
	return &AdapterFactory{builders: make(map[string]driven.AdapterBuilder)}
}

// Register adds a builder for a source type, replacing any existing one.
func (f *AdapterFactory) Register(sourceType string, builder driven.AdapterBuilder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builders[sourceType] = builder
}

// Create builds an adapter for the source.
// Returns domain.ErrUnsupportedType for unknown source types.
func (f *AdapterFactory) Create(source domain.Source) (driven.SourceAdapter, error) {
	f.mu.RLock()
	builder, ok := f.builders[source.Type]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("source type %q: %w", source.Type, domain.ErrUnsupportedType)
	}
	return builder(source)
}

// SupportedTypes lists registered source types in sorted order.
func (f *AdapterFactory) SupportedTypes() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	types := make([]string, 0, len(f.builders))
	for t := range f.builders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
