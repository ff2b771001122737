package acquire

import (
	"slices"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/xhad/skim/internal/models"
	"github.com/xhad/skim/internal/types"
)

// Registry keeps a mapping from source names to adapter factories.
type Registry struct {
	factories map[string]types.AdapterFactory
}

func NewRegistry() *Registry {
	return &Registry{factories: map[string]types.AdapterFactory{}}
}

// Register adds or replaces the factory for name.
func (r *Registry) Register(name string, factory types.AdapterFactory) {
	if r.factories == nil {
		r.factories = map[string]types.AdapterFactory{}
	}
	r.factories[Normalize(name)] = factory
}

// Lookup returns the factory for name or ErrUnsupportedSource.
func (r *Registry) Lookup(name string) (types.AdapterFactory, error) {
	if factory, ok := r.factories[Normalize(name)]; ok {
		return factory, nil
	}
	return nil, eris.Wrapf(models.ErrUnsupportedSource, "acquire: %q", name)
}

// Names returns the registered source names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Normalize trims and lower-cases a source name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
