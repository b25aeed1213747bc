package providers

import (
	"fmt"
	"strings"
)

// Registry maps logical operation keys to provider specs. It is built at
// startup and read-only afterwards.
type Registry struct {
	specs  map[string]*Spec
	apiKey string
}

// NewRegistry loads the built-in catalog and applies per-provider host
// overrides keyed by spec key.
func NewRegistry(apiKey string, hostOverrides map[string]string) *Registry {
	r := &Registry{
		specs:  make(map[string]*Spec, len(catalog)),
		apiKey: apiKey,
	}
	for i := range catalog {
		spec := catalog[i]
		if host, ok := hostOverrides[spec.Key]; ok {
			spec.Host = host
		}
		r.specs[spec.Key] = &spec
	}
	return r
}

// NewRegistryFromSpecs builds a registry around an explicit spec set
// instead of the built-in catalog.
func NewRegistryFromSpecs(apiKey string, specs []Spec) *Registry {
	r := &Registry{
		specs:  make(map[string]*Spec, len(specs)),
		apiKey: apiKey,
	}
	for i := range specs {
		spec := specs[i]
		r.specs[spec.Key] = &spec
	}
	return r
}

func (r *Registry) Get(key string) (*Spec, error) {
	spec, ok := r.specs[key]
	if !ok {
		return nil, fmt.Errorf("no provider spec registered for %q", key)
	}
	return spec, nil
}

func (r *Registry) APIKey() string { return r.apiKey }

// Keys returns every registered operation key, for diagnostics.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.specs))
	for k := range r.specs {
		keys = append(keys, k)
	}
	return keys
}

// AppIDForPath infers the catalog app for a request path so the usage
// recorder can attribute the call. System prefixes are excluded.
func AppIDForPath(path string) string {
	for prefix, appID := range pathAppIDs {
		if strings.Contains(path, prefix) {
			return appID
		}
	}
	return ""
}
