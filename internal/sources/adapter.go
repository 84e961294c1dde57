// Package sources defines the boundary between external data feeds and the
// identity resolver: each source gets an adapter that normalizes its raw
// payload into observations. Fetching and scheduling live with the sync
// scripts; only normalization lives here.
package sources

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/poliscope/poliscope/internal/identity"
)

// ErrUnknownSource is returned for a source with no registered adapter
var ErrUnknownSource = errors.New("unknown record source")

// RecordAdapter normalizes one source's payload format into observations
type RecordAdapter interface {
	// Source returns the canonical source name (upper case, e.g. "RNE")
	Source() string
	// Parse decodes a raw sync payload into observations
	Parse(payload []byte) ([]identity.Observation, error)
}

// Registry holds the configured adapters, keyed by source name
type Registry struct {
	adapters map[string]RecordAdapter
}

// NewRegistry creates a registry with the given adapters
func NewRegistry(adapters ...RecordAdapter) *Registry {
	r := &Registry{adapters: make(map[string]RecordAdapter)}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

// Register adds an adapter, replacing any previous one for the same source
func (r *Registry) Register(a RecordAdapter) {
	r.adapters[strings.ToUpper(a.Source())] = a
}

// Get returns the adapter for a source name (case-insensitive)
func (r *Registry) Get(source string) (RecordAdapter, error) {
	a, ok := r.adapters[strings.ToUpper(source)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, source)
	}
	return a, nil
}

// Sources returns the registered source names, sorted
func (r *Registry) Sources() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
