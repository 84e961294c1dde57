// Package adapters contains the concrete source adapters for the supported
// upstream registries and feeds.
package adapters

import (
	"fmt"
	"strings"
	"time"

	"github.com/poliscope/poliscope/internal/sources"
)

// NewDefaultRegistry returns a registry with all built-in adapters
func NewDefaultRegistry() *sources.Registry {
	return sources.NewRegistry(
		&WikidataAdapter{},
		&RNEAdapter{},
		&AssembleeAdapter{},
		&SenatAdapter{},
	)
}

// parseISODate accepts "2006-01-02" with an optional time suffix, as emitted
// by Wikidata and the parliamentary open-data portals.
func parseISODate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return &t, nil
}

// parseFrenchDate accepts "02/01/2006" as used by the RNE extracts
func parseFrenchDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("02/01/2006", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return &t, nil
}

// slugifyMandate turns a registry label like "Conseiller municipal" into
// "conseiller_municipal"
func slugifyMandate(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	return strings.Join(strings.Fields(label), "_")
}
