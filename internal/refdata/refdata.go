// Package refdata holds the immutable code tables the rest of the
// application injects at startup: department codes and affair category
// groupings. Loaded once from embedded YAML, never mutated.
package refdata

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed data/departments.yaml
var departmentsYAML []byte

//go:embed data/categories.yaml
var categoriesYAML []byte

// Tables is the loaded reference data
type Tables struct {
	departments     map[string]string
	supercategories map[string]string
}

// Load parses the embedded tables. Call once at process start and inject the
// result.
func Load() (*Tables, error) {
	t := &Tables{}
	if err := yaml.Unmarshal(departmentsYAML, &t.departments); err != nil {
		return nil, fmt.Errorf("parse departments table: %w", err)
	}
	if err := yaml.Unmarshal(categoriesYAML, &t.supercategories); err != nil {
		return nil, fmt.Errorf("parse categories table: %w", err)
	}
	return t, nil
}

// DepartmentName returns the display name for a department code
func (t *Tables) DepartmentName(code string) (string, bool) {
	name, ok := t.departments[code]
	return name, ok
}

// KnownDepartment reports whether the code exists
func (t *Tables) KnownDepartment(code string) bool {
	_, ok := t.departments[code]
	return ok
}

// Supercategory returns the grouping for an affair category, falling back to
// "autre" for categories outside the table.
func (t *Tables) Supercategory(category string) string {
	if s, ok := t.supercategories[category]; ok {
		return s
	}
	return "autre"
}

// CategoriesIn returns the affair categories grouped under a supercategory,
// sorted for deterministic query building.
func (t *Tables) CategoriesIn(supercategory string) []string {
	var categories []string
	for category, s := range t.supercategories {
		if s == supercategory {
			categories = append(categories, category)
		}
	}
	sort.Strings(categories)
	return categories
}

// Departments returns the number of known departments
func (t *Tables) Departments() int {
	return len(t.departments)
}
