// Package testhelpers provides data builders for testing
package testhelpers

import (
	"time"

	"github.com/poliscope/poliscope/internal/database"
	"github.com/poliscope/poliscope/internal/identity"
)

// PoliticianBuilder builds Politician instances for testing
type PoliticianBuilder struct {
	politician database.Politician
}

// NewPoliticianBuilder creates a new politician builder with defaults
func NewPoliticianBuilder() *PoliticianBuilder {
	return &PoliticianBuilder{
		politician: database.Politician{
			FirstName: "Jean",
			LastName:  "Dupont",
		},
	}
}

// WithID sets the politician ID
func (b *PoliticianBuilder) WithID(id string) *PoliticianBuilder {
	b.politician.ID = id
	return b
}

// WithName sets first and last name
func (b *PoliticianBuilder) WithName(first, last string) *PoliticianBuilder {
	b.politician.FirstName = first
	b.politician.LastName = last
	return b
}

// WithBirthDate sets the birth date from a YYYY-MM-DD string
func (b *PoliticianBuilder) WithBirthDate(date string) *PoliticianBuilder {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic("invalid birth date in test builder: " + date)
	}
	b.politician.BirthDate = &t
	return b
}

// WithMandate appends a mandate
func (b *PoliticianBuilder) WithMandate(kind, departmentCode string) *PoliticianBuilder {
	b.politician.Mandates = append(b.politician.Mandates, database.Mandate{
		Kind:           kind,
		DepartmentCode: departmentCode,
		StartDate:      time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	return b
}

// Build returns the constructed politician
func (b *PoliticianBuilder) Build() database.Politician {
	return b.politician
}

// AffairBuilder builds Affair instances for testing
type AffairBuilder struct {
	affair database.Affair
}

// NewAffairBuilder creates a new affair builder with defaults
func NewAffairBuilder() *AffairBuilder {
	return &AffairBuilder{
		affair: database.Affair{
			Title:    "Affaire des emplois fictifs",
			Category: "probite",
			Status:   database.AffairStatusUnverified,
		},
	}
}

// WithID sets the affair ID
func (b *AffairBuilder) WithID(id string) *AffairBuilder {
	b.affair.ID = id
	return b
}

// WithPolitician sets the owning politician ID
func (b *AffairBuilder) WithPolitician(politicianID string) *AffairBuilder {
	b.affair.PoliticianID = politicianID
	return b
}

// WithTitle sets the title
func (b *AffairBuilder) WithTitle(title string) *AffairBuilder {
	b.affair.Title = title
	return b
}

// WithCategory sets the category
func (b *AffairBuilder) WithCategory(category string) *AffairBuilder {
	b.affair.Category = category
	return b
}

// WithStatus sets the verification status
func (b *AffairBuilder) WithStatus(status database.AffairStatus) *AffairBuilder {
	b.affair.Status = status
	return b
}

// WithCaseDate sets the case date from a YYYY-MM-DD string
func (b *AffairBuilder) WithCaseDate(date string) *AffairBuilder {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic("invalid case date in test builder: " + date)
	}
	b.affair.CaseDate = &t
	return b
}

// WithSource appends a press source
func (b *AffairBuilder) WithSource(url, publisher string) *AffairBuilder {
	b.affair.Sources = append(b.affair.Sources, database.AffairSource{
		URL:       url,
		Publisher: publisher,
	})
	return b
}

// Build returns the constructed affair
func (b *AffairBuilder) Build() database.Affair {
	return b.affair
}

// ObservationBuilder builds identity.Observation values for testing
type ObservationBuilder struct {
	obs identity.Observation
}

// NewObservationBuilder creates a new observation builder with defaults
func NewObservationBuilder() *ObservationBuilder {
	return &ObservationBuilder{
		obs: identity.Observation{
			FirstName: "Jean",
			LastName:  "Dupont",
			Source:    "RNE",
			SourceRef: "12345",
		},
	}
}

// WithName sets first and last name
func (b *ObservationBuilder) WithName(first, last string) *ObservationBuilder {
	b.obs.FirstName = first
	b.obs.LastName = last
	return b
}

// WithBirthDate sets the birth date from a YYYY-MM-DD string
func (b *ObservationBuilder) WithBirthDate(date string) *ObservationBuilder {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic("invalid birth date in test builder: " + date)
	}
	b.obs.BirthDate = &t
	return b
}

// WithSource sets the source and source ref
func (b *ObservationBuilder) WithSource(source, ref string) *ObservationBuilder {
	b.obs.Source = source
	b.obs.SourceRef = ref
	return b
}

// WithDepartment sets the department code
func (b *ObservationBuilder) WithDepartment(code string) *ObservationBuilder {
	b.obs.Department = code
	return b
}

// WithMandateKind sets the mandate kind
func (b *ObservationBuilder) WithMandateKind(kind string) *ObservationBuilder {
	b.obs.MandateKind = kind
	return b
}

// Build returns the constructed observation
func (b *ObservationBuilder) Build() identity.Observation {
	return b.obs
}
