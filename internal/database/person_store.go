package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/poliscope/poliscope/internal/identity"
)

// PersonStore is the GORM-backed implementation of identity.PersonStore,
// plus the write operations sync ingestion needs (linking external refs,
// creating politicians from unmatched observations).
type PersonStore struct {
	db *gorm.DB
}

// NewPersonStore creates a person store over the given database
func NewPersonStore(db *gorm.DB) *PersonStore {
	return &PersonStore{db: db}
}

// FindByName returns all politicians matching the name case-insensitively,
// with departments collected from their full mandate history.
func (s *PersonStore) FindByName(firstName, lastName string) ([]identity.Person, error) {
	var politicians []Politician
	err := s.db.Preload("Mandates").
		Where("LOWER(first_name) = ? AND LOWER(last_name) = ?",
			strings.ToLower(strings.TrimSpace(firstName)),
			strings.ToLower(strings.TrimSpace(lastName))).
		Find(&politicians).Error
	if err != nil {
		return nil, err
	}

	people := make([]identity.Person, 0, len(politicians))
	for _, p := range politicians {
		person := identity.Person{
			ID:        p.ID,
			FirstName: p.FirstName,
			LastName:  p.LastName,
			BirthDate: p.BirthDate,
		}
		seen := make(map[string]bool)
		for _, m := range p.Mandates {
			code := strings.ToUpper(m.DepartmentCode)
			if code == "" || seen[code] {
				continue
			}
			seen[code] = true
			person.Departments = append(person.Departments, code)
		}
		people = append(people, person)
	}
	return people, nil
}

// FindExternalRef returns the external ref row for (source, ref), or nil
// when no such row exists.
func (s *PersonStore) FindExternalRef(source, sourceRef string) (*identity.ExternalRef, error) {
	var row ExternalID
	err := s.db.Where("source = ? AND external_ref = ?", source, sourceRef).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	ref := &identity.ExternalRef{Source: row.Source, Ref: row.ExternalRef}
	if row.PoliticianID != nil {
		ref.PoliticianID = *row.PoliticianID
	}
	return ref, nil
}

// LinkExternalRef points (source, ref) at a politician, creating the row if
// needed. Re-pointing an already-linked ref goes through here too, so every
// re-point is resolver-driven.
func (s *PersonStore) LinkExternalRef(source, sourceRef, politicianID string) error {
	var row ExternalID
	err := s.db.Where("source = ? AND external_ref = ?", source, sourceRef).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.Create(&ExternalID{
			Source:       source,
			ExternalRef:  sourceRef,
			PoliticianID: &politicianID,
		}).Error
	}
	if err != nil {
		return err
	}
	if row.PoliticianID != nil && *row.PoliticianID == politicianID {
		return nil
	}
	return s.db.Model(&row).Update("politician_id", politicianID).Error
}

// CreateFromObservation creates a new politician for an observation that
// resolved to "new", together with a mandate when the observation carries a
// department.
func (s *PersonStore) CreateFromObservation(obs identity.Observation) (*Politician, error) {
	politician := &Politician{
		FirstName: strings.TrimSpace(obs.FirstName),
		LastName:  strings.TrimSpace(obs.LastName),
		BirthDate: obs.BirthDate,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(politician).Error; err != nil {
			return err
		}
		if obs.Department == "" {
			return nil
		}
		kind := obs.MandateKind
		if kind == "" {
			kind = "unknown"
		}
		return tx.Create(&Mandate{
			PoliticianID:   politician.ID,
			Kind:           kind,
			DepartmentCode: strings.ToUpper(obs.Department),
			StartDate:      time.Now(),
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create politician for %s %s: %w", obs.FirstName, obs.LastName, err)
	}
	return politician, nil
}
