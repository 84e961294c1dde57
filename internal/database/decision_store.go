package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/poliscope/poliscope/internal/identity"
)

// ErrDecisionSuperseded is returned when trying to supersede a decision that
// already has a successor.
var ErrDecisionSuperseded = errors.New("decision already superseded")

// DecisionLogStore is the GORM-backed implementation of identity.DecisionLog.
// The log is append-only; rows are soft-invalidated through the supersede
// chain, never updated in place or deleted.
type DecisionLogStore struct {
	db *gorm.DB
}

// NewDecisionLogStore creates a decision log store over the given database
func NewDecisionLogStore(db *gorm.DB) *DecisionLogStore {
	return &DecisionLogStore{db: db}
}

// FindActive returns all non-superseded decisions for (source, sourceRef),
// oldest first.
func (s *DecisionLogStore) FindActive(source, sourceRef string) ([]identity.Decision, error) {
	var rows []IdentityDecision
	err := s.db.
		Where("source_type = ? AND source_ref = ? AND superseded_by_id IS NULL", source, sourceRef).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	decisions := make([]identity.Decision, 0, len(rows))
	for _, row := range rows {
		decisions = append(decisions, toIdentityDecision(row))
	}
	return decisions, nil
}

// Append writes one new decision entry
func (s *DecisionLogStore) Append(d *identity.Decision) error {
	row := fromIdentityDecision(d)
	if err := s.db.Create(row).Error; err != nil {
		return err
	}
	d.ID = row.ID
	return nil
}

// Supersede soft-invalidates an active decision by appending a replacement
// and pointing the old row at it. The replacement inherits the (source, ref)
// pair of the decision it replaces. Returns the stored replacement.
func (s *DecisionLogStore) Supersede(decisionID uint, replacement *identity.Decision) (*IdentityDecision, error) {
	var stored *IdentityDecision
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var old IdentityDecision
		if err := tx.First(&old, decisionID).Error; err != nil {
			return fmt.Errorf("load decision %d: %w", decisionID, err)
		}
		if old.SupersededByID != nil {
			return fmt.Errorf("decision %d: %w", decisionID, ErrDecisionSuperseded)
		}

		replacement.Source = old.SourceType
		replacement.SourceRef = old.SourceRef
		if replacement.PoliticianID == "" {
			replacement.PoliticianID = old.PoliticianID
		}
		row := fromIdentityDecision(replacement)
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		if err := tx.Model(&old).Update("superseded_by_id", row.ID).Error; err != nil {
			return err
		}
		stored = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// History returns the full decision chain for a (source, ref) pair, oldest
// first, superseded rows included.
func (s *DecisionLogStore) History(source, sourceRef string) ([]IdentityDecision, error) {
	var rows []IdentityDecision
	err := s.db.
		Where("source_type = ? AND source_ref = ?", source, sourceRef).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

func toIdentityDecision(row IdentityDecision) identity.Decision {
	return identity.Decision{
		ID:           row.ID,
		Source:       row.SourceType,
		SourceRef:    row.SourceRef,
		PoliticianID: row.PoliticianID,
		Judgement:    row.Judgement,
		Confidence:   row.Confidence,
		Method:       row.Method,
		Evidence:     map[string]interface{}(row.Evidence),
		Actor:        row.Actor,
	}
}

func fromIdentityDecision(d *identity.Decision) *IdentityDecision {
	return &IdentityDecision{
		SourceType:   d.Source,
		SourceRef:    d.SourceRef,
		PoliticianID: d.PoliticianID,
		Judgement:    d.Judgement,
		Confidence:   d.Confidence,
		Method:       d.Method,
		Evidence:     JSONB(d.Evidence),
		Actor:        d.Actor,
	}
}
