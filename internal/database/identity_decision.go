package database

import (
	"time"

	"github.com/poliscope/poliscope/internal/identity"
)

// IdentityDecision is one immutable entry in the resolution audit log.
// Rows are never deleted: a later decision supersedes an earlier one by
// pointing at it through SupersededByID, forming a revision chain. Only rows
// with SupersededByID nil are active and consulted by the resolver.
//
// An active not_same row permanently blocks that (source, ref, politician)
// pairing from automatic matching until a human supersedes it.
type IdentityDecision struct {
	ID             uint                 `gorm:"primaryKey" json:"id"`
	SourceType     string               `gorm:"size:64;not null;index:idx_identity_decisions_source" json:"source_type"`
	SourceRef      string               `gorm:"size:128;not null;index:idx_identity_decisions_source" json:"source_ref"`
	PoliticianID   string               `gorm:"size:36;not null;index" json:"politician_id"`
	Judgement      identity.Judgement   `gorm:"type:varchar(20);not null" json:"judgement"`
	Confidence     float64              `gorm:"type:decimal(3,2)" json:"confidence"`
	Method         identity.MatchMethod `gorm:"type:varchar(32)" json:"method"`
	Evidence       JSONB                `gorm:"type:jsonb" json:"evidence"`
	Actor          string               `gorm:"size:128;not null" json:"actor"`
	SupersededByID *uint                `gorm:"index" json:"superseded_by_id,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
}

func (IdentityDecision) TableName() string {
	return "identity_decisions"
}

// IsActive reports whether the decision has not been superseded
func (d *IdentityDecision) IsActive() bool {
	return d.SupersededByID == nil
}
