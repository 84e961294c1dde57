package database

import "time"

// AffairMerge tracks when two affairs are merged together.
// This provides an audit trail for merge operations, whether automatic (by the
// reconciliation job) or manual (triggered by a reviewer). The removed affair
// no longer exists after the merge; this row is what remains of it.
type AffairMerge struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	KeptAffairID    string    `gorm:"size:36;not null;index" json:"kept_affair_id"`
	RemovedAffairID string    `gorm:"size:36;not null;index" json:"removed_affair_id"`
	Score           float64   `gorm:"type:decimal(3,2)" json:"score"`
	Tier            string    `gorm:"type:varchar(20)" json:"tier"`
	MergedBy        string    `gorm:"type:varchar(50);not null" json:"merged_by"` // 'system' for automatic merges, 'manual' otherwise
	CreatedAt       time.Time `json:"created_at"`
}

func (AffairMerge) TableName() string {
	return "affair_merges"
}
