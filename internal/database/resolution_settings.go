package database

import (
	"time"

	"gorm.io/gorm"
)

// ResolutionSettings controls the background reconciliation job and sync
// ingestion limits. Singleton row. Matching thresholds are deliberately NOT
// stored here: they are configuration constants (see internal/config).
type ResolutionSettings struct {
	ID                            uint      `gorm:"primaryKey" json:"id"`
	ReconciliationEnabled         bool      `gorm:"default:true" json:"reconciliation_enabled"`
	ReconciliationIntervalMinutes int       `gorm:"default:60" json:"reconciliation_interval_minutes"`
	AutoMergeEnabled              bool      `gorm:"default:false" json:"auto_merge_enabled"`
	MaxObservationsPerRun         int       `gorm:"default:500" json:"max_observations_per_run"`
	CreatedAt                     time.Time `json:"created_at"`
	UpdatedAt                     time.Time `json:"updated_at"`
}

func (ResolutionSettings) TableName() string {
	return "resolution_settings"
}

// NewDefaultResolutionSettings returns settings with default values
func NewDefaultResolutionSettings() *ResolutionSettings {
	return &ResolutionSettings{
		ReconciliationEnabled:         true,
		ReconciliationIntervalMinutes: 60,
		AutoMergeEnabled:              false,
		MaxObservationsPerRun:         500,
	}
}

// GetOrCreateResolutionSettings retrieves or creates the settings singleton.
// Accepts a db parameter to support transaction contexts and testing.
func GetOrCreateResolutionSettings(db *gorm.DB) (*ResolutionSettings, error) {
	var settings ResolutionSettings
	result := db.First(&settings)
	if result.Error == gorm.ErrRecordNotFound {
		settings = *NewDefaultResolutionSettings()
		if err := db.Create(&settings).Error; err != nil {
			return nil, err
		}
	} else if result.Error != nil {
		return nil, result.Error
	}
	return &settings, nil
}

// UpdateResolutionSettings persists changed settings
func UpdateResolutionSettings(db *gorm.DB, settings *ResolutionSettings) error {
	return db.Save(settings).Error
}
