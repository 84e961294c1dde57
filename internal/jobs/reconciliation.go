package jobs

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/poliscope/poliscope/internal/affairs"
	"github.com/poliscope/poliscope/internal/database"
	"github.com/poliscope/poliscope/internal/notify"
)

// ReconciliationJob periodically scans unverified affairs for duplicates
// created by independent sync jobs and merges the high-confidence ones when
// auto-merge is enabled.
type ReconciliationJob struct {
	db         *gorm.DB
	reconciler *affairs.Reconciler
	notifier   *notify.Notifier
}

// NewReconciliationJob creates a new reconciliation job. The notifier may be
// nil.
func NewReconciliationJob(db *gorm.DB, reconciler *affairs.Reconciler, notifier *notify.Notifier) *ReconciliationJob {
	return &ReconciliationJob{
		db:         db,
		reconciler: reconciler,
		notifier:   notifier,
	}
}

// Run executes one reconciliation pass, gated by the settings singleton
func (j *ReconciliationJob) Run() (*affairs.ReconcileReport, error) {
	settings, err := database.GetOrCreateResolutionSettings(j.db)
	if err != nil {
		return nil, err
	}

	if !settings.ReconciliationEnabled {
		log.Println("Affair reconciliation is disabled, skipping")
		return &affairs.ReconcileReport{}, nil
	}

	report, err := j.reconciler.Reconcile(affairs.ReconcileOptions{
		AutoMerge: settings.AutoMergeEnabled,
	})
	if err != nil {
		return nil, err
	}

	if report.DuplicatesFound > 0 {
		log.Printf("Reconciliation pass: %d duplicates, %d merged, %d errors, %d awaiting review",
			report.DuplicatesFound, report.Merged, report.Errors, report.RemainingPossible)
		if j.notifier != nil {
			j.notifier.MergeReport(report)
		}
	}
	return report, nil
}

// Start begins periodic reconciliation passes until stop is closed.
// The interval is refreshed from settings after each pass.
func (j *ReconciliationJob) Start(stop <-chan struct{}) {
	settings, err := database.GetOrCreateResolutionSettings(j.db)
	if err != nil {
		log.Printf("Failed to load reconciliation settings, using defaults: %v", err)
		settings = database.NewDefaultResolutionSettings()
	}

	interval := time.Duration(settings.ReconciliationIntervalMinutes) * time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := j.Run(); err != nil {
				log.Printf("Reconciliation job error: %v", err)
			}

			newSettings, err := database.GetOrCreateResolutionSettings(j.db)
			if err == nil && newSettings.ReconciliationIntervalMinutes != settings.ReconciliationIntervalMinutes {
				settings = newSettings
				interval = time.Duration(settings.ReconciliationIntervalMinutes) * time.Minute
				ticker.Reset(interval)
				log.Printf("Reconciliation interval updated to %d minutes", settings.ReconciliationIntervalMinutes)
			}

		case <-stop:
			log.Println("Reconciliation job stopped")
			return
		}
	}
}
