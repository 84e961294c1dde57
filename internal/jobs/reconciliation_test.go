package jobs

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/poliscope/poliscope/internal/affairs"
	"github.com/poliscope/poliscope/internal/database"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	err = db.AutoMigrate(
		&database.Politician{},
		&database.Affair{},
		&database.AffairSource{},
		&database.AffairMerge{},
		&database.ResolutionSettings{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func seedDuplicatePair(t *testing.T, db *gorm.DB) {
	t.Helper()
	p := database.Politician{FirstName: "Jean", LastName: "Dupont"}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("create politician: %v", err)
	}
	d1 := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2023, 3, 10, 0, 0, 0, 0, time.UTC)
	twins := []database.Affair{
		{PoliticianID: p.ID, Title: "Détournement de fonds publics", Category: "argent_public", CaseDate: &d1},
		{PoliticianID: p.ID, Title: "Détournement de fonds publics", Category: "argent_public", CaseDate: &d2},
	}
	if err := db.Create(&twins).Error; err != nil {
		t.Fatalf("create affairs: %v", err)
	}
}

func TestReconciliationJob_RunDetectsWithoutMerging(t *testing.T) {
	db := setupTestDB(t)
	seedDuplicatePair(t, db)

	job := NewReconciliationJob(db, affairs.NewReconciler(db), nil)
	report, err := job.Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if report.DuplicatesFound != 1 {
		t.Errorf("expected 1 duplicate, got %d", report.DuplicatesFound)
	}
	if report.Merged != 0 {
		t.Errorf("auto merge is off by default, got %d merges", report.Merged)
	}

	var count int64
	db.Model(&database.Affair{}).Count(&count)
	if count != 2 {
		t.Errorf("both affairs must survive, got %d", count)
	}
}

func TestReconciliationJob_RunMergesWhenEnabled(t *testing.T) {
	db := setupTestDB(t)
	seedDuplicatePair(t, db)

	settings, err := database.GetOrCreateResolutionSettings(db)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	settings.AutoMergeEnabled = true
	if err := database.UpdateResolutionSettings(db, settings); err != nil {
		t.Fatalf("update settings: %v", err)
	}

	job := NewReconciliationJob(db, affairs.NewReconciler(db), nil)
	report, err := job.Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if report.Merged != 1 {
		t.Errorf("expected 1 merge, got %d", report.Merged)
	}

	var count int64
	db.Model(&database.Affair{}).Count(&count)
	if count != 1 {
		t.Errorf("expected one surviving affair, got %d", count)
	}
}

func TestReconciliationJob_RunSkipsWhenDisabled(t *testing.T) {
	db := setupTestDB(t)
	seedDuplicatePair(t, db)

	settings, err := database.GetOrCreateResolutionSettings(db)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	settings.ReconciliationEnabled = false
	if err := database.UpdateResolutionSettings(db, settings); err != nil {
		t.Fatalf("update settings: %v", err)
	}

	job := NewReconciliationJob(db, affairs.NewReconciler(db), nil)
	report, err := job.Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if report.DuplicatesFound != 0 {
		t.Errorf("disabled job must not scan, got %d", report.DuplicatesFound)
	}
}

func TestReconciliationJob_StartStops(t *testing.T) {
	db := setupTestDB(t)

	job := NewReconciliationJob(db, affairs.NewReconciler(db), nil)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		job.Start(stop)
		close(done)
	}()

	close(stop)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not stop")
	}
}
