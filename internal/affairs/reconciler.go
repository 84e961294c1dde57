package affairs

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/poliscope/poliscope/internal/database"
)

// ErrAffairNotFound is returned when a merge references an affair that no
// longer exists (typically a repeated merge of the same pair).
var ErrAffairNotFound = errors.New("affair not found")

// DuplicatePair is one detected potential duplicate: two unverified affairs
// of the same politician scored against each other.
type DuplicatePair struct {
	A         database.Affair `json:"affair_a"`
	B         database.Affair `json:"affair_b"`
	Score     float64         `json:"score"`
	Tier      Tier            `json:"tier"`
	MatchedBy string          `json:"matched_by"`
}

// Detector finds potential duplicate affairs created independently by
// different sync jobs.
type Detector struct {
	db *gorm.DB
}

// NewDetector creates a detector over the given database
func NewDetector(db *gorm.DB) *Detector {
	return &Detector{db: db}
}

// FindPotentialDuplicates compares all unverified affairs pairwise within
// each politician and returns the pairs at or above the possible threshold.
func (d *Detector) FindPotentialDuplicates() ([]DuplicatePair, error) {
	var all []database.Affair
	err := d.db.Preload("Sources").
		Where("status = ?", database.AffairStatusUnverified).
		Order("politician_id ASC, id ASC").
		Find(&all).Error
	if err != nil {
		return nil, fmt.Errorf("load unverified affairs: %w", err)
	}

	byPolitician := make(map[string][]database.Affair)
	for _, a := range all {
		byPolitician[a.PoliticianID] = append(byPolitician[a.PoliticianID], a)
	}

	var pairs []DuplicatePair
	for _, group := range byPolitician {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				score, matchedBy := similarity(&group[i], &group[j])
				tier, ok := tierFor(score)
				if !ok {
					continue
				}
				pairs = append(pairs, DuplicatePair{
					A:         group[i],
					B:         group[j],
					Score:     score,
					Tier:      tier,
					MatchedBy: matchedBy,
				})
			}
		}
	}
	return pairs, nil
}

// ReconcileOptions controls one reconciliation pass
type ReconcileOptions struct {
	// AutoMerge merges certain/high pairs without human review
	AutoMerge bool
	// DryRun counts what would be merged without writing
	DryRun bool
	// Limit caps the number of merges in one pass; 0 means no cap
	Limit int
}

// ReconcileReport aggregates the outcome of one reconciliation pass
type ReconcileReport struct {
	DuplicatesFound   int  `json:"duplicates_found"`
	Merged            int  `json:"merged"`
	Errors            int  `json:"errors"`
	RemainingPossible int  `json:"remaining_possible"`
	DryRun            bool `json:"dry_run,omitempty"`
}

// Reconciler detects and merges duplicate affairs
type Reconciler struct {
	db       *gorm.DB
	detector *Detector
}

// NewReconciler creates a reconciler over the given database
func NewReconciler(db *gorm.DB) *Reconciler {
	return &Reconciler{db: db, detector: NewDetector(db)}
}

// FindPotentialDuplicates exposes the detector output
func (r *Reconciler) FindPotentialDuplicates() ([]DuplicatePair, error) {
	return r.detector.FindPotentialDuplicates()
}

// MergeAffairs merges removeID into keepID: sources are re-parented, the
// removed affair is deleted, and an audit row is written, all in one
// transaction. Destructive; there is no undo short of a backup restore.
// A repeated call fails with ErrAffairNotFound before any write.
func (r *Reconciler) MergeAffairs(keepID, removeID string) error {
	return r.merge(keepID, removeID, 0, "", "manual")
}

func (r *Reconciler) merge(keepID, removeID string, score float64, tier Tier, mergedBy string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var keep, remove database.Affair
		if err := tx.First(&keep, "id = ?", keepID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrAffairNotFound, keepID)
			}
			return err
		}
		if err := tx.First(&remove, "id = ?", removeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrAffairNotFound, removeID)
			}
			return err
		}

		if err := tx.Model(&database.AffairSource{}).
			Where("affair_id = ?", remove.ID).
			Update("affair_id", keep.ID).Error; err != nil {
			return err
		}

		if err := tx.Delete(&database.Affair{}, "id = ?", remove.ID).Error; err != nil {
			return err
		}

		return tx.Create(&database.AffairMerge{
			KeptAffairID:    keep.ID,
			RemovedAffairID: remove.ID,
			Score:           score,
			Tier:            string(tier),
			MergedBy:        mergedBy,
		}).Error
	})
}

// Reconcile runs one detection pass and, when AutoMerge is set, merges the
// certain/high pairs. Per-pair errors are counted and the batch continues.
// Possible pairs are never merged and are reported for manual review.
func (r *Reconciler) Reconcile(opts ReconcileOptions) (*ReconcileReport, error) {
	pairs, err := r.detector.FindPotentialDuplicates()
	if err != nil {
		return nil, err
	}

	report := &ReconcileReport{
		DuplicatesFound: len(pairs),
		DryRun:          opts.DryRun,
	}

	removed := make(map[string]bool)
	if opts.AutoMerge {
		for _, pair := range pairs {
			if opts.Limit > 0 && report.Merged >= opts.Limit {
				break
			}
			if pair.Tier == TierPossible {
				continue
			}
			if removed[pair.A.ID] || removed[pair.B.ID] {
				continue
			}
			keep, remove := chooseKeeper(pair.A, pair.B)
			if opts.DryRun {
				removed[remove.ID] = true
				report.Merged++
				continue
			}
			if err := r.merge(keep.ID, remove.ID, pair.Score, pair.Tier, "system"); err != nil {
				log.Printf("affairs: merge %s -> %s failed: %v", remove.ID, keep.ID, err)
				report.Errors++
				continue
			}
			log.Printf("affairs: merged %q into %q (score %.2f, tier %s)", remove.Title, keep.Title, pair.Score, pair.Tier)
			removed[remove.ID] = true
			report.Merged++
		}
	}

	for _, pair := range pairs {
		if pair.Tier == TierPossible && !removed[pair.A.ID] && !removed[pair.B.ID] {
			report.RemainingPossible++
		}
	}
	return report, nil
}

// chooseKeeper picks the surviving affair: more sources wins, ties go to the
// lexicographically smaller id so repeated runs are deterministic.
func chooseKeeper(a, b database.Affair) (keep, remove database.Affair) {
	switch {
	case len(a.Sources) > len(b.Sources):
		return a, b
	case len(b.Sources) > len(a.Sources):
		return b, a
	case a.ID < b.ID:
		return a, b
	default:
		return b, a
	}
}
