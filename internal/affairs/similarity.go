package affairs

import (
	"strings"
	"time"

	"github.com/poliscope/poliscope/internal/database"
)

// Tier buckets a duplicate pair by how safe an unattended merge would be.
// Only certain and high are ever eligible for automatic merging; possible
// always waits for a human, bounding the blast radius of a destructive merge.
type Tier string

const (
	TierCertain  Tier = "certain"
	TierHigh     Tier = "high"
	TierPossible Tier = "possible"
)

// Similarity weights and tier thresholds. Policy knobs, kept together so
// tuning never touches control flow.
const (
	titleWeight    = 0.7
	categoryWeight = 0.2
	dateWeight     = 0.1

	CertainThreshold  = 0.90
	HighThreshold     = 0.75
	PossibleThreshold = 0.55

	// Two revelations of the same case usually land within one news cycle;
	// a year apart can still be the same case resurfacing at trial.
	dateProximityClose = 45 * 24 * time.Hour
	dateProximityLoose = 365 * 24 * time.Hour
)

// similarity scores a pair of affairs for the same politician in [0,1] and
// names the signals that matched.
func similarity(a, b *database.Affair) (float64, string) {
	titleSim := jaccard(normalizeTitle(a.Title), normalizeTitle(b.Title))

	categorySim := 0.0
	if a.Category != "" && a.Category == b.Category {
		categorySim = 1.0
	}

	dateSim := dateProximity(a.CaseDate, b.CaseDate)

	score := titleWeight*titleSim + categoryWeight*categorySim + dateWeight*dateSim

	var matched []string
	if titleSim >= 0.5 {
		matched = append(matched, "title")
	}
	if categorySim > 0 {
		matched = append(matched, "category")
	}
	if dateSim > 0 {
		matched = append(matched, "date")
	}
	return score, strings.Join(matched, "+")
}

func tierFor(score float64) (Tier, bool) {
	switch {
	case score >= CertainThreshold:
		return TierCertain, true
	case score >= HighThreshold:
		return TierHigh, true
	case score >= PossibleThreshold:
		return TierPossible, true
	default:
		return "", false
	}
}

// French stopwords and generic case vocabulary stripped before comparing
// titles. "affaire" and "mise en examen" boilerplate carries no signal.
var titleStopwords = map[string]bool{
	"a": true, "au": true, "aux": true, "d": true, "de": true, "des": true,
	"du": true, "en": true, "et": true, "l": true, "la": true, "le": true,
	"les": true, "par": true, "pour": true, "sur": true, "un": true,
	"une": true, "affaire": true, "dossier": true, "mise": true,
	"examen": true,
}

var accentReplacer = strings.NewReplacer(
	"à", "a", "â", "a", "ä", "a",
	"ç", "c",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"î", "i", "ï", "i",
	"ô", "o", "ö", "o",
	"ù", "u", "û", "u", "ü", "u",
	"œ", "oe",
)

// normalizeTitle lowercases, strips accents and punctuation, and drops
// stopwords, returning the distinct remaining tokens.
func normalizeTitle(title string) []string {
	s := accentReplacer.Replace(strings.ToLower(title))
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	seen := make(map[string]bool)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if titleStopwords[f] || seen[f] {
			continue
		}
		seen[f] = true
		tokens = append(tokens, f)
	}
	return tokens
}

// jaccard computes |A∩B| / |A∪B| over token sets. Two empty titles are not
// evidence of anything and score 0.
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]bool, len(a))
	for _, t := range a {
		setA[t] = true
	}
	inter := 0
	for _, t := range b {
		if setA[t] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

func dateProximity(a, b *time.Time) float64 {
	if a == nil || b == nil {
		return 0
	}
	diff := a.Sub(*b)
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff <= dateProximityClose:
		return 1.0
	case diff <= dateProximityLoose:
		return 0.5
	default:
		return 0
	}
}
