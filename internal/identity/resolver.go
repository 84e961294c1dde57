package identity

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
)

// Default thresholds. Business policy, not algorithmic necessity; override
// via Config.
const (
	DefaultAutoMatchThreshold = 0.95
	DefaultReviewThreshold    = 0.70
	DefaultBirthDateTolerance = 24 * time.Hour
)

// Config holds the resolver's decision thresholds.
type Config struct {
	// AutoMatchThreshold is the confidence at or above which a match is
	// confirmed without human review.
	AutoMatchThreshold float64
	// ReviewThreshold is the confidence at or above which a match is at least
	// proposed for review. Below it the observation resolves to "new".
	ReviewThreshold float64
	// BirthDateTolerance is the maximum distance between two birth dates
	// still treated as the same date.
	BirthDateTolerance time.Duration
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		AutoMatchThreshold: DefaultAutoMatchThreshold,
		ReviewThreshold:    DefaultReviewThreshold,
		BirthDateTolerance: DefaultBirthDateTolerance,
	}
}

func (c Config) withDefaults() Config {
	if c.AutoMatchThreshold == 0 {
		c.AutoMatchThreshold = DefaultAutoMatchThreshold
	}
	if c.ReviewThreshold == 0 {
		c.ReviewThreshold = DefaultReviewThreshold
	}
	if c.BirthDateTolerance == 0 {
		c.BirthDateTolerance = DefaultBirthDateTolerance
	}
	return c
}

// Resolver matches incoming observations to canonical politicians.
//
// Resolver is not safe for concurrent calls on the same (source, sourceRef)
// pair: the decision log carries no uniqueness constraint, and callers are
// expected to be single-writer batch jobs.
type Resolver struct {
	persons   PersonStore
	decisions DecisionLog
	cfg       Config
	logf      func(format string, args ...interface{})
}

// NewResolver creates a resolver over the given stores. Zero-value config
// fields fall back to the defaults.
func NewResolver(persons PersonStore, decisions DecisionLog, cfg Config) *Resolver {
	return &Resolver{
		persons:   persons,
		decisions: decisions,
		cfg:       cfg.withDefaults(),
		logf:      log.Printf,
	}
}

// SetErrorLog redirects operational error reporting (decision-log write
// failures). The resolver's primary contract is unaffected by these errors.
func (r *Resolver) SetErrorLog(logf func(format string, args ...interface{})) {
	if logf != nil {
		r.logf = logf
	}
}

// Resolve matches one observation against the store. First applicable step
// wins: an active confirmed decision, then a deterministic external-id link,
// then signal scoring over name-matched candidates.
//
// Store query errors propagate; a silent "no match" would spawn duplicate
// politicians. Decision-log append errors are reported and swallowed.
func (r *Resolver) Resolve(obs Observation) (*ResolveResult, error) {
	active, err := r.decisions.FindActive(obs.Source, obs.SourceRef)
	if err != nil {
		return nil, fmt.Errorf("load active decisions for %s/%s: %w", obs.Source, obs.SourceRef, err)
	}

	blocked := make(map[string]bool)
	var confirmed *Decision
	for i := range active {
		d := &active[i]
		switch d.Judgement {
		case JudgementNotSame:
			blocked[d.PoliticianID] = true
		case JudgementSame:
			if d.Confidence >= r.cfg.AutoMatchThreshold && confirmed == nil {
				confirmed = d
			}
		}
	}

	if confirmed != nil {
		// Settled on a prior run; already logged then.
		return &ResolveResult{
			PoliticianID: confirmed.PoliticianID,
			Confidence:   confirmed.Confidence,
			Method:       confirmed.Method,
			Decision:     JudgementSame,
			Candidates:   []Candidate{},
		}, nil
	}

	ref, err := r.persons.FindExternalRef(obs.Source, obs.SourceRef)
	if err != nil {
		return nil, fmt.Errorf("look up external ref %s/%s: %w", obs.Source, obs.SourceRef, err)
	}
	if ref != nil && ref.PoliticianID != "" && !blocked[ref.PoliticianID] {
		res := &ResolveResult{
			PoliticianID: ref.PoliticianID,
			Confidence:   1.0,
			Method:       MethodExternalID,
			Decision:     JudgementSame,
			Candidates:   []Candidate{},
		}
		r.logDecision(obs, res, ref.PoliticianID, nil)
		return res, nil
	}

	people, err := r.persons.FindByName(obs.FirstName, obs.LastName)
	if err != nil {
		return nil, fmt.Errorf("query candidates for %s %s: %w", obs.FirstName, obs.LastName, err)
	}

	candidates := make([]Candidate, 0, len(people))
	for _, p := range people {
		c := scoreCandidate(obs, p, r.cfg.BirthDateTolerance)
		c.Blocked = blocked[p.ID]
		candidates = append(candidates, c)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].PoliticianID < candidates[j].PoliticianID
	})

	var best *Candidate
	for i := range candidates {
		if !candidates[i].Blocked {
			best = &candidates[i]
			break
		}
	}
	allBlocked := len(candidates) > 0 && best == nil

	res := &ResolveResult{
		Decision:   JudgementNew,
		Candidates: candidates,
		Blocked:    allBlocked,
	}

	switch {
	case best == nil:
		// No usable candidate at all. Nothing to attach an audit row to.
	case best.Score >= r.cfg.AutoMatchThreshold:
		res.Decision = JudgementSame
		res.PoliticianID = best.PoliticianID
		res.Confidence = best.Score
		res.Method = best.Method
	case best.Score >= r.cfg.ReviewThreshold:
		// Review zone: returned as the best guess, not yet confirmed.
		res.Decision = JudgementUndecided
		res.PoliticianID = best.PoliticianID
		res.Confidence = best.Score
		res.Method = best.Method
	default:
		res.Confidence = best.Score
		res.Method = best.Method
	}

	if best != nil {
		r.logDecision(obs, res, best.PoliticianID, candidates)
	}
	return res, nil
}

// logDecision appends an audit entry. Best effort: a failed write is reported
// to the operational log and never surfaced to the caller.
func (r *Resolver) logDecision(obs Observation, res *ResolveResult, politicianID string, candidates []Candidate) {
	d := &Decision{
		Source:       obs.Source,
		SourceRef:    obs.SourceRef,
		PoliticianID: politicianID,
		Judgement:    res.Decision,
		Confidence:   res.Confidence,
		Method:       res.Method,
		Evidence:     buildEvidence(obs, candidates),
		Actor:        "system:sync-" + strings.ToLower(obs.Source),
	}
	if err := r.decisions.Append(d); err != nil {
		r.logf("identity: decision log append failed for %s/%s: %v", obs.Source, obs.SourceRef, err)
	}
}

func buildEvidence(obs Observation, candidates []Candidate) map[string]interface{} {
	ev := map[string]interface{}{
		"first_name":      obs.FirstName,
		"last_name":       obs.LastName,
		"candidate_count": len(candidates),
	}
	if obs.BirthDate != nil {
		ev["birth_date"] = obs.BirthDate.Format("2006-01-02")
	}
	if obs.Department != "" {
		ev["department"] = obs.Department
	}
	if len(obs.Context) > 0 {
		ev["context"] = obs.Context
	}
	if len(candidates) > 0 {
		list := make([]map[string]interface{}, 0, len(candidates))
		for _, c := range candidates {
			list = append(list, map[string]interface{}{
				"politician_id": c.PoliticianID,
				"score":         c.Score,
				"method":        string(c.Method),
				"blocked":       c.Blocked,
			})
		}
		ev["candidates"] = list
	}
	return ev
}
