package identity

import (
	"errors"
	"time"
)

// Judgement is the outcome of one resolution, as recorded in the decision log.
type Judgement string

const (
	JudgementSame      Judgement = "same"
	JudgementNotSame   Judgement = "not_same"
	JudgementUndecided Judgement = "undecided"
	// JudgementNew records that no existing politician matched well enough
	// and the caller should create a new record. Never produced by human review.
	JudgementNew Judgement = "new"
)

// MatchMethod identifies the signal that produced a candidate's best score.
type MatchMethod string

const (
	MethodExternalID MatchMethod = "external_id"
	MethodBirthDate  MatchMethod = "birthdate"
	MethodDepartment MatchMethod = "department"
	MethodNameOnly   MatchMethod = "name_only"
)

// ValidJudgements lists the judgements a reviewer may record.
func ValidJudgements() []Judgement {
	return []Judgement{JudgementSame, JudgementNotSame, JudgementUndecided}
}

// Observation is one incoming record from an external source, to be matched
// against the canonical politician store.
type Observation struct {
	FirstName   string                 `json:"first_name"`
	LastName    string                 `json:"last_name"`
	BirthDate   *time.Time             `json:"birth_date,omitempty"`
	Source      string                 `json:"source"`
	SourceRef   string                 `json:"source_ref"`
	Department  string                 `json:"department,omitempty"`
	MandateKind string                 `json:"mandate_kind,omitempty"`
	Context     map[string]interface{} `json:"context,omitempty"`
}

var (
	ErrMissingName      = errors.New("observation requires first and last name")
	ErrMissingSourceRef = errors.New("observation requires source and source ref")
)

// Validate checks the fields every observation must carry. Callers are
// expected to validate before invoking the resolver.
func (o Observation) Validate() error {
	if o.FirstName == "" || o.LastName == "" {
		return ErrMissingName
	}
	if o.Source == "" || o.SourceRef == "" {
		return ErrMissingSourceRef
	}
	return nil
}

// Person is the resolver's view of a canonical politician. Departments are
// collected from current and past mandates.
type Person struct {
	ID          string
	FirstName   string
	LastName    string
	BirthDate   *time.Time
	Departments []string
}

// ExternalRef is a (source, ref) pair optionally linked to a politician.
// PoliticianID is empty when the ref exists but has not been linked yet.
type ExternalRef struct {
	Source       string
	Ref          string
	PoliticianID string
}

// Candidate is one scored match for an observation. Recomputed on every
// resolution, never persisted.
type Candidate struct {
	PoliticianID string      `json:"politician_id"`
	Score        float64     `json:"score"`
	Method       MatchMethod `json:"method"`
	Blocked      bool        `json:"blocked"`
}

// Decision is one decision-log entry. Superseded entries are excluded from
// FindActive by the store.
type Decision struct {
	ID           uint
	Source       string
	SourceRef    string
	PoliticianID string
	Judgement    Judgement
	Confidence   float64
	Method       MatchMethod
	Evidence     map[string]interface{}
	Actor        string
}

// ResolveResult is the outcome of resolving one observation. PoliticianID is
// empty when no match was confirmed or proposed. Blocked reports that
// candidates existed but every one of them carried an active not_same
// judgement.
type ResolveResult struct {
	PoliticianID string      `json:"politician_id,omitempty"`
	Confidence   float64     `json:"confidence"`
	Method       MatchMethod `json:"method,omitempty"`
	Decision     Judgement   `json:"decision"`
	Candidates   []Candidate `json:"candidates"`
	Blocked      bool        `json:"blocked"`
}

// PersonStore is the read side of the canonical politician store.
type PersonStore interface {
	// FindByName returns all politicians whose name matches case-insensitively.
	FindByName(firstName, lastName string) ([]Person, error)
	// FindExternalRef returns the ref for (source, sourceRef), or nil when absent.
	FindExternalRef(source, sourceRef string) (*ExternalRef, error)
}

// DecisionLog is the append-only resolution audit log.
type DecisionLog interface {
	// FindActive returns all non-superseded decisions for (source, sourceRef).
	FindActive(source, sourceRef string) ([]Decision, error)
	// Append writes a new decision entry.
	Append(d *Decision) error
}
