package identity

import (
	"strings"
	"time"
)

// Confidence tiers per signal. Name alone is weak in a population full of
// duplicate surnames; an agreeing birth date is the strongest independent
// signal; a disagreeing birth date disqualifies the candidate outright.
const (
	ScoreNameOnly          = 0.5
	ScoreBirthDateMatch    = 0.9
	ScoreBirthDateMismatch = 0.1
	ScoreDepartmentMatch   = 0.7
)

// scoreCandidate computes the score and method for one name-matched person.
// The department signal only upgrades: it never touches a score the birth
// date already settled, in either direction.
func scoreCandidate(obs Observation, p Person, tolerance time.Duration) Candidate {
	c := Candidate{
		PoliticianID: p.ID,
		Score:        ScoreNameOnly,
		Method:       MethodNameOnly,
	}

	birthConflict := false
	if obs.BirthDate != nil && p.BirthDate != nil {
		if birthDatesAgree(*obs.BirthDate, *p.BirthDate, tolerance) {
			c.Score = ScoreBirthDateMatch
			c.Method = MethodBirthDate
		} else {
			c.Score = ScoreBirthDateMismatch
			c.Method = MethodBirthDate
			birthConflict = true
		}
	}

	if obs.Department != "" && !birthConflict && c.Score < ScoreDepartmentMatch && hasDepartment(p, obs.Department) {
		c.Score = ScoreDepartmentMatch
		c.Method = MethodDepartment
	}

	return c
}

// birthDatesAgree reports whether two birth dates fall within the tolerance.
// The tolerance absorbs timezone and off-by-one recording errors between
// sources.
func birthDatesAgree(a, b time.Time, tolerance time.Duration) bool {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}

func hasDepartment(p Person, code string) bool {
	code = strings.TrimSpace(strings.ToUpper(code))
	for _, d := range p.Departments {
		if strings.TrimSpace(strings.ToUpper(d)) == code {
			return true
		}
	}
	return false
}
