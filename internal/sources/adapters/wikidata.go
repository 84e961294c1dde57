package adapters

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/poliscope/poliscope/internal/identity"
)

// WikidataAdapter parses SPARQL SELECT results for French politicians.
// The source ref is the Q-id taken from the entity URI.
type WikidataAdapter struct{}

// Source returns "WIKIDATA"
func (a *WikidataAdapter) Source() string {
	return "WIKIDATA"
}

type wikidataValue struct {
	Value string `json:"value"`
}

type wikidataBinding struct {
	Person      wikidataValue `json:"person"`
	PersonLabel wikidataValue `json:"personLabel"`
	BirthDate   wikidataValue `json:"birthDate"`
}

type wikidataResponse struct {
	Results struct {
		Bindings []wikidataBinding `json:"bindings"`
	} `json:"results"`
}

// Parse decodes a SPARQL result payload. Bindings without a usable label or
// entity URI are skipped rather than failing the batch.
func (a *WikidataAdapter) Parse(payload []byte) ([]identity.Observation, error) {
	var resp wikidataResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("wikidata: decode payload: %w", err)
	}

	observations := make([]identity.Observation, 0, len(resp.Results.Bindings))
	for _, b := range resp.Results.Bindings {
		qid := entityID(b.Person.Value)
		first, last := splitLabel(b.PersonLabel.Value)
		if qid == "" || first == "" || last == "" {
			continue
		}

		obs := identity.Observation{
			FirstName: first,
			LastName:  last,
			Source:    a.Source(),
			SourceRef: qid,
			Context: map[string]interface{}{
				"label": b.PersonLabel.Value,
			},
		}
		if b.BirthDate.Value != "" {
			bd, err := parseISODate(b.BirthDate.Value)
			if err != nil {
				return nil, fmt.Errorf("wikidata %s: %w", qid, err)
			}
			obs.BirthDate = bd
		}
		observations = append(observations, obs)
	}
	return observations, nil
}

// entityID extracts "Q3102" from "http://www.wikidata.org/entity/Q3102"
func entityID(uri string) string {
	idx := strings.LastIndex(uri, "/")
	if idx < 0 || idx == len(uri)-1 {
		return ""
	}
	id := uri[idx+1:]
	if !strings.HasPrefix(id, "Q") {
		return ""
	}
	return id
}

// splitLabel splits "Jean Dupont" into first and last name. Compound last
// names keep everything after the first token.
func splitLabel(label string) (first, last string) {
	fields := strings.Fields(label)
	if len(fields) < 2 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}
