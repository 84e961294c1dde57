package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/poliscope/poliscope/internal/database"
	"github.com/poliscope/poliscope/internal/identity"
)

// SenatAdapter parses the Sénat open-data senator export. The source ref is
// the matricule (e.g. "89123T").
type SenatAdapter struct{}

// Source returns "SENAT"
func (a *SenatAdapter) Source() string {
	return "SENAT"
}

type senatRecord struct {
	Matricule     string `json:"matricule"`
	Prenom        string `json:"prenom"`
	Nom           string `json:"nom"`
	DateNaissance string `json:"dateNaissance"`
	Departement   string `json:"departement"`
}

// Parse decodes a senator export (JSON array of records)
func (a *SenatAdapter) Parse(payload []byte) ([]identity.Observation, error) {
	var records []senatRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("senat: decode payload: %w", err)
	}

	observations := make([]identity.Observation, 0, len(records))
	for _, rec := range records {
		bd, err := parseISODate(rec.DateNaissance)
		if err != nil {
			return nil, fmt.Errorf("senat %s: %w", rec.Matricule, err)
		}
		observations = append(observations, identity.Observation{
			FirstName:   rec.Prenom,
			LastName:    rec.Nom,
			BirthDate:   bd,
			Source:      a.Source(),
			SourceRef:   rec.Matricule,
			Department:  rec.Departement,
			MandateKind: database.MandateSenateur,
		})
	}
	return observations, nil
}
