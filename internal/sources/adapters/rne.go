package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/poliscope/poliscope/internal/identity"
)

// RNEAdapter parses extracts of the Répertoire National des Élus. RNE dates
// use the DD/MM/YYYY convention and department codes are zero-padded strings.
type RNEAdapter struct{}

// Source returns "RNE"
func (a *RNEAdapter) Source() string {
	return "RNE"
}

type rneRecord struct {
	IDRNE           string `json:"id_rne"`
	Prenom          string `json:"prenom"`
	Nom             string `json:"nom"`
	DateNaissance   string `json:"date_naissance"`
	CodeDepartement string `json:"code_departement"`
	LibelleMandat   string `json:"libelle_mandat"`
}

// Parse decodes an RNE extract (JSON array of records)
func (a *RNEAdapter) Parse(payload []byte) ([]identity.Observation, error) {
	var records []rneRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("rne: decode payload: %w", err)
	}

	observations := make([]identity.Observation, 0, len(records))
	for _, rec := range records {
		bd, err := parseFrenchDate(rec.DateNaissance)
		if err != nil {
			return nil, fmt.Errorf("rne %s: %w", rec.IDRNE, err)
		}
		observations = append(observations, identity.Observation{
			FirstName:   rec.Prenom,
			LastName:    rec.Nom,
			BirthDate:   bd,
			Source:      a.Source(),
			SourceRef:   rec.IDRNE,
			Department:  rec.CodeDepartement,
			MandateKind: slugifyMandate(rec.LibelleMandat),
		})
	}
	return observations, nil
}
