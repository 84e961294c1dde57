package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/poliscope/poliscope/internal/database"
	"github.com/poliscope/poliscope/internal/identity"
)

// AssembleeAdapter parses the Assemblée Nationale open-data actor export.
// The source ref is the acteur uid (PAxxxx).
type AssembleeAdapter struct{}

// Source returns "ASSEMBLEE"
func (a *AssembleeAdapter) Source() string {
	return "ASSEMBLEE"
}

type assembleeActeur struct {
	UID       string `json:"uid"`
	EtatCivil struct {
		Prenom        string `json:"prenom"`
		Nom           string `json:"nom"`
		DateNaissance string `json:"dateNaissance"`
	} `json:"etatCivil"`
	Mandat struct {
		Departement string `json:"departement"`
	} `json:"mandat"`
}

type assembleeExport struct {
	Acteurs []assembleeActeur `json:"acteurs"`
}

// Parse decodes an actor export
func (a *AssembleeAdapter) Parse(payload []byte) ([]identity.Observation, error) {
	var export assembleeExport
	if err := json.Unmarshal(payload, &export); err != nil {
		return nil, fmt.Errorf("assemblee: decode payload: %w", err)
	}

	observations := make([]identity.Observation, 0, len(export.Acteurs))
	for _, acteur := range export.Acteurs {
		bd, err := parseISODate(acteur.EtatCivil.DateNaissance)
		if err != nil {
			return nil, fmt.Errorf("assemblee %s: %w", acteur.UID, err)
		}
		observations = append(observations, identity.Observation{
			FirstName:   acteur.EtatCivil.Prenom,
			LastName:    acteur.EtatCivil.Nom,
			BirthDate:   bd,
			Source:      a.Source(),
			SourceRef:   acteur.UID,
			Department:  acteur.Mandat.Departement,
			MandateKind: database.MandateDepute,
		})
	}
	return observations, nil
}
