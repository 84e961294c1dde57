package adapters

import (
	"testing"
	"time"

	"github.com/poliscope/poliscope/internal/database"
)

func TestNewDefaultRegistry(t *testing.T) {
	registry := NewDefaultRegistry()

	want := []string{"ASSEMBLEE", "RNE", "SENAT", "WIKIDATA"}
	got := registry.Sources()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	if _, err := registry.Get("rne"); err != nil {
		t.Errorf("lookup must be case-insensitive: %v", err)
	}
	if _, err := registry.Get("HATVP"); err == nil {
		t.Error("expected an error for an unregistered source")
	}
}

func TestRNEAdapter_Parse(t *testing.T) {
	payload := []byte(`[
		{
			"id_rne": "45321",
			"prenom": "Thierry",
			"nom": "Cousin",
			"date_naissance": "16/05/1960",
			"code_departement": "45",
			"libelle_mandat": "Conseiller municipal"
		},
		{
			"id_rne": "45322",
			"prenom": "Marie",
			"nom": "Laurent",
			"date_naissance": "",
			"code_departement": "45",
			"libelle_mandat": "Maire"
		}
	]`)

	obs, err := (&RNEAdapter{}).Parse(payload)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(obs) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(obs))
	}

	first := obs[0]
	if first.Source != "RNE" || first.SourceRef != "45321" {
		t.Errorf("unexpected source pair: %s/%s", first.Source, first.SourceRef)
	}
	if first.BirthDate == nil || !first.BirthDate.Equal(time.Date(1960, 5, 16, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected birth date: %v", first.BirthDate)
	}
	if first.MandateKind != database.MandateConseillerMunicipal {
		t.Errorf("mandate label must be slugified, got %q", first.MandateKind)
	}
	if first.Department != "45" {
		t.Errorf("unexpected department: %s", first.Department)
	}

	if obs[1].BirthDate != nil {
		t.Error("empty birth date must stay nil")
	}
}

func TestRNEAdapter_ParseRejectsBadDate(t *testing.T) {
	payload := []byte(`[{"id_rne": "1", "prenom": "A", "nom": "B", "date_naissance": "1960-05-16"}]`)
	if _, err := (&RNEAdapter{}).Parse(payload); err == nil {
		t.Error("ISO dates are not valid RNE dates, expected an error")
	}
}

func TestWikidataAdapter_Parse(t *testing.T) {
	payload := []byte(`{
		"results": {
			"bindings": [
				{
					"person": {"value": "http://www.wikidata.org/entity/Q3102"},
					"personLabel": {"value": "Jean-Marie Dupont"},
					"birthDate": {"value": "1960-05-16T00:00:00Z"}
				},
				{
					"person": {"value": "http://www.wikidata.org/entity/Q99"},
					"personLabel": {"value": "Mononyme"}
				},
				{
					"person": {"value": ""},
					"personLabel": {"value": "Sans Entite"}
				}
			]
		}
	}`)

	obs, err := (&WikidataAdapter{}).Parse(payload)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(obs) != 1 {
		t.Fatalf("unusable bindings must be skipped, got %d observations", len(obs))
	}

	got := obs[0]
	if got.SourceRef != "Q3102" {
		t.Errorf("expected Q-id ref, got %s", got.SourceRef)
	}
	if got.FirstName != "Jean-Marie" || got.LastName != "Dupont" {
		t.Errorf("unexpected name split: %s / %s", got.FirstName, got.LastName)
	}
	if got.BirthDate == nil || !got.BirthDate.Equal(time.Date(1960, 5, 16, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("datetime suffix must be dropped, got %v", got.BirthDate)
	}
}

func TestWikidataAdapter_CompoundLastName(t *testing.T) {
	payload := []byte(`{
		"results": {
			"bindings": [
				{
					"person": {"value": "http://www.wikidata.org/entity/Q1"},
					"personLabel": {"value": "Anne de La Tour"}
				}
			]
		}
	}`)

	obs, err := (&WikidataAdapter{}).Parse(payload)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(obs) != 1 {
		t.Fatalf("expected 1 observation, got %d", len(obs))
	}
	if obs[0].FirstName != "Anne" || obs[0].LastName != "de La Tour" {
		t.Errorf("unexpected split: %s / %s", obs[0].FirstName, obs[0].LastName)
	}
}

func TestAssembleeAdapter_Parse(t *testing.T) {
	payload := []byte(`{
		"acteurs": [
			{
				"uid": "PA1234",
				"etatCivil": {
					"prenom": "Claire",
					"nom": "Moreau",
					"dateNaissance": "1971-03-09"
				},
				"mandat": {"departement": "33"}
			}
		]
	}`)

	obs, err := (&AssembleeAdapter{}).Parse(payload)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(obs) != 1 {
		t.Fatalf("expected 1 observation, got %d", len(obs))
	}
	got := obs[0]
	if got.Source != "ASSEMBLEE" || got.SourceRef != "PA1234" {
		t.Errorf("unexpected source pair: %s/%s", got.Source, got.SourceRef)
	}
	if got.MandateKind != database.MandateDepute {
		t.Errorf("expected depute mandate, got %s", got.MandateKind)
	}
}

func TestSenatAdapter_Parse(t *testing.T) {
	payload := []byte(`[
		{
			"matricule": "89123T",
			"prenom": "Paul",
			"nom": "Bernard",
			"dateNaissance": "1948-11-30",
			"departement": "75"
		}
	]`)

	obs, err := (&SenatAdapter{}).Parse(payload)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(obs) != 1 {
		t.Fatalf("expected 1 observation, got %d", len(obs))
	}
	got := obs[0]
	if got.Source != "SENAT" || got.SourceRef != "89123T" {
		t.Errorf("unexpected source pair: %s/%s", got.Source, got.SourceRef)
	}
	if got.MandateKind != database.MandateSenateur {
		t.Errorf("expected senateur mandate, got %s", got.MandateKind)
	}
	if got.Department != "75" {
		t.Errorf("unexpected department: %s", got.Department)
	}
}

func TestAdapters_ParseMalformedPayload(t *testing.T) {
	garbage := []byte(`{not json`)

	if _, err := (&RNEAdapter{}).Parse(garbage); err == nil {
		t.Error("rne: expected decode error")
	}
	if _, err := (&WikidataAdapter{}).Parse(garbage); err == nil {
		t.Error("wikidata: expected decode error")
	}
	if _, err := (&AssembleeAdapter{}).Parse(garbage); err == nil {
		t.Error("assemblee: expected decode error")
	}
	if _, err := (&SenatAdapter{}).Parse(garbage); err == nil {
		t.Error("senat: expected decode error")
	}
}

func TestSlugifyMandate(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Conseiller municipal", "conseiller_municipal"},
		{"  Maire  ", "maire"},
		{"Conseiller   départemental", "conseiller_départemental"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := slugifyMandate(tt.label); got != tt.want {
			t.Errorf("slugifyMandate(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}
