package database

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JSONB is a custom type for PostgreSQL JSONB columns
type JSONB map[string]interface{}

// Scan implements the sql.Scanner interface
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = make(map[string]interface{})
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return errors.New("unsupported JSONB source type")
	}
}

// Value implements the driver.Valuer interface
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Politician is the canonical person entity. Created once, enriched over
// time, never silently merged.
type Politician struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	FirstName string     `gorm:"size:128;not null;index:idx_politicians_name" json:"first_name"`
	LastName  string     `gorm:"size:128;not null;index:idx_politicians_name" json:"last_name"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Mandates    []Mandate    `gorm:"foreignKey:PoliticianID" json:"mandates,omitempty"`
	ExternalIDs []ExternalID `gorm:"foreignKey:PoliticianID" json:"external_ids,omitempty"`
	Affairs     []Affair     `gorm:"foreignKey:PoliticianID" json:"affairs,omitempty"`
}

// BeforeCreate assigns a UUID when none was provided
func (p *Politician) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// FullName returns "First Last"
func (p *Politician) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Mandate kinds as they appear in the upstream registries
const (
	MandateDepute                  = "depute"
	MandateSenateur                = "senateur"
	MandateMaire                   = "maire"
	MandateConseillerDepartemental = "conseiller_departemental"
	MandateConseillerMunicipal     = "conseiller_municipal"
)

// Mandate is one elected office held by a politician. EndDate nil means the
// mandate is current.
type Mandate struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	PoliticianID   string     `gorm:"size:36;not null;index" json:"politician_id"`
	Kind           string     `gorm:"size:64;not null" json:"kind"`
	DepartmentCode string     `gorm:"size:8;index" json:"department_code"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// IsCurrent reports whether the mandate has no end date or one in the future
func (m *Mandate) IsCurrent() bool {
	return m.EndDate == nil || m.EndDate.After(time.Now())
}

// ExternalID links a (source, external ref) pair to a politician.
// Invariant: at most one politician per pair. PoliticianID stays nil until
// the resolver links it; it is re-pointed only through resolver logic.
type ExternalID struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Source       string    `gorm:"size:64;not null;uniqueIndex:idx_external_ids_source_ref" json:"source"`
	ExternalRef  string    `gorm:"size:128;not null;uniqueIndex:idx_external_ids_source_ref" json:"external_ref"`
	PoliticianID *string   `gorm:"size:36;index" json:"politician_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AffairStatus represents the verification state of an affair
type AffairStatus string

const (
	AffairStatusUnverified AffairStatus = "unverified"
	AffairStatusVerified   AffairStatus = "verified"
	AffairStatusDismissed  AffairStatus = "dismissed"
)

// Affair is a documented judicial case tied to one politician.
type Affair struct {
	ID           string       `gorm:"primaryKey;size:36" json:"id"`
	PoliticianID string       `gorm:"size:36;not null;index" json:"politician_id"`
	Title        string       `gorm:"size:512;not null" json:"title"`
	Category     string       `gorm:"size:64;index" json:"category"`
	Status       AffairStatus `gorm:"type:varchar(20);not null;default:'unverified'" json:"status"`
	CaseDate     *time.Time   `json:"case_date,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	Sources    []AffairSource `gorm:"foreignKey:AffairID" json:"sources,omitempty"`
	Politician Politician     `gorm:"foreignKey:PoliticianID" json:"-"`
}

// BeforeCreate assigns a UUID and the default status
func (a *Affair) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = AffairStatusUnverified
	}
	return nil
}

// AffairSource is one press or open-data reference documenting an affair.
// Re-parented to the keeper when affairs are merged.
type AffairSource struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	AffairID    string     `gorm:"size:36;not null;index" json:"affair_id"`
	URL         string     `gorm:"size:1024;not null" json:"url"`
	Publisher   string     `gorm:"size:255" json:"publisher"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TableName overrides for explicit table naming
func (Politician) TableName() string {
	return "politicians"
}

func (Mandate) TableName() string {
	return "mandates"
}

func (ExternalID) TableName() string {
	return "external_ids"
}

func (Affair) TableName() string {
	return "affairs"
}

func (AffairSource) TableName() string {
	return "affair_sources"
}
