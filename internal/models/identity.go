package models

import (
	"time"

	"gorm.io/datatypes"
)

// CustomClaims are the role flags attached to an identity and embedded in
// every ID token minted for it.
type CustomClaims struct {
	Admin    bool   `json:"admin,omitempty"`
	Clinic   bool   `json:"clinic,omitempty"`
	ClinicID string `json:"clinicId,omitempty"`
	Patient  bool   `json:"patient,omitempty"`
}

// IsZero reports whether no role claim is set.
func (c CustomClaims) IsZero() bool {
	return !c.Admin && !c.Clinic && !c.Patient && c.ClinicID == ""
}

// Identity is a provider-managed login account.
type Identity struct {
	ID           string                           `gorm:"type:uuid;primaryKey" json:"uid"`
	Email        string                           `gorm:"not null;size:255;uniqueIndex" json:"email"`
	PasswordHash string                           `gorm:"not null" json:"-"`
	DisplayName  string                           `gorm:"size:255" json:"display_name"`
	Claims       datatypes.JSONType[CustomClaims] `gorm:"type:jsonb;not null;default:'{}'" json:"claims"`
	CreatedAt    time.Time                        `json:"created_at"`
	UpdatedAt    time.Time                        `json:"updated_at"`
}
