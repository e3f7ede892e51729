package models

import (
	"github.com/google/uuid"
)

type CleanerStatus string

const (
	CleanerActive   CleanerStatus = "active"
	CleanerInactive CleanerStatus = "inactive"
)

// Cleaner is a field worker. It may be linked to a login-capable Profile
// but does not have to be; agencies schedule workers who never sign in.
type Cleaner struct {
	BaseUUIDModel
	CompanyID uuid.UUID     `gorm:"type:uuid;not null;index"       json:"companyId"`
	ProfileID *uuid.UUID    `gorm:"type:uuid"                      json:"profileId,omitempty"`
	Name      string        `gorm:"type:text;not null"             json:"name"`
	Email     *string       `gorm:"type:text"                      json:"email,omitempty"`
	Phone     *string       `gorm:"type:text"                      json:"phone,omitempty"`
	Language  LanguageCode  `gorm:"type:text;not null;default:'en'" json:"language"`
	Drives    bool          `gorm:"type:bool;not null;default:false" json:"drives"`
	Status    CleanerStatus `gorm:"type:text;not null;default:'active'" json:"status"`
	Area      *string       `gorm:"type:text"                      json:"area,omitempty"`
	Notes     *string       `gorm:"type:text"                      json:"notes,omitempty"`
}
