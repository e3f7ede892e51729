package models

import (
	"github.com/google/uuid"
)

type UserRole string

const (
	RoleSuperadmin UserRole = "superadmin"
	RoleOwner      UserRole = "owner"
	RoleAdmin      UserRole = "admin"
	RoleCleaner    UserRole = "cleaner"
)

type LanguageCode string

const (
	LanguageEnglish    LanguageCode = "en"
	LanguagePortuguese LanguageCode = "pt"
	LanguageSpanish    LanguageCode = "es"
)

// Profile is a login-capable user. ExternalID is the subject from the
// external identity provider and is the only thing the auth boundary
// trusts. CompanyID is null only for the platform superadmin.
type Profile struct {
	BaseUUIDModel
	ExternalID string       `gorm:"type:text;uniqueIndex;not null" json:"-"`
	CompanyID  *uuid.UUID   `gorm:"type:uuid;index"                json:"companyId,omitempty"`
	Company    *Company     `gorm:"foreignKey:CompanyID"           json:"company,omitempty"`
	Role       UserRole     `gorm:"type:text;not null;default:'owner'" json:"role"`
	Name       string       `gorm:"type:text;not null"             json:"name"`
	Email      string       `gorm:"type:text;not null"             json:"email"`
	Phone      *string      `gorm:"type:text"                      json:"phone,omitempty"`
	Language   LanguageCode `gorm:"type:text;not null;default:'en'" json:"language"`
}

func (p *Profile) IsSuperadmin() bool {
	return p.Role == RoleSuperadmin
}

// CanManageCompany reports whether the profile may administer tenant data
// (cleaners, clients, schedules).
func (p *Profile) CanManageCompany() bool {
	return p.Role == RoleOwner || p.Role == RoleAdmin
}
