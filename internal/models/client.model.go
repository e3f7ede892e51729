package models

import (
	"github.com/google/uuid"
)

type ServiceFrequency string

const (
	FrequencyWeekly   ServiceFrequency = "weekly"
	FrequencyBiWeekly ServiceFrequency = "bi-weekly"
	FrequencyMonthly  ServiceFrequency = "monthly"
	FrequencyOneTime  ServiceFrequency = "one-time"
)

type Client struct {
	BaseUUIDModel
	CompanyID uuid.UUID         `gorm:"type:uuid;not null;index" json:"companyId"`
	Name      string            `gorm:"type:text;not null"       json:"name"`
	Address   *string           `gorm:"type:text"                json:"address,omitempty"`
	Frequency *ServiceFrequency `gorm:"type:text"                json:"frequency,omitempty"`
	Notes     *string           `gorm:"type:text"                json:"notes,omitempty"`
}
