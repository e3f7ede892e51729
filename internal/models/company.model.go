package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SubscriptionStatus string

const (
	SubscriptionTrial   SubscriptionStatus = "trial"
	SubscriptionActive  SubscriptionStatus = "active"
	SubscriptionExpired SubscriptionStatus = "expired"
)

// Company is the tenant root. Cleaners, clients and schedules cascade with
// it; companies themselves are blocked by the platform superadmin, never
// hard-deleted.
type Company struct {
	BaseUUIDModel
	Name                  string             `gorm:"type:text;not null"            json:"name"`
	SubscriptionStatus    SubscriptionStatus `gorm:"type:text;default:'trial'"     json:"subscriptionStatus"`
	PlanCode              string             `gorm:"type:text;default:'standard'"  json:"planCode"`
	PlanMonthlyPrice      decimal.Decimal    `gorm:"type:decimal(10,2);default:0"  json:"planMonthlyPrice"`
	BillingCustomerID     *string            `gorm:"type:text"                     json:"-"`
	BillingSubscriptionID *string            `gorm:"type:text"                     json:"-"`
	TrialEndsAt           *time.Time         `gorm:"type:timestamptz"              json:"trialEndsAt,omitempty"`
	IsBlocked             bool               `gorm:"type:bool;not null;default:false" json:"isBlocked"`
}

// TrialExpired reports whether the company's trial window has lapsed.
// Companies without a trial end date never expire on their own.
func (c *Company) TrialExpired(now time.Time) bool {
	if c.SubscriptionStatus != SubscriptionTrial || c.TrialEndsAt == nil {
		return false
	}
	return now.After(*c.TrialEndsAt)
}
