package model

import "gorm.io/gorm"

// Plan is a subscription tier definition. Limit fields use 0 as the
// "unlimited" sentinel, not as a zero quota.
type Plan struct {
	gorm.Model
	Name         string  `json:"name" gorm:"uniqueIndex;not null"`
	Description  string  `json:"description"`
	PriceMonthly float64 `json:"price_monthly" gorm:"not null"`
	PriceAnnual  float64 `json:"price_annual" gorm:"not null"`

	JobPostingLimit   int `json:"job_posting_limit" gorm:"not null;default:0"`
	FeaturedJobLimit  int `json:"featured_job_limit" gorm:"not null;default:0"`
	ResumeCreditLimit int `json:"resume_credit_limit" gorm:"not null;default:0"`

	// Relations
	UserSubscriptions []UserSubscription `json:"-"`
}

// PriceFor returns the charge amount for a billing cycle.
func (p *Plan) PriceFor(cycle BillingCycle) float64 {
	if cycle == BillingCycleAnnual {
		return p.PriceAnnual
	}
	return p.PriceMonthly
}
