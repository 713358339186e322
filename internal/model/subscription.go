package model

import (
	"time"

	"gorm.io/gorm"
)

// Subscription Status
type SubscriptionStatus string

const (
	SubscriptionStatusPending   SubscriptionStatus = "pending"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

// Billing Cycle
type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleAnnual  BillingCycle = "annual"
)

// UserSubscription is one subscription term for one user. Usage counters
// only grow within a term and are cleared by an explicit reset, never
// implicitly. Rows are kept after expiry for billing history.
type UserSubscription struct {
	gorm.Model
	UserID uint               `json:"user_id" gorm:"not null;index"`
	PlanID uint               `json:"plan_id" gorm:"not null"`
	Status SubscriptionStatus `json:"status" gorm:"default:'pending'"`

	BillingCycle       BillingCycle `json:"billing_cycle" gorm:"not null"`
	StartDate          time.Time    `json:"start_date"`
	EndDate            time.Time    `json:"end_date"`
	CurrentPeriodStart time.Time    `json:"current_period_start"`
	CurrentPeriodEnd   time.Time    `json:"current_period_end"`
	AutoRenew          bool         `json:"auto_renew" gorm:"default:false"`

	JobPostingsUsed   int `json:"job_postings_used" gorm:"not null;default:0"`
	FeaturedJobsUsed  int `json:"featured_jobs_used" gorm:"not null;default:0"`
	ResumeCreditsUsed int `json:"resume_credits_used" gorm:"not null;default:0"`

	LastPaymentID *uint `json:"last_payment_id"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
	Plan Plan `json:"plan" gorm:"foreignKey:PlanID"`
}

// IsActive reports whether this term currently grants entitlements.
// Status alone is not enough: end_date is the authoritative boundary.
func (s *UserSubscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive && s.EndDate.After(time.Now())
}
