// Package entitlement decides whether a subscriber may perform a gated
// action and records the consumed credits. Checks are pure; consumption is
// a single conditional update applied by the database, so two requests
// racing on the same subscription cannot both slip past the limit.
package entitlement

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Amarjit99/JobPortal-sub003/internal/model"
)

// ActionKind is the closed set of credit-gated actions.
type ActionKind string

const (
	ActionJobPosting   ActionKind = "jobPosting"
	ActionFeaturedJob  ActionKind = "featuredJob"
	ActionResumeCredit ActionKind = "resumeCredit"
)

var ErrUnknownAction = errors.New("unknown action kind")

// Label is the user-facing name used in denial messages.
func (k ActionKind) Label() string {
	switch k {
	case ActionJobPosting:
		return "Job posting"
	case ActionFeaturedJob:
		return "Featured job"
	case ActionResumeCredit:
		return "Resume credit"
	}
	return string(k)
}

// Limit returns the plan allowance for this kind. 0 means unlimited.
func (k ActionKind) Limit(plan *model.Plan) int {
	switch k {
	case ActionJobPosting:
		return plan.JobPostingLimit
	case ActionFeaturedJob:
		return plan.FeaturedJobLimit
	case ActionResumeCredit:
		return plan.ResumeCreditLimit
	}
	return 0
}

// Used returns the consumed count for this kind on a subscription term.
func (k ActionKind) Used(sub *model.UserSubscription) int {
	switch k {
	case ActionJobPosting:
		return sub.JobPostingsUsed
	case ActionFeaturedJob:
		return sub.FeaturedJobsUsed
	case ActionResumeCredit:
		return sub.ResumeCreditsUsed
	}
	return 0
}

// column maps the kind to its usage counter column.
func (k ActionKind) column() (string, error) {
	switch k {
	case ActionJobPosting:
		return "job_postings_used", nil
	case ActionFeaturedJob:
		return "featured_jobs_used", nil
	case ActionResumeCredit:
		return "resume_credits_used", nil
	}
	return "", ErrUnknownAction
}

// CheckResult is the outcome of an entitlement check. Denials are ordinary
// values, not errors: callers branch on them routinely.
type CheckResult struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

func deny(reason string) CheckResult {
	return CheckResult{Allowed: false, Reason: reason}
}

// ActiveSubscription returns the user's single active, unexpired
// subscription with its plan populated. Having no subscription is a normal
// state, reported as (nil, nil), not an error.
func ActiveSubscription(db *gorm.DB, userID uint) (*model.UserSubscription, error) {
	var sub model.UserSubscription
	err := db.Preload("Plan").
		Where("user_id = ? AND status = ? AND end_date > ?", userID, model.SubscriptionStatusActive, time.Now()).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// CanPerformAction reports whether count more units of the action are within
// the subscription's plan limits. It never mutates usage, so callers may
// probe freely before committing.
func CanPerformAction(sub *model.UserSubscription, kind ActionKind, count int) CheckResult {
	if sub == nil || !sub.IsActive() {
		return deny("Subscription is not active")
	}
	if sub.Plan.ID == 0 {
		return deny("Plan not found")
	}
	if _, err := kind.column(); err != nil {
		return deny("Unknown action")
	}

	limit := kind.Limit(&sub.Plan)
	if limit == 0 {
		return CheckResult{Allowed: true}
	}

	used := kind.Used(sub)
	if used+count <= limit {
		return CheckResult{Allowed: true}
	}

	return deny(fmt.Sprintf("%s limit reached (%d/%d)", kind.Label(), used, limit))
}

// Consume checks and records count units in one step. The limit comparison
// and the increment run as a single conditional UPDATE, so a concurrent
// Consume on the same subscription either wins the quota or is denied; the
// two can never both pass against the same stale counter. On success the
// in-memory subscription is refreshed with the new counter values.
func Consume(db *gorm.DB, sub *model.UserSubscription, kind ActionKind, count int) (CheckResult, error) {
	if check := CanPerformAction(sub, kind, count); !check.Allowed {
		return check, nil
	}

	column, err := kind.column()
	if err != nil {
		return deny("Unknown action"), nil
	}

	limit := kind.Limit(&sub.Plan)

	tx := db.Model(&model.UserSubscription{}).Where("id = ?", sub.ID)
	if limit > 0 {
		tx = tx.Where(column+" + ? <= ?", count, limit)
	}

	res := tx.Update(column, gorm.Expr(column+" + ?", count))
	if res.Error != nil {
		return CheckResult{}, res.Error
	}

	if res.RowsAffected == 0 {
		// Lost the race: another request used up the quota between our
		// check and the update. Re-read for an accurate denial message.
		if err := db.First(sub, sub.ID).Error; err != nil {
			return CheckResult{}, err
		}
		return CanPerformAction(sub, kind, count), nil
	}

	if err := db.First(sub, sub.ID).Error; err != nil {
		return CheckResult{}, err
	}
	return CheckResult{Allowed: true}, nil
}

// IncrementUsage adds count units without re-validating the limit. It is
// for callers that already hold the gate, such as the unlock path where
// winning the unique-record insert is the authorization.
func IncrementUsage(db *gorm.DB, sub *model.UserSubscription, kind ActionKind, count int) error {
	column, err := kind.column()
	if err != nil {
		return err
	}

	if err := db.Model(&model.UserSubscription{}).
		Where("id = ?", sub.ID).
		Update(column, gorm.Expr(column+" + ?", count)).Error; err != nil {
		return err
	}

	return db.First(sub, sub.ID).Error
}

// ResetUsage zeroes all usage counters for a new billing period. Rollover
// is driven externally; nothing in this package schedules it.
func ResetUsage(db *gorm.DB, subscriptionID uint) error {
	return db.Model(&model.UserSubscription{}).
		Where("id = ?", subscriptionID).
		Updates(map[string]interface{}{
			"job_postings_used":   0,
			"featured_jobs_used":  0,
			"resume_credits_used": 0,
		}).Error
}
