// Package resume is the unlock registry for recruiter access to candidate
// resumes. One resume credit buys access to one candidate, exactly once,
// no matter how many times or how concurrently unlock is requested.
package resume

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Amarjit99/JobPortal-sub003/internal/model"
	"github.com/Amarjit99/JobPortal-sub003/pkg/entitlement"
)

// UnlockResult is the outcome of an unlock attempt. Denied unlocks carry a
// user-facing reason; they are expected outcomes, not errors.
type UnlockResult struct {
	Record          *model.UnlockedResume `json:"record,omitempty"`
	AlreadyUnlocked bool                  `json:"already_unlocked"`
	Denied          bool                  `json:"-"`
	Reason          string                `json:"reason,omitempty"`
}

// CheckAccess reports whether the recruiter has unlocked the candidate's
// resume and the unlock is still in effect.
func CheckAccess(db *gorm.DB, recruiterID, candidateID uint) (*model.UnlockedResume, bool, error) {
	var record model.UnlockedResume
	err := db.Where("recruiter_id = ? AND candidate_id = ?", recruiterID, candidateID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &record, record.IsAccessible(), nil
}

// Unlock spends one resume credit to give the recruiter access to the
// candidate's resume. Repeated calls for the same pair are idempotent: the
// unique (recruiter, candidate) index arbitrates concurrent attempts, the
// single insert winner is the only caller that charges the credit, and
// losers get the existing record back as a success.
func Unlock(db *gorm.DB, recruiterID, candidateID, jobID uint) (*UnlockResult, error) {
	existing, accessible, err := CheckAccess(db, recruiterID, candidateID)
	if err != nil {
		return nil, err
	}
	if existing != nil && accessible {
		return &UnlockResult{Record: existing, AlreadyUnlocked: true}, nil
	}

	sub, err := entitlement.ActiveSubscription(db, recruiterID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return &UnlockResult{Denied: true, Reason: "No active subscription"}, nil
	}

	if check := entitlement.CanPerformAction(sub, entitlement.ActionResumeCredit, 1); !check.Allowed {
		return &UnlockResult{Denied: true, Reason: check.Reason}, nil
	}

	record := model.UnlockedResume{
		RecruiterID: recruiterID,
		CandidateID: candidateID,
		JobID:       jobID,
		CreditsUsed: 1,
		UnlockedAt:  time.Now(),
	}

	if err := db.Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent unlock won the insert and already charged the
			// credit. Return its record; charging again would double-bill.
			var winner model.UnlockedResume
			if err := db.Where("recruiter_id = ? AND candidate_id = ?", recruiterID, candidateID).
				First(&winner).Error; err != nil {
				return nil, err
			}
			return &UnlockResult{Record: &winner, AlreadyUnlocked: true}, nil
		}
		return nil, err
	}

	// The insert above is the gate: only the winner reaches this point.
	if err := entitlement.IncrementUsage(db, sub, entitlement.ActionResumeCredit, 1); err != nil {
		return nil, err
	}

	return &UnlockResult{Record: &record}, nil
}
