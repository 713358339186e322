package model

import (
	"time"

	"gorm.io/gorm"
)

// UnlockedResume records that a recruiter spent a resume credit on a
// candidate. At most one row ever exists per (recruiter, candidate) pair;
// the composite unique index is what arbitrates concurrent unlock attempts.
// Rows are immutable once created.
type UnlockedResume struct {
	gorm.Model
	RecruiterID uint `json:"recruiter_id" gorm:"uniqueIndex:idx_recruiter_candidate;not null"`
	CandidateID uint `json:"candidate_id" gorm:"uniqueIndex:idx_recruiter_candidate;not null"`
	JobID       uint `json:"job_id"`

	CreditsUsed int        `json:"credits_used" gorm:"not null;default:1"`
	UnlockedAt  time.Time  `json:"unlocked_at"`
	ExpiresAt   *time.Time `json:"expires_at"`

	// Relations
	Recruiter User `json:"-" gorm:"foreignKey:RecruiterID"`
	Candidate User `json:"-" gorm:"foreignKey:CandidateID"`
}

// IsAccessible reports whether the unlock still grants access. A nil
// expires_at means perpetual access.
func (u *UnlockedResume) IsAccessible() bool {
	return u.ExpiresAt == nil || u.ExpiresAt.After(time.Now())
}
