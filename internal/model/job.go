package model

import (
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Job Status
type JobStatus string

const (
	JobStatusOpen   JobStatus = "Open"
	JobStatusClosed JobStatus = "Closed"
	JobStatusDraft  JobStatus = "Draft"
)

// Job Types
type JobType string

const (
	JobTypeFullTime JobType = "Full Time"
	JobTypePartTime JobType = "Part Time"
	JobTypeContract JobType = "Contract"
	JobTypeRemote   JobType = "Remote"
)

type Job struct {
	gorm.Model
	Title       string    `json:"title" gorm:"not null"`
	Slug        string    `json:"slug" gorm:"uniqueIndex:idx_employer_job_slug;not null"`
	Type        JobType   `json:"type" gorm:"not null"`
	Status      JobStatus `json:"status" gorm:"not null;default:'Open'"`
	Description string    `json:"description" gorm:"type:text"`
	Location    string    `json:"location"`
	SalaryMin   float64   `json:"salary_min"`
	SalaryMax   float64   `json:"salary_max"`
	IsFeatured  bool      `json:"is_featured" gorm:"default:false"`

	EmployerID uint `json:"employer_id" gorm:"uniqueIndex:idx_employer_job_slug"`

	// Relations
	Employer User `json:"-" gorm:"foreignKey:EmployerID"`
}

// BeforeCreate fills the slug from the title when none was supplied.
func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.Slug == "" {
		s := slug.Make(j.Title)

		var count int64
		tx.Model(&Job{}).Where("employer_id = ? AND slug = ?", j.EmployerID, s).Count(&count)
		if count > 0 {
			s = s + "-" + j.CreatedAt.Format("20060102")
		}

		j.Slug = s
	}
	return nil
}
