package model

import (
	"strings"

	"gorm.io/gorm"
)

// User Roles
type UserRole string

const (
	UserRoleRecruiter UserRole = "recruiter"
	UserRoleCandidate UserRole = "candidate"
	UserRoleAdmin     UserRole = "admin"
)

type User struct {
	gorm.Model
	Email    string   `gorm:"uniqueIndex;not null"`
	Password string   `gorm:"not null"`
	Username string   `gorm:"uniqueIndex;not null"`
	Role     UserRole `json:"role" gorm:"not null;default:'candidate'"`

	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	CompanyName string `json:"company_name"`
	Title       string `json:"title"`
	PhoneNumber string `json:"phone_number"`

	// Candidates only: S3 object key of the uploaded resume file.
	ResumeKey string `json:"-"`

	// Relations
	Jobs          []Job              `json:"-" gorm:"foreignKey:EmployerID"`
	Subscriptions []UserSubscription `json:"-" gorm:"foreignKey:UserID"`
}

func (u *User) GetFullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) GetPublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":           u.ID,
		"username":     u.Username,
		"role":         u.Role,
		"full_name":    u.GetFullName(),
		"company_name": u.CompanyName,
		"title":        u.Title,
		"phone_number": u.PhoneNumber,
	}
}
