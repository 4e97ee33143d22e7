package domain

import (
	"time"

	"gorm.io/gorm"
)

type ApplicationStatus string

const (
	ApplicationPending     ApplicationStatus = "pending"
	ApplicationUnderReview ApplicationStatus = "under_review"
	ApplicationApproved    ApplicationStatus = "approved"
	ApplicationRejected    ApplicationStatus = "rejected"
)

// ApplicationStatuses is the closed set of review states.
var ApplicationStatuses = []ApplicationStatus{
	ApplicationPending,
	ApplicationUnderReview,
	ApplicationApproved,
	ApplicationRejected,
}

func (s ApplicationStatus) Valid() bool {
	for _, v := range ApplicationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Decisive reports whether the status carries user-facing side effects.
func (s ApplicationStatus) Decisive() bool {
	return s == ApplicationApproved || s == ApplicationRejected
}

type ApplicantRole string

const (
	ApplyingAsStudent    ApplicantRole = "student"
	ApplyingAsInstructor ApplicantRole = "instructor"
)

// RoleCode maps the applicant role onto the seeded role codes.
func (r ApplicantRole) RoleCode() string {
	if r == ApplyingAsInstructor {
		return RoleInstructor
	}
	return RoleStudent
}

type Application struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	UserID     uint              `gorm:"not null;index" json:"user_id"`
	ApplyingAs ApplicantRole     `gorm:"type:varchar(20);not null" json:"applying_as"`
	ProgramID  *uint             `gorm:"index" json:"program_id,omitempty"`
	Status     ApplicationStatus `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`
	Motivation string            `gorm:"type:text" json:"motivation,omitempty"`

	// review notes are an append-only log
	ReviewNotes string     `gorm:"type:text" json:"review_notes,omitempty"`
	ReviewedBy  *uint      `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`

	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Program *Program `gorm:"foreignKey:ProgramID" json:"program,omitempty"`

	gorm.Model
}

// MarkReviewed sets reviewer and review time together.
func (a *Application) MarkReviewed(reviewerID uint, at time.Time) {
	a.ReviewedBy = &reviewerID
	a.ReviewedAt = &at
}
