package domain

import "time"

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentDropped   EnrollmentStatus = "dropped"
	EnrollmentSuspended EnrollmentStatus = "suspended"
)

// Enrollment has no soft delete so the (student_id, class_id) unique index
// stays authoritative.
type Enrollment struct {
	ID             uint             `gorm:"primaryKey" json:"id"`
	StudentID      uint             `gorm:"not null;uniqueIndex:uidx_enrollments_student_class" json:"student_id"`
	ClassID        uint             `gorm:"not null;uniqueIndex:uidx_enrollments_student_class;index" json:"class_id"`
	EnrollmentDate time.Time        `gorm:"not null" json:"enrollment_date"`
	Status         EnrollmentStatus `gorm:"type:varchar(20);not null;default:active" json:"status"`
	ProgramType    ProgramType      `gorm:"type:varchar(20)" json:"program_type"`
	CreatedAt      time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"autoUpdateTime" json:"updated_at"`

	Class *ClassBatch `gorm:"foreignKey:ClassID" json:"class,omitempty"`
}

type FinancialStatus string

const (
	FinancialPending FinancialStatus = "pending"
	FinancialPartial FinancialStatus = "partial"
	FinancialPaid    FinancialStatus = "paid"
)

// StudentFinancialStatus tracks the fee balance of one enrollment.
type StudentFinancialStatus struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	StudentID    uint            `gorm:"not null;index" json:"student_id"`
	ClassID      uint            `gorm:"not null;index" json:"class_id"`
	EnrollmentID uint            `gorm:"not null;uniqueIndex" json:"enrollment_id"`
	TotalFee     float64         `gorm:"not null;default:0" json:"total_fee"`
	PaidAmount   float64         `gorm:"not null;default:0" json:"paid_amount"`
	Balance      float64         `gorm:"not null;default:0" json:"balance"`
	Status       FinancialStatus `gorm:"type:varchar(20);not null;default:pending" json:"status"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (StudentFinancialStatus) TableName() string {
	return "student_financial_status"
}
