package domain

import (
	"time"

	"gorm.io/gorm"
)

type ProgramType string

const (
	ProgramTypeOnline ProgramType = "online"
	ProgramTypeOnsite ProgramType = "onsite"
	ProgramTypeSchool ProgramType = "school"
)

type Program struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string      `gorm:"type:varchar(255);not null" json:"name"`
	ProgramType ProgramType `gorm:"type:varchar(20);not null;default:online" json:"program_type"`
	FeeAmount   float64     `gorm:"not null;default:0" json:"fee_amount"`
	Status      string      `gorm:"type:varchar(20);not null;default:active" json:"status"`
	gorm.Model
}

type ClassBatchStatus string

const (
	ClassScheduled ClassBatchStatus = "scheduled"
	ClassOngoing   ClassBatchStatus = "ongoing"
	ClassCompleted ClassBatchStatus = "completed"
	ClassCancelled ClassBatchStatus = "cancelled"
)

// ClassBatch is a scheduled running instance of a program's course.
type ClassBatch struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	ProgramID    uint             `gorm:"not null;index:idx_class_program_start" json:"program_id"`
	Name         string           `gorm:"type:varchar(255);not null" json:"name"`
	BatchCode    string           `gorm:"type:varchar(50);uniqueIndex" json:"batch_code"`
	InstructorID *uint            `json:"instructor_id,omitempty"`
	StartDate    time.Time        `gorm:"not null;index:idx_class_program_start" json:"start_date"`
	EndDate      *time.Time       `json:"end_date,omitempty"`
	Status       ClassBatchStatus `gorm:"type:varchar(20);not null;default:scheduled" json:"status"`

	Program *Program `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
	gorm.Model
}

func (ClassBatch) TableName() string {
	return "class_batches"
}
