package repository

import (
	"context"
	"time"

	"github.com/innio31/Impact-Digital-Academy-sub022/internal/domain"
	"gorm.io/gorm"
)

type ClassRepository interface {
	FindProgram(ctx context.Context, programID uint) (*domain.Program, error)
	NextScheduledBatch(ctx context.Context, programID uint, today time.Time) (*domain.ClassBatch, error)
}

type classRepository struct {
	db *gorm.DB
}

func NewClassRepository(db *gorm.DB) ClassRepository {
	return &classRepository{db: db}
}

func (c *classRepository) FindProgram(ctx context.Context, programID uint) (*domain.Program, error) {
	var program domain.Program
	if err := c.db.WithContext(ctx).First(&program, programID).Error; err != nil {
		return nil, notFound(err)
	}
	return &program, nil
}

// NextScheduledBatch returns the earliest scheduled batch of the program
// starting on or after today. ErrNotFound means no batch is available.
func (c *classRepository) NextScheduledBatch(ctx context.Context, programID uint, today time.Time) (*domain.ClassBatch, error) {
	var batch domain.ClassBatch
	err := c.db.WithContext(ctx).
		Where("program_id = ? AND status = ? AND start_date >= ?", programID, domain.ClassScheduled, today).
		Order("start_date ASC, id ASC").
		First(&batch).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &batch, nil
}
