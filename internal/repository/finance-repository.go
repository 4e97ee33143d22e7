package repository

import (
	"context"

	"github.com/innio31/Impact-Digital-Academy-sub022/internal/domain"
	"gorm.io/gorm"
)

type FinanceRepository interface {
	CreateInitialRecord(ctx context.Context, record *domain.StudentFinancialStatus) error
}

type financeRepository struct {
	db *gorm.DB
}

func NewFinanceRepository(db *gorm.DB) FinanceRepository {
	return &financeRepository{db: db}
}

// CreateInitialRecord runs inside a nested transaction so a failure only rolls
// back to its own savepoint and leaves the enclosing transaction usable.
func (f *financeRepository) CreateInitialRecord(ctx context.Context, record *domain.StudentFinancialStatus) error {
	if record.Status == "" {
		record.Status = domain.FinancialPending
	}
	record.Balance = record.TotalFee - record.PaidAmount

	return f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(record).Error
	})
}
