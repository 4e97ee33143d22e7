package repository

import (
	"context"

	"github.com/innio31/Impact-Digital-Academy-sub022/internal/domain"
	"gorm.io/gorm"
)

type AuditRepository interface {
	Record(ctx context.Context, entry *domain.AuditLog) error
	ListByEntity(ctx context.Context, entity string, entityID uint) ([]domain.AuditLog, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (a *auditRepository) Record(ctx context.Context, entry *domain.AuditLog) error {
	return a.db.WithContext(ctx).Create(entry).Error
}

func (a *auditRepository) ListByEntity(ctx context.Context, entity string, entityID uint) ([]domain.AuditLog, error) {
	var out []domain.AuditLog
	err := a.db.WithContext(ctx).
		Where("entity = ? AND entity_id = ?", entity, entityID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
