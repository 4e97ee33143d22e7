package repository

import (
	"context"
	"errors"

	"github.com/innio31/Impact-Digital-Academy-sub022/internal/domain"
	"gorm.io/gorm"
)

type RoleRepository interface {
	FindByCode(ctx context.Context, code string) (*domain.Role, error)
	Seed(ctx context.Context, codes []string) error
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) FindByCode(ctx context.Context, code string) (*domain.Role, error) {
	var role domain.Role
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&role).Error; err != nil {
		return nil, notFound(err)
	}
	return &role, nil
}

// Seed creates any missing role rows; existing ones are left untouched.
func (r *roleRepository) Seed(ctx context.Context, codes []string) error {
	for _, code := range codes {
		var role domain.Role
		err := r.db.WithContext(ctx).Where("code = ?", code).First(&role).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := r.db.WithContext(ctx).Create(&domain.Role{Code: code, Name: code}).Error; err != nil {
			return err
		}
	}
	return nil
}
