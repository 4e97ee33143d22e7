package repository

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/innio31/Impact-Digital-Academy-sub022/internal/domain"
	"gorm.io/gorm"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserById(ctx context.Context, userID uint) (*domain.User, error)
	SetStatus(ctx context.Context, userID uint, status domain.UserStatus) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("nil user")
	}

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		slog.Warn("create user failed", "email", user.Email, "error", err)
		return nil, err
	}

	return user, nil
}

func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user := &domain.User{}

	email = strings.ToLower(strings.TrimSpace(email))
	if err := r.db.WithContext(ctx).First(user, "email = ?", email).Error; err != nil {
		return nil, notFound(err)
	}

	return user, nil
}

func (r *userRepository) FindUserById(ctx context.Context, userID uint) (*domain.User, error) {
	user := &domain.User{}

	if err := r.db.WithContext(ctx).First(user, userID).Error; err != nil {
		return nil, notFound(err)
	}

	return user, nil
}

func (r *userRepository) SetStatus(ctx context.Context, userID uint, status domain.UserStatus) error {
	res := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
