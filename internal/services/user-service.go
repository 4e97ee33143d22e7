package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/innio31/Impact-Digital-Academy-sub022/internal/domain"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/dto"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/helper"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/repository"
)

type UserService interface {
	Login(ctx context.Context, input dto.UserLogin) (*dto.LoginResponse, error)
	GetProfile(ctx context.Context, userID uint) (*dto.UserProfileWithRoles, error)
	IsAdmin(ctx context.Context, userID uint) (bool, error)
	// CreateStaff registers an active account holding roleCode.
	CreateStaff(ctx context.Context, email, password, firstName, lastName, roleCode string) (*domain.User, error)
}

type userService struct {
	store repository.Store
	auth  helper.Auth
	log   *slog.Logger
}

func NewUserService(store repository.Store, auth helper.Auth, logger *slog.Logger) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &userService{store: store, auth: auth, log: logger}
}

func (u *userService) Login(ctx context.Context, input dto.UserLogin) (*dto.LoginResponse, error) {
	email := helper.NormalizeEmail(input.Email)
	password := strings.TrimSpace(input.Password)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := u.store.Users().FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := u.auth.VerifyPassword(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Status != domain.UserStatusActive {
		return nil, ErrAccountInactive
	}

	roles, err := u.roleCodes(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	token, err := u.auth.GenerateToken(user.ID, user.Email, roles)
	if err != nil {
		return nil, err
	}

	userID := user.ID
	if err := u.store.Audit().Record(ctx, &domain.AuditLog{
		ActorID:     user.ID,
		Action:      domain.AuditActionLogin,
		Description: "User logged in",
		Entity:      "users",
		EntityID:    &userID,
	}); err != nil {
		u.log.Warn("login audit not recorded", "user_id", user.ID, "error", err)
	}

	return &dto.LoginResponse{
		Token: token,
		User:  toProfile(user),
	}, nil
}

func (u *userService) GetProfile(ctx context.Context, userID uint) (*dto.UserProfileWithRoles, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	user, err := u.store.Users().FindUserById(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	roles, err := u.roleCodes(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.UserProfileWithRoles{UserProfileResponse: toProfile(user), Roles: roles}, nil
}

func (u *userService) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	if userID == 0 {
		return false, errors.New("invalid user id")
	}
	return u.store.UserRoles().UserHasRole(ctx, userID, domain.RoleAdmin)
}

func (u *userService) CreateStaff(ctx context.Context, email, password, firstName, lastName, roleCode string) (*domain.User, error) {
	email = helper.NormalizeEmail(email)
	if email == "" {
		return nil, errors.New("email is required")
	}
	hashed, err := u.auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	roleCode = strings.ToUpper(strings.TrimSpace(roleCode))

	var created *domain.User
	err = u.store.Transaction(ctx, func(tx repository.Store) error {
		role, err := tx.Roles().FindByCode(ctx, roleCode)
		if err != nil {
			return fmt.Errorf("role %s: %w", roleCode, err)
		}
		user, err := tx.Users().CreateUser(ctx, &domain.User{
			Email:        email,
			PasswordHash: hashed,
			FirstName:    strings.TrimSpace(firstName),
			LastName:     strings.TrimSpace(lastName),
			Status:       domain.UserStatusActive,
		})
		if err != nil {
			if repository.IsUniqueViolation(err) {
				return fmt.Errorf("email %s already registered", email)
			}
			return err
		}
		if err := tx.UserRoles().ReplaceUserRoles(ctx, user.ID, []uint{role.ID}); err != nil {
			return err
		}
		created = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (u *userService) roleCodes(ctx context.Context, userID uint) ([]string, error) {
	roles, err := u.store.UserRoles().GetRolesByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(roles))
	for _, r := range roles {
		codes = append(codes, r.Code)
	}
	return codes, nil
}

func toProfile(user *domain.User) dto.UserProfileResponse {
	return dto.UserProfileResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Status:    string(user.Status),
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}
