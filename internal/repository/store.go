package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories bound to one connection or transaction.
type Store interface {
	Applications() ApplicationRepository
	Users() UserRepository
	Roles() RoleRepository
	UserRoles() UserRoleRepository
	Classes() ClassRepository
	Enrollments() EnrollmentRepository
	Finance() FinanceRepository
	Notifications() NotificationRepository
	Audit() AuditRepository

	// Transaction runs fn against a Store bound to a single database
	// transaction. Any error returned by fn rolls the whole unit back.
	Transaction(ctx context.Context, fn func(Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Applications() ApplicationRepository   { return NewApplicationRepository(s.db) }
func (s *gormStore) Users() UserRepository                 { return NewUserRepository(s.db) }
func (s *gormStore) Roles() RoleRepository                 { return NewRoleRepository(s.db) }
func (s *gormStore) UserRoles() UserRoleRepository         { return NewUserRoleRepository(s.db) }
func (s *gormStore) Classes() ClassRepository              { return NewClassRepository(s.db) }
func (s *gormStore) Enrollments() EnrollmentRepository     { return NewEnrollmentRepository(s.db) }
func (s *gormStore) Finance() FinanceRepository            { return NewFinanceRepository(s.db) }
func (s *gormStore) Notifications() NotificationRepository { return NewNotificationRepository(s.db) }
func (s *gormStore) Audit() AuditRepository                { return NewAuditRepository(s.db) }

func (s *gormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
