// Package testsupport builds migrated sqlite databases and seed rows for
// package tests.
package testsupport

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/innio31/Impact-Digital-Academy-sub022/infra/database"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/domain"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Password is the plain password of every user created by CreateUser.
const Password = "correct-horse-battery"

// Today is the fixed "now" used by tests that depend on the calendar.
var Today = time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)

func Now() time.Time { return Today }

func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// OpenDB returns a migrated sqlite database in the test's temp dir.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "academy.db")
	db, err := database.Open("sqlite", path, Logger())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func NewStore(t testing.TB) (repository.Store, *gorm.DB) {
	t.Helper()
	db := OpenDB(t)
	return repository.NewStore(db), db
}

var passwordHash string

func hashed(t testing.TB) string {
	t.Helper()
	if passwordHash == "" {
		h, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("hash password: %v", err)
		}
		passwordHash = string(h)
	}
	return passwordHash
}

// CreateUser inserts a user and links the given role codes.
func CreateUser(t testing.TB, db *gorm.DB, email, first, last string, status domain.UserStatus, roles ...string) *domain.User {
	t.Helper()

	user := &domain.User{
		Email:        email,
		PasswordHash: hashed(t),
		FirstName:    first,
		LastName:     last,
		Status:       status,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	for _, code := range roles {
		var role domain.Role
		if err := db.Where("code = ?", code).First(&role).Error; err != nil {
			t.Fatalf("role %s: %v", code, err)
		}
		if err := db.Create(&domain.UserRole{UserID: user.ID, RoleID: role.ID}).Error; err != nil {
			t.Fatalf("link role %s: %v", code, err)
		}
	}
	return user
}

func CreateAdmin(t testing.TB, db *gorm.DB) *domain.User {
	t.Helper()
	return CreateUser(t, db, "admin@academy.test", "Ada", "Okafor", domain.UserStatusActive, domain.RoleAdmin)
}

func CreateProgram(t testing.TB, db *gorm.DB, code, name string, kind domain.ProgramType, fee float64) *domain.Program {
	t.Helper()

	program := &domain.Program{
		Code:        code,
		Name:        name,
		ProgramType: kind,
		FeeAmount:   fee,
		Status:      "active",
	}
	if err := db.Create(program).Error; err != nil {
		t.Fatalf("create program %s: %v", code, err)
	}
	return program
}

func CreateBatch(t testing.TB, db *gorm.DB, programID uint, name, code string, start time.Time, status domain.ClassBatchStatus) *domain.ClassBatch {
	t.Helper()

	end := start.AddDate(0, 3, 0)
	batch := &domain.ClassBatch{
		ProgramID: programID,
		Name:      name,
		BatchCode: code,
		StartDate: start,
		EndDate:   &end,
		Status:    status,
	}
	if err := db.Omit("Program").Create(batch).Error; err != nil {
		t.Fatalf("create batch %s: %v", code, err)
	}
	return batch
}

func CreateApplication(t testing.TB, db *gorm.DB, userID uint, as domain.ApplicantRole, programID *uint, status domain.ApplicationStatus) *domain.Application {
	t.Helper()

	app := &domain.Application{
		UserID:     userID,
		ApplyingAs: as,
		ProgramID:  programID,
		Status:     status,
		Motivation: "I want to learn and teach digital skills.",
	}
	if err := repository.NewApplicationRepository(db).Create(context.Background(), app); err != nil {
		t.Fatalf("create application: %v", err)
	}
	return app
}

// Days returns Today shifted by n days at midnight UTC.
func Days(n int) time.Time {
	y, m, d := Today.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, time.UTC)
}

func Ptr[T any](v T) *T { return &v }
