package repository

import (
	"context"

	"github.com/innio31/Impact-Digital-Academy-sub022/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository interface {
	FindByStudentAndClass(ctx context.Context, studentID, classID uint) (*domain.Enrollment, error)
	CreateIfAbsent(ctx context.Context, enrollment *domain.Enrollment) (bool, error)
	ListByStudent(ctx context.Context, studentID uint) ([]domain.Enrollment, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (e *enrollmentRepository) FindByStudentAndClass(ctx context.Context, studentID, classID uint) (*domain.Enrollment, error) {
	var enrollment domain.Enrollment
	err := e.db.WithContext(ctx).
		Where("student_id = ? AND class_id = ?", studentID, classID).
		First(&enrollment).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &enrollment, nil
}

// CreateIfAbsent inserts the enrollment unless one already exists for the same
// (student_id, class_id). The unique index makes the check atomic, so two
// concurrent approvals cannot both insert. created is false when the row was
// already there.
func (e *enrollmentRepository) CreateIfAbsent(ctx context.Context, enrollment *domain.Enrollment) (bool, error) {
	res := e.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "class_id"}},
			DoNothing: true,
		}).
		Create(enrollment)
	if res.Error != nil {
		if IsUniqueViolation(res.Error) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (e *enrollmentRepository) ListByStudent(ctx context.Context, studentID uint) ([]domain.Enrollment, error) {
	var enrollments []domain.Enrollment
	err := e.db.WithContext(ctx).
		Preload("Class").
		Where("student_id = ?", studentID).
		Order("enrollment_date DESC, id DESC").
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}
