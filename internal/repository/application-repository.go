package repository

import (
	"context"
	"strings"
	"time"

	"github.com/innio31/Impact-Digital-Academy-sub022/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApplicationFilter narrows the admin application listing. Zero values mean
// "no constraint".
type ApplicationFilter struct {
	Status     domain.ApplicationStatus
	ApplyingAs domain.ApplicantRole
	ProgramID  uint
	Search     string
	Limit      int
	Offset     int
}

type ApplicationRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Application, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*domain.Application, error)
	List(ctx context.Context, filter ApplicationFilter) ([]domain.Application, int64, error)
	CountByStatus(ctx context.Context) (map[domain.ApplicationStatus]int64, error)
	Create(ctx context.Context, app *domain.Application) error
	UpdateReview(ctx context.Context, id uint, status domain.ApplicationStatus, reviewerID uint, reviewedAt time.Time, notes string) error
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (a *applicationRepository) FindByID(ctx context.Context, id uint) (*domain.Application, error) {
	var app domain.Application
	err := a.db.WithContext(ctx).
		Preload("User").
		Preload("Program").
		First(&app, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &app, nil
}

// FindByIDForUpdate row-locks the application on databases that support it;
// sqlite ignores the locking clause.
func (a *applicationRepository) FindByIDForUpdate(ctx context.Context, id uint) (*domain.Application, error) {
	var app domain.Application
	q := a.db.WithContext(ctx)
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(&app, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &app, nil
}

func (a *applicationRepository) List(ctx context.Context, filter ApplicationFilter) ([]domain.Application, int64, error) {
	q := a.db.WithContext(ctx).Model(&domain.Application{})

	if filter.Status != "" {
		q = q.Where("applications.status = ?", filter.Status)
	}
	if filter.ApplyingAs != "" {
		q = q.Where("applications.applying_as = ?", filter.ApplyingAs)
	}
	if filter.ProgramID != 0 {
		q = q.Where("applications.program_id = ?", filter.ProgramID)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Joins("JOIN users ON users.id = applications.user_id").
			Where("LOWER(users.email) LIKE ? OR LOWER(users.first_name) LIKE ? OR LOWER(users.last_name) LIKE ?", like, like, like)
	}

	// count and page from the same filtered base
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []domain.Application
	page := q.Preload("User").Preload("Program").Order("applications.created_at DESC, applications.id DESC")
	if filter.Limit > 0 {
		page = page.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := page.Find(&apps).Error; err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

func (a *applicationRepository) CountByStatus(ctx context.Context) (map[domain.ApplicationStatus]int64, error) {
	var rows []struct {
		Status domain.ApplicationStatus
		Total  int64
	}
	err := a.db.WithContext(ctx).
		Model(&domain.Application{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[domain.ApplicationStatus]int64, len(domain.ApplicationStatuses))
	for _, s := range domain.ApplicationStatuses {
		out[s] = 0
	}
	for _, r := range rows {
		out[r.Status] = r.Total
	}
	return out, nil
}

func (a *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	if app.Status == "" {
		app.Status = domain.ApplicationPending
	}
	return a.db.WithContext(ctx).Omit(clause.Associations).Create(app).Error
}

// UpdateReview writes status, reviewer and timestamp in one statement so the
// reviewer fields never diverge. notes replaces the whole log; callers append.
func (a *applicationRepository) UpdateReview(ctx context.Context, id uint, status domain.ApplicationStatus, reviewerID uint, reviewedAt time.Time, notes string) error {
	res := a.db.WithContext(ctx).Model(&domain.Application{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       status,
			"reviewed_by":  reviewerID,
			"reviewed_at":  reviewedAt,
			"review_notes": notes,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
