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

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = time.RFC3339
)

// ListQuery is the admin listing request after query-string parsing.
type ListQuery struct {
	Status     string
	ApplyingAs string
	ProgramID  uint
	Search     string
	Paging     helper.Paging
}

// ApplicationService serves the read side of the admin application screens.
type ApplicationService struct {
	store repository.Store
	log   *slog.Logger
}

func NewApplicationService(store repository.Store, logger *slog.Logger) *ApplicationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ApplicationService{store: store, log: logger}
}

func (s *ApplicationService) List(ctx context.Context, q ListQuery) (*dto.ApplicationListResponse, error) {
	filter := repository.ApplicationFilter{
		ProgramID: q.ProgramID,
		Search:    strings.TrimSpace(q.Search),
		Limit:     q.Paging.Limit,
		Offset:    q.Paging.Offset,
	}
	if q.Status != "" {
		status, err := ParseStatus(q.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}
	if q.ApplyingAs != "" {
		role := domain.ApplicantRole(strings.ToLower(strings.TrimSpace(q.ApplyingAs)))
		if role != domain.ApplyingAsStudent && role != domain.ApplyingAsInstructor {
			return nil, fmt.Errorf("%w: applying_as %q", ErrInvalidFilter, q.ApplyingAs)
		}
		filter.ApplyingAs = role
	}

	apps, total, err := s.store.Applications().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	items := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		items = append(items, toApplicationResponse(&apps[i]))
	}
	return &dto.ApplicationListResponse{
		Items:      items,
		Pagination: helper.BuildPagination(total, q.Paging),
	}, nil
}

// Get returns one application with the applicant's enrollments, the
// notifications sent about it and the review history from the audit log.
func (s *ApplicationService) Get(ctx context.Context, id uint) (*dto.ApplicationDetailResponse, error) {
	app, err := s.store.Applications().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}

	enrollments, err := s.store.Enrollments().ListByStudent(ctx, app.UserID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	sent, err := s.store.Notifications().ListByRelated(ctx, app.UserID, app.ID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	history, err := s.store.Audit().ListByEntity(ctx, "applications", app.ID)
	if err != nil {
		return nil, fmt.Errorf("list review history: %w", err)
	}

	resp := &dto.ApplicationDetailResponse{
		ApplicationResponse: toApplicationResponse(app),
		Motivation:          app.Motivation,
		Enrollments:         make([]dto.EnrollmentResponse, 0, len(enrollments)),
		Notifications:       ToNotificationResponses(sent),
		History:             make([]dto.AuditEntryResponse, 0, len(history)),
	}
	for _, e := range enrollments {
		er := dto.EnrollmentResponse{
			ID:             e.ID,
			ClassID:        e.ClassID,
			Status:         string(e.Status),
			EnrollmentDate: e.EnrollmentDate.Format(dateLayout),
		}
		if e.Class != nil {
			er.ClassName = className(e.Class)
		}
		resp.Enrollments = append(resp.Enrollments, er)
	}
	for _, h := range history {
		resp.History = append(resp.History, dto.AuditEntryResponse{
			ActorID:     h.ActorID,
			Action:      h.Action,
			Description: h.Description,
			CreatedAt:   h.CreatedAt.Format(dateTimeLayout),
		})
	}
	return resp, nil
}

func (s *ApplicationService) Stats(ctx context.Context) (*dto.ApplicationStatsResponse, error) {
	counts, err := s.store.Applications().CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count applications: %w", err)
	}

	resp := &dto.ApplicationStatsResponse{ByStatus: make(map[string]int64, len(counts))}
	for status, n := range counts {
		resp.ByStatus[string(status)] = n
		resp.Total += n
	}
	return resp, nil
}

func toApplicationResponse(app *domain.Application) dto.ApplicationResponse {
	resp := dto.ApplicationResponse{
		ID:          app.ID,
		ApplyingAs:  string(app.ApplyingAs),
		Status:      string(app.Status),
		ProgramID:   app.ProgramID,
		ReviewNotes: app.ReviewNotes,
		ReviewedBy:  app.ReviewedBy,
		CreatedAt:   app.CreatedAt.Format(dateTimeLayout),
	}
	if app.ReviewedAt != nil {
		at := app.ReviewedAt.Format(dateTimeLayout)
		resp.ReviewedAt = &at
	}
	if app.Program != nil {
		resp.ProgramName = app.Program.Name
	}
	if app.User != nil {
		resp.Applicant = &dto.ApplicantResponse{
			ID:     app.User.ID,
			Email:  app.User.Email,
			Name:   app.User.FullName(),
			Status: string(app.User.Status),
		}
	}
	return resp
}

func toNotificationResponse(n domain.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		RelatedID: n.RelatedID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(dateTimeLayout),
	}
}

// ToNotificationResponses maps an inbox page for the API.
func ToNotificationResponses(list []domain.Notification) []dto.NotificationResponse {
	out := make([]dto.NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, toNotificationResponse(n))
	}
	return out
}
