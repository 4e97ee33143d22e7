package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/innio31/Impact-Digital-Academy-sub022/internal/domain"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/repository"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const academyName = "Impact Digital Academy"

const classDateLayout = "January 2, 2006"

// NotificationService persists in-app notifications and serves the user's inbox.
type NotificationService struct {
	store repository.Store
	log   *slog.Logger
}

func NewNotificationService(store repository.Store, logger *slog.Logger) *NotificationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationService{store: store, log: logger}
}

// Notify stores a notification through tx so it shares the caller's transaction.
func (s *NotificationService) Notify(ctx context.Context, tx repository.Store, userID uint, title, message string, relatedApplicationID uint) (*domain.Notification, error) {
	n := &domain.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    domain.NotificationTypeApplication,
	}
	if relatedApplicationID != 0 {
		n.RelatedID = &relatedApplicationID
	}
	if err := tx.Notifications().Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

func (s *NotificationService) List(ctx context.Context, userID uint, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	return s.store.Notifications().ListByUser(ctx, userID, unreadOnly, limit, offset)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	if userID == 0 {
		return ErrUnauthorized
	}
	err := s.store.Notifications().MarkRead(ctx, userID, notificationID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotificationMissing
	}
	return err
}

func roleTitle(role domain.ApplicantRole) string {
	return cases.Title(language.English).String(string(role))
}

// approvalMessage picks the approval text for the enrollment outcome.
func approvalMessage(role domain.ApplicantRole, outcome EnrollmentOutcome) (string, string) {
	title := "Application Approved"
	base := fmt.Sprintf("Congratulations! Your application to join %s as a %s has been approved.", academyName, roleTitle(role))

	if role == domain.ApplyingAsInstructor {
		return title, base + " You can now log in to access the instructor dashboard."
	}

	switch outcome.Kind {
	case EnrollmentCreated:
		return title, fmt.Sprintf("%s You have been enrolled in %s, starting on %s. You can now log in to access your class.",
			base, className(outcome.Class), outcome.Class.StartDate.Format(classDateLayout))
	case EnrollmentAlreadyExists:
		return title, fmt.Sprintf("%s You are already enrolled in %s, starting on %s.",
			base, className(outcome.Class), outcome.Class.StartDate.Format(classDateLayout))
	default:
		return title, base + " Please contact the administration to complete your class enrollment."
	}
}

func rejectionMessage(role domain.ApplicantRole, reason string) (string, string) {
	msg := fmt.Sprintf("We regret to inform you that your application to join %s as a %s was not approved.", academyName, roleTitle(role))
	if reason = strings.TrimSpace(reason); reason != "" {
		msg += " Reason: " + reason
	}
	return "Application Status Update", msg
}

func className(batch *domain.ClassBatch) string {
	if batch == nil {
		return ""
	}
	if batch.BatchCode != "" {
		return fmt.Sprintf("%s (%s)", batch.Name, batch.BatchCode)
	}
	return batch.Name
}
