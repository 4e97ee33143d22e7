package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/domain"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/dto"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/interfaces"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/repository"
)

const noteTimeLayout = "2006-01-02 15:04"

// ReviewRequest is one reviewer decision. ReviewerID comes from the caller's
// authenticated context.
type ReviewRequest struct {
	ApplicationID uint
	Status        domain.ApplicationStatus
	ReviewerID    uint
	Notes         string
}

// ReviewResult describes a committed decision. Warnings list side effects
// that failed without undoing the decision.
type ReviewResult struct {
	ApplicationID  uint                     `json:"application_id"`
	PreviousStatus domain.ApplicationStatus `json:"previous_status"`
	Status         domain.ApplicationStatus `json:"status"`
	ReviewedBy     uint                     `json:"reviewed_by"`
	ReviewedAt     time.Time                `json:"reviewed_at"`
	Enrollment     *EnrollmentOutcome       `json:"enrollment,omitempty"`
	NotificationID *uint                    `json:"notification_id,omitempty"`
	EmailSent      bool                     `json:"email_sent"`
	Warnings       []string                 `json:"warnings,omitempty"`
}

type ReviewOptions struct {
	// ResendOnReapproval re-sends the decision notification and email when an
	// application is set to the status it already has.
	ResendOnReapproval bool
	Now                func() time.Time
}

type ReviewService struct {
	store       repository.Store
	enrollments *EnrollmentService
	notifier    *NotificationService
	mailer      interfaces.EmailSender
	log         *slog.Logger
	opts        ReviewOptions
}

func NewReviewService(
	store repository.Store,
	enrollments *EnrollmentService,
	notifier *NotificationService,
	mailer interfaces.EmailSender,
	logger *slog.Logger,
	opts ReviewOptions,
) *ReviewService {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ReviewService{
		store:       store,
		enrollments: enrollments,
		notifier:    notifier,
		mailer:      mailer,
		log:         logger,
		opts:        opts,
	}
}

// ParseStatus normalizes a user-supplied status.
func ParseStatus(raw string) (domain.ApplicationStatus, error) {
	status := domain.ApplicationStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return status, nil
}

// Review applies a decision. Status, user changes, enrollment and
// notification are written in one transaction; the decision email and the
// audit entry follow the commit and only produce warnings on failure.
func (s *ReviewService) Review(ctx context.Context, req ReviewRequest) (*ReviewResult, error) {
	status, err := ParseStatus(string(req.Status))
	if err != nil {
		return nil, err
	}
	if req.ReviewerID == 0 {
		return nil, ErrUnauthorized
	}

	now := s.opts.Now()
	result := &ReviewResult{
		ApplicationID: req.ApplicationID,
		Status:        status,
		ReviewedBy:    req.ReviewerID,
		ReviewedAt:    now,
	}
	var email *dto.ApplicationDecisionEvent

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		// reset per attempt
		result.Warnings = nil
		result.Enrollment = nil
		result.NotificationID = nil
		email = nil

		app, err := tx.Applications().FindByIDForUpdate(ctx, req.ApplicationID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrApplicationNotFound
			}
			return fmt.Errorf("load application: %w", err)
		}
		result.PreviousStatus = app.Status
		changed := app.Status != status

		reviewerName, err := s.reviewerName(ctx, tx, req.ReviewerID)
		if err != nil {
			return err
		}

		notes := appendReviewNote(app.ReviewNotes, now, reviewerName, req.Notes)
		if err := tx.Applications().UpdateReview(ctx, app.ID, status, req.ReviewerID, now, notes); err != nil {
			return fmt.Errorf("update application: %w", err)
		}
		app.Status = status
		app.ReviewNotes = notes
		app.MarkReviewed(req.ReviewerID, now)

		switch status {
		case domain.ApplicationApproved:
			email, err = s.approve(ctx, tx, app, changed, result)
		case domain.ApplicationRejected:
			email, err = s.reject(ctx, tx, app, changed, req.Notes, result)
		}
		return err
	})
	if err != nil {
		if errors.Is(err, ErrApplicationNotFound) {
			return nil, err
		}
		s.log.Error("application review rolled back",
			"application_id", req.ApplicationID,
			"status", status,
			"reviewer_id", req.ReviewerID,
			"error", err,
		)
		return nil, &UpdateFailedError{ApplicationID: req.ApplicationID, Cause: err}
	}

	if email != nil {
		s.sendEmail(ctx, *email, result)
	}
	s.recordAudit(ctx, req, result)

	s.log.Info("application reviewed",
		"application_id", result.ApplicationID,
		"from", result.PreviousStatus,
		"to", result.Status,
		"reviewer_id", req.ReviewerID,
		"warnings", len(result.Warnings),
	)
	return result, nil
}

func (s *ReviewService) approve(ctx context.Context, tx repository.Store, app *domain.Application, changed bool, result *ReviewResult) (*dto.ApplicationDecisionEvent, error) {
	user, err := tx.Users().FindUserById(ctx, app.UserID)
	if err != nil {
		return nil, fmt.Errorf("load applicant %d: %w", app.UserID, err)
	}

	role, err := tx.Roles().FindByCode(ctx, app.ApplyingAs.RoleCode())
	if err != nil {
		return nil, fmt.Errorf("load role %s: %w", app.ApplyingAs.RoleCode(), err)
	}
	if err := tx.UserRoles().ReplaceUserRoles(ctx, user.ID, []uint{role.ID}); err != nil {
		return nil, fmt.Errorf("assign role: %w", err)
	}
	if err := tx.Users().SetStatus(ctx, user.ID, domain.UserStatusActive); err != nil {
		return nil, fmt.Errorf("activate user: %w", err)
	}

	outcome := EnrollmentOutcome{Kind: EnrollmentNotStudent}
	if app.ApplyingAs == domain.ApplyingAsStudent {
		outcome = EnrollmentOutcome{Kind: EnrollmentNoProgram}
		if app.ProgramID != nil {
			var warnings []string
			outcome, warnings, err = s.enrollments.Assign(ctx, tx, app)
			if err != nil {
				return nil, err
			}
			result.Warnings = append(result.Warnings, warnings...)
		}
	}
	result.Enrollment = &outcome

	if !changed && !outcome.Created() && !s.opts.ResendOnReapproval {
		return nil, nil
	}

	title, message := approvalMessage(app.ApplyingAs, outcome)
	n, err := s.notifier.Notify(ctx, tx, user.ID, title, message, app.ID)
	if err != nil {
		return nil, err
	}
	result.NotificationID = &n.ID

	event := decisionEvent(dto.EventApplicationApproved, app, user)
	event.Enrolled = outcome.Enrolled()
	if outcome.Program != nil {
		event.ProgramName = outcome.Program.Name
	}
	if outcome.Class != nil {
		event.ClassName = className(outcome.Class)
		event.ClassStart = outcome.Class.StartDate.Format(classDateLayout)
	}
	return &event, nil
}

func (s *ReviewService) reject(ctx context.Context, tx repository.Store, app *domain.Application, changed bool, reason string, result *ReviewResult) (*dto.ApplicationDecisionEvent, error) {
	user, err := tx.Users().FindUserById(ctx, app.UserID)
	if err != nil {
		return nil, fmt.Errorf("load applicant %d: %w", app.UserID, err)
	}
	if err := tx.Users().SetStatus(ctx, user.ID, domain.UserStatusRejected); err != nil {
		return nil, fmt.Errorf("reject user: %w", err)
	}

	if !changed && !s.opts.ResendOnReapproval {
		return nil, nil
	}

	title, message := rejectionMessage(app.ApplyingAs, reason)
	n, err := s.notifier.Notify(ctx, tx, user.ID, title, message, app.ID)
	if err != nil {
		return nil, err
	}
	result.NotificationID = &n.ID

	event := decisionEvent(dto.EventApplicationRejected, app, user)
	event.Reason = strings.TrimSpace(reason)
	return &event, nil
}

func (s *ReviewService) sendEmail(ctx context.Context, event dto.ApplicationDecisionEvent, result *ReviewResult) {
	if s.mailer == nil {
		return
	}

	var err error
	switch event.Type {
	case dto.EventApplicationApproved:
		err = s.mailer.SendApplicationApprovalEmail(ctx, event)
	case dto.EventApplicationRejected:
		err = s.mailer.SendApplicationRejectionEmail(ctx, event)
	}
	if err != nil {
		s.log.Warn("decision email not sent",
			"application_id", event.ApplicationID,
			"user_id", event.UserID,
			"type", event.Type,
			"error", err,
		)
		result.Warnings = append(result.Warnings, fmt.Sprintf("%v: %v", ErrEmailSendFailed, err))
		return
	}
	result.EmailSent = true
}

func (s *ReviewService) recordAudit(ctx context.Context, req ReviewRequest, result *ReviewResult) {
	appID := result.ApplicationID
	meta := map[string]any{
		"from":       string(result.PreviousStatus),
		"to":         string(result.Status),
		"email_sent": result.EmailSent,
	}
	if result.Enrollment != nil {
		meta["enrollment"] = string(result.Enrollment.Kind)
		if result.Enrollment.EnrollmentID != 0 {
			meta["enrollment_id"] = result.Enrollment.EnrollmentID
		}
	}

	entry := &domain.AuditLog{
		ActorID:     req.ReviewerID,
		Action:      domain.AuditActionApplicationReview,
		Description: auditDescription(result),
		Entity:      "applications",
		EntityID:    &appID,
		Metadata:    meta,
	}
	if err := s.store.Audit().Record(ctx, entry); err != nil {
		s.log.Warn("audit entry not recorded", "application_id", appID, "error", err)
		result.Warnings = append(result.Warnings, fmt.Sprintf("audit entry not recorded: %v", err))
	}
}

func (s *ReviewService) reviewerName(ctx context.Context, tx repository.Store, reviewerID uint) (string, error) {
	reviewer, err := tx.Users().FindUserById(ctx, reviewerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Sprintf("Reviewer #%d", reviewerID), nil
		}
		return "", fmt.Errorf("load reviewer: %w", err)
	}
	return reviewer.FullName(), nil
}

// appendReviewNote adds a timestamped, attributed entry to the notes log.
// Blank notes leave the log unchanged.
func appendReviewNote(existing string, at time.Time, reviewer, note string) string {
	note = strings.TrimSpace(note)
	if note == "" {
		return existing
	}
	entry := fmt.Sprintf("[%s] %s: %s", at.Format(noteTimeLayout), reviewer, note)
	if strings.TrimSpace(existing) == "" {
		return entry
	}
	return existing + "\n" + entry
}

func auditDescription(r *ReviewResult) string {
	desc := fmt.Sprintf("Application #%d status changed from %s to %s", r.ApplicationID, r.PreviousStatus, r.Status)
	if r.PreviousStatus == r.Status {
		desc = fmt.Sprintf("Application #%d reviewed again as %s", r.ApplicationID, r.Status)
	}
	if r.Enrollment != nil && r.Enrollment.Created() {
		desc += fmt.Sprintf(" with auto-enrollment #%d", r.Enrollment.EnrollmentID)
	}
	return desc
}

func decisionEvent(kind string, app *domain.Application, user *domain.User) dto.ApplicationDecisionEvent {
	return dto.ApplicationDecisionEvent{
		EventID:       uuid.NewString(),
		Type:          kind,
		ApplicationID: app.ID,
		UserID:        user.ID,
		Email:         user.Email,
		Name:          user.FullName(),
		ApplyingAs:    string(app.ApplyingAs),
		OccurredAt:    time.Now().UTC(),
	}
}
