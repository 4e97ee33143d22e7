package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/innio31/Impact-Digital-Academy-sub022/internal/domain"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/repository"
)

type EnrollmentKind string

const (
	EnrollmentNotStudent    EnrollmentKind = "not_student"
	EnrollmentNoProgram     EnrollmentKind = "no_program"
	EnrollmentNoBatch       EnrollmentKind = "no_batch_available"
	EnrollmentAlreadyExists EnrollmentKind = "already_enrolled"
	EnrollmentCreated       EnrollmentKind = "created"
)

// EnrollmentOutcome says what the assigner did for one approved application.
// EnrollmentID is set for EnrollmentCreated and EnrollmentAlreadyExists.
type EnrollmentOutcome struct {
	Kind         EnrollmentKind     `json:"kind"`
	EnrollmentID uint               `json:"enrollment_id,omitempty"`
	Class        *domain.ClassBatch `json:"-"`
	Program      *domain.Program    `json:"-"`
}

// Created reports whether this call inserted the enrollment.
func (o EnrollmentOutcome) Created() bool { return o.Kind == EnrollmentCreated }

// Enrolled reports whether the student ends up in a class batch.
func (o EnrollmentOutcome) Enrolled() bool {
	return o.Kind == EnrollmentCreated || o.Kind == EnrollmentAlreadyExists
}

// EnrollmentService assigns approved students to the next class batch of
// their program.
type EnrollmentService struct {
	log *slog.Logger
	now func() time.Time
}

func NewEnrollmentService(logger *slog.Logger, now func() time.Time) *EnrollmentService {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &EnrollmentService{log: logger, now: now}
}

// Assign enrolls the applicant of app using the repositories of store, which
// is normally bound to the review transaction. Warnings collect best-effort
// failures that did not stop the enrollment.
func (s *EnrollmentService) Assign(ctx context.Context, store repository.Store, app *domain.Application) (EnrollmentOutcome, []string, error) {
	var warnings []string

	if app.ApplyingAs != domain.ApplyingAsStudent {
		return EnrollmentOutcome{Kind: EnrollmentNotStudent}, nil, nil
	}
	if app.ProgramID == nil || *app.ProgramID == 0 {
		return EnrollmentOutcome{Kind: EnrollmentNoProgram}, nil, nil
	}

	program, err := store.Classes().FindProgram(ctx, *app.ProgramID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			warnings = append(warnings, fmt.Sprintf("program %d not found", *app.ProgramID))
			return EnrollmentOutcome{Kind: EnrollmentNoProgram}, warnings, nil
		}
		return EnrollmentOutcome{}, nil, fmt.Errorf("load program: %w", err)
	}

	today := startOfDay(s.now())
	batch, err := store.Classes().NextScheduledBatch(ctx, program.ID, today)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Info("no scheduled class batch available",
				"application_id", app.ID,
				"program_id", program.ID,
			)
			return EnrollmentOutcome{Kind: EnrollmentNoBatch, Program: program}, nil, nil
		}
		return EnrollmentOutcome{}, nil, fmt.Errorf("find class batch: %w", err)
	}

	existing, err := store.Enrollments().FindByStudentAndClass(ctx, app.UserID, batch.ID)
	if err == nil {
		return EnrollmentOutcome{
			Kind:         EnrollmentAlreadyExists,
			EnrollmentID: existing.ID,
			Class:        batch,
			Program:      program,
		}, nil, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return EnrollmentOutcome{}, nil, fmt.Errorf("check enrollment: %w", err)
	}

	enrollment := &domain.Enrollment{
		StudentID:      app.UserID,
		ClassID:        batch.ID,
		EnrollmentDate: today,
		Status:         domain.EnrollmentActive,
		ProgramType:    program.ProgramType,
	}
	created, err := store.Enrollments().CreateIfAbsent(ctx, enrollment)
	if err != nil {
		return EnrollmentOutcome{}, nil, fmt.Errorf("create enrollment: %w", err)
	}
	if !created {
		// lost a race with a concurrent approval
		existing, err := store.Enrollments().FindByStudentAndClass(ctx, app.UserID, batch.ID)
		if err != nil {
			return EnrollmentOutcome{}, nil, fmt.Errorf("reload enrollment: %w", err)
		}
		return EnrollmentOutcome{
			Kind:         EnrollmentAlreadyExists,
			EnrollmentID: existing.ID,
			Class:        batch,
			Program:      program,
		}, nil, nil
	}

	record := &domain.StudentFinancialStatus{
		StudentID:    app.UserID,
		ClassID:      batch.ID,
		EnrollmentID: enrollment.ID,
		TotalFee:     program.FeeAmount,
	}
	if err := store.Finance().CreateInitialRecord(ctx, record); err != nil {
		s.log.Warn("initial financial record not created",
			"enrollment_id", enrollment.ID,
			"student_id", app.UserID,
			"error", err,
		)
		warnings = append(warnings, fmt.Sprintf("financial record for enrollment %d not created: %v", enrollment.ID, err))
	}

	s.log.Info("student enrolled",
		"application_id", app.ID,
		"student_id", app.UserID,
		"class_id", batch.ID,
		"enrollment_id", enrollment.ID,
	)

	return EnrollmentOutcome{
		Kind:         EnrollmentCreated,
		EnrollmentID: enrollment.ID,
		Class:        batch,
		Program:      program,
	}, warnings, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
