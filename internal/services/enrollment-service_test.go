package services_test

import (
	"context"
	"testing"

	"github.com/innio31/Impact-Digital-Academy-sub022/internal/domain"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/services"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/testsupport"
)

func TestAssignOutcomes(t *testing.T) {
	store, db := testsupport.NewStore(t)
	ctx := context.Background()
	svc := services.NewEnrollmentService(testsupport.Logger(), testsupport.Now)

	program := testsupport.CreateProgram(t, db, "WEB-101", "Web Development", domain.ProgramTypeOnline, 90000)
	batch := testsupport.CreateBatch(t, db, program.ID, "Web Dev April", "WEB-APR", testsupport.Days(21), domain.ClassScheduled)
	empty := testsupport.CreateProgram(t, db, "EMPTY", "No Batches", domain.ProgramTypeOnline, 0)
	user := testsupport.CreateUser(t, db, "s@academy.test", "S", "T", domain.UserStatusPending)

	cases := []struct {
		name string
		app  *domain.Application
		want services.EnrollmentKind
	}{
		{"instructor", &domain.Application{UserID: user.ID, ApplyingAs: domain.ApplyingAsInstructor, ProgramID: &program.ID}, services.EnrollmentNotStudent},
		{"no program", &domain.Application{UserID: user.ID, ApplyingAs: domain.ApplyingAsStudent}, services.EnrollmentNoProgram},
		{"unknown program", &domain.Application{UserID: user.ID, ApplyingAs: domain.ApplyingAsStudent, ProgramID: testsupport.Ptr(uint(999))}, services.EnrollmentNoProgram},
		{"no batch", &domain.Application{UserID: user.ID, ApplyingAs: domain.ApplyingAsStudent, ProgramID: &empty.ID}, services.EnrollmentNoBatch},
		{"first assignment", &domain.Application{UserID: user.ID, ApplyingAs: domain.ApplyingAsStudent, ProgramID: &program.ID}, services.EnrollmentCreated},
		{"second assignment", &domain.Application{UserID: user.ID, ApplyingAs: domain.ApplyingAsStudent, ProgramID: &program.ID}, services.EnrollmentAlreadyExists},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			outcome, _, err := svc.Assign(ctx, store, tc.app)
			if err != nil {
				t.Fatalf("Assign returned error: %v", err)
			}
			if outcome.Kind != tc.want {
				t.Fatalf("kind = %s, want %s", outcome.Kind, tc.want)
			}
			if outcome.Enrolled() && (outcome.Class == nil || outcome.Class.ID != batch.ID) {
				t.Fatalf("enrolled outcome must carry the batch: %+v", outcome)
			}
		})
	}

	var records int64
	db.Model(&domain.StudentFinancialStatus{}).Where("student_id = ? AND total_fee = ?", user.ID, 90000).Count(&records)
	if records != 1 {
		t.Fatalf("expected one financial record, got %d", records)
	}
}
