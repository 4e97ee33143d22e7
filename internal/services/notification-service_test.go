package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/innio31/Impact-Digital-Academy-sub022/internal/domain"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/services"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/testsupport"
)

func TestNotificationInbox(t *testing.T) {
	store, db := testsupport.NewStore(t)
	ctx := context.Background()
	owner := testsupport.CreateUser(t, db, "owner@academy.test", "O", "W", domain.UserStatusActive)
	other := testsupport.CreateUser(t, db, "other@academy.test", "O", "T", domain.UserStatusActive)
	svc := services.NewNotificationService(store, testsupport.Logger())

	n, err := svc.Notify(ctx, store, owner.ID, "Application Approved", "Welcome", 12)
	if err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}
	if n.RelatedID == nil || *n.RelatedID != 12 || n.Type != domain.NotificationTypeApplication {
		t.Fatalf("unexpected notification: %+v", n)
	}

	if err := svc.MarkRead(ctx, other.ID, n.ID); !errors.Is(err, services.ErrNotificationMissing) {
		t.Fatalf("expected ErrNotificationMissing, got %v", err)
	}
	if err := svc.MarkRead(ctx, owner.ID, n.ID); err != nil {
		t.Fatalf("MarkRead returned error: %v", err)
	}

	unread, err := svc.List(ctx, owner.ID, true, 10, 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(unread) != 0 {
		t.Fatalf("expected no unread notifications, got %d", len(unread))
	}

	all, err := svc.List(ctx, owner.ID, false, 10, 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	resp := services.ToNotificationResponses(all)
	if len(resp) != 1 || !resp[0].IsRead || resp[0].Title != "Application Approved" {
		t.Fatalf("unexpected inbox: %+v", resp)
	}

	if _, err := svc.List(ctx, 0, false, 10, 0); !errors.Is(err, services.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
