package interfaces

import (
	"context"

	"github.com/innio31/Impact-Digital-Academy-sub022/internal/dto"
)

// EmailSender delivers application decision emails. Implementations may send
// directly or hand the event to a queue.
type EmailSender interface {
	SendApplicationApprovalEmail(ctx context.Context, event dto.ApplicationDecisionEvent) error
	SendApplicationRejectionEmail(ctx context.Context, event dto.ApplicationDecisionEvent) error
}
