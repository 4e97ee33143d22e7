package mail

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bytedance/sonic"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/dto"
)

const deliverTimeout = 30 * time.Second

type Deliverer interface {
	Deliver(ctx context.Context, event dto.ApplicationDecisionEvent) error
}

// Handler decodes decision events read by the mail worker's consumer.
type Handler struct {
	sender Deliverer
	log    *slog.Logger
}

func NewHandler(sender Deliverer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{sender: sender, log: logger}
}

func (h *Handler) HandleMessage(message string) error {
	var event dto.ApplicationDecisionEvent
	if err := sonic.UnmarshalString(message, &event); err != nil {
		h.log.Warn("invalid mail event payload", "payload", message, "error", err)
		return fmt.Errorf("decode mail event: %w", err)
	}

	switch event.Type {
	case dto.EventApplicationApproved, dto.EventApplicationRejected:
	default:
		h.log.Warn("skipping unknown mail event", "type", event.Type, "event_id", event.EventID)
		return fmt.Errorf("%w: %q", ErrUnknownEvent, event.Type)
	}

	h.log.Info("mail event received",
		"event_id", event.EventID,
		"type", event.Type,
		"user_id", event.UserID,
	)

	ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
	defer cancel()
	return h.sender.Deliver(ctx, event)
}
