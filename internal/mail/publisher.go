package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/dto"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/interfaces"
)

var (
	ErrUnknownEvent = errors.New("unknown mail event")
	ErrNoRecipient  = errors.New("email has no recipient")
)

// EventPublisher hands decision emails to the mail worker through the broker.
// A nil error means the event was accepted by the broker, not that the email
// was delivered.
type EventPublisher struct {
	producer interfaces.ProducerHandler
	log      *slog.Logger
}

func NewEventPublisher(producer interfaces.ProducerHandler, logger *slog.Logger) *EventPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventPublisher{producer: producer, log: logger}
}

func (p *EventPublisher) SendApplicationApprovalEmail(ctx context.Context, event dto.ApplicationDecisionEvent) error {
	event.Type = dto.EventApplicationApproved
	return p.publish(ctx, event)
}

func (p *EventPublisher) SendApplicationRejectionEmail(ctx context.Context, event dto.ApplicationDecisionEvent) error {
	event.Type = dto.EventApplicationRejected
	return p.publish(ctx, event)
}

func (p *EventPublisher) publish(ctx context.Context, event dto.ApplicationDecisionEvent) error {
	if event.Email == "" {
		return ErrNoRecipient
	}
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}

	payload, err := sonic.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event.Type, err)
	}

	// keyed by application so decisions on one application stay ordered
	key := []byte(strconv.FormatUint(uint64(event.ApplicationID), 10))
	if err := p.producer.PublishMessage(ctx, key, payload); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}

	p.log.Info("mail event published",
		"event_id", event.EventID,
		"type", event.Type,
		"application_id", event.ApplicationID,
	)
	return nil
}
