package mail_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/quotedprintable"
	netmail "net/mail"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/dto"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/mail"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/testsupport"
	"gopkg.in/gomail.v2"
)

type recordingDialer struct {
	messages []*gomail.Message
	err      error
}

func (d *recordingDialer) DialAndSend(m ...*gomail.Message) error {
	if d.err != nil {
		return d.err
	}
	d.messages = append(d.messages, m...)
	return nil
}

type sentEmail struct {
	to, from, subject, body string
}

func decode(t *testing.T, m *gomail.Message) sentEmail {
	t.Helper()

	var raw bytes.Buffer
	if _, err := m.WriteTo(&raw); err != nil {
		t.Fatalf("write message: %v", err)
	}
	parsed, err := netmail.ReadMessage(&raw)
	if err != nil {
		t.Fatalf("parse message: %v", err)
	}
	body, err := io.ReadAll(quotedprintable.NewReader(parsed.Body))
	if err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return sentEmail{
		to:      strings.Join(m.GetHeader("To"), ","),
		from:    parsed.Header.Get("From"),
		subject: strings.Join(m.GetHeader("Subject"), ","),
		body:    string(body),
	}
}

func newSender(d mail.Dialer) *mail.SMTPSender {
	return mail.NewSMTPSenderWithDialer(d, mail.SMTPConfig{
		Username:  "noreply@academy.test",
		FromName:  "Impact Digital Academy",
		PortalURL: "https://portal.academy.test/login",
	}, testsupport.Logger())
}

func TestSMTPSenderApprovalWithEnrollment(t *testing.T) {
	dialer := &recordingDialer{}
	err := newSender(dialer).SendApplicationApprovalEmail(context.Background(), dto.ApplicationDecisionEvent{
		Email:       "chidi@academy.test",
		Name:        "Chidi Eze",
		ApplyingAs:  "student",
		ProgramName: "Web Development",
		ClassName:   "Web Dev April (WEB-APR)",
		ClassStart:  "March 31, 2026",
		Enrolled:    true,
	})
	if err != nil {
		t.Fatalf("SendApplicationApprovalEmail returned error: %v", err)
	}
	if len(dialer.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(dialer.messages))
	}

	got := decode(t, dialer.messages[0])
	if got.to != "chidi@academy.test" {
		t.Fatalf("to = %q", got.to)
	}
	if !strings.Contains(got.from, "noreply@academy.test") {
		t.Fatalf("from = %q", got.from)
	}
	if got.subject != "Your Impact Digital Academy application has been approved" {
		t.Fatalf("subject = %q", got.subject)
	}
	for _, want := range []string{"Chidi Eze", "Student", "Web Dev April (WEB-APR)", "March 31, 2026", "https://portal.academy.test/login"} {
		if !strings.Contains(got.body, want) {
			t.Fatalf("body missing %q:\n%s", want, got.body)
		}
	}
}

func TestSMTPSenderApprovalWithoutEnrollmentPromisesFollowUp(t *testing.T) {
	dialer := &recordingDialer{}
	err := newSender(dialer).SendApplicationApprovalEmail(context.Background(), dto.ApplicationDecisionEvent{
		Email:      "chidi@academy.test",
		ApplyingAs: "student",
	})
	if err != nil {
		t.Fatalf("SendApplicationApprovalEmail returned error: %v", err)
	}
	body := decode(t, dialer.messages[0]).body
	if !strings.Contains(body, "complete your class enrollment") {
		t.Fatalf("expected follow-up text:\n%s", body)
	}
	if !strings.Contains(body, "chidi@academy.test") {
		t.Fatalf("expected email as greeting fallback:\n%s", body)
	}
}

func TestSMTPSenderRejectionIncludesReason(t *testing.T) {
	dialer := &recordingDialer{}
	err := newSender(dialer).SendApplicationRejectionEmail(context.Background(), dto.ApplicationDecisionEvent{
		Email:      "chidi@academy.test",
		Name:       "Chidi Eze",
		ApplyingAs: "instructor",
		Reason:     "Incomplete portfolio",
	})
	if err != nil {
		t.Fatalf("SendApplicationRejectionEmail returned error: %v", err)
	}
	got := decode(t, dialer.messages[0])
	if got.subject != "Update on your Impact Digital Academy application" {
		t.Fatalf("subject = %q", got.subject)
	}
	if !strings.Contains(got.body, "Incomplete portfolio") || !strings.Contains(got.body, "Instructor") {
		t.Fatalf("unexpected body:\n%s", got.body)
	}
}

func TestSMTPSenderErrors(t *testing.T) {
	dialer := &recordingDialer{err: errors.New("535 authentication failed")}
	sender := newSender(dialer)

	if err := sender.SendApplicationApprovalEmail(context.Background(), dto.ApplicationDecisionEvent{}); !errors.Is(err, mail.ErrNoRecipient) {
		t.Fatalf("expected ErrNoRecipient, got %v", err)
	}
	err := sender.SendApplicationApprovalEmail(context.Background(), dto.ApplicationDecisionEvent{Email: "x@academy.test"})
	if err == nil || !strings.Contains(err.Error(), "535") {
		t.Fatalf("expected dialer error, got %v", err)
	}
	if err := sender.Deliver(context.Background(), dto.ApplicationDecisionEvent{Type: "application.deleted", Email: "x@academy.test"}); !errors.Is(err, mail.ErrUnknownEvent) {
		t.Fatalf("expected ErrUnknownEvent, got %v", err)
	}
}

type recordingProducer struct {
	keys, values [][]byte
	err          error
}

func (p *recordingProducer) PublishMessage(_ context.Context, key, value []byte) error {
	if p.err != nil {
		return p.err
	}
	p.keys = append(p.keys, key)
	p.values = append(p.values, value)
	return nil
}

func TestEventPublisherEncodesDecision(t *testing.T) {
	producer := &recordingProducer{}
	pub := mail.NewEventPublisher(producer, testsupport.Logger())

	err := pub.SendApplicationRejectionEmail(context.Background(), dto.ApplicationDecisionEvent{
		ApplicationID: 42,
		Email:         "chidi@academy.test",
		Reason:        "Incomplete portfolio",
	})
	if err != nil {
		t.Fatalf("publish returned error: %v", err)
	}
	if len(producer.values) != 1 || string(producer.keys[0]) != "42" {
		t.Fatalf("unexpected publish: keys=%q", producer.keys)
	}

	var event dto.ApplicationDecisionEvent
	if err := sonic.Unmarshal(producer.values[0], &event); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if event.Type != dto.EventApplicationRejected || event.Reason != "Incomplete portfolio" {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.EventID == "" {
		t.Fatal("expected an event id to be assigned")
	}
}

func TestEventPublisherErrors(t *testing.T) {
	producer := &recordingProducer{err: errors.New("broker down")}
	pub := mail.NewEventPublisher(producer, testsupport.Logger())

	if err := pub.SendApplicationApprovalEmail(context.Background(), dto.ApplicationDecisionEvent{}); !errors.Is(err, mail.ErrNoRecipient) {
		t.Fatalf("expected ErrNoRecipient, got %v", err)
	}
	err := pub.SendApplicationApprovalEmail(context.Background(), dto.ApplicationDecisionEvent{Email: "x@academy.test"})
	if err == nil || !strings.Contains(err.Error(), "broker down") {
		t.Fatalf("expected broker error, got %v", err)
	}
}

type recordingDeliverer struct {
	events []dto.ApplicationDecisionEvent
}

func (d *recordingDeliverer) Deliver(_ context.Context, e dto.ApplicationDecisionEvent) error {
	d.events = append(d.events, e)
	return nil
}

func TestHandlerDeliversKnownEvents(t *testing.T) {
	deliverer := &recordingDeliverer{}
	h := mail.NewHandler(deliverer, testsupport.Logger())

	payload, err := sonic.MarshalString(dto.ApplicationDecisionEvent{
		EventID: "evt-1",
		Type:    dto.EventApplicationApproved,
		Email:   "chidi@academy.test",
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := h.HandleMessage(payload); err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}
	if len(deliverer.events) != 1 || deliverer.events[0].EventID != "evt-1" {
		t.Fatalf("unexpected deliveries: %+v", deliverer.events)
	}
}

func TestHandlerRejectsBadPayloads(t *testing.T) {
	deliverer := &recordingDeliverer{}
	h := mail.NewHandler(deliverer, testsupport.Logger())

	if err := h.HandleMessage("{not json"); err == nil {
		t.Fatal("expected decode error")
	}
	if err := h.HandleMessage(`{"type":"user.created","email":"x@academy.test"}`); !errors.Is(err, mail.ErrUnknownEvent) {
		t.Fatalf("expected ErrUnknownEvent, got %v", err)
	}
	if len(deliverer.events) != 0 {
		t.Fatalf("nothing should be delivered, got %d", len(deliverer.events))
	}
}
