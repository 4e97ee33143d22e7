package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/innio31/Impact-Digital-Academy-sub022/internal/dto"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	approvalSubject  = "Your Impact Digital Academy application has been approved"
	rejectionSubject = "Update on your Impact Digital Academy application"
)

// Dialer is the part of *gomail.Dialer the sender needs.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	FromName  string
	PortalURL string
}

// SMTPSender renders decision emails and delivers them over SMTP.
type SMTPSender struct {
	dialer    Dialer
	from      string
	fromName  string
	portalURL string
	log       *slog.Logger
}

func NewSMTPSender(cfg SMTPConfig, logger *slog.Logger) *SMTPSender {
	return NewSMTPSenderWithDialer(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), cfg, logger)
}

func NewSMTPSenderWithDialer(d Dialer, cfg SMTPConfig, logger *slog.Logger) *SMTPSender {
	if logger == nil {
		logger = slog.Default()
	}
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &SMTPSender{
		dialer:    d,
		from:      from,
		fromName:  cfg.FromName,
		portalURL: cfg.PortalURL,
		log:       logger,
	}
}

func (s *SMTPSender) SendApplicationApprovalEmail(ctx context.Context, event dto.ApplicationDecisionEvent) error {
	return s.send(ctx, event.Email, approvalSubject, "approval.html", s.templateData(event))
}

func (s *SMTPSender) SendApplicationRejectionEmail(ctx context.Context, event dto.ApplicationDecisionEvent) error {
	return s.send(ctx, event.Email, rejectionSubject, "rejection.html", s.templateData(event))
}

// Deliver routes a decision event from the queue to the matching email.
func (s *SMTPSender) Deliver(ctx context.Context, event dto.ApplicationDecisionEvent) error {
	switch event.Type {
	case dto.EventApplicationApproved:
		return s.SendApplicationApprovalEmail(ctx, event)
	case dto.EventApplicationRejected:
		return s.SendApplicationRejectionEmail(ctx, event)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, event.Type)
	}
}

type templateData struct {
	Name        string
	Role        string
	IsStudent   bool
	Enrolled    bool
	ProgramName string
	ClassName   string
	ClassStart  string
	Reason      string
	PortalURL   string
}

func (s *SMTPSender) templateData(e dto.ApplicationDecisionEvent) templateData {
	name := e.Name
	if name == "" {
		name = e.Email
	}
	return templateData{
		Name:        name,
		Role:        cases.Title(language.English).String(e.ApplyingAs),
		IsStudent:   e.ApplyingAs == "student",
		Enrolled:    e.Enrolled,
		ProgramName: e.ProgramName,
		ClassName:   e.ClassName,
		ClassStart:  e.ClassStart,
		Reason:      e.Reason,
		PortalURL:   s.portalURL,
	}
}

func (s *SMTPSender) send(ctx context.Context, to, subject, tmpl string, data templateData) error {
	if to == "" {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, tmpl, data); err != nil {
		return fmt.Errorf("render %s: %w", tmpl, err)
	}

	m := gomail.NewMessage()
	if s.fromName != "" {
		m.SetAddressHeader("From", s.from, s.fromName)
	} else {
		m.SetHeader("From", s.from)
	}
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())

	if err := s.dialer.DialAndSend(m); err != nil {
		s.log.Error("smtp send failed", "to", to, "subject", subject, "error", err)
		return err
	}

	s.log.Info("email sent", "to", to, "template", tmpl)
	return nil
}
