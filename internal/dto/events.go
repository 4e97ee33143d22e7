package dto

import "time"

const (
	EventApplicationApproved = "application.approved"
	EventApplicationRejected = "application.rejected"
)

// ApplicationDecisionEvent is published for every decision email. It carries
// everything the mail worker needs so it never reads the database.
type ApplicationDecisionEvent struct {
	EventID       string    `json:"event_id"`
	Type          string    `json:"type"`
	ApplicationID uint      `json:"application_id"`
	UserID        uint      `json:"user_id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	ApplyingAs    string    `json:"applying_as"`
	ProgramName   string    `json:"program_name,omitempty"`
	ClassName     string    `json:"class_name,omitempty"`
	ClassStart    string    `json:"class_start,omitempty"`
	Enrolled      bool      `json:"enrolled"`
	Reason        string    `json:"reason,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
