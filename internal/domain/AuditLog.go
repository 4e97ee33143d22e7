package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	AuditActionApplicationReview = "application_review"
	AuditActionLogin             = "login"
)

type AuditLog struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	ActorID     uint              `gorm:"not null;index" json:"actor_id"` // admin/user
	Action      string            `gorm:"type:varchar(100);not null" json:"action"`
	Description string            `gorm:"type:text" json:"description"`
	Entity      string            `gorm:"type:varchar(100);index:idx_audit_entity" json:"entity,omitempty"`
	EntityID    *uint             `gorm:"index:idx_audit_entity" json:"entity_id,omitempty"`
	Metadata    datatypes.JSONMap `gorm:"type:json" json:"metadata,omitempty"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`
}
