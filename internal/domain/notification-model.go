package domain

import "time"

const (
	NotificationTypeApplication = "application"
)

type Notification struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	Title     string     `gorm:"type:varchar(255);not null" json:"title"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	Type      string     `gorm:"type:varchar(50);not null" json:"type"`
	RelatedID *uint      `json:"related_id,omitempty"`
	IsRead    bool       `gorm:"not null;default:false" json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
