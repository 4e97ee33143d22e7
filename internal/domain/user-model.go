package domain

import "gorm.io/gorm"

type UserStatus string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusRejected  UserStatus = "rejected"
	UserStatusSuspended UserStatus = "suspended"
)

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `gorm:"type:varchar(100)" json:"first_name"`
	LastName     string     `gorm:"type:varchar(100)" json:"last_name"`
	Phone        string     `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:pending" json:"status"`
	gorm.Model
}

// FullName falls back to the email when no name was captured at sign-up.
func (u User) FullName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Email
	}
	return name
}
