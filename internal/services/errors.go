package services

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidStatus       = errors.New("invalid application status")
	ErrApplicationNotFound = errors.New("application not found")
	ErrUpdateFailed        = errors.New("application update failed")
	ErrEmailSendFailed     = errors.New("email send failed")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrNotificationMissing = errors.New("notification not found")
	ErrInvalidFilter       = errors.New("invalid filter")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountInactive     = errors.New("account is not active")
)

// UpdateFailedError reports a review transaction that was rolled back.
type UpdateFailedError struct {
	ApplicationID uint
	Cause         error
}

func (e *UpdateFailedError) Error() string {
	return fmt.Sprintf("update application %d: %v", e.ApplicationID, e.Cause)
}

func (e *UpdateFailedError) Unwrap() error { return e.Cause }

func (e *UpdateFailedError) Is(target error) bool { return target == ErrUpdateFailed }
