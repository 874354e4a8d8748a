package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeInvalid            ErrorCode = "INVALID"
	ErrCodeConflict           ErrorCode = "CONFLICT"
	ErrCodeForbidden          ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeRateLimited        ErrorCode = "RATE_LIMITED"
	ErrCodePaymentRequired    ErrorCode = "PAYMENT_REQUIRED"
	ErrCodeUnavailable        ErrorCode = "UNAVAILABLE"
	ErrCodeInvalidModelOutput ErrorCode = "INVALID_MODEL_OUTPUT"
	ErrCodeNotConfigured      ErrorCode = "NOT_CONFIGURED"
	ErrCodeInternal           ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrGoalNotFound         = NewError(ErrCodeNotFound, "Goal not found")
	ErrTaskNotFound         = NewError(ErrCodeNotFound, "task not found")
	ErrNotificationNotFound = NewError(ErrCodeNotFound, "notification not found")
	ErrChatNotFound         = NewError(ErrCodeNotFound, "chat not found")
	ErrCoachTaskNotFound    = NewError(ErrCodeNotFound, "coach task not found")
	ErrSessionNotFound      = NewError(ErrCodeNotFound, "session not found")
	ErrUnauthorized         = NewError(ErrCodeUnauthorized, "Not authenticated")
	ErrInvalidPayload       = NewError(ErrCodeInvalid, "invalid payload")
	ErrAINotConfigured      = NewError(ErrCodeNotConfigured, "AI service not configured")
	ErrAuthNotConfigured    = NewError(ErrCodeNotConfigured, "auth not configured")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// ErrorMessage returns the user-facing message of a domain error, falling back to err.Error().
func ErrorMessage(err error) string {
	var dErr *Error
	if errors.As(err, &dErr) && dErr.Message != "" {
		return dErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
