// Package apperr carries structured application errors with a stable
// machine-readable code, an HTTP status, and optional detail payload.
package apperr

import "errors"

type Error struct {
	Code    string
	Message string
	Status  int
	Details map[string]interface{}
}

func New(code, message string, status int) *Error {
	return &Error{Code: code, Message: message, Status: status}
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// Is matches by code so detail-carrying copies still compare equal to
// their sentinel via errors.Is.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// WithDetails returns a copy carrying the given details. The receiver
// is left untouched so package-level sentinels stay immutable.
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	clone := *e
	clone.Details = make(map[string]interface{}, len(details))
	for k, v := range details {
		clone.Details[k] = v
	}
	return &clone
}

// WithMessage returns a copy with a more specific message.
func (e *Error) WithMessage(message string) *Error {
	clone := *e
	clone.Message = message
	return &clone
}

// From extracts an *Error from an error chain.
func From(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
