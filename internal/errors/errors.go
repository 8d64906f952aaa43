// Package errors defines the domain error taxonomy shared across services.
// Handlers map error codes to HTTP statuses; services compare with errors.Is.
package errors

import "fmt"

// DomainError is a coded application error. Code identifies the failure kind,
// Message is safe for API responses, Err optionally carries the cause.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError with the same code, so wrapped instances created
// by WithCause still satisfy errors.Is against the sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// WithCause returns a copy of the sentinel carrying an underlying cause.
func (e *DomainError) WithCause(err error) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, Err: err}
}

// WithMessage returns a copy of the sentinel with a more specific message.
func (e *DomainError) WithMessage(format string, args ...interface{}) *DomainError {
	return &DomainError{Code: e.Code, Message: fmt.Sprintf(format, args...), Err: e.Err}
}
