package resource

import (
	"errors"
	"log"
)

var (
	ErrNotAuthenticated = errors.New("Not authenticated")
	ErrNotFound         = errors.New("not found")
	ErrUpstream         = errors.New("upstream failure")
)

// NotFoundError is returned when a row does not exist or belongs to someone
// else. The two cases are never told apart.
type NotFoundError struct {
	Kind string
}

func (e *NotFoundError) Error() string {
	return e.Kind + " not found"
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(kind string) error {
	return &NotFoundError{Kind: kind}
}

// FieldError is one failed rule on one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every failed field, in input order, one message per field.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "Invalid input"
	}
	return e.Fields[0].Message
}

// Field returns the message recorded for name, if any.
func (e *ValidationError) Field(name string) (string, bool) {
	for _, f := range e.Fields {
		if f.Field == name {
			return f.Message, true
		}
	}
	return "", false
}

// UpstreamError wraps a storage, database or provider failure. Message is
// safe to show to users; Err is only logged.
type UpstreamError struct {
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	return e.Message
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

func upstream(message string, err error) error {
	log.Printf("%s: %v", message, err)
	return &UpstreamError{Message: message, Err: err}
}

func requireUser(userID string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}
	return nil
}
