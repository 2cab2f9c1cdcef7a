package application

import (
	"errors"
	"strings"
)

var (
	ErrPostNotFound      = errors.New("post not found")
	ErrInvalidSubmission = errors.New("invalid submission")
	ErrUnknownTag        = errors.New("unknown tag")
	ErrClosed            = errors.New("bitacora is closed")
)

// ValidationError lists the form fields that made a submission invalid.
// It unwraps to ErrInvalidSubmission.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return ErrInvalidSubmission.Error() + ": " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidSubmission
}
