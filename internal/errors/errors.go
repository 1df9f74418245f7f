package errors

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedRecord = errors.New("malformed grade record")
	ErrNoCredits       = errors.New("term has no credits to average over")
	ErrNoEnrollments   = errors.New("no enrollment for the requested term")
)

// MalformedRecordError describes a grade record that cannot be adapted into a course.
type MalformedRecordError struct {
	Field  string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%s: field %q: %s", ErrMalformedRecord, e.Field, e.Reason)
}

func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}
