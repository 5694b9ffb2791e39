package errors

import (
	"errors"
	"fmt"
)

// Kind tells the batch driver whether a failure was expected input or broken data.
type Kind int

const (
	Recoverable Kind = iota
	Fatal
)

func (kind Kind) String() string {
	if kind == Fatal {
		return "fatal"
	}
	return "recoverable"
}

// Error represents a classified failure while building or validating one student.
type Error struct {
	Kind    Kind   `json:"kind"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
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

// Is matches on Code so that clones and wraps of a predefined error compare equal to it.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) || e == nil || other == nil {
		return false
	}
	return e.Code == other.Code
}

// New creates a new Error instance.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap attaches a classification to an existing error.
func Wrap(err error, template *Error, message string) *Error {
	wrapped := Clone(template, message)
	wrapped.Err = err
	return wrapped
}

var (
	ErrNoStudentId      = New(Recoverable, "NO_STUDENT_ID", "The file does not contain a valid student ID.")
	ErrUnknownStudent   = New(Recoverable, "UNKNOWN_STUDENT", "student id not found in any data source")
	ErrUnknownProgramme = New(Recoverable, "UNKNOWN_PROGRAMME", "Do not recognise student programme for parsing")
	ErrDataIntegrity    = New(Fatal, "DATA_INTEGRITY", "inconsistent student data")
	ErrTimetableGrammar = New(Fatal, "TIMETABLE_GRAMMAR", "cannot parse timetable entry")
	ErrInvalidRecord    = New(Recoverable, "INVALID_RECORD", "invalid enrollment record")
	ErrInternal         = New(Fatal, "INTERNAL_ERROR", "internal error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// IsFatal reports whether err aborts the student it belongs to as broken data.
func IsFatal(err error) bool {
	e := FromError(err)
	return e != nil && e.Kind == Fatal
}
