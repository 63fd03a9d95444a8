// Package errs defines the failure taxonomy shared by every stage of the
// sequence → matrix pipeline.
//
// Callers match on the category, not the message:
//
//	if errors.Is(err, errs.ErrInsufficientData) { ... }
package errs

import (
	"errors"
	"fmt"
)

// Kind names a failure category.
type Kind string

const (
	KindMalformedInput   Kind = "MALFORMED_INPUT"
	KindInsufficientData Kind = "INSUFFICIENT_DATA"
	KindAlignmentFailure Kind = "ALIGNMENT_FAILURE"
	KindWorkloadExceeded Kind = "WORKLOAD_EXCEEDED"
)

// Error is a categorized pipeline failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message == "" && e.Err == nil:
		return string(e.Kind)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind when target carries no message,
// which is how the package sentinels are shaped.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Message != "" || t.Err != nil {
		return e == t
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is.
var (
	ErrMalformedInput   = &Error{Kind: KindMalformedInput}
	ErrInsufficientData = &Error{Kind: KindInsufficientData}
	ErrAlignmentFailure = &Error{Kind: KindAlignmentFailure}
	ErrWorkloadExceeded = &Error{Kind: KindWorkloadExceeded}
)

func MalformedInput(format string, a ...any) error {
	return &Error{Kind: KindMalformedInput, Message: fmt.Sprintf(format, a...)}
}

// WrapMalformed attaches a decoder/scanner error to a MalformedInput failure.
func WrapMalformed(err error, format string, a ...any) error {
	return &Error{Kind: KindMalformedInput, Message: fmt.Sprintf(format, a...), Err: err}
}

func InsufficientData(format string, a ...any) error {
	return &Error{Kind: KindInsufficientData, Message: fmt.Sprintf(format, a...)}
}

func AlignmentFailure(format string, a ...any) error {
	return &Error{Kind: KindAlignmentFailure, Message: fmt.Sprintf(format, a...)}
}

func WorkloadExceeded(format string, a ...any) error {
	return &Error{Kind: KindWorkloadExceeded, Message: fmt.Sprintf(format, a...)}
}

// KindOf returns the category of err, or "" when err is not categorized.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
