// Package apperr defines the failure kinds an operator action can end with.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind categorises a failure.
type Kind string

const (
	KindConfigurationIncomplete Kind = "configuration_incomplete"
	KindExtractionFailed        Kind = "extraction_failed"
	KindCompletionFailed        Kind = "completion_failed"
	KindMalformedResponse       Kind = "malformed_response"
	KindDeliveryFailed          Kind = "delivery_failed"
	KindValidation              Kind = "validation"
)

// Sentinels usable with errors.Is.
var (
	ErrConfigurationIncomplete = &Error{Kind: KindConfigurationIncomplete}
	ErrExtractionFailed        = &Error{Kind: KindExtractionFailed}
	ErrCompletionFailed        = &Error{Kind: KindCompletionFailed}
	ErrMalformedResponse       = &Error{Kind: KindMalformedResponse}
	ErrDeliveryFailed          = &Error{Kind: KindDeliveryFailed}
	ErrValidation              = &Error{Kind: KindValidation}
)

// Error is a categorised failure. Fields carries names relevant to the
// failure, e.g. the configuration fields that are missing.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Fields  []string
	Err     error
}

// New creates an error of the given kind.
func New(kind Kind, op, message string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: cause}
}

// WithFields returns e with the provided field names attached.
func (e *Error) WithFields(fields ...string) *Error {
	e.Fields = append(e.Fields, fields...)
	return e
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}

	msg := e.Message
	if msg == "" {
		msg = strings.ReplaceAll(string(e.Kind), "_", " ")
	}
	b.WriteString(msg)

	if len(e.Fields) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(e.Fields, ", "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or an empty kind.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// FieldsOf returns the fields of the first *Error in err's chain.
func FieldsOf(err error) []string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}
