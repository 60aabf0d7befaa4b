package httperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a BusinessError. Every failure surfaced by a use case
// carries exactly one kind, which the HTTP layer maps to a status code.
type Kind string

const (
	KindValidation        Kind = "validation_error"
	KindNotFound          Kind = "not_found"
	KindSlotUnavailable   Kind = "slot_unavailable"
	KindInvalidTransition Kind = "invalid_transition"
	KindConflict          Kind = "conflict"
	KindStore             Kind = "store_error"
)

type BusinessError struct {
	Kind    Kind
	Code    string
	Message string

	// Field names the offending input for validation errors.
	Field string

	// From and To are set for invalid transitions.
	From string
	To   string

	// Reason is set for unavailable slots.
	Reason string

	Err error
}

func (e *BusinessError) Error() string {
	switch {
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	default:
		return e.Code
	}
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// ErrBusiness builds a validation error identified only by its code.
func ErrBusiness(code string) error {
	return &BusinessError{Kind: KindValidation, Code: code}
}

func IsBusiness(err error, code string) bool {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// As extracts the BusinessError from err's chain.
func As(err error) (*BusinessError, bool) {
	var be *BusinessError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// KindOf returns the kind of err, treating anything unclassified as a
// store failure.
func KindOf(err error) Kind {
	if be, ok := As(err); ok {
		return be.Kind
	}
	return KindStore
}

func IsKind(err error, kind Kind) bool {
	be, ok := As(err)
	return ok && be.Kind == kind
}

// ======================================================
// Constructors
// ======================================================

func Validation(field, message string) error {
	return &BusinessError{
		Kind:    KindValidation,
		Code:    "invalid_" + field,
		Message: message,
		Field:   field,
	}
}

func NotFound(code, message string) error {
	return &BusinessError{Kind: KindNotFound, Code: code, Message: message}
}

func SlotUnavailable(reason string) error {
	return &BusinessError{
		Kind:    KindSlotUnavailable,
		Code:    "slot_unavailable",
		Message: "the requested slot is not available",
		Reason:  reason,
	}
}

func InvalidTransition(from, to string) error {
	return &BusinessError{
		Kind:    KindInvalidTransition,
		Code:    "invalid_transition",
		Message: fmt.Sprintf("cannot change status from %s to %s", from, to),
		From:    from,
		To:      to,
	}
}

func Conflict(code, message string) error {
	return &BusinessError{Kind: KindConflict, Code: code, Message: message}
}

// Store wraps an unexpected persistence failure. op names the operation
// for the logs; the client only ever sees a generic message.
func Store(op string, err error) error {
	return &BusinessError{
		Kind:    KindStore,
		Code:    "store_error",
		Message: op,
		Err:     err,
	}
}

// FieldLocked rejects an edit to a field the current status no longer
// allows to change. It is reported as an invalid transition.
func FieldLocked(status, field string) error {
	return &BusinessError{
		Kind:    KindInvalidTransition,
		Code:    "field_locked",
		Message: fmt.Sprintf("cannot edit %s of a %s appointment", field, status),
		Field:   field,
		From:    status,
		To:      status,
	}
}

// Aggregate folds several validation failures of one batch into a single
// validation error.
func Aggregate(code string, errs []error) error {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return &BusinessError{
		Kind:    KindValidation,
		Code:    code,
		Message: strings.Join(msgs, "; "),
	}
}
