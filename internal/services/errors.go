// Package services defines the business logic for publications and
// adoption requests. This file centralizes common service-level error
// values so that they can be consistently returned by service methods and
// checked by callers.
//
// These errors are intended for internal use by the service layer;
// translation into user-facing messages or HTTP status codes is performed
// at the handler layer. Conflict-class conditions get one sentinel each so
// every precondition stays independently testable even though the HTTP
// layer collapses them onto a single status code.
package services

import (
	"errors"
	"fmt"
	"strings"
)

// Publication-related errors.
var (
	// ErrPublicationNotFound indicates that the referenced listing does
	// not exist.
	ErrPublicationNotFound = errors.New("publication not found")

	// ErrNotPublicationOwner is returned when an authenticated user tries
	// to manage a listing they do not own.
	ErrNotPublicationOwner = errors.New("publication belongs to another user")

	// ErrApprovedRequestExists is returned when an edit would flip a
	// listing back to available while an approved request exists on it.
	ErrApprovedRequestExists = errors.New("publication already has an approved request")
)

// Request-related errors.
var (
	// ErrRequestNotFound indicates that the referenced adoption request
	// does not exist.
	ErrRequestNotFound = errors.New("adoption request not found")

	// ErrNotRequester is returned when a user tries to cancel a request
	// submitted by someone else.
	ErrNotRequester = errors.New("request belongs to another user")

	// ErrPublicationUnavailable is returned when a submit or approval
	// targets a listing that is not available.
	ErrPublicationUnavailable = errors.New("publication is not available")

	// ErrOwnPublication is returned when a user submits a request against
	// their own listing.
	ErrOwnPublication = errors.New("cannot request adoption of your own publication")

	// ErrDuplicateRequest is returned when the user already holds a
	// request for the publication.
	ErrDuplicateRequest = errors.New("request already exists for this publication")

	// ErrRequestNotPending is returned when cancelling a request that has
	// already been decided.
	ErrRequestNotPending = errors.New("only pending requests can be cancelled")

	// ErrRequestApproved is returned for any status change targeting an
	// approved request, including re-approval.
	ErrRequestApproved = errors.New("cannot modify an approved request")

	// ErrInvalidStatus is returned when the target state is outside the
	// {pending, approved, rejected} set.
	ErrInvalidStatus = errors.New("invalid request status")
)

// FieldError describes a single rejected input field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError aggregates the field-level problems of a rejected
// command. All fields are checked before returning so the caller sees the
// complete list, not just the first failure.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Reason))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// add appends a field problem and returns the receiver for chaining.
func (e *ValidationError) add(field, reason string) *ValidationError {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
	return e
}

// orNil returns nil when no field failed, so callers can return the
// result directly.
func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
