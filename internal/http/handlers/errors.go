// Package handlers defines the HTTP-layer error codes used across all
// API endpoints and the translation from service-level errors to HTTP
// responses.
//
// Codes are lowercase snake_case and mirror common HTTP status semantics.
// Conflict-class business failures (listing unavailable, duplicate or
// self-targeted request, terminal state) all surface as "conflict" with
// distinct messages; clients branch on the code, humans read the message.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MatiBarber/PetNet/internal/domain"
	"github.com/MatiBarber/PetNet/internal/services"
)

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	ErrCodeMethodNotAllowed = "method_not_allowed"
)

// respondServiceError maps a service-layer error onto the HTTP envelope.
// Every business error is detected before any mutation in the service
// layer, so by the time one reaches here nothing has changed; internal
// errors roll back with the transaction. Either way the caller learns
// whether the entity changed from the status code alone.
func respondServiceError(c *gin.Context, err error) {
	var verr *services.ValidationError
	var terr *domain.TransitionError

	switch {
	case errors.As(err, &verr):
		failFields(c, http.StatusBadRequest, ErrCodeBadRequest, "validation failed", verr.Fields)

	case errors.Is(err, services.ErrInvalidStatus):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())

	case errors.Is(err, services.ErrPublicationNotFound),
		errors.Is(err, services.ErrRequestNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())

	case errors.Is(err, services.ErrNotPublicationOwner),
		errors.Is(err, services.ErrNotRequester):
		fail(c, http.StatusForbidden, ErrCodeForbidden, err.Error())

	case errors.Is(err, services.ErrPublicationUnavailable),
		errors.Is(err, services.ErrOwnPublication),
		errors.Is(err, services.ErrDuplicateRequest),
		errors.Is(err, services.ErrRequestNotPending),
		errors.Is(err, services.ErrRequestApproved),
		errors.Is(err, services.ErrApprovedRequestExists):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())

	case errors.As(err, &terr):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())

	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "unexpected error")
	}
}
