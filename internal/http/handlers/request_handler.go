// Adoption request HTTP handlers.
//
// This file exposes REST endpoints for the request lifecycle:
//   - POST   /requests             (submit)
//   - DELETE /requests/{id}        (cancel, requester only)
//   - PATCH  /requests/{id}/status (approve/reject/reopen, owner only)
//   - GET    /requests/sent        (requester projection)
//   - GET    /requests/received    (owner projection)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MatiBarber/PetNet/internal/domain"
	"github.com/MatiBarber/PetNet/internal/http/middleware"
	"github.com/MatiBarber/PetNet/internal/utils"
)

// RequestService defines the adoption request lifecycle operations
// consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type RequestService interface {
	// Submit creates a pending request by requesterID on a publication.
	Submit(ctx context.Context, requesterID, publicationID uint, message string) (*domain.Request, error)
	// Cancel deletes a pending request on behalf of its requester.
	Cancel(ctx context.Context, requesterID, requestID uint) error
	// ChangeStatus moves a request through the lifecycle on behalf of the
	// publication owner and reports whether a notification was sent.
	ChangeStatus(ctx context.Context, ownerID, requestID uint, target string) (*domain.Request, bool, error)
	// ListSent returns the requests submitted by the user.
	ListSent(ctx context.Context, requesterID uint) ([]domain.Request, error)
	// ListReceived returns the requests targeting the user's listings.
	ListReceived(ctx context.Context, ownerID uint) ([]domain.Request, error)
}

//
// DTOs
//

// SubmitRequestRequest is the JSON payload for submitting an adoption
// request.
type SubmitRequestRequest struct {
	PublicationID uint   `json:"publication_id" binding:"required"`
	Message       string `json:"message" binding:"required"`
}

// ChangeStatusRequest is the JSON payload for moving a request through
// the lifecycle.
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UserView is the requester projection embedded in owner-facing listings:
// enough to contact the applicant, nothing more.
type UserView struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RequestView is the read projection of a request joined to its
// publication, pet, and (for owners) requester.
type RequestView struct {
	ID            uint        `json:"id"`
	PublicationID uint        `json:"publication_id"`
	Message       string      `json:"message"`
	Status        string      `json:"status"`
	Pet           *domain.Pet `json:"pet,omitempty"`
	Requester     *UserView   `json:"requester,omitempty"`
}

// ChangeStatusResponse reports the transition outcome plus a
// human-readable note on notification dispatch.
type ChangeStatusResponse struct {
	Request  *domain.Request `json:"request"`
	Notified bool            `json:"notified"`
	Message  string          `json:"message"`
}

// requestView builds the projection, including requester contact details
// only when the caller is the receiving side.
func requestView(r domain.Request, includeRequester bool) RequestView {
	v := RequestView{
		ID:            r.ID,
		PublicationID: r.PublicationID,
		Message:       r.Message,
		Status:        r.Status,
		Pet:           r.Publication.Pet,
	}
	if includeRequester {
		v.Requester = &UserView{
			ID:    r.Requester.ID,
			Name:  r.Requester.Name,
			Email: r.Requester.Email,
		}
	}
	return v
}

//
// Helpers
//

// subject extracts the authenticated user id; on anonymous requests it
// writes a 401 and reports false. The auth middleware normally aborts
// first, so this is a belt-and-suspenders guard for misordered wiring.
func subject(c *gin.Context) (uint, bool) {
	id, ok := middleware.SubjectFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return 0, false
	}
	return id, true
}

// idParam parses the :id route parameter as a positive integer; writes a
// 400 and reports false otherwise.
func idParam(c *gin.Context) (uint, bool) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return 0, false
	}
	return id, true
}

//
// Endpoints
//

// SubmitRequest handles POST /requests.
//
// Returns 201 with the created request, 400 for malformed payloads,
// 404 when the publication does not exist, and 409 for the business
// conflicts (unavailable listing, own listing, duplicate).
func (h *Handlers) SubmitRequest(c *gin.Context) {
	uid, authed := subject(c)
	if !authed {
		return
	}

	var req SubmitRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "publication_id and message are required")
		return
	}

	r, err := h.reqSvc.Submit(c.Request.Context(), uid, req.PublicationID, req.Message)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	ok(c, http.StatusCreated, r)
}

// CancelRequest handles DELETE /requests/:id.
//
// Only the requester may cancel, and only while the request is pending.
// A second cancel observes 404 because the row was hard-deleted.
func (h *Handlers) CancelRequest(c *gin.Context) {
	uid, authed := subject(c)
	if !authed {
		return
	}
	id, okID := idParam(c)
	if !okID {
		return
	}

	if err := h.reqSvc.Cancel(c.Request.Context(), uid, id); err != nil {
		respondServiceError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "adoption request cancelled"})
}

// UpdateRequestStatus handles PATCH /requests/:id/status.
//
// The caller must own the parent publication. Approval cascades: the
// listing becomes unavailable and competing pending requests are
// rejected, atomically. The response reports whether the requester
// notification was actually dispatched; delivery failure never rolls
// back the transition.
func (h *Handlers) UpdateRequestStatus(c *gin.Context) {
	uid, authed := subject(c)
	if !authed {
		return
	}
	id, okID := idParam(c)
	if !okID {
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status is required")
		return
	}

	r, notified, err := h.reqSvc.ChangeStatus(c.Request.Context(), uid, id, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	msg := "request status updated"
	if notified {
		msg = "request status updated; the requester has been notified"
	}
	ok(c, http.StatusOK, ChangeStatusResponse{Request: r, Notified: notified, Message: msg})
}

// ListSentRequests handles GET /requests/sent: the authenticated user's
// own applications, with the targeted pet attached.
func (h *Handlers) ListSentRequests(c *gin.Context) {
	uid, authed := subject(c)
	if !authed {
		return
	}

	items, err := h.reqSvc.ListSent(c.Request.Context(), uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	views := make([]RequestView, 0, len(items))
	for _, r := range items {
		views = append(views, requestView(r, false))
	}
	ok(c, http.StatusOK, gin.H{"requests": views})
}

// ListReceivedRequests handles GET /requests/received: every application
// targeting one of the authenticated user's listings, with requester
// contact details included.
func (h *Handlers) ListReceivedRequests(c *gin.Context) {
	uid, authed := subject(c)
	if !authed {
		return
	}

	items, err := h.reqSvc.ListReceived(c.Request.Context(), uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	views := make([]RequestView, 0, len(items))
	for _, r := range items {
		views = append(views, requestView(r, true))
	}
	ok(c, http.StatusOK, gin.H{"requests": views})
}
