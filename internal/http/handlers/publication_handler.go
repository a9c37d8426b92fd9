// Publication HTTP handlers.
//
// This file exposes REST endpoints for adoption listings:
//   - POST   /publications            (create)
//   - PUT    /publications/{id}       (edit, owner only)
//   - DELETE /publications/{id}       (delete, owner only)
//   - GET    /publications/available  (public browse, ?type= filter)
//   - GET    /publications/mine       (owner listing)
//   - GET    /publications/{id}       (public detail)
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MatiBarber/PetNet/internal/domain"
	"github.com/MatiBarber/PetNet/internal/services"
	"github.com/MatiBarber/PetNet/internal/utils"
)

// PublicationService defines the listing operations consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type PublicationService interface {
	// Create publishes a listing with its pet payload atomically.
	Create(ctx context.Context, ownerID uint, in services.PetInput, photoPath string) (*domain.Publication, error)
	// Edit updates a listing and its pet; photo and status are optional.
	Edit(ctx context.Context, ownerID, id uint, in services.PetInput, photoPath, status *string) (*domain.Publication, error)
	// Delete removes a listing; pet and requests go with it by cascade.
	Delete(ctx context.Context, ownerID, id uint) error
	// ListAvailable returns a page of available listings and the total.
	ListAvailable(ctx context.Context, species string, page, pageSize int) ([]domain.Publication, int64, error)
	// ListOwned returns the caller's listings.
	ListOwned(ctx context.Context, ownerID uint) ([]domain.Publication, error)
	// Get fetches one listing for the public detail view.
	Get(ctx context.Context, id uint) (*domain.Publication, error)
}

// Handlers groups the HTTP endpoints for publications and adoption
// requests. It depends on abstract service interfaces to keep transport
// concerns separate from business logic.
type Handlers struct {
	pubSvc PublicationService
	reqSvc RequestService
}

// New constructs a Handlers instance bound to the given services.
func New(pubSvc PublicationService, reqSvc RequestService) *Handlers {
	return &Handlers{pubSvc: pubSvc, reqSvc: reqSvc}
}

//
// DTOs
//

// PetPayload carries the pet attributes of a create/edit command.
type PetPayload struct {
	Name        string `json:"name" binding:"required"`
	Species     string `json:"species" binding:"required"`
	Sex         string `json:"sex" binding:"required"`
	Size        string `json:"size" binding:"required"`
	Description string `json:"description"`
}

// CreatePublicationRequest is the JSON payload for creating a listing.
// The photo reference is mandatory on create.
type CreatePublicationRequest struct {
	PhotoPath string     `json:"photo_path" binding:"required"`
	Pet       PetPayload `json:"pet" binding:"required"`
}

// UpdatePublicationRequest is the JSON payload for editing a listing.
// PhotoPath is optional (the existing photo is retained when omitted);
// Status allows pausing a listing, subject to the approved-request guard.
type UpdatePublicationRequest struct {
	PhotoPath *string    `json:"photo_path"`
	Status    *string    `json:"status"`
	Pet       PetPayload `json:"pet" binding:"required"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListAvailableResponse wraps a page of available listings. Message is
// set when nothing is available so an empty marketplace is an explicit,
// friendly outcome rather than a bare empty array.
type ListAvailableResponse struct {
	Publications []domain.Publication `json:"publications"`
	Pagination   Pagination           `json:"pagination"`
	Message      string               `json:"message,omitempty"`
}

// petInput converts the transport payload to the service input.
func (p PetPayload) petInput() services.PetInput {
	return services.PetInput{
		Name:        p.Name,
		Species:     p.Species,
		Sex:         p.Sex,
		Size:        p.Size,
		Description: p.Description,
	}
}

// clampPagination parses and bounds page and page_size query params.
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

//
// Endpoints
//

// CreatePublication handles POST /publications. Returns 201 with the
// listing (pet embedded) or 400 with the field-level error list.
func (h *Handlers) CreatePublication(c *gin.Context) {
	uid, authed := subject(c)
	if !authed {
		return
	}

	var req CreatePublicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "photo_path and pet are required")
		return
	}

	pub, err := h.pubSvc.Create(c.Request.Context(), uid, req.Pet.petInput(), req.PhotoPath)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	ok(c, http.StatusCreated, pub)
}

// UpdatePublication handles PUT /publications/:id. Owner only; 409 when
// the edit would relist a pet that already has an approved request.
func (h *Handlers) UpdatePublication(c *gin.Context) {
	uid, authed := subject(c)
	if !authed {
		return
	}
	id, okID := idParam(c)
	if !okID {
		return
	}

	var req UpdatePublicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "pet is required")
		return
	}

	pub, err := h.pubSvc.Edit(c.Request.Context(), uid, id, req.Pet.petInput(), req.PhotoPath, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	ok(c, http.StatusOK, pub)
}

// DeletePublication handles DELETE /publications/:id. Owner only; the
// pet and every request on the listing are removed by storage cascade.
func (h *Handlers) DeletePublication(c *gin.Context) {
	uid, authed := subject(c)
	if !authed {
		return
	}
	id, okID := idParam(c)
	if !okID {
		return
	}

	if err := h.pubSvc.Delete(c.Request.Context(), uid, id); err != nil {
		respondServiceError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "publication deleted"})
}

// ListAvailablePublications handles GET /publications/available. Public.
// The optional ?type= query narrows by species; unknown species are a
// 400, not an empty page.
func (h *Handlers) ListAvailablePublications(c *gin.Context) {
	page, pageSize := clampPagination(c)

	items, total, err := h.pubSvc.ListAvailable(c.Request.Context(), c.Query("type"), page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	resp := ListAvailableResponse{
		Publications: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	}
	if total == 0 {
		resp.Message = "no pets are available for adoption right now"
	}
	ok(c, http.StatusOK, resp)
}

// ListMyPublications handles GET /publications/mine.
func (h *Handlers) ListMyPublications(c *gin.Context) {
	uid, authed := subject(c)
	if !authed {
		return
	}

	items, err := h.pubSvc.ListOwned(c.Request.Context(), uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"publications": items})
}

// GetPublication handles GET /publications/:id. Public detail view.
func (h *Handlers) GetPublication(c *gin.Context) {
	id, okID := idParam(c)
	if !okID {
		return
	}

	pub, err := h.pubSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	ok(c, http.StatusOK, pub)
}
