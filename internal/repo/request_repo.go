// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Request
// model — the adoption applications driving the lifecycle state machine.
//
// The write helpers here are deliberately narrow (single status update,
// sibling rejection, hard delete) so the service layer can compose them
// inside one transaction for the approval cascade.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/MatiBarber/PetNet/internal/domain"
)

// CreateRequest inserts a pending adoption request. The unique index on
// (requester_id, publication_id) backs duplicate detection under
// concurrent submits; callers map the constraint violation.
func CreateRequest(ctx context.Context, db *gorm.DB, requesterID, publicationID uint, message string) (*domain.Request, error) {
	r := &domain.Request{
		RequesterID:   requesterID,
		PublicationID: publicationID,
		Message:       message,
		Status:        domain.RequestPending,
		CreatedAt:     time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// GetRequest fetches a request by ID with its publication, the
// publication's pet, and the requester preloaded — everything the
// lifecycle needs for ownership checks and notification addressing.
// Returns ErrNotFound if missing.
func GetRequest(ctx context.Context, db *gorm.DB, id uint) (*domain.Request, error) {
	var r domain.Request
	err := db.WithContext(ctx).
		Preload("Publication").
		Preload("Publication.Pet").
		Preload("Requester").
		First(&r, id).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// FindRequest fetches the request a user holds on a publication, or
// ErrNotFound when none exists. Used for the duplicate-submit guard.
func FindRequest(ctx context.Context, db *gorm.DB, requesterID, publicationID uint) (*domain.Request, error) {
	var r domain.Request
	err := db.WithContext(ctx).
		Where("requester_id = ? AND publication_id = ?", requesterID, publicationID).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// HasApprovedRequest reports whether any request on the publication is
// approved. Backs the edit-time guard against relisting an adopted pet.
func HasApprovedRequest(ctx context.Context, db *gorm.DB, publicationID uint) (bool, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Request{}).
		Where("publication_id = ? AND status = ?", publicationID, domain.RequestApproved).
		Count(&total).Error
	return total > 0, err
}

// UpdateRequestStatus sets the state of a single request. Returns
// ErrNotFound when no row matches.
func UpdateRequestStatus(ctx context.Context, db *gorm.DB, id uint, status string) error {
	res := db.WithContext(ctx).
		Model(&domain.Request{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RejectPendingSiblings moves every pending request on the publication,
// except exceptID, to rejected. Requests already rejected are left
// untouched. Returns the number of rows changed.
func RejectPendingSiblings(ctx context.Context, db *gorm.DB, publicationID, exceptID uint) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Request{}).
		Where("publication_id = ? AND id <> ? AND status = ?",
			publicationID, exceptID, domain.RequestPending).
		Update("status", domain.RequestRejected)
	return res.RowsAffected, res.Error
}

// DeleteRequest hard-deletes a request (requester cancellation).
// Returns ErrNotFound when no row matches, which is what a second cancel
// attempt observes.
func DeleteRequest(ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Delete(&domain.Request{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListRequestsByRequester returns the requests a user has sent, with the
// targeted publication and its pet preloaded, most recent first.
func ListRequestsByRequester(ctx context.Context, db *gorm.DB, requesterID uint) ([]domain.Request, error) {
	var out []domain.Request
	err := db.WithContext(ctx).
		Preload("Publication").
		Preload("Publication.Pet").
		Where("requester_id = ?", requesterID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// ListRequestsForOwner returns every request targeting any publication
// owned by ownerID, with requester and pet preloaded, most recent first.
func ListRequestsForOwner(ctx context.Context, db *gorm.DB, ownerID uint) ([]domain.Request, error) {
	var out []domain.Request
	err := db.WithContext(ctx).
		Joins("JOIN publications ON publications.id = requests.publication_id").
		Where("publications.owner_id = ?", ownerID).
		Preload("Publication").
		Preload("Publication.Pet").
		Preload("Requester").
		Order("requests.created_at desc").
		Find(&out).Error
	return out, err
}
