// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// Publication model.
//
// All functions are context-aware and accept a *gorm.DB handle, making
// them safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only
// CRUD persistence and query composition.
//
// Error semantics:
//   - When a publication is not found, functions return
//     gorm.ErrRecordNotFound (exported here as ErrNotFound).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// Ownership checks are intentionally NOT encoded in these queries: the
// service layer needs to distinguish "no such publication" (404) from
// "someone else's publication" (403), so lookups are by ID only.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/MatiBarber/PetNet/internal/domain"
)

// CreatePublication inserts a new available listing owned by ownerID.
// CreatedAt is set to UTC. The associated pet row is created separately
// (see CreatePet) so both can share one transaction.
func CreatePublication(ctx context.Context, db *gorm.DB, ownerID uint, photoPath string) (*domain.Publication, error) {
	p := &domain.Publication{
		OwnerID:   ownerID,
		PhotoPath: photoPath,
		Status:    domain.PublicationAvailable,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// GetPublication fetches a listing by ID with its pet preloaded, or
// ErrNotFound if missing.
func GetPublication(ctx context.Context, db *gorm.DB, id uint) (*domain.Publication, error) {
	var p domain.Publication
	err := db.WithContext(ctx).
		Preload("Pet").
		First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePublicationStatus sets the availability state of a listing.
// Returns ErrNotFound when no row matches.
func UpdatePublicationStatus(ctx context.Context, db *gorm.DB, id uint, status string) error {
	res := db.WithContext(ctx).
		Model(&domain.Publication{}).
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

// UpdatePublicationPhoto replaces the photo reference of a listing.
// Returns ErrNotFound when no row matches.
func UpdatePublicationPhoto(ctx context.Context, db *gorm.DB, id uint, photoPath string) error {
	res := db.WithContext(ctx).
		Model(&domain.Publication{}).
		Where("id = ?", id).
		Update("photo_path", photoPath)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeletePublication removes a listing. The pet and all requests
// referencing it are removed by FK cascade at the storage layer.
// Returns ErrNotFound when no row matches.
func DeletePublication(ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Delete(&domain.Publication{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// availableQuery composes the base query for available listings,
// optionally narrowed by pet species.
func availableQuery(ctx context.Context, db *gorm.DB, species string) *gorm.DB {
	q := db.WithContext(ctx).
		Model(&domain.Publication{}).
		Where("publications.status = ?", domain.PublicationAvailable)
	if species != "" {
		q = q.Joins("JOIN pets ON pets.publication_id = publications.id").
			Where("pets.species = ?", species)
	}
	return q
}

// CountAvailable returns the number of available listings, optionally
// filtered by pet species.
func CountAvailable(ctx context.Context, db *gorm.DB, species string) (int64, error) {
	var total int64
	err := availableQuery(ctx, db, species).Count(&total).Error
	return total, err
}

// ListAvailablePage returns a page of available listings with pets
// preloaded, ordered by creation time descending, optionally filtered by
// pet species. The caller computes offset and limit.
func ListAvailablePage(ctx context.Context, db *gorm.DB, species string, offset, limit int) ([]domain.Publication, error) {
	var out []domain.Publication
	err := availableQuery(ctx, db, species).
		Preload("Pet").
		Order("publications.created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListPublicationsByOwner returns all listings owned by ownerID with pets
// preloaded, most recent first.
func ListPublicationsByOwner(ctx context.Context, db *gorm.DB, ownerID uint) ([]domain.Publication, error) {
	var out []domain.Publication
	err := db.WithContext(ctx).
		Preload("Pet").
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}
