// Package services – PublicationService
//
// This file implements the PublicationService, which owns the
// availability side of the marketplace: creating listings together with
// their pet payload, owner-scoped edits, deletion, and the public
// browse/filter projection. Service-level errors (e.g.
// ErrPublicationNotFound, ErrNotPublicationOwner) are returned for
// predictable cases so handlers can map them to HTTP results
// consistently.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/MatiBarber/PetNet/internal/domain"
	"github.com/MatiBarber/PetNet/internal/repo"
)

// PetInput carries the descriptive attributes of a listed animal as
// supplied by the owner. Species, sex, and size are validated against the
// enumerated domains in the domain package.
type PetInput struct {
	Name        string
	Species     string
	Sex         string
	Size        string
	Description string
}

// PublicationService provides listing-level operations: create, edit,
// delete, and the availability projections. It enforces pet attribute
// domains and ownership constraints; the availability state itself is
// driven by the request lifecycle, with a narrow edit-time escape hatch
// (see Edit).
type PublicationService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// normalize lowercases and trims the enumerated fields so validation and
// storage are case-insensitive at the edge.
func (in *PetInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Species = strings.ToLower(strings.TrimSpace(in.Species))
	in.Sex = strings.ToLower(strings.TrimSpace(in.Sex))
	in.Size = strings.ToLower(strings.TrimSpace(in.Size))
	in.Description = strings.TrimSpace(in.Description)
}

// validatePet checks the pet attributes against the enumerated domains
// and collects every failing field.
func validatePet(in PetInput) *ValidationError {
	verr := &ValidationError{}
	if in.Name == "" {
		verr.add("name", "must not be empty")
	}
	if !domain.ValidSpecies(in.Species) {
		verr.add("species", "must be one of "+strings.Join(domain.PetSpecies, ", "))
	}
	if !domain.ValidSex(in.Sex) {
		verr.add("sex", "must be one of "+strings.Join(domain.PetSexes, ", "))
	}
	if !domain.ValidSize(in.Size) {
		verr.add("size", "must be one of "+strings.Join(domain.PetSizes, ", "))
	}
	return verr
}

// Create publishes a new listing owned by ownerID, with availability
// "available" and the pet payload created atomically: both rows exist or
// neither does.
//
// The photo reference is mandatory on create (unlike Edit, where it is
// optional). Returns a ValidationError listing every rejected field.
func (s *PublicationService) Create(ctx context.Context, ownerID uint, in PetInput, photoPath string) (*domain.Publication, error) {
	in.normalize()
	photoPath = strings.TrimSpace(photoPath)

	verr := validatePet(in)
	if photoPath == "" {
		verr.add("photo_path", "must not be empty")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	var pub *domain.Publication
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := repo.CreatePublication(ctx, tx, ownerID, photoPath)
		if err != nil {
			return err
		}
		pet := &domain.Pet{
			PublicationID: p.ID,
			Name:          in.Name,
			Species:       in.Species,
			Sex:           in.Sex,
			Size:          in.Size,
			Description:   in.Description,
		}
		if err := repo.CreatePet(ctx, tx, pet); err != nil {
			return err
		}
		p.Pet = pet
		pub = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pub, nil
}

// Edit updates a listing and its pet in one transaction.
//
// Semantics and validation:
//   - The listing must exist (ErrPublicationNotFound) and belong to
//     ownerID (ErrNotPublicationOwner).
//   - Pet fields are validated against the enumerated domains.
//   - photoPath is optional; when nil the existing photo is retained.
//   - status is optional. An owner may pause a listing by writing
//     "unavailable", but writing "available" while an approved request
//     exists is rejected with ErrApprovedRequestExists — that state is
//     owned by the lifecycle cascade.
//   - The pet row is updated when present and created when missing, so a
//     listing whose pet vanished heals itself on the next edit.
func (s *PublicationService) Edit(ctx context.Context, ownerID, id uint, in PetInput, photoPath, status *string) (*domain.Publication, error) {
	in.normalize()

	var pub *domain.Publication
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := repo.GetPublication(ctx, tx, id)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrPublicationNotFound
			}
			return err
		}
		if p.OwnerID != ownerID {
			return ErrNotPublicationOwner
		}

		verr := validatePet(in)
		if photoPath != nil && strings.TrimSpace(*photoPath) == "" {
			verr.add("photo_path", "must not be empty when provided")
		}
		if status != nil && !domain.ValidPublicationStatus(strings.ToLower(strings.TrimSpace(*status))) {
			verr.add("status", "must be available or unavailable")
		}
		if err := verr.orNil(); err != nil {
			return err
		}

		if status != nil {
			next := strings.ToLower(strings.TrimSpace(*status))
			if next == domain.PublicationAvailable && p.Status == domain.PublicationUnavailable {
				approved, err := repo.HasApprovedRequest(ctx, tx, p.ID)
				if err != nil {
					return err
				}
				if approved {
					return ErrApprovedRequestExists
				}
			}
			if next != p.Status {
				if err := repo.UpdatePublicationStatus(ctx, tx, p.ID, next); err != nil {
					return err
				}
				p.Status = next
			}
		}

		if photoPath != nil {
			photo := strings.TrimSpace(*photoPath)
			if err := repo.UpdatePublicationPhoto(ctx, tx, p.ID, photo); err != nil {
				return err
			}
			p.PhotoPath = photo
		}

		if p.Pet != nil {
			p.Pet.Name = in.Name
			p.Pet.Species = in.Species
			p.Pet.Sex = in.Sex
			p.Pet.Size = in.Size
			p.Pet.Description = in.Description
			if err := repo.SavePet(ctx, tx, p.Pet); err != nil {
				return err
			}
		} else {
			pet := &domain.Pet{
				PublicationID: p.ID,
				Name:          in.Name,
				Species:       in.Species,
				Sex:           in.Sex,
				Size:          in.Size,
				Description:   in.Description,
			}
			if err := repo.CreatePet(ctx, tx, pet); err != nil {
				return err
			}
			p.Pet = pet
		}

		pub = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pub, nil
}

// Delete removes a listing owned by ownerID. The pet and every request
// referencing the listing are removed by FK cascade at the storage layer;
// nothing is re-implemented in application logic.
func (s *PublicationService) Delete(ctx context.Context, ownerID, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := repo.GetPublication(ctx, tx, id)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrPublicationNotFound
			}
			return err
		}
		if p.OwnerID != ownerID {
			return ErrNotPublicationOwner
		}
		return repo.DeletePublication(ctx, tx, id)
	})
}

// ListAvailable returns a page of available listings, optionally narrowed
// by pet species, plus the total count for pagination. An unknown species
// filter is a validation error rather than a silent empty result.
//
// An empty page is a legitimate outcome; the HTTP layer turns it into an
// explicit "nothing available" message, not an error.
func (s *PublicationService) ListAvailable(ctx context.Context, species string, page, pageSize int) ([]domain.Publication, int64, error) {
	species = strings.ToLower(strings.TrimSpace(species))
	if species != "" && !domain.ValidSpecies(species) {
		verr := &ValidationError{}
		verr.add("type", "must be one of "+strings.Join(domain.PetSpecies, ", "))
		return nil, 0, verr
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountAvailable(ctx, s.DB, species)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Publication{}, 0, nil
	}

	items, err := repo.ListAvailablePage(ctx, s.DB, species, offset, pageSize)
	return items, total, err
}

// ListOwned returns every listing owned by ownerID, newest first.
func (s *PublicationService) ListOwned(ctx context.Context, ownerID uint) ([]domain.Publication, error) {
	return repo.ListPublicationsByOwner(ctx, s.DB, ownerID)
}

// Get fetches a single listing by ID for the public detail view.
func (s *PublicationService) Get(ctx context.Context, id uint) (*domain.Publication, error) {
	p, err := repo.GetPublication(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPublicationNotFound
		}
		return nil, err
	}
	return p, nil
}
