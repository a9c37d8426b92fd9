// Pet persistence. Pets never exist on their own: every function here is
// keyed by the owning publication and expected to run inside the same
// transaction that touches the listing.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/MatiBarber/PetNet/internal/domain"
)

// CreatePet inserts the descriptive payload for a publication.
func CreatePet(ctx context.Context, db *gorm.DB, p *domain.Pet) error {
	return db.WithContext(ctx).Create(p).Error
}

// GetPetByPublication fetches the pet attached to a listing, or
// ErrNotFound if the row is missing.
func GetPetByPublication(ctx context.Context, db *gorm.DB, publicationID uint) (*domain.Pet, error) {
	var p domain.Pet
	err := db.WithContext(ctx).
		Where("publication_id = ?", publicationID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SavePet persists all fields of an existing pet row.
func SavePet(ctx context.Context, db *gorm.DB, p *domain.Pet) error {
	return db.WithContext(ctx).Save(p).Error
}
