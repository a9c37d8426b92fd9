// Package domain defines the persistence models for users, publications,
// pets, and adoption requests. These types are mapped with GORM and form
// the core data layer of the PetNet marketplace.
package domain

import "time"

// Publication availability states.
const (
	PublicationAvailable   = "available"
	PublicationUnavailable = "unavailable"
)

// Adoption request states.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// Enumerated pet attribute domains. Edits and creations are validated
// against these closed sets at the service layer; the same values back
// the species filter on the public listing endpoint.
var (
	PetSpecies = []string{"dog", "cat", "bird", "rabbit", "rodent", "other"}
	PetSizes   = []string{"small", "medium", "large"}
	PetSexes   = []string{"male", "female"}
)

// ValidRequestStatus reports whether s is a member of the request state set.
func ValidRequestStatus(s string) bool {
	return s == RequestPending || s == RequestApproved || s == RequestRejected
}

// ValidPublicationStatus reports whether s is a member of the availability set.
func ValidPublicationStatus(s string) bool {
	return s == PublicationAvailable || s == PublicationUnavailable
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// ValidSpecies reports whether v is an allowed pet species.
func ValidSpecies(v string) bool { return contains(PetSpecies, v) }

// ValidSize reports whether v is an allowed pet size.
func ValidSize(v string) bool { return contains(PetSizes, v) }

// ValidSex reports whether v is an allowed pet sex.
func ValidSex(v string) bool { return contains(PetSexes, v) }

// User is an identity holder: it owns publications and submits adoption
// requests. Registration, credential handling, and profile validation live
// outside this service; rows here exist so foreign keys and notification
// recipients resolve.
//
// Email and PasswordHash are never mutated through this service.
type User struct {
	ID           uint      `json:"id"    gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string    `json:"-"     gorm:"type:varchar(255);not null"`
	Name         string    `json:"name"  gorm:"type:varchar(120);not null"`
	Phone        string    `json:"phone" gorm:"type:varchar(32)"`
	City         string    `json:"city"  gorm:"type:varchar(120)"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Publication is an adoption listing. Its Status is "available" until a
// request on it is approved, at which point the lifecycle cascade flips it
// to "unavailable". Deleting a publication removes its pet and every
// request referencing it via FK cascade.
//
// Pet is a true one-to-one association (unique FK on pets.publication_id).
type Publication struct {
	ID        uint      `json:"id"         gorm:"primaryKey"`
	OwnerID   uint      `json:"owner_id"   gorm:"not null;index:idx_owner_pubs"`
	PhotoPath string    `json:"photo_path" gorm:"type:varchar(512);not null"`
	Status    string    `json:"status"     gorm:"type:varchar(16);not null;default:'available';check:status IN ('available','unavailable')"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Owner is the publishing user. Never cascade-deleted from here.
	Owner User `json:"-" gorm:"foreignKey:OwnerID;references:ID"`

	// Pet is the descriptive payload; removed together with the listing.
	Pet *Pet `json:"pet,omitempty" gorm:"foreignKey:PublicationID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	// Requests are the adoption applications targeting this listing.
	Requests []Request `json:"-" gorm:"foreignKey:PublicationID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Publication.
func (Publication) TableName() string { return "publications" }

// Pet holds the descriptive attributes of a listed animal. It always
// belongs to exactly one publication and shares its lifetime.
type Pet struct {
	ID            uint      `json:"id"          gorm:"primaryKey"`
	PublicationID uint      `json:"-"           gorm:"not null;uniqueIndex"`
	Name          string    `json:"name"        gorm:"type:varchar(120);not null"`
	Species       string    `json:"species"     gorm:"type:varchar(32);not null;index"`
	Sex           string    `json:"sex"         gorm:"type:varchar(16);not null;check:sex IN ('male','female')"`
	Size          string    `json:"size"        gorm:"type:varchar(16);not null;check:size IN ('small','medium','large')"`
	Description   string    `json:"description" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName returns the database table name for Pet.
func (Pet) TableName() string { return "pets" }

// Request is an adoption application by a user for a publication. A user
// may hold at most one request per publication (unique composite index),
// can never target their own listing, and may only submit while the
// listing is available. State transitions are governed by the lifecycle
// transition table in lifecycle.go.
type Request struct {
	ID            uint      `json:"id"             gorm:"primaryKey"`
	RequesterID   uint      `json:"requester_id"   gorm:"not null;index;uniqueIndex:ux_request_requester_pub"`
	PublicationID uint      `json:"publication_id" gorm:"not null;index;uniqueIndex:ux_request_requester_pub"`
	Message       string    `json:"message"        gorm:"type:text;not null"`
	Status        string    `json:"status"         gorm:"type:varchar(16);not null;default:'pending';check:status IN ('pending','approved','rejected')"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Requester is the applying user; needed to address notifications.
	Requester User `json:"-" gorm:"foreignKey:RequesterID;references:ID"`

	// Publication is the targeted listing. Requests are cascade-deleted
	// when the listing is removed.
	Publication Publication `json:"-" gorm:"foreignKey:PublicationID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Request.
func (Request) TableName() string { return "requests" }
