package ports

import (
	"context"

	"github.com/terracasa/realty-system/internal/core/domain"
)

// ImageUpload is a raw file received from a multipart form, not yet validated.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// CreatePropertyInput carries all data needed to create a new listing.
type CreatePropertyInput struct {
	Title       string
	Description string
	Address     string
	City        string
	Country     string
	Price       float64
	Bedrooms    int
	Bathrooms   int
	AreaM2      float64
	Furnished   bool
	Available   bool
	Images      []ImageUpload
	OwnerID     string
}

// UpdatePropertyInput mirrors CreatePropertyInput for full-document updates.
// Newly uploaded images are appended to the ones kept from the existing
// document (KeepImages holds the URLs the caller wants to retain).
type UpdatePropertyInput struct {
	Title       string
	Description string
	Address     string
	City        string
	Country     string
	Price       float64
	Bedrooms    int
	Bathrooms   int
	AreaM2      float64
	Furnished   bool
	Available   bool
	KeepImages  []string
	NewImages   []ImageUpload
}

// ListPropertiesResult is returned by List.
type ListPropertiesResult struct {
	Items      []*domain.Property
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// PropertyService defines use-case operations for listings.
type PropertyService interface {
	Create(ctx context.Context, input CreatePropertyInput) (*domain.Property, error)
	Get(ctx context.Context, id string) (*domain.Property, error)
	List(ctx context.Context, filter ListPropertiesFilter) (*ListPropertiesResult, error)
	Update(ctx context.Context, id, actorID string, input UpdatePropertyInput) (*domain.Property, error)
	Delete(ctx context.Context, id, actorID string) error
}
