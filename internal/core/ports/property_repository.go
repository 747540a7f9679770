package ports

import (
	"context"

	"github.com/terracasa/realty-system/internal/core/domain"
)

// ListPropertiesFilter carries all query parameters for listing properties.
type ListPropertiesFilter struct {
	City      string  // optional: case-insensitive exact match
	MinPrice  float64 // optional: price >= MinPrice (0 = unset)
	MaxPrice  float64 // optional: price <= MaxPrice (0 = unset)
	Furnished *bool   // optional tri-state
	Page      int     // 1-based
	Limit     int     // max rows per page (capped at 100 by the service)
}

// PropertyRepository defines persistence operations for listings.
type PropertyRepository interface {
	Create(ctx context.Context, p *domain.Property) (*domain.Property, error)
	FindByID(ctx context.Context, id string) (*domain.Property, error)
	// Update applies the given fields and returns the updated document.
	Update(ctx context.Context, p *domain.Property) (*domain.Property, error)
	Delete(ctx context.Context, id string) error
	// List returns a page of properties matching filter and the total count.
	List(ctx context.Context, filter ListPropertiesFilter) ([]*domain.Property, int64, error)
}
