package domain

import (
	"errors"
	"time"
)

var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrInvalidImage     = errors.New("image must be JPEG or PNG")
	ErrImageTooLarge    = errors.New("image exceeds maximum size")
)

// Property is the canonical listing entity. Field names are English; the
// Spanish wire shape consumed by the frontend is produced exclusively by the
// toWire/fromWire mappers in the handler layer.
type Property struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Price       float64   `json:"price"`
	Bedrooms    int       `json:"bedrooms"`
	Bathrooms   int       `json:"bathrooms"`
	AreaM2      float64   `json:"area_m2"`
	Furnished   bool      `json:"furnished"`
	Available   bool      `json:"available"`
	Images      []string  `json:"images"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
