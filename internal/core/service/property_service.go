package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/terracasa/realty-system/internal/api/metrics"
	"github.com/terracasa/realty-system/internal/core/domain"
	"github.com/terracasa/realty-system/internal/core/ports"
)

const (
	maxImageBytes = 5 << 20 // 5 MiB per file
	defaultLimit  = 20
	maxLimit      = 100
)

// PropertyService implements listing CRUD with image uploads.
type PropertyService struct {
	repo   ports.PropertyRepository
	images ports.ImageStore
	audit  ports.AuditRecorder
}

func NewPropertyService(repo ports.PropertyRepository, images ports.ImageStore, audit ports.AuditRecorder) *PropertyService {
	return &PropertyService{repo: repo, images: images, audit: audit}
}

func (s *PropertyService) Create(ctx context.Context, input ports.CreatePropertyInput) (*domain.Property, error) {
	if input.Title == "" || input.City == "" || input.Price <= 0 {
		return nil, domain.ErrMissingFields
	}

	urls, err := s.uploadImages(ctx, input.Images)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.Property{
		Title:       input.Title,
		Description: input.Description,
		Address:     input.Address,
		City:        input.City,
		Country:     input.Country,
		Price:       input.Price,
		Bedrooms:    input.Bedrooms,
		Bathrooms:   input.Bathrooms,
		AreaM2:      input.AreaM2,
		Furnished:   input.Furnished,
		Available:   input.Available,
		Images:      urls,
		OwnerID:     input.OwnerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	metrics.PropertiesCreatedTotal.WithLabelValues(created.City).Inc()
	s.record(input.OwnerID, domain.ActionPropertyCreated, created.ID)
	return created, nil
}

func (s *PropertyService) Get(ctx context.Context, id string) (*domain.Property, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *PropertyService) List(ctx context.Context, filter ports.ListPropertiesFilter) (*ports.ListPropertiesResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.ListPropertiesResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *PropertyService) Update(ctx context.Context, id, actorID string, input ports.UpdatePropertyInput) (*domain.Property, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	urls, err := s.uploadImages(ctx, input.NewImages)
	if err != nil {
		return nil, err
	}

	existing.Title = input.Title
	existing.Description = input.Description
	existing.Address = input.Address
	existing.City = input.City
	existing.Country = input.Country
	existing.Price = input.Price
	existing.Bedrooms = input.Bedrooms
	existing.Bathrooms = input.Bathrooms
	existing.AreaM2 = input.AreaM2
	existing.Furnished = input.Furnished
	existing.Available = input.Available
	existing.Images = append(input.KeepImages, urls...)
	existing.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}

	s.record(actorID, domain.ActionPropertyUpdated, id)
	return updated, nil
}

func (s *PropertyService) Delete(ctx context.Context, id, actorID string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(actorID, domain.ActionPropertyDeleted, id)
	return nil
}

// uploadImages validates and stores every file. Content type is sniffed from
// the payload, never trusted from the filename.
func (s *PropertyService) uploadImages(ctx context.Context, uploads []ports.ImageUpload) ([]string, error) {
	if len(uploads) == 0 {
		return nil, nil
	}

	urls := make([]string, 0, len(uploads))
	for _, img := range uploads {
		if len(img.Data) > maxImageBytes {
			return nil, domain.ErrImageTooLarge
		}

		contentType := http.DetectContentType(img.Data)
		var ext string
		switch contentType {
		case "image/jpeg":
			ext = ".jpg"
		case "image/png":
			ext = ".png"
		default:
			return nil, domain.ErrInvalidImage
		}

		key := fmt.Sprintf("properties/%d/%s%s", time.Now().UTC().Year(), uuid.New(), ext)
		url, err := s.images.Upload(ctx, key, contentType, img.Data)
		if err != nil {
			return nil, fmt.Errorf("upload image %q: %w", img.Filename, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *PropertyService) record(actor string, action domain.AuditAction, target string) {
	if s.audit != nil {
		s.audit.Record(ports.AuditEventInput{
			Actor:     actor,
			Action:    action,
			Target:    target,
			Timestamp: time.Now().UTC(),
		})
	}
}
