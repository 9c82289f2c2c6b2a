package marketplaceRepo

import (
	"context"

	"suntrack/models"
)

// PublicationFilters narrows a publication page to the selected
// categories. Empty slices match nothing for that publication type.
type PublicationFilters struct {
	ProductCategories []models.ProductCategory
	ServiceCategories []models.ServiceCategory
}

// PublicationRepository defines data access for the marketplace
// publication collection. Products and services live in one collection
// discriminated by the type tag.
type PublicationRepository interface {
	// Create inserts a new publication.
	Create(ctx context.Context, publication *models.Publication) error
	// GetByID retrieves a publication by its unique ID, or nil if absent.
	GetByID(ctx context.Context, id string) (*models.Publication, error)
	// Delete removes a publication by its ID and returns the deleted count.
	Delete(ctx context.Context, id string) (int64, error)
	// FindPage returns a page of publications matching the filters,
	// newest first.
	FindPage(ctx context.Context, offset, limit int64, filters PublicationFilters) ([]models.Publication, error)
}
