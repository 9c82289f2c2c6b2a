package marketplace

import (
	"context"
	"io"
	"time"

	marketplaceRepo "suntrack/database/repository/marketplace"
	userRepo "suntrack/database/repository/user"
	"suntrack/models"
	"suntrack/services/storage"
)

// PostProductRequest is the multipart form payload for publishing a
// product; images travel separately as file parts.
type PostProductRequest struct {
	Title         string                  `form:"title" binding:"required"`
	Description   string                  `form:"description" binding:"required"`
	PricingOption models.PricingOption    `form:"pricingOption" binding:"required,oneof=FIXED NEGOTIABLE FREE"`
	Price         float64                 `form:"price"`
	Condition     models.ProductCondition `form:"condition" binding:"required,oneof=NEW USED"`
	Category      models.ProductCategory  `form:"category" binding:"required"`
}

// PostServiceRequest is the multipart form payload for publishing a
// service.
type PostServiceRequest struct {
	Title         string                 `form:"title" binding:"required"`
	Description   string                 `form:"description" binding:"required"`
	PricingOption models.PricingOption   `form:"pricingOption" binding:"required,oneof=FIXED NEGOTIABLE FREE"`
	Price         float64                `form:"price"`
	Category      models.ServiceCategory `form:"category" binding:"required"`
}

// Filters narrows a publication page to the selected categories.
type Filters struct {
	ProductCategories []models.ProductCategory `form:"productCategories"`
	ServiceCategories []models.ServiceCategory `form:"serviceCategories"`
}

// Pagination selects a page of publications. Page is 1-based.
type Pagination struct {
	Page  int64 `form:"page,default=1" binding:"min=1"`
	Limit int64 `form:"limit,default=20" binding:"min=1"`
}

// PublicationView is the per-requester projection of a publication:
// the publisher resolved to a public profile plus an amIPublisher flag.
type PublicationView struct {
	ID            string                  `json:"id"`
	Type          models.PublicationType  `json:"type"`
	Title         string                  `json:"title"`
	Description   string                  `json:"description"`
	Images        []string                `json:"images"`
	PricingOption models.PricingOption    `json:"pricingOption"`
	Price         float64                 `json:"price,omitempty"`
	Condition     models.ProductCondition `json:"condition,omitempty"`
	Category      string                  `json:"category,omitempty"`
	Publisher     models.BriefUserInfo    `json:"publisher"`
	AmIPublisher  bool                    `json:"amIPublisher"`
	CreatedAt     time.Time               `json:"createdAt"`
}

// Page is one page of publication views.
type Page struct {
	TotalItems int               `json:"totalItems"`
	Items      []PublicationView `json:"items"`
	Page       int64             `json:"page"`
	Limit      int64             `json:"limit"`
}

// Limits describes publication constraints for client-side validation.
type Limits struct {
	TitleMinLength int `json:"titleMinLength"`
	TitleMaxLength int `json:"titleMaxLength"`
}

// MarketplaceService owns the publication lifecycle: posting with image
// upload, cached paged queries and publisher-only deletion.
type MarketplaceService interface {
	// GetLimits reports publication constraints.
	GetLimits() Limits
	// PostProduct uploads the images and persists a product publication.
	PostProduct(ctx context.Context, userID string, images []io.Reader, req PostProductRequest) (*PublicationView, error)
	// PostService uploads the images and persists a service publication.
	PostService(ctx context.Context, userID string, images []io.Reader, req PostServiceRequest) (*PublicationView, error)
	// GetPublications returns a page of publications matching the
	// filters, served from the query cache when possible.
	GetPublications(ctx context.Context, userID string, p Pagination, f Filters) (*Page, error)
	// DeletePublication removes a publication; publisher only. Blob
	// deletion is best-effort.
	DeletePublication(ctx context.Context, userID, publicationID string) error
}

// DefaultMarketplaceService is the production implementation.
type DefaultMarketplaceService struct {
	Repo     marketplaceRepo.PublicationRepository
	UserRepo userRepo.UserRepository
	Storage  storage.StorageService
	Cache    PageCache
}
