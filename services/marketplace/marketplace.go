package marketplace

import (
	"context"
	"fmt"
	"io"
	"time"

	marketplaceRepo "suntrack/database/repository/marketplace"
	"suntrack/models"
	"suntrack/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// marketplaceImagesFolder is the blob storage folder for publication images.
const marketplaceImagesFolder = "marketplace"

// GetLimits reports publication constraints for client-side validation.
func (s *DefaultMarketplaceService) GetLimits() Limits {
	return Limits{
		TitleMinLength: utils.PublicationTitleMinLength,
		TitleMaxLength: utils.PublicationTitleMaxLength,
	}
}

// PostProduct uploads the images, invalidates the query cache and
// persists a product publication.
func (s *DefaultMarketplaceService) PostProduct(ctx context.Context, userID string, images []io.Reader, req PostProductRequest) (*PublicationView, error) {
	publisher, err := s.checkPublisher(ctx, userID, req.Title)
	if err != nil {
		return nil, err
	}

	imageURLs, err := s.uploadImages(ctx, images)
	if err != nil {
		return nil, err
	}

	publication := &models.Publication{
		ID:            uuid.New().String(),
		Type:          models.PublicationProduct,
		Title:         req.Title,
		Description:   req.Description,
		Images:        imageURLs,
		PricingOption: req.PricingOption,
		Price:         req.Price,
		Condition:     req.Condition,
		Category:      string(req.Category),
		Publisher:     userID,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, publication); err != nil {
		return nil, err
	}

	s.Cache.InvalidateAll(ctx)
	view := mapToView(userID, publication, publisher.Brief())
	return &view, nil
}

// PostService uploads the images, invalidates the query cache and
// persists a service publication.
func (s *DefaultMarketplaceService) PostService(ctx context.Context, userID string, images []io.Reader, req PostServiceRequest) (*PublicationView, error) {
	publisher, err := s.checkPublisher(ctx, userID, req.Title)
	if err != nil {
		return nil, err
	}

	imageURLs, err := s.uploadImages(ctx, images)
	if err != nil {
		return nil, err
	}

	publication := &models.Publication{
		ID:            uuid.New().String(),
		Type:          models.PublicationService,
		Title:         req.Title,
		Description:   req.Description,
		Images:        imageURLs,
		PricingOption: req.PricingOption,
		Price:         req.Price,
		Category:      string(req.Category),
		Publisher:     userID,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, publication); err != nil {
		return nil, err
	}

	s.Cache.InvalidateAll(ctx)
	view := mapToView(userID, publication, publisher.Brief())
	return &view, nil
}

// GetPublications serves a page of publications, from the query cache
// when the same page was fetched within the TTL. Publisher resolution
// and the amIPublisher flag are computed per requester after the cache,
// so cached pages stay requester-neutral.
func (s *DefaultMarketplaceService) GetPublications(ctx context.Context, userID string, p Pagination, f Filters) (*Page, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 || p.Limit > utils.MarketplacePaginationLimit {
		p.Limit = utils.MarketplacePaginationLimit
	}

	key := cacheKey(p, f)
	publications := s.Cache.Get(ctx, key)
	if publications == nil {
		var err error
		publications, err = s.Repo.FindPage(ctx, (p.Page-1)*p.Limit, p.Limit, repoFilters(f))
		if err != nil {
			return nil, err
		}
		s.Cache.Set(ctx, key, publications)
	}

	items := make([]PublicationView, 0, len(publications))
	briefs := make(map[string]models.BriefUserInfo)
	for i := range publications {
		pub := &publications[i]
		brief, ok := briefs[pub.Publisher]
		if !ok {
			publisher, err := s.UserRepo.GetByIDWithProjection(ctx, pub.Publisher, bson.M{"id": 1, "username": 1, "email": 1})
			if err != nil {
				return nil, err
			}
			if publisher == nil {
				continue
			}
			brief = publisher.Brief()
			briefs[pub.Publisher] = brief
		}
		items = append(items, mapToView(userID, pub, brief))
	}

	return &Page{
		TotalItems: len(items),
		Items:      items,
		Page:       p.Page,
		Limit:      p.Limit,
	}, nil
}

// DeletePublication removes a publication and invalidates the query
// cache. Only the publisher may delete; image blobs are removed
// best-effort after the record is gone.
func (s *DefaultMarketplaceService) DeletePublication(ctx context.Context, userID, publicationID string) error {
	publication, err := s.Repo.GetByID(ctx, publicationID)
	if err != nil {
		return err
	}
	if publication == nil {
		return utils.NewNotFound("publication not found")
	}
	if publication.Publisher != userID {
		return utils.NewForbidden(utils.CodeNotOwner, "only the publisher may delete a publication")
	}

	deleted, err := s.Repo.Delete(ctx, publicationID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return utils.NewInternal("failed to delete publication")
	}

	s.Cache.InvalidateAll(ctx)

	for _, imageURL := range publication.Images {
		if err := s.Storage.DeleteImage(ctx, imageURL); err != nil {
			utils.GetLogger().Warn("Publication image cleanup failed",
				zap.String("publicationId", publicationID), zap.Error(err))
		}
	}
	return nil
}

// checkPublisher validates the title and resolves the posting user.
func (s *DefaultMarketplaceService) checkPublisher(ctx context.Context, userID, title string) (*models.User, error) {
	if len(title) < utils.PublicationTitleMinLength || len(title) > utils.PublicationTitleMaxLength {
		return nil, utils.NewBadRequest(utils.CodeGenericBadRequest,
			fmt.Sprintf("title must be between %d and %d characters", utils.PublicationTitleMinLength, utils.PublicationTitleMaxLength))
	}

	publisher, err := s.UserRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if publisher == nil {
		return nil, utils.NewNotFound("user not found")
	}
	return publisher, nil
}

// uploadImages stores every image and collects the public URLs. At
// least one image is required.
func (s *DefaultMarketplaceService) uploadImages(ctx context.Context, images []io.Reader) ([]string, error) {
	if len(images) == 0 {
		return nil, utils.NewBadRequest(utils.CodeGenericBadRequest, "at least one image is required")
	}

	urls := make([]string, 0, len(images))
	for _, image := range images {
		url, err := s.Storage.UploadImage(ctx, image, marketplaceImagesFolder)
		if err != nil {
			return nil, utils.NewInternal("image upload failed")
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func repoFilters(f Filters) marketplaceRepo.PublicationFilters {
	return marketplaceRepo.PublicationFilters{
		ProductCategories: f.ProductCategories,
		ServiceCategories: f.ServiceCategories,
	}
}

func mapToView(userID string, p *models.Publication, publisher models.BriefUserInfo) PublicationView {
	return PublicationView{
		ID:            p.ID,
		Type:          p.Type,
		Title:         p.Title,
		Description:   p.Description,
		Images:        p.Images,
		PricingOption: p.PricingOption,
		Price:         p.Price,
		Condition:     p.Condition,
		Category:      p.Category,
		Publisher:     publisher,
		AmIPublisher:  p.Publisher == userID,
		CreatedAt:     p.CreatedAt,
	}
}
