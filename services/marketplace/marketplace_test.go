package marketplace

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	marketplaceRepo "suntrack/database/repository/marketplace"
	userRepo "suntrack/database/repository/user"
	"suntrack/models"
	"suntrack/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// fakePublicationRepo is an in-memory PublicationRepository preserving
// insertion order, newest first.
type fakePublicationRepo struct {
	publications []models.Publication
	findCalls    int
	lastFilters  marketplaceRepo.PublicationFilters
}

func (f *fakePublicationRepo) Create(ctx context.Context, publication *models.Publication) error {
	f.publications = append([]models.Publication{*publication}, f.publications...)
	return nil
}

func (f *fakePublicationRepo) GetByID(ctx context.Context, id string) (*models.Publication, error) {
	for i := range f.publications {
		if f.publications[i].ID == id {
			cp := f.publications[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakePublicationRepo) Delete(ctx context.Context, id string) (int64, error) {
	for i := range f.publications {
		if f.publications[i].ID == id {
			f.publications = append(f.publications[:i], f.publications[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakePublicationRepo) FindPage(ctx context.Context, offset, limit int64, filters marketplaceRepo.PublicationFilters) ([]models.Publication, error) {
	f.findCalls++
	f.lastFilters = filters
	if offset >= int64(len(f.publications)) {
		return []models.Publication{}, nil
	}
	end := offset + limit
	if end > int64(len(f.publications)) {
		end = int64(len(f.publications))
	}
	return append([]models.Publication{}, f.publications[offset:end]...), nil
}

var _ marketplaceRepo.PublicationRepository = (*fakePublicationRepo)(nil)

// fakeUserDirectory serves the two lookup methods the service uses; the
// embedded interface covers the rest of the contract.
type fakeUserDirectory struct {
	userRepo.UserRepository
	users map[string]*models.User
}

func (f *fakeUserDirectory) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserDirectory) GetByIDWithProjection(ctx context.Context, id string, projection bson.M) (*models.User, error) {
	return f.GetByID(ctx, id)
}

// fakePageCache is an in-memory PageCache with call counters.
type fakePageCache struct {
	entries       map[string][]models.Publication
	sets          int
	invalidations int
}

func newFakePageCache() *fakePageCache {
	return &fakePageCache{entries: make(map[string][]models.Publication)}
}

func (f *fakePageCache) Get(ctx context.Context, key string) []models.Publication {
	return f.entries[key]
}

func (f *fakePageCache) Set(ctx context.Context, key string, publications []models.Publication) {
	f.sets++
	f.entries[key] = publications
}

func (f *fakePageCache) InvalidateAll(ctx context.Context) {
	f.invalidations++
	f.entries = make(map[string][]models.Publication)
}

// fakeStorage records uploads and deletions.
type fakeStorage struct {
	uploads    int
	deleted    []string
	failUpload bool
	failDelete bool
}

func (f *fakeStorage) UploadImage(ctx context.Context, reader io.Reader, destFolder string) (string, error) {
	if f.failUpload {
		return "", io.ErrUnexpectedEOF
	}
	f.uploads++
	return fmt.Sprintf("https://cdn.example.com/%s/image-%d", destFolder, f.uploads), nil
}

func (f *fakeStorage) DeleteImage(ctx context.Context, publicID string) error {
	if f.failDelete {
		return io.ErrUnexpectedEOF
	}
	f.deleted = append(f.deleted, publicID)
	return nil
}

func newMarketplaceService() (*DefaultMarketplaceService, *fakePublicationRepo, *fakeUserDirectory, *fakePageCache, *fakeStorage) {
	repo := &fakePublicationRepo{}
	users := &fakeUserDirectory{users: map[string]*models.User{
		"u1": {ID: "u1", Username: "alice", Email: "alice@example.com"},
		"u2": {ID: "u2", Username: "bob", Email: "bob@example.com"},
	}}
	cache := newFakePageCache()
	store := &fakeStorage{}
	svc := &DefaultMarketplaceService{Repo: repo, UserRepo: users, Storage: store, Cache: cache}
	return svc, repo, users, cache, store
}

func productReq(title string) PostProductRequest {
	return PostProductRequest{
		Title:         title,
		Description:   "Barely used, warranty until next year",
		PricingOption: models.PricingFixed,
		Price:         250,
		Condition:     models.ConditionUsed,
		Category:      models.ProductInverters,
	}
}

func oneImage() []io.Reader {
	return []io.Reader{strings.NewReader("jpeg-bytes")}
}

func marketplaceAPICode(t *testing.T, err error) int {
	t.Helper()
	apiErr, ok := err.(*utils.APIError)
	require.True(t, ok, "expected *utils.APIError, got %T: %v", err, err)
	return apiErr.Code
}

func TestCacheKeyIgnoresFilterOrder(t *testing.T) {
	p := Pagination{Page: 2, Limit: 10}
	a := cacheKey(p, Filters{
		ProductCategories: []models.ProductCategory{models.ProductInverters, models.ProductBatteries},
		ServiceCategories: []models.ServiceCategory{models.ServiceTransport, models.ServiceConsulting},
	})
	b := cacheKey(p, Filters{
		ProductCategories: []models.ProductCategory{models.ProductBatteries, models.ProductInverters},
		ServiceCategories: []models.ServiceCategory{models.ServiceConsulting, models.ServiceTransport},
	})
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, utils.PublicationsCachePrefix))
}

func TestCacheKeyVariesByPageAndFilters(t *testing.T) {
	f := Filters{ProductCategories: []models.ProductCategory{models.ProductInverters}}
	assert.NotEqual(t,
		cacheKey(Pagination{Page: 1, Limit: 10}, f),
		cacheKey(Pagination{Page: 2, Limit: 10}, f))
	assert.NotEqual(t,
		cacheKey(Pagination{Page: 1, Limit: 10}, f),
		cacheKey(Pagination{Page: 1, Limit: 10}, Filters{}))
}

func TestGetPublicationsClampsPagination(t *testing.T) {
	svc, repo, _, _, _ := newMarketplaceService()

	page, err := svc.GetPublications(context.Background(), "u1",
		Pagination{Page: 0, Limit: 500}, Filters{})
	require.NoError(t, err)

	assert.Equal(t, int64(1), page.Page)
	assert.Equal(t, int64(utils.MarketplacePaginationLimit), page.Limit)
	assert.Equal(t, 1, repo.findCalls)
}

func TestGetPublicationsCachesPages(t *testing.T) {
	svc, repo, _, cache, _ := newMarketplaceService()
	repo.publications = []models.Publication{
		{ID: "p1", Publisher: "u1", Title: "Hybrid inverter"},
	}

	p := Pagination{Page: 1, Limit: 10}
	first, err := svc.GetPublications(context.Background(), "u2", p, Filters{})
	require.NoError(t, err)
	require.Len(t, first.Items, 1)
	assert.Equal(t, 1, repo.findCalls)
	assert.Equal(t, 1, cache.sets)

	second, err := svc.GetPublications(context.Background(), "u2", p, Filters{})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	// Served from cache, so the repository is not hit again.
	assert.Equal(t, 1, repo.findCalls)
}

func TestGetPublicationsViewIsPerRequesterEvenFromCache(t *testing.T) {
	svc, repo, _, _, _ := newMarketplaceService()
	repo.publications = []models.Publication{
		{ID: "p1", Publisher: "u1", Title: "Hybrid inverter"},
	}
	p := Pagination{Page: 1, Limit: 10}

	asPublisher, err := svc.GetPublications(context.Background(), "u1", p, Filters{})
	require.NoError(t, err)
	asStranger, err := svc.GetPublications(context.Background(), "u2", p, Filters{})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.findCalls)
	assert.True(t, asPublisher.Items[0].AmIPublisher)
	assert.False(t, asStranger.Items[0].AmIPublisher)
	assert.Equal(t, "alice", asStranger.Items[0].Publisher.Username)
}

func TestGetPublicationsPassesFiltersToRepo(t *testing.T) {
	svc, repo, _, _, _ := newMarketplaceService()

	_, err := svc.GetPublications(context.Background(), "u1",
		Pagination{Page: 1, Limit: 10},
		Filters{ProductCategories: []models.ProductCategory{models.ProductBatteries}})
	require.NoError(t, err)

	assert.Equal(t,
		[]models.ProductCategory{models.ProductBatteries},
		repo.lastFilters.ProductCategories)
}

func TestPostProductStoresAndInvalidatesCache(t *testing.T) {
	svc, repo, _, cache, store := newMarketplaceService()

	view, err := svc.PostProduct(context.Background(), "u1", oneImage(), productReq("Hybrid inverter 5kW"))
	require.NoError(t, err)

	assert.Equal(t, models.PublicationProduct, view.Type)
	assert.Equal(t, "Hybrid inverter 5kW", view.Title)
	assert.Equal(t, string(models.ProductInverters), view.Category)
	assert.True(t, view.AmIPublisher)
	assert.Equal(t, "alice", view.Publisher.Username)
	require.Len(t, view.Images, 1)
	assert.WithinDuration(t, time.Now().UTC(), view.CreatedAt, time.Minute)

	assert.Equal(t, 1, store.uploads)
	assert.Equal(t, 1, cache.invalidations)
	stored, err := repo.GetByID(context.Background(), view.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "u1", stored.Publisher)
}

func TestPostServiceStoresServiceType(t *testing.T) {
	svc, repo, _, _, _ := newMarketplaceService()

	view, err := svc.PostService(context.Background(), "u1", oneImage(), PostServiceRequest{
		Title:         "Panel installation",
		Description:   "Certified installer, whole region",
		PricingOption: models.PricingNegotiable,
		Category:      models.ServiceInstallation,
	})
	require.NoError(t, err)

	assert.Equal(t, models.PublicationService, view.Type)
	assert.Empty(t, view.Condition)
	stored, _ := repo.GetByID(context.Background(), view.ID)
	require.NotNil(t, stored)
	assert.Equal(t, models.PublicationService, stored.Type)
}

func TestPostProductRequiresImage(t *testing.T) {
	svc, repo, _, cache, _ := newMarketplaceService()

	_, err := svc.PostProduct(context.Background(), "u1", nil, productReq("Hybrid inverter 5kW"))
	require.Error(t, err)
	assert.Equal(t, utils.CodeGenericBadRequest, marketplaceAPICode(t, err))
	assert.Empty(t, repo.publications)
	assert.Zero(t, cache.invalidations)
}

func TestPostProductRejectsBadTitle(t *testing.T) {
	svc, _, _, _, store := newMarketplaceService()

	_, err := svc.PostProduct(context.Background(), "u1", oneImage(), productReq("ab"))
	require.Error(t, err)
	assert.Equal(t, utils.CodeGenericBadRequest, marketplaceAPICode(t, err))
	// Rejected before any blob work.
	assert.Zero(t, store.uploads)

	_, err = svc.PostProduct(context.Background(), "u1", oneImage(),
		productReq(strings.Repeat("x", utils.PublicationTitleMaxLength+1)))
	require.Error(t, err)
	assert.Equal(t, utils.CodeGenericBadRequest, marketplaceAPICode(t, err))
}

func TestPostProductUnknownUserNotFound(t *testing.T) {
	svc, _, _, _, _ := newMarketplaceService()

	_, err := svc.PostProduct(context.Background(), "ghost", oneImage(), productReq("Hybrid inverter 5kW"))
	require.Error(t, err)
	assert.Equal(t, utils.CodeNotFound, marketplaceAPICode(t, err))
}

func TestPostProductUploadFailureIsInternal(t *testing.T) {
	svc, repo, _, _, store := newMarketplaceService()
	store.failUpload = true

	_, err := svc.PostProduct(context.Background(), "u1", oneImage(), productReq("Hybrid inverter 5kW"))
	require.Error(t, err)
	assert.Equal(t, utils.CodeInternalError, marketplaceAPICode(t, err))
	assert.Empty(t, repo.publications)
}

func TestDeletePublicationPublisherOnly(t *testing.T) {
	svc, repo, _, _, _ := newMarketplaceService()
	repo.publications = []models.Publication{{ID: "p1", Publisher: "u1"}}

	err := svc.DeletePublication(context.Background(), "u2", "p1")
	require.Error(t, err)
	assert.Equal(t, utils.CodeNotOwner, marketplaceAPICode(t, err))
	assert.Len(t, repo.publications, 1)
}

func TestDeletePublicationUnknownNotFound(t *testing.T) {
	svc, _, _, _, _ := newMarketplaceService()

	err := svc.DeletePublication(context.Background(), "u1", "missing")
	require.Error(t, err)
	assert.Equal(t, utils.CodeNotFound, marketplaceAPICode(t, err))
}

func TestDeletePublicationRemovesRecordAndBlobs(t *testing.T) {
	svc, repo, _, cache, store := newMarketplaceService()
	repo.publications = []models.Publication{{
		ID:        "p1",
		Publisher: "u1",
		Images:    []string{"img-a", "img-b"},
	}}

	err := svc.DeletePublication(context.Background(), "u1", "p1")
	require.NoError(t, err)

	assert.Empty(t, repo.publications)
	assert.Equal(t, 1, cache.invalidations)
	assert.ElementsMatch(t, []string{"img-a", "img-b"}, store.deleted)
}

func TestDeletePublicationSurvivesBlobCleanupFailure(t *testing.T) {
	svc, repo, _, _, store := newMarketplaceService()
	repo.publications = []models.Publication{{ID: "p1", Publisher: "u1", Images: []string{"img-a"}}}
	store.failDelete = true

	err := svc.DeletePublication(context.Background(), "u1", "p1")
	require.NoError(t, err)
	assert.Empty(t, repo.publications)
}
