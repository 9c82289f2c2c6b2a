package marketplaceRepo

import (
	"context"
	"fmt"
	"time"

	"suntrack/database"
	"suntrack/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPublicationRepo implements PublicationRepository using MongoDB.
type MongoPublicationRepo struct {
	coll *mongo.Collection
}

// NewMongoPublicationRepo creates a new instance of PublicationRepository using MongoDB.
func NewMongoPublicationRepo() PublicationRepository {
	coll := database.DB().Collection("marketplace_publications")
	repo := &MongoPublicationRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// NewMongoPublicationRepoWithCollection wires the repository to an
// explicit collection handle.
func NewMongoPublicationRepoWithCollection(coll *mongo.Collection) PublicationRepository {
	return &MongoPublicationRepo{coll: coll}
}

func (r *MongoPublicationRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "category", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new publication document.
func (r *MongoPublicationRepo) Create(ctx context.Context, publication *models.Publication) error {
	publication.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, publication); err != nil {
		return fmt.Errorf("failed to create publication: %w", err)
	}
	return nil
}

// GetByID retrieves a publication by its unique ID. A missing
// publication yields (nil, nil).
func (r *MongoPublicationRepo) GetByID(ctx context.Context, id string) (*models.Publication, error) {
	var publication models.Publication
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&publication); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch publication with id %s: %w", id, err)
	}
	return &publication, nil
}

// Delete removes a publication document by its ID.
func (r *MongoPublicationRepo) Delete(ctx context.Context, id string) (int64, error) {
	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return 0, fmt.Errorf("failed to delete publication with id %s: %w", id, err)
	}
	return result.DeletedCount, nil
}

// FindPage returns a page of publications matching the category
// filters, newest first. The $or over the type tag dispatches each
// branch of the union to its own category list.
func (r *MongoPublicationRepo) FindPage(ctx context.Context, offset, limit int64, filters PublicationFilters) ([]models.Publication, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{
			"type":     models.PublicationProduct,
			"category": bson.M{"$in": filters.ProductCategories},
		},
		bson.M{
			"type":     models.PublicationService,
			"category": bson.M{"$in": filters.ServiceCategories},
		},
	}}

	opts := options.Find().
		SetSkip(offset).
		SetLimit(limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve publications: %w", err)
	}
	defer cursor.Close(ctx)

	var publications []models.Publication
	if err := cursor.All(ctx, &publications); err != nil {
		return nil, fmt.Errorf("failed to decode publications: %w", err)
	}
	return publications, nil
}
