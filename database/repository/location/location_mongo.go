package locationRepo

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

// MongoLocationRepo implements LocationRepository using MongoDB.
type MongoLocationRepo struct {
	coll *mongo.Collection
}

// NewMongoLocationRepo creates a new instance of LocationRepository using MongoDB.
func NewMongoLocationRepo() LocationRepository {
	coll := database.DB().Collection("locations")
	repo := &MongoLocationRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// NewMongoLocationRepoWithCollection wires the repository to an
// explicit collection handle.
func NewMongoLocationRepoWithCollection(coll *mongo.Collection) LocationRepository {
	return &MongoLocationRepo{coll: coll}
}

func (r *MongoLocationRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "solar_trackers.serial_number", Value: 1}}},
		{Keys: bson.D{{Key: "weather_station", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new location document.
func (r *MongoLocationRepo) Create(ctx context.Context, location *models.Location) error {
	now := time.Now()
	location.CreatedAt = now
	location.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, location); err != nil {
		return fmt.Errorf("failed to create location: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of an existing location document.
func (r *MongoLocationRepo) Update(ctx context.Context, location *models.Location) error {
	location.UpdatedAt = time.Now()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": location.ID}, bson.M{"$set": location})
	if err != nil {
		return fmt.Errorf("failed to update location with id %s: %w", location.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("location with id %s not found", location.ID)
	}
	return nil
}

// Delete removes a location document by its ID.
func (r *MongoLocationRepo) Delete(ctx context.Context, id string) (int64, error) {
	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return 0, fmt.Errorf("failed to delete location with id %s: %w", id, err)
	}
	return result.DeletedCount, nil
}

// GetByID retrieves a location by its unique ID. A missing location
// yields (nil, nil).
func (r *MongoLocationRepo) GetByID(ctx context.Context, id string) (*models.Location, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

// GetBySerialNumber retrieves the location a device serial is attached
// to. The uniqueness invariant guarantees at most one match.
func (r *MongoLocationRepo) GetBySerialNumber(ctx context.Context, serialNumber string) (*models.Location, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"solar_trackers": bson.M{"$elemMatch": bson.M{"serial_number": serialNumber}}},
		bson.M{"weather_station": serialNumber},
	}}
	return r.findOne(ctx, filter)
}

func (r *MongoLocationRepo) findOne(ctx context.Context, filter bson.M) (*models.Location, error) {
	var location models.Location
	if err := r.coll.FindOne(ctx, filter).Decode(&location); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch location: %w", err)
	}
	return &location, nil
}

// GetAllByIDs retrieves the locations with the given IDs.
func (r *MongoLocationRepo) GetAllByIDs(ctx context.Context, ids []string) ([]models.Location, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve locations: %w", err)
	}
	defer cursor.Close(ctx)

	var locations []models.Location
	if err := cursor.All(ctx, &locations); err != nil {
		return nil, fmt.Errorf("failed to decode locations: %w", err)
	}
	return locations, nil
}

// ShareWith adds a user to the location's sharedWith set.
func (r *MongoLocationRepo) ShareWith(ctx context.Context, userID, locationID string) (int64, error) {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"id": locationID},
		bson.M{
			"$addToSet": bson.M{"shared_with": userID},
			"$set":      bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to share location %s: %w", locationID, err)
	}
	return result.ModifiedCount, nil
}
