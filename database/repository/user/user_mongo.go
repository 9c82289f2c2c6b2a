package userRepo

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

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo creates a new instance of UserRepository using MongoDB.
func NewMongoUserRepo() UserRepository {
	coll := database.DB().Collection("users")
	repo := &MongoUserRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// NewMongoUserRepoWithCollection wires the repository to an explicit
// collection handle.
func NewMongoUserRepoWithCollection(coll *mongo.Collection) UserRepository {
	return &MongoUserRepo{coll: coll}
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoUserRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "locations", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new user document.
func (r *MongoUserRepo) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of an existing user document.
func (r *MongoUserRepo) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	filter := bson.M{"id": user.ID}
	update := bson.M{"$set": user}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update user with id %s: %w", user.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user with id %s not found", user.ID)
	}
	return nil
}

// Delete removes a user document by its ID.
func (r *MongoUserRepo) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("user with id %s not found", id)
	}
	return nil
}

// GetByID retrieves a user by its unique ID (full document).
func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.GetByIDWithProjection(ctx, id, nil)
}

// GetByEmail retrieves a user by its email address (full document).
func (r *MongoUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.GetByEmailWithProjection(ctx, email, nil)
}

// GetByIDWithProjection retrieves a user by its unique ID using a
// projection. Pass nil to retrieve the full document. A missing user
// yields (nil, nil).
func (r *MongoUserRepo) GetByIDWithProjection(ctx context.Context, id string, projection bson.M) (*models.User, error) {
	return r.findOne(ctx, bson.M{"id": id}, projection)
}

// GetByEmailWithProjection retrieves a user by its email using a projection.
func (r *MongoUserRepo) GetByEmailWithProjection(ctx context.Context, email string, projection bson.M) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, projection)
}

func (r *MongoUserRepo) findOne(ctx context.Context, filter bson.M, projection bson.M) (*models.User, error) {
	opts := options.FindOne()
	if projection != nil {
		opts.SetProjection(projection)
	}

	var user models.User
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// updateOne applies an update to the user with the given ID and returns
// the modified count.
func (r *MongoUserRepo) updateOne(ctx context.Context, userID string, update bson.M) (int64, error) {
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": userID}, update)
	if err != nil {
		return 0, fmt.Errorf("failed to update user with id %s: %w", userID, err)
	}
	return result.ModifiedCount, nil
}

// AddFCMToken registers a device token. $addToSet keeps the operation
// idempotent under retry: signing in twice with the same token leaves a
// single copy.
func (r *MongoUserRepo) AddFCMToken(ctx context.Context, userID, fcmToken string) (int64, error) {
	return r.updateOne(ctx, userID, bson.M{
		"$addToSet": bson.M{"fcm_tokens": fcmToken},
		"$set":      bson.M{"updated_at": time.Now()},
	})
}

// RemoveFCMToken removes exactly one device token.
func (r *MongoUserRepo) RemoveFCMToken(ctx context.Context, userID, fcmToken string) (int64, error) {
	return r.updateOne(ctx, userID, bson.M{
		"$pull": bson.M{"fcm_tokens": fcmToken},
		"$set":  bson.M{"updated_at": time.Now()},
	})
}

// SetRefreshTokenHash replaces the stored refresh-token hash. An empty
// hash unsets the field, leaving the user with no valid session.
func (r *MongoUserRepo) SetRefreshTokenHash(ctx context.Context, userID, hash string) (int64, error) {
	if hash == "" {
		return r.updateOne(ctx, userID, bson.M{
			"$unset": bson.M{"refresh_token_hash": ""},
			"$set":   bson.M{"updated_at": time.Now()},
		})
	}
	return r.updateOne(ctx, userID, bson.M{
		"$set": bson.M{"refresh_token_hash": hash, "updated_at": time.Now()},
	})
}

// AddLocation links a location to the user.
func (r *MongoUserRepo) AddLocation(ctx context.Context, userID, locationID string) (int64, error) {
	return r.updateOne(ctx, userID, bson.M{
		"$addToSet": bson.M{"locations": locationID},
		"$set":      bson.M{"updated_at": time.Now()},
	})
}

// RemoveLocation unlinks a location from the user.
func (r *MongoUserRepo) RemoveLocation(ctx context.Context, userID, locationID string) (int64, error) {
	return r.updateOne(ctx, userID, bson.M{
		"$pull": bson.M{"locations": locationID},
		"$set":  bson.M{"updated_at": time.Now()},
	})
}

// RemoveLocationFromAll unlinks a location from every given user and
// returns the number of modified documents.
func (r *MongoUserRepo) RemoveLocationFromAll(ctx context.Context, userIDs []string, locationID string) (int64, error) {
	result, err := r.coll.UpdateMany(ctx,
		bson.M{"id": bson.M{"$in": userIDs}},
		bson.M{
			"$pull": bson.M{"locations": locationID},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to unlink location %s: %w", locationID, err)
	}
	return result.ModifiedCount, nil
}

// AddInvitation appends a pending invitation.
func (r *MongoUserRepo) AddInvitation(ctx context.Context, userID string, invitation models.Invitation) (int64, error) {
	return r.updateOne(ctx, userID, bson.M{
		"$push": bson.M{"invitations": invitation},
		"$set":  bson.M{"updated_at": time.Now()},
	})
}

// RemoveInvitation removes a pending invitation by its ID.
func (r *MongoUserRepo) RemoveInvitation(ctx context.Context, userID, invitationID string) (int64, error) {
	return r.updateOne(ctx, userID, bson.M{
		"$pull": bson.M{"invitations": bson.M{"id": invitationID}},
		"$set":  bson.M{"updated_at": time.Now()},
	})
}

// AddHwNotification appends a notification, evicting the oldest entries
// beyond the per-user cap via $slice.
func (r *MongoUserRepo) AddHwNotification(ctx context.Context, userID string, notification models.HwNotification) (int64, error) {
	return r.updateOne(ctx, userID, bson.M{
		"$push": bson.M{
			"hw_notifications": bson.M{
				"$each":  bson.A{notification},
				"$slice": -models.MaxHwNotificationsPerUser,
			},
		},
		"$set": bson.M{"updated_at": time.Now()},
	})
}

// UpdateHwNotificationStatus mutates the status of a stored notification.
func (r *MongoUserRepo) UpdateHwNotificationStatus(ctx context.Context, userID, notificationID string, status models.HwNotificationStatus) (int64, error) {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"id": userID, "hw_notifications.id": notificationID},
		bson.M{"$set": bson.M{
			"hw_notifications.$.status": status,
			"updated_at":                time.Now(),
		}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update notification %s: %w", notificationID, err)
	}
	return result.ModifiedCount, nil
}

// DeleteHwNotification removes a stored notification.
func (r *MongoUserRepo) DeleteHwNotification(ctx context.Context, userID, notificationID string) (int64, error) {
	return r.updateOne(ctx, userID, bson.M{
		"$pull": bson.M{"hw_notifications": bson.M{"id": notificationID}},
		"$set":  bson.M{"updated_at": time.Now()},
	})
}

// FindUsersWithDevice returns every user whose locations reference the
// given serial number. Cross-collection join: locations by serial, then
// users by membership.
func (r *MongoUserRepo) FindUsersWithDevice(ctx context.Context, serialNumber string) ([]models.User, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "locations"},
			{Key: "localField", Value: "locations"},
			{Key: "foreignField", Value: "id"},
			{Key: "as", Value: "linked_locations"},
		}}},
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "$or", Value: bson.A{
				bson.D{{Key: "linked_locations.solar_trackers.serial_number", Value: serialNumber}},
				bson.D{{Key: "linked_locations.weather_station", Value: serialNumber}},
			}},
		}}},
		bson.D{{Key: "$unset", Value: "linked_locations"}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to find users with device %s: %w", serialNumber, err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}
