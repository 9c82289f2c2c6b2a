package location

import (
	"context"
	"fmt"

	"suntrack/models"
	"suntrack/services/notification"
	"suntrack/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// GetLimits reports location constraints for client-side validation.
func (s *DefaultLocationService) GetLimits() Limits {
	return Limits{
		NameMinLength: utils.LocationNameMinLength,
		NameMaxLength: utils.LocationNameMaxLength,
	}
}

// MapToView projects a location for the given requester: sharedWith is
// resolved to public profiles with the requester filtered out, and
// ownership collapses to the amIOwner flag.
func (s *DefaultLocationService) MapToView(ctx context.Context, userID string, loc *models.Location) (*View, error) {
	sharedWith := make([]models.BriefUserInfo, 0, len(loc.SharedWith))
	for _, memberID := range loc.SharedWith {
		if memberID == userID {
			continue
		}
		member, err := s.UserRepo.GetByIDWithProjection(ctx, memberID, bson.M{"id": 1, "username": 1, "email": 1})
		if err != nil {
			return nil, fmt.Errorf("failed to resolve location member %s: %w", memberID, err)
		}
		if member == nil {
			continue
		}
		sharedWith = append(sharedWith, member.Brief())
	}

	return &View{
		ID:             loc.ID,
		Name:           loc.Name,
		Capacity:       loc.Capacity,
		SolarTrackers:  loc.SolarTrackers,
		WeatherStation: loc.WeatherStation,
		CCTV:           loc.CCTV,
		SharedWith:     sharedWith,
		AmIOwner:       loc.Owner == userID,
	}, nil
}

// GetLocation returns the requester's view of a location.
func (s *DefaultLocationService) GetLocation(ctx context.Context, userID, locationID string) (*View, error) {
	loc, err := s.Repo.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, utils.NewNotFound("location not found")
	}
	return s.MapToView(ctx, userID, loc)
}

// CreateLocation validates every serial, computes capacity as the sum
// of the validated tracker capacities and persists the location with
// the owner as its first member. It runs inside the caller's
// transaction so an abort leaves no partial location.
func (s *DefaultLocationService) CreateLocation(ctx context.Context, owner *models.User, req AddLocationRequest) (*models.Location, error) {
	if len(req.Name) < utils.LocationNameMinLength || len(req.Name) > utils.LocationNameMaxLength {
		return nil, utils.NewBadRequest(utils.CodeTooLongLocationName,
			fmt.Sprintf("location name must be between %d and %d characters", utils.LocationNameMinLength, utils.LocationNameMaxLength))
	}

	trackers := make([]models.SolarTracker, 0, len(req.SolarTrackerSerialNumbers))
	for _, serial := range req.SolarTrackerSerialNumbers {
		tracker, err := s.validateTrackerCanBeAdded(ctx, owner.ID, serial)
		if err != nil {
			return nil, err
		}
		trackers = append(trackers, *tracker)
	}

	if req.WeatherStation != "" {
		if err := s.validateStationCanBeAdded(ctx, owner.ID, req.WeatherStation); err != nil {
			return nil, err
		}
	}

	loc := &models.Location{
		ID:             uuid.New().String(),
		Name:           req.Name,
		SolarTrackers:  trackers,
		WeatherStation: req.WeatherStation,
		CCTV:           req.CCTV,
		Owner:          owner.ID,
		SharedWith:     []string{owner.ID},
	}
	loc.Capacity = loc.TotalCapacity()

	if err := s.Repo.Create(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

// checkIfUserIsOwner loads the location and enforces the ownership
// gate: only the owner may mutate devices, invite users or delete the
// location, membership alone is not enough.
func (s *DefaultLocationService) checkIfUserIsOwner(ctx context.Context, userID, locationID string) (*models.Location, error) {
	loc, err := s.Repo.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, utils.NewNotFound("location not found")
	}
	if loc.Owner != userID {
		return nil, utils.NewForbidden(utils.CodeNotOwner, "only the location owner may do this")
	}
	return loc, nil
}

// Remove deletes the location inside the caller's transaction. The
// caller is responsible for pulling the reference from every member.
func (s *DefaultLocationService) Remove(ctx context.Context, userID, locationID string) (*models.Location, error) {
	loc, err := s.checkIfUserIsOwner(ctx, userID, locationID)
	if err != nil {
		return nil, err
	}

	deleted, err := s.Repo.Delete(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if deleted == 0 {
		return nil, utils.NewInternal("failed to delete location")
	}
	return loc, nil
}

// NotifyLocationUpdate pushes a location-update to every member device
// except the acting one. Delivery is best-effort and happens after the
// triggering mutation has committed.
func (s *DefaultLocationService) NotifyLocationUpdate(ctx context.Context, loc *models.Location, excludeToken string) {
	payload := map[string]string{"locationId": loc.ID}
	sent := make(map[string]bool)

	for _, memberID := range loc.SharedWith {
		member, err := s.UserRepo.GetByIDWithProjection(ctx, memberID, bson.M{"id": 1, "fcm_tokens": 1})
		if err != nil || member == nil {
			continue
		}
		for _, token := range member.FCMTokens {
			if token == excludeToken || sent[token] {
				continue
			}
			sent[token] = true
			s.Push.Send(ctx, token, notificationPayload(models.NotificationLocationUpdate, payload), nil)
		}
	}
}

func notificationPayload(t models.NotificationType, body interface{}) notification.Payload {
	return notification.Payload{NotificationType: t, Body: body}
}
