package user

import (
	"context"
	"sort"

	"suntrack/models"
	"suntrack/services/location"
	"suntrack/services/notification"
	"suntrack/utils"
)

// GetProfile loads the user and assembles the full profile view.
func (s *DefaultUserService) GetProfile(ctx context.Context, userID string) (*View, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, utils.NewNotFound("user not found")
	}
	return s.mapToView(ctx, u)
}

// mapToView resolves the user's location references to per-requester
// views and orders stored notifications newest first.
func (s *DefaultUserService) mapToView(ctx context.Context, u *models.User) (*View, error) {
	locations, err := s.LocationRepo.GetAllByIDs(ctx, u.Locations)
	if err != nil {
		return nil, err
	}

	locationViews := make([]location.View, 0, len(locations))
	for i := range locations {
		view, err := s.LocationSvc.MapToView(ctx, u.ID, &locations[i])
		if err != nil {
			return nil, err
		}
		locationViews = append(locationViews, *view)
	}

	notifications := make([]models.HwNotification, len(u.HwNotifications))
	copy(notifications, u.HwNotifications)
	sort.SliceStable(notifications, func(i, j int) bool {
		return notifications[i].Timestamp.After(notifications[j].Timestamp)
	})

	invitations := u.Invitations
	if invitations == nil {
		invitations = []models.Invitation{}
	}

	return &View{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		Locations:       locationViews,
		HwNotifications: notifications,
		Invitations:     invitations,
		CreatedAt:       u.CreatedAt,
	}, nil
}

// pushToTokens delivers the payload to every token except excludeToken,
// deduplicating along the way.
func (s *DefaultUserService) pushToTokens(ctx context.Context, tokens []string, excludeToken string, payload notification.Payload, display *notification.Display) {
	sent := make(map[string]bool)
	for _, token := range tokens {
		if token == excludeToken || sent[token] {
			continue
		}
		sent[token] = true
		s.Push.Send(ctx, token, payload, display)
	}
}
