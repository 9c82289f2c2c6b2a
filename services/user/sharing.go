package user

import (
	"context"
	"time"

	"suntrack/models"
	"suntrack/services/location"
	"suntrack/services/notification"
	"suntrack/utils"

	"github.com/google/uuid"
)

// AddNewLocation creates a location owned by the user and links it to
// the user record inside one transaction. The user's other devices are
// notified after commit.
func (s *DefaultUserService) AddNewLocation(ctx context.Context, userID, currFCMToken string, req location.AddLocationRequest) (*location.View, error) {
	var u *models.User
	var loc *models.Location

	err := s.Txn.RunTransaction(ctx, func(ctx context.Context) error {
		var err error
		u, err = s.Repo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return utils.NewNotFound("user not found")
		}

		loc, err = s.LocationSvc.CreateLocation(ctx, u, req)
		if err != nil {
			return err
		}

		modified, err := s.Repo.AddLocation(ctx, userID, loc.ID)
		if err != nil {
			return err
		}
		if modified == 0 {
			return utils.NewInternal("failed to link location to user")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.pushToTokens(ctx, u.FCMTokens, currFCMToken,
		notification.Payload{
			NotificationType: models.NotificationLocationUpdate,
			Body:             map[string]string{"locationId": loc.ID},
		}, nil)

	return s.LocationSvc.MapToView(ctx, userID, loc)
}

// RemoveLocation deletes the location and pulls its reference from
// every member in one transaction; owner only. Remaining members'
// devices are notified after commit.
func (s *DefaultUserService) RemoveLocation(ctx context.Context, userID, currFCMToken, locationID string) error {
	var loc *models.Location

	err := s.Txn.RunTransaction(ctx, func(ctx context.Context) error {
		var err error
		loc, err = s.LocationSvc.Remove(ctx, userID, locationID)
		if err != nil {
			return err
		}

		modified, err := s.Repo.RemoveLocationFromAll(ctx, loc.SharedWith, locationID)
		if err != nil {
			return err
		}
		// Every member holds a reference, so anything short of a full
		// pull would leave an orphaned link behind.
		if modified != int64(len(loc.SharedWith)) {
			return utils.NewInternal("failed to unlink location from members")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.LocationSvc.NotifyLocationUpdate(ctx, loc, currFCMToken)
	return nil
}

// InviteUserToLocation records a pending invitation on the invited user
// and pushes it to their devices. Only the location owner may invite; a
// member cannot be invited again and re-inviting while an invitation is
// pending is a silent no-op.
func (s *DefaultUserService) InviteUserToLocation(ctx context.Context, userID string, req SendInvitationRequest) error {
	owner, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	invited, err := s.Repo.GetByEmail(ctx, req.InvitedUserEmail)
	if err != nil {
		return err
	}
	loc, err := s.LocationRepo.GetByID(ctx, req.LocationID)
	if err != nil {
		return err
	}
	if owner == nil || invited == nil || loc == nil {
		return utils.NewNotFound("user or location not found")
	}

	if loc.Owner != userID {
		return utils.NewForbidden(utils.CodeNotOwner, "only the location owner may invite")
	}
	if loc.IsSharedWith(invited.ID) {
		return utils.NewConflict(utils.CodeLocationAlreadyShared, "user is already a member of the location")
	}
	if invited.HasPendingInvitationFor(loc.ID) {
		return nil
	}

	invitation := models.Invitation{
		ID:            uuid.New().String(),
		LocationID:    loc.ID,
		LocationName:  loc.Name,
		OwnerUsername: owner.Username,
		Timestamp:     time.Now().UTC(),
	}

	modified, err := s.Repo.AddInvitation(ctx, invited.ID, invitation)
	if err != nil {
		return err
	}
	if modified == 0 {
		return utils.NewInternal("failed to record invitation")
	}

	s.pushToTokens(ctx, invited.FCMTokens, "",
		notification.Payload{
			NotificationType: models.NotificationInvitation,
			Body:             invitation,
		},
		&notification.Display{
			Title: utils.InvitationNotificationTitle,
			Body:  utils.InvitationNotificationMessage(loc.Name, owner.Username),
		})
	return nil
}

// RespondToInvitation consumes the pending invitation. On accept the
// location is shared with the user and linked to their record in the
// same transaction, so a failure anywhere leaves the invitation
// untouched. Declining only removes the invitation.
func (s *DefaultUserService) RespondToInvitation(ctx context.Context, userID, currFCMToken, invitationID string, accepted bool) error {
	var u *models.User
	var loc *models.Location

	err := s.Txn.RunTransaction(ctx, func(ctx context.Context) error {
		var err error
		u, err = s.Repo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return utils.NewNotFound("user not found")
		}

		invitation := u.FindInvitation(invitationID)
		if invitation == nil {
			return utils.NewNotFound("invitation not found")
		}

		modified, err := s.Repo.RemoveInvitation(ctx, userID, invitationID)
		if err != nil {
			return err
		}
		if modified == 0 {
			return utils.NewInternal("failed to remove invitation")
		}

		if !accepted {
			return nil
		}

		loc, err = s.LocationRepo.GetByID(ctx, invitation.LocationID)
		if err != nil {
			return err
		}
		if loc == nil {
			return utils.NewNotFound("location not found")
		}

		shared, err := s.LocationRepo.ShareWith(ctx, userID, loc.ID)
		if err != nil {
			return err
		}
		// Zero modified means the user is already a member: a second
		// accept raced ahead of this one.
		if shared == 0 {
			return utils.NewConflict(utils.CodeLocationAlreadyShared, "user is already a member of the location")
		}
		linked, err := s.Repo.AddLocation(ctx, userID, loc.ID)
		if err != nil {
			return err
		}
		if linked == 0 {
			return utils.NewInternal("failed to share location")
		}
		loc.SharedWith = append(loc.SharedWith, userID)
		return nil
	})
	if err != nil {
		return err
	}

	s.pushToTokens(ctx, u.FCMTokens, currFCMToken,
		notification.Payload{
			NotificationType: models.NotificationInvitationsUpdate,
			Body:             map[string]string{"invitationId": invitationID},
		}, nil)

	if accepted && loc != nil {
		s.LocationSvc.NotifyLocationUpdate(ctx, loc, currFCMToken)
	}
	return nil
}
