package models

import "time"

// User represents a platform user. Locations holds the IDs of every
// location the user owns or has been shared; ownership itself lives on
// the Location document.
type User struct {
	ID               string           `bson:"id" json:"id"`
	Username         string           `bson:"username" json:"username"`
	Email            string           `bson:"email" json:"email"`
	PasswordHash     string           `bson:"password_hash" json:"-"`
	FCMTokens        []string         `bson:"fcm_tokens" json:"-"`
	RefreshTokenHash string           `bson:"refresh_token_hash,omitempty" json:"-"`
	Locations        []string         `bson:"locations" json:"-"`
	HwNotifications  []HwNotification `bson:"hw_notifications" json:"-"`
	Invitations      []Invitation     `bson:"invitations" json:"-"`
	CreatedAt        time.Time        `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time        `bson:"updated_at" json:"updatedAt"`
}

// BriefUserInfo is the public projection of a user embedded in shared
// views such as a location's sharedWith list and publication publishers.
type BriefUserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Brief returns the public projection of the user.
func (u *User) Brief() BriefUserInfo {
	return BriefUserInfo{ID: u.ID, Username: u.Username, Email: u.Email}
}

// HasFCMToken reports whether token is registered for the user.
func (u *User) HasFCMToken(token string) bool {
	for _, t := range u.FCMTokens {
		if t == token {
			return true
		}
	}
	return false
}

// FindInvitation returns the pending invitation with the given ID, or nil.
func (u *User) FindInvitation(invitationID string) *Invitation {
	for i := range u.Invitations {
		if u.Invitations[i].ID == invitationID {
			return &u.Invitations[i]
		}
	}
	return nil
}

// HasPendingInvitationFor reports whether a pending invitation for the
// given location already exists on the user.
func (u *User) HasPendingInvitationFor(locationID string) bool {
	for _, inv := range u.Invitations {
		if inv.LocationID == locationID {
			return true
		}
	}
	return false
}
