package models

import "time"

// Invitation is a pending offer for the containing user to join a
// location. Created on invite, removed on response, never updated.
// Location name and owner username are denormalized so the client can
// render the invitation without extra lookups.
type Invitation struct {
	ID            string    `bson:"id" json:"id"`
	LocationID    string    `bson:"location_id" json:"locationId"`
	LocationName  string    `bson:"location_name" json:"locationName"`
	OwnerUsername string    `bson:"owner_username" json:"ownerUsername"`
	Timestamp     time.Time `bson:"timestamp" json:"timestamp"`
}
