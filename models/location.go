package models

import "time"

// SolarTracker is a tracker attached to a location, with the rated
// capacity reported by the hardware API at validation time.
type SolarTracker struct {
	SerialNumber string  `bson:"serial_number" json:"serialNumber"`
	Capacity     float64 `bson:"capacity" json:"capacity"`
}

// Location is a physical site owning zero-or-more solar trackers, an
// optional weather station and an optional camera. Owner is always a
// member of SharedWith.
type Location struct {
	ID             string         `bson:"id" json:"id"`
	Name           string         `bson:"name" json:"name"`
	Capacity       float64        `bson:"capacity" json:"capacity"`
	SolarTrackers  []SolarTracker `bson:"solar_trackers" json:"solarTrackers"`
	WeatherStation string         `bson:"weather_station,omitempty" json:"weatherStation,omitempty"`
	CCTV           string         `bson:"cctv,omitempty" json:"cctv,omitempty"`
	Owner          string         `bson:"owner" json:"owner"`
	SharedWith     []string       `bson:"shared_with" json:"sharedWith"`
	CreatedAt      time.Time      `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time      `bson:"updated_at" json:"updatedAt"`
}

// TotalCapacity is the sum of the attached tracker capacities. Location
// capacity is always recomputed from this, never adjusted in place.
func (l *Location) TotalCapacity() float64 {
	var sum float64
	for _, st := range l.SolarTrackers {
		sum += st.Capacity
	}
	return sum
}

// SerialNumbers returns the serial numbers of the attached trackers.
func (l *Location) SerialNumbers() []string {
	serials := make([]string, 0, len(l.SolarTrackers))
	for _, st := range l.SolarTrackers {
		serials = append(serials, st.SerialNumber)
	}
	return serials
}

// IsSharedWith reports whether the user is a member of the location.
func (l *Location) IsSharedWith(userID string) bool {
	for _, id := range l.SharedWith {
		if id == userID {
			return true
		}
	}
	return false
}

// HasTracker reports whether a tracker with the serial number is attached.
func (l *Location) HasTracker(serialNumber string) bool {
	for _, st := range l.SolarTrackers {
		if st.SerialNumber == serialNumber {
			return true
		}
	}
	return false
}
