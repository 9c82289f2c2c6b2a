package location

import (
	"context"
	"errors"
	"fmt"

	"suntrack/hwapi"
	"suntrack/models"
	"suntrack/utils"
)

// AddSolarTracker validates the serial, attaches the tracker and
// recomputes capacity from the new tracker set. The uniqueness check
// and the attach share one transaction: two concurrent attaches of the
// same serial write-conflict and one of them aborts. Members other than
// the acting device are notified after commit.
func (s *DefaultLocationService) AddSolarTracker(ctx context.Context, userID, currFCMToken, locationID, serialNumber string) error {
	var loc *models.Location

	err := s.Txn.RunTransaction(ctx, func(ctx context.Context) error {
		var err error
		loc, err = s.checkIfUserIsOwner(ctx, userID, locationID)
		if err != nil {
			return err
		}

		tracker, err := s.validateTrackerCanBeAdded(ctx, userID, serialNumber)
		if err != nil {
			return err
		}

		loc.SolarTrackers = append(loc.SolarTrackers, *tracker)
		loc.Capacity = loc.TotalCapacity()
		return s.Repo.Update(ctx, loc)
	})
	if err != nil {
		return err
	}

	s.NotifyLocationUpdate(ctx, loc, currFCMToken)
	return nil
}

// RemoveSolarTracker detaches a tracker and recomputes capacity.
func (s *DefaultLocationService) RemoveSolarTracker(ctx context.Context, userID, currFCMToken, locationID, serialNumber string) error {
	loc, err := s.checkIfUserIsOwner(ctx, userID, locationID)
	if err != nil {
		return err
	}
	if !loc.HasTracker(serialNumber) {
		return utils.NewNotFound(fmt.Sprintf("solar tracker not attached: %s", serialNumber))
	}

	trackers := loc.SolarTrackers[:0]
	for _, st := range loc.SolarTrackers {
		if st.SerialNumber != serialNumber {
			trackers = append(trackers, st)
		}
	}
	loc.SolarTrackers = trackers
	loc.Capacity = loc.TotalCapacity()
	if err := s.Repo.Update(ctx, loc); err != nil {
		return err
	}

	s.NotifyLocationUpdate(ctx, loc, currFCMToken)
	return nil
}

// AddWeatherStation attaches the weather station. A location holds at
// most one, so a second attach is a conflict rather than a replace. The
// uniqueness check and the attach share one transaction like the
// tracker path.
func (s *DefaultLocationService) AddWeatherStation(ctx context.Context, userID, currFCMToken, locationID, serialNumber string) error {
	var loc *models.Location

	err := s.Txn.RunTransaction(ctx, func(ctx context.Context) error {
		var err error
		loc, err = s.checkIfUserIsOwner(ctx, userID, locationID)
		if err != nil {
			return err
		}
		if loc.WeatherStation != "" {
			return utils.NewConflict(utils.CodeWeatherStationPresent, "location already has a weather station")
		}

		if err := s.validateStationCanBeAdded(ctx, userID, serialNumber); err != nil {
			return err
		}

		loc.WeatherStation = serialNumber
		return s.Repo.Update(ctx, loc)
	})
	if err != nil {
		return err
	}

	s.NotifyLocationUpdate(ctx, loc, currFCMToken)
	return nil
}

// RemoveWeatherStation detaches the weather station.
func (s *DefaultLocationService) RemoveWeatherStation(ctx context.Context, userID, currFCMToken, locationID string) error {
	loc, err := s.checkIfUserIsOwner(ctx, userID, locationID)
	if err != nil {
		return err
	}
	if loc.WeatherStation == "" {
		return utils.NewNotFound("location has no weather station")
	}

	loc.WeatherStation = ""
	if err := s.Repo.Update(ctx, loc); err != nil {
		return err
	}

	s.NotifyLocationUpdate(ctx, loc, currFCMToken)
	return nil
}

// mapHwError converts a transport failure into the dependency
// unavailable response; other errors pass through.
func mapHwError(err error) error {
	if err == nil {
		return nil
	}
	var transportErr *hwapi.TransportError
	if errors.As(err, &transportErr) {
		return utils.NewGatewayUnavailable("hardware API is unavailable")
	}
	return err
}
