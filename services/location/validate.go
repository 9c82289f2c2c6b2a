package location

import (
	"context"
	"errors"
	"fmt"

	"suntrack/hwapi"
	"suntrack/models"
	"suntrack/utils"
)

// ValidateSerialNumber checks a device serial in two steps: first the
// hardware API confirms the device exists, then the database confirms
// no location has claimed it yet. When the serial is taken, isAdded
// tells the requester whether the claiming location is already visible
// to them.
func (s *DefaultLocationService) ValidateSerialNumber(ctx context.Context, kind hwapi.DeviceKind, serialNumber, userID string) (*ValidateSerialResult, error) {
	valid, err := s.Hw.ValidateSerialNumber(ctx, kind, serialNumber)
	if err != nil {
		var transportErr *hwapi.TransportError
		if errors.As(err, &transportErr) {
			return nil, utils.NewGatewayUnavailable("hardware API is unavailable")
		}
		return nil, err
	}
	if !valid.IsValid {
		return &ValidateSerialResult{IsValid: false}, nil
	}

	loc, err := s.Repo.GetBySerialNumber(ctx, serialNumber)
	if err != nil {
		return nil, err
	}
	if loc != nil {
		return &ValidateSerialResult{
			IsValid: true,
			IsUsed:  true,
			IsAdded: loc.IsSharedWith(userID),
		}, nil
	}

	result := &ValidateSerialResult{IsValid: true}
	if kind == hwapi.KindSolarTracker {
		result.SolarTracker = &models.SolarTracker{
			SerialNumber: serialNumber,
			Capacity:     valid.Capacity,
		}
	}
	return result, nil
}

// validateTrackerCanBeAdded resolves a tracker serial to its capacity,
// rejecting serials the hardware API does not recognize and serials
// already attached somewhere.
func (s *DefaultLocationService) validateTrackerCanBeAdded(ctx context.Context, userID, serialNumber string) (*models.SolarTracker, error) {
	result, err := s.ValidateSerialNumber(ctx, hwapi.KindSolarTracker, serialNumber, userID)
	if err != nil {
		return nil, err
	}
	if !result.IsValid {
		return nil, utils.NewBadRequest(utils.CodeInvalidSTSerialNumber,
			fmt.Sprintf("invalid solar tracker serial number: %s", serialNumber))
	}
	if result.IsUsed {
		return nil, utils.NewConflict(utils.CodeSerialNumberAlreadyUsed,
			fmt.Sprintf("serial number already in use: %s", serialNumber))
	}
	return result.SolarTracker, nil
}

// validateStationCanBeAdded checks a weather station serial the same
// way, minus the capacity lookup.
func (s *DefaultLocationService) validateStationCanBeAdded(ctx context.Context, userID, serialNumber string) error {
	result, err := s.ValidateSerialNumber(ctx, hwapi.KindWeatherStation, serialNumber, userID)
	if err != nil {
		return err
	}
	if !result.IsValid {
		return utils.NewBadRequest(utils.CodeInvalidWSSerialNumber,
			fmt.Sprintf("invalid weather station serial number: %s", serialNumber))
	}
	if result.IsUsed {
		return utils.NewConflict(utils.CodeSerialNumberAlreadyUsed,
			fmt.Sprintf("serial number already in use: %s", serialNumber))
	}
	return nil
}
