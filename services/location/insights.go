package location

import (
	"context"
	"sync"

	"suntrack/hwapi"
	"suntrack/utils"
)

// GetInsights fans out telemetry reads for every device attached to a
// location. The tracker batch and the weather station read run
// concurrently; either failing fails the whole call.
func (s *DefaultLocationService) GetInsights(ctx context.Context, locationID string) (*Insights, error) {
	loc, err := s.Repo.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, utils.NewNotFound("location not found")
	}

	insights := &Insights{
		SolarTrackers: make(map[string]hwapi.SolarTrackerInsights),
	}

	var wg sync.WaitGroup
	var trackerErr, stationErr error

	if len(loc.SolarTrackers) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := s.Hw.GetSolarTrackersInsights(ctx, loc.SerialNumbers())
			if err != nil {
				trackerErr = err
				return
			}
			insights.SolarTrackers = data
		}()
	}

	if loc.WeatherStation != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := s.Hw.GetWeatherStationInsights(ctx, loc.WeatherStation)
			if err != nil {
				stationErr = err
				return
			}
			insights.WeatherStation = data
		}()
	}

	wg.Wait()
	if trackerErr != nil {
		return nil, mapHwError(trackerErr)
	}
	if stationErr != nil {
		return nil, mapHwError(stationErr)
	}
	return insights, nil
}

// GetSolarTrackerInsights returns telemetry for a single tracker.
func (s *DefaultLocationService) GetSolarTrackerInsights(ctx context.Context, serialNumber string) (*hwapi.SolarTrackerInsights, error) {
	data, err := s.Hw.GetSolarTrackersInsights(ctx, []string{serialNumber})
	if err != nil {
		return nil, mapHwError(err)
	}
	one, ok := data[serialNumber]
	if !ok {
		return nil, utils.NewNotFound("no insights for serial number")
	}
	return &one, nil
}

// GetWeatherStationInsights returns telemetry for a single station.
func (s *DefaultLocationService) GetWeatherStationInsights(ctx context.Context, serialNumber string) (*hwapi.WeatherStationInsights, error) {
	data, err := s.Hw.GetWeatherStationInsights(ctx, serialNumber)
	if err != nil {
		return nil, mapHwError(err)
	}
	return data, nil
}
