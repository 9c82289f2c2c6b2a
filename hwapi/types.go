package hwapi

// DeviceKind selects which hardware family a serial number belongs to.
type DeviceKind string

const (
	KindSolarTracker   DeviceKind = "solar-tracker"
	KindWeatherStation DeviceKind = "weather-station"
)

// ValidateResult is the hardware API's answer for a serial number.
// Capacity is only populated for solar trackers.
type ValidateResult struct {
	IsValid  bool    `json:"isValid"`
	Capacity float64 `json:"capacity,omitempty"`
}

// Coordinates is a device's installed position.
type Coordinates struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// AverageSensorValue is a 24h rolling average for one sensor.
type AverageSensorValue struct {
	ID      string  `json:"id"`
	Average float64 `json:"average"`
}

// SolarTrackerSensors reports per-sensor health for a tracker.
type SolarTrackerSensors struct {
	IrradianceSensor bool `json:"irradianceSensor"`
	Accelerometer    bool `json:"accelerometer"`
	AzimuthMotor     bool `json:"azimuthMotor"`
	ElevationMotor   bool `json:"elevationMotor"`
}

// SolarTrackerInsights is the telemetry snapshot for one tracker.
type SolarTrackerInsights struct {
	InstallationDate     string              `json:"installationDate"`
	SensorsStatus        SolarTrackerSensors `json:"sensorsStatus"`
	Capacity             float64             `json:"capacity"`
	IsActive             bool                `json:"isActive"`
	LastUpdate           string              `json:"lastUpdate"`
	Coordinates          Coordinates         `json:"coordinates"`
	CurrentAzimuth       float64             `json:"currentAzimuth"`
	CurrentElevation     float64             `json:"currentElevation"`
	AzimuthDeviation     float64             `json:"azimuthDeviation"`
	ElevationDeviation   float64             `json:"elevationDeviation"`
	Last24hAvgIrradiance AverageSensorValue  `json:"last24hAvgIrradiance"`
}

// WeatherStationSensors reports per-sensor health for a weather station.
type WeatherStationSensors struct {
	Anemometer        bool `json:"anemometer"`
	TemperatureSensor bool `json:"temperatureSensor"`
}

// WeatherStationInsights is the telemetry snapshot for a weather station.
type WeatherStationInsights struct {
	InstallationDate      string                `json:"installationDate"`
	SensorsStatus         WeatherStationSensors `json:"sensorsStatus"`
	IsActive              bool                  `json:"isActive"`
	LastUpdate            string                `json:"lastUpdate"`
	Coordinates           Coordinates           `json:"coordinates"`
	CurrentTemperature    float64               `json:"currentTemperature"`
	CurrentWindSpeed      float64               `json:"currentWindSpeed"`
	CurrentWindDirection  float64               `json:"currentWindDirection"`
	Last24hAvgTemperature AverageSensorValue    `json:"last24hAvgTemperature"`
	Last24hAvgWindSpeed   AverageSensorValue    `json:"last24hAvgWindSpeed"`
}
