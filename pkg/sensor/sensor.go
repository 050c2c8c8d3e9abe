// Package sensor retrieves the latest wearable reading from the backend and
// normalizes it into a Reading.
//
// The backend returns the raw device tree under "data" (MAX30102 pulse
// oximeter, MPU6050 motion unit, DHT temperature probe) together with a
// classification under "prediction". Fields are optional and numbers may be
// encoded as strings, so extraction is done with gjson paths and defaults
// rather than a fixed struct.
package sensor

import (
	"context"
	"errors"
)

// DefaultTemperatureC is used when the payload carries no DHT reading.
const DefaultTemperatureC = 36.5

var (
	// ErrNoData is returned when the backend answers without success or data.
	ErrNoData = errors.New("no sensor data available")
	// ErrMalformed is returned when the response body is not valid JSON.
	ErrMalformed = errors.New("malformed sensor response")
)

// Vector3 is a three-axis measurement.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Reading is one timestamped bundle of vitals and motion values.
type Reading struct {
	HeartRateBPM float64 `json:"heartRateBpm"`
	TemperatureC float64 `json:"temperatureC"`
	Gyro         Vector3 `json:"gyro"`
	Accel        Vector3 `json:"accel"`
	Timestamp    string  `json:"timestamp"`
}

// Prediction is the backend's classification attached to a reading.
type Prediction struct {
	Condition          string `json:"condition"`
	RawPredictionClass int    `json:"rawPredictionClass"`
}

// Latest is a successful response from the latest-reading endpoint.
type Latest struct {
	Reading Reading
	// Prediction is nil when the backend attached none, or attached an error.
	Prediction *Prediction
}

// Source fetches the most recent reading.
//
// Latest must respect context cancellation and must not panic on unexpected
// payloads; every failure is reported as an error.
type Source interface {
	Latest(ctx context.Context) (*Latest, error)
	Name() string
}
