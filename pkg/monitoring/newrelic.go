package monitoring

import (
	"fmt"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// Config holds New Relic configuration
type Config struct {
	LicenseKey string
	AppName    string
	Enabled    bool
}

// NewRelicApp wraps the New Relic application
type NewRelicApp struct {
	*newrelic.Application
	enabled bool
}

// New creates a new New Relic application
func New(cfg Config) (*NewRelicApp, error) {
	if !cfg.Enabled || cfg.LicenseKey == "" {
		// Return disabled app
		return &NewRelicApp{nil, false}, nil
	}

	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.AppName),
		newrelic.ConfigLicense(cfg.LicenseKey),
		newrelic.ConfigAppLogForwardingEnabled(true),
		newrelic.ConfigDistributedTracerEnabled(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create New Relic application: %w", err)
	}

	return &NewRelicApp{app, true}, nil
}

// IsEnabled returns whether New Relic is enabled
func (nr *NewRelicApp) IsEnabled() bool {
	return nr.enabled
}

// RecordCustomEvent records a custom event
func (nr *NewRelicApp) RecordCustomEvent(eventType string, params map[string]interface{}) {
	if !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.RecordCustomEvent(eventType, params)
}

// RecordCustomMetric records a custom metric
func (nr *NewRelicApp) RecordCustomMetric(name string, value float64) {
	if !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.RecordCustomMetric(name, value)
}

// Shutdown gracefully shuts down the New Relic application
func (nr *NewRelicApp) Shutdown(timeout time.Duration) {
	if !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.Shutdown(timeout)
}

// Custom event helpers

// RecordRequestCreated records ride request creation
func (nr *NewRelicApp) RecordRequestCreated(requestID string, estimatedFare int) {
	nr.RecordCustomEvent("RideRequestCreated", map[string]interface{}{
		"request_id":     requestID,
		"estimated_fare": estimatedFare,
		"timestamp":      time.Now().Unix(),
	})
}

// RecordRideMatched records a won accept race
func (nr *NewRelicApp) RecordRideMatched(requestID, rideID, driverID string) {
	nr.RecordCustomEvent("RideMatched", map[string]interface{}{
		"request_id": requestID,
		"ride_id":    rideID,
		"driver_id":  driverID,
	})
}

// RecordRideCompleted records ride completion
func (nr *NewRelicApp) RecordRideCompleted(rideID string, fare int, distanceKM float64) {
	nr.RecordCustomEvent("RideCompleted", map[string]interface{}{
		"ride_id":  rideID,
		"fare":     fare,
		"distance": distanceKM,
	})
}

// RecordAcceptConflict records a lost accept race
func (nr *NewRelicApp) RecordAcceptConflict(requestID, driverID string) {
	nr.RecordCustomEvent("AcceptConflict", map[string]interface{}{
		"request_id": requestID,
		"driver_id":  driverID,
	})
}
