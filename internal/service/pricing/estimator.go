package pricing

import (
	"math"

	"github.com/swiftride/dispatch/internal/geo"
)

// Config holds fare configuration
type Config struct {
	BaseFare     int     // flat component, currency units
	PerKMRate    int     // fare per straight-line kilometer
	MinPerKMRate float64 // travel minutes per kilometer
}

// DefaultConfig returns the standard city tariff
func DefaultConfig() Config {
	return Config{
		BaseFare:     50,
		PerKMRate:    15,
		MinPerKMRate: 3,
	}
}

// Estimate is a fare/distance/duration preview for a pickup/dropoff pair
type Estimate struct {
	Fare        int     `json:"estimated_fare"`
	DistanceKM  float64 `json:"estimated_distance_km"`
	DurationMin int     `json:"estimated_duration_min"`
}

// Service computes trip estimates
type Service struct {
	config Config
}

// NewService creates a new pricing service
func NewService(config Config) *Service {
	return &Service{config: config}
}

// Estimate computes the fare, distance and duration for a trip. This is the
// single source of truth for the formula: request creation and the preview
// endpoint both go through it, so the two can never diverge.
func (s *Service) Estimate(pickup, dropoff geo.Point) Estimate {
	distanceKM := round2(geo.DistanceKM(pickup, dropoff))

	return Estimate{
		Fare:        int(math.Round(float64(s.config.BaseFare) + distanceKM*float64(s.config.PerKMRate))),
		DistanceKM:  distanceKM,
		DurationMin: int(math.Round(distanceKM * s.config.MinPerKMRate)),
	}
}

// round2 rounds to two decimal places, matching the stored distance precision
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
