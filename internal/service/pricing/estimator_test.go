package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/swiftride/dispatch/internal/geo"
)

func testService() *Service {
	return NewService(DefaultConfig())
}

// TestEstimate_Formula tests the fare formula against hand-computed trips
func TestEstimate_Formula(t *testing.T) {
	service := testService()

	tests := []struct {
		name            string
		pickup, dropoff geo.Point
		wantFare        int
		wantDurationMin int
		wantDistanceKM  float64
	}{
		{
			name:            "Dhaka Gulshan to Motijheel",
			pickup:          geo.Point{Latitude: 23.8103, Longitude: 90.4125},
			dropoff:         geo.Point{Latitude: 23.7800, Longitude: 90.4000},
			wantFare:        104, // 50 + 3.60 * 15
			wantDurationMin: 11,  // 3.60 * 3, rounded
			wantDistanceKM:  3.60,
		},
		{
			name:            "Zero distance",
			pickup:          geo.Point{Latitude: 23.8103, Longitude: 90.4125},
			dropoff:         geo.Point{Latitude: 23.8103, Longitude: 90.4125},
			wantFare:        50, // base fare only
			wantDurationMin: 0,
			wantDistanceKM:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est := service.Estimate(tt.pickup, tt.dropoff)

			assert.Equal(t, tt.wantFare, est.Fare)
			assert.Equal(t, tt.wantDurationMin, est.DurationMin)
			assert.InDelta(t, tt.wantDistanceKM, est.DistanceKM, 0.01)
		})
	}
}

// TestEstimate_Deterministic tests that identical coordinates always yield
// identical estimates
func TestEstimate_Deterministic(t *testing.T) {
	service := testService()

	pickup := geo.Point{Latitude: 23.8103, Longitude: 90.4125}
	dropoff := geo.Point{Latitude: 23.7800, Longitude: 90.4000}

	first := service.Estimate(pickup, dropoff)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, service.Estimate(pickup, dropoff))
	}
}

// TestEstimate_FareGrowsWithDistance tests monotonicity of the formula
func TestEstimate_FareGrowsWithDistance(t *testing.T) {
	service := testService()

	pickup := geo.Point{Latitude: 23.8103, Longitude: 90.4125}
	near := service.Estimate(pickup, geo.Point{Latitude: 23.8000, Longitude: 90.4100})
	far := service.Estimate(pickup, geo.Point{Latitude: 23.7000, Longitude: 90.3500})

	assert.Less(t, near.Fare, far.Fare)
	assert.Less(t, near.DistanceKM, far.DistanceKM)
	assert.LessOrEqual(t, near.DurationMin, far.DurationMin)
}

// TestEstimate_CustomTariff tests that the configured rates flow through
func TestEstimate_CustomTariff(t *testing.T) {
	service := NewService(Config{BaseFare: 100, PerKMRate: 30, MinPerKMRate: 2})

	pickup := geo.Point{Latitude: 23.8103, Longitude: 90.4125}
	dropoff := geo.Point{Latitude: 23.7800, Longitude: 90.4000}

	est := service.Estimate(pickup, dropoff)

	assert.Equal(t, 208, est.Fare)       // 100 + 3.60 * 30
	assert.Equal(t, 7, est.DurationMin)  // 3.60 * 2, rounded
}

// BenchmarkEstimate benchmarks a single estimate
func BenchmarkEstimate(b *testing.B) {
	service := testService()
	pickup := geo.Point{Latitude: 23.8103, Longitude: 90.4125}
	dropoff := geo.Point{Latitude: 23.7800, Longitude: 90.4000}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		service.Estimate(pickup, dropoff)
	}
}
