package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDistanceKM_KnownPairs tests haversine against reference distances
func TestDistanceKM_KnownPairs(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Point
		wantKM float64
		delta  float64
	}{
		{
			name:   "One degree of latitude at the equator",
			a:      Point{Latitude: 0, Longitude: 0},
			b:      Point{Latitude: 1, Longitude: 0},
			wantKM: 111.19,
			delta:  0.1,
		},
		{
			name:   "Same point",
			a:      Point{Latitude: 23.8103, Longitude: 90.4125},
			b:      Point{Latitude: 23.8103, Longitude: 90.4125},
			wantKM: 0,
			delta:  0.0001,
		},
		{
			name:   "Across central Dhaka",
			a:      Point{Latitude: 23.8103, Longitude: 90.4125},
			b:      Point{Latitude: 23.7800, Longitude: 90.4000},
			wantKM: 3.60,
			delta:  0.02,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.wantKM, DistanceKM(tt.a, tt.b), tt.delta)
		})
	}
}

// TestDistanceKM_Symmetric tests that distance is direction independent
func TestDistanceKM_Symmetric(t *testing.T) {
	a := Point{Latitude: 23.8103, Longitude: 90.4125}
	b := Point{Latitude: 23.7800, Longitude: 90.4000}

	assert.Equal(t, DistanceKM(a, b), DistanceKM(b, a))
}

// TestDistanceMeters tests the meter conversion
func TestDistanceMeters(t *testing.T) {
	a := Point{Latitude: 0, Longitude: 0}
	b := Point{Latitude: 1, Longitude: 0}

	assert.InDelta(t, DistanceKM(a, b)*1000, DistanceMeters(a, b), 0.001)
}

// TestPoint_Valid tests WGS84 bounds checking
func TestPoint_Valid(t *testing.T) {
	tests := []struct {
		name  string
		point Point
		valid bool
	}{
		{"Dhaka", Point{Latitude: 23.8103, Longitude: 90.4125}, true},
		{"Null island", Point{Latitude: 0, Longitude: 0}, true},
		{"Poles", Point{Latitude: 90, Longitude: 180}, true},
		{"Latitude too high", Point{Latitude: 90.1, Longitude: 0}, false},
		{"Latitude too low", Point{Latitude: -90.1, Longitude: 0}, false},
		{"Longitude too high", Point{Latitude: 0, Longitude: 180.1}, false},
		{"Longitude too low", Point{Latitude: 0, Longitude: -180.1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.point.Valid())
		})
	}
}
