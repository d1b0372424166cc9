package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewPublisher_NoBrokers tests that the publisher degrades to a no-op
// when no broker is configured
func TestNewPublisher_NoBrokers(t *testing.T) {
	p := NewPublisher(nil, "ride-lifecycle", nil)
	require.Nil(t, p)

	// A nil publisher must be safe to use
	assert.NotPanics(t, func() {
		p.Publish(context.Background(), Event{Type: TypeRideMatched})
		assert.NoError(t, p.Close())
	})
}

// TestEvent_Marshal tests the wire shape consumed downstream
func TestEvent_Marshal(t *testing.T) {
	occurred := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	ev := Event{
		Type:       TypeRideCompleted,
		RequestID:  "req-1",
		RideID:     "ride-1",
		RiderID:    "rider-1",
		DriverID:   "driver-1",
		Fare:       104,
		DistanceKM: 3.6,
		OccurredAt: occurred,
	}

	b, err := json.Marshal(ev)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &decoded))

	assert.Equal(t, "ride_completed", decoded["type"])
	assert.Equal(t, "req-1", decoded["request_id"])
	assert.EqualValues(t, 104, decoded["fare"])
	assert.Contains(t, decoded, "occurred_at")
}

// TestEvent_OmitsEmptyFields tests that creation events stay compact
func TestEvent_OmitsEmptyFields(t *testing.T) {
	b, err := json.Marshal(Event{Type: TypeRequestCreated, RequestID: "req-1"})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &decoded))

	assert.NotContains(t, decoded, "ride_id")
	assert.NotContains(t, decoded, "driver_id")
	assert.NotContains(t, decoded, "fare")
}
