package phase

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/swiftride/dispatch/internal/domain/request"
	"github.com/swiftride/dispatch/internal/domain/ride"
)

func openRequest(expiresAt time.Time) *request.RideRequest {
	return &request.RideRequest{
		ID:        uuid.New(),
		Status:    request.StatusOpen,
		ExpiresAt: expiresAt,
	}
}

func matchedRequest() *request.RideRequest {
	return &request.RideRequest{ID: uuid.New(), Status: request.StatusMatched}
}

func rideWith(status ride.Status) *ride.Ride {
	return &ride.Ride{ID: uuid.New(), Status: status}
}

// TestDerive_Matrix tests the full request/ride to phase mapping
func TestDerive_Matrix(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name        string
		req         *request.RideRequest
		ride        *ride.Ride
		wantPhase   Phase
		wantMessage string
		wantExpire  bool
	}{
		{
			name:      "No active request",
			req:       nil,
			wantPhase: PhaseIdle,
		},
		{
			name:      "Open request still fresh",
			req:       openRequest(now.Add(2 * time.Minute)),
			wantPhase: PhaseSearching,
		},
		{
			name:        "Open request past its deadline",
			req:         openRequest(now.Add(-time.Second)),
			wantPhase:   PhaseIdle,
			wantMessage: msgExpired,
			wantExpire:  true,
		},
		{
			name:      "Matched but ride not yet visible",
			req:       matchedRequest(),
			ride:      nil,
			wantPhase: PhaseSearching,
		},
		{
			name:      "Matched with assigned ride",
			req:       matchedRequest(),
			ride:      rideWith(ride.StatusDriverAssigned),
			wantPhase: PhaseMatched,
		},
		{
			name:      "Ride started",
			req:       matchedRequest(),
			ride:      rideWith(ride.StatusStarted),
			wantPhase: PhaseInProgress,
		},
		{
			name:      "Ride completed",
			req:       matchedRequest(),
			ride:      rideWith(ride.StatusCompleted),
			wantPhase: PhaseCompleted,
		},
		{
			name:        "Ride cancelled",
			req:         matchedRequest(),
			ride:        rideWith(ride.StatusCancelled),
			wantPhase:   PhaseIdle,
			wantMessage: msgCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, message, needExpire := derive(tt.req, tt.ride, now)

			assert.Equal(t, tt.wantPhase, p)
			assert.Equal(t, tt.wantMessage, message)
			assert.Equal(t, tt.wantExpire, needExpire)
		})
	}
}

// TestDerive_NeverRewinds tests that a matched request without a visible
// ride reports searching rather than any later phase, and that later ride
// states never map to an earlier phase
func TestDerive_NeverRewinds(t *testing.T) {
	now := time.Now().UTC()
	req := matchedRequest()

	order := map[Phase]int{
		PhaseIdle:       0,
		PhaseSearching:  1,
		PhaseMatched:    2,
		PhaseInProgress: 3,
		PhaseCompleted:  4,
	}

	// A started ride must never report an earlier phase than a freshly
	// assigned one
	assigned, _, _ := derive(req, rideWith(ride.StatusDriverAssigned), now)
	started, _, _ := derive(req, rideWith(ride.StatusStarted), now)
	completed, _, _ := derive(req, rideWith(ride.StatusCompleted), now)

	assert.Less(t, order[assigned], order[started])
	assert.Less(t, order[started], order[completed])
}

// TestDerive_ExpiryUsesDeadline tests the exact expiry boundary
func TestDerive_ExpiryUsesDeadline(t *testing.T) {
	now := time.Now().UTC()

	// Exactly at the deadline the request is still live
	p, _, needExpire := derive(openRequest(now), nil, now)
	assert.Equal(t, PhaseSearching, p)
	assert.False(t, needExpire)

	p, _, needExpire = derive(openRequest(now.Add(-time.Millisecond)), nil, now)
	assert.Equal(t, PhaseIdle, p)
	assert.True(t, needExpire)
}
