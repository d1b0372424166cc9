package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/swiftride/dispatch/internal/geo"
)

// Status represents ride request status
type Status string

const (
	StatusOpen      Status = "open"
	StatusMatched   Status = "matched"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

// TTL is how long a request stays open before it is eligible for lazy expiry
const TTL = 5 * time.Minute

// RideRequest represents a rider's open offer to nearby drivers.
// Only the lifecycle manager (expire/cancel) and the match resolver
// (open -> matched) mutate it after creation.
type RideRequest struct {
	ID                   uuid.UUID `json:"request_id"`
	RiderID              uuid.UUID `json:"rider_id"`
	Pickup               geo.Point `json:"pickup"`
	PickupAddr           string    `json:"pickup_addr"`
	Dropoff              geo.Point `json:"dropoff"`
	DropoffAddr          string    `json:"dropoff_addr"`
	Status               Status    `json:"status"`
	EstimatedFare        int       `json:"estimated_fare"`
	EstimatedDistanceKM  float64   `json:"estimated_distance_km"`
	EstimatedDurationMin int       `json:"estimated_duration_min"`
	CreatedAt            time.Time `json:"created_at"`
	ExpiresAt            time.Time `json:"expires_at"`
}

// IsValid validates the status
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusMatched, StatusExpired, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
// A matched request hands over to its ride and never changes again.
func (s Status) IsTerminal() bool {
	return s == StatusMatched || s == StatusExpired || s == StatusCancelled
}

// Expired reports whether the request is past its deadline at the given time
func (r *RideRequest) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
