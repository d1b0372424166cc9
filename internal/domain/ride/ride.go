package ride

import (
	"time"

	"github.com/google/uuid"
	"github.com/swiftride/dispatch/internal/geo"
)

// Status represents ride status
type Status string

const (
	StatusDriverAssigned Status = "driver_assigned"
	StatusStarted        Status = "started"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
)

// Ride is the matched trip spawned from exactly one ride request. It is
// created atomically with the request's open -> matched transition and
// mutated only by its assigned driver.
type Ride struct {
	ID          uuid.UUID  `json:"ride_id"`
	RequestID   uuid.UUID  `json:"request_id"`
	RiderID     uuid.UUID  `json:"rider_id"`
	DriverID    uuid.UUID  `json:"driver_id"`
	Pickup      geo.Point  `json:"pickup"`
	PickupAddr  string     `json:"pickup_addr"`
	Dropoff     geo.Point  `json:"dropoff"`
	DropoffAddr string     `json:"dropoff_addr"`
	Status      Status     `json:"status"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// IsValid validates the status
func (s Status) IsValid() bool {
	switch s {
	case StatusDriverAssigned, StatusStarted, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the ride is finished
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// DriverSettable reports whether a driver may set this status directly.
// driver_assigned is reachable only through the accept protocol.
func (s Status) DriverSettable() bool {
	switch s {
	case StatusStarted, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// FreesDriver reports whether entering this status releases the driver
// back to online availability
func (s Status) FreesDriver() bool {
	return s.IsTerminal()
}
