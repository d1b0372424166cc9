package driver

import (
	"time"

	"github.com/google/uuid"
	"github.com/swiftride/dispatch/internal/geo"
)

// Status represents driver availability status
type Status string

const (
	StatusOffline Status = "offline"
	StatusOnline  Status = "online"
	StatusBusy    Status = "busy"
)

// Driver represents a driver's availability row. A driver is busy exactly
// while one non-terminal ride is assigned to them; the ride state machine
// owns the busy/online transitions.
type Driver struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Status    Status     `json:"status"`
	Location  *geo.Point `json:"location,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IsValid validates the status
func (s Status) IsValid() bool {
	switch s {
	case StatusOffline, StatusOnline, StatusBusy:
		return true
	}
	return false
}

// Available reports whether the driver can accept a new request
func (d *Driver) Available() bool {
	return d.Status == StatusOnline
}
