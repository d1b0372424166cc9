package request

import (
	"time"

	"github.com/google/uuid"
)

// ResponseStatus represents a driver's answer to a request
type ResponseStatus string

const (
	ResponseAccepted ResponseStatus = "accepted"
	ResponseRejected ResponseStatus = "rejected"
)

// DriverResponse records how a driver answered a request. At most one row
// exists per (request, driver) pair; a re-response updates it in place.
// Rejections suppress the request from that driver's proximity results.
type DriverResponse struct {
	RequestID    uuid.UUID      `json:"request_id"`
	DriverID     uuid.UUID      `json:"driver_id"`
	Status       ResponseStatus `json:"response_status"`
	ResponseTime time.Time      `json:"response_time"`
}
