package phase

import (
	"time"

	"github.com/swiftride/dispatch/internal/domain/request"
	"github.com/swiftride/dispatch/internal/domain/ride"
)

// Phase is the rider-facing discrete summary of request/ride state,
// consumed by polling clients.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSearching  Phase = "searching"
	PhaseMatched    Phase = "matched"
	PhaseInProgress Phase = "in_progress"
	PhaseCompleted  Phase = "completed"
)

const (
	msgExpired   = "Your ride request expired. No drivers found."
	msgCancelled = "Ride was cancelled"
)

// derive maps the rider's current request/ride rows to a phase. It returns
// needExpire=true when the open request is past its deadline so the caller
// can apply the lazy expiry transition; derive itself never mutates.
//
// The mapping never rewinds: a matched request with no visible ride yet
// (the window between the matched transition and the ride insert becoming
// visible) reports searching, not an earlier phase of a fresher request.
func derive(req *request.RideRequest, rd *ride.Ride, now time.Time) (p Phase, message string, needExpire bool) {
	if req == nil {
		return PhaseIdle, "", false
	}

	if req.Status == request.StatusOpen {
		if req.Expired(now) {
			return PhaseIdle, msgExpired, true
		}
		return PhaseSearching, "", false
	}

	// Matched: the ride row decides
	if rd == nil {
		return PhaseSearching, "", false
	}
	switch rd.Status {
	case ride.StatusCompleted:
		return PhaseCompleted, "", false
	case ride.StatusCancelled:
		return PhaseIdle, msgCancelled, false
	case ride.StatusStarted:
		return PhaseInProgress, "", false
	default:
		return PhaseMatched, "", false
	}
}
