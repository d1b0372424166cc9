package phase

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/swiftride/dispatch/internal/domain/request"
	"github.com/swiftride/dispatch/internal/domain/ride"
	apperrors "github.com/swiftride/dispatch/pkg/errors"
	"github.com/swiftride/dispatch/pkg/logger"
)

// Expirer lazily expires stale open requests encountered during reads
type Expirer interface {
	Expire(ctx context.Context, requestID uuid.UUID) error
}

// RideSnapshot is the ride view returned alongside matched and completed
// phases, enriched with the driver's name and the frozen estimates.
type RideSnapshot struct {
	ride.Ride
	DriverName           string  `json:"driver_name"`
	EstimatedFare        int     `json:"estimated_fare"`
	EstimatedDistanceKM  float64 `json:"estimated_distance_km"`
	EstimatedDurationMin int     `json:"estimated_duration_min"`
}

// Result is one poll tick's answer
type Result struct {
	Phase   Phase                `json:"phase"`
	Message string               `json:"message,omitempty"`
	Request *request.RideRequest `json:"request,omitempty"`
	Ride    *RideSnapshot        `json:"ride,omitempty"`
}

// Service assembles the rider's active phase from the current request and
// ride rows. Read-only apart from the lazy expiry side effect; safe to call
// on every poll tick.
type Service struct {
	db              *sql.DB
	expirer         Expirer
	completedWindow time.Duration
	logger          *logger.Logger
}

// NewService creates a new phase service
func NewService(db *sql.DB, expirer Expirer, completedWindow time.Duration, log *logger.Logger) *Service {
	return &Service{
		db:              db,
		expirer:         expirer,
		completedWindow: completedWindow,
		logger:          log,
	}
}

// Active derives the rider's current phase
func (s *Service) Active(ctx context.Context, riderID uuid.UUID) (*Result, error) {
	req, err := s.latestActiveRequest(ctx, riderID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load active request", err)
	}

	// No active request: a just-completed ride gets one summary within the
	// recency window, after which the rider is idle again.
	if req == nil {
		snap, err := s.recentCompletedRide(ctx, riderID)
		if err != nil {
			return nil, apperrors.Internal("Failed to load completed ride", err)
		}
		if snap != nil {
			return &Result{Phase: PhaseCompleted, Ride: snap}, nil
		}
		return &Result{Phase: PhaseIdle}, nil
	}

	var rd *ride.Ride
	var snap *RideSnapshot
	if req.Status == request.StatusMatched {
		snap, err = s.rideForRequest(ctx, req.ID)
		if err != nil {
			return nil, apperrors.Internal("Failed to load ride", err)
		}
		if snap != nil {
			rd = &snap.Ride
		}
	}

	p, message, needExpire := derive(req, rd, time.Now().UTC())
	if needExpire {
		if err := s.expirer.Expire(ctx, req.ID); err != nil {
			s.logger.Warn("Failed to lazily expire request", logger.String("request_id", req.ID.String()), logger.Err(err))
		}
		return &Result{Phase: p, Message: message}, nil
	}

	res := &Result{Phase: p, Message: message}
	switch p {
	case PhaseSearching:
		res.Request = req
	case PhaseMatched, PhaseInProgress, PhaseCompleted:
		res.Request = req
		res.Ride = snap
	}
	return res, nil
}

func (s *Service) latestActiveRequest(ctx context.Context, riderID uuid.UUID) (*request.RideRequest, error) {
	var req request.RideRequest
	err := s.db.QueryRowContext(ctx, `
		SELECT id, rider_id, pickup_lat, pickup_lng, pickup_addr,
		       dropoff_lat, dropoff_lng, dropoff_addr,
		       status, estimated_fare, estimated_distance_km, estimated_duration_min,
		       created_at, expires_at
		FROM ride_requests
		WHERE rider_id = $1 AND status IN ('open', 'matched')
		ORDER BY created_at DESC
		LIMIT 1
	`, riderID).Scan(
		&req.ID, &req.RiderID,
		&req.Pickup.Latitude, &req.Pickup.Longitude, &req.PickupAddr,
		&req.Dropoff.Latitude, &req.Dropoff.Longitude, &req.DropoffAddr,
		&req.Status, &req.EstimatedFare, &req.EstimatedDistanceKM, &req.EstimatedDurationMin,
		&req.CreatedAt, &req.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *Service) rideForRequest(ctx context.Context, requestID uuid.UUID) (*RideSnapshot, error) {
	snap, err := s.scanSnapshot(s.db.QueryRowContext(ctx, `
		SELECT r.id, r.request_id, r.rider_id, r.driver_id,
		       r.pickup_lat, r.pickup_lng, r.pickup_addr,
		       r.dropoff_lat, r.dropoff_lng, r.dropoff_addr,
		       r.status, r.started_at, r.completed_at,
		       d.name, rr.estimated_fare, rr.estimated_distance_km, rr.estimated_duration_min
		FROM rides r
		JOIN drivers d ON r.driver_id = d.id
		JOIN ride_requests rr ON r.request_id = rr.id
		WHERE r.request_id = $1
	`, requestID))
	if err == sql.ErrNoRows {
		// Transient window between the matched transition and the ride
		// insert becoming visible; the caller reports searching.
		return nil, nil
	}
	return snap, err
}

func (s *Service) recentCompletedRide(ctx context.Context, riderID uuid.UUID) (*RideSnapshot, error) {
	snap, err := s.scanSnapshot(s.db.QueryRowContext(ctx, `
		SELECT r.id, r.request_id, r.rider_id, r.driver_id,
		       r.pickup_lat, r.pickup_lng, r.pickup_addr,
		       r.dropoff_lat, r.dropoff_lng, r.dropoff_addr,
		       r.status, r.started_at, r.completed_at,
		       d.name, rr.estimated_fare, rr.estimated_distance_km, rr.estimated_duration_min
		FROM rides r
		JOIN drivers d ON r.driver_id = d.id
		JOIN ride_requests rr ON r.request_id = rr.id
		WHERE r.rider_id = $1 AND r.status = 'completed'
		  AND r.completed_at > NOW() - make_interval(secs => $2)
		ORDER BY r.completed_at DESC
		LIMIT 1
	`, riderID, s.completedWindow.Seconds()))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return snap, err
}

func (s *Service) scanSnapshot(row *sql.Row) (*RideSnapshot, error) {
	var snap RideSnapshot
	err := row.Scan(
		&snap.ID, &snap.RequestID, &snap.RiderID, &snap.DriverID,
		&snap.Pickup.Latitude, &snap.Pickup.Longitude, &snap.PickupAddr,
		&snap.Dropoff.Latitude, &snap.Dropoff.Longitude, &snap.DropoffAddr,
		&snap.Status, &snap.StartedAt, &snap.CompletedAt,
		&snap.DriverName, &snap.EstimatedFare, &snap.EstimatedDistanceKM, &snap.EstimatedDurationMin,
	)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
