package request

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/swiftride/dispatch/internal/domain/request"
	"github.com/swiftride/dispatch/internal/events"
	"github.com/swiftride/dispatch/internal/geo"
	"github.com/swiftride/dispatch/internal/observability"
	"github.com/swiftride/dispatch/internal/service/pricing"
	"github.com/swiftride/dispatch/pkg/cache"
	apperrors "github.com/swiftride/dispatch/pkg/errors"
	"github.com/swiftride/dispatch/pkg/logger"
)

// Service owns the ride request lifecycle: creation with fare estimation,
// lazy expiry and rider cancellation. The open -> matched transition belongs
// to the match resolver, not to this service.
type Service struct {
	db         *sql.DB
	pricing    *pricing.Service
	requestGeo *cache.GeoIndex
	events     *events.Publisher
	logger     *logger.Logger
}

// NewService creates a new request lifecycle service
func NewService(db *sql.DB, pricingSvc *pricing.Service, requestGeo *cache.GeoIndex, pub *events.Publisher, log *logger.Logger) *Service {
	return &Service{
		db:         db,
		pricing:    pricingSvc,
		requestGeo: requestGeo,
		events:     pub,
		logger:     log,
	}
}

// Create validates the trip, computes estimates and persists a new open
// request that expires five minutes from now.
func (s *Service) Create(ctx context.Context, riderID uuid.UUID, pickup, dropoff geo.Point, pickupAddr, dropoffAddr string) (*request.RideRequest, error) {
	if !pickup.Valid() || !dropoff.Valid() {
		return nil, apperrors.ErrInvalidCoordinates
	}
	if pickupAddr == "" || dropoffAddr == "" {
		return nil, apperrors.ErrMissingAddress
	}

	est := s.pricing.Estimate(pickup, dropoff)
	now := time.Now().UTC()

	req := &request.RideRequest{
		ID:                   uuid.New(),
		RiderID:              riderID,
		Pickup:               pickup,
		PickupAddr:           pickupAddr,
		Dropoff:              dropoff,
		DropoffAddr:          dropoffAddr,
		Status:               request.StatusOpen,
		EstimatedFare:        est.Fare,
		EstimatedDistanceKM:  est.DistanceKM,
		EstimatedDurationMin: est.DurationMin,
		CreatedAt:            now,
		ExpiresAt:            now.Add(request.TTL),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ride_requests (
			id, rider_id, pickup_lat, pickup_lng, pickup_addr,
			dropoff_lat, dropoff_lng, dropoff_addr,
			status, estimated_fare, estimated_distance_km, estimated_duration_min,
			created_at, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, req.ID, req.RiderID, pickup.Latitude, pickup.Longitude, pickupAddr,
		dropoff.Latitude, dropoff.Longitude, dropoffAddr,
		req.Status, req.EstimatedFare, req.EstimatedDistanceKM, req.EstimatedDurationMin,
		req.CreatedAt, req.ExpiresAt)
	if err != nil {
		s.logger.Error("Failed to insert ride request", logger.Err(err))
		return nil, apperrors.Internal("Failed to create ride request", err)
	}

	// Index the pickup point so proximity queries can find this request fast.
	// The database row is authoritative; a stale index entry is re-checked on read.
	if err := s.requestGeo.Upsert(ctx, req.ID.String(), pickup.Latitude, pickup.Longitude); err != nil {
		s.logger.Warn("Failed to index request pickup", logger.String("request_id", req.ID.String()), logger.Err(err))
	}

	observability.RequestsCreated.Inc()
	s.events.Publish(ctx, events.Event{
		Type:      events.TypeRequestCreated,
		RequestID: req.ID.String(),
		RiderID:   riderID.String(),
		Fare:      est.Fare,
	})

	s.logger.Info("Ride request created",
		logger.String("request_id", req.ID.String()),
		logger.String("rider_id", riderID.String()),
		logger.Int("estimated_fare", est.Fare),
		logger.Float64("estimated_distance_km", est.DistanceKM),
	)

	return req, nil
}

// Estimate previews fare, distance and duration without creating a request
func (s *Service) Estimate(pickup, dropoff geo.Point) (*pricing.Estimate, error) {
	if !pickup.Valid() || !dropoff.Valid() {
		return nil, apperrors.ErrInvalidCoordinates
	}
	est := s.pricing.Estimate(pickup, dropoff)
	return &est, nil
}

// Expire transitions an open, past-deadline request to expired. Redundant
// calls are no-ops: the guard only matches rows that are still open and
// actually past expires_at. Expiry is triggered by reads, never by a timer.
func (s *Service) Expire(ctx context.Context, requestID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE ride_requests
		SET status = 'expired'
		WHERE id = $1 AND status = 'open' AND expires_at < NOW()
	`, requestID)
	if err != nil {
		return apperrors.Internal("Failed to expire ride request", err)
	}

	if n, _ := res.RowsAffected(); n > 0 {
		observability.RequestsExpired.Inc()
		if err := s.requestGeo.Remove(ctx, requestID.String()); err != nil {
			s.logger.Warn("Failed to remove expired request from index", logger.Err(err))
		}
		s.logger.Info("Ride request expired", logger.String("request_id", requestID.String()))
	}
	return nil
}

// Cancel transitions the rider's own open request to cancelled. Ownership
// and openness are enforced in the update's guard, so a request that was
// matched or expired in the meantime is reported as no longer cancellable.
func (s *Service) Cancel(ctx context.Context, riderID, requestID uuid.UUID) (*request.RideRequest, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE ride_requests
		SET status = 'cancelled'
		WHERE id = $1 AND rider_id = $2 AND status = 'open'
		RETURNING id, rider_id, pickup_lat, pickup_lng, pickup_addr,
		          dropoff_lat, dropoff_lng, dropoff_addr,
		          status, estimated_fare, estimated_distance_km, estimated_duration_min,
		          created_at, expires_at
	`, requestID, riderID)

	req, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrRequestNotCancellable
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to cancel ride request", err)
	}

	if err := s.requestGeo.Remove(ctx, requestID.String()); err != nil {
		s.logger.Warn("Failed to remove cancelled request from index", logger.Err(err))
	}

	s.logger.Info("Ride request cancelled",
		logger.String("request_id", requestID.String()),
		logger.String("rider_id", riderID.String()),
	)

	return req, nil
}

func scanRequest(row *sql.Row) (*request.RideRequest, error) {
	var req request.RideRequest
	err := row.Scan(
		&req.ID, &req.RiderID,
		&req.Pickup.Latitude, &req.Pickup.Longitude, &req.PickupAddr,
		&req.Dropoff.Latitude, &req.Dropoff.Longitude, &req.DropoffAddr,
		&req.Status, &req.EstimatedFare, &req.EstimatedDistanceKM, &req.EstimatedDurationMin,
		&req.CreatedAt, &req.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}
