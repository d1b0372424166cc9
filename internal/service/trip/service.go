package trip

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/swiftride/dispatch/internal/domain/ride"
	"github.com/swiftride/dispatch/internal/events"
	"github.com/swiftride/dispatch/internal/geo"
	"github.com/swiftride/dispatch/pkg/cache"
	apperrors "github.com/swiftride/dispatch/pkg/errors"
	"github.com/swiftride/dispatch/pkg/logger"
	"github.com/swiftride/dispatch/pkg/monitoring"
)

// Service advances matched rides through their state machine and keeps
// driver availability in step: entering a terminal status releases the
// driver back to online.
type Service struct {
	db        *sql.DB
	driverGeo *cache.GeoIndex
	events    *events.Publisher
	monitor   *monitoring.NewRelicApp
	logger    *logger.Logger
}

// NewService creates a new trip service
func NewService(db *sql.DB, driverGeo *cache.GeoIndex, pub *events.Publisher, monitor *monitoring.NewRelicApp, log *logger.Logger) *Service {
	return &Service{
		db:        db,
		driverGeo: driverGeo,
		events:    pub,
		monitor:   monitor,
		logger:    log,
	}
}

// UpdateStatus sets a ride's status on behalf of its assigned driver.
// driver_assigned is never accepted as input; it is reachable only through
// the accept protocol. Transitions are deliberately permissive beyond that:
// a driver may complete a ride without ever starting it, and the owning
// check (ride id + driver id) is the only gate.
func (s *Service) UpdateStatus(ctx context.Context, driverID, rideID uuid.UUID, newStatus ride.Status) (*ride.Ride, error) {
	if !newStatus.DriverSettable() {
		return nil, apperrors.ErrInvalidRideStatus
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.Internal("Failed to begin transaction", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		UPDATE rides
		SET status = $1,
		    started_at   = CASE WHEN $1 = 'started'   THEN NOW() ELSE started_at   END,
		    completed_at = CASE WHEN $1 = 'completed' THEN NOW() ELSE completed_at END
		WHERE id = $2 AND driver_id = $3
		RETURNING id, request_id, rider_id, driver_id,
		          pickup_lat, pickup_lng, pickup_addr,
		          dropoff_lat, dropoff_lng, dropoff_addr,
		          status, started_at, completed_at
	`, newStatus, rideID, driverID)

	var r ride.Ride
	err = row.Scan(
		&r.ID, &r.RequestID, &r.RiderID, &r.DriverID,
		&r.Pickup.Latitude, &r.Pickup.Longitude, &r.PickupAddr,
		&r.Dropoff.Latitude, &r.Dropoff.Longitude, &r.DropoffAddr,
		&r.Status, &r.StartedAt, &r.CompletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrRideNotFound
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to update ride status", err)
	}

	if newStatus.FreesDriver() {
		if _, err = tx.ExecContext(ctx, `
			UPDATE drivers SET status = 'online', updated_at = NOW() WHERE id = $1
		`, driverID); err != nil {
			return nil, apperrors.Internal("Failed to release driver", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, apperrors.Internal("Failed to commit ride status update", err)
	}

	s.logger.Info("Ride status updated",
		logger.String("ride_id", rideID.String()),
		logger.String("driver_id", driverID.String()),
		logger.String("status", string(newStatus)),
	)

	switch newStatus {
	case ride.StatusCompleted:
		// Completion freezes the estimate as the final fare; settlement
		// consumers read it off the lifecycle event.
		fare, distanceKM := s.requestEstimate(ctx, r.RequestID)
		s.monitor.RecordRideCompleted(r.ID.String(), fare, distanceKM)
		s.events.Publish(ctx, events.Event{
			Type:       events.TypeRideCompleted,
			RequestID:  r.RequestID.String(),
			RideID:     r.ID.String(),
			RiderID:    r.RiderID.String(),
			DriverID:   driverID.String(),
			Fare:       fare,
			DistanceKM: distanceKM,
		})
	case ride.StatusCancelled:
		s.events.Publish(ctx, events.Event{
			Type:     events.TypeRideCancelled,
			RideID:   r.ID.String(),
			RiderID:  r.RiderID.String(),
			DriverID: driverID.String(),
		})
	}

	return &r, nil
}

func (s *Service) requestEstimate(ctx context.Context, requestID uuid.UUID) (int, float64) {
	var fare int
	var distanceKM float64
	err := s.db.QueryRowContext(ctx, `
		SELECT estimated_fare, estimated_distance_km FROM ride_requests WHERE id = $1
	`, requestID).Scan(&fare, &distanceKM)
	if err != nil {
		s.logger.Warn("Failed to load estimate for completed ride", logger.Err(err))
	}
	return fare, distanceKM
}

// UpdateLocation records the driver's GPS position and marks them online.
// A busy driver stays busy; only offline flips to online here.
func (s *Service) UpdateLocation(ctx context.Context, driverID uuid.UUID, location geo.Point) error {
	if !location.Valid() {
		return apperrors.ErrInvalidCoordinates
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE drivers
		SET current_lat = $1,
		    current_lng = $2,
		    status = CASE WHEN status = 'busy' THEN status ELSE 'online' END,
		    updated_at = NOW()
		WHERE id = $3
	`, location.Latitude, location.Longitude, driverID)
	if err != nil {
		return apperrors.Internal("Failed to update driver location", err)
	}

	if err := s.driverGeo.Upsert(ctx, driverID.String(), location.Latitude, location.Longitude); err != nil {
		s.logger.Warn("Failed to index driver location", logger.String("driver_id", driverID.String()), logger.Err(err))
	}

	return nil
}
