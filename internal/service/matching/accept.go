package matching

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/swiftride/dispatch/internal/domain/ride"
	"github.com/swiftride/dispatch/internal/events"
	"github.com/swiftride/dispatch/internal/observability"
	apperrors "github.com/swiftride/dispatch/pkg/errors"
	"github.com/swiftride/dispatch/pkg/logger"
)

// Accept resolves the accept race for a request. Of any number of concurrent
// callers, exactly one commits: the row is read FOR UPDATE filtered on
// status = 'open', so every competing transaction serializes behind the lock
// and all but the winner find the row already non-open. On the winning path
// the driver response, the matched transition, the ride and the driver's
// busy status commit together or not at all.
func (s *Service) Accept(ctx context.Context, driverID, requestID uuid.UUID) (*ride.Ride, error) {
	start := time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		observability.AcceptAttempts.WithLabelValues("error").Inc()
		return nil, apperrors.Internal("Failed to begin transaction", err)
	}
	defer tx.Rollback()

	var (
		riderID                                      uuid.UUID
		pickupLat, pickupLng, dropoffLat, dropoffLng float64
		pickupAddr, dropoffAddr                      string
		estimatedFare                                int
		estimatedDistanceKM                          float64
	)
	err = tx.QueryRowContext(ctx, `
		SELECT rider_id, pickup_lat, pickup_lng, pickup_addr,
		       dropoff_lat, dropoff_lng, dropoff_addr,
		       estimated_fare, estimated_distance_km
		FROM ride_requests
		WHERE id = $1 AND status = 'open'
		FOR UPDATE
	`, requestID).Scan(
		&riderID, &pickupLat, &pickupLng, &pickupAddr,
		&dropoffLat, &dropoffLng, &dropoffAddr,
		&estimatedFare, &estimatedDistanceKM,
	)
	if err == sql.ErrNoRows {
		// Already matched, expired or cancelled: this caller lost the race
		observability.AcceptAttempts.WithLabelValues("conflict").Inc()
		s.monitor.RecordAcceptConflict(requestID.String(), driverID.String())
		s.logger.Info("Accept lost race",
			logger.String("request_id", requestID.String()),
			logger.String("driver_id", driverID.String()),
		)
		return nil, apperrors.ErrRequestNotAvailable
	}
	if err != nil {
		observability.AcceptAttempts.WithLabelValues("error").Inc()
		return nil, apperrors.Internal("Failed to lock ride request", err)
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO driver_responses (request_id, driver_id, response_status, response_time)
		VALUES ($1, $2, 'accepted', NOW())
		ON CONFLICT (request_id, driver_id)
		DO UPDATE SET response_status = 'accepted', response_time = NOW()
	`, requestID, driverID); err != nil {
		observability.AcceptAttempts.WithLabelValues("error").Inc()
		return nil, apperrors.Internal("Failed to record driver response", err)
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE ride_requests SET status = 'matched' WHERE id = $1
	`, requestID); err != nil {
		observability.AcceptAttempts.WithLabelValues("error").Inc()
		return nil, apperrors.Internal("Failed to mark request matched", err)
	}

	newRide := &ride.Ride{
		ID:          uuid.New(),
		RequestID:   requestID,
		RiderID:     riderID,
		DriverID:    driverID,
		PickupAddr:  pickupAddr,
		DropoffAddr: dropoffAddr,
		Status:      ride.StatusDriverAssigned,
	}
	newRide.Pickup.Latitude, newRide.Pickup.Longitude = pickupLat, pickupLng
	newRide.Dropoff.Latitude, newRide.Dropoff.Longitude = dropoffLat, dropoffLng

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO rides (
			id, request_id, rider_id, driver_id,
			pickup_lat, pickup_lng, pickup_addr,
			dropoff_lat, dropoff_lng, dropoff_addr, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'driver_assigned')
	`, newRide.ID, requestID, riderID, driverID,
		pickupLat, pickupLng, pickupAddr,
		dropoffLat, dropoffLng, dropoffAddr); err != nil {
		observability.AcceptAttempts.WithLabelValues("error").Inc()
		return nil, apperrors.Internal("Failed to create ride", err)
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE drivers SET status = 'busy', updated_at = NOW() WHERE id = $1
	`, driverID); err != nil {
		observability.AcceptAttempts.WithLabelValues("error").Inc()
		return nil, apperrors.Internal("Failed to mark driver busy", err)
	}

	if err = tx.Commit(); err != nil {
		observability.AcceptAttempts.WithLabelValues("error").Inc()
		return nil, apperrors.Internal("Failed to commit match", err)
	}

	// Post-commit cleanup. The geo index entry is advisory only, so a failed
	// removal here cannot produce a double match.
	if err := s.requestGeo.Remove(ctx, requestID.String()); err != nil {
		s.logger.Warn("Failed to remove matched request from index", logger.Err(err))
	}

	observability.AcceptAttempts.WithLabelValues("won").Inc()
	observability.AcceptLatency.Observe(time.Since(start).Seconds())
	s.monitor.RecordRideMatched(requestID.String(), newRide.ID.String(), driverID.String())
	s.events.Publish(ctx, events.Event{
		Type:       events.TypeRideMatched,
		RequestID:  requestID.String(),
		RideID:     newRide.ID.String(),
		RiderID:    riderID.String(),
		DriverID:   driverID.String(),
		Fare:       estimatedFare,
		DistanceKM: estimatedDistanceKM,
	})

	s.logger.Info("Ride matched",
		logger.String("request_id", requestID.String()),
		logger.String("ride_id", newRide.ID.String()),
		logger.String("driver_id", driverID.String()),
	)

	return newRide, nil
}
