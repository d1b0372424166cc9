package matching

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/swiftride/dispatch/internal/domain/request"
	"github.com/swiftride/dispatch/internal/events"
	"github.com/swiftride/dispatch/internal/geo"
	"github.com/swiftride/dispatch/internal/observability"
	"github.com/swiftride/dispatch/pkg/cache"
	apperrors "github.com/swiftride/dispatch/pkg/errors"
	"github.com/swiftride/dispatch/pkg/logger"
	"github.com/swiftride/dispatch/pkg/monitoring"
)

// Expirer lazily expires stale open requests encountered during reads
type Expirer interface {
	Expire(ctx context.Context, requestID uuid.UUID) error
}

// Config holds matching configuration
type Config struct {
	DefaultRadiusMeters float64
	MaxRadiusMeters     float64
	MaxCandidates       int
}

// Candidate is an open request offered to a driver, nearest first
type Candidate struct {
	request.RideRequest
	RiderName      string  `json:"rider_name"`
	DistanceMeters float64 `json:"distance_meters"`
}

// Service finds open requests near a driver and resolves concurrent accept
// attempts into exactly one winner.
type Service struct {
	db         *sql.DB
	requestGeo *cache.GeoIndex
	expirer    Expirer
	events     *events.Publisher
	monitor    *monitoring.NewRelicApp
	logger     *logger.Logger
	config     Config
}

// NewService creates a new matching service
func NewService(db *sql.DB, requestGeo *cache.GeoIndex, expirer Expirer, pub *events.Publisher, monitor *monitoring.NewRelicApp, log *logger.Logger, config Config) *Service {
	return &Service{
		db:         db,
		requestGeo: requestGeo,
		expirer:    expirer,
		events:     pub,
		monitor:    monitor,
		logger:     log,
		config:     config,
	}
}

// Nearby returns open requests within radiusMeters of the driver's location,
// sorted by ascending pickup distance, excluding requests the driver already
// responded to. Stale open requests found along the way are expired and
// dropped from the results.
func (s *Service) Nearby(ctx context.Context, driverID uuid.UUID, location geo.Point, radiusMeters float64) ([]Candidate, error) {
	if !location.Valid() {
		return nil, apperrors.ErrInvalidCoordinates
	}
	if radiusMeters <= 0 {
		radiusMeters = s.config.DefaultRadiusMeters
	}
	if radiusMeters > s.config.MaxRadiusMeters {
		radiusMeters = s.config.MaxRadiusMeters
	}

	hits, err := s.requestGeo.Search(ctx, location.Latitude, location.Longitude, radiusMeters, s.config.MaxCandidates)
	if err != nil {
		return nil, apperrors.Internal("Failed to search nearby requests", err)
	}
	if len(hits) == 0 {
		observability.NearbyResults.Observe(0)
		return []Candidate{}, nil
	}

	ids := make([]string, 0, len(hits))
	distance := make(map[string]float64, len(hits))
	for _, h := range hits {
		ids = append(ids, h.Name)
		distance[h.Name] = h.DistanceMeters
	}

	// The index is advisory: re-check status and the driver's response
	// history against the store before offering anything.
	rows, err := s.db.QueryContext(ctx, `
		SELECT rr.id, rr.rider_id, rr.pickup_lat, rr.pickup_lng, rr.pickup_addr,
		       rr.dropoff_lat, rr.dropoff_lng, rr.dropoff_addr,
		       rr.status, rr.estimated_fare, rr.estimated_distance_km, rr.estimated_duration_min,
		       rr.created_at, rr.expires_at, rd.name
		FROM ride_requests rr
		JOIN riders rd ON rr.rider_id = rd.id
		WHERE rr.id = ANY($1)
		  AND rr.status = 'open'
		  AND NOT EXISTS (
			SELECT 1 FROM driver_responses dr
			WHERE dr.request_id = rr.id AND dr.driver_id = $2
		  )
	`, pq.Array(ids), driverID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load nearby requests", err)
	}
	defer rows.Close()

	now := time.Now().UTC()
	byID := make(map[string]Candidate, len(ids))
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(
			&c.ID, &c.RiderID,
			&c.Pickup.Latitude, &c.Pickup.Longitude, &c.PickupAddr,
			&c.Dropoff.Latitude, &c.Dropoff.Longitude, &c.DropoffAddr,
			&c.Status, &c.EstimatedFare, &c.EstimatedDistanceKM, &c.EstimatedDurationMin,
			&c.CreatedAt, &c.ExpiresAt, &c.RiderName,
		); err != nil {
			return nil, apperrors.Internal("Failed to scan nearby request", err)
		}

		if c.Expired(now) {
			if err := s.expirer.Expire(ctx, c.ID); err != nil {
				s.logger.Warn("Failed to lazily expire request", logger.String("request_id", c.ID.String()), logger.Err(err))
			}
			continue
		}

		c.DistanceMeters = distance[c.ID.String()]
		byID[c.ID.String()] = c
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Internal("Failed to read nearby requests", err)
	}

	// Preserve the index's nearest-first ordering
	candidates := make([]Candidate, 0, len(byID))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			candidates = append(candidates, c)
		}
	}

	observability.NearbyResults.Observe(float64(len(candidates)))
	return candidates, nil
}

// Reject upserts a rejected response so the request stops appearing in this
// driver's proximity results. Idempotent; the request itself is untouched
// and need not still be open.
func (s *Service) Reject(ctx context.Context, driverID, requestID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO driver_responses (request_id, driver_id, response_status, response_time)
		VALUES ($1, $2, 'rejected', NOW())
		ON CONFLICT (request_id, driver_id)
		DO UPDATE SET response_status = 'rejected', response_time = NOW()
	`, requestID, driverID)
	if err != nil {
		return apperrors.Internal("Failed to reject ride request", err)
	}

	s.logger.Info("Ride request rejected",
		logger.String("request_id", requestID.String()),
		logger.String("driver_id", driverID.String()),
	)
	return nil
}
