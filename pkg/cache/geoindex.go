package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// GeoIndex is a Redis GEO set used for within-radius lookups over point data.
// The database remains the source of truth; callers re-validate every hit
// against the store before acting on it.
type GeoIndex struct {
	client *redis.Client
	key    string
}

// NewGeoIndex creates a geo index backed by the given Redis key
func NewGeoIndex(client *redis.Client, key string) *GeoIndex {
	return &GeoIndex{client: client, key: key}
}

// Member is a geo index hit with its distance from the query point
type Member struct {
	Name           string
	DistanceMeters float64
	Latitude       float64
	Longitude      float64
}

// Upsert adds or moves a member at the given coordinates
func (g *GeoIndex) Upsert(ctx context.Context, name string, lat, lng float64) error {
	return g.client.GeoAdd(ctx, g.key, &redis.GeoLocation{
		Name:      name,
		Latitude:  lat,
		Longitude: lng,
	}).Err()
}

// Remove drops a member from the index
func (g *GeoIndex) Remove(ctx context.Context, name string) error {
	return g.client.ZRem(ctx, g.key, name).Err()
}

// Search returns members within radiusMeters of the point, nearest first
func (g *GeoIndex) Search(ctx context.Context, lat, lng, radiusMeters float64, limit int) ([]Member, error) {
	locs, err := g.client.GeoSearchLocation(ctx, g.key, &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Latitude:   lat,
			Longitude:  lng,
			Radius:     radiusMeters,
			RadiusUnit: "m",
			Sort:       "ASC",
			Count:      limit,
		},
		WithCoord: true,
		WithDist:  true,
	}).Result()
	if err != nil {
		return nil, err
	}

	members := make([]Member, 0, len(locs))
	for _, loc := range locs {
		members = append(members, Member{
			Name:           loc.Name,
			DistanceMeters: loc.Dist,
			Latitude:       loc.Latitude,
			Longitude:      loc.Longitude,
		})
	}
	return members, nil
}
