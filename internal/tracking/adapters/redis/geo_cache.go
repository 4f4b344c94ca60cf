package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"visitor-analytics-service/internal/tracking/core/domain"
	"visitor-analytics-service/internal/tracking/core/ports"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const geoKeyPrefix = "geo:ip:"

// GeoCache wraps a GeoLocatorPort and memoizes successful lookups per IP.
// Redis errors never fail a lookup, they only bypass the cache.
type GeoCache struct {
	next   ports.GeoLocatorPort
	client redis.UniversalClient
	ttl    time.Duration
	log    logrus.FieldLogger
}

var _ ports.GeoLocatorPort = (*GeoCache)(nil)

func NewGeoCache(next ports.GeoLocatorPort, client redis.UniversalClient, ttl time.Duration, log logrus.FieldLogger) *GeoCache {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &GeoCache{next: next, client: client, ttl: ttl, log: log}
}

type cachedLocation struct {
	IP      string `json:"ip"`
	Country string `json:"country"`
	City    string `json:"city"`
}

func (c *GeoCache) Locate(ctx context.Context, ip string) (*domain.Location, error) {
	key := geoKeyPrefix + ip

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cl cachedLocation
		if jsonErr := json.Unmarshal(raw, &cl); jsonErr == nil {
			return &domain.Location{IP: cl.IP, Country: cl.Country, City: cl.City}, nil
		}
		c.log.WithField("key", key).Debug("discarding unreadable geo cache entry")
	case errors.Is(err, redis.Nil):
	default:
		c.log.WithError(err).Debug("geo cache read failed")
	}

	loc, err := c.next.Locate(ctx, ip)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(cachedLocation{IP: loc.IP, Country: loc.Country, City: loc.City})
	if err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.log.WithError(err).Debug("geo cache write failed")
		}
	}
	return loc, nil
}
