package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dharmasatrya/flightbooking/internal/models"
)

const keyPrefix = "search:"

type Cache interface {
	Get(ctx context.Context, req models.SearchRequest) ([]models.FlightOffer, bool)
	Set(ctx context.Context, req models.SearchRequest, offers []models.FlightOffer) error
}

type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisCacheWithClient caches on a connection owned by the caller.
func NewRedisCacheWithClient(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, req models.SearchRequest) ([]models.FlightOffer, bool) {
	key := generateKey(req)

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var offers []models.FlightOffer
	if err := json.Unmarshal(data, &offers); err != nil {
		return nil, false
	}

	return offers, true
}

func (c *RedisCache) Set(ctx context.Context, req models.SearchRequest, offers []models.FlightOffer) error {
	key := generateKey(req)

	data, err := json.Marshal(offers)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, c.ttl).Err()
}

type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(ctx context.Context, req models.SearchRequest) ([]models.FlightOffer, bool) {
	return nil, false
}

func (c *NoOpCache) Set(ctx context.Context, req models.SearchRequest, offers []models.FlightOffer) error {
	return nil
}

// generateKey hashes the fields that change the API answer. Callers pass a
// request that has already been through Validate, so equivalent searches
// share a key.
func generateKey(req models.SearchRequest) string {
	keyData := struct {
		TripType         models.TripType
		Origin           string
		Destination      string
		DepartureDate    string
		ReturnDate       string
		Legs             []models.Leg
		Passengers       models.PassengerCounts
		TravelClass      string
		DirectOnly       bool
		FlexibleDates    bool
		PreferredAirline string
	}{
		TripType:         req.TripType,
		Origin:           req.Origin,
		Destination:      req.Destination,
		DepartureDate:    req.DepartureDate,
		ReturnDate:       req.ReturnDate,
		Legs:             req.Legs,
		Passengers:       req.Passengers,
		TravelClass:      req.TravelClass,
		DirectOnly:       req.DirectOnly,
		FlexibleDates:    req.FlexibleDates,
		PreferredAirline: req.PreferredAirline,
	}

	data, _ := json.Marshal(keyData)
	hash := sha256.Sum256(data)
	return keyPrefix + hex.EncodeToString(hash[:])
}
