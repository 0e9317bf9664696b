package redis

import (
	"auction-settlement/internal/domain"
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStateCache keeps the last known status of each auction so watchers
// of a closed auction are refused without hitting MySQL.
type RedisStateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStateCache stores statuses for ttl; zero keeps them forever.
func NewRedisStateCache(client *redis.Client, ttl time.Duration) *RedisStateCache {
	return &RedisStateCache{client: client, ttl: ttl}
}

func stateKey(auctionID string) string {
	return "auction:" + auctionID + ":status"
}

func (r *RedisStateCache) SetAuctionStatus(ctx context.Context, auctionID string, status domain.AuctionStatus) error {
	return r.client.Set(ctx, stateKey(auctionID), status.String(), r.ttl).Err()
}

// GetAuctionStatus treats an unknown auction as open.
func (r *RedisStateCache) GetAuctionStatus(ctx context.Context, auctionID string) (domain.AuctionStatus, error) {
	result, err := r.client.Get(ctx, stateKey(auctionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.AuctionOpen, nil
		}
		return domain.AuctionOpen, err
	}

	return domain.ParseAuctionStatus(result)
}
