// Package redis rate-limits driver location pings with one expiring key per driver.
package redis

import (
	"context"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "dispatch:ping:"

// PingLimiter admits at most one ping per driver within interval. The first
// ping sets a key with the interval as TTL; later pings fail SETNX until it expires.
type PingLimiter struct {
	client   redis.Cmdable
	interval time.Duration
}

var _ ports.PingLimiter = (*PingLimiter)(nil)

func NewPingLimiter(client redis.Cmdable, interval time.Duration) *PingLimiter {
	return &PingLimiter{client: client, interval: interval}
}

// NewClient connects to addr and verifies the connection.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func (l *PingLimiter) Allow(ctx context.Context, driverID kernel.UUID) (bool, error) {
	if l.interval <= 0 {
		return true, nil
	}
	ok, err := l.client.SetNX(ctx, keyPrefix+driverID.String(), time.Now().UTC().UnixMilli(), l.interval).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}
