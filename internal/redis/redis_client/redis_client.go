package redis_client

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient dials addr and verifies the connection before handing it
// out. The relay only publishes and holds one subscription, so the default
// pool is plenty.
func NewRedisClient(addr string) (*redis.Client, error) {
	rc := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancelFunc := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelFunc()
	if _, err := rc.Ping(ctx).Result(); err != nil {
		err = errors.New("Redis connection failed: " + err.Error())
		zap.L().Error("redis_connect", zap.Error(err))
		return nil, err
	}
	return rc, nil
}
