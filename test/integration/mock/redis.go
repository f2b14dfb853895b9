package mock

import (
	"context"
	"sync"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var (
	redisOnce   sync.Once
	redisClient *redis.Client
)

// NewRedis returns a shared client backed by an in-process miniredis
// instance. The gateway event cache is the only consumer, so a single
// server for the whole suite is enough.
func NewRedis() *redis.Client {
	redisOnce.Do(func() {
		server, err := miniredis.Run()
		if err != nil {
			panic(err)
		}
		redisClient = redis.NewClient(&redis.Options{Addr: server.Addr()})
	})
	return redisClient
}

// ClearRedis drops all keys so scenarios start without remembered
// gateway events.
func ClearRedis(client *redis.Client) error {
	return client.FlushAll(context.Background()).Err()
}
