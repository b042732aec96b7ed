package config

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient backs the supplier price cache. Nil when Redis is not
// configured or not reachable.
var RedisClient *redis.Client

// InitRedis connects when REDIS_ADDR is set. The client is kept only if the
// server answers a ping; the returned error explains why it was dropped.
func InitRedis() error {
	RedisClient = nil
	addr := GetEnv("REDIS_ADDR", "")
	if addr == "" {
		return nil
	}
	db, err := strconv.Atoi(GetEnv("REDIS_DB", "0"))
	if err != nil {
		return fmt.Errorf("REDIS_DB: %w", err)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: GetEnv("REDIS_PASS", ""),
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("redis %s: %w", addr, err)
	}
	RedisClient = client
	return nil
}
