package blacklist

import (
  "context"
  "fmt"
  "time"

  "github.com/redis/go-redis/v9"

  "github.com/stockyard-org/stockyard-backend/internal/logger"
)

const keyPrefix = "revoked_token:"

type RedisBlacklist struct {
  log    *logger.Logger
  client *redis.Client
}

func NewRedisBlacklist(log *logger.Logger, address, password string) (*RedisBlacklist, error) {
  opt := &redis.Options{
    Addr:     address,
    Password: password,
    DB:       0,
  }
  rdb := redis.NewClient(opt)

  ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
  defer cancel()
  if err := rdb.Ping(ctx).Err(); err != nil {
    return nil, fmt.Errorf("redis ping failed: %w", err)
  }
  return &RedisBlacklist{
    log:    log.With("component", "RedisBlacklist"),
    client: rdb,
  }, nil
}

func (rb *RedisBlacklist) Add(ctx context.Context, token string, ttl time.Duration) error {
  if token == "" {
    return nil
  }
  if err := rb.client.Set(ctx, keyPrefix+token, "1", ttl).Err(); err != nil {
    rb.log.Error("Failed to blacklist token", "error", err)
    return fmt.Errorf("failed to blacklist token: %w", err)
  }
  rb.log.Debug("Token blacklisted", "ttl", ttl)
  return nil
}

func (rb *RedisBlacklist) Contains(ctx context.Context, token string) (bool, error) {
  count, err := rb.client.Exists(ctx, keyPrefix+token).Result()
  if err != nil {
    rb.log.Error("Failed to check token blacklist", "error", err)
    return false, fmt.Errorf("failed to check token blacklist: %w", err)
  }
  return count > 0, nil
}

func (rb *RedisBlacklist) Close() error {
  return rb.client.Close()
}
