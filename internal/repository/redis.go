package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fixly/internal/config"
	"fixly/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisViewRepository keeps per-session view state in Redis so a session
// survives client restarts and multiple frontends.
type RedisViewRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisViewRepository(client *redis.Client, ttl time.Duration) *RedisViewRepository {
	return &RedisViewRepository{
		client: client,
		ttl:    ttl,
	}
}

func viewKey(key string) string {
	return fmt.Sprintf("view_state:%s", key)
}

func (r *RedisViewRepository) GetView(ctx context.Context, key string) (*models.ViewState, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, viewKey(key)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get view state from redis: %w", err)
	}

	var state models.ViewState
	if err := json.Unmarshal([]byte(val), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal view state: %w", err)
	}

	return &state, nil
}

func (r *RedisViewRepository) SetView(ctx context.Context, state *models.ViewState) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal view state: %w", err)
	}

	if err := r.client.Set(ctx, viewKey(state.SessionKey), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set view state in redis: %w", err)
	}

	return nil
}

func (r *RedisViewRepository) ClearView(ctx context.Context, key string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, viewKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete view state from redis: %w", err)
	}
	return nil
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
