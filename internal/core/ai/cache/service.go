package cache

import (
	"context"
	"fmt"

	"cocktail-catalog/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
)

// Service is the Redis-backed cache tier.
type Service struct {
	client *redis.Client
	config *config.CacheConfig
}

// NewService creates a Redis cache service and verifies the connection.
func NewService(cfg *config.CacheConfig) (*Service, error) {
	if !cfg.Enabled {
		return &Service{config: cfg}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Service{
		client: client,
		config: cfg,
	}, nil
}

// Get fetches a cached value by key.
func (s *Service) Get(ctx context.Context, key string) (string, error) {
	if !s.config.Enabled || s.client == nil {
		return "", fmt.Errorf("cache is disabled")
	}

	data, err := s.client.Get(ctx, "ai:response:"+key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", fmt.Errorf("cache miss")
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}

	return data, nil
}

// Set stores a value under key with the configured TTL.
func (s *Service) Set(ctx context.Context, key, value string) error {
	if !s.config.Enabled || s.client == nil {
		return nil
	}

	if err := s.client.Set(ctx, "ai:response:"+key, value, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

// Close closes the Redis connection.
func (s *Service) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
