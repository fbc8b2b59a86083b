package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/example/storefront/pkg/config"
	"github.com/example/storefront/pkg/models"
)

// ErrSessionNotFound marks an expired or unknown session token.
var ErrSessionNotFound = errors.New("session not found")

type RedisRepository struct {
	client *redis.Client
	config *config.RedisConfig
}

func NewRedisRepository(cfg *config.RedisConfig) *RedisRepository {
	return &RedisRepository{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
		config: cfg,
	}
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

// CreateSession issues a fresh token for the user with the given TTL.
func (r *RedisRepository) CreateSession(ctx context.Context, userID uint, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	key := sessionKey(token)
	if err := r.client.Set(ctx, key, strconv.FormatUint(uint64(userID), 10), ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// ResolveSession maps a session token back to a user id.
func (r *RedisRepository) ResolveSession(ctx context.Context, token string) (uint, error) {
	val, err := r.client.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrSessionNotFound
		}
		return 0, err
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, ErrSessionNotFound
	}
	return uint(id), nil
}

func (r *RedisRepository) DeleteSession(ctx context.Context, token string) error {
	return r.client.Del(ctx, sessionKey(token)).Err()
}

func sessionKey(token string) string {
	return "session:" + token
}

// CacheProduct stores a product detail payload under its slug.
func (r *RedisRepository) CacheProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, productKey(product.Slug), data, ttl).Err()
}

// GetProductCache returns the cached product for a slug, or nil on miss.
func (r *RedisRepository) GetProductCache(ctx context.Context, slug string) (*models.Product, error) {
	data, err := r.client.Get(ctx, productKey(slug)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var product models.Product
	if err := json.Unmarshal([]byte(data), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// InvalidateProduct drops the cached detail after a staff product write.
func (r *RedisRepository) InvalidateProduct(ctx context.Context, slug string) error {
	return r.client.Del(ctx, productKey(slug)).Err()
}

func productKey(slug string) string {
	return fmt.Sprintf("product:%s", slug)
}
