package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"odilusta/pkg/metrics"
	"odilusta/workshop-service/internal/app/workshop/entity"
)

const productListKey = "store:products"

// RedisClient - обертка над Redis для кеширования списка товаров
type RedisClient struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient создает клиент кеша и проверяет соединение
func NewRedisClient(addr, password string, db int, ttl time.Duration) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisClient{client: client, ttl: ttl}, nil
}

// NewRedisClientFromExisting оборачивает готовое соединение, используется в тестах
func NewRedisClientFromExisting(client *redis.Client, ttl time.Duration) *RedisClient {
	return &RedisClient{client: client, ttl: ttl}
}

// GetProducts возвращает закешированный список или (nil, false) при промахе
func (r *RedisClient) GetProducts(ctx context.Context) ([]entity.Product, bool) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpGet)
	defer timer.ObserveDuration()

	data, err := r.client.Get(ctx, productListKey).Bytes()
	if err == redis.Nil {
		metrics.RecordCacheMiss(serviceName, productListKey)
		return nil, false
	}
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return nil, false
	}

	var products []entity.Product
	if err := json.Unmarshal(data, &products); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return nil, false
	}

	metrics.RecordCacheHit(serviceName, productListKey)
	return products, true
}

// SetProducts кеширует список товаров с TTL
func (r *RedisClient) SetProducts(ctx context.Context, products []entity.Product) error {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSet)
	defer timer.ObserveDuration()

	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal products: %w", err)
	}

	if err := r.client.Set(ctx, productListKey, data, r.ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("set products cache: %w", err)
	}

	return nil
}

// InvalidateProducts сбрасывает кеш списка после мутации хранилища
func (r *RedisClient) InvalidateProducts(ctx context.Context) error {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpDel)
	defer timer.ObserveDuration()

	if err := r.client.Del(ctx, productListKey).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpDel)
		return fmt.Errorf("invalidate products cache: %w", err)
	}

	return nil
}

// Close закрывает соединение с Redis
func (r *RedisClient) Close() error {
	return r.client.Close()
}
