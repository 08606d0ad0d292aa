package store

import (
	"context"

	"odilusta/pkg/logger"
	"odilusta/workshop-service/internal/app/workshop/entity"
)

// CachedStore - декоратор ProductStore с кешем списка в Redis
// Мутации проходят насквозь и инвалидируют кеш, чтение идет cache-aside
type CachedStore struct {
	inner ProductStore
	cache *RedisClient
}

func NewCachedStore(inner ProductStore, cache *RedisClient) *CachedStore {
	return &CachedStore{inner: inner, cache: cache}
}

func (s *CachedStore) List(ctx context.Context) ([]entity.Product, error) {
	if products, ok := s.cache.GetProducts(ctx); ok {
		return products, nil
	}

	products, err := s.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	// Ошибка кеширования не прерывает запрос
	if err := s.cache.SetProducts(ctx, products); err != nil {
		logger.Warn().Err(err).Msg("failed to cache product list")
	}

	return products, nil
}

func (s *CachedStore) Insert(ctx context.Context, fields ProductFields) (*entity.Product, error) {
	product, err := s.inner.Insert(ctx, fields)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return product, nil
}

func (s *CachedStore) Update(ctx context.Context, id int64, fields ProductFields) (*entity.Product, error) {
	product, err := s.inner.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return product, nil
}

func (s *CachedStore) Delete(ctx context.Context, id int64) error {
	if err := s.inner.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CachedStore) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateProducts(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to invalidate product cache")
	}
}
