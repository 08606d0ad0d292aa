package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"odilusta/workshop-service/internal/app/workshop/entity"
	"odilusta/workshop-service/internal/app/workshop/store"
	"odilusta/workshop-service/internal/app/workshop/store/mocks"
)

type CachedStoreSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	cache  *store.RedisClient
	inner  *mocks.MockProductStore
	cached *store.CachedStore
}

func (s *CachedStoreSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s.cache = store.NewRedisClientFromExisting(client, 5*time.Minute)
	s.inner = new(mocks.MockProductStore)
	s.cached = store.NewCachedStore(s.inner, s.cache)
}

func (s *CachedStoreSuite) TearDownTest() {
	s.cache.Close()
	s.mr.Close()
}

func (s *CachedStoreSuite) TestListCachesResult() {
	products := []entity.Product{
		{ID: 1, Name: "Eshik", Cost: decimal.NewFromInt(3200000)},
	}
	s.inner.On("List", mock.Anything).Return(products, nil).Once()

	first, err := s.cached.List(context.Background())
	s.Require().NoError(err)
	s.Len(first, 1)

	// Второй вызов обслуживается из кеша, хранилище не трогаем
	second, err := s.cached.List(context.Background())
	s.Require().NoError(err)
	s.Equal(first[0].ID, second[0].ID)
	s.Equal(first[0].Name, second[0].Name)

	s.inner.AssertNumberOfCalls(s.T(), "List", 1)
}

func (s *CachedStoreSuite) TestInsertInvalidatesCache() {
	products := []entity.Product{{ID: 1, Name: "Eshik", Cost: decimal.NewFromInt(3200000)}}
	s.inner.On("List", mock.Anything).Return(products, nil)

	_, err := s.cached.List(context.Background())
	s.Require().NoError(err)
	s.True(s.mr.Exists("store:products"))

	created := &entity.Product{ID: 2, Name: "Stul", Cost: decimal.NewFromInt(450000)}
	s.inner.On("Insert", mock.Anything, mock.Anything).Return(created, nil)

	_, err = s.cached.Insert(context.Background(), store.ProductFields{Name: "Stul", Cost: decimal.NewFromInt(450000)})
	s.Require().NoError(err)
	s.False(s.mr.Exists("store:products"))
}

func (s *CachedStoreSuite) TestDeleteInvalidatesCache() {
	products := []entity.Product{{ID: 1, Name: "Eshik", Cost: decimal.NewFromInt(3200000)}}
	s.inner.On("List", mock.Anything).Return(products, nil)
	s.inner.On("Delete", mock.Anything, int64(1)).Return(nil)

	_, err := s.cached.List(context.Background())
	s.Require().NoError(err)
	s.True(s.mr.Exists("store:products"))

	s.Require().NoError(s.cached.Delete(context.Background(), 1))
	s.False(s.mr.Exists("store:products"))
}

func (s *CachedStoreSuite) TestListPassesThroughStoreError() {
	storeErr := &store.StoreError{Op: "list", Err: assert.AnError}
	s.inner.On("List", mock.Anything).Return(nil, storeErr)

	_, err := s.cached.List(context.Background())
	s.Require().Error(err)
	s.True(store.IsStoreError(err))
	s.False(s.mr.Exists("store:products"))
}

func (s *CachedStoreSuite) TestCacheExpiryFallsBackToStore() {
	products := []entity.Product{{ID: 1, Name: "Eshik", Cost: decimal.NewFromInt(3200000)}}
	s.inner.On("List", mock.Anything).Return(products, nil)

	_, err := s.cached.List(context.Background())
	s.Require().NoError(err)

	s.mr.FastForward(10 * time.Minute)

	_, err = s.cached.List(context.Background())
	s.Require().NoError(err)
	s.inner.AssertNumberOfCalls(s.T(), "List", 2)
}

func TestCachedStoreSuite(t *testing.T) {
	suite.Run(t, new(CachedStoreSuite))
}
