package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"odilusta/pkg/logger"
	"odilusta/workshop-service/internal/app/workshop/entity"
	"odilusta/workshop-service/internal/app/workshop/store"
)

func init() {
	logger.Init("workshop-service-test", "error")
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientList_Success(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"products": []entity.Product{
				{ID: 1, Name: "Yozuv stoli", Cost: decimal.NewFromInt(1500000)},
				{ID: 2, Name: "Kitob javoni", Cost: decimal.NewFromInt(900000)},
			},
			"total": 2,
		})
	})

	client := store.NewClient(srv.URL, 5*time.Second)
	products, err := client.List(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, "Yozuv stoli", products[0].Name)
	assert.True(t, products[0].Cost.Equal(decimal.NewFromInt(1500000)))
}

func TestClientList_ServerError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "database unavailable"})
	})

	client := store.NewClient(srv.URL, 5*time.Second)
	products, err := client.List(context.Background())

	require.Error(t, err)
	assert.Nil(t, products)
	assert.True(t, store.IsStoreError(err))
	assert.Contains(t, err.Error(), "list")
	assert.Contains(t, err.Error(), "database unavailable")
}

func TestClientList_Unreachable(t *testing.T) {
	client := store.NewClient("http://127.0.0.1:1", time.Second)
	_, err := client.List(context.Background())

	require.Error(t, err)

	var se *store.StoreError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "list", se.Op)
}

func TestClientInsert_Success(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var fields store.ProductFields
		require.NoError(t, json.NewDecoder(r.Body).Decode(&fields))
		assert.Equal(t, "Oshxona stoli", fields.Name)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(entity.Product{ID: 42, Name: fields.Name, Cost: fields.Cost})
	})

	client := store.NewClient(srv.URL, 5*time.Second)
	product, err := client.Insert(context.Background(), store.ProductFields{
		Name: "Oshxona stoli",
		Cost: decimal.NewFromInt(2500000),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), product.ID)
}

func TestClientUpdate_NotFound(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "product not found"})
	})

	client := store.NewClient(srv.URL, 5*time.Second)
	_, err := client.Update(context.Background(), 99, store.ProductFields{Name: "Stul"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrProductNotFound))
	assert.True(t, store.IsStoreError(err))
}

func TestClientDelete_Success(t *testing.T) {
	var gotPath string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodDelete, r.Method)
		json.NewEncoder(w).Encode(map[string]string{"message": "product deleted"})
	})

	client := store.NewClient(srv.URL, 5*time.Second)
	err := client.Delete(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, "/products/7", gotPath)
}
