//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"odilusta/store-service/internal/app/store/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// BaseURL - адрес запущенного store-service
	// Для E2E тестов сервис должен быть запущен через docker-compose
	BaseURL = "http://localhost:8081"
)

// TestFullStoreFlow тестирует полный цикл работы хранилища:
// 1. Вставка товара (id назначается базой)
// 2. Список товаров (порядок по id asc)
// 3. Обновление товара
// 4. Удаление товара
// 5. Повторное удаление того же id (не ошибка)
func TestFullStoreFlow(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}

	// ==================== Step 1: Insert ====================
	t.Log("Step 1: Inserting product")

	name := fmt.Sprintf("Test stol %d", time.Now().UnixNano())
	createReq := entity.CreateProductRequest{
		Name:  name,
		Cost:  decimal.NewFromInt(150000),
		Image: "/img/test.png",
	}
	body, _ := json.Marshal(createReq)

	resp, err := client.Post(BaseURL+"/products", "application/json", bytes.NewBuffer(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode, "Insert should succeed")

	var created entity.Product
	err = json.NewDecoder(resp.Body).Decode(&created)
	require.NoError(t, err)
	assert.Equal(t, name, created.Name)
	assert.Greater(t, created.ID, int64(0), "Store must assign an id")

	productID := created.ID

	// ==================== Step 2: List ====================
	t.Log("Step 2: Listing products")

	resp, err = client.Get(BaseURL + "/products")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var list entity.ProductListResponse
	err = json.NewDecoder(resp.Body).Decode(&list)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, list.Total, 1)

	// Порядок по id по возрастанию
	for i := 1; i < len(list.Products); i++ {
		assert.Less(t, list.Products[i-1].ID, list.Products[i].ID, "List must be ordered by id ascending")
	}

	// ==================== Step 3: Update ====================
	t.Log("Step 3: Updating product")

	updateReq := entity.UpdateProductRequest{
		Name:  name + " yangilangan",
		Cost:  decimal.NewFromInt(175000),
		Image: "/img/test2.png",
	}
	body, _ = json.Marshal(updateReq)

	req, _ := http.NewRequest(http.MethodPut, fmt.Sprintf("%s/products/%d", BaseURL, productID), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var updated entity.Product
	err = json.NewDecoder(resp.Body).Decode(&updated)
	require.NoError(t, err)
	assert.Equal(t, name+" yangilangan", updated.Name)
	assert.True(t, updated.Cost.Equal(decimal.NewFromInt(175000)))

	// ==================== Step 4: Delete ====================
	t.Log("Step 4: Deleting product")

	req, _ = http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/products/%d", BaseURL, productID), nil)
	resp, err = client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// ==================== Step 5: Delete again ====================
	t.Log("Step 5: Deleting the same id again is not an error")

	req, _ = http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/products/%d", BaseURL, productID), nil)
	resp, err = client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
