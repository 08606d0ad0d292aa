package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"odilusta/pkg/metrics"
	"odilusta/workshop-service/internal/app/workshop/entity"
)

const serviceName = "workshop-service"

// Client - HTTP-клиент внешнего хранилища товаров (store-service)
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создает клиент хранилища с таймаутом на каждый запрос
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type listResponse struct {
	Products []entity.Product `json:"products"`
	Total    int              `json:"total"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// List возвращает все товары хранилища в стабильном порядке
func (c *Client) List(ctx context.Context) ([]entity.Product, error) {
	timer := metrics.NewStoreTimer(serviceName, metrics.StoreOpList)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products", nil)
	if err != nil {
		timer.Error()
		return nil, &StoreError{Op: "list", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		timer.Error()
		return nil, &StoreError{Op: "list", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		timer.Error()
		return nil, &StoreError{Op: "list", Err: unexpectedStatus(resp)}
	}

	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		timer.Error()
		return nil, &StoreError{Op: "list", Err: fmt.Errorf("decode response: %w", err)}
	}

	timer.Success()
	return body.Products, nil
}

// Insert создает товар; идентификатор назначает хранилище
func (c *Client) Insert(ctx context.Context, fields ProductFields) (*entity.Product, error) {
	timer := metrics.NewStoreTimer(serviceName, metrics.StoreOpInsert)

	product, err := c.sendProduct(ctx, http.MethodPost, c.baseURL+"/products", fields, http.StatusCreated)
	if err != nil {
		timer.Error()
		return nil, &StoreError{Op: "insert", Err: err}
	}

	timer.Success()
	return product, nil
}

// Update полностью заменяет изменяемые поля товара по идентификатору
func (c *Client) Update(ctx context.Context, id int64, fields ProductFields) (*entity.Product, error) {
	timer := metrics.NewStoreTimer(serviceName, metrics.StoreOpUpdate)

	url := c.baseURL + "/products/" + strconv.FormatInt(id, 10)
	product, err := c.sendProduct(ctx, http.MethodPut, url, fields, http.StatusOK)
	if err != nil {
		timer.Error()
		return nil, &StoreError{Op: "update", Err: err}
	}

	timer.Success()
	return product, nil
}

// Delete удаляет товар; отсутствие идентификатора ошибкой не считается
func (c *Client) Delete(ctx context.Context, id int64) error {
	timer := metrics.NewStoreTimer(serviceName, metrics.StoreOpDelete)

	url := c.baseURL + "/products/" + strconv.FormatInt(id, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		timer.Error()
		return &StoreError{Op: "delete", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		timer.Error()
		return &StoreError{Op: "delete", Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		timer.Error()
		return &StoreError{Op: "delete", Err: unexpectedStatus(resp)}
	}

	timer.Success()
	return nil
}

func (c *Client) sendProduct(ctx context.Context, method, url string, fields ProductFields, wantStatus int) (*entity.Product, error) {
	payload, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return nil, ErrProductNotFound
	}
	if resp.StatusCode != wantStatus {
		return nil, unexpectedStatus(resp)
	}

	var product entity.Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &product, nil
}

func unexpectedStatus(resp *http.Response) error {
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body.Error)
	}
	return fmt.Errorf("unexpected status %d", resp.StatusCode)
}
