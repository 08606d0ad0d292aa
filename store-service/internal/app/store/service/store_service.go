package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"odilusta/pkg/logger"
	"odilusta/pkg/metrics"
	"odilusta/store-service/internal/app/store/entity"
	"odilusta/store-service/internal/app/store/repository"
	"odilusta/store-service/internal/app/store/util"

	"github.com/shopspring/decimal"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrProductNotFound = errors.New("product not found")
	ErrNegativeCost    = errors.New("product cost must not be negative")
)

// StoreService обрабатывает бизнес-логику хранилища товаров
// Координирует работу репозитория и Kafka producer
type StoreService struct {
	productRepo   repository.ProductRepository
	kafkaProducer util.MessagePublisher
}

// NewStoreService создает новый сервис хранилища с внедрением зависимостей
func NewStoreService(productRepo repository.ProductRepository, kafkaProducer util.MessagePublisher) *StoreService {
	return &StoreService{
		productRepo:   productRepo,
		kafkaProducer: kafkaProducer,
	}
}

// ListProducts возвращает все товары, упорядоченные по id по возрастанию
func (s *StoreService) ListProducts(ctx context.Context) ([]entity.Product, error) {
	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

// CreateProduct вставляет новый товар; id назначается базой
func (s *StoreService) CreateProduct(ctx context.Context, req *entity.CreateProductRequest) (*entity.Product, error) {
	if req.Cost.IsNegative() {
		return nil, ErrNegativeCost
	}

	product := &entity.Product{
		Name:      req.Name,
		Cost:      req.Cost,
		Image:     req.Image,
		CreatedAt: time.Now(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	metrics.ProductsMutated.WithLabelValues("create").Inc()
	s.publishProductEvent(ctx, "PRODUCT_CREATED", product.ID, product.Name, product.Cost)

	return product, nil
}

// UpdateProduct обновляет name, cost и image существующего товара
// Возвращает обновленную строку; ErrProductNotFound если id отсутствует
func (s *StoreService) UpdateProduct(ctx context.Context, id int64, req *entity.UpdateProductRequest) (*entity.Product, error) {
	if req.Cost.IsNegative() {
		return nil, ErrNegativeCost
	}

	product := &entity.Product{
		ID:    id,
		Name:  req.Name,
		Cost:  req.Cost,
		Image: req.Image,
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	// Перечитываем строку чтобы вернуть актуальные created_at и значения после записи
	updated, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to reload product: %w", err)
	}

	metrics.ProductsMutated.WithLabelValues("update").Inc()
	s.publishProductEvent(ctx, "PRODUCT_UPDATED", updated.ID, updated.Name, updated.Cost)

	return updated, nil
}

// DeleteProduct удаляет товар по id
// Удаление несуществующего id завершается успешно по контракту хранилища
func (s *StoreService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	metrics.ProductsMutated.WithLabelValues("delete").Inc()
	s.publishProductEvent(ctx, "PRODUCT_DELETED", id, "", decimal.Zero)

	return nil
}

// publishProductEvent отправляет событие о товаре в Kafka
// Ошибки Kafka не прерывают основную операцию - мутация уже применена
func (s *StoreService) publishProductEvent(ctx context.Context, eventType string, id int64, name string, cost decimal.Decimal) {
	event := entity.ProductEvent{
		EventType: eventType,
		ProductID: id,
		Name:      name,
		Cost:      cost,
		Timestamp: time.Now(),
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal product event")
		return
	}

	if err := s.kafkaProducer.PublishMessage(ctx, strconv.FormatInt(id, 10), eventData); err != nil {
		logger.Error().Err(err).Str("event_type", eventType).Int64("product_id", id).
			Msg("failed to publish product event")
	}
}
