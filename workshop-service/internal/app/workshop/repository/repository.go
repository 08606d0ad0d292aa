package repository

import (
	"context"

	"odilusta/workshop-service/internal/app/workshop/entity"
)

// OrderRepository определяет методы для работы с архивом заказов в MongoDB
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetBySessionID(ctx context.Context, sessionID string) ([]entity.Order, error)
	GetRecent(ctx context.Context, limit int64) ([]entity.Order, error)
}
