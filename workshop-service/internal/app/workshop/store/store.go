package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"odilusta/workshop-service/internal/app/workshop/entity"
)

// Ошибки слоя внешнего хранилища
var (
	ErrProductNotFound = errors.New("product not found in store")
)

// ProductFields - поля товара, передаваемые хранилищу при вставке и обновлении
type ProductFields struct {
	Name  string          `json:"name"`
	Cost  decimal.Decimal `json:"cost"`
	Image string          `json:"image"`
}

// ProductStore определяет контракт внешнего хранилища товаров
// Единственный источник истины: каталог обновляется только через List
type ProductStore interface {
	List(ctx context.Context) ([]entity.Product, error)
	Insert(ctx context.Context, fields ProductFields) (*entity.Product, error)
	Update(ctx context.Context, id int64, fields ProductFields) (*entity.Product, error)
	Delete(ctx context.Context, id int64) error
}

// StoreError оборачивает любую ошибку хранилища с названием операции
// Граница восстановления: вызывающий код различает отказ хранилища
// от ошибок собственной логики по типу
type StoreError struct {
	Op  string // list | insert | update | delete
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("product store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsStoreError сообщает, вызвана ли ошибка отказом внешнего хранилища
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
