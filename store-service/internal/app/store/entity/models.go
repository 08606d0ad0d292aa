package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product представляет товар мастерской в таблице products
// ID назначается базой данных при вставке (BIGSERIAL)
type Product struct {
	ID        int64           `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string          `json:"name" gorm:"type:varchar(200);not null"`
	Cost      decimal.Decimal `json:"cost" gorm:"type:numeric(14,2);not null"` // Цена в so'm
	Image     string          `json:"image" gorm:"type:text"`                  // URL или data URI
	CreatedAt time.Time       `json:"created_at" gorm:"autoCreateTime"`
}

// TableName указывает имя таблицы для GORM
func (Product) TableName() string {
	return "products"
}

// ProductEvent представляет событие изменения товара для Kafka
type ProductEvent struct {
	EventType string          `json:"event_type"` // PRODUCT_CREATED, PRODUCT_UPDATED, PRODUCT_DELETED
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Cost      decimal.Decimal `json:"cost"`
	Timestamp time.Time       `json:"timestamp"`
}
