package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product представляет товар каталога, зеркало строки внешнего хранилища
// ID назначается хранилищем при вставке и является идентичностью товара
type Product struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Cost      decimal.Decimal `json:"cost"`
	Image     string          `json:"image"` // URL или data URI
	CreatedAt time.Time       `json:"created_at"`
}

// CartEntry представляет позицию корзины: снимок товара на момент добавления
// Инвариант: не более одной записи на product.ID, Quantity всегда >= 1
type CartEntry struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Page - идентификатор страницы для навигации
type Page string

const (
	PageHome       Page = "home"       // Корневая страница
	PageBrowse     Page = "browse"     // Выбор товаров
	PageSelections Page = "selections" // Просмотр выбранного (корзина)
	PageManage     Page = "manage"     // Управление товарами
)

// ValidPage проверяет что идентификатор входит в закрытый набор страниц
func ValidPage(p Page) bool {
	switch p {
	case PageHome, PageBrowse, PageSelections, PageManage:
		return true
	}
	return false
}

// Draft - несохраненное состояние редактирования товара
// Размеченный вариант: либо черновик нового товара, либо правка существующего
type Draft interface {
	isDraft()
}

// NewDraft - черновик нового товара; Cost хранится как введенная строка
// и парсится только при сохранении
type NewDraft struct {
	Name  string `json:"name"`
	Cost  string `json:"cost"`
	Image string `json:"image"`
}

func (*NewDraft) isDraft() {}

// EditDraft - черновик правки: полная изменяемая копия существующего товара
type EditDraft struct {
	Product Product `json:"product"`
}

func (*EditDraft) isDraft() {}

// Order - оформленный заказ, архивируется в MongoDB
// Денежные значения сериализуются строками: у decimal нет bson-представления
type Order struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SessionID    string             `json:"session_id" bson:"session_id"`
	Items        []OrderItem        `json:"items" bson:"items"`
	Total        string             `json:"total" bson:"total"`
	TotalDisplay string             `json:"total_display" bson:"total_display"`
	ItemCount    int                `json:"item_count" bson:"item_count"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}

// OrderItem - позиция заказа со снимком цены на момент оформления
type OrderItem struct {
	ProductID int64  `json:"product_id" bson:"product_id"`
	Name      string `json:"name" bson:"name"`
	UnitCost  string `json:"unit_cost" bson:"unit_cost"`
	Quantity  int    `json:"quantity" bson:"quantity"`
}

// OrderEvent представляет событие оформления заказа для Kafka
type OrderEvent struct {
	EventType string    `json:"event_type"` // ORDER_PLACED
	OrderID   string    `json:"order_id"`
	SessionID string    `json:"session_id"`
	Total     string    `json:"total"`
	ItemCount int       `json:"item_count"`
	Timestamp time.Time `json:"timestamp"`
}
