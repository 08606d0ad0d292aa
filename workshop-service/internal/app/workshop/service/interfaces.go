package service

import (
	"context"

	"odilusta/workshop-service/internal/app/workshop/entity"
	"odilusta/workshop-service/internal/app/workshop/session"
)

// WorkshopServiceInterface определяет операции оркестратора
// Каждая операция работает со состоянием конкретной сессии
type WorkshopServiceInterface interface {
	// Каталог
	Catalog() entity.CatalogResponse
	RefreshCatalog(ctx context.Context) error
	RemoveProduct(ctx context.Context, productID int64) error

	// Корзина
	AddToCart(sess *session.Session, productID int64) error
	SetQuantity(sess *session.Session, productID int64, quantity int)
	Cart(sess *session.Session) entity.CartResponse

	// Навигация
	GoTo(sess *session.Session, page entity.Page) error
	GoBack(sess *session.Session) entity.Page
	CurrentPage(sess *session.Session) entity.NavigationResponse

	// Черновики
	StartNewDraft(sess *session.Session)
	StartEditDraft(sess *session.Session, productID int64) error
	UpdateDraft(sess *session.Session, req entity.DraftRequest) error
	AttachImage(sess *session.Session, data []byte) error
	CancelDraft(sess *session.Session)
	Draft(sess *session.Session) (*entity.DraftView, error)
	SaveDraft(ctx context.Context, sess *session.Session) error

	// Заказы
	PlaceOrder(ctx context.Context, sess *session.Session) (*entity.Order, error)
	Orders(ctx context.Context, sess *session.Session) (entity.OrderListResponse, error)
}
