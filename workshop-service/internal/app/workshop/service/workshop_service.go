package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"odilusta/pkg/currency"
	"odilusta/pkg/logger"
	"odilusta/pkg/metrics"
	"odilusta/workshop-service/internal/app/workshop/entity"
	"odilusta/workshop-service/internal/app/workshop/infrastructure"
	"odilusta/workshop-service/internal/app/workshop/repository"
	"odilusta/workshop-service/internal/app/workshop/session"
	"odilusta/workshop-service/internal/app/workshop/state"
)

// Ошибки уровня сервиса
var (
	ErrProductNotFound = errors.New("product not found")
	ErrNoActiveDraft   = errors.New("no active draft")
	ErrEmptyImage      = errors.New("image data is empty")
	ErrEmptyCart       = errors.New("cart is empty")

	// Реэкспорт ошибок валидации для обработчиков
	ErrEmptyName   = state.ErrEmptyName
	ErrInvalidCost = state.ErrInvalidCost
	ErrUnknownPage = state.ErrUnknownPage
)

// WorkshopService - оркестратор: связывает каталог, сессии и архив заказов
// Отказы внешнего хранилища логируются и возвращаются как есть,
// состояние сервиса при этом не меняется
type WorkshopService struct {
	catalog   *state.CatalogState
	sessions  *session.Manager
	orderRepo repository.OrderRepository
	publisher infrastructure.MessagePublisher
}

func NewWorkshopService(
	catalog *state.CatalogState,
	sessions *session.Manager,
	orderRepo repository.OrderRepository,
	publisher infrastructure.MessagePublisher,
) *WorkshopService {
	s := &WorkshopService{
		catalog:   catalog,
		sessions:  sessions,
		orderRepo: orderRepo,
		publisher: publisher,
	}

	// Удаление товара из каталога чистит его во всех корзинах
	catalog.OnRemove(func(productID int64) {
		sessions.ForEach(func(sess *session.Session) {
			sess.Cart.RemoveProductReferences(productID)
		})
	})

	return s
}

// ===== Каталог =====

// Catalog возвращает снимок каталога с отформатированными ценами
func (s *WorkshopService) Catalog() entity.CatalogResponse {
	products := s.catalog.Products()

	views := make([]entity.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, productView(p))
	}

	return entity.CatalogResponse{Products: views, Total: len(views)}
}

// RefreshCatalog перечитывает каталог из хранилища
func (s *WorkshopService) RefreshCatalog(ctx context.Context) error {
	if err := s.catalog.Refresh(ctx); err != nil {
		logger.Error().Err(err).Msg("catalog refresh failed")
		return err
	}
	return nil
}

// RemoveProduct удаляет товар из хранилища и чистит ссылки во всех корзинах
func (s *WorkshopService) RemoveProduct(ctx context.Context, productID int64) error {
	if err := s.catalog.RemoveProduct(ctx, productID); err != nil {
		logger.Error().Err(err).Int64("product_id", productID).Msg("product removal failed")
		return err
	}

	logger.Info().Int64("product_id", productID).Msg("product removed from catalog")
	return nil
}

// ===== Корзина =====

// AddToCart добавляет товар каталога в корзину сессии
// Товар должен присутствовать в текущем снимке каталога
func (s *WorkshopService) AddToCart(sess *session.Session, productID int64) error {
	product, ok := s.catalog.Get(productID)
	if !ok {
		return ErrProductNotFound
	}

	sess.Cart.AddToCart(product)
	metrics.CartItemsAdded.Inc()
	return nil
}

// SetQuantity выставляет количество позиции корзины
func (s *WorkshopService) SetQuantity(sess *session.Session, productID int64, quantity int) {
	sess.Cart.SetQuantity(productID, quantity)
}

// Cart возвращает содержимое корзины с построчными и общей суммами
func (s *WorkshopService) Cart(sess *session.Session) entity.CartResponse {
	items := sess.Cart.Items()

	views := make([]entity.CartItemView, 0, len(items))
	for _, item := range items {
		lineTotal := item.Product.Cost.Mul(decimal.NewFromInt(int64(item.Quantity)))
		views = append(views, entity.CartItemView{
			Product:          productView(item.Product),
			Quantity:         item.Quantity,
			LineTotal:        lineTotal.String(),
			LineTotalDisplay: currency.Format(lineTotal),
		})
	}

	total := sess.Cart.Total()
	return entity.CartResponse{
		Items:        views,
		ItemCount:    sess.Cart.ItemCount(),
		Total:        total.String(),
		TotalDisplay: currency.Format(total),
	}
}

// ===== Навигация =====

func (s *WorkshopService) GoTo(sess *session.Session, page entity.Page) error {
	return sess.Nav.GoTo(page)
}

func (s *WorkshopService) GoBack(sess *session.Session) entity.Page {
	return sess.Nav.GoBack()
}

func (s *WorkshopService) CurrentPage(sess *session.Session) entity.NavigationResponse {
	return entity.NavigationResponse{
		Current: sess.Nav.Current(),
		Depth:   sess.Nav.Depth(),
	}
}

// ===== Черновики =====

// StartNewDraft открывает пустой черновик нового товара
// Активный черновик, если был, затирается
func (s *WorkshopService) StartNewDraft(sess *session.Session) {
	sess.SetDraft(&entity.NewDraft{})
}

// StartEditDraft открывает черновик правки: полную копию товара каталога
func (s *WorkshopService) StartEditDraft(sess *session.Session, productID int64) error {
	product, ok := s.catalog.Get(productID)
	if !ok {
		return ErrProductNotFound
	}

	sess.SetDraft(&entity.EditDraft{Product: product})
	return nil
}

// UpdateDraft переносит поля формы в активный черновик
func (s *WorkshopService) UpdateDraft(sess *session.Session, req entity.DraftRequest) error {
	switch draft := sess.Draft().(type) {
	case *entity.NewDraft:
		sess.SetDraft(&entity.NewDraft{Name: req.Name, Cost: req.Cost, Image: req.Image})
	case *entity.EditDraft:
		product := draft.Product
		product.Name = req.Name
		if amount, err := decimal.NewFromString(req.Cost); err == nil {
			product.Cost = amount
		}
		product.Image = req.Image
		sess.SetDraft(&entity.EditDraft{Product: product})
	default:
		return ErrNoActiveDraft
	}
	return nil
}

// AttachImage кодирует картинку в data URI и кладет в активный черновик
// MIME-тип определяется по содержимому файла
func (s *WorkshopService) AttachImage(sess *session.Session, data []byte) error {
	if len(data) == 0 {
		return ErrEmptyImage
	}

	mimeType := http.DetectContentType(data)
	dataURI := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))

	switch draft := sess.Draft().(type) {
	case *entity.NewDraft:
		updated := *draft
		updated.Image = dataURI
		sess.SetDraft(&updated)
	case *entity.EditDraft:
		updated := *draft
		updated.Product.Image = dataURI
		sess.SetDraft(&updated)
	default:
		return ErrNoActiveDraft
	}
	return nil
}

// CancelDraft сбрасывает активный черновик без сохранения
func (s *WorkshopService) CancelDraft(sess *session.Session) {
	sess.SetDraft(nil)
}

// Draft возвращает представление активного черновика
func (s *WorkshopService) Draft(sess *session.Session) (*entity.DraftView, error) {
	switch draft := sess.Draft().(type) {
	case *entity.NewDraft:
		return &entity.DraftView{
			Kind:  "new",
			Name:  draft.Name,
			Cost:  draft.Cost,
			Image: draft.Image,
		}, nil
	case *entity.EditDraft:
		return &entity.DraftView{
			Kind:      "edit",
			ProductID: draft.Product.ID,
			Name:      draft.Product.Name,
			Cost:      draft.Product.Cost.String(),
			Image:     draft.Product.Image,
		}, nil
	default:
		return nil, ErrNoActiveDraft
	}
}

// SaveDraft сохраняет активный черновик в хранилище
// Новый товар вставляется, правка полностью заменяет поля товара
// Черновик сбрасывается только после успешного сохранения
func (s *WorkshopService) SaveDraft(ctx context.Context, sess *session.Session) error {
	switch draft := sess.Draft().(type) {
	case *entity.NewDraft:
		product, err := s.catalog.AddProduct(ctx, *draft)
		if err != nil {
			s.logSaveFailure(err)
			return err
		}
		logger.Info().Int64("product_id", product.ID).Str("name", product.Name).Msg("product added to catalog")
	case *entity.EditDraft:
		p := draft.Product
		updated, err := s.catalog.UpdateProduct(ctx, p.ID, p.Name, p.Cost.String(), p.Image)
		if err != nil {
			s.logSaveFailure(err)
			return err
		}
		logger.Info().Int64("product_id", updated.ID).Msg("product updated")
	default:
		return ErrNoActiveDraft
	}

	sess.SetDraft(nil)
	return nil
}

func (s *WorkshopService) logSaveFailure(err error) {
	// Ошибки валидации черновика не логируем как отказы
	if errors.Is(err, state.ErrEmptyName) || errors.Is(err, state.ErrInvalidCost) {
		return
	}
	logger.Error().Err(err).Msg("draft save failed")
}

// ===== Заказы =====

// PlaceOrder оформляет заказ из корзины сессии
// Корзина очищается и навигация сбрасывается на корень только после
// успешного архивирования; отказ архива оставляет корзину нетронутой
func (s *WorkshopService) PlaceOrder(ctx context.Context, sess *session.Session) (*entity.Order, error) {
	items := sess.Cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	total := sess.Cart.Total()
	order := &entity.Order{
		SessionID:    sess.ID,
		Items:        make([]entity.OrderItem, 0, len(items)),
		Total:        total.String(),
		TotalDisplay: currency.Format(total),
		ItemCount:    sess.Cart.ItemCount(),
	}
	for _, item := range items {
		order.Items = append(order.Items, entity.OrderItem{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			UnitCost:  item.Product.Cost.String(),
			Quantity:  item.Quantity,
		})
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		logger.Error().Err(err).Str("session_id", sess.ID).Msg("order archive failed")
		return nil, err
	}

	s.publishOrderPlaced(ctx, order)

	sess.Cart.Clear()
	sess.Nav.Reset()

	metrics.OrdersPlaced.Inc()
	amount, _ := total.Float64()
	metrics.OrdersAmount.Add(amount)

	logger.Info().
		Str("order_id", order.ID.Hex()).
		Str("session_id", sess.ID).
		Str("total", order.Total).
		Int("item_count", order.ItemCount).
		Msg("order placed")

	return order, nil
}

// Orders возвращает заказы сессии, новые первыми
func (s *WorkshopService) Orders(ctx context.Context, sess *session.Session) (entity.OrderListResponse, error) {
	orders, err := s.orderRepo.GetBySessionID(ctx, sess.ID)
	if err != nil {
		return entity.OrderListResponse{}, err
	}
	if orders == nil {
		orders = []entity.Order{}
	}

	return entity.OrderListResponse{Orders: orders, Total: len(orders)}, nil
}

// publishOrderPlaced отправляет событие ORDER_PLACED
// Ошибка отправки логируется, но не прерывает оформление заказа
func (s *WorkshopService) publishOrderPlaced(ctx context.Context, order *entity.Order) {
	if s.publisher == nil {
		return
	}

	event := entity.OrderEvent{
		EventType: "ORDER_PLACED",
		OrderID:   order.ID.Hex(),
		SessionID: order.SessionID,
		Total:     order.Total,
		ItemCount: order.ItemCount,
		Timestamp: time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("failed to marshal order event")
		return
	}

	if err := s.publisher.PublishMessage(ctx, order.SessionID, payload); err != nil {
		// Логируем ошибку, но не прерываем оформление заказа
		logger.Error().Err(err).Str("order_id", order.ID.Hex()).Msg("failed to publish order event")
	}
}

// ===== Вспомогательные =====

func productView(p entity.Product) entity.ProductView {
	return entity.ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Cost:        p.Cost.String(),
		CostDisplay: currency.Format(p.Cost),
		Image:       p.Image,
	}
}
