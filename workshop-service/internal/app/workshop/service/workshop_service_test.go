package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"odilusta/pkg/logger"
	"odilusta/workshop-service/internal/app/workshop/entity"
	repomocks "odilusta/workshop-service/internal/app/workshop/repository/mocks"
	"odilusta/workshop-service/internal/app/workshop/service"
	"odilusta/workshop-service/internal/app/workshop/session"
	"odilusta/workshop-service/internal/app/workshop/state"
	"odilusta/workshop-service/internal/app/workshop/store"
	storemocks "odilusta/workshop-service/internal/app/workshop/store/mocks"
)

func init() {
	logger.Init("workshop-service-test", "error")
}

type fixture struct {
	store    *storemocks.MockProductStore
	orders   *repomocks.MockOrderRepository
	kafka    *repomocks.MockMessagePublisher
	sessions *session.Manager
	svc      *service.WorkshopService
}

func newFixture(t *testing.T, products ...entity.Product) *fixture {
	t.Helper()

	mockStore := new(storemocks.MockProductStore)
	catalog := state.NewCatalogState(mockStore)
	sessions := session.NewManager(0)
	orders := new(repomocks.MockOrderRepository)
	kafka := new(repomocks.MockMessagePublisher)

	svc := service.NewWorkshopService(catalog, sessions, orders, kafka)

	if len(products) > 0 {
		mockStore.On("List", mock.Anything).Return(products, nil).Once()
		require.NoError(t, svc.RefreshCatalog(context.Background()))
	}

	return &fixture{store: mockStore, orders: orders, kafka: kafka, sessions: sessions, svc: svc}
}

func stol() entity.Product {
	return entity.Product{ID: 1, Name: "Yozuv stoli", Cost: decimal.NewFromInt(1500000)}
}

func javon() entity.Product {
	return entity.Product{ID: 2, Name: "Kitob javoni", Cost: decimal.NewFromInt(900000)}
}

// ===== Каталог и корзина =====

func TestCatalogView_FormatsCosts(t *testing.T) {
	f := newFixture(t, stol())

	resp := f.svc.Catalog()
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "1500000", resp.Products[0].Cost)
	assert.Contains(t, resp.Products[0].CostDisplay, "so'm")
}

func TestAddToCart_UnknownProduct(t *testing.T) {
	f := newFixture(t, stol())
	sess := f.sessions.Create()

	err := f.svc.AddToCart(sess, 99)
	assert.ErrorIs(t, err, service.ErrProductNotFound)
	assert.Equal(t, 0, sess.Cart.Len())
}

func TestCartView_Totals(t *testing.T) {
	f := newFixture(t, stol(), javon())
	sess := f.sessions.Create()

	require.NoError(t, f.svc.AddToCart(sess, 1))
	require.NoError(t, f.svc.AddToCart(sess, 1))
	require.NoError(t, f.svc.AddToCart(sess, 2))

	resp := f.svc.Cart(sess)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, 3, resp.ItemCount)
	assert.Equal(t, "3000000", resp.Items[0].LineTotal)
	assert.Equal(t, "3900000", resp.Total)
	assert.Contains(t, resp.TotalDisplay, "so'm")
}

func TestRemoveProduct_PurgesAllCarts(t *testing.T) {
	f := newFixture(t, stol(), javon())
	a := f.sessions.Create()
	b := f.sessions.Create()

	require.NoError(t, f.svc.AddToCart(a, 1))
	require.NoError(t, f.svc.AddToCart(a, 2))
	require.NoError(t, f.svc.AddToCart(b, 1))

	f.store.On("Delete", mock.Anything, int64(1)).Return(nil).Once()
	f.store.On("List", mock.Anything).Return([]entity.Product{javon()}, nil).Once()

	require.NoError(t, f.svc.RemoveProduct(context.Background(), 1))

	assert.Equal(t, 1, a.Cart.Len())
	assert.Equal(t, int64(2), a.Cart.Items()[0].Product.ID)
	assert.Equal(t, 0, b.Cart.Len())
}

func TestRemoveProduct_StoreFailureLeavesCartsIntact(t *testing.T) {
	f := newFixture(t, stol())
	sess := f.sessions.Create()
	require.NoError(t, f.svc.AddToCart(sess, 1))

	storeErr := &store.StoreError{Op: "delete", Err: errors.New("connection refused")}
	f.store.On("Delete", mock.Anything, int64(1)).Return(storeErr).Once()

	err := f.svc.RemoveProduct(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, store.IsStoreError(err))
	assert.Equal(t, 1, sess.Cart.Len())
}

// ===== Черновики =====

func TestSaveDraft_NewProduct(t *testing.T) {
	f := newFixture(t, stol())
	sess := f.sessions.Create()

	f.svc.StartNewDraft(sess)
	require.NoError(t, f.svc.UpdateDraft(sess, entity.DraftRequest{Name: "Tokcha", Cost: "350000"}))

	created := entity.Product{ID: 3, Name: "Tokcha", Cost: decimal.NewFromInt(350000)}
	f.store.On("Insert", mock.Anything, mock.MatchedBy(func(fields store.ProductFields) bool {
		return fields.Name == "Tokcha"
	})).Return(&created, nil).Once()
	f.store.On("List", mock.Anything).Return([]entity.Product{stol(), created}, nil).Once()

	require.NoError(t, f.svc.SaveDraft(context.Background(), sess))

	assert.Nil(t, sess.Draft())
	assert.Equal(t, 2, f.svc.Catalog().Total)
}

func TestSaveDraft_InvalidDraftKeepsDraft(t *testing.T) {
	f := newFixture(t, stol())
	sess := f.sessions.Create()

	f.svc.StartNewDraft(sess)
	require.NoError(t, f.svc.UpdateDraft(sess, entity.DraftRequest{Name: "", Cost: "100"}))

	err := f.svc.SaveDraft(context.Background(), sess)
	assert.ErrorIs(t, err, service.ErrEmptyName)
	assert.NotNil(t, sess.Draft())
	f.store.AssertNotCalled(t, "Insert")
}

func TestSaveDraft_EditProduct(t *testing.T) {
	f := newFixture(t, stol())
	sess := f.sessions.Create()

	require.NoError(t, f.svc.StartEditDraft(sess, 1))
	require.NoError(t, f.svc.UpdateDraft(sess, entity.DraftRequest{Name: "Yozuv stoli XL", Cost: "1800000"}))

	updated := entity.Product{ID: 1, Name: "Yozuv stoli XL", Cost: decimal.NewFromInt(1800000)}
	f.store.On("Update", mock.Anything, int64(1), mock.MatchedBy(func(fields store.ProductFields) bool {
		return fields.Name == "Yozuv stoli XL" && fields.Cost.Equal(decimal.NewFromInt(1800000))
	})).Return(&updated, nil).Once()
	f.store.On("List", mock.Anything).Return([]entity.Product{updated}, nil).Once()

	require.NoError(t, f.svc.SaveDraft(context.Background(), sess))
	assert.Nil(t, sess.Draft())

	view := f.svc.Catalog()
	assert.Equal(t, "Yozuv stoli XL", view.Products[0].Name)
}

func TestStartEditDraft_UnknownProduct(t *testing.T) {
	f := newFixture(t, stol())
	sess := f.sessions.Create()

	err := f.svc.StartEditDraft(sess, 42)
	assert.ErrorIs(t, err, service.ErrProductNotFound)
	assert.Nil(t, sess.Draft())
}

func TestSaveDraft_NoActiveDraft(t *testing.T) {
	f := newFixture(t, stol())
	sess := f.sessions.Create()

	err := f.svc.SaveDraft(context.Background(), sess)
	assert.ErrorIs(t, err, service.ErrNoActiveDraft)
}

func TestAttachImage_DataURI(t *testing.T) {
	f := newFixture(t, stol())
	sess := f.sessions.Create()

	f.svc.StartNewDraft(sess)

	// PNG-сигнатура, чтобы DetectContentType вернул image/png
	pngHeader := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}
	require.NoError(t, f.svc.AttachImage(sess, pngHeader))

	view, err := f.svc.Draft(sess)
	require.NoError(t, err)
	assert.Contains(t, view.Image, "data:image/png;base64,")
}

func TestAttachImage_Errors(t *testing.T) {
	f := newFixture(t, stol())
	sess := f.sessions.Create()

	err := f.svc.AttachImage(sess, []byte{1, 2, 3})
	assert.ErrorIs(t, err, service.ErrNoActiveDraft)

	f.svc.StartNewDraft(sess)
	err = f.svc.AttachImage(sess, nil)
	assert.ErrorIs(t, err, service.ErrEmptyImage)
}

func TestCancelDraft(t *testing.T) {
	f := newFixture(t, stol())
	sess := f.sessions.Create()

	f.svc.StartNewDraft(sess)
	require.NoError(t, f.svc.UpdateDraft(sess, entity.DraftRequest{Name: "Tokcha", Cost: "350000"}))

	f.svc.CancelDraft(sess)
	assert.Nil(t, sess.Draft())
	f.store.AssertNotCalled(t, "Insert")
}

// ===== Заказы =====

func TestPlaceOrder_Success(t *testing.T) {
	f := newFixture(t, stol(), javon())
	sess := f.sessions.Create()

	require.NoError(t, f.svc.AddToCart(sess, 1))
	require.NoError(t, f.svc.AddToCart(sess, 1))
	require.NoError(t, f.svc.AddToCart(sess, 2))
	require.NoError(t, sess.Nav.GoTo(entity.PageSelections))

	f.orders.On("Create", mock.Anything, mock.MatchedBy(func(o *entity.Order) bool {
		return o.SessionID == sess.ID && len(o.Items) == 2 && o.Total == "3900000"
	})).Return(nil).Once()
	f.kafka.On("PublishMessage", mock.Anything, sess.ID, mock.Anything).Return(nil).Once()

	order, err := f.svc.PlaceOrder(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, 3, order.ItemCount)
	assert.Contains(t, order.TotalDisplay, "so'm")

	// Корзина очищена, навигация на корне
	assert.Equal(t, 0, sess.Cart.Len())
	assert.Equal(t, entity.PageHome, sess.Nav.Current())

	f.orders.AssertExpectations(t)
	f.kafka.AssertExpectations(t)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	f := newFixture(t, stol())
	sess := f.sessions.Create()

	_, err := f.svc.PlaceOrder(context.Background(), sess)
	assert.ErrorIs(t, err, service.ErrEmptyCart)
	f.orders.AssertNotCalled(t, "Create")
}

func TestPlaceOrder_ArchiveFailureKeepsCart(t *testing.T) {
	f := newFixture(t, stol())
	sess := f.sessions.Create()
	require.NoError(t, f.svc.AddToCart(sess, 1))

	f.orders.On("Create", mock.Anything, mock.Anything).Return(errors.New("mongo down")).Once()

	_, err := f.svc.PlaceOrder(context.Background(), sess)
	require.Error(t, err)

	assert.Equal(t, 1, sess.Cart.Len())
	f.kafka.AssertNotCalled(t, "PublishMessage")
}

func TestPlaceOrder_KafkaFailureIsNonFatal(t *testing.T) {
	f := newFixture(t, stol())
	sess := f.sessions.Create()
	require.NoError(t, f.svc.AddToCart(sess, 1))

	f.orders.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	f.kafka.On("PublishMessage", mock.Anything, sess.ID, mock.Anything).Return(errors.New("broker down")).Once()

	order, err := f.svc.PlaceOrder(context.Background(), sess)
	require.NoError(t, err)
	assert.NotNil(t, order)
	assert.Equal(t, 0, sess.Cart.Len())
}

func TestOrders_BySession(t *testing.T) {
	f := newFixture(t, stol())
	sess := f.sessions.Create()

	stored := []entity.Order{{SessionID: sess.ID, Total: "1500000", ItemCount: 1}}
	f.orders.On("GetBySessionID", mock.Anything, sess.ID).Return(stored, nil).Once()

	resp, err := f.svc.Orders(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
}

// ===== Граница восстановления =====

func TestRefreshCatalog_StoreFailure(t *testing.T) {
	f := newFixture(t, stol())

	storeErr := &store.StoreError{Op: "list", Err: errors.New("timeout")}
	f.store.On("List", mock.Anything).Return(nil, storeErr).Once()

	err := f.svc.RefreshCatalog(context.Background())
	require.Error(t, err)
	assert.True(t, store.IsStoreError(err))

	// Прежний каталог доступен
	assert.Equal(t, 1, f.svc.Catalog().Total)
}
