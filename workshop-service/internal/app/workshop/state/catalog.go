package state

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"odilusta/pkg/metrics"
	"odilusta/workshop-service/internal/app/workshop/entity"
	"odilusta/workshop-service/internal/app/workshop/store"
)

// Ошибки валидации черновиков каталога
var (
	ErrEmptyName   = errors.New("product name is required")
	ErrInvalidCost = errors.New("product cost must be a non-negative number")
)

// CatalogState - авторитетный список товаров в памяти сервиса
// Список меняется только полным обновлением из хранилища: любая мутация
// сначала уходит в хранилище, затем каталог перечитывается целиком
type CatalogState struct {
	mu       sync.RWMutex
	store    store.ProductStore
	products []entity.Product

	observerMu sync.Mutex
	onChange   []func(products []entity.Product)
	onRemove   []func(productID int64)
}

func NewCatalogState(st store.ProductStore) *CatalogState {
	return &CatalogState{store: st}
}

// Subscribe регистрирует обработчик смены снимка каталога
// Вызывается после каждого успешного обновления с новым снимком
func (c *CatalogState) Subscribe(fn func(products []entity.Product)) {
	c.observerMu.Lock()
	defer c.observerMu.Unlock()
	c.onChange = append(c.onChange, fn)
}

// OnRemove регистрирует обработчик удаления товара из каталога
// Вызывается после успешного удаления в хранилище и обновления списка
func (c *CatalogState) OnRemove(fn func(productID int64)) {
	c.observerMu.Lock()
	defer c.observerMu.Unlock()
	c.onRemove = append(c.onRemove, fn)
}

// Refresh полностью заменяет список товаров данными хранилища
// При отказе хранилища текущий список остается нетронутым
func (c *CatalogState) Refresh(ctx context.Context) error {
	products, err := c.store.List(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.products = products
	c.mu.Unlock()

	metrics.CatalogRefreshes.Inc()
	metrics.CatalogProducts.Set(float64(len(products)))

	c.observerMu.Lock()
	observers := make([]func([]entity.Product), len(c.onChange))
	copy(observers, c.onChange)
	c.observerMu.Unlock()

	for _, fn := range observers {
		snapshot := make([]entity.Product, len(products))
		copy(snapshot, products)
		fn(snapshot)
	}

	return nil
}

// Products возвращает копию текущего списка в порядке хранилища
func (c *CatalogState) Products() []entity.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]entity.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get возвращает товар каталога по идентификатору
func (c *CatalogState) Get(productID int64) (entity.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, p := range c.products {
		if p.ID == productID {
			return p, true
		}
	}
	return entity.Product{}, false
}

// Len возвращает число товаров в каталоге
func (c *CatalogState) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products)
}

// AddProduct валидирует черновик нового товара, вставляет его в хранилище
// и перечитывает каталог. Идентификатор назначает хранилище
func (c *CatalogState) AddProduct(ctx context.Context, draft entity.NewDraft) (*entity.Product, error) {
	fields, err := draftFields(draft.Name, draft.Cost, draft.Image)
	if err != nil {
		return nil, err
	}

	product, err := c.store.Insert(ctx, fields)
	if err != nil {
		return nil, err
	}

	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}

	return product, nil
}

// UpdateProduct полностью заменяет изменяемые поля товара и перечитывает каталог
func (c *CatalogState) UpdateProduct(ctx context.Context, id int64, name, cost, image string) (*entity.Product, error) {
	fields, err := draftFields(name, cost, image)
	if err != nil {
		return nil, err
	}

	product, err := c.store.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}

	return product, nil
}

// RemoveProduct удаляет товар из хранилища, перечитывает каталог
// и оповещает подписчиков, чтобы те убрали ссылки на товар
func (c *CatalogState) RemoveProduct(ctx context.Context, id int64) error {
	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}

	if err := c.Refresh(ctx); err != nil {
		return err
	}

	c.observerMu.Lock()
	observers := make([]func(int64), len(c.onRemove))
	copy(observers, c.onRemove)
	c.observerMu.Unlock()

	for _, fn := range observers {
		fn(id)
	}

	return nil
}

func draftFields(name, cost, image string) (store.ProductFields, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return store.ProductFields{}, ErrEmptyName
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(cost))
	if err != nil || amount.IsNegative() {
		return store.ProductFields{}, ErrInvalidCost
	}

	return store.ProductFields{Name: name, Cost: amount, Image: image}, nil
}
