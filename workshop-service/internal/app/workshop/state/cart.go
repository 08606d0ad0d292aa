package state

import (
	"sync"

	"github.com/shopspring/decimal"

	"odilusta/workshop-service/internal/app/workshop/entity"
)

// CartState - корзина одной сессии
// Инварианты: не более одной записи на товар, количество каждой записи >= 1,
// запись хранит снимок товара на момент первого добавления
type CartState struct {
	mu      sync.RWMutex
	entries map[int64]*entity.CartEntry
	order   []int64 // порядок первого добавления
}

func NewCartState() *CartState {
	return &CartState{
		entries: make(map[int64]*entity.CartEntry),
	}
}

// AddToCart добавляет товар: новая запись с количеством 1
// либо инкремент количества существующей записи
func (c *CartState) AddToCart(product entity.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[product.ID]; ok {
		entry.Quantity++
		return
	}

	c.entries[product.ID] = &entity.CartEntry{Product: product, Quantity: 1}
	c.order = append(c.order, product.ID)
}

// SetQuantity выставляет точное количество записи
// Значение <= 0 удаляет запись; отсутствующий товар записей не создает
func (c *CartState) SetQuantity(productID int64, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[productID]
	if !ok {
		return
	}

	if quantity <= 0 {
		c.remove(productID)
		return
	}

	entry.Quantity = quantity
}

// RemoveProductReferences убирает запись товара, если она есть
// Вызывается при удалении товара из каталога
func (c *CartState) RemoveProductReferences(productID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(productID)
}

// remove требует удержания c.mu
func (c *CartState) remove(productID int64) {
	if _, ok := c.entries[productID]; !ok {
		return
	}

	delete(c.entries, productID)
	for i, id := range c.order {
		if id == productID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Items возвращает копии записей в порядке первого добавления
func (c *CartState) Items() []entity.CartEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]entity.CartEntry, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.entries[id])
	}
	return out
}

// Total возвращает точную сумму корзины: сумма cost*quantity по записям
func (c *CartState) Total() decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := decimal.Zero
	for _, entry := range c.entries {
		line := entry.Product.Cost.Mul(decimal.NewFromInt(int64(entry.Quantity)))
		total = total.Add(line)
	}
	return total
}

// ItemCount возвращает суммарное количество единиц во всех записях
func (c *CartState) ItemCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	count := 0
	for _, entry := range c.entries {
		count += entry.Quantity
	}
	return count
}

// Len возвращает число различных товаров в корзине
func (c *CartState) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear опустошает корзину
func (c *CartState) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[int64]*entity.CartEntry)
	c.order = nil
}
