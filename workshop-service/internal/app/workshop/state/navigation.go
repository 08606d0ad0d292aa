package state

import (
	"errors"
	"sync"

	"odilusta/workshop-service/internal/app/workshop/entity"
)

var ErrUnknownPage = errors.New("unknown page")

// NavigationState - стек навигации одной сессии
// История начинается с корневой страницы; возврат ниже корня невозможен
type NavigationState struct {
	mu    sync.RWMutex
	stack []entity.Page
}

func NewNavigationState() *NavigationState {
	return &NavigationState{
		stack: []entity.Page{entity.PageHome},
	}
}

// GoTo кладет страницу на вершину стека
// Повторный переход на текущую страницу тоже добавляет кадр
func (n *NavigationState) GoTo(page entity.Page) error {
	if !entity.ValidPage(page) {
		return ErrUnknownPage
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.stack = append(n.stack, page)
	return nil
}

// GoBack снимает вершину стека и возвращает новую текущую страницу
// На пустом стеке остается корневая страница, глубже не уходит
func (n *NavigationState) GoBack() entity.Page {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.stack) > 0 {
		n.stack = n.stack[:len(n.stack)-1]
	}
	return n.current()
}

// Current возвращает текущую страницу
func (n *NavigationState) Current() entity.Page {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.current()
}

// Depth возвращает глубину стека
func (n *NavigationState) Depth() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.stack)
}

// Reset возвращает навигацию к начальному состоянию
func (n *NavigationState) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stack = []entity.Page{entity.PageHome}
}

// current требует удержания n.mu
func (n *NavigationState) current() entity.Page {
	if len(n.stack) == 0 {
		return entity.PageHome
	}
	return n.stack[len(n.stack)-1]
}
