package entity

// ProductView - товар в ответе API с отформатированной ценой
type ProductView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Cost        string `json:"cost"`
	CostDisplay string `json:"cost_display"`
	Image       string `json:"image"`
}

// CatalogResponse - список товаров каталога
type CatalogResponse struct {
	Products []ProductView `json:"products"`
	Total    int           `json:"total"`
}

// CartItemView - позиция корзины с суммой по строке
type CartItemView struct {
	Product          ProductView `json:"product"`
	Quantity         int         `json:"quantity"`
	LineTotal        string      `json:"line_total"`
	LineTotalDisplay string      `json:"line_total_display"`
}

// CartResponse - содержимое корзины с итогами
type CartResponse struct {
	Items        []CartItemView `json:"items"`
	ItemCount    int            `json:"item_count"`
	Total        string         `json:"total"`
	TotalDisplay string         `json:"total_display"`
}

// NavigationResponse - текущая страница сессии
type NavigationResponse struct {
	Current Page `json:"current"`
	Depth   int  `json:"depth"`
}

// GoToRequest - запрос перехода на страницу
type GoToRequest struct {
	Page Page `json:"page" validate:"required"`
}

// AddToCartRequest - запрос добавления товара в корзину
type AddToCartRequest struct {
	ProductID int64 `json:"product_id" validate:"required,min=1"`
}

// SetQuantityRequest - запрос изменения количества позиции
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// DraftRequest - поля черновика, присылаются при правке формы
type DraftRequest struct {
	Name  string `json:"name"`
	Cost  string `json:"cost"`
	Image string `json:"image"`
}

// DraftView - текущий черновик сессии
type DraftView struct {
	Kind      string `json:"kind"` // new | edit
	ProductID int64  `json:"product_id,omitempty"`
	Name      string `json:"name"`
	Cost      string `json:"cost"`
	Image     string `json:"image"`
}

// OrderListResponse - список заказов сессии
type OrderListResponse struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
}

// ErrorResponse - структура для ошибок API
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse - структура для успешных операций
type SuccessResponse struct {
	Message string `json:"message"`
}
