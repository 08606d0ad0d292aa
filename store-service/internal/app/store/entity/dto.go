package entity

import "github.com/shopspring/decimal"

type CreateProductRequest struct {
	Name  string          `json:"name" validate:"required,min=1,max=200"`
	Cost  decimal.Decimal `json:"cost"`
	Image string          `json:"image"`
}

type UpdateProductRequest struct {
	Name  string          `json:"name" validate:"required,min=1,max=200"`
	Cost  decimal.Decimal `json:"cost"`
	Image string          `json:"image"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ProductListResponse struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}
