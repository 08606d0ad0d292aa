package handler

import (
	"errors"
	"net/http"
	"strconv"

	"odilusta/store-service/internal/app/store/entity"
	"odilusta/store-service/internal/app/store/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ProductHandler обрабатывает HTTP запросы хранилища товаров
type ProductHandler struct {
	storeService service.StoreServiceInterface
	validator    *validator.Validate
}

// NewProductHandler создает новый обработчик товаров
func NewProductHandler(storeService service.StoreServiceInterface) *ProductHandler {
	return &ProductHandler{
		storeService: storeService,
		validator:    validator.New(),
	}
}

// ListProducts обрабатывает GET /products
// Возвращает все товары, упорядоченные по id по возрастанию
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.storeService.ListProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to list products"})
		return
	}

	if products == nil {
		products = []entity.Product{}
	}

	c.JSON(http.StatusOK, entity.ProductListResponse{
		Products: products,
		Total:    len(products),
	})
}

// CreateProduct обрабатывает POST /products
// Возвращает созданную строку вместе с назначенным id
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req entity.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	// Валидация
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: formatValidationError(err)})
		return
	}

	product, err := h.storeService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrNegativeCost) {
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Product cost must not be negative"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProduct обрабатывает PUT /products/:id
// Возвращает обновленную строку; 404 если id не существует
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := parseProductID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid product ID"})
		return
	}

	var req entity.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	// Валидация
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: formatValidationError(err)})
		return
	}

	product, err := h.storeService.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Product not found"})
			return
		}
		if errors.Is(err, service.ErrNegativeCost) {
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Product cost must not be negative"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to update product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct обрабатывает DELETE /products/:id
// Удаление несуществующего id тоже успешно по контракту хранилища
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := parseProductID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid product ID"})
		return
	}

	if err := h.storeService.DeleteProduct(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to delete product"})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Product deleted successfully",
	})
}

func parseProductID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// formatValidationError превращает ошибки валидатора в читаемое сообщение
func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldErr := range validationErrors {
			switch fieldErr.Tag() {
			case "required":
				return "Field '" + fieldErr.Field() + "' is required"
			case "min":
				return "Field '" + fieldErr.Field() + "' is too short"
			case "max":
				return "Field '" + fieldErr.Field() + "' is too long"
			}
		}
	}
	return "Validation failed"
}
