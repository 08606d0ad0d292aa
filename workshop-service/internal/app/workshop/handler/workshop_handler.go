package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"odilusta/workshop-service/internal/app/workshop/entity"
	"odilusta/workshop-service/internal/app/workshop/service"
	"odilusta/workshop-service/internal/app/workshop/store"
)

// Максимальный размер загружаемой картинки товара
const maxImageSize = 5 << 20 // 5 MiB

// WorkshopHandler обрабатывает HTTP запросы мастерской
type WorkshopHandler struct {
	workshopService service.WorkshopServiceInterface
	validator       *validator.Validate
}

// NewWorkshopHandler создает новый обработчик мастерской
func NewWorkshopHandler(workshopService service.WorkshopServiceInterface) *WorkshopHandler {
	return &WorkshopHandler{
		workshopService: workshopService,
		validator:       validator.New(),
	}
}

// ===== Каталог =====

// GetCatalog обрабатывает GET /catalog
// Возвращает снимок каталога в памяти, без похода в хранилище
func (h *WorkshopHandler) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, h.workshopService.Catalog())
}

// RefreshCatalog обрабатывает POST /catalog/refresh
// Перечитывает каталог из внешнего хранилища
func (h *WorkshopHandler) RefreshCatalog(c *gin.Context) {
	if err := h.workshopService.RefreshCatalog(c.Request.Context()); err != nil {
		h.respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.workshopService.Catalog())
}

// RemoveProduct обрабатывает DELETE /products/:id
// Удаляет товар из хранилища и чистит его во всех корзинах
func (h *WorkshopHandler) RemoveProduct(c *gin.Context) {
	id, err := parseProductID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid product ID"})
		return
	}

	if err := h.workshopService.RemoveProduct(c.Request.Context(), id); err != nil {
		h.respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Product removed successfully"})
}

// ===== Корзина =====

// GetCart обрабатывает GET /cart
func (h *WorkshopHandler) GetCart(c *gin.Context) {
	sess := sessionFromContext(c)
	c.JSON(http.StatusOK, h.workshopService.Cart(sess))
}

// AddToCart обрабатывает POST /cart/items
func (h *WorkshopHandler) AddToCart(c *gin.Context) {
	var req entity.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	// Валидация
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: formatValidationError(err)})
		return
	}

	sess := sessionFromContext(c)
	if err := h.workshopService.AddToCart(sess, req.ProductID); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to add product to cart"})
		return
	}

	c.JSON(http.StatusOK, h.workshopService.Cart(sess))
}

// SetQuantity обрабатывает PUT /cart/items/:id
// Нулевое или отрицательное количество убирает позицию
func (h *WorkshopHandler) SetQuantity(c *gin.Context) {
	id, err := parseProductID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid product ID"})
		return
	}

	var req entity.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	sess := sessionFromContext(c)
	h.workshopService.SetQuantity(sess, id, req.Quantity)

	c.JSON(http.StatusOK, h.workshopService.Cart(sess))
}

// ===== Навигация =====

// GetCurrentPage обрабатывает GET /pages/current
func (h *WorkshopHandler) GetCurrentPage(c *gin.Context) {
	sess := sessionFromContext(c)
	c.JSON(http.StatusOK, h.workshopService.CurrentPage(sess))
}

// GoToPage обрабатывает POST /pages/goto
func (h *WorkshopHandler) GoToPage(c *gin.Context) {
	var req entity.GoToRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	sess := sessionFromContext(c)
	if err := h.workshopService.GoTo(sess, req.Page); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Unknown page"})
		return
	}

	c.JSON(http.StatusOK, h.workshopService.CurrentPage(sess))
}

// GoBack обрабатывает POST /pages/back
// Возврат с корневой страницы остается на ней
func (h *WorkshopHandler) GoBack(c *gin.Context) {
	sess := sessionFromContext(c)
	h.workshopService.GoBack(sess)
	c.JSON(http.StatusOK, h.workshopService.CurrentPage(sess))
}

// ===== Черновики =====

// StartNewDraft обрабатывает POST /drafts/new
func (h *WorkshopHandler) StartNewDraft(c *gin.Context) {
	sess := sessionFromContext(c)
	h.workshopService.StartNewDraft(sess)

	view, _ := h.workshopService.Draft(sess)
	c.JSON(http.StatusCreated, view)
}

// StartEditDraft обрабатывает POST /drafts/edit/:id
func (h *WorkshopHandler) StartEditDraft(c *gin.Context) {
	id, err := parseProductID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid product ID"})
		return
	}

	sess := sessionFromContext(c)
	if err := h.workshopService.StartEditDraft(sess, id); err != nil {
		c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Product not found"})
		return
	}

	view, _ := h.workshopService.Draft(sess)
	c.JSON(http.StatusCreated, view)
}

// GetDraft обрабатывает GET /drafts
func (h *WorkshopHandler) GetDraft(c *gin.Context) {
	sess := sessionFromContext(c)

	view, err := h.workshopService.Draft(sess)
	if err != nil {
		c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "No active draft"})
		return
	}

	c.JSON(http.StatusOK, view)
}

// UpdateDraft обрабатывает PUT /drafts
func (h *WorkshopHandler) UpdateDraft(c *gin.Context) {
	var req entity.DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	sess := sessionFromContext(c)
	if err := h.workshopService.UpdateDraft(sess, req); err != nil {
		c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "No active draft"})
		return
	}

	view, _ := h.workshopService.Draft(sess)
	c.JSON(http.StatusOK, view)
}

// AttachImage обрабатывает POST /drafts/image
// Принимает multipart-поле "image" и кодирует его в data URI черновика
func (h *WorkshopHandler) AttachImage(c *gin.Context) {
	file, _, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Image file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Failed to read image"})
		return
	}
	if len(data) > maxImageSize {
		c.JSON(http.StatusRequestEntityTooLarge, entity.ErrorResponse{Error: "Image is too large"})
		return
	}

	sess := sessionFromContext(c)
	if err := h.workshopService.AttachImage(sess, data); err != nil {
		if errors.Is(err, service.ErrNoActiveDraft) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "No active draft"})
			return
		}
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Image data is empty"})
		return
	}

	view, _ := h.workshopService.Draft(sess)
	c.JSON(http.StatusOK, view)
}

// CancelDraft обрабатывает DELETE /drafts
func (h *WorkshopHandler) CancelDraft(c *gin.Context) {
	sess := sessionFromContext(c)
	h.workshopService.CancelDraft(sess)
	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Draft discarded"})
}

// SaveDraft обрабатывает POST /drafts/save
// Вставляет новый товар либо полностью обновляет существующий
func (h *WorkshopHandler) SaveDraft(c *gin.Context) {
	sess := sessionFromContext(c)

	if err := h.workshopService.SaveDraft(c.Request.Context(), sess); err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveDraft):
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "No active draft"})
		case errors.Is(err, service.ErrEmptyName):
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Product name is required"})
		case errors.Is(err, service.ErrInvalidCost):
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Product cost must be a non-negative number"})
		default:
			h.respondStoreError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, h.workshopService.Catalog())
}

// ===== Заказы =====

// PlaceOrder обрабатывает POST /orders
// Оформляет заказ из корзины текущей сессии
func (h *WorkshopHandler) PlaceOrder(c *gin.Context) {
	sess := sessionFromContext(c)

	order, err := h.workshopService.PlaceOrder(c.Request.Context(), sess)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Cart is empty"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to place order"})
		return
	}

	c.JSON(http.StatusCreated, order)
}

// ListOrders обрабатывает GET /orders
func (h *WorkshopHandler) ListOrders(c *gin.Context) {
	sess := sessionFromContext(c)

	resp, err := h.workshopService.Orders(c.Request.Context(), sess)
	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to list orders"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// respondStoreError превращает отказ внешнего хранилища в 502
// Состояние сервиса при таком отказе не меняется
func (h *WorkshopHandler) respondStoreError(c *gin.Context, err error) {
	if store.IsStoreError(err) {
		c.JSON(http.StatusBadGateway, entity.ErrorResponse{Error: "Product store is unavailable"})
		return
	}
	c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Internal server error"})
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
				return "Field '" + fieldErr.Field() + "' must be positive"
			}
		}
	}
	return "Validation failed"
}
