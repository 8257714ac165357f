package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"docisn-pharmacy/internal/database"
	"docisn-pharmacy/internal/database/models"
	"docisn-pharmacy/internal/services/orders"
)

type OrderService interface {
	Create(ctx context.Context, order models.Order) (models.Order, error)
	GetByID(ctx context.Context, id string) (models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	Update(ctx context.Context, id string, input orders.UpdateInput) (models.Order, error)
}

type OrderHTTPHandler struct {
	service OrderService
	timeout time.Duration
}

func NewOrderHTTPHandler(service OrderService, timeout time.Duration) *OrderHTTPHandler {
	return &OrderHTTPHandler{service: service, timeout: timeout}
}

func (h *OrderHTTPHandler) ctx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

func (h *OrderHTTPHandler) mapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, orders.ErrInvalidID),
		errors.Is(err, orders.ErrInvalidOrder),
		errors.Is(err, orders.ErrInvalidStatus),
		errors.Is(err, orders.ErrInvalidTransition):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrNotFound):
		fail(c, http.StatusNotFound, "order not found")
	default:
		fail(c, http.StatusInternalServerError, err.Error())
	}
}

func (h *OrderHTTPHandler) CreateOrder(c *gin.Context) {
	var order models.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	created, err := h.service.Create(ctx, order)
	if err != nil {
		h.mapError(c, err)
		return
	}
	success(c, http.StatusCreated, created)
}

func (h *OrderHTTPHandler) GetOrder(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	order, err := h.service.GetByID(ctx, c.Param("id"))
	if err != nil {
		h.mapError(c, err)
		return
	}
	success(c, http.StatusOK, order)
}

func (h *OrderHTTPHandler) ListOrders(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	list, err := h.service.List(ctx)
	if err != nil {
		h.mapError(c, err)
		return
	}
	success(c, http.StatusOK, list)
}

func (h *OrderHTTPHandler) UpdateOrder(c *gin.Context) {
	var input orders.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	updated, err := h.service.Update(ctx, c.Param("id"), input)
	if err != nil {
		h.mapError(c, err)
		return
	}
	success(c, http.StatusOK, updated)
}
