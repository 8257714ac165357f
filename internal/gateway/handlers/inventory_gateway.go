package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"docisn-pharmacy/internal/database"
	"docisn-pharmacy/internal/database/models"
	"docisn-pharmacy/internal/services/inventory"
)

// InventoryService is the surface of the inventory aggregation engine the
// HTTP layer depends on.
type InventoryService interface {
	Create(ctx context.Context, item models.InventoryItem) (models.InventoryItem, error)
	GetByID(ctx context.Context, id string) (models.InventoryItem, error)
	SupplierRollup(ctx context.Context) ([]models.SupplierRollup, error)
	Update(ctx context.Context, id string, input inventory.UpdateInput) (models.InventoryItem, error)
	Delete(ctx context.Context, id string) (models.InventoryItem, error)
	LowStock(ctx context.Context) ([]models.InventoryItem, error)
	Expired(ctx context.Context) ([]models.InventoryItem, error)
	ExpiringSoon(ctx context.Context) ([]models.ExpiringGroup, error)
}

type InventoryHTTPHandler struct {
	service InventoryService
	timeout time.Duration
}

func NewInventoryHTTPHandler(service InventoryService, timeout time.Duration) *InventoryHTTPHandler {
	return &InventoryHTTPHandler{service: service, timeout: timeout}
}

func (h *InventoryHTTPHandler) ctx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

func (h *InventoryHTTPHandler) mapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, inventory.ErrInvalidID), errors.Is(err, inventory.ErrInvalidItem):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrNotFound):
		fail(c, http.StatusNotFound, "inventory item not found")
	default:
		fail(c, http.StatusInternalServerError, err.Error())
	}
}

func (h *InventoryHTTPHandler) CreateInventory(c *gin.Context) {
	var item models.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	created, err := h.service.Create(ctx, item)
	if err != nil {
		h.mapError(c, err)
		return
	}
	success(c, http.StatusCreated, created)
}

func (h *InventoryHTTPHandler) GetInventory(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	item, err := h.service.GetByID(ctx, c.Param("id"))
	if err != nil {
		h.mapError(c, err)
		return
	}
	success(c, http.StatusOK, item)
}

func (h *InventoryHTTPHandler) GetAllInventories(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	rollups, err := h.service.SupplierRollup(ctx)
	if err != nil {
		h.mapError(c, err)
		return
	}
	success(c, http.StatusOK, rollups)
}

func (h *InventoryHTTPHandler) UpdateInventory(c *gin.Context) {
	var input inventory.UpdateInput
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

func (h *InventoryHTTPHandler) DeleteInventory(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	deleted, err := h.service.Delete(ctx, c.Param("id"))
	if err != nil {
		h.mapError(c, err)
		return
	}
	success(c, http.StatusOK, deleted)
}

func (h *InventoryHTTPHandler) LowStockDrugs(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	items, err := h.service.LowStock(ctx)
	if err != nil {
		h.mapError(c, err)
		return
	}
	success(c, http.StatusOK, items)
}

func (h *InventoryHTTPHandler) ExpiredDrugs(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	items, err := h.service.Expired(ctx)
	if err != nil {
		h.mapError(c, err)
		return
	}
	success(c, http.StatusOK, items)
}

func (h *InventoryHTTPHandler) DrugsExpiringSoon(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	groups, err := h.service.ExpiringSoon(ctx)
	if err != nil {
		h.mapError(c, err)
		return
	}
	success(c, http.StatusOK, groups)
}
