package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"docisn-pharmacy/internal/database"
	"docisn-pharmacy/internal/database/models"
	"docisn-pharmacy/internal/services/inventory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeInventoryService struct {
	item    models.InventoryItem
	rollups []models.SupplierRollup
	err     error

	lastUpdateID    string
	lastUpdateInput inventory.UpdateInput
}

func (f *fakeInventoryService) Create(ctx context.Context, item models.InventoryItem) (models.InventoryItem, error) {
	if f.err != nil {
		return models.InventoryItem{}, f.err
	}
	return f.item, nil
}

func (f *fakeInventoryService) GetByID(ctx context.Context, id string) (models.InventoryItem, error) {
	if f.err != nil {
		return models.InventoryItem{}, f.err
	}
	return f.item, nil
}

func (f *fakeInventoryService) SupplierRollup(ctx context.Context) ([]models.SupplierRollup, error) {
	return f.rollups, f.err
}

func (f *fakeInventoryService) Update(ctx context.Context, id string, input inventory.UpdateInput) (models.InventoryItem, error) {
	if f.err != nil {
		return models.InventoryItem{}, f.err
	}
	f.lastUpdateID = id
	f.lastUpdateInput = input
	return f.item, nil
}

func (f *fakeInventoryService) Delete(ctx context.Context, id string) (models.InventoryItem, error) {
	if f.err != nil {
		return models.InventoryItem{}, f.err
	}
	return f.item, nil
}

func (f *fakeInventoryService) LowStock(ctx context.Context) ([]models.InventoryItem, error) {
	return []models.InventoryItem{f.item}, f.err
}

func (f *fakeInventoryService) Expired(ctx context.Context) ([]models.InventoryItem, error) {
	return []models.InventoryItem{f.item}, f.err
}

func (f *fakeInventoryService) ExpiringSoon(ctx context.Context) ([]models.ExpiringGroup, error) {
	return nil, f.err
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return env
}

func inventoryRouter(svc *fakeInventoryService) *gin.Engine {
	h := NewInventoryHTTPHandler(svc, time.Second)
	r := gin.New()
	r.POST("/inventory", h.CreateInventory)
	r.GET("/inventory", h.GetAllInventories)
	r.GET("/inventory/:id", h.GetInventory)
	r.PUT("/inventory/:id", h.UpdateInventory)
	r.DELETE("/inventory/:id", h.DeleteInventory)
	r.GET("/inventory/low-stock-drugs", h.LowStockDrugs)
	return r
}

func TestCreateInventoryReturns201Envelope(t *testing.T) {
	svc := &fakeInventoryService{item: models.InventoryItem{
		ID:       primitive.NewObjectID(),
		DrugName: "Paracetamol",
		Quantity: 10,
		Rate:     2.5,
	}}
	r := inventoryRouter(svc)

	body := `{"drugName":"Paracetamol","quantity":10,"rate":2.5}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/inventory", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatalf("success = false: %s", rec.Body.String())
	}
	var item models.InventoryItem
	if err := json.Unmarshal(env.Data, &item); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if item.DrugName != "Paracetamol" {
		t.Fatalf("data.drugName = %q", item.DrugName)
	}
}

func TestCreateInventoryRejectsMalformedBody(t *testing.T) {
	r := inventoryRouter(&fakeInventoryService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/inventory", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Success || env.Error == "" {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
}

func TestGetInventoryMapsNotFound(t *testing.T) {
	r := inventoryRouter(&fakeInventoryService{err: database.ErrNotFound})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/inventory/"+primitive.NewObjectID().Hex(), nil)
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Success {
		t.Fatalf("success must be false on 404")
	}
}

func TestGetInventoryMapsInvalidID(t *testing.T) {
	r := inventoryRouter(&fakeInventoryService{err: inventory.ErrInvalidID})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/inventory/zz", nil)
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUpdateInventoryForwardsPartialInput(t *testing.T) {
	svc := &fakeInventoryService{item: models.InventoryItem{DrugName: "Paracetamol"}}
	r := inventoryRouter(svc)

	id := primitive.NewObjectID().Hex()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/inventory/"+id, strings.NewReader(`{"quantity":42}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	if svc.lastUpdateID != id {
		t.Fatalf("service got id %q, want %q", svc.lastUpdateID, id)
	}
	if svc.lastUpdateInput.Quantity == nil || *svc.lastUpdateInput.Quantity != 42 {
		t.Fatalf("quantity not forwarded: %+v", svc.lastUpdateInput)
	}
	if svc.lastUpdateInput.DrugName != nil {
		t.Fatalf("absent fields must stay nil")
	}
}

func TestInternalErrorsReturn500(t *testing.T) {
	r := inventoryRouter(&fakeInventoryService{err: errors.New("connection reset")})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/inventory", nil)
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}
