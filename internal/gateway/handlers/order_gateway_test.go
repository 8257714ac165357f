package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"docisn-pharmacy/internal/database/models"
	"docisn-pharmacy/internal/services/orders"
)

type fakeOrderService struct {
	order models.Order
	err   error

	lastUpdateInput orders.UpdateInput
}

func (f *fakeOrderService) Create(ctx context.Context, order models.Order) (models.Order, error) {
	if f.err != nil {
		return models.Order{}, f.err
	}
	return f.order, nil
}

func (f *fakeOrderService) GetByID(ctx context.Context, id string) (models.Order, error) {
	if f.err != nil {
		return models.Order{}, f.err
	}
	return f.order, nil
}

func (f *fakeOrderService) List(ctx context.Context) ([]models.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.Order{f.order}, nil
}

func (f *fakeOrderService) Update(ctx context.Context, id string, input orders.UpdateInput) (models.Order, error) {
	if f.err != nil {
		return models.Order{}, f.err
	}
	f.lastUpdateInput = input
	return f.order, nil
}

func orderRouter(svc *fakeOrderService) *gin.Engine {
	h := NewOrderHTTPHandler(svc, time.Second)
	r := gin.New()
	r.POST("/patients", h.CreateOrder)
	r.GET("/patients", h.ListOrders)
	r.GET("/patients/:id", h.GetOrder)
	r.PUT("/patients/:id", h.UpdateOrder)
	return r
}

func TestCreateOrderReturns201(t *testing.T) {
	svc := &fakeOrderService{order: models.Order{
		ID:          primitive.NewObjectID(),
		PatientName: "Asha",
		Status:      models.OrderStatusPaymentPending,
	}}
	r := orderRouter(svc)

	body := `{"patientName":"Asha","drugInfo":[{"drugName":"Paracetamol","quantity":2}]}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/patients", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	var order models.Order
	if err := json.Unmarshal(env.Data, &order); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if order.Status != models.OrderStatusPaymentPending {
		t.Fatalf("status = %s", order.Status)
	}
}

func TestCreateOrderMapsValidationError(t *testing.T) {
	r := orderRouter(&fakeOrderService{err: orders.ErrInvalidOrder})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/patients", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUpdateOrderMapsTransitionError(t *testing.T) {
	r := orderRouter(&fakeOrderService{err: orders.ErrInvalidTransition})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/patients/"+primitive.NewObjectID().Hex(),
		strings.NewReader(`{"status":"ORDER_CONFIRMED"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUpdateOrderForwardsStatus(t *testing.T) {
	svc := &fakeOrderService{order: models.Order{Status: models.OrderStatusDispatched}}
	r := orderRouter(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/patients/"+primitive.NewObjectID().Hex(),
		strings.NewReader(`{"status":"ORDER_DISPATCHED"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.lastUpdateInput.Status == nil || *svc.lastUpdateInput.Status != models.OrderStatusDispatched {
		t.Fatalf("status not forwarded: %+v", svc.lastUpdateInput)
	}
}

func TestListOrdersWrapsEnvelope(t *testing.T) {
	svc := &fakeOrderService{order: models.Order{PatientName: "Asha"}}
	r := orderRouter(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	var list []models.Order
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(list) != 1 || list[0].PatientName != "Asha" {
		t.Fatalf("unexpected list: %+v", list)
	}
}
