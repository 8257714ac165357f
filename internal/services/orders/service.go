package orders

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"docisn-pharmacy/internal/database"
	"docisn-pharmacy/internal/database/models"
)

var (
	ErrInvalidID         = errors.New("invalid order id")
	ErrInvalidOrder      = errors.New("patientName and at least one drug line are required")
	ErrInvalidStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("order status cannot move backward")
)

// statusRank orders the lifecycle for the monotonic-transition check.
// Cancellation is the only sideways move and is handled separately.
var statusRank = map[models.OrderStatus]int{
	models.OrderStatusPaymentPending: 0,
	models.OrderStatusDraft:          1,
	models.OrderStatusReceived:       2,
	models.OrderStatusConfirmed:      3,
	models.OrderStatusDispatched:     4,
	models.OrderStatusReadyToPick:    5,
	models.OrderStatusDelivered:      6,
}

func isTerminal(status models.OrderStatus) bool {
	switch status {
	case models.OrderStatusDelivered, models.OrderStatusCancelled, models.OrderStatusPaymentFailed:
		return true
	}
	return false
}

type Service struct {
	store database.Collection
	log   *zap.Logger
	now   func() time.Time
}

func NewService(store database.Collection, log *zap.Logger) *Service {
	return &Service{store: store, log: log, now: time.Now}
}

// Create places a new order. Lifecycle fields default to a fresh
// payment-pending in-pharmacy order when the caller leaves them blank.
func (s *Service) Create(ctx context.Context, order models.Order) (models.Order, error) {
	if order.PatientName == "" || len(order.DrugInfo) == 0 {
		return models.Order{}, ErrInvalidOrder
	}

	now := s.now()
	if order.Status == "" {
		order.Status = models.OrderStatusPaymentPending
	}
	if order.PaymentStatus == "" {
		order.PaymentStatus = models.PaymentStatusPending
	}
	if order.OrderFrom == "" {
		order.OrderFrom = models.ChannelPharmacy
	}
	if order.OrderType == "" {
		order.OrderType = models.OrderTypePickAtStore
	}
	if order.BillType == "" {
		order.BillType = models.BillTypeNew
	}
	if order.OrderedOn.IsZero() {
		order.OrderedOn = now
	}
	if order.OrderedAt.IsZero() {
		order.OrderedAt = now
	}
	order.ID = primitive.NilObjectID

	id, err := s.store.InsertOne(ctx, order)
	if err != nil {
		s.log.Error("order insert failed", zap.Error(err))
		return models.Order{}, err
	}
	order.ID = id
	return order, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Order{}, ErrInvalidID
	}
	var order models.Order
	if err := s.store.FindByID(ctx, oid, &order); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// List returns all orders, newest first.
func (s *Service) List(ctx context.Context) ([]models.Order, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$sort", Value: bson.D{{Key: "orderedOn", Value: -1}}}},
	}
	orders := []models.Order{}
	if err := s.store.Aggregate(ctx, pipeline, &orders); err != nil {
		s.log.Error("order listing failed", zap.Error(err))
		return nil, err
	}
	return orders, nil
}

// UpdateInput is a partial merge of the mutable order fields. A status
// change stamps the matching lifecycle timestamp in the same write.
type UpdateInput struct {
	Status                *models.OrderStatus   `json:"status"`
	PaymentStatus         *models.PaymentStatus `json:"paymentStatus"`
	ModeOfPayment         *string               `json:"modeOfPayment"`
	PaymentID             *string               `json:"paymentID"`
	TransactionID         *string               `json:"transactionID"`
	InvoiceFileName       *string               `json:"invoiceFileName"`
	ReasonForCancellation *string               `json:"reasonForCancellation"`
	Discount              *float64              `json:"discount"`
	TotalAmount           *float64              `json:"totalAmount"`
	TaxAmount             *float64              `json:"taxAmount"`
	NetAmount             *float64              `json:"netAmount"`
	Profit                *float64              `json:"profit"`
	BillType              *models.BillType      `json:"billType"`
	DeliveryAgentDetails  *models.DeliveryAgent `json:"deliveryAgentDetails"`
}

var statusTimestampField = map[models.OrderStatus]string{
	models.OrderStatusConfirmed:   "orderConfirmedAt",
	models.OrderStatusDispatched:  "orderDispatchedAt",
	models.OrderStatusReadyToPick: "orderReadyAt",
	models.OrderStatusDelivered:   "orderDeliveredAt",
	models.OrderStatusCancelled:   "orderCancelledAt",
}

// Update applies a partial merge. Status may only move forward through the
// lifecycle; cancellation is allowed from any non-terminal state.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Order{}, ErrInvalidID
	}

	var current models.Order
	if err := s.store.FindByID(ctx, oid, &current); err != nil {
		return models.Order{}, err
	}

	set := bson.M{}
	// A repeated status is not a transition: re-stamping its timestamp would
	// overwrite when the order actually moved.
	if input.Status != nil && *input.Status != current.Status {
		next := *input.Status
		if err := validateTransition(current.Status, next); err != nil {
			return models.Order{}, err
		}
		set["status"] = next
		if field, ok := statusTimestampField[next]; ok {
			set[field] = s.now()
		}
	}
	if input.PaymentStatus != nil {
		set["paymentStatus"] = *input.PaymentStatus
	}
	if input.ModeOfPayment != nil {
		set["modeOfPayment"] = *input.ModeOfPayment
	}
	if input.PaymentID != nil {
		set["paymentID"] = *input.PaymentID
	}
	if input.TransactionID != nil {
		set["transactionID"] = *input.TransactionID
	}
	if input.InvoiceFileName != nil {
		set["invoiceFileName"] = *input.InvoiceFileName
	}
	if input.ReasonForCancellation != nil {
		set["reasonForCancellation"] = *input.ReasonForCancellation
	}
	if input.Discount != nil {
		set["discount"] = *input.Discount
	}
	if input.TotalAmount != nil {
		set["totalAmount"] = *input.TotalAmount
	}
	if input.TaxAmount != nil {
		set["taxAmount"] = *input.TaxAmount
	}
	if input.NetAmount != nil {
		set["netAmount"] = *input.NetAmount
	}
	if input.Profit != nil {
		set["profit"] = *input.Profit
	}
	if input.BillType != nil {
		set["billType"] = *input.BillType
	}
	if input.DeliveryAgentDetails != nil {
		set["deliveryAgentDetails"] = *input.DeliveryAgentDetails
	}

	if len(set) > 0 {
		if err := s.store.UpdateByID(ctx, oid, set); err != nil {
			if !errors.Is(err, database.ErrNotFound) {
				s.log.Error("order update failed", zap.Error(err))
			}
			return models.Order{}, err
		}
	}

	var updated models.Order
	if err := s.store.FindByID(ctx, oid, &updated); err != nil {
		return models.Order{}, err
	}
	return updated, nil
}

func validateTransition(from, to models.OrderStatus) error {
	if to == from {
		return nil
	}
	if to == models.OrderStatusCancelled || to == models.OrderStatusPaymentFailed {
		if isTerminal(from) {
			return ErrInvalidTransition
		}
		return nil
	}
	toRank, ok := statusRank[to]
	if !ok {
		return ErrInvalidStatus
	}
	fromRank, ok := statusRank[from]
	if !ok {
		// from is terminal; nothing moves out of it
		return ErrInvalidTransition
	}
	if toRank < fromRank {
		return ErrInvalidTransition
	}
	return nil
}
