package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"docisn-pharmacy/internal/database"
	"docisn-pharmacy/internal/database/models"
)

// LowStockThreshold is the fixed reorder trigger. The per-item
// thresholdValue field is stored and returned but does not drive this view.
const LowStockThreshold = 10

const (
	supplierRollupCacheKey = "inventory:supplier-rollup"
	lowStockCacheKey       = "inventory:low-stock"
	cacheTTL               = 5 * time.Minute
)

// Mutation event kinds pushed to realtime subscribers.
const (
	EventCreate = "create"
	EventUpdate = "update"
	EventDelete = "delete"
)

var (
	ErrInvalidID   = errors.New("invalid inventory id")
	ErrInvalidItem = errors.New("drugName, quantity and rate are required")
)

// Publisher fans a mutation event out to realtime subscribers.
type Publisher interface {
	Publish(event string, data interface{})
}

type Service struct {
	store     database.Collection
	cache     *redis.Client
	publisher Publisher
	log       *zap.Logger
	now       func() time.Time
}

func NewService(store database.Collection, cache *redis.Client, publisher Publisher, log *zap.Logger) *Service {
	return &Service{
		store:     store,
		cache:     cache,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// totalValueStage recomputes totalValue = quantity * rate on every read.
// The stored field is never trusted.
func totalValueStage() bson.D {
	return bson.D{{Key: "$addFields", Value: bson.D{
		{Key: "totalValue", Value: bson.D{{Key: "$multiply", Value: bson.A{"$quantity", "$rate"}}}},
	}}}
}

func (s *Service) projectByID(ctx context.Context, id primitive.ObjectID) (models.InventoryItem, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "_id", Value: id}}}},
		totalValueStage(),
	}

	var items []models.InventoryItem
	if err := s.store.Aggregate(ctx, pipeline, &items); err != nil {
		return models.InventoryItem{}, err
	}
	if len(items) == 0 {
		return models.InventoryItem{}, database.ErrNotFound
	}
	return items[0], nil
}

// Create inserts a stock receipt and returns the stored item with its
// computed totalValue. Items missing drugName, a positive quantity or a
// positive rate are rejected.
func (s *Service) Create(ctx context.Context, item models.InventoryItem) (models.InventoryItem, error) {
	if item.DrugName == "" || item.Quantity <= 0 || item.Rate <= 0 {
		return models.InventoryItem{}, ErrInvalidItem
	}

	now := s.now()
	if item.CreatedDate.IsZero() {
		item.CreatedDate = now
	}
	item.LastUpdatedDate = now
	item.ID = primitive.NilObjectID
	item.TotalValue = 0

	id, err := s.store.InsertOne(ctx, item)
	if err != nil {
		return models.InventoryItem{}, err
	}

	created, err := s.projectByID(ctx, id)
	if err != nil {
		return models.InventoryItem{}, err
	}

	s.invalidateCaches(ctx)
	s.publisher.Publish(EventCreate, created)
	return created, nil
}

// GetByID returns one item with totalValue computed.
func (s *Service) GetByID(ctx context.Context, id string) (models.InventoryItem, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.InventoryItem{}, ErrInvalidID
	}
	return s.projectByID(ctx, oid)
}

// SupplierRollup groups in-stock items by supplier license number. Row-level
// detail is discarded on purpose.
func (s *Service) SupplierRollup(ctx context.Context) ([]models.SupplierRollup, error) {
	var cached []models.SupplierRollup
	if s.fromCache(ctx, supplierRollupCacheKey, &cached) {
		return cached, nil
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "quantity", Value: bson.D{{Key: "$gt", Value: 0}}},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$supplierLicenseNumber"},
			{Key: "totalQuantity", Value: bson.D{{Key: "$sum", Value: "$quantity"}}},
			{Key: "totalValue", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$multiply", Value: bson.A{"$quantity", "$rate"}},
			}}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "supplierLicenseNumber", Value: "$_id"},
			{Key: "totalQuantity", Value: 1},
			{Key: "totalValue", Value: 1},
			{Key: "_id", Value: 0},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "supplierLicenseNumber", Value: 1}}}},
	}

	rollups := []models.SupplierRollup{}
	if err := s.store.Aggregate(ctx, pipeline, &rollups); err != nil {
		return nil, err
	}

	s.toCache(ctx, supplierRollupCacheKey, rollups)
	return rollups, nil
}

// UpdateInput is a partial field merge; nil fields are left untouched.
// totalValue is not settable.
type UpdateInput struct {
	Email                 *string    `json:"email"`
	SupplierName          *string    `json:"supplierName"`
	DrugName              *string    `json:"drugName"`
	Composition           *string    `json:"composition"`
	DrugType              *string    `json:"drugType"`
	BatchID               *string    `json:"batchID"`
	Quantity              *int64     `json:"quantity"`
	SupplierLicenseNumber *string    `json:"supplierLicenseNumber"`
	DrugLicenseNumber     *string    `json:"drugLicenseNumber"`
	ExpiryDate            *time.Time `json:"expiryDate"`
	MRP                   *float64   `json:"mrp"`
	Rate                  *float64   `json:"rate"`
	Amount                *float64   `json:"amount"`
	Free                  *int64     `json:"free"`
	HSNCode               *string    `json:"hsnCode"`
	Discount              *string    `json:"discount"`
	Box                   *string    `json:"box"`
	ThresholdValue        *int64     `json:"thresholdValue"`
	PreviousQuantity      *string    `json:"previousQuantity"`
}

func (in UpdateInput) fields(now time.Time) bson.M {
	set := bson.M{"lastUpdatedDate": now}
	put := func(key string, v interface{}, present bool) {
		if present {
			set[key] = v
		}
	}
	put("email", deref(in.Email), in.Email != nil)
	put("supplierName", deref(in.SupplierName), in.SupplierName != nil)
	put("drugName", deref(in.DrugName), in.DrugName != nil)
	put("composition", deref(in.Composition), in.Composition != nil)
	put("drugType", deref(in.DrugType), in.DrugType != nil)
	put("batchID", deref(in.BatchID), in.BatchID != nil)
	put("supplierLicenseNumber", deref(in.SupplierLicenseNumber), in.SupplierLicenseNumber != nil)
	put("drugLicenseNumber", deref(in.DrugLicenseNumber), in.DrugLicenseNumber != nil)
	put("hsnCode", deref(in.HSNCode), in.HSNCode != nil)
	put("discount", deref(in.Discount), in.Discount != nil)
	put("box", deref(in.Box), in.Box != nil)
	put("previousQuantity", deref(in.PreviousQuantity), in.PreviousQuantity != nil)
	if in.Quantity != nil {
		set["quantity"] = *in.Quantity
	}
	if in.ExpiryDate != nil {
		set["expiryDate"] = *in.ExpiryDate
	}
	if in.MRP != nil {
		set["mrp"] = *in.MRP
	}
	if in.Rate != nil {
		set["rate"] = *in.Rate
	}
	if in.Amount != nil {
		set["amount"] = *in.Amount
	}
	if in.Free != nil {
		set["free"] = *in.Free
	}
	if in.ThresholdValue != nil {
		set["thresholdValue"] = *in.ThresholdValue
	}
	return set
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Update merges the given fields into an item and returns the post-update
// projection.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (models.InventoryItem, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.InventoryItem{}, ErrInvalidID
	}

	if err := s.store.UpdateByID(ctx, oid, input.fields(s.now())); err != nil {
		return models.InventoryItem{}, err
	}

	updated, err := s.projectByID(ctx, oid)
	if err != nil {
		return models.InventoryItem{}, err
	}

	s.invalidateCaches(ctx)
	s.publisher.Publish(EventUpdate, updated)
	return updated, nil
}

// Delete removes an item and returns its last known projection.
func (s *Service) Delete(ctx context.Context, id string) (models.InventoryItem, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.InventoryItem{}, ErrInvalidID
	}

	deleted, err := s.projectByID(ctx, oid)
	if err != nil {
		return models.InventoryItem{}, err
	}
	if err := s.store.DeleteByID(ctx, oid); err != nil {
		return models.InventoryItem{}, err
	}

	s.invalidateCaches(ctx)
	s.publisher.Publish(EventDelete, deleted)
	return deleted, nil
}

// LowStock lists items with quantity strictly below the threshold.
func (s *Service) LowStock(ctx context.Context) ([]models.InventoryItem, error) {
	var cached []models.InventoryItem
	if s.fromCache(ctx, lowStockCacheKey, &cached) {
		return cached, nil
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "quantity", Value: bson.D{{Key: "$lt", Value: LowStockThreshold}}},
		}}},
		totalValueStage(),
		bson.D{{Key: "$sort", Value: bson.D{{Key: "quantity", Value: 1}}}},
	}

	items := []models.InventoryItem{}
	if err := s.store.Aggregate(ctx, pipeline, &items); err != nil {
		return nil, err
	}

	s.toCache(ctx, lowStockCacheKey, items)
	return items, nil
}

// Expired lists items whose expiry date is before now. Computed fresh on
// every call: the view changes with the clock, not only on mutations, so it
// is never cached.
func (s *Service) Expired(ctx context.Context) ([]models.InventoryItem, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "expiryDate", Value: bson.D{{Key: "$lt", Value: s.now()}}},
		}}},
		totalValueStage(),
		bson.D{{Key: "$sort", Value: bson.D{{Key: "expiryDate", Value: 1}}}},
	}

	items := []models.InventoryItem{}
	if err := s.store.Aggregate(ctx, pipeline, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ExpiringSoon groups items expiring within the next calendar month by drug
// type. Each group's drugs are sorted by ascending expiry and carry the
// group's totalQuantity and averageMRP (2 decimal places); groups come back
// sorted alphabetically by drug type.
func (s *Service) ExpiringSoon(ctx context.Context) ([]models.ExpiringGroup, error) {
	now := s.now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, 0).Add(24*time.Hour - time.Millisecond)

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "expiryDate", Value: bson.D{
				{Key: "$gte", Value: from},
				{Key: "$lte", Value: to},
			}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "expiryDate", Value: 1}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$drugType"},
			{Key: "drugs", Value: bson.D{{Key: "$push", Value: "$$ROOT"}}},
			{Key: "totalQuantity", Value: bson.D{{Key: "$sum", Value: "$quantity"}}},
			{Key: "averageMRP", Value: bson.D{{Key: "$avg", Value: "$mrp"}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "drugType", Value: "$_id"},
			{Key: "drugs", Value: 1},
			{Key: "totalQuantity", Value: 1},
			{Key: "averageMRP", Value: 1},
			{Key: "_id", Value: 0},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "drugType", Value: 1}}}},
	}

	groups := []models.ExpiringGroup{}
	if err := s.store.Aggregate(ctx, pipeline, &groups); err != nil {
		return nil, err
	}

	for i := range groups {
		groups[i].AverageMRP = decimal.NewFromFloat(groups[i].AverageMRP).Round(2).InexactFloat64()
	}
	return groups, nil
}

func (s *Service) fromCache(ctx context.Context, key string, out interface{}) bool {
	if s.cache == nil {
		return false
	}
	val, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		s.log.Warn("discarding corrupt cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *Service) toCache(ctx context.Context, key string, v interface{}) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, key, raw, cacheTTL).Err()
}

func (s *Service) invalidateCaches(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, supplierRollupCacheKey, lowStockCacheKey).Err()
}
