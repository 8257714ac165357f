package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InventoryItem is one stock receipt line in the pharmacy inventory
// collection. TotalValue is never stored; it is projected as
// quantity * rate on every read.
type InventoryItem struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email                 string             `bson:"email,omitempty" json:"email,omitempty"`
	SupplierName          string             `bson:"supplierName,omitempty" json:"supplierName,omitempty"`
	DrugName              string             `bson:"drugName" json:"drugName"`
	Composition           string             `bson:"composition,omitempty" json:"composition,omitempty"`
	DrugType              string             `bson:"drugType,omitempty" json:"drugType,omitempty"`
	BatchID               string             `bson:"batchID,omitempty" json:"batchID,omitempty"`
	Quantity              int64              `bson:"quantity" json:"quantity"`
	SupplierLicenseNumber string             `bson:"supplierLicenseNumber,omitempty" json:"supplierLicenseNumber,omitempty"`
	DrugLicenseNumber     string             `bson:"drugLicenseNumber,omitempty" json:"drugLicenseNumber,omitempty"`
	ExpiryDate            time.Time          `bson:"expiryDate,omitempty" json:"expiryDate,omitempty"`
	MRP                   float64            `bson:"mrp,omitempty" json:"mrp,omitempty"`
	Rate                  float64            `bson:"rate" json:"rate"`
	Amount                float64            `bson:"amount,omitempty" json:"amount,omitempty"`
	Free                  int64              `bson:"free,omitempty" json:"free,omitempty"`
	HSNCode               string             `bson:"hsnCode,omitempty" json:"hsnCode,omitempty"`
	Discount              string             `bson:"discount,omitempty" json:"discount,omitempty"`
	Box                   string             `bson:"box,omitempty" json:"box,omitempty"`
	ThresholdValue        int64              `bson:"thresholdValue,omitempty" json:"thresholdValue,omitempty"`
	PreviousQuantity      string             `bson:"previousQuantity,omitempty" json:"previousQuantity,omitempty"`
	CreatedBy             string             `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedUserRole       []string           `bson:"createdUserRole,omitempty" json:"createdUserRole,omitempty"`
	CreatedDate           time.Time          `bson:"createdDate,omitempty" json:"createdDate,omitempty"`
	LastUpdatedDate       time.Time          `bson:"lastUpdatedDate,omitempty" json:"lastUpdatedDate,omitempty"`

	TotalValue float64 `bson:"totalValue,omitempty" json:"totalValue"`
}

// SupplierRollup is the grouped inventory view keyed by supplier license
// number. Per-item detail is discarded on purpose.
type SupplierRollup struct {
	SupplierLicenseNumber string  `bson:"supplierLicenseNumber" json:"supplierLicenseNumber"`
	TotalQuantity         int64   `bson:"totalQuantity" json:"totalQuantity"`
	TotalValue            float64 `bson:"totalValue" json:"totalValue"`
}

// ExpiringGroup is one drug-type bucket of the expiring-soon view.
type ExpiringGroup struct {
	DrugType      string          `bson:"drugType" json:"drugType"`
	Drugs         []InventoryItem `bson:"drugs" json:"drugs"`
	TotalQuantity int64           `bson:"totalQuantity" json:"totalQuantity"`
	AverageMRP    float64         `bson:"averageMRP" json:"averageMRP"`
}
