package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPaymentPending OrderStatus = "ORDER_PAYMENT_PENDING"
	OrderStatusDraft          OrderStatus = "DRAFT"
	OrderStatusReceived       OrderStatus = "ORDER_RECEIVED"
	OrderStatusConfirmed      OrderStatus = "ORDER_CONFIRMED"
	OrderStatusDispatched     OrderStatus = "ORDER_DISPATCHED"
	OrderStatusReadyToPick    OrderStatus = "ORDER_READYTOPICK"
	OrderStatusDelivered      OrderStatus = "ORDER_DELIVERED"
	OrderStatusCancelled      OrderStatus = "ORDER_CANCELLED"
	OrderStatusPaymentFailed  OrderStatus = "PAYMENT_FAILED"
)

type PaymentStatus string

const (
	PaymentStatusPending         PaymentStatus = "Pending"
	PaymentStatusCreated         PaymentStatus = "created"
	PaymentStatusPaid            PaymentStatus = "paid"
	PaymentStatusSuccess         PaymentStatus = "Success"
	PaymentStatusRefundInitiated PaymentStatus = "RefundInitiated"
	PaymentStatusRefunded        PaymentStatus = "Refunded"
	PaymentStatusFailed          PaymentStatus = "Failed"
)

// OrderChannel is the platform an order originated from.
type OrderChannel string

const (
	ChannelApp       OrderChannel = "DOCISN"
	ChannelFrontDesk OrderChannel = "DOCISN_FRONTDESK"
	ChannelPharmacy  OrderChannel = "IN_PHARMACY"
	ChannelPlus      OrderChannel = "DOCISN_PLUS"
)

// OrderChannels lists every valid channel, in reporting order.
var OrderChannels = []OrderChannel{ChannelApp, ChannelFrontDesk, ChannelPharmacy, ChannelPlus}

type BillType string

const (
	BillTypeNew    BillType = "NEW"
	BillTypeReturn BillType = "RETURN"
)

type OrderType string

const (
	OrderTypeHomeDelivery OrderType = "HOMEDELIVERY"
	OrderTypePickAtStore  OrderType = "PICKATSTORE"
)

// DrugInfo is one ordered line item.
type DrugInfo struct {
	DrugName          string    `bson:"drugName,omitempty" json:"drugName,omitempty"`
	Composition       string    `bson:"composition,omitempty" json:"composition,omitempty"`
	DrugType          string    `bson:"drugType,omitempty" json:"drugType,omitempty"`
	BatchID           string    `bson:"batchID,omitempty" json:"batchID,omitempty"`
	Quantity          int64     `bson:"quantity,omitempty" json:"quantity,omitempty"`
	TotalQuantity     int64     `bson:"totalQuantity,omitempty" json:"totalQuantity,omitempty"`
	TotalStripsCount  int64     `bson:"totalStripsCount,omitempty" json:"totalStripsCount,omitempty"`
	TotalTabletsCount int64     `bson:"totalTabletsCount,omitempty" json:"totalTabletsCount,omitempty"`
	ExpiryDate        time.Time `bson:"expiryDate,omitempty" json:"expiryDate,omitempty"`
	MRP               float64   `bson:"mrp,omitempty" json:"mrp,omitempty"`
	SupplierPrice     float64   `bson:"supplierPrice,omitempty" json:"supplierPrice,omitempty"`
	Rate              float64   `bson:"rate,omitempty" json:"rate,omitempty"`
	Amount            float64   `bson:"amount,omitempty" json:"amount,omitempty"`
	NetAmount         float64   `bson:"netAmount,omitempty" json:"netAmount,omitempty"`
	ScheduleType      string    `bson:"scheduleType,omitempty" json:"scheduleType,omitempty"`
	Manufacturer      string    `bson:"manufacturer,omitempty" json:"manufacturer,omitempty"`
	BarCode           string    `bson:"barCode,omitempty" json:"barCode,omitempty"`
	LicenseNumber     string    `bson:"licenseNumber,omitempty" json:"licenseNumber,omitempty"`
	PackageType       string    `bson:"packageType,omitempty" json:"packageType,omitempty"`
	PackSize          string    `bson:"packSize,omitempty" json:"packSize,omitempty"`
	GST               float64   `bson:"gst,omitempty" json:"gst,omitempty"`
	CGST              float64   `bson:"cGST,omitempty" json:"cGST,omitempty"`
	SGST              float64   `bson:"sGST,omitempty" json:"sGST,omitempty"`
	IGST              float64   `bson:"iGST,omitempty" json:"iGST,omitempty"`
	Discount          string    `bson:"discount,omitempty" json:"discount,omitempty"`
	MaxDiscount       float64   `bson:"maxDiscount,omitempty" json:"maxDiscount,omitempty"`
}

type PatientAddress struct {
	AddressType string `bson:"addressType,omitempty" json:"addressType,omitempty"`
	AddressName string `bson:"addressName,omitempty" json:"addressName,omitempty"`
	HouseNumber string `bson:"houseNumber,omitempty" json:"houseNumber,omitempty"`
	Street      string `bson:"street,omitempty" json:"street,omitempty"`
	LandMark    string `bson:"landMark,omitempty" json:"landMark,omitempty"`
	City        string `bson:"city,omitempty" json:"city,omitempty"`
	State       string `bson:"state,omitempty" json:"state,omitempty"`
	Pincode     int64  `bson:"pincode,omitempty" json:"pincode,omitempty"`
}

type DeliveryAgent struct {
	DeliveryPersonName         string `bson:"deliveryPersonName,omitempty" json:"deliveryPersonName,omitempty"`
	DeliveryPersonMobileNumber string `bson:"deliveryPersonMobileNumber,omitempty" json:"deliveryPersonMobileNumber,omitempty"`
	ThirdPartyInfo             string `bson:"thirdPartyInfo,omitempty" json:"thirdPartyInfo,omitempty"`
}

// Order is a patient medicine order. Status and the matching timestamp are
// set together; netAmount = totalAmount - discount + taxAmount.
type Order struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OrderID               string             `bson:"orderID,omitempty" json:"orderID,omitempty"`
	PatientID             string             `bson:"patientID,omitempty" json:"patientID,omitempty"`
	PatientName           string             `bson:"patientName,omitempty" json:"patientName,omitempty"`
	Age                   string             `bson:"age,omitempty" json:"age,omitempty"`
	MobileNumber          string             `bson:"mobileNumber,omitempty" json:"mobileNumber,omitempty"`
	Gender                string             `bson:"gender,omitempty" json:"gender,omitempty"`
	PatientEmail          string             `bson:"patientEmail,omitempty" json:"patientEmail,omitempty"`
	DoctorName            string             `bson:"doctorName,omitempty" json:"doctorName,omitempty"`
	LicenseNumber         string             `bson:"licenseNumber,omitempty" json:"licenseNumber,omitempty"`
	DrugInfo              []DrugInfo         `bson:"drugInfo,omitempty" json:"drugInfo,omitempty"`
	PatientAddress        *PatientAddress    `bson:"patientAddress,omitempty" json:"patientAddress,omitempty"`
	Discount              float64            `bson:"discount,omitempty" json:"discount,omitempty"`
	TotalAmount           float64            `bson:"totalAmount,omitempty" json:"totalAmount,omitempty"`
	TaxAmount             float64            `bson:"taxAmount,omitempty" json:"taxAmount,omitempty"`
	NetAmount             float64            `bson:"netAmount,omitempty" json:"netAmount,omitempty"`
	Profit                float64            `bson:"profit,omitempty" json:"profit,omitempty"`
	AmountSaved           float64            `bson:"amountSaved,omitempty" json:"amountSaved,omitempty"`
	ModeOfPayment         string             `bson:"modeOfPayment,omitempty" json:"modeOfPayment,omitempty"`
	PaymentStatus         PaymentStatus      `bson:"paymentStatus,omitempty" json:"paymentStatus,omitempty"`
	OrderedOn             time.Time          `bson:"orderedOn,omitempty" json:"orderedOn,omitempty"`
	OrderType             OrderType          `bson:"orderType,omitempty" json:"orderType,omitempty"`
	OrderFrom             OrderChannel       `bson:"orderFrom,omitempty" json:"orderFrom,omitempty"`
	Status                OrderStatus        `bson:"status,omitempty" json:"status,omitempty"`
	ReasonForCancellation string             `bson:"reasonForCancellation,omitempty" json:"reasonForCancellation,omitempty"`
	PaymentID             string             `bson:"paymentID,omitempty" json:"paymentID,omitempty"`
	TransactionID         string             `bson:"transactionID,omitempty" json:"transactionID,omitempty"`
	InvoiceFileName       string             `bson:"invoiceFileName,omitempty" json:"invoiceFileName,omitempty"`
	PrescriptionID        string             `bson:"prescriptionID,omitempty" json:"prescriptionID,omitempty"`
	BillType              BillType           `bson:"billType,omitempty" json:"billType,omitempty"`
	DeliveryAgentDetails  *DeliveryAgent     `bson:"deliveryAgentDetails,omitempty" json:"deliveryAgentDetails,omitempty"`
	OrderedAt             time.Time          `bson:"orderedAt,omitempty" json:"orderedAt,omitempty"`
	OrderConfirmedAt      time.Time          `bson:"orderConfirmedAt,omitempty" json:"orderConfirmedAt,omitempty"`
	OrderDispatchedAt     time.Time          `bson:"orderDispatchedAt,omitempty" json:"orderDispatchedAt,omitempty"`
	OrderReadyAt          time.Time          `bson:"orderReadyAt,omitempty" json:"orderReadyAt,omitempty"`
	OrderDeliveredAt      time.Time          `bson:"orderDeliveredAt,omitempty" json:"orderDeliveredAt,omitempty"`
	OrderCancelledAt      time.Time          `bson:"orderCancelledAt,omitempty" json:"orderCancelledAt,omitempty"`
	PharmaUserID          string             `bson:"pharmaUserId,omitempty" json:"pharmaUserId,omitempty"`
	PlatformDiscount      float64            `bson:"platFormDiscount,omitempty" json:"platFormDiscount,omitempty"`
	CouponID              string             `bson:"couponID,omitempty" json:"couponID,omitempty"`
	CouponCode            string             `bson:"couponCode,omitempty" json:"couponCode,omitempty"`
}

// Patient is the identity record the top-customer report joins against.
type Patient struct {
	ID     string `bson:"_id" json:"id"`
	Name   string `bson:"name" json:"name"`
	Email  string `bson:"email" json:"email"`
	Mobile string `bson:"mobile,omitempty" json:"mobile,omitempty"`
}
